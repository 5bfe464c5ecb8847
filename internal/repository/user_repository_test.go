package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/vaani/internal/testutil"
)

const cost = bcrypt.MinCost

func TestUserRepo_CreateAndDuplicate(t *testing.T) {
	repo := NewUserRepo(testutil.OpenInMemoryDB(t))
	ctx := context.Background()

	id, err := repo.Create(ctx, "meera", "roses", cost)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected positive id")
	}
	before, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if _, err := repo.Create(ctx, "meera", "tulips", cost); !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("duplicate create err = %v, want ErrUsernameExists", err)
	}

	after, err := repo.GetByUsername(ctx, "meera")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if after != before {
		t.Fatalf("duplicate registration modified the original: %+v -> %+v", before, after)
	}
	if _, err := repo.Verify(ctx, "meera", "roses"); err != nil {
		t.Fatalf("original password no longer verifies: %v", err)
	}
}

func TestUserRepo_Verify(t *testing.T) {
	repo := NewUserRepo(testutil.OpenInMemoryDB(t))
	ctx := context.Background()

	passwords := map[string]string{
		"ascii":   "correct horse battery staple",
		"unicode": "फूलों की दुकान-🌸",
		"long":    strings.Repeat("ünïcødé", 30),
	}
	for name, pw := range passwords {
		t.Run(name, func(t *testing.T) {
			if _, err := repo.Create(ctx, "user_"+name, pw, cost); err != nil {
				t.Fatalf("create: %v", err)
			}
			u, err := repo.Verify(ctx, "user_"+name, pw)
			if err != nil {
				t.Fatalf("verify: %v", err)
			}
			if u.Username != "user_"+name || u.PasswordHash == pw {
				t.Fatalf("unexpected user: %+v", u)
			}
			if _, err := repo.Verify(ctx, "user_"+name, pw+"!"); !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("wrong password err = %v", err)
			}
		})
	}

	if _, err := repo.Verify(ctx, "ghost", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user err = %v, want ErrInvalidCredentials", err)
	}
}

func TestUserRepo_UpdatePassword(t *testing.T) {
	repo := NewUserRepo(testutil.OpenInMemoryDB(t))
	ctx := context.Background()

	id, err := repo.Create(ctx, "asha", "old-pass", cost)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.UpdatePassword(ctx, id, "new-pass", cost); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := repo.Verify(ctx, "asha", "old-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password still accepted: %v", err)
	}
	if _, err := repo.Verify(ctx, "asha", "new-pass"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
	if err := repo.UpdatePassword(ctx, id+100, "x", cost); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("update unknown user err = %v", err)
	}
}

func TestUserRepo_CreateWithWebsiteAndDelete(t *testing.T) {
	db := testutil.OpenInMemoryDB(t)
	users := NewUserRepo(db)
	sites := NewWebsiteRepo(db)
	ctx := context.Background()

	id, err := users.CreateWithWebsite(ctx, "ravi", "pw", cost)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	w, err := sites.Get(ctx, id)
	if err != nil {
		t.Fatalf("website row missing after registration: %v", err)
	}
	if w.ShopName != "" || w.Views != 0 {
		t.Fatalf("new website not empty: %+v", w)
	}

	if _, err := users.CreateWithWebsite(ctx, "ravi", "pw", cost); !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("duplicate err = %v", err)
	}

	if err := users.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := users.GetByID(ctx, id); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("user still present: %v", err)
	}
	if _, err := sites.Get(ctx, id); !errors.Is(err, ErrWebsiteNotFound) {
		t.Fatalf("website survived user deletion: %v", err)
	}
	if err := users.Delete(ctx, id); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
}
