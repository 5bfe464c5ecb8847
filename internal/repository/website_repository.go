package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/vaani/internal/logger"
	"github.com/iliyamo/vaani/internal/model"
)

// WebsiteRepo is the content store backed by the `websites` table.  It has
// two deliberately separate write policies: ApplyPartialUpdate for command
// edits and ReplaceAll for the manual save form.
type WebsiteRepo struct{ DB *sql.DB }

func NewWebsiteRepo(db *sql.DB) *WebsiteRepo { return &WebsiteRepo{DB: db} }

// Get returns the user's website row or ErrWebsiteNotFound.
func (r *WebsiteRepo) Get(ctx context.Context, userID uint64) (model.Website, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var (
		w                                        model.Website
		shopName, description, announce, imgURL sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, shop_name, description, announcement, image_url, views
		   FROM websites WHERE user_id = ? LIMIT 1`, userID).
		Scan(&w.ID, &w.UserID, &shopName, &description, &announce, &imgURL, &w.Views)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Website{}, ErrWebsiteNotFound
	}
	if err != nil {
		return model.Website{}, err
	}
	w.ShopName = shopName.String
	w.Description = description.String
	w.Announcement = announce.String
	w.ImageURL = imgURL.String
	return w, nil
}

// Create inserts an empty website row for the user.
func (r *WebsiteRepo) Create(ctx context.Context, userID uint64) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	res, err := r.DB.ExecContext(ctx, `INSERT INTO websites (user_id) VALUES (?)`, userID)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ApplyPartialUpdate writes only the fields set in p; every other column
// keeps its stored value.  A missing row is created with the patched fields.
func (r *WebsiteRepo) ApplyPartialUpdate(ctx context.Context, userID uint64, p model.WebsitePatch) error {
	if p.Empty() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var (
		sets []string
		args []any
	)
	add := func(col string, v *string) {
		if v != nil {
			sets = append(sets, col+" = ?")
			args = append(args, *v)
		}
	}
	add("shop_name", p.ShopName)
	add("description", p.Description)
	add("announcement", p.Announcement)
	add("image_url", p.ImageURL)

	res, err := r.DB.ExecContext(ctx,
		"UPDATE websites SET "+strings.Join(sets, ", ")+" WHERE user_id = ?",
		append(args, userID)...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil || n > 0 {
		return err
	}
	return r.insert(ctx, userID, p.ShopName, p.Description, p.Announcement, p.ImageURL)
}

// ReplaceAll overwrites all four editable fields with f, empty values
// included.  A missing row is created.
func (r *WebsiteRepo) ReplaceAll(ctx context.Context, userID uint64, f model.WebsiteFields) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.DB.ExecContext(ctx,
		`UPDATE websites SET shop_name = ?, description = ?, announcement = ?, image_url = ?
		  WHERE user_id = ?`,
		f.ShopName, f.Description, f.Announcement, f.ImageURL, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil || n > 0 {
		return err
	}
	return r.insert(ctx, userID, &f.ShopName, &f.Description, &f.Announcement, &f.ImageURL)
}

func (r *WebsiteRepo) insert(ctx context.Context, userID uint64, shopName, description, announcement, imageURL *string) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO websites (user_id, shop_name, description, announcement, image_url)
		 VALUES (?, ?, ?, ?, ?)`,
		userID, nullable(shopName), nullable(description), nullable(announcement), nullable(imageURL))
	return err
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// IncrementView adds one to the view counter in a single statement.
// Failures (including a missing row) are logged and reported as false.
func (r *WebsiteRepo) IncrementView(ctx context.Context, userID uint64) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.DB.ExecContext(ctx, `UPDATE websites SET views = views + 1 WHERE user_id = ?`, userID)
	if err != nil {
		logger.FromContext(ctx).Error("increment view failed", "user_id", userID, "err", err)
		return false
	}
	n, err := res.RowsAffected()
	if err != nil || n == 0 {
		logger.FromContext(ctx).Warn("increment view affected no row", "user_id", userID, "err", err)
		return false
	}
	return true
}

// Delete removes the user's website row.
func (r *WebsiteRepo) Delete(ctx context.Context, userID uint64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := r.DB.ExecContext(ctx, `DELETE FROM websites WHERE user_id = ?`, userID)
	return err
}
