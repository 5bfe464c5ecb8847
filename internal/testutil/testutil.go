// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/iliyamo/vaani/internal/database"
	"github.com/iliyamo/vaani/internal/utils"
)

// SessionCookieName mirrors middleware.SessionCookie; duplicated to keep
// testutil free of the middleware import.
const SessionCookieName = "vaani_session"

var dbSeq atomic.Int64

// OpenInMemoryDB opens a private in-memory SQLite database with the schema
// applied.  The database is closed when the test ends.
func OpenInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := "file:vaanitest" + strconv.FormatInt(dbSeq.Add(1), 10) + "?mode=memory&cache=shared"
	d, err := database.Open(context.Background(), "sqlite3", dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// SessionCookie returns a signed session cookie for the given user.
func SessionCookie(t *testing.T, secret string, userID uint64, username string) *http.Cookie {
	t.Helper()
	tok, err := utils.NewSessionToken(secret, userID, username, time.Hour)
	if err != nil {
		t.Fatalf("sign session: %v", err)
	}
	return &http.Cookie{Name: SessionCookieName, Value: tok.Token}
}
