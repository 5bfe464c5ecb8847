// Package repository holds the credential and content stores.  Sentinel
// errors let handlers distinguish failure scenarios without inspecting
// driver-specific errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

// ErrUsernameExists is returned when registering a username that is taken.
// Handlers translate it into an HTTP 400 response.
var ErrUsernameExists = errors.New("username already exists")

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrInvalidCredentials covers both unknown usernames and wrong passwords so
// callers cannot tell which one failed.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrWebsiteNotFound is returned when the user has no content row.
var ErrWebsiteNotFound = errors.New("website not found")

// isUniqueViolation recognises duplicate-key errors from both supported drivers.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return false
}
