package model

// User represents an account record as stored in the `users` table.
// PasswordHash is the bcrypt digest of the pre-hashed password; the
// plain password is never stored.
type User struct {
	ID           uint64 // users.id
	Username     string // users.username (unique)
	PasswordHash string // users.password
}

// Identity is the authenticated principal of a single request.  The session
// middleware decodes it from the signed cookie and stores it in the request
// context; handlers receive it explicitly instead of reading global state.
type Identity struct {
	UserID   uint64
	Username string
}
