package models

import "time"

// User is one account record. PasswordDigest holds an encoded argon2id digest
// (see internal/cryptox), never the password itself. TOTPSecret is the base32
// secret written once at signup; TOTPConfirmed flips on the first successful
// setup verification and is informational only, the login flow does not gate
// on it.
type User struct {
	ID             string
	UserName       string
	PasswordDigest string
	TOTPSecret     string
	TOTPConfirmed  bool
	CreatedAt      time.Time
}
