package models

import "time"

// PasswordResetToken is the single outstanding reset code for an email.
// Email is the primary key: issuing a new code replaces the old row.
type PasswordResetToken struct {
	Email     string
	Token     string
	ExpiresAt time.Time
}
