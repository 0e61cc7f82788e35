package domain

import "time"

// User is an account able to sign in and own threads and tasks.
// PasswordHash is never serialized.
type User struct {
	ID           int64     `json:"id"`
	LoginName    string    `json:"login_name"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Validate checks the fields required to persist a user.
func (u *User) Validate() error {
	if u.LoginName == "" {
		return ErrEmptyLoginName
	}
	if u.PasswordHash == "" {
		return ErrEmptyPasswordHash
	}
	return nil
}
