package domain

import "time"

// Thread groups related tasks. Tasks reference a thread but never own it.
type Thread struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks that the thread has a title and an owner.
func (t *Thread) Validate() error {
	if t.Title == "" {
		return ErrEmptyThreadTitle
	}
	if t.UserID <= 0 {
		return ErrEmptyThreadUserID
	}
	return nil
}

// OwnedBy reports whether userID owns the thread.
func (t *Thread) OwnedBy(userID int64) bool {
	return t.UserID != 0 && t.UserID == userID
}
