package entity

import "time"

// Reading status values accepted for a review.
const (
	StatusToRead  = "to_read"
	StatusReading = "reading"
	StatusRead    = "read"
)

// Review is one user's take on one book. At most one review exists per
// (BookID, UserID) pair; only the owner may change or delete it.
type Review struct {
	ID            string    `json:"id"`
	BookID        string    `json:"book_id"`
	UserID        string    `json:"user_id"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	ReadingStatus string    `json:"reading_status"`
	Username      string    `json:"username,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
