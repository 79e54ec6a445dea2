package entity

import "time"

// Book is a catalog entry. CreatedBy references the creating user but does
// not restrict mutation: any authenticated user may update or delete a book.
type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genre         string    `json:"genre"`
	PublishedYear int       `json:"published_year"`
	Summary       string    `json:"summary"`
	CoverImageURL string    `json:"cover_image_url"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BookDetail is a book together with its reviews.
type BookDetail struct {
	Book
	Reviews []Review `json:"reviews"`
}
