package repository

import (
	"context"

	"github.com/readnest/readnest-api/internal/domain/entity"
)

// ReviewRepository defines the interface for review operations.
// Update and Delete scope their predicate to (id, userID); a missing row and
// a row owned by another user are both reported as ErrNotFound.
type ReviewRepository interface {
	Create(ctx context.Context, r *entity.Review) error
	ListByBook(ctx context.Context, bookID string) ([]entity.Review, error)
	Update(ctx context.Context, r *entity.Review, userID string) error
	// Delete returns the book id of the removed review.
	Delete(ctx context.Context, id, userID string) (string, error)
}
