package repository

import (
	"context"

	"github.com/readnest/readnest-api/internal/domain/entity"
)

// BookFilter narrows List results. Zero values mean "no filter".
type BookFilter struct {
	Genre  string
	Search string // matched against title and author, case-insensitive
}

// BookRepository defines the interface for catalog operations.
type BookRepository interface {
	List(ctx context.Context, f BookFilter) ([]entity.Book, error)
	GetByID(ctx context.Context, id string) (*entity.Book, error)
	Create(ctx context.Context, b *entity.Book) error
	Update(ctx context.Context, b *entity.Book) error
	Delete(ctx context.Context, id string) error
}
