package postgres

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/readnest/readnest-api/internal/domain/entity"
	"github.com/readnest/readnest-api/internal/domain/repository"
)

type BookRepository struct {
	pool *pgxpool.Pool
}

func NewBookRepository(pool *pgxpool.Pool) *BookRepository {
	return &BookRepository{pool: pool}
}

func (r *BookRepository) List(ctx context.Context, f repository.BookFilter) ([]entity.Book, error) {
	query := `
		SELECT id, title, author, genre, published_year, summary, cover_image_url, created_by, created_at, updated_at
		FROM books
		WHERE 1=1`
	args := []any{}

	if f.Genre != "" {
		args = append(args, f.Genre)
		query += ` AND genre = $` + strconv.Itoa(len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := strconv.Itoa(len(args))
		query += ` AND (title ILIKE $` + n + ` OR author ILIKE $` + n + `)`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []entity.Book{}
	for rows.Next() {
		var b entity.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.PublishedYear,
			&b.Summary, &b.CoverImageURL, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *BookRepository) GetByID(ctx context.Context, id string) (*entity.Book, error) {
	b := &entity.Book{}

	row := r.pool.QueryRow(ctx, `
		SELECT id, title, author, genre, published_year, summary, cover_image_url, created_by, created_at, updated_at
		FROM books
		WHERE id = $1
	`, id)

	if err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.PublishedYear,
		&b.Summary, &b.CoverImageURL, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return b, nil
}

func (r *BookRepository) Create(ctx context.Context, b *entity.Book) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO books (title, author, genre, published_year, summary, cover_image_url, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, b.Title, b.Author, b.Genre, b.PublishedYear, b.Summary, b.CoverImageURL, b.CreatedBy)

	return row.Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *BookRepository) Update(ctx context.Context, b *entity.Book) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE books
		SET title = $1, author = $2, genre = $3, published_year = $4, summary = $5, cover_image_url = $6, updated_at = now()
		WHERE id = $7
		RETURNING created_by, created_at, updated_at
	`, b.Title, b.Author, b.Genre, b.PublishedYear, b.Summary, b.CoverImageURL, b.ID)

	if err := row.Scan(&b.CreatedBy, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *BookRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.BookRepository = (*BookRepository)(nil)
