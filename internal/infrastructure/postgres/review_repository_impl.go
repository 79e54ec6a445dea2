package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/readnest/readnest-api/internal/domain/entity"
	"github.com/readnest/readnest-api/internal/domain/repository"
)

type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *entity.Review) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO reviews (book_id, user_id, rating, comment, reading_status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, rv.BookID, rv.UserID, rv.Rating, rv.Comment, rv.ReadingStatus)

	if err := row.Scan(&rv.ID, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return err
	}
	return nil
}

func (r *ReviewRepository) ListByBook(ctx context.Context, bookID string) ([]entity.Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.id, r.book_id, r.user_id, r.rating, r.comment, r.reading_status, u.username, r.created_at, r.updated_at
		FROM reviews r
		JOIN users u ON r.user_id = u.id
		WHERE r.book_id = $1
		ORDER BY r.created_at DESC
	`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []entity.Review{}
	for rows.Next() {
		var rv entity.Review
		if err := rows.Scan(&rv.ID, &rv.BookID, &rv.UserID, &rv.Rating, &rv.Comment,
			&rv.ReadingStatus, &rv.Username, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

// Update restricts the predicate to the owning user. Zero rows affected
// covers both an unknown id and a mismatched owner.
func (r *ReviewRepository) Update(ctx context.Context, rv *entity.Review, userID string) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE reviews
		SET rating = $1, comment = $2, reading_status = $3, updated_at = now()
		WHERE id = $4 AND user_id = $5
		RETURNING id, book_id, user_id, created_at, updated_at
	`, rv.Rating, rv.Comment, rv.ReadingStatus, rv.ID, userID)

	if err := row.Scan(&rv.ID, &rv.BookID, &rv.UserID, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id, userID string) (string, error) {
	var bookID string
	row := r.pool.QueryRow(ctx, `
		DELETE FROM reviews WHERE id = $1 AND user_id = $2 RETURNING book_id
	`, id, userID)
	if err := row.Scan(&bookID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", repository.ErrNotFound
		}
		return "", err
	}
	return bookID, nil
}

var _ repository.ReviewRepository = (*ReviewRepository)(nil)
