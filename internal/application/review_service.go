package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/readnest/readnest-api/internal/domain/entity"
	"github.com/readnest/readnest-api/internal/domain/repository"
)

var (
	ErrDuplicateReview = errors.New("review already exists for this book")
	// ErrReviewNotFound covers both a missing review and one owned by another
	// user; the distinction must not leak.
	ErrReviewNotFound = errors.New("review not found or not owned")
)

type ReviewService struct {
	Repo   repository.ReviewRepository
	Users  repository.UserRepository
	Books  *BookService
	Logger *logrus.Logger
}

func NewReviewService(repo repository.ReviewRepository, users repository.UserRepository, books *BookService, logger *logrus.Logger) *ReviewService {
	return &ReviewService{Repo: repo, Users: users, Books: books, Logger: logger}
}

type ReviewInput struct {
	BookID        string
	Rating        int
	Comment       string
	ReadingStatus string
}

// Create persists a review for (BookID, userID). The unique constraint on
// (book_id, user_id) is the enforcement for one-review-per-user-per-book.
func (s *ReviewService) Create(ctx context.Context, userID string, in ReviewInput) (*entity.Review, error) {
	rv := &entity.Review{
		BookID:        in.BookID,
		UserID:        userID,
		Rating:        in.Rating,
		Comment:       in.Comment,
		ReadingStatus: in.ReadingStatus,
	}
	if err := s.Repo.Create(ctx, rv); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}
	s.attachUsername(ctx, rv)
	if s.Books != nil {
		s.Books.InvalidateCache(ctx, rv.BookID)
	}
	return rv, nil
}

func (s *ReviewService) Update(ctx context.Context, userID, id string, in ReviewInput) (*entity.Review, error) {
	rv := &entity.Review{
		ID:            id,
		Rating:        in.Rating,
		Comment:       in.Comment,
		ReadingStatus: in.ReadingStatus,
	}
	if err := s.Repo.Update(ctx, rv, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	s.attachUsername(ctx, rv)
	if s.Books != nil {
		s.Books.InvalidateCache(ctx, rv.BookID)
	}
	return rv, nil
}

func (s *ReviewService) Delete(ctx context.Context, userID, id string) error {
	bookID, err := s.Repo.Delete(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	if s.Books != nil {
		s.Books.InvalidateCache(ctx, bookID)
	}
	return nil
}

func (s *ReviewService) attachUsername(ctx context.Context, rv *entity.Review) {
	u, err := s.Users.GetByID(ctx, rv.UserID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", rv.UserID).Warn("review username lookup failed")
		}
		return
	}
	rv.Username = u.Username
}
