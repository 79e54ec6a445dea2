package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/readnest/readnest-api/internal/domain/entity"
	"github.com/readnest/readnest-api/internal/domain/repository"
	"github.com/readnest/readnest-api/pkg/helpers"
)

var (
	ErrBookNotFound    = errors.New("book not found")
	ErrUploadsDisabled = errors.New("object storage not configured")
)

type BookService struct {
	Repo         repository.BookRepository
	Reviews      repository.ReviewRepository
	GCS          *storage.Client
	GCSBucket    string
	Redis        *redis.Client
	CacheTTL     time.Duration
	ES           *elasticsearch.Client
	ESBooksIndex string
	Logger       *logrus.Logger
}

func NewBookService(repo repository.BookRepository, reviews repository.ReviewRepository, gcs *storage.Client, gcsBucket string, rdb *redis.Client, cacheTTL time.Duration, es *elasticsearch.Client, esBooksIndex string, logger *logrus.Logger) *BookService {
	return &BookService{
		Repo:         repo,
		Reviews:      reviews,
		GCS:          gcs,
		GCSBucket:    gcsBucket,
		Redis:        rdb,
		CacheTTL:     cacheTTL,
		ES:           es,
		ESBooksIndex: esBooksIndex,
		Logger:       logger,
	}
}

type BookInput struct {
	Title         string
	Author        string
	Genre         string
	PublishedYear int
	Summary       string
	CoverImageURL string
}

func bookCacheKey(id string) string {
	return "book:detail:" + id
}

func (s *BookService) List(ctx context.Context, genre, search string) ([]entity.Book, error) {
	return s.Repo.List(ctx, repository.BookFilter{Genre: genre, Search: search})
}

// Get returns a book with its reviews. The detail payload is cached in Redis
// when available; the cache is advisory and never authoritative.
func (s *BookService) Get(ctx context.Context, id string) (*entity.BookDetail, error) {
	if s.Redis != nil {
		var cached entity.BookDetail
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, bookCacheKey(id), &cached); err == nil && ok {
			return &cached, nil
		}
	}

	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	reviews, err := s.Reviews.ListByBook(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &entity.BookDetail{Book: *b, Reviews: reviews}
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, bookCacheKey(id), detail, s.CacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("book_id", id).Warn("book cache write failed")
		}
	}
	return detail, nil
}

func (s *BookService) Create(ctx context.Context, userID string, in BookInput) (*entity.Book, error) {
	b := &entity.Book{
		Title:         in.Title,
		Author:        in.Author,
		Genre:         in.Genre,
		PublishedYear: in.PublishedYear,
		Summary:       in.Summary,
		CoverImageURL: in.CoverImageURL,
		CreatedBy:     userID,
	}
	if err := s.Repo.Create(ctx, b); err != nil {
		return nil, err
	}
	s.indexBook(ctx, b)
	return b, nil
}

// Update replaces every mutable field. Any authenticated user may update a
// book; only reviews are owner-scoped.
func (s *BookService) Update(ctx context.Context, id string, in BookInput) (*entity.Book, error) {
	b := &entity.Book{
		ID:            id,
		Title:         in.Title,
		Author:        in.Author,
		Genre:         in.Genre,
		PublishedYear: in.PublishedYear,
		Summary:       in.Summary,
		CoverImageURL: in.CoverImageURL,
	}
	if err := s.Repo.Update(ctx, b); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	s.invalidateCache(ctx, id)
	s.indexBook(ctx, b)
	return b, nil
}

func (s *BookService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBookNotFound
		}
		return err
	}
	s.invalidateCache(ctx, id)
	s.deleteBookIndex(ctx, id)
	return nil
}

// UploadCover stores a cover image in the object-storage bucket and returns
// its public URL.
func (s *BookService) UploadCover(ctx context.Context, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", ErrUploadsDisabled
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := fmt.Sprintf("covers/%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
	return helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
}

// InvalidateCache drops the cached detail payload for a book. Review
// mutations call this through their service.
func (s *BookService) InvalidateCache(ctx context.Context, bookID string) {
	s.invalidateCache(ctx, bookID)
}

func (s *BookService) invalidateCache(ctx context.Context, bookID string) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, bookCacheKey(bookID)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("book_id", bookID).Warn("book cache invalidation failed")
	}
}

// indexBook mirrors the catalog into Elasticsearch when configured.
// Best-effort: indexing failures never fail the request.
func (s *BookService) indexBook(ctx context.Context, b *entity.Book) {
	if s.ES == nil || s.ESBooksIndex == "" {
		return
	}
	doc, _ := json.Marshal(b)
	req := esapi.IndexRequest{Index: s.ESBooksIndex, DocumentID: b.ID, Body: strings.NewReader(string(doc)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("book_id", b.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
}

func (s *BookService) deleteBookIndex(ctx context.Context, id string) {
	if s.ES == nil || s.ESBooksIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESBooksIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("book_id", id).Warn("es delete failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
}
