package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/readnest/readnest-api/internal/application"
	"github.com/readnest/readnest-api/internal/domain/entity"
	"github.com/readnest/readnest-api/internal/domain/repository"
	"github.com/readnest/readnest-api/internal/interface/middleware"
	"github.com/readnest/readnest-api/pkg/helpers"
	"github.com/readnest/readnest-api/pkg/validation"
)

type memReviewRepo struct {
	reviews map[string]*entity.Review
	nextID  int
}

func newMemReviewRepo() *memReviewRepo { return &memReviewRepo{reviews: map[string]*entity.Review{}} }

func (m *memReviewRepo) Create(_ context.Context, rv *entity.Review) error {
	for _, existing := range m.reviews {
		if existing.BookID == rv.BookID && existing.UserID == rv.UserID {
			return repository.ErrConflict
		}
	}
	m.nextID++
	rv.ID = fmt.Sprintf("r%d", m.nextID)
	rv.CreatedAt = time.Now()
	rv.UpdatedAt = rv.CreatedAt
	cp := *rv
	m.reviews[rv.ID] = &cp
	return nil
}

func (m *memReviewRepo) ListByBook(_ context.Context, bookID string) ([]entity.Review, error) {
	out := []entity.Review{}
	for _, rv := range m.reviews {
		if rv.BookID == bookID {
			out = append(out, *rv)
		}
	}
	return out, nil
}

func (m *memReviewRepo) Update(_ context.Context, rv *entity.Review, userID string) error {
	existing, ok := m.reviews[rv.ID]
	if !ok || existing.UserID != userID {
		return repository.ErrNotFound
	}
	existing.Rating = rv.Rating
	existing.Comment = rv.Comment
	existing.ReadingStatus = rv.ReadingStatus
	existing.UpdatedAt = time.Now()
	rv.BookID = existing.BookID
	rv.UserID = existing.UserID
	rv.CreatedAt = existing.CreatedAt
	rv.UpdatedAt = existing.UpdatedAt
	return nil
}

func (m *memReviewRepo) Delete(_ context.Context, id, userID string) (string, error) {
	existing, ok := m.reviews[id]
	if !ok || existing.UserID != userID {
		return "", repository.ErrNotFound
	}
	delete(m.reviews, id)
	return existing.BookID, nil
}

var _ repository.ReviewRepository = (*memReviewRepo)(nil)

type reviewFixture struct {
	router  *gin.Engine
	reviews *memReviewRepo
	jwt     *helpers.JWTManager
	userID  string
}

func newReviewTestRouter(t *testing.T) *reviewFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	users := newMemUserRepo()
	u := &entity.User{Email: "a@x.com", Username: "a", PasswordHash: "x"}
	require.NoError(t, users.Create(context.Background(), u))

	reviews := newMemReviewRepo()
	logger := helpers.NewLogger("test", "test")
	svc := application.NewReviewService(reviews, users, nil, logger)
	h := NewReviewHandler(svc, logger)
	jwt := helpers.NewJWTManager("test-secret", time.Hour)

	r := gin.New()
	api := r.Group("/api")
	g := api.Group("/reviews")
	g.Use(middleware.Auth(jwt))
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)

	return &reviewFixture{router: r, reviews: reviews, jwt: jwt, userID: u.ID}
}

func (f *reviewFixture) authHeader(t *testing.T, userID string) map[string]string {
	t.Helper()
	tok, _, err := f.jwt.GenerateToken(userID)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + tok}
}

func TestReviewCreate(t *testing.T) {
	f := newReviewTestRouter(t)

	w := doJSON(t, f.router, http.MethodPost, "/api/reviews", gin.H{
		"book_id": "b1", "rating": 5, "comment": "great", "reading_status": "read",
	}, f.authHeader(t, f.userID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	e := decodeEnvelope(t, w)
	require.Equal(t, "a", e.Data["username"], "review is enriched with the acting username")
	require.Equal(t, f.userID, e.Data["user_id"])
}

func TestReviewCreate_Duplicate(t *testing.T) {
	f := newReviewTestRouter(t)
	hdr := f.authHeader(t, f.userID)

	payload := gin.H{"book_id": "b1", "rating": 5, "comment": "great", "reading_status": "read"}
	w := doJSON(t, f.router, http.MethodPost, "/api/reviews", payload, hdr)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, f.router, http.MethodPost, "/api/reviews", gin.H{
		"book_id": "b1", "rating": 1, "comment": "again", "reading_status": "read",
	}, hdr)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Original review unchanged
	for _, rv := range f.reviews.reviews {
		require.Equal(t, 5, rv.Rating)
		require.Equal(t, "great", rv.Comment)
	}
}

func TestReviewCreate_RejectsBadStatus(t *testing.T) {
	f := newReviewTestRouter(t)

	w := doJSON(t, f.router, http.MethodPost, "/api/reviews", gin.H{
		"book_id": "b1", "rating": 5, "comment": "x", "reading_status": "devoured",
	}, f.authHeader(t, f.userID))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewUpdateDelete_ForeignOrMissingLookAlike(t *testing.T) {
	f := newReviewTestRouter(t)
	owner := f.authHeader(t, f.userID)
	stranger := f.authHeader(t, "someone-else")

	w := doJSON(t, f.router, http.MethodPost, "/api/reviews", gin.H{
		"book_id": "b1", "rating": 3, "comment": "ok", "reading_status": "reading",
	}, owner)
	require.Equal(t, http.StatusCreated, w.Code)
	id, _ := decodeEnvelope(t, w).Data["id"].(string)
	require.NotEmpty(t, id)

	update := gin.H{"rating": 1, "comment": "no", "reading_status": "read"}

	foreign := doJSON(t, f.router, http.MethodPut, "/api/reviews/"+id, update, stranger)
	missing := doJSON(t, f.router, http.MethodPut, "/api/reviews/ghost", update, owner)
	require.Equal(t, http.StatusNotFound, foreign.Code)
	require.Equal(t, http.StatusNotFound, missing.Code)
	require.Equal(t, decodeEnvelope(t, foreign).Message, decodeEnvelope(t, missing).Message)

	del := doJSON(t, f.router, http.MethodDelete, "/api/reviews/"+id, nil, stranger)
	require.Equal(t, http.StatusNotFound, del.Code)
	require.Len(t, f.reviews.reviews, 1)

	del = doJSON(t, f.router, http.MethodDelete, "/api/reviews/"+id, nil, owner)
	require.Equal(t, http.StatusOK, del.Code)
	require.Empty(t, f.reviews.reviews)
}

func TestReviewUpdate_Owner(t *testing.T) {
	f := newReviewTestRouter(t)
	owner := f.authHeader(t, f.userID)

	w := doJSON(t, f.router, http.MethodPost, "/api/reviews", gin.H{
		"book_id": "b1", "rating": 3, "comment": "ok", "reading_status": "reading",
	}, owner)
	require.Equal(t, http.StatusCreated, w.Code)
	id, _ := decodeEnvelope(t, w).Data["id"].(string)

	w = doJSON(t, f.router, http.MethodPut, "/api/reviews/"+id, gin.H{
		"rating": 4, "comment": "finished it", "reading_status": "read",
	}, owner)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	e := decodeEnvelope(t, w)
	require.EqualValues(t, 4, e.Data["rating"])
	require.Equal(t, "read", e.Data["reading_status"])
}
