package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
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

// in-memory repositories backing handler tests

type memUserRepo struct {
	users  map[string]*entity.User
	nextID int
}

func newMemUserRepo() *memUserRepo { return &memUserRepo{users: map[string]*entity.User{}} }

func (m *memUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return repository.ErrConflict
		}
	}
	m.nextID++
	u.ID = fmt.Sprintf("u%d", m.nextID)
	u.CreatedAt = time.Now()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func newAuthTestRouter(t *testing.T) (*gin.Engine, *memUserRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	repo := newMemUserRepo()
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	svc := application.NewAuthService(repo, jwt, nil, "readnest-test", helpers.NewLogger("test", "test"))
	h := NewAuthHandler(svc, helpers.NewLogger("test", "test"))

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.GET("/auth/me", middleware.Auth(jwt), h.Me)
	return r, repo
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Status  int            `json:"status"`
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
	Error   any            `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e
}

func TestRegisterLoginMeFlow(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"email": "a@x.com", "username": "a", "password": "password1",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	reg := decodeEnvelope(t, w)
	token, _ := reg.Data["token"].(string)
	require.NotEmpty(t, token)

	user, _ := reg.Data["user"].(map[string]any)
	require.Equal(t, "a@x.com", user["email"])
	require.Equal(t, "a", user["username"])
	require.Contains(t, user, "id")
	require.Contains(t, user, "created_at")
	require.NotContains(t, user, "password")
	require.NotContains(t, user, "password_hash")

	// Login with the same credentials succeeds
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "a@x.com", "password": "password1",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The token resolves to the same user through the gateway
	w = doJSON(t, r, http.MethodGet, "/api/auth/me", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	me := decodeEnvelope(t, w)
	require.Equal(t, user["id"], me.Data["id"])
	require.Equal(t, "a@x.com", me.Data["email"])
	require.NotContains(t, me.Data, "password_hash")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	r, repo := newAuthTestRouter(t)

	payload := gin.H{"email": "a@x.com", "username": "a", "password": "password1"}
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", payload, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/register", payload, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "email already registered", decodeEnvelope(t, w).Message)
	require.Len(t, repo.users, 1)
}

func TestRegister_InvalidPayload(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"email": "not-an-email", "username": "a", "password": "short",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_IndistinguishableFailures(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"email": "a@x.com", "username": "a", "password": "password1",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	wrongPwd := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "a@x.com", "password": "wrong-password",
	}, nil)
	unknownEmail := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "nobody@x.com", "password": "password1",
	}, nil)

	require.Equal(t, http.StatusUnauthorized, wrongPwd.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)

	// Identical shape: same status, message, data, and error detail
	a := decodeEnvelope(t, wrongPwd)
	b := decodeEnvelope(t, unknownEmail)
	require.Equal(t, a.Status, b.Status)
	require.Equal(t, a.Message, b.Message)
	require.Equal(t, a.Data, b.Data)
	require.Equal(t, a.Error, b.Error)
}

func TestMe_UnknownUser(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	tok, _, err := jwt.GenerateToken("no-such-user")
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodGet, "/api/auth/me", nil, map[string]string{
		"Authorization": "Bearer " + tok,
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestMe_RequiresToken(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/auth/me", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegister_ShortPasswordAccepted(t *testing.T) {
	r, repo := newAuthTestRouter(t)

	// Password length is not policed at the boundary.
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"email": "a@x.com", "username": "a", "password": "pw1",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	e := decodeEnvelope(t, w)
	token, _ := e.Data["token"].(string)
	require.NotEmpty(t, token)
	require.Len(t, repo.users, 1)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "a@x.com", "password": "pw1",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

// downUserRepo fails every lookup, as a storage outage would.
type downUserRepo struct{ memUserRepo }

var errStorageDown = errors.New("connection refused")

func (r *downUserRepo) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, errStorageDown
}

func (r *downUserRepo) GetByID(context.Context, string) (*entity.User, error) {
	return nil, errStorageDown
}

func newAuthRouterWithRepo(t *testing.T, repo repository.UserRepository) (*gin.Engine, *helpers.JWTManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	logger := helpers.NewLogger("test", "test")
	svc := application.NewAuthService(repo, jwt, nil, "readnest-test", logger)
	h := NewAuthHandler(svc, logger)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/login", h.Login)
	api.GET("/auth/me", middleware.Auth(jwt), h.Me)
	return r, jwt
}

func TestLogin_StorageOutageIs500(t *testing.T) {
	r, _ := newAuthRouterWithRepo(t, &downUserRepo{})

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "a@x.com", "password": "password1",
	}, nil)
	require.Equal(t, http.StatusInternalServerError, w.Code, "outage must not read as bad credentials")
	require.NotEqual(t, "invalid credentials", decodeEnvelope(t, w).Message)
}

func TestMe_StorageOutageIs500(t *testing.T) {
	r, jwt := newAuthRouterWithRepo(t, &downUserRepo{})
	tok, _, err := jwt.GenerateToken("u1")
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodGet, "/api/auth/me", nil, map[string]string{
		"Authorization": "Bearer " + tok,
	})
	require.Equal(t, http.StatusInternalServerError, w.Code)
}
