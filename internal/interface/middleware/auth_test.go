package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/readnest/readnest-api/pkg/helpers"
)

func newAuthRouter(jwt *helpers.JWTManager) (*gin.Engine, *bool) {
	gin.SetMode(gin.TestMode)
	reached := false
	r := gin.New()
	r.GET("/protected", Auth(jwt), func(c *gin.Context) {
		reached = true
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(CtxUserIDKey)})
	})
	return r, &reached
}

func TestAuth_ValidToken(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	tok, _, err := jwt.GenerateToken("user-1")
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	r, reached := newAuthRouter(jwt)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200, body %s", w.Code, w.Body.String())
	}
	if !*reached {
		t.Fatal("handler should have been invoked")
	}
	if !strings.Contains(w.Body.String(), "user-1") {
		t.Fatalf("resolved user id missing from body: %s", w.Body.String())
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	r, reached := newAuthRouter(jwt)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want 401", w.Code)
	}
	if *reached {
		t.Fatal("handler must not run on rejection")
	}
}

func TestAuth_Rejections(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)

	expired := helpers.NewJWTManager("secret", -time.Minute)
	expiredTok, _, _ := expired.GenerateToken("user-1")

	wrongKey := helpers.NewJWTManager("other-secret", time.Hour)
	wrongKeyTok, _, _ := wrongKey.GenerateToken("user-1")

	cases := []struct {
		name   string
		header string
	}{
		{"no bearer prefix", "Token abc"},
		{"malformed token", "Bearer not.a.jwt"},
		{"expired token", "Bearer " + expiredTok},
		{"wrong signing key", "Bearer " + wrongKeyTok},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, reached := newAuthRouter(jwt)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", tc.header)
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status: got %d want 401", w.Code)
			}
			if *reached {
				t.Fatal("handler must not run on rejection")
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header, want string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"}, // scheme is case-insensitive
		{"Bearer ", ""},
		{"abc", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := bearerToken(tc.header); got != tc.want {
			t.Errorf("bearerToken(%q): got %q want %q", tc.header, got, tc.want)
		}
	}
}
