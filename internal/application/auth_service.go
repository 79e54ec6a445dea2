package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/readnest/readnest-api/internal/domain/entity"
	"github.com/readnest/readnest-api/internal/domain/repository"
	"github.com/readnest/readnest-api/pkg/helpers"
	"github.com/readnest/readnest-api/pkg/mailer"
	tpl "github.com/readnest/readnest-api/pkg/mailer/templates"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	// ErrInvalidCredentials deliberately covers both unknown email and wrong
	// password so responses cannot be used for account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// EmailPublisher is the subset of the queue publisher the auth flow needs.
type EmailPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type AuthService struct {
	Repo    repository.UserRepository
	JWT     *helpers.JWTManager
	Pub     EmailPublisher
	AppName string
	Logger  *logrus.Logger
}

func NewAuthService(repo repository.UserRepository, jwt *helpers.JWTManager, pub EmailPublisher, appName string, logger *logrus.Logger) *AuthService {
	return &AuthService{Repo: repo, JWT: jwt, Pub: pub, AppName: appName, Logger: logger}
}

type AuthResult struct {
	User        *entity.User
	Token       string
	TokenExpiry time.Time
}

// Register creates a user and issues a token. The email pre-check narrows the
// duplicate window; the users.email unique constraint is the enforcement and
// also surfaces as ErrEmailAlreadyRegistered when two registrations race.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (*AuthResult, error) {
	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailAlreadyRegistered
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{Email: email, Username: username, PasswordHash: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, err
	}

	token, exp, err := s.JWT.GenerateToken(u.ID)
	if err != nil {
		return nil, err
	}

	s.enqueueWelcomeEmail(ctx, u)

	return &AuthResult{User: u, Token: token, TokenExpiry: exp}, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.JWT.GenerateToken(u.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Token: token, TokenExpiry: exp}, nil
}

// GetProfile returns the user for a resolved token identity.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// enqueueWelcomeEmail publishes a welcome job. Best-effort: registration never
// fails because the queue is down.
func (s *AuthService) enqueueWelcomeEmail(ctx context.Context, u *entity.User) {
	if s.Pub == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: tpl.Welcome,
		Data: map[string]any{
			"Username": u.Username,
			"AppName":  s.AppName,
		},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email enqueue failed")
	}
}
