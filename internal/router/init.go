package router

import (
	"github.com/readnest/readnest-api/internal/application"
	"github.com/readnest/readnest-api/internal/container"
	pginfra "github.com/readnest/readnest-api/internal/infrastructure/postgres"
	handlers "github.com/readnest/readnest-api/internal/interface/http"
	"github.com/readnest/readnest-api/internal/router/modules"
)

// InitModules initializes all application modules and registers them with the
// router registry. Called once during application startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()

	userRepo := pginfra.NewUserRepository(container.GetPGPool())
	bookRepo := pginfra.NewBookRepository(container.GetPGPool())
	reviewRepo := pginfra.NewReviewRepository(container.GetPGPool())

	authSvc := application.NewAuthService(userRepo, jwt, publisherOrNil(), cfg.AppName, logger)
	bookSvc := application.NewBookService(
		bookRepo,
		reviewRepo,
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetRedis(),
		cfg.BookCacheTTL,
		container.GetES(),
		cfg.ESBooksIndex,
		logger,
	)
	reviewSvc := application.NewReviewService(reviewRepo, userRepo, bookSvc, logger)

	r.Add(modules.NewHealthModule(handlers.NewHealthHandler()))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger), jwt))
	r.Add(modules.NewBookModule(handlers.NewBookHandler(bookSvc, logger), jwt))
	r.Add(modules.NewReviewModule(handlers.NewReviewHandler(reviewSvc, logger), jwt))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}

// publisherOrNil returns the queue publisher as the interface the auth
// service consumes, keeping the nil check on the concrete type.
func publisherOrNil() application.EmailPublisher {
	if p := container.GetRabbitPub(); p != nil {
		return p
	}
	return nil
}
