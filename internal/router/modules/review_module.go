package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/readnest/readnest-api/internal/interface/http"
	"github.com/readnest/readnest-api/internal/interface/middleware"
	"github.com/readnest/readnest-api/pkg/helpers"
)

type ReviewModule struct {
	Handler *handlers.ReviewHandler
	JWT     *helpers.JWTManager
}

func NewReviewModule(h *handlers.ReviewHandler, jwt *helpers.JWTManager) *ReviewModule {
	return &ReviewModule{Handler: h, JWT: jwt}
}

func (m *ReviewModule) Register(rg *gin.RouterGroup) {
	reviews := rg.Group("/reviews")
	reviews.Use(middleware.Auth(m.JWT))
	{
		reviews.POST("", m.Handler.Create)
		reviews.PUT("/:id", m.Handler.Update)
		reviews.DELETE("/:id", m.Handler.Delete)
	}
}
