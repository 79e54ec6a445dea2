package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/readnest/readnest-api/internal/interface/http"
	"github.com/readnest/readnest-api/internal/interface/middleware"
	"github.com/readnest/readnest-api/pkg/helpers"
)

type BookModule struct {
	Handler *handlers.BookHandler
	JWT     *helpers.JWTManager
}

func NewBookModule(h *handlers.BookHandler, jwt *helpers.JWTManager) *BookModule {
	return &BookModule{Handler: h, JWT: jwt}
}

func (m *BookModule) Register(rg *gin.RouterGroup) {
	books := rg.Group("/books")
	books.Use(middleware.Auth(m.JWT))
	{
		books.GET("", m.Handler.List)
		// register upload-cover before :id so the static segment wins
		books.POST("/upload-cover", m.Handler.UploadCover)
		books.GET("/:id", m.Handler.Get)
		books.POST("", m.Handler.Create)
		books.PUT("/:id", m.Handler.Update)
		books.DELETE("/:id", m.Handler.Delete)
	}
}
