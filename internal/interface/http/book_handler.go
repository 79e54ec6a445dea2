package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/readnest/readnest-api/internal/application"
	"github.com/readnest/readnest-api/internal/interface/middleware"
	"github.com/readnest/readnest-api/pkg/response"
	"github.com/readnest/readnest-api/pkg/validation"
)

type BookHandler struct {
	Svc    *application.BookService
	Logger *logrus.Logger
}

func NewBookHandler(svc *application.BookService, logger *logrus.Logger) *BookHandler {
	return &BookHandler{Svc: svc, Logger: logger}
}

type bookRequest struct {
	Title         string `json:"title" binding:"required"`
	Author        string `json:"author" binding:"required"`
	Genre         string `json:"genre"`
	PublishedYear int    `json:"published_year"`
	Summary       string `json:"summary"`
	CoverImageURL string `json:"cover_image_url"`
}

func (r bookRequest) toInput() application.BookInput {
	return application.BookInput{
		Title:         r.Title,
		Author:        r.Author,
		Genre:         r.Genre,
		PublishedYear: r.PublishedYear,
		Summary:       r.Summary,
		CoverImageURL: r.CoverImageURL,
	}
}

// List GET /api/books?genre=&search=
func (h *BookHandler) List(c *gin.Context) {
	books, err := h.Svc.List(c.Request.Context(), c.Query("genre"), c.Query("search"))
	if err != nil {
		h.Logger.WithError(err).Error("list books failed")
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	response.Success(c, http.StatusOK, books, "books", nil)
}

// Get GET /api/books/:id
func (h *BookHandler) Get(c *gin.Context) {
	detail, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrBookNotFound) {
			response.Error[any](c, http.StatusNotFound, "book not found", nil)
			return
		}
		h.Logger.WithError(err).Error("get book failed")
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	response.Success(c, http.StatusOK, detail, "book", nil)
}

// Create POST /api/books
func (h *BookHandler) Create(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	b, err := h.Svc.Create(c.Request.Context(), uid, req.toInput())
	if err != nil {
		h.Logger.WithError(err).Error("create book failed")
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	response.Success(c, http.StatusCreated, b, "book created", nil)
}

// Update PUT /api/books/:id
func (h *BookHandler) Update(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	b, err := h.Svc.Update(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		if errors.Is(err, application.ErrBookNotFound) {
			response.Error[any](c, http.StatusNotFound, "book not found", nil)
			return
		}
		h.Logger.WithError(err).Error("update book failed")
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	response.Success(c, http.StatusOK, b, "book updated", nil)
}

// Delete DELETE /api/books/:id
func (h *BookHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, application.ErrBookNotFound) {
			response.Error[any](c, http.StatusNotFound, "book not found", nil)
			return
		}
		h.Logger.WithError(err).Error("delete book failed")
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "book deleted", nil)
}

// UploadCover POST /api/books/upload-cover (multipart field: cover)
func (h *BookHandler) UploadCover(c *gin.Context) {
	fh, err := c.FormFile("cover")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "no cover file provided", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.Logger.WithError(err).Error("open uploaded cover failed")
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadCover(c.Request.Context(), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, application.ErrUploadsDisabled) {
			response.Error[any](c, http.StatusServiceUnavailable, "cover uploads are not configured", nil)
			return
		}
		h.Logger.WithError(err).Error("cover upload failed")
		response.Error[any](c, http.StatusInternalServerError, "upload failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"url": url}, "cover uploaded", nil)
}
