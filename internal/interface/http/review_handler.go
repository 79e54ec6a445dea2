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

type ReviewHandler struct {
	Svc    *application.ReviewService
	Logger *logrus.Logger
}

func NewReviewHandler(svc *application.ReviewService, logger *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{Svc: svc, Logger: logger}
}

type createReviewRequest struct {
	BookID        string `json:"book_id" binding:"required"`
	Rating        int    `json:"rating" binding:"required,gte=1,lte=5"`
	Comment       string `json:"comment"`
	ReadingStatus string `json:"reading_status" binding:"required,oneof=to_read reading read"`
}

type updateReviewRequest struct {
	Rating        int    `json:"rating" binding:"required,gte=1,lte=5"`
	Comment       string `json:"comment"`
	ReadingStatus string `json:"reading_status" binding:"required,oneof=to_read reading read"`
}

// Create POST /api/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	rv, err := h.Svc.Create(c.Request.Context(), uid, application.ReviewInput{
		BookID:        req.BookID,
		Rating:        req.Rating,
		Comment:       req.Comment,
		ReadingStatus: req.ReadingStatus,
	})
	if err != nil {
		if errors.Is(err, application.ErrDuplicateReview) {
			response.Error[any](c, http.StatusBadRequest, "review already exists for this book", nil)
			return
		}
		h.Logger.WithError(err).Error("create review failed")
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	response.Success(c, http.StatusCreated, rv, "review created", nil)
}

// Update PUT /api/reviews/:id
func (h *ReviewHandler) Update(c *gin.Context) {
	var req updateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	rv, err := h.Svc.Update(c.Request.Context(), uid, c.Param("id"), application.ReviewInput{
		Rating:        req.Rating,
		Comment:       req.Comment,
		ReadingStatus: req.ReadingStatus,
	})
	if err != nil {
		if errors.Is(err, application.ErrReviewNotFound) {
			// Missing review and foreign-owned review are indistinguishable.
			response.Error[any](c, http.StatusNotFound, "review not found or not authorized", nil)
			return
		}
		h.Logger.WithError(err).Error("update review failed")
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	response.Success(c, http.StatusOK, rv, "review updated", nil)
}

// Delete DELETE /api/reviews/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		if errors.Is(err, application.ErrReviewNotFound) {
			response.Error[any](c, http.StatusNotFound, "review not found or not authorized", nil)
			return
		}
		h.Logger.WithError(err).Error("delete review failed")
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "review deleted", nil)
}
