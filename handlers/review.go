package handlers

import (
	"net/http"

	"homeserve/middleware"
	"homeserve/models"
	"homeserve/services/review"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	Reviews review.ReviewService
}

func NewReviewHandler(rs review.ReviewService) *ReviewHandler {
	return &ReviewHandler{Reviews: rs}
}

// SubmitReviewHandler answers 201 for a new review and 200 when the
// booking's existing review was updated.
func (h *ReviewHandler) SubmitReviewHandler(c *gin.Context) {
	var req models.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	r, created, err := h.Reviews.Submit(c.Request.Context(), middleware.AccountID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, r)
}

func (h *ReviewHandler) ListMineHandler(c *gin.Context) {
	list, err := h.Reviews.ListMine(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ReviewHandler) GetByBookingHandler(c *gin.Context) {
	r, err := h.Reviews.GetByBooking(c.Request.Context(), middleware.AccountID(c), c.Param("bookingId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *ReviewHandler) DeleteReviewHandler(c *gin.Context) {
	if err := h.Reviews.Delete(c.Request.Context(), middleware.AccountID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
