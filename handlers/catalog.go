package handlers

import (
	"net/http"
	"strconv"

	"homeserve/models"
	"homeserve/services/apperr"
	"homeserve/services/review"
	"homeserve/services/worker"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the public browse endpoints of the client app.
type CatalogHandler struct {
	Workers worker.WorkerService
	Reviews review.ReviewService
}

func NewCatalogHandler(ws worker.WorkerService, rs review.ReviewService) *CatalogHandler {
	return &CatalogHandler{Workers: ws, Reviews: rs}
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, apperr.Validation(key, "must be a non-negative integer")
	}
	return v, nil
}

// pagination reads page and limit from the query string.
func pagination(c *gin.Context) (int, int, error) {
	page, err := queryInt(c, "page")
	if err != nil {
		return 0, 0, err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}

func (h *CatalogHandler) ListServicesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, models.ServiceCategories)
}

func (h *CatalogHandler) SearchWorkersHandler(c *gin.Context) {
	page, limit, err := pagination(c)
	if err != nil {
		respondError(c, err)
		return
	}
	criteria := models.WorkerSearchCriteria{
		Category: c.Query("category"),
		City:     c.Query("city"),
		Page:     page,
		Limit:    limit,
	}
	if raw := c.Query("minRating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(c, apperr.Validation("minRating", "must be a number"))
			return
		}
		criteria.MinRating = v
	}
	if raw := c.Query("available"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, apperr.Validation("available", "must be true or false"))
			return
		}
		criteria.AvailableOnly = v
	}

	result, err := h.Workers.Search(c.Request.Context(), criteria)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CatalogHandler) GetWorkerHandler(c *gin.Context) {
	w, err := h.Workers.GetPublicWorker(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *CatalogHandler) WorkerReviewsHandler(c *gin.Context) {
	page, limit, err := pagination(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := h.Workers.GetPublicWorker(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	reviews, err := h.Reviews.ListForWorker(c.Request.Context(), c.Param("id"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}
