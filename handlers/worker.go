package handlers

import (
	"net/http"
	"strings"

	"homeserve/middleware"
	"homeserve/models"
	"homeserve/services/analytics"
	"homeserve/services/worker"

	"github.com/gin-gonic/gin"
)

// WorkerHandler serves the worker app account endpoints.
type WorkerHandler struct {
	accountHandler
	Workers     worker.WorkerService
	Analytics   analytics.AnalyticsService
	MaxUploadMB int
}

func NewWorkerHandler(ws worker.WorkerService, as analytics.AnalyticsService, maxUploadMB int) *WorkerHandler {
	return &WorkerHandler{accountHandler: accountHandler{accounts: ws}, Workers: ws, Analytics: as, MaxUploadMB: maxUploadMB}
}

func (h *WorkerHandler) RegisterHandler(c *gin.Context) {
	var req models.WorkerRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	w, err := h.Workers.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Registered; check your email for the verification code",
		"worker":  w,
	})
}

func (h *WorkerHandler) GetProfileHandler(c *gin.Context) {
	w, err := h.Workers.GetWorkerByID(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *WorkerHandler) UpdateProfileHandler(c *gin.Context) {
	var req models.WorkerUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	w, err := h.Workers.UpdateProfile(c.Request.Context(), middleware.AccountID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *WorkerHandler) UploadAvatarHandler(c *gin.Context) {
	file, err := readUpload(c, "file", int64(h.MaxUploadMB)<<20, imageTypes)
	if err != nil {
		respondError(c, err)
		return
	}
	w, err := h.Workers.UpdateAvatar(c.Request.Context(), middleware.AccountID(c), file.Reader())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *WorkerHandler) SetAvailabilityHandler(c *gin.Context) {
	var req struct {
		IsAvailable *bool `json:"isAvailable" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	w, err := h.Workers.SetAvailability(c.Request.Context(), middleware.AccountID(c), *req.IsAvailable)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// UploadDocumentHandler takes a multipart "file" (image or PDF) and a
// "type" form field.
func (h *WorkerHandler) UploadDocumentHandler(c *gin.Context) {
	file, err := readUpload(c, "file", int64(h.MaxUploadMB)<<20, documentTypes)
	if err != nil {
		respondError(c, err)
		return
	}
	docType := strings.TrimSpace(c.PostForm("type"))
	doc, err := h.Workers.AddDocument(c.Request.Context(), middleware.AccountID(c), docType, file.MimeType, file.Reader())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *WorkerHandler) DeleteAccountHandler(c *gin.Context) {
	if err := h.Workers.DeleteWorker(c.Request.Context(), middleware.AccountID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WorkerHandler) AnalyticsHandler(c *gin.Context) {
	out, err := h.Analytics.WorkerDashboard(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
