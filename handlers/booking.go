package handlers

import (
	"net/http"

	"homeserve/middleware"
	"homeserve/models"
	"homeserve/services/booking"
	"homeserve/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves booking endpoints of both apps.
type BookingHandler struct {
	Bookings booking.BookingService
}

func NewBookingHandler(bs booking.BookingService) *BookingHandler {
	return &BookingHandler{Bookings: bs}
}

// Client app.

func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	b, err := h.Bookings.CreateBooking(c.Request.Context(), middleware.AccountID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("booking created", zap.String("bookingId", b.ID), zap.String("workerId", b.WorkerID))
	c.JSON(http.StatusCreated, b)
}

func (h *BookingHandler) ListUserBookingsHandler(c *gin.Context) {
	page, limit, err := pagination(c)
	if err != nil {
		respondError(c, err)
		return
	}
	list, err := h.Bookings.ListUserBookings(c.Request.Context(), middleware.AccountID(c), c.Query("status"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *BookingHandler) GetUserBookingHandler(c *gin.Context) {
	b, err := h.Bookings.GetUserBooking(c.Request.Context(), middleware.AccountID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	var req models.CancelRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}
	b, err := h.Bookings.CancelBooking(c.Request.Context(), middleware.AccountID(c), c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) RescheduleBookingHandler(c *gin.Context) {
	var req models.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	b, err := h.Bookings.RescheduleBooking(c.Request.Context(), middleware.AccountID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) PaymentIntentHandler(c *gin.Context) {
	resp, err := h.Bookings.CreatePaymentIntent(c.Request.Context(), middleware.AccountID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) ConfirmPaymentHandler(c *gin.Context) {
	b, err := h.Bookings.ConfirmPayment(c.Request.Context(), middleware.AccountID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// Worker app.

func (h *BookingHandler) ListWorkerBookingsHandler(c *gin.Context) {
	page, limit, err := pagination(c)
	if err != nil {
		respondError(c, err)
		return
	}
	list, err := h.Bookings.ListWorkerBookings(c.Request.Context(), middleware.AccountID(c), c.Query("status"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *BookingHandler) GetWorkerBookingHandler(c *gin.Context) {
	b, err := h.Bookings.GetWorkerBooking(c.Request.Context(), middleware.AccountID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) UpdateStatusHandler(c *gin.Context) {
	var req models.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	b, err := h.Bookings.UpdateStatus(c.Request.Context(), middleware.AccountID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("booking status changed", zap.String("bookingId", b.ID), zap.String("status", b.Status))
	c.JSON(http.StatusOK, b)
}

// InvoiceHandler streams the PDF invoice for the caller's role.
func (h *BookingHandler) InvoiceHandler(c *gin.Context) {
	role := c.GetString(middleware.ContextRole)
	if role == "" {
		role = utils.RoleUser
	}
	pdf, err := h.Bookings.Invoice(c.Request.Context(), role, middleware.AccountID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="invoice-`+c.Param("id")+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Admin.

func (h *BookingHandler) ListAllBookingsHandler(c *gin.Context) {
	page, limit, err := pagination(c)
	if err != nil {
		respondError(c, err)
		return
	}
	list, err := h.Bookings.ListAll(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
