package routes

import (
	"homeserve/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterClientBookingRoutes registers the client app booking endpoints.
func RegisterClientBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookings := r.Group("/api/bookings", hb.UserAuth)
	{
		bookings.POST("", hb.Booking.CreateBookingHandler)
		bookings.GET("", hb.Booking.ListUserBookingsHandler)
		bookings.GET("/:id", hb.Booking.GetUserBookingHandler)
		bookings.PATCH("/:id/cancel", hb.Booking.CancelBookingHandler)
		bookings.PATCH("/:id/reschedule", hb.Booking.RescheduleBookingHandler)
		bookings.GET("/:id/invoice", hb.Booking.InvoiceHandler)
		bookings.POST("/:id/payment-intent", hb.Booking.PaymentIntentHandler)
		bookings.POST("/:id/payment/confirm", hb.Booking.ConfirmPaymentHandler)
	}
}

// RegisterWorkerBookingRoutes registers the worker app booking endpoints.
func RegisterWorkerBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookings := r.Group("/api/worker/bookings", hb.WorkerAuth)
	{
		bookings.GET("", hb.Booking.ListWorkerBookingsHandler)
		bookings.GET("/:id", hb.Booking.GetWorkerBookingHandler)
		bookings.PATCH("/:id/status", hb.Booking.UpdateStatusHandler)
		bookings.GET("/:id/invoice", hb.Booking.InvoiceHandler)
	}
}
