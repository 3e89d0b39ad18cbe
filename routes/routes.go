package routes

import (
	"net/http"
	"time"

	"homeserve/config"
	"homeserve/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options carries the route-level settings that are not handlers.
type Options struct {
	// Surface is config.SurfaceClient, config.SurfaceWorker or config.SurfaceAll.
	Surface string
	// Metrics serves /metrics when set.
	Metrics http.Handler
	// UploadDir is served under /uploads when files are kept on disk.
	UploadDir string
}

// RegisterAuthRoutes registers endpoints shared by both apps.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/auth/public-key", hb.Auth.PublicKeyHandler)
}

// RegisterUserRoutes registers client account endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.POST("/register", hb.User.RegisterHandler)
		api.POST("/verify-otp", hb.User.VerifyOTPHandler)
		api.POST("/resend-otp", hb.User.ResendOTPHandler)
		api.POST("/login", hb.User.LoginHandler)
		api.POST("/login-otp", hb.User.LoginOTPHandler)
		api.POST("/forgot-password", hb.User.ForgotPasswordHandler)
		api.POST("/reset-password", hb.User.ResetPasswordHandler)

		// Protected routes (Require Authentication)
		me := api.Group("", hb.UserAuth)
		me.POST("/logout", hb.User.LogoutHandler)
		me.GET("/me", hb.User.GetProfileHandler)
		me.PATCH("/me", hb.User.UpdateProfileHandler)
		me.PUT("/me/password", hb.User.ChangePasswordHandler)
		me.POST("/me/avatar", hb.User.UploadAvatarHandler)
		me.PUT("/me/fcm-token", hb.User.UpdateFCMTokenHandler)
		me.DELETE("/me", hb.User.DeleteAccountHandler)
		me.GET("/me/analytics", hb.User.AnalyticsHandler)
	}
}

// RegisterCatalogRoutes registers the public worker browse endpoints.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	catalog := r.Group("/api/catalog")
	{
		catalog.GET("/services", hb.Catalog.ListServicesHandler)
		catalog.GET("/workers", hb.Catalog.SearchWorkersHandler)
		catalog.GET("/workers/:id", hb.Catalog.GetWorkerHandler)
		catalog.GET("/workers/:id/reviews", hb.Catalog.WorkerReviewsHandler)
	}
}

// RegisterReviewRoutes registers client review endpoints.
func RegisterReviewRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	reviews := r.Group("/api/reviews", hb.UserAuth)
	{
		reviews.POST("", hb.Review.SubmitReviewHandler)
		reviews.GET("/mine", hb.Review.ListMineHandler)
		reviews.GET("/booking/:bookingId", hb.Review.GetByBookingHandler)
		reviews.DELETE("/:id", hb.Review.DeleteReviewHandler)
	}
}

// RegisterWorkerRoutes registers worker account endpoints.
func RegisterWorkerRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/workers")
	{
		api.POST("/register", hb.Worker.RegisterHandler)
		api.POST("/verify-otp", hb.Worker.VerifyOTPHandler)
		api.POST("/resend-otp", hb.Worker.ResendOTPHandler)
		api.POST("/login", hb.Worker.LoginHandler)
		api.POST("/login-otp", hb.Worker.LoginOTPHandler)
		api.POST("/forgot-password", hb.Worker.ForgotPasswordHandler)
		api.POST("/reset-password", hb.Worker.ResetPasswordHandler)

		me := api.Group("", hb.WorkerAuth)
		me.POST("/logout", hb.Worker.LogoutHandler)
		me.GET("/me", hb.Worker.GetProfileHandler)
		me.PATCH("/me", hb.Worker.UpdateProfileHandler)
		me.PUT("/me/password", hb.Worker.ChangePasswordHandler)
		me.POST("/me/avatar", hb.Worker.UploadAvatarHandler)
		me.PATCH("/me/availability", hb.Worker.SetAvailabilityHandler)
		me.POST("/me/documents", hb.Worker.UploadDocumentHandler)
		me.PUT("/me/fcm-token", hb.Worker.UpdateFCMTokenHandler)
		me.DELETE("/me", hb.Worker.DeleteAccountHandler)
	}
	r.GET("/api/worker/analytics", hb.WorkerAuth, hb.Worker.AnalyticsHandler)
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin", hb.AdminAuth)
	{
		adminGroup.GET("/users", hb.Admin.GetAllUsersHandler)
		adminGroup.GET("/workers", hb.Admin.GetAllWorkersHandler)
		adminGroup.PATCH("/workers/:id/verify", hb.Admin.VerifyWorkerHandler)
		adminGroup.GET("/bookings", hb.Booking.ListAllBookingsHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterRoutes mounts CORS, the operational endpoints and the route trees
// of the selected surface.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, opts Options) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}
	if opts.UploadDir != "" {
		r.Static("/uploads", opts.UploadDir)
	}
	RegisterAuthRoutes(r, hb)

	client := opts.Surface != config.SurfaceWorker
	worker := opts.Surface != config.SurfaceClient
	if client {
		RegisterUserRoutes(r, hb)
		RegisterCatalogRoutes(r, hb)
		RegisterClientBookingRoutes(r, hb)
		RegisterReviewRoutes(r, hb)
	}
	if worker {
		RegisterWorkerRoutes(r, hb)
		RegisterWorkerBookingRoutes(r, hb)
	}
	RegisterAdminRoutes(r, hb)
}
