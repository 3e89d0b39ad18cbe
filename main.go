package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homeserve/config"
	"homeserve/cron"
	"homeserve/database"
	bookingRepo "homeserve/database/repository/booking"
	memoryRepo "homeserve/database/repository/memory"
	reviewRepo "homeserve/database/repository/review"
	userRepoPkg "homeserve/database/repository/user"
	workerRepoPkg "homeserve/database/repository/worker"
	"homeserve/handlers"
	"homeserve/middleware"
	"homeserve/routes"
	"homeserve/services/analytics"
	"homeserve/services/auth"
	"homeserve/services/booking"
	"homeserve/services/notification"
	"homeserve/services/otp"
	"homeserve/services/review"
	"homeserve/services/storage"
	"homeserve/services/tasks"
	"homeserve/services/user"
	"homeserve/services/worker"
	"homeserve/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const uploadDir = "uploads"

type repositories struct {
	users    userRepoPkg.UserRepository
	workers  workerRepoPkg.WorkerRepository
	bookings bookingRepo.BookingRepository
	reviews  reviewRepo.ReviewRepository
}

// openRepositories connects MongoDB, or uses in-memory stores when
// STORAGE_BACKEND=memory.
func openRepositories(logger *zap.Logger) repositories {
	if config.AppConfig.StorageBackend == "memory" {
		logger.Warn("using in-memory storage; data is lost on restart")
		return repositories{
			users:    memoryRepo.NewUserRepo(),
			workers:  memoryRepo.NewWorkerRepo(),
			bookings: memoryRepo.NewBookingRepo(),
			reviews:  memoryRepo.NewReviewRepo(),
		}
	}
	if err := database.InitDB(); err != nil {
		logger.Fatal("main: failed to connect to MongoDB", zap.Error(err))
	}
	db := database.DB()
	return repositories{
		users:    userRepoPkg.NewMongoUserRepo(db),
		workers:  workerRepoPkg.NewMongoWorkerRepo(db),
		bookings: bookingRepo.NewMongoBookingRepo(db),
		reviews:  reviewRepo.NewMongoReviewRepo(db),
	}
}

// connectRedis dials the configured Redis. When it is unreachable outside
// production an embedded miniredis takes its place; external reports
// whether the real server is used.
func connectRedis(logger *zap.Logger) (embedded *miniredis.Miniredis, external bool) {
	err := utils.InitRedis()
	if err == nil {
		return nil, true
	}
	if config.IsProduction() {
		logger.Fatal("main: failed to connect to Redis", zap.Error(err))
	}
	logger.Warn("Redis unavailable, starting embedded instance", zap.Error(err))

	mr, err := miniredis.Run()
	if err != nil {
		logger.Fatal("main: failed to start embedded Redis", zap.Error(err))
	}
	config.AppConfig.RedisAddr = mr.Addr()
	config.AppConfig.RedisPassword = ""
	if err := utils.InitRedis(); err != nil {
		logger.Fatal("main: failed to connect to embedded Redis", zap.Error(err))
	}
	return mr, false
}

func newMailer(logger *zap.Logger) notification.Mailer {
	cfg := config.AppConfig
	if cfg.SMTPHost == "" {
		logger.Warn("SMTP_HOST not set; emails are logged only")
		return notification.LogMailer{}
	}
	return notification.NewSMTPMailer(notification.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
}

func newPushSender(ctx context.Context, logger *zap.Logger) notification.PushSender {
	path := config.AppConfig.FirebaseCredentialsFile
	if path == "" {
		logger.Warn("FIREBASE_CREDENTIALS_FILE not set; push notifications are logged only")
		return notification.LogPushSender{}
	}
	sender, err := notification.NewFCMSender(ctx, path)
	if err != nil {
		logger.Fatal("main: failed to initialize Firebase messaging", zap.Error(err))
	}
	return sender
}

// newStorage returns Cloudinary when configured, otherwise local disk
// served under /uploads.
func newStorage(logger *zap.Logger) (storage.StorageService, string) {
	cfg := config.AppConfig
	if cfg.CloudinaryCloudName != "" {
		cld, err := storage.NewCloudinaryStorage(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			logger.Fatal("main: failed to initialize cloudinary storage service", zap.Error(err))
		}
		return cld, ""
	}
	disk, err := storage.NewDiskStorage(uploadDir, "/uploads")
	if err != nil {
		logger.Fatal("main: failed to initialize disk storage", zap.Error(err))
	}
	logger.Warn("Cloudinary not configured; storing uploads on disk", zap.String("dir", uploadDir))
	return disk, uploadDir
}

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	if cfg.JWTSecret == "" && config.IsProduction() {
		logger.Fatal("main: JWT_SECRET is required in production")
	}
	utils.SetJWTSecret(cfg.JWTSecret)

	cipher, err := utils.LoadPayloadCipher(cfg.RSAPrivateKeyPath)
	if err != nil {
		logger.Fatal("main: failed to load RSA key", zap.Error(err))
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	repos := openRepositories(logger)
	embeddedRedis, externalRedis := connectRedis(logger)
	if embeddedRedis != nil {
		defer embeddedRedis.Close()
	}
	utils.StartHealthMonitor(ctx, utils.RedisClients(), database.MongoClient)

	metrics := analytics.NewMetrics()
	mailer := newMailer(logger)
	notifier, err := notification.NewDefaultNotificationService(repos.users, repos.workers, newPushSender(ctx, logger))
	if err != nil {
		logger.Fatal("main: failed to initialize notifications", zap.Error(err))
	}
	store, diskDir := newStorage(logger)

	otpService := otp.NewRedisOTPService(utils.GetOTPCacheClient(), mailer, otp.Policy{
		Length:         cfg.OTPLength,
		TTL:            cfg.OTPTTL(),
		MaxAttempts:    cfg.OTPMaxAttempts,
		ResendCooldown: time.Duration(cfg.OTPResendCooldownSeconds) * time.Second,
	}, metrics)
	tokenCache := auth.NewTokenCache(utils.GetAuthCacheClient())
	authenticator := &auth.Authenticator{
		OTP:      otpService,
		Cache:    tokenCache,
		Cipher:   cipher,
		TokenTTL: cfg.TokenTTL(),
	}

	// Background tasks.
	var (
		reminders tasks.ReminderScheduler = tasks.NoopReminderScheduler{}
		queueOpt  asynq.RedisClientOpt
	)
	if externalRedis {
		queueOpt = asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisQueueDB}
		scheduler := tasks.NewAsynqReminderScheduler(queueOpt, time.Duration(cfg.ReminderLeadMinutes)*time.Minute)
		defer scheduler.Close()
		reminders = scheduler
	} else {
		logger.Warn("task queue disabled; booking reminders are not scheduled")
	}

	var payments booking.PaymentProvider
	if cfg.StripeKey != "" {
		payments = booking.NewStripePayments(cfg.StripeKey)
	} else {
		logger.Warn("STRIPE_KEY not set; card payments disabled")
	}

	// services.
	userService := user.NewUserService(repos.users, authenticator, store)
	workerService := worker.NewWorkerService(repos.workers, authenticator, store)
	bookingService := booking.NewBookingService(booking.Deps{
		Bookings:  repos.bookings,
		Users:     repos.users,
		Workers:   repos.workers,
		Notifier:  notifier,
		Mailer:    mailer,
		Reminders: reminders,
		Payments:  payments,
		Metrics:   metrics,
		Location:  cfg.Location(),
		Currency:  cfg.Currency,
	})
	userService.Bookings = bookingService
	workerService.Bookings = bookingService
	reviewService := review.NewReviewService(repos.reviews, repos.bookings, repos.workers, metrics)
	analyticsService := analytics.NewAnalyticsService(repos.bookings, repos.reviews)

	var taskWorker *cron.Worker
	if externalRedis {
		taskWorker, err = cron.NewWorker(queueOpt, bookingService, cfg.Location())
		if err != nil {
			logger.Fatal("main: failed to build task worker", zap.Error(err))
		}
		if err := taskWorker.Start(); err != nil {
			logger.Fatal("main: failed to start task worker", zap.Error(err))
		}
	} else {
		cron.StartLocalExpiry(ctx, bookingService, cron.ExpireInterval)
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Auth:       handlers.NewAuthHandler(cipher),
		User:       handlers.NewUserHandler(userService, analyticsService, cfg.MaxUploadMB),
		Worker:     handlers.NewWorkerHandler(workerService, analyticsService, cfg.MaxUploadMB),
		Catalog:    handlers.NewCatalogHandler(workerService, reviewService),
		Booking:    handlers.NewBookingHandler(bookingService),
		Review:     handlers.NewReviewHandler(reviewService),
		Admin:      handlers.NewAdminHandler(userService, workerService),
		UserAuth:   middleware.JWTAuthUserMiddleware(userService.TokenHash, tokenCache),
		WorkerAuth: middleware.JWTAuthWorkerMiddleware(workerService.TokenHash, tokenCache),
		AdminAuth:  middleware.JWTAuthAdminMiddleware(cfg.AdminToken),
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxyList()); err != nil {
		logger.Fatal("main: invalid TRUSTED_PROXIES", zap.Error(err))
	}
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(metrics))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))
	router.MaxMultipartMemory = int64(cfg.MaxUploadMB) << 20

	routes.RegisterRoutes(router, handlerBundle, routes.Options{
		Surface:   cfg.AppSurface,
		Metrics:   promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}),
		UploadDir: diskDir,
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("surface", cfg.AppSurface))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	if taskWorker != nil {
		taskWorker.Shutdown()
	}
	stop()
	for _, c := range utils.RedisClients() {
		_ = c.Close()
	}
	if err := database.Close(shutdownCtx); err != nil {
		logger.Error("main: failed to disconnect MongoDB", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
}
