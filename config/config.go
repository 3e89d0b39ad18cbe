package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	AppSurface        string `mapstructure:"APP_SURFACE"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	LogFile           string `mapstructure:"LOG_FILE"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	MaxUploadMB       int    `mapstructure:"MAX_UPLOAD_MB"`
	Timezone          string `mapstructure:"TIMEZONE"`
	// TrustedProxies is a comma separated list of proxy IPs or CIDRs whose
	// X-Forwarded-For is believed. Empty trusts none.
	TrustedProxies string `mapstructure:"TRUSTED_PROXIES"`

	// Persistence.
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	DatabaseName   string `mapstructure:"DATABASE_NAME"`
	StorageBackend string `mapstructure:"STORAGE_BACKEND"`

	// Auth.
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	TokenTTLHours     int    `mapstructure:"TOKEN_TTL_HOURS"`
	AdminToken        string `mapstructure:"ADMIN_TOKEN"`
	RSAPrivateKeyPath string `mapstructure:"RSA_PRIVATE_KEY_PATH"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisAuthDB   int    `mapstructure:"REDIS_AUTH_DB"`
	RedisOTPDB    int    `mapstructure:"REDIS_OTP_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// OTP policy.
	OTPLength                int `mapstructure:"OTP_LENGTH"`
	OTPTTLMinutes            int `mapstructure:"OTP_TTL_MINUTES"`
	OTPMaxAttempts           int `mapstructure:"OTP_MAX_ATTEMPTS"`
	OTPResendCooldownSeconds int `mapstructure:"OTP_RESEND_COOLDOWN_SECONDS"`

	// Email delivery.
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`

	// Third-party services.
	CloudinaryCloudName     string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey        string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret     string `mapstructure:"CLOUDINARY_API_SECRET"`
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	StripeKey               string `mapstructure:"STRIPE_KEY"`
	Currency                string `mapstructure:"CURRENCY"`

	// Booking reminders.
	ReminderLeadMinutes int `mapstructure:"REMINDER_LEAD_MINUTES"`
}

var AppConfig Config

// Surfaces accepted by APP_SURFACE.
const (
	SurfaceAll    = "all"
	SurfaceClient = "client"
	SurfaceWorker = "worker"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_SURFACE", SurfaceAll)
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("MAX_UPLOAD_MB", 10)
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("TRUSTED_PROXIES", "")
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "homeserve")
	v.SetDefault("STORAGE_BACKEND", "mongo")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL_HOURS", 720)
	v.SetDefault("ADMIN_TOKEN", "")
	v.SetDefault("RSA_PRIVATE_KEY_PATH", "")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_AUTH_DB", 1)
	v.SetDefault("REDIS_OTP_DB", 2)
	v.SetDefault("REDIS_QUEUE_DB", 3)
	v.SetDefault("OTP_LENGTH", 6)
	v.SetDefault("OTP_TTL_MINUTES", 10)
	v.SetDefault("OTP_MAX_ATTEMPTS", 5)
	v.SetDefault("OTP_RESEND_COOLDOWN_SECONDS", 60)
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_FROM", "no-reply@homeserve.local")
	v.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	v.SetDefault("CLOUDINARY_API_KEY", "")
	v.SetDefault("CLOUDINARY_API_SECRET", "")
	v.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	v.SetDefault("STRIPE_KEY", "")
	v.SetDefault("CURRENCY", "usd")
	v.SetDefault("REMINDER_LEAD_MINUTES", 60)
}

// Load reads configuration from an optional .env file, config.yaml and the
// environment into a Config. Environment variables win over the file.
func Load(v *viper.Viper) (Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadConfig populates AppConfig and aborts the process on failure.
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := Load(viper.New())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Location returns the configured booking timezone, falling back to UTC.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// OTPTTL is the lifetime of an issued one-time code.
func (c Config) OTPTTL() time.Duration {
	return time.Duration(c.OTPTTLMinutes) * time.Minute
}

// TokenTTL is the lifetime of an issued auth token.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// TrustedProxyList splits TrustedProxies. It returns nil when none are set.
func (c Config) TrustedProxyList() []string {
	var out []string
	for _, p := range strings.Split(c.TrustedProxies, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
