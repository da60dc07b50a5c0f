package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/WooDaeYoon/dahandinworld/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string

	// External points service (dahandin openapi).
	DahandinBaseURL string

	// Redis for rate limiting and points-service read caching.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Teacher IDs allowed into the global item management context.
	AdminIDs []string

	// Browser origin allowed to open square websockets; empty allows all.
	AllowedOrigin string

	// Image upload storage.
	UploadDir     string
	UploadBaseURL string
	MaxUploadSize int64

	// Rate limit windows.
	APIRateLimit    int
	APIRateWindow   time.Duration
	AuthRateLimit   int
	AuthRateWindow  time.Duration
	SpendRateLimit  int
	SpendRateWindow time.Duration

	LogLevel string
	LogJSON  bool
}

// Load reads configuration from the environment. Missing required variables
// abort startup.
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	baseURL := os.Getenv("DAHANDIN_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.dahandin.com/openapi/v1"
	}

	var adminIDs []string
	if raw := os.Getenv("ADMIN_IDS"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				adminIDs = append(adminIDs, id)
			}
		}
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	uploadBaseURL := os.Getenv("UPLOAD_BASE_URL")
	if uploadBaseURL == "" {
		uploadBaseURL = "/uploads"
	}

	return &Config{
		AppPort:     port,
		DatabaseURL: dbURL,
		JWTSecret:   jwtSecret,

		DahandinBaseURL: baseURL,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		AdminIDs: adminIDs,

		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),

		UploadDir:     uploadDir,
		UploadBaseURL: uploadBaseURL,
		MaxUploadSize: int64(envInt("MAX_UPLOAD_SIZE_MB", 5)) << 20,

		APIRateLimit:    envInt("API_RATE_LIMIT", 60),
		APIRateWindow:   envSeconds("API_RATE_WINDOW_SECONDS", time.Minute),
		AuthRateLimit:   envInt("AUTH_RATE_LIMIT", 10),
		AuthRateWindow:  envSeconds("AUTH_RATE_WINDOW_SECONDS", time.Minute),
		SpendRateLimit:  envInt("SPEND_RATE_LIMIT", 30),
		SpendRateWindow: envSeconds("SPEND_RATE_WINDOW_SECONDS", time.Minute),

		LogLevel: os.Getenv("LOG_LEVEL"),
		LogJSON:  os.Getenv("LOG_JSON") == "true",
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func envSeconds(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return def
}
