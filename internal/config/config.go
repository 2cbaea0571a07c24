package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// CORS
	AllowedOrigins []string

	// Admin auth
	AdminPasswordHash string
	JWTSecret         string
	JWTAccessTTL      time.Duration

	// Remote booking backend
	BackendBaseURL        string
	BackendAuthScheme     string // bearer, basic, apikey or empty
	BackendToken          string
	BackendUsername       string
	BackendPassword       string
	BackendAPIKeyHeader   string
	BackendAPIKey         string
	BackendCSRFCookie     string
	BackendCSRFHeader     string
	BackendTimeoutSeconds int

	// Booking form sessions
	FormSessionTTL time.Duration

	// Admin list view
	BookingsPageSize int

	// Logging
	LogLevel string
}

func Load() *Config {
	// Load .env file in development
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// CORS
		AllowedOrigins: parseStringSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		// Admin auth
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		JWTSecret:         getEnv("JWT_SECRET", "super-secret-key-change-me"),
		JWTAccessTTL:      parseDuration(getEnv("JWT_ACCESS_TTL", "12h"), 12*time.Hour),

		// Remote booking backend
		BackendBaseURL:        getEnv("BACKEND_BASE_URL", "http://localhost:9000"),
		BackendAuthScheme:     getEnv("BACKEND_AUTH_SCHEME", ""),
		BackendToken:          getEnv("BACKEND_TOKEN", ""),
		BackendUsername:       getEnv("BACKEND_USERNAME", ""),
		BackendPassword:       getEnv("BACKEND_PASSWORD", ""),
		BackendAPIKeyHeader:   getEnv("BACKEND_API_KEY_HEADER", "X-Api-Key"),
		BackendAPIKey:         getEnv("BACKEND_API_KEY", ""),
		BackendCSRFCookie:     getEnv("BACKEND_CSRF_COOKIE", "XSRF-TOKEN"),
		BackendCSRFHeader:     getEnv("BACKEND_CSRF_HEADER", "X-XSRF-TOKEN"),
		BackendTimeoutSeconds: parseInt(getEnv("BACKEND_TIMEOUT_SECONDS", "10"), 10),

		// Booking form sessions
		FormSessionTTL: parseDuration(getEnv("FORM_SESSION_TTL", "30m"), 30*time.Minute),

		// Admin list view
		BookingsPageSize: parseInt(getEnv("BOOKINGS_PAGE_SIZE", "5"), 5),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "debug"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func parseDuration(s string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultValue
	}
	return d
}

func parseInt(s string, defaultValue int) int {
	value, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return value
}

func parseStringSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			result = append(result, t)
		}
	}
	return result
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
