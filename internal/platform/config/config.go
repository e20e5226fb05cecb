package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr            string
	DatabaseURL     string
	RedisAddr       string
	KafkaBrokers    []string
	KafkaTopic      string
	JWTSigningKey   string
	ShutdownTimeout time.Duration
	TrackingCacheTTL time.Duration

	// Bootstrap admin seeded on startup when both values are set. Without it
	// a fresh deployment has no account that can mint staff users.
	AdminUsername string
	AdminPassword string
	AdminEmail    string
}

// FromEnv builds a Server config from environment variables so main stays lean.
//
// An empty ADMISSIO_DATABASE_URL selects the in-memory stores (development
// mode). Empty ADMISSIO_REDIS_ADDR disables the tracking lookup cache, and
// empty ADMISSIO_KAFKA_BROKERS disables event publishing.
func FromEnv() Server {
	addr := os.Getenv("ADMISSIO_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	var brokers []string
	if raw := os.Getenv("ADMISSIO_KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	topic := os.Getenv("ADMISSIO_KAFKA_TOPIC")
	if topic == "" {
		topic = "admissio.application-status"
	}

	adminEmail := os.Getenv("ADMISSIO_ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@localhost"
	}

	return Server{
		Addr:             addr,
		DatabaseURL:      os.Getenv("ADMISSIO_DATABASE_URL"),
		RedisAddr:        os.Getenv("ADMISSIO_REDIS_ADDR"),
		KafkaBrokers:     brokers,
		KafkaTopic:       topic,
		JWTSigningKey:    jwtSigningKey,
		ShutdownTimeout:  10 * time.Second,
		TrackingCacheTTL: 5 * time.Minute,
		AdminUsername:    os.Getenv("ADMISSIO_ADMIN_USERNAME"),
		AdminPassword:    os.Getenv("ADMISSIO_ADMIN_PASSWORD"),
		AdminEmail:       adminEmail,
	}
}
