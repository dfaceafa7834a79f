package config

import (
	"os"
	"time"
)

// Config holds all service configuration loaded from environment variables.
// Loaded once at startup, immutable afterwards.
type Config struct {
	Port        string
	MongoURI    string
	MongoDB     string
	TokenSecret string
	TokenTTL    time.Duration
	AppEnv      string
}

func Load() *Config {
	return &Config{
		Port:        getenv("PORT", "5001"),
		MongoURI:    getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     getenv("MONGO_DB", "contact_manager"),
		TokenSecret: getenv("ACCESS_TOKEN_SECRET", ""),
		TokenTTL:    getduration("TOKEN_TTL", 15*time.Minute),
		AppEnv:      getenv("APP_ENV", "production"),
	}
}

// IsDevelopment reports whether error responses should carry stack traces.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
