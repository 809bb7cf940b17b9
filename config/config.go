package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Port      string
	GinMode   string
	DataFile  string
	UploadDir string
	// UploadBaseURL is the public prefix uploads are served under; it
	// lands verbatim in MediaRef.FileUrl.
	UploadBaseURL  string
	AdminToken     string
	FEOrigins      []string
	LogFile        string
	MaxUploadBytes int64
}

// Load reads configuration from the environment, with .env as an optional
// overlay for local development.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("could not read .env file")
	}

	cfg := &Config{
		Port:           envOr("PORT", "3000"),
		GinMode:        os.Getenv("GIN_MODE"),
		DataFile:       envOr("DATA_FILE", "data/store.json"),
		UploadDir:      envOr("UPLOAD_DIR", "data/uploads"),
		UploadBaseURL:  envOr("UPLOAD_BASE_URL", "/uploads"),
		AdminToken:     os.Getenv("ADMIN_TOKEN"),
		LogFile:        os.Getenv("LOG_FILE"),
		MaxUploadBytes: envInt64Or("MAX_UPLOAD_BYTES", 0),
	}
	if origins := os.Getenv("FE_ORIGINS"); origins != "" {
		cfg.FEOrigins = strings.Split(origins, ";")
	}
	if cfg.AdminToken == "" {
		log.Warn("ADMIN_TOKEN not set, admin routes are disabled")
	}
	return cfg
}

func envOr(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func envInt64Or(key string, fallback int64) int64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		log.WithField("key", key).Warn("ignoring non-numeric env value")
		return fallback
	}
	return parsed
}
