package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config is the static process configuration, read once at startup.
type Config struct {
	Port           string
	MongoURI       string
	MongoDatabase  string
	CloudinaryURL  string
	MaxUploadBytes int64
	AllowedOrigins []string
}

const defaultMaxUploadBytes = 3 << 20 // 3 MiB, matches the transport cap

// Load reads .env when present, then the environment. CLOUDINARY_URL has no
// sane default and must be set.
func Load() (Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}

	cfg := Config{
		Port:           getString("PORT", "8080"),
		MongoURI:       getString("MONGODB_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase:  getString("MONGODB_DATABASE", "blogcms"),
		CloudinaryURL:  os.Getenv("CLOUDINARY_URL"),
		MaxUploadBytes: getInt64("MAX_UPLOAD_BYTES", defaultMaxUploadBytes),
		AllowedOrigins: getList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	if cfg.CloudinaryURL == "" {
		return Config{}, errors.New("CLOUDINARY_URL must be set")
	}
	return cfg, nil
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		log.Warn().Str("key", key).Str("value", v).Msg("ignoring invalid config value")
		return fallback
	}
	return n
}

func getList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
