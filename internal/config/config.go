package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is what the service falls back to when JWT_SECRET is not
// set. It exists so local development works out of the box; main logs a
// warning whenever it is in use.
const DefaultJWTSecret = "dev-secret-change-me"

type Config struct {
	AppEnv   string
	HTTPAddr string

	MongoURI string
	MongoDB  string

	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	JWTSecret string
	TokenTTL  time.Duration
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppEnv:               getenv("APP_ENV", "development"),
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		MongoURI:             getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:              getenv("MONGO_DB", "givehub"),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",
		JWTSecret:            getenv("JWT_SECRET", DefaultJWTSecret),
	}

	origins := strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	ttl, err := time.ParseDuration(getenv("TOKEN_TTL", "2h"))
	if err != nil {
		return Config{}, err
	}
	cfg.TokenTTL = ttl

	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}
