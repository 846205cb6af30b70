package config

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/cors"
)

type OAuthConfig struct {
	GoogleClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`
	FacebookAppID      string `envconfig:"FACEBOOK_APP_ID"`
	FacebookAppSecret  string `envconfig:"FACEBOOK_APP_SECRET"`
}

// AvatarStorageConfig holds credentials for the S3-compatible bucket that
// backs avatar uploads. Leaving AccessKeyID empty disables the feature.
type AvatarStorageConfig struct {
	AccountID       string `envconfig:"AVATAR_R2_ACCOUNT_ID"`
	AccessKeyID     string `envconfig:"AVATAR_R2_ACCESS_KEY_ID"`
	SecretAccessKey string `envconfig:"AVATAR_R2_SECRET_ACCESS_KEY"`
	BucketName      string `envconfig:"AVATAR_R2_BUCKET_NAME"`
	Region          string `envconfig:"AVATAR_R2_REGION" default:"auto"`
	PublicBaseURL   string `envconfig:"AVATAR_R2_PUBLIC_BASE_URL"`
}

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`
	DBPath      string `envconfig:"DB_PATH" default:"mood_journal.db"`

	JWTSecret      string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL       time.Duration `envconfig:"TOKEN_TTL" default:"168h"`
	PasswordPepper string        `envconfig:"PASSWORD_PEPPER" required:"true"`

	// Base URL this server is reachable at; OAuth redirect URIs derive from it.
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`
	FrontendURL   string `envconfig:"FRONTEND_URL" default:"http://localhost:5173"`
	CORSOrigins   string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`

	EmailServiceURL string `envconfig:"EMAIL_SERVICE_URL" default:"http://127.0.0.1:3000"`
	AnalyzerURL     string `envconfig:"ANALYZER_URL" default:"http://127.0.0.1:5003"`
	ChatServiceURL  string `envconfig:"CHAT_SERVICE_URL" default:"http://127.0.0.1:5001"`

	OAuth  OAuthConfig
	Avatar AvatarStorageConfig
}

// Load reads the optional .env file and builds the Config from the
// environment. It is called once in main; the result is passed by reference
// into every component.
func Load() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("No", envFile, "file found")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) CorsOptions() cors.Options {
	return cors.Options{
		AllowedOrigins:   strings.Split(c.CORSOrigins, ","),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
}
