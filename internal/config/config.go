package config

import (
	"os"
	"time"
)

type Config struct {
	DatabaseURL   string
	HTTPAddr      string
	JWTSecret     string
	Location      *time.Location
	LogLevel      string
	Env           string // dev|prod
	SentryDSN     string
	VerifyBaseURL string
	OSS           OSS
}

// OSS is the object storage bucket for certificates, backups and exports.
// All four fields must be set; otherwise storage-backed features are disabled.
type OSS struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
}

func Load() (*Config, error) {
	tz := getenv("TZ", "Asia/Kolkata")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.Local
	}

	cfg := &Config{
		DatabaseURL:   mustEnv("DATABASE_URL"),
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		JWTSecret:     mustEnv("JWT_SECRET"),
		Location:      loc,
		LogLevel:      getenv("LOG_LEVEL", "info"),
		Env:           getenv("ENV", "dev"),
		SentryDSN:     os.Getenv("SENTRY_DSN"),
		VerifyBaseURL: getenv("VERIFY_BASE_URL", "https://iplay.app/verify"),
		OSS: OSS{
			Endpoint:  os.Getenv("OSS_ENDPOINT"),
			AccessKey: os.Getenv("OSS_ACCESS_KEY"),
			SecretKey: os.Getenv("OSS_SECRET_KEY"),
			Bucket:    os.Getenv("OSS_BUCKET"),
		},
	}
	return cfg, nil
}

func (o OSS) Complete() bool {
	return o.Endpoint != "" && o.AccessKey != "" && o.SecretKey != "" && o.Bucket != ""
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("required env " + k + " is empty")
	}
	return v
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
