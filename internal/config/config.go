// Package config loads application configuration from environment
// variables, optionally seeded from a .env file.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign session JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing

	RecaptchaSecret   string  // server-side reCAPTCHA secret
	RecaptchaMinScore float64 // minimum v3 score; 0 accepts any successful token

	ResendAPIKey     string // empty disables outgoing mail (noop sender)
	EmailFrom        string // From header of transactional mail
	AdminNotifyEmail string // where form notifications are delivered

	ImageCDNUploadURL string // multipart endpoint of the image CDN
	ImageCDNAPIKey    string // bearer key for the image CDN (optional)
	UploadMaxBytes    int64  // largest accepted decoded image

	RabbitURL   string   // AMQP URL; empty disables booking events
	StaticDir   string   // directory holding the built single page app
	CORSOrigins []string // allowed origins for the JSON API
}

// Load reads configuration values from environment variables and returns a
// Config.  A .env file in the working directory is loaded first when it
// exists; real environment variables win over it.  Required variables are
// enforced by must() and missing values stop the program.
func Load() Config {
	loadEnvFile()
	return Config{
		Env:            envStr("APP_ENV", "dev"),
		Port:           envStr("APP_PORT", "8080"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         envStr("DB_PORT", "3306"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   envInt("ACCESS_TOKEN_TTL_MIN", 60),
		RefreshTTLDays: envInt("REFRESH_TOKEN_TTL_DAYS", 7),
		BcryptCost:     envInt("BCRYPT_COST", 12),

		RecaptchaSecret:   must("RECAPTCHA_SECRET"),
		RecaptchaMinScore: envFloat("RECAPTCHA_MIN_SCORE", 0.5),

		ResendAPIKey:     os.Getenv("RESEND_API_KEY"),
		EmailFrom:        envStr("EMAIL_FROM", "Omys Sacred Journeys <bookings@omysacredjourneys.com>"),
		AdminNotifyEmail: must("ADMIN_NOTIFY_EMAIL"),

		ImageCDNUploadURL: os.Getenv("IMAGE_CDN_UPLOAD_URL"),
		ImageCDNAPIKey:    os.Getenv("IMAGE_CDN_API_KEY"),
		UploadMaxBytes:    int64(envInt("UPLOAD_MAX_BYTES", 5<<20)),

		RabbitURL:   os.Getenv("RABBITMQ_URL"),
		StaticDir:   envStr("STATIC_DIR", "./web/dist"),
		CORSOrigins: splitList(envStr("CORS_ORIGINS", "*")),
	}
}

// Database is the subset of Config needed by maintenance commands.
type Database struct {
	User, Pass, Host, Port, Name string
}

// LoadDatabase reads only the DB_* variables.
func LoadDatabase() Database {
	loadEnvFile()
	return Database{
		User: must("DB_USER"),
		Pass: os.Getenv("DB_PASS"),
		Host: must("DB_HOST"),
		Port: envStr("DB_PORT", "3306"),
		Name: must("DB_NAME"),
	}
}

func loadEnvFile() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("config: reading .env: %v", err)
	}
}

// IsProd reports whether the app runs in production, which turns on
// secure cookies.
func (c Config) IsProd() bool {
	return strings.EqualFold(c.Env, "prod") || strings.EqualFold(c.Env, "production")
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envFloat(k string, d float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Warnf("config: invalid float for %s: %q, using %v", k, v, d)
		return d
	}
	return f
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
