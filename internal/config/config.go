package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	MailProviderSendgrid = "sendgrid"
	MailProviderConsole  = "console"
)

type Config struct {
	AppPort    string
	AppBaseURL string
	LogLevel   string

	DBDriver    string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBName      string
	DBUser      string
	DBPass      string
	DBSSLMode   string

	RedisAddr     string
	RedisDB       int
	RedisPassword string

	IdempTTLSecs int

	MailProvider    string
	SendgridAPIKey  string
	MailFromAddress string
	MailFromName    string

	S3Endpoint        string
	S3Region          string
	S3Bucket          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3PublicBaseURL   string

	ChecklistNotesFallback bool
	SubmitRatePerSec       float64
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getbool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

func getfloat(k string, d float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return d
}

// Load reads the environment, after merging optional .env files
// (existing variables win). A missing file is skipped; a malformed one is
// an error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	return &Config{
		AppPort:    getenv("APP_PORT", "8080"),
		AppBaseURL: strings.TrimRight(getenv("APP_BASE_URL", "http://localhost:3000"), "/"),
		LogLevel:   getenv("LOG_LEVEL", "info"),

		DBDriver:    strings.ToLower(getenv("DB_DRIVER", "postgres")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getenv("DB_HOST", "localhost"),
		DBPort:      getenv("DB_PORT", "5432"),
		DBName:      getenv("DB_NAME", "backoffice"),
		DBUser:      getenv("DB_USER", "backoffice"),
		DBPass:      getenv("DB_PASS", "backoffice"),
		DBSSLMode:   getenv("DB_SSLMODE", "disable"),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisDB:       getint("REDIS_DB", 0),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		IdempTTLSecs: getint("IDEMPOTENCY_TTL_SECONDS", 300),

		MailProvider:    strings.ToLower(getenv("MAIL_PROVIDER", MailProviderConsole)),
		SendgridAPIKey:  os.Getenv("SENDGRID_API_KEY"),
		MailFromAddress: getenv("MAIL_FROM_ADDRESS", "no-reply@example.com"),
		MailFromName:    getenv("MAIL_FROM_NAME", "Onboarding Team"),

		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3Region:          getenv("S3_REGION", "us-east-1"),
		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3PublicBaseURL:   os.Getenv("S3_PUBLIC_BASE_URL"),

		ChecklistNotesFallback: getbool("CHECKLIST_NOTES_FALLBACK", true),
		SubmitRatePerSec:       getfloat("SUBMIT_RATE_LIMIT", 1),
	}, nil
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (postgres|mysql)", c.DBDriver)
	}
	if c.DatabaseURL == "" {
		if c.DBHost == "" || c.DBPort == "" || c.DBName == "" || c.DBUser == "" {
			return errors.New("missing DB config (DATABASE_URL or DB_HOST/PORT/NAME/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.DBPort); err != nil {
			return fmt.Errorf("invalid DB_PORT %q: %w", c.DBPort, err)
		}
	}
	switch c.MailProvider {
	case MailProviderConsole:
	case MailProviderSendgrid:
		if c.SendgridAPIKey == "" {
			return errors.New("missing SENDGRID_API_KEY for MAIL_PROVIDER=sendgrid")
		}
	default:
		return fmt.Errorf("unsupported MAIL_PROVIDER %q (sendgrid|console)", c.MailProvider)
	}
	if c.MailFromAddress == "" {
		return errors.New("missing MAIL_FROM_ADDRESS")
	}
	if _, err := url.ParseRequestURI(c.AppBaseURL); err != nil {
		return fmt.Errorf("invalid APP_BASE_URL %q: %w", c.AppBaseURL, err)
	}
	if c.SubmitRatePerSec <= 0 {
		return fmt.Errorf("SUBMIT_RATE_LIMIT must be positive, got %v", c.SubmitRatePerSec)
	}
	return nil
}

// DocumentStorageEnabled is true when an S3 bucket is configured.
func (c *Config) DocumentStorageEnabled() bool { return c.S3Bucket != "" }

func (c *Config) dbAddr() string { return net.JoinHostPort(c.DBHost, c.DBPort) }

// DSN returns DATABASE_URL when set, or builds one for the driver.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.DBDriver == "mysql" {
		// parseTime needed for DATETIME
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4,utf8",
			c.DBUser, c.DBPass, c.dbAddr(), c.DBName)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPass),
		Host:     c.dbAddr(),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}
