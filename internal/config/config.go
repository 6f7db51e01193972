package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration required by the API process.
// All values must come from env (or env-file loaded by the process runner).
// No business logic should depend on raw environment variables.
type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	Auth    AuthConfig
	Login   LoginConfig
	Mail    MailConfig
	Uploads UploadConfig
	HTTP    HTTPConfig
}

type AppConfig struct {
	Env  string
	Port int
}

// Driver names accepted by DB_DRIVER.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DBConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string

	// SSLMode applies to postgres only.
	// Accepts: disable, require, verify-ca, verify-full
	SSLMode string

	// Path is the database file for the sqlite driver.
	Path string
}

// RedisConfig is optional. An empty Host selects the in-process login limiter.
type RedisConfig struct {
	Host string
	Port int
}

type AuthConfig struct {
	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration

	// Bootstrap admin. Checked before the editor store so the system stays
	// usable with an empty database.
	AdminUsername string
	AdminPassword string
}

type LoginConfig struct {
	MaxAttempts int
	Window      time.Duration
}

// MailConfig is optional. An empty Host disables assignment emails.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type UploadConfig struct {
	Backend  string // local | s3
	Dir      string
	MaxBytes int64

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

type HTTPConfig struct {
	FrontendOrigin string
	StaticDir      string
	RatePerSecond  float64
	RateBurst      int
}

func Load() (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	c.App.Port, parseErrs = intOr(parseErrs, "APP_PORT", 5000)

	c.DB.Driver = strings.ToLower(strings.TrimSpace(os.Getenv("DB_DRIVER")))
	c.DB.Host = strings.TrimSpace(os.Getenv("DB_HOST"))
	c.DB.Port, parseErrs = intOr(parseErrs, "DB_PORT", 0)
	c.DB.User = strings.TrimSpace(os.Getenv("DB_USER"))
	c.DB.Password = os.Getenv("DB_PASSWORD")
	c.DB.Name = strings.TrimSpace(os.Getenv("DB_NAME"))
	c.DB.SSLMode = strings.TrimSpace(os.Getenv("DB_SSLMODE"))
	c.DB.Path = strings.TrimSpace(os.Getenv("DB_PATH"))

	c.Redis.Host = strings.TrimSpace(os.Getenv("REDIS_HOST"))
	c.Redis.Port, parseErrs = intOr(parseErrs, "REDIS_PORT", 6379)

	c.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	c.Auth.JWTIssuer = strings.TrimSpace(os.Getenv("JWT_ISSUER"))
	// Duration env vars are optional; defaults applied in Validate().
	c.Auth.TokenTTL = mustDuration("JWT_TTL")
	c.Auth.AdminUsername = strings.TrimSpace(os.Getenv("ADMIN_USERNAME"))
	c.Auth.AdminPassword = os.Getenv("ADMIN_PASSWORD")

	c.Login.MaxAttempts, parseErrs = intOr(parseErrs, "LOGIN_MAX_ATTEMPTS", 0)
	c.Login.Window = mustDuration("LOGIN_WINDOW")

	c.Mail.Host = strings.TrimSpace(os.Getenv("SMTP_HOST"))
	c.Mail.Port, parseErrs = intOr(parseErrs, "SMTP_PORT", 587)
	c.Mail.Username = strings.TrimSpace(os.Getenv("SMTP_USERNAME"))
	c.Mail.Password = os.Getenv("SMTP_PASSWORD")
	c.Mail.From = strings.TrimSpace(os.Getenv("SMTP_FROM"))

	c.Uploads.Backend = strings.ToLower(strings.TrimSpace(os.Getenv("UPLOAD_BACKEND")))
	c.Uploads.Dir = strings.TrimSpace(os.Getenv("UPLOAD_DIR"))
	{
		n, errs := intOr(parseErrs, "UPLOAD_MAX_BYTES", 0)
		c.Uploads.MaxBytes, parseErrs = int64(n), errs
	}
	c.Uploads.S3Bucket = strings.TrimSpace(os.Getenv("S3_BUCKET"))
	c.Uploads.S3Region = strings.TrimSpace(os.Getenv("S3_REGION"))
	c.Uploads.S3Endpoint = strings.TrimSpace(os.Getenv("S3_ENDPOINT"))
	c.Uploads.S3AccessKey = strings.TrimSpace(os.Getenv("S3_ACCESS_KEY"))
	c.Uploads.S3SecretKey = os.Getenv("S3_SECRET_KEY")

	c.HTTP.FrontendOrigin = strings.TrimSpace(os.Getenv("FRONTEND_ORIGIN"))
	c.HTTP.StaticDir = strings.TrimSpace(os.Getenv("STATIC_DIR"))
	if v := strings.TrimSpace(os.Getenv("API_RATE_PER_SEC")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			parseErrs = append(parseErrs, fmt.Errorf("API_RATE_PER_SEC must be a number, got %q", v))
		}
		c.HTTP.RatePerSecond = f
	}
	c.HTTP.RateBurst, parseErrs = intOr(parseErrs, "API_RATE_BURST", 0)

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks required values and fills defaults in place.
func (c *Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	if c.DB.Driver == "" {
		c.DB.Driver = DriverMySQL
	}
	switch c.DB.Driver {
	case DriverMySQL, DriverPostgres:
		if c.DB.Host == "" {
			errs = append(errs, errors.New("DB_HOST is required"))
		}
		if c.DB.Port == 0 {
			c.DB.Port = defaultDBPort(c.DB.Driver)
		}
		if c.DB.Port <= 0 || c.DB.Port > 65535 {
			errs = append(errs, fmt.Errorf("DB_PORT must be a valid port, got %d", c.DB.Port))
		}
		if c.DB.User == "" {
			errs = append(errs, errors.New("DB_USER is required"))
		}
		if c.DB.Name == "" {
			errs = append(errs, errors.New("DB_NAME is required"))
		}
	case DriverSQLite:
		if c.DB.Path == "" {
			c.DB.Path = "database.sqlite"
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be one of mysql, postgres, sqlite, got %q", c.DB.Driver))
	}
	if c.DB.Driver == DriverPostgres {
		if c.DB.SSLMode == "" {
			if c.IsProduction() {
				errs = append(errs, errors.New("DB_SSLMODE is required in production"))
			} else {
				// Local-friendly default; production must be explicit.
				c.DB.SSLMode = "disable"
			}
		}
		if c.DB.SSLMode != "" && !isValidSSLMode(c.DB.SSLMode) {
			errs = append(errs, fmt.Errorf("DB_SSLMODE must be one of disable, require, verify-ca, verify-full, got %q", c.DB.SSLMode))
		}
	}

	if c.Redis.Host != "" && (c.Redis.Port <= 0 || c.Redis.Port > 65535) {
		errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if c.IsProduction() && len(c.Auth.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 bytes in production"))
	}
	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = 24 * time.Hour
	}
	if (c.Auth.AdminUsername == "") != (c.Auth.AdminPassword == "") {
		errs = append(errs, errors.New("ADMIN_USERNAME and ADMIN_PASSWORD must be set together"))
	}
	if c.IsProduction() && c.Auth.AdminUsername == "" {
		errs = append(errs, errors.New("ADMIN_USERNAME is required in production"))
	}

	if c.Login.MaxAttempts <= 0 {
		c.Login.MaxAttempts = 5
	}
	if c.Login.Window <= 0 {
		c.Login.Window = 15 * time.Minute
	}

	if c.Mail.Host != "" {
		if c.Mail.Port <= 0 || c.Mail.Port > 65535 {
			errs = append(errs, fmt.Errorf("SMTP_PORT must be a valid port, got %d", c.Mail.Port))
		}
		if c.Mail.From == "" {
			c.Mail.From = c.Mail.Username
		}
		if c.Mail.From == "" {
			errs = append(errs, errors.New("SMTP_FROM is required when SMTP_HOST is set"))
		}
	}

	if c.Uploads.Backend == "" {
		c.Uploads.Backend = "local"
	}
	switch c.Uploads.Backend {
	case "local":
		if c.Uploads.Dir == "" {
			c.Uploads.Dir = "uploads"
		}
	case "s3":
		if c.Uploads.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required when UPLOAD_BACKEND=s3"))
		}
		if c.Uploads.S3Region == "" {
			c.Uploads.S3Region = "us-east-1"
		}
		if (c.Uploads.S3AccessKey == "") != (c.Uploads.S3SecretKey == "") {
			errs = append(errs, errors.New("S3_ACCESS_KEY and S3_SECRET_KEY must be set together"))
		}
	default:
		errs = append(errs, fmt.Errorf("UPLOAD_BACKEND must be one of local, s3, got %q", c.Uploads.Backend))
	}
	if c.Uploads.MaxBytes <= 0 {
		c.Uploads.MaxBytes = 10 << 20
	}

	if c.HTTP.FrontendOrigin == "" && !c.IsProduction() {
		c.HTTP.FrontendOrigin = "http://localhost:5173"
	}
	if c.HTTP.RatePerSecond <= 0 {
		c.HTTP.RatePerSecond = 20
	}
	if c.HTTP.RateBurst <= 0 {
		c.HTTP.RateBurst = 40
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

// DSN returns the driver-specific data source name.
// Avoid logging this string; it contains secrets.
func (c Config) DSN() string {
	switch c.DB.Driver {
	case DriverPostgres:
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.DB.Host,
			c.DB.Port,
			c.DB.User,
			c.DB.Password,
			c.DB.Name,
			c.DB.SSLMode,
		)
	case DriverSQLite:
		return "file:" + c.DB.Path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	default:
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=UTC&clientFoundRows=true",
			c.DB.User,
			c.DB.Password,
			c.DB.Host,
			c.DB.Port,
			c.DB.Name,
		)
	}
}

func (c Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func (c Config) MailEnabled() bool {
	return c.Mail.Host != ""
}

func intOr(errs []error, key string, def int) (int, []error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, errs
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, append(errs, fmt.Errorf("%s must be an integer, got %q", key, v))
	}
	return n, errs
}

func mustDuration(key string) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

func defaultDBPort(driver string) int {
	if driver == DriverPostgres {
		return 5432
	}
	return 3306
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func isValidSSLMode(v string) bool {
	switch v {
	case "disable", "require", "verify-ca", "verify-full":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
