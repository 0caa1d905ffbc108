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
// All values must come from env (or an env-file loaded at startup).
// No business logic should depend on raw environment variables.
type Config struct {
	App   AppConfig
	DB    DBConfig
	Redis RedisConfig
	Auth  AuthConfig
	S3    S3Config
}

type AppConfig struct {
	Env  string
	Port int
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string

	// SSLMode is kept explicit so production deployments cannot silently
	// fall back to an unencrypted connection.
	// Accepts: disable, require, verify-ca, verify-full
	SSLMode string
}

type RedisConfig struct {
	Host string
	Port int
}

type AuthConfig struct {
	// AccessSecret and RefreshSecret must be distinct. A compromise of one
	// must not allow forging the other token kind.
	AccessSecret  string
	RefreshSecret string
	Issuer        string

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// RotateRefreshTokens replaces the stored refresh token on every
	// successful renewal. The presented token is invalid afterwards.
	RotateRefreshTokens bool

	CookieDomain      string
	AccessCookieName  string
	RefreshCookieName string

	// LoginAttemptLimit caps login attempts per email+IP inside LoginAttemptWindow.
	LoginAttemptLimit  int
	LoginAttemptWindow time.Duration
}

type S3Config struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKeyID  string
	SecretKey    string
}

func Load() (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	{
		n, err := mustInt("APP_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.Port = n
	}

	c.DB.Host = strings.TrimSpace(os.Getenv("DB_HOST"))
	{
		n, err := mustInt("DB_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.DB.Port = n
	}
	c.DB.User = strings.TrimSpace(os.Getenv("DB_USER"))
	c.DB.Password = os.Getenv("DB_PASSWORD")
	c.DB.Name = strings.TrimSpace(os.Getenv("DB_NAME"))
	c.DB.SSLMode = strings.TrimSpace(os.Getenv("DB_SSLMODE"))

	c.Redis.Host = strings.TrimSpace(os.Getenv("REDIS_HOST"))
	{
		n, err := mustInt("REDIS_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Redis.Port = n
	}

	c.Auth.AccessSecret = os.Getenv("AUTH_ACCESS_SECRET")
	c.Auth.RefreshSecret = os.Getenv("AUTH_REFRESH_SECRET")
	c.Auth.Issuer = strings.TrimSpace(os.Getenv("AUTH_ISSUER"))
	// Duration env vars are optional; defaults applied in Validate().
	c.Auth.AccessTokenTTL = mustDuration("AUTH_ACCESS_TTL")
	c.Auth.RefreshTokenTTL = mustDuration("AUTH_REFRESH_TTL")
	c.Auth.RotateRefreshTokens = parseBool(os.Getenv("AUTH_ROTATE_REFRESH"), true)
	c.Auth.CookieDomain = strings.TrimSpace(os.Getenv("AUTH_COOKIE_DOMAIN"))
	c.Auth.AccessCookieName = strings.TrimSpace(os.Getenv("AUTH_ACCESS_COOKIE"))
	c.Auth.RefreshCookieName = strings.TrimSpace(os.Getenv("AUTH_REFRESH_COOKIE"))
	c.Auth.LoginAttemptLimit = optionalInt("AUTH_LOGIN_ATTEMPT_LIMIT")
	c.Auth.LoginAttemptWindow = mustDuration("AUTH_LOGIN_ATTEMPT_WINDOW")

	c.S3.Bucket = strings.TrimSpace(os.Getenv("S3_BUCKET"))
	c.S3.Region = strings.TrimSpace(os.Getenv("S3_REGION"))
	c.S3.BaseEndpoint = strings.TrimSpace(os.Getenv("S3_BASE_ENDPOINT"))
	c.S3.AccessKeyID = strings.TrimSpace(os.Getenv("S3_ACCESS_KEY_ID"))
	c.S3.SecretKey = os.Getenv("S3_SECRET_ACCESS_KEY")

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

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

	if c.DB.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
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
	if strings.TrimSpace(c.DB.SSLMode) == "" {
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

	if c.Redis.Host == "" {
		errs = append(errs, errors.New("REDIS_HOST is required"))
	}
	if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
	}

	if c.Auth.AccessSecret == "" {
		errs = append(errs, errors.New("AUTH_ACCESS_SECRET is required"))
	}
	if c.Auth.RefreshSecret == "" {
		errs = append(errs, errors.New("AUTH_REFRESH_SECRET is required"))
	}
	if c.Auth.AccessSecret != "" && c.Auth.AccessSecret == c.Auth.RefreshSecret {
		errs = append(errs, errors.New("AUTH_ACCESS_SECRET and AUTH_REFRESH_SECRET must differ"))
	}
	if c.IsProduction() && c.Auth.Issuer == "" {
		errs = append(errs, errors.New("AUTH_ISSUER is required in production"))
	}

	if c.Auth.AccessTokenTTL <= 0 {
		// Short-lived access tokens bound the blast radius of a token that
		// cannot be revoked before its natural expiry.
		c.Auth.AccessTokenTTL = 15 * time.Minute
	}
	if c.Auth.RefreshTokenTTL <= 0 {
		c.Auth.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	if c.Auth.RefreshTokenTTL <= c.Auth.AccessTokenTTL {
		errs = append(errs, errors.New("AUTH_REFRESH_TTL must be greater than AUTH_ACCESS_TTL"))
	}
	if c.Auth.AccessCookieName == "" {
		c.Auth.AccessCookieName = "crm_access"
	}
	if c.Auth.RefreshCookieName == "" {
		c.Auth.RefreshCookieName = "crm_refresh"
	}
	if c.Auth.LoginAttemptLimit <= 0 {
		c.Auth.LoginAttemptLimit = 10
	}
	if c.Auth.LoginAttemptWindow <= 0 {
		c.Auth.LoginAttemptWindow = 5 * time.Minute
	}

	if c.IsProduction() {
		if c.S3.Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required in production"))
		}
		if c.S3.Region == "" {
			errs = append(errs, errors.New("S3_REGION is required in production"))
		}
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func (c Config) PostgresDSN() string {
	// Avoid logging this string; it contains secrets.
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.SSLMode,
	)
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func mustInt(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func optionalInt(key string) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
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

func parseBool(v string, def bool) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
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
