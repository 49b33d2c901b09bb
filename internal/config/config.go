package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Logging   LoggingConfig
	Store     StoreConfig
	Form      FormConfig
	Mail      MailConfig
	Auth      AuthConfig
	Site      SiteConfig
	CORS      CORSConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
	Backup    BackupConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

// StoreConfig locates the quote store document
type StoreConfig struct {
	// Path is the JSON document holding all quote records
	Path string
}

// FormConfig tunes the public submission form
type FormConfig struct {
	// PhonePlaceholder replaces a blank phone field on submission
	PhonePlaceholder string
}

// MailConfig holds SMTP settings for notification emails.
// Leaving Host empty disables sending; messages are logged instead.
type MailConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	// FromName is the brand name used in From headers and subjects
	FromName string
	// OwnerEmail receives the new-quote notification; falls back to Username
	OwnerEmail string
}

// AuthConfig holds the admin gate settings
type AuthConfig struct {
	// AdminPasswordHash is a bcrypt hash of the admin password (preferred)
	AdminPasswordHash string
	// AdminPassword is the plain admin password, used only when no hash is set
	AdminPassword string
	// SessionSecret signs admin session tokens (HS256)
	SessionSecret string
	// SessionTTLMinutes is the admin session lifetime
	SessionTTLMinutes int
}

// SiteConfig covers the public pages served around the API
type SiteConfig struct {
	// StaticDir is the directory of pre-rendered pages and assets
	StaticDir string
	// SupportedLangs are the accepted values for the language cookie
	SupportedLangs []string
	DefaultLang    string
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// SecurityConfig holds security header configuration
type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	ContentSecurityPolicy string
	FrameOptions          string
	ContentTypeNosniff    bool
	XSSProtection         string
	ReferrerPolicy        string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Enabled enables IP-based rate limiting
	Enabled bool
	// RequestsPerMinute is the per-IP limit
	RequestsPerMinute int
	// WhitelistPaths bypass rate limiting (e.g. /health)
	WhitelistPaths []string
}

// BackupConfig schedules periodic copies of the store document
type BackupConfig struct {
	Enabled bool
	// CronExpr follows robfig/cron format, 5-field or descriptors like @daily
	CronExpr string
	// Dir receives timestamped copies of the store document
	Dir string
	// Keep is the number of backup files retained after pruning
	Keep int
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// IdleTimeoutDuration returns idle timeout as duration
func (s *ServerConfig) IdleTimeoutDuration() time.Duration {
	return time.Duration(s.IdleTimeout) * time.Second
}

// SessionTTL returns the admin session lifetime as duration
func (a *AuthConfig) SessionTTL() time.Duration {
	return time.Duration(a.SessionTTLMinutes) * time.Minute
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	// Read from config file
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Flat environment names kept for compatibility with existing deployments
	if cfg.Auth.SessionSecret == "" {
		cfg.Auth.SessionSecret = v.GetString("SECRET_KEY")
	}
	if cfg.Auth.AdminPassword == "" {
		cfg.Auth.AdminPassword = v.GetString("ADMIN_PASSWORD")
	}
	if cfg.Auth.AdminPasswordHash == "" {
		cfg.Auth.AdminPasswordHash = v.GetString("ADMIN_PASSWORD_HASH")
	}
	if cfg.Mail.Host == "" {
		cfg.Mail.Host = v.GetString("MAIL_SERVER")
	}
	if p := v.GetInt("MAIL_PORT"); p != 0 {
		cfg.Mail.Port = p
	}
	if cfg.Mail.Username == "" {
		cfg.Mail.Username = v.GetString("MAIL_USERNAME")
	}
	if cfg.Mail.Password == "" {
		cfg.Mail.Password = v.GetString("MAIL_PASSWORD")
	}
	if cfg.Mail.OwnerEmail == "" {
		cfg.Mail.OwnerEmail = v.GetString("OWNER_EMAIL")
	}

	// Owner notifications and the From header default to the SMTP account
	if cfg.Mail.OwnerEmail == "" {
		cfg.Mail.OwnerEmail = cfg.Mail.Username
	}
	if cfg.Mail.FromEmail == "" {
		cfg.Mail.FromEmail = cfg.Mail.Username
	}

	return &cfg, nil
}

// Validate checks configuration values that must be set before serving
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("app.port must be a valid TCP port, got %d", c.App.Port)
	}
	if c.Auth.AdminPasswordHash == "" && c.Auth.AdminPassword == "" {
		return fmt.Errorf("admin password not configured: set ADMIN_PASSWORD_HASH or ADMIN_PASSWORD")
	}
	if c.App.Environment != "development" && c.App.Environment != "local" {
		if len(c.Auth.SessionSecret) < 32 {
			return fmt.Errorf("SECRET_KEY must be at least 32 characters outside development")
		}
	}
	if c.Auth.SessionSecret == "" {
		return fmt.Errorf("SECRET_KEY must be set")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "msplaco-quote-api")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8080)

	// Server defaults
	v.SetDefault("server.readtimeout", 15)
	v.SetDefault("server.writetimeout", 15)
	v.SetDefault("server.idletimeout", 60)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Store defaults
	v.SetDefault("store.path", "data/quotes.json")

	// Form defaults
	v.SetDefault("form.phoneplaceholder", "Non renseigne")

	// Mail defaults
	v.SetDefault("mail.host", "")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.fromname", "MsPlaco")

	// Auth defaults
	v.SetDefault("auth.sessionttlminutes", 720)

	// Site defaults
	v.SetDefault("site.staticdir", "web/static")
	v.SetDefault("site.supportedlangs", []string{"fr", "ar"})
	v.SetDefault("site.defaultlang", "fr")

	// CORS defaults
	v.SetDefault("cors.allowedmethods", []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedheaders", []string{"Accept", "Content-Type", "Authorization", "X-Requested-With"})
	v.SetDefault("cors.exposedheaders", []string{"Content-Type"})
	v.SetDefault("cors.allowcredentials", true)
	v.SetDefault("cors.maxage", 300)

	// Security header defaults
	v.SetDefault("security.contenttypenosniff", true)
	v.SetDefault("security.frameoptions", "DENY")
	v.SetDefault("security.xssprotection", "1; mode=block")
	v.SetDefault("security.referrerpolicy", "strict-origin-when-cross-origin")
	v.SetDefault("security.enablehsts", false)
	v.SetDefault("security.hstsmaxage", 31536000)

	// Rate limit defaults
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requestsperminute", 120)
	v.SetDefault("ratelimit.whitelistpaths", []string{"/health", "/health/ready"})

	// Backup defaults
	v.SetDefault("backup.enabled", false)
	v.SetDefault("backup.cronexpr", "@daily")
	v.SetDefault("backup.dir", "data/backups")
	v.SetDefault("backup.keep", 14)
}
