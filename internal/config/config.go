package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Server
	ServerPort string `yaml:"server_port"`
	ServerHost string `yaml:"server_host"`
	GinMode    string `yaml:"gin_mode"`

	// Database
	DatabaseURL  string `yaml:"database_url"`
	DatabaseType string `yaml:"database_type"` // "postgres" or "sqlite"
	SeedDemo     bool   `yaml:"seed_demo"`

	// JWT
	JWTSecret     string `yaml:"jwt_secret"`
	JWTExpiration int    `yaml:"jwt_expiration"` // hours

	// Admin bootstrap
	AdminEmail     string `yaml:"admin_email"`
	AdminPassword  string `yaml:"admin_password"`
	AdminSecretKey string `yaml:"admin_secret_key"`

	// Storage
	UploadDir    string `yaml:"upload_dir"`
	UploadPrefix string `yaml:"upload_prefix"`

	// Email
	SMTPHost          string `yaml:"smtp_host"`
	SMTPPort          int    `yaml:"smtp_port"`
	SMTPUser          string `yaml:"smtp_user"`
	SMTPPassword      string `yaml:"smtp_password"`
	FromEmail         string `yaml:"from_email"`
	NotificationEmail string `yaml:"notification_email"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogPretty bool   `yaml:"log_pretty"`

	// App
	AppURL  string `yaml:"app_url"`
	AppName string `yaml:"app_name"`
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and finally the environment.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		ServerPort: "8080",
		ServerHost: "0.0.0.0",
		GinMode:    "debug",

		DatabaseURL:  "themeboard.db",
		DatabaseType: "sqlite",

		JWTSecret:     "your-super-secret-key-change-in-production",
		JWTExpiration: 720,

		AdminEmail:     "admin@themeboard.local",
		AdminPassword:  "admin123",
		AdminSecretKey: "admin-secret-key-change-in-production",

		UploadDir:    "./uploads",
		UploadPrefix: "/uploads",

		SMTPPort:  587,
		FromEmail: "noreply@themeboard.local",

		LogLevel:  "info",
		LogPretty: true,

		AppURL:  "http://localhost:8080",
		AppName: "Project Management System",
	}
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	// Server
	c.ServerPort = getEnv("SERVER_PORT", c.ServerPort)
	c.ServerHost = getEnv("SERVER_HOST", c.ServerHost)
	c.GinMode = getEnv("GIN_MODE", c.GinMode)

	// Database
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.DatabaseType = getEnv("DATABASE_TYPE", c.DatabaseType)
	c.SeedDemo = getEnvBool("SEED_DEMO", c.SeedDemo)

	// JWT
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTExpiration = getEnvInt("JWT_EXPIRATION", c.JWTExpiration)

	// Admin bootstrap
	c.AdminEmail = getEnv("ADMIN_EMAIL", c.AdminEmail)
	c.AdminPassword = getEnv("ADMIN_PASSWORD", c.AdminPassword)
	c.AdminSecretKey = getEnv("ADMIN_SECRET_KEY", c.AdminSecretKey)

	// Storage
	c.UploadDir = getEnv("UPLOAD_DIR", c.UploadDir)
	c.UploadPrefix = getEnv("UPLOAD_PREFIX", c.UploadPrefix)

	// Email
	c.SMTPHost = getEnv("SMTP_HOST", c.SMTPHost)
	c.SMTPPort = getEnvInt("SMTP_PORT", c.SMTPPort)
	c.SMTPUser = getEnv("SMTP_USER", c.SMTPUser)
	c.SMTPPassword = getEnv("SMTP_PASSWORD", c.SMTPPassword)
	c.FromEmail = getEnv("FROM_EMAIL", c.FromEmail)
	c.NotificationEmail = getEnv("NOTIFICATION_EMAIL", c.NotificationEmail)

	// Logging
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogPretty = getEnvBool("LOG_PRETTY", c.LogPretty)

	// App
	c.AppURL = getEnv("APP_URL", c.AppURL)
	c.AppName = getEnv("APP_NAME", c.AppName)
}

// NotificationRecipient is where change notifications go; it falls back to
// the SMTP user like the mailer always has.
func (c *Config) NotificationRecipient() string {
	if c.NotificationEmail != "" {
		return c.NotificationEmail
	}
	return c.SMTPUser
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
