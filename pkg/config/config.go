package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var ErrMissingSecret = errors.New("JWT_SECRET is not set")

// Config is the process configuration.
// Env:
//
//	PORT or LISTEN_ADDR, JWT_SECRET, APP_ENV,
//	DATABASE_DRIVER, DATABASE_PATH, DATABASE_DSN (or MYSQL_HOST, MYSQL_PORT, MYSQL_USER, MYSQL_PASS, MYSQL_DB),
//	LOG_LEVEL, LOG_FORMAT, LOG_FILE, ADMIN_USERNAME, ADMIN_PASSWORD, TLS_CERT, TLS_KEY
type Config struct {
	Addr      string
	JWTSecret string
	Env       string

	Database Database
	Log      Log
	Admin    Admin

	TLSCert string
	TLSKey  string
}

type Database struct {
	Driver string
	Path   string
	DSN    string

	MySQLHost string
	MySQLPort string
	MySQLUser string
	MySQLPass string
	MySQLDB   string
}

type Log struct {
	Level  string
	Format string
	File   string
}

// Admin is the account seeded into an empty user table.
type Admin struct {
	UserName string
	Password string
}

// Load reads .env (if present) and the environment. The returned error is
// non-nil when the token secret is absent.
func Load() (*Config, error) {
	_ = loadDotEnv()
	return FromEnv()
}

func FromEnv() (*Config, error) {
	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":" + getenv("PORT", "3001")
	}
	cfg := &Config{
		Addr:      addr,
		JWTSecret: os.Getenv("JWT_SECRET"),
		Env:       strings.ToLower(getenv("APP_ENV", "production")),
		Database: Database{
			Driver:    strings.ToLower(getenv("DATABASE_DRIVER", "sqlite")),
			Path:      getenv("DATABASE_PATH", "./database/dashboard.db"),
			DSN:       os.Getenv("DATABASE_DSN"),
			MySQLHost: getenv("MYSQL_HOST", "127.0.0.1"),
			MySQLPort: getenv("MYSQL_PORT", "3306"),
			MySQLUser: getenv("MYSQL_USER", "root"),
			MySQLPass: getenv("MYSQL_PASS", ""),
			MySQLDB:   getenv("MYSQL_DB", "dashboard"),
		},
		Log: Log{
			Level:  getenv("LOG_LEVEL", "info"),
			Format: getenv("LOG_FORMAT", "text"),
			File:   os.Getenv("LOG_FILE"),
		},
		Admin: Admin{
			UserName: getenv("ADMIN_USERNAME", "admin"),
			Password: getenv("ADMIN_PASSWORD", "admin123"),
		},
		TLSCert: os.Getenv("TLS_CERT"),
		TLSKey:  os.Getenv("TLS_KEY"),
	}
	if cfg.JWTSecret == "" {
		return cfg, ErrMissingSecret
	}
	return cfg, nil
}

func (c *Config) Development() bool {
	return c.Env == "development"
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func loadDotEnv() error {
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load(".env")
	}
	return nil
}
