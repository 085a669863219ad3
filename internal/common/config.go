package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	OCR      OCRConfig      `yaml:"ocr"`
	Batch    BatchConfig    `yaml:"batch"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	// DSN is a postgres:// URL or a SQLite file path.
	DSN              string        `yaml:"dsn"`
	MaxConns         int32         `yaml:"max_conns"`
	MinConns         int32         `yaml:"min_conns"`
	MaxConnLifetime  time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime  time.Duration `yaml:"max_conn_idle_time"`
	DialTimeout      time.Duration `yaml:"dial_timeout"`
	StatementTimeout time.Duration `yaml:"statement_timeout"`
	BusyTimeout      time.Duration `yaml:"busy_timeout"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr        string `yaml:"grpc_addr"`
	HTTPAddr        string `yaml:"http_addr"`
	UploadCacheSize int    `yaml:"upload_cache_size"`
	MaxUploadBytes  int64  `yaml:"max_upload_bytes"`
}

// OCRConfig holds text extraction configuration
type OCRConfig struct {
	Pdftotext        string `yaml:"pdftotext"`
	Layout           bool   `yaml:"layout"`
	MaxPages         int    `yaml:"max_pages"`
	ArtifactCacheDir string `yaml:"artifact_cache_dir"`
}

// BatchConfig holds directory batch worker configuration
type BatchConfig struct {
	Workers        int           `yaml:"workers"`
	QueueSize      int           `yaml:"queue_size"`
	ProcessTimeout time.Duration `yaml:"process_timeout"`
}

// DefaultConfig returns the built-in defaults used before any file or env override.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:             "labels.db",
			MaxConns:        10,
			MinConns:        1,
			MaxConnLifetime: 30 * time.Minute,
			MaxConnIdleTime: 5 * time.Minute,
			DialTimeout:     3 * time.Second,
			BusyTimeout:     10 * time.Second,
		},
		Server: ServerConfig{
			GRPCAddr:        ":8080",
			HTTPAddr:        ":8081",
			UploadCacheSize: 128,
			MaxUploadBytes:  20 << 20,
		},
		OCR: OCRConfig{
			Pdftotext:        "pdftotext",
			ArtifactCacheDir: "./tmp",
		},
		Batch: BatchConfig{
			Workers:        4,
			QueueSize:      256,
			ProcessTimeout: 2 * time.Minute,
		},
	}
}

// LoadConfig loads configuration from a .env file (if present), an optional YAML
// file named by LABELS_CONFIG, and finally environment variables, which win.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if path := os.Getenv("LABELS_CONFIG"); path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("read %s", path), err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("parse %s", path), err)
	}
	return nil
}

func (c *Config) applyEnv() {
	d := &c.Database
	d.DSN = getEnv("DB_URL", d.DSN)
	d.MaxConns = getEnvAsInt32("DB_MAX_CONNS", d.MaxConns)
	d.MinConns = getEnvAsInt32("DB_MIN_CONNS", d.MinConns)
	d.MaxConnLifetime = getEnvAsDuration("DB_MAX_CONN_LIFETIME", d.MaxConnLifetime)
	d.MaxConnIdleTime = getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", d.MaxConnIdleTime)
	d.DialTimeout = getEnvAsDuration("DB_DIAL_TIMEOUT", d.DialTimeout)
	d.StatementTimeout = getEnvAsDuration("DB_STATEMENT_TIMEOUT", d.StatementTimeout)
	d.BusyTimeout = getEnvAsDuration("DB_BUSY_TIMEOUT", d.BusyTimeout)

	s := &c.Server
	s.GRPCAddr = getEnv("GRPC_ADDR", s.GRPCAddr)
	s.HTTPAddr = getEnv("HTTP_ADDR", s.HTTPAddr)
	s.UploadCacheSize = getEnvAsInt("UPLOAD_CACHE_SIZE", s.UploadCacheSize)
	s.MaxUploadBytes = int64(getEnvAsInt("MAX_UPLOAD_BYTES", int(s.MaxUploadBytes)))

	o := &c.OCR
	o.Pdftotext = getEnv("PDFTOTEXT_BIN", o.Pdftotext)
	o.Layout = getEnvAsBool("PDFTOTEXT_LAYOUT", o.Layout)
	o.MaxPages = getEnvAsInt("OCR_MAX_PAGES", o.MaxPages)
	o.ArtifactCacheDir = getEnv("ARTIFACT_CACHE_DIR", o.ArtifactCacheDir)

	b := &c.Batch
	b.Workers = getEnvAsInt("BATCH_WORKERS", b.Workers)
	b.QueueSize = getEnvAsInt("BATCH_QUEUE_SIZE", b.QueueSize)
	b.ProcessTimeout = getEnvAsDuration("BATCH_PROCESS_TIMEOUT", b.ProcessTimeout)
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// IsPostgres reports whether the DSN points at a Postgres server rather than a SQLite file.
func (d DatabaseConfig) IsPostgres() bool {
	dsn := strings.ToLower(d.DSN)
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("DB_URL", c.Database.DSN, Required).
		Field("GRPC_ADDR", c.Server.GRPCAddr, Required, ListenAddr).
		Field("HTTP_ADDR", c.Server.HTTPAddr, Required, ListenAddr).
		Field("UPLOAD_CACHE_SIZE", c.Server.UploadCacheSize, Positive).
		Field("MAX_UPLOAD_BYTES", c.Server.MaxUploadBytes, Positive).
		Field("BATCH_WORKERS", c.Batch.Workers, Positive).
		Field("BATCH_QUEUE_SIZE", c.Batch.QueueSize, Positive)
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}
