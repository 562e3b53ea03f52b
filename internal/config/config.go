// Package config loads farmboard settings from .env, an optional YAML file,
// and FARMBOARD_* environment overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"farmboard/internal/blob"
	"farmboard/internal/seed"
)

// EnvConfigPath names the YAML file to read.
const EnvConfigPath = "FARMBOARD_CONFIG"

// Config holds all farmboard settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Latency LatencyConfig `yaml:"latency"`
	Seed    SeedConfig    `yaml:"seed"`
	Blob    BlobConfig    `yaml:"blob"`
	Metrics MetricsConfig `yaml:"metrics"`
	Report  ReportConfig  `yaml:"report"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// LatencyConfig bounds the simulated per-call delay, as Go durations.
type LatencyConfig struct {
	Min string `yaml:"min"`
	Max string `yaml:"max"`
}

// SeedConfig selects where the starting dataset comes from.
type SeedConfig struct {
	Driver      string `yaml:"driver"` // embedded, blob, sqlite, postgres
	Prefix      string `yaml:"prefix"`
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

// BlobConfig selects the blob backend used by blob seeds and reports.
type BlobConfig struct {
	Driver string        `yaml:"driver"` // fs, s3, memory
	FSRoot string        `yaml:"fs_root"`
	S3     blob.S3Config `yaml:"s3"`
}

// MetricsConfig configures operation metrics and traces.
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path"`
	TracePath    string `yaml:"trace_path"`
	Expvar       bool   `yaml:"expvar"`
	OTel         bool   `yaml:"otel"`
}

// ReportConfig configures workbook publishing.
type ReportConfig struct {
	Prefix string `yaml:"prefix"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Latency: LatencyConfig{Min: "200ms", Max: "500ms"},
		Seed:    SeedConfig{Driver: string(seed.DriverEmbedded), Prefix: seed.DefaultPrefix, SQLitePath: "farmboard.db"},
		Blob:    BlobConfig{Driver: string(blob.DriverFilesystem), FSRoot: "./blobdata"},
		Report:  ReportConfig{Prefix: "reports"},
	}
}

// Load reads .env from the working directory if present, then the YAML file
// named by FARMBOARD_CONFIG, then environment overrides.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return LoadFile(os.Getenv(EnvConfigPath))
}

// LoadFile reads the YAML file at path over the defaults and applies
// environment overrides. An empty path skips the file. Empty environment
// values override nothing.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	strs := map[string]*string{
		"FARMBOARD_LOG_LEVEL":          &c.Logging.Level,
		"FARMBOARD_LOG_FORMAT":         &c.Logging.Format,
		"FARMBOARD_LATENCY_MIN":        &c.Latency.Min,
		"FARMBOARD_LATENCY_MAX":        &c.Latency.Max,
		"FARMBOARD_SEED_DRIVER":        &c.Seed.Driver,
		"FARMBOARD_SEED_PREFIX":        &c.Seed.Prefix,
		"FARMBOARD_SQLITE_PATH":        &c.Seed.SQLitePath,
		"FARMBOARD_POSTGRES_DSN":       &c.Seed.PostgresDSN,
		"FARMBOARD_BLOB_DRIVER":        &c.Blob.Driver,
		"FARMBOARD_BLOB_FS_ROOT":       &c.Blob.FSRoot,
		"FARMBOARD_BLOB_S3_BUCKET":     &c.Blob.S3.Bucket,
		"FARMBOARD_BLOB_S3_REGION":     &c.Blob.S3.Region,
		"FARMBOARD_BLOB_S3_ENDPOINT":   &c.Blob.S3.Endpoint,
		"FARMBOARD_METRICS_TEXTFILE":   &c.Metrics.TextfilePath,
		"FARMBOARD_TRACE_PATH":         &c.Metrics.TracePath,
		"FARMBOARD_REPORT_PREFIX":      &c.Report.Prefix,
		"FARMBOARD_BLOB_S3_ACCESS_KEY": &c.Blob.S3.AccessKeyID,
		"FARMBOARD_BLOB_S3_SECRET_KEY": &c.Blob.S3.SecretAccessKey,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	bools := map[string]*bool{
		"FARMBOARD_BLOB_S3_PATH_STYLE": &c.Blob.S3.PathStyle,
		"FARMBOARD_METRICS_EXPVAR":     &c.Metrics.Expvar,
		"FARMBOARD_OTEL":               &c.Metrics.OTel,
	}
	for key, dst := range bools {
		v := os.Getenv(key)
		if strings.TrimSpace(v) == "" {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = b
	}
	return nil
}

// Validate checks enumerations and duration syntax.
func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q: want json or console", c.Logging.Format))
	}
	if _, _, err := c.LatencyBounds(); err != nil {
		errs = append(errs, err)
	}
	switch seed.Driver(c.Seed.Driver) {
	case "", seed.DriverEmbedded, seed.DriverBlob, seed.DriverSQLite, seed.DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("seed.driver %q: want embedded, blob, sqlite, or postgres", c.Seed.Driver))
	}
	switch blob.Driver(c.Blob.Driver) {
	case "", blob.DriverFilesystem, blob.DriverMemory, blob.DriverS3:
	default:
		errs = append(errs, fmt.Errorf("blob.driver %q: want fs, memory, or s3", c.Blob.Driver))
	}
	return errors.Join(errs...)
}

// LatencyBounds parses the latency settings. Empty values mean zero.
func (c *Config) LatencyBounds() (lo, hi time.Duration, err error) {
	parse := func(name, v string) (time.Duration, error) {
		if strings.TrimSpace(v) == "" {
			return 0, nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("latency.%s %q: %w", name, v, err)
		}
		if d < 0 {
			return 0, fmt.Errorf("latency.%s %q: must not be negative", name, v)
		}
		return d, nil
	}
	if lo, err = parse("min", c.Latency.Min); err != nil {
		return 0, 0, err
	}
	if hi, err = parse("max", c.Latency.Max); err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}

// BlobStore returns the blob backend settings.
func (c *Config) BlobStore() blob.Config {
	return blob.Config{Driver: blob.Driver(c.Blob.Driver), FSRoot: c.Blob.FSRoot, S3: c.Blob.S3}
}

// SeedSource returns the seed backend settings.
func (c *Config) SeedSource() seed.Config {
	return seed.Config{
		Driver:      seed.Driver(c.Seed.Driver),
		Prefix:      c.Seed.Prefix,
		SQLitePath:  c.Seed.SQLitePath,
		PostgresDSN: c.Seed.PostgresDSN,
		Blob:        c.BlobStore(),
	}
}
