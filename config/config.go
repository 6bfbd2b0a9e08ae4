package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

const (
	BlobBackendFS    = "fs"
	BlobBackendMinIO = "minio"

	// EnvConfigFile names an optional YAML file loaded before the environment.
	EnvConfigFile = "GALERIE_CONFIG"
)

// Duration is a time.Duration written as "90s" or "7d" style strings in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := parseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type QueueConfig struct {
	MaxAttempts         int      `yaml:"max_attempts"`
	StaleAfter          Duration `yaml:"stale_after"`
	CompletedRetention  Duration `yaml:"completed_retention"`
	FailedRetention     Duration `yaml:"failed_retention"`
	DrainDelay          Duration `yaml:"drain_delay"`
	MaintenanceInterval Duration `yaml:"maintenance_interval"`
	StartupGrace        Duration `yaml:"startup_grace"`
	TempFileMaxAge      Duration `yaml:"temp_file_max_age"`
}

type Config struct {
	Port       int    `yaml:"port"`
	DataDir    string `yaml:"data_dir"`
	TempDir    string `yaml:"temp_dir"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
	AdminToken string `yaml:"admin_token"`
	TrustProxy bool   `yaml:"trust_proxy"`

	// AdminTokenHash is a bcrypt hash accepted in place of AdminToken.
	AdminTokenHash string `yaml:"admin_token_hash"`

	MaxImageSizeMB int `yaml:"max_image_size_mb"`
	MaxVideoSizeMB int `yaml:"max_video_size_mb"`

	BlobBackend string      `yaml:"blob_backend"`
	MinIO       MinIOConfig `yaml:"minio"`

	FFmpegPath   string `yaml:"ffmpeg_path"`
	FFprobePath  string `yaml:"ffprobe_path"`
	CWebPPath    string `yaml:"cwebp_path"`
	JPEGTranPath string `yaml:"jpegtran_path"`

	Queue QueueConfig `yaml:"queue"`
}

func Default() *Config {
	return &Config{
		Port:           7890,
		DataDir:        "/data",
		LogLevel:       "info",
		LogFormat:      "json",
		MaxImageSizeMB: 10,
		MaxVideoSizeMB: 100,
		BlobBackend:    BlobBackendFS,
		MinIO: MinIOConfig{
			Bucket: "galerie",
			Region: "us-east-1",
		},
		Queue: QueueConfig{
			MaxAttempts:         3,
			StaleAfter:          Duration(5 * time.Minute),
			CompletedRetention:  Duration(7 * 24 * time.Hour),
			FailedRetention:     Duration(30 * 24 * time.Hour),
			DrainDelay:          Duration(time.Second),
			MaintenanceInterval: Duration(time.Minute),
			StartupGrace:        Duration(2 * time.Second),
			TempFileMaxAge:      Duration(6 * time.Hour),
		},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (or $GALERIE_CONFIG), then environment variables. An explicitly named file
// must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if cfg.TempDir == "" {
		cfg.TempDir = filepath.Join(cfg.DataDir, "tmp")
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var errs []error
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	setBool := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
				return
			}
			*dst = b
		}
	}
	setDuration := func(key string, dst *Duration) {
		if v := os.Getenv(key); v != "" {
			d, err := parseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
				return
			}
			*dst = Duration(d)
		}
	}
	setString := func(key string, dst *string) {
		*dst = getEnv(key, *dst)
	}

	setInt("PORT", &c.Port)
	setString("DATA_DIR", &c.DataDir)
	setString("TEMP_DIR", &c.TempDir)
	setString("LOG_LEVEL", &c.LogLevel)
	setString("LOG_FORMAT", &c.LogFormat)
	setString("ADMIN_TOKEN", &c.AdminToken)
	setString("ADMIN_TOKEN_HASH", &c.AdminTokenHash)
	setBool("TRUST_PROXY", &c.TrustProxy)
	setInt("MAX_IMAGE_SIZE_MB", &c.MaxImageSizeMB)
	setInt("MAX_VIDEO_SIZE_MB", &c.MaxVideoSizeMB)

	setString("BLOB_BACKEND", &c.BlobBackend)
	setString("MINIO_ENDPOINT", &c.MinIO.Endpoint)
	setString("MINIO_ACCESS_KEY", &c.MinIO.AccessKey)
	setString("MINIO_SECRET_KEY", &c.MinIO.SecretKey)
	setString("MINIO_BUCKET", &c.MinIO.Bucket)
	setString("MINIO_REGION", &c.MinIO.Region)
	setBool("MINIO_USE_SSL", &c.MinIO.UseSSL)

	setString("FFMPEG_PATH", &c.FFmpegPath)
	setString("FFPROBE_PATH", &c.FFprobePath)
	setString("CWEBP_PATH", &c.CWebPPath)
	setString("JPEGTRAN_PATH", &c.JPEGTranPath)

	setInt("JOB_MAX_ATTEMPTS", &c.Queue.MaxAttempts)
	setDuration("JOB_STALE_AFTER", &c.Queue.StaleAfter)
	setDuration("COMPLETED_JOB_RETENTION", &c.Queue.CompletedRetention)
	setDuration("FAILED_JOB_RETENTION", &c.Queue.FailedRetention)
	setDuration("DRAIN_DELAY", &c.Queue.DrainDelay)
	setDuration("MAINTENANCE_INTERVAL", &c.Queue.MaintenanceInterval)
	setDuration("STARTUP_GRACE", &c.Queue.StartupGrace)
	setDuration("TEMP_FILE_MAX_AGE", &c.Queue.TempFileMaxAge)

	return errors.Join(errs...)
}

// Validate checks everything every command needs.
func (c *Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New("DATA_DIR is required"))
	}
	if c.MaxImageSizeMB <= 0 || c.MaxVideoSizeMB <= 0 {
		errs = append(errs, errors.New("upload size limits must be positive"))
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q must be json or console", c.LogFormat))
	}

	switch c.BlobBackend {
	case BlobBackendFS:
	case BlobBackendMinIO:
		if c.MinIO.Endpoint == "" || c.MinIO.AccessKey == "" || c.MinIO.SecretKey == "" || c.MinIO.Bucket == "" {
			errs = append(errs, errors.New("minio backend needs MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY and MINIO_BUCKET"))
		}
	default:
		errs = append(errs, fmt.Errorf("BLOB_BACKEND %q must be fs or minio", c.BlobBackend))
	}

	q := c.Queue
	if q.MaxAttempts < 1 {
		errs = append(errs, errors.New("JOB_MAX_ATTEMPTS must be at least 1"))
	}
	for name, d := range map[string]Duration{
		"JOB_STALE_AFTER":         q.StaleAfter,
		"COMPLETED_JOB_RETENTION": q.CompletedRetention,
		"FAILED_JOB_RETENTION":    q.FailedRetention,
		"DRAIN_DELAY":             q.DrainDelay,
		"MAINTENANCE_INTERVAL":    q.MaintenanceInterval,
		"TEMP_FILE_MAX_AGE":       q.TempFileMaxAge,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	if q.StartupGrace < 0 {
		errs = append(errs, errors.New("STARTUP_GRACE must not be negative"))
	}
	return errors.Join(errs...)
}

// ValidateServe adds the requirements of the HTTP server.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.AdminTokenHash != "" {
		if _, err := bcrypt.Cost([]byte(c.AdminTokenHash)); err != nil {
			return fmt.Errorf("ADMIN_TOKEN_HASH is not a bcrypt hash: %w", err)
		}
		return nil
	}
	if c.AdminToken == "" {
		return errors.New("ADMIN_TOKEN or ADMIN_TOKEN_HASH is required")
	}
	if len(c.AdminToken) < 16 {
		return errors.New("ADMIN_TOKEN must be at least 16 characters")
	}
	return nil
}

func (c *Config) MaxImageSize() int64 {
	return int64(c.MaxImageSizeMB) << 20
}

func (c *Config) MaxVideoSize() int64 {
	return int64(c.MaxVideoSizeMB) << 20
}

// MaxUploadSize is the largest body the upload endpoint accepts.
func (c *Config) MaxUploadSize() int64 {
	return max(c.MaxImageSize(), c.MaxVideoSize())
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDuration accepts time.ParseDuration syntax plus a whole-day "d" suffix.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}
