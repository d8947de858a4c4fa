package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the console settings.
type Config struct {
	APIURL            string
	RequestTimeout    time.Duration
	PageSize          int
	LogDir            string
	SessionPath       string
	MaxImageDimension int
}

const (
	defaultConfigPath        = "~/.config/arisan-admin/config.toml"
	defaultAPIURL            = "http://127.0.0.1:8080/api"
	defaultRequestTimeout    = 10 * time.Second
	defaultPageSize          = 50
	defaultLogDir            = "~/.local/state/arisan-admin"
	defaultSessionFile       = "session.toml"
	defaultMaxImageDimension = 1920

	logFileName = "arisan-admin.log"
)

// Environment overrides, applied after the file.
const (
	EnvAPIURL      = "ARISAN_API_URL"
	EnvLogDir      = "ARISAN_LOG_DIR"
	EnvSessionPath = "ARISAN_SESSION_PATH"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the built-in configuration.
func Default() Config {
	logDir := mustExpand(defaultLogDir)
	return Config{
		APIURL:            defaultAPIURL,
		RequestTimeout:    defaultRequestTimeout,
		PageSize:          defaultPageSize,
		LogDir:            logDir,
		SessionPath:       filepath.Join(logDir, defaultSessionFile),
		MaxImageDimension: defaultMaxImageDimension,
	}
}

// Load reads the config file at path (or the default location), falling back
// to defaults when it is missing. A .env file in the working directory and
// the ARISAN_* environment variables override file values.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	// A missing .env is the normal case.
	_ = godotenv.Load()

	cfg := Default()
	raw, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	if raw != nil {
		if err := cfg.apply(*raw); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

type fileConfig struct {
	APIURL            string `toml:"api_url"`
	RequestTimeout    int    `toml:"request_timeout"`
	PageSize          int    `toml:"page_size"`
	LogDir            string `toml:"log_dir"`
	SessionPath       string `toml:"session_path"`
	MaxImageDimension int    `toml:"max_image_dimension"`
}

func readFile(path string) (*fileConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var raw fileConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &raw, nil
}

func (c *Config) apply(raw fileConfig) error {
	if v := strings.TrimSpace(raw.APIURL); v != "" {
		c.APIURL = v
	}
	if raw.RequestTimeout < 0 {
		return fmt.Errorf("parse config: request_timeout must be positive, got %d", raw.RequestTimeout)
	}
	if raw.RequestTimeout > 0 {
		c.RequestTimeout = time.Duration(raw.RequestTimeout) * time.Second
	}
	if raw.PageSize < 0 {
		return fmt.Errorf("parse config: page_size must be positive, got %d", raw.PageSize)
	}
	if raw.PageSize > 0 {
		c.PageSize = raw.PageSize
	}
	if raw.MaxImageDimension > 0 {
		c.MaxImageDimension = raw.MaxImageDimension
	}

	sessionFollowsLogDir := strings.TrimSpace(raw.SessionPath) == ""
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		c.LogDir = mustExpand(v)
	}
	if sessionFollowsLogDir {
		c.SessionPath = filepath.Join(c.LogDir, defaultSessionFile)
	} else {
		c.SessionPath = mustExpand(raw.SessionPath)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogDir)); v != "" {
		oldDefault := filepath.Join(c.LogDir, defaultSessionFile)
		c.LogDir = mustExpand(v)
		if c.SessionPath == oldDefault {
			c.SessionPath = filepath.Join(c.LogDir, defaultSessionFile)
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvSessionPath)); v != "" {
		c.SessionPath = mustExpand(v)
	}
}

// LogPath returns the console's own log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return filepath.Join(mustExpand(defaultLogDir), logFileName)
	}
	return filepath.Join(c.LogDir, logFileName)
}

// String renders the effective configuration for logs.
func (c Config) String() string {
	return "api_url=" + c.APIURL +
		" request_timeout=" + c.RequestTimeout.String() +
		" page_size=" + strconv.Itoa(c.PageSize) +
		" log_dir=" + c.LogDir +
		" session_path=" + c.SessionPath
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
