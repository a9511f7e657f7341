package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/imsjrhowa/LogViewer/internal/tail"
)

// Config holds the viewer's tunables.
type Config struct {
	MaxLines           int
	RefreshInterval    time.Duration
	Encoding           string
	LargeFileThreshold int64
	SampleSize         int
	NULThreshold       float64
	Debounce           time.Duration
	RegexTimeout       time.Duration
	Watch              bool
	LogFile            string
}

const (
	defaultConfigPath         = "~/.config/logviewer/config.toml"
	defaultLogFile            = "~/.local/state/logviewer/logviewer.log"
	defaultMaxLines           = 10000
	defaultRefreshInterval    = 500 * time.Millisecond
	minRefreshInterval        = 100 * time.Millisecond
	defaultEncoding           = "auto"
	defaultLargeFileThreshold = 2 * 1024 * 1024
	defaultSampleSize         = 4096
	defaultNULThreshold       = 0.30
	defaultDebounce           = 300 * time.Millisecond
	defaultRegexTimeout       = 250 * time.Millisecond
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		MaxLines:           defaultMaxLines,
		RefreshInterval:    defaultRefreshInterval,
		Encoding:           defaultEncoding,
		LargeFileThreshold: defaultLargeFileThreshold,
		SampleSize:         defaultSampleSize,
		NULThreshold:       defaultNULThreshold,
		Debounce:           defaultDebounce,
		RegexTimeout:       defaultRegexTimeout,
		LogFile:            mustExpand(defaultLogFile),
	}
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		MaxLines           int     `toml:"max_lines"`
		RefreshIntervalMS  int     `toml:"refresh_interval_ms"`
		Encoding           string  `toml:"encoding"`
		LargeFileThreshold int64   `toml:"large_file_threshold"`
		SampleSize         int     `toml:"sample_size"`
		NULThreshold       float64 `toml:"nul_threshold"`
		DebounceMS         int     `toml:"debounce_ms"`
		RegexTimeoutMS     int     `toml:"regex_timeout_ms"`
		Watch              bool    `toml:"watch"`
		LogFile            string  `toml:"log_file"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if raw.MaxLines > 0 {
		cfg.MaxLines = raw.MaxLines
	}
	if raw.RefreshIntervalMS > 0 {
		cfg.RefreshInterval = max(time.Duration(raw.RefreshIntervalMS)*time.Millisecond, minRefreshInterval)
	}
	if raw.LargeFileThreshold > 0 {
		cfg.LargeFileThreshold = raw.LargeFileThreshold
	}
	if raw.SampleSize > 0 {
		cfg.SampleSize = raw.SampleSize
	}
	switch {
	case raw.NULThreshold == 0:
	case raw.NULThreshold < 0 || raw.NULThreshold > 1:
		return Config{}, fmt.Errorf("nul_threshold must be in (0,1], got %v", raw.NULThreshold)
	default:
		cfg.NULThreshold = raw.NULThreshold
	}
	if raw.DebounceMS > 0 {
		cfg.Debounce = time.Duration(raw.DebounceMS) * time.Millisecond
	}
	if raw.RegexTimeoutMS > 0 {
		cfg.RegexTimeout = time.Duration(raw.RegexTimeoutMS) * time.Millisecond
	}
	cfg.Watch = raw.Watch

	if enc := strings.TrimSpace(raw.Encoding); enc != "" {
		name, err := tail.LookupEncoding(enc)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		cfg.Encoding = name
	}

	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}

	return cfg, nil
}

// TailOptions returns the reader options described by c.
func (c Config) TailOptions() tail.Options {
	return tail.Options{
		Encoding:           c.Encoding,
		LargeFileThreshold: c.LargeFileThreshold,
		SampleSize:         c.SampleSize,
		NULThreshold:       c.NULThreshold,
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
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
