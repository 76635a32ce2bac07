// Package config loads filetree configuration.
//
// Values are applied in order of increasing precedence:
//  1. Hardcoded defaults (NewConfig)
//  2. User/global config ($XDG_CONFIG_HOME/filetree/config.yaml)
//  3. Project config (.filetree.yaml in the working directory)
//  4. Environment variables (FILETREE_*)
//
// The merged result is validated before it is returned.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	fterrors "github.com/Aman-CERP/filetree/internal/errors"
)

// Match modes for Scan.MatchMode.
const (
	MatchModeLegacy    = "legacy"
	MatchModeGitignore = "gitignore"
)

// Watch modes for Watch.Mode.
const (
	WatchModeFsnotify = "fsnotify"
	WatchModePoll     = "poll"
)

// Assist execution modes for Assist.Mode.
const (
	AssistModeParallel   = "parallel"
	AssistModeSequential = "sequential"
)

// Config represents the complete filetree configuration.
type Config struct {
	Version int          `yaml:"version" json:"version"`
	Paths   PathsConfig  `yaml:"paths" json:"paths"`
	Scan    ScanConfig   `yaml:"scan" json:"scan"`
	Watch   WatchConfig  `yaml:"watch" json:"watch"`
	Server  ServerConfig `yaml:"server" json:"server"`
	Assist  AssistConfig `yaml:"assist" json:"assist"`
}

// PathsConfig maps path types onto scan roots.
type PathsConfig struct {
	// UIDir is the root for the "file_explorer" path type.
	UIDir string `yaml:"ui_dir" json:"ui_dir"`
	// RequirementsDir is the root for the "requirements_definition" path type.
	RequirementsDir string `yaml:"requirements_dir" json:"requirements_dir"`
	// SelfRoots are the roots scanned, in order, for the "babel" path type.
	SelfRoots []string `yaml:"self_roots" json:"self_roots"`
	// SelfIgnoreFile is the ignore file used with SelfRoots.
	SelfIgnoreFile string `yaml:"self_ignore_file" json:"self_ignore_file"`
	// GeneratedHome holds one directory per generated project.
	// Any other path type resolves to GeneratedHome/<path type>.
	GeneratedHome string `yaml:"generated_home" json:"generated_home"`
	// SelfDir is where files of the "babel" project are read and written.
	SelfDir string `yaml:"self_dir" json:"self_dir"`
	// IgnoreFileName is looked up inside single-directory roots.
	IgnoreFileName string `yaml:"ignore_file_name" json:"ignore_file_name"`
}

// ScanConfig configures the tree builder.
type ScanConfig struct {
	// MatchMode is "legacy" (bare-name globs) or "gitignore" (relative paths).
	MatchMode string `yaml:"match_mode" json:"match_mode"`
	// Previews attaches file content to file entries.
	Previews bool `yaml:"previews" json:"previews"`
	// MaxPreviewBytes caps each preview.
	MaxPreviewBytes int64 `yaml:"max_preview_bytes" json:"max_preview_bytes"`
	// IgnoreCacheSize is the number of parsed ignore files kept in memory.
	IgnoreCacheSize int `yaml:"ignore_cache_size" json:"ignore_cache_size"`
}

// WatchConfig configures change watching.
type WatchConfig struct {
	// Interval is the batching window, e.g. "1s".
	Interval string `yaml:"interval" json:"interval"`
	// Mode is "fsnotify" or "poll".
	Mode string `yaml:"mode" json:"mode"`
	// PollInterval is the snapshot period in poll mode.
	PollInterval string `yaml:"poll_interval" json:"poll_interval"`
	// BufferSize is the capacity of the batch channel.
	BufferSize int `yaml:"buffer_size" json:"buffer_size"`
	// RedisAddr enables publishing batches to Redis when set.
	RedisAddr string `yaml:"redis_addr" json:"redis_addr"`
	// RedisChannel is the pub/sub channel for batches.
	RedisChannel string `yaml:"redis_channel" json:"redis_channel"`
}

// ServerConfig configures the HTTP and MCP servers.
type ServerConfig struct {
	Transport string `yaml:"transport" json:"transport"`
	Addr      string `yaml:"addr" json:"addr"`
	LogLevel  string `yaml:"log_level" json:"log_level"`
}

// AssistConfig configures the text-generation endpoint.
type AssistConfig struct {
	OllamaHost string `yaml:"ollama_host" json:"ollama_host"`
	Model      string `yaml:"model" json:"model"`
	Timeout    string `yaml:"timeout" json:"timeout"`
	Mode       string `yaml:"mode" json:"mode"`
	MaxRetries int    `yaml:"max_retries" json:"max_retries"`
}

// NewConfig creates a new Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Paths: PathsConfig{
			UIDir:           "../src/components/generated/",
			RequirementsDir: "meta/1_domain_exp",
			SelfRoots: []string{
				"../../src",
				"../../Dockerfile",
				"../../docker-compose.yml",
				"../../README.md",
			},
			SelfIgnoreFile: "../../.gitignore",
			GeneratedHome:  "~/babel_generated",
			SelfDir:        "..",
			IgnoreFileName: ".gitignore",
		},
		Scan: ScanConfig{
			MatchMode:       MatchModeLegacy,
			Previews:        false,
			MaxPreviewBytes: 1024 * 1024,
			IgnoreCacheSize: 256,
		},
		Watch: WatchConfig{
			Interval:     "1s",
			Mode:         WatchModeFsnotify,
			PollInterval: "1s",
			BufferSize:   16,
			RedisAddr:    "", // Publishing disabled
			RedisChannel: "filetree:changes",
		},
		Server: ServerConfig{
			Transport: "http",
			Addr:      ":8765",
			LogLevel:  "info",
		},
		Assist: AssistConfig{
			OllamaHost: "http://localhost:11434",
			Model:      "qwen3:0.6b",
			Timeout:    "60s",
			Mode:       AssistModeParallel,
			MaxRetries: 3,
		},
	}
}

// GetUserConfigPath returns the path to the user/global configuration file.
// It follows the XDG Base Directory layout:
//   - $XDG_CONFIG_HOME/filetree/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/filetree/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "filetree", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "filetree", "config.yaml")
	}
	return filepath.Join(home, ".config", "filetree", "config.yaml")
}

// GetUserConfigDir returns the directory containing the user configuration.
func GetUserConfigDir() string {
	return filepath.Dir(GetUserConfigPath())
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// LoadUserConfig loads the user configuration file.
// Returns nil config and nil error if the file doesn't exist.
func LoadUserConfig() (*Config, error) {
	configPath := GetUserConfigPath()
	if !fileExists(configPath) {
		return nil, nil
	}

	cfg := &Config{}
	if err := cfg.loadYAML(configPath); err != nil {
		return nil, fmt.Errorf("failed to load user config from %s: %w", configPath, err)
	}
	return cfg, nil
}

// Load loads configuration for the project in dir.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if userCfg, err := LoadUserConfig(); err != nil {
		return nil, err
	} else if userCfg != nil {
		cfg.mergeWith(userCfg)
	}

	if err := cfg.loadFromFile(dir); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile merges .filetree.yaml (or .filetree.yml) from dir.
func (c *Config) loadFromFile(dir string) error {
	for _, name := range []string{".filetree.yaml", ".filetree.yml"} {
		path := filepath.Join(dir, name)
		if !fileExists(path) {
			continue
		}
		var parsed Config
		if err := parsed.loadYAML(path); err != nil {
			return err
		}
		c.mergeWith(&parsed)
		return nil
	}
	return nil
}

// loadYAML decodes path into c without applying defaults.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fterrors.New(fterrors.ErrCodeConfigNotFound,
			fmt.Sprintf("failed to read config file %s", path), err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fterrors.ConfigError(fmt.Sprintf("failed to parse config file %s", path), err).
			WithSuggestion("check the YAML syntax or run 'filetree config init --force'")
	}
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	// Paths
	mergeString(&c.Paths.UIDir, other.Paths.UIDir)
	mergeString(&c.Paths.RequirementsDir, other.Paths.RequirementsDir)
	if len(other.Paths.SelfRoots) > 0 {
		c.Paths.SelfRoots = other.Paths.SelfRoots
	}
	mergeString(&c.Paths.SelfIgnoreFile, other.Paths.SelfIgnoreFile)
	mergeString(&c.Paths.GeneratedHome, other.Paths.GeneratedHome)
	mergeString(&c.Paths.SelfDir, other.Paths.SelfDir)
	mergeString(&c.Paths.IgnoreFileName, other.Paths.IgnoreFileName)

	// Scan
	mergeString(&c.Scan.MatchMode, other.Scan.MatchMode)
	if other.Scan.Previews {
		c.Scan.Previews = true
	}
	if other.Scan.MaxPreviewBytes != 0 {
		c.Scan.MaxPreviewBytes = other.Scan.MaxPreviewBytes
	}
	if other.Scan.IgnoreCacheSize != 0 {
		c.Scan.IgnoreCacheSize = other.Scan.IgnoreCacheSize
	}

	// Watch
	mergeString(&c.Watch.Interval, other.Watch.Interval)
	mergeString(&c.Watch.Mode, other.Watch.Mode)
	mergeString(&c.Watch.PollInterval, other.Watch.PollInterval)
	if other.Watch.BufferSize != 0 {
		c.Watch.BufferSize = other.Watch.BufferSize
	}
	mergeString(&c.Watch.RedisAddr, other.Watch.RedisAddr)
	mergeString(&c.Watch.RedisChannel, other.Watch.RedisChannel)

	// Server
	mergeString(&c.Server.Transport, other.Server.Transport)
	mergeString(&c.Server.Addr, other.Server.Addr)
	mergeString(&c.Server.LogLevel, other.Server.LogLevel)

	// Assist
	mergeString(&c.Assist.OllamaHost, other.Assist.OllamaHost)
	mergeString(&c.Assist.Model, other.Assist.Model)
	mergeString(&c.Assist.Timeout, other.Assist.Timeout)
	mergeString(&c.Assist.Mode, other.Assist.Mode)
	if other.Assist.MaxRetries != 0 {
		c.Assist.MaxRetries = other.Assist.MaxRetries
	}
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// applyEnvOverrides applies FILETREE_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	envString := map[string]*string{
		"FILETREE_UI_DIR":           &c.Paths.UIDir,
		"FILETREE_REQUIREMENTS_DIR": &c.Paths.RequirementsDir,
		"FILETREE_SELF_IGNORE_FILE": &c.Paths.SelfIgnoreFile,
		"FILETREE_GENERATED_HOME":   &c.Paths.GeneratedHome,
		"FILETREE_SELF_DIR":         &c.Paths.SelfDir,
		"FILETREE_MATCH_MODE":       &c.Scan.MatchMode,
		"FILETREE_WATCH_INTERVAL":   &c.Watch.Interval,
		"FILETREE_WATCH_MODE":       &c.Watch.Mode,
		"FILETREE_REDIS_ADDR":       &c.Watch.RedisAddr,
		"FILETREE_REDIS_CHANNEL":    &c.Watch.RedisChannel,
		"FILETREE_TRANSPORT":        &c.Server.Transport,
		"FILETREE_ADDR":             &c.Server.Addr,
		"FILETREE_LOG_LEVEL":        &c.Server.LogLevel,
		"FILETREE_OLLAMA_HOST":      &c.Assist.OllamaHost,
		"FILETREE_ASSIST_MODEL":     &c.Assist.Model,
		"FILETREE_ASSIST_MODE":      &c.Assist.Mode,
	}
	for key, dst := range envString {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	// FILETREE_SELF_ROOTS is a list separated by the OS list separator
	if v := os.Getenv("FILETREE_SELF_ROOTS"); v != "" {
		c.Paths.SelfRoots = filepath.SplitList(v)
	}
	if v := os.Getenv("FILETREE_PREVIEWS"); v != "" {
		c.Scan.Previews = strings.ToLower(v) == "true" || v == "1"
	}
	if v := os.Getenv("FILETREE_MAX_PREVIEW_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			c.Scan.MaxPreviewBytes = n
		}
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	switch c.Scan.MatchMode {
	case MatchModeLegacy, MatchModeGitignore:
	default:
		return invalid("scan.match_mode must be 'legacy' or 'gitignore', got %q", c.Scan.MatchMode)
	}
	if c.Scan.MaxPreviewBytes < 0 {
		return invalid("scan.max_preview_bytes must be non-negative, got %d", c.Scan.MaxPreviewBytes)
	}

	if d, err := time.ParseDuration(c.Watch.Interval); err != nil || d <= 0 {
		return invalid("watch.interval must be a positive duration, got %q", c.Watch.Interval)
	}
	if d, err := time.ParseDuration(c.Watch.PollInterval); err != nil || d <= 0 {
		return invalid("watch.poll_interval must be a positive duration, got %q", c.Watch.PollInterval)
	}
	switch c.Watch.Mode {
	case WatchModeFsnotify, WatchModePoll:
	default:
		return invalid("watch.mode must be 'fsnotify' or 'poll', got %q", c.Watch.Mode)
	}
	if c.Watch.BufferSize < 0 {
		return invalid("watch.buffer_size must be non-negative, got %d", c.Watch.BufferSize)
	}

	validTransports := map[string]bool{"http": true, "stdio": true}
	if !validTransports[strings.ToLower(c.Server.Transport)] {
		return invalid("server.transport must be 'http' or 'stdio', got %q", c.Server.Transport)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Server.LogLevel)] {
		return invalid("server.log_level must be 'debug', 'info', 'warn', or 'error', got %q", c.Server.LogLevel)
	}

	switch c.Assist.Mode {
	case AssistModeParallel, AssistModeSequential:
	default:
		return invalid("assist.mode must be 'parallel' or 'sequential', got %q", c.Assist.Mode)
	}
	if _, err := time.ParseDuration(c.Assist.Timeout); err != nil {
		return invalid("assist.timeout must be a duration, got %q", c.Assist.Timeout)
	}
	if c.Assist.MaxRetries < 0 {
		return invalid("assist.max_retries must be non-negative, got %d", c.Assist.MaxRetries)
	}

	return nil
}

func invalid(format string, args ...any) error {
	return fterrors.ConfigError(fmt.Sprintf(format, args...), nil)
}

// WatchInterval returns the parsed batching window.
func (c *Config) WatchInterval() time.Duration {
	return parseDurationOr(c.Watch.Interval, time.Second)
}

// PollInterval returns the parsed poll period.
func (c *Config) PollInterval() time.Duration {
	return parseDurationOr(c.Watch.PollInterval, time.Second)
}

// AssistTimeout returns the parsed generation timeout.
func (c *Config) AssistTimeout() time.Duration {
	return parseDurationOr(c.Assist.Timeout, 60*time.Second)
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
