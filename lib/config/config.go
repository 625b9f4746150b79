// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the config file when --config is absent.
const EnvironmentVariable = "SVS_VIEWER_CONFIG"

// Config is the complete viewer configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Log      LogConfig      `yaml:"log"`
	Viewer   ViewerConfig   `yaml:"viewer"`
}

// ServerConfig configures the protocol listener.
type ServerConfig struct {
	// Address is the TCP listen address.
	// Default: :12122
	Address string `yaml:"address"`

	// Echo replies "Received: <line>" to every line.
	// Default: true
	Echo bool `yaml:"echo"`

	// MaxLineBytes is the longest accepted protocol line.
	// Default: 4 MiB
	MaxLineBytes int `yaml:"max_line_bytes"`

	// RetryDelay is the pause after a failed accept.
	// Default: 1s
	RetryDelay time.Duration `yaml:"retry_delay"`

	// QueueCapacity is how many parsed lines may wait for the
	// registry before the connection is paused.
	// Default: 256
	QueueCapacity int `yaml:"queue_capacity"`
}

// SnapshotConfig configures the save command.
type SnapshotConfig struct {
	// Directory receives snapshots saved under relative paths.
	// Default: ${HOME}/.cache/svs-viewer/snapshots
	Directory string `yaml:"directory"`

	// Compression is one of none, lz4, zstd.
	// Default: zstd
	Compression string `yaml:"compression"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: info
	Level string `yaml:"level"`

	// Format is one of auto, text, json. Auto picks text on a
	// terminal and JSON otherwise.
	// Default: auto
	Format string `yaml:"format"`
}

// ViewerConfig configures the inspector.
type ViewerConfig struct {
	// Scene is the initial wildcard filter over scene names.
	// Default: *
	Scene string `yaml:"scene"`

	// Highlight is how long a changed geometry stays highlighted.
	// Default: 2s
	Highlight time.Duration `yaml:"highlight"`
}

var (
	compressionValues = []string{"none", "lz4", "zstd"}
	levelValues       = []string{"debug", "info", "warn", "error"}
	formatValues      = []string{"auto", "text", "json"}
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:       ":12122",
			Echo:          true,
			MaxLineBytes:  4 << 20,
			RetryDelay:    time.Second,
			QueueCapacity: 256,
		},
		Snapshot: SnapshotConfig{
			Directory:   "${HOME}/.cache/svs-viewer/snapshots",
			Compression: "zstd",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
		Viewer: ViewerConfig{
			Scene:     "*",
			Highlight: 2 * time.Second,
		},
	}
}

// Load loads the file named by SVS_VIEWER_CONFIG, or returns the
// defaults when the variable is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		cfg := Default()
		cfg.expandVariables()
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from path over the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := cfg.decode(data, filepath.Ext(path)); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.expandVariables()
	return cfg, nil
}

// decode merges data into c. JSON with comments is normalized to plain
// JSON first, which YAML accepts. Unknown keys are errors.
func (c *Config) decode(data []byte, extension string) error {
	switch strings.ToLower(extension) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} in path fields.
func (c *Config) expandVariables() {
	c.Snapshot.Directory = expandVars(c.Snapshot.Directory)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Address == "" {
		errs = append(errs, errors.New("server.address is required"))
	}
	if c.Server.MaxLineBytes <= 0 {
		errs = append(errs, fmt.Errorf("server.max_line_bytes must be positive, got %d", c.Server.MaxLineBytes))
	}
	if c.Server.RetryDelay <= 0 {
		errs = append(errs, fmt.Errorf("server.retry_delay must be positive, got %s", c.Server.RetryDelay))
	}
	if c.Server.QueueCapacity <= 0 {
		errs = append(errs, fmt.Errorf("server.queue_capacity must be positive, got %d", c.Server.QueueCapacity))
	}
	if c.Snapshot.Directory == "" {
		errs = append(errs, errors.New("snapshot.directory is required"))
	}
	if !slices.Contains(compressionValues, c.Snapshot.Compression) {
		errs = append(errs, fmt.Errorf("snapshot.compression must be one of: %v", compressionValues))
	}
	if !slices.Contains(levelValues, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of: %v", levelValues))
	}
	if !slices.Contains(formatValues, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of: %v", formatValues))
	}
	if c.Viewer.Highlight < 0 {
		errs = append(errs, fmt.Errorf("viewer.highlight must not be negative, got %s", c.Viewer.Highlight))
	}

	return errors.Join(errs...)
}

// SlogLevel returns Log.Level as a slog level. Unknown values map to
// info; Validate reports them.
func (c *Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// EnsurePaths creates the snapshot directory.
func (c *Config) EnsurePaths() error {
	if err := os.MkdirAll(c.Snapshot.Directory, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", c.Snapshot.Directory, err)
	}
	return nil
}
