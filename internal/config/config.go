// Package config provides the configuration schema and loader for the
// pizzavox server. Configuration is read from a YAML file; unknown fields are
// rejected so typos fail fast at startup.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pizzavox/pizzavox/internal/lexicon"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// SlogLevel converts l to a [slog.Level]. Unrecognised values map to info.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Duration wraps [time.Duration] so YAML values like "15m" parse.
type Duration time.Duration

// UnmarshalYAML implements [yaml.Unmarshaler].
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped [time.Duration].
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the root configuration structure, typically loaded from a YAML
// file using [Load] or [LoadFromReader].
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Postgres     PostgresConfig     `yaml:"postgres"`
	Redis        RedisConfig        `yaml:"redis"`
	NATS         NATSConfig         `yaml:"nats"`
	Matcher      MatcherConfig      `yaml:"matcher"`
	Conversation ConversationConfig `yaml:"conversation"`
}

// ServerConfig holds network and logging settings.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`
}

// PostgresConfig selects the relational database holding the menu and the
// persisted orders. When DSN is empty the server falls back to in-memory
// storage, which is only useful for local experiments.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// RedisConfig selects the shared conversation state store. When URL is empty
// conversation state stays process-local.
type RedisConfig struct {
	URL string `yaml:"url"`

	// TTL is the idle expiry for abandoned conversations. Zero keeps the
	// store default.
	TTL Duration `yaml:"ttl"`
}

// NATSConfig selects the event broker for line-item notifications. Empty URL
// disables publishing.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// MatcherConfig tunes the fuzzy-match acceptance thresholds (0-100).
type MatcherConfig struct {
	NameThreshold       int `yaml:"name_threshold"`
	IngredientThreshold int `yaml:"ingredient_threshold"`
}

// ConversationConfig tunes dialogue handling.
type ConversationConfig struct {
	// TTL bounds how long an idle conversation is kept. Applied to the Redis
	// store; the in-memory store ignores it.
	TTL Duration `yaml:"ttl"`
}

// ApplyDefaults fills zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":8080"
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = LogInfo
	}
	if c.Matcher.NameThreshold == 0 {
		c.Matcher.NameThreshold = lexicon.DefaultNameThreshold
	}
	if c.Matcher.IngredientThreshold == 0 {
		c.Matcher.IngredientThreshold = lexicon.DefaultIngredientThreshold
	}
}

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, applies defaults, and
// validates the result. Useful in tests where configs are constructed from
// string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	cfg.ApplyDefaults()
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values. It returns a
// joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Matcher.NameThreshold < 1 || cfg.Matcher.NameThreshold > 100 {
		errs = append(errs, fmt.Errorf("matcher.name_threshold %d is out of range [1, 100]", cfg.Matcher.NameThreshold))
	}
	if cfg.Matcher.IngredientThreshold < 1 || cfg.Matcher.IngredientThreshold > 100 {
		errs = append(errs, fmt.Errorf("matcher.ingredient_threshold %d is out of range [1, 100]", cfg.Matcher.IngredientThreshold))
	}
	if cfg.Redis.TTL < 0 {
		errs = append(errs, errors.New("redis.ttl must not be negative"))
	}
	if cfg.Conversation.TTL < 0 {
		errs = append(errs, errors.New("conversation.ttl must not be negative"))
	}

	return errors.Join(errs...)
}
