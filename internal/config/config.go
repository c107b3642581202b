// Package config loads tracebench.yaml.
package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aretw0/tracebench/pkg/adapters/file"
	"github.com/aretw0/tracebench/pkg/adapters/memory"
	"github.com/aretw0/tracebench/pkg/adapters/process"
	"github.com/aretw0/tracebench/pkg/adapters/redis"
	"github.com/aretw0/tracebench/pkg/persistence/middleware"
	"github.com/aretw0/tracebench/pkg/ports"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "tracebench.yaml"

// EncryptionKeyEnv overrides encryption.key, so the key can stay out of the file.
const EncryptionKeyEnv = "TRACEBENCH_ENCRYPTION_KEY"

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config is the harness configuration.
type Config struct {
	Store    string                  `mapstructure:"store"`
	StoreDir string                  `mapstructure:"store_dir"`
	Redis    RedisConfig             `mapstructure:"redis"`
	HTTP     HTTPConfig              `mapstructure:"http"`
	LogLevel string                  `mapstructure:"log_level"`
	Fixtures []process.FixtureConfig `mapstructure:"fixtures"`

	// Redact lists regular expressions masked in stored transcript
	// arguments and errors.
	Redact     []string         `mapstructure:"redact"`
	Encryption EncryptionConfig `mapstructure:"encryption"`
}

// EncryptionConfig seals stored transcripts with AES-256-GCM.
// Keys are base64 encoded 32 byte values.
type EncryptionConfig struct {
	Key          string   `mapstructure:"key"`
	FallbackKeys []string `mapstructure:"fallback_keys"`
}

// RedisConfig configures the redis transcript store.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Port int `mapstructure:"port"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Store:    StoreMemory,
		StoreDir: ".tracebench/transcripts",
		Redis: RedisConfig{
			Addr: "localhost:6379",
			TTL:  24 * time.Hour,
		},
		HTTP:     HTTPConfig{Port: 8080},
		LogLevel: "info",
	}
}

// Load reads path (YAML, or JSON by extension) over the defaults.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnv()
			return cfg, cfg.Validate()
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	var raw map[string]any
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	if err := decode(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", filepath.Base(path), err)
	}
	cfg.ApplyEnv()
	return cfg, cfg.Validate()
}

// ApplyEnv overrides values set through the environment.
func (c *Config) ApplyEnv() {
	if key := os.Getenv(EncryptionKeyEnv); key != "" {
		c.Encryption.Key = key
	}
}

func decode(raw map[string]any, cfg *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("unknown store %q (want memory, file or redis)", c.Store)
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http port %d", c.HTTP.Port)
	}
	for _, p := range c.Redact {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("invalid redact pattern %q: %w", p, err)
		}
	}
	if _, err := c.Encryption.keys(); err != nil {
		return err
	}
	return nil
}

// keys decodes the configured keys. It returns nil when encryption is off.
func (e EncryptionConfig) keys() (*middleware.EncryptionConfig, error) {
	if e.Key == "" {
		if len(e.FallbackKeys) > 0 {
			return nil, fmt.Errorf("encryption.fallback_keys set without encryption.key")
		}
		return nil, nil
	}

	active, err := decodeKey(e.Key)
	if err != nil {
		return nil, fmt.Errorf("encryption.key: %w", err)
	}
	out := &middleware.EncryptionConfig{ActiveKey: active}
	for i, k := range e.FallbackKeys {
		key, err := decodeKey(k)
		if err != nil {
			return nil, fmt.Errorf("encryption.fallback_keys[%d]: %w", i, err)
		}
		out.FallbackKeys = append(out.FallbackKeys, key)
	}
	return out, nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("not base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("want 32 bytes, got %d", len(key))
	}
	return key, nil
}

// NewStore builds the configured transcript store, wrapped with redaction
// and encryption when those are configured.
func (c Config) NewStore() (ports.TranscriptStore, error) {
	var store ports.TranscriptStore
	switch c.Store {
	case StoreFile:
		store = file.New(c.StoreDir)
	case StoreRedis:
		store = redis.New(c.Redis.Addr, c.Redis.Password, c.Redis.DB, redis.WithTTL(c.Redis.TTL))
	case StoreMemory, "":
		store = memory.NewStore()
	default:
		return nil, fmt.Errorf("unknown store %q", c.Store)
	}

	var mws []middleware.Middleware
	if len(c.Redact) > 0 {
		mws = append(mws, middleware.NewRedactionMiddleware(c.Redact))
	}
	keys, err := c.Encryption.keys()
	if err != nil {
		return nil, err
	}
	if keys != nil {
		mws = append(mws, middleware.NewEncryptionMiddleware(*keys))
	}
	return middleware.Chain(store, mws...), nil
}

// NewExecutor builds the process runner for the configured fixture
// executables. The processes run in baseDir.
func (c Config) NewExecutor(baseDir string) *process.Runner {
	return process.NewRunner(
		process.WithRegistry(process.Index(c.Fixtures)),
		process.WithBaseDir(baseDir),
	)
}
