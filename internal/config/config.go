package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"

	"usergrip/internal/domain"
	"usergrip/internal/eventbus"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "USERGRIP_"

// Config represents the application configuration
type Config struct {
	Version int            `toml:"version"`
	Server  ServerSettings `toml:"server"`
	UI      UISettings     `toml:"ui"`
}

// ServerSettings describes how to reach the console API
type ServerSettings struct {
	BaseURL  string   `toml:"base_url" env:"BASE_URL"`
	Username string   `toml:"username" env:"USERNAME"`
	Password string   `toml:"password,omitempty" env:"PASSWORD"`
	Token    string   `toml:"token,omitempty" env:"TOKEN"`
	Timeout  Duration `toml:"timeout" env:"TIMEOUT"`
	Debug    bool     `toml:"debug" env:"DEBUG"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	PageSize     int      `toml:"page_size" env:"PAGE_SIZE"`
	PollInterval Duration `toml:"poll_interval" env:"POLL_INTERVAL"`
	LogFile      string   `toml:"log_file" env:"LOG_FILE"`
}

// Duration is a time.Duration written as "3s" in TOML and env
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service rooted at the user config directory
func NewConfigService() ConfigService {
	return NewConfigServiceAt(DefaultPath())
}

// NewConfigServiceAt creates a config service for an explicit file
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigServiceAt(path).(*configService)
	cs.bus = bus
	return cs
}

// DefaultPath returns $XDG_CONFIG_HOME/usergrip/config.toml or a home-relative fallback
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "usergrip", "config.toml")
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load reads the config file, falling back to defaults when it does not exist,
// then applies environment overrides.
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
	} else if err != nil {
		return nil, err
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

// Save saves the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path without env overrides
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// may hold credentials
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with any USERGRIP_* variables that are set
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Server: ServerSettings{
			BaseURL:  "http://localhost:8090",
			Username: "admin",
			Timeout:  Duration(10 * time.Second),
		},
		UI: UISettings{
			PageSize:     domain.DefaultPageSize,
			PollInterval: Duration(3 * time.Second),
			LogFile:      "usergrip.log",
		},
	}
}

func (c *Config) normalize() {
	if !domain.ValidPageSize(c.UI.PageSize) {
		c.UI.PageSize = domain.DefaultPageSize
	}
	if c.UI.PollInterval <= 0 {
		c.UI.PollInterval = Duration(3 * time.Second)
	}
	if c.Server.Timeout <= 0 {
		c.Server.Timeout = Duration(10 * time.Second)
	}
}
