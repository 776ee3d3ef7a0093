package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

const envPrefix = "WIKIEDIT_"

// EditorMode selects the editing surface. "auto" uses the rich widget when
// the session can offer one.
type EditorMode string

const (
	EditorAuto  EditorMode = "auto"
	EditorRich  EditorMode = "rich"
	EditorPlain EditorMode = "plain"
)

type Config struct {
	BaseURL string        `yaml:"base_url" koanf:"base_url"`
	Timeout time.Duration `yaml:"timeout" koanf:"timeout"`
	LogFile string        `yaml:"log_file" koanf:"log_file"`
	NoColor bool          `yaml:"no_color" koanf:"no_color"`
	Editor  EditorConfig  `yaml:"editor" koanf:"editor"`
	CSRF    CSRFConfig    `yaml:"csrf" koanf:"csrf"`
	Dev     DevConfig     `yaml:"dev" koanf:"dev"`
}

type EditorConfig struct {
	Mode        EditorMode `yaml:"mode" koanf:"mode"`
	ShrinkDelta int        `yaml:"shrink_delta" koanf:"shrink_delta"`
}

type CSRFConfig struct {
	Cookie string `yaml:"cookie" koanf:"cookie"`
	Header string `yaml:"header" koanf:"header"`
}

type DevConfig struct {
	Port int    `yaml:"port" koanf:"port"`
}

func DefaultConfig() *Config {
	return &Config{
		Timeout: 20 * time.Second,
		Editor:  EditorConfig{Mode: EditorAuto, ShrinkDelta: 3},
		CSRF:    CSRFConfig{Cookie: "csrftoken", Header: "X-CSRFToken"},
		Dev:     DevConfig{Port: 0},
	}
}

// DefaultPath is ~/.config/wiki-edit/config.yml (or the OS equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "wiki-edit.yml"
	}
	return filepath.Join(dir, "wiki-edit", "config.yml")
}

// Load reads path if it exists, then overlays WIKIEDIT_* environment
// variables. Nested keys use a double underscore: WIKIEDIT_EDITOR__MODE.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("access config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Editor.Mode {
	case EditorAuto, EditorRich, EditorPlain:
	default:
		return fmt.Errorf("invalid editor.mode %q: must be one of auto, rich, plain", c.Editor.Mode)
	}
	if c.Editor.ShrinkDelta < 1 {
		return fmt.Errorf("editor.shrink_delta must be at least 1")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if strings.TrimSpace(c.CSRF.Cookie) == "" || strings.TrimSpace(c.CSRF.Header) == "" {
		return fmt.Errorf("csrf.cookie and csrf.header are required")
	}
	if c.Dev.Port < 0 || c.Dev.Port > 65535 {
		return fmt.Errorf("dev.port %d out of range", c.Dev.Port)
	}
	return nil
}

// ResolvePage turns a page argument into an absolute URL. Absolute URLs are
// used as given; anything else is a page name under BaseURL.
func (c *Config) ResolvePage(arg string) (string, error) {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return arg, nil
	}
	if c.BaseURL == "" {
		return "", fmt.Errorf("page %q is not a URL and base_url is not set", arg)
	}
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(arg, "/"), nil
}

func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
