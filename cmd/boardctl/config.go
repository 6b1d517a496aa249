package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultServer = "http://localhost:8080"

// cliConfig is persisted between runs so the session survives.
type cliConfig struct {
	Server  string        `yaml:"server"`
	Session *storedCookie `yaml:"session,omitempty"`
}

type storedCookie struct {
	Name    string    `yaml:"name"`
	Value   string    `yaml:"value"`
	Expires time.Time `yaml:"expires,omitempty"`
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "boardctl.yaml"
	}
	return filepath.Join(dir, "aeroboard", "boardctl.yaml")
}

// loadConfig reads path. A missing file is an empty config.
func loadConfig(path string) (*cliConfig, error) {
	cfg := &cliConfig{}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func saveConfig(path string, cfg *cliConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func (c *cliConfig) cookie() *http.Cookie {
	if c.Session == nil || c.Session.Value == "" {
		return nil
	}
	if !c.Session.Expires.IsZero() && time.Now().After(c.Session.Expires) {
		return nil
	}
	return &http.Cookie{Name: c.Session.Name, Value: c.Session.Value, Expires: c.Session.Expires}
}

func (c *cliConfig) setCookie(cookie *http.Cookie) {
	if cookie == nil {
		c.Session = nil
		return
	}
	c.Session = &storedCookie{Name: cookie.Name, Value: cookie.Value, Expires: cookie.Expires}
}
