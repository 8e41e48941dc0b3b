package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/user/verity-adk/pkg/engine"
	"github.com/user/verity-adk/pkg/report"
)

const (
	dirName         = ".verity-adk"
	DefaultProvider = "gemini"
	DefaultModel    = "gemini-1.5-flash"
)

type ProviderConfig struct {
	APIKey string `yaml:"api_key"`
}

type Config struct {
	SelectedProvider string                    `yaml:"selected_provider"`
	SelectedModel    string                    `yaml:"selected_model"`
	Providers        map[string]ProviderConfig `yaml:"providers"`

	Report       report.LayoutConfig `yaml:"report"`
	OutputDir    string              `yaml:"output_dir,omitempty"`
	HistoryLimit int                 `yaml:"history_limit,omitempty"`
	LogLevel     string              `yaml:"log_level,omitempty"`
}

// Default is the configuration used when no file exists yet.
func Default() *Config {
	return &Config{
		SelectedProvider: DefaultProvider,
		SelectedModel:    DefaultModel,
		Providers:        make(map[string]ProviderConfig),
		Report:           report.DefaultLayout(),
		OutputDir:        ".",
		HistoryLimit:     engine.DefaultHistoryLimit,
		LogLevel:         "info",
	}
}

// Dir returns ~/.verity-adk, creating it if needed.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, dirName)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}

func GetConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// HistoryPath is where recent findings are persisted.
func HistoryPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.json"), nil
}

func LoadConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Report.Validate(); err != nil {
		return nil, fmt.Errorf("report layout in %s: %w", path, err)
	}
	return cfg, nil
}

// applyDefaults fills fields an older or hand-edited file left empty.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Providers == nil {
		c.Providers = make(map[string]ProviderConfig)
	}
	if c.SelectedProvider == "" {
		c.SelectedProvider = def.SelectedProvider
	}
	if c.SelectedModel == "" {
		c.SelectedModel = def.SelectedModel
	}
	if c.Report == (report.LayoutConfig{}) {
		c.Report = def.Report
	}
	if c.OutputDir == "" {
		c.OutputDir = def.OutputDir
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = def.HistoryLimit
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}

func SaveConfig(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// 0600, the file holds api keys
	return os.WriteFile(path, data, 0600)
}

func (c *Config) SetAPIKey(provider, key string) {
	p := c.Providers[provider]
	p.APIKey = key
	c.Providers[provider] = p
}

func (c *Config) GetAPIKey(provider string) string {
	return c.Providers[provider].APIKey
}
