// Package config loads the pipeline configuration from YAML. Secrets stay in
// the environment; the file only carries the run shape.
package config

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// Config is the full pipeline configuration.
type Config struct {
	Tickers []string `yaml:"tickers"`
	BizDate string   `yaml:"biz_date"`
	Workers int      `yaml:"workers"`

	Valuation struct {
		Years          int     `yaml:"years"`
		DiscountRate   float64 `yaml:"discount_rate"`
		TerminalGrowth float64 `yaml:"terminal_growth"`
	} `yaml:"valuation"`

	Checklists struct {
		Dir string `yaml:"dir"`
	} `yaml:"checklists"`

	LLM struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
		Persona  string `yaml:"persona"`
		Enabled  bool   `yaml:"enabled"`
		Stream   bool   `yaml:"stream"`
	} `yaml:"llm"`

	Vendor struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"vendor"`
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns a config with sensible defaults applied.
func Default() *Config {
	cfg := &Config{Workers: 4}
	cfg.LLM.Provider = "gemini"
	cfg.LLM.Persona = "sophie"
	return cfg
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if len(c.Tickers) == 0 {
		return fmt.Errorf("no tickers configured")
	}
	if c.BizDate == "" {
		return fmt.Errorf("biz_date is required")
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.Valuation.DiscountRate != 0 && c.Valuation.TerminalGrowth >= c.Valuation.DiscountRate {
		return fmt.Errorf("terminal growth %.3f must be below discount rate %.3f",
			c.Valuation.TerminalGrowth, c.Valuation.DiscountRate)
	}
	return nil
}
