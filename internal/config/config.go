// Package config loads the application configuration from an HCL file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/fmkparty/fmk/internal/game"
)

// Config is the complete application configuration.
type Config struct {
	App   AppSettings   `hcl:"app,block"`
	Timer TimerSettings `hcl:"timer,block"`
	AI    AISettings    `hcl:"ai,block"`
}

// AppSettings contains general application settings.
type AppSettings struct {
	DataDir  string `hcl:"data_dir,optional"`
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
}

// TimerSettings are the default round timer settings. Per-session
// settings in the database override these.
type TimerSettings struct {
	Enabled        bool `hcl:"enabled,optional"`
	DecisionTime   int  `hcl:"decision_time,optional"`
	DiscussionTime int  `hcl:"discussion_time,optional"`
	TickSound      bool `hcl:"tick_sound,optional"`
}

// AISettings configure the category generator.
type AISettings struct {
	APIKey string `hcl:"api_key,optional"`
	Model  string `hcl:"model,optional"`
}

// Default returns the default configuration. The data dir resolves
// under the user config directory when available.
func Default() *Config {
	dataDir := ".fmk"
	if dir, err := os.UserConfigDir(); err == nil {
		dataDir = filepath.Join(dir, "fmk")
	}
	timer := game.DefaultTimerConfig()
	return &Config{
		App: AppSettings{
			DataDir:  dataDir,
			LogLevel: "warn",
		},
		Timer: TimerSettings{
			Enabled:        timer.Enabled,
			DecisionTime:   timer.DecisionTime,
			DiscussionTime: timer.DiscussionTime,
			TickSound:      timer.TickSound,
		},
		AI: AISettings{
			Model: "gemini-2.5-flash",
		},
	}
}

// Load reads the configuration from filename. A missing file yields
// the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values.
	defaults := Default()
	if config.App.DataDir == "" {
		config.App.DataDir = defaults.App.DataDir
	}
	if config.App.LogLevel == "" {
		config.App.LogLevel = defaults.App.LogLevel
	}
	if config.Timer.DecisionTime == 0 {
		config.Timer.DecisionTime = defaults.Timer.DecisionTime
	}
	if config.Timer.DiscussionTime == 0 {
		config.Timer.DiscussionTime = defaults.Timer.DiscussionTime
	}
	if config.AI.Model == "" {
		config.AI.Model = defaults.AI.Model
	}
	if config.AI.APIKey == "" {
		config.AI.APIKey = os.Getenv("GOOGLE_AI_API_KEY")
	}

	return &config, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.App.DataDir == "" {
		return fmt.Errorf("data dir is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.App.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.App.LogLevel)
	}

	if c.Timer.DecisionTime <= 0 {
		return fmt.Errorf("decision time must be positive")
	}
	if c.Timer.DiscussionTime < 0 {
		return fmt.Errorf("discussion time cannot be negative")
	}

	return nil
}

// TimerConfig converts the timer settings into the engine's type.
func (c *Config) TimerConfig() game.TimerConfig {
	return game.TimerConfig{
		Enabled:        c.Timer.Enabled,
		DecisionTime:   c.Timer.DecisionTime,
		DiscussionTime: c.Timer.DiscussionTime,
		TickSound:      c.Timer.TickSound,
	}
}

// DatabasePath returns the SQLite file location under the data dir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.App.DataDir, "fmk.db")
}
