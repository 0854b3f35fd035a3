// Package config loads the application settings file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

const DefaultFile = "glitchchess.json"

type Config struct {
	Theme     string `json:"theme"`      // light/dark
	Lang      string `json:"language"`   // en/ru
	WindowW   int    `json:"window_w"`   //
	WindowH   int    `json:"window_h"`   //
	Debug     bool   `json:"debug"`      // draw threat overlay
	LogLevel  string `json:"log_level"`  // debug/info/warn/error
	DBPath    string `json:"db_path"`    // progress database, "" keeps progress in memory
	Hint      string `json:"hint_level"` // quick/normal/deep
	TimeLimit int    `json:"time_limit"` // seconds, overrides every level when > 0
}

func Default() Config {
	return Config{
		Theme:    "dark",
		Lang:     "en",
		WindowW:  640,
		WindowH:  720,
		Debug:    false,
		LogLevel: "info",
		DBPath:   "glitchchess.db",
		Hint:     "normal",
	}
}

// Load reads path, falling back to defaults when the file does not exist.
// Out-of-range values are corrected rather than rejected.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFile
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		def := Default()
		return &def, nil
	} else if err != nil {
		return nil, err
	}
	defer f.Close()

	c := Default()
	if err := json.NewDecoder(f).Decode(&c); err != nil {
		return nil, fmt.Errorf("error decode config %s: %w", path, err)
	}
	correctableConfig(&c)
	return &c, nil
}

func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultFile
	}
	jsonData, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, jsonData, 0644)
}

func correctableConfig(c *Config) {
	def := Default()
	if c.Theme != "light" && c.Theme != "dark" {
		c.Theme = def.Theme
	}
	if c.Lang != "en" && c.Lang != "ru" {
		c.Lang = def.Lang
	}
	if c.WindowH < def.WindowH || c.WindowW < def.WindowW {
		c.WindowH = def.WindowH
		c.WindowW = def.WindowW
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		c.LogLevel = def.LogLevel
	}
	switch c.Hint {
	case "quick", "normal", "deep":
	default:
		c.Hint = def.Hint
	}
	if c.TimeLimit < 0 {
		c.TimeLimit = 0
	}
}
