// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/facescan/internal/scoring"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Scanner  ScannerConfig       `toml:"scanner"`
	Log      LogConfig           `toml:"log"`
	Comments map[string][]string `toml:"comments"`
}

// ScannerConfig maps scanner-related settings.
type ScannerConfig struct {
	Seed   *int64  `toml:"seed"`
	Camera *string `toml:"camera"`
	Sound  *bool   `toml:"sound"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// CommentTable returns the default table with any [comments] overrides applied.
func (c FileConfig) CommentTable() (scoring.CommentTable, error) {
	if len(c.Comments) == 0 {
		return scoring.DefaultComments(), nil
	}
	table, err := scoring.ParseCommentTable(c.Comments, scoring.DefaultComments())
	if err != nil {
		return nil, fmt.Errorf("invalid [comments] table: %w", err)
	}
	return table, nil
}
