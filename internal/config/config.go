package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Threshold is the per-digit deviation tolerated before a column deviates.
	Threshold float64 `mapstructure:"threshold" yaml:"threshold"`
	// Seed for the synthesizer; 0 seeds from the clock.
	Seed       uint64 `mapstructure:"seed" yaml:"seed"`
	SampleRows int    `mapstructure:"sample_rows" yaml:"sample_rows"`
	// MaxRows caps rows read per file; 0 means unlimited.
	MaxRows    int    `mapstructure:"max_rows" yaml:"max_rows"`
	OutputFile string `mapstructure:"output_file" yaml:"output_file"`
	LogLevel   string `mapstructure:"log_level" yaml:"log_level"`

	// HTTP server
	ListenAddr  string `mapstructure:"listen_addr" yaml:"listen_addr"`
	MaxUploadMB int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
}

// Defaults returns the built-in configuration.
func Defaults() Global {
	return Global{
		Threshold:   0.05,
		SampleRows:  5,
		OutputFile:  "benford_adjusted.csv",
		LogLevel:    "info",
		ListenAddr:  ":8080",
		MaxUploadMB: 32,
	}
}

// Dir returns ~/.benford.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".benford"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.benford/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. A .env file in the working
// directory is loaded first and never overrides variables already set.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("BENFORD")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("threshold", d.Threshold)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("sample_rows", d.SampleRows)
	v.SetDefault("max_rows", d.MaxRows)
	v.SetDefault("output_file", d.OutputFile)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("listen_addr", d.ListenAddr)
	v.SetDefault("max_upload_mb", d.MaxUploadMB)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Threshold <= 0 || c.Threshold >= 1 {
		return nil, fmt.Errorf("threshold must be in (0,1), got %v", c.Threshold)
	}
	return &c, nil
}
