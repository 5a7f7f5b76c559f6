// Package config loads enigmacrack's runtime settings with viper, merging
// (in increasing precedence) built-in defaults, a config file, environment
// variables, and command-line flags bound by cmd/enigmacrack.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds every tunable the crack and encrypt commands read. Zero
// values are never used directly: Load always returns one seeded with
// Defaults.
type Config struct {
	// DataDir holds the bigram/trigram/quadgram frequency tables.
	DataDir string `mapstructure:"data_dir"`
	// SurvivorCount is how many phase-1 candidates are promoted to phase 2
	// under the top-n strategy.
	SurvivorCount int `mapstructure:"survivor_count"`
	// SurvivorStrategy is either "top-n" or "best-per-wheel-order".
	SurvivorStrategy string `mapstructure:"survivor_strategy"`
	// MaxPlugboardPairs caps phase 3's greedy plugboard growth.
	MaxPlugboardPairs int `mapstructure:"max_plugboard_pairs"`
	// Workers is the goroutine pool size used across all three phases.
	Workers int `mapstructure:"workers"`
	// PlugboardGram selects which frequency table ("bigram", "trigram", or
	// "quadgram") scores phase 3's candidates.
	PlugboardGram string `mapstructure:"plugboard_gram"`
	// Reflector is the reflector wiring ("B" or "C") used by the encrypt
	// command. The crack search always uses reflector B.
	Reflector string `mapstructure:"reflector"`
}

// Defaults: 100 phase-1 survivors, up to 10 plugboard pairs, one worker
// per logical CPU, bigram scoring against reflector B.
func Defaults() Config {
	return Config{
		DataDir:           "data",
		SurvivorCount:     100,
		SurvivorStrategy:  "top-n",
		MaxPlugboardPairs: 10,
		Workers:           0, // 0 means "use runtime.NumCPU()"; resolved by internal/decrypt.
		PlugboardGram:     "bigram",
		Reflector:         "B",
	}
}

// Load builds a viper instance layering defaults, an optional config file
// at cfgFile (or $HOME/.enigmacrack.yaml when cfgFile is empty), and the
// ENIGMACRACK_-prefixed environment, then decodes the result into a
// Config. Flags are bound separately by the caller via v.BindPFlag on the
// returned viper instance, followed by another v.Unmarshal, so command-line
// overrides win without this package depending on cobra.
func Load(cfgFile string) (Config, *viper.Viper, error) {
	v := viper.New()

	defaults := Defaults()
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("survivor_count", defaults.SurvivorCount)
	v.SetDefault("survivor_strategy", defaults.SurvivorStrategy)
	v.SetDefault("max_plugboard_pairs", defaults.MaxPlugboardPairs)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("plugboard_gram", defaults.PlugboardGram)
	v.SetDefault("reflector", defaults.Reflector)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".enigmacrack")
	}

	v.SetEnvPrefix("ENIGMACRACK")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, nil, fmt.Errorf("config: decoding: %w", err)
	}
	return cfg, v, nil
}

// GramPath returns the path to the n-gram table named by cfg.PlugboardGram
// under cfg.DataDir.
func (cfg Config) GramPath() string {
	names := map[string]string{
		"bigram":   "bigrams.txt",
		"trigram":  "trigrams.txt",
		"quadgram": "quadgrams.txt",
	}
	name, ok := names[cfg.PlugboardGram]
	if !ok {
		name = "bigrams.txt"
	}
	return filepath.Join(cfg.DataDir, name)
}

// GramSize returns the n-gram length implied by cfg.PlugboardGram.
func (cfg Config) GramSize() int {
	switch cfg.PlugboardGram {
	case "trigram":
		return 3
	case "quadgram":
		return 4
	default:
		return 2
	}
}
