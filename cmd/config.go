package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application settings read from the yaml config file.
type Config struct {
	Ledger     string   `yaml:"ledger"`      // path to the JSONL ledger file
	Currency   string   `yaml:"currency"`    // reporting currency
	CacheTTL   Duration `yaml:"cache_ttl"`   // in-memory quote cache lifetime
	Retries    int      `yaml:"retries"`     // quote fetch attempts
	RetryDelay Duration `yaml:"retry_delay"` // pause between attempts
}

// Duration parses yaml durations written like "2s" or "1m30s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

func defaultConfig() Config {
	return Config{
		Ledger:     "transactions.jsonl",
		Currency:   "USD",
		CacheTTL:   Duration(60 * time.Second),
		Retries:    3,
		RetryDelay: Duration(2 * time.Second),
	}
}

// LoadConfig assembles the configuration in three layers: built-in defaults,
// then the yaml config file (if one exists), then environment overrides. A
// .env file next to the working directory is loaded into the environment
// first.
func LoadConfig(path string) (Config, error) {
	godotenv.Load() // missing .env is fine

	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		if env := os.Getenv("RESTOCK_CONFIG"); env != "" {
			path, explicit = env, true
		} else {
			path = "restock.yaml"
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %q: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// no config file, defaults apply
	default:
		return cfg, fmt.Errorf("reading config %q: %w", path, err)
	}

	if ledger := os.Getenv("RESTOCK_LEDGER"); ledger != "" {
		cfg.Ledger = ledger
	}
	if currency := os.Getenv("RESTOCK_CURRENCY"); currency != "" {
		cfg.Currency = currency
	}
	return cfg, nil
}
