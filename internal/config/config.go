// Package config loads the server configuration from YAML.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/labstack/gommon/log"
	"gopkg.in/yaml.v3"

	"realestate/internal/engine"
	"realestate/internal/models"
)

type Dataset struct {
	Name models.DatasetID `yaml:"name"`
	File string           `yaml:"file"`
}

type Config struct {
	Addr      string    `yaml:"addr"`
	DataDir   string    `yaml:"data_dir"`
	LogLevel  string    `yaml:"log_level"`
	RateLimit float64   `yaml:"rate_limit"` // requests per second per client, 0 disables
	Datasets  []Dataset `yaml:"datasets"`
}

// Default mirrors the file names the datasets were published under.
func Default() Config {
	return Config{
		Addr:      ":8052",
		DataDir:   ".",
		LogLevel:  "info",
		RateLimit: 20,
		Datasets: []Dataset{
			{Name: models.RentalIndex, File: "df_rental_index_avg.csv"},
			{Name: models.ValueIndex, File: "df_value_index_avg.csv"},
			{Name: models.MarketIndex, File: "df_market_index_avg.csv"},
			{Name: models.NewConstructionCount, File: "df_newcon_count_avg.csv"},
			{Name: models.NewConstructionSales, File: "df_newcon_sales_avg.csv"},
			{Name: models.DaysPending, File: "df_days_pending_avg.csv"},
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, nil
}

// Validate checks the dataset list against the fixed dataset set.
func (c Config) Validate() error {
	if len(c.Datasets) == 0 {
		return errors.New("no datasets configured")
	}
	seen := make(map[models.DatasetID]bool, len(c.Datasets))
	for _, d := range c.Datasets {
		if !models.KnownDataset(d.Name) {
			return errors.Wrapf(engine.ErrUnknownDataset, "%q", d.Name)
		}
		if seen[d.Name] {
			return errors.Newf("dataset %q configured twice", d.Name)
		}
		seen[d.Name] = true
		if strings.TrimSpace(d.File) == "" {
			return errors.Newf("dataset %q has no file", d.Name)
		}
	}
	if c.RateLimit < 0 {
		return errors.Newf("rate_limit must not be negative, got %v", c.RateLimit)
	}
	if _, ok := ParseLevel(c.LogLevel); !ok {
		return errors.Newf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// Specs resolves dataset files against DataDir.
func (c Config) Specs() []engine.DatasetSpec {
	specs := make([]engine.DatasetSpec, len(c.Datasets))
	for i, d := range c.Datasets {
		path := d.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(c.DataDir, path)
		}
		specs[i] = engine.DatasetSpec{ID: d.Name, Path: path}
	}
	return specs
}

var levels = map[string]log.Lvl{
	"debug":   log.DEBUG,
	"info":    log.INFO,
	"warn":    log.WARN,
	"warning": log.WARN,
	"error":   log.ERROR,
	"off":     log.OFF,
}

// ParseLevel maps a level name to a gommon log level.
func ParseLevel(s string) (log.Lvl, bool) {
	l, ok := levels[strings.ToLower(strings.TrimSpace(s))]
	return l, ok
}
