package main

import (
	"context"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"realestate/internal/api"
	"realestate/internal/config"
	"realestate/internal/engine"
)

var flags struct {
	config   string
	addr     string
	dataDir  string
	logLevel string
}

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "serve the real estate dashboard",
	Long: `
Loads the six real estate datasets and serves the dashboard API, chart
images and an HTML dashboard. The HTTP server starts immediately; data
routes answer 503 until every dataset is loaded.
`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return run(cfg)
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&flags.config, "config", "", "path to a YAML config file")
	f.StringVar(&flags.addr, "addr", "", "listen address, overrides the config")
	f.StringVar(&flags.dataDir, "data-dir", "", "directory holding the dataset CSVs, overrides the config")
	f.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn, error or off, overrides the config")
}

// loadConfig layers explicitly set flags over the config file.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flags.config)
	if err != nil {
		return cfg, err
	}
	f := cmd.Flags()
	if f.Changed("addr") {
		cfg.Addr = flags.addr
	}
	if f.Changed("data-dir") {
		cfg.DataDir = flags.dataDir
	}
	if f.Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	return cfg, errors.Wrap(cfg.Validate(), "invalid configuration")
}

func run(cfg config.Config) error {
	lvl, _ := config.ParseLevel(cfg.LogLevel)
	log.SetLevel(lvl)

	// 1. The server is live at once; data routes answer 503 until loaded
	h := api.NewHandler(nil)
	e := api.NewServer(h, cfg.RateLimit)
	e.Logger.SetLevel(lvl)

	// 2. Datasets load in the background. A partial registry is never served.
	go func() {
		log.Infof("BACKGROUND: Loading %d datasets from %s", len(cfg.Datasets), cfg.DataDir)
		t0 := time.Now()

		reg, err := engine.Load(context.Background(), cfg.Specs())
		if err != nil {
			log.Fatalf("BACKGROUND: Dataset load failed: %+v", err)
		}
		h.SetEngine(engine.New(reg))

		log.Infof("BACKGROUND: Load complete in %v. API is fully ready.", time.Since(t0))
	}()

	log.Infof("Server ready on %s (datasets loading in background...)", cfg.Addr)
	return e.Start(cfg.Addr)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
