// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the sheetfinder CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/sheetfinder/internal/catalog"
	"github.com/pdiddy/sheetfinder/internal/logger"
	"github.com/pdiddy/sheetfinder/internal/metrics"
	"github.com/pdiddy/sheetfinder/internal/resolve"
	"github.com/pdiddy/sheetfinder/internal/rigeo"
	"github.com/pdiddy/sheetfinder/pkg/types"
)

// appLog is the process logger, built in PersistentPreRunE.
var appLog = zap.NewNop()

// rootCmd is the base command for the sheetfinder CLI.
var rootCmd = &cobra.Command{
	Use:   "sheetfinder",
	Short: "Find geological map sheets for a Brazilian municipality",
	Long: `sheetfinder resolves a municipality and state into the geological map
sheets that cover it, using a local catalog of sheet codes, and retrieves
live download links for those sheets from the RIGeo repository of the
Brazilian Geological Survey.

Results are grouped by scale (1:250.000, 1:100.000, 1:50.000, other). When
the repository has nothing for a sheet, a search link is returned instead.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logger.New(viper.GetString("log.env"), viper.GetString("log.level"))
		if err != nil {
			return err
		}
		appLog = l
		metrics.Register()
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./sheetfinder.yaml or ~/.config/sheetfinder/sheetfinder.yaml)")
	rootCmd.PersistentFlags().String("catalog", "", "catalog file (.json, .yaml, .db)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	_ = viper.BindPFlag("catalog.path", rootCmd.PersistentFlags().Lookup("catalog"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("sheetfinder")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "sheetfinder"))
		}
	}

	viper.SetDefault("remote.base_url", types.DefaultBaseURL)
	viper.SetDefault("remote.user_agent", types.DefaultUserAgent)
	viper.SetDefault("remote.timeout", types.DefaultTimeout)
	viper.SetDefault("remote.max_retries", types.DefaultMaxRetries)
	viper.SetDefault("remote.page_size", types.DefaultPageSize)
	viper.SetDefault("remote.max_pages", types.DefaultMaxPages)
	viper.SetDefault("remote.max_candidates", types.DefaultMaxCandidates)
	viper.SetDefault("remote.fallback_pool", types.DefaultFallbackPool)
	viper.SetDefault("remote.keywords", types.DefaultKeywords)
	viper.SetDefault("resolve.workers", types.DefaultWorkers)
	viper.SetDefault("resolve.deadline", types.DefaultDeadline)
	viper.SetDefault("server.addr", types.DefaultAddr)
	viper.SetDefault("server.shutdown_timeout", types.DefaultShutdownTimeout)
	viper.SetDefault("log.env", "local")
	viper.SetDefault("log.level", "info")

	viper.SetEnvPrefix("SHEETFINDER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the typed configuration from viper.
func loadConfig() (types.Config, error) {
	cfg := types.Config{
		Catalog: types.CatalogConfig{Path: viper.GetString("catalog.path")},
		Remote: types.RemoteConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:    viper.GetDuration("remote.timeout"),
				UserAgent:  viper.GetString("remote.user_agent"),
				MaxRetries: viper.GetInt("remote.max_retries"),
			},
			BaseURL:       viper.GetString("remote.base_url"),
			PageSize:      viper.GetInt("remote.page_size"),
			MaxPages:      viper.GetInt("remote.max_pages"),
			MaxCandidates: viper.GetInt("remote.max_candidates"),
			FallbackPool:  viper.GetInt("remote.fallback_pool"),
			Keywords:      viper.GetStringSlice("remote.keywords"),
		},
		Resolve: types.ResolveConfig{
			Workers:  viper.GetInt("resolve.workers"),
			Deadline: viper.GetDuration("resolve.deadline"),
		},
		Server: types.ServerConfig{
			Addr:            viper.GetString("server.addr"),
			ShutdownTimeout: viper.GetDuration("server.shutdown_timeout"),
		},
		Log: types.LogConfig{
			Env:   viper.GetString("log.env"),
			Level: viper.GetString("log.level"),
		},
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openCatalog loads the catalog named by cfg.
func openCatalog(cfg types.CatalogConfig) (*catalog.Catalog, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("no catalog configured: pass --catalog or set SHEETFINDER_CATALOG_PATH")
	}
	cat, err := catalog.LoadFile(cfg.Path)
	if err != nil {
		return nil, err
	}
	appLog.Info("catalog loaded",
		zap.String("path", cfg.Path),
		zap.Int("states", len(cat.States())),
		zap.Int("cities", cat.Len()))
	return cat, nil
}

// newResolver wires the repository client and the catalog.
func newResolver(cfg types.Config, cat *catalog.Catalog) *resolve.Resolver {
	client := rigeo.NewClient(cfg.Remote, appLog.Named("rigeo"))
	return resolve.New(cat, client, client, cfg.Resolve, appLog.Named("resolve"))
}

func main() {
	defer func() { _ = appLog.Sync() }()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
