package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pbaille/kalorien/internal/analyzer"
	"github.com/pbaille/kalorien/internal/config"
	"github.com/pbaille/kalorien/internal/entries"
	"github.com/pbaille/kalorien/internal/logging"
	"github.com/pbaille/kalorien/internal/nutrition"
	"github.com/pbaille/kalorien/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:          "kalorien",
		Short:        "Track meals, calories and body weight",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default ./config.yaml)")

	open := func(ctx context.Context) (*app, error) {
		return openApp(ctx, cfgPath)
	}

	rootCmd.AddCommand(serveCmd(open))
	rootCmd.AddCommand(foodCmd(open))
	rootCmd.AddCommand(weightCmd(open))
	rootCmd.AddCommand(dashboardCmd(open))
	rootCmd.AddCommand(scoreCmd())
	rootCmd.AddCommand(exportCmd(open))
	rootCmd.AddCommand(analyzeCmd(open))

	return rootCmd
}

type opener func(ctx context.Context) (*app, error)

// app bundles what every command needs.
type app struct {
	cfg      *config.Config
	log      *logrus.Logger
	blobs    store.BlobStore
	store    *entries.Store
	now      func() time.Time
	closeLog func() error
}

func openApp(ctx context.Context, cfgPath string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	log, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.App.Location()
	if err != nil {
		closeLog()
		return nil, err
	}

	blobs, err := store.Open(ctx, store.Options{
		Driver:          cfg.Storage.Driver,
		Path:            cfg.Storage.Path,
		MongoURI:        cfg.Storage.MongoURI,
		MongoDatabase:   cfg.Storage.MongoDatabase,
		MongoCollection: cfg.Storage.MongoCollection,
	})
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("open storage: %w", err)
	}
	log.WithFields(logrus.Fields{"driver": cfg.Storage.Driver, "path": cfg.Storage.Path}).Debug("storage opened")

	return &app{
		cfg:      cfg,
		log:      log,
		blobs:    blobs,
		store:    entries.New(blobs, log),
		now:      func() time.Time { return time.Now().In(loc) },
		closeLog: closeLog,
	}, nil
}

func (a *app) dashboard() *nutrition.Dashboard {
	return nutrition.NewDashboard(a.store, a.now)
}

func (a *app) analyzer() (analyzer.Analyzer, error) {
	return analyzer.New(analyzer.Config{
		Provider:  a.cfg.Analyzer.Provider,
		APIKey:    a.cfg.Analyzer.APIKey,
		Model:     a.cfg.Analyzer.Model,
		Endpoint:  a.cfg.Analyzer.Endpoint,
		Timeout:   a.cfg.Analyzer.Timeout,
		MockDelay: a.cfg.Analyzer.MockDelay,
	})
}

func (a *app) Close() error {
	err := a.blobs.Close()
	a.closeLog()
	return err
}
