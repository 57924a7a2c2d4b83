package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/the-maldridge/rackhttp/pkg/bundle"
	"github.com/the-maldridge/rackhttp/pkg/config"
	"github.com/the-maldridge/rackhttp/pkg/http"
	"github.com/the-maldridge/rackhttp/pkg/northbound"
	"github.com/the-maldridge/rackhttp/pkg/source"
	"github.com/the-maldridge/rackhttp/pkg/storage"

	_ "github.com/the-maldridge/rackhttp/pkg/storage/bc"
)

func main() {
	os.Exit(run())
}

func run() int {
	boot, err := config.LoadBootstrap()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load bootstrap settings: %v\n", err)
		return 1
	}

	appLogger := hclog.New(&hclog.LoggerOptions{
		Name:  "rackhttp",
		Level: hclog.LevelFromString(boot.LogLevel),
	})
	appLogger.Info("rackhttp is initializing")

	cfg := config.NewConfig()
	if boot.ConfigFile != "" {
		if err := cfg.LoadFromFile(boot.ConfigFile); err != nil {
			appLogger.Error("Error loading config", "file", boot.ConfigFile, "error", err)
			return 1
		}
	}

	if boot.Store != "" {
		storage.SetLogger(appLogger)
		storage.DoCallbacks()
		store, err := storage.Initialize(boot.Store)
		if err != nil {
			appLogger.Error("Couldn't initialize storage", "error", err)
			return 1
		}
		defer store.Close()
		if err := cfg.EnablePersistence(store); err != nil {
			appLogger.Error("Couldn't load persisted config", "error", err)
			return 1
		}
	}

	provisionUI(appLogger, cfg)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	api := northbound.New(
		northbound.WithLogger(appLogger),
		northbound.WithConfig(cfg),
		northbound.WithMetrics(reg),
	)

	descs, err := cfg.Endpoints()
	if err != nil {
		appLogger.Error("Error reading endpoints", "error", err)
		return 1
	}

	servers := make([]*http.Server, 0, len(descs))
	stopAll := func() {
		for _, srv := range servers {
			if err := srv.Stop(); err != nil {
				appLogger.Error("Error stopping endpoint", "error", err)
			}
		}
	}

	for _, d := range descs {
		srv, err := http.New(d, cfg, api, appLogger, http.WithMetrics(reg))
		if err != nil {
			appLogger.Error("Error initializing webserver", "error", err)
			stopAll()
			return 1
		}
		if err := srv.Start(); err != nil {
			stopAll()
			return 1
		}
		servers = append(servers, srv)
	}

	stop := make(chan os.Signal, 2)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop

	appLogger.Info("Shutting down")
	stopAll()
	appLogger.Info("Goodbye!")
	return 0
}

// provisionUI fills the gui directory from a git repository or a
// bundle archive, if either is configured.  Failures leave whatever
// is already on disk in place.
func provisionUI(l hclog.Logger, cfg *config.Config) {
	guiDir := filepath.Join(cfg.GetString(config.KeyRootDir, "./static/http"), "gui")

	switch {
	case cfg.GetString(config.KeyGuiRepo, "") != "":
		repo := source.New(l, cfg.GetString(config.KeyGuiRepo, ""), guiDir)
		if err := repo.Sync(cfg.GetString(config.KeyGuiRef, "")); err != nil {
			l.Warn("Unable to sync UI repository", "error", err)
		}
	case cfg.GetString(config.KeyGuiBundle, "") != "":
		if _, err := bundle.NewInstaller(l).Install(cfg.GetString(config.KeyGuiBundle, ""), guiDir); err != nil {
			l.Warn("Unable to install UI bundle", "error", err)
		}
	}
}
