package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patrickspencer/nextrun/internal/config"
	"github.com/patrickspencer/nextrun/internal/realtime"
	"github.com/patrickspencer/nextrun/internal/schedule"
	"github.com/patrickspencer/nextrun/internal/web"
	"github.com/patrickspencer/nextrun/internal/web/api"
)

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "path to configuration file")
	listen := fs.String("listen", "", "listen address (overrides config)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(fs, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		return 1
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	mode, err := schedule.ParseMode(cfg.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	a := &api.API{
		Events: realtime.NewBroker(),
		GetConfig: func() *config.Config {
			cp := *cfg
			return &cp
		},
		Reference: func() (schedule.TimeOfDay, error) {
			return resolveReference("", cfg.Reference, time.Now)
		},
		Mode: mode,
	}

	if cfg.History.IsEnabled() {
		st, err := openStore(cfg)
		if err != nil {
			log.Printf("ERROR: failed to open history: %v", err)
			return 1
		}
		defer st.Close()
		a.Store = st
		log.Printf("history store opened at %s", cfg.DBPath())
	} else {
		log.Printf("history disabled")
	}

	srv := web.NewServer(cfg.Listen, a)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Printf("nextrun serving on %s (mode=%s)", cfg.Listen, mode)

	select {
	case <-sigCh:
		log.Println("shutting down...")
	case err := <-errCh:
		log.Printf("ERROR: http server error: %v", err)
		return 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: http server shutdown error: %v", err)
	}

	log.Println("nextrun stopped")
	return 0
}
