package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/patrickspencer/nextrun/internal/batch"
	"github.com/patrickspencer/nextrun/internal/config"
	"github.com/patrickspencer/nextrun/internal/input"
	"github.com/patrickspencer/nextrun/internal/schedule"
	"github.com/patrickspencer/nextrun/internal/store"
)

const defaultConfigPath = "nextrun.yaml"

func main() {
	// Check for subcommands before flag parsing.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "serve":
			os.Exit(runServe(os.Args[2:]))
		case "history":
			os.Exit(runHistory(os.Args[2:], os.Stdout))
		}
	}
	os.Exit(runEvaluate(os.Args[1:], os.Stdin, os.Stdout))
}

// runEvaluate prints the next run of every configuration line read from
// stdin, or from the job files in the jobs directory when one is set.
func runEvaluate(args []string, stdin io.Reader, stdout io.Writer) int {
	fs := flag.NewFlagSet("nextrun", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "path to configuration file")
	mode := fs.String("mode", "", "calculation mode: compat or standard")
	onError := fs.String("on-error", "", "what to do with a bad line: abort or skip")
	jobsDir := fs.String("jobs", "", "read job YAML files from this directory instead of stdin")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: nextrun [flags] [HH:MM] < config")
		fmt.Fprintln(fs.Output(), "       nextrun serve [flags]")
		fmt.Fprintln(fs.Output(), "       nextrun history [flags]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(fs, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		return 1
	}
	if *mode != "" {
		cfg.Mode = strings.ToLower(*mode)
	}
	if *onError != "" {
		cfg.OnError = strings.ToLower(*onError)
	}
	if *jobsDir != "" {
		cfg.JobsDir = *jobsDir
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if fs.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "error: expected at most one reference time argument")
		return 2
	}
	ref, err := resolveReference(fs.Arg(0), cfg.Reference, time.Now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	m, err := schedule.ParseMode(cfg.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	p := &batch.Processor{
		Reference:  ref,
		Mode:       m,
		SkipErrors: cfg.OnError == config.OnErrorSkip,
		Source:     "cli",
		Debug:      cfg.LogLevel == "debug",
	}

	if cfg.History.IsEnabled() {
		st, err := openStore(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error opening history: %v\n", err)
			return 1
		}
		defer st.Close()
		p.Recorder = st
	}

	var src input.Source
	if cfg.JobsDir != "" {
		jobs, err := config.LoadJobs(cfg.JobsDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading jobs from %s: %v\n", cfg.JobsDir, err)
			return 1
		}
		src = input.NewSlice(config.EnabledLines(jobs))
		p.Source = "jobs"
		if p.Debug {
			log.Printf("DEBUG: loaded %d job(s) from %s", len(jobs), cfg.JobsDir)
		}
	} else {
		src = input.NewLines(stdin)
	}

	sum, err := p.Run(context.Background(), src, stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if sum.Failed > 0 {
		log.Printf("WARN: %d of %d line(s) skipped", sum.Failed, sum.Processed)
	}
	return 0
}

// loadConfig reads the configuration file. A missing file is only an error
// when -config was given explicitly.
func loadConfig(fs *flag.FlagSet, path string) (*config.Config, error) {
	explicit := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})

	cfg, err := config.LoadConfig(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// resolveReference picks the reference time: the argument if given,
// otherwise the configured default, where "now" means the wall clock.
func resolveReference(arg, configured string, now func() time.Time) (schedule.TimeOfDay, error) {
	v := strings.TrimSpace(arg)
	if v == "" {
		v = strings.TrimSpace(configured)
	}
	switch {
	case v == "":
		return schedule.TimeOfDay{}, errors.New("reference time is required (HH:MM argument or \"reference\" in config)")
	case strings.EqualFold(v, "now"):
		t := now()
		return schedule.NewTimeOfDay(t.Hour(), t.Minute())
	default:
		return schedule.ParseReference(v)
	}
}

func openStore(cfg *config.Config) (*store.SQLiteStore, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", cfg.DataDir, err)
	}
	return store.NewSQLiteStore(cfg.DBPath())
}
