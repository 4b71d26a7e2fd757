package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/patrickspencer/nextrun/internal/store"
)

func runHistory(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "path to configuration file")
	batchID := fs.String("batch", "", "only show evaluations from this batch")
	limit := fs.Int("limit", 0, "maximum number of evaluations (default from config)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(fs, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		return 1
	}

	dbPath := cfg.DBPath()
	if _, err := os.Stat(dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "no history at %s (enable history in the config)\n", dbPath)
		return 1
	}

	st, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening history: %v\n", err)
		return 1
	}
	defer st.Close()

	n := *limit
	if n <= 0 {
		n = cfg.History.Limit
	}
	evals, err := st.ListEvaluations(context.Background(), store.ListOpts{BatchID: *batchID, Limit: n})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error listing history: %v\n", err)
		return 1
	}

	for _, e := range evals {
		result := e.Output()
		if e.ErrorMsg != "" {
			result = "error: " + e.ErrorMsg
		}
		fmt.Fprintf(stdout, "%s %s %s [%s] %q -> %s\n",
			e.CreatedAt.Format("2006-01-02T15:04:05Z"), e.BatchID, e.Reference, e.Mode, e.Line, result)
	}
	return 0
}
