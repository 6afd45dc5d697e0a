// Command pipeline runs the analysis pipeline from the command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	service "github.com/okian/stride/internal/app"
	"github.com/okian/stride/internal/config"
	"github.com/okian/stride/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	phasesFlag := flag.String("phase", "", "comma-separated phases to run (1-4); empty runs all")
	skipFlag := flag.String("skip-phase", "", "comma-separated phases to skip")
	dataDir := flag.String("data-dir", "", "override the data directory")
	dryRun := flag.Bool("dry-run", false, "report what would run without executing")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if err := logger.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		return 1
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	} else if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}

	phases, err := parsePhases(*phasesFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	skip, err := parsePhases(*skipFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	svc := service.New(service.WithConfig(cfg))
	report, runErr := svc.Run(ctx, service.RunOptions{
		Phases:     phases,
		SkipPhases: skip,
		DryRun:     *dryRun,
	})

	fmt.Println("pipeline run", report.RunID)
	for _, line := range report.Summary() {
		fmt.Println("  " + line)
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, "pipeline failed:", runErr)
		return 1
	}
	return 0
}

// parsePhases parses a comma-separated phase list like "1,3".
func parsePhases(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	phases := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < service.PhaseIngest || n > service.PhasePredict {
			return nil, fmt.Errorf("invalid phase %q: phases are 1-4", part)
		}
		phases = append(phases, n)
	}
	return phases, nil
}
