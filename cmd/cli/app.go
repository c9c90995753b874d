package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	"wifiscout/internal/catalog"
	"wifiscout/internal/config"
	"wifiscout/internal/connect"
	"wifiscout/internal/discovery"
	"wifiscout/internal/export"
	"wifiscout/internal/logging"
	"wifiscout/internal/metrics"
	"wifiscout/internal/runner"
	"wifiscout/internal/scanning"
	"wifiscout/internal/survey"
)

// app wires the engine components together for one CLI invocation. Each
// component receives its immutable configuration slice at construction.
type app struct {
	cfg      *config.Config
	log      *logging.Logger
	rec      metrics.Recorder
	catalog  *catalog.Catalog
	scanner  *scanning.Scanner
	tester   *connect.Tester
	pipeline *discovery.Pipeline
	writer   *export.Writer

	skippedRecords int
}

// newApp builds the component graph from the loaded configuration and runs
// the startup log cleanup when enabled.
func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := logging.Default()
	run := runner.New()
	cat := catalog.New()
	rec := metrics.NewPrometheusRecorder()

	writer, err := export.NewWriter(cfg.Export.LogDir)
	if err != nil {
		return nil, err
	}
	if cfg.Export.AutoCleanup {
		if removed, err := writer.Cleanup(cfg.Export.MaxLogAgeDays); err == nil && removed > 0 {
			log.Info("removed expired session logs", "count", removed)
		}
	}

	return &app{
		cfg:      cfg,
		log:      log,
		rec:      rec,
		catalog:  cat,
		scanner:  scanning.NewScanner(cfg.Wireless, run, cat, log, rec),
		tester:   connect.NewTester(cfg.Wireless, run, log, rec),
		pipeline: discovery.NewPipeline(cfg.Discovery, cfg.Wireless.Interface, run, cat, log, rec),
		writer:   writer,
	}, nil
}

// scanOnce runs one wireless scan cycle into the catalog.
func (a *app) scanOnce(ctx context.Context) error {
	result, err := a.scanner.Scan(ctx)
	if err != nil {
		return err
	}
	a.skippedRecords += result.Skipped
	return nil
}

// session snapshots the catalog into an immutable session record.
func (a *app) session() *survey.Session {
	s := survey.NewSession()
	s.Networks = a.catalog.Networks()
	s.Devices = a.catalog.Devices()
	s.SkippedRecords = a.skippedRecords
	return s
}

// openQueue returns the open networks ordered strongest signal first. The
// returned slice is the immutable queue the connectivity tester works from.
func (a *app) openQueue() []survey.Network {
	queue := a.catalog.OpenNetworks()
	sort.SliceStable(queue, func(i, j int) bool {
		return queue[i].SignalPct > queue[j].SignalPct
	})
	return queue
}

// exportSession writes the session in the requested format and returns the
// written path.
func (a *app) exportSession(session *survey.Session, format string) (string, error) {
	switch format {
	case "csv":
		return a.writer.WriteCSV(session)
	default:
		return a.writer.WriteJSON(session)
	}
}

// fatal prints an error and exits.
func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
