// Package scanning drives the wireless scan: it asks the network-manager CLI
// to rescan, reads the terse network list, layers in raw RSSI readings from
// the wireless-link-status fallback, and feeds everything through the parser
// into the catalog.
package scanning

import (
	"context"
	"time"

	"wifiscout/internal/catalog"
	"wifiscout/internal/config"
	"wifiscout/internal/errors"
	"wifiscout/internal/logging"
	"wifiscout/internal/metrics"
	"wifiscout/internal/parse"
	"wifiscout/internal/runner"
	"wifiscout/internal/survey"
)

const (
	nmcliBin  = "nmcli"
	iwlistBin = "iwlist"

	rescanTimeout = 15 * time.Second
	listTimeout   = 10 * time.Second
)

// Scanner performs one wireless scan pass per call.
type Scanner struct {
	cfg     config.WirelessConfig
	run     runner.Runner
	catalog *catalog.Catalog
	log     *logging.Logger
	rec     metrics.Recorder
}

// Result summarizes one scan pass.
type Result struct {
	Networks []survey.Network
	Skipped  int
}

// NewScanner creates a scanner writing into the given catalog.
func NewScanner(cfg config.WirelessConfig, run runner.Runner, cat *catalog.Catalog,
	log *logging.Logger, rec metrics.Recorder) *Scanner {
	return &Scanner{
		cfg:     cfg,
		run:     run,
		catalog: cat,
		log:     log.WithComponent("scanning"),
		rec:     rec,
	}
}

// Scan runs one rescan-parse-upsert cycle. The network-manager CLI is
// mandatory; its absence is fatal for the invocation. The raw-signal
// fallback is best effort and its absence only costs the RSSI column.
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	started := time.Now()

	if !s.run.LookPath(nmcliBin) {
		return nil, errors.NewToolUnavailable(nmcliBin)
	}

	// A rescan failure is not fatal; the list below returns cached results.
	if _, err := s.run.Run(ctx, rescanTimeout, nmcliBin, "device", "wifi", "rescan"); err != nil {
		s.log.Debug("rescan request failed", "error", err)
	}
	if err := wait(ctx, s.cfg.RescanSettle); err != nil {
		return nil, err
	}

	rssi := s.signalLevels(ctx)

	out, err := s.run.Run(ctx, listTimeout, nmcliBin,
		"-t", "-f", "SSID,SECURITY,SIGNAL,FREQ,BSSID,CHAN", "device", "wifi", "list")
	if err != nil {
		return nil, err
	}

	parsed := parse.Networks(out, time.Now())
	for _, e := range parsed.Skipped {
		s.log.Warn("skipped malformed network record", "error", e)
	}

	for i := range parsed.Networks {
		n := &parsed.Networks[i]
		if dbm, ok := rssi[n.SSID]; ok {
			level := dbm
			n.RSSIDbm = &level
		}
		s.catalog.UpsertNetwork(*n)
	}

	s.rec.ScanCycle(len(parsed.Networks), len(parsed.Skipped), time.Since(started))
	s.log.InfoScan("scan cycle complete", s.cfg.Interface,
		"networks", len(parsed.Networks), "skipped", len(parsed.Skipped))

	return &Result{Networks: parsed.Networks, Skipped: len(parsed.Skipped)}, nil
}

// signalLevels reads raw RSSI values through iwlist. Missing tool or failed
// run yields an empty map.
func (s *Scanner) signalLevels(ctx context.Context) map[string]int {
	if !s.run.LookPath(iwlistBin) {
		return nil
	}
	out, err := s.run.Run(ctx, listTimeout, iwlistBin, s.cfg.Interface, "scan")
	if err != nil {
		s.log.Debug("raw signal fallback unavailable", "error", err)
		return nil
	}
	return parse.SignalLevels(out)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
