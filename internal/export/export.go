// Package export serializes finished sessions to the documented JSON schema
// and to CSV, and manages the session log directory: listing, loading and
// age-based cleanup. Field names and nesting of the JSON schema are stable
// for downstream tooling.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"wifiscout/internal/survey"
)

const (
	logDirPerm  = 0750
	logFilePerm = 0600

	timestampLayout = "20060102_150405"
)

// Writer persists sessions into a log directory.
type Writer struct {
	dir string
}

// NewWriter creates a writer rooted at dir, creating it if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, logDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// Dir returns the log directory.
func (w *Writer) Dir() string {
	return w.dir
}

// WriteJSON writes the session to a timestamped JSON file and returns its
// path.
func (w *Writer) WriteJSON(session *survey.Session) (string, error) {
	path := filepath.Join(w.dir, fmt.Sprintf("wifi_scan_%s.json", session.Timestamp.Format(timestampLayout)))
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(path, data, logFilePerm); err != nil {
		return "", fmt.Errorf("failed to write session file: %w", err)
	}
	return path, nil
}

// WriteCSV writes the session's networks and attempts as two CSV files and
// returns the networks file path.
func (w *Writer) WriteCSV(session *survey.Session) (string, error) {
	stamp := session.Timestamp.Format(timestampLayout)

	networksPath := filepath.Join(w.dir, fmt.Sprintf("wifi_networks_%s.csv", stamp))
	if err := w.writeNetworksCSV(networksPath, session.Networks); err != nil {
		return "", err
	}

	attemptsPath := filepath.Join(w.dir, fmt.Sprintf("wifi_attempts_%s.csv", stamp))
	if err := w.writeAttemptsCSV(attemptsPath, session.Attempts); err != nil {
		return "", err
	}

	return networksPath, nil
}

func (w *Writer) writeNetworksCSV(path string, networks []survey.Network) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, logFilePerm)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	header := []string{"ssid", "bssid", "security", "signal", "rssi", "frequency", "band", "channel", "timestamp"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := range networks {
		n := &networks[i]
		rssi := ""
		if n.RSSIDbm != nil {
			rssi = strconv.Itoa(*n.RSSIDbm)
		}
		channel := ""
		if n.Channel != nil {
			channel = strconv.Itoa(*n.Channel)
		}
		row := []string{
			n.SSID,
			n.BSSID,
			string(n.Security),
			strconv.Itoa(n.SignalPct),
			rssi,
			strconv.Itoa(n.FrequencyMHz),
			string(n.Band),
			channel,
			n.DiscoveredAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeAttemptsCSV(path string, attempts []survey.Attempt) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, logFilePerm)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	header := []string{"ssid", "timestamp", "success", "ip_address", "error_message",
		"signal", "band", "ping_success", "ping_min_ms", "ping_avg_ms", "ping_max_ms", "packet_loss_percent"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := range attempts {
		a := &attempts[i]
		var pingMin, pingAvg, pingMax, loss string
		if a.PingStats != nil {
			pingMin = strconv.FormatFloat(a.PingStats.MinMs, 'f', -1, 64)
			pingAvg = strconv.FormatFloat(a.PingStats.AvgMs, 'f', -1, 64)
			pingMax = strconv.FormatFloat(a.PingStats.MaxMs, 'f', -1, 64)
			loss = strconv.FormatFloat(a.PingStats.PacketLossPct, 'f', -1, 64)
		}
		row := []string{
			a.SSID,
			a.StartedAt.Format(time.RFC3339),
			strconv.FormatBool(a.Success),
			a.IPAddress,
			a.ErrorMessage,
			strconv.Itoa(a.SignalPct),
			string(a.Band),
			strconv.FormatBool(a.PingSuccess),
			pingMin, pingAvg, pingMax, loss,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Load re-parses an exported JSON session. Round-tripping a session through
// WriteJSON and Load reconstructs equal sequences.
func Load(path string) (*survey.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	var session survey.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return &session, nil
}

// LogEntry describes one stored session log.
type LogEntry struct {
	Name     string
	Path     string
	SizeKB   float64
	Modified time.Time
}

// List returns the stored JSON session logs, newest first.
func (w *Writer) List() ([]LogEntry, error) {
	matches, err := filepath.Glob(filepath.Join(w.dir, "wifi_scan_*.json"))
	if err != nil {
		return nil, err
	}

	entries := make([]LogEntry, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		entries = append(entries, LogEntry{
			Name:     filepath.Base(path),
			Path:     path,
			SizeKB:   float64(info.Size()) / 1024,
			Modified: info.ModTime(),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Modified.After(entries[j].Modified)
	})
	return entries, nil
}

// Cleanup removes session logs older than maxAgeDays and reports how many
// files were removed.
func (w *Writer) Cleanup(maxAgeDays int) (int, error) {
	if maxAgeDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -maxAgeDays)

	patterns := []string{"wifi_scan_*.json", "wifi_networks_*.csv", "wifi_attempts_*.csv"}
	removed := 0
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(w.dir, pattern))
		if err != nil {
			return removed, err
		}
		for _, path := range matches {
			info, err := os.Stat(path)
			if err != nil {
				continue
			}
			if info.ModTime().Before(cutoff) {
				if err := os.Remove(path); err == nil {
					removed++
				}
			}
		}
	}
	return removed, nil
}
