// Package parse normalizes raw text output from external scanning tools into
// typed survey records. Parsing is side-effect free: one malformed entry is
// reported and skipped, it never discards the rest of the batch. All format
// knowledge about nmcli, iwlist, ip-neigh, arp-scan and ping output is kept
// here so format drift in one tool never leaks into the engine.
package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"wifiscout/internal/errors"
	"wifiscout/internal/survey"
)

// nmcli terse wifi list column layout: SSID:SECURITY:SIGNAL:FREQ:BSSID:CHAN.
const nmcliFieldCount = 6

// NetworkResult carries the networks recovered from one raw block plus the
// per-record errors for entries that could not be parsed.
type NetworkResult struct {
	Networks []survey.Network
	Skipped  []error
}

// DeviceResult carries the devices recovered from one raw block plus the
// per-record errors for entries that could not be parsed.
type DeviceResult struct {
	Devices []survey.Device
	Skipped []error
}

// Networks parses `nmcli -t -f SSID,SECURITY,SIGNAL,FREQ,BSSID,CHAN device
// wifi list` output. nmcli escapes colons inside field values (BSSIDs) with a
// backslash, so splitting honours the escape.
func Networks(raw string, now time.Time) NetworkResult {
	var result NetworkResult
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		network, err := parseNmcliLine(line, now)
		if err != nil {
			result.Skipped = append(result.Skipped, err)
			continue
		}
		if network.SSID == "" {
			// Hidden networks carry no SSID and cannot be targeted.
			continue
		}
		result.Networks = append(result.Networks, *network)
	}
	return result
}

func parseNmcliLine(line string, now time.Time) (*survey.Network, error) {
	fields := splitTerse(line)
	if len(fields) < nmcliFieldCount {
		return nil, &errors.ParseError{Field: "line", Value: line, Line: line}
	}

	signal, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil || signal < 0 || signal > 100 {
		return nil, errors.NewValidationError("signal", fields[2])
	}

	freq, err := Frequency(fields[3])
	if err != nil {
		return nil, err
	}

	bssid := strings.TrimSpace(fields[4])
	if bssid != "" {
		normalized, err := survey.NormalizeMAC(bssid)
		if err != nil {
			return nil, err
		}
		bssid = normalized
	}

	network := &survey.Network{
		SSID:         strings.TrimSpace(fields[0]),
		BSSID:        bssid,
		Security:     survey.SecurityFromFlags(fields[1]),
		SignalPct:    signal,
		FrequencyMHz: freq,
		Band:         survey.BandForFrequency(freq),
		Channel:      survey.ChannelForFrequency(freq),
		DiscoveredAt: now,
	}
	return network, nil
}

// splitTerse splits an nmcli terse line on unescaped colons and unescapes
// the `\:` sequences nmcli uses inside BSSID values.
func splitTerse(line string) []string {
	var fields []string
	var current strings.Builder
	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ':':
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, current.String())
	return fields
}

// Frequency parses the frequency column of a scan tool. Accepted forms are
// "2412", "2412 MHz" and "2.412 GHz".
func Frequency(raw string) (int, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimSuffix(clean, "MHz")
	isGHz := strings.HasSuffix(clean, "GHz")
	clean = strings.TrimSuffix(clean, "GHz")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return 0, errors.NewParseError("frequency", raw)
	}

	if strings.Contains(clean, ".") || isGHz {
		ghz, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			return 0, errors.WrapParseError("frequency", raw, err)
		}
		if ghz < 1000 {
			return int(ghz * 1000), nil
		}
		return int(ghz), nil
	}

	mhz, err := strconv.Atoi(clean)
	if err != nil {
		return 0, errors.WrapParseError("frequency", raw, err)
	}
	return mhz, nil
}

var (
	essidPattern  = regexp.MustCompile(`ESSID:"?([^"]*)"?`)
	signalPattern = regexp.MustCompile(`Signal level[=:]\s*(-?\d+)`)
)

// SignalLevels parses `iwlist <iface> scan` output filtered to ESSID and
// Signal level lines, yielding an SSID to RSSI dBm map. Used as the raw
// signal fallback when nmcli reports percentages only.
func SignalLevels(raw string) map[string]int {
	levels := make(map[string]int)
	currentSSID := ""
	for _, line := range strings.Split(raw, "\n") {
		if m := essidPattern.FindStringSubmatch(line); m != nil {
			currentSSID = strings.TrimSpace(m[1])
			continue
		}
		if m := signalPattern.FindStringSubmatch(line); m != nil && currentSSID != "" {
			if rssi, err := strconv.Atoi(m[1]); err == nil {
				levels[currentSSID] = rssi
			}
		}
	}
	return levels
}

// ARPTable parses `ip neigh show` output. Lines without a link-layer address
// (FAILED or INCOMPLETE entries) are ignored; malformed MACs are skipped and
// reported.
func ARPTable(raw string, now time.Time) DeviceResult {
	var result DeviceResult
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		mac := ""
		for i, f := range fields {
			if f == "lladdr" && i+1 < len(fields) {
				mac = fields[i+1]
				break
			}
		}
		if mac == "" {
			continue
		}
		normalized, err := survey.NormalizeMAC(mac)
		if err != nil {
			result.Skipped = append(result.Skipped, err)
			continue
		}
		result.Devices = append(result.Devices, survey.Device{
			IPAddress:    fields[0],
			MACAddress:   normalized,
			DiscoveredAt: now,
		})
	}
	return result
}

var arpScanPattern = regexp.MustCompile(`^(\d+\.\d+\.\d+\.\d+)\s+([0-9A-Fa-f:\-]{17})\s*(.*)$`)

// ARPScan parses `arp-scan --localnet` output. Header and summary lines fall
// through the pattern; data lines are IP, MAC and an optional vendor column.
func ARPScan(raw string, now time.Time) DeviceResult {
	var result DeviceResult
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		m := arpScanPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		normalized, err := survey.NormalizeMAC(m[2])
		if err != nil {
			result.Skipped = append(result.Skipped, err)
			continue
		}
		vendor := strings.TrimSpace(m[3])
		if strings.EqualFold(vendor, "(Unknown)") {
			vendor = ""
		}
		result.Devices = append(result.Devices, survey.Device{
			IPAddress:    m[1],
			MACAddress:   normalized,
			Vendor:       vendor,
			DiscoveredAt: now,
		})
	}
	return result
}

var (
	rttPattern  = regexp.MustCompile(`(?:rtt|round-trip) min/avg/max(?:/mdev)? = ([\d.]+)/([\d.]+)/([\d.]+)`)
	lossPattern = regexp.MustCompile(`([\d.]+)% packet loss`)
)

// PingStats parses the summary block of ping output into round-trip
// statistics. A block with no rtt line (all probes lost) still yields the
// packet-loss figure.
func PingStats(raw string) (*survey.PingStats, error) {
	stats := &survey.PingStats{}
	found := false

	if m := rttPattern.FindStringSubmatch(raw); m != nil {
		minMs, err1 := strconv.ParseFloat(m[1], 64)
		avgMs, err2 := strconv.ParseFloat(m[2], 64)
		maxMs, err3 := strconv.ParseFloat(m[3], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, errors.NewParseError("rtt", m[0])
		}
		stats.MinMs, stats.AvgMs, stats.MaxMs = minMs, avgMs, maxMs
		found = true
	}

	if m := lossPattern.FindStringSubmatch(raw); m != nil {
		loss, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, errors.NewParseError("packet_loss", m[0])
		}
		stats.PacketLossPct = loss
		found = true
	}

	if !found {
		return nil, errors.NewParseError("ping_stats", "")
	}
	return stats, nil
}

// SourceAddress extracts the local source address from `ip route get <host>`
// output. An empty result means no IPv4 lease was present.
var srcPattern = regexp.MustCompile(`\bsrc\s+(\d+\.\d+\.\d+\.\d+)`)

func SourceAddress(raw string) string {
	if m := srcPattern.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return ""
}
