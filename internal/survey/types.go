// Package survey defines the data model for wireless site surveys: discovered
// networks, attached devices, connection attempts and the session record that
// groups one scan pass. Band, channel and quality derivations live here as
// pure functions of the raw readings.
package survey

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"wifiscout/internal/errors"
)

// Band identifies the radio band a network operates in.
type Band string

const (
	Band24GHz   Band = "2.4GHz"
	Band5GHz    Band = "5GHz"
	Band6GHz    Band = "6GHz"
	BandUnknown Band = "unknown"
)

// Security identifies the authentication scheme a network advertises.
type Security string

const (
	SecurityOpen    Security = "open"
	SecurityWEP     Security = "wep"
	SecurityWPA     Security = "wpa/wpa2"
	SecurityWPA3    Security = "wpa3"
	SecurityUnknown Security = "unknown"
)

// Quality is the coarse signal classification shown to operators.
type Quality string

const (
	QualityExcellent Quality = "Excellent"
	QualityGood      Quality = "Good"
	QualityWeak      Quality = "Weak"
	QualityVeryWeak  Quality = "Very weak"
)

// Frequency ranges in MHz for band classification.
const (
	band24Low  = 2401
	band24High = 2495
	band5Low   = 5000
	band5High  = 5895
	band6Low   = 5925
	band6High  = 7125

	band24ChannelBase = 2407
	band5ChannelBase  = 5000
	band6ChannelBase  = 5950
	channelSpacing    = 5
)

// Signal percentage thresholds for quality classification. Boundaries are
// inclusive on the lower bound of each bucket.
const (
	qualityExcellentMin = 80
	qualityGoodMin      = 60
	qualityWeakMin      = 40
)

// Network represents one observed WiFi network. Identity is (SSID, BSSID):
// the same SSID seen from two access points is two networks.
type Network struct {
	SSID         string    `json:"ssid"`
	BSSID        string    `json:"bssid"`
	Security     Security  `json:"security"`
	SignalPct    int       `json:"signal"`
	RSSIDbm      *int      `json:"rssi,omitempty"`
	FrequencyMHz int       `json:"frequency"`
	Band         Band      `json:"band"`
	Channel      *int      `json:"channel,omitempty"`
	DiscoveredAt time.Time `json:"timestamp"`
}

// IsOpen reports whether the network advertises no authentication.
func (n *Network) IsOpen() bool {
	return n.Security == SecurityOpen
}

// Quality returns the coarse classification of the network's signal.
func (n *Network) Quality() Quality {
	return QualityForSignal(n.SignalPct)
}

// Key returns the network's identity key.
func (n *Network) Key() string {
	return n.SSID + "\x00" + n.BSSID
}

// Device represents one device attached to the surveyed subnet. Identity is
// the MAC address; the same MAC under a new DHCP lease is the same device.
type Device struct {
	IPAddress    string    `json:"ip_address"`
	MACAddress   string    `json:"mac_address"`
	Hostname     string    `json:"hostname,omitempty"`
	Vendor       string    `json:"vendor,omitempty"`
	DiscoveredAt time.Time `json:"timestamp"`
}

// PingStats holds round-trip statistics from one ping run.
type PingStats struct {
	MinMs         float64 `json:"min_ms"`
	AvgMs         float64 `json:"avg_ms"`
	MaxMs         float64 `json:"max_ms"`
	PacketLossPct float64 `json:"packet_loss_percent"`
}

// Attempt records one connection attempt against an open network. Signal and
// band are captured at attempt time and never re-read. Success means the
// interface associated and leased an IPv4 address; internet reachability is
// reported separately through PingSuccess.
type Attempt struct {
	SSID         string     `json:"ssid"`
	StartedAt    time.Time  `json:"timestamp"`
	Success      bool       `json:"success"`
	IPAddress    string     `json:"ip_address,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	SignalPct    int        `json:"signal"`
	Band         Band       `json:"band"`
	PingSuccess  bool       `json:"ping_success"`
	PingStats    *PingStats `json:"ping_stats,omitempty"`
}

// Session is the immutable record of one scan, auto-connect or device-scan
// operation. Sequences preserve first-seen and test order. Nothing mutates a
// session once it has been handed to export.
type Session struct {
	ID             uuid.UUID `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	Networks       []Network `json:"networks"`
	Attempts       []Attempt `json:"connection_attempts"`
	Devices        []Device  `json:"network_devices"`
	SkippedRecords int       `json:"skipped_records,omitempty"`
	NotAttempted   []string  `json:"not_attempted,omitempty"`
}

// NewSession creates an empty session stamped with the current time.
func NewSession() *Session {
	return &Session{
		ID:        uuid.New(),
		Timestamp: time.Now(),
	}
}

// BandForFrequency classifies a frequency in MHz into a radio band.
func BandForFrequency(freqMHz int) Band {
	switch {
	case freqMHz >= band24Low && freqMHz <= band24High:
		return Band24GHz
	case freqMHz >= band5Low && freqMHz <= band5High:
		return Band5GHz
	case freqMHz >= band6Low && freqMHz <= band6High:
		return Band6GHz
	default:
		return BandUnknown
	}
}

// ChannelForFrequency derives the channel number for a frequency in MHz.
// Frequencies outside the known bands yield nil rather than a guess.
func ChannelForFrequency(freqMHz int) *int {
	var ch int
	switch BandForFrequency(freqMHz) {
	case Band24GHz:
		ch = (freqMHz - band24ChannelBase) / channelSpacing
	case Band5GHz:
		ch = (freqMHz - band5ChannelBase) / channelSpacing
	case Band6GHz:
		// 6E channel numbering restarts at 5950 MHz.
		ch = (freqMHz - band6ChannelBase) / channelSpacing
	default:
		return nil
	}
	return &ch
}

// QualityForSignal classifies a 0-100 signal percentage.
func QualityForSignal(signalPct int) Quality {
	switch {
	case signalPct >= qualityExcellentMin:
		return QualityExcellent
	case signalPct >= qualityGoodMin:
		return QualityGood
	case signalPct >= qualityWeakMin:
		return QualityWeak
	default:
		return QualityVeryWeak
	}
}

// SecurityFromFlags maps a scan tool's security column to the Security enum.
// An empty column means the network is open.
func SecurityFromFlags(flags string) Security {
	f := strings.ToUpper(strings.TrimSpace(flags))
	switch {
	case f == "" || f == "--":
		return SecurityOpen
	case strings.Contains(f, "WPA3") || strings.Contains(f, "SAE"):
		return SecurityWPA3
	case strings.Contains(f, "WPA"):
		return SecurityWPA
	case strings.Contains(f, "WEP"):
		return SecurityWEP
	default:
		return SecurityUnknown
	}
}

var macPattern = regexp.MustCompile(`^[0-9A-F]{2}(:[0-9A-F]{2}){5}$`)

// NormalizeMAC converts a MAC address to its canonical uppercase
// colon-separated form. Malformed addresses are reported, never zeroed.
func NormalizeMAC(raw string) (string, error) {
	mac := strings.ToUpper(strings.TrimSpace(raw))
	mac = strings.ReplaceAll(mac, "-", ":")
	if !macPattern.MatchString(mac) {
		return "", errors.NewValidationError("mac_address", raw)
	}
	return mac, nil
}
