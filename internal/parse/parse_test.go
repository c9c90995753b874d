package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wifiscout/internal/survey"
)

var now = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func TestNetworks(t *testing.T) {
	t.Run("full terse output", func(t *testing.T) {
		raw := `CoffeeShop:WPA2:87:2437 MHz:AA\:BB\:CC\:DD\:EE\:01:6
FreeWiFi::45:5180 MHz:AA\:BB\:CC\:DD\:EE\:02:36
Office:WPA3 SAE:62:5955 MHz:AA\:BB\:CC\:DD\:EE\:03:1`

		result := Networks(raw, now)
		require.Len(t, result.Networks, 3)
		assert.Empty(t, result.Skipped)

		coffee := result.Networks[0]
		assert.Equal(t, "CoffeeShop", coffee.SSID)
		assert.Equal(t, "AA:BB:CC:DD:EE:01", coffee.BSSID)
		assert.Equal(t, survey.SecurityWPA, coffee.Security)
		assert.Equal(t, 87, coffee.SignalPct)
		assert.Equal(t, 2437, coffee.FrequencyMHz)
		assert.Equal(t, survey.Band24GHz, coffee.Band)
		require.NotNil(t, coffee.Channel)
		assert.Equal(t, 6, *coffee.Channel)
		assert.Equal(t, now, coffee.DiscoveredAt)

		free := result.Networks[1]
		assert.True(t, free.IsOpen())
		assert.Equal(t, survey.Band5GHz, free.Band)
		require.NotNil(t, free.Channel)
		assert.Equal(t, 36, *free.Channel)

		office := result.Networks[2]
		assert.Equal(t, survey.SecurityWPA3, office.Security)
		assert.Equal(t, survey.Band6GHz, office.Band)
		require.NotNil(t, office.Channel)
		assert.Equal(t, 1, *office.Channel)
	})

	t.Run("hidden networks are dropped silently", func(t *testing.T) {
		raw := `:WPA2:90:2412 MHz:AA\:BB\:CC\:DD\:EE\:01:1
Visible::50:2412 MHz:AA\:BB\:CC\:DD\:EE\:02:1`

		result := Networks(raw, now)
		require.Len(t, result.Networks, 1)
		assert.Equal(t, "Visible", result.Networks[0].SSID)
		assert.Empty(t, result.Skipped, "hidden SSIDs are not malformed records")
	})

	t.Run("malformed record is skipped not fatal", func(t *testing.T) {
		raw := `Good::70:2412 MHz:AA\:BB\:CC\:DD\:EE\:01:1
garbage line
Bad::notanumber:2412 MHz:AA\:BB\:CC\:DD\:EE\:02:1
AlsoGood:WPA2:55:5180 MHz:AA\:BB\:CC\:DD\:EE\:03:36`

		result := Networks(raw, now)
		require.Len(t, result.Networks, 2)
		assert.Equal(t, "Good", result.Networks[0].SSID)
		assert.Equal(t, "AlsoGood", result.Networks[1].SSID)
		assert.Len(t, result.Skipped, 2)
	})

	t.Run("signal out of range is skipped", func(t *testing.T) {
		raw := `TooHot::120:2412 MHz:AA\:BB\:CC\:DD\:EE\:01:1`
		result := Networks(raw, now)
		assert.Empty(t, result.Networks)
		assert.Len(t, result.Skipped, 1)
	})

	t.Run("empty input", func(t *testing.T) {
		result := Networks("", now)
		assert.Empty(t, result.Networks)
		assert.Empty(t, result.Skipped)
	})

	t.Run("missing bssid is tolerated", func(t *testing.T) {
		raw := `NoBSSID::60:2412 MHz::1`
		result := Networks(raw, now)
		require.Len(t, result.Networks, 1)
		assert.Equal(t, "", result.Networks[0].BSSID)
	})
}

func TestSplitTerse(t *testing.T) {
	fields := splitTerse(`FreeWiFi::45:5180 MHz:AA\:BB\:CC\:DD\:EE\:02:36`)
	require.Len(t, fields, 6)
	assert.Equal(t, "AA:BB:CC:DD:EE:02", fields[4])
}

func TestFrequency(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{"bare mhz", "2412", 2412, false},
		{"mhz suffix", "2412 MHz", 2412, false},
		{"ghz decimal", "2.412 GHz", 2412, false},
		{"ghz five", "5.18 GHz", 5180, false},
		{"surrounding whitespace", " 5180 MHz ", 5180, false},
		{"empty", "", 0, true},
		{"garbage", "fast", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Frequency(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSignalLevels(t *testing.T) {
	raw := `          Cell 01 - Address: AA:BB:CC:DD:EE:01
                    ESSID:"CoffeeShop"
                    Quality=60/70  Signal level=-50 dBm
          Cell 02 - Address: AA:BB:CC:DD:EE:02
                    ESSID:"FreeWiFi"
                    Quality=30/70  Signal level=-80 dBm
          Cell 03 - Address: AA:BB:CC:DD:EE:03
                    ESSID:""
                    Quality=30/70  Signal level=-75 dBm`

	levels := SignalLevels(raw)
	assert.Equal(t, -50, levels["CoffeeShop"])
	assert.Equal(t, -80, levels["FreeWiFi"])
	assert.NotContains(t, levels, "", "hidden cells carry no usable SSID")
}

func TestARPTable(t *testing.T) {
	raw := `192.168.1.1 dev wlan0 lladdr aa:bb:cc:dd:ee:01 REACHABLE
192.168.1.20 dev wlan0 lladdr aa:bb:cc:dd:ee:02 STALE
192.168.1.30 dev wlan0  FAILED
192.168.1.40 dev wlan0 lladdr not-a-mac STALE`

	result := ARPTable(raw, now)
	require.Len(t, result.Devices, 2)
	assert.Equal(t, "192.168.1.1", result.Devices[0].IPAddress)
	assert.Equal(t, "AA:BB:CC:DD:EE:01", result.Devices[0].MACAddress)
	assert.Equal(t, "192.168.1.20", result.Devices[1].IPAddress)
	assert.Len(t, result.Skipped, 1, "malformed MAC is reported, FAILED entry is not")
}

func TestARPScan(t *testing.T) {
	raw := `Interface: wlan0, type: EN10MB, MAC: 11:22:33:44:55:66, IPv4: 192.168.1.5
Starting arp-scan 1.10.0 with 256 hosts
192.168.1.1	aa:bb:cc:dd:ee:01	Acme Router Co
192.168.1.20	aa:bb:cc:dd:ee:02	(Unknown)

3 packets received by filter, 0 packets dropped by kernel
Ending arp-scan 1.10.0: 256 hosts scanned in 1.952 seconds`

	result := ARPScan(raw, now)
	require.Len(t, result.Devices, 2)
	assert.Equal(t, "Acme Router Co", result.Devices[0].Vendor)
	assert.Equal(t, "", result.Devices[1].Vendor, "(Unknown) vendor is dropped")
	assert.Empty(t, result.Skipped)
}

func TestPingStats(t *testing.T) {
	t.Run("linux summary", func(t *testing.T) {
		raw := `4 packets transmitted, 4 received, 0% packet loss, time 3004ms
rtt min/avg/max/mdev = 12.345/15.678/20.123/2.456 ms`

		stats, err := PingStats(raw)
		require.NoError(t, err)
		assert.InDelta(t, 12.345, stats.MinMs, 1e-9)
		assert.InDelta(t, 15.678, stats.AvgMs, 1e-9)
		assert.InDelta(t, 20.123, stats.MaxMs, 1e-9)
		assert.InDelta(t, 0, stats.PacketLossPct, 1e-9)
	})

	t.Run("total loss keeps the loss figure", func(t *testing.T) {
		raw := `4 packets transmitted, 0 received, 100% packet loss, time 3065ms`

		stats, err := PingStats(raw)
		require.NoError(t, err)
		assert.InDelta(t, 100, stats.PacketLossPct, 1e-9)
		assert.Zero(t, stats.AvgMs)
	})

	t.Run("no summary at all", func(t *testing.T) {
		_, err := PingStats("ping: unknown host")
		require.Error(t, err)
	})
}

func TestSourceAddress(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "typical route output",
			raw:  "8.8.8.8 via 192.168.1.1 dev wlan0 src 192.168.1.42 uid 0",
			want: "192.168.1.42",
		},
		{
			name: "no lease",
			raw:  "RTNETLINK answers: Network is unreachable",
			want: "",
		},
		{
			name: "empty",
			raw:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SourceAddress(tt.raw))
		})
	}
}
