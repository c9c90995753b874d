package discovery

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wifiscout/internal/catalog"
	"wifiscout/internal/config"
	"wifiscout/internal/logging"
	"wifiscout/internal/metrics"
	"wifiscout/internal/parse"
	"wifiscout/internal/survey"
)

// fakeMethod scripts one discovery method for pipeline tests.
type fakeMethod struct {
	name      string
	available bool
	result    parse.DeviceResult
	err       error
	calls     int
}

func (m *fakeMethod) Name() string    { return m.name }
func (m *fakeMethod) Available() bool { return m.available }

func (m *fakeMethod) Discover(_ context.Context) (parse.DeviceResult, error) {
	m.calls++
	return m.result, m.err
}

func newTestPipeline(cat *catalog.Catalog, methods ...Method) *Pipeline {
	cfg := config.DiscoveryConfig{Timeout: 5 * time.Second, ResolveHostnames: false}
	p := NewPipeline(cfg, "wlan0", nil, cat, logging.NewDefault(), metrics.NoopRecorder{})
	p.SetMethods(methods)
	return p
}

func device(ip, mac string) survey.Device {
	return survey.Device{IPAddress: ip, MACAddress: mac, DiscoveredAt: time.Now()}
}

func TestPipelineFirstMethodWins(t *testing.T) {
	first := &fakeMethod{
		name:      MethodARPTable,
		available: true,
		result: parse.DeviceResult{Devices: []survey.Device{
			device("192.168.1.1", "AA:BB:CC:DD:EE:01"),
		}},
	}
	second := &fakeMethod{name: MethodARPScan, available: true}

	cat := catalog.New()
	result, err := newTestPipeline(cat, first, second).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, MethodARPTable, result.Method)
	require.Len(t, result.Devices, 1)
	assert.Zero(t, second.calls, "a producing method short-circuits the chain")
}

func TestPipelineFallsBackOnUnavailable(t *testing.T) {
	first := &fakeMethod{name: MethodARPTable, available: false}
	second := &fakeMethod{
		name:      MethodARPScan,
		available: true,
		result: parse.DeviceResult{Devices: []survey.Device{
			device("192.168.1.20", "AA:BB:CC:DD:EE:02"),
		}},
	}

	cat := catalog.New()
	result, err := newTestPipeline(cat, first, second).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, MethodARPScan, result.Method)
	require.Len(t, result.Devices, 1)
	require.Len(t, result.Diagnostics, 1)
	assert.Contains(t, result.Diagnostics[0], "unavailable")
}

func TestPipelineFallsBackOnEmpty(t *testing.T) {
	first := &fakeMethod{name: MethodARPTable, available: true}
	second := &fakeMethod{
		name:      MethodARPScan,
		available: true,
		result: parse.DeviceResult{Devices: []survey.Device{
			device("192.168.1.20", "AA:BB:CC:DD:EE:02"),
		}},
	}

	cat := catalog.New()
	result, err := newTestPipeline(cat, first, second).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, MethodARPScan, result.Method)
	assert.Equal(t, 1, first.calls, "an empty result is still a completed attempt")
}

func TestPipelineFallsBackOnFailure(t *testing.T) {
	first := &fakeMethod{
		name:      MethodARPTable,
		available: true,
		err:       fmt.Errorf("neigh table read failed"),
	}
	second := &fakeMethod{
		name:      MethodARPScan,
		available: true,
		result: parse.DeviceResult{Devices: []survey.Device{
			device("192.168.1.20", "AA:BB:CC:DD:EE:02"),
		}},
	}

	cat := catalog.New()
	result, err := newTestPipeline(cat, first, second).Run(context.Background())
	require.NoError(t, err, "a failed method is a diagnostic, not a pass error")

	assert.Equal(t, MethodARPScan, result.Method)
	require.Len(t, result.Diagnostics, 1)
	assert.Contains(t, result.Diagnostics[0], "failed")
}

func TestPipelineAllMethodsExhausted(t *testing.T) {
	methods := []Method{
		&fakeMethod{name: MethodARPTable, available: false},
		&fakeMethod{name: MethodARPScan, available: true},
		&fakeMethod{name: MethodNmap, available: true, err: fmt.Errorf("sweep failed")},
	}

	cat := catalog.New()
	result, err := newTestPipeline(cat, methods...).Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, result.Devices)
	assert.Empty(t, result.Method)
	assert.Len(t, result.Diagnostics, 3, "every method's outcome is reported")
}

func TestPipelineMergesIntoCatalog(t *testing.T) {
	cat := catalog.New()
	// A previous pass already knows this MAC under an older lease.
	cat.UpsertDevice(survey.Device{
		IPAddress:  "192.168.1.50",
		MACAddress: "AA:BB:CC:DD:EE:01",
		Hostname:   "printer.lan",
	})

	m := &fakeMethod{
		name:      MethodARPScan,
		available: true,
		result: parse.DeviceResult{Devices: []survey.Device{
			{IPAddress: "192.168.1.77", MACAddress: "AA:BB:CC:DD:EE:01", Vendor: "Acme", DiscoveredAt: time.Now()},
		}},
	}

	result, err := newTestPipeline(cat, m).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Devices, 1)
	merged := result.Devices[0]
	assert.Equal(t, "192.168.1.77", merged.IPAddress, "latest lease wins")
	assert.Equal(t, "printer.lan", merged.Hostname, "known hostname survives the merge")
	assert.Equal(t, "Acme", merged.Vendor)
}

func TestPipelineVendorEnrichment(t *testing.T) {
	m := &fakeMethod{
		name:      MethodARPTable,
		available: true,
		result: parse.DeviceResult{Devices: []survey.Device{
			device("192.168.1.5", "B8:27:EB:11:22:33"),
		}},
	}

	cat := catalog.New()
	result, err := newTestPipeline(cat, m).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Devices, 1)
	assert.Equal(t, "Raspberry Pi Foundation", result.Devices[0].Vendor)
}

func TestPipelineCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := &fakeMethod{name: MethodARPTable, available: true}
	_, err := newTestPipeline(catalog.New(), m).Run(ctx)
	require.Error(t, err)
	assert.Zero(t, m.calls)
}

func TestVendorForMAC(t *testing.T) {
	tests := []struct {
		mac  string
		want string
	}{
		{"B8:27:EB:AA:BB:CC", "Raspberry Pi Foundation"},
		{"00:50:56:01:02:03", "VMware"},
		{"FF:FF:FF:00:00:00", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, VendorForMAC(tt.mac), "mac %q", tt.mac)
	}
}
