package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default text stderr", DefaultConfig(), false},
		{"json stdout", Config{Level: LevelDebug, Format: FormatJSON, Output: "stdout"}, false},
		{"unknown level falls back to info", Config{Level: "loud", Format: FormatText, Output: "stderr"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, logger)
		})
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "wifiscout.log")
	logger, err := New(Config{Level: LevelInfo, Format: FormatJSON, Output: path})
	require.NoError(t, err)

	logger.InfoScan("scan cycle complete", "wlan0", "networks", 5)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "scan cycle complete", entry["msg"])
	assert.Equal(t, "wlan0", entry["interface"])
	assert.InDelta(t, 5, entry["networks"], 1e-9)
}

func TestWithComponent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wifiscout.log")
	logger, err := New(Config{Level: LevelDebug, Format: FormatJSON, Output: path})
	require.NoError(t, err)

	logger.WithComponent("connect").WithSSID("FreeWiFi").Info("attempt recorded")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "connect", entry["component"])
	assert.Equal(t, "FreeWiFi", entry["ssid"])
}

func TestLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wifiscout.log")
	logger, err := New(Config{Level: LevelError, Format: FormatText, Output: path})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("also hidden")
	logger.Error("visible")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "visible")
}

func TestSetDefault(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	path := filepath.Join(t.TempDir(), "wifiscout.log")
	logger, err := New(Config{Level: LevelInfo, Format: FormatText, Output: path})
	require.NoError(t, err)

	SetDefault(logger)
	Info("through the package-level logger")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "through the package-level logger")
}
