// Package config loads and validates the wifiscout configuration. Components
// receive an immutable Config value at construction instead of reading
// ambient global state.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"wifiscout/internal/logging"
)

const (
	configDirPerm  = 0755
	configFilePerm = 0644
)

// Config represents the complete wifiscout configuration.
type Config struct {
	// Wireless interface and connectivity probing
	Wireless WirelessConfig `yaml:"wireless" json:"wireless"`

	// Device discovery pipeline
	Discovery DiscoveryConfig `yaml:"discovery" json:"discovery"`

	// Session export and log retention
	Export ExportConfig `yaml:"export" json:"export"`

	// Logging configuration
	Logging logging.Config `yaml:"logging" json:"logging"`
}

// WirelessConfig holds scan and connection test settings.
type WirelessConfig struct {
	// Wireless interface to scan and connect with
	Interface string `yaml:"interface" json:"interface"`

	// Host pinged to validate upstream connectivity
	TestHost string `yaml:"test_host" json:"test_host"`

	// Pause between cycles in continuous mode
	ScanInterval time.Duration `yaml:"scan_interval" json:"scan_interval"`

	// Per-probe ping timeout
	PingTimeout time.Duration `yaml:"ping_timeout" json:"ping_timeout"`

	// Number of ICMP probes per connectivity test
	PingCount int `yaml:"ping_count" json:"ping_count"`

	// Budget for one connect request and for the address lease check
	ConnectionTimeout time.Duration `yaml:"connection_timeout" json:"connection_timeout"`

	// Settle time after requesting a rescan before reading the list
	RescanSettle time.Duration `yaml:"rescan_settle" json:"rescan_settle"`
}

// DiscoveryConfig holds device discovery settings.
type DiscoveryConfig struct {
	// Per-method timeout
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// Resolver used for reverse DNS hostname enrichment; empty uses
	// the subnet gateway convention <net>.1
	DNSServer string `yaml:"dns_server" json:"dns_server"`

	// Enable reverse DNS hostname enrichment
	ResolveHostnames bool `yaml:"resolve_hostnames" json:"resolve_hostnames"`

	// Override the surveyed network; empty auto-detects from the interface
	Network string `yaml:"network" json:"network"`
}

// ExportConfig holds session export and retention settings.
type ExportConfig struct {
	// Directory session logs are written to
	LogDir string `yaml:"log_dir" json:"log_dir"`

	// Default export format (json, csv)
	Format string `yaml:"format" json:"format"`

	// Remove logs older than MaxLogAgeDays on startup
	AutoCleanup bool `yaml:"auto_cleanup" json:"auto_cleanup"`

	// Retention window in days
	MaxLogAgeDays int `yaml:"max_log_age_days" json:"max_log_age_days"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Wireless: WirelessConfig{
			Interface:         "wlan0",
			TestHost:          "8.8.8.8",
			ScanInterval:      10 * time.Second,
			PingTimeout:       5 * time.Second,
			PingCount:         4,
			ConnectionTimeout: 15 * time.Second,
			RescanSettle:      2 * time.Second,
		},
		Discovery: DiscoveryConfig{
			Timeout:          30 * time.Second,
			ResolveHostnames: true,
		},
		Export: ExportConfig{
			LogDir:        "./wifi_logs",
			Format:        "json",
			AutoCleanup:   true,
			MaxLogAgeDays: 30,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file, falling back to defaults when the
// file does not exist.
func Load(path string) (*Config, error) {
	config := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Save saves configuration to a file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, configDirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, configFilePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Wireless.Interface == "" {
		return fmt.Errorf("wireless interface is required")
	}
	if c.Wireless.TestHost == "" {
		return fmt.Errorf("test host is required")
	}
	if ip := net.ParseIP(c.Wireless.TestHost); ip == nil {
		// Hostnames are allowed; reject only strings that cannot be one
		if len(c.Wireless.TestHost) > 253 {
			return fmt.Errorf("invalid test host: %s", c.Wireless.TestHost)
		}
	}
	if c.Wireless.ScanInterval <= 0 {
		return fmt.Errorf("scan interval must be positive")
	}
	if c.Wireless.PingTimeout <= 0 {
		return fmt.Errorf("ping timeout must be positive")
	}
	if c.Wireless.PingCount <= 0 {
		return fmt.Errorf("ping count must be positive")
	}
	if c.Wireless.ConnectionTimeout <= 0 {
		return fmt.Errorf("connection timeout must be positive")
	}

	if c.Discovery.Timeout <= 0 {
		return fmt.Errorf("discovery timeout must be positive")
	}
	if c.Discovery.Network != "" {
		if _, _, err := net.ParseCIDR(c.Discovery.Network); err != nil {
			return fmt.Errorf("invalid discovery network: %s", c.Discovery.Network)
		}
	}

	validFormats := map[string]bool{
		"json": true,
		"csv":  true,
	}
	if !validFormats[c.Export.Format] {
		return fmt.Errorf("invalid export format: %s", c.Export.Format)
	}
	if c.Export.MaxLogAgeDays < 0 {
		return fmt.Errorf("max log age must not be negative")
	}

	validLogLevels := map[logging.LogLevel]bool{
		logging.LevelDebug: true,
		logging.LevelInfo:  true,
		logging.LevelWarn:  true,
		logging.LevelError: true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	validLogFormats := map[logging.LogFormat]bool{
		logging.FormatText: true,
		logging.FormatJSON: true,
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	return nil
}
