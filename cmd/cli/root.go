// Package cli provides the command-line interface for the wifiscout wireless
// survey tool. It implements the cobra-based command structure for one-shot
// scans, auto-connect validation, device discovery, continuous mode, export
// and log management.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"wifiscout/internal/config"
	"wifiscout/internal/logging"
)

var (
	cfgFile  string
	verbose  bool
	noBanner bool
)

// Build information - these will be set by ldflags during build.
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

const banner = `
================================================================================

              wifiscout - wireless site survey
              scan | auto-connect | device discovery

================================================================================
`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "wifiscout",
	Short: "Wireless site survey tool",
	Long: `wifiscout discovers wireless networks and attached LAN devices,
classifies them by band, channel and signal quality, and validates open
networks through live connection attempts and latency probes.`,
	Version: getVersion(),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./wifiscout.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noBanner, "no-banner", false, "skip the startup banner")

	if err := viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose")); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind verbose flag: %v\n", err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("wifiscout")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("WIFISCOUT")

	setConfigDefaults()

	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}

	initLogging()
}

// setConfigDefaults sets default values for configuration.
func setConfigDefaults() {
	viper.SetDefault("wireless.interface", "wlan0")
	viper.SetDefault("wireless.test_host", "8.8.8.8")
	viper.SetDefault("wireless.scan_interval", "10s")
	viper.SetDefault("wireless.ping_timeout", "5s")
	viper.SetDefault("wireless.ping_count", 4)
	viper.SetDefault("wireless.connection_timeout", "15s")

	viper.SetDefault("discovery.timeout", "30s")
	viper.SetDefault("discovery.resolve_hostnames", true)

	viper.SetDefault("export.log_dir", "./wifi_logs")
	viper.SetDefault("export.format", "json")
	viper.SetDefault("export.auto_cleanup", true)
	viper.SetDefault("export.max_log_age_days", 30)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.output", "stderr")
}

// loadConfig loads the full configuration from the resolved config file.
func loadConfig() (*config.Config, error) {
	path := viper.ConfigFileUsed()
	if path == "" {
		path = "wifiscout.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Level = logging.LevelDebug
	}
	return cfg, nil
}

// printBanner writes the startup banner unless it was disabled.
func printBanner() {
	if noBanner {
		return
	}
	fmt.Printf("%s\n", banner)
}

// getVersion returns the version string.
func getVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime)
}

// SetVersion sets the version information (called from main).
func SetVersion(v, c, bt string) {
	version = v
	commit = c
	buildTime = bt
	rootCmd.Version = getVersion()
}

// initLogging initializes structured logging based on configuration.
func initLogging() {
	cfg, err := loadConfig()
	if err != nil {
		logging.SetDefault(logging.NewDefault())
		return
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		logging.SetDefault(logging.NewDefault())
		return
	}
	logging.SetDefault(logger)
}
