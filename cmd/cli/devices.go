package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var devicesExport bool

// devicesCmd represents the device discovery command.
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Discover devices on the connected subnet",
	Long: `Discover devices attached to the currently connected subnet. Methods
run in priority order with fallback: the kernel ARP table first, then an
active arp-scan sweep, then an nmap ping sweep. Results are deduplicated by
MAC address and enriched with vendor and hostname lookups.`,
	Example: `  wifiscout devices
  wifiscout devices --export`,
	Run: runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
	devicesCmd.Flags().BoolVar(&devicesExport, "export", false, "Write the session to the log directory")
}

func runDevices(cmd *cobra.Command, _ []string) {
	printBanner()

	a, err := newApp()
	if err != nil {
		fatal(err)
	}

	fmt.Println("Discovering devices...")
	result, err := a.pipeline.Run(cmd.Context())
	if err != nil {
		fatal(err)
	}

	if verbose {
		for _, d := range result.Diagnostics {
			fmt.Printf("  %s\n", d)
		}
	}

	if len(result.Devices) == 0 {
		fmt.Println("No devices found")
		return
	}

	fmt.Printf("Found %d devices via %s:\n\n", len(result.Devices), result.Method)
	displayDevicesTable(result.Devices)

	if result.Skipped > 0 {
		fmt.Printf("\nSkipped malformed records: %d\n", result.Skipped)
	}

	if devicesExport {
		exportAndReport(a, a.session())
	}
}
