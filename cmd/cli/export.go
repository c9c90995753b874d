package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"wifiscout/internal/export"
)

var exportFormat string

// exportCmd converts a stored JSON session log to another format.
var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Re-export a stored session log",
	Long: `Load a stored JSON session log and write it out again in the
requested format. Useful for producing CSV from sessions captured with
--export in the default JSON format.`,
	Example: `  wifiscout export wifi_logs/wifi_scan_20260831_120000.json --format csv`,
	Args:    cobra.ExactArgs(1),
	Run:     runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format (json or csv)")
}

func runExport(_ *cobra.Command, args []string) {
	if exportFormat != "json" && exportFormat != "csv" {
		fatal(fmt.Errorf("unsupported format %q (json or csv)", exportFormat))
	}

	a, err := newApp()
	if err != nil {
		fatal(err)
	}

	session, err := export.Load(args[0])
	if err != nil {
		fatal(err)
	}

	path, err := a.exportSession(session, exportFormat)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Session exported to: %s\n", path)
}
