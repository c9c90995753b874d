package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"wifiscout/internal/report"
	"wifiscout/internal/survey"
)

var scanExport bool

// scanCmd represents the one-shot scan command.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one wireless scan",
	Long: `Scan for wireless networks once, classify them by band, channel and
signal quality, and print the results. With --export the session is also
written to the log directory.`,
	Example: `  wifiscout scan
  wifiscout scan --export
  wifiscout scan --config survey.yaml`,
	Run: runScanCmd,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().BoolVar(&scanExport, "export", false, "Write the session to the log directory")
}

func runScanCmd(cmd *cobra.Command, _ []string) {
	printBanner()

	a, err := newApp()
	if err != nil {
		fatal(err)
	}

	if err := a.scanOnce(cmd.Context()); err != nil {
		fatal(err)
	}

	session := a.session()
	summary := report.Build(session)

	displayNetworksTable(session.Networks)
	displayScanStats(summary)

	if scanExport {
		exportAndReport(a, session)
	}
}

// exportAndReport writes the session in the configured format and prints the
// destination.
func exportAndReport(a *app, session *survey.Session) {
	path, err := a.exportSession(session, a.cfg.Export.Format)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("\nSession exported to: %s\n", path)
}
