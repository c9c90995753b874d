package cli

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"wifiscout/internal/export"
	"wifiscout/internal/report"
)

// logsCmd groups stored session log operations.
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Manage stored session logs",
	Long:  `List, show, and clean up session logs stored in the log directory.`,
}

var logsListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List stored session logs",
	Example: `  wifiscout logs list`,
	Run:     runLogsList,
}

var logsShowCmd = &cobra.Command{
	Use:     "show <file>",
	Short:   "Show the report for a stored session",
	Example: `  wifiscout logs show wifi_logs/wifi_scan_20260831_120000.json`,
	Args:    cobra.ExactArgs(1),
	Run:     runLogsShow,
}

var logsCleanCmd = &cobra.Command{
	Use:     "clean",
	Short:   "Remove session logs older than the retention period",
	Example: `  wifiscout logs clean`,
	Run:     runLogsClean,
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.AddCommand(logsListCmd)
	logsCmd.AddCommand(logsShowCmd)
	logsCmd.AddCommand(logsCleanCmd)
}

func runLogsList(_ *cobra.Command, _ []string) {
	a, err := newApp()
	if err != nil {
		fatal(err)
	}

	entries, err := a.writer.List()
	if err != nil {
		fatal(err)
	}
	if len(entries) == 0 {
		fmt.Printf("No session logs in %s\n", a.writer.Dir())
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("NAME", "SIZE", "MODIFIED")
	for _, e := range entries {
		_ = table.Append([]string{
			e.Name,
			fmt.Sprintf("%.1f KB", e.SizeKB),
			e.Modified.Format("2006-01-02 15:04:05"),
		})
	}
	_ = table.Render()
}

func runLogsShow(_ *cobra.Command, args []string) {
	session, err := export.Load(args[0])
	if err != nil {
		fatal(err)
	}

	summary := report.Build(session)
	fmt.Printf("Session %s from %s\n\n", session.ID, session.Timestamp.Format("2006-01-02 15:04:05"))
	if len(session.Networks) > 0 {
		displayNetworksTable(session.Networks)
		displayScanStats(summary)
	}
	if len(session.Devices) > 0 {
		fmt.Println()
		displayDevicesTable(session.Devices)
	}
	if len(session.Attempts) > 0 || len(session.NotAttempted) > 0 {
		displayConnectionReport(summary)
	}
}

func runLogsClean(_ *cobra.Command, _ []string) {
	a, err := newApp()
	if err != nil {
		fatal(err)
	}

	removed, err := a.writer.Cleanup(a.cfg.Export.MaxLogAgeDays)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Removed %d logs older than %d days\n", removed, a.cfg.Export.MaxLogAgeDays)
}
