package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"wifiscout/internal/errors"
	"wifiscout/internal/report"
)

var autoConnectExport bool

// autoConnectCmd represents the auto-connect command.
var autoConnectCmd = &cobra.Command{
	Use:   "autoconnect",
	Short: "Test every open network",
	Long: `Scan for wireless networks, then sequentially connect to every open
network, verify an IPv4 lease, probe the test host and record the result.
Every open network in the queue is tested; a success never skips the rest.

An interrupt finishes the attempt in flight so the interface is left in a
clean disconnected state, then halts the remaining queue.`,
	Example: `  wifiscout autoconnect
  wifiscout autoconnect --export`,
	Run: runAutoConnect,
}

func init() {
	rootCmd.AddCommand(autoConnectCmd)
	autoConnectCmd.Flags().BoolVar(&autoConnectExport, "export", false, "Write the session to the log directory")
}

func runAutoConnect(cmd *cobra.Command, _ []string) {
	printBanner()

	a, err := newApp()
	if err != nil {
		fatal(err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("Scanning for WiFi networks...")
	if err := a.scanOnce(ctx); err != nil {
		fatal(err)
	}

	queue := a.openQueue()
	if len(queue) == 0 {
		fmt.Println("No open networks found")
		return
	}

	fmt.Printf("Found %d open networks:\n", len(queue))
	for i := range queue {
		n := &queue[i]
		rssi := ""
		if n.RSSIDbm != nil {
			rssi = fmt.Sprintf(" (%ddBm)", *n.RSSIDbm)
		}
		fmt.Printf("  %d. %s - %d%%%s [%s]\n", i+1, n.SSID, n.SignalPct, rssi, n.Band)
	}
	fmt.Println()

	session := a.session()
	passErr := a.tester.RunPass(ctx, queue, session)
	if passErr != nil && errors.IsFatal(passErr) {
		fmt.Fprintf(os.Stderr, "Error: %v; %d networks not attempted\n",
			passErr, len(session.NotAttempted))
	} else if stderrors.Is(passErr, context.Canceled) {
		fmt.Println("Interrupted; remaining networks not attempted")
	}

	displayConnectionReport(report.Build(session))

	if autoConnectExport {
		exportAndReport(a, session)
	}
}
