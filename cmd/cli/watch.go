package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"wifiscout/internal/errors"
	"wifiscout/internal/report"
	"wifiscout/internal/scheduler"
)

var (
	watchInterval time.Duration
	watchCron     string
	watchExport   bool
)

// watchCmd represents the continuous survey command.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run survey cycles continuously",
	Long: `Run full survey cycles until interrupted. Each cycle scans for
wireless networks, tests every open network and prints a report. A cycle in
flight always finishes; Ctrl+C takes effect between cycles.

With --cron the cycles run on a cron expression instead of a fixed pause.`,
	Example: `  wifiscout watch
  wifiscout watch --interval 5m --export
  wifiscout watch --cron "0 * * * *"`,
	Run: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Pause between cycles (default from config)")
	watchCmd.Flags().StringVar(&watchCron, "cron", "", "Run cycles on a cron expression instead of an interval")
	watchCmd.Flags().BoolVar(&watchExport, "export", false, "Write each cycle's session to the log directory")
}

func runWatch(cmd *cobra.Command, _ []string) {
	printBanner()

	a, err := newApp()
	if err != nil {
		fatal(err)
	}

	interval := a.cfg.Wireless.ScanInterval
	if watchInterval > 0 {
		interval = watchInterval
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(interval, a.log)
	cycle := func(ctx context.Context) error { return watchCycle(ctx, a) }

	if watchCron != "" {
		if _, err := sched.Schedule(watchCron, cycle); err != nil {
			fatal(err)
		}
		if err := sched.Start(); err != nil {
			fatal(err)
		}
		fmt.Printf("Scheduled surveys on %q; press Ctrl+C to stop\n", watchCron)
		<-ctx.Done()
		sched.Stop()
		return
	}

	fmt.Printf("Continuous mode, %s between cycles; press Ctrl+C to stop\n", interval)
	if err := sched.RunLoop(ctx, cycle); err != nil && !stderrors.Is(err, context.Canceled) {
		fatal(err)
	}
}

// watchCycle runs one scan-test-report pass. Fatal errors such as a missing
// nmcli binary stop the whole loop; anything else is reported and the next
// cycle proceeds with a fresh view.
func watchCycle(ctx context.Context, a *app) error {
	a.catalog.Reset()
	a.skippedRecords = 0

	fmt.Printf("\n%s Scanning for WiFi networks...\n", time.Now().Format("15:04:05"))
	if err := a.scanOnce(ctx); err != nil {
		if errors.IsFatal(err) {
			fatal(err)
		}
		return err
	}

	session := a.session()
	queue := a.openQueue()
	if len(queue) == 0 {
		fmt.Println("No open networks found")
	} else {
		fmt.Printf("Testing %d open networks\n", len(queue))
		if err := a.tester.RunPass(ctx, queue, session); err != nil && errors.IsFatal(err) {
			fatal(err)
		}
		displayConnectionReport(report.Build(session))
	}

	if watchExport {
		path, err := a.exportSession(session, a.cfg.Export.Format)
		if err != nil {
			return err
		}
		fmt.Printf("Session exported to: %s\n", path)
	}
	return nil
}
