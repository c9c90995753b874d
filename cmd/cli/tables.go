package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"wifiscout/internal/report"
	"wifiscout/internal/survey"
)

// displayNetworksTable renders the discovered networks, strongest first.
func displayNetworksTable(networks []survey.Network) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("SSID", "BSSID", "Security", "Signal", "Band", "Channel", "Quality")

	for i := range networks {
		n := &networks[i]

		signal := fmt.Sprintf("%d%%", n.SignalPct)
		if n.RSSIDbm != nil {
			signal = fmt.Sprintf("%d%% (%ddBm)", n.SignalPct, *n.RSSIDbm)
		}
		channel := "-"
		if n.Channel != nil {
			channel = strconv.Itoa(*n.Channel)
		}
		security := string(n.Security)
		if n.IsOpen() {
			security = "OPEN"
		}

		_ = table.Append([]string{
			n.SSID,
			n.BSSID,
			security,
			signal,
			string(n.Band),
			channel,
			string(n.Quality()),
		})
	}

	_ = table.Render()
}

// displayDevicesTable renders the discovered subnet devices.
func displayDevicesTable(devices []survey.Device) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("IP Address", "MAC Address", "Hostname", "Vendor")

	for i := range devices {
		d := &devices[i]
		hostname := d.Hostname
		if hostname == "" {
			hostname = "-"
		}
		vendor := d.Vendor
		if vendor == "" {
			vendor = "-"
		}
		_ = table.Append([]string{d.IPAddress, d.MACAddress, hostname, vendor})
	}

	_ = table.Render()
}

// displayScanStats prints the per-band and open-network counts.
func displayScanStats(summary *report.Summary) {
	fmt.Printf("\nTotal networks: %d\n", summary.NetworkCount)
	fmt.Printf("Open networks:  %d\n", summary.OpenCount)
	fmt.Printf("2.4GHz: %d | 5GHz: %d | 6GHz: %d\n",
		summary.BandCounts[survey.Band24GHz],
		summary.BandCounts[survey.Band5GHz],
		summary.BandCounts[survey.Band6GHz])
	if unknown := summary.BandCounts[survey.BandUnknown]; unknown > 0 {
		fmt.Printf("Unknown band: %d\n", unknown)
	}
	if summary.SkippedRecords > 0 {
		fmt.Printf("Skipped malformed records: %d\n", summary.SkippedRecords)
	}
}

// displayConnectionReport prints the full auto-connect report: summary
// counts, then the working and non-working partitions in test order.
func displayConnectionReport(summary *report.Summary) {
	fmt.Println("\n" + divider)
	fmt.Println("CONNECTION REPORT")
	fmt.Println(divider)

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Networks tested:        %d\n", summary.Tested)
	fmt.Printf("  Successful connections: %d\n", summary.Succeeded)
	fmt.Printf("  Failed connections:     %d\n", summary.Failed)
	if summary.Tested > 0 {
		fmt.Printf("  Success rate:           %.1f%%\n", summary.SuccessRate()*100)
	}
	if len(summary.NotAttempted) > 0 {
		fmt.Printf("  Not attempted:          %d\n", len(summary.NotAttempted))
	}

	if len(summary.Working) > 0 {
		fmt.Printf("\nWORKING NETWORKS (%d):\n", len(summary.Working))
		for i := range summary.Working {
			a := &summary.Working[i]
			ping := "ping failed"
			if a.PingSuccess {
				ping = "ping ok"
				if a.PingStats != nil {
					ping = fmt.Sprintf("ping min/avg/max = %.1f/%.1f/%.1f ms, %.0f%% loss",
						a.PingStats.MinMs, a.PingStats.AvgMs, a.PingStats.MaxMs, a.PingStats.PacketLossPct)
				}
			}
			fmt.Printf("  %s\n", a.SSID)
			fmt.Printf("    IP: %s | Signal: %d%% | Band: %s | %s\n",
				a.IPAddress, a.SignalPct, a.Band, ping)
		}
	}

	if len(summary.NonWorking) > 0 {
		fmt.Printf("\nNON-WORKING NETWORKS (%d):\n", len(summary.NonWorking))
		for i := range summary.NonWorking {
			a := &summary.NonWorking[i]
			fmt.Printf("  %s\n", a.SSID)
			fmt.Printf("    Reason: %s | Signal: %d%% | Band: %s\n",
				a.ErrorMessage, a.SignalPct, a.Band)
		}
	}

	if len(summary.NotAttempted) > 0 {
		fmt.Printf("\nNOT ATTEMPTED (%d):\n", len(summary.NotAttempted))
		for _, ssid := range summary.NotAttempted {
			fmt.Printf("  %s\n", ssid)
		}
	}

	fmt.Println("\n" + divider)
}

const divider = "============================================================"
