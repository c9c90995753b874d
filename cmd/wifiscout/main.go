// Command wifiscout is the wireless site survey tool: it scans for WiFi
// networks, validates open ones through live connection attempts, and
// discovers devices on the connected subnet.
package main

import "wifiscout/cmd/cli"

// Build information set by ldflags.
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	cli.SetVersion(version, commit, buildTime)
	cli.Execute()
}
