// Package discovery provides device discovery for the connected subnet.
// It runs the available discovery methods in a fixed priority order with
// fallback, merges results through the catalog's insert-or-merge rule, and
// enriches records with vendor and hostname lookups.
package discovery

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/Ullaakut/nmap/v3"

	"wifiscout/internal/catalog"
	"wifiscout/internal/config"
	"wifiscout/internal/errors"
	"wifiscout/internal/logging"
	"wifiscout/internal/metrics"
	"wifiscout/internal/parse"
	"wifiscout/internal/runner"
	"wifiscout/internal/survey"
)

const (
	ipBin      = "ip"
	arpScanBin = "arp-scan"
	nmapBin    = "nmap"

	// Method names used in diagnostics and metrics.
	MethodARPTable = "arp-table"
	MethodARPScan  = "arp-scan"
	MethodNmap     = "nmap-sweep"
)

// Method is one way of producing device records for the current subnet.
type Method interface {
	Name() string
	Available() bool
	Discover(ctx context.Context) (parse.DeviceResult, error)
}

// Result summarizes one discovery pass.
type Result struct {
	Method      string
	Devices     []survey.Device
	Skipped     int
	Diagnostics []string
}

// Pipeline runs discovery methods in priority order with fallback: the next
// method is tried only when the previous produced nothing or its tool is
// unavailable. Correctness of subnet state matters more than wall-clock
// speed, so methods never run concurrently.
type Pipeline struct {
	cfg      config.DiscoveryConfig
	iface    string
	run      runner.Runner
	catalog  *catalog.Catalog
	resolver *Resolver
	log      *logging.Logger
	rec      metrics.Recorder
	methods  []Method
}

// NewPipeline creates a pipeline with the standard method chain: kernel ARP
// table, active arp-scan sweep, nmap ping sweep.
func NewPipeline(cfg config.DiscoveryConfig, iface string, run runner.Runner, cat *catalog.Catalog,
	log *logging.Logger, rec metrics.Recorder) *Pipeline {
	p := &Pipeline{
		cfg:      cfg,
		iface:    iface,
		run:      run,
		catalog:  cat,
		resolver: NewResolver(cfg.DNSServer),
		log:      log.WithComponent("discovery"),
		rec:      rec,
	}
	p.methods = []Method{
		&arpTableMethod{run: run, timeout: cfg.Timeout},
		&arpScanMethod{run: run, iface: iface, timeout: cfg.Timeout},
		&nmapSweepMethod{run: run, network: cfg.Network, iface: iface, timeout: cfg.Timeout},
	}
	return p
}

// SetMethods replaces the method chain. Used by tests and by callers that
// restrict discovery to specific methods.
func (p *Pipeline) SetMethods(methods []Method) {
	p.methods = methods
}

// Run executes one discovery pass. The first method that yields at least one
// device wins the pass; a missing tool or a failed run is a recoverable
// "method unavailable" signal recorded for diagnostics, never a fatal error.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	result := &Result{}

	for _, m := range p.methods {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		if !m.Available() {
			p.diag(result, m.Name(), "unavailable", "tool not installed")
			continue
		}

		parsed, err := m.Discover(ctx)
		if err != nil {
			p.diag(result, m.Name(), "failed", err.Error())
			continue
		}
		for _, e := range parsed.Skipped {
			p.log.Warn("skipped malformed device record", "method", m.Name(), "error", e)
		}
		result.Skipped += len(parsed.Skipped)
		if len(parsed.Devices) == 0 {
			p.diag(result, m.Name(), "empty", "no devices found")
			continue
		}

		result.Method = m.Name()
		p.rec.DiscoveryMethod(m.Name(), "success")
		p.rec.DevicesDiscovered(m.Name(), len(parsed.Devices))

		for i := range parsed.Devices {
			p.enrich(ctx, &parsed.Devices[i])
			p.catalog.UpsertDevice(parsed.Devices[i])
		}
		result.Devices = p.catalog.Devices()
		p.log.InfoDiscovery("discovery pass complete", m.Name(),
			"devices", len(parsed.Devices), "skipped", len(parsed.Skipped))
		return result, nil
	}

	p.log.Warn("no discovery method produced devices", "diagnostics", result.Diagnostics)
	return result, nil
}

func (p *Pipeline) diag(result *Result, method, outcome, detail string) {
	p.rec.DiscoveryMethod(method, outcome)
	result.Diagnostics = append(result.Diagnostics,
		fmt.Sprintf("%s: %s (%s)", method, outcome, detail))
	p.log.InfoDiscovery("method skipped", method, "outcome", outcome, "detail", detail)
}

// enrich fills in vendor from the OUI table and hostname via reverse DNS
// when the discovery method did not supply them.
func (p *Pipeline) enrich(ctx context.Context, d *survey.Device) {
	if d.Vendor == "" {
		d.Vendor = VendorForMAC(d.MACAddress)
	}
	if d.Hostname == "" && p.cfg.ResolveHostnames && d.IPAddress != "" {
		d.Hostname = p.resolver.Hostname(ctx, d.IPAddress)
	}
}

// arpTableMethod reads the kernel ARP cache. Fastest; hostnames are often
// already cached by the resolver, vendors are not present.
type arpTableMethod struct {
	run     runner.Runner
	timeout time.Duration
}

func (m *arpTableMethod) Name() string    { return MethodARPTable }
func (m *arpTableMethod) Available() bool { return m.run.LookPath(ipBin) }

func (m *arpTableMethod) Discover(ctx context.Context) (parse.DeviceResult, error) {
	out, err := m.run.Run(ctx, m.timeout, ipBin, "neigh", "show")
	if err != nil {
		return parse.DeviceResult{}, err
	}
	return parse.ARPTable(out, time.Now()), nil
}

// arpScanMethod sweeps the local subnet with arp-scan. More complete than
// the kernel cache; yields MAC and vendor but rarely a hostname.
type arpScanMethod struct {
	run     runner.Runner
	iface   string
	timeout time.Duration
}

func (m *arpScanMethod) Name() string    { return MethodARPScan }
func (m *arpScanMethod) Available() bool { return m.run.LookPath(arpScanBin) }

func (m *arpScanMethod) Discover(ctx context.Context) (parse.DeviceResult, error) {
	out, err := m.run.Run(ctx, m.timeout, arpScanBin, "--localnet", "--interface", m.iface)
	if err != nil {
		return parse.DeviceResult{}, err
	}
	return parse.ARPScan(out, time.Now()), nil
}

// nmapSweepMethod ping-sweeps the subnet through the nmap library. Slowest
// fallback for hosts with neither the ARP cache populated nor arp-scan
// installed.
type nmapSweepMethod struct {
	run     runner.Runner
	network string
	iface   string
	timeout time.Duration
}

func (m *nmapSweepMethod) Name() string    { return MethodNmap }
func (m *nmapSweepMethod) Available() bool { return m.run.LookPath(nmapBin) }

func (m *nmapSweepMethod) Discover(ctx context.Context) (parse.DeviceResult, error) {
	network := m.network
	if network == "" {
		detected, err := SubnetForInterface(m.iface)
		if err != nil {
			return parse.DeviceResult{}, err
		}
		network = detected
	}

	sweepCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	scanner, err := nmap.NewScanner(sweepCtx,
		nmap.WithTargets(network),
		nmap.WithPingScan(),
		nmap.WithTimingTemplate(nmap.TimingNormal),
	)
	if err != nil {
		return parse.DeviceResult{}, errors.WrapDiscoveryError(MethodNmap, "failed to create scanner", err)
	}

	run, warnings, err := scanner.Run()
	if err != nil {
		return parse.DeviceResult{}, errors.WrapDiscoveryError(MethodNmap, "ping sweep failed", err)
	}
	if warnings != nil && len(*warnings) > 0 {
		logging.Warn("ping sweep completed with warnings", "warnings", *warnings)
	}

	var result parse.DeviceResult
	now := time.Now()
	for i := range run.Hosts {
		device, err := convertNmapHost(&run.Hosts[i], now)
		if err != nil {
			result.Skipped = append(result.Skipped, err)
			continue
		}
		if device != nil {
			result.Devices = append(result.Devices, *device)
		}
	}
	return result, nil
}

// convertNmapHost maps one nmap host to a device record. Hosts without a MAC
// (typically the scanning host itself) are dropped silently; a malformed MAC
// is reported.
func convertNmapHost(host *nmap.Host, now time.Time) (*survey.Device, error) {
	if host.Status.State != "up" || len(host.Addresses) == 0 {
		return nil, nil
	}

	device := &survey.Device{DiscoveredAt: now}
	for _, addr := range host.Addresses {
		switch addr.AddrType {
		case "ipv4":
			device.IPAddress = addr.Addr
		case "mac":
			mac, err := survey.NormalizeMAC(addr.Addr)
			if err != nil {
				return nil, err
			}
			device.MACAddress = mac
			device.Vendor = addr.Vendor
		}
	}
	if device.MACAddress == "" {
		return nil, nil
	}
	if len(host.Hostnames) > 0 {
		device.Hostname = host.Hostnames[0].Name
	}
	return device, nil
}

// SubnetForInterface derives the IPv4 CIDR of the named interface.
func SubnetForInterface(name string) (string, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return "", errors.WrapDiscoveryError(MethodNmap, "interface lookup failed", err)
	}
	addrs, err := iface.Addrs()
	if err != nil {
		return "", errors.WrapDiscoveryError(MethodNmap, "interface address lookup failed", err)
	}
	for _, a := range addrs {
		if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil && !ipnet.IP.IsLoopback() {
			masked := &net.IPNet{IP: ipnet.IP.Mask(ipnet.Mask), Mask: ipnet.Mask}
			return masked.String(), nil
		}
	}
	return "", errors.NewDiscoveryError(MethodNmap, "no IPv4 address on interface "+name)
}
