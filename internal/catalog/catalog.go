// Package catalog owns the live set of networks and devices for one scan
// session. All mutation goes through the insert-or-merge operations, so
// dedup semantics are defined in exactly one place. Snapshots preserve
// first-seen insertion order for deterministic report layout.
package catalog

import (
	"sync"

	"wifiscout/internal/survey"
)

// Catalog deduplicates and stores the discovered networks and devices of the
// in-progress session. Nothing is removed mid-session; removal is a full
// Reset.
type Catalog struct {
	mu sync.Mutex

	networkIndex map[string]int
	networks     []survey.Network

	deviceIndex map[string]int
	devices     []survey.Device
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		networkIndex: make(map[string]int),
		deviceIndex:  make(map[string]int),
	}
}

// UpsertNetwork merges a network by its (SSID, BSSID) identity and reports
// whether the record was new. A re-observation keeps first-seen position and
// takes the newer signal reading and timestamp.
func (c *Catalog) UpsertNetwork(n survey.Network) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := n.Key()
	idx, exists := c.networkIndex[key]
	if !exists {
		c.networkIndex[key] = len(c.networks)
		c.networks = append(c.networks, n)
		return true
	}

	existing := &c.networks[idx]
	if !n.DiscoveredAt.Before(existing.DiscoveredAt) {
		existing.SignalPct = n.SignalPct
		existing.DiscoveredAt = n.DiscoveredAt
		existing.Security = n.Security
		if n.RSSIDbm != nil {
			existing.RSSIDbm = n.RSSIDbm
		}
		if n.FrequencyMHz > 0 {
			existing.FrequencyMHz = n.FrequencyMHz
			existing.Band = n.Band
			existing.Channel = n.Channel
		}
	}
	return false
}

// UpsertDevice merges a device by its MAC identity and reports whether the
// record was new. Merging prefers a resolved hostname over none and fills in
// vendor information from later, richer discovery methods. Duplicate IPs for
// one MAC are expected under DHCP churn; the latest observation wins.
func (c *Catalog) UpsertDevice(d survey.Device) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx, exists := c.deviceIndex[d.MACAddress]
	if !exists {
		c.deviceIndex[d.MACAddress] = len(c.devices)
		c.devices = append(c.devices, d)
		return true
	}

	existing := &c.devices[idx]
	if d.IPAddress != "" {
		existing.IPAddress = d.IPAddress
	}
	if d.Hostname != "" {
		existing.Hostname = d.Hostname
	}
	if d.Vendor != "" {
		existing.Vendor = d.Vendor
	}
	if d.DiscoveredAt.After(existing.DiscoveredAt) {
		existing.DiscoveredAt = d.DiscoveredAt
	}
	return false
}

// Networks returns the current networks in first-seen order.
func (c *Catalog) Networks() []survey.Network {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]survey.Network, len(c.networks))
	copy(out, c.networks)
	return out
}

// OpenNetworks returns the current open networks in first-seen order. This
// is the immutable queue snapshot the connectivity tester works from.
func (c *Catalog) OpenNetworks() []survey.Network {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []survey.Network
	for i := range c.networks {
		if c.networks[i].IsOpen() {
			out = append(out, c.networks[i])
		}
	}
	return out
}

// Devices returns the current devices in first-seen order.
func (c *Catalog) Devices() []survey.Device {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]survey.Device, len(c.devices))
	copy(out, c.devices)
	return out
}

// Reset clears the catalog for a new session.
func (c *Catalog) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.networkIndex = make(map[string]int)
	c.networks = nil
	c.deviceIndex = make(map[string]int)
	c.devices = nil
}
