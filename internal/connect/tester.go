// Package connect implements the auto-connect state machine that validates
// open networks one at a time: connect, verify an IPv4 lease, probe the test
// host, record the result and release the interface. The wireless radio and
// its NetworkManager connection state are exclusively owned by the tester
// for the duration of one attempt.
package connect

import (
	"context"
	"strconv"
	"time"

	"wifiscout/internal/config"
	"wifiscout/internal/errors"
	"wifiscout/internal/logging"
	"wifiscout/internal/metrics"
	"wifiscout/internal/parse"
	"wifiscout/internal/runner"
	"wifiscout/internal/survey"
)

// State names one step of the per-network attempt sequence.
type State string

const (
	StateIdle           State = "idle"
	StateConnecting     State = "connecting"
	StateAddressPending State = "address_pending"
	StatePinging        State = "pinging"
	StateRecorded       State = "recorded"
	StateFailed         State = "failed"
)

// Failure messages recorded on attempts. Downstream tooling matches on these
// strings, so they are fixed.
const (
	msgConnectionFailed = "Connection failed"
	msgNoAddress        = "Failed to get IP address"
)

const (
	nmcliBin = "nmcli"
	ipBin    = "ip"
	pingBin  = "ping"

	addressPollInterval = 500 * time.Millisecond
	disconnectTimeout   = 10 * time.Second
)

// Tester drives connection attempts against a queue of open networks.
type Tester struct {
	cfg config.WirelessConfig
	run runner.Runner
	log *logging.Logger
	rec metrics.Recorder
}

// NewTester creates a connectivity tester.
func NewTester(cfg config.WirelessConfig, run runner.Runner, log *logging.Logger, rec metrics.Recorder) *Tester {
	return &Tester{
		cfg: cfg,
		run: run,
		log: log.WithComponent("connect"),
		rec: rec,
	}
}

// RunPass tests every network in the queue strictly sequentially and appends
// one attempt per network to the session. The queue is an immutable snapshot:
// networks discovered after the pass begins are not retested in it. A
// success never short-circuits the remaining tests.
//
// The network-manager CLI has no fallback; its absence aborts the pass and
// all queued networks are reported as not attempted. Cancellation is honored
// between networks so the interface is always left disconnected.
func (t *Tester) RunPass(ctx context.Context, queue []survey.Network, session *survey.Session) error {
	if !t.run.LookPath(nmcliBin) {
		for i := range queue {
			session.NotAttempted = append(session.NotAttempted, queue[i].SSID)
		}
		return errors.NewToolUnavailable(nmcliBin)
	}

	for i := range queue {
		select {
		case <-ctx.Done():
			for j := i; j < len(queue); j++ {
				session.NotAttempted = append(session.NotAttempted, queue[j].SSID)
			}
			return ctx.Err()
		default:
		}

		attempt := t.test(ctx, &queue[i])
		session.Attempts = append(session.Attempts, *attempt)
	}
	return nil
}

// test runs the full state machine for one network. Errors local to the
// network are absorbed into the attempt record, never returned.
func (t *Tester) test(ctx context.Context, network *survey.Network) *survey.Attempt {
	started := time.Now()
	attempt := &survey.Attempt{
		SSID:      network.SSID,
		StartedAt: started,
		SignalPct: network.SignalPct,
		Band:      network.Band,
	}
	log := t.log.WithSSID(network.SSID)
	state := StateConnecting

	defer func() {
		t.disconnect(ctx)
		outcome := "failure"
		if attempt.Success {
			outcome = "success"
		}
		t.rec.Attempt(outcome, time.Since(started))
		log.InfoConnect("attempt recorded", network.SSID,
			"success", attempt.Success, "ping_success", attempt.PingSuccess)
	}()

	log.Debug("state transition", "state", state)
	if err := t.connectStep(ctx, network.SSID); err != nil {
		attempt.ErrorMessage = msgConnectionFailed
		log.ErrorConnect("connection failed", network.SSID, err)
		return attempt
	}

	state = StateAddressPending
	log.Debug("state transition", "state", state)
	ip, err := t.addressStep(ctx)
	if err != nil {
		attempt.ErrorMessage = msgNoAddress
		log.ErrorConnect("no address leased", network.SSID, err)
		return attempt
	}

	// Association plus a lease is a successful connection; the ping below
	// only distinguishes internet reachability from link-layer success.
	attempt.Success = true
	attempt.IPAddress = ip

	state = StatePinging
	log.Debug("state transition", "state", state)
	stats, pingOK := t.pingStep(ctx)
	attempt.PingSuccess = pingOK
	attempt.PingStats = stats
	t.rec.PingResult(pingOK)

	state = StateRecorded
	log.Debug("state transition", "state", state)
	return attempt
}

// connectStep releases the interface and issues the connect request, bounded
// by the configured connection timeout.
func (t *Tester) connectStep(ctx context.Context, ssid string) error {
	t.disconnect(ctx)

	waitSec := int(t.cfg.ConnectionTimeout.Seconds())
	if waitSec < 1 {
		waitSec = 1
	}
	_, err := t.run.Run(ctx, t.cfg.ConnectionTimeout+time.Second, nmcliBin,
		"-w", strconv.Itoa(waitSec),
		"device", "wifi", "connect", ssid, "ifname", t.cfg.Interface)
	return err
}

// addressStep polls for an IPv4 lease within the connection timeout budget.
// Association success does not imply address assignment on captive or
// misconfigured open networks.
func (t *Tester) addressStep(ctx context.Context) (string, error) {
	deadline := time.Now().Add(t.cfg.ConnectionTimeout)
	for {
		out, err := t.run.Run(ctx, disconnectTimeout, ipBin, "route", "get", t.cfg.TestHost)
		if err == nil {
			if src := parse.SourceAddress(out); src != "" {
				return src, nil
			}
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if time.Now().After(deadline) {
			return "", errors.NewToolTimeout(ipBin, "route get "+t.cfg.TestHost)
		}
		timer := time.NewTimer(addressPollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}

// pingStep sends the configured probe count to the test host and parses the
// round-trip statistics. Failure here does not fail the attempt.
func (t *Tester) pingStep(ctx context.Context) (*survey.PingStats, bool) {
	timeoutSec := int(t.cfg.PingTimeout.Seconds())
	if timeoutSec < 1 {
		timeoutSec = 1
	}
	budget := time.Duration(t.cfg.PingCount)*t.cfg.PingTimeout + 2*time.Second

	out, err := t.run.Run(ctx, budget, pingBin,
		"-c", strconv.Itoa(t.cfg.PingCount),
		"-W", strconv.Itoa(timeoutSec),
		t.cfg.TestHost)

	stats, parseErr := parse.PingStats(out)
	if parseErr != nil {
		stats = nil
	}
	return stats, err == nil
}

// disconnect releases the interface. Errors are ignored: the interface may
// already be down and a failed disconnect must not block the queue.
func (t *Tester) disconnect(ctx context.Context) {
	if ctx.Err() != nil {
		// Detach from the canceled context so cleanup still runs.
		ctx = context.Background()
	}
	_, _ = t.run.Run(ctx, disconnectTimeout, nmcliBin, "device", "disconnect", t.cfg.Interface)
}
