// Package connectivity observes network reachability and reports
// transitions to subscribers.
//
// The monitor is a passive hint, not a prober: it never talks to the remote
// store, and a reported "online" does not guarantee a remote write will
// succeed. True reachability is ground truth - a failed write while the
// monitor says online simply lands the mutation in the pending queue.
package connectivity

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"
)

// Monitor exposes the current connectivity state and notifies subscribers
// exactly on state transitions, never on every poll.
type Monitor interface {
	// Online returns the current connectivity state.
	Online() bool

	// Subscribe registers fn to be called on every subsequent transition.
	// fn runs on the monitor's goroutine; keep it short.
	Subscribe(fn func(online bool))
}

// Manual is a Monitor driven by explicit Set calls. Used by tests, the
// scenario harness, and the CLI's --offline flag.
type Manual struct {
	mu     sync.Mutex
	online bool
	subs   []func(bool)
}

// NewManual creates a manual monitor with the given initial state.
func NewManual(online bool) *Manual {
	return &Manual{online: online}
}

// Online implements Monitor.
func (m *Manual) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Subscribe implements Monitor.
func (m *Manual) Subscribe(fn func(online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// Set updates the state and notifies subscribers if it changed.
func (m *Manual) Set(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	subs := append(([]func(bool))(nil), m.subs...)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(online)
	}
}

// Probe is a Monitor that polls the platform's interface table. It
// considers the device online when any non-loopback interface is up with
// an assigned address. The initial state is read at construction.
//
// Polling only reads local interface state; it never emits traffic.
type Probe struct {
	mu     sync.Mutex
	online bool
	subs   []func(bool)

	interval time.Duration
	check    func() bool
}

// NewProbe creates a probe polling at the given interval. A zero interval
// defaults to 5 seconds.
func NewProbe(interval time.Duration) *Probe {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	p := &Probe{interval: interval, check: interfacesUp}
	p.online = p.check()
	return p
}

// Online implements Monitor.
func (p *Probe) Online() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online
}

// Subscribe implements Monitor.
func (p *Probe) Subscribe(fn func(online bool)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs = append(p.subs, fn)
}

// Run polls until the context is cancelled, notifying subscribers on each
// transition.
func (p *Probe) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll()
		}
	}
}

func (p *Probe) poll() {
	online := p.check()

	p.mu.Lock()
	if online == p.online {
		p.mu.Unlock()
		return
	}
	p.online = online
	subs := append(([]func(bool))(nil), p.subs...)
	p.mu.Unlock()

	slog.Info("connectivity changed", "online", online)
	for _, fn := range subs {
		fn(online)
	}
}

// interfacesUp reads the platform reachability primitive: any up,
// non-loopback interface with at least one address counts as online.
func interfacesUp() bool {
	ifaces, err := net.Interfaces()
	if err != nil {
		slog.Debug("interface enumeration failed", "error", err)
		return false
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil || len(addrs) == 0 {
			continue
		}
		return true
	}
	return false
}
