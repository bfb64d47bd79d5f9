// Package reachability decides whether the network is usable before the
// resolver dispatches a request.
package reachability

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/joy-dx/rxnet/config"
	"github.com/joy-dx/rxnet/dto"
	"github.com/joy-dx/rxnet/relays"
	relayDTO "github.com/joy-dx/relay/dto"
)

// Prober reports whether the network answered.
type Prober interface {
	Probe(ctx context.Context) bool
}

type ProberFunc func(ctx context.Context) bool

func (f ProberFunc) Probe(ctx context.Context) bool { return f(ctx) }

// HTTPProber sends HEAD to URL; any HTTP answer counts as reachable.
type HTTPProber struct {
	URL    string
	Client *http.Client
}

func (p HTTPProber) Probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.URL, nil)
	if err != nil {
		return false
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

// Monitor probes on an interval and publishes distinct status transitions.
// Until the first probe completes the status is Unknown and IsReachable
// reports the configured default.
type Monitor struct {
	prober           Prober
	interval         time.Duration
	timeout          time.Duration
	defaultReachable bool
	sink             dto.SignalSink
	relay            relayDTO.RelayInterface

	mu     sync.RWMutex
	status dto.ReachabilityStatus
	hub    hub

	stopOnce sync.Once
	stop     context.CancelFunc
	done     chan struct{}
}

// NewMonitor builds a monitor from the service config. A nil prober falls
// back to HTTPProber against cfg.ProbeURL.
func NewMonitor(cfg *config.NetSvcConfig, prober Prober) *Monitor {
	if prober == nil {
		prober = HTTPProber{URL: cfg.ProbeURL, Client: &http.Client{Timeout: cfg.RequestTimeout}}
	}
	interval := cfg.ProbeInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Monitor{
		prober:           prober,
		interval:         interval,
		timeout:          cfg.RequestTimeout,
		defaultReachable: cfg.DefaultReachable,
		sink:             cfg.Signals(),
		relay:            cfg.Relay(),
		status:           dto.ReachabilityUnknown,
	}
}

// Start probes immediately and then every interval until ctx is done or
// Stop is called.
func (m *Monitor) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	if m.done != nil {
		m.mu.Unlock()
		cancel()
		return
	}
	m.stop = cancel
	m.done = make(chan struct{})
	m.mu.Unlock()

	go m.run(ctx)
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Stop ends the probe loop and closes every subscription.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		m.mu.RLock()
		stop, done := m.stop, m.done
		m.mu.RUnlock()
		if stop != nil {
			stop()
			<-done
		}
		m.hub.closeAll()
	})
}

// Check runs one probe and records its result.
func (m *Monitor) Check(ctx context.Context) dto.ReachabilityStatus {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	status := dto.ReachabilityNotReachable
	if m.prober.Probe(ctx) {
		status = dto.ReachabilityReachable
	}
	m.Update(status)
	return status
}

// Update records status and publishes it when it differs from the last one.
func (m *Monitor) Update(status dto.ReachabilityStatus) {
	m.mu.Lock()
	if m.status == status {
		m.mu.Unlock()
		return
	}
	m.status = status
	m.mu.Unlock()

	m.relay.Debug(relays.RlyNetLog{Msg: "reachability: " + string(status)})
	m.hub.publish(status)
	if m.sink != nil {
		m.sink.ReachabilityChanged(status)
	}
}

func (m *Monitor) Status() dto.ReachabilityStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) IsReachable() bool {
	switch m.Status() {
	case dto.ReachabilityReachable:
		return true
	case dto.ReachabilityNotReachable:
		return false
	default:
		return m.defaultReachable
	}
}

// Subscribe returns a channel of transitions and its unsubscribe func.
func (m *Monitor) Subscribe() (<-chan dto.ReachabilityStatus, func()) {
	return m.hub.subscribe()
}
