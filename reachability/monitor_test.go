package reachability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joy-dx/rxnet/config"
	"github.com/joy-dx/rxnet/dto"
	"github.com/joy-dx/rxnet/relays"
)

type statusRecorder struct {
	mu  sync.Mutex
	got []dto.ReachabilityStatus
}

func (r *statusRecorder) sink() relays.FuncSink {
	return relays.FuncSink{OnReachabilityChanged: func(s dto.ReachabilityStatus) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.got = append(r.got, s)
	}}
}

func (r *statusRecorder) snapshot() []dto.ReachabilityStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]dto.ReachabilityStatus(nil), r.got...)
}

func newTestConfig(sink dto.SignalSink) *config.NetSvcConfig {
	cfg := config.DefaultNetSvcConfig()
	cfg.WithSignals(sink).WithProbe("", 10*time.Millisecond)
	return &cfg
}

func TestMonitor_DefaultWhileUnknown_Golden(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		defaultReachable bool
	}{
		{name: "default reachable", defaultReachable: true},
		{name: "default unreachable", defaultReachable: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := newTestConfig(nil)
			cfg.WithDefaultReachable(tt.defaultReachable)
			m := NewMonitor(cfg, ProberFunc(func(context.Context) bool { return false }))

			if m.Status() != dto.ReachabilityUnknown {
				t.Fatalf("status=%s want unknown before the first probe", m.Status())
			}
			if m.IsReachable() != tt.defaultReachable {
				t.Fatalf("IsReachable=%v want %v", m.IsReachable(), tt.defaultReachable)
			}
		})
	}
}

func TestMonitor_DistinctTransitions_Golden(t *testing.T) {
	t.Parallel()

	rec := &statusRecorder{}
	var up atomic.Bool
	m := NewMonitor(newTestConfig(rec.sink()), ProberFunc(func(context.Context) bool { return up.Load() }))

	ch, unsub := m.Subscribe()
	defer unsub()

	ctx := context.Background()
	m.Check(ctx) // unknown -> not reachable
	m.Check(ctx) // unchanged
	up.Store(true)
	m.Check(ctx) // -> reachable
	m.Check(ctx) // unchanged

	want := []dto.ReachabilityStatus{dto.ReachabilityNotReachable, dto.ReachabilityReachable}
	for i, w := range want {
		select {
		case got := <-ch:
			if got != w {
				t.Fatalf("transition %d=%s want %s", i, got, w)
			}
		case <-time.After(500 * time.Millisecond):
			t.Fatalf("timeout waiting for transition %d", i)
		}
	}
	select {
	case extra := <-ch:
		t.Fatalf("unexpected duplicate transition %s", extra)
	default:
	}

	if got := rec.snapshot(); len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("sink got=%v want %v", got, want)
	}
	if !m.IsReachable() {
		t.Fatalf("IsReachable=false after reachable probe")
	}
}

func TestMonitor_StartStop_Golden(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method=%s want HEAD", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cfg := newTestConfig(nil)
	cfg.WithDefaultReachable(false).WithProbe(srv.URL, 10*time.Millisecond)
	m := NewMonitor(cfg, nil)

	ch, _ := m.Subscribe()
	m.Start(context.Background())

	select {
	case got := <-ch:
		if got != dto.ReachabilityReachable {
			t.Fatalf("status=%s want reachable", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for the first probe")
	}

	m.Stop()
	if _, open := <-ch; open {
		t.Fatalf("subscription must be closed after Stop")
	}
}

func TestHTTPProber_Unreachable_Golden(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	if (HTTPProber{URL: url}).Probe(context.Background()) {
		t.Fatalf("closed server must be unreachable")
	}
	if (HTTPProber{URL: "://bad"}).Probe(context.Background()) {
		t.Fatalf("malformed url must be unreachable")
	}
}

func TestStaticGate_Golden(t *testing.T) {
	t.Parallel()

	g := Static(true)
	ch, unsub := g.Subscribe()

	g.Set(true) // no change, no event
	g.Set(false)

	select {
	case got := <-ch:
		if got != dto.ReachabilityNotReachable {
			t.Fatalf("status=%s want not_reachable", got)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timeout waiting for transition")
	}
	if g.IsReachable() {
		t.Fatalf("IsReachable=true after Set(false)")
	}

	unsub()
	unsub()
	if _, open := <-ch; open {
		t.Fatalf("channel must be closed after unsubscribe")
	}
}
