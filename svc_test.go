package rxnet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/joy-dx/rxnet/cache/memstore"
	"github.com/joy-dx/rxnet/client/httpclient"
	"github.com/joy-dx/rxnet/config"
	"github.com/joy-dx/rxnet/dto"
	"github.com/joy-dx/rxnet/reachability"
	relayDTO "github.com/joy-dx/relay/dto"
)

// ---------- fakes ----------

type fakeRelay struct {
	mu   sync.Mutex
	msgs []string
	evts []relayDTO.RelayEventInterface
}

func (r *fakeRelay) Debug(data relayDTO.RelayEventInterface) { r.add(data) }
func (r *fakeRelay) Info(data relayDTO.RelayEventInterface)  { r.add(data) }
func (r *fakeRelay) Warn(data relayDTO.RelayEventInterface)  { r.add(data) }
func (r *fakeRelay) Error(data relayDTO.RelayEventInterface) { r.add(data) }
func (r *fakeRelay) Fatal(data relayDTO.RelayEventInterface) { r.add(data) }
func (r *fakeRelay) Meta(data relayDTO.RelayEventInterface)  { r.add(data) }

func (r *fakeRelay) add(e relayDTO.RelayEventInterface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evts = append(r.evts, e)
	if e != nil {
		r.msgs = append(r.msgs, e.Message())
	}
}

func (r *fakeRelay) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.evts)
}

type fakeNetClient struct {
	ref  string
	typ  dto.NetClientType
	fn   func(ctx context.Context, cfg *dto.RequestConfig) (dto.Response, error)
	call int
	mu   sync.Mutex
}

func (c *fakeNetClient) Ref() string             { return c.ref }
func (c *fakeNetClient) Type() dto.NetClientType { return c.typ }
func (c *fakeNetClient) ProcessRequest(
	ctx context.Context,
	cfg *dto.RequestConfig,
) (dto.Response, error) {
	c.mu.Lock()
	c.call++
	c.mu.Unlock()
	return c.fn(ctx, cfg)
}

func (c *fakeNetClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.call
}

// httpFake answers resolver dispatches, which always carry HTTP request configs.
func httpFake(fn func(ctx context.Context, cfg *dto.RequestConfig) (dto.Response, error)) *fakeNetClient {
	return &fakeNetClient{ref: dto.NET_DEFAULT_CLIENT_REF, typ: httpclient.NetClientHTTPRef, fn: fn}
}

type tempErr struct{ msg string }

func (e tempErr) Error() string   { return e.msg }
func (e tempErr) Temporary() bool { return true }

type noWaitDelay struct{}

func (d noWaitDelay) Wait(ctx context.Context, taskName string, attempt int) error {
	return ctx.Err()
}

// ---------- helpers ----------

func newTestSvc(t *testing.T) *NetSvc {
	t.Helper()
	return newTestSvcWith(t, config.DefaultNetSvcConfig(), true)
}

func newTestSvcWith(t *testing.T, cfg config.NetSvcConfig, reachable bool) *NetSvc {
	t.Helper()
	cfg.WithRelay(&fakeRelay{})
	s := NewNetSvc(&cfg, WithGate(reachability.Static(reachable)))
	t.Cleanup(s.Close)
	return s
}

func TestNetSvc_RegisterClient_Golden(t *testing.T) {
	t.Parallel()

	s := newTestSvc(t)
	c := &fakeNetClient{ref: "x", fn: func(ctx context.Context, cfg *dto.RequestConfig) (dto.Response, error) {
		return dto.Response{StatusCode: 200}, nil
	}}

	s.RegisterClient("x", c)

	if _, ok := s.client("x"); !ok {
		t.Fatalf("client not registered")
	}
}

func TestNetSvc_Hydrate(t *testing.T) {
	t.Parallel()

	s := newTestSvc(t)
	if err := s.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	c, ok := s.client(dto.NET_DEFAULT_CLIENT_REF)
	if !ok {
		t.Fatalf("default client not registered")
	}
	if c.Type() != httpclient.NetClientHTTPRef {
		t.Fatalf("default client type=%s", c.Type())
	}

	// a client registered before Hydrate is kept
	s2 := newTestSvc(t)
	custom := httpFake(nil)
	s2.RegisterClient(dto.NET_DEFAULT_CLIENT_REF, custom)
	if err := s2.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if got, _ := s2.client(dto.NET_DEFAULT_CLIENT_REF); got != custom {
		t.Fatalf("Hydrate replaced an existing default client")
	}
	if s2.monitor != nil {
		t.Fatalf("custom gate must not start a monitor")
	}
}

func TestNetSvc_HydrateInvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultNetSvcConfig()
	cfg.RequestTimeout = -1
	s := newTestSvcWith(t, cfg, true)
	if err := s.Hydrate(context.Background()); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestNetSvc_State(t *testing.T) {
	t.Parallel()

	s := newTestSvcWith(t, config.DefaultNetSvcConfig(), false)
	s.RegisterClient(dto.NET_DEFAULT_CLIENT_REF, httpFake(nil))

	desc := dto.Get("https://api.example.com/me").WithTaskName("me")
	for range s.ResolveResponse(context.Background(), &desc) {
	}

	st := s.State()
	if st.Reachable {
		t.Fatalf("state reports reachable behind an unreachable gate")
	}
	n, ok := st.Requests[desc.CacheKey()]
	if !ok {
		t.Fatalf("request not tracked: %+v", st.Requests)
	}
	if n.Status != dto.COMPLETED || n.Outcome != dto.OutcomeTransportError {
		t.Fatalf("notification=%+v", n)
	}
}

func TestNetSvc_WithLayeredCache(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultNetSvcConfig()
	cfg.WithRelay(&fakeRelay{})
	back := memstore.New()
	s := NewNetSvc(&cfg, WithLayeredCache(back), WithGate(reachability.Static(true)))
	s.RegisterClient(dto.NET_DEFAULT_CLIENT_REF, httpFake(func(context.Context, *dto.RequestConfig) (dto.Response, error) {
		return dto.Response{StatusCode: 200, Body: []byte(`{"code":200,"data":{}}`)}, nil
	}))

	desc := dto.Get("https://api.example.com/layered").WithCachePolicy(dto.CacheResponse)
	if err := s.Cache().Write(context.Background(), desc.CacheKey(), dto.Response{Body: []byte(`{"code":200,"data":{}}`)}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, found, err := back.Get(context.Background(), desc.CacheKey()); err != nil || !found {
		t.Fatalf("write did not reach the back store: found=%v err=%v", found, err)
	}
}

func TestNetSvc_HydratedEndToEnd(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "rxnet-test" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"code":200,"msg":"ok","data":{"name":"` + r.URL.Query().Get("who") + `"}}`))
	}))
	defer srv.Close()

	cfg := config.DefaultNetSvcConfig()
	cfg.WithUserAgent("rxnet-test")
	s := newTestSvcWith(t, cfg, true)
	if err := s.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	desc := dto.Get(srv.URL + "/profile").WithQuery("who", "ada")
	o := ResolveLatest[profile](context.Background(), s, desc)
	if v, err := o.Get(); err != nil || v.Name != "ada" {
		t.Fatalf("outcome=%+v err=%v", v, err)
	}
}
