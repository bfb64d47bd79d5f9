package rxnet

import (
	"context"
	"errors"
	"time"

	"github.com/joy-dx/rxnet/client/httpclient"
	"github.com/joy-dx/rxnet/config"
	"github.com/joy-dx/rxnet/dto"
	"github.com/joy-dx/rxnet/envelope"
	"github.com/joy-dx/rxnet/relays"
)

// ResolveOption adjusts a single resolution.
type ResolveOption func(*resolveOptions)

type resolveOptions struct {
	envelope config.EnvelopeConfig
	signals  dto.SignalSink
}

// WithEnvelope overrides the envelope keys for one call.
func WithEnvelope(keys config.EnvelopeConfig) ResolveOption {
	return func(o *resolveOptions) { o.envelope = keys }
}

// WithSignals routes this call's session signals to sink.
func WithSignals(sink dto.SignalSink) ResolveOption {
	return func(o *resolveOptions) { o.signals = sink }
}

func (s *NetSvc) resolveOptions(opts []ResolveOption) resolveOptions {
	o := resolveOptions{envelope: s.cfg.Envelope, signals: s.signals}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ResolveResponse is the raw resolution stage: at most one cached emission
// followed by at most one network emission, then the channel closes.
// Successful envelopes are written back under the cache-response policy.
func (s *NetSvc) ResolveResponse(ctx context.Context, desc *dto.RequestDescriptor) <-chan dto.ResponseEvent {
	keys := s.cfg.Envelope
	return s.resolveRaw(ctx, *desc, func(resp dto.Response) bool {
		return envelope.DecodeVoid(resp.Body, keys, nil).OK()
	})
}

// resolveRaw runs the cache / reachability / network sequence for d.
// When shouldCache is nil the caller persists successful responses itself.
func (s *NetSvc) resolveRaw(ctx context.Context, d dto.RequestDescriptor, shouldCache func(dto.Response) bool) <-chan dto.ResponseEvent {
	out := make(chan dto.ResponseEvent, 2)
	go func() {
		defer close(out)

		key := d.CacheKey()
		emit := func(ev dto.ResponseEvent) bool {
			if ctx.Err() != nil {
				return false
			}
			out <- ev
			return true
		}
		s.track(key, d, dto.NOT_STARTED, "", "")

		cacheHit := false
		if d.CachePolicy == dto.CacheResponse {
			s.track(key, d, dto.CACHE_CHECK, "", "")
			if resp, found := s.cache.Read(ctx, key); found {
				cacheHit = true
				emit(dto.ResponseEvent{Response: resp, FromCache: true})
			}
		}

		s.track(key, d, dto.NETWORK_CHECK, "", "")
		if !s.gate.IsReachable() {
			if d.CachePolicy == dto.CacheResponse && cacheHit {
				s.track(key, d, dto.COMPLETED, dto.OutcomeSuccess, "served from cache while offline")
				return
			}
			emit(dto.ResponseEvent{Err: &dto.TransportError{Cause: dto.ErrNetworkUnavailable}})
			if d.CachePolicy == dto.CacheRequest {
				s.logFailedRequest(ctx, d)
			}
			s.track(key, d, dto.COMPLETED, dto.OutcomeTransportError, dto.ErrNetworkUnavailable.Error())
			return
		}

		s.track(key, d, dto.IN_FLIGHT, "", "")
		resp, err := s.dispatch(ctx, d)
		if ctx.Err() != nil {
			s.track(key, d, dto.COMPLETED, "", "cancelled")
			return
		}
		if err != nil {
			s.relay.Warn(relays.RlyNetRequest{
				Task:     d.Name(),
				CacheKey: key,
				Status:   dto.COMPLETED,
				Outcome:  dto.OutcomeTransportError,
				Msg:      d.Name() + ": " + err.Error(),
			})
			emit(dto.ResponseEvent{Err: &dto.TransportError{Cause: err}})
			if d.CachePolicy == dto.CacheRequest {
				s.logFailedRequest(ctx, d)
			}
			s.track(key, d, dto.COMPLETED, dto.OutcomeTransportError, err.Error())
			return
		}

		if d.CachePolicy == dto.CacheResponse && shouldCache != nil && shouldCache(resp) {
			s.cache.WriteAsync(ctx, key, resp)
		}
		emit(dto.ResponseEvent{Response: resp})
		s.track(key, d, dto.COMPLETED, "", "")
	}()
	return out
}

// dispatch maps the descriptor onto the HTTP transport.
func (s *NetSvc) dispatch(ctx context.Context, d dto.RequestDescriptor) (dto.Response, error) {
	reqCfg := httpclient.FromDescriptor(d)
	cfg := dto.DefaultRequestConfig()
	cfg.WithReqConfig(&reqCfg).
		WithTaskName(d.Name()).
		WithMaxRetries(d.MaxRetries)
	if d.ClientRef != "" {
		cfg.WithClientRef(d.ClientRef)
	}
	cfg.WithTimeout(s.cfg.RequestTimeout)
	if d.Timeout > 0 {
		cfg.WithTimeout(d.Timeout)
	}
	if cfg.MaxRetries > 0 {
		return s.RequestWithRetry(ctx, &cfg)
	}
	return s.RequestOnce(ctx, &cfg)
}

// logFailedRequest appends synchronously so the entry exists once the
// resolution channel closes. Appends are not atomic across goroutines.
func (s *NetSvc) logFailedRequest(ctx context.Context, d dto.RequestDescriptor) {
	if err := s.cache.AppendFailedRequest(context.WithoutCancel(ctx), d); err != nil {
		s.relay.Error(relays.RlyNetLog{Msg: "append failed request " + d.Name() + ": " + err.Error()})
	}
}

// track records the request state and relays the transition.
func (s *NetSvc) track(key string, d dto.RequestDescriptor, status dto.ResolveStatus, outcome dto.OutcomeKind, msg string) {
	s.requestState.Set(key, dto.RequestNotification{
		CacheKey:  key,
		TaskName:  d.Name(),
		Status:    status,
		Outcome:   outcome,
		Message:   msg,
		UpdatedAt: time.Now(),
	})
	s.relay.Debug(relays.RlyNetRequest{
		Task:     d.Name(),
		CacheKey: key,
		Status:   status,
		Outcome:  outcome,
		Msg:      msg,
	})
}

// Resolve decodes every emission of the raw stage into an Outcome. A cached
// emission, when present, always precedes the network one.
func Resolve[T any](ctx context.Context, s *NetSvc, desc dto.RequestDescriptor, opts ...ResolveOption) <-chan dto.Outcome[T] {
	out := make(chan dto.Outcome[T], 2)
	in := resolveTagged[T](ctx, s, desc, opts, envelope.Decode[T])
	go func() {
		defer close(out)
		for ev := range in {
			out <- ev.outcome
		}
	}()
	return out
}

// ResolveVoid resolves requests whose payload is irrelevant. A success
// envelope succeeds whether data is absent, scalar or an object.
func ResolveVoid(ctx context.Context, s *NetSvc, desc dto.RequestDescriptor, opts ...ResolveOption) <-chan dto.Outcome[struct{}] {
	out := make(chan dto.Outcome[struct{}], 2)
	in := resolveTagged[struct{}](ctx, s, desc, opts, envelope.DecodeVoid)
	go func() {
		defer close(out)
		for ev := range in {
			out <- ev.outcome
		}
	}()
	return out
}

// ResolveLatest waits for the resolution to finish and returns the network
// outcome when there was one, otherwise the cached outcome.
func ResolveLatest[T any](ctx context.Context, s *NetSvc, desc dto.RequestDescriptor, opts ...ResolveOption) dto.Outcome[T] {
	var m mergeState[T]
	for ev := range resolveTagged[T](ctx, s, desc, opts, envelope.Decode[T]) {
		m.offer(ev)
	}
	return m.latest(ctx)
}

// Latest drains ch and returns its final outcome. The resolver emits the
// cached outcome before the network one, so the last value is the network
// result whenever the network answered.
func Latest[T any](ctx context.Context, ch <-chan dto.Outcome[T]) dto.Outcome[T] {
	var m mergeState[T]
	for o := range ch {
		m.offer(taggedOutcome[T]{outcome: o})
	}
	return m.latest(ctx)
}

type taggedOutcome[T any] struct {
	outcome   dto.Outcome[T]
	fromCache bool
}

// mergeState holds the two slots of one resolution.
type mergeState[T any] struct {
	cache         dto.Outcome[T]
	network       dto.Outcome[T]
	cacheFilled   bool
	networkFilled bool
}

func (m *mergeState[T]) offer(ev taggedOutcome[T]) {
	if ev.fromCache && !m.cacheFilled {
		m.cache, m.cacheFilled = ev.outcome, true
		return
	}
	m.network, m.networkFilled = ev.outcome, true
}

func (m *mergeState[T]) latest(ctx context.Context) dto.Outcome[T] {
	switch {
	case m.networkFilled:
		return m.network
	case m.cacheFilled:
		return m.cache
	case ctx.Err() != nil:
		return dto.TransportFailure[T](ctx.Err())
	default:
		return dto.TransportFailure[T](errors.New("resolution produced no outcome"))
	}
}

// decodeFunc turns a response body into an Outcome under the given envelope keys.
type decodeFunc[T any] func(body []byte, keys config.EnvelopeConfig, sink dto.SignalSink) dto.Outcome[T]

func resolveTagged[T any](ctx context.Context, s *NetSvc, desc dto.RequestDescriptor, opts []ResolveOption, decode decodeFunc[T]) <-chan taggedOutcome[T] {
	o := s.resolveOptions(opts)
	out := make(chan taggedOutcome[T], 2)
	raw := s.resolveRaw(ctx, desc, nil)
	key := desc.CacheKey()
	go func() {
		defer close(out)
		for ev := range raw {
			var outcome dto.Outcome[T]
			if ev.Err != nil {
				outcome = dto.TransportFailure[T](ev.Err)
			} else {
				outcome = decode(ev.Response.Body, o.envelope, o.signals)
			}
			if !ev.FromCache && ev.Err == nil {
				if outcome.OK() && desc.CachePolicy == dto.CacheResponse {
					s.cache.WriteAsync(ctx, key, ev.Response)
				}
				s.track(key, desc, dto.COMPLETED, outcome.Kind, "")
			}
			if ctx.Err() != nil {
				return
			}
			out <- taggedOutcome[T]{outcome: outcome, fromCache: ev.FromCache}
		}
	}()
	return out
}
