package rxnet

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/joy-dx/rxnet/dto"
)

type LoaderEventKind string

const (
	LoaderStarted LoaderEventKind = "started"
	LoaderValue   LoaderEventKind = "value"
	LoaderError   LoaderEventKind = "error"
	LoaderStopped LoaderEventKind = "stopped"
)

type LoaderEvent[T any] struct {
	Kind  LoaderEventKind
	Value T
	Err   error
}

// Loader runs one non-paginated request at a time. A new Load cancels the
// previous one; nothing from a superseded load is published after the new
// load has started.
type Loader[P, T any] struct {
	fn     func(ctx context.Context, params P) <-chan dto.Outcome[T]
	events *feed[LoaderEvent[T]]

	gen    atomic.Uint64
	emitMu sync.Mutex
	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewLoader[P, T any](fn func(ctx context.Context, params P) <-chan dto.Outcome[T]) *Loader[P, T] {
	return &Loader[P, T]{fn: fn, events: newFeed[LoaderEvent[T]]()}
}

// ResolveLoader builds a Loader that resolves one descriptor per params.
func ResolveLoader[P, T any](s *NetSvc, build func(params P) dto.RequestDescriptor, opts ...ResolveOption) *Loader[P, T] {
	return NewLoader(func(ctx context.Context, params P) <-chan dto.Outcome[T] {
		return Resolve[T](ctx, s, build(params), opts...)
	})
}

func (l *Loader[P, T]) Load(ctx context.Context, params P) {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	lctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	gen := l.gen.Add(1)
	l.wg.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.wg.Done()
		defer cancel()
		if !l.emit(gen, LoaderEvent[T]{Kind: LoaderStarted}) {
			return
		}
		for o := range l.fn(lctx, params) {
			ev := LoaderEvent[T]{Kind: LoaderValue, Value: o.Value}
			if !o.OK() {
				ev = LoaderEvent[T]{Kind: LoaderError, Err: o.Err}
			}
			if !l.emit(gen, ev) {
				return
			}
		}
		l.emit(gen, LoaderEvent[T]{Kind: LoaderStopped})
	}()
}

func (l *Loader[P, T]) emit(gen uint64, ev LoaderEvent[T]) bool {
	l.emitMu.Lock()
	defer l.emitMu.Unlock()
	if l.gen.Load() != gen {
		return false
	}
	l.events.publish(ev)
	return true
}

func (l *Loader[P, T]) Subscribe() (<-chan LoaderEvent[T], func()) {
	return l.events.subscribe()
}

// Close cancels the running load and closes every subscription.
func (l *Loader[P, T]) Close() {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen.Add(1)
	l.mu.Unlock()
	l.events.close()
	l.wg.Wait()
}
