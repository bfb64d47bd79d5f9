package rxnet

import (
	"context"
	"reflect"
	"slices"
	"sync"

	"github.com/joy-dx/rxnet/dto"
	"github.com/joy-dx/rxnet/relays"
	relayDTO "github.com/joy-dx/relay/dto"
)

// PageFetch loads one page for params. The channel may carry a cached
// outcome followed by a network outcome, as Resolve does.
type PageFetch[P, E any] func(ctx context.Context, params P, page int) <-chan dto.Outcome[dto.Page[E]]

// PageFetcher adapts Resolve to a PageFetch, building one descriptor per page.
func PageFetcher[P, E any](s *NetSvc, build func(params P, page int) dto.RequestDescriptor, opts ...ResolveOption) PageFetch[P, E] {
	return func(ctx context.Context, params P, page int) <-chan dto.Outcome[dto.Page[E]] {
		return Resolve[dto.Page[E]](ctx, s, build(params, page), opts...)
	}
}

type PageEventKind string

const (
	PageValues    PageEventKind = "values"
	PageLoadState PageEventKind = "load_state"
	PageTotal     PageEventKind = "total"
	PageHasMore   PageEventKind = "has_more"
	PageError     PageEventKind = "error"
)

// PageEvent is one notification of a Pager. Only the fields matching Kind
// are set; Values events carry every transformed item loaded so far.
type PageEvent[R any] struct {
	Kind      PageEventKind
	Page      int
	Items     []R
	LoadState dto.PageLoadState
	Total     int
	HasMore   bool
	Err       error
}

type PagerOption func(*pagerOptions)

type pagerOptions struct {
	name  string
	relay relayDTO.RelayInterface
}

// WithPagerName labels relay events of the feed.
func WithPagerName(name string) PagerOption {
	return func(o *pagerOptions) { o.name = name }
}

func WithPagerRelay(relay relayDTO.RelayInterface) PagerOption {
	return func(o *pagerOptions) { o.relay = relay }
}

type pageCommand[P any] struct {
	refresh bool
	params  P
}

type pageResult[E any] struct {
	gen     uint64
	page    int
	outcome dto.Outcome[dto.Page[E]]
	done    bool
}

type pageJob[E, R any] struct {
	event PageEvent[R]
	batch []E
}

// Pager drives a paginated feed from refresh and load-more triggers. One
// loop goroutine owns the PageState; item transformation happens on a
// separate worker in fetch completion order.
type Pager[P, E, R any] struct {
	fetch     PageFetch[P, E]
	transform func([]E) []R
	opts      pagerOptions

	commands chan pageCommand[P]
	results  chan pageResult[E]
	jobs     chan pageJob[E, R]
	events   *feed[PageEvent[R]]

	mu    sync.RWMutex
	state dto.PageState[E]
	view  []R

	startOnce sync.Once
	closeOnce sync.Once
	done      chan struct{}
	stopped   chan struct{}

	// loop-owned
	params      P
	gen         uint64
	base        []E
	cancelFetch context.CancelFunc
	lastGen     uint64
	lastPage    int
	lastBatch   []E
	hasLast     bool
}

func NewPager[P, E, R any](fetch PageFetch[P, E], transform func([]E) []R, opts ...PagerOption) *Pager[P, E, R] {
	o := pagerOptions{name: "feed"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.relay == nil {
		o.relay = relays.NewSlogRelay(nil)
	}
	return &Pager[P, E, R]{
		fetch:     fetch,
		transform: transform,
		opts:      o,
		commands:  make(chan pageCommand[P], 16),
		results:   make(chan pageResult[E]),
		jobs:      make(chan pageJob[E, R], 64),
		events:    newFeed[PageEvent[R]](),
		state:     dto.PageState[E]{Page: 1, Items: []E{}, LoadState: dto.LoadIdle},
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
}

// NewSimplePager builds a Pager that publishes fetched items unchanged.
func NewSimplePager[P, E any](fetch PageFetch[P, E], opts ...PagerOption) *Pager[P, E, E] {
	return NewPager(fetch, func(items []E) []E { return items }, opts...)
}

// Start runs the pager until ctx is done or Close is called.
func (p *Pager[P, E, R]) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		workerDone := make(chan struct{})
		go func() {
			defer close(workerDone)
			p.work()
		}()
		go func() {
			p.loop(ctx)
			<-workerDone
			p.events.close()
			close(p.stopped)
		}()
	})
}

// Refresh reloads page 1 for params, superseding any fetch in flight.
func (p *Pager[P, E, R]) Refresh(params P) {
	p.send(pageCommand[P]{refresh: true, params: params})
}

// LoadMore fetches the next page. It is ignored unless the feed is idle and
// has more items.
func (p *Pager[P, E, R]) LoadMore() {
	p.send(pageCommand[P]{})
}

// send drops cmd once the pager is closed or its Start context is done.
func (p *Pager[P, E, R]) send(cmd pageCommand[P]) {
	select {
	case p.commands <- cmd:
	case <-p.done:
	case <-p.stopped:
	}
}

func (p *Pager[P, E, R]) Subscribe() (<-chan PageEvent[R], func()) {
	return p.events.subscribe()
}

// Snapshot returns a copy of the raw pagination state.
func (p *Pager[P, E, R]) Snapshot() dto.PageState[E] {
	p.mu.RLock()
	defer p.mu.RUnlock()
	st := p.state
	st.Items = slices.Clone(p.state.Items)
	return st
}

// Items returns the transformed items published so far.
func (p *Pager[P, E, R]) Items() []R {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.view)
}

// Close stops the pager and closes every subscription.
func (p *Pager[P, E, R]) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.events.close()
	})
	p.startOnce.Do(func() { close(p.stopped) })
	<-p.stopped
}

func (p *Pager[P, E, R]) loop(ctx context.Context) {
	defer close(p.jobs)
	defer func() {
		if p.cancelFetch != nil {
			p.cancelFetch()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.done:
			return
		case cmd := <-p.commands:
			if cmd.refresh {
				p.startRefresh(ctx, cmd.params)
			} else {
				p.startLoadMore(ctx)
			}
		case res := <-p.results:
			if res.gen != p.gen {
				continue
			}
			if res.done {
				p.finishFetch()
				continue
			}
			p.apply(res)
		}
	}
}

func (p *Pager[P, E, R]) startRefresh(ctx context.Context, params P) {
	if p.cancelFetch != nil {
		p.cancelFetch()
	}
	p.params = params
	p.setLoadState(dto.LoadRefreshing)
	p.dispatch(ctx, 1, nil)
}

func (p *Pager[P, E, R]) startLoadMore(ctx context.Context) {
	p.mu.RLock()
	idle, hasMore := p.state.LoadState == dto.LoadIdle, p.state.HasMore
	next, items, ls := p.state.Page+1, p.state.Items, p.state.LoadState
	p.mu.RUnlock()
	if !idle || !hasMore {
		p.opts.relay.Debug(relays.RlyNetPage{Feed: p.opts.name, Page: next - 1, LoadState: ls, Msg: p.opts.name + ": load more ignored"})
		return
	}
	p.setLoadState(dto.LoadLoadingMore)
	p.dispatch(ctx, next, items)
}

// dispatch starts the single in-flight fetch for a new generation.
func (p *Pager[P, E, R]) dispatch(ctx context.Context, page int, base []E) {
	p.gen++
	p.base = base
	fctx, cancel := context.WithCancel(ctx)
	p.cancelFetch = cancel

	gen, params := p.gen, p.params
	deliver := func(res pageResult[E]) bool {
		select {
		case p.results <- res:
			return true
		case <-fctx.Done():
			return false
		case <-p.done:
			return false
		}
	}
	go func() {
		for outcome := range p.fetch(fctx, params, page) {
			if !deliver(pageResult[E]{gen: gen, page: page, outcome: outcome}) {
				return
			}
		}
		deliver(pageResult[E]{gen: gen, page: page, done: true})
	}()
}

func (p *Pager[P, E, R]) apply(res pageResult[E]) {
	if !res.outcome.OK() {
		p.opts.relay.Warn(relays.RlyNetPage{Feed: p.opts.name, Page: res.page, Msg: p.opts.name + ": page fetch failed: " + res.outcome.Err.Error()})
		p.jobs <- pageJob[E, R]{event: PageEvent[R]{Kind: PageError, Page: res.page, Err: res.outcome.Err}}
		return
	}
	p.merge(res.page, res.outcome.Value)
}

// merge rebuilds the items from the fetch base, so a cached emission
// followed by a network one replaces rather than appends twice.
func (p *Pager[P, E, R]) merge(page int, list dto.PageList[E]) {
	batch := list.PageItems()
	items := make([]E, 0, len(p.base)+len(batch))
	items = append(append(items, p.base...), batch...)

	p.mu.Lock()
	p.state.Items = items
	p.state.Page = page
	p.state.Total = list.PageTotal()
	p.state.HasMore = p.state.Total > len(items)
	total, hasMore := p.state.Total, p.state.HasMore
	p.mu.Unlock()

	p.jobs <- pageJob[E, R]{event: PageEvent[R]{Kind: PageTotal, Page: page, Total: total}}
	p.jobs <- pageJob[E, R]{event: PageEvent[R]{Kind: PageHasMore, Page: page, HasMore: hasMore}}

	if p.hasLast && p.lastGen == p.gen && p.lastPage == page && reflect.DeepEqual(p.lastBatch, batch) {
		p.opts.relay.Debug(relays.RlyNetPage{Feed: p.opts.name, Page: page, Total: total, Items: len(items), Msg: p.opts.name + ": duplicate page suppressed"})
		return
	}
	p.lastGen, p.lastPage, p.lastBatch, p.hasLast = p.gen, page, batch, true
	p.jobs <- pageJob[E, R]{event: PageEvent[R]{Kind: PageValues, Page: page}, batch: batch}
}

func (p *Pager[P, E, R]) finishFetch() {
	if p.cancelFetch != nil {
		p.cancelFetch()
		p.cancelFetch = nil
	}
	p.setLoadState(dto.LoadIdle)
}

func (p *Pager[P, E, R]) setLoadState(ls dto.PageLoadState) {
	p.mu.Lock()
	p.state.LoadState = ls
	page, total, items := p.state.Page, p.state.Total, len(p.state.Items)
	p.mu.Unlock()

	p.opts.relay.Debug(relays.RlyNetPage{Feed: p.opts.name, Page: page, Total: total, Items: items, LoadState: ls, Msg: p.opts.name + ": " + string(ls)})
	p.jobs <- pageJob[E, R]{event: PageEvent[R]{Kind: PageLoadState, Page: page, LoadState: ls}}
}

// work transforms batches and publishes every event in loop order. The
// view keeps one transformed batch per page; loading page n drops any
// later pages.
func (p *Pager[P, E, R]) work() {
	var batches [][]R
	for job := range p.jobs {
		ev := job.event
		if ev.Kind == PageValues {
			transformed := p.transform(job.batch)
			if ev.Page < 1 {
				ev.Page = 1
			}
			if len(batches) >= ev.Page {
				batches = batches[:ev.Page-1]
			}
			for len(batches) < ev.Page-1 {
				batches = append(batches, nil)
			}
			batches = append(batches, transformed)

			view := make([]R, 0)
			for _, b := range batches {
				view = append(view, b...)
			}
			p.mu.Lock()
			p.view = view
			p.mu.Unlock()
			ev.Items = slices.Clone(view)
		}
		p.events.publish(ev)
	}
}
