package rxnet

import "sync"

const feedBuffer = 16

// feed fans values out to subscribers in publish order. Sends block until
// the subscriber receives, unsubscribes or the feed closes, so subscribers
// must keep draining.
type feed[V any] struct {
	mu       sync.Mutex
	subs     map[int]*feedSub[V]
	nextID   int
	done     chan struct{}
	doneOnce sync.Once
}

type feedSub[V any] struct {
	ch   chan V
	quit chan struct{}
}

func newFeed[V any]() *feed[V] {
	return &feed[V]{
		subs: make(map[int]*feedSub[V]),
		done: make(chan struct{}),
	}
}

func (f *feed[V]) subscribe() (<-chan V, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub := &feedSub[V]{ch: make(chan V, feedBuffer), quit: make(chan struct{})}
	select {
	case <-f.done:
		close(sub.ch)
		return sub.ch, func() {}
	default:
	}

	id := f.nextID
	f.nextID++
	f.subs[id] = sub

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			close(sub.quit)
			f.mu.Lock()
			defer f.mu.Unlock()
			if _, ok := f.subs[id]; ok {
				delete(f.subs, id)
				close(sub.ch)
			}
		})
	}
}

func (f *feed[V]) publish(v V) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sub := range f.subs {
		select {
		case sub.ch <- v:
		case <-sub.quit:
		case <-f.done:
			return
		}
	}
}

func (f *feed[V]) close() {
	f.doneOnce.Do(func() {
		close(f.done)
		f.mu.Lock()
		defer f.mu.Unlock()
		for id, sub := range f.subs {
			delete(f.subs, id)
			close(sub.ch)
		}
	})
}
