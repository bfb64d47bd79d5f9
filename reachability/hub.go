package reachability

import (
	"sync"

	"github.com/joy-dx/rxnet/dto"
)

// hub fans status transitions out to subscribers.
type hub struct {
	mu        sync.Mutex
	listeners []chan dto.ReachabilityStatus
}

func (h *hub) subscribe() (<-chan dto.ReachabilityStatus, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan dto.ReachabilityStatus, 10)
	h.listeners = append(h.listeners, ch)

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			out := h.listeners[:0]
			found := false
			for _, c := range h.listeners {
				if c == ch {
					found = true
					continue
				}
				out = append(out, c)
			}
			h.listeners = out
			// closeAll may have closed it already
			if found {
				close(ch)
			}
		})
	}
	return ch, unsub
}

// publish sends under the lock so unsub and closeAll cannot close a channel
// mid-send. A full subscriber loses its oldest pending transition; the
// latest status always lands and order is preserved.
func (h *hub) publish(status dto.ReachabilityStatus) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.listeners {
		select {
		case ch <- status:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- status:
		default:
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.listeners {
		close(c)
	}
	h.listeners = nil
}
