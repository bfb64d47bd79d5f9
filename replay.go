package rxnet

import (
	"context"
	"fmt"
	"strconv"

	"github.com/joy-dx/rxnet/dto"
	"github.com/joy-dx/rxnet/relays"
)

// ReplayFailedRequests re-issues every logged failed request. The log is
// cleared first; requests that fail again are appended anew under their
// original cache policy. It returns the number of requests replayed.
func (s *NetSvc) ReplayFailedRequests(ctx context.Context) (int, error) {
	pending, err := s.cache.FailedRequests(ctx)
	if err != nil {
		return 0, fmt.Errorf("read failed requests: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}
	if err := s.cache.ClearFailedRequests(ctx); err != nil {
		return 0, fmt.Errorf("clear failed requests: %w", err)
	}

	s.relay.Info(relays.RlyNetLog{Msg: "replaying " + strconv.Itoa(len(pending)) + " failed requests"})
	replayed := 0
	for i := range pending {
		if err := ctx.Err(); err != nil {
			s.requeue(ctx, pending[i:])
			return replayed, err
		}
		for range s.ResolveResponse(ctx, &pending[i]) {
		}
		// a cancelled resolution neither completes nor logs itself
		if err := ctx.Err(); err != nil {
			s.requeue(ctx, pending[i:])
			return replayed, err
		}
		replayed++
	}
	return replayed, nil
}

func (s *NetSvc) requeue(ctx context.Context, rest []dto.RequestDescriptor) {
	for _, d := range rest {
		if err := s.cache.AppendFailedRequest(context.WithoutCancel(ctx), d); err != nil {
			s.relay.Error(relays.RlyNetLog{Msg: "requeue failed request " + d.Name() + ": " + err.Error()})
		}
	}
}
