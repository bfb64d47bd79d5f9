// Package cache persists successful response bodies and the failed-request
// log on top of any dto.CacheStore.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/joy-dx/rxnet/dto"
	"github.com/joy-dx/rxnet/relays"
	relayDTO "github.com/joy-dx/relay/dto"
)

// FailedRequestsKey holds the JSON array of serialized descriptors.
const FailedRequestsKey = "rxnet.cache.failed_requests"

// Lookup is the result of an asynchronous read.
type Lookup struct {
	Response dto.Response
	Found    bool
}

// Adapter is pure storage: it never touches the network.
type Adapter struct {
	store dto.CacheStore
	relay relayDTO.RelayInterface
}

func NewAdapter(store dto.CacheStore, relay relayDTO.RelayInterface) *Adapter {
	return &Adapter{store: store, relay: relay}
}

// Store exposes the backing store.
func (a *Adapter) Store() dto.CacheStore {
	return a.store
}

// Read returns the cached body for key as a 200 response. Store failures
// are logged and reported as a miss.
func (a *Adapter) Read(ctx context.Context, key string) (dto.Response, bool) {
	data, found, err := a.store.Get(ctx, key)
	if err != nil {
		a.report("read", key, err)
		return dto.Response{}, false
	}
	if !found {
		return dto.Response{}, false
	}
	return dto.Response{StatusCode: http.StatusOK, Headers: http.Header{}, Body: data}, true
}

// ReadAsync performs Read on its own goroutine. The channel yields exactly
// one Lookup and is then closed.
func (a *Adapter) ReadAsync(ctx context.Context, key string) <-chan Lookup {
	out := make(chan Lookup, 1)
	go func() {
		defer close(out)
		resp, found := a.Read(ctx, key)
		out <- Lookup{Response: resp, Found: found}
	}()
	return out
}

// Write overwrites the entry for key with the response body.
func (a *Adapter) Write(ctx context.Context, key string, resp dto.Response) error {
	if err := a.store.Set(ctx, key, resp.Body); err != nil {
		a.report("write", key, err)
		return fmt.Errorf("cache write %s: %w", key, err)
	}
	return nil
}

// WriteAsync is fire-and-forget; it survives cancellation of ctx.
func (a *Adapter) WriteAsync(ctx context.Context, key string, resp dto.Response) {
	ctx = context.WithoutCancel(ctx)
	go func() { _ = a.Write(ctx, key, resp) }()
}

func (a *Adapter) Remove(ctx context.Context, key string) error {
	if err := a.store.Delete(ctx, key); err != nil {
		a.report("remove", key, err)
		return fmt.Errorf("cache remove %s: %w", key, err)
	}
	return nil
}

func (a *Adapter) RemoveAll(ctx context.Context) error {
	if err := a.store.DeleteAll(ctx); err != nil {
		a.report("remove_all", "", err)
		return fmt.Errorf("cache remove all: %w", err)
	}
	return nil
}

// FailedRequests decodes the failed-request log. Entries that no longer
// parse are skipped.
func (a *Adapter) FailedRequests(ctx context.Context) ([]dto.RequestDescriptor, error) {
	raw, err := a.readLog(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RequestDescriptor, 0, len(raw))
	for _, entry := range raw {
		desc, err := dto.ParseRequestDescriptor(entry)
		if err != nil {
			a.report("parse_failed_request", FailedRequestsKey, err)
			continue
		}
		out = append(out, desc)
	}
	return out, nil
}

// AppendFailedRequest reads the whole log, appends desc and writes it back.
// There is no locking: concurrent appends race and the last write wins.
func (a *Adapter) AppendFailedRequest(ctx context.Context, desc dto.RequestDescriptor) error {
	entry, err := desc.Serialize()
	if err != nil {
		return err
	}
	raw, err := a.readLog(ctx)
	if err != nil {
		return err
	}
	raw = append(raw, entry)
	return a.writeLog(ctx, raw)
}

// AppendFailedRequestAsync is fire-and-forget; it survives cancellation of ctx.
func (a *Adapter) AppendFailedRequestAsync(ctx context.Context, desc dto.RequestDescriptor) {
	ctx = context.WithoutCancel(ctx)
	go func() { _ = a.AppendFailedRequest(ctx, desc) }()
}

func (a *Adapter) ClearFailedRequests(ctx context.Context) error {
	return a.Remove(ctx, FailedRequestsKey)
}

func (a *Adapter) readLog(ctx context.Context) ([]string, error) {
	data, found, err := a.store.Get(ctx, FailedRequestsKey)
	if err != nil {
		a.report("read", FailedRequestsKey, err)
		return nil, fmt.Errorf("read failed requests: %w", err)
	}
	if !found || len(data) == 0 {
		return nil, nil
	}
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		// a corrupt log is replaced rather than blocking every append
		a.report("decode", FailedRequestsKey, err)
		return nil, nil
	}
	return raw, nil
}

func (a *Adapter) writeLog(ctx context.Context, raw []string) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode failed requests: %w", err)
	}
	if err := a.store.Set(ctx, FailedRequestsKey, data); err != nil {
		a.report("write", FailedRequestsKey, err)
		return fmt.Errorf("write failed requests: %w", err)
	}
	return nil
}

func (a *Adapter) report(op, key string, err error) {
	if a.relay == nil {
		return
	}
	a.relay.Error(relays.RlyNetCache{Op: op, Key: key, Err: err, Msg: "cache " + op + " failed"})
}
