package dto

import (
	"context"
)

type NetInterface interface {
	Hydrate(ctx context.Context) error
	State() *NetState
	RegisterClient(ref string, client NetClientInterface)
	RequestOnce(ctx context.Context, cfg *RequestConfig) (Response, error)
	RequestWithRetry(ctx context.Context, cfg *RequestConfig) (Response, error)
	ResolveResponse(ctx context.Context, desc *RequestDescriptor) <-chan ResponseEvent
	ReplayFailedRequests(ctx context.Context) (int, error)
}

// AuthProvider defines methods for non-OAuth authentication schemes.
// Returned TokenInfo may include cookies or access tokens.
type AuthProvider interface {
	Authenticate(ctx context.Context) (TokenInfo, error)
	Refresh(ctx context.Context, old TokenInfo) (TokenInfo, error)
}

// NetClientInterface is the transport collaborator. Implementations turn a
// RequestConfig into a status/headers/body triple or a transport failure and
// must honour ctx cancellation.
type NetClientInterface interface {
	Ref() string
	Type() NetClientType
	ProcessRequest(ctx context.Context, cfg *RequestConfig) (Response, error)
}

// CacheStore is the key-value collaborator behind the cache adapter.
// Get reports found=false on a miss; a miss is never an error.
type CacheStore interface {
	Get(ctx context.Context, key string) (data []byte, found bool, err error)
	Set(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	DeleteAll(ctx context.Context) error
}

// ReachabilityGate reports whether the network is usable and pushes status
// transitions to subscribers.
type ReachabilityGate interface {
	IsReachable() bool
	Subscribe() (<-chan ReachabilityStatus, func())
}

// SignalSink receives fire-and-forget broadcast signals. Implementations must
// not block the caller.
type SignalSink interface {
	SessionExpired(code int)
	ServiceClientError(code int)
	ReachabilityChanged(status ReachabilityStatus)
}
