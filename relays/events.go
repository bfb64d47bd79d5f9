package relays

import (
	"log/slog"

	"github.com/joy-dx/rxnet/dto"
	relayDTO "github.com/joy-dx/relay/dto"
)

const (
	NetChannel relayDTO.EventChannel = "rxnet"

	RlyNetLogRef         relayDTO.EventRef = "rxnet.log"
	RlyNetRequestRef     relayDTO.EventRef = "rxnet.request"
	RlyNetCacheRef       relayDTO.EventRef = "rxnet.cache"
	RlyNetPageRef        relayDTO.EventRef = "rxnet.page"
	RlySessionExpiredRef relayDTO.EventRef = "rxnet.signal.session_expired"
	RlyClientErrorRef    relayDTO.EventRef = "rxnet.signal.client_error"
	RlyReachabilityRef   relayDTO.EventRef = "rxnet.signal.reachability"
)

// RlyNetLog is a free-form service message.
type RlyNetLog struct {
	Msg string
}

func (e RlyNetLog) RelayChannel() relayDTO.EventChannel { return NetChannel }
func (e RlyNetLog) RelayType() relayDTO.EventRef        { return RlyNetLogRef }
func (e RlyNetLog) Message() string                     { return e.Msg }
func (e RlyNetLog) ToSlog() []slog.Attr                 { return nil }

// RlyNetRequest tracks a resolution moving through its stages.
type RlyNetRequest struct {
	Task     string
	CacheKey string
	Status   dto.ResolveStatus
	Outcome  dto.OutcomeKind
	Msg      string
}

func (e RlyNetRequest) RelayChannel() relayDTO.EventChannel { return NetChannel }
func (e RlyNetRequest) RelayType() relayDTO.EventRef        { return RlyNetRequestRef }
func (e RlyNetRequest) Message() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Task + ": " + string(e.Status)
}
func (e RlyNetRequest) ToSlog() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("task", e.Task),
		slog.String("cache_key", e.CacheKey),
		slog.String("status", string(e.Status)),
	}
	if e.Outcome != "" {
		attrs = append(attrs, slog.String("outcome", string(e.Outcome)))
	}
	return attrs
}

// RlyNetCache reports cache store activity, mostly failures.
type RlyNetCache struct {
	Op  string
	Key string
	Err error
	Msg string
}

func (e RlyNetCache) RelayChannel() relayDTO.EventChannel { return NetChannel }
func (e RlyNetCache) RelayType() relayDTO.EventRef        { return RlyNetCacheRef }
func (e RlyNetCache) Message() string                     { return e.Msg }
func (e RlyNetCache) ToSlog() []slog.Attr {
	attrs := []slog.Attr{slog.String("op", e.Op), slog.String("key", e.Key)}
	if e.Err != nil {
		attrs = append(attrs, slog.String("error", e.Err.Error()))
	}
	return attrs
}

// RlyNetPage reports pagination transitions.
type RlyNetPage struct {
	Feed      string
	Page      int
	Total     int
	Items     int
	LoadState dto.PageLoadState
	Msg       string
}

func (e RlyNetPage) RelayChannel() relayDTO.EventChannel { return NetChannel }
func (e RlyNetPage) RelayType() relayDTO.EventRef        { return RlyNetPageRef }
func (e RlyNetPage) Message() string                     { return e.Msg }
func (e RlyNetPage) ToSlog() []slog.Attr {
	return []slog.Attr{
		slog.String("feed", e.Feed),
		slog.Int("page", e.Page),
		slog.Int("total", e.Total),
		slog.Int("items", e.Items),
		slog.String("load_state", string(e.LoadState)),
	}
}

// RlySessionExpired is broadcast whenever an envelope carries code 401.
type RlySessionExpired struct {
	Code int
}

func (e RlySessionExpired) RelayChannel() relayDTO.EventChannel { return NetChannel }
func (e RlySessionExpired) RelayType() relayDTO.EventRef        { return RlySessionExpiredRef }
func (e RlySessionExpired) Message() string                     { return "session expired" }
func (e RlySessionExpired) ToSlog() []slog.Attr                 { return []slog.Attr{slog.Int("code", e.Code)} }

// RlyServiceClientError is broadcast for envelope codes in the client error range.
type RlyServiceClientError struct {
	Code int
}

func (e RlyServiceClientError) RelayChannel() relayDTO.EventChannel { return NetChannel }
func (e RlyServiceClientError) RelayType() relayDTO.EventRef        { return RlyClientErrorRef }
func (e RlyServiceClientError) Message() string                     { return "service client error" }
func (e RlyServiceClientError) ToSlog() []slog.Attr                 { return []slog.Attr{slog.Int("code", e.Code)} }

// RlyReachabilityChanged is broadcast on every reachability transition.
type RlyReachabilityChanged struct {
	Status dto.ReachabilityStatus
}

func (e RlyReachabilityChanged) RelayChannel() relayDTO.EventChannel { return NetChannel }
func (e RlyReachabilityChanged) RelayType() relayDTO.EventRef        { return RlyReachabilityRef }
func (e RlyReachabilityChanged) Message() string                     { return "reachability changed" }
func (e RlyReachabilityChanged) ToSlog() []slog.Attr {
	return []slog.Attr{slog.String("status", string(e.Status))}
}
