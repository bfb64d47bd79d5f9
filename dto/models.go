package dto

import (
	"net/http"
	"time"
)

type NetClientType string

const NET_DEFAULT_CLIENT_REF = "default"

// NetClient describes a registered transport.
type NetClient struct {
	Name        string        `json:"name" yaml:"name"`
	Ref         string        `json:"ref" yaml:"ref"`
	ClientType  NetClientType `json:"client_type" yaml:"client_type"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
}

// ResolveStatus is the stage a resolution has reached.
type ResolveStatus string

const (
	NOT_STARTED   ResolveStatus = "not_started"
	CACHE_CHECK   ResolveStatus = "cache_check"
	NETWORK_CHECK ResolveStatus = "network_check"
	IN_FLIGHT     ResolveStatus = "in_flight"
	COMPLETED     ResolveStatus = "completed"
)

// RequestNotification is the last known state of a request identity.
type RequestNotification struct {
	CacheKey string        `json:"cache_key" yaml:"cache_key"`
	TaskName string        `json:"task_name,omitempty" yaml:"task_name,omitempty"`
	Status   ResolveStatus `json:"status" yaml:"status"`
	// Outcome is set once Status is COMPLETED
	Outcome   OutcomeKind `json:"outcome,omitempty" yaml:"outcome,omitempty"`
	Message   string      `json:"message,omitempty" yaml:"message,omitempty"`
	UpdatedAt time.Time   `json:"updated_at" yaml:"updated_at"`
}

type NetState struct {
	ExtraHeaders     ExtraHeaders  `json:"net_extra_headers,omitempty" yaml:"net_extra_headers,omitempty"`
	RequestTimeout   time.Duration `json:"net_request_timeout,omitempty" yaml:"net_request_timeout,omitempty"`
	UserAgent        string        `json:"net_user_agent,omitempty" yaml:"net_user_agent,omitempty"`
	BlacklistDomains []string      `json:"net_blacklist_domains,omitempty" yaml:"net_blacklist_domains,omitempty"`
	WhitelistDomains []string      `json:"net_whitelist_domains,omitempty" yaml:"net_whitelist_domains,omitempty"`
	Reachable        bool          `json:"net_reachable" yaml:"net_reachable"`
	// Requests keyed by cache key
	Requests map[string]RequestNotification `json:"net_requests,omitempty" yaml:"net_requests,omitempty"`
}

type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// ResponseEvent is one emission of the raw resolution stage. Exactly one of
// Response (Err == nil) or Err is meaningful.
type ResponseEvent struct {
	Response  Response
	Err       error
	FromCache bool
}
