package config

import (
	"time"

	"github.com/joy-dx/rxnet/dto"
	"github.com/joy-dx/rxnet/relays"
	relayDTO "github.com/joy-dx/relay/dto"
)

// EnvelopeConfig names the envelope fields and the code ranges that carry
// meaning. Keys accept dotted paths into nested objects.
type EnvelopeConfig struct {
	CodeKey     string `json:"code_key" yaml:"code_key"`
	MessageKey  string `json:"message_key" yaml:"message_key"`
	DataKey     string `json:"data_key" yaml:"data_key"`
	SuccessCode int    `json:"success_code" yaml:"success_code"`
	// SessionExpiredCode triggers the session-expired signal
	SessionExpiredCode int `json:"session_expired_code" yaml:"session_expired_code"`
	// ClientErrorMin and ClientErrorMax bound the generic client error signal, inclusive
	ClientErrorMin int `json:"client_error_min" yaml:"client_error_min"`
	ClientErrorMax int `json:"client_error_max" yaml:"client_error_max"`
}

func DefaultEnvelopeConfig() EnvelopeConfig {
	return EnvelopeConfig{
		CodeKey:            "code",
		MessageKey:         "msg",
		DataKey:            "data",
		SuccessCode:        200,
		SessionExpiredCode: 401,
		ClientErrorMin:     402,
		ClientErrorMax:     499,
	}
}

type NetSvcConfig struct {
	Envelope         EnvelopeConfig   `json:"envelope" yaml:"envelope"`
	ExtraHeaders     dto.ExtraHeaders `json:"extra_headers,omitempty" yaml:"extra_headers,omitempty"`
	RequestTimeout   time.Duration    `json:"request_timeout" yaml:"request_timeout"`
	UserAgent        string           `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	BlacklistDomains []string         `json:"blacklist_domains,omitempty" yaml:"blacklist_domains,omitempty"`
	WhitelistDomains []string         `json:"whitelist_domains,omitempty" yaml:"whitelist_domains,omitempty"`
	// DefaultReachable is reported until the reachability probe has produced a result
	DefaultReachable bool          `json:"default_reachable" yaml:"default_reachable"`
	ProbeURL         string        `json:"probe_url,omitempty" yaml:"probe_url,omitempty"`
	ProbeInterval    time.Duration `json:"probe_interval" yaml:"probe_interval"`
	// CachePrefix namespaces keys in shared cache stores
	CachePrefix string `json:"cache_prefix" yaml:"cache_prefix"`

	relay   relayDTO.RelayInterface
	signals dto.SignalSink
}

func DefaultNetSvcConfig() NetSvcConfig {
	return NetSvcConfig{
		Envelope:         DefaultEnvelopeConfig(),
		ExtraHeaders:     dto.ExtraHeaders{},
		RequestTimeout:   30 * time.Second,
		UserAgent:        "rxnet/1",
		DefaultReachable: true,
		ProbeInterval:    10 * time.Second,
		CachePrefix:      "rxnet:",
	}
}

// Relay returns the configured relay, falling back to a slog relay.
func (c *NetSvcConfig) Relay() relayDTO.RelayInterface {
	if c.relay == nil {
		c.relay = relays.NewSlogRelay(nil)
	}
	return c.relay
}

// Signals returns the configured signal sink, falling back to relay broadcast.
func (c *NetSvcConfig) Signals() dto.SignalSink {
	if c.signals == nil {
		c.signals = relays.NewRelaySink(c.Relay())
	}
	return c.signals
}

func (c *NetSvcConfig) WithRelay(relay relayDTO.RelayInterface) *NetSvcConfig {
	c.relay = relay
	return c
}

func (c *NetSvcConfig) WithSignals(sink dto.SignalSink) *NetSvcConfig {
	c.signals = sink
	return c
}

func (c *NetSvcConfig) WithEnvelope(env EnvelopeConfig) *NetSvcConfig {
	c.Envelope = env
	return c
}

func (c *NetSvcConfig) WithRequestTimeout(d time.Duration) *NetSvcConfig {
	c.RequestTimeout = d
	return c
}

func (c *NetSvcConfig) WithUserAgent(ua string) *NetSvcConfig {
	c.UserAgent = ua
	return c
}

func (c *NetSvcConfig) WithExtraHeaders(headers dto.ExtraHeaders) *NetSvcConfig {
	c.ExtraHeaders = headers
	return c
}

func (c *NetSvcConfig) WithBlacklistDomains(domains ...string) *NetSvcConfig {
	c.BlacklistDomains = domains
	return c
}

func (c *NetSvcConfig) WithWhitelistDomains(domains ...string) *NetSvcConfig {
	c.WhitelistDomains = domains
	return c
}

func (c *NetSvcConfig) WithDefaultReachable(reachable bool) *NetSvcConfig {
	c.DefaultReachable = reachable
	return c
}

func (c *NetSvcConfig) WithProbe(url string, interval time.Duration) *NetSvcConfig {
	c.ProbeURL = url
	c.ProbeInterval = interval
	return c
}
