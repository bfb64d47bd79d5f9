package rxnet

import (
	"context"
	"errors"
	"fmt"

	"github.com/joy-dx/rxnet/client/httpclient"
	"github.com/joy-dx/rxnet/dto"
	"github.com/joy-dx/rxnet/reachability"
	"github.com/joy-dx/rxnet/relays"
)

func (s *NetSvc) State() *dto.NetState {
	return &dto.NetState{
		ExtraHeaders:     s.cfg.ExtraHeaders,
		RequestTimeout:   s.cfg.RequestTimeout,
		UserAgent:        s.cfg.UserAgent,
		BlacklistDomains: s.cfg.BlacklistDomains,
		WhitelistDomains: s.cfg.WhitelistDomains,
		Reachable:        s.gate.IsReachable(),
		Requests:         s.requestState.GetAll(),
	}
}

// Hydrate validates the config, registers the default HTTP client and,
// when a probe URL is configured, starts the reachability monitor.
func (s *NetSvc) Hydrate(ctx context.Context) error {
	if s.cfg == nil {
		return errors.New("no net config")
	}
	if s.relay == nil {
		return errors.New("no relay implementation")
	}
	if err := s.cfg.Validate(); err != nil {
		return fmt.Errorf("hydrate: %w", err)
	}

	if _, exists := s.client(dto.NET_DEFAULT_CLIENT_REF); !exists {
		defaultClientCfg := httpclient.DefaultHTTPClientConfig()
		defaultClientCfg.WithMiddleware(httpclient.LoggingMiddleware(s.relay))
		defaultClient := httpclient.NewHTTPClient(dto.NET_DEFAULT_CLIENT_REF, s.cfg, &defaultClientCfg)
		s.RegisterClient(dto.NET_DEFAULT_CLIENT_REF, defaultClient)
		// an expired session must log in again on the next request
		s.signals = relays.MultiSink{s.signals, relays.FuncSink{
			OnSessionExpired: func(int) { defaultClient.InvalidateSession() },
		}}
	}

	if !s.customGate && s.cfg.ProbeURL != "" && s.monitor == nil {
		s.monitor = reachability.NewMonitor(s.cfg, nil)
		s.gate = s.monitor
		s.monitor.Start(ctx)
		s.relay.Info(relays.RlyNetLog{Msg: "reachability monitor started for " + s.cfg.ProbeURL})
	}

	return nil
}
