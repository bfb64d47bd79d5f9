package relays

import (
	"github.com/joy-dx/rxnet/dto"
	relayDTO "github.com/joy-dx/relay/dto"
)

// RelaySink broadcasts resolver signals as relay events.
type RelaySink struct {
	relay relayDTO.RelayInterface
}

func NewRelaySink(relay relayDTO.RelayInterface) *RelaySink {
	return &RelaySink{relay: relay}
}

func (s *RelaySink) SessionExpired(code int) {
	s.relay.Warn(RlySessionExpired{Code: code})
}

func (s *RelaySink) ServiceClientError(code int) {
	s.relay.Info(RlyServiceClientError{Code: code})
}

func (s *RelaySink) ReachabilityChanged(status dto.ReachabilityStatus) {
	s.relay.Info(RlyReachabilityChanged{Status: status})
}

// FuncSink adapts plain functions; nil fields are skipped.
type FuncSink struct {
	OnSessionExpired      func(code int)
	OnServiceClientError  func(code int)
	OnReachabilityChanged func(status dto.ReachabilityStatus)
}

func (s FuncSink) SessionExpired(code int) {
	if s.OnSessionExpired != nil {
		s.OnSessionExpired(code)
	}
}

func (s FuncSink) ServiceClientError(code int) {
	if s.OnServiceClientError != nil {
		s.OnServiceClientError(code)
	}
}

func (s FuncSink) ReachabilityChanged(status dto.ReachabilityStatus) {
	if s.OnReachabilityChanged != nil {
		s.OnReachabilityChanged(status)
	}
}

// MultiSink fans a signal out to every sink in order.
type MultiSink []dto.SignalSink

func (m MultiSink) SessionExpired(code int) {
	for _, s := range m {
		s.SessionExpired(code)
	}
}

func (m MultiSink) ServiceClientError(code int) {
	for _, s := range m {
		s.ServiceClientError(code)
	}
}

func (m MultiSink) ReachabilityChanged(status dto.ReachabilityStatus) {
	for _, s := range m {
		s.ReachabilityChanged(status)
	}
}
