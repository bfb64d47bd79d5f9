package rxnet

import (
	"sync"

	"github.com/joy-dx/lockablemap"
	"github.com/joy-dx/rxnet/cache"
	"github.com/joy-dx/rxnet/config"
	"github.com/joy-dx/rxnet/dto"
	"github.com/joy-dx/rxnet/reachability"
	relayDTO "github.com/joy-dx/relay/dto"
)

var _ dto.NetInterface = (*NetSvc)(nil)

// NetSvc resolves request descriptors through registered transports, the
// response cache and the reachability gate.
type NetSvc struct {
	cfg          *config.NetSvcConfig
	relay        relayDTO.RelayInterface
	signals      dto.SignalSink
	muClients    sync.RWMutex
	clients      map[string]dto.NetClientInterface
	cache        *cache.Adapter
	gate         dto.ReachabilityGate
	customGate   bool
	monitor      *reachability.Monitor
	requestState lockablemap.LockableMap[string, dto.RequestNotification]
}

func (s *NetSvc) RegisterClient(ref string, client dto.NetClientInterface) {
	s.muClients.Lock()
	defer s.muClients.Unlock()
	s.clients[ref] = client
}

func (s *NetSvc) client(ref string) (dto.NetClientInterface, bool) {
	s.muClients.RLock()
	defer s.muClients.RUnlock()
	c, ok := s.clients[ref]
	return c, ok
}

// Cache exposes the response cache and failed-request log.
func (s *NetSvc) Cache() *cache.Adapter {
	return s.cache
}

// Gate is the reachability gate consulted before every dispatch.
func (s *NetSvc) Gate() dto.ReachabilityGate {
	return s.gate
}

func (s *NetSvc) Config() *config.NetSvcConfig {
	return s.cfg
}

// Close stops the reachability monitor started by Hydrate.
func (s *NetSvc) Close() {
	if s.monitor != nil {
		s.monitor.Stop()
	}
}
