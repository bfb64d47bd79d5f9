package rxnet

import (
	"sync"

	"github.com/joy-dx/lockablemap"
	"github.com/joy-dx/rxnet/cache"
	"github.com/joy-dx/rxnet/cache/memstore"
	"github.com/joy-dx/rxnet/cache/redisstore"
	"github.com/joy-dx/rxnet/config"
	"github.com/joy-dx/rxnet/dto"
	"github.com/joy-dx/rxnet/reachability"
	"github.com/joy-dx/rxnet/relays"
	"github.com/redis/go-redis/v9"
)

var (
	service     *NetSvc
	serviceOnce sync.Once
)

// Option customises a NetSvc at construction.
type Option func(*NetSvc)

// WithCacheStore backs the response cache with store instead of memory.
func WithCacheStore(store dto.CacheStore) Option {
	return func(s *NetSvc) {
		s.cache = cache.NewAdapter(store, s.relay)
	}
}

// WithRedisCache keeps responses in redis, namespaced by cfg.CachePrefix.
func WithRedisCache(rdb *redis.Client) Option {
	return func(s *NetSvc) {
		s.cache = cache.NewAdapter(redisstore.New(rdb, s.cfg.CachePrefix), s.relay)
	}
}

// WithLayeredCache fronts back with an in-memory store.
func WithLayeredCache(back dto.CacheStore) Option {
	return func(s *NetSvc) {
		s.cache = cache.NewAdapter(cache.NewLayered(memstore.New(), back), s.relay)
	}
}

// WithGate replaces the reachability gate; Hydrate then starts no monitor.
func WithGate(gate dto.ReachabilityGate) Option {
	return func(s *NetSvc) {
		s.gate = gate
		s.customGate = true
	}
}

// ProvideNetSvc returns the process-wide service, building it on first use.
func ProvideNetSvc(cfg *config.NetSvcConfig, opts ...Option) *NetSvc {
	serviceOnce.Do(func() {
		service = NewNetSvc(cfg, opts...)
	})
	return service
}

// NewNetSvc builds an independent service. Until Hydrate runs, the gate is
// static at cfg.DefaultReachable and the cache lives in memory.
func NewNetSvc(cfg *config.NetSvcConfig, opts ...Option) *NetSvc {
	s := &NetSvc{
		cfg:          cfg,
		relay:        cfg.Relay(),
		signals:      cfg.Signals(),
		clients:      make(map[string]dto.NetClientInterface),
		requestState: *lockablemap.NewLockableMap[string, dto.RequestNotification](),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = cache.NewAdapter(memstore.New(), s.relay)
	}
	if s.gate == nil {
		s.gate = reachability.Static(cfg.DefaultReachable)
	}
	s.relay.Debug(relays.RlyNetLog{Msg: "Net service started"})
	return s
}
