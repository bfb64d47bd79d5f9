package reachability

import (
	"sync/atomic"

	"github.com/joy-dx/rxnet/dto"
)

// StaticGate is a gate whose status only changes through Set.
type StaticGate struct {
	reachable atomic.Bool
	hub       hub
}

func Static(reachable bool) *StaticGate {
	g := &StaticGate{}
	g.reachable.Store(reachable)
	return g
}

func (g *StaticGate) IsReachable() bool { return g.reachable.Load() }

// Set flips the gate and notifies subscribers on a change.
func (g *StaticGate) Set(reachable bool) {
	if g.reachable.Swap(reachable) == reachable {
		return
	}
	status := dto.ReachabilityNotReachable
	if reachable {
		status = dto.ReachabilityReachable
	}
	g.hub.publish(status)
}

func (g *StaticGate) Subscribe() (<-chan dto.ReachabilityStatus, func()) {
	return g.hub.subscribe()
}
