// Package bridge is the hand-off point between the render loop and the
// network loop. The two loops never share a lock; every Slot field has a
// single designated writer and a single designated reader, and all of them
// are atomics, which gives the release/acquire ordering needed so a reader
// can never observe a half-written flicker code.
package bridge

import (
	"sync/atomic"

	"github.com/sweeney/halo-lamp/internal/flicker"
)

// Slot carries at most one outbound flicker code from the render loop to the
// network loop, and the latest inbound code the other way.
//
// Outbound pending state is the comparison of two independent toggle flags:
// "requested", flipped only by the render loop, and "fulfilled", flipped only
// by the network loop. Equal flags mean no send is owed; unequal means one
// unsent change is owed. Neither side ever clears the other's flag, so a
// submission racing a drain can not be silently lost. Overwriting the pending
// code is safe: only the latest local color matters, never the intermediate
// ones.
type Slot struct {
	requested atomic.Bool // render loop only
	fulfilled atomic.Bool // network loop only

	outbound atomic.Pointer[flicker.Code] // written by render loop before requested flips
	inbound  atomic.Pointer[flicker.Code] // written by network loop
}

// SubmitOutbound queues code for the next network round. Calling it again
// before the network loop drains replaces the pending code; exactly one send
// results, carrying the latest code.
func (s *Slot) SubmitOutbound(code flicker.Code) {
	s.outbound.Store(&code)
	if !s.HasPendingOutbound() {
		s.requested.Store(!s.requested.Load())
	}
}

// HasPendingOutbound reports whether a locally confirmed change has not yet
// been transmitted.
func (s *Slot) HasPendingOutbound() bool {
	return s.requested.Load() != s.fulfilled.Load()
}

// Outbound returns the pending code without consuming it. The network loop
// peeks before the round trip so a failed send leaves the pending state
// untouched for the next period.
func (s *Slot) Outbound() flicker.Code {
	if p := s.outbound.Load(); p != nil {
		return *p
	}
	return flicker.Code{}
}

// DrainOutbound marks the pending code as sent and returns it. Called by the
// network loop only after a successful round trip.
func (s *Slot) DrainOutbound() flicker.Code {
	code := s.Outbound()
	s.fulfilled.Store(!s.fulfilled.Load())
	return code
}

// SetInbound publishes the latest remote code for the render loop.
func (s *Slot) SetInbound(code flicker.Code) {
	s.inbound.Store(&code)
}

// Inbound returns the latest remote code known, possibly unchanged since the
// last poll, or the zero code if none has arrived yet.
func (s *Slot) Inbound() flicker.Code {
	if p := s.inbound.Load(); p != nil {
		return *p
	}
	return flicker.Code{}
}
