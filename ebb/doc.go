// Package ebb is a host-side client for the EiBotBoard (EBB) motion
// controller's ASCII command protocol over a serial line.
//
// The protocol is strictly half-duplex request/response: at most one round
// trip may be in flight per connection. A Client is NOT safe for concurrent
// use; callers must serialize access externally, letting each round trip run
// to completion (success, timeout, or decode failure) before issuing the
// next. A reentrant call fails fast with ErrBusy rather than corrupting the
// reply framing.
//
// Cancellation is deadline-only. A round trip ends by completing, by hitting
// its deadline, or by a decode failure; there is no external cancel signal.
package ebb
