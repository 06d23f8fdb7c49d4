/*
 * MIT License
 *
 * Copyright (c) 2026 Nabbar
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package engine implements the two asynchronous I/O drivers socket
// state machines run on: a Reactor, which notifies readiness and
// leaves the caller to perform the syscall, and a Proactor, which
// performs the syscall itself and notifies completion. Both satisfy
// the same Engine interface so socket/* never branches on which
// driver it was built against.
package engine

import (
	"time"

	"github.com/nabbar/ntc/rawsocket"
	"github.com/nabbar/ntc/strand"
	"github.com/nabbar/ntc/timer"
	"github.com/nabbar/ntc/transport"
)

// Interest selects which readiness conditions a Reactor registration
// watches.
type Interest uint8

const (
	InterestReadable Interest = 1 << iota
	InterestWritable
)

// Trigger selects edge- or level-triggered delivery for a Reactor
// registration.
type Trigger uint8

const (
	TriggerLevel Trigger = iota
	TriggerEdge
)

// DetachState tracks a registration's lifecycle as it is torn down,
// mirroring the three-state detach machine original_source's reactor
// groups document: a registration may be mid-dispatch when Deregister
// is called, so detachment itself is asynchronous.
type DetachState uint8

const (
	DetachNone DetachState = iota
	DetachPending
	DetachDetached
)

// ReadinessFunc is invoked by a Reactor when a registered descriptor
// becomes ready per its Interest/Trigger. readable/writable report
// which conditions fired.
type ReadinessFunc func(readable, writable bool)

// RegisterOptions configures one Reactor registration.
type RegisterOptions struct {
	Interest   Interest
	Trigger    Trigger
	OneShot    bool // auto-detach after first dispatch, re-Register to resume
	AutoDetach bool // detach automatically when the socket closes
}

// CompletionFunc is invoked by a Proactor when a submitted operation
// completes (successfully or not).
type CompletionFunc func(n int, err error)

// Engine is the asynchronous I/O driver consumed by socket/*. Reactor
// and Proactor both implement it; socket state machines are written
// against this interface only, never against a concrete driver.
type Engine interface {
	// Register arms readiness notification for sock per opts, invoking
	// fn from the engine's own goroutine pool whenever it fires. It
	// returns a Registration used to Deregister or check DetachState.
	Register(sock rawsocket.Socket, opts RegisterOptions, fn ReadinessFunc) (*Registration, error)

	// Deregister begins detaching reg. A Reactor marks it DetachPending
	// and its watch loop completes the detachment asynchronously; a
	// Proactor marks it DetachDetached synchronously.
	Deregister(reg *Registration) error

	// SubmitAccept/SubmitConnect/SubmitSend/SubmitReceive are the Proactor's completion-based operations; a Reactor
	// implements them by arming readiness, then performing the syscall
	// itself and synthesizing the completion (the ntcr emulation path).
	SubmitAccept(ln rawsocket.Listener, deadline time.Time, cb func(rawsocket.Socket, error))
	SubmitConnect(sock rawsocket.Socket, ep transport.Endpoint, deadline time.Time, cb func(error))
	SubmitSend(sock rawsocket.Socket, buf []byte, deadline time.Time, cb CompletionFunc)
	SubmitReceive(sock rawsocket.Socket, buf []byte, deadline time.Time, cb CompletionFunc)

	// Execute runs fn on the engine's worker pool, the Executor
	// strand.Strand needs to drain its queue.
	Execute(fn func())

	// CreateStrand allocates a Strand draining on this engine's pool.
	CreateStrand() *strand.Strand

	// CreateTimer allocates a Timer on this engine's wheel.
	CreateTimer(opt timer.Options, sess timer.Session) *timer.Timer

	// Wheel exposes the engine's timer wheel directly, so socket state
	// machines can arm per-operation deadlines on the same queues they
	// hand the engine's other completions through, instead of duplicating
	// a wheel per socket.
	Wheel() *timer.Wheel

	// Run drives the engine's poll loop until Stop is called or ctx
	// work runs out; blocking, intended to run on a dedicated
	// goroutine (see runner.Runnable).
	Run() error
	// Poll runs a single non-blocking (or deadline-bounded) pass of the
	// poll loop, for callers driving their own loop (tests, embedding).
	Poll(deadline time.Time) error
	// Stop halts Run/Poll and releases poller resources.
	Stop() error
}

// Registration is the handle returned by Register.
type Registration struct {
	sock  rawsocket.Socket
	opts  RegisterOptions
	fn    ReadinessFunc
	state DetachState
}

func (r *Registration) State() DetachState { return r.state }
