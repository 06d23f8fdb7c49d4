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

// Package datagram implements the datagram socket state machine of
// spec.md §4.7: new -> opened -> (bound) -> (connected) -> closed,
// over a rawsocket.PacketSocket. Unlike socket/stream, datagrams are
// never concatenated across a byte boundary: each SendTo is all-or-
// nothing and each received packet keeps its own source endpoint and
// receive timestamp.
package datagram

import (
	"sync"
	"time"

	"github.com/nabbar/ntc/engine"
	"github.com/nabbar/ntc/errs"
	"github.com/nabbar/ntc/logger"
	"github.com/nabbar/ntc/queue"
	"github.com/nabbar/ntc/ratelimit"
	"github.com/nabbar/ntc/rawsocket"
	"github.com/nabbar/ntc/strand"
	"github.com/nabbar/ntc/transport"
)

// State is one position in the datagram socket's lifecycle.
type State uint8

const (
	StateNew State = iota
	StateOpened
	StateBound
	StateConnected
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateOpened:
		return "opened"
	case StateBound:
		return "bound"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Datagram is one received packet: payload, source endpoint, and the
// local receive timestamp spec.md's optional timestamp metadata calls
// for (software timestamp; original_source's hardware-timestamp path
// has no portable Go equivalent and is out of scope).
type Datagram struct {
	Data      []byte
	From      transport.Endpoint
	Timestamp time.Time
}

// Options configures a Socket's rate limiting, watermark and close
// callbacks.
type Options struct {
	Engine engine.Engine
	Logger logger.Logger

	// QueueLow/QueueHigh are a datagram-count watermark (not a byte
	// count, since datagrams cannot be partially drained).
	QueueLow, QueueHigh uint64

	SendLimiter    *ratelimit.Bucket
	ReceiveLimiter *ratelimit.Bucket

	OnReadWatermark func(queue.Mark)
	OnClose         func(error)
}

type pendingReceive struct {
	token    queue.Token
	deadline time.Time
	cb       func(Datagram, error)
}

// Socket is one datagram socket instance.
type Socket struct {
	mu    sync.RWMutex
	state State

	sock rawsocket.PacketSocket
	eng  engine.Engine
	strd *strand.Strand
	log  logger.Logger

	ready []Datagram
	reqs  []*pendingReceive
	wm    queue.Watermark

	sendLimiter *ratelimit.Bucket
	recvLimiter *ratelimit.Bucket

	onReadMark func(queue.Mark)
	onClose    func(error)

	defaultPeer transport.Endpoint
	hasPeer     bool

	closeOnce sync.Once
	polling   bool
}

const datagramMTU = 64 * 1024

// New wraps a rawsocket.PacketSocket, fresh (StateOpened) or already
// bound (bound=true, StateBound).
func New(sock rawsocket.PacketSocket, opts Options, bound bool) *Socket {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	sendLim := opts.SendLimiter
	if sendLim == nil {
		sendLim = ratelimit.Unlimited()
	}
	recvLim := opts.ReceiveLimiter
	if recvLim == nil {
		recvLim = ratelimit.Unlimited()
	}

	s := &Socket{
		sock:        sock,
		eng:         opts.Engine,
		log:         log,
		wm:          queue.NewWatermark(opts.QueueLow, opts.QueueHigh),
		sendLimiter: sendLim,
		recvLimiter: recvLim,
		onReadMark:  opts.OnReadWatermark,
		onClose:     opts.OnClose,
	}
	if opts.Engine != nil {
		s.strd = opts.Engine.CreateStrand()
	} else {
		s.strd = strand.New(nil)
	}
	if bound {
		s.state = StateBound
	} else {
		s.state = StateOpened
	}
	s.arm()
	return s
}

// State reports the socket's current lifecycle position.
func (s *Socket) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Socket) LocalEndpoint() transport.Endpoint { return s.sock.LocalEndpoint() }

// Bind moves an opened socket to StateBound.
func (s *Socket) Bind(ep transport.Endpoint, reuse bool) error {
	s.mu.Lock()
	if s.state != StateOpened {
		st := s.state
		s.mu.Unlock()
		return errs.New(errs.Invalid, "bind invalid from state %s", st)
	}
	s.mu.Unlock()

	if err := s.sock.Bind(ep, reuse); err != nil {
		return err
	}
	s.mu.Lock()
	s.state = StateBound
	s.mu.Unlock()
	return nil
}

// Connect fixes a default peer endpoint: subsequent Send calls (as
// opposed to SendTo) target it. Incoming datagrams are not filtered by
// source: the underlying PacketSocket only records the peer for sends.
func (s *Socket) Connect(ep transport.Endpoint) error {
	s.mu.Lock()
	if s.state != StateOpened && s.state != StateBound {
		st := s.state
		s.mu.Unlock()
		return errs.New(errs.Invalid, "connect invalid from state %s", st)
	}
	s.mu.Unlock()

	if err := s.sock.Connect(ep); err != nil {
		return err
	}
	s.mu.Lock()
	s.state = StateConnected
	s.defaultPeer = ep
	s.hasPeer = true
	s.mu.Unlock()
	return nil
}

// JoinMulticast/LeaveMulticast/SetMulticastTTL/SetMulticastLoopback
// delegate straight to the raw primitive; spec.md §4.7 treats these as
// socket options with no state-machine effect of their own.
func (s *Socket) JoinMulticast(group transport.Endpoint, iface string) error {
	return s.sock.JoinMulticast(group, iface)
}

func (s *Socket) LeaveMulticast(group transport.Endpoint, iface string) error {
	return s.sock.LeaveMulticast(group, iface)
}

func (s *Socket) SetMulticastTTL(ttl int) error { return s.sock.SetMulticastTTL(ttl) }

func (s *Socket) SetMulticastLoopback(v bool) error { return s.sock.SetMulticastLoopback(v) }

func (s *Socket) SetOption(v transport.OptionValue) error { return s.sock.SetOption(v) }

// arm starts the read-readiness poll loop on the engine's worker pool
// (or a bare goroutine without one); rawsocket.PacketSocket has no
// Engine.Register counterpart since Register is typed against
// rawsocket.Socket's stream-oriented Send/Receive pair.
func (s *Socket) arm() {
	s.mu.Lock()
	if s.polling {
		s.mu.Unlock()
		return
	}
	s.polling = true
	s.mu.Unlock()

	run := func() { s.pollLoop() }
	if s.eng != nil {
		s.eng.Execute(run)
	} else {
		go run()
	}
}

func (s *Socket) pollLoop() {
	for {
		s.mu.RLock()
		closed := s.state == StateClosed
		s.mu.RUnlock()
		if closed {
			return
		}

		if err := s.sock.WaitReadable(time.Now().Add(50 * time.Millisecond)); err == nil {
			s.strd.Execute(s.drainRead)
		}
	}
}

func (s *Socket) dispatchMark(m queue.Mark) {
	if m != queue.MarkNone && s.onReadMark != nil {
		s.onReadMark(m)
	}
}

// Close tears the socket down: stops the poll loop, closes the raw
// primitive, fails every pending receive with errs.Cancelled (or
// cause), and invokes OnClose exactly once.
func (s *Socket) Close(cause error) error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.state = StateClosed
		reqs := s.reqs
		s.reqs = nil
		s.ready = nil
		s.mu.Unlock()

		err = s.sock.Close()

		failure := cause
		if failure == nil {
			failure = errs.New(errs.Cancelled, "datagram socket closed")
		}
		for _, r := range reqs {
			if r.cb != nil {
				r.cb(Datagram{}, failure)
			}
		}
		if s.onClose != nil {
			s.onClose(cause)
		}
	})
	return err
}
