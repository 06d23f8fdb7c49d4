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

// Package stream implements the stream socket state machine of spec.md
// §4.6: new -> opened -> (bound) -> connecting -> connected ->
// shutdown-{send,receive,both} -> closed, layered over a rawsocket.Socket,
// an engine.Engine for readiness notification, and the read/write queues
// that give send()/receive() their asynchronous, watermarked discipline.
package stream

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
	"github.com/nabbar/ntc/timer"
	"github.com/nabbar/ntc/transport"
)

// State is one position in the stream socket's lifecycle.
type State uint8

const (
	StateNew State = iota
	StateOpened
	StateBound
	StateConnecting
	StateConnected
	StateShutdownSend
	StateShutdownReceive
	StateShutdownBoth
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
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateShutdownSend:
		return "shutdown-send"
	case StateShutdownReceive:
		return "shutdown-receive"
	case StateShutdownBoth:
		return "shutdown-both"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Options configures a Socket's queues, rate limiting and watermark
// callbacks. A zero Options is usable: unlimited rate, no watermarks,
// a discard logger and a single-goroutine-per-submission engine would
// still need to be supplied explicitly since Engine has no sane zero
// value.
type Options struct {
	Engine engine.Engine
	Logger logger.Logger

	ReadLow, ReadHigh   uint64
	WriteLow, WriteHigh uint64

	SendLimiter    *ratelimit.Bucket
	ReceiveLimiter *ratelimit.Bucket

	OnReadWatermark  func(queue.Mark)
	OnWriteWatermark func(queue.Mark)
	// OnClose is invoked exactly once, from Close, with the error that
	// caused the socket to close (nil for a deliberate Close()).
	OnClose func(error)
}

// Socket is one stream socket instance: its raw primitive, queues, and
// the registration driving them against the engine's readiness events.
type Socket struct {
	mu    sync.RWMutex
	state State

	sock rawsocket.Socket
	eng  engine.Engine
	strd *strand.Strand
	reg  *engine.Registration
	log  logger.Logger

	rq *queue.ReadQueue
	wq *queue.WriteQueue

	sendLimiter *ratelimit.Bucket
	recvLimiter *ratelimit.Bucket

	onReadMark  func(queue.Mark)
	onWriteMark func(queue.Mark)
	onClose     func(error)

	tlsConn  tlsConn // set by UpgradeTLS, nil until then
	closeErr error

	closeOnce sync.Once
}

const ioChunkSize = 64 * 1024

// New wraps an already-open rawsocket.Socket (fresh from Dial/Accept)
// as a Socket. connected selects the initial state: true for a
// just-dialed or just-accepted connection (StateConnected), false for
// a socket that still needs Connect.
func New(sock rawsocket.Socket, opts Options, connected bool) *Socket {
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

	var wheel *timer.Wheel
	if opts.Engine != nil {
		wheel = opts.Engine.Wheel()
	}

	s := &Socket{
		sock:        sock,
		eng:         opts.Engine,
		log:         log,
		rq:          queue.NewReadQueue(opts.ReadLow, opts.ReadHigh, wheel),
		wq:          queue.NewWriteQueue(opts.WriteLow, opts.WriteHigh, wheel),
		sendLimiter: sendLim,
		recvLimiter: recvLim,
		onReadMark:  opts.OnReadWatermark,
		onWriteMark: opts.OnWriteWatermark,
		onClose:     opts.OnClose,
	}
	if opts.Engine != nil {
		s.strd = opts.Engine.CreateStrand()
	} else {
		s.strd = strand.New(nil)
	}
	s.wq.OnMark(func(m queue.Mark) {
		if m != queue.MarkNone && s.onWriteMark != nil {
			s.onWriteMark(m)
		}
	})
	if connected {
		s.state = StateConnected
		s.arm()
	} else {
		s.state = StateOpened
	}
	return s
}

// State reports the socket's current lifecycle position.
func (s *Socket) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// LocalEndpoint/RemoteEndpoint expose the raw socket's bound addresses.
func (s *Socket) LocalEndpoint() transport.Endpoint  { return s.sock.LocalEndpoint() }
func (s *Socket) RemoteEndpoint() transport.Endpoint { return s.sock.RemoteEndpoint() }

// Connect drives the socket from opened to connected, synchronously.
// Asynchronous, retrying connect attempts are built by callers atop
// queue.ConnectState and repeated Connect calls; this method performs
// exactly one attempt.
func (s *Socket) Connect(ep transport.Endpoint, deadline time.Time) error {
	s.mu.Lock()
	if s.state != StateOpened && s.state != StateBound {
		st := s.state
		s.mu.Unlock()
		return errs.New(errs.Invalid, "connect invalid from state %s", st)
	}
	s.state = StateConnecting
	s.mu.Unlock()

	err := s.sock.Connect(ep, deadline)

	s.mu.Lock()
	if err != nil {
		s.state = StateOpened
		s.mu.Unlock()
		return err
	}
	s.state = StateConnected
	s.mu.Unlock()

	s.arm()
	return nil
}

// arm registers the socket with the engine for level-triggered
// readable+writable notification, driving drainRead/drainWrite
// whenever the kernel has work for either direction.
func (s *Socket) arm() {
	if s.eng == nil {
		return
	}
	reg, err := s.eng.Register(s.sock, engine.RegisterOptions{
		Interest: engine.InterestReadable | engine.InterestWritable,
		Trigger:  engine.TriggerLevel,
	}, func(readable, writable bool) {
		if readable {
			s.strd.Execute(s.drainRead)
		}
		if writable {
			s.strd.Execute(s.drainWrite)
		}
	})
	if err != nil {
		s.log.Warn("stream: engine registration failed", logger.Fields{"error": err})
		// Without a registration the socket never learns of readiness
		// again; fail it rather than leave it silently stalled.
		go s.Close(errs.Wrap(errs.ConnectionDead, err, "engine registration failed"))
		return
	}
	s.mu.Lock()
	s.reg = reg
	s.mu.Unlock()
}

// Shutdown closes dir's half of the connection. Shutting down the send
// half rejects further Send calls and shuts the raw send half at once:
// sends still queued are not drained first, and fail on their next
// write attempt. Shutting down the receive half
// fails the read queue's pending requests with errs.Cancelled and
// rejects further Receive calls.
func (s *Socket) Shutdown(dir rawsocket.Direction) error {
	s.mu.Lock()
	if s.state != StateConnected && s.state != StateShutdownSend && s.state != StateShutdownReceive {
		st := s.state
		s.mu.Unlock()
		return errs.New(errs.Invalid, "shutdown invalid from state %s", st)
	}

	switch s.state {
	case StateConnected:
		switch dir {
		case rawsocket.DirSend:
			s.state = StateShutdownSend
		case rawsocket.DirReceive:
			s.state = StateShutdownReceive
		case rawsocket.DirBoth:
			s.state = StateShutdownBoth
		}
	case StateShutdownSend:
		if dir == rawsocket.DirReceive || dir == rawsocket.DirBoth {
			s.state = StateShutdownBoth
		}
	case StateShutdownReceive:
		if dir == rawsocket.DirSend || dir == rawsocket.DirBoth {
			s.state = StateShutdownBoth
		}
	}
	s.mu.Unlock()

	if err := s.sock.Shutdown(dir); err != nil {
		return errs.Wrap(errs.Invalid, err, "shutdown")
	}

	if dir == rawsocket.DirReceive || dir == rawsocket.DirBoth {
		queue.Dispatch(s.rq.Reset(errs.New(errs.Cancelled, "receive half shut down")))
	}
	return nil
}

// Close tears the socket down: deregisters from the engine, closes the
// raw socket, fails every pending queue entry with errs.ConnectionDead
// (or cause, if non-nil), and invokes OnClose exactly once.
func (s *Socket) Close(cause error) error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.state = StateClosed
		reg := s.reg
		eng := s.eng
		s.closeErr = cause
		s.mu.Unlock()

		if reg != nil && eng != nil {
			_ = eng.Deregister(reg)
		}
		err = s.sock.Close()

		failure := cause
		if failure == nil {
			failure = errs.New(errs.ConnectionDead, "socket closed")
		}
		queue.Dispatch(s.rq.Reset(failure))
		s.wq.Reset(failure)

		if s.onClose != nil {
			s.onClose(cause)
		}
	})
	return err
}

func (s *Socket) sendAllowed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch s.state {
	case StateConnected, StateShutdownReceive:
		return true
	default:
		return false
	}
}

func (s *Socket) receiveAllowed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch s.state {
	case StateConnected, StateShutdownSend:
		return true
	default:
		return false
	}
}

func (s *Socket) dispatchReadMark(m queue.Mark) {
	if m != queue.MarkNone && s.onReadMark != nil {
		s.onReadMark(m)
	}
}

func (s *Socket) dispatchWriteMark(m queue.Mark) {
	if m != queue.MarkNone && s.onWriteMark != nil {
		s.onWriteMark(m)
	}
}
