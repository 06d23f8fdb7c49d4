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

// Package listener implements the listener socket state machine of
// spec.md §4.5: new -> opened -> bound -> listening -> closed, backed
// by a rawsocket.Listener and an accept queue that hands off each
// accepted connection as a socket/stream.Socket.
package listener

import (
	"sync"
	"time"

	"github.com/nabbar/ntc/engine"
	"github.com/nabbar/ntc/errs"
	"github.com/nabbar/ntc/logger"
	"github.com/nabbar/ntc/queue"
	"github.com/nabbar/ntc/rawsocket"
	"github.com/nabbar/ntc/socket/stream"
	"github.com/nabbar/ntc/timer"
	"github.com/nabbar/ntc/transport"
)

// State is one position in the listener socket's lifecycle.
type State uint8

const (
	StateNew State = iota
	StateOpened
	StateBound
	StateListening
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
	case StateListening:
		return "listening"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Options configures a Listener's accept queue, watermarks, and the
// stream.Options template applied to every accepted connection.
type Options struct {
	Engine engine.Engine
	Logger logger.Logger

	AcceptLow, AcceptHigh uint64

	// StreamOptions is used as the base Options when wrapping each
	// accepted rawsocket.Socket into a stream.Socket; its Engine field
	// is overwritten with this Listener's Engine if left nil.
	StreamOptions stream.Options

	OnAcceptWatermark func(queue.Mark)
	OnClose           func(error)
}

// Listener is one listener socket instance.
type Listener struct {
	mu    sync.RWMutex
	state State

	ln  rawsocket.Listener
	eng engine.Engine
	log logger.Logger
	reg *engine.Registration

	aq         *queue.AcceptQueue
	streamOpts stream.Options

	onAcceptMark func(queue.Mark)
	onClose      func(error)

	closeOnce sync.Once
}

// Listen opens, binds and starts listening on ep in one step (the
// rawsocket layer only exposes bind+listen atomically), returning a
// Listener already in StateListening.
func Listen(network string, ep transport.Endpoint, backlog int, opts Options) (*Listener, error) {
	ln, err := rawsocket.Listen(network, ep, backlog)
	if err != nil {
		return nil, err
	}
	l := newListener(ln, opts)
	l.state = StateListening
	l.arm()
	return l, nil
}

// New wraps an already bound-and-listening rawsocket.Listener, for
// callers constructing the raw primitive themselves (tests, or a
// future platform-specific Listener implementation).
func New(ln rawsocket.Listener, opts Options) *Listener {
	l := newListener(ln, opts)
	l.state = StateListening
	l.arm()
	return l
}

func newListener(ln rawsocket.Listener, opts Options) *Listener {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	sopts := opts.StreamOptions
	if sopts.Engine == nil {
		sopts.Engine = opts.Engine
	}
	if sopts.Logger == nil {
		sopts.Logger = log
	}
	var wheel *timer.Wheel
	if opts.Engine != nil {
		wheel = opts.Engine.Wheel()
	}
	return &Listener{
		ln:           ln,
		eng:          opts.Engine,
		log:          log,
		aq:           queue.NewAcceptQueue(opts.AcceptLow, opts.AcceptHigh, wheel),
		streamOpts:   sopts,
		onAcceptMark: opts.OnAcceptWatermark,
		onClose:      opts.OnClose,
	}
}

// State reports the listener's current lifecycle position.
func (l *Listener) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// LocalEndpoint reports the bound address.
func (l *Listener) LocalEndpoint() transport.Endpoint { return l.ln.LocalEndpoint() }

// arm submits one engine SubmitAccept with onSubmittedAccept as its
// completion; onSubmittedAccept calls arm again for the next one.
func (l *Listener) arm() {
	if l.eng == nil {
		return
	}
	l.eng.SubmitAccept(l.ln, time.Time{}, l.onSubmittedAccept)
}

// onSubmittedAccept is the Proactor-style completion callback: wrap
// the new connection (or error) and immediately resubmit for the
// next one, as long as the listener is still listening.
func (l *Listener) onSubmittedAccept(sock rawsocket.Socket, err error) {
	l.mu.RLock()
	live := l.state == StateListening
	l.mu.RUnlock()
	if !live {
		return
	}

	if err != nil {
		if !errs.Is(err, errs.WouldBlock) {
			l.log.Warn("listener: accept failed", logger.Fields{"error": err})
		}
		l.arm()
		return
	}

	strm := stream.New(sock, l.streamOpts, true)
	mark, completion := l.aq.Offer(strm)
	if l.onAcceptMark != nil && mark != queue.MarkNone {
		l.onAcceptMark(mark)
	}
	if completion != nil {
		queue.DispatchAccept(completion)
	}
	l.arm()
}

// Close tears the listener down: closes the raw listener (ending the
// outstanding SubmitAccept), fails every pending accept request with
// errs.ConnectionDead, and closes any accepted-but-untaken streams.
func (l *Listener) Close(cause error) error {
	var err error
	l.closeOnce.Do(func() {
		l.mu.Lock()
		l.state = StateClosed
		l.mu.Unlock()

		err = l.ln.Close()

		failure := cause
		if failure == nil {
			failure = errs.New(errs.ConnectionDead, "listener closed")
		}
		ready := l.aq.Reset(failure)
		for _, c := range ready {
			if s, ok := c.(*stream.Socket); ok {
				_ = s.Close(failure)
			}
		}
		if l.onClose != nil {
			l.onClose(cause)
		}
	})
	return err
}
