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

package engine

import (
	"sync"
	"time"

	"github.com/nabbar/ntc/logger"
	"github.com/nabbar/ntc/rawsocket"
	"github.com/nabbar/ntc/strand"
	"github.com/nabbar/ntc/timer"
	"github.com/nabbar/ntc/transport"
)

// ReactorConfig selects the worker-pool sizing and poll granularity of
// a Reactor.
type ReactorConfig struct {
	MinThreads  int
	MaxThreads  int
	PollTimeout time.Duration // per-registration WaitReadable/WaitWritable window
}

// DefaultReactorConfig mirrors spec.md §6's defaults: a small pool and
// a short poll window so Deregister/Stop notice promptly.
func DefaultReactorConfig() ReactorConfig {
	return ReactorConfig{MinThreads: 1, MaxThreads: 4, PollTimeout: 50 * time.Millisecond}
}

// Reactor is a readiness-notification Engine: Register arms a watcher
// goroutine per socket that polls WaitReadable/WaitWritable in short
// windows (rawsocket's poll(2) wrapper) and dispatches fn through the
// worker pool when the descriptor becomes ready, without performing
// the I/O itself.
type Reactor struct {
	cfg   ReactorConfig
	pool  *pool
	wheel *timer.Wheel
	log   logger.Logger

	mu       sync.Mutex
	running  bool
	stop     chan struct{}
	stopOnce sync.Once
	regs     map[*Registration]struct{}
	watchWG  sync.WaitGroup
}

// NewReactor builds a Reactor with cfg, ready to Register sockets
// immediately; Run/Poll drive the wheel and accept/connect timers
// created through CreateTimer.
func NewReactor(cfg ReactorConfig, log logger.Logger) *Reactor {
	if log == nil {
		log = logger.Discard()
	}
	return &Reactor{
		cfg:   cfg,
		pool:  newPool(cfg.MinThreads, cfg.MaxThreads),
		wheel: timer.NewWheel(),
		log:   log,
		stop:  make(chan struct{}),
		regs:  make(map[*Registration]struct{}),
	}
}

func (r *Reactor) Register(sock rawsocket.Socket, opts RegisterOptions, fn ReadinessFunc) (*Registration, error) {
	reg := &Registration{sock: sock, opts: opts, fn: fn}

	r.mu.Lock()
	r.regs[reg] = struct{}{}
	r.mu.Unlock()

	// watch runs for the registration's entire lifetime, polling in a
	// loop; it must never borrow a slot from r.pool, or enough
	// long-lived registrations saturate the pool and starve the
	// readiness dispatch and strand draining that also run on it (only
	// reg.fn's actual dispatch goes through the pool, below).
	r.watchWG.Add(1)
	go func() {
		defer r.watchWG.Done()
		r.watch(reg)
	}()
	return reg, nil
}

func (r *Reactor) Deregister(reg *Registration) error {
	r.mu.Lock()
	if _, ok := r.regs[reg]; !ok {
		r.mu.Unlock()
		return nil
	}
	reg.state = DetachPending
	r.mu.Unlock()
	return nil
}

func (r *Reactor) watch(reg *Registration) {
	for {
		r.mu.Lock()
		_, live := r.regs[reg]
		pending := reg.state == DetachPending
		r.mu.Unlock()
		if !live || pending {
			r.finishDetach(reg)
			return
		}

		select {
		case <-r.stop:
			r.finishDetach(reg)
			return
		default:
		}

		deadline := time.Now().Add(r.cfg.PollTimeout)
		var readable, writable bool
		var err error
		if reg.opts.Interest&InterestReadable != 0 {
			err = waitReadable(reg.sock, deadline)
			readable = err == nil
		}
		if reg.opts.Interest&InterestWritable != 0 {
			err = waitWritable(reg.sock, deadline)
			writable = err == nil
		}
		if !readable && !writable {
			continue // deadline elapsed without readiness; poll again
		}

		if reg.fn != nil {
			r.pool.execute(func() { reg.fn(readable, writable) })
		}

		if reg.opts.OneShot {
			r.finishDetach(reg)
			return
		}
	}
}

func (r *Reactor) finishDetach(reg *Registration) {
	r.mu.Lock()
	delete(r.regs, reg)
	reg.state = DetachDetached
	r.mu.Unlock()
}

func (r *Reactor) SubmitAccept(ln rawsocket.Listener, deadline time.Time, cb func(rawsocket.Socket, error)) {
	r.pool.execute(func() {
		if err := ln.WaitAcceptable(deadline); err != nil {
			cb(nil, err)
			return
		}
		sock, err := ln.Accept(deadline)
		cb(sock, err)
	})
}

func (r *Reactor) SubmitConnect(sock rawsocket.Socket, ep transport.Endpoint, deadline time.Time, cb func(error)) {
	r.pool.execute(func() {
		cb(sock.Connect(ep, deadline))
	})
}

func (r *Reactor) SubmitSend(sock rawsocket.Socket, buf []byte, deadline time.Time, cb CompletionFunc) {
	r.pool.execute(func() {
		if err := sock.WaitWritable(deadline); err != nil {
			cb(0, err)
			return
		}
		n, err := sock.Send(buf)
		cb(n, err)
	})
}

func (r *Reactor) SubmitReceive(sock rawsocket.Socket, buf []byte, deadline time.Time, cb CompletionFunc) {
	r.pool.execute(func() {
		if err := sock.WaitReadable(deadline); err != nil {
			cb(0, err)
			return
		}
		n, err := sock.Receive(buf)
		cb(n, err)
	})
}

func (r *Reactor) Execute(fn func()) { r.pool.execute(fn) }

func (r *Reactor) CreateStrand() *strand.Strand {
	return strand.New(strand.ImmediateExecutorFunc(r.Execute))
}

func (r *Reactor) CreateTimer(opt timer.Options, sess timer.Session) *timer.Timer {
	return r.wheel.CreateTimer(opt, sess)
}

func (r *Reactor) Wheel() *timer.Wheel { return r.wheel }

func (r *Reactor) Run() error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = true
	r.mu.Unlock()
	<-r.stop
	return nil
}

func (r *Reactor) Poll(deadline time.Time) error {
	time.Sleep(time.Until(deadline))
	return nil
}

func (r *Reactor) Stop() error {
	r.mu.Lock()
	r.running = false
	r.mu.Unlock()

	r.stopOnce.Do(func() { close(r.stop) })
	r.watchWG.Wait()
	r.wheel.Stop()
	r.pool.close()
	return nil
}

// waitReadable/waitWritable exist only to give the watch
// loop a single call site per direction; kept as thin indirections so
// a future native epoll-backed Reactor can swap the polling strategy
// without touching the detach/dispatch logic above.
func waitReadable(sock rawsocket.Socket, deadline time.Time) error {
	return sock.WaitReadable(deadline)
}

func waitWritable(sock rawsocket.Socket, deadline time.Time) error {
	return sock.WaitWritable(deadline)
}
