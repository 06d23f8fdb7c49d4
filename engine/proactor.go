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

	"github.com/nabbar/ntc/errs"
	"github.com/nabbar/ntc/logger"
	"github.com/nabbar/ntc/rawsocket"
	"github.com/nabbar/ntc/strand"
	"github.com/nabbar/ntc/timer"
	"github.com/nabbar/ntc/transport"
)

// Proactor is a completion-notification Engine. On every platform
// here it is the reactor-emulated variant original_source's ntcr_*
// groups describe: a worker goroutine waits for readiness via
// rawsocket's poll(2) wrapper, performs the syscall once ready, and
// invokes the completion callback with the result — there is no
// native io_uring/IOCP fast path in this build, only the emulation,
// since Go's runtime already multiplexes blocking syscalls onto OS
// threads efficiently enough that a second native completion port
// buys little.
type Proactor struct {
	pool  *pool
	wheel *timer.Wheel
	log   logger.Logger
	stop  chan struct{}
	once  sync.Once
}

// ProactorConfig mirrors ReactorConfig; kept distinct so engine.Engine
// callers can tune each driver's pool independently.
type ProactorConfig struct {
	MinThreads int
	MaxThreads int
}

func DefaultProactorConfig() ProactorConfig {
	return ProactorConfig{MinThreads: 2, MaxThreads: 8}
}

func NewProactor(cfg ProactorConfig, log logger.Logger) *Proactor {
	if log == nil {
		log = logger.Discard()
	}
	return &Proactor{
		pool:  newPool(cfg.MinThreads, cfg.MaxThreads),
		wheel: timer.NewWheel(),
		log:   log,
		stop:  make(chan struct{}),
	}
}

// Register on a Proactor arms a one-shot readiness wait and reports it
// through fn, the same shape a Reactor registration exposes, so
// socket/* can use either driver interchangeably for the rare case it
// needs raw readiness rather than a completed operation.
func (p *Proactor) Register(sock rawsocket.Socket, opts RegisterOptions, fn ReadinessFunc) (*Registration, error) {
	reg := &Registration{sock: sock, opts: opts, fn: fn}
	// The wait below can block for up to 24h; it must not hold a pool
	// slot for that long or it starves SubmitSend/SubmitReceive/Execute,
	// which share the same bounded pool (the same reasoning that keeps
	// the Reactor's watch loop off its pool).
	go func() {
		deadline := time.Now().Add(24 * time.Hour)
		var readable, writable bool
		if opts.Interest&InterestReadable != 0 {
			readable = sock.WaitReadable(deadline) == nil
		}
		if opts.Interest&InterestWritable != 0 {
			writable = sock.WaitWritable(deadline) == nil
		}
		reg.state = DetachDetached
		if fn != nil {
			p.pool.execute(func() { fn(readable, writable) })
		}
	}()
	return reg, nil
}

func (p *Proactor) Deregister(reg *Registration) error {
	reg.state = DetachDetached
	return nil
}

func (p *Proactor) SubmitAccept(ln rawsocket.Listener, deadline time.Time, cb func(rawsocket.Socket, error)) {
	p.pool.execute(func() {
		if err := ln.WaitAcceptable(deadline); err != nil {
			cb(nil, err)
			return
		}
		sock, err := ln.Accept(deadline)
		cb(sock, err)
	})
}

func (p *Proactor) SubmitConnect(sock rawsocket.Socket, ep transport.Endpoint, deadline time.Time, cb func(error)) {
	p.pool.execute(func() {
		cb(sock.Connect(ep, deadline))
	})
}

func (p *Proactor) SubmitSend(sock rawsocket.Socket, buf []byte, deadline time.Time, cb CompletionFunc) {
	p.pool.execute(func() {
		if err := sock.WaitWritable(deadline); err != nil {
			cb(0, err)
			return
		}
		n, err := sock.Send(buf)
		cb(n, err)
	})
}

func (p *Proactor) SubmitReceive(sock rawsocket.Socket, buf []byte, deadline time.Time, cb CompletionFunc) {
	p.pool.execute(func() {
		if err := sock.WaitReadable(deadline); err != nil {
			cb(0, err)
			return
		}
		n, err := sock.Receive(buf)
		cb(n, err)
	})
}

func (p *Proactor) Execute(fn func()) { p.pool.execute(fn) }

func (p *Proactor) CreateStrand() *strand.Strand {
	return strand.New(strand.ImmediateExecutorFunc(p.Execute))
}

func (p *Proactor) CreateTimer(opt timer.Options, sess timer.Session) *timer.Timer {
	return p.wheel.CreateTimer(opt, sess)
}

func (p *Proactor) Wheel() *timer.Wheel { return p.wheel }

// Run blocks until Stop, since a Proactor has no poll loop of its own:
// every operation already runs on the worker pool as soon as it is
// submitted.
func (p *Proactor) Run() error {
	<-p.stop
	return nil
}

func (p *Proactor) Poll(deadline time.Time) error {
	return errs.New(errs.NotImplemented, "proactor has no poll loop to single-step")
}

func (p *Proactor) Stop() error {
	p.once.Do(func() { close(p.stop) })
	p.wheel.Stop()
	p.pool.close()
	return nil
}
