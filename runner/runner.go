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

// Package runner wraps a blocking start function and a shutdown function
// into a restartable lifecycle: Start launches the former in its own
// goroutine, Stop cancels it and waits before invoking the latter. It is
// the lifecycle wrapper the engine's Run/Stop pair and the config-driven
// listener/dialer loops run on, adapted from nabbar-golib/runner/startStop's
// start/stop-function shape.
package runner

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// FuncStart runs until ctx is cancelled (or it decides to return early)
// and reports the reason it stopped, if any.
type FuncStart func(ctx context.Context) error

// FuncStop performs cleanup after a FuncStart has returned.
type FuncStop func(ctx context.Context) error

// Lifecycle is a restartable Start/Stop pair with uptime and error
// tracking, safe for concurrent use.
type Lifecycle interface {
	// Start stops any instance already running, then launches fnStart on
	// a new goroutine and returns immediately; errors from fnStart are
	// captured, not returned.
	Start(ctx context.Context) error
	// Stop cancels the running instance, waits for fnStart to return,
	// then invokes fnStop; a no-op when not running.
	Stop(ctx context.Context) error
	// Restart is Stop followed by Start, atomically with respect to
	// other Start/Stop/Restart callers.
	Restart(ctx context.Context) error
	// IsRunning reports whether fnStart is currently executing.
	IsRunning() bool
	// Uptime reports how long the current instance has been running,
	// zero when not running.
	Uptime() time.Duration
	// ErrorsLast returns the most recently captured error, nil if none.
	ErrorsLast() error
	// ErrorsList returns every error captured since the last Start.
	ErrorsList() []error
}

type runner struct {
	fnStart FuncStart
	fnStop  FuncStop

	lifecycleMu sync.Mutex
	running     atomic.Bool
	startedAt   atomic.Value // time.Time
	cancel      context.CancelFunc
	done        chan struct{}

	errMu sync.Mutex
	errs  []error
}

// New builds a Lifecycle around fnStart/fnStop. Either may be nil: calling
// Start (resp. Stop) then captures an "invalid start/stop function" error
// instead of panicking.
func New(fnStart FuncStart, fnStop FuncStop) Lifecycle {
	return &runner{fnStart: fnStart, fnStop: fnStop}
}

func (r *runner) Start(ctx context.Context) error {
	r.lifecycleMu.Lock()
	defer r.lifecycleMu.Unlock()
	if r.running.Load() {
		r.stopLocked(ctx)
	}
	return r.startLocked(ctx)
}

func (r *runner) Restart(ctx context.Context) error {
	r.lifecycleMu.Lock()
	defer r.lifecycleMu.Unlock()
	r.stopLocked(ctx)
	return r.startLocked(ctx)
}

func (r *runner) startLocked(ctx context.Context) error {
	r.clearErrors()

	cctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done
	r.running.Store(true)
	r.startedAt.Store(time.Now())

	fn := r.fnStart
	go func() {
		defer close(done)
		defer r.running.Store(false)

		var err error
		if fn == nil {
			err = fmt.Errorf("invalid start function")
		} else {
			err = fn(cctx)
		}
		if err != nil {
			r.addError(err)
		}
	}()
	return nil
}

func (r *runner) Stop(ctx context.Context) error {
	r.lifecycleMu.Lock()
	defer r.lifecycleMu.Unlock()
	r.stopLocked(ctx)
	return nil
}

// stopLocked cancels the running instance and waits for it to exit before
// invoking fnStop, the same order original_source's socket-option teardown
// path uses: unblock the worker first, release resources second.
func (r *runner) stopLocked(ctx context.Context) {
	if !r.running.Load() {
		return
	}

	if r.cancel != nil {
		r.cancel()
	}
	if r.done != nil {
		<-r.done
	}
	r.running.Store(false)
	r.startedAt.Store(time.Time{})

	fn := r.fnStop
	var err error
	if fn == nil {
		err = fmt.Errorf("invalid stop function")
	} else {
		err = fn(ctx)
	}
	if err != nil {
		r.addError(err)
	}
}

func (r *runner) IsRunning() bool {
	return r.running.Load()
}

func (r *runner) Uptime() time.Duration {
	if !r.running.Load() {
		return 0
	}
	t, _ := r.startedAt.Load().(time.Time)
	if t.IsZero() {
		return 0
	}
	return time.Since(t)
}

func (r *runner) addError(err error) {
	r.errMu.Lock()
	r.errs = append(r.errs, err)
	r.errMu.Unlock()
}

func (r *runner) clearErrors() {
	r.errMu.Lock()
	r.errs = nil
	r.errMu.Unlock()
}

func (r *runner) ErrorsLast() error {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	if len(r.errs) == 0 {
		return nil
	}
	return r.errs[len(r.errs)-1]
}

func (r *runner) ErrorsList() []error {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	out := make([]error, len(r.errs))
	copy(out, r.errs)
	return out
}
