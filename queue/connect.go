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

package queue

import (
	"time"

	"github.com/nabbar/ntc/transport"
)

// ConnectOptions governs a single connect() call's retry and deadline
// behaviour, per spec.md §3's connect state.
type ConnectOptions struct {
	Deadline     time.Time
	RetryOnFail  bool
	RetryCount   int
	RetryEvery   time.Duration
	Token        Token
}

// ConnectState tracks one in-progress (possibly retried) connect
// attempt: target, attempt index, timers, and whether a connect is
// currently in flight.
type ConnectState struct {
	Target     transport.Endpoint
	Name       string // unresolved name, if connect was given one
	Attempt    int
	StartedAt  time.Time
	Opts       ConnectOptions
	InProgress bool
	Callback   func(error)
}

// NewConnectState begins tracking a connect to target (or name, if
// target is unresolved and must go through resolve.Resolver first).
func NewConnectState(target transport.Endpoint, name string, opts ConnectOptions, cb func(error)) *ConnectState {
	return &ConnectState{
		Target:    target,
		Name:      name,
		StartedAt: time.Now(),
		Opts:      opts,
		Callback:  cb,
	}
}

// ShouldRetry reports whether another attempt is allowed after a
// failure, given the configured RetryOnFail/RetryCount.
func (c *ConnectState) ShouldRetry() bool {
	if !c.Opts.RetryOnFail {
		return false
	}
	if c.Opts.RetryCount > 0 && c.Attempt >= c.Opts.RetryCount {
		return false
	}
	return true
}

// DeadlineExceeded reports whether the overall connect deadline has
// passed as of now.
func (c *ConnectState) DeadlineExceeded(now time.Time) bool {
	return !c.Opts.Deadline.IsZero() && !now.Before(c.Opts.Deadline)
}
