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
	"context"

	"github.com/nabbar/ntc/semutil"
)

// pool is the engine's worker pool: a bounded number of concurrently
// running goroutines, gated by a semutil.Gate so the pool never runs
// more than maxThreads tasks at once even under bursty submission —
// the same min/max worker-count knob original_source's reactor/
// proactor configuration exposes. minThreads is accepted for that
// parity but otherwise unused: goroutines here are spawned on demand
// rather than kept warm in a fixed-size pool.
type pool struct {
	gate *semutil.Gate
}

func newPool(minThreads, maxThreads int) *pool {
	if maxThreads < 1 {
		maxThreads = 1
	}
	if minThreads < 1 {
		minThreads = 1
	}
	if minThreads > maxThreads {
		minThreads = maxThreads
	}
	return &pool{gate: semutil.New(context.Background(), maxThreads)}
}

// execute runs fn on a pool goroutine without blocking the submitter:
// the spawned goroutine waits for a gate slot, then runs fn.
func (p *pool) execute(fn func()) {
	if fn == nil {
		return
	}
	go func() {
		if err := p.gate.NewWorker(); err != nil {
			return
		}
		defer p.gate.DeferWorker()
		fn()
	}()
}

func (p *pool) close() {
	p.gate.DeferMain()
	_ = p.gate.WaitAll()
}
