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

// Package strand implements the cooperative serialiser every socket uses
// to guarantee its event handlers and user callbacks never run
// concurrently with each other, without requiring intra-socket locking
// inside handler bodies.
//
// The drain policy is greedy: once a strand starts draining, it keeps
// running functors until its queue is empty, maximising throughput on
// the draining goroutine rather than sharing it fairly with other
// strands queued on the same Executor. This is the policy
// original_source's ntcs_strand.cpp documents, and the one spec.md §4.2
// recommends as default.
package strand

import "sync"

// Executor runs a functor, possibly on a pooled goroutine. Engine
// implementations satisfy this; tests may use ImmediateExecutor.
type Executor interface {
	Execute(func())
}

// ImmediateExecutorFunc adapts a plain func(func()) to Executor.
type ImmediateExecutorFunc func(func())

func (f ImmediateExecutorFunc) Execute(task func()) { f(task) }

// goExecutor runs every submission on its own goroutine; used when no
// Executor is supplied.
type goExecutor struct{}

func (goExecutor) Execute(task func()) { go task() }

// Strand is a FIFO functor queue guaranteeing non-concurrent execution.
type Strand struct {
	exec Executor

	mu      sync.Mutex
	q       []func()
	pending bool
}

// New creates a Strand submitting its drain loop to exec. A nil
// Executor runs the drain loop on a fresh goroutine per submission.
func New(exec Executor) *Strand {
	if exec == nil {
		exec = goExecutor{}
	}
	return &Strand{exec: exec}
}

// runningTLS maps the draining goroutine's id to the *Strand it is
// currently draining. Go has no first-class goroutine-local storage;
// this is the same id-keyed-map substitute used throughout the Go
// ecosystem for this need (e.g. context-free request-scoped loggers).
var runningTLS sync.Map // goroutine id -> *Strand

// Execute appends f to the FIFO. If the calling goroutine is already
// draining this exact strand (reentrant call from within a running
// functor), f runs inline instead of being queued — the
// ntcs_strand.cpp fast path — since the drain loop already holds the
// strand's non-concurrency guarantee and queuing would only delay f
// until the drain loop gets back around to it.
func (s *Strand) Execute(f func()) {
	if f == nil {
		return
	}
	if s.onThisGoroutine() {
		f()
		return
	}

	s.mu.Lock()
	s.q = append(s.q, f)
	already := s.pending
	s.pending = true
	s.mu.Unlock()

	if !already {
		s.exec.Execute(s.drain)
	}
}

// Clear drops all queued functors without invoking them.
func (s *Strand) Clear() {
	s.mu.Lock()
	s.q = nil
	s.mu.Unlock()
}

// Pending reports whether the strand currently has queued or
// in-flight work.
func (s *Strand) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *Strand) drain() {
	g := currentGoroutine()
	runningTLS.Store(g, s)
	defer runningTLS.Delete(g)

	for {
		s.mu.Lock()
		if len(s.q) == 0 {
			s.pending = false
			s.mu.Unlock()
			return
		}
		f := s.q[0]
		s.q = s.q[1:]
		s.mu.Unlock()

		f()
	}
}

func (s *Strand) onThisGoroutine() bool {
	v, ok := runningTLS.Load(currentGoroutine())
	if !ok {
		return false
	}
	return v.(*Strand) == s
}
