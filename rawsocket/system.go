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

package rawsocket

import (
	"sync"
	"sync/atomic"

	"github.com/nabbar/ntc/errs"
)

// System tracks the process-wide initialization this package's sockets
// need before any engine starts polling. On POSIX, opening sockets
// needs no global setup beyond what the Go runtime already does; the
// hook exists because original_source's ntsf_system.h requires one
// init/shutdown pair to bracket all socket activity in a process, and
// a Windows implementation would use it to call WSAStartup/WSACleanup.
type System struct {
	mu       sync.Mutex
	refcount int64
}

var globalSystem System

// Init registers one more user of the process-wide networking
// subsystem. Safe to call concurrently and repeatedly; pair every
// Init with a Shutdown.
func Init() error {
	atomic.AddInt64(&globalSystem.refcount, 1)
	return nil
}

// Shutdown releases one use registered by Init. It is an error to call
// Shutdown more times than Init.
func Shutdown() error {
	globalSystem.mu.Lock()
	defer globalSystem.mu.Unlock()
	if atomic.LoadInt64(&globalSystem.refcount) <= 0 {
		return errs.New(errs.Invalid, "shutdown called without a matching init")
	}
	atomic.AddInt64(&globalSystem.refcount, -1)
	return nil
}

// RefCount reports how many outstanding Init calls have not yet been
// matched by Shutdown. Exposed for engine/runner lifecycle tests.
func RefCount() int64 {
	return atomic.LoadInt64(&globalSystem.refcount)
}
