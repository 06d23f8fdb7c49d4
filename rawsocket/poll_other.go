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

//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package rawsocket

import (
	"net"
	"time"
)

// pollReadable/pollWritable on platforms without a poll(2) equivalent
// wired up here (e.g. Windows, where this would go through IOCP
// instead) fall back to a short sleep so the reactor still makes
// progress, trading a little latency for portability. A native
// Windows reactor would use IOCP directly, as the proactor already
// does via Go's net package on every platform.
func pollReadable(conn net.Conn, deadline time.Time) error {
	return fallbackWait(deadline)
}

func pollWritable(conn net.Conn, deadline time.Time) error {
	return fallbackWait(deadline)
}

func fallbackWait(deadline time.Time) error {
	const step = 5 * time.Millisecond
	if !deadline.IsZero() && time.Until(deadline) < step {
		time.Sleep(time.Until(deadline))
		return nil
	}
	time.Sleep(step)
	return nil
}
