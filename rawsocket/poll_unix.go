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

//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package rawsocket

import (
	"net"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/nabbar/ntc/errs"
)

// pollReadable/pollWritable implement the reactor's arming primitive
// with poll(2) over the connection's underlying descriptor, obtained
// through syscall.Conn. Using poll(2) directly (rather than consuming
// a byte through Read/Write) is what lets the reactor notify readiness
// without racing the handler that will actually drain the socket.
func pollReadable(conn net.Conn, deadline time.Time) error {
	return pollFD(conn, unix.POLLIN, deadline)
}

func pollWritable(conn net.Conn, deadline time.Time) error {
	return pollFD(conn, unix.POLLOUT, deadline)
}

func pollFD(conn net.Conn, events int16, deadline time.Time) error {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return errs.New(errs.NotImplemented, "connection does not expose a raw descriptor")
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return errs.Wrap(errs.Invalid, err, "syscall conn")
	}

	var pollErr error
	ctlErr := raw.Control(func(fd uintptr) {
		timeout := -1
		if !deadline.IsZero() {
			ms := time.Until(deadline).Milliseconds()
			if ms < 0 {
				ms = 0
			}
			timeout = int(ms)
		}
		fds := []unix.PollFd{{Fd: int32(fd), Events: events}}
		n, e := unix.Poll(fds, timeout)
		if e != nil {
			pollErr = errs.Wrap(errs.Invalid, e, "poll failed")
			return
		}
		if n == 0 {
			pollErr = errs.New(errs.WouldBlock, "descriptor not ready before deadline")
			return
		}
		if fds[0].Revents&(unix.POLLERR|unix.POLLHUP) != 0 {
			pollErr = errs.New(errs.ConnectionReset, "descriptor reports error/hangup")
		}
	})
	if ctlErr != nil {
		return errs.Wrap(errs.Invalid, ctlErr, "raw conn control")
	}
	return pollErr
}
