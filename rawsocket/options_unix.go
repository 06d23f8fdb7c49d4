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

//go:build linux || darwin

package rawsocket

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/nabbar/ntc/errs"
	"github.com/nabbar/ntc/transport"
)

func applyRawSocketOption(conn net.Conn, v transport.OptionValue) error {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return errs.New(errs.NotImplemented, "connection does not expose a raw descriptor")
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return errs.Wrap(errs.Invalid, err, "syscall conn")
	}

	var setErr error
	ctlErr := raw.Control(func(fd uintptr) {
		i := 0
		if v.Bool {
			i = 1
		}
		switch v.Option {
		case transport.OptBroadcast:
			setErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, i)
		case transport.OptBypassRouting:
			setErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_DONTROUTE, i)
		case transport.OptInlineOutOfBand:
			setErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_OOBINLINE, i)
		case transport.OptTimestampIncoming, transport.OptTimestampOutgoing:
			setErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_TIMESTAMP, i)
		case transport.OptZeroCopy:
			// No socket option is set for zero-copy; the value is only
			// recorded by SetOption for GetOption to report, and Send
			// does not use MSG_ZEROCOPY.
			setErr = nil
		default:
			setErr = errs.New(errs.NotImplemented, "option has no raw socket-option equivalent")
		}
	})
	if ctlErr != nil {
		return errs.Wrap(errs.Invalid, ctlErr, "raw conn control")
	}
	return setErr
}
