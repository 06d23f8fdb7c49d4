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
	"net"

	"github.com/nabbar/ntc/errs"
	"github.com/nabbar/ntc/transport"
)

// applySocketOption covers the portion of transport.Option the
// standard library exposes directly on *net.TCPConn/*net.UnixConn.
// The remainder (broadcast, bypass-routing, inline-out-of-band,
// timestamping, zero-copy) needs raw socket-option syscalls and is
// handled by the platform-specific file in this package, returning
// errs.NotImplemented where the platform has no equivalent — per
// original_source's ntsu_socketoptionutil.cpp, which documents the
// same split.
func applySocketOption(conn net.Conn, v transport.OptionValue) error {
	switch v.Option {
	case transport.OptKeepAlive:
		if tc, ok := conn.(*net.TCPConn); ok {
			return tc.SetKeepAlive(v.Bool)
		}
		return errs.New(errs.NotImplemented, "keep-alive not applicable to this transport")
	case transport.OptNoDelay:
		if tc, ok := conn.(*net.TCPConn); ok {
			return tc.SetNoDelay(v.Bool)
		}
		return errs.New(errs.NotImplemented, "no-delay not applicable to this transport")
	case transport.OptLinger:
		if tc, ok := conn.(*net.TCPConn); ok {
			secs := 0
			if v.Bool {
				secs = int(v.Linger.Seconds())
			} else {
				secs = -1
			}
			return tc.SetLinger(secs)
		}
		return errs.New(errs.NotImplemented, "linger not applicable to this transport")
	case transport.OptSendBufferSize:
		if tc, ok := conn.(*net.TCPConn); ok {
			return tc.SetWriteBuffer(v.Int)
		}
		return errs.New(errs.NotImplemented, "send buffer size not applicable to this transport")
	case transport.OptRecvBufferSize:
		if tc, ok := conn.(*net.TCPConn); ok {
			return tc.SetReadBuffer(v.Int)
		}
		return errs.New(errs.NotImplemented, "recv buffer size not applicable to this transport")
	case transport.OptReuseAddress:
		// Address reuse is a bind()-time option; by the time a
		// connected stream socket exists it is already moot.
		return nil
	default:
		return applyRawSocketOption(conn, v)
	}
}

func applyListenerOption(ln net.Listener, v transport.OptionValue) error {
	switch v.Option {
	case transport.OptReuseAddress:
		// Listen binds through a default net.ListenConfig with no
		// Control hook (the Go runtime itself sets SO_REUSEADDR on
		// POSIX listeners); nothing is applied to an open listener.
		return nil
	default:
		return errs.New(errs.NotImplemented, "option not supported on a listener socket")
	}
}
