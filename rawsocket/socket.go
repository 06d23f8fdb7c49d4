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

// Package rawsocket is the non-blocking syscall wrapper spec.md §6 calls
// "raw sockets": bind/listen/accept/connect/send/receive/shutdown/close,
// options, and scatter/gather buffers. It is the only package in this
// module that imports golang.org/x/sys/unix; engine and socket/* open
// and drive sockets through the Socket/Listener/PacketSocket interfaces
// below rather than through net, though socket/stream's TLS path reads
// and writes the net.Conn that Socket.Conn exposes.
package rawsocket

import (
	"net"
	"time"

	"github.com/nabbar/ntc/errs"
	"github.com/nabbar/ntc/transport"
)

// Direction selects a shutdown half.
type Direction uint8

const (
	DirSend Direction = iota
	DirReceive
	DirBoth
)

// Socket is a connected (or connecting) stream socket primitive.
type Socket interface {
	Descriptor() transport.Descriptor
	LocalEndpoint() transport.Endpoint
	RemoteEndpoint() transport.Endpoint

	Connect(ep transport.Endpoint, deadline time.Time) error

	// Send writes as much of buf as the socket send buffer currently
	// accepts without blocking, returning the byte count and
	// errs.WouldBlock if the buffer is full.
	Send(buf []byte) (int, error)
	// Receive copies available bytes into buf, returning errs.WouldBlock
	// if none are currently available and errs.EOF on peer shutdown.
	Receive(buf []byte) (int, error)

	// WaitReadable/WaitWritable block (up to deadline, zero meaning no
	// deadline) until the descriptor is readable/writable respectively,
	// without consuming any data. This is the reactor's arming
	// primitive.
	WaitReadable(deadline time.Time) error
	WaitWritable(deadline time.Time) error

	SetOption(v transport.OptionValue) error
	GetOption(o transport.Option) (transport.OptionValue, error)

	Shutdown(dir Direction) error
	Close() error

	// Conn exposes the underlying net.Conn for the TLS adapter's
	// handshake, which needs a plain io.ReadWriter during upgrade.
	Conn() net.Conn
}

// Listener is a bound, listening socket primitive accepting new Sockets.
type Listener interface {
	Descriptor() transport.Descriptor
	LocalEndpoint() transport.Endpoint

	Bind(ep transport.Endpoint, reuse bool) error
	Listen(backlog int) error

	// Accept blocks until a connection is available or deadline
	// elapses, returning errs.WouldBlock on deadline expiry.
	Accept(deadline time.Time) (Socket, error)

	WaitAcceptable(deadline time.Time) error

	SetOption(v transport.OptionValue) error
	Close() error
}

// PacketSocket is a connectionless (UDP/unixgram) primitive.
type PacketSocket interface {
	Descriptor() transport.Descriptor
	LocalEndpoint() transport.Endpoint

	Bind(ep transport.Endpoint, reuse bool) error
	Connect(ep transport.Endpoint) error

	SendTo(buf []byte, to transport.Endpoint) (int, error)
	ReceiveFrom(buf []byte) (int, transport.Endpoint, error)

	WaitReadable(deadline time.Time) error
	WaitWritable(deadline time.Time) error

	JoinMulticast(group transport.Endpoint, iface string) error
	LeaveMulticast(group transport.Endpoint, iface string) error
	SetMulticastTTL(ttl int) error
	SetMulticastLoopback(v bool) error

	SetOption(v transport.OptionValue) error
	Close() error
}

// deadlineOrZero converts a zero time.Time (meaning "no deadline") to
// Go's "no deadline" sentinel for net.Conn.SetDeadline.
func deadlineOrZero(d time.Time) time.Time {
	return d
}

func wrapTimeout(err error) error {
	if err == nil {
		return nil
	}
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return errs.New(errs.WouldBlock, "operation timed out")
	}
	return err
}
