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
	"io"
	"net"
	"sync/atomic"
	"time"

	"github.com/nabbar/ntc/errs"
	"github.com/nabbar/ntc/transport"
)

var descSeq int64

func nextDescriptor() transport.Descriptor {
	return transport.Descriptor(atomic.AddInt64(&descSeq, 1))
}

type stream struct {
	conn net.Conn
	desc transport.Descriptor
	opts map[transport.Option]transport.OptionValue
}

// NewStream wraps an already-established net.Conn (e.g. from Dial or
// Accept) as a Socket.
func NewStream(conn net.Conn) Socket {
	return &stream{conn: conn, desc: nextDescriptor(), opts: map[transport.Option]transport.OptionValue{}}
}

// Dial opens a new stream socket and connects it, the non-blocking
// connect() primitive stream sockets build retry/deadline logic atop.
func Dial(network string, ep transport.Endpoint, deadline time.Time) (Socket, error) {
	d := net.Dialer{}
	if !deadline.IsZero() {
		d.Deadline = deadline
	}
	conn, err := d.Dial(network, ep.String())
	if err != nil {
		return nil, wrapDialErr(err)
	}
	return NewStream(conn), nil
}

func wrapDialErr(err error) error {
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return errs.Wrap(errs.TimedOut, err, "connect deadline exceeded")
	}
	return errs.Wrap(errs.ConnectionDead, err, "connect failed")
}

func (s *stream) Descriptor() transport.Descriptor { return s.desc }

func (s *stream) LocalEndpoint() transport.Endpoint  { return addrToEndpoint(s.conn.LocalAddr()) }
func (s *stream) RemoteEndpoint() transport.Endpoint { return addrToEndpoint(s.conn.RemoteAddr()) }

func (s *stream) Connect(ep transport.Endpoint, deadline time.Time) error {
	return errs.New(errs.Invalid, "stream already open; use Dial to connect a new socket")
}

func (s *stream) Send(buf []byte) (int, error) {
	if err := s.conn.SetWriteDeadline(time.Now().Add(50 * time.Millisecond)); err != nil {
		return 0, errs.Wrap(errs.Invalid, err, "set write deadline")
	}
	n, err := s.conn.Write(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return n, errs.New(errs.WouldBlock, "send buffer full")
		}
		return n, classifyIOErr(err)
	}
	return n, nil
}

func (s *stream) Receive(buf []byte) (int, error) {
	if err := s.conn.SetReadDeadline(time.Now().Add(50 * time.Millisecond)); err != nil {
		return 0, errs.Wrap(errs.Invalid, err, "set read deadline")
	}
	n, err := s.conn.Read(buf)
	if err != nil {
		if err == io.EOF {
			return n, errs.New(errs.EOF, "peer closed connection")
		}
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return n, errs.New(errs.WouldBlock, "no data available")
		}
		return n, classifyIOErr(err)
	}
	return n, nil
}

func classifyIOErr(err error) error {
	if err == nil {
		return nil
	}
	if opErr, ok := err.(*net.OpError); ok {
		if opErr.Timeout() {
			return errs.New(errs.WouldBlock, "operation timed out")
		}
	}
	return errs.Wrap(errs.ConnectionReset, err, "io error")
}

func (s *stream) WaitReadable(deadline time.Time) error {
	return pollReadable(s.conn, deadline)
}

func (s *stream) WaitWritable(deadline time.Time) error {
	return pollWritable(s.conn, deadline)
}

func (s *stream) SetOption(v transport.OptionValue) error {
	if err := applySocketOption(s.conn, v); err != nil {
		return err
	}
	s.opts[v.Option] = v
	return nil
}

func (s *stream) GetOption(o transport.Option) (transport.OptionValue, error) {
	if v, ok := s.opts[o]; ok {
		return v, nil
	}
	return transport.OptionValue{}, errs.New(errs.Invalid, "option not set")
}

func (s *stream) Shutdown(dir Direction) error {
	type closeWriter interface{ CloseWrite() error }
	type closeReader interface{ CloseRead() error }

	var err error
	if dir == DirSend || dir == DirBoth {
		if cw, ok := s.conn.(closeWriter); ok {
			err = cw.CloseWrite()
		}
	}
	if dir == DirReceive || dir == DirBoth {
		if cr, ok := s.conn.(closeReader); ok {
			if e := cr.CloseRead(); e != nil && err == nil {
				err = e
			}
		}
	}
	if err != nil {
		return errs.Wrap(errs.Invalid, err, "shutdown failed")
	}
	return nil
}

func (s *stream) Close() error {
	return s.conn.Close()
}

func (s *stream) Conn() net.Conn { return s.conn }

func addrToEndpoint(a net.Addr) transport.Endpoint {
	if a == nil {
		return transport.Endpoint{}
	}
	switch addr := a.(type) {
	case *net.TCPAddr:
		dom := transport.DomainIPv4
		if addr.IP.To4() == nil {
			dom = transport.DomainIPv6
		}
		return transport.NewIPEndpoint(dom, addr.IP.String(), uint16(addr.Port), addr.Zone)
	case *net.UDPAddr:
		dom := transport.DomainIPv4
		if addr.IP.To4() == nil {
			dom = transport.DomainIPv6
		}
		return transport.NewIPEndpoint(dom, addr.IP.String(), uint16(addr.Port), addr.Zone)
	case *net.UnixAddr:
		return transport.NewLocalEndpoint(addr.Name)
	default:
		return transport.Endpoint{}
	}
}
