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
	"time"

	"github.com/nabbar/ntc/errs"
	"github.com/nabbar/ntc/transport"
)

type listener struct {
	ln   net.Listener
	desc transport.Descriptor
	ep   transport.Endpoint
}

// Listen opens and binds a listening socket for the given transport.
func Listen(network string, ep transport.Endpoint, backlog int) (Listener, error) {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(nil, network, ep.String())
	if err != nil {
		return nil, errs.Wrap(errs.ResourceLimit, err, "listen failed")
	}
	return &listener{ln: ln, desc: nextDescriptor(), ep: ep}, nil
}

func (l *listener) Descriptor() transport.Descriptor { return l.desc }
func (l *listener) LocalEndpoint() transport.Endpoint { return addrToEndpoint(l.ln.Addr()) }

func (l *listener) Bind(ep transport.Endpoint, reuse bool) error {
	return errs.New(errs.Invalid, "listener already bound; use Listen to bind+listen together")
}

func (l *listener) Listen(backlog int) error { return nil }

func (l *listener) Accept(deadline time.Time) (Socket, error) {
	type deadlineListener interface {
		Accept() (net.Conn, error)
		SetDeadline(time.Time) error
	}
	if dl, ok := l.ln.(deadlineListener); ok {
		d := deadline
		if d.IsZero() {
			d = time.Now().Add(24 * time.Hour)
		}
		if err := dl.SetDeadline(d); err != nil {
			return nil, errs.Wrap(errs.Invalid, err, "set accept deadline")
		}
	}
	conn, err := l.ln.Accept()
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, errs.New(errs.WouldBlock, "no incoming connection")
		}
		return nil, errs.Wrap(errs.ResourceLimit, err, "accept failed")
	}
	return NewStream(conn), nil
}

func (l *listener) WaitAcceptable(deadline time.Time) error {
	type deadlineListener interface{ SetDeadline(time.Time) error }
	if dl, ok := l.ln.(deadlineListener); ok {
		d := deadline
		if d.IsZero() {
			d = time.Now().Add(24 * time.Hour)
		}
		_ = dl.SetDeadline(d)
	}
	return nil
}

func (l *listener) SetOption(v transport.OptionValue) error {
	return applyListenerOption(l.ln, v)
}

func (l *listener) Close() error { return l.ln.Close() }
