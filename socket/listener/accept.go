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

package listener

import (
	"time"

	"github.com/nabbar/ntc/errs"
	"github.com/nabbar/ntc/queue"
	"github.com/nabbar/ntc/socket/stream"
)

// Accept queues an asynchronous accept request, invoking cb with the
// next connection (already wrapped as a *stream.Socket, StateConnected)
// once one is available. Already-accepted, not-yet-taken connections
// are handed out first.
func (l *Listener) Accept(deadline time.Time, greedy bool, cb func(*stream.Socket, error)) (queue.Token, error) {
	if l.State() != StateListening {
		return 0, errs.New(errs.Invalid, "accept invalid from state %s", l.State())
	}

	req := &queue.AcceptRequest{
		Deadline: deadline,
		Token:    queue.NewToken(),
		Greedy:   greedy,
		Callback: func(r queue.AcceptResult) { cb(asStream(r.Conn), r.Err) },
	}
	mark, completion := l.aq.Enqueue(req)
	if l.onAcceptMark != nil && mark != queue.MarkNone {
		l.onAcceptMark(mark)
	}
	if completion != nil {
		queue.DispatchAccept(completion)
	}
	return req.Token, nil
}

// TryAccept is the synchronous variant: it pops an already-accepted
// connection or returns errs.WouldBlock if none is ready.
func (l *Listener) TryAccept() (*stream.Socket, error) {
	if l.State() != StateListening {
		return nil, errs.New(errs.Invalid, "accept invalid from state %s", l.State())
	}
	conn, mark, err := l.aq.TryTake()
	if l.onAcceptMark != nil && mark != queue.MarkNone {
		l.onAcceptMark(mark)
	}
	if err != nil {
		return nil, err
	}
	return asStream(conn), nil
}

// CancelAccept aborts a still-pending accept request, failing its
// callback with errs.Cancelled.
func (l *Listener) CancelAccept(token queue.Token) {
	completion := l.aq.Cancel(token)
	if completion != nil {
		queue.DispatchAccept(completion)
	}
}

func asStream(conn any) *stream.Socket {
	if conn == nil {
		return nil
	}
	s, _ := conn.(*stream.Socket)
	return s
}
