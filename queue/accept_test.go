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

package queue_test

import (
	"time"

	"github.com/nabbar/ntc/errs"
	"github.com/nabbar/ntc/queue"
	"github.com/nabbar/ntc/timer"
	"github.com/nabbar/ntc/transport"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AcceptQueue", func() {
	It("hands an offered connection straight to a pending request", func() {
		q := queue.NewAcceptQueue(4, 64, nil)
		var got queue.AcceptResult
		_, _ = q.Enqueue(&queue.AcceptRequest{Callback: func(r queue.AcceptResult) { got = r }})

		mark, c := q.Offer("conn-1")
		Expect(mark).To(Equal(queue.MarkNone))
		queue.DispatchAccept(c)
		Expect(got.Conn).To(Equal("conn-1"))
		Expect(q.Len()).To(Equal(0))
	})

	It("queues an offered connection when no request is pending", func() {
		q := queue.NewAcceptQueue(4, 64, nil)
		mark, c := q.Offer("conn-1")
		Expect(c).To(BeNil())
		Expect(mark).To(Equal(queue.MarkNone))
		Expect(q.Len()).To(Equal(1))
	})

	It("reports the HIGH watermark once queued connections reach it", func() {
		q := queue.NewAcceptQueue(1, 2, nil)
		_, _ = q.Offer("a")
		mark, _ := q.Offer("b")
		Expect(mark).To(Equal(queue.MarkHigh))
	})

	It("TryTake pops a ready connection", func() {
		q := queue.NewAcceptQueue(4, 64, nil)
		_, _ = q.Offer("conn-1")

		conn, _, err := q.TryTake()
		Expect(err).ToNot(HaveOccurred())
		Expect(conn).To(Equal("conn-1"))
	})

	It("TryTake returns WOULD_BLOCK when nothing is ready", func() {
		q := queue.NewAcceptQueue(4, 64, nil)
		_, _, err := q.TryTake()
		Expect(errs.Is(err, errs.WouldBlock)).To(BeTrue())
	})

	It("Enqueue services immediately against an already-ready connection", func() {
		q := queue.NewAcceptQueue(4, 64, nil)
		_, _ = q.Offer("conn-1")

		var got queue.AcceptResult
		mark, c := q.Enqueue(&queue.AcceptRequest{Callback: func(r queue.AcceptResult) { got = r }})
		Expect(mark).To(Equal(queue.MarkNone))
		queue.DispatchAccept(c)
		Expect(got.Conn).To(Equal("conn-1"))
	})

	It("Cancel fails the matching pending request with CANCELLED", func() {
		q := queue.NewAcceptQueue(4, 64, nil)
		tok := queue.NewToken()
		var got queue.AcceptResult
		_, _ = q.Enqueue(&queue.AcceptRequest{Token: tok, Callback: func(r queue.AcceptResult) { got = r }})

		c := q.Cancel(tok)
		Expect(c).ToNot(BeNil())
		queue.DispatchAccept(c)
		Expect(errs.Is(got.Err, errs.Cancelled)).To(BeTrue())
	})

	It("Reset fails pending requests and returns unretrieved connections", func() {
		q := queue.NewAcceptQueue(4, 64, nil)
		var got queue.AcceptResult
		_, _ = q.Enqueue(&queue.AcceptRequest{Callback: func(r queue.AcceptResult) { got = r }})
		_, _ = q.Offer("conn-1")
		_, _ = q.Offer("conn-2")

		dropped := q.Reset(errs.New(errs.ConnectionDead, "listener closed"))
		Expect(errs.Is(got.Err, errs.ConnectionDead)).To(BeTrue())
		Expect(dropped).To(ConsistOf("conn-1", "conn-2"))
	})

	It("fails a pending accept with WOULD_BLOCK once its deadline elapses", func() {
		wheel := timer.NewWheel()
		defer wheel.Stop()

		q := queue.NewAcceptQueue(4, 64, wheel)
		done := make(chan queue.AcceptResult, 1)
		_, _ = q.Enqueue(&queue.AcceptRequest{
			Deadline: time.Now().Add(20 * time.Millisecond),
			Callback: func(r queue.AcceptResult) { done <- r },
		})

		var got queue.AcceptResult
		Eventually(done, time.Second).Should(Receive(&got))
		Expect(errs.Is(got.Err, errs.WouldBlock)).To(BeTrue())
	})
})

var _ = Describe("ConnectState", func() {
	It("allows retries up to RetryCount", func() {
		cs := queue.NewConnectState(transport.Endpoint{}, "", queue.ConnectOptions{RetryOnFail: true, RetryCount: 2}, nil)
		Expect(cs.ShouldRetry()).To(BeTrue())
		cs.Attempt = 2
		Expect(cs.ShouldRetry()).To(BeFalse())
	})

	It("never retries when RetryOnFail is false", func() {
		cs := queue.NewConnectState(transport.Endpoint{}, "", queue.ConnectOptions{}, nil)
		Expect(cs.ShouldRetry()).To(BeFalse())
	})

	It("retries without bound when RetryCount is zero", func() {
		cs := queue.NewConnectState(transport.Endpoint{}, "", queue.ConnectOptions{RetryOnFail: true}, nil)
		cs.Attempt = 100
		Expect(cs.ShouldRetry()).To(BeTrue())
	})

	It("reports DeadlineExceeded once now reaches the deadline", func() {
		d := time.Now().Add(10 * time.Millisecond)
		cs := queue.NewConnectState(transport.Endpoint{}, "", queue.ConnectOptions{Deadline: d}, nil)
		Expect(cs.DeadlineExceeded(d.Add(-time.Millisecond))).To(BeFalse())
		Expect(cs.DeadlineExceeded(d.Add(time.Millisecond))).To(BeTrue())
	})

	It("never exceeds a zero (unset) deadline", func() {
		cs := queue.NewConnectState(transport.Endpoint{}, "", queue.ConnectOptions{}, nil)
		Expect(cs.DeadlineExceeded(time.Now().Add(24 * time.Hour))).To(BeFalse())
	})
})
