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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ReadQueue", func() {
	It("satisfies a request already pending once enough bytes arrive", func() {
		q := queue.NewReadQueue(10, 100, nil)
		var got queue.ReceiveResult
		cs := q.Enqueue(&queue.ReceiveRequest{MinSize: 3, MaxSize: 3, Callback: func(r queue.ReceiveResult) { got = r }})
		Expect(cs).To(BeEmpty())

		_, cs = q.Fill([]byte("abc"))
		queue.Dispatch(cs)
		Expect(got.Err).ToNot(HaveOccurred())
		Expect(got.Data).To(Equal([]byte("abc")))
	})

	It("satisfies a request immediately if enough bytes are already buffered", func() {
		q := queue.NewReadQueue(10, 100, nil)
		_, _ = q.Fill([]byte("hello"))

		var got queue.ReceiveResult
		cs := q.Enqueue(&queue.ReceiveRequest{MinSize: 5, MaxSize: 5, Callback: func(r queue.ReceiveResult) { got = r }})
		queue.Dispatch(cs)
		Expect(got.Data).To(Equal([]byte("hello")))
	})

	It("leaves a remainder in the buffer when MaxSize is smaller than buffered data", func() {
		q := queue.NewReadQueue(10, 100, nil)
		_, _ = q.Fill([]byte("abcdef"))

		var got queue.ReceiveResult
		cs := q.Enqueue(&queue.ReceiveRequest{MinSize: 3, MaxSize: 3, Callback: func(r queue.ReceiveResult) { got = r }})
		queue.Dispatch(cs)
		Expect(got.Data).To(Equal([]byte("abc")))
		Expect(q.Len()).To(Equal(3))
	})

	It("completes a request with EOF once the peer closes and MinSize cannot be met", func() {
		q := queue.NewReadQueue(10, 100, nil)
		var got queue.ReceiveResult
		_ = q.Enqueue(&queue.ReceiveRequest{MinSize: 10, MaxSize: 10, Callback: func(r queue.ReceiveResult) { got = r }})

		_, _ = q.Fill([]byte("abc"))
		cs := q.MarkEOF()
		queue.Dispatch(cs)

		Expect(errs.Is(got.Err, errs.EOF)).To(BeTrue())
		Expect(got.Data).To(Equal([]byte("abc")))
	})

	It("still satisfies a request the remainder can fill at EOF", func() {
		q := queue.NewReadQueue(10, 100, nil)
		_, _ = q.Fill([]byte("abc"))

		var got queue.ReceiveResult
		_ = q.Enqueue(&queue.ReceiveRequest{MinSize: 3, MaxSize: 3, Callback: func(r queue.ReceiveResult) { got = r }})
		_ = q.MarkEOF()

		Expect(got.Err).ToNot(HaveOccurred())
		Expect(got.Data).To(Equal([]byte("abc")))
	})

	It("reports the HIGH watermark crossing from Fill", func() {
		q := queue.NewReadQueue(2, 4, nil)
		mark, _ := q.Fill([]byte("abcd"))
		Expect(mark).To(Equal(queue.MarkHigh))
	})

	It("TryReceive returns WOULD_BLOCK when not enough bytes are buffered", func() {
		q := queue.NewReadQueue(10, 100, nil)
		buf := make([]byte, 5)
		_, err := q.TryReceive(buf, 5)
		Expect(errs.Is(err, errs.WouldBlock)).To(BeTrue())
	})

	It("TryReceive succeeds once enough bytes are buffered", func() {
		q := queue.NewReadQueue(10, 100, nil)
		_, _ = q.Fill([]byte("abcde"))
		buf := make([]byte, 5)
		n, err := q.TryReceive(buf, 5)
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(Equal(5))
	})

	It("Cancel fails the matching pending request with CANCELLED", func() {
		q := queue.NewReadQueue(10, 100, nil)
		tok := queue.NewToken()
		var got queue.ReceiveResult
		_ = q.Enqueue(&queue.ReceiveRequest{MinSize: 10, MaxSize: 10, Token: tok, Callback: func(r queue.ReceiveResult) { got = r }})

		cs := q.Cancel(tok)
		queue.Dispatch(cs)
		Expect(errs.Is(got.Err, errs.Cancelled)).To(BeTrue())
	})

	It("Reset fails every pending request and clears the buffer", func() {
		q := queue.NewReadQueue(10, 100, nil)
		_, _ = q.Fill([]byte("abc"))

		var got1, got2 queue.ReceiveResult
		_ = q.Enqueue(&queue.ReceiveRequest{MinSize: 10, MaxSize: 10, Callback: func(r queue.ReceiveResult) { got1 = r }})
		_ = q.Enqueue(&queue.ReceiveRequest{MinSize: 20, MaxSize: 20, Callback: func(r queue.ReceiveResult) { got2 = r }})

		boom := errs.New(errs.ConnectionReset, "peer reset")
		cs := q.Reset(boom)
		queue.Dispatch(cs)

		Expect(got1.Err).To(Equal(boom))
		Expect(got2.Err).To(Equal(boom))
		Expect(q.Len()).To(Equal(0))
	})

	It("fails a request with WOULD_BLOCK once its deadline elapses unmet", func() {
		wheel := timer.NewWheel()
		defer wheel.Stop()

		q := queue.NewReadQueue(10, 100, wheel)
		done := make(chan queue.ReceiveResult, 1)
		_ = q.Enqueue(&queue.ReceiveRequest{
			MinSize:  10,
			MaxSize:  10,
			Deadline: time.Now().Add(20 * time.Millisecond),
			Callback: func(r queue.ReceiveResult) { done <- r },
		})

		var got queue.ReceiveResult
		Eventually(done, time.Second).Should(Receive(&got))
		Expect(errs.Is(got.Err, errs.WouldBlock)).To(BeTrue())
	})
})
