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

var _ = Describe("WriteQueue", func() {
	It("tracks total pending bytes across entries", func() {
		q := queue.NewWriteQueue(10, 100, nil)
		_ = q.Enqueue(&queue.SendEntry{Payload: transport.ConstBuffer([]byte("abc"))})
		_ = q.Enqueue(&queue.SendEntry{Payload: transport.ConstBuffer([]byte("de"))})
		Expect(q.TotalBytes()).To(Equal(int64(5)))
		Expect(q.Len()).To(Equal(2))
	})

	It("completes the head entry and pops it once fully advanced", func() {
		q := queue.NewWriteQueue(10, 100, nil)
		var got queue.SendResult
		_ = q.Enqueue(&queue.SendEntry{
			Payload:  transport.ConstBuffer([]byte("abc")),
			Callback: func(r queue.SendResult) { got = r },
		})

		mark := q.Advance(3)
		Expect(mark).To(Equal(queue.MarkNone))
		Expect(got.Err).ToNot(HaveOccurred())
		Expect(got.Bytes).To(Equal(3))
		Expect(q.Len()).To(Equal(0))
	})

	It("keeps the entry at the head across partial Advance calls", func() {
		q := queue.NewWriteQueue(10, 100, nil)
		called := false
		_ = q.Enqueue(&queue.SendEntry{
			Payload:  transport.ConstBuffer([]byte("abcdef")),
			Callback: func(r queue.SendResult) { called = true },
		})

		_ = q.Advance(3)
		Expect(called).To(BeFalse())
		Expect(q.Front().Remaining()).To(Equal(int64(3)))

		_ = q.Advance(3)
		Expect(called).To(BeTrue())
	})

	It("reports the HIGH watermark crossing from Enqueue", func() {
		q := queue.NewWriteQueue(2, 4, nil)
		mark := q.Enqueue(&queue.SendEntry{Payload: transport.ConstBuffer([]byte("abcd"))})
		Expect(mark).To(Equal(queue.MarkHigh))
	})

	It("Cancel fails the matching entry with CANCELLED and drops it from the queue", func() {
		q := queue.NewWriteQueue(10, 100, nil)
		tok := queue.NewToken()
		var got queue.SendResult
		_ = q.Enqueue(&queue.SendEntry{
			Payload:  transport.ConstBuffer([]byte("abc")),
			Token:    tok,
			Callback: func(r queue.SendResult) { got = r },
		})

		_ = q.Cancel(tok)
		Expect(errs.Is(got.Err, errs.Cancelled)).To(BeTrue())
		Expect(q.Len()).To(Equal(0))
	})

	It("Reset fails every queued entry and empties the queue", func() {
		q := queue.NewWriteQueue(10, 100, nil)
		var got1, got2 queue.SendResult
		_ = q.Enqueue(&queue.SendEntry{Payload: transport.ConstBuffer([]byte("a")), Callback: func(r queue.SendResult) { got1 = r }})
		_ = q.Enqueue(&queue.SendEntry{Payload: transport.ConstBuffer([]byte("b")), Callback: func(r queue.SendResult) { got2 = r }})

		boom := errs.New(errs.ConnectionDead, "closed")
		q.Reset(boom)

		Expect(got1.Err).To(Equal(boom))
		Expect(got2.Err).To(Equal(boom))
		Expect(q.Len()).To(Equal(0))
		Expect(q.TotalBytes()).To(Equal(int64(0)))
	})

	It("fails an entry with WOULD_BLOCK if its deadline elapses before any byte sends", func() {
		wheel := timer.NewWheel()
		defer wheel.Stop()

		q := queue.NewWriteQueue(10, 100, wheel)
		done := make(chan queue.SendResult, 1)
		_ = q.Enqueue(&queue.SendEntry{
			Payload:  transport.ConstBuffer([]byte("abc")),
			Deadline: time.Now().Add(20 * time.Millisecond),
			Callback: func(r queue.SendResult) { done <- r },
		})

		var got queue.SendResult
		Eventually(done, time.Second).Should(Receive(&got))
		Expect(errs.Is(got.Err, errs.WouldBlock)).To(BeTrue())
		Expect(q.Len()).To(Equal(0))
	})

	It("does not fail an entry on deadline once at least one byte has sent", func() {
		wheel := timer.NewWheel()
		defer wheel.Stop()

		q := queue.NewWriteQueue(10, 100, wheel)
		called := false
		_ = q.Enqueue(&queue.SendEntry{
			Payload:  transport.ConstBuffer([]byte("abc")),
			Deadline: time.Now().Add(20 * time.Millisecond),
			Callback: func(r queue.SendResult) { called = true },
		})

		_ = q.Advance(1)
		time.Sleep(40 * time.Millisecond)
		Expect(called).To(BeFalse())
		Expect(q.Len()).To(Equal(1))
	})
})
