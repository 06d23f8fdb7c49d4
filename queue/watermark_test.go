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
	"testing"

	"github.com/nabbar/ntc/queue"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestQueue(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Queue Suite")
}

var _ = Describe("Watermark", func() {
	It("fires HIGH once size reaches the high threshold", func() {
		w := queue.NewWatermark(10, 100)
		Expect(w.Update(50)).To(Equal(queue.MarkNone))
		Expect(w.Update(100)).To(Equal(queue.MarkHigh))
		Expect(w.Breached()).To(BeTrue())
	})

	It("does not refire HIGH while already breached", func() {
		w := queue.NewWatermark(10, 100)
		_ = w.Update(100)
		Expect(w.Update(150)).To(Equal(queue.MarkNone))
	})

	It("fires LOW only after a matching HIGH, once size drops to the low threshold", func() {
		w := queue.NewWatermark(10, 100)
		_ = w.Update(100)
		Expect(w.Update(50)).To(Equal(queue.MarkNone))
		Expect(w.Update(10)).To(Equal(queue.MarkLow))
		Expect(w.Breached()).To(BeFalse())
	})

	It("never fires LOW without a prior HIGH", func() {
		w := queue.NewWatermark(10, 100)
		Expect(w.Update(5)).To(Equal(queue.MarkNone))
	})

	It("treats High==0 as unbounded, never firing HIGH", func() {
		w := queue.NewWatermark(10, 0)
		Expect(w.Update(1 << 30)).To(Equal(queue.MarkNone))
	})

	It("alternates strictly across repeated breach/recover cycles", func() {
		w := queue.NewWatermark(10, 100)
		Expect(w.Update(100)).To(Equal(queue.MarkHigh))
		Expect(w.Update(10)).To(Equal(queue.MarkLow))
		Expect(w.Update(100)).To(Equal(queue.MarkHigh))
		Expect(w.Update(10)).To(Equal(queue.MarkLow))
	})
})

var _ = Describe("Token", func() {
	It("mints process-unique, non-zero tokens", func() {
		a := queue.NewToken()
		b := queue.NewToken()
		Expect(a).ToNot(Equal(queue.Token(0)))
		Expect(a).ToNot(Equal(b))
	})
})
