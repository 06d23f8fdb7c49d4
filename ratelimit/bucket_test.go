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

package ratelimit_test

import (
	"testing"
	"time"

	"github.com/nabbar/ntc/ratelimit"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRatelimit(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Ratelimit Suite")
}

var _ = Describe("Bucket", func() {
	Context("Unlimited", func() {
		It("never throttles", func() {
			b := ratelimit.Unlimited()
			allowed, wait := b.Consume(1 << 30)
			Expect(allowed).To(BeTrue())
			Expect(wait).To(BeZero())
			Expect(b.Available()).To(BeNumerically(">", 0))
		})
	})

	Context("Consume", func() {
		It("allows consumption up to capacity", func() {
			b := ratelimit.NewBucket(100, 10)
			allowed, wait := b.Consume(100)
			Expect(allowed).To(BeTrue())
			Expect(wait).To(BeZero())
		})

		It("refuses consumption beyond available tokens and estimates a wait", func() {
			b := ratelimit.NewBucket(10, 10)
			_, _ = b.Consume(10)

			allowed, wait := b.Consume(10)
			Expect(allowed).To(BeFalse())
			Expect(wait).To(BeNumerically(">", 0))
		})

		It("refills over time up to capacity", func() {
			b := ratelimit.NewBucket(10, 1000)
			_, _ = b.Consume(10)

			Eventually(func() bool {
				allowed, _ := b.Consume(5)
				return allowed
			}, time.Second, 5*time.Millisecond).Should(BeTrue())
		})

		It("never exceeds capacity after a long idle period", func() {
			b := ratelimit.NewBucket(10, 1000)
			time.Sleep(50 * time.Millisecond)
			Expect(b.Available()).To(BeNumerically("<=", 10))
		})
	})
})
