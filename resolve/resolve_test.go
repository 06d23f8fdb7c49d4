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

package resolve_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/ntc/resolve"
)

func TestResolve(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Resolve Suite")
}

var _ = Describe("Resolver", func() {
	It("short-circuits a literal IP without touching the resolver or cache", func() {
		r, err := resolve.New(0, time.Minute)
		Expect(err).NotTo(HaveOccurred())

		eps, err := r.Resolve(context.Background(), "", "127.0.0.1", 9000)
		Expect(err).NotTo(HaveOccurred())
		Expect(eps).To(HaveLen(1))
		Expect(eps[0].Port).To(Equal(uint16(9000)))
		Expect(eps[0].String()).To(Equal("127.0.0.1:9000"))
	})

	It("resolves localhost to at least one loopback endpoint", func() {
		r, err := resolve.New(16, time.Minute)
		Expect(err).NotTo(HaveOccurred())

		eps, err := r.Resolve(context.Background(), "ip4", "localhost", 80)
		Expect(err).NotTo(HaveOccurred())
		Expect(eps).NotTo(BeEmpty())
		for _, e := range eps {
			Expect(e.Port).To(Equal(uint16(80)))
		}
	})

	It("Forget evicts a cached entry without error even if absent", func() {
		r, err := resolve.New(4, time.Minute)
		Expect(err).NotTo(HaveOccurred())
		r.Forget("never-cached.example")
	})
})
