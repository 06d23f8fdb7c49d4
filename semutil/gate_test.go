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

package semutil_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nabbar/ntc/semutil"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSemutil(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Semutil Suite")
}

var _ = Describe("SetSimultaneous", func() {
	It("clamps zero and negative values to MaxSimultaneous", func() {
		Expect(semutil.SetSimultaneous(0)).To(Equal(int64(semutil.MaxSimultaneous())))
		Expect(semutil.SetSimultaneous(-5)).To(Equal(int64(semutil.MaxSimultaneous())))
	})

	It("clamps values above MaxSimultaneous", func() {
		Expect(semutil.SetSimultaneous(semutil.MaxSimultaneous() + 100)).To(Equal(int64(semutil.MaxSimultaneous())))
	})

	It("passes through an in-range value", func() {
		Expect(semutil.SetSimultaneous(1)).To(Equal(int64(1)))
	})
})

var _ = Describe("Gate", func() {
	It("bounds concurrent workers to its width", func() {
		g := semutil.New(context.Background(), 2)
		var running, maxSeen atomic.Int32

		for i := 0; i < 10; i++ {
			Expect(g.NewWorker()).ToNot(HaveOccurred())
			go func() {
				defer g.DeferWorker()
				n := running.Add(1)
				for {
					cur := maxSeen.Load()
					if n <= cur || maxSeen.CompareAndSwap(cur, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				running.Add(-1)
			}()
		}

		Expect(g.WaitAll()).ToNot(HaveOccurred())
		Expect(maxSeen.Load()).To(BeNumerically("<=", 2))
	})

	It("never blocks NewWorker on an unlimited gate", func() {
		g := semutil.New(context.Background(), -1)
		for i := 0; i < 5; i++ {
			Expect(g.NewWorker()).ToNot(HaveOccurred())
		}
		for i := 0; i < 5; i++ {
			g.DeferWorker()
		}
		Expect(g.WaitAll()).ToNot(HaveOccurred())
		Expect(g.Weighted()).To(Equal(int64(-1)))
	})

	It("reports the configured width, defaulting 0 to MaxSimultaneous", func() {
		g := semutil.New(context.Background(), 0)
		Expect(g.Weighted()).To(Equal(int64(semutil.MaxSimultaneous())))
	})

	It("NewWorkerTry reports false once the gate is saturated", func() {
		g := semutil.New(context.Background(), 1)
		Expect(g.NewWorkerTry()).To(BeTrue())
		Expect(g.NewWorkerTry()).To(BeFalse())
		g.DeferWorker()
	})

	It("unblocks a pending NewWorker when DeferMain cancels the gate", func() {
		g := semutil.New(context.Background(), 1)
		Expect(g.NewWorkerTry()).To(BeTrue())

		errCh := make(chan error, 1)
		go func() { errCh <- g.NewWorker() }()

		time.Sleep(10 * time.Millisecond)
		g.DeferMain()

		Eventually(errCh, time.Second).Should(Receive(HaveOccurred()))
	})

	It("derives a child sharing its width", func() {
		g := semutil.New(context.Background(), 4)
		child := g.New()
		Expect(child.Weighted()).To(Equal(int64(4)))
	})
})
