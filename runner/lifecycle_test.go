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

package runner_test

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/nabbar/ntc/runner"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Lifecycle", func() {
	Context("Construction", func() {
		It("starts not running with zero uptime", func() {
			r := runner.New(
				func(ctx context.Context) error { return nil },
				func(ctx context.Context) error { return nil },
			)
			Expect(r.IsRunning()).To(BeFalse())
			Expect(r.Uptime()).To(BeZero())
			Expect(r.ErrorsLast()).To(BeNil())
			Expect(r.ErrorsList()).To(BeEmpty())
		})
	})

	Context("Start/Stop", func() {
		It("reports running while the start function blocks", func() {
			x, n := context.WithTimeout(context.Background(), 5*time.Second)
			defer n()

			var running atomic.Bool
			start := func(ctx context.Context) error {
				running.Store(true)
				<-ctx.Done()
				running.Store(false)
				return nil
			}
			stop := func(ctx context.Context) error { return nil }

			r := runner.New(start, stop)
			Expect(r.Start(x)).ToNot(HaveOccurred())

			Eventually(func() bool {
				return running.Load() && r.IsRunning()
			}, time.Second).Should(BeTrue())

			Expect(r.Stop(x)).ToNot(HaveOccurred())
			Eventually(r.IsRunning, time.Second).Should(BeFalse())
		})

		It("stops the previous instance when started again", func() {
			x, n := context.WithTimeout(context.Background(), 5*time.Second)
			defer n()

			var startCount atomic.Int32
			start := func(ctx context.Context) error {
				startCount.Add(1)
				<-ctx.Done()
				return nil
			}
			stop := func(ctx context.Context) error { return nil }

			r := runner.New(start, stop)
			Expect(r.Start(x)).ToNot(HaveOccurred())
			Eventually(r.IsRunning, time.Second).Should(BeTrue())

			Expect(r.Start(x)).ToNot(HaveOccurred())
			Eventually(func() int32 { return startCount.Load() }, time.Second).Should(BeNumerically(">=", 2))

			_ = r.Stop(x)
		})

		It("is idempotent on repeated Stop", func() {
			x, n := context.WithTimeout(context.Background(), 5*time.Second)
			defer n()

			var stopCount atomic.Int32
			start := func(ctx context.Context) error { <-ctx.Done(); return nil }
			stop := func(ctx context.Context) error { stopCount.Add(1); return nil }

			r := runner.New(start, stop)
			_ = r.Start(x)
			Eventually(r.IsRunning, time.Second).Should(BeTrue())

			Expect(r.Stop(x)).ToNot(HaveOccurred())
			Expect(r.Stop(x)).ToNot(HaveOccurred())
			Expect(stopCount.Load()).To(BeNumerically("==", 1))
		})
	})

	Context("Restart", func() {
		It("relaunches the start function", func() {
			x, n := context.WithTimeout(context.Background(), 5*time.Second)
			defer n()

			var startCount atomic.Int32
			start := func(ctx context.Context) error {
				startCount.Add(1)
				<-ctx.Done()
				return nil
			}
			stop := func(ctx context.Context) error { return nil }

			r := runner.New(start, stop)
			_ = r.Start(x)
			Eventually(r.IsRunning, time.Second).Should(BeTrue())

			initial := startCount.Load()
			Expect(r.Restart(x)).ToNot(HaveOccurred())
			Eventually(func() int32 { return startCount.Load() }, time.Second).Should(BeNumerically(">", initial))

			_ = r.Stop(x)
		})
	})

	Context("Uptime", func() {
		It("increases while running and resets after stop", func() {
			x, n := context.WithTimeout(context.Background(), 5*time.Second)
			defer n()

			start := func(ctx context.Context) error { <-ctx.Done(); return nil }
			stop := func(ctx context.Context) error { return nil }

			r := runner.New(start, stop)
			_ = r.Start(x)
			Eventually(r.IsRunning, time.Second).Should(BeTrue())

			time.Sleep(20 * time.Millisecond)
			u1 := r.Uptime()
			Expect(u1).To(BeNumerically(">", 0))

			time.Sleep(20 * time.Millisecond)
			Expect(r.Uptime()).To(BeNumerically(">", u1))

			_ = r.Stop(x)
			Eventually(r.Uptime, time.Second).Should(BeZero())
		})
	})

	Context("Error tracking", func() {
		It("captures and clears errors from the start function", func() {
			x, n := context.WithTimeout(context.Background(), 5*time.Second)
			defer n()

			boom := errors.New("boom")
			start := func(ctx context.Context) error { return boom }
			stop := func(ctx context.Context) error { return nil }

			r := runner.New(start, stop)
			_ = r.Start(x)

			Eventually(func() error { return r.ErrorsLast() }, time.Second).Should(MatchError(boom))
			Expect(r.ErrorsList()).To(HaveLen(1))
		})

		It("reports invalid start/stop function errors instead of panicking", func() {
			x, n := context.WithTimeout(context.Background(), 5*time.Second)
			defer n()

			r := runner.New(nil, nil)
			Expect(r.Start(x)).ToNot(HaveOccurred())

			Eventually(func() error { return r.ErrorsLast() }, time.Second).Should(HaveOccurred())
			Expect(r.ErrorsLast().Error()).To(ContainSubstring("invalid start function"))

			Expect(r.Stop(x)).ToNot(HaveOccurred())
		})
	})
})
