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

package runner

import (
	"context"

	"github.com/nabbar/ntc/engine"
)

// FromEngine wraps eng's blocking Run/Stop pair into a Lifecycle: Start's
// ctx cancellation is translated into a call to eng.Stop(), since
// engine.Engine.Run takes no context of its own.
func FromEngine(eng engine.Engine) Lifecycle {
	start := func(ctx context.Context) error {
		stopWatch := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				_ = eng.Stop()
			case <-stopWatch:
			}
		}()
		err := eng.Run()
		close(stopWatch)
		return err
	}
	stop := func(ctx context.Context) error {
		return eng.Stop()
	}
	return New(start, stop)
}
