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

// Package ratelimit implements the token bucket stream sockets consult
// before moving bytes between a queue and the socket buffer, on either
// the read or the write direction.
package ratelimit

import (
	"sync"
	"time"
)

// Bucket is a byte-denominated token bucket: capacity tokens refilled
// at rate tokens/second, consumed by Consume.
type Bucket struct {
	mu         sync.Mutex
	capacity   float64
	rate       float64 // tokens per second
	tokens     float64
	lastUpdate time.Time
}

// NewBucket creates a Bucket starting full.
func NewBucket(capacity, ratePerSecond float64) *Bucket {
	return &Bucket{
		capacity:   capacity,
		rate:       ratePerSecond,
		tokens:     capacity,
		lastUpdate: time.Now(),
	}
}

// Unlimited returns a Bucket that never throttles, for sockets opened
// without a rate-limit configured.
func Unlimited() *Bucket {
	return NewBucket(0, 0)
}

func (b *Bucket) unlimited() bool { return b.rate <= 0 && b.capacity <= 0 }

func (b *Bucket) refill(now time.Time) {
	if b.unlimited() {
		return
	}
	elapsed := now.Sub(b.lastUpdate).Seconds()
	if elapsed <= 0 {
		return
	}
	b.tokens += elapsed * b.rate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.lastUpdate = now
}

// Consume attempts to withdraw n bytes worth of tokens. If allowed, it
// returns (true, 0). Otherwise it returns (false, wait), the estimated
// duration until n tokens will be available.
func (b *Bucket) Consume(n float64) (allowed bool, wait time.Duration) {
	if b.unlimited() {
		return true, 0
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.refill(now)

	if n <= b.tokens {
		b.tokens -= n
		return true, 0
	}

	deficit := n - b.tokens
	secs := deficit / b.rate
	return false, time.Duration(secs * float64(time.Second))
}

// Available reports the number of whole bytes currently withdrawable
// without blocking.
func (b *Bucket) Available() int64 {
	if b.unlimited() {
		return 1 << 40
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refill(time.Now())
	return int64(b.tokens)
}
