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

// Package metrics publishes this module's operational counters and
// gauges (queue depths, watermark crossings, accept/connect/send/
// receive latency, rate-limiter throttling) to a Prometheus registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nabbar/ntc/queue"
)

// Registry is one named collection of this module's metrics; New builds
// a fresh one on every call, so each engine instance gets its own.
type Registry struct {
	reg *prometheus.Registry

	QueueDepth          *prometheus.GaugeVec
	WatermarkCrossings  *prometheus.CounterVec
	AcceptLatency       prometheus.Histogram
	ConnectLatency      prometheus.Histogram
	SendLatency         prometheus.Histogram
	ReceiveLatency      prometheus.Histogram
	RateLimiterThrottle *prometheus.CounterVec
}

// New builds a fresh Registry with every metric registered against its
// own *prometheus.Registry (never the global DefaultRegisterer, so
// multiple engines in one process do not collide on metric names).
func New(namespace string) *Registry {
	r := &Registry{reg: prometheus.NewRegistry()}

	r.QueueDepth = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_depth",
		Help:      "Current number of entries queued per queue kind (read, write, accept).",
	}, []string{"queue"})

	r.WatermarkCrossings = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "watermark_crossings_total",
		Help:      "Count of low/high watermark transitions per queue kind.",
	}, []string{"queue", "mark"})

	r.AcceptLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "accept_latency_seconds",
		Help:      "Time from SubmitAccept/Accept request to a connection being handed to its caller.",
		Buckets:   prometheus.DefBuckets,
	})
	r.ConnectLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "connect_latency_seconds",
		Help:      "Time from Connect call to the socket reaching StateConnected.",
		Buckets:   prometheus.DefBuckets,
	})
	r.SendLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "send_latency_seconds",
		Help:      "Time from a send entry being queued to it being fully flushed.",
		Buckets:   prometheus.DefBuckets,
	})
	r.ReceiveLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "receive_latency_seconds",
		Help:      "Time from a receive request being queued to its completion callback firing.",
		Buckets:   prometheus.DefBuckets,
	})

	r.RateLimiterThrottle = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ratelimit_throttled_total",
		Help:      "Count of send/receive operations delayed by a ratelimit.Bucket.",
	}, []string{"direction"})

	r.reg.MustRegister(
		r.QueueDepth,
		r.WatermarkCrossings,
		r.AcceptLatency,
		r.ConnectLatency,
		r.SendLatency,
		r.ReceiveLatency,
		r.RateLimiterThrottle,
	)
	return r
}

// Registerer exposes the underlying *prometheus.Registry so an HTTP
// handler (promhttp.HandlerFor) can serve it.
func (r *Registry) Registerer() *prometheus.Registry { return r.reg }

// ObserveQueueMark updates QueueDepth and WatermarkCrossings from a
// queue.Mark returned by an Enqueue/Advance/Fill call.
func (r *Registry) ObserveQueueMark(queueName string, depth uint64, mark queue.Mark) {
	r.QueueDepth.WithLabelValues(queueName).Set(float64(depth))
	switch mark {
	case queue.MarkHigh:
		r.WatermarkCrossings.WithLabelValues(queueName, "high").Inc()
	case queue.MarkLow:
		r.WatermarkCrossings.WithLabelValues(queueName, "low").Inc()
	}
}

// ObserveThrottle records one rate-limiter-induced delay for direction
// ("send" or "receive").
func (r *Registry) ObserveThrottle(direction string) {
	r.RateLimiterThrottle.WithLabelValues(direction).Inc()
}

// CountMark increments WatermarkCrossings for mark without touching
// QueueDepth, for callers (e.g. a watermark callback) that only learn
// of the crossing itself, never the queue's current depth.
func (r *Registry) CountMark(queueName string, mark queue.Mark) {
	switch mark {
	case queue.MarkHigh:
		r.WatermarkCrossings.WithLabelValues(queueName, "high").Inc()
	case queue.MarkLow:
		r.WatermarkCrossings.WithLabelValues(queueName, "low").Inc()
	}
}
