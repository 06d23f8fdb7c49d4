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

// Package resolve turns a hostname into the transport.Endpoint values
// socket/stream's Connect needs, caching results so a connect-heavy
// workload does not repeat a DNS round trip for every attempt.
package resolve

import (
	"context"
	"net"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/nabbar/ntc/errs"
	"github.com/nabbar/ntc/transport"
)

type cacheEntry struct {
	endpoints []transport.Endpoint
	expiresAt time.Time
}

// Resolver wraps a *net.Resolver with a bounded, TTL-expiring cache.
type Resolver struct {
	res   *net.Resolver
	cache *lru.Cache
	ttl   time.Duration
}

// New creates a Resolver backed by net.DefaultResolver, caching up to
// size distinct hostnames for ttl. A size of zero disables caching.
func New(size int, ttl time.Duration) (*Resolver, error) {
	r := &Resolver{res: net.DefaultResolver, ttl: ttl}
	if size > 0 {
		c, err := lru.New(size)
		if err != nil {
			return nil, errs.Wrap(errs.ResourceLimit, err, "create resolver cache")
		}
		r.cache = c
	}
	return r, nil
}

// Resolve looks up host and pairs every returned address with port,
// preferring cached results that have not yet expired. network selects
// the address family filter ("ip", "ip4", "ip6"); "" means "ip".
func (r *Resolver) Resolve(ctx context.Context, network, host string, port uint16) ([]transport.Endpoint, error) {
	if ip := net.ParseIP(host); ip != nil {
		return []transport.Endpoint{endpointFor(ip, port)}, nil
	}

	if r.cache != nil {
		if v, ok := r.cache.Get(host); ok {
			e := v.(cacheEntry)
			if time.Now().Before(e.expiresAt) {
				return withPort(e.endpoints, port), nil
			}
			r.cache.Remove(host)
		}
	}

	net_ := network
	if net_ == "" {
		net_ = "ip"
	}
	addrs, err := r.res.LookupIP(ctx, net_, host)
	if err != nil {
		return nil, errs.Wrap(errs.Invalid, err, "resolve host %q", host)
	}
	if len(addrs) == 0 {
		return nil, errs.New(errs.Invalid, "no addresses found for host %q", host)
	}

	eps := make([]transport.Endpoint, 0, len(addrs))
	for _, ip := range addrs {
		eps = append(eps, endpointFor(ip, 0))
	}

	if r.cache != nil && r.ttl > 0 {
		r.cache.Add(host, cacheEntry{endpoints: eps, expiresAt: time.Now().Add(r.ttl)})
	}
	return withPort(eps, port), nil
}

func endpointFor(ip net.IP, port uint16) transport.Endpoint {
	if p4 := ip.To4(); p4 != nil {
		return transport.NewIPEndpoint(transport.DomainIPv4, p4.String(), port, "")
	}
	return transport.NewIPEndpoint(transport.DomainIPv6, ip.String(), port, "")
}

func withPort(eps []transport.Endpoint, port uint16) []transport.Endpoint {
	out := make([]transport.Endpoint, len(eps))
	for i, e := range eps {
		out[i] = transport.NewIPEndpoint(e.Domain, e.Literal(), port, e.Zone)
	}
	return out
}

// Forget evicts host from the cache, forcing the next Resolve to hit
// the resolver again.
func (r *Resolver) Forget(host string) {
	if r.cache != nil {
		r.cache.Remove(host)
	}
}
