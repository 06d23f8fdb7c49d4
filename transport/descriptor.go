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

// Package transport defines the data model shared by the engine and socket
// packages: descriptors, endpoints, scatter/gather buffers, and socket
// options. None of these types touch the kernel directly; rawsocket does.
package transport

import "fmt"

// Descriptor is an opaque OS handle. InvalidDescriptor is the sentinel
// value; a Descriptor is owned by exactly one socket for its lifetime.
type Descriptor int

const InvalidDescriptor Descriptor = -1

func (d Descriptor) Valid() bool { return d != InvalidDescriptor }

// Domain names the endpoint family.
type Domain uint8

const (
	DomainIPv4 Domain = iota
	DomainIPv6
	DomainLocal
)

// Endpoint is a tagged variant over {IPv4, IPv6, local path}.
type Endpoint struct {
	Domain  Domain
	IP      [16]byte // IPv4 stored in the first 4 bytes when Domain==DomainIPv4
	Port    uint16
	Zone    string // IPv6 scope id
	Path    string // DomainLocal: filesystem or abstract path
	literal string
}

func (e Endpoint) String() string {
	switch e.Domain {
	case DomainLocal:
		return e.Path
	case DomainIPv6:
		if e.Zone != "" {
			return fmt.Sprintf("[%s%%%s]:%d", e.literal, e.Zone, e.Port)
		}
		return fmt.Sprintf("[%s]:%d", e.literal, e.Port)
	default:
		return fmt.Sprintf("%s:%d", e.literal, e.Port)
	}
}

// NewIPEndpoint builds an Endpoint from a literal IP string, preserving
// that literal for String() rather than round-tripping through net.IP
// formatting (which can reorder IPv6 zero-compression oddly).
func NewIPEndpoint(domain Domain, literal string, port uint16, zone string) Endpoint {
	return Endpoint{Domain: domain, Port: port, Zone: zone, literal: literal}
}

// NewLocalEndpoint builds a filesystem/abstract-path Endpoint.
func NewLocalEndpoint(path string) Endpoint {
	return Endpoint{Domain: DomainLocal, Path: path}
}

func (e Endpoint) Literal() string { return e.literal }
