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

//go:build !linux && !darwin

package rawsocket

import (
	"net"

	"github.com/nabbar/ntc/errs"
)

func joinIPv4(pc *net.UDPConn, group *net.UDPAddr, ifi *net.Interface) error {
	return errs.New(errs.NotImplemented, "multicast join not supported on this platform")
}

func leaveIPv4(pc *net.UDPConn, group *net.UDPAddr, ifi *net.Interface) error {
	return errs.New(errs.NotImplemented, "multicast leave not supported on this platform")
}

func joinIPv6(pc *net.UDPConn, group *net.UDPAddr, ifi *net.Interface) error {
	return errs.New(errs.NotImplemented, "multicast join not supported on this platform")
}

func leaveIPv6(pc *net.UDPConn, group *net.UDPAddr, ifi *net.Interface) error {
	return errs.New(errs.NotImplemented, "multicast leave not supported on this platform")
}

func setMulticastTTL(pc *net.UDPConn, ttl int) error {
	return errs.New(errs.NotImplemented, "multicast TTL not supported on this platform")
}

func setMulticastLoopback(conn net.PacketConn, v bool) error {
	return errs.New(errs.NotImplemented, "multicast loopback not supported on this platform")
}
