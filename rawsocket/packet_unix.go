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

//go:build linux || darwin

package rawsocket

import (
	"net"

	"golang.org/x/sys/unix"

	"github.com/nabbar/ntc/errs"
)

// joinIPv4/leaveIPv4/joinIPv6/leaveIPv6 issue IP_ADD_MEMBERSHIP and
// friends directly against the socket's raw descriptor, the multicast
// control surface Go's net package leaves unexposed on *net.UDPConn.
func joinIPv4(pc *net.UDPConn, group *net.UDPAddr, ifi *net.Interface) error {
	return mreqCtl(pc, group, ifi, unix.IPPROTO_IP, unix.IP_ADD_MEMBERSHIP)
}

func leaveIPv4(pc *net.UDPConn, group *net.UDPAddr, ifi *net.Interface) error {
	return mreqCtl(pc, group, ifi, unix.IPPROTO_IP, unix.IP_DROP_MEMBERSHIP)
}

func mreqCtl(pc *net.UDPConn, group *net.UDPAddr, ifi *net.Interface, level, opt int) error {
	raw, err := pc.SyscallConn()
	if err != nil {
		return errs.Wrap(errs.Invalid, err, "syscall conn")
	}
	ip4 := group.IP.To4()
	if ip4 == nil {
		return errs.New(errs.Invalid, "group address is not IPv4")
	}
	var mreq unix.IPMreq
	copy(mreq.Multiaddr[:], ip4)
	if ifi != nil {
		addrs, e := ifi.Addrs()
		if e == nil {
			for _, a := range addrs {
				if ipn, ok := a.(*net.IPNet); ok {
					if v4 := ipn.IP.To4(); v4 != nil {
						copy(mreq.Interface[:], v4)
						break
					}
				}
			}
		}
	}
	var setErr error
	ctlErr := raw.Control(func(fd uintptr) {
		setErr = unix.SetsockoptIPMreq(int(fd), level, opt, &mreq)
	})
	if ctlErr != nil {
		return errs.Wrap(errs.Invalid, ctlErr, "raw conn control")
	}
	if setErr != nil {
		return errs.Wrap(errs.Invalid, setErr, "multicast membership")
	}
	return nil
}

func joinIPv6(pc *net.UDPConn, group *net.UDPAddr, ifi *net.Interface) error {
	return mreq6Ctl(pc, group, ifi, unix.IPV6_JOIN_GROUP)
}

func leaveIPv6(pc *net.UDPConn, group *net.UDPAddr, ifi *net.Interface) error {
	return mreq6Ctl(pc, group, ifi, unix.IPV6_LEAVE_GROUP)
}

func mreq6Ctl(pc *net.UDPConn, group *net.UDPAddr, ifi *net.Interface, opt int) error {
	raw, err := pc.SyscallConn()
	if err != nil {
		return errs.Wrap(errs.Invalid, err, "syscall conn")
	}
	var mreq unix.IPv6Mreq
	copy(mreq.Multiaddr[:], group.IP.To16())
	if ifi != nil {
		mreq.Interface = uint32(ifi.Index)
	}
	var setErr error
	ctlErr := raw.Control(func(fd uintptr) {
		setErr = unix.SetsockoptIPv6Mreq(int(fd), unix.IPPROTO_IPV6, opt, &mreq)
	})
	if ctlErr != nil {
		return errs.Wrap(errs.Invalid, ctlErr, "raw conn control")
	}
	if setErr != nil {
		return errs.Wrap(errs.Invalid, setErr, "multicast membership")
	}
	return nil
}

func setMulticastTTL(pc *net.UDPConn, ttl int) error {
	raw, err := pc.SyscallConn()
	if err != nil {
		return errs.Wrap(errs.Invalid, err, "syscall conn")
	}
	var setErr error
	ctlErr := raw.Control(func(fd uintptr) {
		setErr = unix.SetsockoptInt(int(fd), unix.IPPROTO_IP, unix.IP_MULTICAST_TTL, ttl)
	})
	if ctlErr != nil {
		return errs.Wrap(errs.Invalid, ctlErr, "raw conn control")
	}
	return setErr
}

func setMulticastLoopback(conn net.PacketConn, v bool) error {
	pc, ok := conn.(*net.UDPConn)
	if !ok {
		return errs.New(errs.NotImplemented, "multicast loopback requires a UDP socket")
	}
	raw, err := pc.SyscallConn()
	if err != nil {
		return errs.Wrap(errs.Invalid, err, "syscall conn")
	}
	i := 0
	if v {
		i = 1
	}
	var setErr error
	ctlErr := raw.Control(func(fd uintptr) {
		setErr = unix.SetsockoptInt(int(fd), unix.IPPROTO_IP, unix.IP_MULTICAST_LOOP, i)
	})
	if ctlErr != nil {
		return errs.Wrap(errs.Invalid, ctlErr, "raw conn control")
	}
	return setErr
}
