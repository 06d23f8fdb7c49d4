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

package rawsocket

import (
	"net"
	"time"

	"github.com/nabbar/ntc/errs"
	"github.com/nabbar/ntc/transport"
)

type packet struct {
	conn    net.PacketConn
	desc    transport.Descriptor
	peer    *net.UDPAddr // set by Connect, nil for unconnected sockets
	network string
}

// ListenPacket opens an unbound/bound connectionless socket (UDP or
// unixgram) for the given transport.
func ListenPacket(network string, ep transport.Endpoint) (PacketSocket, error) {
	conn, err := net.ListenPacket(network, ep.String())
	if err != nil {
		return nil, errs.Wrap(errs.ResourceLimit, err, "listen packet failed")
	}
	return &packet{conn: conn, desc: nextDescriptor(), network: network}, nil
}

func (p *packet) Descriptor() transport.Descriptor { return p.desc }
func (p *packet) LocalEndpoint() transport.Endpoint { return addrToEndpoint(p.conn.LocalAddr()) }

func (p *packet) Bind(ep transport.Endpoint, reuse bool) error {
	return errs.New(errs.Invalid, "packet socket already bound; use ListenPacket to bind a new one")
}

// Connect records ep as the peer address: every later SendTo goes to
// it whatever destination it is given. No kernel-level connect is made,
// so ReceiveFrom still accepts datagrams from any source.
func (p *packet) Connect(ep transport.Endpoint) error {
	addr, err := net.ResolveUDPAddr("udp", ep.String())
	if err != nil {
		return errs.Wrap(errs.Invalid, err, "resolve peer endpoint")
	}
	p.peer = addr
	return nil
}

func (p *packet) SendTo(buf []byte, to transport.Endpoint) (int, error) {
	if err := p.conn.SetWriteDeadline(time.Now().Add(50 * time.Millisecond)); err != nil {
		return 0, errs.Wrap(errs.Invalid, err, "set write deadline")
	}
	dest := to
	if p.peer != nil {
		dest = addrToEndpoint(p.peer)
	}
	addr, err := net.ResolveUDPAddr("udp", dest.String())
	if err != nil {
		return 0, errs.Wrap(errs.Invalid, err, "resolve destination endpoint")
	}
	n, err := p.conn.WriteTo(buf, addr)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return n, errs.New(errs.WouldBlock, "send buffer full")
		}
		return n, classifyIOErr(err)
	}
	return n, nil
}

func (p *packet) ReceiveFrom(buf []byte) (int, transport.Endpoint, error) {
	if err := p.conn.SetReadDeadline(time.Now().Add(50 * time.Millisecond)); err != nil {
		return 0, transport.Endpoint{}, errs.Wrap(errs.Invalid, err, "set read deadline")
	}
	n, addr, err := p.conn.ReadFrom(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return n, transport.Endpoint{}, errs.New(errs.WouldBlock, "no datagram available")
		}
		return n, transport.Endpoint{}, classifyIOErr(err)
	}
	return n, addrToEndpoint(addr), nil
}

func (p *packet) WaitReadable(deadline time.Time) error {
	if conn, ok := p.conn.(net.Conn); ok {
		return pollReadable(conn, deadline)
	}
	return fallbackWaitDeadline(deadline)
}

func (p *packet) WaitWritable(deadline time.Time) error {
	if conn, ok := p.conn.(net.Conn); ok {
		return pollWritable(conn, deadline)
	}
	return fallbackWaitDeadline(deadline)
}

func (p *packet) JoinMulticast(group transport.Endpoint, iface string) error {
	pc, ok := p.conn.(*net.UDPConn)
	if !ok {
		return errs.New(errs.NotImplemented, "multicast requires a UDP socket")
	}
	ifi, err := resolveIface(iface)
	if err != nil {
		return err
	}
	gaddr, err := net.ResolveUDPAddr("udp", group.String())
	if err != nil {
		return errs.Wrap(errs.Invalid, err, "resolve multicast group")
	}
	if p4 := gaddr.IP.To4(); p4 != nil {
		return joinIPv4(pc, gaddr, ifi)
	}
	return joinIPv6(pc, gaddr, ifi)
}

func (p *packet) LeaveMulticast(group transport.Endpoint, iface string) error {
	pc, ok := p.conn.(*net.UDPConn)
	if !ok {
		return errs.New(errs.NotImplemented, "multicast requires a UDP socket")
	}
	ifi, err := resolveIface(iface)
	if err != nil {
		return err
	}
	gaddr, err := net.ResolveUDPAddr("udp", group.String())
	if err != nil {
		return errs.Wrap(errs.Invalid, err, "resolve multicast group")
	}
	if p4 := gaddr.IP.To4(); p4 != nil {
		return leaveIPv4(pc, gaddr, ifi)
	}
	return leaveIPv6(pc, gaddr, ifi)
}

func (p *packet) SetMulticastTTL(ttl int) error {
	pc, ok := p.conn.(*net.UDPConn)
	if !ok {
		return errs.New(errs.NotImplemented, "multicast TTL requires a UDP socket")
	}
	return setMulticastTTL(pc, ttl)
}

func (p *packet) SetMulticastLoopback(v bool) error {
	return setMulticastLoopback(p.conn, v)
}

func (p *packet) SetOption(v transport.OptionValue) error {
	if conn, ok := p.conn.(*net.UDPConn); ok {
		return applySocketOption(conn, v)
	}
	return errs.New(errs.NotImplemented, "option not supported on this packet socket")
}

func (p *packet) Close() error { return p.conn.Close() }

func resolveIface(name string) (*net.Interface, error) {
	if name == "" {
		return nil, nil
	}
	ifi, err := net.InterfaceByName(name)
	if err != nil {
		return nil, errs.Wrap(errs.Invalid, err, "resolve interface")
	}
	return ifi, nil
}

func fallbackWaitDeadline(deadline time.Time) error {
	return fallbackWait(deadline)
}
