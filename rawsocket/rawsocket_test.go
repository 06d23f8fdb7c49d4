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

package rawsocket_test

import (
	"testing"
	"time"

	"github.com/nabbar/ntc/errs"
	"github.com/nabbar/ntc/rawsocket"
	"github.com/nabbar/ntc/transport"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRawsocket(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Rawsocket Suite")
}

func listen() rawsocket.Listener {
	ln, err := rawsocket.Listen("tcp", transport.NewIPEndpoint(transport.DomainIPv4, "127.0.0.1", 0, ""), 16)
	Expect(err).ToNot(HaveOccurred())
	return ln
}

var _ = Describe("Listener", func() {
	It("accepts a dialed connection", func() {
		ln := listen()
		defer ln.Close()

		dialed := make(chan rawsocket.Socket, 1)
		go func() {
			c, err := rawsocket.Dial("tcp", ln.LocalEndpoint(), time.Time{})
			Expect(err).ToNot(HaveOccurred())
			dialed <- c
		}()

		srv, err := ln.Accept(time.Now().Add(2 * time.Second))
		Expect(err).ToNot(HaveOccurred())
		defer srv.Close()

		cli := <-dialed
		defer cli.Close()

		Expect(srv.Descriptor()).ToNot(Equal(cli.Descriptor()))
	})

	It("Accept reports WOULD_BLOCK once its deadline elapses with nothing pending", func() {
		ln := listen()
		defer ln.Close()

		_, err := ln.Accept(time.Now().Add(30 * time.Millisecond))
		Expect(errs.Is(err, errs.WouldBlock)).To(BeTrue())
	})

	It("exposes the bound local endpoint", func() {
		ln := listen()
		defer ln.Close()
		Expect(ln.LocalEndpoint().Port).ToNot(Equal(uint16(0)))
	})
})

func loopback() (server, client rawsocket.Socket) {
	ln := listen()
	defer ln.Close()

	accepted := make(chan rawsocket.Socket, 1)
	go func() {
		c, err := ln.Accept(time.Now().Add(2 * time.Second))
		Expect(err).ToNot(HaveOccurred())
		accepted <- c
	}()

	client, err := rawsocket.Dial("tcp", ln.LocalEndpoint(), time.Now().Add(2*time.Second))
	Expect(err).ToNot(HaveOccurred())
	server = <-accepted
	return server, client
}

var _ = Describe("Socket", func() {
	It("delivers a Send through to the peer's Receive", func() {
		server, client := loopback()
		defer server.Close()
		defer client.Close()

		n, err := client.Send([]byte("hello"))
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(Equal(5))

		Expect(server.WaitReadable(time.Now().Add(2 * time.Second))).ToNot(HaveOccurred())
		buf := make([]byte, 5)
		n, err = server.Receive(buf)
		Expect(err).ToNot(HaveOccurred())
		Expect(buf[:n]).To(Equal([]byte("hello")))
	})

	It("Receive reports EOF once the peer closes", func() {
		server, client := loopback()
		defer server.Close()

		Expect(client.Close()).ToNot(HaveOccurred())

		Expect(server.WaitReadable(time.Now().Add(2 * time.Second))).ToNot(HaveOccurred())
		buf := make([]byte, 5)
		_, err := server.Receive(buf)
		Expect(errs.Is(err, errs.EOF)).To(BeTrue())
	})

	It("Receive reports WOULD_BLOCK when nothing is available", func() {
		server, client := loopback()
		defer server.Close()
		defer client.Close()

		buf := make([]byte, 5)
		_, err := server.Receive(buf)
		Expect(errs.Is(err, errs.WouldBlock)).To(BeTrue())
	})

	It("round-trips a boolean socket option through SetOption/GetOption", func() {
		server, client := loopback()
		defer server.Close()
		defer client.Close()

		Expect(client.SetOption(transport.Bool(transport.OptNoDelay, true))).ToNot(HaveOccurred())
		v, err := client.GetOption(transport.OptNoDelay)
		Expect(err).ToNot(HaveOccurred())
		Expect(v.Bool).To(BeTrue())
	})

	It("GetOption fails for an option never set", func() {
		server, client := loopback()
		defer server.Close()
		defer client.Close()

		_, err := client.GetOption(transport.OptKeepAlive)
		Expect(errs.Is(err, errs.Invalid)).To(BeTrue())
	})

	It("Connect refuses reuse of an already-open stream", func() {
		server, client := loopback()
		defer server.Close()
		defer client.Close()

		err := client.Connect(transport.Endpoint{}, time.Time{})
		Expect(errs.Is(err, errs.Invalid)).To(BeTrue())
	})

	It("exposes local and remote endpoints consistent with each other", func() {
		server, client := loopback()
		defer server.Close()
		defer client.Close()

		Expect(client.RemoteEndpoint().Port).To(Equal(server.LocalEndpoint().Port))
	})

	It("Dial reports ConnectionDead when nothing is listening", func() {
		_, err := rawsocket.Dial("tcp", transport.NewIPEndpoint(transport.DomainIPv4, "127.0.0.1", 1, ""), time.Now().Add(200*time.Millisecond))
		Expect(err).To(HaveOccurred())
		Expect(errs.Is(err, errs.ConnectionDead)).To(BeTrue())
	})
})
