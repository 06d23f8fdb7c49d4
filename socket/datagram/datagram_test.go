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

package datagram_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/ntc/engine"
	"github.com/nabbar/ntc/errs"
	"github.com/nabbar/ntc/rawsocket"
	"github.com/nabbar/ntc/socket/datagram"
	"github.com/nabbar/ntc/transport"
)

func TestDatagram(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Datagram Socket Suite")
}

func loopbackUDP() rawsocket.PacketSocket {
	sock, err := rawsocket.ListenPacket("udp", transport.NewIPEndpoint(transport.DomainIPv4, "127.0.0.1", 0, ""))
	Expect(err).NotTo(HaveOccurred())
	return sock
}

var _ = Describe("Datagram Socket", func() {
	var eng engine.Engine

	BeforeEach(func() {
		eng = engine.NewReactor(engine.DefaultReactorConfig(), nil)
		go eng.Run()
	})

	AfterEach(func() {
		_ = eng.Stop()
	})

	It("starts bound when constructed from an already-listening packet socket", func() {
		sock := loopbackUDP()
		d := datagram.New(sock, datagram.Options{Engine: eng}, true)
		defer d.Close(nil)

		Expect(d.State()).To(Equal(datagram.StateBound))
	})

	It("delivers a sent datagram to the peer's receive callback with source endpoint", func() {
		serverSock := loopbackUDP()
		server := datagram.New(serverSock, datagram.Options{Engine: eng}, true)
		defer server.Close(nil)

		clientSock := loopbackUDP()
		client := datagram.New(clientSock, datagram.Options{Engine: eng}, true)
		defer client.Close(nil)

		received := make(chan datagram.Datagram, 1)
		server.ReceiveFrom(time.Now().Add(2*time.Second), func(d datagram.Datagram, err error) {
			Expect(err).NotTo(HaveOccurred())
			received <- d
		})

		payload := []byte("hello over udp")
		n, err := client.SendTo(payload, server.LocalEndpoint(), time.Now().Add(2*time.Second))
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(len(payload)))

		Eventually(received, 2*time.Second, 10*time.Millisecond).Should(Receive())
		d := <-received
		Expect(d.Data).To(Equal(payload))
		Expect(d.From.Port).NotTo(BeZero())
		Expect(d.Timestamp).NotTo(BeZero())
	})

	It("supports connected-mode Send once Connect has fixed a default peer", func() {
		serverSock := loopbackUDP()
		server := datagram.New(serverSock, datagram.Options{Engine: eng}, true)
		defer server.Close(nil)

		clientSock := loopbackUDP()
		client := datagram.New(clientSock, datagram.Options{Engine: eng}, true)
		defer client.Close(nil)

		Expect(client.Connect(server.LocalEndpoint())).To(Succeed())
		Expect(client.State()).To(Equal(datagram.StateConnected))

		received := make(chan datagram.Datagram, 1)
		server.ReceiveFrom(time.Now().Add(2*time.Second), func(d datagram.Datagram, err error) {
			Expect(err).NotTo(HaveOccurred())
			received <- d
		})

		_, err := client.Send([]byte("connected send"), time.Now().Add(2*time.Second))
		Expect(err).NotTo(HaveOccurred())

		Eventually(received, 2*time.Second, 10*time.Millisecond).Should(Receive())
	})

	It("rejects Send before Connect has fixed a default peer", func() {
		sock := loopbackUDP()
		client := datagram.New(sock, datagram.Options{Engine: eng}, true)
		defer client.Close(nil)

		_, err := client.Send([]byte("no peer"), time.Now().Add(time.Second))
		Expect(err).To(HaveOccurred())
	})

	It("fails a still-pending receive with errs.Cancelled once Close runs", func() {
		sock := loopbackUDP()
		server := datagram.New(sock, datagram.Options{Engine: eng}, true)

		failed := make(chan error, 1)
		server.ReceiveFrom(time.Now().Add(10*time.Second), func(d datagram.Datagram, err error) {
			failed <- err
		})

		Expect(server.Close(nil)).To(Succeed())
		var got error
		Eventually(failed, time.Second, 10*time.Millisecond).Should(Receive(&got))
		Expect(got).To(HaveOccurred())
		Expect(errs.Is(got, errs.Cancelled)).To(BeTrue())
	})

	It("TryReceiveFrom reports WouldBlock when nothing is buffered", func() {
		sock := loopbackUDP()
		server := datagram.New(sock, datagram.Options{Engine: eng}, true)
		defer server.Close(nil)

		_, err := server.TryReceiveFrom()
		Expect(err).To(HaveOccurred())
		Expect(errs.Is(err, errs.WouldBlock)).To(BeTrue())
	})
})
