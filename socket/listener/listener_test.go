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

package listener_test

import (
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/nabbar/ntc/engine"
	"github.com/nabbar/ntc/socket/listener"
	"github.com/nabbar/ntc/socket/stream"
	"github.com/nabbar/ntc/transport"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestListener(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Listener Socket Suite")
}

var _ = Describe("Listener", func() {
	It("accepts a dialed connection and delivers it asynchronously", func() {
		eng := engine.NewReactor(engine.DefaultReactorConfig(), nil)
		defer eng.Stop()

		ep := transport.NewIPEndpoint(transport.DomainIPv4, "127.0.0.1", 0, "")
		l, err := listener.Listen("tcp", ep, 16, listener.Options{Engine: eng})
		Expect(err).ToNot(HaveOccurred())
		defer l.Close(nil)

		Expect(l.State()).To(Equal(listener.StateListening))

		var accepted *stream.Socket
		var acceptErr error
		done := make(chan struct{})
		_, err = l.Accept(time.Now().Add(2*time.Second), false, func(s *stream.Socket, e error) {
			accepted = s
			acceptErr = e
			close(done)
		})
		Expect(err).ToNot(HaveOccurred())

		_, port, perr := net.SplitHostPort(l.LocalEndpoint().String())
		Expect(perr).ToNot(HaveOccurred())
		p, perr := strconv.Atoi(port)
		Expect(perr).ToNot(HaveOccurred())

		client, derr := net.Dial("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(p)))
		Expect(derr).ToNot(HaveOccurred())
		defer client.Close()

		Eventually(done, 2*time.Second).Should(BeClosed())
		Expect(acceptErr).ToNot(HaveOccurred())
		Expect(accepted).ToNot(BeNil())
		Expect(accepted.State()).To(Equal(stream.StateConnected))
	})

	It("rejects Accept once closed", func() {
		eng := engine.NewReactor(engine.DefaultReactorConfig(), nil)
		defer eng.Stop()

		ep := transport.NewIPEndpoint(transport.DomainIPv4, "127.0.0.1", 0, "")
		l, err := listener.Listen("tcp", ep, 16, listener.Options{Engine: eng})
		Expect(err).ToNot(HaveOccurred())

		Expect(l.Close(nil)).ToNot(HaveOccurred())
		Expect(l.State()).To(Equal(listener.StateClosed))

		_, err = l.Accept(time.Time{}, false, func(*stream.Socket, error) {})
		Expect(err).To(HaveOccurred())
	})
})
