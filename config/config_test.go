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

package config_test

import (
	"testing"

	"github.com/spf13/viper"

	"github.com/nabbar/ntc/config"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

var _ = Describe("Defaults", func() {
	It("builds symmetric 64KiB/4MiB watermarks for a stream", func() {
		d := config.DefaultStreamOptions()
		Expect(d.Read.Low).To(Equal(uint64(64 * 1024)))
		Expect(d.Read.High).To(Equal(uint64(4 * 1024 * 1024)))
		Expect(d.Write).To(Equal(d.Read))
	})

	It("builds a listener with a 128 backlog and the stream defaults nested", func() {
		d := config.DefaultListenerOptions()
		Expect(d.Backlog).To(Equal(128))
		Expect(d.Network).To(Equal("tcp"))
		Expect(d.Stream).To(Equal(config.DefaultStreamOptions()))
	})

	It("builds an engine with a 32-worker pool", func() {
		Expect(config.DefaultEngineOptions().PoolSize).To(Equal(32))
	})
})

var _ = Describe("Validate", func() {
	It("accepts a fully defaulted listener config", func() {
		d := config.DefaultListenerOptions()
		d.Address = "127.0.0.1:9000"
		Expect(config.Validate(&d)).ToNot(HaveOccurred())
	})

	It("rejects a watermark pair whose high is below its low", func() {
		w := config.WatermarkOptions{Low: 100, High: 10}
		s := config.StreamOptions{Read: w, Write: config.DefaultStreamOptions().Write}
		Expect(config.Validate(&s)).To(HaveOccurred())
	})

	It("rejects a listener with an unsupported network", func() {
		d := config.DefaultListenerOptions()
		d.Address = "127.0.0.1:9000"
		d.Network = "sctp"
		Expect(config.Validate(&d)).To(HaveOccurred())
	})

	It("rejects a listener with no address", func() {
		d := config.DefaultListenerOptions()
		Expect(config.Validate(&d)).To(HaveOccurred())
	})

	It("rejects TLS options with a cert file but no key file", func() {
		opt := config.TLSOptions{CertFile: "a.crt"}
		Expect(config.Validate(&opt)).To(HaveOccurred())
	})

	It("accepts TLS options with a matching cert/key pair", func() {
		opt := config.TLSOptions{CertFile: "a.crt", KeyFile: "a.key"}
		Expect(config.Validate(&opt)).ToNot(HaveOccurred())
	})
})

var _ = Describe("LoadListenerOptions", func() {
	It("seeds from defaults and overlays viper values", func() {
		v := viper.New()
		v.Set("server.address", "0.0.0.0:9443")
		v.Set("server.backlog", 256)

		opt, err := config.LoadListenerOptions(v, "server")
		Expect(err).ToNot(HaveOccurred())
		Expect(opt.Address).To(Equal("0.0.0.0:9443"))
		Expect(opt.Backlog).To(Equal(256))
		Expect(opt.Network).To(Equal("tcp"))
	})

	It("fails validation when the overlay leaves a required field unset", func() {
		v := viper.New()
		v.Set("server.backlog", 10)

		_, err := config.LoadListenerOptions(v, "server")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("LoadTLSOptions", func() {
	It("treats a wholly absent subtree as valid and empty", func() {
		v := viper.New()
		opt, err := config.LoadTLSOptions(v, "tls")
		Expect(err).ToNot(HaveOccurred())
		Expect(opt.CertFile).To(BeEmpty())
	})

	It("validates once any TLS field is set", func() {
		v := viper.New()
		v.Set("tls.certFile", "server.crt")

		_, err := config.LoadTLSOptions(v, "tls")
		Expect(err).To(HaveOccurred())
	})
})
