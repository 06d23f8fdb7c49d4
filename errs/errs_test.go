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

package errs_test

import (
	"errors"
	"testing"

	"github.com/nabbar/ntc/errs"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestErrs(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Errs Suite")
}

var _ = Describe("New", func() {
	It("reports the given kind", func() {
		e := errs.New(errs.TimedOut, "")
		Expect(e.Kind()).To(Equal(errs.TimedOut))
		Expect(e.Is(errs.TimedOut)).To(BeTrue())
		Expect(e.Is(errs.EOF)).To(BeFalse())
	})

	It("formats a message when one is given", func() {
		e := errs.New(errs.Invalid, "bad value %d", 7)
		Expect(e.Error()).To(Equal("INVALID: bad value 7"))
	})

	It("falls back to the kind name with no message", func() {
		e := errs.New(errs.WouldBlock, "")
		Expect(e.Error()).To(Equal("WOULD_BLOCK"))
	})

	It("records a call site", func() {
		e := errs.New(errs.OK, "")
		Expect(e.File()).ToNot(BeEmpty())
		Expect(e.Line()).To(BeNumerically(">", 0))
	})
})

var _ = Describe("Wrap", func() {
	It("chains the parent error via Unwrap", func() {
		parent := errors.New("boom")
		e := errs.Wrap(errs.ConnectionDead, parent, "dial failed")
		Expect(e.Unwrap()).To(Equal(parent))
		Expect(e.Error()).To(Equal("CONNECTION_DEAD: dial failed: boom"))
	})
})

var _ = Describe("Is", func() {
	It("matches the direct kind", func() {
		e := errs.New(errs.ResourceLimit, "")
		Expect(errs.Is(e, errs.ResourceLimit)).To(BeTrue())
	})

	It("walks the Unwrap chain of nested module errors", func() {
		inner := errs.New(errs.EOF, "closed")
		outer := errs.Wrap(errs.Invalid, inner, "outer")
		Expect(errs.Is(outer, errs.EOF)).To(BeTrue())
	})

	It("returns false for a plain error", func() {
		Expect(errs.Is(errors.New("plain"), errs.Invalid)).To(BeFalse())
	})

	It("returns false for nil", func() {
		Expect(errs.Is(nil, errs.OK)).To(BeFalse())
	})
})

var _ = Describe("KindOf", func() {
	It("returns OK for nil", func() {
		Expect(errs.KindOf(nil)).To(Equal(errs.OK))
	})

	It("extracts the kind from a module error", func() {
		Expect(errs.KindOf(errs.New(errs.NotImplemented, ""))).To(Equal(errs.NotImplemented))
	})

	It("returns Invalid for a plain error", func() {
		Expect(errs.KindOf(errors.New("plain"))).To(Equal(errs.Invalid))
	})
})

var _ = Describe("Kind.String", func() {
	It("names every defined kind", func() {
		kinds := []errs.Kind{
			errs.OK, errs.WouldBlock, errs.TimedOut, errs.Cancelled, errs.EOF,
			errs.ConnectionDead, errs.ConnectionReset, errs.Invalid,
			errs.NotImplemented, errs.ResourceLimit,
		}
		for _, k := range kinds {
			Expect(k.String()).ToNot(Equal("UNKNOWN"))
		}
	})

	It("falls back to UNKNOWN for an out-of-range value", func() {
		Expect(errs.Kind(255).String()).To(Equal("UNKNOWN"))
	})
})
