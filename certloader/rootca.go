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

package certloader

import (
	"crypto/x509"
	"os"

	"github.com/nabbar/ntc/errs"
)

// CAPool accumulates PEM encoded CA certificates into an *x509.CertPool,
// usable as either a root (server verification) or client (mutual TLS)
// pool.
type CAPool struct {
	pool *x509.CertPool
}

func NewCAPool() *CAPool {
	return &CAPool{pool: x509.NewCertPool()}
}

// AddString appends a PEM encoded CA certificate; returns false if the
// PEM block could not be parsed.
func (c *CAPool) AddString(pem string) bool {
	return c.pool.AppendCertsFromPEM([]byte(pem))
}

// AddFile reads a PEM file and appends its certificates.
func (c *CAPool) AddFile(pemFile string) error {
	b, err := os.ReadFile(pemFile)
	if err != nil {
		return errs.Wrap(errs.Invalid, err, "read CA file %q", pemFile)
	}
	if !c.pool.AppendCertsFromPEM(b) {
		return errs.New(errs.Invalid, "no certificate found in %q", pemFile)
	}
	return nil
}

// Pool returns the underlying *x509.CertPool.
func (c *CAPool) Pool() *x509.CertPool { return c.pool }
