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

// Package certloader loads certificate material (key/certificate
// pairs and root/client CA pools) from PEM files or strings, and
// watches the files a Config was built from for hot reload.
package certloader

import (
	"crypto/tls"
	"os"

	"github.com/nabbar/ntc/errs"
)

// Pair is a loaded private key + certificate chain, ready to hand to
// tls.Config.Certificates.
type Pair struct {
	cert tls.Certificate
}

// LoadPairPEM parses a PEM encoded key and certificate held in memory.
func LoadPairPEM(key, crt string) (Pair, error) {
	c, err := tls.X509KeyPair([]byte(crt), []byte(key))
	if err != nil {
		return Pair{}, errs.Wrap(errs.Invalid, err, "parse certificate pair")
	}
	return Pair{cert: c}, nil
}

// LoadPairFile reads and parses a key/certificate pair from disk.
func LoadPairFile(keyFile, crtFile string) (Pair, error) {
	key, err := os.ReadFile(keyFile)
	if err != nil {
		return Pair{}, errs.Wrap(errs.Invalid, err, "read key file %q", keyFile)
	}
	crt, err := os.ReadFile(crtFile)
	if err != nil {
		return Pair{}, errs.Wrap(errs.Invalid, err, "read certificate file %q", crtFile)
	}
	return LoadPairPEM(string(key), string(crt))
}

// TLS returns the tls.Certificate this pair wraps.
func (p Pair) TLS() tls.Certificate { return p.cert }
