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

package tlsadapter

import (
	"crypto/tls"
	"strings"
)

// Cipher is a TLS 1.0-1.2 cipher suite identifier (TLS 1.3 suites are
// not independently selectable: crypto/tls always negotiates its own
// fixed set once VersionTLS13 is in range).
type Cipher uint16

const (
	Cipher_RSA_AES128_GCM_SHA256         = Cipher(tls.TLS_RSA_WITH_AES_128_GCM_SHA256)
	Cipher_RSA_AES256_GCM_SHA384         = Cipher(tls.TLS_RSA_WITH_AES_256_GCM_SHA384)
	Cipher_ECDHE_RSA_AES128_GCM_SHA256   = Cipher(tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256)
	Cipher_ECDHE_RSA_AES256_GCM_SHA384   = Cipher(tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384)
	Cipher_ECDHE_ECDSA_AES128_GCM_SHA256 = Cipher(tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256)
	Cipher_ECDHE_ECDSA_AES256_GCM_SHA384 = Cipher(tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384)
	Cipher_ECDHE_RSA_CHACHA20_POLY1305   = Cipher(tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305)
	Cipher_ECDHE_ECDSA_CHACHA20_POLY1305 = Cipher(tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305)
)

var cipherNames = map[Cipher]string{
	Cipher_RSA_AES128_GCM_SHA256:         "RSA-AES128-GCM-SHA256",
	Cipher_RSA_AES256_GCM_SHA384:         "RSA-AES256-GCM-SHA384",
	Cipher_ECDHE_RSA_AES128_GCM_SHA256:   "ECDHE-RSA-AES128-GCM-SHA256",
	Cipher_ECDHE_RSA_AES256_GCM_SHA384:   "ECDHE-RSA-AES256-GCM-SHA384",
	Cipher_ECDHE_ECDSA_AES128_GCM_SHA256: "ECDHE-ECDSA-AES128-GCM-SHA256",
	Cipher_ECDHE_ECDSA_AES256_GCM_SHA384: "ECDHE-ECDSA-AES256-GCM-SHA384",
	Cipher_ECDHE_RSA_CHACHA20_POLY1305:   "ECDHE-RSA-CHACHA20-POLY1305",
	Cipher_ECDHE_ECDSA_CHACHA20_POLY1305: "ECDHE-ECDSA-CHACHA20-POLY1305",
}

func (c Cipher) String() string {
	if n, ok := cipherNames[c]; ok {
		return n
	}
	return "unknown"
}

// ParseCipher matches names case-insensitively against String().
func ParseCipher(s string) Cipher {
	s = strings.ToUpper(strings.TrimSpace(s))
	for c, n := range cipherNames {
		if n == s {
			return c
		}
	}
	return 0
}

// DefaultCiphers is a preferred suite ordering: ECDHE suites first for
// forward secrecy, ChaCha20 last since AES-NI hardware is the common
// case. Nothing in this module applies it to a tls.Config.
func DefaultCiphers() []Cipher {
	return []Cipher{
		Cipher_ECDHE_ECDSA_AES128_GCM_SHA256,
		Cipher_ECDHE_RSA_AES128_GCM_SHA256,
		Cipher_ECDHE_ECDSA_AES256_GCM_SHA384,
		Cipher_ECDHE_RSA_AES256_GCM_SHA384,
		Cipher_ECDHE_ECDSA_CHACHA20_POLY1305,
		Cipher_ECDHE_RSA_CHACHA20_POLY1305,
	}
}
