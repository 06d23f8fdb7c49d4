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

// Curve is an elliptic curve usable by ECDHE cipher suites.
type Curve uint16

const (
	CurveX25519 = Curve(tls.X25519)
	CurveP256   = Curve(tls.CurveP256)
	CurveP384   = Curve(tls.CurveP384)
	CurveP521   = Curve(tls.CurveP521)
)

func (c Curve) String() string {
	switch c {
	case CurveX25519:
		return "X25519"
	case CurveP256:
		return "P256"
	case CurveP384:
		return "P384"
	case CurveP521:
		return "P521"
	default:
		return "unknown"
	}
}

func ParseCurve(s string) Curve {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X25519":
		return CurveX25519
	case "P256", "SECP256R1":
		return CurveP256
	case "P384", "SECP384R1":
		return CurveP384
	case "P521", "SECP521R1":
		return CurveP521
	default:
		return 0
	}
}

// DefaultCurves prefers X25519 for its performance, falling back to the
// NIST curves for interoperability with older peers.
func DefaultCurves() []Curve {
	return []Curve{CurveX25519, CurveP256, CurveP384, CurveP521}
}
