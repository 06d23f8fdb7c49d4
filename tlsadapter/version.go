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

// Package tlsadapter names TLS versions, cipher suites and curves, and
// upgrades a plain net.Conn to a TLS one using a *tls.Config from a
// ConfigSource (such as certloader.Config.Build), implementing the
// stream.Upgrader contract socket/stream's UpgradeTLS consumes.
package tlsadapter

import (
	"crypto/tls"
	"strings"
)

// Version is a TLS protocol version, parseable from the short strings
// operators write in configuration files.
type Version int

const (
	VersionUnknown Version = iota
	VersionTLS10           = Version(tls.VersionTLS10)
	VersionTLS11           = Version(tls.VersionTLS11)
	VersionTLS12           = Version(tls.VersionTLS12)
	VersionTLS13           = Version(tls.VersionTLS13)
)

func (v Version) String() string {
	switch v {
	case VersionTLS10:
		return "1.0"
	case VersionTLS11:
		return "1.1"
	case VersionTLS12:
		return "1.2"
	case VersionTLS13:
		return "1.3"
	default:
		return "unknown"
	}
}

// ParseVersion accepts "1.0".."1.3" (and the bare "10".."13" form) and
// returns VersionUnknown for anything else.
func ParseVersion(s string) Version {
	switch strings.TrimSpace(s) {
	case "1.0", "10":
		return VersionTLS10
	case "1.1", "11":
		return VersionTLS11
	case "1.2", "12":
		return VersionTLS12
	case "1.3", "13":
		return VersionTLS13
	default:
		return VersionUnknown
	}
}
