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
	"context"
	"crypto/tls"
	"net"
	"time"

	"github.com/nabbar/ntc/errs"
)

// ConfigSource builds a fresh *tls.Config snapshot for a given server
// name; certloader.Config.Build satisfies this directly, so the
// handshake always sees the most recently reloaded certificate
// material without this package importing certloader (which would
// otherwise own the only concrete Upgrader implementation and force
// every caller of socket/stream to pull in certloader too).
type ConfigSource func(serverName string) (*tls.Config, error)

// Upgrader implements socket/stream's Upgrader interface: it performs
// the TLS handshake over an already-connected net.Conn and hands back
// the wrapped *tls.Conn, or the handshake error.
type Upgrader struct {
	Source        ConfigSource
	ServerName    string
	HandshakeTimeout time.Duration
}

// NewUpgrader wraps a ConfigSource with the handshake timeout every
// connection upgrade is bounded by.
func NewUpgrader(src ConfigSource, serverName string, handshakeTimeout time.Duration) *Upgrader {
	if handshakeTimeout <= 0 {
		handshakeTimeout = 10 * time.Second
	}
	return &Upgrader{Source: src, ServerName: serverName, HandshakeTimeout: handshakeTimeout}
}

// Upgrade performs the handshake, client or server side, and returns
// the net.Conn socket/stream should read/write through from then on.
func (u *Upgrader) Upgrade(conn net.Conn, isServer bool) (net.Conn, error) {
	cfg, err := u.Source(u.ServerName)
	if err != nil {
		return nil, err
	}

	var tc *tls.Conn
	if isServer {
		tc = tls.Server(conn, cfg)
	} else {
		tc = tls.Client(conn, cfg)
	}

	ctx, cancel := context.WithTimeout(context.Background(), u.HandshakeTimeout)
	defer cancel()

	if err := tc.HandshakeContext(ctx); err != nil {
		return nil, errs.Wrap(errs.Invalid, err, "tls handshake")
	}
	return tc, nil
}
