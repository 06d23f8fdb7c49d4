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
	"crypto/tls"
	"sync"

	"github.com/nabbar/ntc/errs"
	"github.com/nabbar/ntc/tlsadapter"
)

// Config accumulates certificate material and TLS policy (versions,
// ciphers, curves, client auth mode), then builds a *tls.Config on
// demand. It is safe for concurrent use: Build always reads a
// consistent snapshot, and a hot reload (see Watcher) can swap the
// certificate/CA material underneath an already-running listener.
type Config struct {
	mu sync.RWMutex

	pairs  []Pair
	rootCA *CAPool
	clntCA *CAPool

	clientAuth tls.ClientAuthType

	versionMin tlsadapter.Version
	versionMax tlsadapter.Version

	ciphers []tlsadapter.Cipher
	curves  []tlsadapter.Curve

	dynamicRecordSizingDisabled bool
	sessionTicketsDisabled      bool
}

// New returns a Config with the same conservative defaults the
// certificate management convention this is grounded on uses: TLS 1.2
// minimum, TLS 1.3 maximum, no client certificate requirement.
func New() *Config {
	return &Config{
		rootCA:     NewCAPool(),
		clntCA:     NewCAPool(),
		clientAuth: tls.NoClientCert,
		versionMin: tlsadapter.VersionTLS12,
		versionMax: tlsadapter.VersionTLS13,
	}
}

func (c *Config) AddCertificatePairFile(keyFile, crtFile string) error {
	p, err := LoadPairFile(keyFile, crtFile)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.pairs = append(c.pairs, p)
	c.mu.Unlock()
	return nil
}

func (c *Config) AddCertificatePairString(key, crt string) error {
	p, err := LoadPairPEM(key, crt)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.pairs = append(c.pairs, p)
	c.mu.Unlock()
	return nil
}

func (c *Config) ReplaceCertificatePairs(pairs []Pair) {
	c.mu.Lock()
	c.pairs = pairs
	c.mu.Unlock()
}

func (c *Config) AddRootCAFile(pemFile string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rootCA.AddFile(pemFile)
}

func (c *Config) AddRootCAString(pem string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rootCA.AddString(pem)
}

func (c *Config) AddClientCAFile(pemFile string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clntCA.AddFile(pemFile)
}

func (c *Config) SetClientAuth(a tls.ClientAuthType) {
	c.mu.Lock()
	c.clientAuth = a
	c.mu.Unlock()
}

func (c *Config) SetVersionRange(min, max tlsadapter.Version) {
	c.mu.Lock()
	c.versionMin, c.versionMax = min, max
	c.mu.Unlock()
}

func (c *Config) SetCiphers(ciphers []tlsadapter.Cipher) {
	c.mu.Lock()
	c.ciphers = ciphers
	c.mu.Unlock()
}

func (c *Config) SetCurves(curves []tlsadapter.Curve) {
	c.mu.Lock()
	c.curves = curves
	c.mu.Unlock()
}

func (c *Config) SetDynamicRecordSizingDisabled(v bool) {
	c.mu.Lock()
	c.dynamicRecordSizingDisabled = v
	c.mu.Unlock()
}

func (c *Config) SetSessionTicketsDisabled(v bool) {
	c.mu.Lock()
	c.sessionTicketsDisabled = v
	c.mu.Unlock()
}

// Build renders a *tls.Config snapshot for the given server name (used
// for client-side SNI and certificate validation; ignored on the
// server side). Every call returns an independent *tls.Config so a
// later in-place Config mutation (e.g. via Watcher's hot reload) never
// races a handshake already in flight against a previous snapshot.
func (c *Config) Build(serverName string) (*tls.Config, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.pairs) == 0 {
		return nil, errs.New(errs.Invalid, "no certificate pair configured")
	}

	certs := make([]tls.Certificate, 0, len(c.pairs))
	for _, p := range c.pairs {
		certs = append(certs, p.TLS())
	}

	cfg := &tls.Config{
		ServerName:               serverName,
		Certificates:             certs,
		RootCAs:                  c.rootCA.Pool(),
		ClientCAs:                c.clntCA.Pool(),
		ClientAuth:               c.clientAuth,
		MinVersion:               uint16(c.versionMin),
		MaxVersion:               uint16(c.versionMax),
		DynamicRecordSizingDisabled: c.dynamicRecordSizingDisabled,
		SessionTicketsDisabled:      c.sessionTicketsDisabled,
	}

	if len(c.ciphers) > 0 {
		suites := make([]uint16, 0, len(c.ciphers))
		for _, ci := range c.ciphers {
			suites = append(suites, uint16(ci))
		}
		cfg.CipherSuites = suites
	}
	if len(c.curves) > 0 {
		curves := make([]tls.CurveID, 0, len(c.curves))
		for _, cv := range c.curves {
			curves = append(curves, tls.CurveID(cv))
		}
		cfg.CurvePreferences = curves
	}

	return cfg, nil
}
