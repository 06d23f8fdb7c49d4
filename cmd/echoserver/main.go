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

// Command echoserver is the thin length-prefixed request/response demo
// spec.md scopes out of the core: it accepts connections on a
// socket/listener.Listener, reads one length-prefixed frame at a time
// off each socket/stream.Socket, upper-cases the payload, and writes
// it back with the same framing. It exists to exercise the core
// engine/queue/socket machinery end to end, not as a protocol of its
// own.
package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nabbar/ntc/certloader"
	"github.com/nabbar/ntc/cmd/internal/framing"
	"github.com/nabbar/ntc/config"
	"github.com/nabbar/ntc/engine"
	"github.com/nabbar/ntc/errs"
	"github.com/nabbar/ntc/logger"
	"github.com/nabbar/ntc/metrics"
	"github.com/nabbar/ntc/queue"
	"github.com/nabbar/ntc/runner"
	"github.com/nabbar/ntc/socket/listener"
	"github.com/nabbar/ntc/socket/stream"
	"github.com/nabbar/ntc/tlsadapter"
	"github.com/nabbar/ntc/transport"
)

var (
	flagListen    string
	flagTLSCert   string
	flagTLSKey    string
	flagTLSWatch  bool
	flagLogLevel  string
	flagMetricsNS string
)

func main() {
	root := &cobra.Command{
		Use:   "echoserver",
		Short: "length-prefixed echo server demonstrating the ntc core",
		RunE:  runServer,
	}
	root.Flags().StringVar(&flagListen, "listen", "127.0.0.1:9443", "address to listen on")
	root.Flags().StringVar(&flagTLSCert, "tls-cert", "", "certificate file; enables TLS when set with --tls-key")
	root.Flags().StringVar(&flagTLSKey, "tls-key", "", "key file; enables TLS when set with --tls-cert")
	root.Flags().BoolVar(&flagTLSWatch, "tls-watch", false, "hot-reload the certificate pair on change")
	root.Flags().StringVar(&flagLogLevel, "log-level", "info", "debug|info|warn|error")
	root.Flags().StringVar(&flagMetricsNS, "metrics-namespace", "echoserver", "prometheus namespace for published metrics")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	log := logger.New(os.Stderr)
	log.SetLevel(parseLevel(flagLogLevel))
	reg := metrics.New(flagMetricsNS)

	eng := engine.NewReactor(engine.DefaultReactorConfig(), log)
	life := runner.FromEngine(eng)
	if err := life.Start(cmd.Context()); err != nil {
		return errs.Wrap(errs.Invalid, err, "start engine")
	}

	ep, network, err := endpointFromAddr(flagListen)
	if err != nil {
		return err
	}

	streamOpts := defaultStreamOptions(eng, log, reg)

	var upgrader *tlsadapter.Upgrader
	if flagTLSCert != "" && flagTLSKey != "" {
		upgrader, err = newServerUpgrader(log)
		if err != nil {
			return err
		}
	}

	lnOpts := listener.Options{
		Engine:        eng,
		Logger:        log,
		AcceptLow:     4,
		AcceptHigh:    64,
		StreamOptions: streamOpts,
		OnAcceptWatermark: func(m queue.Mark) {
			reg.CountMark("accept", m)
		},
	}

	ln, err := listener.Listen(network, ep, 128, lnOpts)
	if err != nil {
		return errs.Wrap(errs.Invalid, err, "listen on %s", flagListen)
	}
	log.Info("echoserver: listening", logger.Fields{"address": ln.LocalEndpoint().String(), "tls": upgrader != nil})

	acceptLoop(ln, upgrader, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("echoserver: shutting down", nil)
	_ = ln.Close(nil)
	return life.Stop(cmd.Context())
}

// acceptLoop keeps one accept request outstanding at all times,
// spawning handleConn for every connection it hands out and
// re-arming itself from inside the callback.
func acceptLoop(ln *listener.Listener, upgrader *tlsadapter.Upgrader, log logger.Logger) {
	var next func(*stream.Socket, error)
	next = func(strm *stream.Socket, err error) {
		if err != nil {
			if !errs.Is(err, errs.Cancelled) {
				log.Warn("echoserver: accept failed", logger.Fields{"error": err})
			}
		} else {
			go handleConn(strm, upgrader, log)
		}
		if ln.State() == listener.StateListening {
			_, _ = ln.Accept(time.Time{}, true, next)
		}
	}
	_, _ = ln.Accept(time.Time{}, true, next)
}

// handleConn serves length-prefixed request/response frames off strm
// until the peer disconnects or a frame fails to decode, recursing
// through callbacks rather than blocking a goroutine on I/O.
func handleConn(strm *stream.Socket, upgrader *tlsadapter.Upgrader, log logger.Logger) {
	if upgrader != nil {
		if err := strm.UpgradeTLS(upgrader, true); err != nil {
			log.Warn("echoserver: tls handshake failed", logger.Fields{"error": err, "peer": strm.RemoteEndpoint().String()})
			_ = strm.Close(err)
			return
		}
	}
	serveNext(strm, log)
}

func serveNext(strm *stream.Socket, log logger.Logger) {
	framing.ReadFrame(strm, func(payload []byte, err error) {
		if err != nil {
			if !errs.Is(err, errs.EOF) && !errs.Is(err, errs.Cancelled) {
				log.Warn("echoserver: read failed", logger.Fields{"error": err})
			}
			_ = strm.Close(nil)
			return
		}
		reply := toUpper(payload)
		framing.WriteFrame(strm, reply, func(err error) {
			if err != nil {
				log.Warn("echoserver: write failed", logger.Fields{"error": err})
				_ = strm.Close(err)
				return
			}
			serveNext(strm, log)
		})
	})
}

func toUpper(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return out
}

func endpointFromAddr(addr string) (transport.Endpoint, string, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return transport.Endpoint{}, "", errs.Wrap(errs.Invalid, err, "parse listen address %q", addr)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return transport.Endpoint{}, "", errs.Wrap(errs.Invalid, err, "parse listen port %q", portStr)
	}
	domain := transport.DomainIPv4
	if ip := net.ParseIP(host); ip != nil && ip.To4() == nil {
		domain = transport.DomainIPv6
	}
	return transport.NewIPEndpoint(domain, host, uint16(port), ""), "tcp", nil
}

func defaultStreamOptions(eng engine.Engine, log logger.Logger, reg *metrics.Registry) stream.Options {
	d := config.DefaultStreamOptions()
	return stream.Options{
		Engine:    eng,
		Logger:    log,
		ReadLow:   d.Read.Low,
		ReadHigh:  d.Read.High,
		WriteLow:  d.Write.Low,
		WriteHigh: d.Write.High,
		OnReadWatermark: func(m queue.Mark) {
			reg.CountMark("read", m)
		},
		OnWriteWatermark: func(m queue.Mark) {
			reg.CountMark("write", m)
		},
	}
}

func newServerUpgrader(log logger.Logger) (*tlsadapter.Upgrader, error) {
	cfg := certloader.New()
	if err := cfg.AddCertificatePairFile(flagTLSKey, flagTLSCert); err != nil {
		return nil, errs.Wrap(errs.Invalid, err, "load tls certificate pair")
	}
	if flagTLSWatch {
		w, err := certloader.NewWatcher(flagTLSKey, flagTLSCert, log, func() error {
			pair, err := certloader.LoadPairFile(flagTLSKey, flagTLSCert)
			if err != nil {
				return err
			}
			cfg.ReplaceCertificatePairs([]certloader.Pair{pair})
			return nil
		})
		if err != nil {
			return nil, errs.Wrap(errs.Invalid, err, "watch tls certificate pair")
		}
		_ = w // lifetime matches the process; nothing else owns stopping it here
	}
	return tlsadapter.NewUpgrader(cfg.Build, "", 10*time.Second), nil
}

func parseLevel(s string) logger.Level {
	switch s {
	case "debug":
		return logger.LevelDebug
	case "warn":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}
