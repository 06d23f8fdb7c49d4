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

// Command echoclient is the counterpart demo to cmd/echoserver: it
// dials a listener over the ntc core, then reads lines from stdin,
// sends each as one length-prefixed frame, and prints the frame it
// gets back before reading the next line.
package main

import (
	"bufio"
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/nabbar/ntc/cmd/internal/framing"
	"github.com/nabbar/ntc/config"
	"github.com/nabbar/ntc/engine"
	"github.com/nabbar/ntc/errs"
	"github.com/nabbar/ntc/logger"
	"github.com/nabbar/ntc/rawsocket"
	"github.com/nabbar/ntc/resolve"
	"github.com/nabbar/ntc/runner"
	"github.com/nabbar/ntc/socket/stream"
	"github.com/nabbar/ntc/tlsadapter"
	"github.com/nabbar/ntc/transport"
)

var (
	flagAddr       string
	flagMessage    string
	flagConnectTTL time.Duration
	flagTLS        bool
	flagServerName string
	flagLogLevel   string
)

func main() {
	root := &cobra.Command{
		Use:   "echoclient",
		Short: "length-prefixed echo client demonstrating the ntc core",
		RunE:  runClient,
	}
	root.Flags().StringVar(&flagAddr, "addr", "127.0.0.1:9443", "host:port to connect to")
	root.Flags().StringVar(&flagMessage, "message", "", "single message to send and exit; omit for an interactive stdin loop")
	root.Flags().DurationVar(&flagConnectTTL, "connect-timeout", 5*time.Second, "deadline for the initial connect")
	root.Flags().BoolVar(&flagTLS, "tls", false, "upgrade the connection to TLS once connected")
	root.Flags().StringVar(&flagServerName, "tls-server-name", "", "expected server name for TLS certificate validation")
	root.Flags().StringVar(&flagLogLevel, "log-level", "warn", "debug|info|warn|error")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runClient(cmd *cobra.Command, args []string) error {
	log := logger.New(os.Stderr)
	log.SetLevel(parseLevel(flagLogLevel))

	eng := engine.NewReactor(engine.DefaultReactorConfig(), log)
	life := runner.FromEngine(eng)
	if err := life.Start(cmd.Context()); err != nil {
		return errs.Wrap(errs.Invalid, err, "start engine")
	}
	defer func() { _ = life.Stop(cmd.Context()) }()

	ep, network, err := resolveTarget(cmd, flagAddr)
	if err != nil {
		return err
	}

	sock, err := rawsocket.Dial(network, ep, time.Now().Add(flagConnectTTL))
	if err != nil {
		return errs.Wrap(errs.ConnectionDead, err, "dial %s", flagAddr)
	}

	d := config.DefaultStreamOptions()
	strm := stream.New(sock, stream.Options{
		Engine:    eng,
		Logger:    log,
		ReadLow:   d.Read.Low,
		ReadHigh:  d.Read.High,
		WriteLow:  d.Write.Low,
		WriteHigh: d.Write.High,
	}, true)
	defer func() { _ = strm.Close(nil) }()

	if flagTLS {
		upgrader := tlsadapter.NewUpgrader(insecureClientConfig, flagServerName, 10*time.Second)
		if err := strm.UpgradeTLS(upgrader, false); err != nil {
			return errs.Wrap(errs.ConnectionDead, err, "tls handshake")
		}
	}

	if flagMessage != "" {
		return roundTrip(strm, []byte(flagMessage))
	}
	return interactive(strm)
}

// interactive drives stdin, one line per round trip, waiting for each
// response before prompting for the next line.
func interactive(strm *stream.Socket) error {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if err := roundTrip(strm, []byte(line)); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// roundTrip sends payload as one frame and blocks until the matching
// response frame (or an error) arrives, bridging the stream socket's
// callback-based API into the synchronous flow a CLI needs.
func roundTrip(strm *stream.Socket, payload []byte) error {
	done := make(chan error, 1)

	framing.WriteFrame(strm, payload, func(err error) {
		if err != nil {
			done <- err
			return
		}
		framing.ReadFrame(strm, func(resp []byte, err error) {
			if err != nil {
				done <- err
				return
			}
			fmt.Println(string(resp))
			done <- nil
		})
	})

	return <-done
}

func resolveTarget(cmd *cobra.Command, addr string) (transport.Endpoint, string, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return transport.Endpoint{}, "", errs.Wrap(errs.Invalid, err, "parse address %q", addr)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return transport.Endpoint{}, "", errs.Wrap(errs.Invalid, err, "parse port %q", portStr)
	}

	res, err := resolve.New(32, time.Minute)
	if err != nil {
		return transport.Endpoint{}, "", err
	}
	eps, err := res.Resolve(cmd.Context(), "ip", host, uint16(port))
	if err != nil {
		return transport.Endpoint{}, "", err
	}
	return eps[0], "tcp", nil
}

// insecureClientConfig is the ConfigSource used by --tls: it has no
// certificate material of its own (a client does not present one to
// dial out); it pins the minimum version to TLS 1.2 and leaves the
// cipher list and maximum version to crypto/tls's own defaults. A deployment that needs to pin a root CA should build
// its own certloader.Config and pass Config.Build instead.
func insecureClientConfig(serverName string) (*tls.Config, error) {
	return &tls.Config{ServerName: serverName, MinVersion: tls.VersionTLS12}, nil
}

func parseLevel(s string) logger.Level {
	switch s {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "error":
		return logger.LevelError
	default:
		return logger.LevelWarn
	}
}
