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

// Package logger is the structured-logging facade used by every core
// package. It wraps logrus with a small fields abstraction so call sites
// never import logrus directly, the way nabbar-golib/logger insulates its
// callers from the backing logging library.
package logger

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Fields carries structured key/value context attached to a log entry.
type Fields map[string]any

// Logger is the facade consumed by engine, queue, socket and tls packages.
type Logger interface {
	SetLevel(lvl Level)
	GetLevel() Level
	WithFields(f Fields) Logger
	Debug(msg string, f Fields)
	Info(msg string, f Fields)
	Warn(msg string, f Fields)
	Error(msg string, err error, f Fields)
}

// Level mirrors the subset of logrus levels the core cares about.
type Level uint32

const (
	LevelDebug Level = Level(logrus.DebugLevel)
	LevelInfo  Level = Level(logrus.InfoLevel)
	LevelWarn  Level = Level(logrus.WarnLevel)
	LevelError Level = Level(logrus.ErrorLevel)
)

type logger struct {
	mu   sync.RWMutex
	lvl  uint32
	base *logrus.Entry
}

// New builds a Logger writing JSON-less text lines to w (stderr if nil),
// the default output the teacher's hookstderr package uses for a bare
// unconfigured logger.
func New(w io.Writer) Logger {
	if w == nil {
		w = os.Stderr
	}
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	g := &logger{base: logrus.NewEntry(l)}
	g.SetLevel(LevelInfo)
	return g
}

func (g *logger) SetLevel(lvl Level) {
	atomic.StoreUint32(&g.lvl, uint32(lvl))
	g.mu.Lock()
	defer g.mu.Unlock()
	g.base.Logger.SetLevel(logrus.Level(lvl))
}

func (g *logger) GetLevel() Level {
	return Level(atomic.LoadUint32(&g.lvl))
}

func (g *logger) WithFields(f Fields) Logger {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return &logger{base: g.base.WithFields(logrus.Fields(f)), lvl: g.lvl}
}

func (g *logger) entry(f Fields) *logrus.Entry {
	g.mu.RLock()
	e := g.base
	g.mu.RUnlock()
	if len(f) > 0 {
		e = e.WithFields(logrus.Fields(f))
	}
	return e
}

func (g *logger) Debug(msg string, f Fields) { g.entry(f).Debug(msg) }
func (g *logger) Info(msg string, f Fields)  { g.entry(f).Info(msg) }
func (g *logger) Warn(msg string, f Fields)  { g.entry(f).Warn(msg) }

func (g *logger) Error(msg string, err error, f Fields) {
	e := g.entry(f)
	if err != nil {
		e = e.WithError(err)
	}
	e.Error(msg)
}

// Discard is a Logger that drops every entry, used as the zero-value
// default so packages never need a nil check before logging.
func Discard() Logger {
	return New(io.Discard)
}
