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

// Package errs implements the fixed error-kind taxonomy consumed across the
// engine, queue, and socket packages. Unlike an open HTTP-status-style code
// space, the kind set is closed: every asynchronous operation in this module
// completes with one of these kinds, never an ad-hoc code.
package errs

import (
	"errors"
	"fmt"
	"runtime"
)

// Kind classifies why an operation did not simply succeed.
type Kind uint8

const (
	OK Kind = iota
	WouldBlock
	TimedOut
	Cancelled
	EOF
	ConnectionDead
	ConnectionReset
	Invalid
	NotImplemented
	ResourceLimit
)

func (k Kind) String() string {
	switch k {
	case OK:
		return "OK"
	case WouldBlock:
		return "WOULD_BLOCK"
	case TimedOut:
		return "TIMED_OUT"
	case Cancelled:
		return "CANCELLED"
	case EOF:
		return "EOF"
	case ConnectionDead:
		return "CONNECTION_DEAD"
	case ConnectionReset:
		return "CONNECTION_RESET"
	case Invalid:
		return "INVALID"
	case NotImplemented:
		return "NOT_IMPLEMENTED"
	case ResourceLimit:
		return "RESOURCE_LIMIT"
	default:
		return "UNKNOWN"
	}
}

// Error is the error type returned and propagated by every core package.
// It carries a Kind, an optional message, an optional parent (wrapped)
// error, and the call site that created it, mirroring the stack-capturing
// error used throughout the ambient stack this module was grown from.
type Error interface {
	error
	Kind() Kind
	Is(kind Kind) bool
	Unwrap() error
	File() string
	Line() int
}

type ers struct {
	k Kind
	m string
	p error
	f string
	l int
}

func (e *ers) Kind() Kind { return e.k }

func (e *ers) Is(kind Kind) bool { return e.k == kind }

func (e *ers) Unwrap() error { return e.p }

func (e *ers) File() string { return e.f }

func (e *ers) Line() int { return e.l }

func (e *ers) Error() string {
	if e.m == "" {
		return e.k.String()
	}
	if e.p != nil {
		return fmt.Sprintf("%s: %s: %v", e.k, e.m, e.p)
	}
	return fmt.Sprintf("%s: %s", e.k, e.m)
}

// New creates a new Error of the given kind with an optional formatted message.
func New(kind Kind, pattern string, args ...any) Error {
	f, l := frame()
	var m string
	if pattern != "" {
		m = fmt.Sprintf(pattern, args...)
	}
	return &ers{k: kind, m: m, f: f, l: l}
}

// Wrap creates a new Error of the given kind chaining the given parent error.
func Wrap(kind Kind, parent error, pattern string, args ...any) Error {
	f, l := frame()
	var m string
	if pattern != "" {
		m = fmt.Sprintf(pattern, args...)
	}
	return &ers{k: kind, m: m, p: parent, f: f, l: l}
}

// Is reports whether err (or any error in its Unwrap chain) carries the
// given Kind. It is the idiomatic complement to errors.Is for this
// module's closed error taxonomy.
func Is(err error, kind Kind) bool {
	var e Error
	for err != nil {
		if errors.As(err, &e) {
			if e.Kind() == kind {
				return true
			}
			err = e.Unwrap()
			continue
		}
		return false
	}
	return false
}

// KindOf extracts the Kind carried by err, or OK if err is nil, or
// Invalid if err is a plain error not produced by this package.
func KindOf(err error) Kind {
	if err == nil {
		return OK
	}
	var e Error
	if errors.As(err, &e) {
		return e.Kind()
	}
	return Invalid
}

func frame() (string, int) {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "", 0
	}
	return file, line
}
