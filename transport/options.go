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

package transport

import "time"

// Option enumerates the socket-option surface of spec.md §3 plus the
// zero-copy/timestamp/out-of-band/routing options original_source's
// ntsu_socketoptionutil.cpp documents in full.
type Option uint8

const (
	OptReuseAddress Option = iota
	OptKeepAlive
	OptNoDelay
	OptLinger
	OptSendBufferSize
	OptRecvBufferSize
	OptSendLowWatermark
	OptRecvLowWatermark
	OptBroadcast
	OptBypassRouting
	OptInlineOutOfBand
	OptTimestampIncoming
	OptTimestampOutgoing
	OptZeroCopy
)

// OptionValue is the tagged-union "any option" form: exactly one of the
// fields below is meaningful, selected by Option.
type OptionValue struct {
	Option Option
	Bool   bool
	Int    int
	Linger time.Duration
}

func Bool(o Option, v bool) OptionValue    { return OptionValue{Option: o, Bool: v} }
func Int(o Option, v int) OptionValue      { return OptionValue{Option: o, Int: v} }
func Linger(v time.Duration) OptionValue   { return OptionValue{Option: OptLinger, Linger: v, Bool: v > 0} }

// Transport names the wire transport a socket opens over.
type Transport uint8

const (
	TransportTCP Transport = iota
	TransportUDP
	TransportUnix
	TransportUnixgram
)
