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

// Package framing implements the length-prefixed request/response
// wire format shared by cmd/echoserver and cmd/echoclient: a 4-byte
// big-endian length header followed by that many payload bytes. It is
// the thin application-protocol demo spec.md places out of scope for
// the core itself.
package framing

import (
	"encoding/binary"
	"time"

	"github.com/nabbar/ntc/errs"
	"github.com/nabbar/ntc/queue"
	"github.com/nabbar/ntc/socket/stream"
)

// MaxFrame bounds a single frame's payload, guarding against a
// corrupt or hostile length header driving an unbounded allocation.
const MaxFrame = 16 * 1024 * 1024

const headerSize = 4

// Encode prepends payload with its big-endian length header.
func Encode(payload []byte) []byte {
	buf := make([]byte, headerSize+len(payload))
	binary.BigEndian.PutUint32(buf, uint32(len(payload)))
	copy(buf[headerSize:], payload)
	return buf
}

// ReadFrame reads one length-prefixed frame off strm, asynchronously:
// it first reads the 4-byte header, then the declared payload length,
// and calls cb with the decoded payload or the error (errs.EOF on
// clean peer shutdown, errs.ResourceLimit if the declared length
// exceeds MaxFrame).
func ReadFrame(strm *stream.Socket, cb func(payload []byte, err error)) {
	_, _ = strm.Receive(headerSize, headerSize, time.Time{}, func(r queue.ReceiveResult) {
		if r.Err != nil {
			cb(nil, r.Err)
			return
		}
		n := binary.BigEndian.Uint32(r.Data)
		if n > MaxFrame {
			cb(nil, errs.New(errs.ResourceLimit, "frame length %d exceeds maximum %d", n, MaxFrame))
			return
		}
		if n == 0 {
			cb(nil, nil)
			return
		}
		_, _ = strm.Receive(int(n), int(n), time.Time{}, func(body queue.ReceiveResult) {
			if body.Err != nil {
				cb(nil, body.Err)
				return
			}
			cb(body.Data, nil)
		})
	})
}

// WriteFrame sends payload with its length header, invoking cb once
// the whole frame has been transmitted or failed.
func WriteFrame(strm *stream.Socket, payload []byte, cb func(err error)) {
	_, _ = strm.Send(Encode(payload), time.Time{}, func(r queue.SendResult) {
		cb(r.Err)
	})
}
