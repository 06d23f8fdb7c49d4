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

import "os"

// BufferKind tags which variant of Buffer is populated.
type BufferKind uint8

const (
	BufferConst BufferKind = iota
	BufferMutable
	BufferBlob
	BufferFile
)

// Chunk is one fixed-capacity link in a blob chain, owned by a ChunkFactory.
type Chunk struct {
	Data []byte
	Len  int
}

// Buffer is the scatter/gather unit accepted by send/receive APIs: a
// constant range, a mutable range, a chain of chunks, or a file-backed
// zero-copy region.
type Buffer struct {
	Kind  BufferKind
	Const []byte
	Mut   []byte
	Blob  []Chunk
	File  *os.File
	Off   int64
	Len   int64
}

// ConstBuffer wraps an immutable byte range, the common case for send().
func ConstBuffer(b []byte) Buffer { return Buffer{Kind: BufferConst, Const: b} }

// MutableBuffer wraps a caller-owned byte range for receive() to fill.
func MutableBuffer(b []byte) Buffer { return Buffer{Kind: BufferMutable, Mut: b} }

// BlobBuffer wraps a chunk chain from a ChunkFactory.
func BlobBuffer(chunks []Chunk) Buffer { return Buffer{Kind: BufferBlob, Blob: chunks} }

// FileBuffer wraps a file region for zero-copy transmission.
func FileBuffer(f *os.File, off, length int64) Buffer {
	return Buffer{Kind: BufferFile, File: f, Off: off, Len: length}
}

// Size reports the buffer's payload length in bytes.
func (b Buffer) Size() int64 {
	switch b.Kind {
	case BufferConst:
		return int64(len(b.Const))
	case BufferMutable:
		return int64(len(b.Mut))
	case BufferBlob:
		var n int64
		for _, c := range b.Blob {
			n += int64(c.Len)
		}
		return n
	case BufferFile:
		return b.Len
	default:
		return 0
	}
}

// Bytes materialises the buffer's payload as a single contiguous slice.
// socket/stream's drainWrite calls it on every write pass; for a blob it
// copies the chain on each call, and a file buffer yields nil.
func (b Buffer) Bytes() []byte {
	switch b.Kind {
	case BufferConst:
		return b.Const
	case BufferMutable:
		return b.Mut
	case BufferBlob:
		out := make([]byte, 0, b.Size())
		for _, c := range b.Blob {
			out = append(out, c.Data[:c.Len]...)
		}
		return out
	default:
		return nil
	}
}

// ChunkFactory hands out and reclaims fixed-capacity chunks, shared and
// thread-safe by construction as spec.md's design notes require of the
// blob buffer factory.
type ChunkFactory struct {
	size int
	pool chan []byte
}

// NewChunkFactory builds a factory of chunks with the given fixed size,
// keeping up to cap released chunks for reuse; none are pre-allocated.
func NewChunkFactory(size, cap int) *ChunkFactory {
	return &ChunkFactory{size: size, pool: make(chan []byte, cap)}
}

func (f *ChunkFactory) Acquire() []byte {
	select {
	case b := <-f.pool:
		return b
	default:
		return make([]byte, f.size)
	}
}

func (f *ChunkFactory) Release(b []byte) {
	if cap(b) != f.size {
		return
	}
	select {
	case f.pool <- b[:f.size]:
	default:
	}
}

func (f *ChunkFactory) ChunkSize() int { return f.size }
