// Copyright (c) 2024 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package gc

import (
	"io"
	"os"

	"github.com/valyala/bytebufferpool"
)

// Buffer defines the interface for a reusable byte buffer.
// It abstracts the [bytebufferpool.ByteBuffer] type to avoid direct dependencies.
type Buffer interface {
	Write(p []byte) (int, error)
	WriteString(s string) (int, error)
	WriteByte(c byte) error
	ReadFrom(r io.Reader) (int64, error)
	Bytes() []byte
	String() string
	Len() int
	Reset()
}

// Pool defines the interface for buffer pooling.
// It abstracts the [bytebufferpool.Pool] type to avoid direct dependencies.
//
// Pool implementations must be safe for concurrent use by multiple goroutines.
type Pool interface {
	Get() Buffer
	Put(b Buffer)
}

// pool wraps [bytebufferpool.Pool] to implement Pool interface.
type pool struct{ p *bytebufferpool.Pool }

// Get returns a buffer from the pool.
func (p *pool) Get() Buffer { return p.p.Get() }

// Put returns a buffer to the pool.
func (p *pool) Put(b Buffer) {
	if buf, ok := b.(*bytebufferpool.ByteBuffer); ok {
		p.p.Put(buf)
	}
}

// Default is the default buffer pool used for certificate, key and envelope I/O.
//
// Example usage for reading a certificate file:
//
//	buf := gc.Default.Get()
//
//	defer func() {
//		buf.Reset()         // Reset the buffer to prevent data leaks
//		gc.Default.Put(buf) // Return the buffer to the pool for reuse
//	}()
//
//	if _, err := buf.ReadFrom(file); err != nil {
//		return nil, fmt.Errorf("error reading certificate: %w", err)
//	}
//
// Buffers that held key material must be wiped with [Wipe] instead of a plain
// Reset, because Reset keeps the underlying array for the next user.
var Default Pool = &pool{p: &bytebufferpool.Pool{}}

// Wipe zeroes the buffer contents, resets it and returns it to the pool.
func Wipe(p Pool, b Buffer) {
	clear(b.Bytes())
	b.Reset()
	p.Put(b)
}

// ReadFile reads the named file through a pooled buffer and returns a private copy
// of its contents. The pooled buffer is wiped before it is returned to the pool, so
// ReadFile is suitable for private keys.
func ReadFile(name string) ([]byte, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := Default.Get()
	defer Wipe(Default, buf)

	if _, err := buf.ReadFrom(f); err != nil {
		return nil, err
	}

	return append([]byte(nil), buf.Bytes()...), nil
}
