// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package padding implements the PKCS#7 block padding used with CBC mode,
// both for password-protected private keys and for cipher envelopes.
package padding

import (
	"crypto/subtle"
	"errors"
)

// ErrInvalidPadding indicates that the decrypted data does not end in valid padding.
// With CBC this usually means a wrong key or password.
var ErrInvalidPadding = errors.New("padding: invalid PKCS#7 padding")

// Pad appends PKCS#7 padding for the given block size.
func Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	out := make([]byte, len(data)+n)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

// Unpad strips PKCS#7 padding. The padding bytes are compared in constant time.
func Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrInvalidPadding
	}

	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, ErrInvalidPadding
	}

	good := 1
	for _, b := range data[len(data)-n:] {
		good &= subtle.ConstantTimeByteEq(b, byte(n))
	}
	if good != 1 {
		return nil, ErrInvalidPadding
	}
	return data[:len(data)-n], nil
}
