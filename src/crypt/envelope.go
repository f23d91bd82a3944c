// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package crypt

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/H0llyW00dzZ/pki-toolkit/src/internal/helper/gc"
)

// Delimiter separates the envelope segments. It never occurs in hex or standard base64.
const Delimiter = "|"

var (
	// ErrSegmentCount indicates an envelope that does not have exactly three segments.
	ErrSegmentCount = errors.New("crypt: envelope must have exactly three segments")

	// ErrSegmentEncoding indicates a segment that is not valid hex or base64.
	ErrSegmentEncoding = errors.New("crypt: malformed envelope segment")
)

// Envelope is a hybrid encrypted payload.
//
// The wire form does not record the [Mode] it was sealed with. Both sides must
// agree on it out of band; opening with the other mode fails with
// [ErrAuthentication], and with [ErrModeMismatch] as well when the ciphertext
// length alone rules out the chosen mode.
type Envelope struct {
	// EncryptedKey is the session key wrapped with the recipient's public key.
	EncryptedKey []byte
	// Ciphertext is the data encrypted under the session key, including any tag.
	Ciphertext []byte
	// IV is the initialization vector or nonce.
	IV []byte
}

// String serializes the envelope in its wire form.
func (e *Envelope) String() string {
	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()

	buf.WriteString(hex.EncodeToString(e.EncryptedKey))
	buf.WriteString(Delimiter)
	buf.WriteString(base64.StdEncoding.EncodeToString(e.Ciphertext))
	buf.WriteString(Delimiter)
	buf.WriteString(hex.EncodeToString(e.IV))
	return buf.String()
}

// ParseEnvelope decodes the wire form produced by [Envelope.String].
// Surrounding whitespace is ignored.
func ParseEnvelope(s string) (*Envelope, error) {
	parts := strings.Split(strings.TrimSpace(s), Delimiter)
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: got %d", ErrSegmentCount, len(parts))
	}

	key, err := hex.DecodeString(parts[0])
	if err != nil || len(key) == 0 {
		return nil, fmt.Errorf("%w: session key", ErrSegmentEncoding)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: ciphertext", ErrSegmentEncoding)
	}
	iv, err := hex.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: IV", ErrSegmentEncoding)
	}

	return &Envelope{EncryptedKey: key, Ciphertext: ciphertext, IV: iv}, nil
}
