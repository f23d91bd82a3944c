// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package pki

import (
	"fmt"
	"io"
)

const redacted = "[REDACTED]"

// Secret holds password or key material.
//
// It never prints its contents through the fmt verbs, JSON or YAML, so it can
// be passed around alongside loggable values. Call Zero once the material is
// no longer needed.
type Secret []byte

// NewSecret copies s into a new Secret.
func NewSecret(s string) Secret { return Secret(s) }

// Clone returns an independent copy.
func (s Secret) Clone() Secret { return append(Secret(nil), s...) }

// IsEmpty reports whether the secret holds no bytes.
func (s Secret) IsEmpty() bool { return len(s) == 0 }

// Zero overwrites the secret in place.
func (s Secret) Zero() {
	for i := range s {
		s[i] = 0
	}
}

// String implements fmt.Stringer without revealing the secret.
func (s Secret) String() string { return redacted }

// GoString implements fmt.GoStringer without revealing the secret.
func (s Secret) GoString() string { return redacted }

// Format implements fmt.Formatter so that every verb is redacted, including %x and %v.
func (s Secret) Format(f fmt.State, _ rune) { _, _ = io.WriteString(f, redacted) }

// MarshalJSON implements json.Marshaler without revealing the secret.
func (s Secret) MarshalJSON() ([]byte, error) { return []byte(`"` + redacted + `"`), nil }

// MarshalYAML implements yaml.Marshaler without revealing the secret.
func (s Secret) MarshalYAML() (any, error) { return redacted, nil }
