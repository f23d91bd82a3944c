// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package padding_test

import (
	"bytes"
	"testing"

	"github.com/H0llyW00dzZ/pki-toolkit/src/internal/helper/padding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPadUnpad(t *testing.T) {
	for _, size := range []int{0, 1, 15, 16, 17, 4096} {
		data := bytes.Repeat([]byte{0xAB}, size)
		padded := padding.Pad(data, 16)
		assert.Zero(t, len(padded)%16)
		assert.Greater(t, len(padded), size, "a full block is added when already aligned")

		out, err := padding.Unpad(padded, 16)
		require.NoError(t, err)
		assert.Equal(t, data, out)
	}
}

func TestUnpadRejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "Empty", data: nil},
		{name: "Unaligned", data: make([]byte, 15)},
		{name: "Zero Pad Byte", data: make([]byte, 16)},
		{name: "Pad Byte Too Large", data: append(make([]byte, 15), 17)},
		{name: "Inconsistent", data: append(make([]byte, 14), 1, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := padding.Unpad(tt.data, 16)
			assert.ErrorIs(t, err, padding.ErrInvalidPadding)
		})
	}
}
