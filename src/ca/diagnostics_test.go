// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package ca

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/pki-toolkit/src/pki"
)

func TestDiagnostics(t *testing.T) {
	errKey := errors.New("key generation failed")
	errSign := errors.New("signing failed")

	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "Drain Without Pending Is A No-op",
			testFunc: func(t *testing.T) {
				var d diagnostics
				assert.NoError(t, d.drain())
				assert.NoError(t, d.drain())
			},
		},
		{
			name: "Nil Errors Are Ignored",
			testFunc: func(t *testing.T) {
				var d diagnostics
				d.record("stage", nil)
				assert.False(t, d.pending())
				assert.NoError(t, d.drain())
			},
		},
		{
			name: "Aggregates In Order",
			testFunc: func(t *testing.T) {
				var d diagnostics
				d.record("generate key pair", errKey)
				d.record("sign certificate", errSign)

				err := d.drain()
				require.Error(t, err)

				var pe *pki.Error
				require.ErrorAs(t, err, &pe)
				assert.Equal(t, pki.KindCreateCertificate, pe.Kind)
				assert.Equal(t, "generate key pair: key generation failed\nsign certificate: signing failed", pe.Message)
				assert.ErrorIs(t, err, errKey)
				assert.ErrorIs(t, err, errSign)
			},
		},
		{
			name: "Drain Resets",
			testFunc: func(t *testing.T) {
				var d diagnostics
				d.record("stage", errKey)
				require.Error(t, d.drain())
				assert.False(t, d.pending())
				assert.NoError(t, d.drain())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.testFunc)
	}
}
