// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package ca

import (
	"crypto"
	"crypto/x509"
	"fmt"

	x509certs "github.com/H0llyW00dzZ/pki-toolkit/src/internal/x509/certs"
	x509keys "github.com/H0llyW00dzZ/pki-toolkit/src/internal/x509/keys"
	"github.com/H0llyW00dzZ/pki-toolkit/src/pki"
)

// IssuerMode selects who signs a new certificate.
// It is implemented only by [SelfSigned] and [ChainedTo].
type IssuerMode interface {
	describe() string
}

// SelfSigned issues a root certificate signed by its own new key.
type SelfSigned struct{}

func (SelfSigned) describe() string { return "self-signed" }

// ChainedTo issues a certificate signed by an existing authority.
type ChainedTo struct {
	// CertificateFile is the issuer certificate (PEM or DER).
	CertificateFile string
	// KeyFile is the issuer's encrypted private key.
	KeyFile string
	// Password unlocks KeyFile.
	Password pki.Secret
}

func (c ChainedTo) describe() string { return "chained to " + c.CertificateFile }

// issuer is a loaded signing authority.
type issuer struct {
	cert *x509.Certificate
	key  crypto.Signer
}

// load reads the issuer certificate and key and checks that they belong together.
func (c ChainedTo) load(certs *x509certs.Certificate) (*issuer, error) {
	cert, err := certs.ReadFile(c.CertificateFile)
	if err != nil {
		return nil, fmt.Errorf("issuer certificate: %w", err)
	}
	if !cert.BasicConstraintsValid || !cert.IsCA {
		return nil, fmt.Errorf("issuer certificate %s is not a CA", c.CertificateFile)
	}

	key, err := x509keys.Load(c.KeyFile, c.Password)
	if err != nil {
		return nil, fmt.Errorf("issuer key: %w", err)
	}
	if err := x509keys.Matches(key, cert.PublicKey); err != nil {
		return nil, fmt.Errorf("issuer key %s: %w", c.KeyFile, err)
	}

	return &issuer{cert: cert, key: key}, nil
}
