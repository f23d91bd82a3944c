// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"crypto/x509"
	"errors"
	"sync"
	"time"

	x509certs "github.com/H0llyW00dzZ/pki-toolkit/src/internal/x509/certs"
)

// ErrEmptyChain indicates an operation on a chain without certificates.
var ErrEmptyChain = errors.New("x509chain: chain has no certificates")

// Chain manages [X.509] certificates ordered from the leaf up to the
// certificate that anchors it.
//
// [X.509]: https://grokipedia.com/page/X.509
type Chain struct {
	mu    sync.RWMutex
	Certs []*x509.Certificate
	*x509certs.Certificate
	Roots         *x509.CertPool
	Intermediates *x509.CertPool

	// Now returns the time used for validity checks. Defaults to [time.Now].
	Now func() time.Time
}

// New creates a new Chain.
//
// Parameters:
//   - cert: Starting certificate (leaf)
//
// Returns:
//   - *Chain: New Chain instance
func New(cert *x509.Certificate) *Chain {
	return &Chain{
		Certs:         []*x509.Certificate{cert},
		Certificate:   x509certs.New(),
		Roots:         x509.NewCertPool(),
		Intermediates: x509.NewCertPool(),
		Now:           time.Now,
	}
}

// Resolve extends the chain with issuers taken from candidates.
//
// Starting from the last certificate in the chain, it repeatedly looks for a
// candidate whose key verifies the current certificate's signature, appends it,
// and stops once a root (self-signed) certificate is reached or no issuer is found.
// Candidates may be given in any order. Each candidate is used at most once, so
// cross-signed loops terminate.
//
// Parameters:
//   - candidates: Certificates that may have issued the chain's top certificate
//
// Returns:
//   - error: [ErrEmptyChain] if the chain has no starting certificate
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) Resolve(candidates []*x509.Certificate) error {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	if len(ch.Certs) == 0 {
		return ErrEmptyChain
	}

	remaining := append([]*x509.Certificate(nil), candidates...)
	for {
		last := ch.Certs[len(ch.Certs)-1]
		if ch.IsRootNode(last) {
			return nil
		}

		idx := findIssuer(last, remaining)
		if idx < 0 {
			return nil
		}

		ch.Certs = append(ch.Certs, remaining[idx])
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
}

// AddRootCA adds a root CA to the certificate chain if necessary.
//
// It attempts to verify the last certificate in the chain against system roots.
// If successful, it appends the root certificate found to the chain.
//
// Returns:
//   - error: Error if verification fails (excluding UnknownAuthorityError)
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) AddRootCA() error {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	lastCert := ch.Certs[len(ch.Certs)-1]
	if ch.IsRootNode(lastCert) {
		return nil
	}

	chains, err := lastCert.Verify(x509.VerifyOptions{
		CurrentTime: ch.now(),
		KeyUsages:   []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	})
	if err != nil {
		var unknown x509.UnknownAuthorityError
		if errors.As(err, &unknown) {
			return nil
		}
		return err
	}

	for _, cert := range chains[0] {
		if lastCert.Equal(cert) {
			continue
		}
		ch.Certs = append(ch.Certs, cert)
	}

	return nil
}

// IsSelfSigned checks if a certificate is self-signed.
//
// It verifies the certificate's signature against itself.
//
// Parameters:
//   - cert: Certificate to check
//
// Returns:
//   - bool: true if self-signed, false otherwise
func (ch *Chain) IsSelfSigned(cert *x509.Certificate) bool {
	return cert.CheckSignatureFrom(cert) == nil
}

// IsRootNode determines if a certificate is a root node in the chain.
//
// Parameters:
//   - cert: Certificate to check
//
// Returns:
//   - bool: true if it's a root certificate (currently checks if self-signed)
func (ch *Chain) IsRootNode(cert *x509.Certificate) bool {
	return ch.IsSelfSigned(cert)
}

// FilterIntermediates filters out the root and leaf certificates, returning only intermediates.
//
// Returns:
//   - []*x509.Certificate: Slice of intermediate certificates, or nil if none
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) FilterIntermediates() []*x509.Certificate {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	if len(ch.Certs) <= 2 {
		return nil // No intermediates if 2 or fewer certs
	}
	return ch.Certs[1 : len(ch.Certs)-1] // Skip the first (leaf) and last (root)
}

// VerifyChain checks that the leaf chains up to the last certificate.
//
// The last certificate is used as the trust anchor even when it is not
// self-signed, so a certificate can be checked against the intermediate that
// issued it. Any extended key usage is accepted.
//
// Returns:
//   - error: Error if verification fails
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) VerifyChain() error {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	if len(ch.Certs) == 0 {
		return ErrEmptyChain
	}

	ch.Roots = x509.NewCertPool()
	ch.Intermediates = x509.NewCertPool()
	for i, cert := range ch.Certs {
		if i == len(ch.Certs)-1 {
			ch.Roots.AddCert(cert)
		} else {
			ch.Intermediates.AddCert(cert)
		}
	}

	leaf := ch.Certs[0]
	opts := x509.VerifyOptions{
		Roots:         ch.Roots,
		Intermediates: ch.Intermediates,
		CurrentTime:   ch.now(),
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	}

	if _, err := leaf.Verify(opts); err != nil {
		// Return the original error from the verification process to preserve
		// detailed diagnostic information (e.g., expiration, unknown authority).
		return err
	}

	return nil
}

func (ch *Chain) now() time.Time {
	if ch.Now == nil {
		return time.Now()
	}
	return ch.Now()
}

// findIssuer returns the index of the certificate in pool that signed cert, or -1.
func findIssuer(cert *x509.Certificate, pool []*x509.Certificate) int {
	for i, potentialIssuer := range pool {
		// Skip self
		if potentialIssuer.Equal(cert) {
			continue
		}
		if err := cert.CheckSignatureFrom(potentialIssuer); err == nil {
			return i
		}
	}
	return -1
}

// findIssuerForCertificate finds the certificate that issued the given cert in the chain.
//
// Parameters:
//   - cert: Certificate to find issuer for
//
// Returns:
//   - *x509.Certificate: Issuer certificate, or nil if not found
//
// Thread Safety: Caller must hold ch.mu.
func (ch *Chain) findIssuerForCertificate(cert *x509.Certificate) *x509.Certificate {
	if cert.CheckSignatureFrom(cert) == nil {
		return cert
	}
	if i := findIssuer(cert, ch.Certs); i >= 0 {
		return ch.Certs[i]
	}
	return nil
}
