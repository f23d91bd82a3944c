// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package signature

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	_ "crypto/sha1"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"errors"
	"fmt"
	"strings"

	x509certs "github.com/H0llyW00dzZ/pki-toolkit/src/internal/x509/certs"
	x509keys "github.com/H0llyW00dzZ/pki-toolkit/src/internal/x509/keys"
	"github.com/H0llyW00dzZ/pki-toolkit/src/logger"
	"github.com/H0llyW00dzZ/pki-toolkit/src/pki"
)

// ErrUnsupportedKey indicates a key type that cannot sign or verify.
var ErrUnsupportedKey = errors.New("signature: unsupported key type")

// ErrEmptySignature indicates that the key produced no signature bytes.
var ErrEmptySignature = errors.New("signature: empty signature")

// Algorithm is the digest used before signing.
type Algorithm int

const (
	// SHA256 is the default digest.
	SHA256 Algorithm = iota
	SHA1
	SHA224
	SHA384
	SHA512
)

var algorithms = []struct {
	alg  Algorithm
	name string
	hash crypto.Hash
}{
	{SHA256, "sha256", crypto.SHA256},
	{SHA1, "sha1", crypto.SHA1},
	{SHA224, "sha224", crypto.SHA224},
	{SHA384, "sha384", crypto.SHA384},
	{SHA512, "sha512", crypto.SHA512},
}

func (a Algorithm) String() string {
	for _, e := range algorithms {
		if e.alg == a {
			return e.name
		}
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// Hash returns the digest function of a.
func (a Algorithm) Hash() crypto.Hash {
	for _, e := range algorithms {
		if e.alg == a {
			return e.hash
		}
	}
	return 0
}

// ParseAlgorithm maps a digest name such as "sha256" or "SHA-384" to an [Algorithm].
// The empty string selects [SHA256].
func ParseAlgorithm(name string) (Algorithm, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "")
	if n == "" {
		return SHA256, nil
	}
	for _, e := range algorithms {
		if e.name == n {
			return e.alg, nil
		}
	}
	return 0, fmt.Errorf("signature: unknown algorithm %q", name)
}

// Signer produces and checks detached signatures.
//
// RSA keys sign with PKCS #1 v1.5, ECDSA keys produce ASN.1 DER signatures and
// Ed25519 keys sign the data directly, ignoring the algorithm.
type Signer struct {
	certs *x509certs.Certificate
	log   logger.Logger
}

// Option configures a [Signer].
type Option func(*Signer)

// WithLogger sets a logger for operation summaries.
func WithLogger(l logger.Logger) Option {
	return func(s *Signer) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a Signer.
func New(opts ...Option) *Signer {
	s := &Signer{
		certs: x509certs.New(),
		log:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sign signs data with the private key in privateKeyFile.
//
// Parameters:
//   - data: Data to sign
//   - privateKeyFile: PEM private key, usually password protected
//   - password: Password of the private key
//   - alg: Digest algorithm
//
// Returns:
//   - []byte: The raw signature
//   - error: [pki.ErrSign] if the key is missing, the password is wrong or signing fails
func (s *Signer) Sign(data []byte, privateKeyFile string, password pki.Secret, alg Algorithm) ([]byte, error) {
	key, err := x509keys.Load(privateKeyFile, password)
	if err != nil {
		return nil, pki.Errorf(pki.KindSign, "private key %s: %w", privateKeyFile, err)
	}

	sig, err := sign(key, data, alg)
	if err != nil {
		return nil, pki.NewError(pki.KindSign, "", err)
	}
	if len(sig) == 0 {
		return nil, pki.NewError(pki.KindSign, "", ErrEmptySignature)
	}

	s.log.Printf("signed %d bytes with %s using %s", len(data), privateKeyFile, alg)
	return sig, nil
}

// Verify checks sig over data against the public key in certificateFile.
//
// A signature that does not match returns false with a nil error. An unreadable
// certificate or an unsupported key returns false with a [pki.ErrVerify] error.
func (s *Signer) Verify(data, sig []byte, certificateFile string, alg Algorithm) (bool, error) {
	pub, err := s.certs.PublicKey(certificateFile)
	if err != nil {
		return false, pki.Errorf(pki.KindVerify, "certificate %s: %w", certificateFile, err)
	}

	ok, err := verify(pub, data, sig, alg)
	if err != nil {
		return false, pki.NewError(pki.KindVerify, "", err)
	}

	s.log.Printf("verified signature over %d bytes against %s using %s: %t", len(data), certificateFile, alg, ok)
	return ok, nil
}

func digest(data []byte, alg Algorithm) ([]byte, crypto.Hash, error) {
	h := alg.Hash()
	if h == 0 || !h.Available() {
		return nil, 0, fmt.Errorf("signature: unsupported algorithm %s", alg)
	}
	hasher := h.New()
	hasher.Write(data)
	return hasher.Sum(nil), h, nil
}

func sign(key crypto.Signer, data []byte, alg Algorithm) ([]byte, error) {
	switch key.(type) {
	case ed25519.PrivateKey:
		return key.Sign(rand.Reader, data, crypto.Hash(0))
	case *rsa.PrivateKey, *ecdsa.PrivateKey:
		sum, h, err := digest(data, alg)
		if err != nil {
			return nil, err
		}
		return key.Sign(rand.Reader, sum, h)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, key)
	}
}

func verify(pub crypto.PublicKey, data, sig []byte, alg Algorithm) (bool, error) {
	switch pub := pub.(type) {
	case ed25519.PublicKey:
		return ed25519.Verify(pub, data, sig), nil
	case *rsa.PublicKey:
		sum, h, err := digest(data, alg)
		if err != nil {
			return false, err
		}
		return rsa.VerifyPKCS1v15(pub, h, sum, sig) == nil, nil
	case *ecdsa.PublicKey:
		sum, _, err := digest(data, alg)
		if err != nil {
			return false, err
		}
		return ecdsa.VerifyASN1(pub, sum, sig), nil
	default:
		return false, fmt.Errorf("%w: %T", ErrUnsupportedKey, pub)
	}
}
