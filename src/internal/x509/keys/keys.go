// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509keys

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	encoding_asn1 "encoding/asn1"
	"encoding/pem"
	"errors"
	"fmt"
	"io"

	"github.com/H0llyW00dzZ/pki-toolkit/src/config"
	"github.com/H0llyW00dzZ/pki-toolkit/src/internal/helper/gc"
	"github.com/cloudflare/cfssl/helpers"
	"golang.org/x/crypto/cryptobyte"
	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"
)

var (
	// ErrInvalidPEMBlock indicates that the key data does not contain a PEM block.
	ErrInvalidPEMBlock = errors.New("x509keys: invalid PEM block")

	// ErrUnsupportedKey indicates a key type or parameter that cannot be generated or used.
	ErrUnsupportedKey = errors.New("x509keys: unsupported key")

	// ErrPasswordRequired indicates that an encrypted key operation was given an empty password.
	ErrPasswordRequired = errors.New("x509keys: password required")

	// ErrIncorrectPassword indicates that decrypting a private key failed, usually because
	// the password is wrong.
	ErrIncorrectPassword = errors.New("x509keys: incorrect password")

	// ErrParsePrivateKey indicates that the private key could not be parsed.
	ErrParsePrivateKey = errors.New("x509keys: failed to parse private key")

	// ErrKeyMismatch indicates that a private key does not belong to the given public key.
	ErrKeyMismatch = errors.New("x509keys: private key does not match public key")
)

// Generate creates a fresh private key as described by cfg.
//
// Parameters:
//   - cfg: Backend configuration selecting the key type, RSA modulus size or ECDSA curve.
//
// Returns:
//   - crypto.Signer: The generated private key.
//   - error: [ErrUnsupportedKey] for unknown key types or curves, or a generation error.
func Generate(cfg *config.Config) (crypto.Signer, error) {
	return generate(rand.Reader, cfg)
}

func generate(r io.Reader, cfg *config.Config) (crypto.Signer, error) {
	switch cfg.PrivateKeyType {
	case "rsa":
		return rsa.GenerateKey(r, cfg.PrivateKeyBits)
	case "ecdsa":
		curve, err := curveByName(cfg.CurveName)
		if err != nil {
			return nil, err
		}
		return ecdsa.GenerateKey(curve, r)
	case "ed25519":
		_, priv, err := ed25519.GenerateKey(r)
		if err != nil {
			return nil, err
		}
		return priv, nil
	default:
		return nil, fmt.Errorf("%w: key type %q", ErrUnsupportedKey, cfg.PrivateKeyType)
	}
}

func curveByName(name string) (elliptic.Curve, error) {
	switch name {
	case "P-256":
		return elliptic.P256(), nil
	case "P-384":
		return elliptic.P384(), nil
	case "P-521":
		return elliptic.P521(), nil
	default:
		return nil, fmt.Errorf("%w: curve %q", ErrUnsupportedKey, name)
	}
}

// SignatureAlgorithm maps a digest name to the X.509 signature algorithm for key.
// An empty digest lets cfssl pick the algorithm that fits the key size.
// Ed25519 keys always sign with [x509.PureEd25519].
func SignatureAlgorithm(key crypto.Signer, digest string) (x509.SignatureAlgorithm, error) {
	if _, ok := key.Public().(ed25519.PublicKey); ok {
		return x509.PureEd25519, nil
	}

	if digest == "" {
		alg := helpers.SignerAlgo(key)
		if alg == x509.UnknownSignatureAlgorithm {
			return alg, fmt.Errorf("%w: %T", ErrUnsupportedKey, key.Public())
		}
		return alg, nil
	}

	switch key.Public().(type) {
	case *rsa.PublicKey:
		switch digest {
		case "sha1":
			return x509.SHA1WithRSA, nil
		case "sha224", "sha256":
			// x509 has no SHA-224 signature algorithm; round up.
			return x509.SHA256WithRSA, nil
		case "sha384":
			return x509.SHA384WithRSA, nil
		case "sha512":
			return x509.SHA512WithRSA, nil
		}
	case *ecdsa.PublicKey:
		switch digest {
		case "sha1":
			return x509.ECDSAWithSHA1, nil
		case "sha224", "sha256":
			return x509.ECDSAWithSHA256, nil
		case "sha384":
			return x509.ECDSAWithSHA384, nil
		case "sha512":
			return x509.ECDSAWithSHA512, nil
		}
	default:
		return x509.UnknownSignatureAlgorithm, fmt.Errorf("%w: %T", ErrUnsupportedKey, key.Public())
	}
	return x509.UnknownSignatureAlgorithm, fmt.Errorf("%w: digest %q", ErrUnsupportedKey, digest)
}

// Bits reports the key size in bits (RSA modulus, ECDSA curve order, 256 for Ed25519).
func Bits(pub crypto.PublicKey) int {
	if _, ok := pub.(ed25519.PublicKey); ok {
		return ed25519.PublicKeySize * 8
	}
	return helpers.KeyLength(pub)
}

// Matches reports whether priv is the private half of pub.
func Matches(priv crypto.Signer, pub crypto.PublicKey) error {
	type equaler interface {
		Equal(crypto.PublicKey) bool
	}

	own, ok := priv.Public().(equaler)
	if !ok || !own.Equal(pub) {
		return ErrKeyMismatch
	}
	return nil
}

// SubjectKeyID computes the RFC 5280 method 1 key identifier: the SHA-1 hash of
// the subjectPublicKey BIT STRING.
func SubjectKeyID(pub crypto.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedKey, err)
	}

	var (
		input = cryptobyte.String(der)
		spki  cryptobyte.String
		key   encoding_asn1.BitString
	)
	if !input.ReadASN1(&spki, cryptobyte_asn1.SEQUENCE) ||
		!spki.SkipASN1(cryptobyte_asn1.SEQUENCE) ||
		!spki.ReadASN1BitString(&key) {
		return nil, fmt.Errorf("%w: malformed public key", ErrUnsupportedKey)
	}

	sum := sha1.Sum(key.Bytes)
	return sum[:], nil
}

// Load reads a PEM private key file and decrypts it with password.
func Load(path string, password []byte) (crypto.Signer, error) {
	data, err := gc.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("x509keys: read %s: %w", path, err)
	}
	return Parse(data, password)
}

// Parse decodes a PEM private key.
//
// "ENCRYPTED PRIVATE KEY" blocks are decrypted with password; "PRIVATE KEY" blocks are
// parsed as plain PKCS #8. Every other block type is handed to cfssl, which also
// understands legacy encrypted PEM headers.
//
// Returns:
//   - crypto.Signer: The private key.
//   - error: [ErrPasswordRequired], [ErrIncorrectPassword] or [ErrParsePrivateKey].
func Parse(data, password []byte) (crypto.Signer, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, ErrInvalidPEMBlock
	}

	switch block.Type {
	case encryptedBlockType:
		if len(password) == 0 {
			return nil, ErrPasswordRequired
		}
		key, err := parseEncrypted(block.Bytes, password)
		if err != nil {
			return nil, err
		}
		return asSigner(key)
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParsePrivateKey, err)
		}
		return asSigner(key)
	}

	key, err := helpers.ParsePrivateKeyPEMWithPassword(data, password)
	if err != nil {
		if block.Headers["DEK-Info"] != "" {
			return nil, ErrIncorrectPassword
		}
		return nil, fmt.Errorf("%w: %w", ErrParsePrivateKey, err)
	}
	return key, nil
}

func asSigner(key any) (crypto.Signer, error) {
	signer, ok := key.(crypto.Signer)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, key)
	}
	return signer, nil
}
