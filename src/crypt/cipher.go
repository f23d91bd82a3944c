// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/H0llyW00dzZ/pki-toolkit/src/internal/helper/padding"
	x509certs "github.com/H0llyW00dzZ/pki-toolkit/src/internal/x509/certs"
	x509keys "github.com/H0llyW00dzZ/pki-toolkit/src/internal/x509/keys"
	"github.com/H0llyW00dzZ/pki-toolkit/src/logger"
	"github.com/H0llyW00dzZ/pki-toolkit/src/pki"
	"golang.org/x/crypto/hkdf"
)

const (
	// SessionKeySize is the size of the random AES-256 session key.
	SessionKeySize = 32
	// IVSize is the size of the random IV or nonce.
	IVSize = 16

	tagSize = sha256.Size
)

// hkdfInfo binds keys derived for ModeCBCHMAC to their purpose.
var hkdfInfo = []byte("pki-toolkit hybrid aes-256-cbc hmac-sha256")

var (
	// ErrUnsupportedKey indicates a recipient or private key that is not RSA.
	ErrUnsupportedKey = errors.New("crypt: only RSA keys can wrap session keys")

	// ErrAuthentication indicates that the ciphertext failed its integrity check.
	ErrAuthentication = errors.New("crypt: message authentication failed")

	// ErrModeMismatch indicates a ciphertext whose length cannot have been produced
	// by the selected mode. It is always reported together with ErrAuthentication.
	ErrModeMismatch = errors.New("crypt: ciphertext does not match the cipher mode")
)

// Mode selects the symmetric construction.
type Mode int

const (
	// ModeGCM is AES-256-GCM with a 16-byte nonce.
	ModeGCM Mode = iota
	// ModeCBCHMAC is AES-256-CBC with PKCS #7 padding and an HMAC-SHA256 tag.
	ModeCBCHMAC
)

func (m Mode) String() string {
	switch m {
	case ModeGCM:
		return "gcm"
	case ModeCBCHMAC:
		return "cbc-hmac"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps "gcm" or "cbc-hmac" to a [Mode].
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "gcm":
		return ModeGCM, nil
	case "cbc-hmac", "cbc":
		return ModeCBCHMAC, nil
	default:
		return 0, fmt.Errorf("crypt: unknown mode %q", s)
	}
}

// HybridCipher encrypts data for certificate holders.
//
// A HybridCipher is immutable after construction and safe for concurrent use.
type HybridCipher struct {
	mode  Mode
	certs *x509certs.Certificate
	log   logger.Logger
	rand  io.Reader
}

// Option configures a [HybridCipher].
type Option func(*HybridCipher)

// WithMode selects the symmetric construction. The default is [ModeGCM].
func WithMode(m Mode) Option {
	return func(h *HybridCipher) { h.mode = m }
}

// WithLogger sets a logger for operation summaries. Payloads and keys are never logged.
func WithLogger(l logger.Logger) Option {
	return func(h *HybridCipher) {
		if l != nil {
			h.log = l
		}
	}
}

// New creates a HybridCipher.
func New(opts ...Option) *HybridCipher {
	h := &HybridCipher{
		mode:  ModeGCM,
		certs: x509certs.New(),
		log:   logger.Discard(),
		rand:  rand.Reader,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Mode returns the configured symmetric construction.
func (h *HybridCipher) Mode() Mode { return h.mode }

// EncryptWithPublicKey encrypts data for the holder of the certificate in certificateFile.
//
// Parameters:
//   - data: Plaintext of any length
//   - certificateFile: PEM or DER certificate of the recipient
//
// Returns:
//   - string: The serialized envelope
//   - error: [pki.ErrEncrypt] if the certificate is missing, unreadable or not RSA
func (h *HybridCipher) EncryptWithPublicKey(data []byte, certificateFile string) (string, error) {
	pub, err := h.certs.PublicKey(certificateFile)
	if err != nil {
		return "", pki.Errorf(pki.KindEncrypt, "recipient certificate %s: %w", certificateFile, err)
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return "", pki.Errorf(pki.KindEncrypt, "recipient certificate %s: %w (got %T)", certificateFile, ErrUnsupportedKey, pub)
	}

	env, err := h.Seal(data, rsaPub)
	if err != nil {
		return "", pki.NewError(pki.KindEncrypt, "", err)
	}

	h.log.Printf("encrypted %d bytes for %s using %s", len(data), certificateFile, h.mode)
	return env.String(), nil
}

// DecryptWithPrivateKey opens an envelope with the private key in privateKeyFile.
//
// Parameters:
//   - envelope: Serialized envelope from [HybridCipher.EncryptWithPublicKey]
//   - privateKeyFile: Encrypted PEM private key of the recipient
//   - password: Password of the private key
//
// Returns:
//   - []byte: The plaintext
//   - error: [pki.ErrDecrypt] for a malformed envelope, a missing key file, a wrong
//     password, a key that does not match the envelope, or tampered data
func (h *HybridCipher) DecryptWithPrivateKey(envelope, privateKeyFile string, password pki.Secret) ([]byte, error) {
	env, err := ParseEnvelope(envelope)
	if err != nil {
		return nil, pki.NewError(pki.KindDecrypt, "", err)
	}

	key, err := x509keys.Load(privateKeyFile, password)
	if err != nil {
		return nil, pki.Errorf(pki.KindDecrypt, "private key %s: %w", privateKeyFile, err)
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, pki.Errorf(pki.KindDecrypt, "private key %s: %w (got %T)", privateKeyFile, ErrUnsupportedKey, key)
	}

	plaintext, err := h.Open(env, rsaKey)
	if err != nil {
		return nil, pki.NewError(pki.KindDecrypt, "", err)
	}

	h.log.Printf("decrypted %d bytes with %s using %s", len(plaintext), privateKeyFile, h.mode)
	return plaintext, nil
}

// Seal encrypts data for pub.
func (h *HybridCipher) Seal(data []byte, pub *rsa.PublicKey) (*Envelope, error) {
	sessionKey := make([]byte, SessionKeySize)
	defer clear(sessionKey)

	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(h.rand, sessionKey); err != nil {
		return nil, fmt.Errorf("session key: %w", err)
	}
	if _, err := io.ReadFull(h.rand, iv); err != nil {
		return nil, fmt.Errorf("IV: %w", err)
	}

	wrapped, err := rsa.EncryptOAEP(sha256.New(), h.rand, pub, sessionKey, nil)
	if err != nil {
		return nil, fmt.Errorf("wrap session key: %w", err)
	}

	var ciphertext []byte
	switch h.mode {
	case ModeGCM:
		ciphertext, err = sealGCM(sessionKey, iv, data, wrapped)
	case ModeCBCHMAC:
		ciphertext, err = sealCBCHMAC(sessionKey, iv, data)
	default:
		err = fmt.Errorf("crypt: unknown mode %s", h.mode)
	}
	if err != nil {
		return nil, err
	}

	return &Envelope{EncryptedKey: wrapped, Ciphertext: ciphertext, IV: iv}, nil
}

// Open decrypts env with priv.
func (h *HybridCipher) Open(env *Envelope, priv *rsa.PrivateKey) ([]byte, error) {
	if len(env.IV) != IVSize {
		return nil, fmt.Errorf("%w: IV must be %d bytes, got %d", ErrSegmentEncoding, IVSize, len(env.IV))
	}

	sessionKey, err := rsa.DecryptOAEP(sha256.New(), nil, priv, env.EncryptedKey, nil)
	if err != nil {
		return nil, fmt.Errorf("unwrap session key: %w", err)
	}
	defer clear(sessionKey)

	if len(sessionKey) != SessionKeySize {
		return nil, fmt.Errorf("unwrap session key: unexpected length %d", len(sessionKey))
	}

	switch h.mode {
	case ModeGCM:
		return openGCM(sessionKey, env.IV, env.Ciphertext, env.EncryptedKey)
	case ModeCBCHMAC:
		return openCBCHMAC(sessionKey, env.IV, env.Ciphertext)
	default:
		return nil, fmt.Errorf("crypt: unknown mode %s", h.mode)
	}
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithNonceSize(block, IVSize)
}

func sealGCM(key, nonce, plaintext, additional []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, nonce, plaintext, additional), nil
}

func openGCM(key, nonce, ciphertext, additional []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, additional)
	if err != nil {
		return nil, ErrAuthentication
	}
	return plaintext, nil
}

// deriveKeys splits the session key into an AES key and an HMAC key.
// The caller must zero both.
func deriveKeys(sessionKey, iv []byte) (encKey, macKey []byte, err error) {
	okm := make([]byte, 2*SessionKeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, sessionKey, iv, hkdfInfo), okm); err != nil {
		clear(okm)
		return nil, nil, err
	}
	return okm[:SessionKeySize], okm[SessionKeySize:], nil
}

func sealCBCHMAC(sessionKey, iv, plaintext []byte) ([]byte, error) {
	encKey, macKey, err := deriveKeys(sessionKey, iv)
	if err != nil {
		return nil, err
	}
	defer clear(encKey)
	defer clear(macKey)

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, err
	}

	padded := padding.Pad(plaintext, aes.BlockSize)
	defer clear(padded)

	out := make([]byte, len(padded), len(padded)+tagSize)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

	mac := hmac.New(sha256.New, macKey)
	mac.Write(iv)
	mac.Write(out)
	return mac.Sum(out), nil
}

func openCBCHMAC(sessionKey, iv, data []byte) ([]byte, error) {
	if len(data) < aes.BlockSize+tagSize || (len(data)-tagSize)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: %w: ciphertext length %d is not valid for %s", ErrAuthentication, ErrModeMismatch, len(data), ModeCBCHMAC)
	}

	encKey, macKey, err := deriveKeys(sessionKey, iv)
	if err != nil {
		return nil, err
	}
	defer clear(encKey)
	defer clear(macKey)

	ciphertext, tag := data[:len(data)-tagSize], data[len(data)-tagSize:]

	mac := hmac.New(sha256.New, macKey)
	mac.Write(iv)
	mac.Write(ciphertext)
	if !hmac.Equal(mac.Sum(nil), tag) {
		return nil, ErrAuthentication
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, err
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	out, err := padding.Unpad(plaintext, aes.BlockSize)
	if err != nil {
		clear(plaintext)
		return nil, ErrAuthentication
	}
	return out, nil
}
