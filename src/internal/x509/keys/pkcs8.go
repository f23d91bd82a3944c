// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509keys

import (
	"crypto"
	"crypto/aes"
	"encoding/pem"
	"fmt"

	"github.com/youmark/pkcs8"
	"golang.org/x/crypto/cryptobyte"
	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"
)

const (
	encryptedBlockType = "ENCRYPTED PRIVATE KEY"

	saltSize = 16

	// maxIterations bounds the work an export may be configured to demand.
	maxIterations = 10_000_000
)

// errIncorrectPassword is the message pkcs8 returns when the decrypted bytes are not
// a private key. The package exports no sentinel for it.
const errIncorrectPassword = "pkcs8: incorrect password"

// cipherByName maps an encrypt_key_cipher value to its PBES2 encryption scheme.
func cipherByName(name string) (pkcs8.Cipher, error) {
	switch name {
	case "aes-128-cbc":
		return pkcs8.AES128CBC, nil
	case "aes-192-cbc":
		return pkcs8.AES192CBC, nil
	case "aes-256-cbc", "":
		return pkcs8.AES256CBC, nil
	default:
		return nil, fmt.Errorf("%w: cipher %q", ErrUnsupportedKey, name)
	}
}

// MarshalEncrypted exports key as a PEM "ENCRYPTED PRIVATE KEY" block using PBES2
// with PBKDF2-HMAC-SHA256.
//
// Parameters:
//   - key: The private key to export.
//   - password: Password protecting the key. Must not be empty.
//   - cipherName: aes-128-cbc, aes-192-cbc or aes-256-cbc.
//   - iterations: PBKDF2 iteration count.
//
// Returns:
//   - []byte: The PEM-encoded encrypted key.
//   - error: [ErrPasswordRequired], [ErrUnsupportedKey] or a marshalling error.
func MarshalEncrypted(key crypto.Signer, password []byte, cipherName string, iterations int) ([]byte, error) {
	if len(password) == 0 {
		return nil, ErrPasswordRequired
	}
	if iterations < 1 || iterations > maxIterations {
		return nil, fmt.Errorf("%w: iteration count %d", ErrUnsupportedKey, iterations)
	}

	enc, err := cipherByName(cipherName)
	if err != nil {
		return nil, err
	}

	der, err := pkcs8.MarshalPrivateKey(key, password, &pkcs8.Opts{
		Cipher: enc,
		KDFOpts: pkcs8.PBKDF2Opts{
			SaltSize:       saltSize,
			IterationCount: iterations,
			HMACHash:       crypto.SHA256,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedKey, err)
	}

	return pem.EncodeToMemory(&pem.Block{Type: encryptedBlockType, Bytes: der}), nil
}

// parseEncrypted decrypts an EncryptedPrivateKeyInfo.
func parseEncrypted(der, password []byte) (any, error) {
	// pkcs8 hands the ciphertext to CBC without checking its length.
	var (
		input      = cryptobyte.String(der)
		info       cryptobyte.String
		ciphertext []byte
	)
	if !input.ReadASN1(&info, cryptobyte_asn1.SEQUENCE) ||
		!info.SkipASN1(cryptobyte_asn1.SEQUENCE) ||
		!info.ReadASN1Bytes(&ciphertext, cryptobyte_asn1.OCTET_STRING) ||
		len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: malformed encrypted key", ErrParsePrivateKey)
	}

	key, err := pkcs8.ParsePKCS8PrivateKey(der, password)
	if err != nil {
		if err.Error() == errIncorrectPassword {
			return nil, ErrIncorrectPassword
		}
		return nil, fmt.Errorf("%w: %w", ErrParsePrivateKey, err)
	}
	return key, nil
}
