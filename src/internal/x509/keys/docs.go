// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509keys generates private keys and stores them encrypted at rest.
//
// Exported keys are [PKCS #8] EncryptedPrivateKeyInfo structures protected with
// PBES2 (PBKDF2-HMAC-SHA256 and AES-CBC), PEM-encoded as "ENCRYPTED PRIVATE KEY".
// Parsing accepts that format and, through cfssl helpers, the older PKCS #1,
// SEC 1 and password-protected legacy PEM forms.
//
// Passwords are raw byte slices so callers can zero them after use.
//
// [PKCS #8]: https://www.rfc-editor.org/rfc/rfc5208
package x509keys
