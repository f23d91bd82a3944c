// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package crypt implements hybrid public key encryption for certificate holders.
//
// Every call draws a fresh 256-bit session key and a fresh 128-bit IV. The data is
// encrypted under the session key, and the session key is wrapped for the recipient
// with RSA-OAEP (SHA-256). The result is an envelope of three segments:
//
//	HEX(wrapped session key) | BASE64(ciphertext) | HEX(IV)
//
// Two symmetric modes are available. [ModeGCM], the default, is AES-256-GCM with the
// IV as a 16-byte nonce and the wrapped key as additional data. [ModeCBCHMAC] is
// AES-256-CBC with PKCS #7 padding followed by an HMAC-SHA256 tag over IV and
// ciphertext; its encryption and MAC keys are derived from the session key with HKDF.
// The envelope does not record the mode, so both sides must agree on it.
//
// Session keys and derived keys are zeroed once they are no longer needed.
package crypt
