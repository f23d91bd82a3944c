// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package signature produces and verifies detached signatures with keys issued by
// package ca.
//
// Example:
//
//	s := signature.New()
//	sig, err := s.Sign(data, "alice.pem", password, signature.SHA256)
//	if err != nil {
//		return err
//	}
//	ok, err := s.Verify(data, sig, "alice.cer", signature.SHA256)
//
// Verify separates the two ways a check can come back negative: a signature that
// does not match is (false, nil), while a certificate that cannot be read is an
// error of kind [pki.KindVerify].
package signature
