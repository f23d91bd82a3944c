// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package pki

import (
	"errors"
	"fmt"
)

// Kind classifies an [Error]. Each kind carries a stable numeric code.
type Kind int

const (
	// KindCreateCertificate reports a failed issuance, including configuration errors.
	KindCreateCertificate Kind = 10000
	// KindCertificateNotFound reports a missing or unparsable certificate file.
	KindCertificateNotFound Kind = 11000
	// KindEncrypt reports a failed hybrid encryption.
	KindEncrypt Kind = 20000
	// KindDecrypt reports a failed hybrid decryption.
	KindDecrypt Kind = 21000
	// KindVerify reports that a signature could not be checked at all.
	KindVerify Kind = 30000
	// KindSign reports a failed signature.
	KindSign Kind = 31000
)

// String returns the error kind name.
func (k Kind) String() string {
	switch k {
	case KindCreateCertificate:
		return "CreateCertificateError"
	case KindCertificateNotFound:
		return "CertificateNotFoundError"
	case KindEncrypt:
		return "EncryptError"
	case KindDecrypt:
		return "DecryptError"
	case KindVerify:
		return "VerifyError"
	case KindSign:
		return "SignError"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the typed error returned by the toolkit.
//
// Two errors match under [errors.Is] when their kinds are equal, so callers can
// test against the sentinels below:
//
//	if errors.Is(err, pki.ErrDecrypt) {
//		// wrong password, wrong key or tampered envelope
//	}
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

var (
	// ErrCreateCertificate matches any issuance failure.
	ErrCreateCertificate = &Error{Kind: KindCreateCertificate}
	// ErrCertificateNotFound matches missing or malformed certificate files.
	ErrCertificateNotFound = &Error{Kind: KindCertificateNotFound}
	// ErrEncrypt matches any encryption failure.
	ErrEncrypt = &Error{Kind: KindEncrypt}
	// ErrDecrypt matches any decryption failure.
	ErrDecrypt = &Error{Kind: KindDecrypt}
	// ErrVerify matches signature checks that could not run.
	ErrVerify = &Error{Kind: KindVerify}
	// ErrSign matches any signing failure.
	ErrSign = &Error{Kind: KindSign}
)

// NewError returns an [Error] of the given kind wrapping err.
// The message defaults to err's text when empty.
func NewError(kind Kind, message string, err error) *Error {
	if message == "" && err != nil {
		message = err.Error()
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// Errorf returns an [Error] of the given kind with a formatted message.
// A %w verb in format is honoured for unwrapping.
func Errorf(kind Kind, format string, args ...any) *Error {
	wrapped := fmt.Errorf(format, args...)
	return &Error{Kind: kind, Message: wrapped.Error(), Err: errors.Unwrap(wrapped)}
}

// Code returns the stable numeric code of the error kind.
func (e *Error) Code() int { return int(e.Kind) }

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an [*Error] of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first [*Error] in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
