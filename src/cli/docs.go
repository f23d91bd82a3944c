// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package cli provides the command-line interface for the PKI toolkit.
// It implements a Cobra-based CLI with subcommands to issue certificates (create),
// inspect them (info), encrypt and decrypt data for certificate holders
// (encrypt, decrypt), sign and verify data (sign, verify), and order and verify
// certificate chains (chain).
//
// Passwords are never taken from the command line. They are read from a file named
// by a --password-file flag or from the PKI_TOOLKIT_PASSWORD environment variable.
// Progress messages go to stderr so that stdout carries only command output.
package cli
