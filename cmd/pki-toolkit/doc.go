// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// pki-toolkit is a command-line tool for issuing certificates, encrypting data for
// certificate holders and signing data.
//
// # Installation
//
// Install with Go 1.25.5 or later:
//
//	go install github.com/H0llyW00dzZ/pki-toolkit/cmd/pki-toolkit@latest
//
// # Commands
//
//	create    Issue a certificate and a password protected private key
//	info      Show the fields of a certificate (table, json or yaml)
//	encrypt   Encrypt data for the holder of a certificate
//	decrypt   Decrypt an envelope with a private key
//	sign      Sign data and print a base64 signature
//	verify    Check a base64 signature against a certificate
//	chain     Order and verify a certificate chain
//
// # Global Flags
//
//	    --config       Backend configuration file (YAML or JSON)
//	    --log-format   text or json
//	-v, --verbose      Log operation details to stderr
//
// Passwords are read from files given with --password-file or from the
// PKI_TOOLKIT_PASSWORD environment variable.
//
// # Examples
//
// Issue a root and a certificate signed by it:
//
//	pki-toolkit create --cn "Example Root" --days 3650 --password-file root.pass --name root
//	pki-toolkit create --cn "Alice" --email alice@example.com --days 365 \
//	  --password-file alice.pass --name alice \
//	  --issuer-cert root.cer --issuer-key root.pem --issuer-password-file root.pass \
//	  --set is_ca=false
//
// Encrypt for Alice and decrypt again:
//
//	pki-toolkit encrypt --cert alice.cer --in message.txt --out message.enc
//	pki-toolkit decrypt --key alice.pem --password-file alice.pass --in message.enc
//
// Sign and verify:
//
//	pki-toolkit sign --key alice.pem --password-file alice.pass --in report.pdf --out report.sig
//	pki-toolkit verify --cert alice.cer --signature report.sig --in report.pdf
//
// Show the chain as a tree:
//
//	pki-toolkit chain alice.cer root.cer
package main
