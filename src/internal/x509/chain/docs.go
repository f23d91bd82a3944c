// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509chain implements [X.509] certificate chain ordering and validation logic.
// It provides capabilities to:
//   - Order a leaf and a set of candidate issuers into a chain by signature.
//   - Validate chains against the last certificate as trust anchor, or the system roots.
//   - Render chains as an ASCII tree, a markdown table, or JSON.
//
// The certificate authority uses it to confirm that a chain-signed certificate
// verifies against its issuer before anything is written to disk.
//
// [X.509]: https://grokipedia.com/page/X.509
package x509chain
