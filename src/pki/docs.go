// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package pki holds the vocabulary shared by the certificate authority, the hybrid
// cipher and the signer: [DistinguishedName] for subject/issuer identities, [Secret]
// for password material, and the typed [Error] returned by every fallible operation.
//
// The three components never import each other. They only exchange certificate
// files, encrypted private-key files and byte buffers, and report failures through
// the error kinds defined here.
package pki
