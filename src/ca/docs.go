// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package ca implements a small file-based certificate authority.
//
// An [Authority] generates a key pair, binds it to a distinguished name through a
// certificate signing request, and signs that request either with the new key
// (a self-signed root) or with an existing issuer certificate and key. The result
// is written to two files in the output directory:
//
//   - <name>.cer: the PEM encoded certificate
//   - <name>.pem: the private key as a password protected PKCS #8 PEM block
//
// Both files are staged and published together; a failure at any stage leaves
// neither behind.
//
// Example:
//
//	authority := ca.New(config.Static(config.Default()), ca.WithLogger(log))
//	issued, err := authority.Create(ca.CreateRequest{
//		DN:        pki.NewDistinguishedName(map[string]string{"commonName": "Example Root"}),
//		Days:      3650,
//		Password:  password,
//		OutputDir: "vault",
//		BaseName:  "root",
//		Issuer:    ca.SelfSigned{},
//	})
//
// [Authority.GetInformation] parses a certificate file back into a [ParsedCertificate].
package ca
