// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package ca

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/x509"
	"encoding/asn1"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	x509keys "github.com/H0llyW00dzZ/pki-toolkit/src/internal/x509/keys"
	"github.com/H0llyW00dzZ/pki-toolkit/src/pki"
)

// ParsedCertificate is the structured view of a certificate file.
type ParsedCertificate struct {
	// Name is the subject in one-line slash form.
	Name    string                `json:"name" yaml:"name"`
	Subject pki.DistinguishedName `json:"subject" yaml:"subject"`
	Issuer  pki.DistinguishedName `json:"issuer" yaml:"issuer"`
	// Version is the X.509 version as written on the certificate (3 for v3).
	Version            int               `json:"version" yaml:"version"`
	SerialNumber       string            `json:"serialNumber" yaml:"serialNumber"`
	SerialNumberHex    string            `json:"serialNumberHex" yaml:"serialNumberHex"`
	ValidFrom          time.Time         `json:"validFrom" yaml:"validFrom"`
	ValidTo            time.Time         `json:"validTo" yaml:"validTo"`
	SignatureAlgorithm string            `json:"signatureAlgorithm" yaml:"signatureAlgorithm"`
	PublicKeyAlgorithm string            `json:"publicKeyAlgorithm" yaml:"publicKeyAlgorithm"`
	KeyBits            int               `json:"keyBits" yaml:"keyBits"`
	IsCA               bool              `json:"isCA" yaml:"isCA"`
	SelfSigned         bool              `json:"selfSigned" yaml:"selfSigned"`
	FingerprintSHA1    string            `json:"fingerprintSHA1" yaml:"fingerprintSHA1"`
	FingerprintSHA256  string            `json:"fingerprintSHA256" yaml:"fingerprintSHA256"`
	Extensions         map[string]string `json:"extensions,omitempty" yaml:"extensions,omitempty"`
}

// GetInformation reads and parses a certificate file.
//
// Parameters:
//   - certificateFile: Path to a PEM or DER certificate
//
// Returns:
//   - *ParsedCertificate: The parsed fields
//   - error: [pki.ErrCertificateNotFound] when the file is missing, unreadable or malformed
func (a *Authority) GetInformation(certificateFile string) (*ParsedCertificate, error) {
	cert, err := a.certs.ReadFile(certificateFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, pki.NewError(pki.KindCertificateNotFound, "no certificate at "+certificateFile, err)
		}
		return nil, pki.Errorf(pki.KindCertificateNotFound, "cannot parse certificate %s: %w", certificateFile, err)
	}
	return Inspect(cert), nil
}

// Inspect builds a [ParsedCertificate] from a parsed certificate.
func Inspect(cert *x509.Certificate) *ParsedCertificate {
	subject := pki.FromPKIX(cert.Subject)
	sha1Sum := sha1.Sum(cert.Raw)
	sha256Sum := sha256.Sum256(cert.Raw)

	return &ParsedCertificate{
		Name:               subject.String(),
		Subject:            subject,
		Issuer:             pki.FromPKIX(cert.Issuer),
		Version:            cert.Version,
		SerialNumber:       cert.SerialNumber.String(),
		SerialNumberHex:    strings.ToUpper(cert.SerialNumber.Text(16)),
		ValidFrom:          cert.NotBefore,
		ValidTo:            cert.NotAfter,
		SignatureAlgorithm: cert.SignatureAlgorithm.String(),
		PublicKeyAlgorithm: cert.PublicKeyAlgorithm.String(),
		KeyBits:            x509keys.Bits(cert.PublicKey),
		IsCA:               cert.BasicConstraintsValid && cert.IsCA,
		SelfSigned:         cert.CheckSignatureFrom(cert) == nil,
		FingerprintSHA1:    colonHex(sha1Sum[:]),
		FingerprintSHA256:  colonHex(sha256Sum[:]),
		Extensions:         extensions(cert),
	}
}

var (
	oidBasicConstraints       = asn1.ObjectIdentifier{2, 5, 29, 19}
	oidKeyUsage               = asn1.ObjectIdentifier{2, 5, 29, 15}
	oidExtKeyUsage            = asn1.ObjectIdentifier{2, 5, 29, 37}
	oidSubjectKeyIdentifier   = asn1.ObjectIdentifier{2, 5, 29, 14}
	oidAuthorityKeyIdentifier = asn1.ObjectIdentifier{2, 5, 29, 35}
	oidSubjectAltName         = asn1.ObjectIdentifier{2, 5, 29, 17}
)

// extensions renders the certificate extensions keyed by their short names.
// Unrecognized extensions are keyed by dotted OID with a hex dump of the value.
func extensions(cert *x509.Certificate) map[string]string {
	if len(cert.Extensions) == 0 {
		return nil
	}

	out := make(map[string]string, len(cert.Extensions))
	for _, ext := range cert.Extensions {
		switch {
		case ext.Id.Equal(oidBasicConstraints):
			v := "CA:FALSE"
			if cert.IsCA {
				v = "CA:TRUE"
				if cert.MaxPathLen > 0 || cert.MaxPathLenZero {
					v += fmt.Sprintf(", pathlen:%d", cert.MaxPathLen)
				}
			}
			out["basicConstraints"] = v
		case ext.Id.Equal(oidKeyUsage):
			out["keyUsage"] = keyUsageString(cert.KeyUsage)
		case ext.Id.Equal(oidExtKeyUsage):
			out["extendedKeyUsage"] = extKeyUsageString(cert.ExtKeyUsage)
		case ext.Id.Equal(oidSubjectKeyIdentifier):
			out["subjectKeyIdentifier"] = colonHex(cert.SubjectKeyId)
		case ext.Id.Equal(oidAuthorityKeyIdentifier):
			out["authorityKeyIdentifier"] = "keyid:" + colonHex(cert.AuthorityKeyId)
		case ext.Id.Equal(oidSubjectAltName):
			out["subjectAltName"] = altNames(cert)
		default:
			out[ext.Id.String()] = hex.EncodeToString(ext.Value)
		}
	}
	return out
}

var keyUsageNames = []struct {
	usage x509.KeyUsage
	name  string
}{
	{x509.KeyUsageDigitalSignature, "Digital Signature"},
	{x509.KeyUsageContentCommitment, "Non Repudiation"},
	{x509.KeyUsageKeyEncipherment, "Key Encipherment"},
	{x509.KeyUsageDataEncipherment, "Data Encipherment"},
	{x509.KeyUsageKeyAgreement, "Key Agreement"},
	{x509.KeyUsageCertSign, "Certificate Sign"},
	{x509.KeyUsageCRLSign, "CRL Sign"},
	{x509.KeyUsageEncipherOnly, "Encipher Only"},
	{x509.KeyUsageDecipherOnly, "Decipher Only"},
}

func keyUsageString(ku x509.KeyUsage) string {
	var names []string
	for _, k := range keyUsageNames {
		if ku&k.usage != 0 {
			names = append(names, k.name)
		}
	}
	return strings.Join(names, ", ")
}

func extKeyUsageString(usages []x509.ExtKeyUsage) string {
	names := make([]string, 0, len(usages))
	for _, u := range usages {
		switch u {
		case x509.ExtKeyUsageAny:
			names = append(names, "Any Extended Key Usage")
		case x509.ExtKeyUsageServerAuth:
			names = append(names, "TLS Web Server Authentication")
		case x509.ExtKeyUsageClientAuth:
			names = append(names, "TLS Web Client Authentication")
		case x509.ExtKeyUsageCodeSigning:
			names = append(names, "Code Signing")
		case x509.ExtKeyUsageEmailProtection:
			names = append(names, "E-mail Protection")
		case x509.ExtKeyUsageTimeStamping:
			names = append(names, "Time Stamping")
		case x509.ExtKeyUsageOCSPSigning:
			names = append(names, "OCSP Signing")
		default:
			names = append(names, fmt.Sprintf("ExtKeyUsage(%d)", u))
		}
	}
	return strings.Join(names, ", ")
}

func altNames(cert *x509.Certificate) string {
	var names []string
	for _, n := range cert.DNSNames {
		names = append(names, "DNS:"+n)
	}
	for _, n := range cert.EmailAddresses {
		names = append(names, "email:"+n)
	}
	for _, ip := range cert.IPAddresses {
		names = append(names, "IP Address:"+ip.String())
	}
	for _, u := range cert.URIs {
		names = append(names, "URI:"+u.String())
	}
	return strings.Join(names, ", ")
}

// colonHex formats b as upper-case hex pairs separated by colons.
func colonHex(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	s := strings.ToUpper(hex.EncodeToString(b))
	var sb strings.Builder
	sb.Grow(len(s) + len(b) - 1)
	for i := 0; i < len(s); i += 2 {
		if i > 0 {
			sb.WriteByte(':')
		}
		sb.WriteString(s[i : i+2])
	}
	return sb.String()
}
