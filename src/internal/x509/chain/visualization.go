// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"crypto/x509"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	x509keys "github.com/H0llyW00dzZ/pki-toolkit/src/internal/x509/keys"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// Certificate status values reported by the renderers.
const (
	StatusValid         = "valid"
	StatusExpired       = "expired"
	StatusNotYetValid   = "not yet valid"
	StatusUnknownIssuer = "issuer not in chain"
	StatusNotCA         = "issuer is not a CA"
	StatusBadSignature  = "bad signature"
)

// RenderASCIITree renders the certificate chain as an ASCII tree diagram.
//
// It displays the certificate hierarchy with visual connectors showing the
// relationship between leaf, intermediate, and root certificates.
//
// Returns:
//   - string: ASCII tree representation of the certificate chain
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) RenderASCIITree() string {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	if len(ch.Certs) == 0 {
		return "No certificates in chain"
	}

	var result strings.Builder
	for i, cert := range ch.Certs {
		isLast := i == len(ch.Certs)-1

		connector := "├── "
		if isLast {
			connector = "└── "
		}

		statusIcon := "✓"
		if ch.status(i) != StatusValid {
			statusIcon = "✗"
		}

		role := ch.getCertificateRole(i)
		certInfo := fmt.Sprintf("[%s] %s", statusIcon, cert.Subject.CommonName)
		if role != "" {
			certInfo += fmt.Sprintf(" (%s)", role)
		}

		result.WriteString(connector + certInfo + "\n")
	}

	return result.String()
}

// RenderTable renders the certificate chain as a formatted markdown table.
//
// It displays certificate details including role, subject, issuer, validity dates,
// key size, and verification status in a tabular format using tablewriter.
//
// Returns:
//   - string: Markdown table representation of the certificate chain
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) RenderTable() string {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	if len(ch.Certs) == 0 {
		return "No certificates to display"
	}

	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)

	headers := []string{"🔢 #", "🏷️ Role", "📛 Subject", "🏢 Issuer", "📅 Valid Until", "🔐 Key Size", "✅ Status"}
	table.Header(headers)

	var rows [][]string
	for i, cert := range ch.Certs {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			ch.getCertificateRole(i),
			cert.Subject.CommonName,
			cert.Issuer.CommonName,
			cert.NotAfter.Format("2006-01-02"),
			keySize(cert),
			ch.status(i),
		})
	}

	table.Bulk(rows)
	table.Render()
	return buf.String()
}

// ToVisualizationJSON converts the certificate chain to structured JSON for external tools.
//
// Returns:
//   - []byte: JSON representation of the certificate chain
//   - error: Error if JSON marshaling fails
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) ToVisualizationJSON() ([]byte, error) {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	type CertificateVizData struct {
		Index              int       `json:"index"`
		Role               string    `json:"role"`
		Subject            string    `json:"subject"`
		Issuer             string    `json:"issuer"`
		SerialNumber       string    `json:"serialNumber"`
		SignatureAlgorithm string    `json:"signatureAlgorithm"`
		PublicKeyAlgorithm string    `json:"publicKeyAlgorithm"`
		KeySize            int       `json:"keySize"`
		NotBefore          time.Time `json:"notBefore"`
		NotAfter           time.Time `json:"notAfter"`
		IsCA               bool      `json:"isCA"`
		Status             string    `json:"status"`
	}

	type RelationshipData struct {
		FromIndex int    `json:"fromIndex"`
		ToIndex   int    `json:"toIndex"`
		Type      string `json:"type"`
	}

	type VisualizationData struct {
		Timestamp     string               `json:"timestamp"`
		ChainLength   int                  `json:"chainLength"`
		Certificates  []CertificateVizData `json:"certificates"`
		Relationships []RelationshipData   `json:"relationships"`
	}

	data := VisualizationData{
		Timestamp:     ch.now().UTC().Format(time.RFC3339),
		ChainLength:   len(ch.Certs),
		Certificates:  make([]CertificateVizData, len(ch.Certs)),
		Relationships: make([]RelationshipData, 0, len(ch.Certs)),
	}

	for i, cert := range ch.Certs {
		data.Certificates[i] = CertificateVizData{
			Index:              i,
			Role:               ch.getCertificateRole(i),
			Subject:            cert.Subject.CommonName,
			Issuer:             cert.Issuer.CommonName,
			SerialNumber:       cert.SerialNumber.String(),
			SignatureAlgorithm: cert.SignatureAlgorithm.String(),
			PublicKeyAlgorithm: cert.PublicKeyAlgorithm.String(),
			KeySize:            x509keys.Bits(cert.PublicKey),
			NotBefore:          cert.NotBefore,
			NotAfter:           cert.NotAfter,
			IsCA:               cert.IsCA,
			Status:             ch.status(i),
		}

		// Relationships follow actual signatures rather than chain order.
		issuer := ch.findIssuerForCertificate(cert)
		if issuer == nil || issuer == cert {
			continue
		}
		for j, candidate := range ch.Certs {
			if candidate == issuer {
				data.Relationships = append(data.Relationships, RelationshipData{
					FromIndex: i,
					ToIndex:   j,
					Type:      "signed_by",
				})
				break
			}
		}
	}

	return json.MarshalIndent(data, "", "  ")
}

// status reports the verification status of the certificate at index.
//
// Thread Safety: Caller must hold ch.mu.
func (ch *Chain) status(index int) string {
	cert := ch.Certs[index]
	now := ch.now()

	switch {
	case now.Before(cert.NotBefore):
		return StatusNotYetValid
	case now.After(cert.NotAfter):
		return StatusExpired
	}

	if ch.findIssuerForCertificate(cert) != nil {
		return StatusValid
	}

	// A trust anchor that is not self-signed is accepted as given.
	if index > 0 && index == len(ch.Certs)-1 {
		return StatusValid
	}
	if index+1 >= len(ch.Certs) {
		return StatusUnknownIssuer
	}

	next := ch.Certs[index+1]
	if !next.BasicConstraintsValid || !next.IsCA {
		return StatusNotCA
	}
	return StatusBadSignature
}

func keySize(cert *x509.Certificate) string {
	bits := x509keys.Bits(cert.PublicKey)
	if bits <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%d-bit %s", bits, cert.PublicKeyAlgorithm)
}

// getCertificateRole determines the role of a certificate in the chain.
//
// Parameters:
//   - index: Zero-based position of the certificate in the chain
//
// Returns:
//   - string: Role description ("End-Entity Certificate", "Intermediate CA", or "Root CA")
//
// Thread Safety: Safe for concurrent use (no state modification).
func (ch *Chain) getCertificateRole(index int) string {
	total := len(ch.Certs)
	switch {
	case total == 1:
		return "Self-Signed Certificate"
	case index == 0:
		return "End-Entity Certificate"
	case index == total-1:
		return "Root CA Certificate"
	default:
		return "Intermediate CA Certificate"
	}
}
