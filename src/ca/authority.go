// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package ca

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/H0llyW00dzZ/pki-toolkit/src/config"
	"github.com/H0llyW00dzZ/pki-toolkit/src/internal/helper/posix"
	x509certs "github.com/H0llyW00dzZ/pki-toolkit/src/internal/x509/certs"
	x509chain "github.com/H0llyW00dzZ/pki-toolkit/src/internal/x509/chain"
	x509keys "github.com/H0llyW00dzZ/pki-toolkit/src/internal/x509/keys"
	"github.com/H0llyW00dzZ/pki-toolkit/src/logger"
	"github.com/H0llyW00dzZ/pki-toolkit/src/pki"
)

const (
	// CertificateExt is the extension of issued certificate files.
	CertificateExt = ".cer"
	// KeyExt is the extension of encrypted private key files.
	KeyExt = ".pem"

	certificatePerm os.FileMode = 0o644
	keyPerm         os.FileMode = 0o600
)

var (
	// ErrInvalidDays indicates a validity period that is not positive.
	ErrInvalidDays = errors.New("ca: validity must be at least one day")

	// ErrInvalidBaseName indicates an empty base name or one containing a path separator.
	ErrInvalidBaseName = errors.New("ca: invalid base file name")

	// ErrNoOutputDir indicates that no output directory was given.
	ErrNoOutputDir = errors.New("ca: no output directory")

	// ErrNoPassword indicates an empty private key password.
	ErrNoPassword = errors.New("ca: private key password is empty")
)

// Authority issues and inspects certificates.
//
// An Authority holds only its configuration source and collaborators, all set at
// construction. Each call loads the configuration and tracks its own diagnostics,
// so one Authority may serve concurrent callers.
type Authority struct {
	source config.Source
	log    logger.Logger
	certs  *x509certs.Certificate
	now    func() time.Time
}

// Option configures an [Authority].
type Option func(*Authority)

// WithLogger sets the logger receiving issuance milestones.
func WithLogger(l logger.Logger) Option {
	return func(a *Authority) {
		if l != nil {
			a.log = l
		}
	}
}

// WithClock sets the time source used for validity periods and chain checks.
func WithClock(now func() time.Time) Option {
	return func(a *Authority) {
		if now != nil {
			a.now = now
		}
	}
}

// New creates an Authority backed by source.
//
// Parameters:
//   - source: Backend configuration, loaded on every Create call
//   - opts: Optional settings such as [WithLogger]
//
// Returns:
//   - *Authority: New Authority instance
func New(source config.Source, opts ...Option) *Authority {
	a := &Authority{
		source: source,
		log:    logger.Discard(),
		certs:  x509certs.New(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CreateRequest describes a certificate to issue.
type CreateRequest struct {
	// DN is the subject. It must contain a commonName.
	DN pki.DistinguishedName
	// Days is the validity period, counted from now.
	Days int
	// Password protects the exported private key.
	Password pki.Secret
	// OutputDir receives the certificate and key files. It is created if missing.
	OutputDir string
	// BaseName is the file name shared by both outputs, without extension.
	BaseName string
	// Issuer selects self-signing or chain signing. Nil means [SelfSigned].
	Issuer IssuerMode
	// Overrides replace configuration values for this call only.
	Overrides config.Overrides
}

// Issued is the outcome of a successful [Authority.Create].
type Issued struct {
	// Certificate is the PEM encoded certificate.
	Certificate []byte
	// PrivateKey is the PEM encoded, password protected private key.
	PrivateKey []byte
	// Request is the PEM encoded signing request the certificate was issued from.
	// It is not written to disk.
	Request []byte
	// BaseName is the shared file name without extension.
	BaseName string
	// CertificateFile and KeyFile are the written paths.
	CertificateFile string
	KeyFile         string
	// X509 is the parsed certificate.
	X509 *x509.Certificate
}

// Create issues a certificate and writes it with its encrypted private key.
//
// The stages are: load and validate the configuration and request, generate a key
// pair, build and check a certificate signing request, sign it as the issuer mode
// dictates, verify the result, encrypt the private key, then stage and publish both
// files. Every failure is reported as a single [pki.ErrCreateCertificate] error whose
// message lists each recorded diagnostic on its own line. Validation problems are
// collected together so a caller sees all of them at once.
//
// Parameters:
//   - req: The certificate to issue
//
// Returns:
//   - *Issued: Exported certificate and key
//   - error: [pki.ErrCreateCertificate] on any failure; no files are left behind
//
// Thread Safety: Safe for concurrent use.
func (a *Authority) Create(req CreateRequest) (*Issued, error) {
	var diag diagnostics

	cfg := a.loadConfig(&diag, req.Overrides)
	diag.record("subject", req.DN.Validate())
	if req.Days <= 0 {
		diag.record("validity", fmt.Errorf("%w: got %d", ErrInvalidDays, req.Days))
	}
	if req.Password.IsEmpty() {
		diag.record("password", ErrNoPassword)
	}
	if req.OutputDir == "" {
		diag.record("output", ErrNoOutputDir)
	}
	if req.BaseName == "" || strings.ContainsAny(req.BaseName, `/\`) || req.BaseName == "." || req.BaseName == ".." {
		diag.record("output", fmt.Errorf("%w: %q", ErrInvalidBaseName, req.BaseName))
	}
	if err := diag.drain(); err != nil {
		return nil, err
	}

	mode := req.Issuer
	if mode == nil {
		mode = SelfSigned{}
	}

	key, err := x509keys.Generate(cfg)
	if err != nil {
		diag.record("generate key pair", err)
		return nil, diag.drain()
	}

	csr, err := a.buildRequest(req.DN, key, cfg)
	if err != nil {
		diag.record("build signing request", err)
		return nil, diag.drain()
	}

	cert, err := a.sign(csr, key, mode, cfg, req.Days)
	if err != nil {
		diag.record("sign certificate", err)
		return nil, diag.drain()
	}

	keyPEM, err := x509keys.MarshalEncrypted(key, req.Password, cfg.EncryptKeyCipher, cfg.KDFIterations)
	if err != nil {
		diag.record("export private key", err)
		return nil, diag.drain()
	}

	issued := &Issued{
		Certificate:     a.certs.EncodePEM(cert),
		PrivateKey:      keyPEM,
		Request:         a.certs.EncodeRequestPEM(csr.Raw),
		BaseName:        req.BaseName,
		CertificateFile: filepath.Join(req.OutputDir, req.BaseName+CertificateExt),
		KeyFile:         filepath.Join(req.OutputDir, req.BaseName+KeyExt),
		X509:            cert,
	}

	if err := persist(issued, req.OutputDir); err != nil {
		diag.record("write files", err)
		return nil, diag.drain()
	}

	a.log.Printf("issued %s certificate %s serial %X valid until %s",
		mode.describe(), pki.FromPKIX(cert.Subject), cert.SerialNumber, cert.NotAfter.Format(time.RFC3339))
	a.log.Printf("wrote %s and %s", issued.CertificateFile, issued.KeyFile)

	return issued, nil
}

// loadConfig loads the configuration and applies overrides, recording failures.
// It returns nil when a failure was recorded.
func (a *Authority) loadConfig(diag *diagnostics, overrides config.Overrides) *config.Config {
	if a.source == nil {
		diag.record("configuration", config.ErrNoSource)
		return nil
	}

	cfg, err := a.source.Load()
	if err != nil {
		diag.record("configuration", err)
		return nil
	}

	cfg, err = cfg.Apply(overrides)
	if err != nil {
		diag.record("configuration override", err)
		return nil
	}
	return cfg
}

// buildRequest creates a certificate signing request for dn and parses it back,
// which also checks its self-signature.
func (a *Authority) buildRequest(dn pki.DistinguishedName, key crypto.Signer, cfg *config.Config) (*x509.CertificateRequest, error) {
	alg, err := x509keys.SignatureAlgorithm(key, cfg.DigestAlg)
	if err != nil {
		return nil, err
	}

	der, err := x509.CreateCertificateRequest(rand.Reader, &x509.CertificateRequest{
		Subject:            dn.ToPKIX(),
		SignatureAlgorithm: alg,
	}, key)
	if err != nil {
		return nil, err
	}

	return a.certs.DecodeRequest(der)
}

// sign turns csr into a certificate according to mode.
func (a *Authority) sign(csr *x509.CertificateRequest, key crypto.Signer, mode IssuerMode, cfg *config.Config, days int) (*x509.Certificate, error) {
	skid, err := x509keys.SubjectKeyID(csr.PublicKey)
	if err != nil {
		return nil, err
	}

	serial, err := randomSerial(cfg.SerialBits)
	if err != nil {
		return nil, err
	}

	notBefore := a.now().UTC().Truncate(time.Second)
	tmpl := &x509.Certificate{
		SerialNumber:          serial,
		RawSubject:            csr.RawSubject,
		NotBefore:             notBefore,
		NotAfter:              notBefore.AddDate(0, 0, days),
		BasicConstraintsValid: true,
		SubjectKeyId:          skid,
	}

	var (
		parent = tmpl
		signer = key
		anchor *x509.Certificate
	)

	switch m := mode.(type) {
	case SelfSigned:
		tmpl.IsCA = true
		tmpl.AuthorityKeyId = skid
	case ChainedTo:
		iss, err := m.load(a.certs)
		if err != nil {
			return nil, err
		}
		tmpl.IsCA = cfg.CA()
		if akid, err := x509keys.SubjectKeyID(iss.cert.PublicKey); err == nil {
			// Replaced by the issuer's own SubjectKeyId when it has one.
			tmpl.AuthorityKeyId = akid
		}
		parent, signer, anchor = iss.cert, iss.key, iss.cert
	default:
		return nil, fmt.Errorf("unsupported issuer mode %T", mode)
	}

	if tmpl.IsCA {
		tmpl.KeyUsage = x509.KeyUsageCertSign | x509.KeyUsageCRLSign | x509.KeyUsageDigitalSignature
	} else {
		tmpl.KeyUsage = x509.KeyUsageDigitalSignature
		if _, ok := csr.PublicKey.(*rsa.PublicKey); ok {
			tmpl.KeyUsage |= x509.KeyUsageKeyEncipherment
		}
	}

	tmpl.SignatureAlgorithm, err = x509keys.SignatureAlgorithm(signer, cfg.DigestAlg)
	if err != nil {
		return nil, err
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, parent, csr.PublicKey, signer)
	if err != nil {
		return nil, err
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, err
	}

	chain := x509chain.New(cert)
	chain.Now = a.now
	if anchor != nil {
		if err := cert.CheckSignatureFrom(anchor); err != nil {
			return nil, fmt.Errorf("issued certificate does not verify against issuer: %w", err)
		}
		chain.Certs = append(chain.Certs, anchor)
	}
	if err := chain.VerifyChain(); err != nil {
		return nil, fmt.Errorf("issued certificate does not chain: %w", err)
	}

	return cert, nil
}

// randomSerial returns a positive random serial number below 2^bits.
func randomSerial(bits int) (*big.Int, error) {
	limit := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	for {
		serial, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return nil, err
		}
		if serial.Sign() > 0 {
			return serial, nil
		}
	}
}

// persist stages both files and publishes them. On any failure every staged or
// published file is removed again.
func persist(issued *Issued, dir string) (err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	certFile, err := posix.Stage(issued.CertificateFile, issued.Certificate, certificatePerm)
	if err != nil {
		return err
	}
	keyFile, err := posix.Stage(issued.KeyFile, issued.PrivateKey, keyPerm)
	if err != nil {
		certFile.Discard()
		return err
	}

	defer func() {
		if err != nil {
			certFile.Discard()
			keyFile.Discard()
		}
	}()

	if err = certFile.Commit(); err != nil {
		return err
	}
	return keyFile.Commit()
}
