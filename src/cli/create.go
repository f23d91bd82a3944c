// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/H0llyW00dzZ/pki-toolkit/src/ca"
	"github.com/H0llyW00dzZ/pki-toolkit/src/config"
	"github.com/H0llyW00dzZ/pki-toolkit/src/pki"
	"github.com/spf13/cobra"
)

type createFlags struct {
	commonName   string
	email        string
	country      string
	state        string
	locality     string
	organization string
	unit         string

	days         int
	passwordFile string
	outputDir    string
	baseName     string
	requestFile  string

	issuerCert         string
	issuerKey          string
	issuerPasswordFile string

	set []string
}

func (a *app) createCommand() *cobra.Command {
	var f createFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Issue a certificate and an encrypted private key",
		Long: `Issue a certificate and a password protected private key.

Without --issuer-cert the certificate is self-signed. With --issuer-cert and
--issuer-key it is signed by that authority. The files are written to
<out>/<name>.cer and <out>/<name>.pem.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(func() error { return a.create(cmd, &f) })
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.commonName, "cn", "", "subject common name")
	fl.StringVar(&f.email, "email", "", "subject email address")
	fl.StringVar(&f.country, "country", "", "subject country (two letters)")
	fl.StringVar(&f.state, "state", "", "subject state or province")
	fl.StringVar(&f.locality, "locality", "", "subject locality")
	fl.StringVar(&f.organization, "org", "", "subject organization")
	fl.StringVar(&f.unit, "ou", "", "subject organizational unit")
	fl.IntVar(&f.days, "days", 365, "validity in days")
	fl.StringVar(&f.passwordFile, "password-file", "", "file holding the private key password (default $"+EnvPassword+")")
	fl.StringVarP(&f.outputDir, "out", "o", ".", "output directory")
	fl.StringVarP(&f.baseName, "name", "n", "", "base file name without extension")
	fl.StringVar(&f.requestFile, "csr", "", "also write the PEM signing request to this file")
	fl.StringVar(&f.issuerCert, "issuer-cert", "", "issuer certificate for chain signing")
	fl.StringVar(&f.issuerKey, "issuer-key", "", "issuer private key for chain signing")
	fl.StringVar(&f.issuerPasswordFile, "issuer-password-file", "", "file holding the issuer key password")
	fl.StringArrayVar(&f.set, "set", nil, "override a configuration value (key=value, repeatable)")

	_ = cmd.MarkFlagRequired("name")
	cmd.MarkFlagsRequiredTogether("issuer-cert", "issuer-key")

	return cmd
}

func (a *app) create(cmd *cobra.Command, f *createFlags) error {
	password, err := readPassword(f.passwordFile)
	if err != nil {
		return err
	}
	defer password.Zero()

	overrides, err := parseOverrides(f.set)
	if err != nil {
		return err
	}

	var issuer ca.IssuerMode = ca.SelfSigned{}
	if f.issuerCert != "" {
		issuerPassword, err := readPassword(f.issuerPasswordFile)
		if err != nil {
			return fmt.Errorf("issuer: %w", err)
		}
		defer issuerPassword.Zero()

		issuer = ca.ChainedTo{
			CertificateFile: f.issuerCert,
			KeyFile:         f.issuerKey,
			Password:        issuerPassword,
		}
	}

	dn := pki.NewDistinguishedName(map[string]string{
		"countryName":            f.country,
		"stateOrProvinceName":    f.state,
		"localityName":           f.locality,
		"organizationName":       f.organization,
		"organizationalUnitName": f.unit,
		"commonName":             f.commonName,
		"emailAddress":           f.email,
	})

	authority := ca.New(config.Resolve(a.flags.configFile), ca.WithLogger(a.libraryLogger()))
	issued, err := authority.Create(ca.CreateRequest{
		DN:        dn,
		Days:      f.days,
		Password:  password,
		OutputDir: f.outputDir,
		BaseName:  f.baseName,
		Issuer:    issuer,
		Overrides: overrides,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := writeLine(out, "certificate: "+issued.CertificateFile); err != nil {
		return err
	}
	if err := writeLine(out, "private key: "+issued.KeyFile); err != nil {
		return err
	}
	if f.requestFile == "" {
		return nil
	}
	if err := os.WriteFile(f.requestFile, issued.Request, 0o644); err != nil {
		return fmt.Errorf("cli: write signing request: %w", err)
	}
	return writeLine(out, "signing request: "+f.requestFile)
}

// parseOverrides turns key=value pairs into configuration overrides.
// Values stay strings; the configuration layer converts them.
func parseOverrides(pairs []string) (config.Overrides, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(config.Overrides, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("cli: --set %q must be key=value", p)
		}
		out[key] = value
	}
	return out, nil
}
