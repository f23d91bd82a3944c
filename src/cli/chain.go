// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"crypto/x509"
	"errors"
	"fmt"

	"github.com/H0llyW00dzZ/pki-toolkit/src/internal/helper/gc"
	x509certs "github.com/H0llyW00dzZ/pki-toolkit/src/internal/x509/certs"
	x509chain "github.com/H0llyW00dzZ/pki-toolkit/src/internal/x509/chain"
	"github.com/spf13/cobra"
)

type chainFlags struct {
	format           string
	intermediateOnly bool
	systemRoots      bool
}

func (a *app) chainCommand() *cobra.Command {
	var f chainFlags

	cmd := &cobra.Command{
		Use:   "chain LEAF [ISSUER...]",
		Short: "Order and verify a certificate chain",
		Long: `Order the given certificates from LEAF up to its root and verify every signature.

Issuer files may be given in any order and may hold several PEM certificates.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func() error { return a.chain(cmd, args, &f) })
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.format, "format", "f", "tree", "output format: tree, table, json or pem")
	fl.BoolVar(&f.intermediateOnly, "intermediate-only", false, "with --format pem, output intermediate certificates only")
	fl.BoolVar(&f.systemRoots, "system-roots", false, "append a trusted root from the system pool when missing")
	return cmd
}

func (a *app) chain(cmd *cobra.Command, args []string, f *chainFlags) error {
	decoder := x509certs.New()

	leaf, err := decoder.ReadFile(args[0])
	if err != nil {
		return err
	}

	var candidates []*x509.Certificate
	for _, path := range args[1:] {
		data, err := gc.ReadFile(path)
		if err != nil {
			return fmt.Errorf("cli: read %s: %w", path, err)
		}
		certs, err := decoder.DecodeMultiple(data)
		if err != nil {
			return fmt.Errorf("cli: %s: %w", path, err)
		}
		candidates = append(candidates, certs...)
	}

	chain := x509chain.New(leaf)
	if err := chain.Resolve(candidates); err != nil {
		return err
	}
	if f.systemRoots {
		if err := chain.AddRootCA(); err != nil {
			return err
		}
	}

	// VerifyChain anchors on the top certificate, so it must be a root.
	var verifyErr error
	if top := chain.Certs[len(chain.Certs)-1]; !chain.IsRootNode(top) {
		verifyErr = fmt.Errorf("no root certificate found for %q", top.Subject.CommonName)
	} else {
		verifyErr = chain.VerifyChain()
	}
	if verifyErr != nil {
		a.libraryLogger().Printf("chain verification failed: %v", verifyErr)
	}

	out := cmd.OutOrStdout()
	switch f.format {
	case "tree":
		err = writeLine(out, chain.RenderASCIITree())
	case "table":
		err = writeLine(out, chain.RenderTable())
	case "json":
		var data []byte
		if data, err = chain.ToVisualizationJSON(); err == nil {
			err = writeLine(out, string(data))
		}
	case "pem":
		certs := chain.Certs
		if f.intermediateOnly {
			certs = chain.FilterIntermediates()
		}
		_, err = out.Write(chain.EncodeMultiplePEM(certs))
	default:
		return fmt.Errorf("cli: unknown format %q", f.format)
	}
	if err != nil {
		return err
	}

	if verifyErr != nil {
		return errors.Join(ErrChainInvalid, verifyErr)
	}
	return nil
}
