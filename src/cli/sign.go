// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/H0llyW00dzZ/pki-toolkit/src/internal/helper/gc"
	"github.com/H0llyW00dzZ/pki-toolkit/src/signature"
	"github.com/spf13/cobra"
)

func (a *app) signCommand() *cobra.Command {
	var keyFile, passwordFile, alg, input, output string

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign data and print a base64 signature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(func() error {
				algorithm, err := signature.ParseAlgorithm(alg)
				if err != nil {
					return err
				}
				password, err := readPassword(passwordFile)
				if err != nil {
					return err
				}
				defer password.Zero()

				data, err := readInput(cmd, input)
				if err != nil {
					return err
				}

				sig, err := signature.New(signature.WithLogger(a.libraryLogger())).Sign(data, keyFile, password, algorithm)
				if err != nil {
					return err
				}
				return writeOutput(cmd, output, []byte(base64.StdEncoding.EncodeToString(sig)+"\n"), 0o644)
			})
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&keyFile, "key", "k", "", "private key")
	fl.StringVar(&passwordFile, "password-file", "", "file holding the private key password (default $"+EnvPassword+")")
	fl.StringVarP(&alg, "alg", "a", "sha256", "digest: sha1, sha224, sha256, sha384 or sha512")
	fl.StringVarP(&input, "in", "i", "", "data file (default: stdin)")
	fl.StringVarP(&output, "out", "o", "", "signature file (default: stdout)")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func (a *app) verifyCommand() *cobra.Command {
	var certFile, sigFile, alg, input string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a base64 signature against a certificate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(func() error {
				algorithm, err := signature.ParseAlgorithm(alg)
				if err != nil {
					return err
				}

				encoded, err := gc.ReadFile(sigFile)
				if err != nil {
					return fmt.Errorf("cli: read signature: %w", err)
				}
				sig, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(encoded)))
				if err != nil {
					return fmt.Errorf("cli: signature is not base64: %w", err)
				}

				data, err := readInput(cmd, input)
				if err != nil {
					return err
				}

				ok, err := signature.New(signature.WithLogger(a.libraryLogger())).Verify(data, sig, certFile, algorithm)
				if err != nil {
					return err
				}
				if !ok {
					return ErrSignatureMismatch
				}
				return writeLine(cmd.OutOrStdout(), "signature OK")
			})
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&certFile, "cert", "c", "", "signer certificate")
	fl.StringVarP(&sigFile, "signature", "s", "", "base64 signature file")
	fl.StringVarP(&alg, "alg", "a", "sha256", "digest: sha1, sha224, sha256, sha384 or sha512")
	fl.StringVarP(&input, "in", "i", "", "data file (default: stdin)")
	_ = cmd.MarkFlagRequired("cert")
	_ = cmd.MarkFlagRequired("signature")
	return cmd
}
