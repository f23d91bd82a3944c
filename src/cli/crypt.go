// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"github.com/H0llyW00dzZ/pki-toolkit/src/crypt"
	"github.com/spf13/cobra"
)

type cryptFlags struct {
	mode   string
	input  string
	output string
}

func (f *cryptFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.mode, "mode", "m", "gcm", "symmetric mode: gcm or cbc-hmac")
	fl.StringVarP(&f.input, "in", "i", "", "input file (default: stdin)")
	fl.StringVarP(&f.output, "out", "o", "", "output file (default: stdout)")
}

func (a *app) cipher(f *cryptFlags) (*crypt.HybridCipher, error) {
	mode, err := crypt.ParseMode(f.mode)
	if err != nil {
		return nil, err
	}
	return crypt.New(crypt.WithMode(mode), crypt.WithLogger(a.libraryLogger())), nil
}

func (a *app) encryptCommand() *cobra.Command {
	var (
		f        cryptFlags
		certFile string
	)

	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt data for the holder of a certificate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(func() error {
				h, err := a.cipher(&f)
				if err != nil {
					return err
				}
				data, err := readInput(cmd, f.input)
				if err != nil {
					return err
				}
				defer clear(data)

				envelope, err := h.EncryptWithPublicKey(data, certFile)
				if err != nil {
					return err
				}
				return writeOutput(cmd, f.output, []byte(envelope+"\n"), 0o644)
			})
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&certFile, "cert", "c", "", "recipient certificate")
	_ = cmd.MarkFlagRequired("cert")
	return cmd
}

func (a *app) decryptCommand() *cobra.Command {
	var (
		f            cryptFlags
		keyFile      string
		passwordFile string
	)

	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt an envelope with a private key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(func() error {
				h, err := a.cipher(&f)
				if err != nil {
					return err
				}
				password, err := readPassword(passwordFile)
				if err != nil {
					return err
				}
				defer password.Zero()

				envelope, err := readInput(cmd, f.input)
				if err != nil {
					return err
				}

				plaintext, err := h.DecryptWithPrivateKey(string(envelope), keyFile, password)
				if err != nil {
					return err
				}
				defer clear(plaintext)
				return writeOutput(cmd, f.output, plaintext, 0o600)
			})
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&keyFile, "key", "k", "", "private key")
	cmd.Flags().StringVar(&passwordFile, "password-file", "", "file holding the private key password (default $"+EnvPassword+")")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}
