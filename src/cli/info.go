// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/H0llyW00dzZ/pki-toolkit/src/ca"
	"github.com/H0llyW00dzZ/pki-toolkit/src/config"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (a *app) infoCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "info CERTIFICATE",
		Short: "Show the fields of a certificate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func() error {
				authority := ca.New(config.Static(config.Default()), ca.WithLogger(a.libraryLogger()))
				info, err := authority.GetInformation(args[0])
				if err != nil {
					return err
				}
				return renderInfo(cmd.OutOrStdout(), info, format)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json or yaml")
	return cmd
}

func renderInfo(w io.Writer, info *ca.ParsedCertificate, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(info); err != nil {
			return err
		}
		return enc.Close()
	case "table":
		return infoTable(w, info)
	default:
		return fmt.Errorf("cli: unknown format %q", format)
	}
}

func infoTable(w io.Writer, info *ca.ParsedCertificate) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)
	table.Header([]string{"Field", "Value"})

	rows := [][]string{
		{"Name", info.Name},
		{"Issuer", info.Issuer.String()},
		{"Version", strconv.Itoa(info.Version)},
		{"Serial Number", info.SerialNumber},
		{"Serial Number (hex)", info.SerialNumberHex},
		{"Valid From", info.ValidFrom.UTC().Format(time.RFC3339)},
		{"Valid To", info.ValidTo.UTC().Format(time.RFC3339)},
		{"Signature Algorithm", info.SignatureAlgorithm},
		{"Public Key", fmt.Sprintf("%s %d-bit", info.PublicKeyAlgorithm, info.KeyBits)},
		{"CA", strconv.FormatBool(info.IsCA)},
		{"Self-Signed", strconv.FormatBool(info.SelfSigned)},
		{"SHA-1 Fingerprint", info.FingerprintSHA1},
		{"SHA-256 Fingerprint", info.FingerprintSHA256},
	}

	names := make([]string, 0, len(info.Extensions))
	for name := range info.Extensions {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		rows = append(rows, []string{name, info.Extensions[name]})
	}

	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
