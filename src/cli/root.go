// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/H0llyW00dzZ/pki-toolkit/src/config"
	"github.com/H0llyW00dzZ/pki-toolkit/src/internal/helper/gc"
	"github.com/H0llyW00dzZ/pki-toolkit/src/internal/helper/posix"
	"github.com/H0llyW00dzZ/pki-toolkit/src/logger"
	"github.com/H0llyW00dzZ/pki-toolkit/src/pki"
	cfssllog "github.com/cloudflare/cfssl/log"
	"github.com/spf13/cobra"
)

// EnvPassword is consulted when a command needs a password and no password file was given.
const EnvPassword = "PKI_TOOLKIT_PASSWORD"

var (
	// ErrPasswordRequired indicates that neither a password file nor EnvPassword was given.
	ErrPasswordRequired = errors.New("cli: password required (use a password file or " + EnvPassword + ")")

	// ErrSignatureMismatch is returned by the verify command when the signature does not match.
	ErrSignatureMismatch = errors.New("cli: signature does not match")

	// ErrChainInvalid is returned by the chain command when the chain does not verify.
	ErrChainInvalid = errors.New("cli: certificate chain does not verify")
)

var (
	// OperationPerformed is set once a subcommand starts doing work.
	OperationPerformed bool
	// OperationPerformedSuccessfully is set once a subcommand finished without error.
	OperationPerformedSuccessfully bool
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configFile string
	logFormat  string
	verbose    bool
}

// app carries per-invocation state into the subcommands.
type app struct {
	ctx   context.Context
	log   logger.Logger
	flags globalFlags
}

// Execute runs the command line with os.Args.
//
// Parameters:
//   - ctx: Cancelled when the process receives a termination signal
//   - version: Reported by --version
//   - log: Destination for progress messages
//
// Returns:
//   - error: The first error a subcommand returned
func Execute(ctx context.Context, version string, log logger.Logger) error {
	OperationPerformed = false
	OperationPerformedSuccessfully = false

	cmd := NewCommand(ctx, version, log)
	cmd.SetArgs(os.Args[1:])
	return cmd.ExecuteContext(ctx)
}

// NewCommand builds the command tree.
func NewCommand(ctx context.Context, version string, log logger.Logger) *cobra.Command {
	if log == nil {
		log = logger.Discard()
	}
	a := &app{ctx: ctx, log: log}

	name := posix.GetExecutableName()
	root := &cobra.Command{
		Use:           name,
		Short:         "Issue certificates, encrypt for certificate holders and sign data",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configFile, "config", "", "backend configuration file (YAML or JSON; default $"+config.EnvConfigFile+")")
	pf.StringVar(&a.flags.logFormat, "log-format", "text", "log format: text or json")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "log operation details to stderr")

	root.AddCommand(
		a.createCommand(),
		a.infoCommand(),
		a.encryptCommand(),
		a.decryptCommand(),
		a.signCommand(),
		a.verifyCommand(),
		a.chainCommand(),
	)
	return root
}

// setup applies the global flags before a subcommand runs.
func (a *app) setup(cmd *cobra.Command) error {
	switch strings.ToLower(a.flags.logFormat) {
	case "", "text":
		a.log.SetOutput(cmd.ErrOrStderr())
	case "json":
		a.log = logger.NewJSONLogger(cmd.ErrOrStderr(), false)
	default:
		return fmt.Errorf("cli: unknown log format %q", a.flags.logFormat)
	}

	// cfssl logs parse failures it already returns as errors.
	cfssllog.Level = cfssllog.LevelError
	if a.flags.verbose {
		cfssllog.Level = cfssllog.LevelDebug
	}
	return nil
}

// libraryLogger returns the logger handed to the toolkit packages.
func (a *app) libraryLogger() logger.Logger {
	if a.flags.verbose {
		return a.log
	}
	return logger.Discard()
}

// run marks the operation flags around fn and honours cancellation.
func (a *app) run(fn func() error) error {
	if err := a.ctx.Err(); err != nil {
		return err
	}
	OperationPerformed = true
	if err := fn(); err != nil {
		return err
	}
	OperationPerformedSuccessfully = true
	return nil
}

// readPassword reads a password from path, or from EnvPassword when path is empty.
// One trailing line break is removed.
func readPassword(path string) (pki.Secret, error) {
	if path == "" {
		env, ok := os.LookupEnv(EnvPassword)
		if !ok || env == "" {
			return nil, ErrPasswordRequired
		}
		return pki.NewSecret(env), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cli: read password file: %w", err)
	}
	n := len(data)
	if n > 0 && data[n-1] == '\n' {
		n--
	}
	if n > 0 && data[n-1] == '\r' {
		n--
	}
	if n == 0 {
		clear(data)
		return nil, ErrPasswordRequired
	}
	secret := pki.Secret(data[:n]).Clone()
	clear(data)
	return secret, nil
}

// readInput reads path, or stdin when path is empty or "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		buf := gc.Default.Get()
		defer gc.Wipe(gc.Default, buf)
		if _, err := buf.ReadFrom(cmd.InOrStdin()); err != nil {
			return nil, fmt.Errorf("cli: read stdin: %w", err)
		}
		return append([]byte(nil), buf.Bytes()...), nil
	}
	return gc.ReadFile(path)
}

// writeOutput writes data to path, or stdout when path is empty or "-".
func writeOutput(cmd *cobra.Command, path string, data []byte, perm os.FileMode) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(path, data, perm)
}

func writeLine(w io.Writer, s string) error {
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, err := io.WriteString(w, s)
	return err
}
