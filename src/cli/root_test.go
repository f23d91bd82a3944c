// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/H0llyW00dzZ/pki-toolkit/src/cli"
	"github.com/H0llyW00dzZ/pki-toolkit/src/logger"
	"github.com/H0llyW00dzZ/pki-toolkit/src/pki"
)

const version = "1.3.3.7-testing"

const fastConfig = `private_key_type: rsa
private_key_bits: 1024
curve_name: P-256
digest_alg: sha256
encrypt_key_cipher: aes-256-cbc
kdf_iterations: 1000
serial_bits: 128
`

type fixture struct {
	dir          string
	configFile   string
	passwordFile string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	f := &fixture{
		dir:          dir,
		configFile:   filepath.Join(dir, "config.yaml"),
		passwordFile: filepath.Join(dir, "password.txt"),
	}
	require.NoError(t, os.WriteFile(f.configFile, []byte(fastConfig), 0o600))
	require.NoError(t, os.WriteFile(f.passwordFile, []byte("cli-password\n"), 0o600))
	t.Setenv(cli.EnvPassword, "")
	return f
}

func (f *fixture) path(name string) string { return filepath.Join(f.dir, name) }

// run executes the command tree with args and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewCommand(context.Background(), version, logger.Discard())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func (f *fixture) createRoot(t *testing.T) {
	t.Helper()
	_, err := run(t, "", "create", "--config", f.configFile,
		"--cn", "CLI Root", "--org", "PKI Toolkit", "--country", "US",
		"--days", "30", "--password-file", f.passwordFile,
		"--out", f.dir, "--name", "root")
	require.NoError(t, err)
}

func (f *fixture) createLeaf(t *testing.T) {
	t.Helper()
	_, err := run(t, "", "create", "--config", f.configFile,
		"--cn", "CLI Leaf", "--email", "leaf@example.com",
		"--days", "7", "--password-file", f.passwordFile,
		"--out", f.dir, "--name", "leaf",
		"--issuer-cert", f.path("root.cer"), "--issuer-key", f.path("root.pem"),
		"--issuer-password-file", f.passwordFile,
		"--set", "is_ca=false")
	require.NoError(t, err)
}

func TestCreateAndInfo(t *testing.T) {
	f := newFixture(t)
	f.createRoot(t)
	f.createLeaf(t)

	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "JSON",
			testFunc: func(t *testing.T) {
				out, err := run(t, "", "info", f.path("leaf.cer"), "--format", "json")
				require.NoError(t, err)

				var info map[string]any
				require.NoError(t, json.Unmarshal([]byte(out), &info))
				assert.Equal(t, "/CN=CLI Leaf/emailAddress=leaf@example.com", info["name"])
				assert.Equal(t, false, info["isCA"])

				issuer, ok := info["issuer"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "CLI Root", issuer["commonName"])
			},
		},
		{
			name: "YAML",
			testFunc: func(t *testing.T) {
				out, err := run(t, "", "info", f.path("root.cer"), "--format", "yaml")
				require.NoError(t, err)

				var info map[string]any
				require.NoError(t, yaml.Unmarshal([]byte(out), &info))
				assert.Equal(t, true, info["isCA"])
				assert.Equal(t, true, info["selfSigned"])
			},
		},
		{
			name: "Table",
			testFunc: func(t *testing.T) {
				out, err := run(t, "", "info", f.path("root.cer"))
				require.NoError(t, err)
				assert.Contains(t, out, "CLI Root")
				assert.Contains(t, out, "basicConstraints")
			},
		},
		{
			name: "Unknown Format",
			testFunc: func(t *testing.T) {
				_, err := run(t, "", "info", f.path("root.cer"), "--format", "xml")
				assert.Error(t, err)
			},
		},
		{
			name: "Missing Certificate",
			testFunc: func(t *testing.T) {
				_, err := run(t, "", "info", f.path("missing.cer"))
				assert.ErrorIs(t, err, pki.ErrCertificateNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.testFunc)
	}
}

func TestCreate_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := run(t, "", "create", "--config", f.configFile, "--cn", "x", "--out", f.dir, "--name", "x")
	assert.ErrorIs(t, err, cli.ErrPasswordRequired)

	_, err = run(t, "", "create", "--config", f.configFile, "--password-file", f.passwordFile, "--out", f.dir, "--name", "x")
	assert.ErrorIs(t, err, pki.ErrCreateCertificate)

	_, err = run(t, "", "create", "--config", f.configFile, "--cn", "x", "--password-file", f.passwordFile,
		"--out", f.dir, "--name", "x", "--set", "private_key_bits")
	assert.Error(t, err)

	_, err = run(t, "", "create", "--config", f.configFile, "--cn", "x", "--out", f.dir)
	assert.Error(t, err, "--name is required")

	csr := f.path("req.csr")
	out, err := run(t, "", "create", "--config", f.configFile, "--cn", "with-csr", "--password-file", f.passwordFile,
		"--out", f.dir, "--name", "with-csr", "--csr", csr)
	require.NoError(t, err)
	assert.Contains(t, out, "signing request: "+csr)
	data, err := os.ReadFile(csr)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "-----BEGIN CERTIFICATE REQUEST-----"))

	t.Setenv(cli.EnvPassword, "from-env")
	_, err = run(t, "", "create", "--config", f.configFile, "--cn", "env", "--out", f.dir, "--name", "env")
	require.NoError(t, err)
	assert.FileExists(t, f.path("env.cer"))
}

func TestEncryptDecrypt(t *testing.T) {
	f := newFixture(t)
	f.createRoot(t)

	for _, mode := range []string{"gcm", "cbc-hmac"} {
		t.Run(mode, func(t *testing.T) {
			envelopeFile := f.path("message-" + mode + ".txt")
			_, err := run(t, "Hello World", "encrypt", "--cert", f.path("root.cer"), "--mode", mode, "--out", envelopeFile)
			require.NoError(t, err)

			out, err := run(t, "", "decrypt", "--key", f.path("root.pem"), "--password-file", f.passwordFile,
				"--mode", mode, "--in", envelopeFile)
			require.NoError(t, err)
			assert.Equal(t, "Hello World", out)
		})
	}

	t.Run("Wrong Password", func(t *testing.T) {
		envelope, err := run(t, "Hello World", "encrypt", "--cert", f.path("root.cer"))
		require.NoError(t, err)

		wrong := f.path("wrong.txt")
		require.NoError(t, os.WriteFile(wrong, []byte("nope"), 0o600))

		_, err = run(t, envelope, "decrypt", "--key", f.path("root.pem"), "--password-file", wrong)
		assert.ErrorIs(t, err, pki.ErrDecrypt)
	})

	t.Run("Unknown Mode", func(t *testing.T) {
		_, err := run(t, "Hello World", "encrypt", "--cert", f.path("root.cer"), "--mode", "ecb")
		assert.Error(t, err)
	})
}

func TestSignVerify(t *testing.T) {
	f := newFixture(t)
	f.createRoot(t)

	data := f.path("data.txt")
	require.NoError(t, os.WriteFile(data, []byte("Hello World"), 0o644))
	sigFile := f.path("data.sig")

	_, err := run(t, "", "sign", "--key", f.path("root.pem"), "--password-file", f.passwordFile,
		"--alg", "sha384", "--in", data, "--out", sigFile)
	require.NoError(t, err)

	out, err := run(t, "", "verify", "--cert", f.path("root.cer"), "--signature", sigFile, "--alg", "sha384", "--in", data)
	require.NoError(t, err)
	assert.Contains(t, out, "signature OK")

	_, err = run(t, "Hello World!", "verify", "--cert", f.path("root.cer"), "--signature", sigFile, "--alg", "sha384")
	assert.ErrorIs(t, err, cli.ErrSignatureMismatch)

	_, err = run(t, "", "verify", "--cert", f.path("missing.cer"), "--signature", sigFile, "--in", data)
	assert.ErrorIs(t, err, pki.ErrVerify)

	_, err = run(t, "Hello World", "sign", "--key", f.path("missing.pem"), "--password-file", f.passwordFile)
	assert.ErrorIs(t, err, pki.ErrSign)
}

func TestChain(t *testing.T) {
	f := newFixture(t)
	f.createRoot(t)
	f.createLeaf(t)

	out, err := run(t, "", "chain", f.path("leaf.cer"), f.path("root.cer"))
	require.NoError(t, err)
	assert.Contains(t, out, "├── [✓] CLI Leaf")
	assert.Contains(t, out, "└── [✓] CLI Root")

	out, err = run(t, "", "chain", f.path("leaf.cer"), f.path("root.cer"), "--format", "json")
	require.NoError(t, err)
	var viz struct {
		ChainLength int `json:"chainLength"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &viz))
	assert.Equal(t, 2, viz.ChainLength)

	out, err = run(t, "", "chain", f.path("leaf.cer"), f.path("root.cer"), "--format", "pem")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "-----BEGIN CERTIFICATE-----"))

	_, err = run(t, "", "chain", f.path("leaf.cer"))
	assert.ErrorIs(t, err, cli.ErrChainInvalid)
}

func TestExecute_Flags(t *testing.T) {
	_, err := run(t, "", "--log-format", "xml", "info", "x.cer")
	assert.Error(t, err)

	out, err := run(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, out, version)
}

func TestExecute_OperationFlags(t *testing.T) {
	f := newFixture(t)

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })

	os.Args = []string{"pki-toolkit", "info", f.path("missing.cer")}
	err := cli.Execute(context.Background(), version, logger.Discard())
	assert.Error(t, err)
	assert.True(t, cli.OperationPerformed)
	assert.False(t, cli.OperationPerformedSuccessfully)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = cli.Execute(ctx, version, logger.Discard())
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, cli.OperationPerformed)
}
