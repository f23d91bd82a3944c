// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfigFile names the environment variable consulted by [Resolve] when no
// explicit path is given.
const EnvConfigFile = "PKI_TOOLKIT_CONFIG"

// Recognized configuration keys, shared by files and [Overrides].
const (
	KeyPrivateKeyType   = "private_key_type"
	KeyPrivateKeyBits   = "private_key_bits"
	KeyCurveName        = "curve_name"
	KeyDigestAlg        = "digest_alg"
	KeyEncryptKeyCipher = "encrypt_key_cipher"
	KeyKDFIterations    = "kdf_iterations"
	KeySerialBits       = "serial_bits"
	KeyIsCA             = "is_ca"
)

var (
	// ErrNoSource indicates that no configuration file was given.
	ErrNoSource = errors.New("config: no configuration source given")

	// ErrInvalidValue indicates a configuration value outside the supported set.
	ErrInvalidValue = errors.New("config: invalid value")
)

// configFormat represents supported configuration file formats.
type configFormat int

const (
	// configFormatJSON represents JSON configuration format (.json)
	configFormatJSON configFormat = iota
	// configFormatYAML represents YAML configuration format (.yaml, .yml)
	configFormatYAML
)

// Config holds the backend parameters for key generation, signing and key export.
type Config struct {
	// PrivateKeyType: rsa, ecdsa or ed25519
	PrivateKeyType string `json:"private_key_type" yaml:"private_key_type"`
	// PrivateKeyBits: RSA modulus size
	PrivateKeyBits int `json:"private_key_bits" yaml:"private_key_bits"`
	// CurveName: P-256, P-384 or P-521 for ECDSA keys
	CurveName string `json:"curve_name" yaml:"curve_name"`
	// DigestAlg: digest used to sign requests and certificates; empty picks one from the key
	DigestAlg string `json:"digest_alg,omitempty" yaml:"digest_alg,omitempty"`
	// EncryptKeyCipher: cipher protecting exported private keys
	EncryptKeyCipher string `json:"encrypt_key_cipher" yaml:"encrypt_key_cipher"`
	// KDFIterations: PBKDF2 iterations used when exporting private keys
	KDFIterations int `json:"kdf_iterations" yaml:"kdf_iterations"`
	// SerialBits: size of random certificate serial numbers
	SerialBits int `json:"serial_bits" yaml:"serial_bits"`
	// IsCA: whether chain-signed certificates may sign further certificates
	IsCA *bool `json:"is_ca,omitempty" yaml:"is_ca,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		PrivateKeyType:   "rsa",
		PrivateKeyBits:   2048,
		CurveName:        "P-256",
		DigestAlg:        "sha256",
		EncryptKeyCipher: "aes-256-cbc",
		KDFIterations:    100000,
		SerialBits:       128,
	}
}

// CA reports whether chain-signed certificates carry CA basic constraints.
// Defaults to true.
func (c *Config) CA() bool { return c.IsCA == nil || *c.IsCA }

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	if c.IsCA != nil {
		v := *c.IsCA
		out.IsCA = &v
	}
	return &out
}

// normalize folds the case of enumerated values.
func (c *Config) normalize() {
	c.PrivateKeyType = strings.ToLower(c.PrivateKeyType)
	c.CurveName = strings.ToUpper(c.CurveName)
	c.DigestAlg = strings.ToLower(c.DigestAlg)
	c.EncryptKeyCipher = strings.ToLower(c.EncryptKeyCipher)
}

// Validate checks every field against the supported values.
func (c *Config) Validate() error {
	switch c.PrivateKeyType {
	case "rsa":
		if c.PrivateKeyBits < 1024 || c.PrivateKeyBits > 16384 {
			return fmt.Errorf("%w: %s %d must be between 1024 and 16384", ErrInvalidValue, KeyPrivateKeyBits, c.PrivateKeyBits)
		}
	case "ecdsa":
		switch c.CurveName {
		case "P-256", "P-384", "P-521":
		default:
			return fmt.Errorf("%w: %s %q", ErrInvalidValue, KeyCurveName, c.CurveName)
		}
	case "ed25519":
	default:
		return fmt.Errorf("%w: %s %q", ErrInvalidValue, KeyPrivateKeyType, c.PrivateKeyType)
	}

	switch c.DigestAlg {
	case "", "sha224", "sha256", "sha384", "sha512":
	case "sha1":
		// crypto/x509 no longer verifies SHA-1 certificate signatures.
		return fmt.Errorf("%w: %s %q is not accepted for certificates", ErrInvalidValue, KeyDigestAlg, c.DigestAlg)
	default:
		return fmt.Errorf("%w: %s %q", ErrInvalidValue, KeyDigestAlg, c.DigestAlg)
	}

	switch c.EncryptKeyCipher {
	case "aes-128-cbc", "aes-192-cbc", "aes-256-cbc":
	default:
		return fmt.Errorf("%w: %s %q", ErrInvalidValue, KeyEncryptKeyCipher, c.EncryptKeyCipher)
	}

	if c.KDFIterations < 1000 {
		return fmt.Errorf("%w: %s %d must be at least 1000", ErrInvalidValue, KeyKDFIterations, c.KDFIterations)
	}
	// Serial numbers are limited to 20 octets and must stay positive.
	if c.SerialBits < 64 || c.SerialBits > 159 {
		return fmt.Errorf("%w: %s %d must be between 64 and 159", ErrInvalidValue, KeySerialBits, c.SerialBits)
	}
	return nil
}

// detectConfigFormat determines the configuration file format based on file extension.
func detectConfigFormat(configPath string) configFormat {
	ext := strings.ToLower(filepath.Ext(configPath))
	switch ext {
	case ".yaml", ".yml":
		return configFormatYAML
	default:
		return configFormatJSON
	}
}

// unmarshalConfig unmarshals configuration data based on the specified format.
func unmarshalConfig(data []byte, config *Config, format configFormat) error {
	switch format {
	case configFormatYAML:
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse YAML config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse JSON config file: %w", err)
		}
	}
	return nil
}

// Overrides adjusts a loaded configuration for a single call. Keys are the
// Key* constants; unknown keys are ignored.
//
// Values may be native Go types or the types produced by JSON and YAML decoding,
// so integers can arrive as int, int64, float64 or numeric strings.
type Overrides map[string]any

// Apply returns a copy of c with the overrides merged in and validated.
func (c *Config) Apply(o Overrides) (*Config, error) {
	out := c.Clone()
	for key, raw := range o {
		var err error
		switch key {
		case KeyPrivateKeyType:
			out.PrivateKeyType, err = asString(key, raw)
		case KeyPrivateKeyBits:
			out.PrivateKeyBits, err = asInt(key, raw)
		case KeyCurveName:
			out.CurveName, err = asString(key, raw)
		case KeyDigestAlg:
			out.DigestAlg, err = asString(key, raw)
		case KeyEncryptKeyCipher:
			out.EncryptKeyCipher, err = asString(key, raw)
		case KeyKDFIterations:
			out.KDFIterations, err = asInt(key, raw)
		case KeySerialBits:
			out.SerialBits, err = asInt(key, raw)
		case KeyIsCA:
			var v bool
			v, err = asBool(key, raw)
			out.IsCA = &v
		}
		if err != nil {
			return nil, err
		}
	}
	out.normalize()
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func asString(key string, raw any) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidValue, key, raw)
	}
	return strings.TrimSpace(s), nil
}

func asInt(key string, raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		if v <= math.MaxInt32 {
			return int(v), nil
		}
	case float64:
		if v == math.Trunc(v) && math.Abs(v) <= math.MaxInt32 {
			return int(v), nil
		}
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w: %s must be an integer, got %v", ErrInvalidValue, key, raw)
}

func asBool(key string, raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err == nil {
			return b, nil
		}
	}
	return false, fmt.Errorf("%w: %s must be a boolean, got %v", ErrInvalidValue, key, raw)
}
