// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package config loads the cryptographic backend configuration used for issuance:
// key type and size, curve, digest, the cipher and iteration count protecting
// exported private keys, serial number size and CA constraints.
//
// Configuration is read from a JSON or YAML file through a [Source] and can be
// adjusted per call with [Overrides], mirroring the way an openssl.cnf file is
// combined with per-call parameters.
package config
