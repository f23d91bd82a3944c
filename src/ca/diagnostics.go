// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package ca

import (
	"errors"
	"strings"

	"github.com/H0llyW00dzZ/pki-toolkit/src/pki"
)

// diagnostics collects stage failures for a single issuance.
//
// It is owned by one call and never shared, so draining it cannot pick up
// another caller's failures.
type diagnostics struct {
	messages []string
	causes   []error
}

// record notes a failure of stage. A nil err is ignored.
func (d *diagnostics) record(stage string, err error) {
	if err == nil {
		return
	}
	d.messages = append(d.messages, stage+": "+err.Error())
	d.causes = append(d.causes, err)
}

// pending reports whether anything has been recorded since the last drain.
func (d *diagnostics) pending() bool { return len(d.messages) > 0 }

// drain returns nil when nothing was recorded. Otherwise it returns a single
// CreateCertificate error whose message joins every recorded failure, one per
// line, and resets the collector.
func (d *diagnostics) drain() error {
	if !d.pending() {
		return nil
	}

	err := &pki.Error{
		Kind:    pki.KindCreateCertificate,
		Message: strings.Join(d.messages, "\n"),
		Err:     errors.Join(d.causes...),
	}
	d.messages, d.causes = nil, nil
	return err
}
