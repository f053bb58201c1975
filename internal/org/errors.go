// Copyright The Cloud Custodian Authors.
// SPDX-License-Identifier: Apache-2.0

package org

import "fmt"

// ConfigError reports missing or malformed role/region configuration. It is
// the only error class that aborts a batch before fan-out begins.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return "org: invalid configuration: " + e.Msg
}

// IdentityError reports a failed role assumption into a member account. The
// account is excluded from the batch result entirely; it is never recorded
// with per-region entries.
type IdentityError struct {
	AccountID   string
	AccountName string
	Role        string
	Err         error
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("org: error role assuming into %s:%s using role:%s: %v",
		e.AccountName, e.AccountID, e.Role, e.Err)
}

func (e *IdentityError) Unwrap() error {
	return e.Err
}
