// Copyright The Cloud Custodian Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package aws contains the AWS SDK adapters behind the org engine's
// interfaces: config loading, the STS-backed credential provider, and the
// Organizations listings (children, accounts, policies).
package aws
