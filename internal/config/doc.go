// Copyright The Cloud Custodian Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for c7n-org's run
// configuration. The configuration is a YAML document holding the org access
// query (org-access-role, org-account-role), the organizational units to
// select, the regions to fan out over, and executor tuning. Resolution order:
//   - explicit path passed to Load (the --config flag)
//   - C7N_ORG_CFG_FILE environment variable
//   - os.UserConfigDir()/c7n-org.yaml
package config
