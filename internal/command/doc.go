// Copyright The Cloud Custodian Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package command builds the c7n-org CLI: the accounts and policies listing
// commands and the run command that fans the stack probe out across the
// organization. Flag values resolve flag > environment > config file.
package command
