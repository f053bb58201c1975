// Copyright The Cloud Custodian Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package org implements the account fan-out engine used to execute work
// across the member accounts of an AWS Organization.
//
// The engine resolves a three way credential chain (cli role -> optional org
// access role -> per-account role), expands organizational units to concrete
// account sets, and runs a caller-supplied operation against each selected
// (account, region) pair on a bounded worker pool. Failures are isolated:
// a region failure is recorded against that region only, and an account whose
// role could not be assumed is dropped from the batch result without
// disturbing its siblings.
//
// The package has no opinion about what the operation does; the stack
// package provides the CloudFormation stack-status probe as one consumer.
package org
