// Copyright The Cloud Custodian Authors.
// SPDX-License-Identifier: Apache-2.0

package org

import "time"

// Account is an immutable snapshot of an organization member account,
// fetched once per invocation by the listing adapter.
type Account struct {
	ID     string            `json:"id" yaml:"id"`
	Name   string            `json:"name" yaml:"name"`
	Arn    string            `json:"arn" yaml:"arn"`
	Email  string            `json:"email,omitempty" yaml:"email,omitempty"`
	Status string            `json:"status,omitempty" yaml:"status,omitempty"`
	Joined time.Time         `json:"joined,omitempty" yaml:"joined,omitempty"`
	Tags   map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

const (
	// DefaultAccountRole is the role assumed into member accounts when the
	// configuration does not name one. It is the default role Organizations
	// creates in accounts provisioned through the org.
	DefaultAccountRole = "OrganizationAccountAccessRole"

	// ControlTowerAccountRole is the default member role in Control Tower
	// managed landing zones.
	ControlTowerAccountRole = "AWSControlTowerExecution"
)

// ResolveAccountRole returns the configured per-account role, falling back to
// the Organizations default, or the Control Tower default when the
// AWS_CONTROL_TOWER_ORG marker is present in the environment.
func ResolveAccountRole(configured string, controlTower bool) string {
	if configured != "" {
		return configured
	}
	if controlTower {
		return ControlTowerAccountRole
	}
	return DefaultAccountRole
}
