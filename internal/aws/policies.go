// Copyright The Cloud Custodian Authors.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	orgsv2 "github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/aws/aws-sdk-go-v2/service/organizations/types"
)

// Policy is a summary record of an organization policy.
type Policy struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Arn         string `json:"arn" yaml:"arn"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	AwsManaged  bool   `json:"aws_managed" yaml:"aws_managed"`
}

// PolicyTypes enumerates the organization policy types that can be listed.
var PolicyTypes = []string{
	"SERVICE_CONTROL_POLICY",
	"TAG_POLICY",
	"BACKUP_POLICY",
	"AISERVICES_OPT_OUT_POLICY",
}

// DefaultPolicyType is the filter applied when none is configured.
const DefaultPolicyType = "SERVICE_CONTROL_POLICY"

// ValidPolicyType reports whether t names a listable policy type.
func ValidPolicyType(t string) bool {
	for _, pt := range PolicyTypes {
		if t == pt {
			return true
		}
	}
	return false
}

// ListPolicies returns all organization policies of the given type, or of
// DefaultPolicyType when filter is empty.
func (l *OrgLister) ListPolicies(ctx context.Context, filter string) ([]Policy, error) {
	if filter == "" {
		filter = DefaultPolicyType
	}
	if !ValidPolicyType(filter) {
		return nil, fmt.Errorf("invalid policy type: %s", filter)
	}

	var policies []Policy
	pager := orgsv2.NewListPoliciesPaginator(l.client, &orgsv2.ListPoliciesInput{
		Filter: types.PolicyType(filter),
	})
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list policies: %w", err)
		}
		for _, p := range page.Policies {
			policies = append(policies, Policy{
				ID:          awsv2.ToString(p.Id),
				Name:        awsv2.ToString(p.Name),
				Arn:         awsv2.ToString(p.Arn),
				Type:        string(p.Type),
				Description: awsv2.ToString(p.Description),
				AwsManaged:  p.AwsManaged,
			})
		}
	}
	return policies, nil
}
