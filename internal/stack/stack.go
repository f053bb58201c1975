// Copyright The Cloud Custodian Authors.
// SPDX-License-Identifier: Apache-2.0

// Package stack provides the CloudFormation stack-status probe, the standard
// per-account-region operation run by the org fan-out engine. It answers
// whether the named stacks are present (optionally in one of a set of
// statuses) in each account and region, and selects the accounts whose
// probes matched.
package stack

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	cfnv2 "github.com/aws/aws-sdk-go-v2/service/cloudformation"

	"github.com/castrojo/cloud-custodian/internal/org"
)

// ValidStatuses enumerates the CloudFormation stack statuses accepted in a
// probe's status filter.
var ValidStatuses = []string{
	"CREATE_IN_PROGRESS",
	"CREATE_FAILED",
	"CREATE_COMPLETE",
	"ROLLBACK_IN_PROGRESS",
	"ROLLBACK_FAILED",
	"ROLLBACK_COMPLETE",
	"DELETE_IN_PROGRESS",
	"DELETE_FAILED",
	"DELETE_COMPLETE",
	"UPDATE_IN_PROGRESS",
	"UPDATE_COMPLETE_CLEANUP_IN_PROGRESS",
	"UPDATE_COMPLETE",
	"UPDATE_ROLLBACK_IN_PROGRESS",
	"UPDATE_ROLLBACK_FAILED",
	"UPDATE_ROLLBACK_COMPLETE_CLEANUP_IN_PROGRESS",
	"UPDATE_ROLLBACK_COMPLETE",
	"REVIEW_IN_PROGRESS",
	"IMPORT_IN_PROGRESS",
	"IMPORT_COMPLETE",
	"IMPORT_ROLLBACK_IN_PROGRESS",
	"IMPORT_ROLLBACK_FAILED",
	"IMPORT_ROLLBACK_COMPLETE",
}

// Probe checks for the presence (or absence) of named stacks.
type Probe struct {
	// StackNames are the stacks looked up in each account region.
	StackNames []string

	// Statuses optionally narrows a stack to counting as found only when
	// its status is in the list.
	Statuses []string

	// Present selects the match sense: true keeps accounts where all named
	// stacks were found, false keeps accounts where any was missing.
	Present bool
}

// Validate fails fast on a malformed status filter.
func (p *Probe) Validate() error {
	for _, s := range p.Statuses {
		if !validStatus(s) {
			return fmt.Errorf("invalid stack status: %s", s)
		}
	}
	return nil
}

// Check is the org.Operation. A stack that cannot be described (missing, or
// access denied) counts as not found rather than raising; the probe result
// is a plain boolean.
func (p *Probe) Check(ctx context.Context, account org.Account, region string, sess *org.Session) (interface{}, error) {
	client := cfnv2.NewFromConfig(sess.Config, func(o *cfnv2.Options) {
		o.Region = region
	})

	found := true
	for _, name := range p.StackNames {
		out, err := client.DescribeStacks(ctx, &cfnv2.DescribeStacksInput{
			StackName: awsv2.String(name),
		})
		if err != nil || len(out.Stacks) == 0 {
			found = false
			continue
		}
		if len(p.Statuses) > 0 && !p.statusMatch(string(out.Stacks[0].StackStatus)) {
			found = false
		}
	}

	return p.Present == found, nil
}

// Match is one selected account together with the regions whose probe
// matched.
type Match struct {
	Account org.Account     `json:"account" yaml:"account"`
	Regions map[string]bool `json:"regions" yaml:"regions"`
}

// Select folds a batch result back onto the candidate accounts: an account
// is kept when at least one of its regions probed true, annotated with its
// matching regions only. Accounts dropped during fan-out, or with no
// matching region, are filtered out.
func Select(candidates []org.Account, results org.BatchResult) []Match {
	var matches []Match
	for _, a := range candidates {
		regions, ok := results[a.ID]
		if !ok {
			continue
		}
		kept := make(map[string]bool)
		for region, r := range regions {
			if r.Failed() {
				continue
			}
			if v, ok := r.Value.(bool); ok && v {
				kept[region] = true
			}
		}
		if len(kept) == 0 {
			continue
		}
		matches = append(matches, Match{Account: a, Regions: kept})
	}
	return matches
}

func (p *Probe) statusMatch(status string) bool {
	for _, s := range p.Statuses {
		if s == status {
			return true
		}
	}
	return false
}

func validStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}
