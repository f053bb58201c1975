// Copyright The Cloud Custodian Authors.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	orgsv2 "github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/aws/aws-sdk-go-v2/service/organizations/types"

	"github.com/castrojo/cloud-custodian/internal/log"
	"github.com/castrojo/cloud-custodian/internal/org"
)

// OrgLister adapts the Organizations API to the engine's listing interfaces.
// It implements org.ChildLister and provides the account snapshot fetch.
type OrgLister struct {
	client *orgsv2.Client
}

// NewOrgLister returns a lister talking to Organizations through the given
// client. The client should be built on the org session, not a member
// session.
func NewOrgLister(client *orgsv2.Client) *OrgLister {
	return &OrgLister{client: client}
}

// ListChildren returns the ids of the direct children of the given parent,
// filtered by type. All pages are drained.
func (l *OrgLister) ListChildren(ctx context.Context, parentID string, childType org.ChildType) ([]string, error) {
	var ids []string
	pager := orgsv2.NewListChildrenPaginator(l.client, &orgsv2.ListChildrenInput{
		ParentId:  awsv2.String(parentID),
		ChildType: types.ChildType(childType),
	})
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list children of %s: %w", parentID, err)
		}
		for _, c := range page.Children {
			ids = append(ids, awsv2.ToString(c.Id))
		}
	}
	return ids, nil
}

// ListAccounts fetches a snapshot of every account in the organization,
// augmented with its resource tags.
func (l *OrgLister) ListAccounts(ctx context.Context) ([]org.Account, error) {
	var accounts []org.Account
	pager := orgsv2.NewListAccountsPaginator(l.client, &orgsv2.ListAccountsInput{})
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list accounts: %w", err)
		}
		for _, a := range page.Accounts {
			acct := org.Account{
				ID:     awsv2.ToString(a.Id),
				Name:   awsv2.ToString(a.Name),
				Arn:    awsv2.ToString(a.Arn),
				Email:  awsv2.ToString(a.Email),
				Status: string(a.Status),
			}
			if a.JoinedTimestamp != nil {
				acct.Joined = *a.JoinedTimestamp
			}
			accounts = append(accounts, acct)
		}
	}

	for i := range accounts {
		tags, err := l.listTags(ctx, accounts[i].ID)
		if err != nil {
			// Tags are an augmentation; a denied ListTagsForResource should
			// not hide the account itself.
			log.WithError(err).Warnf("failed to list tags for account %s", accounts[i].ID)
			continue
		}
		accounts[i].Tags = tags
	}

	log.Debugf("listed %d org accounts", len(accounts))
	return accounts, nil
}

func (l *OrgLister) listTags(ctx context.Context, resourceID string) (map[string]string, error) {
	tags := make(map[string]string)
	pager := orgsv2.NewListTagsForResourcePaginator(l.client, &orgsv2.ListTagsForResourceInput{
		ResourceId: awsv2.String(resourceID),
	})
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, t := range page.Tags {
			tags[awsv2.ToString(t.Key)] = awsv2.ToString(t.Value)
		}
	}
	return tags, nil
}
