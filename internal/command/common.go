// Copyright The Cloud Custodian Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/castrojo/cloud-custodian/internal/aws"
	"github.com/castrojo/cloud-custodian/internal/cacheutil"
	"github.com/castrojo/cloud-custodian/internal/config"
	"github.com/castrojo/cloud-custodian/internal/filters"
	"github.com/castrojo/cloud-custodian/internal/log"
	"github.com/castrojo/cloud-custodian/internal/org"
)

// defaultCacheTTLHours bounds how stale a cached org listing may be before
// it is refetched.
const defaultCacheTTLHours = 24

// orgAccess bundles the resolved collaborators a command needs: the
// credential provider, the memoized org root resolver, and the Organizations
// listing adapter built on the root session.
type orgAccess struct {
	provider *aws.STSProvider
	resolver *org.RootResolver
	lister   *aws.OrgLister
}

// newOrgAccess loads the cli session and resolves the org root once. The
// lister talks Organizations through the root session, mirroring how every
// per-account assumption is rooted there too.
func newOrgAccess(ctx context.Context, cmd *cli.Command) (*orgAccess, error) {
	cfg, err := aws.LoadConfig(ctx,
		aws.WithProfile(cmd.String("profile")),
		aws.WithRegion(cmd.String("region")),
	)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	memberRole, _ := config.GetString("mode.member-role", "")
	provider := &aws.STSProvider{}
	resolver := &org.RootResolver{
		Provider:      provider,
		Local:         &org.Session{Config: cfg},
		OrgAccessRole: cmd.String("access-role"),
		MemberRole:    memberRole != "",
	}

	root, err := resolver.RootSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving org session: %w", err)
	}

	return &orgAccess{
		provider: provider,
		resolver: resolver,
		lister:   aws.NewOrgLister(aws.NewOrganizations(root.Config)),
	}, nil
}

// selectAccounts produces the command's working account set: the full org
// listing (optionally served from the disk cache), narrowed to the
// configured organizational units, then to the --filter expressions.
func selectAccounts(ctx context.Context, cmd *cli.Command, oa *orgAccess) ([]org.Account, error) {
	accounts, err := listAccounts(ctx, cmd, oa)
	if err != nil {
		return nil, err
	}

	units := cmd.StringSlice("units")
	if len(units) == 0 {
		units, _ = config.GetStringSlice("units", nil)
	}
	if len(units) > 0 {
		accounts, err = org.SelectAccounts(ctx, oa.lister, accounts, units)
		if err != nil {
			return nil, err
		}
		log.Debugf("%d accounts selected from units %v", len(accounts), units)
	}

	return filters.Apply(accounts, cmd.String("filter")), nil
}

// listAccounts fetches the org account snapshot, optionally through the disk
// cache (--cached). Cache entries are keyed by profile so listings from
// different payer accounts never collide.
func listAccounts(ctx context.Context, cmd *cli.Command, oa *orgAccess) ([]org.Account, error) {
	subdir := cmd.String("profile")
	if subdir == "" {
		subdir = "default"
	}

	if cmd.Bool("cached") {
		ttlHours, _ := config.GetInt("cache.ttl", defaultCacheTTLHours)
		if entry, ok := cacheutil.Read([]string{subdir}, "accounts", hoursToDuration(ttlHours)); ok {
			var accounts []org.Account
			if err := json.Unmarshal(entry.Data, &accounts); err == nil {
				return accounts, nil
			}
			log.Warnf("discarding unreadable cache entry %s", entry.Path)
		}
	}

	accounts, err := oa.lister.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(accounts); err == nil {
		if err := cacheutil.Write([]string{subdir}, "accounts", data); err != nil {
			log.WithError(err).Warnf("failed to cache account listing")
		}
	}
	return accounts, nil
}

func hoursToDuration(hours int) time.Duration {
	return time.Duration(hours) * time.Hour
}
