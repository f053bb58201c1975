// Copyright The Cloud Custodian Authors.
// SPDX-License-Identifier: Apache-2.0

package org

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"

	"github.com/castrojo/cloud-custodian/internal/log"
)

// OrgAccountSessionName is the session name stamped on every role assumption
// performed by the engine, both for the org access role and the per-account
// roles.
const OrgAccountSessionName = "CustodianOrgAccount"

// DefaultPartition is used when synthesizing role ARNs from bare role names.
const DefaultPartition = "aws"

// accountIDPlaceholder is the substitution token recognized in fully
// qualified role ARN templates, e.g.
// "arn:aws:iam::{org_account_id}:role/Audit".
const accountIDPlaceholder = "{org_account_id}"

// Session is an opaque identity handle bound to a role. It is not region
// scoped: callers construct regional service clients from Config at use time.
type Session struct {
	// RoleArn is empty for the local (cli) session.
	RoleArn string
	Config  awsv2.Config
}

// CredentialProvider issues identity handles by assuming roles. The engine is
// agnostic to the underlying protocol; the aws package supplies the STS
// backed implementation.
type CredentialProvider interface {
	AssumeIdentity(ctx context.Context, roleArn, sessionName, region string, parent *Session) (*Session, error)
}

// RootResolver resolves and memoizes the org-scoped session from which all
// per-account assumptions are rooted.
//
// The chain is: cli role -> (optional org access role) -> per-account role.
// When running in Lambda with a member-role execution mode the event already
// carries org root scope, so the local session is used directly.
type RootResolver struct {
	Provider CredentialProvider

	// Local is the base session from the default credential chain.
	Local *Session

	// OrgAccessRole is the role ARN assumed to reach the org root. Empty
	// means the local session is already org scoped.
	OrgAccessRole string

	// MemberRole reports whether an execution-mode member role is
	// configured, which pre-binds credentials when triggered in Lambda.
	MemberRole bool

	once    sync.Once
	session *Session
	err     error
}

// RootSession returns the memoized org session, computing it at most once
// for the life of the resolver. No expiry handling: the same handle is
// returned for every subsequent call.
func (r *RootResolver) RootSession(ctx context.Context) (*Session, error) {
	r.once.Do(func() {
		if r.OrgAccessRole == "" || (inLambda() && r.MemberRole) {
			r.session = r.Local
			return
		}
		log.Debugf("assuming org access role %s", r.OrgAccessRole)
		r.session, r.err = r.Provider.AssumeIdentity(
			ctx, r.OrgAccessRole, OrgAccountSessionName, r.Local.Config.Region, r.Local)
	})
	return r.session, r.err
}

func inLambda() bool {
	_, ok := os.LookupEnv("LAMBDA_TASK_ROOT")
	return ok
}

// ResolveRoleArn resolves a role template against an account. Templates that
// are already ARNs get the account id substituted for {org_account_id};
// bare role names are qualified into the account under the given partition.
func ResolveRoleArn(roleTemplate, accountID, partition string) string {
	if partition == "" {
		partition = DefaultPartition
	}
	if strings.HasPrefix(roleTemplate, "arn") {
		return strings.ReplaceAll(roleTemplate, accountIDPlaceholder, accountID)
	}
	return fmt.Sprintf("arn:%s:iam::%s:role/%s", partition, accountID, roleTemplate)
}

// SessionCache caches assumed member-account sessions keyed by resolved role
// ARN.
//
// A cache is owned by exactly one worker and is never shared: each worker in
// the pool constructs its own, trading duplicate assumptions across workers
// for lock-free access. Entries have no TTL; a cache lives only as long as
// its worker, which bounds reuse to a single batch.
type SessionCache struct {
	provider  CredentialProvider
	partition string
	sessions  map[string]*Session
}

// NewSessionCache returns an empty cache issuing assumptions through the
// given provider. An empty partition selects DefaultPartition.
func NewSessionCache(provider CredentialProvider, partition string) *SessionCache {
	return &SessionCache{
		provider:  provider,
		partition: partition,
		sessions:  make(map[string]*Session),
	}
}

// ResolveIdentity returns a session for the account's role, assuming it from
// root on first use and returning the identical cached handle thereafter.
// Note the cache is not region aware: clients must be constructed by region
// at use time.
func (c *SessionCache) ResolveIdentity(ctx context.Context, root *Session, account Account, roleTemplate string) (*Session, error) {
	roleArn := ResolveRoleArn(roleTemplate, account.ID, c.partition)

	if s, ok := c.sessions[roleArn]; ok {
		return s, nil
	}

	s, err := c.provider.AssumeIdentity(ctx, roleArn, OrgAccountSessionName, root.Config.Region, root)
	if err != nil {
		return nil, err
	}
	c.sessions[roleArn] = s
	return s, nil
}
