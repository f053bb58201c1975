// Copyright The Cloud Custodian Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package org

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider is a CredentialProvider that fabricates sessions and records
// every assumption it performs.
type fakeProvider struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (p *fakeProvider) AssumeIdentity(_ context.Context, roleArn, sessionName, region string, parent *Session) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, roleArn)
	if err, ok := p.fail[roleArn]; ok {
		return nil, err
	}
	return &Session{RoleArn: roleArn, Config: parent.Config}, nil
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

// TestResolveRoleArn verifies template substitution for fully-qualified
// templates and ARN synthesis for bare role names.
func TestResolveRoleArn(t *testing.T) {
	tests := []struct {
		name      string
		template  string
		accountID string
		partition string
		expected  string
	}{
		{
			name:      "bare role name",
			template:  "OrganizationAccountAccessRole",
			accountID: "111111111111",
			expected:  "arn:aws:iam::111111111111:role/OrganizationAccountAccessRole",
		},
		{
			name:      "bare role name with partition",
			template:  "Audit",
			accountID: "222222222222",
			partition: "aws-us-gov",
			expected:  "arn:aws-us-gov:iam::222222222222:role/Audit",
		},
		{
			name:      "arn template with placeholder",
			template:  "arn:aws:iam::{org_account_id}:role/Audit",
			accountID: "333333333333",
			expected:  "arn:aws:iam::333333333333:role/Audit",
		},
		{
			name:      "arn template without placeholder is verbatim",
			template:  "arn:aws:iam::444444444444:role/Fixed",
			accountID: "555555555555",
			expected:  "arn:aws:iam::444444444444:role/Fixed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveRoleArn(tt.template, tt.accountID, tt.partition))
		})
	}
}

// TestSessionCacheIdentity verifies that repeated resolution for the same
// role returns the identical cached handle with no second assumption.
func TestSessionCacheIdentity(t *testing.T) {
	provider := &fakeProvider{}
	cache := NewSessionCache(provider, "")
	root := &Session{}
	account := Account{ID: "111111111111", Name: "dev"}

	first, err := cache.ResolveIdentity(context.Background(), root, account, "Audit")
	require.NoError(t, err)
	second, err := cache.ResolveIdentity(context.Background(), root, account, "Audit")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, provider.callCount())
}

// TestSessionCacheDistinctAccounts verifies that different accounts resolve
// to different handles under the same template.
func TestSessionCacheDistinctAccounts(t *testing.T) {
	provider := &fakeProvider{}
	cache := NewSessionCache(provider, "")
	root := &Session{}

	a, err := cache.ResolveIdentity(context.Background(), root, Account{ID: "111111111111"}, "Audit")
	require.NoError(t, err)
	b, err := cache.ResolveIdentity(context.Background(), root, Account{ID: "222222222222"}, "Audit")
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, 2, provider.callCount())
}

// TestSessionCacheFailureNotCached verifies that a failed assumption is not
// stored, so a later retry reaches the provider again.
func TestSessionCacheFailureNotCached(t *testing.T) {
	roleArn := "arn:aws:iam::111111111111:role/Audit"
	provider := &fakeProvider{fail: map[string]error{roleArn: errors.New("access denied")}}
	cache := NewSessionCache(provider, "")
	root := &Session{}
	account := Account{ID: "111111111111"}

	_, err := cache.ResolveIdentity(context.Background(), root, account, "Audit")
	require.Error(t, err)
	_, err = cache.ResolveIdentity(context.Background(), root, account, "Audit")
	require.Error(t, err)
	assert.Equal(t, 2, provider.callCount())
}

// TestRootResolverMemoized verifies the org session is computed at most once
// and the identical handle is returned thereafter.
func TestRootResolverMemoized(t *testing.T) {
	provider := &fakeProvider{}
	resolver := &RootResolver{
		Provider:      provider,
		Local:         &Session{},
		OrgAccessRole: "arn:aws:iam::999999999999:role/OrgAccess",
	}

	first, err := resolver.RootSession(context.Background())
	require.NoError(t, err)
	second, err := resolver.RootSession(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, provider.callCount())
	assert.Equal(t, "arn:aws:iam::999999999999:role/OrgAccess", first.RoleArn)
}

// TestRootResolverLocalFallback verifies the local session is used directly
// when no org access role is configured.
func TestRootResolverLocalFallback(t *testing.T) {
	provider := &fakeProvider{}
	local := &Session{}
	resolver := &RootResolver{Provider: provider, Local: local}

	sess, err := resolver.RootSession(context.Background())
	require.NoError(t, err)
	assert.Same(t, local, sess)
	assert.Equal(t, 0, provider.callCount())
}

// TestRootResolverLambdaMemberRole verifies that a member-role execution
// mode inside Lambda skips the org access assumption: the event already
// carries org root scope.
func TestRootResolverLambdaMemberRole(t *testing.T) {
	t.Setenv("LAMBDA_TASK_ROOT", "/var/task")

	provider := &fakeProvider{}
	local := &Session{}
	resolver := &RootResolver{
		Provider:      provider,
		Local:         local,
		OrgAccessRole: "arn:aws:iam::999999999999:role/OrgAccess",
		MemberRole:    true,
	}

	sess, err := resolver.RootSession(context.Background())
	require.NoError(t, err)
	assert.Same(t, local, sess)
	assert.Equal(t, 0, provider.callCount())
}

// TestRootResolverLambdaWithoutMemberRole verifies that Lambda execution
// alone does not skip the assumption; a member role must also be configured.
func TestRootResolverLambdaWithoutMemberRole(t *testing.T) {
	t.Setenv("LAMBDA_TASK_ROOT", "/var/task")

	provider := &fakeProvider{}
	resolver := &RootResolver{
		Provider:      provider,
		Local:         &Session{},
		OrgAccessRole: "arn:aws:iam::999999999999:role/OrgAccess",
	}

	sess, err := resolver.RootSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, provider.callCount())
	assert.NotSame(t, resolver.Local, sess)
}

// TestResolveAccountRole verifies default role selection, including the
// Control Tower landing zone variant.
func TestResolveAccountRole(t *testing.T) {
	tests := []struct {
		name         string
		configured   string
		controlTower bool
		expected     string
	}{
		{
			name:       "configured role wins",
			configured: "Audit",
			expected:   "Audit",
		},
		{
			name:     "organizations default",
			expected: DefaultAccountRole,
		},
		{
			name:         "control tower default",
			controlTower: true,
			expected:     ControlTowerAccountRole,
		},
		{
			name:         "configured role wins over control tower",
			configured:   "Audit",
			controlTower: true,
			expected:     "Audit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveAccountRole(tt.configured, tt.controlTower))
		})
	}
}
