// Copyright The Cloud Custodian Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package org

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChildLister serves a fixed hierarchy: children[parent][type] is the
// id list returned for that listing.
type fakeChildLister struct {
	children map[string]map[ChildType][]string
	err      error
}

func (l *fakeChildLister) ListChildren(_ context.Context, parentID string, childType ChildType) ([]string, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.children[parentID][childType], nil
}

func setKeys(s map[string]struct{}) []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	return keys
}

// TestResolveGroups verifies breadth-first OU expansion: for root R with OU
// child A and account child B, and A with OU child C, the resolved set is
// {R, A, C}.
func TestResolveGroups(t *testing.T) {
	lister := &fakeChildLister{children: map[string]map[ChildType][]string{
		"R": {
			ChildTypeOrganizationalUnit: {"A"},
			ChildTypeAccount:            {"B"},
		},
		"A": {
			ChildTypeOrganizationalUnit: {"C"},
		},
	}}

	ous, err := ResolveGroups(context.Background(), lister, []string{"R"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"R", "A", "C"}, setKeys(ous))
}

// TestResolveGroupsIdempotent verifies re-expansion of an unchanged
// hierarchy returns the same set.
func TestResolveGroupsIdempotent(t *testing.T) {
	lister := &fakeChildLister{children: map[string]map[ChildType][]string{
		"R": {ChildTypeOrganizationalUnit: {"A", "B"}},
		"A": {ChildTypeOrganizationalUnit: {"C"}},
	}}

	first, err := ResolveGroups(context.Background(), lister, []string{"R"})
	require.NoError(t, err)
	second, err := ResolveGroups(context.Background(), lister, []string{"R"})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// TestResolveGroupsDeepHierarchy verifies the explicit-queue walk handles
// depth well beyond any recursion comfort zone.
func TestResolveGroupsDeepHierarchy(t *testing.T) {
	children := make(map[string]map[ChildType][]string)
	parent := "ou-0"
	for i := 1; i <= 500; i++ {
		child := fmt.Sprintf("ou-%d", i)
		children[parent] = map[ChildType][]string{ChildTypeOrganizationalUnit: {child}}
		parent = child
	}

	ous, err := ResolveGroups(context.Background(), &fakeChildLister{children: children}, []string{"ou-0"})
	require.NoError(t, err)
	assert.Len(t, ous, 501)
}

// TestResolveTargets verifies only direct account children of the given OU
// set are returned: for {R, A, C} where only C holds account X, the result
// is {X}.
func TestResolveTargets(t *testing.T) {
	lister := &fakeChildLister{children: map[string]map[ChildType][]string{
		"C": {ChildTypeAccount: {"X"}},
	}}

	ids, err := ResolveTargets(context.Background(), lister,
		map[string]struct{}{"R": {}, "A": {}, "C": {}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"X"}, setKeys(ids))
}

// TestSelectAccounts verifies composed selection keeps only candidates
// reachable from the OU roots, in candidate order.
func TestSelectAccounts(t *testing.T) {
	lister := &fakeChildLister{children: map[string]map[ChildType][]string{
		"R": {
			ChildTypeOrganizationalUnit: {"A"},
			ChildTypeAccount:            {"111111111111"},
		},
		"A": {ChildTypeAccount: {"222222222222"}},
	}}
	candidates := []Account{
		{ID: "222222222222", Name: "member"},
		{ID: "333333333333", Name: "outsider"},
		{ID: "111111111111", Name: "root-member"},
	}

	selected, err := SelectAccounts(context.Background(), lister, candidates, []string{"R"})
	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Equal(t, "222222222222", selected[0].ID)
	assert.Equal(t, "111111111111", selected[1].ID)
}

// TestResolveGroupsError verifies a listing failure propagates.
func TestResolveGroupsError(t *testing.T) {
	lister := &fakeChildLister{err: errors.New("throttled")}

	_, err := ResolveGroups(context.Background(), lister, []string{"R"})
	assert.Error(t, err)

	_, err = ResolveTargets(context.Background(), lister, map[string]struct{}{"R": {}})
	assert.Error(t, err)
}
