// Copyright The Cloud Custodian Authors.
// SPDX-License-Identifier: Apache-2.0

package org

import "context"

// ChildType selects which children of an organizational unit a listing
// returns.
type ChildType string

const (
	ChildTypeAccount            ChildType = "ACCOUNT"
	ChildTypeOrganizationalUnit ChildType = "ORGANIZATIONAL_UNIT"
)

// ChildLister lists the direct children of an organizational unit by type.
// Implementations handle pagination internally and return the full id set.
type ChildLister interface {
	ListChildren(ctx context.Context, parentID string, childType ChildType) ([]string, error)
}

// ResolveGroups walks down the tree from the listed OU roots to collect all
// nested OUs. The walk is an explicit-queue breadth-first expansion, so stack
// depth is constant regardless of hierarchy depth. Accumulation is into a
// set, making duplicate rediscovery harmless and re-expansion idempotent.
// Returns the union of the roots and every discovered descendant.
func ResolveGroups(ctx context.Context, lister ChildLister, roots []string) (map[string]struct{}, error) {
	folders := make(map[string]struct{}, len(roots))
	queue := make([]string, len(roots))
	copy(queue, roots)
	for _, r := range roots {
		folders[r] = struct{}{}
	}

	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]

		children, err := lister.ListChildren(ctx, parent, ChildTypeOrganizationalUnit)
		if err != nil {
			return nil, err
		}
		for _, c := range children {
			queue = append(queue, c)
			folders[c] = struct{}{}
		}
	}
	return folders, nil
}

// ResolveTargets returns the union of the direct account children of the
// given OU set. The set is expected to be already flattened by ResolveGroups;
// no recursion happens here.
func ResolveTargets(ctx context.Context, lister ChildLister, ous map[string]struct{}) (map[string]struct{}, error) {
	accountIDs := make(map[string]struct{})
	for ou := range ous {
		children, err := lister.ListChildren(ctx, ou, ChildTypeAccount)
		if err != nil {
			return nil, err
		}
		for _, c := range children {
			accountIDs[c] = struct{}{}
		}
	}
	return accountIDs, nil
}

// SelectAccounts keeps only the candidates reachable from the given OU
// roots, preserving candidate order.
func SelectAccounts(ctx context.Context, lister ChildLister, candidates []Account, roots []string) ([]Account, error) {
	ous, err := ResolveGroups(ctx, lister, roots)
	if err != nil {
		return nil, err
	}
	ids, err := ResolveTargets(ctx, lister, ous)
	if err != nil {
		return nil, err
	}

	var selected []Account
	for _, a := range candidates {
		if _, ok := ids[a.ID]; ok {
			selected = append(selected, a)
		}
	}
	return selected, nil
}
