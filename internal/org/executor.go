// Copyright The Cloud Custodian Authors.
// SPDX-License-Identifier: Apache-2.0

package org

import (
	"context"
	"fmt"

	"github.com/castrojo/cloud-custodian/internal/log"
)

// DefaultWorkers is the fan-out width used when the executor is not
// configured with one.
const DefaultWorkers = 8

// DefaultRegion is used when no region list is configured.
const DefaultRegion = "us-east-1"

// Operation is the caller-supplied unit of work executed once per selected
// (account, region) pair. The session is scoped to the account's role;
// the operation constructs regional clients from it as needed. A returned
// error is recorded as a failure for that region only.
type Operation func(ctx context.Context, account Account, region string, sess *Session) (interface{}, error)

// UnitResult is the outcome of one (account, region) execution: either the
// operation's value or its error, never both.
type UnitResult struct {
	Value interface{}
	Err   error
}

// Failed reports whether the operation raised rather than returned.
func (r UnitResult) Failed() bool {
	return r.Err != nil
}

// BatchResult maps account id to per-region outcomes. An account whose role
// could not be assumed is absent, not present with an empty map.
type BatchResult map[string]map[string]UnitResult

// Executor fans a single Operation out across accounts and regions on a
// bounded worker pool. All tasks are submitted before any result is awaited
// and completions are folded in arrival order; ordering never affects the
// result, which is keyed by account and region.
//
// There is no cancellation: a submitted task runs to completion, and no
// batch-wide timeout is imposed. Individual operations may carry their own
// I/O deadlines.
type Executor struct {
	Provider CredentialProvider
	Root     *RootResolver

	// RoleTemplate is the per-account role: either a bare role name or an
	// ARN template containing {org_account_id}.
	RoleTemplate string

	// Partition qualifies bare role names; empty selects DefaultPartition.
	Partition string

	// Regions lists the regions each account is processed in; empty selects
	// [DefaultRegion].
	Regions []string

	// Workers is the pool width; zero selects DefaultWorkers.
	Workers int

	Op Operation
}

// taskResult is one account's completed task. A non-nil err means the
// account produced no entries and is dropped from the batch result.
type taskResult struct {
	account Account
	regions map[string]UnitResult
	err     error
}

// RunBatch executes the configured operation against every account and
// returns the folded results. Identity and task failures drop their account
// from the result; operation failures are kept as per-region markers. The
// only fatal errors are configuration problems and a failed org root
// resolution, both surfaced before any fan-out begins.
func (e *Executor) RunBatch(ctx context.Context, accounts []Account) (BatchResult, error) {
	if e.Op == nil {
		return nil, &ConfigError{Msg: "no operation supplied"}
	}
	if e.RoleTemplate == "" {
		return nil, &ConfigError{Msg: "no account role configured"}
	}
	regions := e.Regions
	if len(regions) == 0 {
		regions = []string{DefaultRegion}
	}
	workers := e.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	root, err := e.Root.RootSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving org session: %w", err)
	}

	// Fire all tasks, then gather. The task channel is pre-filled and closed
	// so workers drain it without coordination; the result channel is sized
	// to hold every completion so no worker ever blocks on fan-in.
	tasks := make(chan Account, len(accounts))
	results := make(chan taskResult, len(accounts))
	for _, a := range accounts {
		tasks <- a
	}
	close(tasks)

	for i := 0; i < workers; i++ {
		go func() {
			// The cache is private to this worker. The root session is
			// shared but never mutated, so workers read it without locks.
			cache := NewSessionCache(e.Provider, e.Partition)
			for a := range tasks {
				results <- e.runTask(ctx, cache, root, a, regions)
			}
		}()
	}

	batch := make(BatchResult, len(accounts))
	for range accounts {
		tr := <-results
		if tr.err != nil {
			log.WithError(tr.err).Errorf("error in account:%s id:%s",
				tr.account.Name, tr.account.ID)
			continue
		}
		batch[tr.account.ID] = tr.regions
	}
	return batch, nil
}

// runTask processes a single account: one role assumption, then one
// operation invocation per region. A region failure is recorded and the
// remaining regions still run. A panic escaping the operation is the task
// harness failure case: the whole account is dropped.
func (e *Executor) runTask(ctx context.Context, cache *SessionCache, root *Session, account Account, regions []string) (tr taskResult) {
	tr.account = account
	defer func() {
		if r := recover(); r != nil {
			tr.regions = nil
			tr.err = fmt.Errorf("task panic: %v", r)
		}
	}()

	sess, err := cache.ResolveIdentity(ctx, root, account, e.RoleTemplate)
	if err != nil {
		idErr := &IdentityError{
			AccountID:   account.ID,
			AccountName: account.Name,
			Role:        e.RoleTemplate,
			Err:         err,
		}
		log.Errorf("%s", idErr.Error())
		tr.err = idErr
		return tr
	}

	log.WithFields(map[string]interface{}{
		"account": account.Name,
		"id":      account.ID,
	}).Info("processing account")

	tr.regions = make(map[string]UnitResult, len(regions))
	for _, region := range regions {
		value, opErr := e.Op(ctx, account, region, sess)
		if opErr != nil {
			log.WithFields(map[string]interface{}{
				"account": account.Name,
				"id":      account.ID,
				"region":  region,
			}).WithError(opErr).Error("account region error")
			tr.regions[region] = UnitResult{Err: opErr}
			continue
		}
		tr.regions[region] = UnitResult{Value: value}
	}
	return tr
}
