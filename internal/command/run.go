// Copyright The Cloud Custodian Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/castrojo/cloud-custodian/internal/config"
	"github.com/castrojo/cloud-custodian/internal/log"
	"github.com/castrojo/cloud-custodian/internal/meta"
	"github.com/castrojo/cloud-custodian/internal/org"
	"github.com/castrojo/cloud-custodian/internal/output"
	"github.com/castrojo/cloud-custodian/internal/stack"
)

// runCommandAction fans the configured stack probe out across the selected
// accounts and regions and emits the matching accounts, or the raw batch
// result with --raw.
func runCommandAction(ctx context.Context, cmd *cli.Command) error {
	if len(config.Config.Data) == 0 {
		return cli.Exit("run requires a configuration file (--config)", 1)
	}

	probe, err := buildProbe()
	if err != nil {
		return err
	}

	oa, err := newOrgAccess(ctx, cmd)
	if err != nil {
		return err
	}

	accounts, err := selectAccounts(ctx, cmd, oa)
	if err != nil {
		return err
	}
	log.Infof("running stack probe across %d accounts", len(accounts))

	regions, _ := config.GetStringSlice("regions", nil)
	workers, _ := config.GetInt("executor.workers", 0)
	role := org.ResolveAccountRole(cmd.String("role"), os.Getenv("AWS_CONTROL_TOWER_ORG") != "")

	executor := &org.Executor{
		Provider:     oa.provider,
		Root:         oa.resolver,
		RoleTemplate: role,
		Regions:      regions,
		Workers:      workers,
		Op:           probe.Check,
	}

	results, err := executor.RunBatch(ctx, accounts)
	if err != nil {
		return err
	}

	if cmd.Bool("raw") {
		return output.Batch(os.Stdout, results, cmd.String("output"))
	}
	return output.Matches(os.Stdout, stack.Select(accounts, results), cmd.String("output"))
}

// buildProbe assembles the stack probe from the stacks config block and
// fails fast on a malformed one, before any credentials are touched.
func buildProbe() (*stack.Probe, error) {
	names, _ := config.GetStringSlice("stacks.names", nil)
	if len(names) == 0 {
		return nil, cli.Exit("no stacks.names configured", 1)
	}
	statuses, _ := config.GetStringSlice("stacks.status", nil)
	present, _ := config.GetBool("stacks.present", false)

	probe := &stack.Probe{
		StackNames: names,
		Statuses:   statuses,
		Present:    present,
	}
	if err := probe.Validate(); err != nil {
		return nil, cli.Exit(err.Error(), 1)
	}
	return probe, nil
}

func runCommandBuilder(m meta.Meta) *cli.Command {
	flags := NewGlobalFlags()
	flags = append(flags,
		NewAccessRoleFlag(),
		NewAccountRoleFlag(),
		&cli.BoolFlag{
			Name:  "cached",
			Usage: "serve the account listing from the disk cache when fresh",
		},
		&cli.BoolFlag{
			Name:  "raw",
			Usage: "emit the raw per-account-region results instead of the matched accounts",
		},
		&cli.StringSliceFlag{
			Name:    "units",
			Aliases: []string{"u"},
			Usage:   "organizational unit roots to select accounts from",
		},
	)

	return &cli.Command{
		Name:   "run",
		Usage:  "run the configured stack probe across org accounts",
		Flags:  flags,
		Action: runCommandAction,
	}
}
