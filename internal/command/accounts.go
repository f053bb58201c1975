// Copyright The Cloud Custodian Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/castrojo/cloud-custodian/internal/meta"
	"github.com/castrojo/cloud-custodian/internal/output"
)

// accountsCommandAction lists the organization's member accounts, narrowed
// by the configured units and --filter expressions, and emits them per
// --output.
func accountsCommandAction(ctx context.Context, cmd *cli.Command) error {
	oa, err := newOrgAccess(ctx, cmd)
	if err != nil {
		return err
	}

	accounts, err := selectAccounts(ctx, cmd, oa)
	if err != nil {
		return err
	}

	return output.Accounts(os.Stdout, accounts, cmd.String("output"))
}

func accountsCommandBuilder(m meta.Meta) *cli.Command {
	flags := NewGlobalFlags()
	flags = append(flags,
		NewAccessRoleFlag(),
		&cli.BoolFlag{
			Name:  "cached",
			Usage: "serve the account listing from the disk cache when fresh",
		},
		&cli.StringSliceFlag{
			Name:    "units",
			Aliases: []string{"u"},
			Usage:   "organizational unit roots to select accounts from",
		},
	)

	return &cli.Command{
		Name:   "accounts",
		Usage:  "list org member accounts",
		Flags:  flags,
		Action: accountsCommandAction,
	}
}
