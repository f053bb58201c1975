// Copyright The Cloud Custodian Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/castrojo/cloud-custodian/internal/aws"
	"github.com/castrojo/cloud-custodian/internal/meta"
	"github.com/castrojo/cloud-custodian/internal/output"
)

// policiesCommandAction lists organization policies of the requested type
// and emits them per --output.
func policiesCommandAction(ctx context.Context, cmd *cli.Command) error {
	oa, err := newOrgAccess(ctx, cmd)
	if err != nil {
		return err
	}

	policies, err := oa.lister.ListPolicies(ctx, cmd.String("type"))
	if err != nil {
		return err
	}

	return output.Policies(os.Stdout, policies, cmd.String("output"))
}

func policiesCommandBuilder(m meta.Meta) *cli.Command {
	flags := NewGlobalFlags()
	flags = append(flags,
		NewAccessRoleFlag(),
		&cli.StringFlag{
			Name:    "type",
			Aliases: []string{"t"},
			Usage:   "policy type to list: " + strings.Join(aws.PolicyTypes, ", "),
			Value:   aws.DefaultPolicyType,
			Validator: func(value string) error {
				if !aws.ValidPolicyType(value) {
					return cli.Exit("invalid policy type: "+value, 1)
				}
				return nil
			},
		},
	)

	return &cli.Command{
		Name:   "policies",
		Usage:  "list organization policies",
		Flags:  flags,
		Action: policiesCommandAction,
	}
}
