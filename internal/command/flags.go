// Copyright The Cloud Custodian Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/castrojo/cloud-custodian/internal/config"
	"github.com/castrojo/cloud-custodian/internal/output"
)

// NewGlobalFlags returns the flags shared by every command.
func NewGlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "path to the c7n-org run configuration",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("C7N_ORG_CFG_FILE"),
			),
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to accounts",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Value:   "text",
			Validator: func(value string) error {
				return OutputValidator(value)
			},
		},
		&cli.StringFlag{
			Name:    "profile",
			Aliases: []string{"p"},
			Usage:   "AWS shared config profile for the cli session",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("AWS_PROFILE"),
			),
		},
		&cli.StringFlag{
			Name:    "region",
			Aliases: []string{"r"},
			Usage:   "AWS region for the cli session",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("AWS_REGION"),
			),
		},
	}
}

// NewAccessRoleFlag constructs the org access role flag. Resolution order is
// flag, C7N_ORG_ACCESS_ROLE, then the org-access-role config key.
func NewAccessRoleFlag() *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:  "access-role",
		Usage: "role ARN assumed to reach the org root",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("C7N_ORG_ACCESS_ROLE"),
		),
	}
	return valueChainFlagFromConfigFile("org-access-role", flag)
}

// NewAccountRoleFlag constructs the per-account role flag. Resolution order
// is flag, C7N_ORG_ACCOUNT_ROLE, then the org-account-role config key. An
// empty result falls through to the Organizations (or Control Tower)
// default role.
func NewAccountRoleFlag() *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:  "role",
		Usage: "role name or ARN template assumed in each member account",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("C7N_ORG_ACCOUNT_ROLE"),
		),
	}
	return valueChainFlagFromConfigFile("org-account-role", flag)
}

// valueChainFlagFromConfigFile appends a config file source to the given
// flag's Sources chain, keyed by the config key.
func valueChainFlagFromConfigFile(key string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(key, altsrc.StringSourcer(config.Config.Source))
	flag.Sources.Chain = append(flag.Sources.Chain, src)
	return flag
}

// OutputValidator rejects output formats we don't support.
func OutputValidator(value string) error {
	if !output.ValidFormat(value) {
		return cli.Exit("unsupported output format: "+value, 1)
	}
	return nil
}
