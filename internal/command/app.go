// Copyright The Cloud Custodian Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/castrojo/cloud-custodian/internal/config"
	"github.com/castrojo/cloud-custodian/internal/log"
	"github.com/castrojo/cloud-custodian/internal/meta"
)

// InitApp builds the c7n-org CLI. The run configuration is loaded up front
// so flag value chains can source defaults from it; a missing config file is
// tolerated for the listing commands and rejected later by run, which needs
// one.
func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	cfgPath := configPathFromArgs(args)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Debugf("no run config loaded: %v", err)
	}

	m := meta.Meta{
		Args:    args,
		Config:  cfg,
		Context: ctx,
	}

	app := &cli.Command{
		Name:  "c7n-org",
		Usage: "Cloud Custodian org account runner",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "c7n-org version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		accountsCommandBuilder(m),
		policiesCommandBuilder(m),
		runCommandBuilder(m),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}

// configPathFromArgs pre-scans the raw arguments for --config so the config
// file can back flag value chains before cli parsing runs. Returns "" when
// the flag is absent, deferring to the standard locations.
func configPathFromArgs(args []string) string {
	for i, a := range args {
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(a, "--config=") {
			return strings.TrimPrefix(a, "--config=")
		}
	}
	return ""
}
