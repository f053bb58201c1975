// Copyright The Cloud Custodian Authors.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/castrojo/cloud-custodian/internal/config"
)

// Meta contains runtime metadata shared by commands. It carries CLI
// arguments, the loaded run configuration, and the root context.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
}
