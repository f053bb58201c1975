// Copyright The Cloud Custodian Authors.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"

	"github.com/castrojo/cloud-custodian/internal/org"
)

// STSProvider implements org.CredentialProvider with sts:AssumeRole.
type STSProvider struct{}

// AssumeIdentity assumes roleArn from the parent session and returns a new
// handle whose credentials auto-refresh against the parent. The assumption
// is verified eagerly so that an access-denied or suspended account surfaces
// at resolution time, not on first use.
func (p *STSProvider) AssumeIdentity(ctx context.Context, roleArn, sessionName, region string, parent *org.Session) (*org.Session, error) {
	cfg := parent.Config.Copy()
	if region != "" {
		cfg.Region = region
	}

	provider := stscreds.NewAssumeRoleProvider(NewSTS(cfg), roleArn,
		func(o *stscreds.AssumeRoleOptions) {
			o.RoleSessionName = sessionName
		})
	cfg.Credentials = awsv2.NewCredentialsCache(provider)

	if _, err := cfg.Credentials.Retrieve(ctx); err != nil {
		return nil, fmt.Errorf("assume %s: %w", roleArn, err)
	}

	return &org.Session{RoleArn: roleArn, Config: cfg}, nil
}
