// Copyright The Cloud Custodian Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castrojo/cloud-custodian/internal/aws"
	"github.com/castrojo/cloud-custodian/internal/org"
	"github.com/castrojo/cloud-custodian/internal/stack"
)

// TestValidFormat verifies the format whitelist.
func TestValidFormat(t *testing.T) {
	for _, f := range Formats {
		assert.True(t, ValidFormat(f))
	}
	assert.False(t, ValidFormat("xml"))
}

// TestAccountsText verifies the text rendering includes ids, names and a
// humanized join age.
func TestAccountsText(t *testing.T) {
	accounts := []org.Account{
		{ID: "111111111111", Name: "payer", Status: "ACTIVE",
			Email: "root@corp.com", Joined: time.Now().Add(-48 * time.Hour)},
		{ID: "222222222222", Name: "dev", Status: "ACTIVE"},
	}

	var buf bytes.Buffer
	require.NoError(t, Accounts(&buf, accounts, "text"))

	out := buf.String()
	assert.Contains(t, out, "111111111111")
	assert.Contains(t, out, "payer")
	assert.Contains(t, out, "2 days ago")
	assert.Contains(t, out, "222222222222")
}

// TestAccountsJSON verifies the json rendering round-trips.
func TestAccountsJSON(t *testing.T) {
	accounts := []org.Account{{ID: "111111111111", Name: "payer"}}

	var buf bytes.Buffer
	require.NoError(t, Accounts(&buf, accounts, "json"))

	var decoded []org.Account
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, accounts, decoded)
}

// TestPoliciesText verifies policy rendering distinguishes managed
// policies.
func TestPoliciesText(t *testing.T) {
	policies := []aws.Policy{
		{ID: "p-1", Name: "FullAWSAccess", Type: "SERVICE_CONTROL_POLICY", AwsManaged: true},
		{ID: "p-2", Name: "DenyRegions", Type: "SERVICE_CONTROL_POLICY"},
	}

	var buf bytes.Buffer
	require.NoError(t, Policies(&buf, policies, "text"))

	out := buf.String()
	assert.Contains(t, out, "FullAWSAccess")
	assert.Contains(t, out, "aws")
	assert.Contains(t, out, "customer")
}

// TestMatchesText verifies match rendering lists the regions that probed
// true.
func TestMatchesText(t *testing.T) {
	matches := []stack.Match{
		{
			Account: org.Account{ID: "111111111111", Name: "prod"},
			Regions: map[string]bool{"us-west-2": true, "us-east-1": true},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Matches(&buf, matches, "text"))
	assert.Contains(t, buf.String(), "us-east-1,us-west-2")
}

// TestBatch verifies batch rendering in text and the flattened json shape
// for failed units.
func TestBatch(t *testing.T) {
	results := org.BatchResult{
		"111111111111": {
			"us-east-1": {Value: true},
			"us-west-2": {Err: errors.New("throttled")},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Batch(&buf, results, "text"))
	out := buf.String()
	assert.Contains(t, out, "111111111111 us-east-1 true")
	assert.Contains(t, out, "111111111111 us-west-2 error: throttled")

	buf.Reset()
	require.NoError(t, Batch(&buf, results, "json"))
	var decoded map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, true, decoded["111111111111"]["us-east-1"])
	assert.Equal(t,
		map[string]interface{}{"error": "throttled"},
		decoded["111111111111"]["us-west-2"])
}

// TestUnsupportedFormat verifies structured rendering rejects unknown
// formats.
func TestUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Accounts(&buf, nil, "xml"))
}
