// Copyright The Cloud Custodian Authors.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/castrojo/cloud-custodian/internal/aws"
	"github.com/castrojo/cloud-custodian/internal/org"
	"github.com/castrojo/cloud-custodian/internal/stack"
)

// Formats lists the supported output formats.
var Formats = []string{"text", "json", "yaml"}

// ValidFormat reports whether f names a supported format.
func ValidFormat(f string) bool {
	for _, v := range Formats {
		if f == v {
			return true
		}
	}
	return false
}

// Accounts writes the account list in the requested format. Text output is
// one account per line with a humanized join age.
func Accounts(w io.Writer, accounts []org.Account, format string) error {
	if format != "text" {
		return structured(w, accounts, format)
	}
	for _, a := range accounts {
		joined := ""
		if !a.Joined.IsZero() {
			joined = humanize.Time(a.Joined)
		}
		fmt.Fprintf(w, "%s  %-24s %-10s %s  joined %s\n",
			a.ID, a.Name, a.Status, a.Email, joined)
	}
	return nil
}

// Policies writes the org policy list in the requested format.
func Policies(w io.Writer, policies []aws.Policy, format string) error {
	if format != "text" {
		return structured(w, policies, format)
	}
	for _, p := range policies {
		managed := "customer"
		if p.AwsManaged {
			managed = "aws"
		}
		fmt.Fprintf(w, "%s  %-32s %-26s %s\n", p.ID, p.Name, p.Type, managed)
	}
	return nil
}

// Matches writes the stack probe selection in the requested format. Text
// output shows each kept account with its matching regions.
func Matches(w io.Writer, matches []stack.Match, format string) error {
	if format != "text" {
		return structured(w, matches, format)
	}
	for _, m := range matches {
		fmt.Fprintf(w, "%s  %-24s %s\n",
			m.Account.ID, m.Account.Name, strings.Join(sortedRegions(m.Regions), ","))
	}
	return nil
}

// Batch writes a raw batch result in the requested format. Text output is
// one line per (account, region) in sorted order; failed units render their
// error.
func Batch(w io.Writer, results org.BatchResult, format string) error {
	if format != "text" {
		// UnitResult errors do not marshal usefully; flatten first.
		flat := make(map[string]map[string]interface{}, len(results))
		for id, regions := range results {
			flat[id] = make(map[string]interface{}, len(regions))
			for region, r := range regions {
				if r.Failed() {
					flat[id][region] = map[string]string{"error": r.Err.Error()}
				} else {
					flat[id][region] = r.Value
				}
			}
		}
		return structured(w, flat, format)
	}

	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		regions := make([]string, 0, len(results[id]))
		for region := range results[id] {
			regions = append(regions, region)
		}
		sort.Strings(regions)
		for _, region := range regions {
			r := results[id][region]
			if r.Failed() {
				fmt.Fprintf(w, "%s %s error: %v\n", id, region, r.Err)
				continue
			}
			fmt.Fprintf(w, "%s %s %v\n", id, region, r.Value)
		}
	}
	return nil
}

func structured(w io.Writer, v interface{}, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func sortedRegions(regions map[string]bool) []string {
	out := make([]string, 0, len(regions))
	for r := range regions {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}
