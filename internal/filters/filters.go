// Copyright The Cloud Custodian Authors.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"encoding/json"
	"os"
	"regexp"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/castrojo/cloud-custodian/internal/org"
)

// filterRegex parses a filter expression into key, operator, and value
// components. The key is a gjson path into the account record; the operator
// is one of = ~ ^ @ /, optionally prefixed with '!' for negation. Examples:
// "name=payer", "tags.env~prod", "name!@sandbox".
var filterRegex = regexp.MustCompile(`^([^!=~^@/]*)(!?[=~^@/])(.*)$`)

// Filter is a single parsed filter expression.
type Filter struct {
	Key     string
	Negate  bool
	Operand string
	Value   string
}

// BuildFilters parses a filter specification string into a slice of Filter.
// Malformed expressions are logged and skipped so a partial spec still
// applies.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	if spec == "" {
		return filters
	}

	// Default delimiter is ",", allow an override for situations where the
	// value contains commas.
	delim := ","
	if d, ok := os.LookupEnv("C7N_ORG_FILTER_DELIM"); ok {
		delim = d
	}

	for _, filterSpec := range strings.Split(spec, delim) {
		filterSpec = strings.TrimSpace(filterSpec)
		if filterSpec == "" {
			continue
		}

		parts := filterRegex.FindStringSubmatch(filterSpec)
		if parts == nil {
			log.Error("invalid filter: " + filterSpec)
			continue
		}

		key := strings.TrimSpace(parts[1])
		operand := parts[2]
		value := parts[3]

		if key == "" {
			log.Error("invalid filter: empty key in " + filterSpec)
			continue
		}

		negate := strings.HasPrefix(operand, "!")
		if negate {
			operand = strings.TrimPrefix(operand, "!")
		}

		filters = append(filters, Filter{
			Key:     key,
			Negate:  negate,
			Operand: operand,
			Value:   value,
		})
	}

	return filters
}

// Apply returns the accounts matching every filter in the spec, preserving
// input order. An empty spec keeps everything.
func Apply(accounts []org.Account, spec string) []org.Account {
	filters := BuildFilters(spec)
	if len(filters) == 0 {
		return accounts
	}

	var kept []org.Account
	for _, a := range accounts {
		raw, err := json.Marshal(a)
		if err != nil {
			log.WithError(err).Error("failed to marshal account " + a.ID)
			continue
		}
		if matches(string(raw), filters) {
			kept = append(kept, a)
		}
	}
	return kept
}

// matches returns true if the account record satisfies all filters. A filter
// whose key is absent from the record fails the account.
func matches(raw string, filters []Filter) bool {
	for _, f := range filters {
		value := gjson.Get(raw, f.Key)
		if !value.Exists() {
			return false
		}
		if !checkOperand(value.String(), f) {
			return false
		}
	}
	return true
}

// checkOperand evaluates one filter against a string value.
func checkOperand(value string, f Filter) bool {
	switch f.Operand {
	case "=":
		return (value == f.Value) == !f.Negate
	case "~":
		return strings.EqualFold(value, f.Value) == !f.Negate
	case "^":
		return strings.HasPrefix(value, f.Value) == !f.Negate
	case "@":
		return strings.Contains(value, f.Value) == !f.Negate
	case "/":
		matched, err := regexp.MatchString(f.Value, value)
		if err != nil {
			log.Error("invalid regex: " + f.Value)
			return false
		}
		return matched == !f.Negate
	default:
		log.Error("unsupported filtering operand: " + f.Operand)
		return false
	}
}
