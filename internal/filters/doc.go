// Copyright The Cloud Custodian Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters provides client-side filtering of org account records.
//
// Filters are key-operator-value expressions combined with a comma (override
// the delimiter with C7N_ORG_FILTER_DELIM when values contain commas). Keys
// address the account record as a JSON path, so nested tag lookups work:
//
//   - "name=payer" : name equals "payer"
//   - "status=ACTIVE" : account is active
//   - "tags.env~prod" : tag env equals "prod", case-insensitively
//   - "id^1234" : id starts with "1234"
//   - "name!@sandbox" : name does not contain "sandbox"
//   - "email/@corp[.]com$" : email matches the regex
//
// Operators: = (equal), ~ (equal fold), ^ (prefix), @ (contains),
// / (regex); each negatable with a leading ! on the operator.
package filters
