// Copyright The Cloud Custodian Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output renders c7n-org result sets (account lists, policy lists,
// fan-out batch results) to a writer in text, json, or yaml form. Text is
// the human default; json and yaml are stable shapes for piping.
package output
