// Copyright The Cloud Custodian Authors.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/apex/log"
)

// InitLogger sets up Apex with a custom handler and a log level from the
// C7N_ORG_LOG env variable. The default level is info: account-set runs are
// long-lived batch operations and per-account progress is part of the
// observable contract.
func InitLogger() {
	envLevel := strings.ToLower(os.Getenv("C7N_ORG_LOG"))
	if envLevel == "" {
		envLevel = "info"
	}
	var apexLevel log.Level
	switch envLevel {
	case "debug":
		apexLevel = log.DebugLevel
	case "info":
		apexLevel = log.InfoLevel
	case "warn":
		apexLevel = log.WarnLevel
	case "error":
		apexLevel = log.ErrorLevel
	case "fatal":
		apexLevel = log.FatalLevel
	default:
		apexLevel = log.InfoLevel
	}
	log.SetHandler(&CustomHandler{})
	log.SetLevel(apexLevel)
}

// CustomHandler formats log messages and writes to stderr, keeping stdout
// free for command output.
type CustomHandler struct{}

// HandleLog implements the log.Handler interface
func (h *CustomHandler) HandleLog(e *log.Entry) error {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	level := "?"
	switch e.Level {
	case log.DebugLevel:
		level = "D"
	case log.InfoLevel:
		level = "I"
	case log.WarnLevel:
		level = "W"
	case log.ErrorLevel:
		level = "E"
	case log.FatalLevel:
		level = "F"
	}

	var fields strings.Builder
	for _, f := range e.Fields.Names() {
		fmt.Fprintf(&fields, " %s=%v", f, e.Fields.Get(f))
	}

	fmt.Fprintf(os.Stderr, "%s %s %s%s\n", timestamp, level, e.Message, fields.String())
	return nil
}

// Debugf logs at Debug level.
func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Infof logs at Info level.
func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// Warnf logs at Warn level.
func Warnf(format string, args ...interface{}) {
	log.Warn(fmt.Sprintf(format, args...))
}

// Errorf logs at Error level.
func Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// WithError returns an entry with error.
func WithError(err error) *log.Entry {
	return log.WithError(err)
}

// WithFields returns an entry carrying structured fields. Used for the
// per-account and per-account-region entries emitted during fan-out.
func WithFields(fields map[string]interface{}) *log.Entry {
	return log.WithFields(log.Fields(fields))
}
