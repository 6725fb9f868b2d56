// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package logger provides a log/slog logger configured from a textual
// level, shared by all services.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns a JSON slog logger writing to w. Messages below the given
// level are discarded.
func New(w io.Writer, levelText string) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelText)); err != nil {
		return nil, err
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})

	return slog.New(h), nil
}

// ExitWithError terminates the process with the given code after all
// deferred cleanups have run. It is meant to be deferred first in main.
func ExitWithError(code *int) {
	os.Exit(*code)
}
