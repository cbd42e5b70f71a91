// Package commands holds the pipemerge command tree.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/go-pipemerge/internal/env"
	"github.com/askiada/go-pipemerge/pkg/pipeline"
)

// Exit codes of the pipemerge binary.
const (
	ExitOK              = 0
	ExitError           = 1
	ExitConfigError     = 2
	ExitInvalidPipeline = 3
	ExitIncompatible    = 4
	ExitUnsupported     = 5
)

type appContext struct {
	version   string
	logLevel  string
	logFormat string
	logger    *slog.Logger
}

func NewRootCmd(version string) *cobra.Command {
	app := &appContext{version: version, logger: slog.New(slog.DiscardHandler)}
	cmd := &cobra.Command{
		Use:   "pipemerge",
		Short: "Merge CI pipeline definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd, app.logLevel, app.logFormat)
			if err != nil {
				return newExitCodeError(ExitConfigError, err)
			}

			app.logger = logger

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&app.logLevel, "log-level", env.String(env.LogLevelKey, "info"),
		"log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&app.logFormat, "log-format", env.String(env.LogFormatKey, "text"),
		"log format (text, json)")

	cmd.AddCommand(newMergeCmd(app))
	cmd.AddCommand(newValidateCmd(app))
	cmd.AddCommand(newGraphCmd(app))
	cmd.AddCommand(newVersionCmd(version))

	return cmd
}

func Execute(version string) int {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())

		return mapExitCode(err)
	}

	return ExitOK
}

func mapExitCode(err error) int {
	var codeErr *exitCodeError
	if errors.As(err, &codeErr) {
		return codeErr.code
	}

	switch {
	case errors.Is(err, pipeline.ErrInvalidPipeline):
		return ExitInvalidPipeline
	case errors.Is(err, pipeline.ErrIncompatibleJob), errors.Is(err, pipeline.ErrIncompatibleStep):
		return ExitIncompatible
	case errors.Is(err, pipeline.ErrUnsupportedFeature):
		return ExitUnsupported
	default:
		return ExitError
	}
}

func newLogger(cmd *cobra.Command, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", level)
	}

	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), opts)), nil
	default:
		return nil, errors.Errorf("invalid log format %q", format)
	}
}

type exitCodeError struct {
	code int
	err  error
}

func newExitCodeError(code int, err error) *exitCodeError {
	return &exitCodeError{code: code, err: err}
}

func (e *exitCodeError) Error() string {
	return e.err.Error()
}

func (e *exitCodeError) Unwrap() error {
	return e.err
}
