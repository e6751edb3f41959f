package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	logLevel   string
	logFormat  string
	workers    int
	metrics    bool
	strict     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "plussolve",
		Short: "Solve multi-contact impulse problems",
		Long: `plussolve runs the impulse solver over scenario files: raw problems
(coupling matrix, residual and constraint descriptors) or scenes of boxes
and spheres above a ground plane.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "solver config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "log format: text or json")

	solveCmd := &cobra.Command{
		Use:   "solve [scenario...]",
		Short: "Solve scenario files and print a summary of each",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, opts, args)
		},
	}
	solveCmd.Flags().IntVarP(&opts.workers, "workers", "w", 1, "scenarios solved concurrently")
	solveCmd.Flags().BoolVar(&opts.metrics, "metrics", false, "print solver metrics after the summaries")
	solveCmd.Flags().BoolVar(&opts.strict, "strict", false, "fail when a solve does not converge")

	rootCmd.AddCommand(solveCmd)

	return rootCmd
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", level)
	}

	handlerOpts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	}

	return nil, fmt.Errorf("invalid --log-format %q", format)
}
