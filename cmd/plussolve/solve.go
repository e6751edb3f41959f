package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/akmonengine/plus"
	"github.com/akmonengine/plus/scenario"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var errNotConverged = errors.New("not every solve converged")

func runSolve(cmd *cobra.Command, opts *options, paths []string) error {
	logger, err := newLogger(cmd.ErrOrStderr(), opts.logLevel, opts.logFormat)
	if err != nil {
		return err
	}

	cfg, err := plus.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	solver, err := plus.New(cfg, plus.WithLogger(logger), plus.WithRegisterer(reg))
	if err != nil {
		return err
	}

	summaries, err := solveAll(cmd.Context(), solver, paths, opts.workers)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	converged := true
	for _, sum := range summaries {
		if err := enc.Encode(sum); err != nil {
			return err
		}
		converged = converged && sum.Converged
	}
	if err := enc.Close(); err != nil {
		return err
	}

	if opts.metrics {
		if err := writeMetrics(cmd.OutOrStdout(), reg); err != nil {
			return err
		}
	}

	logger.Info("solved scenarios", "count", len(summaries), "converged", converged)
	if opts.strict && !converged {
		return errNotConverged
	}

	return nil
}

// solveAll runs the scenarios at paths on up to workers goroutines and
// returns their summaries in the order of paths. The first failure cancels
// the scenarios not yet started.
func solveAll(ctx context.Context, solver *plus.Solver, paths []string, workers int) ([]scenario.Summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	summaries := make([]scenario.Summary, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, workers))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			sc, err := scenario.Load(path)
			if err != nil {
				return err
			}
			sum, err := sc.Run(solver)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			summaries[i] = sum

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summaries, nil
}

func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}

	return nil
}
