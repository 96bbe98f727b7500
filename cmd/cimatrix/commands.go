package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/cimatrix/config"
	"github.com/katalvlaran/cimatrix/emit"
	"github.com/katalvlaran/cimatrix/jobmatrix"
	"github.com/katalvlaran/cimatrix/natsort"
)

// Output formats accepted by --format.
const (
	formatJSON         = "json"
	formatSetOutput    = "set-output"
	formatGitHubOutput = "github-output"
	formatText         = "text"
)

// githubOutputEnv names the file the github-output format appends to.
const githubOutputEnv = "GITHUB_OUTPUT"

var errUnknownFormat = errors.New("unknown output format")

// cli carries flag values and I/O for one command tree.
type cli struct {
	stdout io.Writer
	stderr io.Writer
	lookup func(string) (string, bool)

	configPath string
	verbose    bool
	jobs       int
	seed       int64
	strict     bool
	format     string
	outputName string
	indent     bool
}

func newRootCmd(stdout, stderr io.Writer, lookup func(string) (string, bool)) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr, lookup: lookup}

	rootCmd := &cobra.Command{
		Use:           "cimatrix",
		Short:         "Generate randomized CI job matrices",
		Long:          "cimatrix samples a bounded set of CI jobs from the cartesian product of declared axes,\nhonoring exclusions and guaranteeing requested rows.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "matrix file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log sampling details to stderr")
	_ = rootCmd.MarkPersistentFlagRequired("config")

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the matrix and print it",
		Args:  cobra.NoArgs,
		RunE:  c.runGenerate,
	}
	generateCmd.Flags().IntVar(&c.jobs, "jobs", -1, "target number of jobs (overrides "+config.JobsEnv+" and the file)")
	generateCmd.Flags().Int64Var(&c.seed, "seed", 0, "sampling seed (overrides the file)")
	generateCmd.Flags().BoolVar(&c.strict, "strict", false, "fail when an include entry cannot be satisfied")
	generateCmd.Flags().StringVar(&c.format, "format", formatJSON, "output format: json, set-output, github-output or text")
	generateCmd.Flags().StringVar(&c.outputName, "output-name", emit.DefaultOutputName, "output name for set-output and github-output")
	generateCmd.Flags().BoolVar(&c.indent, "indent", false, "indent json output")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Build the matrix in strict mode and report the row count",
		Args:  cobra.NoArgs,
		RunE:  c.runValidate,
	}

	rootCmd.AddCommand(generateCmd, validateCmd)

	return rootCmd
}

func (c *cli) logger() *slog.Logger {
	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{Level: level}))
}

// generated is one loaded file and the rows built from it.
type generated struct {
	file   *config.File
	matrix *config.Matrix
	rows   []jobmatrix.Row
}

// build loads the file and generates rows. Options returned by extra apply
// after the file's own.
func (c *cli) build(target func(*config.File) (int, error), extra func(*config.File, *slog.Logger) []jobmatrix.Option) (*generated, error) {
	log := c.logger()
	f, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	n, err := target(f)
	if err != nil {
		return nil, err
	}
	opts := []jobmatrix.Option{jobmatrix.WithLogger(log)}
	if extra != nil {
		opts = append(opts, extra(f, log)...)
	}
	b, m, err := f.BuildMatrix(opts...)
	if err != nil {
		return nil, err
	}
	rows, err := b.GenerateRows(n)
	if err != nil {
		return nil, err
	}
	log.Debug("cimatrix: generated matrix",
		slog.String("config", c.configPath),
		slog.Int("target", n),
		slog.Int("rows", len(rows)))

	return &generated{file: f, matrix: m, rows: rows}, nil
}

func (c *cli) runGenerate(cmd *cobra.Command, _ []string) error {
	if err := c.checkFormat(); err != nil {
		return err
	}
	extra := func(f *config.File, log *slog.Logger) []jobmatrix.Option {
		var opts []jobmatrix.Option
		switch {
		case cmd.Flags().Changed("seed"):
			opts = append(opts, jobmatrix.WithSeed(c.seed))
		case f.Seed == nil:
			// Unseeded files sample differently on every run.
			seed := time.Now().UnixNano()
			log.Info("cimatrix: random seed", slog.Int64("seed", seed))
			opts = append(opts, jobmatrix.WithSeed(seed))
		}
		if c.strict {
			opts = append(opts, jobmatrix.WithStrict(true))
		}
		return opts
	}
	target := func(f *config.File) (int, error) {
		if cmd.Flags().Changed("jobs") {
			if c.jobs < 0 {
				return 0, fmt.Errorf("--jobs=%d: %w", c.jobs, jobmatrix.ErrInvalidCount)
			}
			return c.jobs, nil
		}
		return f.TargetJobs(c.lookup)
	}

	g, err := c.build(target, extra)
	if err != nil {
		return err
	}
	natsort.SortRows(g.rows)
	derive, err := g.matrix.Deriver(g.rows)
	if err != nil {
		return err
	}

	return c.write(emit.Jobs(g.rows, derive, g.file.Omit...))
}

func (c *cli) runValidate(_ *cobra.Command, _ []string) error {
	g, err := c.build(func(f *config.File) (int, error) {
		return f.TargetJobs(c.lookup)
	}, func(*config.File, *slog.Logger) []jobmatrix.Option {
		return []jobmatrix.Option{jobmatrix.WithStrict(true)}
	})
	if err != nil {
		return err
	}
	// Derive templates can only fail against real rows.
	if _, err := g.matrix.Deriver(g.rows); err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.stdout, "%s: ok, %d rows\n", c.configPath, len(g.rows))

	return err
}

func (c *cli) checkFormat() error {
	switch c.format {
	case formatJSON, formatSetOutput, formatGitHubOutput, formatText:
		return nil
	default:
		return fmt.Errorf("--format=%q: %w", c.format, errUnknownFormat)
	}
}

func (c *cli) write(jobs []emit.Job) error {
	switch c.format {
	case formatSetOutput:
		return emit.WriteSetOutput(c.stdout, c.outputName, jobs)
	case formatGitHubOutput:
		path, ok := c.lookup(githubOutputEnv)
		if !ok || path == "" {
			return fmt.Errorf("%s is not set", githubOutputEnv)
		}
		return emit.AppendGitHubOutput(path, c.outputName, jobs)
	case formatText:
		return emit.WriteText(c.stdout, jobs)
	default:
		return emit.WriteJSON(c.stdout, jobs, c.indent)
	}
}
