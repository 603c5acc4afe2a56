// Package main provides the linkchecker CLI entrypoint. It reads the Markdown
// links from one input file, validates each target, and writes a report.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/SayVega/linkchecker/checker"
	"github.com/SayVega/linkchecker/parser"
	"github.com/SayVega/linkchecker/result"
	"github.com/SayVega/linkchecker/tui"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitInterrupted = 130
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, positional, err := parseOptions(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		if !errors.Is(err, errUsage) {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return exitFailure
	}

	format, err := result.ParseFormat(opts.Format)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	links, err := parser.ParseFile(positional[0])
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	useTUI := !opts.NoTUI && isTerminal(stdout)
	logger, closeLog, err := newLogger(opts, useTUI, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	defer func() {
		if err := closeLog(); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: close log file: %v\n", err)
		}
	}()

	logger.WithFields(logrus.Fields{
		"input":       positional[0],
		"links":       len(links),
		"concurrency": opts.Concurrency,
		"timeout":     opts.Timeout,
	}).Info("starting link check")

	var registry *prometheus.Registry
	var metrics *checker.Metrics
	if opts.MetricsFile != "" {
		registry = prometheus.NewRegistry()
		metrics = checker.NewMetrics(registry)
	}
	cfg := opts.checkerConfig(logger, metrics)

	var res *result.Result
	if useTUI {
		res, err = checkWithTUI(links, cfg)
	} else {
		res, err = checkPlain(links, cfg, stdout)
	}
	switch {
	case errors.Is(err, context.Canceled):
		_, _ = fmt.Fprintln(stderr, "Interrupted, no report written.")
		return exitInterrupted
	case err != nil:
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	if err := result.WriteReport(opts.Output, format, res.Links); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	logger.WithField("path", opts.Output).Info("report written")
	_, _ = fmt.Fprintf(stdout, "Report written to %s\n", opts.Output)

	if registry != nil {
		if err := prometheus.WriteToTextfile(opts.MetricsFile, registry); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: write metrics: %v\n", err)
			return exitFailure
		}
	}

	return exitOK
}

// checkPlain validates links without the interactive view, stopping on
// SIGINT or SIGTERM, and prints a plain-text summary.
func checkPlain(links []result.Link, cfg checker.Config, stdout io.Writer) (*result.Result, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := checker.New(cfg, nil).Run(ctx, links)
	if err != nil {
		return nil, err
	}
	result.PrintResults(stdout, res)
	return res, nil
}

// checkWithTUI validates links behind the Bubble Tea progress view.
func checkWithTUI(links []result.Link, cfg checker.Config) (*result.Result, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	progressCh := make(chan checker.CheckEvent, 100)
	checkerInstance := checker.New(cfg, progressCh)

	program := tea.NewProgram(tui.NewModel(ctx, cancel, checkerInstance, links, progressCh))
	finalModel, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("run terminal UI: %w", err)
	}

	model := finalModel.(tui.Model)
	if model.Interrupted() {
		return nil, context.Canceled
	}
	if err := model.Err(); err != nil {
		return nil, err
	}
	return model.GetResult(), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
