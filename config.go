package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"

	"github.com/SayVega/linkchecker/checker"
)

// options is the merged CLI and config file configuration for one run.
type options struct {
	Output      string        `toml:"output"`
	Format      string        `toml:"format"`
	Concurrency int           `toml:"concurrency"`
	Timeout     time.Duration `toml:"timeout"`
	UserAgent   string        `toml:"user_agent"`
	NoTUI       bool          `toml:"no_tui"`
	LogLevel    string        `toml:"log_level"`
	LogFile     string        `toml:"log_file"`
	MetricsFile string        `toml:"metrics_file"`
}

func defaultOptions() options {
	return options{
		Output:      "report.md",
		Format:      "markdown",
		Concurrency: checker.DefaultConcurrency,
		Timeout:     checker.DefaultRequestTimeout,
		UserAgent:   checker.DefaultUserAgent,
		LogLevel:    "info",
	}
}

// parseOptions parses args into options and returns the remaining positional
// arguments. Values from the -config file override defaults; flags given on
// the command line override both.
func parseOptions(args []string, stderr io.Writer) (options, []string, error) {
	defaults := defaultOptions()
	var fromFlags options
	var configPath string

	fs := flag.NewFlagSet("linkchecker", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprintln(stderr, "Usage: linkchecker [flags] <markdown-file>")
		_, _ = fmt.Fprintln(stderr, "Flags:")
		fs.PrintDefaults()
	}

	fs.StringVar(&fromFlags.Output, "o", defaults.Output, "report output path")
	fs.StringVar(&fromFlags.Format, "format", defaults.Format, "report format: markdown, json, csv, or pdf")
	fs.IntVar(&fromFlags.Concurrency, "concurrency", defaults.Concurrency, "maximum simultaneous requests")
	fs.DurationVar(&fromFlags.Timeout, "timeout", defaults.Timeout, "per-request timeout")
	fs.StringVar(&fromFlags.UserAgent, "user-agent", defaults.UserAgent, "user agent string")
	fs.BoolVar(&fromFlags.NoTUI, "no-tui", defaults.NoTUI, "print plain text instead of the interactive view")
	fs.StringVar(&fromFlags.LogLevel, "log-level", defaults.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&fromFlags.LogFile, "log-file", defaults.LogFile, "write logs to this file")
	fs.StringVar(&fromFlags.MetricsFile, "metrics-file", defaults.MetricsFile, "write Prometheus metrics to this file after the run")
	fs.StringVar(&configPath, "config", "", "TOML config file")

	if err := fs.Parse(args); err != nil {
		return options{}, nil, err
	}

	opts := defaults
	if configPath != "" {
		if err := loadConfigFile(configPath, &opts); err != nil {
			return options{}, nil, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o":
			opts.Output = fromFlags.Output
		case "format":
			opts.Format = fromFlags.Format
		case "concurrency":
			opts.Concurrency = fromFlags.Concurrency
		case "timeout":
			opts.Timeout = fromFlags.Timeout
		case "user-agent":
			opts.UserAgent = fromFlags.UserAgent
		case "no-tui":
			opts.NoTUI = fromFlags.NoTUI
		case "log-level":
			opts.LogLevel = fromFlags.LogLevel
		case "log-file":
			opts.LogFile = fromFlags.LogFile
		case "metrics-file":
			opts.MetricsFile = fromFlags.MetricsFile
		}
	})

	if fs.NArg() != 1 {
		fs.Usage()
		return options{}, nil, errUsage
	}
	return opts, fs.Args(), nil
}

var errUsage = errors.New("expected exactly one input file")

// loadConfigFile decodes a TOML file over opts. Unknown keys are rejected so
// typos do not go unnoticed.
func loadConfigFile(path string, opts *options) error {
	md, err := toml.DecodeFile(path, opts)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return fmt.Errorf("read config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func (o options) checkerConfig(logger logrus.FieldLogger, metrics *checker.Metrics) checker.Config {
	return checker.Config{
		Concurrency:    o.Concurrency,
		RequestTimeout: o.Timeout,
		UserAgent:      o.UserAgent,
		Logger:         logger,
		Metrics:        metrics,
	}
}

// newLogger builds the run's logger. When quiet is set and no log file is
// configured, output is discarded so it cannot corrupt the terminal view.
// The returned close function releases the log file, if any.
func newLogger(o options, quiet bool, stderr io.Writer) (*logrus.Logger, func() error, error) {
	level, err := logrus.ParseLevel(o.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	switch {
	case o.LogFile != "":
		file, err := os.OpenFile(o.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		logger.SetOutput(file)
		return logger, file.Close, nil
	case quiet:
		logger.SetOutput(io.Discard)
	default:
		logger.SetOutput(stderr)
	}
	return logger, func() error { return nil }, nil
}
