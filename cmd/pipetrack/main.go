// pipetrack applies a YAML-defined pipeline to a CSV file and keeps its
// consolidation state between runs.
//
//	pipetrack --config pipeline.yaml apply
//	pipetrack --config pipeline.yaml status
//	pipetrack --config pipeline.yaml rollback 2
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/askiada/go-pipeline-tracker/internal/config"
)

const usage = `usage: pipetrack [flags] <command> [args]

commands:
  apply                 add the configured steps and save the tracker
  status                print the state of every process
  list                  print the processes as (scope, action) pairs
  rollback <order>      restore the dataset as it was after order
  export <csv>          write the current dataset
  draw <dot>            write the process chain as a Graphviz graph
  run <csv in> <csv out> apply the tracked processes to another file

flags:
`

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath string
		logLevel   string
		assumeYes  bool
	)

	flagSet := pflag.NewFlagSet("pipetrack", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "pipeline.yaml", "path to the pipeline definition")
	flagSet.StringVar(&logLevel, "log-level", "", "override the configured log level")
	flagSet.BoolVarP(&assumeYes, "yes", "y", false, "approve every confirmation prompt")
	flagSet.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flagSet.PrintDefaults()
	}

	err := flagSet.Parse(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}

		return err
	}

	if flagSet.NArg() == 0 {
		flagSet.Usage()

		return errors.New("missing command")
	}

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	err = cfg.Validate()
	if err != nil {
		return err
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cli := &app{
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
		confirmer: &promptConfirmer{
			in:          bufio.NewReader(os.Stdin),
			out:         os.Stderr,
			interactive: term.IsTerminal(int(os.Stdin.Fd())),
			assumeYes:   assumeYes,
		},
		stdout: os.Stdout,
	}

	return cli.exec(ctx, flagSet.Arg(0), flagSet.Args()[1:])
}
