package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipeline-tracker/internal/config"
	"github.com/askiada/go-pipeline-tracker/pkg/frame"
	"github.com/askiada/go-pipeline-tracker/pkg/pipeline"
	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/drawer"
	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/measure"
	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/model"
	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/persist"
)

type tracker = pipeline.Tracker[*frame.Frame]

var (
	errUnknownCommand = errors.New("unknown command")
	errNoTracker      = errors.New("no saved tracker, run apply first")
	errUsage          = errors.New("wrong number of arguments")
)

type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	confirmer pipeline.Confirmer
	stdout    io.Writer
}

func (a *app) exec(ctx context.Context, command string, args []string) error {
	want := map[string]int{"apply": 0, "status": 0, "list": 0, "rollback": 1, "export": 1, "draw": 1, "run": 2}

	n, ok := want[command]
	if !ok {
		return errors.Wrap(errUnknownCommand, command)
	}

	if len(args) != n {
		return errors.Wrapf(errUsage, "%s expects %d, got %d", command, n, len(args))
	}

	backend, closeBackend, err := a.backend(ctx)
	if err != nil {
		return err
	}
	defer closeBackend()

	msr := measure.NewDefaultMeasure()

	trk, found, err := a.open(ctx, backend, measure.TrackerMeasure(msr))
	if err != nil {
		return err
	}
	defer trk.Close()

	if !found && command != "apply" {
		return errNoTracker
	}

	switch command {
	case "apply":
		return a.apply(ctx, backend, trk)
	case "status":
		_, err = fmt.Fprint(a.stdout, trk.Status().String())
	case "list":
		_, err = fmt.Fprint(a.stdout, trk.ProcessList())
	case "rollback":
		err = a.rollback(ctx, backend, trk, args[0])
	case "export":
		err = a.export(trk, args[0])
	case "draw":
		err = a.draw(trk, msr, args[0])
	case "run":
		err = a.run(trk, args[0], args[1])
	}

	return err
}

func (a *app) backend(ctx context.Context) (persist.Backend, func() error, error) {
	if a.cfg.State.Backend == config.BackendSQLite {
		backend, err := persist.OpenSQLite(ctx, a.cfg.State.DSN)
		if err != nil {
			return nil, nil, err
		}

		return backend, backend.Close, nil
	}

	return persist.NewFileBackend(a.cfg.State.Dir), func() error { return nil }, nil
}

func (a *app) options() ([]pipeline.Option[*frame.Frame], error) {
	compression, err := persist.ParseCompression(a.cfg.State.Compression)
	if err != nil {
		return nil, err
	}

	return []pipeline.Option[*frame.Frame]{
		pipeline.WithLogger[*frame.Frame](a.logger),
		pipeline.WithConfirmer[*frame.Frame](a.confirmer),
		pipeline.WithCompression[*frame.Frame](compression),
	}, nil
}

// open loads the saved tracker. When nothing is saved it starts a tracker
// from the configured input, and found is false.
func (a *app) open(ctx context.Context, backend persist.Backend, hooks ...model.TrackerOption) (*tracker, bool, error) {
	opts, err := a.options()
	if err != nil {
		return nil, false, err
	}

	opts = append(opts, pipeline.WithTrackerOptions[*frame.Frame](hooks...))

	trk, err := pipeline.New(opts...)
	if err != nil {
		return nil, false, err
	}

	err = trk.Load(ctx, backend, a.cfg.State.Name, frame.Catalog())
	if err == nil {
		return trk, true, nil
	}

	if !errors.Is(err, persist.ErrNotFound) {
		_ = trk.Close()

		return nil, false, err
	}

	if a.cfg.Input == "" {
		return trk, false, nil
	}

	err = trk.Close()
	if err != nil {
		return nil, false, err
	}

	data, err := a.readCSV(a.cfg.Input)
	if err != nil {
		return nil, false, err
	}

	trk, err = pipeline.New(append(opts, pipeline.WithData(data))...)
	if err != nil {
		return nil, false, err
	}

	return trk, false, nil
}

func (a *app) apply(ctx context.Context, backend persist.Backend, trk *tracker) error {
	backupAfter := make(map[string]struct{}, len(a.cfg.BackupAfter))
	for _, ref := range a.cfg.BackupAfter {
		backupAfter[ref] = struct{}{}
	}

	for _, step := range a.cfg.Steps {
		tr, err := frame.Transform(step.Transform, step.Args)
		if err != nil {
			return errors.Wrapf(err, "unable to build step %s", step.Key())
		}

		err = trk.AddProcess(step.Scope, step.Action, tr, step.Description, step.Tracked)
		if err != nil {
			return err
		}

		if _, ok := backupAfter[step.Key().String()]; ok {
			err = trk.Backup()
			if err != nil && !errors.Is(err, pipeline.ErrNoDataLoaded) {
				return err
			}
		}
	}

	return trk.Save(ctx, backend, a.cfg.State.Name)
}

func (a *app) rollback(ctx context.Context, backend persist.Backend, trk *tracker, arg string) error {
	target, err := strconv.Atoi(arg)
	if err != nil {
		return errors.Wrapf(err, "invalid order %q", arg)
	}

	err = trk.Rollback(target)
	if err != nil {
		return err
	}

	return trk.Save(ctx, backend, a.cfg.State.Name)
}

func (a *app) export(trk *tracker, path string) error {
	data, ok := trk.Data()
	if !ok {
		return pipeline.ErrNoDataLoaded
	}

	return a.writeCSV(path, data)
}

func (a *app) draw(trk *tracker, msr measure.Measure, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", path)
	}
	defer file.Close()

	err = trk.Draw(drawer.NewDOTDrawer(), msr, file)
	if err != nil {
		return err
	}

	return file.Close()
}

func (a *app) run(trk *tracker, in, out string) error {
	data, err := a.readCSV(in)
	if err != nil {
		return err
	}

	result, err := trk.Run(data, trk.TrackedKeys()...)
	if err != nil {
		return err
	}

	return a.writeCSV(out, result)
}

func (a *app) readCSV(path string) (*frame.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", path)
	}
	defer file.Close()

	return frame.ReadCSV(file, a.cfg.Null)
}

func (a *app) writeCSV(path string, data *frame.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", path)
	}
	defer file.Close()

	err = frame.WriteCSV(file, data, a.cfg.Null)
	if err != nil {
		return err
	}

	return file.Close()
}
