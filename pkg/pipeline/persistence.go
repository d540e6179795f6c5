package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/model"
	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/persist"
	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/transform"
)

// Save writes the tracker to backend under name. Replacing an existing
// artifact needs confirmation.
func (t *Tracker[D]) Save(ctx context.Context, backend persist.Backend, name string) error {
	payload, err := persist.Encode(ctx, t.state(), t.compression)
	if err != nil {
		return errors.Wrap(err, "unable to encode tracker")
	}

	err = backend.Write(ctx, name, payload, false)
	if errors.Is(err, persist.ErrAlreadyExists) {
		if !t.confirm(fmt.Sprintf("A tracker named %q already exists. Overwrite it?", name)) {
			return errors.Wrapf(ErrConfirmationDeclined, "overwrite %s", name)
		}

		err = backend.Write(ctx, name, payload, true)
	}

	if err != nil {
		return errors.Wrapf(err, "unable to save tracker %s", name)
	}

	t.logger.Info("tracker saved",
		slog.String("name", name),
		slog.String("compression", t.compression.String()),
		slog.Int("bytes", len(payload)),
	)

	return nil
}

// Load replaces the tracker content with the artifact saved under name.
// Transforms are rebuilt from catalog by name and definition. Replacing a
// non empty tracker needs confirmation.
func (t *Tracker[D]) Load(ctx context.Context, backend persist.Backend, name string, catalog *transform.Catalog[D]) error {
	payload, err := backend.Read(ctx, name)
	if err != nil {
		return errors.Wrapf(err, "unable to load tracker %s", name)
	}

	if t.hasData || t.processes.Len() > 0 {
		if !t.confirm(fmt.Sprintf("Replace the current tracker with %q?", name)) {
			return errors.Wrapf(ErrConfirmationDeclined, "load %s", name)
		}
	}

	state, err := persist.Decode[D](ctx, payload)
	if err != nil {
		return errors.Wrapf(err, "unable to decode tracker %s", name)
	}

	processes := make([]Process[D], 0, len(state.Processes))

	for _, record := range state.Processes {
		tr, err := catalog.Build(record.Transform, record.Definition)
		if err != nil {
			return errors.Wrapf(err, "unable to rebuild %s/%s", record.Scope, record.Action)
		}

		processes = append(processes, newProcess(model.NewKey(record.Scope, record.Action), tr, record.Description, record.Tracked))
	}

	err = checkState(state, len(processes))
	if err != nil {
		return err
	}

	err = t.processes.Reset(processes)
	if err != nil {
		return errors.Wrap(persist.ErrCorrupt, err.Error())
	}

	t.backups.Reset(state.Backups)
	t.data = state.Data
	t.hasData = state.HasData
	t.lastConsolidated = state.LastConsolidated

	for order, process := range processes {
		t.prepare(process, order)
	}

	t.logger.Info("tracker loaded",
		slog.String("name", name),
		slog.Int("processes", len(processes)),
		slog.Int("last_consolidated", t.lastConsolidated),
	)

	return nil
}

func (t *Tracker[D]) state() persist.State[D] {
	state := persist.State[D]{
		Backups:          t.backups.All(),
		LastConsolidated: t.lastConsolidated,
		HasData:          t.hasData,
	}

	if t.hasData {
		state.Data = t.data
	}

	for _, process := range t.processes.All() {
		state.Processes = append(state.Processes, persist.ProcessRecord{
			Scope:       process.key.Scope,
			Action:      process.key.Action,
			Description: process.Description,
			Transform:   process.Transform.Name,
			Definition:  process.Transform.Definition,
			Tracked:     process.Tracked,
		})
	}

	return state
}

func checkState[D Dataset[D]](state persist.State[D], processes int) error {
	if state.LastConsolidated < pristine || state.LastConsolidated >= processes {
		return errors.Wrapf(persist.ErrCorrupt, "last consolidated %d with %d processes", state.LastConsolidated, processes)
	}

	if !state.HasData && (state.LastConsolidated != pristine || len(state.Backups) > 0) {
		return errors.Wrap(persist.ErrCorrupt, "progress recorded without data")
	}

	for key := range state.Backups {
		if key < pristine || key > state.LastConsolidated {
			return errors.Wrapf(persist.ErrCorrupt, "backup %d beyond last consolidated %d", key, state.LastConsolidated)
		}
	}

	if state.HasData {
		err := state.Data.Validate()
		if err != nil {
			return errors.Wrap(persist.ErrCorrupt, err.Error())
		}
	}

	return nil
}
