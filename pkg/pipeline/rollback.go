package pipeline

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/model"
)

// Rollback rewinds the dataset to the nearest backup at or before order target
// and drops every backup above it. It only moves backward: a target at or
// after the last consolidated process is a no-op. Processes are untouched.
func (t *Tracker[D]) Rollback(target int) error {
	if target >= t.lastConsolidated {
		return nil
	}

	backupID, ok := t.backups.Floor(target)
	if !ok {
		return errors.Wrapf(ErrNoValidBackup, "rollback to order %d", target)
	}

	snapshot, ok := t.backups.Get(backupID)
	if !ok {
		return errors.Wrapf(ErrNoValidBackup, "backup %d vanished", backupID)
	}

	from := t.lastConsolidated

	t.data = snapshot.Clone()
	t.hasData = true
	t.lastConsolidated = backupID
	purged := t.backups.PurgeAbove(backupID)

	t.logger.Info("rolled back",
		slog.Int("from", from),
		slog.Int("target", target),
		slog.Int("backup", backupID),
		slog.Any("purged", purged),
	)

	t.notify("on rollback", func(opt model.TrackerOption) error {
		return opt.OnRollback(from, backupID)
	})

	return nil
}

// Backup stores a copy of the dataset under the last consolidated order,
// replacing any previous snapshot there.
func (t *Tracker[D]) Backup() error {
	if !t.hasData {
		return errors.Wrap(ErrNoDataLoaded, "unable to backup")
	}

	t.backups.Put(t.lastConsolidated, t.data.Clone())
	t.logger.Info("backup created", slog.Int("order", t.lastConsolidated))

	t.notify("on backup", func(opt model.TrackerOption) error {
		return opt.OnBackup(t.lastConsolidated)
	})

	return nil
}
