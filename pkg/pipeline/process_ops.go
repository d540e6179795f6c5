package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/model"
	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/transform"
)

// AddProcess appends a process. When scope and action already name a
// process, the call is an UpdateProcess instead. A tracked process is
// consolidated right away when data is loaded.
func (t *Tracker[D]) AddProcess(scope, action string, tr transform.Transform[D], description string, tracked bool) error {
	key := model.NewKey(scope, action)

	if _, ok := t.processes.Find(key); ok {
		t.logger.Debug("process exists, updating it", slog.String("process", key.String()), slog.Any("reason", ErrDuplicateIdentity))

		return t.UpdateProcess(scope, action, tr, description, tracked)
	}

	err := tr.Validate()
	if err != nil {
		return newIdentityError(key, err)
	}

	process := newProcess(key, tr, description, tracked)

	err = t.processes.Append(process)
	if err != nil {
		return newIdentityError(key, err)
	}

	order := t.processes.Len() - 1

	t.prepare(process, order)

	t.logger.Debug("process added", slog.Int("order", order), slog.String("process", key.String()), slog.Bool("tracked", tracked))

	if !tracked {
		return nil
	}

	err = t.Consolidate(Latest)
	if errors.Is(err, ErrNoDataLoaded) {
		return nil
	}

	return err
}

// UpdateProcess replaces the definition of an existing process.
//
// When the process is consolidated and the update changes what it does
// (its tracked flag flips, or it stays tracked with a different transform),
// the dataset is rolled back before it and replayed through it, after
// confirmation. Any other update is applied in place.
func (t *Tracker[D]) UpdateProcess(scope, action string, tr transform.Transform[D], description string, tracked bool) error {
	key, order, err := t.find(scope, action)
	if err != nil {
		return err
	}

	err = tr.Validate()
	if err != nil {
		return newIdentityError(key, err)
	}

	old, err := t.processes.At(order)
	if err != nil {
		return errors.Wrap(err, "unable to get process")
	}

	updated := newProcess(key, tr, description, tracked)

	alreadyConsolidated := t.lastConsolidated >= order
	trackedChanged := old.Tracked != tracked
	bothTracked := old.Tracked && tracked
	transformChanged := !transform.Same(old.Transform, tr)

	if !(alreadyConsolidated && (trackedChanged || (bothTracked && transformChanged))) {
		return t.replace(updated, order)
	}

	lastValid, ok := t.backups.Floor(order - 1)
	if !ok {
		return errors.Wrapf(ErrNoValidBackup, "update of process %d [%s]", order, key)
	}

	msg := fmt.Sprintf(`Process %d [%s] is consolidated and its definition changes.
If you continue, the consolidation will return to order %d (last valid backup).
Every process after it must be re-executed. Do you want to continue?`, order, key, lastValid)
	if !t.confirm(msg) {
		return errors.Wrapf(ErrConfirmationDeclined, "update of process %d [%s]", order, key)
	}

	err = t.Rollback(order - 1)
	if err != nil {
		return err
	}

	err = t.replace(updated, order)
	if err != nil {
		return err
	}

	return t.consolidate(order, true)
}

// SetProcessOrder moves a process to newOrder. The dataset is first rolled
// back before the lowest order involved, since the consolidated state
// between both orders depended on the previous ordering. It does not
// consolidate; see MoveAndConsolidate.
func (t *Tracker[D]) SetProcessOrder(scope, action string, newOrder int) error {
	key, order, err := t.find(scope, action)
	if err != nil {
		return err
	}

	if newOrder < 0 || newOrder >= t.processes.Len() {
		return errors.Wrapf(ErrOrderOutOfRange, "order %d with %d processes", newOrder, t.processes.Len())
	}

	if newOrder == order {
		return nil
	}

	err = t.Rollback(min(order, newOrder) - 1)
	if err != nil {
		return err
	}

	err = t.processes.Move(order, newOrder)
	if err != nil {
		return errors.Wrap(err, "unable to move process")
	}

	t.logger.Info("process moved", slog.String("process", key.String()), slog.Int("from", order), slog.Int("to", newOrder))

	return nil
}

// MoveAndConsolidate moves a process like SetProcessOrder then consolidates
// through the last process.
func (t *Tracker[D]) MoveAndConsolidate(scope, action string, newOrder int) error {
	err := t.SetProcessOrder(scope, action, newOrder)
	if err != nil {
		return err
	}

	err = t.Consolidate(Latest)
	if errors.Is(err, ErrNoDataLoaded) {
		return nil
	}

	return err
}

// RemoveProcess deletes a process after rolling the dataset back before it.
// It does not consolidate the processes that followed it.
func (t *Tracker[D]) RemoveProcess(scope, action string) error {
	key, order, err := t.find(scope, action)
	if err != nil {
		return err
	}

	err = t.Rollback(order - 1)
	if err != nil {
		return err
	}

	_, err = t.processes.RemoveAt(order)
	if err != nil {
		return errors.Wrap(err, "unable to remove process")
	}

	t.logger.Info("process removed", slog.String("process", key.String()), slog.Int("order", order))

	return nil
}

func (t *Tracker[D]) replace(process Process[D], order int) error {
	err := t.processes.ReplaceAt(order, process)
	if err != nil {
		return errors.Wrap(err, "unable to replace process")
	}

	t.prepare(process, order)

	return nil
}

func (t *Tracker[D]) prepare(process Process[D], order int) {
	t.notify("prepare process", func(opt model.TrackerOption) error {
		return opt.PrepareProcess(process.Info(order))
	})
}
