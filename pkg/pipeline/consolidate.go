package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/model"
)

// Consolidate folds the pending processes up to order until into the
// dataset, one at a time and in order. Use Latest to reach the last process.
//
// More than one pending process requires confirmation. A tracked process
// runs its transform on a copy of the dataset; an untracked one only moves
// the cursor. On a failing transform consolidation stops there and returns a
// *ProcessError; processes before it remain consolidated. No backup is taken.
func (t *Tracker[D]) Consolidate(until int) error {
	return t.consolidate(until, false)
}

func (t *Tracker[D]) consolidate(until int, confirmed bool) error {
	if !t.hasData {
		return ErrNoDataLoaded
	}

	last := t.processes.Len() - 1
	if until > last {
		until = last
	}

	first := t.lastConsolidated + 1
	pending := until - t.lastConsolidated

	if pending <= 0 {
		return nil
	}

	if pending > 1 && !confirmed {
		msg := fmt.Sprintf("%d processes (orders %d to %d) are about to be consolidated. Do you want to continue?", pending, first, until)
		if !t.confirm(msg) {
			return errors.Wrapf(ErrConfirmationDeclined, "consolidation of orders %d to %d", first, until)
		}
	}

	for order := first; order <= until; order++ {
		err := t.consolidateOne(order)
		if err != nil {
			return err
		}
	}

	return nil
}

func (t *Tracker[D]) consolidateOne(order int) error {
	process, err := t.processes.At(order)
	if err != nil {
		return errors.Wrap(err, "unable to get process")
	}

	if !process.Tracked {
		t.lastConsolidated = order
		t.logger.Debug("untracked process skipped", slog.Int("order", order), slog.String("process", process.Key().String()))

		return nil
	}

	start := time.Now()

	data, err := apply(order, process, t.data)
	if err != nil {
		t.logger.Warn("process failed", slog.Int("order", order), slog.String("process", process.Key().String()), slog.Any("error", err))

		return err
	}

	elapsed := time.Since(start)

	t.data = data
	t.lastConsolidated = order
	t.logger.Debug("process consolidated",
		slog.Int("order", order),
		slog.String("process", process.Key().String()),
		slog.Duration("elapsed", elapsed),
	)

	t.notify("on consolidate", func(opt model.TrackerOption) error {
		return opt.OnConsolidate(process.Info(order), elapsed)
	})

	return nil
}

// apply runs the transform of process on a copy of data and checks the
// result against the dataset contract.
func apply[D Dataset[D]](order int, process Process[D], data D) (D, error) {
	var zero D

	out, err := process.Transform.Fn(data.Clone())
	if err != nil {
		return zero, newProcessError(order, process.Key(), err, false)
	}

	err = out.Validate()
	if err != nil {
		return zero, newProcessError(order, process.Key(), err, true)
	}

	return out, nil
}
