package pipeline

import (
	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/model"
)

type resolvedProcess[D any] struct {
	process Process[D]
	order   int
}

// Run applies the named processes, in the given order, to a copy of data and
// returns the result. Tracked flags are ignored and the tracker state is not
// touched. Every key is checked before anything runs.
func (t *Tracker[D]) Run(data D, keys ...model.Key) (D, error) {
	var zero D

	plan, err := t.plan(keys)
	if err != nil {
		return zero, err
	}

	return runPlan(plan, data)
}

// TrackedKeys returns the keys of the tracked processes in order: the
// pipeline a consolidation would apply.
func (t *Tracker[D]) TrackedKeys() []model.Key {
	return t.Processes(ProcessFilter{Tracked: Bool(true)})
}

func (t *Tracker[D]) plan(keys []model.Key) ([]resolvedProcess[D], error) {
	plan := make([]resolvedProcess[D], len(keys))

	for i, key := range keys {
		order, ok := t.processes.Find(key)
		if !ok {
			return nil, newIdentityError(key, ErrUnknownIdentity)
		}

		process, err := t.processes.At(order)
		if err != nil {
			return nil, newIdentityError(key, err)
		}

		plan[i] = resolvedProcess[D]{process: process, order: order}
	}

	return plan, nil
}

func runPlan[D Dataset[D]](plan []resolvedProcess[D], data D) (D, error) {
	data = data.Clone()

	for _, step := range plan {
		out, err := apply(step.order, step.process, data)
		if err != nil {
			var zero D

			return zero, err
		}

		data = out
	}

	return data, nil
}
