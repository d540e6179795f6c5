package pipeline

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/model"
)

// Replay runs the named processes on every dataset received from input and
// sends the results to output, which is closed on return. It stops on the
// first error or when ctx is done. The process definitions are captured
// before the first dataset is read, so the tracker can keep being used
// meanwhile. With a concurrency above one, output order is not guaranteed.
func (t *Tracker[D]) Replay(ctx context.Context, input <-chan D, output chan<- D, keys []model.Key, opts ...ReplayOption) error {
	if output == nil {
		return ErrInputMustBeSet
	}

	defer close(output)

	if input == nil {
		return ErrInputMustBeSet
	}

	cfg := &replayConfig{concurrent: 1}
	for _, opt := range opts {
		opt(cfg)
	}

	plan, err := t.plan(keys)
	if err != nil {
		return err
	}

	replayFn := func(data D) (D, error) {
		return runPlan(plan, data)
	}

	if cfg.concurrent <= 1 {
		return sequentialReplay(ctx, 1, input, output, replayFn)
	}

	return concurrentReplay(ctx, cfg.concurrent, input, output, replayFn)
}

func sequentialReplay[D any](ctx context.Context, goIdx int, input <-chan D, output chan<- D, replayFn func(D) (D, error)) error {
	for {
		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "go routine %d", goIdx)
		case in, ok := <-input:
			if !ok {
				return nil
			}

			out, err := replayFn(in)
			if err != nil {
				return errors.Wrapf(err, "go routine %d", goIdx)
			}

			// check the context again so running go routines stop
			// pushing results once one of them failed
			select {
			case <-ctx.Done():
				return errors.Wrapf(ctx.Err(), "go routine %d", goIdx)
			case output <- out:
			}
		}
	}
}

func concurrentReplay[D any](ctx context.Context, concurrent int, input <-chan D, output chan<- D, replayFn func(D) (D, error)) error {
	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(concurrent)

	// each consumer stops as soon as one of them fails
	for goIdx := range concurrent {
		errGrp.Go(func() error {
			return sequentialReplay(dCtx, goIdx, input, output, replayFn)
		})
	}

	return errGrp.Wait()
}
