package pipeline

import (
	"io"
	"log/slog"
	"math"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipeline-tracker/internal/registry"
	"github.com/askiada/go-pipeline-tracker/internal/store"
	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/model"
	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/persist"
)

// Latest consolidates through the last process.
const Latest = math.MaxInt

// pristine is the backup key of the dataset the tracker started from.
const pristine = -1

// Dataset is the contract of the values a tracker transforms.
type Dataset[D any] interface {
	// Clone returns a deep, independent copy.
	Clone() D
	// Validate checks the structural contract of the value. Transform
	// results failing it are reported as type check failures.
	Validate() error
}

// Tracker is an ordered pipeline of processes applied to a single dataset.
//
// A Tracker is not safe for concurrent use: callers must serialize every
// call. Datasets crossing the tracker boundary are always copied.
type Tracker[D Dataset[D]] struct {
	data             D
	processes        *registry.Registry[Process[D]]
	backups          *store.Snapshots[D]
	confirmer        Confirmer
	logger           *slog.Logger
	opts             []model.TrackerOption
	lastConsolidated int
	compression      persist.Compression
	hasData          bool
}

// New creates a tracker.
func New[D Dataset[D]](opts ...Option[D]) (*Tracker[D], error) {
	t := &Tracker[D]{
		processes:        registry.New[Process[D]](),
		backups:          store.NewSnapshots[D](),
		confirmer:        NeverConfirm,
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		lastConsolidated: pristine,
		compression:      persist.NoCompression,
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.hasData {
		t.backups.Put(pristine, t.data.Clone())
	}

	for _, opt := range t.opts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply tracker option")
		}
	}

	return t, nil
}

// Close runs the Finish hook of every tracker option.
func (t *Tracker[D]) Close() error {
	for _, opt := range t.opts {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish tracker option")
		}
	}

	return nil
}

// Data returns a copy of the current dataset. The boolean is false when no
// data is loaded.
func (t *Tracker[D]) Data() (D, bool) {
	var zero D

	if !t.hasData {
		return zero, false
	}

	return t.data.Clone(), true
}

// LastConsolidated returns the order of the last process folded into the
// dataset, -1 when none.
func (t *Tracker[D]) LastConsolidated() int {
	return t.lastConsolidated
}

// Len returns the number of processes.
func (t *Tracker[D]) Len() int {
	return t.processes.Len()
}

// BackupKeys lists the orders holding a snapshot, in ascending order.
func (t *Tracker[D]) BackupKeys() []int {
	return t.backups.Keys()
}

// notify runs a hook on every tracker option once the tracker state has
// changed. Hook errors are logged and never undo the operation.
func (t *Tracker[D]) notify(hook string, fn func(opt model.TrackerOption) error) {
	for _, opt := range t.opts {
		err := fn(opt)
		if err != nil {
			t.logger.Warn("tracker option failed", slog.String("hook", hook), slog.Any("error", err))
		}
	}
}

func (t *Tracker[D]) confirm(message string) bool {
	ok := t.confirmer.Confirm(message)
	if !ok {
		t.logger.Warn("operation not confirmed", slog.String("prompt", message))
	}

	return ok
}

func (t *Tracker[D]) find(scope, action string) (model.Key, int, error) {
	key := model.NewKey(scope, action)

	order, ok := t.processes.Find(key)
	if !ok {
		return key, -1, newIdentityError(key, ErrUnknownIdentity)
	}

	return key, order, nil
}
