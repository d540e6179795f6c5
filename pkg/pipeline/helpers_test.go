package pipeline_test

import (
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-pipeline-tracker/pkg/pipeline"
	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/model"
	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/transform"
)

// series is the dataset used by most tests. Negative values break its contract.
type series []int

var errNegative = errors.New("negative value")

func (s series) Clone() series {
	if s == nil {
		return nil
	}

	return append(series(nil), s...)
}

func (s series) Validate() error {
	for _, v := range s {
		if v < 0 {
			return errNegative
		}
	}

	return nil
}

func intFactory(fn func(n int) transform.Func[series]) transform.Factory[series] {
	return func(definition string) (transform.Func[series], error) {
		n, err := strconv.Atoi(definition)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid definition %q", definition)
		}

		return fn(n), nil
	}
}

func addFn(n int) transform.Func[series] {
	return func(s series) (series, error) {
		for i := range s {
			s[i] += n
		}

		return s, nil
	}
}

func mulFn(n int) transform.Func[series] {
	return func(s series) (series, error) {
		for i := range s {
			s[i] *= n
		}

		return s, nil
	}
}

func pushFn(n int) transform.Func[series] {
	return func(s series) (series, error) {
		return append(s, n), nil
	}
}

func add(n int) transform.Transform[series] {
	return transform.New("add", strconv.Itoa(n), addFn(n))
}

func mul(n int) transform.Transform[series] {
	return transform.New("mul", strconv.Itoa(n), mulFn(n))
}

func push(n int) transform.Transform[series] {
	return transform.New("push", strconv.Itoa(n), pushFn(n))
}

var errBoom = errors.New("boom")

func failing() transform.Transform[series] {
	return transform.New("fail", "", func(series) (series, error) { return nil, errBoom })
}

func seriesCatalog(t *testing.T) *transform.Catalog[series] {
	t.Helper()

	cat := transform.NewCatalog[series]()
	require.NoError(t, cat.Register("add", intFactory(addFn)))
	require.NoError(t, cat.Register("mul", intFactory(mulFn)))
	require.NoError(t, cat.Register("push", intFactory(pushFn)))

	return cat
}

// recorder is a Confirmer answering a fixed value and remembering prompts.
type recorder struct {
	prompts []string
	answer  bool
}

func (r *recorder) Confirm(message string) bool {
	r.prompts = append(r.prompts, message)

	return r.answer
}

func newTracker(t *testing.T, data series, confirmer pipeline.Confirmer, opts ...pipeline.Option[series]) *pipeline.Tracker[series] {
	t.Helper()

	base := []pipeline.Option[series]{
		pipeline.WithConfirmer[series](confirmer),
		pipeline.WithLogger[series](slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	if data != nil {
		base = append(base, pipeline.WithData(data))
	}

	trk, err := pipeline.New(append(base, opts...)...)
	require.NoError(t, err)

	return trk
}

func current(t *testing.T, trk *pipeline.Tracker[series]) series {
	t.Helper()

	d, ok := trk.Data()
	require.True(t, ok)

	return d
}

// events records every hook call of a tracker.
type events struct {
	calls []string
}

func (e *events) New() error {
	e.calls = append(e.calls, "new")

	return nil
}

func (e *events) PrepareProcess(process *model.ProcessInfo) error {
	e.calls = append(e.calls, "prepare "+process.Key.String()+" "+strconv.Itoa(process.Order))

	return nil
}

func (e *events) OnConsolidate(process *model.ProcessInfo, _ time.Duration) error {
	e.calls = append(e.calls, "consolidate "+process.Key.String())

	return nil
}

func (e *events) OnRollback(from, to int) error {
	e.calls = append(e.calls, "rollback "+strconv.Itoa(from)+" "+strconv.Itoa(to))

	return nil
}

func (e *events) OnBackup(order int) error {
	e.calls = append(e.calls, "backup "+strconv.Itoa(order))

	return nil
}

func (e *events) Finish() error {
	e.calls = append(e.calls, "finish")

	return nil
}

var errHook = errors.New("hook failed")

// failingHooks records like events but every operation hook fails.
type failingHooks struct {
	events
}

func (f *failingHooks) PrepareProcess(process *model.ProcessInfo) error {
	_ = f.events.PrepareProcess(process)

	return errHook
}

func (f *failingHooks) OnConsolidate(process *model.ProcessInfo, d time.Duration) error {
	_ = f.events.OnConsolidate(process, d)

	return errHook
}

func (f *failingHooks) OnRollback(from, to int) error {
	_ = f.events.OnRollback(from, to)

	return errHook
}

func (f *failingHooks) OnBackup(order int) error {
	_ = f.events.OnBackup(order)

	return errHook
}
