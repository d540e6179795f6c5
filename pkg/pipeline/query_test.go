package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-pipeline-tracker/internal/store"
	"github.com/askiada/go-pipeline-tracker/pkg/pipeline"
	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/model"
)

func TestGetBackup(t *testing.T) {
	t.Parallel()

	trk := newTracker(t, series{1}, pipeline.AlwaysConfirm)
	require.NoError(t, trk.AddProcess("a", "add", add(1), "", true))
	require.NoError(t, trk.Backup())
	require.NoError(t, trk.AddProcess("a", "mul", mul(2), "", true))
	require.NoError(t, trk.AddProcess("a", "push", push(3), "", true))
	require.NoError(t, trk.Backup())

	tcs := map[string]struct {
		ref       model.Ref
		cmp       store.Comparison
		want      series
		wantOrder int
		wantErr   error
	}{
		"pristine":         {ref: model.Order(-1), cmp: store.EQ, want: series{1}, wantOrder: -1},
		"exact":            {ref: model.Order(0), cmp: store.EQ, want: series{2}, wantOrder: 0},
		"floor":            {ref: model.Order(1), cmp: store.LE, want: series{2}, wantOrder: 0},
		"ceiling":          {ref: model.Order(1), cmp: store.GE, want: series{4, 3}, wantOrder: 2},
		"strictly before":  {ref: model.Identity("a", "push"), cmp: store.LT, want: series{2}, wantOrder: 0},
		"strictly after":   {ref: model.Identity("a", "mul"), cmp: store.GT, want: series{4, 3}, wantOrder: 2},
		"alias":            {ref: model.Identity("a", "add"), cmp: "=", want: series{2}, wantOrder: 0},
		"missing":          {ref: model.Order(1), cmp: store.EQ, wantErr: pipeline.ErrBackupNotFound},
		"unknown identity": {ref: model.Identity("x", "y"), cmp: store.EQ, wantErr: pipeline.ErrUnknownIdentity},
		"bad comparison":   {ref: model.Order(0), cmp: "~", wantErr: store.ErrUnknownComparison},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, order, err := trk.GetBackup(tc.ref, tc.cmp)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantOrder, order)
		})
	}
}

func partiallyConsolidated(t *testing.T) *pipeline.Tracker[series] {
	t.Helper()

	trk := newTracker(t, series{1}, &recorder{})
	require.NoError(t, trk.AddProcess("a", "add", add(1), "plus one", true))
	require.NoError(t, trk.AddProcess("b", "push", push(2), "", false))
	require.True(t, pipeline.IsDeclined(trk.AddProcess("a", "mul", mul(2), "double", true)))
	require.Equal(t, 0, trk.LastConsolidated())

	return trk
}

func TestProcesses(t *testing.T) {
	t.Parallel()

	trk := partiallyConsolidated(t)

	var (
		add  = model.NewKey("a", "add")
		push = model.NewKey("b", "push")
		mul  = model.NewKey("a", "mul")
	)

	tcs := map[string]struct {
		filter pipeline.ProcessFilter
		want   []model.Key
	}{
		"all":                   {want: []model.Key{add, push, mul}},
		"consolidated":          {filter: pipeline.ProcessFilter{Consolidated: pipeline.Bool(true)}, want: []model.Key{add}},
		"pending":               {filter: pipeline.ProcessFilter{Consolidated: pipeline.Bool(false)}, want: []model.Key{push, mul}},
		"tracked":               {filter: pipeline.ProcessFilter{Tracked: pipeline.Bool(true)}, want: []model.Key{add, mul}},
		"untracked":             {filter: pipeline.ProcessFilter{Tracked: pipeline.Bool(false)}, want: []model.Key{push}},
		"scope":                 {filter: pipeline.ProcessFilter{Scopes: []string{"a"}}, want: []model.Key{add, mul}},
		"action":                {filter: pipeline.ProcessFilter{Actions: []string{"push", "none"}}, want: []model.Key{push}},
		"pending tracked":       {filter: pipeline.ProcessFilter{Consolidated: pipeline.Bool(false), Tracked: pipeline.Bool(true)}, want: []model.Key{mul}},
		"nothing matches":       {filter: pipeline.ProcessFilter{Scopes: []string{}}, want: []model.Key{}},
		"scope and action miss": {filter: pipeline.ProcessFilter{Scopes: []string{"b"}, Actions: []string{"add"}}, want: []model.Key{}},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, trk.Processes(tc.filter))
		})
	}

	assert.Equal(t, []model.Key{add, mul}, trk.TrackedKeys())
}

func TestProcessList(t *testing.T) {
	t.Parallel()

	trk := partiallyConsolidated(t)
	assert.Equal(t, "('a', 'add'), # plus one\n('b', 'push'), # \n('a', 'mul'), # double\n", trk.ProcessList())
}

func TestStatus(t *testing.T) {
	t.Parallel()

	trk := partiallyConsolidated(t)
	require.NoError(t, trk.Backup())

	status := trk.Status()
	assert.True(t, status.HasData)
	assert.True(t, status.Pristine)
	assert.Equal(t, 0, status.LastConsolidated)
	require.Len(t, status.Lines, 3)
	assert.Equal(t, "add", status.Lines[0].Transform)
	assert.Equal(t, add(1).Fingerprint().Short(), status.Lines[0].Fingerprint)

	want := " flags | order - scope - action - description\n" +
		" > b   |     0 - a - add - plus one\n" +
		"     x |     1 - b - push - \n" +
		"       |     2 - a - mul - double\n" +
		"\n[>: last consolidated | b: backed up | x: untracked]\n"
	assert.Equal(t, want, status.String())
}

func TestRun(t *testing.T) {
	t.Parallel()

	trk := partiallyConsolidated(t)

	tcs := map[string]struct {
		keys    []model.Key
		want    series
		wantErr error
	}{
		"no process":       {want: series{5}},
		"given order":      {keys: []model.Key{model.NewKey("a", "mul"), model.NewKey("a", "add")}, want: series{11}},
		"untracked runs":   {keys: []model.Key{model.NewKey("b", "push")}, want: series{5, 2}},
		"tracked pipeline": {keys: trk.TrackedKeys(), want: series{12}},
		"unknown":          {keys: []model.Key{model.NewKey("a", "add"), model.NewKey("z", "z")}, wantErr: pipeline.ErrUnknownIdentity},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := trk.Run(series{5}, tc.keys...)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	assert.Equal(t, 0, trk.LastConsolidated())
}

func TestRunFailure(t *testing.T) {
	t.Parallel()

	trk := newTracker(t, nil, pipeline.AlwaysConfirm)
	require.NoError(t, trk.AddProcess("a", "add", add(-10), "", true))

	_, err := trk.Run(series{1}, model.NewKey("a", "add"))
	assert.ErrorIs(t, err, pipeline.ErrTypeCheck)
}

func replay(t *testing.T, trk *pipeline.Tracker[series], input <-chan series, keys []model.Key, opts ...pipeline.ReplayOption) ([]series, error) {
	t.Helper()

	output := make(chan series)
	errCh := make(chan error, 1)

	go func() {
		errCh <- trk.Replay(context.Background(), input, output, keys, opts...)
	}()

	got := []series{}
	for out := range output {
		got = append(got, out)
	}

	return got, <-errCh
}

func inputs(n int) <-chan series {
	ch := make(chan series, n)
	for i := range n {
		ch <- series{i}
	}

	close(ch)

	return ch
}

func TestReplay(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		concurrent int
	}{
		"sequential":     {concurrent: 1},
		"sequential v2":  {concurrent: 0},
		"concurrent 2":   {concurrent: 2},
		"concurrent 100": {concurrent: 100},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			trk := partiallyConsolidated(t)

			got, err := replay(t, trk, inputs(10), trk.TrackedKeys(), pipeline.ReplayConcurrency(tc.concurrent))
			require.NoError(t, err)

			want := make([]series, 10)
			for i := range want {
				want[i] = series{(i + 1) * 2}
			}

			assert.ElementsMatch(t, want, got)
		})
	}
}

func TestReplayErrors(t *testing.T) {
	t.Parallel()

	trk := newTracker(t, nil, pipeline.AlwaysConfirm)
	require.NoError(t, trk.AddProcess("a", "fail", failing(), "", true))

	t.Run("failing transform", func(t *testing.T) {
		t.Parallel()

		got, err := replay(t, trk, inputs(3), []model.Key{model.NewKey("a", "fail")}, pipeline.ReplayConcurrency(2))
		assert.ErrorIs(t, err, errBoom)
		assert.Empty(t, got)
	})

	t.Run("unknown process", func(t *testing.T) {
		t.Parallel()

		_, err := replay(t, trk, inputs(1), []model.Key{model.NewKey("a", "missing")})
		assert.ErrorIs(t, err, pipeline.ErrUnknownIdentity)
	})

	t.Run("nil input", func(t *testing.T) {
		t.Parallel()

		_, err := replay(t, trk, nil, nil)
		assert.ErrorIs(t, err, pipeline.ErrInputMustBeSet)
	})

	t.Run("nil output", func(t *testing.T) {
		t.Parallel()

		err := trk.Replay(context.Background(), inputs(1), nil, nil)
		assert.ErrorIs(t, err, pipeline.ErrInputMustBeSet)
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		input := make(chan series)
		output := make(chan series)

		err := trk.Replay(ctx, input, output, nil)
		assert.ErrorIs(t, err, context.Canceled)

		_, open := <-output
		assert.False(t, open)
	})
}
