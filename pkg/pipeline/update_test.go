package pipeline_test

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-pipeline-tracker/pkg/frame"
	"github.com/askiada/go-pipeline-tracker/pkg/pipeline"
	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/transform"
)

func fillCity(t *testing.T, value string) transform.Transform[*frame.Frame] {
	t.Helper()

	tr, err := frame.Transform("fillna", map[string]string{"column": "city", "value": value})
	require.NoError(t, err)

	return tr
}

func TestUpdateProcessOnFrame(t *testing.T) {
	t.Parallel()

	d0, err := frame.ReadCSV(strings.NewReader("name,city\nalice,paris\nbob,\n,london\n"), "")
	require.NoError(t, err)

	f1, f2 := fillCity(t, "x"), fillCity(t, "y")

	want1, err := f1.Fn(d0.Clone())
	require.NoError(t, err)

	want2, err := f2.Fn(d0.Clone())
	require.NoError(t, err)

	rec := &recorder{}
	trk, err := pipeline.New(
		pipeline.WithData(d0),
		pipeline.WithConfirmer[*frame.Frame](rec),
		pipeline.WithLogger[*frame.Frame](slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, err)

	require.NoError(t, trk.AddProcess("col_a", "fillna", f1, "fill", true))
	assert.Equal(t, 0, trk.LastConsolidated())

	got, ok := trk.Data()
	require.True(t, ok)
	assert.True(t, got.Equal(want1), got.String())

	// equivalent transform, only the description changes
	require.NoError(t, trk.UpdateProcess("col_a", "fillna", fillCity(t, "x"), "fill cities", true))
	assert.Empty(t, rec.prompts)
	assert.Equal(t, 0, trk.LastConsolidated())
	assert.Equal(t, "fill cities", trk.Status().Lines[0].Description)

	err = trk.UpdateProcess("col_a", "fillna", f2, "fill cities", true)
	require.True(t, pipeline.IsDeclined(err))
	require.Len(t, rec.prompts, 1)
	assert.Contains(t, rec.prompts[0], "return to order -1")

	got, _ = trk.Data()
	assert.True(t, got.Equal(want1), got.String())
	assert.Equal(t, 0, trk.LastConsolidated())

	rec.answer = true
	require.NoError(t, trk.UpdateProcess("col_a", "fillna", f2, "fill cities", true))
	assert.Len(t, rec.prompts, 2)

	got, _ = trk.Data()
	assert.True(t, got.Equal(want2), got.String())
	assert.Equal(t, 0, trk.LastConsolidated())
	assert.Equal(t, []int{-1}, trk.BackupKeys())
}

func TestUpdateProcessNotConsolidatedNeverAsks(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	trk := newTracker(t, series{1}, rec)

	require.NoError(t, trk.AddProcess("a", "add", add(1), "", true))
	require.NoError(t, trk.AddProcess("a", "push", push(1), "", false))

	require.NoError(t, trk.UpdateProcess("a", "push", mul(5), "", true))
	require.NoError(t, trk.UpdateProcess("a", "push", push(3), "", false))
	require.NoError(t, trk.UpdateProcess("a", "push", push(4), "", true))

	assert.Empty(t, rec.prompts)
	assert.Equal(t, 0, trk.LastConsolidated())
	assert.Equal(t, series{2}, current(t, trk))
}

func TestUpdateProcessClassification(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		oldTracked bool
		newTracked bool
		changed    bool
		wantPrompt bool
		want       series
	}{
		"tracked same transform":     {oldTracked: true, newTracked: true, want: series{2}},
		"tracked new transform":      {oldTracked: true, newTracked: true, changed: true, wantPrompt: true, want: series{3}},
		"becomes untracked":          {oldTracked: true, newTracked: false, wantPrompt: true, want: series{1}},
		"becomes tracked":            {oldTracked: false, newTracked: true, wantPrompt: true, want: series{2}},
		"untracked new transform":    {oldTracked: false, newTracked: false, changed: true, want: series{1}},
		"untracked same transform":   {oldTracked: false, newTracked: false, want: series{1}},
		"becomes tracked, new trans": {oldTracked: false, newTracked: true, changed: true, wantPrompt: true, want: series{3}},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			rec := &recorder{answer: true}
			trk := newTracker(t, series{1}, rec)

			require.NoError(t, trk.AddProcess("a", "add", add(1), "", tc.oldTracked))
			require.NoError(t, trk.Consolidate(pipeline.Latest))

			next := add(1)
			if tc.changed {
				next = add(2)
			}

			require.NoError(t, trk.UpdateProcess("a", "add", next, "updated", tc.newTracked))
			assert.Equal(t, tc.wantPrompt, len(rec.prompts) == 1)
			assert.Equal(t, tc.want, current(t, trk))
			assert.Equal(t, 0, trk.LastConsolidated())
			assert.Equal(t, tc.newTracked, trk.Status().Lines[0].Tracked)
		})
	}
}

func TestUpdateProcessReplaysFromLastValidBackup(t *testing.T) {
	t.Parallel()

	rec := &recorder{answer: true}
	trk := newTracker(t, series{1}, rec)

	require.NoError(t, trk.AddProcess("a", "one", add(1), "", true))
	require.NoError(t, trk.Backup())
	require.NoError(t, trk.AddProcess("a", "two", add(2), "", true))
	require.NoError(t, trk.AddProcess("a", "three", add(3), "", true))
	require.Equal(t, series{7}, current(t, trk))

	require.NoError(t, trk.UpdateProcess("a", "three", mul(2), "", true))
	require.Len(t, rec.prompts, 1)
	assert.Contains(t, rec.prompts[0], "return to order 0")
	assert.Equal(t, series{8}, current(t, trk))
	assert.Equal(t, 2, trk.LastConsolidated())
	assert.Equal(t, []int{-1, 0}, trk.BackupKeys())
}

func TestUpdateProcessLeavesLaterProcessesPending(t *testing.T) {
	t.Parallel()

	rec := &recorder{answer: true}
	trk := newTracker(t, series{1}, rec)

	require.NoError(t, trk.AddProcess("a", "one", add(1), "", true))
	require.NoError(t, trk.AddProcess("a", "two", mul(10), "", true))
	require.Equal(t, series{20}, current(t, trk))

	require.NoError(t, trk.UpdateProcess("a", "one", add(2), "", true))
	assert.Equal(t, 0, trk.LastConsolidated())
	assert.Equal(t, series{3}, current(t, trk))

	require.NoError(t, trk.Consolidate(pipeline.Latest))
	assert.Equal(t, series{30}, current(t, trk))
}

func TestUpdateProcessUnknown(t *testing.T) {
	t.Parallel()

	trk := newTracker(t, series{1}, pipeline.AlwaysConfirm)

	err := trk.UpdateProcess("a", "add", add(1), "", true)
	assert.ErrorIs(t, err, pipeline.ErrUnknownIdentity)
}
