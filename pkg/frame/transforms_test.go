package frame_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-pipeline-tracker/pkg/frame"
)

func apply(t *testing.T, name string, args map[string]string, in *frame.Frame) (*frame.Frame, error) {
	t.Helper()

	tr, err := frame.Transform(name, args)
	require.NoError(t, err)

	return tr.Fn(in.Clone())
}

func cells(t *testing.T, f *frame.Frame, column string) []string {
	t.Helper()

	col, err := f.Column(column)
	require.NoError(t, err)

	res := make([]string, len(col.Values))
	for i, v := range col.Values {
		res[i] = v
		if col.Nulls[i] {
			res[i] = "<null>"
		}
	}

	return res
}

func TestBuiltins(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		name   string
		args   map[string]string
		column string
		want   []string
		header []string
	}{
		"fillna": {
			name: "fillna", args: map[string]string{"column": "city", "value": "unknown"},
			column: "city", want: []string{"paris", "unknown", "london"},
		},
		"upper": {
			name: "upper", args: map[string]string{"column": "name"},
			column: "name", want: []string{"ALICE", "BOB", "<null>"},
		},
		"replace": {
			name: "replace", args: map[string]string{"column": "city", "old": "paris", "new": "lyon"},
			column: "city", want: []string{"lyon", "<null>", "london"},
		},
		"dropna column": {
			name: "dropna", args: map[string]string{"column": "city"},
			column: "name", want: []string{"alice", "<null>"},
		},
		"dropna any": {
			name: "dropna", args: map[string]string{},
			column: "name", want: []string{"alice"},
		},
		"drop": {
			name: "drop", args: map[string]string{"column": "city"},
			header: []string{"name"},
		},
		"rename": {
			name: "rename", args: map[string]string{"from": "city", "to": "town"},
			header: []string{"name", "town"},
		},
		"identity": {
			name: "identity", column: "city", want: []string{"paris", "<null>", "london"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := apply(t, tc.name, tc.args, readSample(t))
			require.NoError(t, err)
			require.NoError(t, got.Validate())

			if tc.header != nil {
				assert.Equal(t, tc.header, got.Header())
			}

			if tc.want != nil {
				assert.Equal(t, tc.want, cells(t, got, tc.column))
			}
		})
	}
}

func TestBuiltinsMissingArguments(t *testing.T) {
	t.Parallel()

	_, err := frame.Transform("fillna", map[string]string{"column": "city"})
	require.ErrorIs(t, err, frame.ErrMissingArgument)

	_, err = frame.Transform("rename", map[string]string{"from": "city"})
	require.ErrorIs(t, err, frame.ErrMissingArgument)
}

func TestBuiltinsUnknownColumn(t *testing.T) {
	t.Parallel()

	_, err := apply(t, "upper", map[string]string{"column": "country"}, readSample(t))
	assert.Error(t, err)
}

func TestRenameToExistingBreaksContract(t *testing.T) {
	t.Parallel()

	got, err := apply(t, "rename", map[string]string{"from": "city", "to": "name"}, readSample(t))
	require.NoError(t, err)
	assert.ErrorIs(t, got.Validate(), frame.ErrInvalidFrame)
}

func TestDefinitionIsCanonical(t *testing.T) {
	t.Parallel()

	a := frame.Definition(map[string]string{"column": "city", "value": "x"})
	b := frame.Definition(map[string]string{"value": "x", "column": "city"})
	assert.Equal(t, a, b)
	assert.Equal(t, "column=city&value=x", a)
}

func TestCatalogNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		[]string{"drop", "dropna", "fillna", "identity", "lower", "rename", "replace", "trim", "upper"},
		frame.Catalog().Names(),
	)
}
