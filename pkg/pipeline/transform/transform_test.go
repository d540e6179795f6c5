package transform_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/transform"
)

func addN(n int) transform.Func[int] {
	return func(data int) (int, error) { return data + n, nil }
}

func TestSame(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		a, b transform.Transform[int]
		want bool
	}{
		"same name and definition, different closures": {
			a:    transform.New("add", "1", addN(1)),
			b:    transform.New("add", "1", addN(2)),
			want: true,
		},
		"different definition": {
			a: transform.New("add", "1", addN(1)),
			b: transform.New("add", "2", addN(2)),
		},
		"different name": {
			a: transform.New("add", "1", addN(1)),
			b: transform.New("sub", "1", addN(1)),
		},
		"separator keeps fields apart": {
			a: transform.New("ab", "c", addN(1)),
			b: transform.New("a", "bc", addN(1)),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, transform.Same(tc.a, tc.b))
		})
	}
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	fp := transform.New("add", "1", addN(1)).Fingerprint()
	assert.Equal(t, transform.Sum("add", "1"), fp)
	assert.Len(t, fp.String(), 64)
	assert.Len(t, fp.Short(), 12)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, transform.Identity[int]().Validate())
	require.ErrorIs(t, transform.New("", "", addN(1)).Validate(), transform.ErrMissingName)
	require.Error(t, transform.New[int]("nil", "", nil).Validate())
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	cat := transform.NewCatalog[int]()
	require.NoError(t, cat.Register("add", func(definition string) (transform.Func[int], error) {
		n, err := strconv.Atoi(definition)
		if err != nil {
			return nil, err
		}

		return addN(n), nil
	}))
	require.ErrorIs(t, cat.Register("add", nil), transform.ErrAlreadyRegistered)
	require.ErrorIs(t, cat.Register("", nil), transform.ErrMissingName)

	tr, err := cat.Build("add", "3")
	require.NoError(t, err)
	assert.Equal(t, "add", tr.Name)

	got, err := tr.Fn(4)
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	_, err = cat.Build("add", "three")
	require.Error(t, err)

	_, err = cat.Build("mul", "3")
	require.ErrorIs(t, err, transform.ErrUnknownTransform)

	assert.Equal(t, []string{"add"}, cat.Names())
}
