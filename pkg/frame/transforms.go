package frame

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/transform"
)

// ErrMissingArgument is returned when a transform definition lacks a parameter.
var ErrMissingArgument = errors.New("missing transform argument")

// Definition encodes transform arguments in a canonical form: keys are
// sorted, so the same arguments always give the same fingerprint.
func Definition(args map[string]string) string {
	values := url.Values{}
	for k, v := range args {
		values.Set(k, v)
	}

	return values.Encode()
}

type args struct {
	values url.Values
}

func parseArgs(definition string) (args, error) {
	values, err := url.ParseQuery(definition)
	if err != nil {
		return args{}, errors.Wrapf(err, "unable to parse definition %q", definition)
	}

	return args{values: values}, nil
}

func (a args) required(name string) (string, error) {
	if !a.values.Has(name) {
		return "", errors.Wrap(ErrMissingArgument, name)
	}

	return a.values.Get(name), nil
}

func (a args) optional(name string) string {
	return a.values.Get(name)
}

// Transform builds a catalog transform from its arguments.
func Transform(name string, arguments map[string]string) (transform.Transform[*Frame], error) {
	return Catalog().Build(name, Definition(arguments))
}

// Catalog returns a catalog holding every built-in frame transform.
func Catalog() *transform.Catalog[*Frame] {
	cat := transform.NewCatalog[*Frame]()
	for name, factory := range builtins {
		// names are unique keys of builtins
		_ = cat.Register(name, factory)
	}

	return cat
}

var builtins = map[string]transform.Factory[*Frame]{
	"identity": func(string) (transform.Func[*Frame], error) {
		return func(f *Frame) (*Frame, error) { return f, nil }, nil
	},
	"fillna":  columnValueFactory("value", fillNA),
	"dropna":  dropNAFactory,
	"drop":    columnFactory(dropColumn),
	"rename":  renameFactory,
	"upper":   mapFactory(strings.ToUpper),
	"lower":   mapFactory(strings.ToLower),
	"trim":    mapFactory(strings.TrimSpace),
	"replace": replaceFactory,
}

func columnFactory(apply func(f *Frame, column string) error) transform.Factory[*Frame] {
	return func(definition string) (transform.Func[*Frame], error) {
		a, err := parseArgs(definition)
		if err != nil {
			return nil, err
		}

		column, err := a.required("column")
		if err != nil {
			return nil, err
		}

		return func(f *Frame) (*Frame, error) {
			return f, apply(f, column)
		}, nil
	}
}

func columnValueFactory(param string, apply func(f *Frame, column, value string) error) transform.Factory[*Frame] {
	return func(definition string) (transform.Func[*Frame], error) {
		a, err := parseArgs(definition)
		if err != nil {
			return nil, err
		}

		column, err := a.required("column")
		if err != nil {
			return nil, err
		}

		value, err := a.required(param)
		if err != nil {
			return nil, err
		}

		return func(f *Frame) (*Frame, error) {
			return f, apply(f, column, value)
		}, nil
	}
}

func mapFactory(fn func(string) string) transform.Factory[*Frame] {
	return columnFactory(func(f *Frame, column string) error {
		col, err := f.Column(column)
		if err != nil {
			return err
		}

		for r, v := range col.Values {
			if !col.Nulls[r] {
				col.Values[r] = fn(v)
			}
		}

		return nil
	})
}

func fillNA(f *Frame, column, value string) error {
	col, err := f.Column(column)
	if err != nil {
		return err
	}

	for r, null := range col.Nulls {
		if null {
			col.Values[r] = value
			col.Nulls[r] = false
		}
	}

	return nil
}

func dropColumn(f *Frame, column string) error {
	i, ok := f.Index(column)
	if !ok {
		return errors.Errorf("column %q not found", column)
	}

	f.Columns = append(f.Columns[:i], f.Columns[i+1:]...)

	return nil
}

// dropNAFactory removes rows with a missing cell in column, or in any
// column when no column is given.
func dropNAFactory(definition string) (transform.Func[*Frame], error) {
	a, err := parseArgs(definition)
	if err != nil {
		return nil, err
	}

	column := a.optional("column")

	return func(f *Frame) (*Frame, error) {
		cols := f.Columns
		if column != "" {
			col, err := f.Column(column)
			if err != nil {
				return nil, err
			}

			cols = []Column{*col}
		}

		keep := make([]bool, f.Rows())
		for r := range keep {
			keep[r] = true

			for _, col := range cols {
				if col.Nulls[r] {
					keep[r] = false

					break
				}
			}
		}

		f.keepRows(keep)

		return f, nil
	}, nil
}

func renameFactory(definition string) (transform.Func[*Frame], error) {
	a, err := parseArgs(definition)
	if err != nil {
		return nil, err
	}

	from, err := a.required("from")
	if err != nil {
		return nil, err
	}

	to, err := a.required("to")
	if err != nil {
		return nil, err
	}

	return func(f *Frame) (*Frame, error) {
		col, err := f.Column(from)
		if err != nil {
			return nil, err
		}

		col.Name = to

		return f, nil
	}, nil
}

func replaceFactory(definition string) (transform.Func[*Frame], error) {
	a, err := parseArgs(definition)
	if err != nil {
		return nil, err
	}

	column, err := a.required("column")
	if err != nil {
		return nil, err
	}

	old, err := a.required("old")
	if err != nil {
		return nil, err
	}

	replacement := a.optional("new")

	return func(f *Frame) (*Frame, error) {
		col, err := f.Column(column)
		if err != nil {
			return nil, err
		}

		for r, v := range col.Values {
			if !col.Nulls[r] && v == old {
				col.Values[r] = replacement
			}
		}

		return f, nil
	}, nil
}
