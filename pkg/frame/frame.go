// Package frame is a small column-oriented table of strings with nulls.
// It satisfies the dataset contract of the pipeline package and comes with
// a catalog of transforms usable from configuration files.
package frame

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidFrame is wrapped by every Validate failure.
var ErrInvalidFrame = errors.New("invalid frame")

// Column is a named list of cells. Nulls[i] marks Values[i] as missing.
type Column struct {
	Name   string   `cbor:"name"`
	Values []string `cbor:"values"`
	Nulls  []bool   `cbor:"nulls"`
}

// Frame is an ordered set of columns of equal length.
type Frame struct {
	Columns []Column `cbor:"columns"`
}

// New creates a frame from the header and rows. Cells equal to null are
// stored as missing.
func New(header []string, rows [][]string, null string) (*Frame, error) {
	f := &Frame{Columns: make([]Column, len(header))}
	for i, name := range header {
		f.Columns[i] = Column{
			Name:   name,
			Values: make([]string, 0, len(rows)),
			Nulls:  make([]bool, 0, len(rows)),
		}
	}

	for r, row := range rows {
		if len(row) != len(header) {
			return nil, errors.Wrapf(ErrInvalidFrame, "row %d has %d cells, expected %d", r, len(row), len(header))
		}

		for i, cell := range row {
			f.Columns[i].Values = append(f.Columns[i].Values, cell)
			f.Columns[i].Nulls = append(f.Columns[i].Nulls, cell == null)
		}
	}

	err := f.Validate()
	if err != nil {
		return nil, err
	}

	return f, nil
}

// Clone returns a deep copy.
func (f *Frame) Clone() *Frame {
	if f == nil {
		return nil
	}

	out := &Frame{Columns: make([]Column, len(f.Columns))}
	for i, col := range f.Columns {
		out.Columns[i] = Column{
			Name:   col.Name,
			Values: append([]string(nil), col.Values...),
			Nulls:  append([]bool(nil), col.Nulls...),
		}
	}

	return out
}

// Validate checks the structural contract of the frame: unique non-empty
// column names, as many null markers as values and equal column lengths.
func (f *Frame) Validate() error {
	if f == nil {
		return errors.Wrap(ErrInvalidFrame, "nil frame")
	}

	seen := make(map[string]struct{}, len(f.Columns))
	rows := -1

	for i, col := range f.Columns {
		if col.Name == "" {
			return errors.Wrapf(ErrInvalidFrame, "column %d has no name", i)
		}

		if _, ok := seen[col.Name]; ok {
			return errors.Wrapf(ErrInvalidFrame, "duplicate column %q", col.Name)
		}

		seen[col.Name] = struct{}{}

		if len(col.Values) != len(col.Nulls) {
			return errors.Wrapf(ErrInvalidFrame, "column %q has %d values and %d null markers", col.Name, len(col.Values), len(col.Nulls))
		}

		if rows >= 0 && len(col.Values) != rows {
			return errors.Wrapf(ErrInvalidFrame, "column %q has %d rows, expected %d", col.Name, len(col.Values), rows)
		}

		rows = len(col.Values)
	}

	return nil
}

// Rows returns the number of rows.
func (f *Frame) Rows() int {
	if f == nil || len(f.Columns) == 0 {
		return 0
	}

	return len(f.Columns[0].Values)
}

// Header returns the column names in order.
func (f *Frame) Header() []string {
	names := make([]string, len(f.Columns))
	for i, col := range f.Columns {
		names[i] = col.Name
	}

	return names
}

// Index returns the position of the named column.
func (f *Frame) Index(name string) (int, bool) {
	for i, col := range f.Columns {
		if col.Name == name {
			return i, true
		}
	}

	return -1, false
}

// Column returns the named column. Mutating it mutates the frame.
func (f *Frame) Column(name string) (*Column, error) {
	i, ok := f.Index(name)
	if !ok {
		return nil, errors.Errorf("column %q not found", name)
	}

	return &f.Columns[i], nil
}

// Equal reports whether both frames hold the same columns and cells.
// Values hidden behind a null marker are ignored.
func (f *Frame) Equal(other *Frame) bool {
	if f == nil || other == nil {
		return f == other
	}

	if len(f.Columns) != len(other.Columns) {
		return false
	}

	for i, col := range f.Columns {
		oc := other.Columns[i]
		if col.Name != oc.Name || len(col.Values) != len(oc.Values) || len(col.Nulls) != len(oc.Nulls) {
			return false
		}

		for r := range col.Values {
			if col.Nulls[r] != oc.Nulls[r] {
				return false
			}

			if !col.Nulls[r] && col.Values[r] != oc.Values[r] {
				return false
			}
		}
	}

	return true
}

// keepRows drops every row whose index is not marked in keep.
func (f *Frame) keepRows(keep []bool) {
	for i := range f.Columns {
		col := &f.Columns[i]
		values := col.Values[:0]
		nulls := col.Nulls[:0]

		for r, ok := range keep {
			if ok {
				values = append(values, col.Values[r])
				nulls = append(nulls, col.Nulls[r])
			}
		}

		col.Values = values
		col.Nulls = nulls
	}
}

func (f *Frame) String() string {
	return fmt.Sprintf("frame(%d columns, %d rows)", len(f.Columns), f.Rows())
}
