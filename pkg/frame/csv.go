package frame

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"
)

// ReadCSV reads a frame from CSV. The first record is the header; cells
// equal to null are stored as missing.
func ReadCSV(r io.Reader, null string) (*Frame, error) {
	reader := csv.NewReader(r)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "unable to read csv")
	}

	if len(records) == 0 {
		return &Frame{}, nil
	}

	f, err := New(records[0], records[1:], null)
	if err != nil {
		return nil, errors.Wrap(err, "unable to build frame")
	}

	return f, nil
}

// WriteCSV writes the frame as CSV with a header. Missing cells are written as null.
func WriteCSV(w io.Writer, f *Frame, null string) error {
	err := f.Validate()
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)

	err = writer.Write(f.Header())
	if err != nil {
		return errors.Wrap(err, "unable to write csv header")
	}

	record := make([]string, len(f.Columns))
	for r := range f.Rows() {
		for i, col := range f.Columns {
			record[i] = col.Values[r]
			if col.Nulls[r] {
				record[i] = null
			}
		}

		err = writer.Write(record)
		if err != nil {
			return errors.Wrapf(err, "unable to write csv row %d", r)
		}
	}

	writer.Flush()

	return errors.Wrap(writer.Error(), "unable to flush csv")
}
