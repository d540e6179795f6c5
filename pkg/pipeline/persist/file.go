package persist

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Extension is appended to tracker names by FileBackend.
const Extension = ".trk"

// FileBackend saves each tracker as <dir>/<name>.trk.
type FileBackend struct {
	dir string
}

// NewFileBackend creates a backend writing in dir.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

// Path returns the file used for name.
func (b *FileBackend) Path(name string) string {
	return filepath.Join(b.dir, name+Extension)
}

func (b *FileBackend) Read(_ context.Context, name string) ([]byte, error) {
	err := validateName(name)
	if err != nil {
		return nil, err
	}

	payload, err := os.ReadFile(b.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrNotFound, b.Path(name))
		}

		return nil, errors.Wrapf(err, "unable to read %s", b.Path(name))
	}

	return payload, nil
}

// Write replaces the file atomically: the payload goes to a temporary file
// that is synced then renamed over the final path.
func (b *FileBackend) Write(_ context.Context, name string, payload []byte, overwrite bool) error {
	err := validateName(name)
	if err != nil {
		return err
	}

	path := b.Path(name)

	if !overwrite {
		_, err := os.Stat(path)
		if err == nil {
			return errors.Wrap(ErrAlreadyExists, path)
		}

		if !os.IsNotExist(err) {
			return errors.Wrapf(err, "unable to stat %s", path)
		}
	}

	err = os.MkdirAll(b.dir, 0o755)
	if err != nil {
		return errors.Wrapf(err, "unable to create directory %s", b.dir)
	}

	tmp, err := os.CreateTemp(b.dir, name+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "unable to create temporary file")
	}

	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	_, err = tmp.Write(payload)
	if err != nil {
		tmp.Close()

		return errors.Wrapf(err, "unable to write %s", tmp.Name())
	}

	err = tmp.Sync()
	if err != nil {
		tmp.Close()

		return errors.Wrapf(err, "unable to sync %s", tmp.Name())
	}

	// close before rename for windows
	err = tmp.Close()
	if err != nil {
		return errors.Wrapf(err, "unable to close %s", tmp.Name())
	}

	err = os.Rename(tmp.Name(), path)
	if err != nil {
		return errors.Wrapf(err, "unable to rename %s", tmp.Name())
	}

	return nil
}

var _ Backend = (*FileBackend)(nil)
