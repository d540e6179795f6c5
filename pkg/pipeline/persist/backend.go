package persist

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNotFound      = errors.New("tracker artifact not found")
	ErrAlreadyExists = errors.New("tracker artifact already exists")
	ErrCorrupt       = errors.New("tracker artifact is corrupt")
	ErrInvalidName   = errors.New("invalid tracker name")
)

// Backend stores encoded trackers by name.
type Backend interface {
	// Read returns the payload saved under name, or ErrNotFound.
	Read(ctx context.Context, name string) ([]byte, error)
	// Write saves payload under name. Without overwrite it returns
	// ErrAlreadyExists when name is taken.
	Write(ctx context.Context, name string, payload []byte, overwrite bool) error
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}

	return nil
}
