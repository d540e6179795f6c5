package transform

import (
	"encoding/hex"

	"github.com/pkg/errors"
	"github.com/zeebo/blake3"
)

// ErrMissingName is returned when a transform has no name to identify it.
var ErrMissingName = errors.New("transform name must be set")

// Func transforms a dataset into a new one.
type Func[D any] func(data D) (D, error)

// Transform is a named, fingerprinted Func.
type Transform[D any] struct {
	Name       string
	Definition string
	Fn         Func[D]
}

// New builds a transform.
func New[D any](name, definition string, fn Func[D]) Transform[D] {
	return Transform[D]{Name: name, Definition: definition, Fn: fn}
}

// Identity returns the transform that hands its input back.
func Identity[D any]() Transform[D] {
	return New[D]("identity", "", func(data D) (D, error) { return data, nil })
}

// Validate checks the transform can be tracked.
func (t Transform[D]) Validate() error {
	if t.Name == "" {
		return ErrMissingName
	}

	if t.Fn == nil {
		return errors.Errorf("transform %s: function must be set", t.Name)
	}

	return nil
}

// Fingerprint is the digest identifying what a transform does.
type Fingerprint [32]byte

func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// Short returns the first 12 hexadecimal characters.
func (f Fingerprint) Short() string {
	return f.String()[:12]
}

// Fingerprint hashes the name and definition of the transform.
func (t Transform[D]) Fingerprint() Fingerprint {
	return Sum(t.Name, t.Definition)
}

// Sum computes the fingerprint of a name and definition pair.
func Sum(name, definition string) Fingerprint {
	hasher := blake3.New()
	// the separator keeps ("ab", "c") and ("a", "bc") apart
	_, _ = hasher.Write([]byte(name))
	_, _ = hasher.Write([]byte{0})
	_, _ = hasher.Write([]byte(definition))

	var fp Fingerprint

	copy(fp[:], hasher.Sum(nil))

	return fp
}

// Same reports whether a and b perform the same transformation.
func Same[D any](a, b Transform[D]) bool {
	return a.Fingerprint() == b.Fingerprint()
}
