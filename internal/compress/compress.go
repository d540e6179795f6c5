// Package compress wraps the block compressors used to store tracker artifacts.
package compress

import (
	"strings"

	"github.com/pkg/errors"
)

// Type identifies the compression algorithm of a payload. It is written in
// the artifact header, so the values must never change.
type Type byte

const (
	None   Type = 0
	Snappy Type = 1
	LZ4    Type = 2
	Zstd   Type = 3
)

// ErrUnknownType is returned when a compression name or header byte is not supported.
var ErrUnknownType = errors.New("unknown compression type")

// String returns the configuration name of the compression type.
func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Snappy:
		return "snappy"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	default:
		return "unknown"
	}
}

// ParseType maps a configuration name to a Type. The empty string means None.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return None, nil
	case "snappy":
		return Snappy, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return Zstd, nil
	default:
		return None, errors.Wrapf(ErrUnknownType, "%q", name)
	}
}

// Compressor compresses and decompresses whole payloads.
type Compressor interface {
	// Compress returns the compressed form of data.
	Compress(data []byte) ([]byte, error)
	// Decompress reverses Compress.
	Decompress(data []byte) ([]byte, error)
	// Type returns the identifier written in artifact headers.
	Type() Type
}

// New returns the compressor for t. Compressors are stateless or shared, so
// callers never close them.
func New(t Type) (Compressor, error) {
	switch t {
	case None:
		return NoneCompressor{}, nil
	case Snappy:
		return SnappyCompressor{}, nil
	case LZ4:
		return LZ4Compressor{}, nil
	case Zstd:
		return sharedZstd()
	default:
		return nil, errors.Wrapf(ErrUnknownType, "byte %d", t)
	}
}
