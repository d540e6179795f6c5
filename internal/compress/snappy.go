package compress

import (
	"github.com/golang/snappy"
	"github.com/pkg/errors"
)

// SnappyCompressor uses the snappy block format.
type SnappyCompressor struct{}

func (SnappyCompressor) Compress(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

func (SnappyCompressor) Decompress(data []byte) ([]byte, error) {
	out, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode snappy block")
	}

	return out, nil
}

func (SnappyCompressor) Type() Type {
	return Snappy
}

var _ Compressor = SnappyCompressor{}
