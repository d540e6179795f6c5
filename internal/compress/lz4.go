package compress

import (
	"bytes"
	"io"

	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"
)

// LZ4Compressor uses the lz4 frame format, which records the content size
// so no buffer-growing heuristic is needed on the way back.
type LZ4Compressor struct{}

func (LZ4Compressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	wrt := lz4.NewWriter(&buf)

	_, err := wrt.Write(data)
	if err != nil {
		return nil, errors.Wrap(err, "unable to write lz4 frame")
	}

	err = wrt.Close()
	if err != nil {
		return nil, errors.Wrap(err, "unable to close lz4 frame")
	}

	return buf.Bytes(), nil
}

func (LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, errors.Wrap(err, "unable to read lz4 frame")
	}

	return out, nil
}

func (LZ4Compressor) Type() Type {
	return LZ4
}

var _ Compressor = LZ4Compressor{}
