package compress

import (
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

const zstdMaxDecodedSize = 1 << 30

// sharedZstd is the compressor handed out by New. It lives for the whole process.
var sharedZstd = sync.OnceValues(NewZstdCompressor)

// ZstdCompressor keeps one encoder and one decoder; EncodeAll and DecodeAll
// are safe for concurrent use.
type ZstdCompressor struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewZstdCompressor creates a zstd compressor with default level.
func NewZstdCompressor() (*ZstdCompressor, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create zstd encoder")
	}

	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(zstdMaxDecodedSize))
	if err != nil {
		return nil, errors.Wrap(err, "unable to create zstd decoder")
	}

	return &ZstdCompressor{enc: enc, dec: dec}, nil
}

func (c *ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return c.enc.EncodeAll(data, nil), nil
}

func (c *ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	out, err := c.dec.DecodeAll(data, nil)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode zstd payload")
	}

	return out, nil
}

// Close releases the encoder and decoder. The compressor returned by New is
// shared and must not be closed.
func (c *ZstdCompressor) Close() error {
	c.dec.Close()

	return errors.Wrap(c.enc.Close(), "unable to close zstd encoder")
}

func (c *ZstdCompressor) Type() Type {
	return Zstd
}

var _ Compressor = (*ZstdCompressor)(nil)
