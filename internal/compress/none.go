package compress

// NoneCompressor stores payloads as they are.
type NoneCompressor struct{}

func (NoneCompressor) Compress(data []byte) ([]byte, error) {
	out := make([]byte, len(data))
	copy(out, data)

	return out, nil
}

func (NoneCompressor) Decompress(data []byte) ([]byte, error) {
	out := make([]byte, len(data))
	copy(out, data)

	return out, nil
}

func (NoneCompressor) Type() Type {
	return None
}

var _ Compressor = NoneCompressor{}
