package persist

import (
	"bytes"
	"context"
	"sort"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-pipeline-tracker/internal/compress"
)

const (
	formatVersion = 1
	checksumSize  = 32
	headerSize    = len(magic) + 2 + checksumSize
	maxParallel   = 8
)

var magic = [4]byte{'P', 'T', 'R', 'K'}

// encMode uses Core Deterministic Encoding: the same state always gives the
// same bytes.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("persist: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("persist: CBOR decoder initialization failed: " + err.Error())
	}
}

type envelope struct {
	Backups          map[int]cbor.RawMessage `cbor:"backups"`
	Data             cbor.RawMessage         `cbor:"data,omitempty"`
	Processes        []ProcessRecord         `cbor:"processes"`
	Version          int                     `cbor:"version"`
	LastConsolidated int                     `cbor:"last_consolidated"`
	HasData          bool                    `cbor:"has_data"`
}

// Encode serializes and compresses state. Backups are encoded concurrently.
func Encode[D any](ctx context.Context, state State[D], compression Compression) ([]byte, error) {
	comp, err := compress.New(compression)
	if err != nil {
		return nil, errors.Wrap(err, "unable to get compressor")
	}

	env := envelope{
		Version:          formatVersion,
		LastConsolidated: state.LastConsolidated,
		Processes:        state.Processes,
		HasData:          state.HasData,
	}

	env.Backups, err = encodeBackups(ctx, state.Backups)
	if err != nil {
		return nil, err
	}

	if state.HasData {
		env.Data, err = encMode.Marshal(state.Data)
		if err != nil {
			return nil, errors.Wrap(err, "unable to encode data")
		}
	}

	payload, err := encMode.Marshal(env)
	if err != nil {
		return nil, errors.Wrap(err, "unable to encode state")
	}

	packed, err := comp.Compress(payload)
	if err != nil {
		return nil, errors.Wrap(err, "unable to compress state")
	}

	sum := blake3.Sum256(payload)

	var buf bytes.Buffer

	buf.Grow(headerSize + len(packed))
	buf.Write(magic[:])
	buf.WriteByte(formatVersion)
	buf.WriteByte(byte(comp.Type()))
	buf.Write(sum[:])
	buf.Write(packed)

	return buf.Bytes(), nil
}

func encodeBackups[D any](ctx context.Context, backups map[int]D) (map[int]cbor.RawMessage, error) {
	keys := sortedKeys(backups)
	encoded := make([]cbor.RawMessage, len(keys))

	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(maxParallel)

	for i, key := range keys {
		errGrp.Go(func() error {
			if err := dCtx.Err(); err != nil {
				return err
			}

			raw, err := encMode.Marshal(backups[key])
			if err != nil {
				return errors.Wrapf(err, "unable to encode backup %d", key)
			}

			encoded[i] = raw

			return nil
		})
	}

	err := errGrp.Wait()
	if err != nil {
		return nil, err
	}

	out := make(map[int]cbor.RawMessage, len(keys))
	for i, key := range keys {
		out[key] = encoded[i]
	}

	return out, nil
}

// Decode reverses Encode.
func Decode[D any](ctx context.Context, data []byte) (State[D], error) {
	var state State[D]

	if len(data) < headerSize || !bytes.Equal(data[:len(magic)], magic[:]) {
		return state, errors.Wrap(ErrCorrupt, "missing tracker header")
	}

	version := data[len(magic)]
	if version != formatVersion {
		return state, errors.Wrapf(ErrCorrupt, "unsupported format version %d", version)
	}

	comp, err := compress.New(compress.Type(data[len(magic)+1]))
	if err != nil {
		return state, errors.Wrap(ErrCorrupt, err.Error())
	}

	var want [checksumSize]byte

	copy(want[:], data[len(magic)+2:headerSize])

	payload, err := comp.Decompress(data[headerSize:])
	if err != nil {
		return state, errors.Wrap(ErrCorrupt, err.Error())
	}

	if blake3.Sum256(payload) != want {
		return state, errors.Wrap(ErrCorrupt, "checksum mismatch")
	}

	var env envelope

	err = decMode.Unmarshal(payload, &env)
	if err != nil {
		return state, errors.Wrap(ErrCorrupt, err.Error())
	}

	state.LastConsolidated = env.LastConsolidated
	state.Processes = env.Processes
	state.HasData = env.HasData

	state.Backups, err = decodeBackups[D](ctx, env.Backups)
	if err != nil {
		return state, err
	}

	if env.HasData {
		err = decMode.Unmarshal(env.Data, &state.Data)
		if err != nil {
			return state, errors.Wrap(ErrCorrupt, "data: "+err.Error())
		}
	}

	return state, nil
}

func decodeBackups[D any](ctx context.Context, raw map[int]cbor.RawMessage) (map[int]D, error) {
	keys := sortedKeys(raw)
	decoded := make([]D, len(keys))

	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(maxParallel)

	for i, key := range keys {
		errGrp.Go(func() error {
			if err := dCtx.Err(); err != nil {
				return err
			}

			err := decMode.Unmarshal(raw[key], &decoded[i])
			if err != nil {
				return errors.Wrapf(ErrCorrupt, "backup %d: %v", key, err)
			}

			return nil
		})
	}

	err := errGrp.Wait()
	if err != nil {
		return nil, err
	}

	out := make(map[int]D, len(keys))
	for i, key := range keys {
		out[key] = decoded[i]
	}

	return out, nil
}

func sortedKeys[T any](m map[int]T) []int {
	keys := make([]int, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Ints(keys)

	return keys
}
