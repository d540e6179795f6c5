package persist

import (
	"github.com/askiada/go-pipeline-tracker/internal/compress"
)

// Compression selects how saved payloads are compressed.
type Compression = compress.Type

const (
	NoCompression     = compress.None
	SnappyCompression = compress.Snappy
	LZ4Compression    = compress.LZ4
	ZstdCompression   = compress.Zstd
)

// ParseCompression maps a configuration name ("none", "snappy", "lz4", "zstd") to a Compression.
func ParseCompression(name string) (Compression, error) {
	return compress.ParseType(name)
}

// ProcessRecord is the persisted form of a process.
type ProcessRecord struct {
	Scope       string `cbor:"scope"`
	Action      string `cbor:"action"`
	Description string `cbor:"description"`
	Transform   string `cbor:"transform"`
	Definition  string `cbor:"definition"`
	Tracked     bool   `cbor:"tracked"`
}

// State is everything needed to restore a tracker.
type State[D any] struct {
	Data             D
	Backups          map[int]D
	Processes        []ProcessRecord
	LastConsolidated int
	HasData          bool
}
