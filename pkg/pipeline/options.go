package pipeline

import (
	"log/slog"

	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/model"
	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/persist"
)

// Option configures a Tracker.
type Option[D Dataset[D]] func(t *Tracker[D])

// WithData loads the initial dataset. A pristine copy is kept as backup -1.
func WithData[D Dataset[D]](data D) Option[D] {
	return func(t *Tracker[D]) {
		t.data = data.Clone()
		t.hasData = true
	}
}

// WithConfirmer sets the approval port used before destructive operations.
func WithConfirmer[D Dataset[D]](confirmer Confirmer) Option[D] {
	return func(t *Tracker[D]) {
		t.confirmer = confirmer
	}
}

// WithLogger sets the structured logger.
func WithLogger[D Dataset[D]](logger *slog.Logger) Option[D] {
	return func(t *Tracker[D]) {
		t.logger = logger
	}
}

// WithTrackerOptions registers plugins notified of tracker events.
func WithTrackerOptions[D Dataset[D]](opts ...model.TrackerOption) Option[D] {
	return func(t *Tracker[D]) {
		t.opts = append(t.opts, opts...)
	}
}

// WithCompression selects the compression used by Save.
func WithCompression[D Dataset[D]](compression persist.Compression) Option[D] {
	return func(t *Tracker[D]) {
		t.compression = compression
	}
}

// ReplayOption configures Replay.
type ReplayOption func(cfg *replayConfig)

type replayConfig struct {
	concurrent int
}

// ReplayConcurrency sets how many datasets are transformed at the same time.
func ReplayConcurrency(concurrent int) ReplayOption {
	return func(cfg *replayConfig) {
		cfg.concurrent = concurrent
	}
}
