package pipeline

import (
	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/model"
	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/transform"
)

// Process is one step of the pipeline. An untracked process keeps its place
// in the order but its transform is never applied.
type Process[D any] struct {
	Transform   transform.Transform[D]
	Description string
	key         model.Key
	Tracked     bool
}

func newProcess[D any](key model.Key, tr transform.Transform[D], description string, tracked bool) Process[D] {
	return Process[D]{
		key:         key,
		Transform:   tr,
		Description: description,
		Tracked:     tracked,
	}
}

// Key returns the identity of the process.
func (p Process[D]) Key() model.Key {
	return p.key
}

// Info describes the process at order.
func (p Process[D]) Info(order int) *model.ProcessInfo {
	return &model.ProcessInfo{
		Key:         p.key,
		Order:       order,
		Description: p.Description,
		Transform:   p.Transform.Name,
		Fingerprint: p.Transform.Fingerprint().Short(),
		Tracked:     p.Tracked,
	}
}
