package drawer

import (
	"io"

	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/measure"
)

// InputNode is the vertex every drawing starts from.
const InputNode = "input"

// Node is a process as seen by a drawer.
type Node struct {
	Name         string
	Description  string
	Order        int
	Tracked      bool
	Consolidated bool
	BackedUp     bool
}

// Drawer is an interface that defines the methods for drawing a tracker.
type Drawer interface {
	// AddProcess adds a process to the drawing.
	AddProcess(node Node) error
	// AddLink adds a link between two consecutive processes.
	AddLink(parentName, childName string) error
	// AddMeasure decorates processes with their average duration.
	AddMeasure(measure measure.Measure) error
	// Draw writes the graph.
	Draw(w io.Writer) error
}
