package pipeline

import (
	"io"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/drawer"
	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/measure"
)

// Draw renders the process chain with d. msr is optional and adds the
// average duration of each process.
func (t *Tracker[D]) Draw(d drawer.Drawer, msr measure.Measure, w io.Writer) error {
	parent := drawer.InputNode

	for _, line := range t.Status().Lines {
		name := line.Key.String()

		err := d.AddProcess(drawer.Node{
			Name:         name,
			Description:  line.Description,
			Order:        line.Order,
			Tracked:      line.Tracked,
			Consolidated: line.Order <= t.lastConsolidated,
			BackedUp:     line.BackedUp,
		})
		if err != nil {
			return errors.Wrap(err, "unable to add process to drawer")
		}

		err = d.AddLink(parent, name)
		if err != nil {
			return errors.Wrap(err, "unable to link process")
		}

		parent = name
	}

	if msr != nil {
		err := d.AddMeasure(msr)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	return errors.Wrap(d.Draw(w), "unable to draw tracker")
}
