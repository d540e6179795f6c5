package pipeline

import (
	"fmt"
	"strings"

	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/model"
)

// StatusLine describes one process in a Status report.
type StatusLine struct {
	model.ProcessInfo
	LastConsolidated bool
	BackedUp         bool
}

// Status is a read-only report of a tracker.
type Status struct {
	Lines            []StatusLine
	LastConsolidated int
	HasData          bool
	Pristine         bool
}

// Status reports, for each process in order, whether it is the last
// consolidated one, whether a backup exists at its order and whether it is
// tracked.
func (t *Tracker[D]) Status() Status {
	processes := t.processes.All()
	status := Status{
		Lines:            make([]StatusLine, len(processes)),
		LastConsolidated: t.lastConsolidated,
		HasData:          t.hasData,
		Pristine:         t.backups.Has(pristine),
	}

	for order, process := range processes {
		status.Lines[order] = StatusLine{
			ProcessInfo:      *process.Info(order),
			LastConsolidated: order == t.lastConsolidated,
			BackedUp:         t.backups.Has(order),
		}
	}

	return status
}

// String renders the report as a table with a legend.
func (s Status) String() string {
	var b strings.Builder

	b.WriteString(" flags | order - scope - action - description\n")

	for _, line := range s.Lines {
		fmt.Fprintf(&b, " %s %s %s | %5d - %s - %s - %s\n",
			flag(line.LastConsolidated, ">"),
			flag(line.BackedUp, "b"),
			flag(!line.Tracked, "x"),
			line.Order, line.Scope, line.Action, line.Description,
		)
	}

	b.WriteString("\n[>: last consolidated | b: backed up | x: untracked]\n")

	return b.String()
}

func flag(set bool, symbol string) string {
	if set {
		return symbol
	}

	return " "
}
