package measure

import (
	"time"

	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/model"
)

type trackerMeasure struct {
	Measure
}

func (tm *trackerMeasure) New() error {
	return nil
}

func (tm *trackerMeasure) PrepareProcess(process *model.ProcessInfo) error {
	tm.AddMetric(process.Key.String())

	return nil
}

func (tm *trackerMeasure) OnConsolidate(process *model.ProcessInfo, computationDuration time.Duration) error {
	tm.AddMetric(process.Key.String()).AddDuration(computationDuration)

	return nil
}

func (tm *trackerMeasure) OnRollback(from, to int) error {
	tm.AddRollback(from, to)

	return nil
}

func (tm *trackerMeasure) OnBackup(order int) error {
	tm.AddBackup(order)

	return nil
}

func (tm *trackerMeasure) Finish() error {
	return nil
}

// TrackerMeasure records process durations, rollbacks and backups into measure.
func TrackerMeasure(measure Measure) model.TrackerOption {
	return &trackerMeasure{measure}
}
