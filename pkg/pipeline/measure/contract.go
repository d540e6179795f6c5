package measure

import "time"

// Measure collects metrics for the processes of a tracker.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
	AddRollback(from, to int)
	AddBackup(order int)
	Rollbacks() int
	Backups() int
}

// Metric accumulates the computation durations of one process.
type Metric interface {
	AddDuration(elapsed time.Duration)
	AVGDuration() time.Duration
	TotalDuration() time.Duration
	Count() int64
}
