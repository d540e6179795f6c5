package model

import "time"

// TrackerOption defines the interface for tracker plugins such as measures.
// Hooks run synchronously once the tracker operation that triggers them has
// changed the tracker. Errors from New and Finish are returned by the tracker
// constructor and Close; errors from the other hooks are logged and the
// operation carries on.
type TrackerOption interface {
	// New initialises the tracker option.
	New() error
	// PrepareProcess runs when a process is added or replaced.
	PrepareProcess(process *ProcessInfo) error
	// OnConsolidate runs after a tracked process transformed the dataset.
	OnConsolidate(process *ProcessInfo, computationDuration time.Duration) error
	// OnRollback runs after the consolidated cursor moved back from one order to another.
	OnRollback(from, to int) error
	// OnBackup runs after a snapshot was stored.
	OnBackup(order int) error
	// Finish runs when the tracker is closed.
	Finish() error
}
