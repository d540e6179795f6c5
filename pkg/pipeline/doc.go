// Package pipeline tracks the consolidation of an ordered list of processes
// applied to a single dataset.
//
// Each process is identified by a scope and an action. Adding a tracked
// process folds it into the dataset right away; the tracker remembers the
// order of the last consolidated process and keeps snapshots (backups) of the
// dataset at chosen orders, plus the pristine input under order -1.
//
// Changing a process that was already consolidated invalidates everything
// computed from it. The tracker then rolls the dataset back to the nearest
// backup before it and replays forward, but only after the injected Confirmer
// approved. Consolidating more than one pending process at once, overwriting
// a saved tracker and replacing a loaded one are approved the same way.
//
// Datasets are always copied when they cross the tracker boundary, so the
// caller can never alter the tracked state by mutating a returned value.
//
// The tracker can be saved and loaded through a persist.Backend. Transforms
// are not serialized: they are rebuilt by name and definition from a
// transform.Catalog.
package pipeline
