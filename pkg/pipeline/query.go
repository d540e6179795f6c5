package pipeline

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipeline-tracker/internal/store"
	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/model"
)

// GetBackup returns a copy of the backup nearest to ref under cmp, and its
// order. An identity reference is resolved to the current order of the
// process first. EQ, LE and LT return the greatest matching order, GE and GT
// the smallest.
func (t *Tracker[D]) GetBackup(ref model.Ref, cmp store.Comparison) (D, int, error) {
	var zero D

	order, err := t.resolve(ref)
	if err != nil {
		return zero, 0, err
	}

	cmp, err = store.ParseComparison(string(cmp))
	if err != nil {
		return zero, 0, errors.Wrap(err, "unable to search backups")
	}

	snapshot, key, ok := t.backups.Search(order, cmp)
	if !ok {
		return zero, 0, errors.Wrapf(ErrBackupNotFound, "%s %s", cmp, ref)
	}

	return snapshot.Clone(), key, nil
}

func (t *Tracker[D]) resolve(ref model.Ref) (int, error) {
	if order, ok := ref.ByOrder(); ok {
		return order, nil
	}

	key, _ := ref.Key()

	order, ok := t.processes.Find(key)
	if !ok {
		return 0, newIdentityError(key, ErrUnknownIdentity)
	}

	return order, nil
}

// ProcessFilter selects processes in Processes. Nil fields match everything.
type ProcessFilter struct {
	Consolidated *bool
	Tracked      *bool
	Scopes       []string
	Actions      []string
}

// Bool is a helper to fill the optional fields of a ProcessFilter.
func Bool(v bool) *bool {
	return &v
}

func (f ProcessFilter) match(order, lastConsolidated int, key model.Key, tracked bool) bool {
	if f.Consolidated != nil && *f.Consolidated != (order <= lastConsolidated) {
		return false
	}

	if f.Tracked != nil && *f.Tracked != tracked {
		return false
	}

	if f.Scopes != nil && !contains(f.Scopes, key.Scope) {
		return false
	}

	if f.Actions != nil && !contains(f.Actions, key.Action) {
		return false
	}

	return true
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}

	return false
}

// Processes lists, in order, the keys of the processes matching filter.
func (t *Tracker[D]) Processes(filter ProcessFilter) []model.Key {
	keys := []model.Key{}

	for order, process := range t.processes.All() {
		if filter.match(order, t.lastConsolidated, process.Key(), process.Tracked) {
			keys = append(keys, process.Key())
		}
	}

	return keys
}

// ProcessList renders the processes as a list of keys with their
// description, ready to paste in a Run call.
func (t *Tracker[D]) ProcessList() string {
	var b strings.Builder

	for _, process := range t.processes.All() {
		fmt.Fprintf(&b, "('%s', '%s'), # %s\n", process.Key().Scope, process.Key().Action, process.Description)
	}

	return b.String()
}
