// Package registry keeps the ordered list of processes of a tracker.
// The position of a process in the list is its order index, so orders are
// always contiguous from 0 and never assigned by callers.
package registry

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/model"
)

var (
	ErrOutOfRange   = errors.New("order out of range")
	ErrKeyMismatch  = errors.New("replacement must keep the process key")
	ErrDuplicateKey = errors.New("process key already registered")
)

// Keyed is implemented by the values stored in a Registry.
type Keyed interface {
	Key() model.Key
}

// Registry is an ordered sequence of uniquely keyed values.
type Registry[P Keyed] struct {
	lock  sync.RWMutex
	items []P
}

// New creates an empty registry.
func New[P Keyed]() *Registry[P] {
	return &Registry[P]{}
}

// Find returns the order of the value with the given key.
func (r *Registry[P]) Find(key model.Key) (int, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.find(key)
}

func (r *Registry[P]) find(key model.Key) (int, bool) {
	for order, item := range r.items {
		if item.Key() == key {
			return order, true
		}
	}

	return -1, false
}

// Append adds p at the end of the registry.
func (r *Registry[P]) Append(p P) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.find(p.Key()); ok {
		return errors.Wrap(ErrDuplicateKey, p.Key().String())
	}

	r.items = append(r.items, p)

	return nil
}

// ReplaceAt swaps the value at order for p. The key cannot change.
func (r *Registry[P]) ReplaceAt(order int, p P) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if err := r.checkRange(order); err != nil {
		return err
	}

	if r.items[order].Key() != p.Key() {
		return errors.Wrapf(ErrKeyMismatch, "%s != %s", r.items[order].Key(), p.Key())
	}

	r.items[order] = p

	return nil
}

// Move removes the value at from and reinserts it at to. Values in between
// shift by one position.
func (r *Registry[P]) Move(from, to int) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if err := r.checkRange(from); err != nil {
		return errors.Wrap(err, "from")
	}

	if err := r.checkRange(to); err != nil {
		return errors.Wrap(err, "to")
	}

	if from == to {
		return nil
	}

	item := r.items[from]
	if from < to {
		copy(r.items[from:to], r.items[from+1:to+1])
	} else {
		copy(r.items[to+1:from+1], r.items[to:from])
	}

	r.items[to] = item

	return nil
}

// RemoveAt deletes the value at order and returns it.
func (r *Registry[P]) RemoveAt(order int) (P, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	var zero P

	if err := r.checkRange(order); err != nil {
		return zero, err
	}

	item := r.items[order]
	r.items = append(r.items[:order], r.items[order+1:]...)

	return item, nil
}

// At returns the value at order.
func (r *Registry[P]) At(order int) (P, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	var zero P

	if err := r.checkRange(order); err != nil {
		return zero, err
	}

	return r.items[order], nil
}

// Len returns the number of values.
func (r *Registry[P]) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return len(r.items)
}

// All returns a copy of the ordered values.
func (r *Registry[P]) All() []P {
	r.lock.RLock()
	defer r.lock.RUnlock()

	out := make([]P, len(r.items))
	copy(out, r.items)

	return out
}

// Reset replaces the content of the registry. Keys must be unique.
func (r *Registry[P]) Reset(items []P) error {
	seen := make(map[model.Key]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.Key()]; ok {
			return errors.Wrap(ErrDuplicateKey, item.Key().String())
		}

		seen[item.Key()] = struct{}{}
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	r.items = make([]P, len(items))
	copy(r.items, items)

	return nil
}

func (r *Registry[P]) checkRange(order int) error {
	if order < 0 || order >= len(r.items) {
		return errors.Wrapf(ErrOutOfRange, "order %d with %d processes", order, len(r.items))
	}

	return nil
}
