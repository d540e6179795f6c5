// Package store holds the sparse set of dataset snapshots taken by a tracker.
package store

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Comparison selects how a key is matched against the stored snapshot keys.
type Comparison string

const (
	EQ Comparison = "=="
	LE Comparison = "<="
	LT Comparison = "<"
	GE Comparison = ">="
	GT Comparison = ">"
)

// ErrUnknownComparison is returned by Search for an unsupported comparison.
var ErrUnknownComparison = errors.New("unknown comparison")

// ParseComparison maps an operator such as "<=" to a Comparison.
// "=" is accepted as an alias of "==".
func ParseComparison(op string) (Comparison, error) {
	switch Comparison(op) {
	case EQ, LE, LT, GE, GT:
		return Comparison(op), nil
	case "=":
		return EQ, nil
	default:
		return "", errors.Wrapf(ErrUnknownComparison, "%q", op)
	}
}

func (c Comparison) match(key, ref int) bool {
	switch c {
	case EQ:
		return key == ref
	case LE:
		return key <= ref
	case LT:
		return key < ref
	case GE:
		return key >= ref
	case GT:
		return key > ref
	}

	return false
}

// prefersMax reports whether the nearest match is the largest matching key.
func (c Comparison) prefersMax() bool {
	return c == EQ || c == LE || c == LT
}

// Snapshots is a sparse map from a checkpoint index to a stored value.
// Values are stored as given; callers copy them on the way in and out.
type Snapshots[T any] struct {
	lock  sync.RWMutex
	items map[int]T
}

// NewSnapshots creates an empty snapshot store.
func NewSnapshots[T any]() *Snapshots[T] {
	return &Snapshots[T]{
		items: make(map[int]T),
	}
}

// Put stores value at key, replacing any previous snapshot.
func (s *Snapshots[T]) Put(key int, value T) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.items[key] = value
}

// Get returns the snapshot stored exactly at key.
func (s *Snapshots[T]) Get(key int) (T, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	v, ok := s.items[key]

	return v, ok
}

// Has reports whether a snapshot exists at key.
func (s *Snapshots[T]) Has(key int) bool {
	_, ok := s.Get(key)

	return ok
}

// Floor returns the largest key lower than or equal to ref.
func (s *Snapshots[T]) Floor(ref int) (int, bool) {
	return s.SearchKey(ref, LE)
}

// SearchKey returns the nearest key matching ref under cmp: the largest
// match for EQ, LE and LT, the smallest for GE and GT.
func (s *Snapshots[T]) SearchKey(ref int, cmp Comparison) (int, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	found := false
	best := 0

	for key := range s.items {
		if !cmp.match(key, ref) {
			continue
		}

		switch {
		case !found:
			best = key
		case cmp.prefersMax() && key > best:
			best = key
		case !cmp.prefersMax() && key < best:
			best = key
		}

		found = true
	}

	return best, found
}

// Search returns the nearest snapshot matching ref under cmp and its key.
func (s *Snapshots[T]) Search(ref int, cmp Comparison) (T, int, bool) {
	var zero T

	key, ok := s.SearchKey(ref, cmp)
	if !ok {
		return zero, 0, false
	}

	v, ok := s.Get(key)
	if !ok {
		return zero, 0, false
	}

	return v, key, true
}

// PurgeAbove removes every snapshot whose key is greater than threshold and
// returns the removed keys in ascending order.
func (s *Snapshots[T]) PurgeAbove(threshold int) []int {
	s.lock.Lock()
	defer s.lock.Unlock()

	removed := []int{}

	for key := range s.items {
		if key > threshold {
			delete(s.items, key)
			removed = append(removed, key)
		}
	}

	sort.Ints(removed)

	return removed
}

// Keys lists the stored keys in ascending order.
func (s *Snapshots[T]) Keys() []int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	keys := make([]int, 0, len(s.items))
	for key := range s.items {
		keys = append(keys, key)
	}

	sort.Ints(keys)

	return keys
}

// Len returns the number of snapshots.
func (s *Snapshots[T]) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return len(s.items)
}

// Reset replaces the whole content of the store.
func (s *Snapshots[T]) Reset(items map[int]T) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.items = make(map[int]T, len(items))
	for key, value := range items {
		s.items[key] = value
	}
}

// All returns a shallow copy of the stored snapshots.
func (s *Snapshots[T]) All() map[int]T {
	s.lock.RLock()
	defer s.lock.RUnlock()

	out := make(map[int]T, len(s.items))
	for key, value := range s.items {
		out[key] = value
	}

	return out
}
