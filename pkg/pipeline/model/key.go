package model

import "fmt"

// Key is the identity of a process. No two processes of a tracker share a key.
type Key struct {
	Scope  string `cbor:"scope" yaml:"scope"`
	Action string `cbor:"action" yaml:"action"`
}

// NewKey builds a Key.
func NewKey(scope, action string) Key {
	return Key{Scope: scope, Action: action}
}

func (k Key) String() string {
	return k.Scope + "/" + k.Action
}

// Ref points either at an order index or at a process identity.
// Identities are resolved to their current order when used.
type Ref struct {
	key     Key
	order   int
	byOrder bool
}

// Order references the process at order index i.
func Order(i int) Ref {
	return Ref{order: i, byOrder: true}
}

// Identity references the process with the given scope and action.
func Identity(scope, action string) Ref {
	return Ref{key: NewKey(scope, action)}
}

// ByOrder returns the referenced order when the reference is positional.
func (r Ref) ByOrder() (int, bool) {
	return r.order, r.byOrder
}

// Key returns the referenced identity when the reference is not positional.
func (r Ref) Key() (Key, bool) {
	return r.key, !r.byOrder
}

func (r Ref) String() string {
	if r.byOrder {
		return fmt.Sprintf("order %d", r.order)
	}

	return r.key.String()
}
