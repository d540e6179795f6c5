package pipeline

// Confirmer approves destructive operations. It is the only point where a
// tracker operation may block on its caller.
type Confirmer interface {
	Confirm(message string) bool
}

// ConfirmFunc adapts a function to a Confirmer.
type ConfirmFunc func(message string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(message string) bool {
	return f(message)
}

var (
	// AlwaysConfirm approves every operation.
	AlwaysConfirm Confirmer = ConfirmFunc(func(string) bool { return true })
	// NeverConfirm declines every operation. It is the default confirmer.
	NeverConfirm Confirmer = ConfirmFunc(func(string) bool { return false })
)
