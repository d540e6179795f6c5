package model

// ProcessInfo is a read-only description of a process at a point in time.
type ProcessInfo struct {
	Key
	Order       int
	Description string
	Transform   string
	Fingerprint string
	Tracked     bool
}
