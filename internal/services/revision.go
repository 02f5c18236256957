package services

import "sync/atomic"

// Revision is a data version shared by the services of one process. Every
// successful write bumps it, which retires cached snapshots built from older
// data without touching them.
type Revision struct {
	n atomic.Uint64
}

// Current returns the current data version.
func (r *Revision) Current() uint64 {
	if r == nil {
		return 0
	}
	return r.n.Load()
}

// Bump records a write and returns the new version.
func (r *Revision) Bump() uint64 {
	if r == nil {
		return 0
	}
	return r.n.Add(1)
}
