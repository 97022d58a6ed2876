package engine

import "sync/atomic"

// RunLock admits one run at a time and remembers which run holds it.
// A second run fails fast with the holder's id instead of queueing behind
// the first and interleaving writes to the same output paths.
type RunLock struct {
	holder atomic.Pointer[string]
}

// TryAcquire claims the lock for runID without blocking. When the lock is
// taken it returns false and the id of the run holding it.
func (l *RunLock) TryAcquire(runID string) (string, bool) {
	if l.holder.CompareAndSwap(nil, &runID) {
		return runID, true
	}
	return l.Holder(), false
}

// Holder returns the id of the run holding the lock, or "" when free
func (l *RunLock) Holder() string {
	if id := l.holder.Load(); id != nil {
		return *id
	}
	return ""
}

// Release frees the lock if runID holds it
func (l *RunLock) Release(runID string) {
	if id := l.holder.Load(); id != nil && *id == runID {
		l.holder.CompareAndSwap(id, nil)
	}
}
