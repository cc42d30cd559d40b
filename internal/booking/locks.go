package booking

import "sync"

// tableLocks hands out one mutex per table so the conflict check and
// the insert of a reservation happen under a single critical section
// per table. Locks are created on demand and never discarded; the
// table count is small and fixed by the floor plan.
type tableLocks struct {
    mu    sync.Mutex
    locks map[uint64]*sync.Mutex
}

func newTableLocks() *tableLocks {
    return &tableLocks{locks: make(map[uint64]*sync.Mutex)}
}

// acquire locks the mutex for a table and returns its unlock func.
func (t *tableLocks) acquire(tableID uint64) func() {
    t.mu.Lock()
    l, ok := t.locks[tableID]
    if !ok {
        l = &sync.Mutex{}
        t.locks[tableID] = l
    }
    t.mu.Unlock()

    l.Lock()
    return l.Unlock
}
