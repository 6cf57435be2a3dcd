package service

import "sync"

// LockTable serializes read-modify-write cycles per provider code. The
// availability tracker and the rotation scheduler share one table so their
// writes to the same provider never interleave. Providers are independent;
// distinct codes never contend. Entries live for the process lifetime,
// bounded by the closed provider set.
type LockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLockTable() *LockTable {
	return &LockTable{locks: make(map[string]*sync.Mutex)}
}

func (lt *LockTable) get(code string) *sync.Mutex {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	m, ok := lt.locks[code]
	if !ok {
		m = &sync.Mutex{}
		lt.locks[code] = m
	}
	return m
}

// Lock blocks until the per-provider lock is held.
func (lt *LockTable) Lock(code string) *sync.Mutex {
	m := lt.get(code)
	m.Lock()
	return m
}

// TryLock acquires the per-provider lock without blocking. Rotation uses it
// so a second concurrent request is rejected instead of queued.
func (lt *LockTable) TryLock(code string) (*sync.Mutex, bool) {
	m := lt.get(code)
	if !m.TryLock() {
		return nil, false
	}
	return m, true
}
