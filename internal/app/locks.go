package service

import "sync"

// pairLocks serializes submissions per (team, task) pair so the
// check-then-record window of the submission gate is single-file. Mutexes
// are created on first use and kept for the lifetime of the contest; the
// table is bounded by teams times tasks.
type pairLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// acquire locks the pair and returns its unlock function.
func (p *pairLocks) acquire(teamID, taskID string) func() {
	key := teamID + "\x00" + taskID

	p.mu.Lock()
	if p.locks == nil {
		p.locks = make(map[string]*sync.Mutex)
	}
	l, ok := p.locks[key]
	if !ok {
		l = &sync.Mutex{}
		p.locks[key] = l
	}
	p.mu.Unlock()

	l.Lock()
	return l.Unlock
}
