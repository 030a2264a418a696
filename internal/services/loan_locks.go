package services

import "sync"

// LoanLocks serializes balance mutations per loan so concurrent payments
// and term edits against the same loan reconcile one at a time. Locks for
// distinct loans do not contend.
type LoanLocks struct {
	locks sync.Map // loan id -> *sync.Mutex
}

func NewLoanLocks() *LoanLocks {
	return &LoanLocks{}
}

// Lock acquires the mutex for the given loan and returns its unlock func.
func (l *LoanLocks) Lock(loanID string) func() {
	v, _ := l.locks.LoadOrStore(loanID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
