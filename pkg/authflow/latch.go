package authflow

import "sync"

// codeLatch moves from empty to filled exactly once. The persist callback
// runs under the lock and the latch only fills when it succeeds, so a failed
// write leaves room for a later attempt while a successful one is never
// repeated.
type codeLatch struct {
	mu     sync.Mutex
	code   string
	filled bool
}

func (l *codeLatch) Fill(code string, persist func(string) error) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.filled {
		return false, nil
	}
	if err := persist(code); err != nil {
		return false, err
	}
	l.code = code
	l.filled = true
	return true, nil
}

func (l *codeLatch) Value() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.code, l.filled
}
