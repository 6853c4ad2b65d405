package bot

import "sync"

// senderLocks hands out one mutex per sender and forgets it once no caller
// holds or waits for it.
type senderLocks struct {
	mu    sync.Mutex
	locks map[string]*senderLock
}

type senderLock struct {
	mu   sync.Mutex
	refs int
}

func (l *senderLocks) lock(sender string) (unlock func()) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*senderLock)
	}
	e, ok := l.locks[sender]
	if !ok {
		e = &senderLock{}
		l.locks[sender] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()

		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, sender)
		}
		l.mu.Unlock()
	}
}

func (l *senderLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
