package gatt

import "sync"

// centralTracker records the connected central. Radio libraries report
// connections on their own goroutines; the link controller polls it.
type centralTracker struct {
	mu     sync.Mutex
	remote string
	ok     bool
}

func (t *centralTracker) connected(remote string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.remote, t.ok = remote, true
}

// disconnected clears the central if it is still remote. A stale
// disconnection never clears a newer central.
func (t *centralTracker) disconnected(remote string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ok && t.remote == remote {
		t.remote, t.ok = "", false
	}
}

func (t *centralTracker) Central() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remote, t.ok
}
