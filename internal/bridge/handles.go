package bridge

import "sync"

// Handle refers to text owned by the caller until released.
type Handle uint64

type handleTable struct {
	mu    sync.Mutex
	next  Handle
	texts map[Handle]string
}

func newHandleTable() *handleTable {
	return &handleTable{texts: make(map[Handle]string)}
}

func (t *handleTable) put(s string) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	t.texts[t.next] = s
	return t.next
}

func (t *handleTable) get(h Handle) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.texts[h]
	return s, ok
}

func (t *handleTable) release(h Handle) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.texts[h]
	delete(t.texts, h)
	return s, ok
}

func (t *handleTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.texts)
}
