package service

import "sync"

// KeyMutex serializes work per entity key (cart, order, points account).
// Mutexes are created on first use and kept for the process lifetime; the key
// space is bounded by active users and orders.
type KeyMutex struct {
	mus sync.Map
}

func NewKeyMutex() *KeyMutex {
	return &KeyMutex{}
}

// Lock blocks until the key is held and returns the unlock func.
func (m *KeyMutex) Lock(key string) func() {
	v, _ := m.mus.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
