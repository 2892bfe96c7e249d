package ranking

import "sync"

// KV is the persistent string store the ranking is written to.
type KV interface {
	// Get returns the value for key and whether it exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	// Update replaces the value for key with fn's result. The read and the
	// write are atomic with respect to other writers of the same store.
	Update(key string, fn func(old string, ok bool) (string, error)) error
}

// MemoryKV is a KV kept in memory, used when no database is available.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryKV) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryKV) Update(key string, fn func(old string, ok bool) (string, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.data[key]
	value, err := fn(old, ok)
	if err != nil {
		return err
	}
	m.data[key] = value
	return nil
}
