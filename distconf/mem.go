package distconf

import "sync"

type memConfig struct {
	noopCloser

	vals    map[string][]byte
	watches map[string][]backingCallbackFunction
	mu      sync.Mutex
}

// Mem creates a memory config that is writable and notifies watchers of every write
func Mem() ReaderWriter {
	return &memConfig{
		vals:    make(map[string][]byte),
		watches: make(map[string][]backingCallbackFunction),
	}
}

// MemLoader returns a BackingLoader for m
func MemLoader(m ReaderWriter) BackingLoader {
	return BackingLoaderFunc(func() (Reader, error) {
		return m, nil
	})
}

func (m *memConfig) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vals[key], nil
}

// Write key, or delete it when value is nil
func (m *memConfig) Write(key string, value []byte) error {
	m.mu.Lock()
	if value == nil {
		delete(m.vals, key)
	} else {
		m.vals[key] = value
	}
	callbacks := append([]backingCallbackFunction{}, m.watches[key]...)
	m.mu.Unlock()

	// Callbacks call back into Get
	for _, c := range callbacks {
		c(key)
	}
	return nil
}

func (m *memConfig) Watch(key string, callback backingCallbackFunction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watches[key] = append(m.watches[key], callback)
	return nil
}
