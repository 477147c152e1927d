package store

import (
	"context"
	"sync"

	"github.com/effective-security/toolagent/chatmodel"
)

// inMemory is a ring buffer of entries.
// start is the index of the oldest entry, size the number of live entries.
type inMemory struct {
	mu    sync.RWMutex
	buf   []chatmodel.Entry
	start int
	size  int
}

// NewMemoryStore returns an in-memory conversation log with the given capacity,
// DefaultCapacity is used when capacity is not positive.
func NewMemoryStore(capacity int) ConversationLog {
	return &inMemory{
		buf: make([]chatmodel.Entry, normalizeCapacity(capacity)),
	}
}

func (m *inMemory) Capacity() int {
	return len(m.buf)
}

func (m *inMemory) Add(_ context.Context, content string, source chatmodel.Source) error {
	entry := chatmodel.NewEntry(content, source)

	m.mu.Lock()
	defer m.mu.Unlock()

	capacity := len(m.buf)
	if m.size < capacity {
		m.buf[(m.start+m.size)%capacity] = entry
		m.size++
		return nil
	}
	// full: overwrite the oldest and advance
	m.buf[m.start] = entry
	m.start = (m.start + 1) % capacity
	return nil
}

func (m *inMemory) Entries(_ context.Context) []chatmodel.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.size == 0 {
		return nil
	}
	capacity := len(m.buf)
	list := make([]chatmodel.Entry, m.size)
	for i := 0; i < m.size; i++ {
		list[i] = m.buf[(m.start+i)%capacity]
	}
	return list
}

func (m *inMemory) Context(ctx context.Context) string {
	return chatmodel.FormatContext(m.Entries(ctx))
}

func (m *inMemory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.buf)
	m.start = 0
	m.size = 0
	return nil
}
