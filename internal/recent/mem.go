package recent

import (
	"context"
	"sync"
	"time"
)

type memStore struct {
	mu     sync.Mutex
	max    int
	docs   []Doc
	closed bool
	now    func() time.Time
}

// NewMem returns an in-memory Store holding at most max docs.
func NewMem(max int) Store {
	if max <= 0 {
		max = DefaultMax
	}
	return &memStore{max: max, now: time.Now}
}

func (m *memStore) Add(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	out := make([]Doc, 0, len(m.docs)+1)
	out = append(out, Doc{Path: path, OpenedAt: m.now().UTC()})
	for _, d := range m.docs {
		if d.Path != path {
			out = append(out, d)
		}
	}
	if len(out) > m.max {
		out = out[:m.max]
	}
	m.docs = out
	return nil
}

func (m *memStore) List(ctx context.Context, limit int) ([]Doc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	n := len(m.docs)
	if limit > 0 && limit < n {
		n = limit
	}
	return append([]Doc(nil), m.docs[:n]...), nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.docs = nil
	return nil
}

func (m *memStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
