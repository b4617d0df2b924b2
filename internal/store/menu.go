package store

import (
	"sync"
	"time"

	"delice/internal/domain"
)

// Menu is a read cache over the remote menu table. The remote side is
// the source of truth; the cache is only trusted while valid and is
// invalidated explicitly after any admin mutation.
type Menu struct {
	mu          sync.Mutex
	items       []domain.MenuItem
	lastFetched time.Time
	valid       bool
}

func NewMenu() *Menu { return &Menu{} }

func (m *Menu) Set(items []domain.MenuItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = items
	m.lastFetched = time.Now()
	m.valid = true
}

func (m *Menu) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.valid = false
}

// Items returns the cached list and whether it may be served without a
// refetch.
func (m *Menu) Items() ([]domain.MenuItem, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.MenuItem, len(m.items))
	copy(out, m.items)
	return out, m.valid
}

// Find looks an item up by id in the cache.
func (m *Menu) Find(id string) (domain.MenuItem, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.ID == id {
			return it, true
		}
	}
	return domain.MenuItem{}, false
}

func (m *Menu) LastFetched() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastFetched
}
