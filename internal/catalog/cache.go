package catalog

import (
	"sync"

	"github.com/bjl5029/WSD-3/internal/models"
)

// StackCache maps case-folded tech-stack names to ids. It only ever holds committed rows.
type StackCache struct {
	mu  sync.RWMutex
	ids map[string]int64
}

func NewStackCache() *StackCache {
	return &StackCache{ids: make(map[string]int64)}
}

func (c *StackCache) Get(name string) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.ids[foldKey(name)]
	return id, ok
}

func (c *StackCache) Put(name string, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids[foldKey(name)] = id
}

// Load replaces the cache contents.
func (c *StackCache) Load(stacks []models.TechStack) {
	ids := make(map[string]int64, len(stacks))
	for _, s := range stacks {
		ids[foldKey(s.Name)] = s.ID
	}
	c.mu.Lock()
	c.ids = ids
	c.mu.Unlock()
}

func (c *StackCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ids)
}
