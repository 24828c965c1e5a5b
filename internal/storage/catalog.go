package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Catalog indexes stored runs so they can be listed without walking the
// run directories.
type Catalog interface {
	Init(ctx context.Context) error
	Record(ctx context.Context, meta RunMetadata) error
	Runs(ctx context.Context) ([]RunMetadata, error)
	Close() error
}

func NewCatalog(kind, sqlitePath string) (Catalog, error) {
	switch kind {
	case "", "memory":
		return NewMemoryCatalog(), nil
	case "sqlite":
		return NewSQLiteCatalog(sqlitePath), nil
	default:
		return nil, fmt.Errorf("unsupported catalog backend: %s", kind)
	}
}

type MemoryCatalog struct {
	mu   sync.RWMutex
	runs map[string]RunMetadata
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{}
}

func (c *MemoryCatalog) Init(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.runs == nil {
		c.runs = make(map[string]RunMetadata)
	}
	return nil
}

func (c *MemoryCatalog) Record(_ context.Context, meta RunMetadata) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.runs == nil {
		return errNotInitialized
	}
	c.runs[meta.ID] = meta
	return nil
}

func (c *MemoryCatalog) Runs(_ context.Context) ([]RunMetadata, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.runs == nil {
		return nil, errNotInitialized
	}
	out := make([]RunMetadata, 0, len(c.runs))
	for _, m := range c.runs {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (c *MemoryCatalog) Close() error { return nil }
