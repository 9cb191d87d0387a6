package question

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gokatarajesh/triviago/internal/storage"
)

const (
	categoriesKey   = "categories"
	defaultCacheTTL = 24 * time.Hour
)

// CategoryCache keeps the category list in the local store so the
// configuration step does not hit OpenTDB on every run.
type CategoryCache struct {
	store storage.Store
	ttl   time.Duration
}

func NewCategoryCache(store storage.Store, ttl time.Duration) *CategoryCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CategoryCache{store: store, ttl: ttl}
}

// Get returns nil, nil on a miss. A corrupt entry counts as a miss.
func (c *CategoryCache) Get(ctx context.Context) ([]Category, error) {
	data, err := c.store.Get(ctx, categoriesKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var cats []Category
	if err := json.Unmarshal([]byte(data), &cats); err != nil {
		return nil, nil
	}
	return cats, nil
}

func (c *CategoryCache) Set(ctx context.Context, cats []Category) error {
	data, err := json.Marshal(cats)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, categoriesKey, string(data), c.ttl)
}
