package chunkstore

import (
	lru "github.com/hashicorp/golang-lru"
)

// byteBudgetCache fronts chunk-file reads with an in-memory LRU keyed by
// path, evicting by total bytes held rather than by entry count.
// golang-lru's Cache only evicts on entry-count overflow, so this wraps
// it the way a donor-pool accountant would: track bytes added, and call
// RemoveOldest as many times as it takes to fall back under budget.
type byteBudgetCache struct {
	cache       *lru.Cache
	sizes       map[string]int64
	budgetBytes int64
	usedBytes   int64
}

// defaultCacheBudgetBytes is the default 256 MiB file cache size.
const defaultCacheBudgetBytes = 256 << 20

func newByteBudgetCache(budgetBytes int64) (*byteBudgetCache, error) {
	if budgetBytes <= 0 {
		budgetBytes = defaultCacheBudgetBytes
	}
	// The entry-count cap is unused directly — eviction is driven by
	// usedBytes below — so it's sized generously rather than tuned.
	c, err := lru.New(1 << 20)
	if err != nil {
		return nil, err
	}
	return &byteBudgetCache{cache: c, sizes: make(map[string]int64), budgetBytes: budgetBytes}, nil
}

func (b *byteBudgetCache) get(path string) ([]byte, bool) {
	v, ok := b.cache.Get(path)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

func (b *byteBudgetCache) put(path string, data []byte) {
	if sz, ok := b.sizes[path]; ok {
		b.usedBytes -= sz
	}
	b.cache.Add(path, data)
	b.sizes[path] = int64(len(data))
	b.usedBytes += int64(len(data))

	for b.usedBytes > b.budgetBytes {
		oldestKey, _, ok := b.cache.RemoveOldest()
		if !ok {
			break
		}
		key := oldestKey.(string)
		b.usedBytes -= b.sizes[key]
		delete(b.sizes, key)
	}
}
