package stats

import "sync"

// Bag is the metadata bag every mutator, minimizer, and the feedback
// hook record into on success. It generalizes hive/merge's Applied
// struct — which tallies four named counters — to an open-ended set of
// Kinds via a map, since this enum has fifteen members rather than
// four. Safe for concurrent use, though in practice a Visitor and its
// Bag are owned by a single worker.
type Bag struct {
	mu     sync.Mutex
	counts map[Kind]int64
}

// NewBag returns an empty counter bag.
func NewBag() *Bag {
	return &Bag{counts: make(map[Kind]int64)}
}

// Record attributes one successful operation to kind.
func (b *Bag) Record(kind Kind) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.counts[kind]++
}

// Count returns how many times kind has been recorded.
func (b *Bag) Count(kind Kind) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts[kind]
}

// Total returns the sum of every recorded kind's count.
func (b *Bag) Total() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	var total int64
	for _, c := range b.counts {
		total += c
	}
	return total
}

// Snapshot returns a name -> count map safe for a caller to serialize,
// omitting kinds with a zero count. The map itself is unordered;
// encoding/json writes its keys sorted by name.
func (b *Bag) Snapshot() map[string]int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]int64, len(allKinds))
	for _, k := range allKinds {
		if c := b.counts[k]; c != 0 {
			out[k.String()] = c
		}
	}
	return out
}
