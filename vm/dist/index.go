package dist

import (
	"bytes"
	"sort"
	"sync"
)

// ---------------------------------------------------------------------------
// Index: content-addressed lookup of bundles
// ---------------------------------------------------------------------------

// Index stores bundles by content hash. Bundles with identical bytecode
// share an entry; the first one added wins.
type Index struct {
	mu      sync.RWMutex
	bundles map[[32]byte]*Bundle
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{bundles: make(map[[32]byte]*Bundle)}
}

// Add stores b and reports whether its hash was new.
func (ix *Index) Add(b *Bundle) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if _, ok := ix.bundles[b.Hash]; ok {
		return false
	}
	ix.bundles[b.Hash] = b
	return true
}

// Lookup returns the bundle for h, or nil.
func (ix *Index) Lookup(h [32]byte) *Bundle {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.bundles[h]
}

// Has reports whether h is indexed.
func (ix *Index) Has(h [32]byte) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	_, ok := ix.bundles[h]
	return ok
}

// Len returns the number of distinct bundles.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.bundles)
}

// Hashes returns all indexed hashes in byte order.
func (ix *Index) Hashes() [][32]byte {
	ix.mu.RLock()
	out := make([][32]byte, 0, len(ix.bundles))
	for h := range ix.bundles {
		out = append(out, h)
	}
	ix.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i][:], out[j][:]) < 0
	})
	return out
}
