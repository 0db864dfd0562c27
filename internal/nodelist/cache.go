package nodelist

import (
	"fmt"
	"os"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheCapacity bounds the number of individual Entry lookups held in the
// LRU. Whole network indexes loaded by LoadNetwork are kept separately in
// Directory.indexes and are not bounded by it.
const cacheCapacity = 64

// key identifies one (zone,net,node,point) nodelist lookup target.
type key struct {
	Zone, Net, Node, Point uint16
}

// Directory loads compiled per-network indexes on demand and caches
// individual Entry lookups behind an LRU so repeated route resolution
// (the common case: polling the same handful of uplinks) doesn't
// re-scan a whole network's index every time.
type Directory struct {
	mu      sync.Mutex
	cache   *lru.Cache[key, Entry]
	indexes map[string][]Entry // network name -> loaded index, kept whole for route climbing
}

// NewDirectory constructs an empty Directory.
func NewDirectory() (*Directory, error) {
	c, err := lru.New[key, Entry](cacheCapacity)
	if err != nil {
		return nil, fmt.Errorf("nodelist: create lookup cache: %w", err)
	}
	return &Directory{cache: c, indexes: make(map[string][]Entry)}, nil
}

// LoadNetwork reads a compiled binary index for network from path and
// makes its entries available to Lookup/Route under that network name.
func (d *Directory) LoadNetwork(network, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("nodelist: open index %s: %w", path, err)
	}
	defer f.Close()

	entries, err := LoadIndex(f)
	if err != nil {
		return fmt.Errorf("nodelist: load index %s: %w", path, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.indexes[network] = entries
	for _, e := range entries {
		d.cache.Add(key{e.Zone, e.Net, e.Node, e.Point}, e)
	}
	return nil
}

// Lookup returns the entry for (zone,net,node,point) within network, or
// false if no such entry is loaded.
func (d *Directory) Lookup(network string, zone, net, node, point uint16) (Entry, bool) {
	d.mu.Lock()
	if e, ok := d.cache.Get(key{zone, net, node, point}); ok {
		d.mu.Unlock()
		return e, true
	}
	entries := d.indexes[network]
	d.mu.Unlock()

	e, ok := binarySearch(entries, zone, net, node, point)
	if ok {
		d.mu.Lock()
		d.cache.Add(key{zone, net, node, point}, e)
		d.mu.Unlock()
	}
	return e, ok
}
