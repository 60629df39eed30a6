package remote

import (
	"sort"
	"sync"

	"github.com/derekparker/trie"
)

// ClassIndex is a name index over the classes observed as loaded in
// the target. It backs class-name completion in the console and
// prefix matching of well-known marker classes. The index only records
// names; handles are re-resolved per suspend point.
type ClassIndex struct {
	mu sync.Mutex
	t  *trie.Trie
}

// NewClassIndex returns an empty index.
func NewClassIndex() *ClassIndex {
	return &ClassIndex{t: trie.New()}
}

// Add records a class name.
func (idx *ClassIndex) Add(name string) {
	if name == "" {
		return
	}
	idx.mu.Lock()
	idx.t.Add(name, nil)
	idx.mu.Unlock()
}

// Has reports whether name has been recorded.
func (idx *ClassIndex) Has(name string) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	_, ok := idx.t.Find(name)
	return ok
}

// PrefixSearch returns all recorded names starting with pre, sorted.
func (idx *ClassIndex) PrefixSearch(pre string) []string {
	idx.mu.Lock()
	keys := idx.t.PrefixSearch(pre)
	idx.mu.Unlock()
	sort.Strings(keys)
	return keys
}
