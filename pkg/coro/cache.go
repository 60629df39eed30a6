package coro

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/coroview/coroview/pkg/remote"
)

const classCacheSize = 512

// classCache memoizes loaded-class lookups for the duration of one
// suspend point. Handles do not survive a resume; Clear must be called
// before the target runs again.
type classCache struct {
	cache *lru.Cache
	index *remote.ClassIndex
}

type classCacheEntry struct {
	cls remote.ClassHandle // nil when the class was not loaded
}

func newClassCache(index *remote.ClassIndex) *classCache {
	c, _ := lru.New(classCacheSize)
	return &classCache{cache: c, index: index}
}

// find resolves name against the target's loaded classes, consulting
// the cache first. Negative results are cached too: a class that was
// not loaded when the target halted will not appear mid-suspend.
func (cc *classCache) find(ctx remote.Context, name string) (remote.ClassHandle, error) {
	if v, ok := cc.cache.Get(name); ok {
		e := v.(classCacheEntry)
		if e.cls == nil {
			return nil, remote.ErrClassNotLoaded
		}
		return e.cls, nil
	}
	cls, err := ctx.FindLoadedClass(name)
	if err == remote.ErrClassNotLoaded {
		cc.cache.Add(name, classCacheEntry{})
		return nil, err
	}
	if err != nil {
		// Transport errors are not cached, the next suspend point may
		// succeed.
		return nil, err
	}
	cc.cache.Add(name, classCacheEntry{cls: cls})
	if cc.index != nil {
		cc.index.Add(name)
	}
	return cls, nil
}

// Clear drops every cached handle. Called when the target resumes.
func (cc *classCache) Clear() {
	cc.cache.Purge()
}
