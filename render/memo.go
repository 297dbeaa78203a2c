package render

import (
	"github.com/tinselui/tinsel/reactive"
)

type memoEntry struct {
	key    any
	source any
	result any
}

// MemoCache is the two-generation per-item cache behind MemoList. Each
// expansion promotes hits into a fresh current generation and rotates:
// previous ← current, current ← fresh. Whatever the rotation leaves behind
// is released — eviction falls out of the rotation, with no explicit policy.
type MemoCache struct {
	prev map[uint64]memoEntry
	cur  map[uint64]memoEntry
}

func NewMemoCache() *MemoCache {
	return &MemoCache{
		prev: map[uint64]memoEntry{},
		cur:  map[uint64]memoEntry{},
	}
}

// expand renders ml through the cache into an ordinary explicitly-keyed
// List. A hit requires the key to match and, unless TrustKey, the cached
// source item to be identical to the incoming one.
func (mc *MemoCache) expand(ml MemoList) List {
	fresh := make(map[uint64]memoEntry, len(ml.Items))
	items := make([]Item, 0, len(ml.Items))
	for i, src := range ml.Items {
		key := src
		if ml.Key != nil {
			key = ml.Key(src, i)
		}
		h := keyHash(key)
		entry, ok := mc.cur[h]
		if !ok {
			entry, ok = mc.prev[h]
		}
		if ok && !reactive.Identical(entry.key, key) {
			ok = false
		}
		if ok && !ml.TrustKey && !reactive.Identical(entry.source, src) {
			ok = false
		}
		if !ok {
			entry = memoEntry{key: key, source: src}
			if ml.Render != nil {
				entry.result = ml.Render(src, i)
			}
		}
		fresh[h] = entry
		items = append(items, Item{Key: key, HasKey: true, Value: entry.result})
	}

	// Rotate. Entries stranded in the discarded generation are dropped
	// here, not by a separate eviction pass.
	for h := range mc.prev {
		delete(mc.prev, h)
	}
	mc.prev, mc.cur = mc.cur, fresh
	return List{Items: items, Explicit: true}
}
