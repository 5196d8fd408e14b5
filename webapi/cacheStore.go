package webapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/jimsnab/go-lane"
	"github.com/jimsnab/go-treestore"
)

const lastModifiedAttr = "last-modified"

type (
	// CacheEntry is the last successful response for one request URL.
	CacheEntry struct {
		URL          string
		Data         *Value
		LastModified time.Time
	}

	// CacheStore holds cache entries keyed by full request URL. Entries
	// are replaced, never removed.
	CacheStore interface {
		Get(url string) (entry *CacheEntry, exists bool)
		Put(entry *CacheEntry)
		Entries() []*CacheEntry
	}

	treeCacheStore struct {
		mu   sync.Mutex
		ts   *treestore.TreeStore
		urls []string
	}
)

// NewTreeCacheStore makes an in-memory cache store on a treestore tree.
func NewTreeCacheStore(l lane.Lane) CacheStore {
	return &treeCacheStore{
		ts:   treestore.NewTreeStore(l.Derive(), 1),
		urls: []string{},
	}
}

func (tcs *treeCacheStore) Get(url string) (entry *CacheEntry, exists bool) {
	tcs.mu.Lock()
	defer tcs.mu.Unlock()
	return tcs.getUnlocked(url)
}

func (tcs *treeCacheStore) getUnlocked(url string) (entry *CacheEntry, exists bool) {
	sk := treestore.MakeStoreKey("cache", url)
	val, _, valExists := tcs.ts.GetKeyValue(sk)
	if !valExists {
		return
	}

	data, ok := val.(*Value)
	if !ok {
		return
	}

	entry = &CacheEntry{URL: url, Data: data}
	if attrExists, text := tcs.ts.GetMetadataAttribute(sk, lastModifiedAttr); attrExists && text != "" {
		if when, err := http.ParseTime(text); err == nil {
			entry.LastModified = when
		}
	}
	exists = true
	return
}

func (tcs *treeCacheStore) Put(entry *CacheEntry) {
	tcs.mu.Lock()
	defer tcs.mu.Unlock()

	sk := treestore.MakeStoreKey("cache", entry.URL)
	if _, _, valExists := tcs.ts.GetKeyValue(sk); !valExists {
		tcs.urls = append(tcs.urls, entry.URL)
	}
	tcs.ts.SetKeyValue(sk, entry.Data)

	text := ""
	if !entry.LastModified.IsZero() {
		text = entry.LastModified.UTC().Format(http.TimeFormat)
	}
	tcs.ts.SetMetadataAttribute(sk, lastModifiedAttr, text)
}

// Entries lists the cached entries in the order they were first stored.
func (tcs *treeCacheStore) Entries() []*CacheEntry {
	tcs.mu.Lock()
	defer tcs.mu.Unlock()

	entries := make([]*CacheEntry, 0, len(tcs.urls))
	for _, url := range tcs.urls {
		if entry, exists := tcs.getUnlocked(url); exists {
			entries = append(entries, entry)
		}
	}
	return entries
}
