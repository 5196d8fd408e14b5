package webapi

import (
	"context"
	"testing"
	"time"

	"github.com/jimsnab/go-lane"
)

func TestTreeCacheStore(t *testing.T) {
	tcs := NewTreeCacheStore(lane.NewTestingLane(context.Background()))

	if _, exists := tcs.Get("http://x/a"); exists {
		t.Fatal("empty store has an entry")
	}

	when := time.Date(2017, 4, 1, 8, 30, 0, 0, time.UTC)
	tcs.Put(&CacheEntry{URL: "http://x/a", Data: NewString("one"), LastModified: when})
	tcs.Put(&CacheEntry{URL: "http://x/b/c", Data: NewString("two")})
	tcs.Put(&CacheEntry{URL: "http://x/a", Data: NewString("three"), LastModified: when.Add(time.Hour)})

	entry, exists := tcs.Get("http://x/a")
	if !exists {
		t.Fatal("entry missing")
	}
	if entry.Data.Str() != "three" || !entry.LastModified.Equal(when.Add(time.Hour)) {
		t.Errorf("entry not replaced: %s %s", entry.Data.Str(), entry.LastModified)
	}

	entry, _ = tcs.Get("http://x/b/c")
	if !entry.LastModified.IsZero() {
		t.Error("expected zero last-modified")
	}

	entries := tcs.Entries()
	if len(entries) != 2 || entries[0].URL != "http://x/a" || entries[1].URL != "http://x/b/c" {
		t.Fatal("unexpected entries")
	}
}
