package rango

import (
	"testing"
	"time"
)

func TestCategoryCacheList(t *testing.T) {
	s := setupTestStore(t)
	mustInsertCategory(t, s, "Python", 0)
	mustInsertCategory(t, s, "Django", 0)

	cache := NewCategoryCache(s, time.Minute)
	cats, err := cache.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(cats) != 2 {
		t.Fatalf("got %d categories, want 2", len(cats))
	}
	if cats[0].Name != "Python" || cats[1].Name != "Django" {
		t.Errorf("unexpected order: %q, %q", cats[0].Name, cats[1].Name)
	}
}

func TestCategoryCacheServesStaleUntilInvalidated(t *testing.T) {
	s := setupTestStore(t)
	mustInsertCategory(t, s, "Python", 0)

	cache := NewCategoryCache(s, time.Minute)
	if _, err := cache.List(); err != nil {
		t.Fatalf("List failed: %v", err)
	}

	mustInsertCategory(t, s, "Django", 0)

	cats, err := cache.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(cats) != 1 {
		t.Errorf("warm cache returned %d categories, want 1 (stale)", len(cats))
	}

	cache.Invalidate()
	cats, err = cache.List()
	if err != nil {
		t.Fatalf("List after Invalidate failed: %v", err)
	}
	if len(cats) != 2 {
		t.Errorf("got %d categories after invalidate, want 2", len(cats))
	}
}

func TestCategoryCacheSuggest(t *testing.T) {
	s := setupTestStore(t)
	for _, n := range []string{"Alpha", "Alphabet", "Spam"} {
		mustInsertCategory(t, s, n, 0)
	}

	cache := NewCategoryCache(s, time.Minute)
	got, err := cache.Suggest("al", 0)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d matches, want 2", len(got))
	}
	if got[0].Name != "Alpha" || got[1].Name != "Alphabet" {
		t.Errorf("unexpected order: %q, %q", got[0].Name, got[1].Name)
	}

	got, err = cache.Suggest("", 5)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if got != nil {
		t.Errorf("empty prefix returned %d matches", len(got))
	}
}

func TestCategoryCacheExpires(t *testing.T) {
	s := setupTestStore(t)
	mustInsertCategory(t, s, "Python", 0)

	cache := NewCategoryCache(s, time.Nanosecond)
	if _, err := cache.List(); err != nil {
		t.Fatalf("List failed: %v", err)
	}

	mustInsertCategory(t, s, "Django", 0)
	time.Sleep(time.Millisecond)

	cats, err := cache.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(cats) != 2 {
		t.Errorf("got %d categories after TTL expiry, want 2", len(cats))
	}
}
