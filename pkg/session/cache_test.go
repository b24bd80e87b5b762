package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/docfabric/cmisgo/pkg/cmis"
)

func newTestObject(t *testing.T, id, name string, base cmis.BaseTypeID, extra cmis.Properties) CmisObject {
	t.Helper()
	props := cmis.Properties{
		cmis.PropertyObjectID:     {ID: cmis.PropertyObjectID, Values: []any{id}},
		cmis.PropertyBaseTypeID:   {ID: cmis.PropertyBaseTypeID, Values: []any{string(base)}},
		cmis.PropertyObjectTypeID: {ID: cmis.PropertyObjectTypeID, Values: []any{string(base)}},
		cmis.PropertyName:         {ID: cmis.PropertyName, Values: []any{name}},
	}
	for pid, p := range extra {
		props[pid] = p
	}
	obj, err := NewObjectFactory().ConvertObject(&cmis.ObjectData{Properties: props})
	if err != nil {
		t.Fatalf("ConvertObject: %v", err)
	}
	return obj
}

func newTestDoc(t *testing.T, id, name string) CmisObject {
	return newTestObject(t, id, name, cmis.BaseTypeDocument, nil)
}

func newTestFolder(t *testing.T, id, name, path string) CmisObject {
	return newTestObject(t, id, name, cmis.BaseTypeFolder, cmis.Properties{
		cmis.PropertyPath: {ID: cmis.PropertyPath, Values: []any{path}},
	})
}

func TestObjectCacheBasics(t *testing.T) {
	t.Run("get after put", func(t *testing.T) {
		c := newObjectCache(0)
		obj := newTestDoc(t, "d1", "a.txt")
		c.Put(obj, "ctx-a")

		got, ok := c.Get("d1", "ctx-a")
		if !ok || got.ID() != "d1" {
			t.Fatalf("expected hit for (d1, ctx-a), got ok=%v", ok)
		}
	})

	t.Run("entries are partitioned by context key", func(t *testing.T) {
		c := newObjectCache(0)
		c.Put(newTestDoc(t, "d1", "a.txt"), "ctx-a")

		if _, ok := c.Get("d1", "ctx-b"); ok {
			t.Fatal("hit under a different context key")
		}
		c.Put(newTestDoc(t, "d1", "a.txt"), "ctx-b")
		if c.Len() != 2 {
			t.Fatalf("expected 2 entries, got %d", c.Len())
		}
	})

	t.Run("put replaces the entry for the same pair", func(t *testing.T) {
		c := newObjectCache(0)
		c.Put(newTestDoc(t, "d1", "old.txt"), "k")
		c.Put(newTestDoc(t, "d1", "new.txt"), "k")

		got, _ := c.Get("d1", "k")
		if got.Name() != "new.txt" {
			t.Fatalf("expected replacement, got %q", got.Name())
		}
		if c.Len() != 1 {
			t.Fatalf("expected 1 entry, got %d", c.Len())
		}
	})

	t.Run("miss has no side effects", func(t *testing.T) {
		c := newObjectCache(0)
		if _, ok := c.Get("nope", "k"); ok {
			t.Fatal("unexpected hit")
		}
		if c.Len() != 0 {
			t.Fatalf("miss created state: %d entries", c.Len())
		}
	})
}

func TestObjectCacheRemove(t *testing.T) {
	t.Run("remove purges every context key", func(t *testing.T) {
		c := newObjectCache(0)
		c.Put(newTestDoc(t, "d1", "a.txt"), "k1")
		c.Put(newTestDoc(t, "d1", "a.txt"), "k2")
		c.Put(newTestDoc(t, "d2", "b.txt"), "k1")

		c.Remove("d1")

		if _, ok := c.Get("d1", "k1"); ok {
			t.Fatal("d1/k1 survived Remove")
		}
		if _, ok := c.Get("d1", "k2"); ok {
			t.Fatal("d1/k2 survived Remove")
		}
		if _, ok := c.Get("d2", "k1"); !ok {
			t.Fatal("Remove purged an unrelated identity")
		}
	})

	t.Run("remove drops path bindings", func(t *testing.T) {
		c := newObjectCache(0)
		folder := newTestFolder(t, "f1", "docs", "/docs")
		c.Put(folder, "k")

		if _, ok := c.GetByPath("/docs", "k"); !ok {
			t.Fatal("path index missing after Put")
		}
		c.Remove("f1")
		if _, ok := c.GetByPath("/docs", "k"); ok {
			t.Fatal("path binding survived Remove")
		}
	})

	t.Run("remove path leaves id entries intact", func(t *testing.T) {
		c := newObjectCache(0)
		c.PutPath("/a/b.txt", newTestDoc(t, "d1", "b.txt"), "k")

		c.RemovePath("/a/b.txt")
		if _, ok := c.GetByPath("/a/b.txt", "k"); ok {
			t.Fatal("path binding survived RemovePath")
		}
		if _, ok := c.Get("d1", "k"); !ok {
			t.Fatal("id entry was purged by RemovePath")
		}
	})

	t.Run("clear resets everything", func(t *testing.T) {
		c := newObjectCache(0)
		c.Put(newTestFolder(t, "f1", "docs", "/docs"), "k")
		c.Clear()
		if c.Len() != 0 {
			t.Fatalf("expected empty cache, got %d entries", c.Len())
		}
		if _, ok := c.GetByPath("/docs", "k"); ok {
			t.Fatal("path index survived Clear")
		}
	})
}

func TestObjectCachePathIndex(t *testing.T) {
	t.Run("rebinding a path drops the old owner's reverse entry", func(t *testing.T) {
		c := newObjectCache(0)
		c.PutPath("/x", newTestDoc(t, "d1", "x"), "k")
		c.PutPath("/x", newTestDoc(t, "d2", "x"), "k")

		got, ok := c.GetByPath("/x", "k")
		if !ok || got.ID() != "d2" {
			t.Fatalf("path resolves to %v, want d2", got)
		}
		// Removing the old owner must not unbind the path from the new one.
		c.Remove("d1")
		if _, ok := c.GetByPath("/x", "k"); !ok {
			t.Fatal("rebound path was dropped with the old owner")
		}
	})
}

func TestObjectCacheTTL(t *testing.T) {
	c := newObjectCache(time.Minute)
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := base
	c.now = func() time.Time { return now }

	c.Put(newTestDoc(t, "d1", "a.txt"), "k")

	t.Run("fresh entry hits", func(t *testing.T) {
		now = base.Add(30 * time.Second)
		if _, ok := c.Get("d1", "k"); !ok {
			t.Fatal("fresh entry missed")
		}
		if age, ok := c.Age("d1", "k"); !ok || age != 30*time.Second {
			t.Fatalf("age = %v, ok = %v", age, ok)
		}
	})

	t.Run("expired entry misses but age stays observable", func(t *testing.T) {
		now = base.Add(2 * time.Minute)
		if _, ok := c.Get("d1", "k"); ok {
			t.Fatal("expired entry served")
		}
		if age, ok := c.Age("d1", "k"); !ok || age != 2*time.Minute {
			t.Fatalf("age = %v, ok = %v", age, ok)
		}
	})

	t.Run("zero ttl never expires", func(t *testing.T) {
		forever := newObjectCache(0)
		forever.now = func() time.Time { return now }
		forever.Put(newTestDoc(t, "d2", "b.txt"), "k")
		now = base.Add(24 * 365 * time.Hour)
		if _, ok := forever.Get("d2", "k"); !ok {
			t.Fatal("entry expired despite ttl 0")
		}
	})
}

func TestObjectCacheConcurrency(t *testing.T) {
	c := newObjectCache(0)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				id := fmt.Sprintf("obj-%d-%d", g, i%10)
				c.Put(newTestDoc(t, id, "n"), "k")
				c.Get(id, "k")
				if i%50 == 0 {
					c.Remove(id)
				}
			}
		}(g)
	}
	wg.Wait()
}
