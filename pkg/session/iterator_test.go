package session

import (
	"testing"

	cmiserrors "github.com/docfabric/cmisgo/pkg/errors"
)

// sliceFetcher serves pages out of a fixed item list and counts fetches.
type sliceFetcher struct {
	items    []int
	withFlag bool
	calls    int
	failAt   int // fail the nth call when > 0
}

func (f *sliceFetcher) fetch(skip, max int64) (*Page[int], error) {
	f.calls++
	if f.failAt > 0 && f.calls == f.failAt {
		return nil, cmiserrors.NewTransportError("fetch", "backend unavailable", 503, nil)
	}
	total := int64(len(f.items))
	if skip < 0 {
		skip = 0
	}
	if skip > total {
		skip = total
	}
	end := total
	if max > 0 && skip+max < end {
		end = skip + max
	}
	page := &Page[int]{Items: f.items[skip:end]}
	if f.withFlag {
		more := end < total
		page.HasMoreItems = &more
		page.TotalNumItems = &total
	}
	return page, nil
}

func rangeItems(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestItemIteratorDrain(t *testing.T) {
	t.Run("with advisory flag", func(t *testing.T) {
		f := &sliceFetcher{items: rangeItems(10), withFlag: true}
		v := NewItemIterable(f.fetch, 3)

		got, err := v.ToSlice()
		if err != nil {
			t.Fatalf("ToSlice: %v", err)
		}
		if len(got) != 10 {
			t.Fatalf("expected 10 items, got %d", len(got))
		}
		for i, item := range got {
			if item != i {
				t.Fatalf("item %d = %d, out of order", i, item)
			}
		}
		// Pages 3+3+3+1; the flag on the final partial page stops
		// iteration without an extra fetch.
		if f.calls != 4 {
			t.Fatalf("expected 4 fetches, got %d", f.calls)
		}
	})

	t.Run("without advisory flag a partial page ends iteration", func(t *testing.T) {
		f := &sliceFetcher{items: rangeItems(10)}
		v := NewItemIterable(f.fetch, 3)

		got, err := v.ToSlice()
		if err != nil || len(got) != 10 {
			t.Fatalf("got %d items, err %v", len(got), err)
		}
		if f.calls != 4 {
			t.Fatalf("expected 4 fetches, got %d", f.calls)
		}
	})

	t.Run("without flag a boundary-aligned set costs one empty fetch", func(t *testing.T) {
		f := &sliceFetcher{items: rangeItems(9)}
		v := NewItemIterable(f.fetch, 3)

		got, err := v.ToSlice()
		if err != nil || len(got) != 9 {
			t.Fatalf("got %d items, err %v", len(got), err)
		}
		if f.calls != 4 {
			t.Fatalf("expected 3 full + 1 empty fetch, got %d", f.calls)
		}
	})

	t.Run("empty result set", func(t *testing.T) {
		f := &sliceFetcher{}
		got, err := NewItemIterable(f.fetch, 3).ToSlice()
		if err != nil || len(got) != 0 {
			t.Fatalf("got %d items, err %v", len(got), err)
		}
		if f.calls != 1 {
			t.Fatalf("expected exactly 1 fetch, got %d", f.calls)
		}
	})
}

func TestItemIterableViews(t *testing.T) {
	t.Run("skip starts at an absolute position with one fetch", func(t *testing.T) {
		f := &sliceFetcher{items: rangeItems(10), withFlag: true}
		v := NewItemIterable(f.fetch, 3)

		page, err := v.SkipTo(4).GetPage()
		if err != nil {
			t.Fatalf("GetPage: %v", err)
		}
		if f.calls != 1 {
			t.Fatalf("expected a single fetch, got %d", f.calls)
		}
		if len(page) != 3 || page[0] != 4 {
			t.Fatalf("page = %v, want [4 5 6]", page)
		}
	})

	t.Run("views are independent", func(t *testing.T) {
		f := &sliceFetcher{items: rangeItems(10), withFlag: true}
		v := NewItemIterable(f.fetch, 3)
		w := v.SkipTo(6).WithPageSize(2)

		vp, _ := v.GetPage()
		wp, _ := w.GetPage()
		if vp[0] != 0 || wp[0] != 6 || len(wp) != 2 {
			t.Fatalf("views interfered: %v %v", vp, wp)
		}
		// The original view's start is untouched by SkipTo.
		vp2, _ := v.GetPage()
		if vp2[0] != 0 {
			t.Fatalf("SkipTo mutated the receiver: %v", vp2)
		}
	})

	t.Run("page statistics reflect the last fetch", func(t *testing.T) {
		f := &sliceFetcher{items: rangeItems(10), withFlag: true}
		v := NewItemIterable(f.fetch, 4)

		if v.TotalNumItems() != -1 {
			t.Fatalf("expected -1 before any fetch, got %d", v.TotalNumItems())
		}
		if _, err := v.GetPage(); err != nil {
			t.Fatalf("GetPage: %v", err)
		}
		if v.PageNumItems() != 4 || !v.HasMoreItems() || v.TotalNumItems() != 10 {
			t.Fatalf("stats = %d/%v/%d", v.PageNumItems(), v.HasMoreItems(), v.TotalNumItems())
		}
	})

	t.Run("iterate restarts with fresh fetches", func(t *testing.T) {
		f := &sliceFetcher{items: rangeItems(4), withFlag: true}
		v := NewItemIterable(f.fetch, 10)

		if _, err := v.ToSlice(); err != nil {
			t.Fatalf("first pass: %v", err)
		}
		first := f.calls
		if _, err := v.ToSlice(); err != nil {
			t.Fatalf("second pass: %v", err)
		}
		if f.calls <= first {
			t.Fatal("second iteration reused pages from the first")
		}
	})
}

func TestItemIteratorFailure(t *testing.T) {
	f := &sliceFetcher{items: rangeItems(10), withFlag: true, failAt: 2}
	it := NewItemIterable(f.fetch, 3).Iterate()

	var got []int
	for {
		item, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, item)
	}
	if len(got) != 3 {
		t.Fatalf("expected the first page before failing, got %d items", len(got))
	}
	if !cmiserrors.IsTransport(it.Err()) {
		t.Fatalf("expected a transport error, got %v", it.Err())
	}

	// A failed iterator stays failed; the view can restart.
	if _, ok := it.Next(); ok {
		t.Fatal("iterator yielded after a failure")
	}
}
