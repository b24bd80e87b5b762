package session

// Page is one bounded batch of typed items from a server-paginated result
// set. HasMoreItems and TotalNumItems are advisory; a repository may omit
// either, in which case continuation is inferred from the batch size.
type Page[T any] struct {
	Items         []T
	HasMoreItems  *bool
	TotalNumItems *int64
}

// FetchFunc fetches one page of a server-side result set. skip is the
// zero-based offset into the full set, max the requested page size.
type FetchFunc[T any] func(skip, max int64) (*Page[T], error)

// ItemIterable presents a server-paginated result set as a lazy, forward-only,
// restartable sequence, fetching only as many pages as are actually consumed.
//
// SkipTo and page-size changes yield new independent views sharing the same
// fetch function; a view's start position never changes. The page statistics
// (PageNumItems, HasMoreItems, TotalNumItems) reflect the most recently
// fetched page through this view and are meaningless before any fetch; they
// make a single view unsafe for concurrent use, while independent views are
// fully independent.
type ItemIterable[T any] struct {
	fetch    FetchFunc[T]
	start    int64
	pageSize int64

	last *Page[T]
}

// NewItemIterable builds an iterable over fetch with the given default page
// size. Non-positive sizes fall back to DefaultMaxItemsPerPage.
func NewItemIterable[T any](fetch FetchFunc[T], pageSize int64) *ItemIterable[T] {
	if pageSize <= 0 {
		pageSize = DefaultMaxItemsPerPage
	}
	return &ItemIterable[T]{fetch: fetch, pageSize: pageSize}
}

// SkipTo returns a new view whose first fetch starts at position. The
// receiver is not modified.
func (v *ItemIterable[T]) SkipTo(position int64) *ItemIterable[T] {
	if position < 0 {
		position = 0
	}
	return &ItemIterable[T]{fetch: v.fetch, start: position, pageSize: v.pageSize}
}

// WithPageSize returns a new view using the given page size.
func (v *ItemIterable[T]) WithPageSize(pageSize int64) *ItemIterable[T] {
	if pageSize <= 0 {
		pageSize = DefaultMaxItemsPerPage
	}
	return &ItemIterable[T]{fetch: v.fetch, start: v.start, pageSize: pageSize}
}

// GetPage materializes exactly one fetch at the view's start position using
// the view's page size, and records the page statistics on the view.
func (v *ItemIterable[T]) GetPage() ([]T, error) {
	return v.getPage(v.pageSize)
}

// GetPageWithMax is GetPage with an explicit page size for this one fetch.
func (v *ItemIterable[T]) GetPageWithMax(max int64) ([]T, error) {
	if max <= 0 {
		max = v.pageSize
	}
	return v.getPage(max)
}

func (v *ItemIterable[T]) getPage(max int64) ([]T, error) {
	page, err := v.fetch(v.start, max)
	if err != nil {
		return nil, err
	}
	v.last = page
	return page.Items, nil
}

// Iterate begins a fresh iteration from the view's start position. Calling
// it again restarts with new fetches; pages from a prior iteration are never
// reused, since repository-side data may have changed in between.
func (v *ItemIterable[T]) Iterate() *ItemIterator[T] {
	return &ItemIterator[T]{view: v, skip: v.start, state: iterNotStarted}
}

// ToSlice drains a fresh iteration into a slice.
func (v *ItemIterable[T]) ToSlice() ([]T, error) {
	var out []T
	it := v.Iterate()
	for {
		item, ok := it.Next()
		if !ok {
			return out, it.Err()
		}
		out = append(out, item)
	}
}

// PageNumItems returns the item count of the most recently fetched page, or
// 0 before any fetch through this view.
func (v *ItemIterable[T]) PageNumItems() int64 {
	if v.last == nil {
		return 0
	}
	return int64(len(v.last.Items))
}

// HasMoreItems reports the advisory continuation flag of the most recently
// fetched page. False when the flag was absent or nothing was fetched yet.
func (v *ItemIterable[T]) HasMoreItems() bool {
	if v.last == nil || v.last.HasMoreItems == nil {
		return false
	}
	return *v.last.HasMoreItems
}

// TotalNumItems returns the advisory total of the most recently fetched
// page, or -1 when the repository did not report one.
func (v *ItemIterable[T]) TotalNumItems() int64 {
	if v.last == nil || v.last.TotalNumItems == nil {
		return -1
	}
	return *v.last.TotalNumItems
}

type iterState int

const (
	iterNotStarted iterState = iota
	iterYielding
	iterExhausted
	iterFailed
)

// ItemIterator is one pull-based pass over an ItemIterable view. Not safe
// for concurrent use.
type ItemIterator[T any] struct {
	view  *ItemIterable[T]
	skip  int64
	state iterState

	buf []T
	idx int

	// final is set once the current buffer is known to be the last page
	// (the repository reported hasMoreItems == false).
	final bool
	err   error
}

// Next returns the next item. ok is false when the sequence is exhausted or
// a fetch failed; Err distinguishes the two. A fetch failure surfaces at the
// point the next item is demanded and is not retried; the caller decides
// whether to restart.
func (it *ItemIterator[T]) Next() (T, bool) {
	var zero T
	for {
		if it.idx < len(it.buf) {
			item := it.buf[it.idx]
			it.idx++
			return item, true
		}

		switch it.state {
		case iterExhausted, iterFailed:
			return zero, false
		}
		if it.final {
			it.state = iterExhausted
			return zero, false
		}

		page, err := it.view.fetch(it.skip, it.view.pageSize)
		if err != nil {
			it.state = iterFailed
			it.err = err
			return zero, false
		}
		it.view.last = page

		n := int64(len(page.Items))
		// Advance by what actually came back, not by the page size, so
		// a server returning partial pages stays aligned.
		it.skip += n

		if n == 0 {
			it.state = iterExhausted
			return zero, false
		}

		it.buf = page.Items
		it.idx = 0
		it.state = iterYielding

		if page.HasMoreItems != nil {
			it.final = !*page.HasMoreItems
		} else {
			// Advisory flag absent: continue only after a full page.
			// A repository whose data ends exactly on a page boundary
			// costs one extra empty fetch here; that round trip is
			// accepted rather than guessed away.
			it.final = n < it.view.pageSize
		}
	}
}

// Err returns the fetch error that terminated iteration, if any.
func (it *ItemIterator[T]) Err() error {
	return it.err
}
