package session

import (
	"sort"
	"strconv"
	"strings"

	"github.com/docfabric/cmisgo/pkg/binding"
	"github.com/docfabric/cmisgo/pkg/cmis"
)

// DefaultMaxItemsPerPage is the page size used when a context does not set
// one.
const DefaultMaxItemsPerPage int64 = 100

// ContextOptions configures an OperationContext. The zero value plus
// CacheEnabled is a sensible minimal context; NewOperationContext normalizes
// and freezes it.
type ContextOptions struct {
	// Filter restricts fetched properties to the named property IDs.
	// Empty fetches all properties.
	Filter []string

	IncludeAllowableActions bool
	IncludeACLs             bool
	IncludeRelationships    cmis.IncludeRelationships
	IncludePolicyIDs        bool
	IncludePathSegments     bool
	RenditionFilter         string
	OrderBy                 string

	// CacheEnabled controls whether reads under this context consult and
	// populate the identity cache. When false every access round-trips to
	// the transport.
	CacheEnabled bool

	// MaxItemsPerPage is the default page size for listings and queries
	// issued under this context. Zero or negative means
	// DefaultMaxItemsPerPage.
	MaxItemsPerPage int64
}

// OperationContext is an immutable configuration bundle controlling what
// facets of an object a fetch populates and whether caching applies. Two
// contexts with equal fields are cache-equivalent; the partition key is
// computed once at construction, not per comparison.
type OperationContext struct {
	opts ContextOptions
	key  string
}

// NewOperationContext normalizes the options (sorted deduplicated filter,
// defaulted relationship mode and page size) and derives the cache partition
// key.
func NewOperationContext(opts ContextOptions) *OperationContext {
	opts.Filter = normalizeFilter(opts.Filter)
	if opts.IncludeRelationships == "" {
		opts.IncludeRelationships = cmis.IncludeRelationshipsNone
	}
	if opts.MaxItemsPerPage <= 0 {
		opts.MaxItemsPerPage = DefaultMaxItemsPerPage
	}
	return &OperationContext{opts: opts, key: deriveKey(opts)}
}

// DefaultOperationContext returns the context sessions start with: all
// properties, no extra facets, caching enabled, default page size.
func DefaultOperationContext() *OperationContext {
	return NewOperationContext(ContextOptions{CacheEnabled: true})
}

func normalizeFilter(filter []string) []string {
	if len(filter) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(filter))
	out := make([]string, 0, len(filter))
	for _, f := range filter {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	sort.Strings(out)
	if len(out) == 0 {
		return nil
	}
	return out
}

// deriveKey folds every field into the partition key. Distinct contexts must
// not share cached entries: the fetched object shape differs per context.
func deriveKey(opts ContextOptions) string {
	var b strings.Builder
	b.WriteString(strings.Join(opts.Filter, ","))
	b.WriteByte('|')
	b.WriteString(strconv.FormatBool(opts.IncludeAllowableActions))
	b.WriteByte('|')
	b.WriteString(strconv.FormatBool(opts.IncludeACLs))
	b.WriteByte('|')
	b.WriteString(string(opts.IncludeRelationships))
	b.WriteByte('|')
	b.WriteString(strconv.FormatBool(opts.IncludePolicyIDs))
	b.WriteByte('|')
	b.WriteString(strconv.FormatBool(opts.IncludePathSegments))
	b.WriteByte('|')
	b.WriteString(opts.RenditionFilter)
	b.WriteByte('|')
	b.WriteString(opts.OrderBy)
	b.WriteByte('|')
	b.WriteString(strconv.FormatBool(opts.CacheEnabled))
	b.WriteByte('|')
	b.WriteString(strconv.FormatInt(opts.MaxItemsPerPage, 10))
	return b.String()
}

// CacheKey returns the cache partition key derived at construction.
func (c *OperationContext) CacheKey() string { return c.key }

// CacheEnabled reports whether reads under this context use the cache.
func (c *OperationContext) CacheEnabled() bool { return c.opts.CacheEnabled }

// MaxItemsPerPage returns the default page size for this context.
func (c *OperationContext) MaxItemsPerPage() int64 { return c.opts.MaxItemsPerPage }

// OrderBy returns the order-by clause sent with listings.
func (c *OperationContext) OrderBy() string { return c.opts.OrderBy }

// Filter returns a copy of the property filter.
func (c *OperationContext) Filter() []string {
	return append([]string(nil), c.opts.Filter...)
}

// FetchParams projects this context into the per-request parameters a
// binding understands.
func (c *OperationContext) FetchParams() binding.FetchParams {
	return binding.FetchParams{
		Filter:                  c.Filter(),
		IncludeAllowableActions: c.opts.IncludeAllowableActions,
		IncludeACLs:             c.opts.IncludeACLs,
		IncludeRelationships:    c.opts.IncludeRelationships,
		IncludePolicyIDs:        c.opts.IncludePolicyIDs,
		IncludePathSegments:     c.opts.IncludePathSegments,
		RenditionFilter:         c.opts.RenditionFilter,
		OrderBy:                 c.opts.OrderBy,
	}
}
