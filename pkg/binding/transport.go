// Package binding defines the transport collaborator the session runtime is
// built against. A Transport issues synchronous protocol requests and returns
// raw wire data or a typed fault from pkg/errors; it performs no caching and
// no retries. Concrete protocol bindings (HTTP browser binding, AtomPub, the
// in-memory memrepo) implement this interface.
package binding

import (
	"context"

	"github.com/docfabric/cmisgo/pkg/cmis"
)

// FetchParams carries the per-request projection of an operation context:
// which facets of an object the repository should populate. Bindings
// translate these into protocol parameters.
type FetchParams struct {
	// Filter restricts returned properties to the named IDs. Empty means
	// all properties.
	Filter []string

	IncludeAllowableActions bool
	IncludeACLs             bool
	IncludeRelationships    cmis.IncludeRelationships
	IncludePolicyIDs        bool
	IncludePathSegments     bool
	RenditionFilter         string
	OrderBy                 string
}

// Page is one bounded batch of objects from a server-paginated listing or
// query. HasMoreItems and NumItems are advisory; a repository may omit
// either, in which case consumers infer continuation from the batch size.
type Page struct {
	Objects      []*cmis.ObjectData
	HasMoreItems *bool
	NumItems     *int64
}

// TypePage is one batch of a type-children or type-descendants listing.
type TypePage struct {
	Types        []*cmis.TypeDefinition
	HasMoreItems *bool
	NumItems     *int64
}

// ChangesPage is one batch of the repository change log, read forward from a
// change log token. LatestToken resumes after the last event of this page.
type ChangesPage struct {
	Events       []*cmis.ChangeEvent
	HasMoreItems *bool
	NumItems     *int64
	LatestToken  string
}

// Transport is the binding transport consumed by the session runtime.
//
// Every call is synchronous request/response. Failures surface as typed
// faults from pkg/errors (NotFoundError, TransportError, ...), never as
// malformed payloads. Implementations own timeout policy; the session
// propagates a failure as-is without retrying.
type Transport interface {
	// RepositoryInfo describes the repository this transport is bound to.
	RepositoryInfo(ctx context.Context) (*cmis.RepositoryInfo, error)

	// FetchObject returns the wire data of one object by ID.
	FetchObject(ctx context.Context, objectID string, p FetchParams) (*cmis.ObjectData, error)

	// FetchObjectByPath returns the wire data of one object by absolute path.
	FetchObjectByPath(ctx context.Context, path string, p FetchParams) (*cmis.ObjectData, error)

	// FetchTypeDefinition returns one type definition by ID.
	FetchTypeDefinition(ctx context.Context, typeID string) (*cmis.TypeDefinition, error)

	// Page fetchers. skip is the zero-based offset into the full result
	// set, max the requested page size.

	FetchChildrenPage(ctx context.Context, folderID string, skip, max int64, p FetchParams) (*Page, error)
	FetchDescendantsPage(ctx context.Context, folderID string, depth int32, skip, max int64, p FetchParams) (*Page, error)
	FetchCheckedOutPage(ctx context.Context, folderID string, skip, max int64, p FetchParams) (*Page, error)
	FetchRelationshipsPage(ctx context.Context, objectID string, direction cmis.RelationshipDirection, typeID string, skip, max int64, p FetchParams) (*Page, error)
	FetchTypeChildrenPage(ctx context.Context, typeID string, includePropertyDefinitions bool, skip, max int64) (*TypePage, error)
	FetchQueryPage(ctx context.Context, statement string, searchAllVersions bool, skip, max int64, p FetchParams) (*Page, error)
	FetchChangesPage(ctx context.Context, changeLogToken string, includeProperties bool, skip, max int64) (*ChangesPage, error)

	// FetchObjectParents returns the parent folders of a fileable object.
	FetchObjectParents(ctx context.Context, objectID string, p FetchParams) ([]*cmis.ObjectData, error)

	// LatestChangeLogToken returns the token of the most recent change.
	LatestChangeLogToken(ctx context.Context) (string, error)

	// FetchContentStream returns a content stream of a document. streamID
	// selects a rendition; empty selects the primary stream.
	FetchContentStream(ctx context.Context, objectID, streamID string) (*cmis.ContentStream, error)

	// Mutating operations. Each returns the (possibly new) object ID where
	// the protocol does.

	CreateDocument(ctx context.Context, props cmis.Properties, folderID string, content *cmis.ContentStream, state cmis.VersioningState) (string, error)
	CreateFolder(ctx context.Context, props cmis.Properties, folderID string) (string, error)
	CreateRelationship(ctx context.Context, props cmis.Properties) (string, error)
	UpdateProperties(ctx context.Context, objectID, changeToken string, props cmis.Properties) (string, error)
	MoveObject(ctx context.Context, objectID, sourceFolderID, targetFolderID string) (string, error)
	DeleteObject(ctx context.Context, objectID string, allVersions bool) error

	// DeleteTree deletes a folder subtree and returns the IDs that could
	// not be deleted when continueOnFailure is set.
	DeleteTree(ctx context.Context, folderID string, allVersions bool, unfile cmis.UnfileObject, continueOnFailure bool) ([]string, error)

	SetContentStream(ctx context.Context, objectID string, content *cmis.ContentStream, overwrite bool) (string, error)
	DeleteContentStream(ctx context.Context, objectID string) (string, error)

	// Versioning. CheckOut returns the private working copy ID; CheckIn
	// returns the new version's object ID.

	CheckOut(ctx context.Context, objectID string) (string, error)
	CancelCheckOut(ctx context.Context, objectID string) error
	CheckIn(ctx context.Context, objectID string, major bool, props cmis.Properties, content *cmis.ContentStream, comment string) (string, error)

	// ACL and policy pass-through.

	FetchACL(ctx context.Context, objectID string) (*cmis.ACL, error)
	ApplyACL(ctx context.Context, objectID string, add, remove []cmis.ACE, propagation cmis.ACLPropagation) (*cmis.ACL, error)
	ApplyPolicy(ctx context.Context, policyID, objectID string) error
	RemovePolicy(ctx context.Context, policyID, objectID string) error
}
