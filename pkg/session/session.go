package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/docfabric/cmisgo/pkg/binding"
	"github.com/docfabric/cmisgo/pkg/cmis"
	cmiserrors "github.com/docfabric/cmisgo/pkg/errors"
	"github.com/docfabric/cmisgo/pkg/logging"
)

// Session is the composition root of the client runtime: it owns one binding
// transport, one object factory, one identity cache and one default operation
// context, and exposes the repository operations callers work with.
//
// All methods are safe for concurrent use. Transport calls are never made
// while a cache lock is held, so a slow repository cannot stall cache readers.
// Two goroutines missing on the same identity may both fetch; the second Put
// overwrites the first, which is harmless since both hold valid snapshots.
type Session struct {
	params    *Parameters
	transport binding.Transport
	factory   ObjectFactory
	cache     *objectCache
	logger    *logging.ColoredLogger

	mu         sync.RWMutex
	defaultCtx *OperationContext
	repoInfo   *cmis.RepositoryInfo

	typeMu    sync.RWMutex
	typeCache map[string]*cmis.TypeDefinition
}

// NewSession builds a session over the given transport. A nil factory selects
// the default factory.
func NewSession(params *Parameters, transport binding.Transport, factory ObjectFactory) (*Session, error) {
	if params == nil {
		return nil, cmiserrors.NewInvalidArgument("session parameters cannot be nil")
	}
	if transport == nil {
		return nil, cmiserrors.NewInvalidArgument("binding transport cannot be nil")
	}
	if factory == nil {
		factory = NewObjectFactory()
	}

	newLogger := logging.NewDefaultLogger
	if params.QuietMode {
		newLogger = logging.NewQuietLogger
	}
	logger, err := newLogger()
	if err != nil {
		return nil, cmiserrors.Wrap(err, "failed to create session logger")
	}

	maxItems := params.MaxItemsPerPage
	if maxItems <= 0 {
		maxItems = DefaultMaxItemsPerPage
	}

	s := &Session{
		params:    params,
		transport: transport,
		factory:   factory,
		cache:     newObjectCache(params.CacheTTL),
		logger:    logger,
		defaultCtx: NewOperationContext(ContextOptions{
			CacheEnabled:    params.CacheEnabled,
			MaxItemsPerPage: maxItems,
		}),
		typeCache: make(map[string]*cmis.TypeDefinition),
	}

	logger.ComponentInfo(logging.ComponentSession, "Session created",
		zap.String("repository_id", params.RepositoryID),
		zap.Bool("cache_enabled", params.CacheEnabled),
		zap.Int64("max_items_per_page", maxItems))

	return s, nil
}

// RepositoryID returns the repository this session is bound to.
func (s *Session) RepositoryID() string {
	return s.params.RepositoryID
}

// DefaultContext returns the operation context used when a call does not
// supply one.
func (s *Session) DefaultContext() *OperationContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultCtx
}

// SetDefaultContext replaces the session's default operation context. A nil
// context restores the standard default.
func (s *Session) SetDefaultContext(oc *OperationContext) {
	if oc == nil {
		oc = DefaultOperationContext()
	}
	s.mu.Lock()
	s.defaultCtx = oc
	s.mu.Unlock()
}

// resolveContext picks the per-call context when one was supplied, else the
// session default.
func (s *Session) resolveContext(opctx []*OperationContext) *OperationContext {
	if len(opctx) > 0 && opctx[0] != nil {
		return opctx[0]
	}
	return s.DefaultContext()
}

// GetRepositoryInfo describes the repository. The descriptor is fetched once
// and reused for the session's lifetime.
func (s *Session) GetRepositoryInfo(ctx context.Context) (*cmis.RepositoryInfo, error) {
	s.mu.RLock()
	info := s.repoInfo
	s.mu.RUnlock()
	if info != nil {
		return info, nil
	}

	info, err := s.transport.RepositoryInfo(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.repoInfo = info
	s.mu.Unlock()
	return info, nil
}

// GetObject returns the object with the given ID, serving from the identity
// cache when the context allows it. A NotFound fault purges every cached
// entry for the identity before surfacing.
func (s *Session) GetObject(ctx context.Context, objectID string, opctx ...*OperationContext) (CmisObject, error) {
	if objectID == "" {
		return nil, cmiserrors.NewInvalidArgument("object ID cannot be empty")
	}
	oc := s.resolveContext(opctx)

	if oc.CacheEnabled() {
		if obj, ok := s.cache.Get(objectID, oc.CacheKey()); ok {
			s.logger.ComponentDebug(logging.ComponentCache, "Cache hit",
				zap.String("object_id", objectID))
			return obj, nil
		}
	}

	data, err := s.transport.FetchObject(ctx, objectID, oc.FetchParams())
	if err != nil {
		if cmiserrors.IsNotFound(err) {
			s.cache.Remove(objectID)
		}
		return nil, err
	}

	obj, err := s.factory.ConvertObject(data)
	if err != nil {
		return nil, err
	}
	if oc.CacheEnabled() {
		s.cache.Put(obj, oc.CacheKey())
	}
	return obj, nil
}

// GetObjectByPath resolves an absolute path through the cache's path index,
// falling back to the transport on a miss. A NotFound fault unbinds the path
// before surfacing.
func (s *Session) GetObjectByPath(ctx context.Context, path string, opctx ...*OperationContext) (CmisObject, error) {
	if path == "" || path[0] != '/' {
		return nil, cmiserrors.NewInvalidArgument("path must be absolute")
	}
	oc := s.resolveContext(opctx)

	if oc.CacheEnabled() {
		if obj, ok := s.cache.GetByPath(path, oc.CacheKey()); ok {
			s.logger.ComponentDebug(logging.ComponentCache, "Cache hit by path",
				zap.String("path", path))
			return obj, nil
		}
	}

	data, err := s.transport.FetchObjectByPath(ctx, path, oc.FetchParams())
	if err != nil {
		if cmiserrors.IsNotFound(err) {
			s.cache.RemovePath(path)
		}
		return nil, err
	}

	obj, err := s.factory.ConvertObject(data)
	if err != nil {
		return nil, err
	}
	if oc.CacheEnabled() {
		s.cache.PutPath(path, obj, oc.CacheKey())
	}
	return obj, nil
}

// ExistsObject reports whether an object with the given ID exists. A NotFound
// fault maps to (false, nil); any other fault surfaces.
func (s *Session) ExistsObject(ctx context.Context, objectID string, opctx ...*OperationContext) (bool, error) {
	_, err := s.GetObject(ctx, objectID, opctx...)
	if err != nil {
		if cmiserrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ExistsPath reports whether an object exists at the given absolute path.
func (s *Session) ExistsPath(ctx context.Context, path string, opctx ...*OperationContext) (bool, error) {
	_, err := s.GetObjectByPath(ctx, path, opctx...)
	if err != nil {
		if cmiserrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetRootFolder returns the repository's root folder.
func (s *Session) GetRootFolder(ctx context.Context, opctx ...*OperationContext) (*Folder, error) {
	info, err := s.GetRepositoryInfo(ctx)
	if err != nil {
		return nil, err
	}
	obj, err := s.GetObject(ctx, info.RootFolderID, opctx...)
	if err != nil {
		return nil, err
	}
	folder, ok := obj.(*Folder)
	if !ok {
		return nil, cmiserrors.NewConstraintError("root folder object is not a folder")
	}
	return folder, nil
}

// GetTypeDefinition returns a type definition, cached for the session's
// lifetime. Type definitions change rarely enough that no TTL applies.
func (s *Session) GetTypeDefinition(ctx context.Context, typeID string) (*cmis.TypeDefinition, error) {
	if typeID == "" {
		return nil, cmiserrors.NewInvalidArgument("type ID cannot be empty")
	}

	s.typeMu.RLock()
	def, ok := s.typeCache[typeID]
	s.typeMu.RUnlock()
	if ok {
		return def, nil
	}

	def, err := s.transport.FetchTypeDefinition(ctx, typeID)
	if err != nil {
		return nil, err
	}

	s.typeMu.Lock()
	s.typeCache[typeID] = def
	s.typeMu.Unlock()
	return def, nil
}

// convertPage maps a wire page into a typed page through the factory.
func (s *Session) convertPage(wp *binding.Page) (*Page[CmisObject], error) {
	items := make([]CmisObject, 0, len(wp.Objects))
	for _, data := range wp.Objects {
		obj, err := s.factory.ConvertObject(data)
		if err != nil {
			return nil, err
		}
		items = append(items, obj)
	}
	return &Page[CmisObject]{
		Items:         items,
		HasMoreItems:  wp.HasMoreItems,
		TotalNumItems: wp.NumItems,
	}, nil
}

// GetChildren lists the direct children of a folder as a lazy iterable.
// Pages are fetched on demand; nothing is cached.
func (s *Session) GetChildren(ctx context.Context, folderID string, opctx ...*OperationContext) *ItemIterable[CmisObject] {
	oc := s.resolveContext(opctx)
	p := oc.FetchParams()
	fetch := func(skip, max int64) (*Page[CmisObject], error) {
		wp, err := s.transport.FetchChildrenPage(ctx, folderID, skip, max, p)
		if err != nil {
			return nil, err
		}
		return s.convertPage(wp)
	}
	return NewItemIterable(fetch, oc.MaxItemsPerPage())
}

// GetDescendants lists the subtree under a folder down to the given depth.
// Depth -1 means unlimited.
func (s *Session) GetDescendants(ctx context.Context, folderID string, depth int32, opctx ...*OperationContext) *ItemIterable[CmisObject] {
	oc := s.resolveContext(opctx)
	p := oc.FetchParams()
	fetch := func(skip, max int64) (*Page[CmisObject], error) {
		wp, err := s.transport.FetchDescendantsPage(ctx, folderID, depth, skip, max, p)
		if err != nil {
			return nil, err
		}
		return s.convertPage(wp)
	}
	return NewItemIterable(fetch, oc.MaxItemsPerPage())
}

// GetCheckedOutDocs lists the documents checked out under a folder, or
// repository-wide when folderID is empty.
func (s *Session) GetCheckedOutDocs(ctx context.Context, folderID string, opctx ...*OperationContext) *ItemIterable[*Document] {
	oc := s.resolveContext(opctx)
	p := oc.FetchParams()
	fetch := func(skip, max int64) (*Page[*Document], error) {
		wp, err := s.transport.FetchCheckedOutPage(ctx, folderID, skip, max, p)
		if err != nil {
			return nil, err
		}
		docs := make([]*Document, 0, len(wp.Objects))
		for _, data := range wp.Objects {
			obj, err := s.factory.ConvertObject(data)
			if err != nil {
				return nil, err
			}
			doc, ok := obj.(*Document)
			if !ok {
				return nil, cmiserrors.NewConstraintError("checked-out listing returned a non-document")
			}
			docs = append(docs, doc)
		}
		return &Page[*Document]{
			Items:         docs,
			HasMoreItems:  wp.HasMoreItems,
			TotalNumItems: wp.NumItems,
		}, nil
	}
	return NewItemIterable(fetch, oc.MaxItemsPerPage())
}

// GetRelationships lists the relationships an object participates in,
// optionally restricted by direction and relationship type.
func (s *Session) GetRelationships(ctx context.Context, objectID string, direction cmis.RelationshipDirection, typeID string, opctx ...*OperationContext) *ItemIterable[*Relationship] {
	oc := s.resolveContext(opctx)
	p := oc.FetchParams()
	fetch := func(skip, max int64) (*Page[*Relationship], error) {
		wp, err := s.transport.FetchRelationshipsPage(ctx, objectID, direction, typeID, skip, max, p)
		if err != nil {
			return nil, err
		}
		rels := make([]*Relationship, 0, len(wp.Objects))
		for _, data := range wp.Objects {
			obj, err := s.factory.ConvertObject(data)
			if err != nil {
				return nil, err
			}
			rel, ok := obj.(*Relationship)
			if !ok {
				return nil, cmiserrors.NewConstraintError("relationship listing returned a non-relationship")
			}
			rels = append(rels, rel)
		}
		return &Page[*Relationship]{
			Items:         rels,
			HasMoreItems:  wp.HasMoreItems,
			TotalNumItems: wp.NumItems,
		}, nil
	}
	return NewItemIterable(fetch, oc.MaxItemsPerPage())
}

// GetTypeChildren lists the direct child types of a type, or the base types
// when typeID is empty.
func (s *Session) GetTypeChildren(ctx context.Context, typeID string, includePropertyDefinitions bool, opctx ...*OperationContext) *ItemIterable[*cmis.TypeDefinition] {
	oc := s.resolveContext(opctx)
	fetch := func(skip, max int64) (*Page[*cmis.TypeDefinition], error) {
		tp, err := s.transport.FetchTypeChildrenPage(ctx, typeID, includePropertyDefinitions, skip, max)
		if err != nil {
			return nil, err
		}
		return &Page[*cmis.TypeDefinition]{
			Items:         tp.Types,
			HasMoreItems:  tp.HasMoreItems,
			TotalNumItems: tp.NumItems,
		}, nil
	}
	return NewItemIterable(fetch, oc.MaxItemsPerPage())
}

// Query runs a repository query and returns its rows as a lazy iterable. The
// statement is sent as-is; use QueryStatement to build it safely from
// caller-supplied values.
func (s *Session) Query(ctx context.Context, statement string, searchAllVersions bool, opctx ...*OperationContext) *ItemIterable[*QueryResult] {
	oc := s.resolveContext(opctx)
	p := oc.FetchParams()
	s.logger.ComponentDebug(logging.ComponentQuery, "Executing query",
		zap.String("statement", statement),
		zap.Bool("search_all_versions", searchAllVersions))
	fetch := func(skip, max int64) (*Page[*QueryResult], error) {
		wp, err := s.transport.FetchQueryPage(ctx, statement, searchAllVersions, skip, max, p)
		if err != nil {
			return nil, err
		}
		rows := make([]*QueryResult, 0, len(wp.Objects))
		for _, data := range wp.Objects {
			rows = append(rows, s.factory.ConvertQueryResult(data))
		}
		return &Page[*QueryResult]{
			Items:         rows,
			HasMoreItems:  wp.HasMoreItems,
			TotalNumItems: wp.NumItems,
		}, nil
	}
	return NewItemIterable(fetch, oc.MaxItemsPerPage())
}

// NewQuery returns a statement builder bound to this session. Placeholders
// are substituted with escaped literals; see QueryStatement.
func (s *Session) NewQuery(template string) *QueryStatement {
	return NewQueryStatement(s, template)
}

// GetContentChanges reads the repository change log forward from the given
// token. An empty token starts from the oldest retained change.
func (s *Session) GetContentChanges(ctx context.Context, changeLogToken string, includeProperties bool, opctx ...*OperationContext) *ItemIterable[*cmis.ChangeEvent] {
	oc := s.resolveContext(opctx)
	fetch := func(skip, max int64) (*Page[*cmis.ChangeEvent], error) {
		cp, err := s.transport.FetchChangesPage(ctx, changeLogToken, includeProperties, skip, max)
		if err != nil {
			return nil, err
		}
		return &Page[*cmis.ChangeEvent]{
			Items:         cp.Events,
			HasMoreItems:  cp.HasMoreItems,
			TotalNumItems: cp.NumItems,
		}, nil
	}
	return NewItemIterable(fetch, oc.MaxItemsPerPage())
}

// LatestChangeLogToken returns the token of the most recent repository
// change.
func (s *Session) LatestChangeLogToken(ctx context.Context) (string, error) {
	return s.transport.LatestChangeLogToken(ctx)
}

// GetObjectParents returns the parent folders of a fileable object. Unfiled
// objects have none.
func (s *Session) GetObjectParents(ctx context.Context, objectID string, opctx ...*OperationContext) ([]*Folder, error) {
	oc := s.resolveContext(opctx)
	datas, err := s.transport.FetchObjectParents(ctx, objectID, oc.FetchParams())
	if err != nil {
		return nil, err
	}
	parents := make([]*Folder, 0, len(datas))
	for _, data := range datas {
		obj, err := s.factory.ConvertObject(data)
		if err != nil {
			return nil, err
		}
		folder, ok := obj.(*Folder)
		if !ok {
			return nil, cmiserrors.NewConstraintError("object parent is not a folder")
		}
		parents = append(parents, folder)
	}
	return parents, nil
}

// GetFolderParent returns a folder's parent, or nil for the root folder.
func (s *Session) GetFolderParent(ctx context.Context, folderID string, opctx ...*OperationContext) (*Folder, error) {
	obj, err := s.GetObject(ctx, folderID, opctx...)
	if err != nil {
		return nil, err
	}
	folder, ok := obj.(*Folder)
	if !ok {
		return nil, cmiserrors.NewInvalidArgument("object is not a folder")
	}
	parentID := folder.ParentID()
	if parentID == "" {
		return nil, nil
	}
	parentObj, err := s.GetObject(ctx, parentID, opctx...)
	if err != nil {
		return nil, err
	}
	parent, ok := parentObj.(*Folder)
	if !ok {
		return nil, cmiserrors.NewConstraintError("folder parent is not a folder")
	}
	return parent, nil
}

// GetContentStream returns a content stream of a document. streamID selects a
// rendition; empty selects the primary stream. The caller owns closing the
// reader when it implements io.Closer.
func (s *Session) GetContentStream(ctx context.Context, objectID, streamID string) (*cmis.ContentStream, error) {
	if objectID == "" {
		return nil, cmiserrors.NewInvalidArgument("object ID cannot be empty")
	}
	return s.transport.FetchContentStream(ctx, objectID, streamID)
}

// CreateDocument creates a document in a folder (or unfiled when folderID is
// empty) and returns its ID. The new object is not cached; the first read
// fetches it fresh.
func (s *Session) CreateDocument(ctx context.Context, props cmis.Properties, folderID string, content *cmis.ContentStream, state cmis.VersioningState) (string, error) {
	id, err := s.transport.CreateDocument(ctx, props, folderID, content, state)
	if err != nil {
		return "", err
	}
	s.logger.ComponentDebug(logging.ComponentSession, "Document created",
		zap.String("object_id", id), zap.String("folder_id", folderID))
	return id, nil
}

// CreateFolder creates a folder and returns its ID.
func (s *Session) CreateFolder(ctx context.Context, props cmis.Properties, folderID string) (string, error) {
	id, err := s.transport.CreateFolder(ctx, props, folderID)
	if err != nil {
		return "", err
	}
	s.logger.ComponentDebug(logging.ComponentSession, "Folder created",
		zap.String("object_id", id), zap.String("parent_id", folderID))
	return id, nil
}

// CreateRelationship creates a relationship object and returns its ID.
func (s *Session) CreateRelationship(ctx context.Context, props cmis.Properties) (string, error) {
	return s.transport.CreateRelationship(ctx, props)
}

// UpdateProperties applies a property delta to an object. The repository may
// assign a new ID; both old and new identities are invalidated. When refresh
// is set the updated object is re-fetched and returned; otherwise only the
// resulting ID is.
func (s *Session) UpdateProperties(ctx context.Context, objectID, changeToken string, props cmis.Properties, refresh bool, opctx ...*OperationContext) (string, CmisObject, error) {
	newID, err := s.transport.UpdateProperties(ctx, objectID, changeToken, props)
	if err != nil {
		return "", nil, err
	}

	s.cache.Remove(objectID)
	if newID != objectID {
		s.cache.Remove(newID)
	}

	if !refresh {
		return newID, nil, nil
	}
	obj, err := s.GetObject(ctx, newID, opctx...)
	if err != nil {
		return newID, nil, err
	}
	return newID, obj, nil
}

// Move moves an object between folders and returns its (possibly new) ID.
func (s *Session) Move(ctx context.Context, objectID, sourceFolderID, targetFolderID string) (string, error) {
	newID, err := s.transport.MoveObject(ctx, objectID, sourceFolderID, targetFolderID)
	if err != nil {
		return "", err
	}
	s.cache.Remove(objectID)
	if newID != objectID {
		s.cache.Remove(newID)
	}
	return newID, nil
}

// Delete deletes an object. The identity is purged from the cache whether the
// delete succeeded or the object was already gone.
func (s *Session) Delete(ctx context.Context, objectID string, allVersions bool) error {
	err := s.transport.DeleteObject(ctx, objectID, allVersions)
	if err == nil || cmiserrors.IsNotFound(err) {
		s.cache.Remove(objectID)
	}
	return err
}

// DeleteTree deletes a folder subtree. When continueOnFailure is set the
// repository keeps going past undeletable objects and their IDs are returned.
// Cached descendants are not enumerable, so any failure clears the whole
// cache rather than leave deleted objects servable.
func (s *Session) DeleteTree(ctx context.Context, folderID string, allVersions bool, unfile cmis.UnfileObject, continueOnFailure bool) ([]string, error) {
	failed, err := s.transport.DeleteTree(ctx, folderID, allVersions, unfile, continueOnFailure)
	s.cache.Clear()
	return failed, err
}

// SetContentStream replaces or sets a document's content stream and returns
// the (possibly new) object ID.
func (s *Session) SetContentStream(ctx context.Context, objectID string, content *cmis.ContentStream, overwrite bool) (string, error) {
	newID, err := s.transport.SetContentStream(ctx, objectID, content, overwrite)
	if err != nil {
		return "", err
	}
	s.cache.Remove(objectID)
	if newID != objectID {
		s.cache.Remove(newID)
	}
	return newID, nil
}

// DeleteContentStream removes a document's content stream and returns the
// (possibly new) object ID.
func (s *Session) DeleteContentStream(ctx context.Context, objectID string) (string, error) {
	newID, err := s.transport.DeleteContentStream(ctx, objectID)
	if err != nil {
		return "", err
	}
	s.cache.Remove(objectID)
	if newID != objectID {
		s.cache.Remove(newID)
	}
	return newID, nil
}

// CheckOut creates a private working copy of a document and returns its ID.
func (s *Session) CheckOut(ctx context.Context, objectID string) (string, error) {
	pwcID, err := s.transport.CheckOut(ctx, objectID)
	if err != nil {
		return "", err
	}
	s.cache.Remove(objectID)
	return pwcID, nil
}

// CancelCheckOut discards a private working copy.
func (s *Session) CancelCheckOut(ctx context.Context, pwcID string) error {
	if err := s.transport.CancelCheckOut(ctx, pwcID); err != nil {
		return err
	}
	s.cache.Remove(pwcID)
	return nil
}

// CheckIn turns a private working copy into a new version and returns the new
// version's object ID.
func (s *Session) CheckIn(ctx context.Context, pwcID string, major bool, props cmis.Properties, content *cmis.ContentStream, comment string) (string, error) {
	newID, err := s.transport.CheckIn(ctx, pwcID, major, props, content, comment)
	if err != nil {
		return "", err
	}
	s.cache.Remove(pwcID)
	s.cache.Remove(newID)
	return newID, nil
}

// GetACL returns an object's access control list.
func (s *Session) GetACL(ctx context.Context, objectID string) (*cmis.ACL, error) {
	return s.transport.FetchACL(ctx, objectID)
}

// ApplyACL adds and removes ACEs on an object and returns the resulting ACL.
// The object's cached entries are invalidated since they may embed the old
// ACL.
func (s *Session) ApplyACL(ctx context.Context, objectID string, add, remove []cmis.ACE, propagation cmis.ACLPropagation) (*cmis.ACL, error) {
	acl, err := s.transport.ApplyACL(ctx, objectID, add, remove, propagation)
	if err != nil {
		return nil, err
	}
	s.cache.Remove(objectID)
	return acl, nil
}

// ApplyPolicy applies a policy to an object.
func (s *Session) ApplyPolicy(ctx context.Context, policyID, objectID string) error {
	if err := s.transport.ApplyPolicy(ctx, policyID, objectID); err != nil {
		return err
	}
	s.cache.Remove(objectID)
	return nil
}

// RemovePolicy removes a policy from an object.
func (s *Session) RemovePolicy(ctx context.Context, policyID, objectID string) error {
	if err := s.transport.RemovePolicy(ctx, policyID, objectID); err != nil {
		return err
	}
	s.cache.Remove(objectID)
	return nil
}

// ObjectAge returns how long ago the cached entry for the object under the
// given (or default) context was fetched. The second return is false when
// nothing is cached.
func (s *Session) ObjectAge(objectID string, opctx ...*OperationContext) (time.Duration, bool) {
	oc := s.resolveContext(opctx)
	return s.cache.Age(objectID, oc.CacheKey())
}

// CachedObjectCount returns the number of (identity, context) entries held by
// the identity cache.
func (s *Session) CachedObjectCount() int {
	return s.cache.Len()
}

// RemoveObjectFromCache purges one identity from the cache across all
// contexts.
func (s *Session) RemoveObjectFromCache(objectID string) {
	s.cache.Remove(objectID)
}

// Clear resets the identity cache. Type definitions and repository info stay;
// they are immutable for practical purposes.
func (s *Session) Clear() {
	s.cache.Clear()
	s.logger.ComponentDebug(logging.ComponentCache, "Identity cache cleared")
}
