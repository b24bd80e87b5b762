// Package memrepo is an in-memory repository behind the binding.Transport
// interface. It backs tests and the CLI's offline mode: objects live in
// process, mutations feed a change log, and a small query evaluator answers
// the statement subset the session's query builder emits.
package memrepo

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/docfabric/cmisgo/pkg/binding"
	"github.com/docfabric/cmisgo/pkg/cmis"
	cmiserrors "github.com/docfabric/cmisgo/pkg/errors"
)

// systemPrincipal owns everything the repository creates on its own.
const systemPrincipal = "system"

// storedObject is the canonical server-side state of one object. All access
// goes through the repository lock; projections hand out copies, never
// aliases.
type storedObject struct {
	id       string
	typeID   string
	baseType cmis.BaseTypeID
	name     string
	parentID string

	// props holds custom properties only; well-known properties are
	// projected from the struct fields.
	props cmis.Properties

	content     []byte
	contentName string
	contentMime string

	acl       *cmis.ACL
	policyIDs []string

	createdBy   string
	modifiedBy  string
	created     time.Time
	modified    time.Time
	changeToken string

	versionSeriesID string
	versionLabel    string
	isMajor         bool
	checkinComment  string

	// pwcOf names the checked-out document when this object is a private
	// working copy; checkedOutPWC names the PWC on the original.
	pwcOf        string
	checkedOutBy string
	checkedOutPWC string
}

// Repository is an in-memory binding.Transport bound to a single repository.
// Safe for concurrent use.
type Repository struct {
	mu sync.RWMutex

	id   string
	name string

	objects  map[string]*storedObject
	children map[string][]string // parentID -> child object IDs
	types    map[string]*cmis.TypeDefinition
	changes  []*cmis.ChangeEvent

	rootID string

	now func() time.Time
}

var _ binding.Transport = (*Repository)(nil)

// NewRepository creates an empty repository with a root folder and the five
// base types seeded.
func NewRepository(id, name string) *Repository {
	r := &Repository{
		id:       id,
		name:     name,
		objects:  make(map[string]*storedObject),
		children: make(map[string][]string),
		types:    make(map[string]*cmis.TypeDefinition),
		now:      time.Now,
	}
	r.seedTypes()

	root := &storedObject{
		id:          uuid.NewString(),
		typeID:      string(cmis.BaseTypeFolder),
		baseType:    cmis.BaseTypeFolder,
		name:        "",
		createdBy:   systemPrincipal,
		modifiedBy:  systemPrincipal,
		created:     r.now(),
		modified:    r.now(),
		changeToken: uuid.NewString(),
	}
	r.rootID = root.id
	r.objects[root.id] = root
	return r
}

// RootFolderID returns the ID of the repository's root folder.
func (r *Repository) RootFolderID() string {
	return r.rootID
}

func (r *Repository) RepositoryInfo(ctx context.Context) (*cmis.RepositoryInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return &cmis.RepositoryInfo{
		ID:                   r.id,
		Name:                 r.name,
		VendorName:           "DocFabric",
		ProductName:          "cmisgo memrepo",
		ProductVersion:       "1.0",
		RootFolderID:         r.rootID,
		CMISVersionSupported: "1.1",
		LatestChangeLogToken: strconv.Itoa(len(r.changes)),
		Capabilities: &cmis.RepositoryCapabilities{
			Query:      "bothcombined",
			Changes:    "properties",
			Versioning: true,
			ACL:        "manage",
		},
	}, nil
}

func (r *Repository) FetchObject(ctx context.Context, objectID string, p binding.FetchParams) (*cmis.ObjectData, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	obj, ok := r.objects[objectID]
	if !ok {
		return nil, cmiserrors.NewNotFoundError("object", objectID)
	}
	return r.project(obj, p), nil
}

func (r *Repository) FetchObjectByPath(ctx context.Context, path string, p binding.FetchParams) (*cmis.ObjectData, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	obj, err := r.resolvePath(path)
	if err != nil {
		return nil, err
	}
	return r.project(obj, p), nil
}

func (r *Repository) FetchTypeDefinition(ctx context.Context, typeID string) (*cmis.TypeDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.types[typeID]
	if !ok {
		return nil, cmiserrors.NewNotFoundError("type", typeID)
	}
	return def, nil
}

func (r *Repository) FetchChildrenPage(ctx context.Context, folderID string, skip, max int64, p binding.FetchParams) (*binding.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	folder, ok := r.objects[folderID]
	if !ok {
		return nil, cmiserrors.NewNotFoundError("folder", folderID)
	}
	if folder.baseType != cmis.BaseTypeFolder {
		return nil, cmiserrors.NewInvalidArgument("object is not a folder")
	}

	kids := r.sortedChildren(folderID, p.OrderBy)
	page, hasMore, total := paginate(kids, skip, max)

	out := make([]*cmis.ObjectData, 0, len(page))
	for _, child := range page {
		data := r.project(child, p)
		if p.IncludePathSegments {
			data.PathSegment = child.name
		}
		out = append(out, data)
	}
	return &binding.Page{Objects: out, HasMoreItems: &hasMore, NumItems: &total}, nil
}

func (r *Repository) FetchDescendantsPage(ctx context.Context, folderID string, depth int32, skip, max int64, p binding.FetchParams) (*binding.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	folder, ok := r.objects[folderID]
	if !ok {
		return nil, cmiserrors.NewNotFoundError("folder", folderID)
	}
	if folder.baseType != cmis.BaseTypeFolder {
		return nil, cmiserrors.NewInvalidArgument("object is not a folder")
	}

	var all []*storedObject
	r.walkDescendants(folderID, depth, &all)
	page, hasMore, total := paginate(all, skip, max)

	out := make([]*cmis.ObjectData, 0, len(page))
	for _, obj := range page {
		data := r.project(obj, p)
		if p.IncludePathSegments {
			data.PathSegment = obj.name
		}
		out = append(out, data)
	}
	return &binding.Page{Objects: out, HasMoreItems: &hasMore, NumItems: &total}, nil
}

func (r *Repository) walkDescendants(folderID string, depth int32, acc *[]*storedObject) {
	if depth == 0 {
		return
	}
	next := depth - 1
	if depth < 0 {
		next = -1
	}
	for _, child := range r.sortedChildren(folderID, "") {
		*acc = append(*acc, child)
		if child.baseType == cmis.BaseTypeFolder {
			r.walkDescendants(child.id, next, acc)
		}
	}
}

func (r *Repository) FetchCheckedOutPage(ctx context.Context, folderID string, skip, max int64, p binding.FetchParams) (*binding.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var pwcs []*storedObject
	for _, obj := range r.objects {
		if obj.pwcOf == "" {
			continue
		}
		if folderID != "" {
			orig, ok := r.objects[obj.pwcOf]
			if !ok || orig.parentID != folderID {
				continue
			}
		}
		pwcs = append(pwcs, obj)
	}
	sortByName(pwcs)

	page, hasMore, total := paginate(pwcs, skip, max)
	out := make([]*cmis.ObjectData, 0, len(page))
	for _, obj := range page {
		out = append(out, r.project(obj, p))
	}
	return &binding.Page{Objects: out, HasMoreItems: &hasMore, NumItems: &total}, nil
}

func (r *Repository) FetchRelationshipsPage(ctx context.Context, objectID string, direction cmis.RelationshipDirection, typeID string, skip, max int64, p binding.FetchParams) (*binding.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.objects[objectID]; !ok {
		return nil, cmiserrors.NewNotFoundError("object", objectID)
	}
	if direction == "" {
		direction = cmis.RelationshipDirectionSource
	}

	var rels []*storedObject
	for _, obj := range r.objects {
		if obj.baseType != cmis.BaseTypeRelationship {
			continue
		}
		if typeID != "" && obj.typeID != typeID {
			continue
		}
		source, _ := obj.props.StringValue(cmis.PropertySourceID)
		target, _ := obj.props.StringValue(cmis.PropertyTargetID)
		switch direction {
		case cmis.RelationshipDirectionSource:
			if source != objectID {
				continue
			}
		case cmis.RelationshipDirectionTarget:
			if target != objectID {
				continue
			}
		default:
			if source != objectID && target != objectID {
				continue
			}
		}
		rels = append(rels, obj)
	}
	sortByName(rels)

	page, hasMore, total := paginate(rels, skip, max)
	out := make([]*cmis.ObjectData, 0, len(page))
	for _, obj := range page {
		out = append(out, r.project(obj, p))
	}
	return &binding.Page{Objects: out, HasMoreItems: &hasMore, NumItems: &total}, nil
}

func (r *Repository) FetchTypeChildrenPage(ctx context.Context, typeID string, includePropertyDefinitions bool, skip, max int64) (*binding.TypePage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var kids []*cmis.TypeDefinition
	for _, def := range r.types {
		if typeID == "" && def.ParentTypeID == "" {
			kids = append(kids, def)
		} else if typeID != "" && def.ParentTypeID == typeID {
			kids = append(kids, def)
		}
	}
	if typeID != "" {
		if _, ok := r.types[typeID]; !ok {
			return nil, cmiserrors.NewNotFoundError("type", typeID)
		}
	}
	sort.Slice(kids, func(i, j int) bool { return kids[i].ID < kids[j].ID })

	page, hasMore, total := paginate(kids, skip, max)
	out := make([]*cmis.TypeDefinition, 0, len(page))
	for _, def := range page {
		if includePropertyDefinitions {
			out = append(out, def)
			continue
		}
		slim := *def
		slim.PropertyDefinitions = nil
		out = append(out, &slim)
	}
	return &binding.TypePage{Types: out, HasMoreItems: &hasMore, NumItems: &total}, nil
}

func (r *Repository) FetchChangesPage(ctx context.Context, changeLogToken string, includeProperties bool, skip, max int64) (*binding.ChangesPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	start := 0
	if changeLogToken != "" {
		n, err := strconv.Atoi(changeLogToken)
		if err != nil || n < 0 {
			return nil, cmiserrors.NewInvalidArgument("malformed change log token")
		}
		start = n
	}
	tail := r.changes
	if start < len(tail) {
		tail = tail[start:]
	} else {
		tail = nil
	}

	page, hasMore, total := paginate(tail, skip, max)
	out := make([]*cmis.ChangeEvent, 0, len(page))
	for _, ev := range page {
		cp := *ev
		if !includeProperties {
			cp.Properties = nil
		}
		out = append(out, &cp)
	}
	latest := strconv.Itoa(start + int(skip) + len(page))
	return &binding.ChangesPage{Events: out, HasMoreItems: &hasMore, NumItems: &total, LatestToken: latest}, nil
}

func (r *Repository) FetchObjectParents(ctx context.Context, objectID string, p binding.FetchParams) ([]*cmis.ObjectData, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	obj, ok := r.objects[objectID]
	if !ok {
		return nil, cmiserrors.NewNotFoundError("object", objectID)
	}
	if obj.parentID == "" {
		return nil, nil
	}
	parent, ok := r.objects[obj.parentID]
	if !ok {
		return nil, nil
	}
	return []*cmis.ObjectData{r.project(parent, p)}, nil
}

func (r *Repository) LatestChangeLogToken(ctx context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return strconv.Itoa(len(r.changes)), nil
}

func (r *Repository) FetchContentStream(ctx context.Context, objectID, streamID string) (*cmis.ContentStream, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	obj, ok := r.objects[objectID]
	if !ok {
		return nil, cmiserrors.NewNotFoundError("object", objectID)
	}
	if streamID != "" {
		return nil, cmiserrors.NewNotFoundError("rendition", streamID)
	}
	if obj.content == nil {
		return nil, cmiserrors.NewConstraintError("document has no content stream")
	}

	length := int64(len(obj.content))
	return &cmis.ContentStream{
		FileName: obj.contentName,
		MimeType: obj.contentMime,
		Length:   &length,
		Stream:   bytes.NewReader(obj.content),
	}, nil
}

// resolvePath walks the folder tree by name. Caller holds the lock.
func (r *Repository) resolvePath(path string) (*storedObject, error) {
	if path == "" || path[0] != '/' {
		return nil, cmiserrors.NewInvalidArgument("path must be absolute")
	}
	cur := r.objects[r.rootID]
	if path == "/" {
		return cur, nil
	}
	for _, segment := range strings.Split(strings.Trim(path, "/"), "/") {
		var next *storedObject
		for _, childID := range r.children[cur.id] {
			child := r.objects[childID]
			if child != nil && child.name == segment {
				next = child
				break
			}
		}
		if next == nil {
			return nil, cmiserrors.NewNotFoundError("path", path)
		}
		cur = next
	}
	return cur, nil
}

// pathOf returns the absolute path of a filed object. Caller holds the lock.
func (r *Repository) pathOf(obj *storedObject) string {
	if obj.id == r.rootID {
		return "/"
	}
	var segments []string
	for cur := obj; cur != nil && cur.id != r.rootID; cur = r.objects[cur.parentID] {
		if cur.parentID == "" {
			return "" // unfiled
		}
		segments = append(segments, cur.name)
	}
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return "/" + strings.Join(segments, "/")
}

func (r *Repository) sortedChildren(folderID, orderBy string) []*storedObject {
	ids := r.children[folderID]
	kids := make([]*storedObject, 0, len(ids))
	for _, id := range ids {
		if obj := r.objects[id]; obj != nil {
			kids = append(kids, obj)
		}
	}
	prop, desc := parseOrderBy(orderBy)
	if prop == "" {
		sortByName(kids)
		return kids
	}
	sort.SliceStable(kids, func(i, j int) bool {
		a := r.propertyString(kids[i], prop)
		b := r.propertyString(kids[j], prop)
		if desc {
			return a > b
		}
		return a < b
	})
	return kids
}

func parseOrderBy(orderBy string) (prop string, desc bool) {
	fields := strings.Fields(orderBy)
	if len(fields) == 0 {
		return "", false
	}
	prop = fields[0]
	if len(fields) > 1 && strings.EqualFold(fields[1], "DESC") {
		desc = true
	}
	return prop, desc
}

func sortByName(objs []*storedObject) {
	sort.SliceStable(objs, func(i, j int) bool {
		if objs[i].name != objs[j].name {
			return objs[i].name < objs[j].name
		}
		return objs[i].id < objs[j].id
	})
}

// paginate slices one page out of the full result set.
func paginate[T any](items []T, skip, max int64) (page []T, hasMore bool, total int64) {
	total = int64(len(items))
	if skip < 0 {
		skip = 0
	}
	if skip >= total {
		return nil, false, total
	}
	end := total
	if max > 0 && skip+max < end {
		end = skip + max
	}
	return items[skip:end], end < total, total
}

// project renders a stored object as wire data under the given fetch
// parameters. Returned data shares nothing mutable with the store.
func (r *Repository) project(obj *storedObject, p binding.FetchParams) *cmis.ObjectData {
	props := make(cmis.Properties)

	put := func(id string, values ...any) {
		props[id] = &cmis.PropertyData{ID: id, QueryName: id, Values: values}
	}

	put(cmis.PropertyObjectID, obj.id)
	put(cmis.PropertyBaseTypeID, string(obj.baseType))
	put(cmis.PropertyObjectTypeID, obj.typeID)
	put(cmis.PropertyName, obj.name)
	put(cmis.PropertyCreatedBy, obj.createdBy)
	put(cmis.PropertyCreationDate, obj.created)
	put(cmis.PropertyLastModifiedBy, obj.modifiedBy)
	put(cmis.PropertyLastModificationDate, obj.modified)
	put(cmis.PropertyChangeToken, obj.changeToken)

	switch obj.baseType {
	case cmis.BaseTypeFolder:
		put(cmis.PropertyParentID, obj.parentID)
		put(cmis.PropertyPath, r.pathOf(obj))
	case cmis.BaseTypeDocument:
		if obj.content != nil {
			put(cmis.PropertyContentStreamLength, int64(len(obj.content)))
			put(cmis.PropertyContentStreamMimeType, obj.contentMime)
			put(cmis.PropertyContentStreamFileName, obj.contentName)
		}
		put(cmis.PropertyVersionSeriesID, obj.versionSeriesID)
		put(cmis.PropertyVersionLabel, obj.versionLabel)
		put(cmis.PropertyIsMajorVersion, obj.isMajor)
		put(cmis.PropertyIsLatestVersion, obj.pwcOf == "")
		put(cmis.PropertyIsVersionSeriesCheckedOut, obj.checkedOutPWC != "" || obj.pwcOf != "")
		if obj.checkedOutBy != "" {
			put(cmis.PropertyVersionSeriesCheckedOutBy, obj.checkedOutBy)
		}
		if obj.checkedOutPWC != "" {
			put(cmis.PropertyVersionSeriesCheckedOutID, obj.checkedOutPWC)
		}
		if obj.checkinComment != "" {
			put(cmis.PropertyCheckinComment, obj.checkinComment)
		}
	}

	for id, p := range obj.props {
		cp := *p
		cp.Values = append([]any(nil), p.Values...)
		props[id] = &cp
	}

	if len(p.Filter) > 0 {
		keep := make(map[string]struct{}, len(p.Filter)+4)
		for _, id := range p.Filter {
			keep[id] = struct{}{}
		}
		// Identity properties always survive filtering.
		keep[cmis.PropertyObjectID] = struct{}{}
		keep[cmis.PropertyBaseTypeID] = struct{}{}
		keep[cmis.PropertyObjectTypeID] = struct{}{}
		keep[cmis.PropertyName] = struct{}{}
		for id := range props {
			if _, ok := keep[id]; !ok {
				delete(props, id)
			}
		}
	}

	data := &cmis.ObjectData{Properties: props}
	if p.IncludeAllowableActions {
		data.AllowableActions = allowableActionsFor(obj)
	}
	if p.IncludeACLs {
		data.ACL = cloneACL(obj.acl)
	}
	if p.IncludePolicyIDs {
		data.PolicyIDs = append([]string(nil), obj.policyIDs...)
	}
	return data
}

func (r *Repository) propertyString(obj *storedObject, propertyID string) string {
	switch propertyID {
	case cmis.PropertyName:
		return obj.name
	case cmis.PropertyObjectID:
		return obj.id
	case cmis.PropertyObjectTypeID:
		return obj.typeID
	case cmis.PropertyCreatedBy:
		return obj.createdBy
	case cmis.PropertyLastModifiedBy:
		return obj.modifiedBy
	}
	if p := obj.props.Get(propertyID); p != nil && len(p.Values) > 0 {
		return formatScalar(p.Values[0])
	}
	return ""
}

func allowableActionsFor(obj *storedObject) *cmis.AllowableActions {
	actions := map[cmis.Action]bool{
		cmis.ActionCanGetProperties:    true,
		cmis.ActionCanUpdateProperties: true,
		cmis.ActionCanDeleteObject:     true,
		cmis.ActionCanGetACL:           true,
		cmis.ActionCanApplyACL:         true,
	}
	switch obj.baseType {
	case cmis.BaseTypeFolder:
		actions[cmis.ActionCanGetChildren] = true
		actions[cmis.ActionCanCreateDocument] = true
		actions[cmis.ActionCanCreateFolder] = true
		actions[cmis.ActionCanDeleteTree] = true
		actions[cmis.ActionCanGetFolderParent] = true
	case cmis.BaseTypeDocument:
		actions[cmis.ActionCanGetContentStream] = obj.content != nil
		actions[cmis.ActionCanSetContentStream] = true
		actions[cmis.ActionCanDeleteContentStream] = obj.content != nil
		actions[cmis.ActionCanCheckOut] = obj.checkedOutPWC == "" && obj.pwcOf == ""
		actions[cmis.ActionCanCancelCheckOut] = obj.pwcOf != ""
		actions[cmis.ActionCanCheckIn] = obj.pwcOf != ""
		actions[cmis.ActionCanMoveObject] = true
		actions[cmis.ActionCanGetObjectParents] = true
	}
	return &cmis.AllowableActions{Actions: actions}
}

func cloneACL(acl *cmis.ACL) *cmis.ACL {
	if acl == nil {
		exact := true
		return &cmis.ACL{IsExact: &exact}
	}
	cp := &cmis.ACL{ACEs: append([]cmis.ACE(nil), acl.ACEs...)}
	if acl.IsExact != nil {
		exact := *acl.IsExact
		cp.IsExact = &exact
	}
	return cp
}

// readAll drains a content stream into the store's byte form.
func readAll(cs *cmis.ContentStream) ([]byte, error) {
	if cs == nil || cs.Stream == nil {
		return nil, nil
	}
	data, err := io.ReadAll(cs.Stream)
	if err != nil {
		return nil, cmiserrors.Wrap(err, "failed to read content stream")
	}
	return data, nil
}
