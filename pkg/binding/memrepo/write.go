package memrepo

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/docfabric/cmisgo/pkg/binding"
	"github.com/docfabric/cmisgo/pkg/cmis"
	cmiserrors "github.com/docfabric/cmisgo/pkg/errors"
)

// fetchAll projects every property, for change-log snapshots.
var fetchAll = binding.FetchParams{}

// recordChange appends one change-log event. Caller holds the write lock.
func (r *Repository) recordChange(obj *storedObject, changeType cmis.ChangeType) {
	ev := &cmis.ChangeEvent{
		ObjectID:   obj.id,
		ChangeType: changeType,
		ChangeTime: r.now(),
	}
	if changeType != cmis.ChangeTypeDeleted {
		ev.Properties = r.project(obj, fetchAll).Properties
	}
	r.changes = append(r.changes, ev)
}

// touch bumps modification metadata. Caller holds the write lock.
func (r *Repository) touch(obj *storedObject) {
	obj.modified = r.now()
	obj.modifiedBy = systemPrincipal
	obj.changeToken = uuid.NewString()
}

// splitProps separates the well-known creation properties from custom ones.
func splitProps(props cmis.Properties) (name, typeID string, custom cmis.Properties) {
	custom = make(cmis.Properties)
	for id, p := range props {
		switch id {
		case cmis.PropertyName:
			name, _ = props.StringValue(id)
		case cmis.PropertyObjectTypeID:
			typeID, _ = props.StringValue(id)
		case cmis.PropertyObjectID, cmis.PropertyBaseTypeID,
			cmis.PropertyCreatedBy, cmis.PropertyCreationDate,
			cmis.PropertyLastModifiedBy, cmis.PropertyLastModificationDate,
			cmis.PropertyChangeToken:
			// server-controlled, ignored on create
		default:
			cp := *p
			cp.Values = append([]any(nil), p.Values...)
			custom[id] = &cp
		}
	}
	return name, typeID, custom
}

// validFolder returns the target folder or a typed fault. Caller holds the
// lock.
func (r *Repository) validFolder(folderID string) (*storedObject, error) {
	folder, ok := r.objects[folderID]
	if !ok {
		return nil, cmiserrors.NewNotFoundError("folder", folderID)
	}
	if folder.baseType != cmis.BaseTypeFolder {
		return nil, cmiserrors.NewInvalidArgument("parent is not a folder")
	}
	return folder, nil
}

// checkNameFree enforces sibling name uniqueness. Caller holds the lock.
func (r *Repository) checkNameFree(folderID, name string) error {
	for _, childID := range r.children[folderID] {
		if child := r.objects[childID]; child != nil && child.name == name {
			return cmiserrors.NewConstraintError("name already exists in folder: " + name)
		}
	}
	return nil
}

// baseTypeOf resolves a type ID to its base type through the type registry.
// Caller holds the lock.
func (r *Repository) baseTypeOf(typeID string) (cmis.BaseTypeID, error) {
	def, ok := r.types[typeID]
	if !ok {
		return "", cmiserrors.NewNotFoundError("type", typeID)
	}
	return def.BaseTypeID, nil
}

func (r *Repository) CreateDocument(ctx context.Context, props cmis.Properties, folderID string, content *cmis.ContentStream, state cmis.VersioningState) (string, error) {
	data, err := readAll(content)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name, typeID, custom := splitProps(props)
	if name == "" {
		return "", cmiserrors.NewInvalidArgument("cmis:name is required")
	}
	if typeID == "" {
		typeID = string(cmis.BaseTypeDocument)
	}
	base, err := r.baseTypeOf(typeID)
	if err != nil {
		return "", err
	}
	if base != cmis.BaseTypeDocument {
		return "", cmiserrors.NewConstraintError("type is not a document type: " + typeID)
	}

	if folderID != "" {
		if _, err := r.validFolder(folderID); err != nil {
			return "", err
		}
		if err := r.checkNameFree(folderID, name); err != nil {
			return "", err
		}
	}

	doc := &storedObject{
		id:              uuid.NewString(),
		typeID:          typeID,
		baseType:        cmis.BaseTypeDocument,
		name:            name,
		parentID:        folderID,
		props:           custom,
		createdBy:       systemPrincipal,
		modifiedBy:      systemPrincipal,
		created:         r.now(),
		modified:        r.now(),
		changeToken:     uuid.NewString(),
		versionSeriesID: uuid.NewString(),
		versionLabel:    "1.0",
		isMajor:         true,
	}
	if state == cmis.VersioningStateMinor {
		doc.versionLabel = "0.1"
		doc.isMajor = false
	}
	if data != nil {
		doc.content = data
		doc.contentName = content.FileName
		doc.contentMime = content.MimeType
	}

	r.objects[doc.id] = doc
	if folderID != "" {
		r.children[folderID] = append(r.children[folderID], doc.id)
	}
	r.recordChange(doc, cmis.ChangeTypeCreated)

	if state == cmis.VersioningStateCheckedOut {
		pwc := r.checkOutLocked(doc)
		return pwc.id, nil
	}
	return doc.id, nil
}

func (r *Repository) CreateFolder(ctx context.Context, props cmis.Properties, folderID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name, typeID, custom := splitProps(props)
	if name == "" {
		return "", cmiserrors.NewInvalidArgument("cmis:name is required")
	}
	if strings.ContainsRune(name, '/') {
		return "", cmiserrors.NewInvalidArgument("folder name cannot contain '/'")
	}
	if typeID == "" {
		typeID = string(cmis.BaseTypeFolder)
	}
	base, err := r.baseTypeOf(typeID)
	if err != nil {
		return "", err
	}
	if base != cmis.BaseTypeFolder {
		return "", cmiserrors.NewConstraintError("type is not a folder type: " + typeID)
	}
	if _, err := r.validFolder(folderID); err != nil {
		return "", err
	}
	if err := r.checkNameFree(folderID, name); err != nil {
		return "", err
	}

	folder := &storedObject{
		id:          uuid.NewString(),
		typeID:      typeID,
		baseType:    cmis.BaseTypeFolder,
		name:        name,
		parentID:    folderID,
		props:       custom,
		createdBy:   systemPrincipal,
		modifiedBy:  systemPrincipal,
		created:     r.now(),
		modified:    r.now(),
		changeToken: uuid.NewString(),
	}
	r.objects[folder.id] = folder
	r.children[folderID] = append(r.children[folderID], folder.id)
	r.recordChange(folder, cmis.ChangeTypeCreated)
	return folder.id, nil
}

func (r *Repository) CreateRelationship(ctx context.Context, props cmis.Properties) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name, typeID, custom := splitProps(props)
	if typeID == "" {
		typeID = string(cmis.BaseTypeRelationship)
	}
	base, err := r.baseTypeOf(typeID)
	if err != nil {
		return "", err
	}
	if base != cmis.BaseTypeRelationship {
		return "", cmiserrors.NewConstraintError("type is not a relationship type: " + typeID)
	}

	sourceID, _ := custom.StringValue(cmis.PropertySourceID)
	targetID, _ := custom.StringValue(cmis.PropertyTargetID)
	if sourceID == "" || targetID == "" {
		return "", cmiserrors.NewInvalidArgument("cmis:sourceId and cmis:targetId are required")
	}
	if _, ok := r.objects[sourceID]; !ok {
		return "", cmiserrors.NewNotFoundError("object", sourceID)
	}
	if _, ok := r.objects[targetID]; !ok {
		return "", cmiserrors.NewNotFoundError("object", targetID)
	}

	rel := &storedObject{
		id:          uuid.NewString(),
		typeID:      typeID,
		baseType:    cmis.BaseTypeRelationship,
		name:        name,
		props:       custom,
		createdBy:   systemPrincipal,
		modifiedBy:  systemPrincipal,
		created:     r.now(),
		modified:    r.now(),
		changeToken: uuid.NewString(),
	}
	r.objects[rel.id] = rel
	r.recordChange(rel, cmis.ChangeTypeCreated)
	return rel.id, nil
}

func (r *Repository) UpdateProperties(ctx context.Context, objectID, changeToken string, props cmis.Properties) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	obj, ok := r.objects[objectID]
	if !ok {
		return "", cmiserrors.NewNotFoundError("object", objectID)
	}
	if changeToken != "" && changeToken != obj.changeToken {
		return "", cmiserrors.NewUpdateConflictError(objectID)
	}

	for id, p := range props {
		switch id {
		case cmis.PropertyName:
			name, ok := props.StringValue(id)
			if !ok || name == "" {
				return "", cmiserrors.NewInvalidArgument("cmis:name cannot be empty")
			}
			if name != obj.name && obj.parentID != "" {
				if err := r.checkNameFree(obj.parentID, name); err != nil {
					return "", err
				}
			}
			obj.name = name
		case cmis.PropertyObjectID, cmis.PropertyBaseTypeID, cmis.PropertyObjectTypeID,
			cmis.PropertyCreatedBy, cmis.PropertyCreationDate,
			cmis.PropertyLastModifiedBy, cmis.PropertyLastModificationDate,
			cmis.PropertyChangeToken:
			return "", cmiserrors.NewConstraintError("property is read-only: " + id)
		default:
			if len(p.Values) == 0 {
				delete(obj.props, id)
				continue
			}
			cp := *p
			cp.Values = append([]any(nil), p.Values...)
			obj.props[id] = &cp
		}
	}

	r.touch(obj)
	r.recordChange(obj, cmis.ChangeTypeUpdated)
	return obj.id, nil
}

func (r *Repository) MoveObject(ctx context.Context, objectID, sourceFolderID, targetFolderID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	obj, ok := r.objects[objectID]
	if !ok {
		return "", cmiserrors.NewNotFoundError("object", objectID)
	}
	if obj.parentID != sourceFolderID {
		return "", cmiserrors.NewInvalidArgument("object is not filed in the source folder")
	}
	target, err := r.validFolder(targetFolderID)
	if err != nil {
		return "", err
	}
	if err := r.checkNameFree(targetFolderID, obj.name); err != nil {
		return "", err
	}
	if obj.baseType == cmis.BaseTypeFolder {
		// moving a folder under itself would detach the subtree
		for cur := target; cur != nil; cur = r.objects[cur.parentID] {
			if cur.id == obj.id {
				return "", cmiserrors.NewConstraintError("cannot move a folder into its own subtree")
			}
			if cur.parentID == "" {
				break
			}
		}
	}

	r.unlink(obj)
	obj.parentID = targetFolderID
	r.children[targetFolderID] = append(r.children[targetFolderID], obj.id)
	r.touch(obj)
	r.recordChange(obj, cmis.ChangeTypeUpdated)
	return obj.id, nil
}

// unlink removes an object from its parent's child list. Caller holds the
// write lock.
func (r *Repository) unlink(obj *storedObject) {
	if obj.parentID == "" {
		return
	}
	ids := r.children[obj.parentID]
	for i, id := range ids {
		if id == obj.id {
			r.children[obj.parentID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
}

func (r *Repository) DeleteObject(ctx context.Context, objectID string, allVersions bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	obj, ok := r.objects[objectID]
	if !ok {
		return cmiserrors.NewNotFoundError("object", objectID)
	}
	if obj.id == r.rootID {
		return cmiserrors.NewConstraintError("cannot delete the root folder")
	}
	if obj.baseType == cmis.BaseTypeFolder && len(r.children[obj.id]) > 0 {
		return cmiserrors.NewConstraintError("folder is not empty")
	}

	r.deleteLocked(obj)
	return nil
}

// deleteLocked removes one object and untangles PWC links. Caller holds the
// write lock.
func (r *Repository) deleteLocked(obj *storedObject) {
	if obj.pwcOf != "" {
		if orig := r.objects[obj.pwcOf]; orig != nil {
			orig.checkedOutPWC = ""
			orig.checkedOutBy = ""
		}
	}
	if obj.checkedOutPWC != "" {
		if pwc := r.objects[obj.checkedOutPWC]; pwc != nil {
			delete(r.objects, pwc.id)
		}
	}
	r.unlink(obj)
	delete(r.objects, obj.id)
	delete(r.children, obj.id)
	r.recordChange(obj, cmis.ChangeTypeDeleted)
}

func (r *Repository) DeleteTree(ctx context.Context, folderID string, allVersions bool, unfile cmis.UnfileObject, continueOnFailure bool) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	folder, ok := r.objects[folderID]
	if !ok {
		return nil, cmiserrors.NewNotFoundError("folder", folderID)
	}
	if folder.baseType != cmis.BaseTypeFolder {
		return nil, cmiserrors.NewInvalidArgument("object is not a folder")
	}
	if folder.id == r.rootID {
		return nil, cmiserrors.NewConstraintError("cannot delete the root folder")
	}
	if unfile == cmis.UnfileObjectUnfile {
		return nil, cmiserrors.NewNotSupportedError("unfiling")
	}

	var failed []string
	ok = r.deleteTreeLocked(folder, continueOnFailure, &failed)
	if !ok && !continueOnFailure {
		return failed, cmiserrors.NewConstraintError("tree deletion stopped at an undeletable object")
	}
	if len(failed) > 0 {
		return failed, nil
	}
	return nil, nil
}

// deleteTreeLocked deletes a subtree depth-first. Documents checked out
// elsewhere are undeletable; their ancestor folders survive so the tree stays
// consistent. Returns false as soon as a failure should abort.
func (r *Repository) deleteTreeLocked(folder *storedObject, continueOnFailure bool, failed *[]string) bool {
	for _, childID := range append([]string(nil), r.children[folder.id]...) {
		child := r.objects[childID]
		if child == nil {
			continue
		}
		if child.baseType == cmis.BaseTypeFolder {
			if !r.deleteTreeLocked(child, continueOnFailure, failed) {
				return false
			}
			continue
		}
		if child.checkedOutPWC != "" {
			*failed = append(*failed, child.id)
			if !continueOnFailure {
				return false
			}
			continue
		}
		r.deleteLocked(child)
	}
	if len(r.children[folder.id]) == 0 {
		r.deleteLocked(folder)
	} else {
		*failed = append(*failed, folder.id)
	}
	return true
}

func (r *Repository) SetContentStream(ctx context.Context, objectID string, content *cmis.ContentStream, overwrite bool) (string, error) {
	data, err := readAll(content)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	obj, ok := r.objects[objectID]
	if !ok {
		return "", cmiserrors.NewNotFoundError("object", objectID)
	}
	if obj.baseType != cmis.BaseTypeDocument {
		return "", cmiserrors.NewInvalidArgument("object is not a document")
	}
	if obj.content != nil && !overwrite {
		return "", cmiserrors.NewConstraintError("document already has a content stream")
	}

	obj.content = data
	if content != nil {
		obj.contentName = content.FileName
		obj.contentMime = content.MimeType
	}
	r.touch(obj)
	r.recordChange(obj, cmis.ChangeTypeUpdated)
	return obj.id, nil
}

func (r *Repository) DeleteContentStream(ctx context.Context, objectID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	obj, ok := r.objects[objectID]
	if !ok {
		return "", cmiserrors.NewNotFoundError("object", objectID)
	}
	if obj.baseType != cmis.BaseTypeDocument {
		return "", cmiserrors.NewInvalidArgument("object is not a document")
	}

	obj.content = nil
	obj.contentName = ""
	obj.contentMime = ""
	r.touch(obj)
	r.recordChange(obj, cmis.ChangeTypeUpdated)
	return obj.id, nil
}

func (r *Repository) CheckOut(ctx context.Context, objectID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	obj, ok := r.objects[objectID]
	if !ok {
		return "", cmiserrors.NewNotFoundError("object", objectID)
	}
	if obj.baseType != cmis.BaseTypeDocument {
		return "", cmiserrors.NewInvalidArgument("object is not a document")
	}
	if obj.pwcOf != "" {
		return "", cmiserrors.NewVersioningError(objectID, "object is already a private working copy")
	}
	if obj.checkedOutPWC != "" {
		return "", cmiserrors.NewVersioningError(objectID, "version series is already checked out")
	}

	pwc := r.checkOutLocked(obj)
	return pwc.id, nil
}

// checkOutLocked clones a document into its private working copy. Caller
// holds the write lock.
func (r *Repository) checkOutLocked(doc *storedObject) *storedObject {
	pwc := &storedObject{
		id:              uuid.NewString(),
		typeID:          doc.typeID,
		baseType:        cmis.BaseTypeDocument,
		name:            doc.name,
		props:           doc.props.Clone(),
		content:         append([]byte(nil), doc.content...),
		contentName:     doc.contentName,
		contentMime:     doc.contentMime,
		createdBy:       doc.createdBy,
		modifiedBy:      systemPrincipal,
		created:         doc.created,
		modified:        r.now(),
		changeToken:     uuid.NewString(),
		versionSeriesID: doc.versionSeriesID,
		versionLabel:    doc.versionLabel,
		isMajor:         doc.isMajor,
		pwcOf:           doc.id,
		checkedOutBy:    systemPrincipal,
	}
	doc.checkedOutPWC = pwc.id
	doc.checkedOutBy = systemPrincipal
	r.objects[pwc.id] = pwc
	r.recordChange(pwc, cmis.ChangeTypeCreated)
	return pwc
}

func (r *Repository) CancelCheckOut(ctx context.Context, objectID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pwc, ok := r.objects[objectID]
	if !ok {
		return cmiserrors.NewNotFoundError("object", objectID)
	}
	if pwc.pwcOf == "" {
		return cmiserrors.NewVersioningError(objectID, "object is not a private working copy")
	}

	if orig := r.objects[pwc.pwcOf]; orig != nil {
		orig.checkedOutPWC = ""
		orig.checkedOutBy = ""
	}
	delete(r.objects, pwc.id)
	r.recordChange(pwc, cmis.ChangeTypeDeleted)
	return nil
}

func (r *Repository) CheckIn(ctx context.Context, objectID string, major bool, props cmis.Properties, content *cmis.ContentStream, comment string) (string, error) {
	data, err := readAll(content)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	pwc, ok := r.objects[objectID]
	if !ok {
		return "", cmiserrors.NewNotFoundError("object", objectID)
	}
	if pwc.pwcOf == "" {
		return "", cmiserrors.NewVersioningError(objectID, "object is not a private working copy")
	}
	orig, ok := r.objects[pwc.pwcOf]
	if !ok {
		return "", cmiserrors.NewNotFoundError("object", pwc.pwcOf)
	}

	// Fold PWC state back into the version series head.
	orig.props = pwc.props.Clone()
	orig.content = append([]byte(nil), pwc.content...)
	orig.contentName = pwc.contentName
	orig.contentMime = pwc.contentMime
	for id, p := range props {
		if id == cmis.PropertyName {
			if name, ok := props.StringValue(id); ok && name != "" {
				orig.name = name
			}
			continue
		}
		cp := *p
		cp.Values = append([]any(nil), p.Values...)
		orig.props[id] = &cp
	}
	if data != nil {
		orig.content = data
		orig.contentName = content.FileName
		orig.contentMime = content.MimeType
	}

	orig.versionLabel = nextVersionLabel(orig.versionLabel, major)
	orig.isMajor = major
	orig.checkinComment = comment
	orig.checkedOutPWC = ""
	orig.checkedOutBy = ""
	r.touch(orig)

	delete(r.objects, pwc.id)
	r.recordChange(orig, cmis.ChangeTypeUpdated)
	return orig.id, nil
}

// nextVersionLabel bumps a "major.minor" label.
func nextVersionLabel(label string, major bool) string {
	maj, min := 0, 0
	if i := strings.IndexByte(label, '.'); i >= 0 {
		maj, _ = strconv.Atoi(label[:i])
		min, _ = strconv.Atoi(label[i+1:])
	}
	if major {
		return strconv.Itoa(maj+1) + ".0"
	}
	return strconv.Itoa(maj) + "." + strconv.Itoa(min+1)
}

func (r *Repository) FetchACL(ctx context.Context, objectID string) (*cmis.ACL, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	obj, ok := r.objects[objectID]
	if !ok {
		return nil, cmiserrors.NewNotFoundError("object", objectID)
	}
	return cloneACL(obj.acl), nil
}

func (r *Repository) ApplyACL(ctx context.Context, objectID string, add, remove []cmis.ACE, propagation cmis.ACLPropagation) (*cmis.ACL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	obj, ok := r.objects[objectID]
	if !ok {
		return nil, cmiserrors.NewNotFoundError("object", objectID)
	}

	targets := []*storedObject{obj}
	if propagation == cmis.ACLPropagationPropagate && obj.baseType == cmis.BaseTypeFolder {
		var desc []*storedObject
		r.walkDescendants(obj.id, -1, &desc)
		targets = append(targets, desc...)
	}

	for _, t := range targets {
		t.acl = mergeACL(t.acl, add, remove)
		r.touch(t)
		r.recordChange(t, cmis.ChangeTypeSecurity)
	}
	return cloneACL(obj.acl), nil
}

// mergeACL applies removals then additions, keyed by principal.
func mergeACL(acl *cmis.ACL, add, remove []cmis.ACE) *cmis.ACL {
	perms := make(map[string]map[string]struct{})
	order := []string{}
	if acl != nil {
		for _, ace := range acl.ACEs {
			if _, ok := perms[ace.PrincipalID]; !ok {
				perms[ace.PrincipalID] = make(map[string]struct{})
				order = append(order, ace.PrincipalID)
			}
			for _, p := range ace.Permissions {
				perms[ace.PrincipalID][p] = struct{}{}
			}
		}
	}
	for _, ace := range remove {
		set, ok := perms[ace.PrincipalID]
		if !ok {
			continue
		}
		for _, p := range ace.Permissions {
			delete(set, p)
		}
	}
	for _, ace := range add {
		if _, ok := perms[ace.PrincipalID]; !ok {
			perms[ace.PrincipalID] = make(map[string]struct{})
			order = append(order, ace.PrincipalID)
		}
		for _, p := range ace.Permissions {
			perms[ace.PrincipalID][p] = struct{}{}
		}
	}

	exact := true
	out := &cmis.ACL{IsExact: &exact}
	for _, principal := range order {
		set := perms[principal]
		if len(set) == 0 {
			continue
		}
		ps := make([]string, 0, len(set))
		for p := range set {
			ps = append(ps, p)
		}
		sort.Strings(ps)
		out.ACEs = append(out.ACEs, cmis.ACE{PrincipalID: principal, Permissions: ps, Direct: true})
	}
	return out
}

func (r *Repository) ApplyPolicy(ctx context.Context, policyID, objectID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	policy, ok := r.objects[policyID]
	if !ok {
		return cmiserrors.NewNotFoundError("policy", policyID)
	}
	if policy.baseType != cmis.BaseTypePolicy {
		return cmiserrors.NewInvalidArgument("object is not a policy")
	}
	obj, ok := r.objects[objectID]
	if !ok {
		return cmiserrors.NewNotFoundError("object", objectID)
	}
	for _, id := range obj.policyIDs {
		if id == policyID {
			return nil
		}
	}
	obj.policyIDs = append(obj.policyIDs, policyID)
	r.touch(obj)
	r.recordChange(obj, cmis.ChangeTypeSecurity)
	return nil
}

func (r *Repository) RemovePolicy(ctx context.Context, policyID, objectID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	obj, ok := r.objects[objectID]
	if !ok {
		return cmiserrors.NewNotFoundError("object", objectID)
	}
	for i, id := range obj.policyIDs {
		if id == policyID {
			obj.policyIDs = append(obj.policyIDs[:i], obj.policyIDs[i+1:]...)
			r.touch(obj)
			r.recordChange(obj, cmis.ChangeTypeSecurity)
			return nil
		}
	}
	return cmiserrors.NewInvalidArgument("policy is not applied to the object")
}
