package session

import (
	"time"

	"github.com/docfabric/cmisgo/pkg/cmis"
)

// CmisObject is a typed client object converted from wire data. Objects are
// immutable snapshots: refreshing or mutating through the session yields a
// new object, never changes one in place.
type CmisObject interface {
	ID() string
	Name() string
	BaseType() cmis.BaseTypeID
	ObjectTypeID() string

	// Properties returns the full property bag this object was fetched
	// with. Which properties are present depends on the operation context
	// used for the fetch.
	Properties() cmis.Properties

	// Property returns the first value of a property by ID.
	Property(id string) (any, bool)

	AllowableActions() *cmis.AllowableActions
	ACL() *cmis.ACL
	PolicyIDs() []string
	Relationships() []*Relationship

	CreatedBy() string
	CreationDate() (time.Time, bool)
	LastModifiedBy() string
	LastModificationDate() (time.Time, bool)
	ChangeToken() string

	// Data exposes the underlying wire object.
	Data() *cmis.ObjectData
}

// baseObject carries the behavior shared by all typed objects.
type baseObject struct {
	data *cmis.ObjectData
	rels []*Relationship
}

func (o *baseObject) ID() string                { return o.data.ID() }
func (o *baseObject) Name() string              { return o.data.Name() }
func (o *baseObject) BaseType() cmis.BaseTypeID { return o.data.BaseType() }
func (o *baseObject) Data() *cmis.ObjectData    { return o.data }

func (o *baseObject) ObjectTypeID() string {
	t, _ := o.data.Properties.StringValue(cmis.PropertyObjectTypeID)
	return t
}

func (o *baseObject) Properties() cmis.Properties { return o.data.Properties }

func (o *baseObject) Property(id string) (any, bool) {
	p := o.data.Properties.Get(id)
	if p == nil || len(p.Values) == 0 {
		return nil, false
	}
	return p.FirstValue(), true
}

func (o *baseObject) AllowableActions() *cmis.AllowableActions { return o.data.AllowableActions }
func (o *baseObject) ACL() *cmis.ACL                           { return o.data.ACL }
func (o *baseObject) PolicyIDs() []string                      { return o.data.PolicyIDs }
func (o *baseObject) Relationships() []*Relationship           { return o.rels }

func (o *baseObject) CreatedBy() string {
	s, _ := o.data.Properties.StringValue(cmis.PropertyCreatedBy)
	return s
}

func (o *baseObject) CreationDate() (time.Time, bool) {
	return o.data.Properties.TimeValue(cmis.PropertyCreationDate)
}

func (o *baseObject) LastModifiedBy() string {
	s, _ := o.data.Properties.StringValue(cmis.PropertyLastModifiedBy)
	return s
}

func (o *baseObject) LastModificationDate() (time.Time, bool) {
	return o.data.Properties.TimeValue(cmis.PropertyLastModificationDate)
}

func (o *baseObject) ChangeToken() string {
	s, _ := o.data.Properties.StringValue(cmis.PropertyChangeToken)
	return s
}

// Document is a typed cmis:document object.
type Document struct {
	baseObject
}

func (d *Document) ContentStreamFileName() string {
	s, _ := d.data.Properties.StringValue(cmis.PropertyContentStreamFileName)
	return s
}

func (d *Document) ContentStreamMimeType() string {
	s, _ := d.data.Properties.StringValue(cmis.PropertyContentStreamMimeType)
	return s
}

func (d *Document) ContentStreamLength() (int64, bool) {
	return d.data.Properties.IntValue(cmis.PropertyContentStreamLength)
}

func (d *Document) VersionLabel() string {
	s, _ := d.data.Properties.StringValue(cmis.PropertyVersionLabel)
	return s
}

func (d *Document) VersionSeriesID() string {
	s, _ := d.data.Properties.StringValue(cmis.PropertyVersionSeriesID)
	return s
}

func (d *Document) IsLatestVersion() bool {
	b, _ := d.data.Properties.BoolValue(cmis.PropertyIsLatestVersion)
	return b
}

func (d *Document) IsMajorVersion() bool {
	b, _ := d.data.Properties.BoolValue(cmis.PropertyIsMajorVersion)
	return b
}

func (d *Document) IsVersionSeriesCheckedOut() bool {
	b, _ := d.data.Properties.BoolValue(cmis.PropertyIsVersionSeriesCheckedOut)
	return b
}

func (d *Document) VersionSeriesCheckedOutBy() string {
	s, _ := d.data.Properties.StringValue(cmis.PropertyVersionSeriesCheckedOutBy)
	return s
}

func (d *Document) CheckinComment() string {
	s, _ := d.data.Properties.StringValue(cmis.PropertyCheckinComment)
	return s
}

// Folder is a typed cmis:folder object.
type Folder struct {
	baseObject
}

// Path returns the folder's absolute path when the repository populated it.
func (f *Folder) Path() string {
	s, _ := f.data.Properties.StringValue(cmis.PropertyPath)
	return s
}

// ParentID returns the parent folder ID, empty for the root folder.
func (f *Folder) ParentID() string {
	s, _ := f.data.Properties.StringValue(cmis.PropertyParentID)
	return s
}

// Relationship is a typed cmis:relationship object.
type Relationship struct {
	baseObject
}

func (r *Relationship) SourceID() string {
	s, _ := r.data.Properties.StringValue(cmis.PropertySourceID)
	return s
}

func (r *Relationship) TargetID() string {
	s, _ := r.data.Properties.StringValue(cmis.PropertyTargetID)
	return s
}

// Policy is a typed cmis:policy object.
type Policy struct {
	baseObject
}

func (p *Policy) PolicyText() string {
	s, _ := p.data.Properties.StringValue(cmis.PropertyPolicyText)
	return s
}

// Item is a typed cmis:item object.
type Item struct {
	baseObject
}

// QueryResult is one row of a query result set, addressable by property ID
// or by query name.
type QueryResult struct {
	data        *cmis.ObjectData
	byQueryName map[string]*cmis.PropertyData
}

// Properties returns the row's property bag keyed by property ID.
func (r *QueryResult) Properties() cmis.Properties { return r.data.Properties }

// ByID returns the first value of a property by property ID.
func (r *QueryResult) ByID(id string) (any, bool) {
	p := r.data.Properties.Get(id)
	if p == nil || len(p.Values) == 0 {
		return nil, false
	}
	return p.FirstValue(), true
}

// ByQueryName returns the first value of a property by query name. Rows from
// a SELECT with aliases key on the alias.
func (r *QueryResult) ByQueryName(name string) (any, bool) {
	p, ok := r.byQueryName[name]
	if !ok || len(p.Values) == 0 {
		return nil, false
	}
	return p.FirstValue(), true
}

// objectPath returns the object's resolved absolute path when known at
// insert time, so the cache can populate its path index.
func objectPath(obj CmisObject) string {
	if f, ok := obj.(*Folder); ok {
		return f.Path()
	}
	s, _ := obj.Properties().StringValue(cmis.PropertyPath)
	return s
}
