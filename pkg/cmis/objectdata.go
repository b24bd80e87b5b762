package cmis

import "time"

// ObjectData is the raw wire representation of one repository object, before
// conversion into a typed client object. Which facets are populated depends
// on the operation context the fetch was issued under.
type ObjectData struct {
	Properties       Properties        `json:"properties"`
	AllowableActions *AllowableActions `json:"allowable_actions,omitempty"`
	ACL              *ACL              `json:"acl,omitempty"`
	Relationships    []*ObjectData     `json:"relationships,omitempty"`
	PolicyIDs        []string          `json:"policy_ids,omitempty"`
	Renditions       []*Rendition      `json:"renditions,omitempty"`

	// PathSegment is set on children listings when path segments were
	// requested.
	PathSegment string `json:"path_segment,omitempty"`

	// ChangeInfo is set on change-log entries only.
	ChangeInfo *ChangeInfo `json:"change_info,omitempty"`
}

// ID returns the cmis:objectId property, or "" when absent.
func (o *ObjectData) ID() string {
	if o == nil {
		return ""
	}
	id, _ := o.Properties.StringValue(PropertyObjectID)
	return id
}

// Name returns the cmis:name property, or "" when absent.
func (o *ObjectData) Name() string {
	if o == nil {
		return ""
	}
	name, _ := o.Properties.StringValue(PropertyName)
	return name
}

// BaseType returns the cmis:baseTypeId property.
func (o *ObjectData) BaseType() BaseTypeID {
	if o == nil {
		return ""
	}
	bt, _ := o.Properties.StringValue(PropertyBaseTypeID)
	return BaseTypeID(bt)
}

// AllowableActions is the set of actions the caller may perform.
type AllowableActions struct {
	Actions map[Action]bool `json:"actions"`
}

// Allows reports whether the action is explicitly allowed.
func (a *AllowableActions) Allows(action Action) bool {
	if a == nil {
		return false
	}
	return a.Actions[action]
}

// Rendition describes an alternative representation of a document's content.
type Rendition struct {
	StreamID string `json:"stream_id"`
	MimeType string `json:"mime_type"`
	Kind     string `json:"kind"`
	Length   int64  `json:"length"`
	Title    string `json:"title,omitempty"`
}

// ChangeInfo carries the change-log metadata of an object entry.
type ChangeInfo struct {
	ChangeType ChangeType `json:"change_type"`
	ChangeTime time.Time  `json:"change_time"`
}

// ChangeEvent is one entry of the repository change log.
type ChangeEvent struct {
	ObjectID   string     `json:"object_id"`
	ChangeType ChangeType `json:"change_type"`
	ChangeTime time.Time  `json:"change_time"`
	Properties Properties `json:"properties,omitempty"`
	PolicyIDs  []string   `json:"policy_ids,omitempty"`
	ACL        *ACL       `json:"acl,omitempty"`
}
