package cmis

import "time"

// Well-known CMIS property IDs.
const (
	PropertyObjectID                  = "cmis:objectId"
	PropertyBaseTypeID                = "cmis:baseTypeId"
	PropertyObjectTypeID              = "cmis:objectTypeId"
	PropertyName                      = "cmis:name"
	PropertyDescription               = "cmis:description"
	PropertyCreatedBy                 = "cmis:createdBy"
	PropertyCreationDate              = "cmis:creationDate"
	PropertyLastModifiedBy            = "cmis:lastModifiedBy"
	PropertyLastModificationDate      = "cmis:lastModificationDate"
	PropertyChangeToken               = "cmis:changeToken"
	PropertyParentID                  = "cmis:parentId"
	PropertyPath                      = "cmis:path"
	PropertyIsLatestVersion           = "cmis:isLatestVersion"
	PropertyIsMajorVersion            = "cmis:isMajorVersion"
	PropertyVersionLabel              = "cmis:versionLabel"
	PropertyVersionSeriesID           = "cmis:versionSeriesId"
	PropertyIsVersionSeriesCheckedOut = "cmis:isVersionSeriesCheckedOut"
	PropertyVersionSeriesCheckedOutBy = "cmis:versionSeriesCheckedOutBy"
	PropertyVersionSeriesCheckedOutID = "cmis:versionSeriesCheckedOutId"
	PropertyCheckinComment            = "cmis:checkinComment"
	PropertyContentStreamLength       = "cmis:contentStreamLength"
	PropertyContentStreamMimeType     = "cmis:contentStreamMimeType"
	PropertyContentStreamFileName     = "cmis:contentStreamFileName"
	PropertyContentStreamID           = "cmis:contentStreamId"
	PropertySourceID                  = "cmis:sourceId"
	PropertyTargetID                  = "cmis:targetId"
	PropertyPolicyText                = "cmis:policyText"
)

// PropertyData is one property as it appears on the wire: the property ID
// and zero or more values. Multi-valued properties carry every value;
// single-valued properties carry at most one.
type PropertyData struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
	QueryName   string `json:"query_name,omitempty"`
	Values      []any  `json:"values"`
}

// FirstValue returns the first value or nil when the property is empty.
func (p *PropertyData) FirstValue() any {
	if p == nil || len(p.Values) == 0 {
		return nil
	}
	return p.Values[0]
}

// Properties is the property bag of a wire object, keyed by property ID.
type Properties map[string]*PropertyData

// Get returns the property with the given ID, or nil.
func (ps Properties) Get(id string) *PropertyData {
	if ps == nil {
		return nil
	}
	return ps[id]
}

// StringValue returns the first value of a property as a string.
// The second return is false when the property is absent, empty, or not a
// string.
func (ps Properties) StringValue(id string) (string, bool) {
	s, ok := ps.Get(id).FirstValue().(string)
	return s, ok
}

// BoolValue returns the first value of a property as a bool.
func (ps Properties) BoolValue(id string) (bool, bool) {
	b, ok := ps.Get(id).FirstValue().(bool)
	return b, ok
}

// IntValue returns the first value of a property as an int64. Values decoded
// from YAML or JSON may arrive as int or float64; both are accepted when
// exact.
func (ps Properties) IntValue(id string) (int64, bool) {
	switch v := ps.Get(id).FirstValue().(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		if v == float64(int64(v)) {
			return int64(v), true
		}
	}
	return 0, false
}

// TimeValue returns the first value of a property as a time.Time.
func (ps Properties) TimeValue(id string) (time.Time, bool) {
	t, ok := ps.Get(id).FirstValue().(time.Time)
	return t, ok
}

// Clone returns a deep-enough copy: the map and each PropertyData are copied,
// value slices are copied shallowly (values themselves are immutable
// scalars).
func (ps Properties) Clone() Properties {
	if ps == nil {
		return nil
	}
	out := make(Properties, len(ps))
	for id, p := range ps {
		cp := *p
		cp.Values = append([]any(nil), p.Values...)
		out[id] = &cp
	}
	return out
}
