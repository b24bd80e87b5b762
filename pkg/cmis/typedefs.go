package cmis

// PropertyDefinition declares one property of an object type.
type PropertyDefinition struct {
	ID           string       `json:"id"`
	LocalName    string       `json:"local_name,omitempty"`
	QueryName    string       `json:"query_name"`
	DisplayName  string       `json:"display_name,omitempty"`
	Description  string       `json:"description,omitempty"`
	PropertyType PropertyType `json:"property_type"`
	Cardinality  Cardinality  `json:"cardinality"`
	Updatability Updatability `json:"updatability"`
	Required     bool         `json:"required"`
	Queryable    bool         `json:"queryable"`
	Orderable    bool         `json:"orderable"`
	DefaultValue []any        `json:"default_value,omitempty"`
}

// TypeDefinition declares one object type of a repository.
type TypeDefinition struct {
	ID                 string     `json:"id"`
	LocalName          string     `json:"local_name,omitempty"`
	QueryName          string     `json:"query_name"`
	DisplayName        string     `json:"display_name,omitempty"`
	Description        string     `json:"description,omitempty"`
	BaseTypeID         BaseTypeID `json:"base_type_id"`
	ParentTypeID       string     `json:"parent_type_id,omitempty"`
	Creatable          bool       `json:"creatable"`
	Fileable           bool       `json:"fileable"`
	Queryable          bool       `json:"queryable"`
	FulltextIndexed    bool       `json:"fulltext_indexed"`
	ControllableACL    bool       `json:"controllable_acl"`
	ControllablePolicy bool       `json:"controllable_policy"`

	// PropertyDefinitions is keyed by property ID.
	PropertyDefinitions map[string]*PropertyDefinition `json:"property_definitions,omitempty"`
}

// PropertyDefinition returns the definition with the given property ID, or
// nil.
func (t *TypeDefinition) PropertyDefinition(id string) *PropertyDefinition {
	if t == nil {
		return nil
	}
	return t.PropertyDefinitions[id]
}
