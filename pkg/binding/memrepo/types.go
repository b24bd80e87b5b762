package memrepo

import (
	"github.com/docfabric/cmisgo/pkg/cmis"
	cmiserrors "github.com/docfabric/cmisgo/pkg/errors"
)

func propDef(id string, pt cmis.PropertyType, updatability cmis.Updatability) *cmis.PropertyDefinition {
	return &cmis.PropertyDefinition{
		ID:           id,
		LocalName:    id,
		QueryName:    id,
		PropertyType: pt,
		Cardinality:  cmis.CardinalitySingle,
		Updatability: updatability,
		Queryable:    true,
		Orderable:    true,
	}
}

func commonPropDefs() map[string]*cmis.PropertyDefinition {
	return map[string]*cmis.PropertyDefinition{
		cmis.PropertyObjectID:             propDef(cmis.PropertyObjectID, cmis.PropertyTypeID, cmis.UpdatabilityReadOnly),
		cmis.PropertyBaseTypeID:           propDef(cmis.PropertyBaseTypeID, cmis.PropertyTypeID, cmis.UpdatabilityReadOnly),
		cmis.PropertyObjectTypeID:         propDef(cmis.PropertyObjectTypeID, cmis.PropertyTypeID, cmis.UpdatabilityOnCreate),
		cmis.PropertyName:                 propDef(cmis.PropertyName, cmis.PropertyTypeString, cmis.UpdatabilityReadWrite),
		cmis.PropertyCreatedBy:            propDef(cmis.PropertyCreatedBy, cmis.PropertyTypeString, cmis.UpdatabilityReadOnly),
		cmis.PropertyCreationDate:         propDef(cmis.PropertyCreationDate, cmis.PropertyTypeDateTime, cmis.UpdatabilityReadOnly),
		cmis.PropertyLastModifiedBy:       propDef(cmis.PropertyLastModifiedBy, cmis.PropertyTypeString, cmis.UpdatabilityReadOnly),
		cmis.PropertyLastModificationDate: propDef(cmis.PropertyLastModificationDate, cmis.PropertyTypeDateTime, cmis.UpdatabilityReadOnly),
		cmis.PropertyChangeToken:          propDef(cmis.PropertyChangeToken, cmis.PropertyTypeString, cmis.UpdatabilityReadOnly),
	}
}

// seedTypes registers the five base types.
func (r *Repository) seedTypes() {
	document := &cmis.TypeDefinition{
		ID:                  string(cmis.BaseTypeDocument),
		LocalName:           "document",
		QueryName:           string(cmis.BaseTypeDocument),
		DisplayName:         "Document",
		BaseTypeID:          cmis.BaseTypeDocument,
		Creatable:           true,
		Fileable:            true,
		Queryable:           true,
		FulltextIndexed:     true,
		ControllableACL:     true,
		ControllablePolicy:  true,
		PropertyDefinitions: commonPropDefs(),
	}
	for id, def := range map[string]*cmis.PropertyDefinition{
		cmis.PropertyVersionLabel:          propDef(cmis.PropertyVersionLabel, cmis.PropertyTypeString, cmis.UpdatabilityReadOnly),
		cmis.PropertyVersionSeriesID:       propDef(cmis.PropertyVersionSeriesID, cmis.PropertyTypeID, cmis.UpdatabilityReadOnly),
		cmis.PropertyIsMajorVersion:        propDef(cmis.PropertyIsMajorVersion, cmis.PropertyTypeBoolean, cmis.UpdatabilityReadOnly),
		cmis.PropertyIsLatestVersion:       propDef(cmis.PropertyIsLatestVersion, cmis.PropertyTypeBoolean, cmis.UpdatabilityReadOnly),
		cmis.PropertyContentStreamLength:   propDef(cmis.PropertyContentStreamLength, cmis.PropertyTypeInteger, cmis.UpdatabilityReadOnly),
		cmis.PropertyContentStreamMimeType: propDef(cmis.PropertyContentStreamMimeType, cmis.PropertyTypeString, cmis.UpdatabilityReadOnly),
		cmis.PropertyContentStreamFileName: propDef(cmis.PropertyContentStreamFileName, cmis.PropertyTypeString, cmis.UpdatabilityReadWrite),
		cmis.PropertyCheckinComment:        propDef(cmis.PropertyCheckinComment, cmis.PropertyTypeString, cmis.UpdatabilityReadOnly),
	} {
		document.PropertyDefinitions[id] = def
	}

	folder := &cmis.TypeDefinition{
		ID:                  string(cmis.BaseTypeFolder),
		LocalName:           "folder",
		QueryName:           string(cmis.BaseTypeFolder),
		DisplayName:         "Folder",
		BaseTypeID:          cmis.BaseTypeFolder,
		Creatable:           true,
		Fileable:            true,
		Queryable:           true,
		ControllableACL:     true,
		PropertyDefinitions: commonPropDefs(),
	}
	folder.PropertyDefinitions[cmis.PropertyParentID] = propDef(cmis.PropertyParentID, cmis.PropertyTypeID, cmis.UpdatabilityReadOnly)
	folder.PropertyDefinitions[cmis.PropertyPath] = propDef(cmis.PropertyPath, cmis.PropertyTypeString, cmis.UpdatabilityReadOnly)

	relationship := &cmis.TypeDefinition{
		ID:                  string(cmis.BaseTypeRelationship),
		LocalName:           "relationship",
		QueryName:           string(cmis.BaseTypeRelationship),
		DisplayName:         "Relationship",
		BaseTypeID:          cmis.BaseTypeRelationship,
		Creatable:           true,
		Queryable:           true,
		PropertyDefinitions: commonPropDefs(),
	}
	relationship.PropertyDefinitions[cmis.PropertySourceID] = propDef(cmis.PropertySourceID, cmis.PropertyTypeID, cmis.UpdatabilityOnCreate)
	relationship.PropertyDefinitions[cmis.PropertyTargetID] = propDef(cmis.PropertyTargetID, cmis.PropertyTypeID, cmis.UpdatabilityOnCreate)

	policy := &cmis.TypeDefinition{
		ID:                  string(cmis.BaseTypePolicy),
		LocalName:           "policy",
		QueryName:           string(cmis.BaseTypePolicy),
		DisplayName:         "Policy",
		BaseTypeID:          cmis.BaseTypePolicy,
		Creatable:           true,
		Queryable:           true,
		PropertyDefinitions: commonPropDefs(),
	}
	policy.PropertyDefinitions[cmis.PropertyPolicyText] = propDef(cmis.PropertyPolicyText, cmis.PropertyTypeString, cmis.UpdatabilityReadWrite)

	item := &cmis.TypeDefinition{
		ID:                  string(cmis.BaseTypeItem),
		LocalName:           "item",
		QueryName:           string(cmis.BaseTypeItem),
		DisplayName:         "Item",
		BaseTypeID:          cmis.BaseTypeItem,
		Creatable:           true,
		Fileable:            true,
		Queryable:           true,
		PropertyDefinitions: commonPropDefs(),
	}

	for _, def := range []*cmis.TypeDefinition{document, folder, relationship, policy, item} {
		r.types[def.ID] = def
	}
}

// RegisterType adds a custom type definition. Its parent must already be
// registered.
func (r *Repository) RegisterType(def *cmis.TypeDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if def == nil || def.ID == "" {
		return cmiserrors.NewInvalidArgument("type definition needs an ID")
	}
	if def.ParentTypeID != "" {
		if _, ok := r.types[def.ParentTypeID]; !ok {
			return cmiserrors.NewNotFoundError("type", def.ParentTypeID)
		}
	}
	if def.QueryName == "" {
		def.QueryName = def.ID
	}
	r.types[def.ID] = def
	return nil
}
