package cmis

// BaseTypeID identifies one of the five CMIS base object types.
type BaseTypeID string

const (
	BaseTypeDocument     BaseTypeID = "cmis:document"
	BaseTypeFolder       BaseTypeID = "cmis:folder"
	BaseTypeRelationship BaseTypeID = "cmis:relationship"
	BaseTypePolicy       BaseTypeID = "cmis:policy"
	BaseTypeItem         BaseTypeID = "cmis:item"
)

// PropertyType is the declared value type of a property definition.
type PropertyType string

const (
	PropertyTypeString   PropertyType = "string"
	PropertyTypeBoolean  PropertyType = "boolean"
	PropertyTypeID       PropertyType = "id"
	PropertyTypeInteger  PropertyType = "integer"
	PropertyTypeDecimal  PropertyType = "decimal"
	PropertyTypeDateTime PropertyType = "datetime"
	PropertyTypeURI      PropertyType = "uri"
	PropertyTypeHTML     PropertyType = "html"
)

// Cardinality says whether a property holds one value or a list.
type Cardinality string

const (
	CardinalitySingle Cardinality = "single"
	CardinalityMulti  Cardinality = "multi"
)

// Updatability says when a property may be written.
type Updatability string

const (
	UpdatabilityReadOnly       Updatability = "readonly"
	UpdatabilityReadWrite      Updatability = "readwrite"
	UpdatabilityWhenCheckedOut Updatability = "whencheckedout"
	UpdatabilityOnCreate       Updatability = "oncreate"
)

// IncludeRelationships controls which relationships a fetch returns.
type IncludeRelationships string

const (
	IncludeRelationshipsNone   IncludeRelationships = "none"
	IncludeRelationshipsSource IncludeRelationships = "source"
	IncludeRelationshipsTarget IncludeRelationships = "target"
	IncludeRelationshipsBoth   IncludeRelationships = "both"
)

// RelationshipDirection selects relationships by the role an object plays.
type RelationshipDirection string

const (
	RelationshipDirectionSource RelationshipDirection = "source"
	RelationshipDirectionTarget RelationshipDirection = "target"
	RelationshipDirectionEither RelationshipDirection = "either"
)

// VersioningState is the initial version state for a created document.
type VersioningState string

const (
	VersioningStateNone       VersioningState = "none"
	VersioningStateMajor      VersioningState = "major"
	VersioningStateMinor      VersioningState = "minor"
	VersioningStateCheckedOut VersioningState = "checkedout"
)

// UnfileObject controls what happens to non-folder children on DeleteTree.
type UnfileObject string

const (
	UnfileObjectUnfile       UnfileObject = "unfile"
	UnfileObjectDeleteSingle UnfileObject = "deletesinglefiled"
	UnfileObjectDelete       UnfileObject = "delete"
)

// ACLPropagation controls how an applied ACL spreads through the hierarchy.
type ACLPropagation string

const (
	ACLPropagationRepositoryDetermined ACLPropagation = "repositorydetermined"
	ACLPropagationObjectOnly           ACLPropagation = "objectonly"
	ACLPropagationPropagate            ACLPropagation = "propagate"
)

// ChangeType classifies one change-log event.
type ChangeType string

const (
	ChangeTypeCreated  ChangeType = "created"
	ChangeTypeUpdated  ChangeType = "updated"
	ChangeTypeDeleted  ChangeType = "deleted"
	ChangeTypeSecurity ChangeType = "security"
)

// Action names one allowable action on an object.
type Action string

const (
	ActionCanGetProperties       Action = "canGetProperties"
	ActionCanUpdateProperties    Action = "canUpdateProperties"
	ActionCanDeleteObject        Action = "canDeleteObject"
	ActionCanMoveObject          Action = "canMoveObject"
	ActionCanGetChildren         Action = "canGetChildren"
	ActionCanGetFolderParent     Action = "canGetFolderParent"
	ActionCanGetObjectParents    Action = "canGetObjectParents"
	ActionCanCreateDocument      Action = "canCreateDocument"
	ActionCanCreateFolder        Action = "canCreateFolder"
	ActionCanDeleteTree          Action = "canDeleteTree"
	ActionCanGetContentStream    Action = "canGetContentStream"
	ActionCanSetContentStream    Action = "canSetContentStream"
	ActionCanDeleteContentStream Action = "canDeleteContentStream"
	ActionCanCheckOut            Action = "canCheckOut"
	ActionCanCancelCheckOut      Action = "canCancelCheckOut"
	ActionCanCheckIn             Action = "canCheckIn"
	ActionCanGetACL              Action = "canGetACL"
	ActionCanApplyACL            Action = "canApplyACL"
	ActionCanApplyPolicy         Action = "canApplyPolicy"
	ActionCanRemovePolicy        Action = "canRemovePolicy"
)
