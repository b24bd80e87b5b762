package cmis

// ACE grants a principal a set of permissions. Direct distinguishes entries
// set on the object itself from entries inherited from an ancestor.
type ACE struct {
	PrincipalID string   `json:"principal_id"`
	Permissions []string `json:"permissions"`
	Direct      bool     `json:"direct"`
}

// ACL is the access control list of an object. IsExact is advisory: a
// repository may report that the returned entries do not fully express the
// effective permissions.
type ACL struct {
	ACEs    []ACE `json:"aces"`
	IsExact *bool `json:"is_exact,omitempty"`
}

// Well-known CMIS basic permissions.
const (
	PermissionRead  = "cmis:read"
	PermissionWrite = "cmis:write"
	PermissionAll   = "cmis:all"
)
