package cmis

// RepositoryCapabilities advertises optional behavior of a repository.
type RepositoryCapabilities struct {
	Query                 string `json:"query"`   // "none", "metadataonly", "fulltextonly", "bothcombined"
	Changes               string `json:"changes"` // "none", "objectidsonly", "properties", "all"
	Versioning            bool   `json:"versioning"`
	Multifiling           bool   `json:"multifiling"`
	Unfiling              bool   `json:"unfiling"`
	ACL                   string `json:"acl"` // "none", "discover", "manage"
	PWCUpdatable          bool   `json:"pwc_updatable"`
	PWCSearchable         bool   `json:"pwc_searchable"`
	AllVersionsSearchable bool   `json:"all_versions_searchable"`
}

// RepositoryInfo describes a repository as reported by the binding.
type RepositoryInfo struct {
	ID                   string                  `json:"id"`
	Name                 string                  `json:"name"`
	Description          string                  `json:"description,omitempty"`
	VendorName           string                  `json:"vendor_name,omitempty"`
	ProductName          string                  `json:"product_name,omitempty"`
	ProductVersion       string                  `json:"product_version,omitempty"`
	RootFolderID         string                  `json:"root_folder_id"`
	CMISVersionSupported string                  `json:"cmis_version_supported"`
	LatestChangeLogToken string                  `json:"latest_change_log_token,omitempty"`
	Capabilities         *RepositoryCapabilities `json:"capabilities,omitempty"`
}
