// Package cmis holds the wire-level data model of the repository protocol:
// raw object data, property bags, type definitions, ACLs and the enums used
// across bindings and the session runtime. These types are passive carriers;
// behavior lives in pkg/session and in binding implementations.
package cmis
