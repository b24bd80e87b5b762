package session

import (
	"github.com/docfabric/cmisgo/pkg/cmis"
	cmiserrors "github.com/docfabric/cmisgo/pkg/errors"
)

// ObjectFactory converts wire data into typed client objects. Conversions
// are deterministic and have no side effects on the cache. Sessions use the
// default factory unless the caller supplies one.
type ObjectFactory interface {
	ConvertObject(data *cmis.ObjectData) (CmisObject, error)
	ConvertQueryResult(data *cmis.ObjectData) *QueryResult

	// CreateProperty builds a wire property from a definition and values.
	CreateProperty(def *cmis.PropertyDefinition, values ...any) *cmis.PropertyData
}

// NewObjectFactory returns the default factory.
func NewObjectFactory() ObjectFactory {
	return &defaultFactory{}
}

type defaultFactory struct{}

func (f *defaultFactory) ConvertObject(data *cmis.ObjectData) (CmisObject, error) {
	if data == nil {
		return nil, cmiserrors.New("cannot convert nil object data")
	}

	base := baseObject{data: data}
	for _, relData := range data.Relationships {
		rel, err := f.ConvertObject(relData)
		if err != nil {
			return nil, err
		}
		typed, ok := rel.(*Relationship)
		if !ok {
			return nil, cmiserrors.NewConstraintError("relationship slot holds a non-relationship object")
		}
		base.rels = append(base.rels, typed)
	}

	switch data.BaseType() {
	case cmis.BaseTypeDocument:
		return &Document{base}, nil
	case cmis.BaseTypeFolder:
		return &Folder{base}, nil
	case cmis.BaseTypeRelationship:
		return &Relationship{base}, nil
	case cmis.BaseTypePolicy:
		return &Policy{base}, nil
	case cmis.BaseTypeItem:
		return &Item{base}, nil
	default:
		return nil, cmiserrors.NewConstraintError("unknown base type " + string(data.BaseType()))
	}
}

func (f *defaultFactory) ConvertQueryResult(data *cmis.ObjectData) *QueryResult {
	r := &QueryResult{data: data, byQueryName: make(map[string]*cmis.PropertyData)}
	for _, p := range data.Properties {
		name := p.QueryName
		if name == "" {
			name = p.ID
		}
		r.byQueryName[name] = p
	}
	return r
}

func (f *defaultFactory) CreateProperty(def *cmis.PropertyDefinition, values ...any) *cmis.PropertyData {
	return &cmis.PropertyData{
		ID:          def.ID,
		QueryName:   def.QueryName,
		DisplayName: def.DisplayName,
		Values:      values,
	}
}
