package memrepo

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/docfabric/cmisgo/pkg/cmis"
	cmiserrors "github.com/docfabric/cmisgo/pkg/errors"
)

// fixture is the YAML shape of a seeded repository. Objects are given by
// absolute path; parents must appear before (or are implied by) their
// children.
type fixture struct {
	Repository fixtureRepo     `yaml:"repository"`
	Objects    []fixtureObject `yaml:"objects"`
}

type fixtureRepo struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type fixtureObject struct {
	Path       string         `yaml:"path"`
	Type       string         `yaml:"type,omitempty"`
	Content    string         `yaml:"content,omitempty"`
	MimeType   string         `yaml:"mime_type,omitempty"`
	Properties map[string]any `yaml:"properties,omitempty"`
}

// LoadFixture builds a repository from a YAML fixture file. Unknown keys are
// rejected. Seeding runs through the normal create operations, so the change
// log reflects the seeded objects.
func LoadFixture(path string) (*Repository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, cmiserrors.Wrapf(err, "failed to open fixture %s", path)
	}
	defer f.Close()

	var fx fixture
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&fx); err != nil {
		return nil, cmiserrors.Wrapf(err, "invalid fixture %s", path)
	}
	return buildFromFixture(&fx)
}

func buildFromFixture(fx *fixture) (*Repository, error) {
	id := fx.Repository.ID
	if id == "" {
		id = "memrepo"
	}
	name := fx.Repository.Name
	if name == "" {
		name = id
	}
	repo := NewRepository(id, name)
	ctx := context.Background()

	// Parents before children regardless of fixture order.
	objects := append([]fixtureObject(nil), fx.Objects...)
	sort.SliceStable(objects, func(i, j int) bool {
		return strings.Count(objects[i].Path, "/") < strings.Count(objects[j].Path, "/")
	})

	for _, fo := range objects {
		if fo.Path == "" || fo.Path[0] != '/' || fo.Path == "/" {
			return nil, cmiserrors.NewInvalidArgument(fmt.Sprintf("fixture object path %q must be absolute and not the root", fo.Path))
		}
		parentPath, objName := splitFixturePath(fo.Path)
		parent, err := repo.FetchObjectByPath(ctx, parentPath, fetchAll)
		if err != nil {
			return nil, cmiserrors.Wrapf(err, "fixture parent %s missing for %s", parentPath, fo.Path)
		}

		typeID := fo.Type
		isFolder := typeID == "" && fo.Content == "" && fo.MimeType == ""
		if typeID != "" {
			base, err := repo.baseTypeOfPublic(typeID)
			if err != nil {
				return nil, err
			}
			isFolder = base == cmis.BaseTypeFolder
		}

		props := cmis.Properties{
			cmis.PropertyName: {ID: cmis.PropertyName, Values: []any{objName}},
		}
		if typeID != "" {
			props[cmis.PropertyObjectTypeID] = &cmis.PropertyData{
				ID: cmis.PropertyObjectTypeID, Values: []any{typeID},
			}
		}
		for pid, value := range fo.Properties {
			props[pid] = &cmis.PropertyData{ID: pid, Values: []any{value}}
		}

		if isFolder {
			if _, err := repo.CreateFolder(ctx, props, parent.ID()); err != nil {
				return nil, cmiserrors.Wrapf(err, "fixture folder %s", fo.Path)
			}
			continue
		}

		var content *cmis.ContentStream
		if fo.Content != "" {
			mime := fo.MimeType
			if mime == "" {
				mime = "text/plain"
			}
			length := int64(len(fo.Content))
			content = &cmis.ContentStream{
				FileName: objName,
				MimeType: mime,
				Length:   &length,
				Stream:   strings.NewReader(fo.Content),
			}
		}
		if _, err := repo.CreateDocument(ctx, props, parent.ID(), content, cmis.VersioningStateMajor); err != nil {
			return nil, cmiserrors.Wrapf(err, "fixture document %s", fo.Path)
		}
	}
	return repo, nil
}

func splitFixturePath(path string) (parent, name string) {
	trimmed := strings.TrimSuffix(path, "/")
	idx := strings.LastIndexByte(trimmed, '/')
	name = trimmed[idx+1:]
	parent = trimmed[:idx]
	if parent == "" {
		parent = "/"
	}
	return parent, name
}

// baseTypeOfPublic is baseTypeOf with its own locking, for callers outside
// the repository's methods.
func (r *Repository) baseTypeOfPublic(typeID string) (cmis.BaseTypeID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.baseTypeOf(typeID)
}
