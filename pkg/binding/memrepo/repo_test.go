package memrepo

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docfabric/cmisgo/pkg/binding"
	"github.com/docfabric/cmisgo/pkg/cmis"
	cmiserrors "github.com/docfabric/cmisgo/pkg/errors"
)

func props(name string, extra map[string]any) cmis.Properties {
	ps := cmis.Properties{
		cmis.PropertyName: {ID: cmis.PropertyName, Values: []any{name}},
	}
	for id, v := range extra {
		ps[id] = &cmis.PropertyData{ID: id, Values: []any{v}}
	}
	return ps
}

func textStream(name, text string) *cmis.ContentStream {
	length := int64(len(text))
	return &cmis.ContentStream{
		FileName: name,
		MimeType: "text/plain",
		Length:   &length,
		Stream:   strings.NewReader(text),
	}
}

func seedRepo(t *testing.T) (*Repository, string, string) {
	t.Helper()
	ctx := context.Background()
	repo := NewRepository("test", "test")

	folderID, err := repo.CreateFolder(ctx, props("docs", nil), repo.RootFolderID())
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	docID, err := repo.CreateDocument(ctx, props("a.txt", nil), folderID, textStream("a.txt", "hello"), cmis.VersioningStateMajor)
	if err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	return repo, folderID, docID
}

func TestRepositoryObjects(t *testing.T) {
	ctx := context.Background()

	t.Run("fetch by id and by path agree", func(t *testing.T) {
		repo, _, docID := seedRepo(t)

		byID, err := repo.FetchObject(ctx, docID, binding.FetchParams{})
		if err != nil {
			t.Fatalf("FetchObject: %v", err)
		}
		byPath, err := repo.FetchObjectByPath(ctx, "/docs/a.txt", binding.FetchParams{})
		if err != nil {
			t.Fatalf("FetchObjectByPath: %v", err)
		}
		if byID.ID() != byPath.ID() {
			t.Fatalf("id mismatch: %s vs %s", byID.ID(), byPath.ID())
		}
	})

	t.Run("unknown id is a typed not-found fault", func(t *testing.T) {
		repo, _, _ := seedRepo(t)
		_, err := repo.FetchObject(ctx, "missing", binding.FetchParams{})
		if !cmiserrors.IsNotFound(err) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("property filter keeps identity properties", func(t *testing.T) {
		repo, _, docID := seedRepo(t)
		data, err := repo.FetchObject(ctx, docID, binding.FetchParams{Filter: []string{cmis.PropertyCreatedBy}})
		if err != nil {
			t.Fatalf("FetchObject: %v", err)
		}
		if data.ID() != docID || data.Name() != "a.txt" {
			t.Fatal("identity properties were filtered away")
		}
		if data.Properties.Get(cmis.PropertyCreatedBy) == nil {
			t.Fatal("requested property missing")
		}
		if data.Properties.Get(cmis.PropertyChangeToken) != nil {
			t.Fatal("unrequested property leaked through the filter")
		}
	})

	t.Run("sibling names are unique", func(t *testing.T) {
		repo, folderID, _ := seedRepo(t)
		_, err := repo.CreateDocument(ctx, props("a.txt", nil), folderID, nil, cmis.VersioningStateMajor)
		if !cmiserrors.IsConstraint(err) {
			t.Fatalf("expected constraint violation, got %v", err)
		}
	})

	t.Run("move keeps identity and changes the path", func(t *testing.T) {
		repo, folderID, docID := seedRepo(t)
		otherID, err := repo.CreateFolder(ctx, props("archive", nil), repo.RootFolderID())
		if err != nil {
			t.Fatalf("CreateFolder: %v", err)
		}
		newID, err := repo.MoveObject(ctx, docID, folderID, otherID)
		if err != nil {
			t.Fatalf("MoveObject: %v", err)
		}
		if newID != docID {
			t.Fatalf("move changed the id: %s", newID)
		}
		if _, err := repo.FetchObjectByPath(ctx, "/archive/a.txt", binding.FetchParams{}); err != nil {
			t.Fatalf("object not reachable at the new path: %v", err)
		}
		if _, err := repo.FetchObjectByPath(ctx, "/docs/a.txt", binding.FetchParams{}); !cmiserrors.IsNotFound(err) {
			t.Fatalf("object still reachable at the old path: %v", err)
		}
	})

	t.Run("moving a folder into its own subtree is rejected", func(t *testing.T) {
		repo, folderID, _ := seedRepo(t)
		subID, err := repo.CreateFolder(ctx, props("sub", nil), folderID)
		if err != nil {
			t.Fatalf("CreateFolder: %v", err)
		}
		if _, err := repo.MoveObject(ctx, folderID, repo.RootFolderID(), subID); !cmiserrors.IsConstraint(err) {
			t.Fatalf("expected constraint violation, got %v", err)
		}
	})

	t.Run("non-empty folder cannot be deleted directly", func(t *testing.T) {
		repo, folderID, _ := seedRepo(t)
		if err := repo.DeleteObject(ctx, folderID, true); !cmiserrors.IsConstraint(err) {
			t.Fatalf("expected constraint violation, got %v", err)
		}
	})

	t.Run("delete tree removes the subtree", func(t *testing.T) {
		repo, folderID, docID := seedRepo(t)
		failed, err := repo.DeleteTree(ctx, folderID, true, cmis.UnfileObjectDelete, false)
		if err != nil || len(failed) != 0 {
			t.Fatalf("DeleteTree: failed=%v err=%v", failed, err)
		}
		if _, err := repo.FetchObject(ctx, docID, binding.FetchParams{}); !cmiserrors.IsNotFound(err) {
			t.Fatalf("document survived DeleteTree: %v", err)
		}
	})

	t.Run("delete tree reports checked-out documents as failures", func(t *testing.T) {
		repo, folderID, docID := seedRepo(t)
		if _, err := repo.CheckOut(ctx, docID); err != nil {
			t.Fatalf("CheckOut: %v", err)
		}
		failed, err := repo.DeleteTree(ctx, folderID, true, cmis.UnfileObjectDelete, true)
		if err != nil {
			t.Fatalf("DeleteTree: %v", err)
		}
		if len(failed) == 0 {
			t.Fatal("expected the checked-out document among the failures")
		}
	})
}

func TestRepositoryVersioning(t *testing.T) {
	ctx := context.Background()

	t.Run("checkout checkin round trip", func(t *testing.T) {
		repo, _, docID := seedRepo(t)

		pwcID, err := repo.CheckOut(ctx, docID)
		if err != nil {
			t.Fatalf("CheckOut: %v", err)
		}
		if _, err := repo.CheckOut(ctx, docID); !cmiserrors.IsVersioning(err) {
			t.Fatalf("double checkout should fail with a versioning error, got %v", err)
		}

		newID, err := repo.CheckIn(ctx, pwcID, false, nil, textStream("a.txt", "v1.1"), "minor fix")
		if err != nil {
			t.Fatalf("CheckIn: %v", err)
		}
		if newID != docID {
			t.Fatalf("checkin should land on the series head, got %s", newID)
		}
		data, _ := repo.FetchObject(ctx, docID, binding.FetchParams{})
		if label, _ := data.Properties.StringValue(cmis.PropertyVersionLabel); label != "1.1" {
			t.Fatalf("version label = %q", label)
		}
		if _, err := repo.FetchObject(ctx, pwcID, binding.FetchParams{}); !cmiserrors.IsNotFound(err) {
			t.Fatal("PWC survived checkin")
		}
	})

	t.Run("cancel checkout discards the working copy", func(t *testing.T) {
		repo, _, docID := seedRepo(t)
		pwcID, err := repo.CheckOut(ctx, docID)
		if err != nil {
			t.Fatalf("CheckOut: %v", err)
		}
		if err := repo.CancelCheckOut(ctx, pwcID); err != nil {
			t.Fatalf("CancelCheckOut: %v", err)
		}
		// The series is free for checkout again.
		if _, err := repo.CheckOut(ctx, docID); err != nil {
			t.Fatalf("re-checkout after cancel: %v", err)
		}
	})

	t.Run("checked out documents listing", func(t *testing.T) {
		repo, folderID, docID := seedRepo(t)
		pwcID, _ := repo.CheckOut(ctx, docID)

		page, err := repo.FetchCheckedOutPage(ctx, folderID, 0, 10, binding.FetchParams{})
		if err != nil {
			t.Fatalf("FetchCheckedOutPage: %v", err)
		}
		if len(page.Objects) != 1 || page.Objects[0].ID() != pwcID {
			t.Fatalf("unexpected checked-out listing: %v", page.Objects)
		}
	})
}

func TestRepositoryContent(t *testing.T) {
	ctx := context.Background()
	repo, _, docID := seedRepo(t)

	t.Run("content stream round trip", func(t *testing.T) {
		cs, err := repo.FetchContentStream(ctx, docID, "")
		if err != nil {
			t.Fatalf("FetchContentStream: %v", err)
		}
		text, _ := io.ReadAll(cs.Stream)
		if string(text) != "hello" {
			t.Fatalf("content = %q", text)
		}
	})

	t.Run("set without overwrite fails on existing content", func(t *testing.T) {
		_, err := repo.SetContentStream(ctx, docID, textStream("a.txt", "new"), false)
		if !cmiserrors.IsConstraint(err) {
			t.Fatalf("expected constraint violation, got %v", err)
		}
	})

	t.Run("delete then refetch", func(t *testing.T) {
		if _, err := repo.DeleteContentStream(ctx, docID); err != nil {
			t.Fatalf("DeleteContentStream: %v", err)
		}
		if _, err := repo.FetchContentStream(ctx, docID, ""); !cmiserrors.IsConstraint(err) {
			t.Fatalf("expected constraint violation, got %v", err)
		}
	})
}

func TestRepositoryChangeLog(t *testing.T) {
	ctx := context.Background()
	repo, _, docID := seedRepo(t)

	token, err := repo.LatestChangeLogToken(ctx)
	if err != nil {
		t.Fatalf("LatestChangeLogToken: %v", err)
	}

	if _, err := repo.UpdateProperties(ctx, docID, "", props("b.txt", nil)); err != nil {
		t.Fatalf("UpdateProperties: %v", err)
	}
	if err := repo.DeleteObject(ctx, docID, true); err != nil {
		t.Fatalf("DeleteObject: %v", err)
	}

	page, err := repo.FetchChangesPage(ctx, token, true, 0, 10)
	if err != nil {
		t.Fatalf("FetchChangesPage: %v", err)
	}
	if len(page.Events) != 2 {
		t.Fatalf("expected 2 events after the token, got %d", len(page.Events))
	}
	if page.Events[0].ChangeType != cmis.ChangeTypeUpdated || page.Events[1].ChangeType != cmis.ChangeTypeDeleted {
		t.Fatalf("unexpected event order: %v %v", page.Events[0].ChangeType, page.Events[1].ChangeType)
	}
	if page.Events[1].Properties != nil {
		t.Fatal("delete events carry no property snapshot")
	}
}

func TestRepositoryACLAndPolicies(t *testing.T) {
	ctx := context.Background()
	repo, _, docID := seedRepo(t)

	t.Run("apply and merge ACEs", func(t *testing.T) {
		acl, err := repo.ApplyACL(ctx, docID,
			[]cmis.ACE{{PrincipalID: "alice", Permissions: []string{cmis.PermissionRead}}},
			nil, cmis.ACLPropagationObjectOnly)
		if err != nil {
			t.Fatalf("ApplyACL: %v", err)
		}
		if len(acl.ACEs) != 1 || acl.ACEs[0].PrincipalID != "alice" {
			t.Fatalf("unexpected ACL: %+v", acl)
		}

		acl, err = repo.ApplyACL(ctx, docID,
			[]cmis.ACE{{PrincipalID: "alice", Permissions: []string{cmis.PermissionWrite}}},
			nil, cmis.ACLPropagationObjectOnly)
		if err != nil {
			t.Fatalf("ApplyACL: %v", err)
		}
		if len(acl.ACEs) != 1 || len(acl.ACEs[0].Permissions) != 2 {
			t.Fatalf("permissions did not merge: %+v", acl.ACEs)
		}

		acl, err = repo.ApplyACL(ctx, docID, nil,
			[]cmis.ACE{{PrincipalID: "alice", Permissions: []string{cmis.PermissionRead, cmis.PermissionWrite}}},
			cmis.ACLPropagationObjectOnly)
		if err != nil {
			t.Fatalf("ApplyACL: %v", err)
		}
		if len(acl.ACEs) != 0 {
			t.Fatalf("removal left entries: %+v", acl.ACEs)
		}
	})

	t.Run("policies", func(t *testing.T) {
		// No policy object yet: applying an arbitrary id fails.
		if err := repo.ApplyPolicy(ctx, "missing", docID); !cmiserrors.IsNotFound(err) {
			t.Fatalf("expected not found, got %v", err)
		}
		if err := repo.RemovePolicy(ctx, "missing", docID); !cmiserrors.IsInvalidArgument(err) {
			t.Fatalf("expected invalid argument, got %v", err)
		}
	})
}

func TestLoadFixture(t *testing.T) {
	fixture := `
repository:
  id: demo
  name: Demo
objects:
  - path: /reports
  - path: /reports/q1.txt
    content: "first quarter numbers"
  - path: /reports/q2.txt
    content: "second quarter numbers"
    properties:
      cmis:description: draft
`
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	if err := os.WriteFile(path, []byte(fixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	repo, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}

	ctx := context.Background()
	data, err := repo.FetchObjectByPath(ctx, "/reports/q2.txt", binding.FetchParams{})
	if err != nil {
		t.Fatalf("FetchObjectByPath: %v", err)
	}
	if desc, _ := data.Properties.StringValue(cmis.PropertyDescription); desc != "draft" {
		t.Fatalf("custom property lost: %q", desc)
	}

	cs, err := repo.FetchContentStream(ctx, data.ID(), "")
	if err != nil {
		t.Fatalf("FetchContentStream: %v", err)
	}
	text, _ := io.ReadAll(cs.Stream)
	if string(text) != "second quarter numbers" {
		t.Fatalf("content = %q", text)
	}

	t.Run("unknown keys are rejected", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		os.WriteFile(bad, []byte("repository:\n  id: x\n  color: blue\n"), 0o644)
		if _, err := LoadFixture(bad); err == nil {
			t.Fatal("expected strict decoding to fail")
		}
	})
}
