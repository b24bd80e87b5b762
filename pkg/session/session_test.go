package session

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/docfabric/cmisgo/pkg/binding"
	"github.com/docfabric/cmisgo/pkg/binding/memrepo"
	"github.com/docfabric/cmisgo/pkg/cmis"
	cmiserrors "github.com/docfabric/cmisgo/pkg/errors"
)

// countingTransport wraps a real transport and counts the fetches the cache
// is supposed to absorb.
type countingTransport struct {
	binding.Transport
	fetchObject int
	fetchByPath int
}

func (c *countingTransport) FetchObject(ctx context.Context, objectID string, p binding.FetchParams) (*cmis.ObjectData, error) {
	c.fetchObject++
	return c.Transport.FetchObject(ctx, objectID, p)
}

func (c *countingTransport) FetchObjectByPath(ctx context.Context, path string, p binding.FetchParams) (*cmis.ObjectData, error) {
	c.fetchByPath++
	return c.Transport.FetchObjectByPath(ctx, path, p)
}

func nameProps(name string) cmis.Properties {
	return cmis.Properties{
		cmis.PropertyName: {ID: cmis.PropertyName, Values: []any{name}},
	}
}

func contentStream(name, text string) *cmis.ContentStream {
	length := int64(len(text))
	return &cmis.ContentStream{
		FileName: name,
		MimeType: "text/plain",
		Length:   &length,
		Stream:   strings.NewReader(text),
	}
}

// newTestSession seeds a repository with /docs and /docs/a.txt and returns
// the session plus the counting transport wrapper.
func newTestSession(t *testing.T) (*Session, *countingTransport, string, string) {
	t.Helper()
	ctx := context.Background()

	repo := memrepo.NewRepository("test", "test repository")
	folderID, err := repo.CreateFolder(ctx, nameProps("docs"), repo.RootFolderID())
	if err != nil {
		t.Fatalf("seed folder: %v", err)
	}
	docID, err := repo.CreateDocument(ctx, nameProps("a.txt"), folderID, contentStream("a.txt", "hello world"), cmis.VersioningStateMajor)
	if err != nil {
		t.Fatalf("seed document: %v", err)
	}

	transport := &countingTransport{Transport: repo}
	params := DefaultParameters("test")
	params.QuietMode = true
	sess, err := NewSession(params, transport, nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return sess, transport, folderID, docID
}

func TestSessionGetObjectCaching(t *testing.T) {
	ctx := context.Background()

	t.Run("second read is served from cache", func(t *testing.T) {
		sess, transport, _, docID := newTestSession(t)

		first, err := sess.GetObject(ctx, docID)
		if err != nil {
			t.Fatalf("GetObject: %v", err)
		}
		second, err := sess.GetObject(ctx, docID)
		if err != nil {
			t.Fatalf("GetObject: %v", err)
		}
		if transport.fetchObject != 1 {
			t.Fatalf("expected 1 transport fetch, got %d", transport.fetchObject)
		}
		if first.ID() != second.ID() || second.Name() != "a.txt" {
			t.Fatalf("unexpected objects: %v %v", first.ID(), second.ID())
		}
	})

	t.Run("cache-disabled context always round-trips", func(t *testing.T) {
		sess, transport, _, docID := newTestSession(t)
		raw := NewOperationContext(ContextOptions{CacheEnabled: false})

		for i := 0; i < 3; i++ {
			if _, err := sess.GetObject(ctx, docID, raw); err != nil {
				t.Fatalf("GetObject: %v", err)
			}
		}
		if transport.fetchObject != 3 {
			t.Fatalf("expected 3 transport fetches, got %d", transport.fetchObject)
		}
	})

	t.Run("distinct contexts do not share entries", func(t *testing.T) {
		sess, transport, _, docID := newTestSession(t)
		withActions := NewOperationContext(ContextOptions{CacheEnabled: true, IncludeAllowableActions: true})

		if _, err := sess.GetObject(ctx, docID); err != nil {
			t.Fatalf("GetObject: %v", err)
		}
		obj, err := sess.GetObject(ctx, docID, withActions)
		if err != nil {
			t.Fatalf("GetObject: %v", err)
		}
		if transport.fetchObject != 2 {
			t.Fatalf("expected 2 transport fetches, got %d", transport.fetchObject)
		}
		if obj.AllowableActions() == nil {
			t.Fatal("context with actions got a projection without them")
		}
		// Both entries now hit independently.
		sess.GetObject(ctx, docID)
		sess.GetObject(ctx, docID, withActions)
		if transport.fetchObject != 2 {
			t.Fatalf("expected cached hits, got %d fetches", transport.fetchObject)
		}
	})

	t.Run("empty id is rejected locally", func(t *testing.T) {
		sess, transport, _, _ := newTestSession(t)
		if _, err := sess.GetObject(ctx, ""); !cmiserrors.IsInvalidArgument(err) {
			t.Fatalf("expected invalid argument, got %v", err)
		}
		if transport.fetchObject != 0 {
			t.Fatal("validation failure reached the transport")
		}
	})
}

func TestSessionGetObjectByPath(t *testing.T) {
	ctx := context.Background()

	t.Run("path lookups populate both indexes", func(t *testing.T) {
		sess, transport, _, docID := newTestSession(t)

		obj, err := sess.GetObjectByPath(ctx, "/docs/a.txt")
		if err != nil {
			t.Fatalf("GetObjectByPath: %v", err)
		}
		if obj.ID() != docID {
			t.Fatalf("resolved %s, want %s", obj.ID(), docID)
		}
		// Both the path and the id now hit without a round trip.
		if _, err := sess.GetObjectByPath(ctx, "/docs/a.txt"); err != nil {
			t.Fatalf("second path read: %v", err)
		}
		if _, err := sess.GetObject(ctx, docID); err != nil {
			t.Fatalf("id read: %v", err)
		}
		if transport.fetchByPath != 1 || transport.fetchObject != 0 {
			t.Fatalf("fetches: byPath=%d byID=%d", transport.fetchByPath, transport.fetchObject)
		}
	})

	t.Run("relative path is rejected", func(t *testing.T) {
		sess, _, _, _ := newTestSession(t)
		if _, err := sess.GetObjectByPath(ctx, "docs/a.txt"); !cmiserrors.IsInvalidArgument(err) {
			t.Fatalf("expected invalid argument, got %v", err)
		}
	})
}

func TestSessionExists(t *testing.T) {
	ctx := context.Background()
	sess, _, _, docID := newTestSession(t)

	t.Run("present object", func(t *testing.T) {
		ok, err := sess.ExistsObject(ctx, docID)
		if err != nil || !ok {
			t.Fatalf("ok=%v err=%v", ok, err)
		}
	})

	t.Run("absent object maps NotFound to false, nil", func(t *testing.T) {
		ok, err := sess.ExistsObject(ctx, "no-such-id")
		if err != nil || ok {
			t.Fatalf("ok=%v err=%v", ok, err)
		}
	})

	t.Run("absent path", func(t *testing.T) {
		ok, err := sess.ExistsPath(ctx, "/nope")
		if err != nil || ok {
			t.Fatalf("ok=%v err=%v", ok, err)
		}
	})
}

func TestSessionInvalidation(t *testing.T) {
	ctx := context.Background()

	t.Run("not found purges the cached identity", func(t *testing.T) {
		sess, transport, _, docID := newTestSession(t)

		if _, err := sess.GetObject(ctx, docID); err != nil {
			t.Fatalf("GetObject: %v", err)
		}
		// Delete behind the session's back, then force a miss through a
		// fresh context so the stale entry is bypassed.
		if err := transport.Transport.DeleteObject(ctx, docID, true); err != nil {
			t.Fatalf("backdoor delete: %v", err)
		}
		raw := NewOperationContext(ContextOptions{CacheEnabled: false})
		if _, err := sess.GetObject(ctx, docID, raw); !cmiserrors.IsNotFound(err) {
			t.Fatalf("expected not found, got %v", err)
		}
		// The NotFound fetch purged the cached entry under every key.
		if _, ok := sess.ObjectAge(docID); ok {
			t.Fatal("stale entry survived a NotFound fetch")
		}
	})

	t.Run("delete invalidates", func(t *testing.T) {
		sess, transport, _, docID := newTestSession(t)

		sess.GetObject(ctx, docID)
		if err := sess.Delete(ctx, docID, true); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if ok, _ := sess.ExistsObject(ctx, docID); ok {
			t.Fatal("deleted object still reported as existing")
		}
		if transport.fetchObject != 2 {
			t.Fatalf("expected a fresh fetch after delete, got %d", transport.fetchObject)
		}
	})

	t.Run("update invalidates and optionally refreshes", func(t *testing.T) {
		sess, transport, _, docID := newTestSession(t)

		obj, err := sess.GetObject(ctx, docID)
		if err != nil {
			t.Fatalf("GetObject: %v", err)
		}

		newID, refreshed, err := sess.UpdateProperties(ctx, docID, obj.ChangeToken(), nameProps("b.txt"), true)
		if err != nil {
			t.Fatalf("UpdateProperties: %v", err)
		}
		if newID != docID {
			t.Fatalf("memrepo should keep the id, got %s", newID)
		}
		if refreshed == nil || refreshed.Name() != "b.txt" {
			t.Fatalf("refresh returned %v", refreshed)
		}
		if transport.fetchObject != 2 {
			t.Fatalf("expected refresh to re-fetch, got %d fetches", transport.fetchObject)
		}

		// Without refresh only the id comes back and the next read fetches.
		_, obj2, err := sess.UpdateProperties(ctx, docID, "", nameProps("c.txt"), false)
		if err != nil {
			t.Fatalf("UpdateProperties: %v", err)
		}
		if obj2 != nil {
			t.Fatal("refresh=false must not return an object")
		}
		got, err := sess.GetObject(ctx, docID)
		if err != nil || got.Name() != "c.txt" {
			t.Fatalf("post-update read: %v %v", got, err)
		}
	})

	t.Run("stale change token conflicts", func(t *testing.T) {
		sess, _, _, docID := newTestSession(t)
		_, _, err := sess.UpdateProperties(ctx, docID, "stale-token", nameProps("x"), false)
		if !cmiserrors.IsUpdateConflict(err) {
			t.Fatalf("expected update conflict, got %v", err)
		}
	})
}

func TestSessionListings(t *testing.T) {
	ctx := context.Background()
	sess, _, folderID, docID := newTestSession(t)

	t.Run("children", func(t *testing.T) {
		kids, err := sess.GetChildren(ctx, folderID).ToSlice()
		if err != nil {
			t.Fatalf("GetChildren: %v", err)
		}
		if len(kids) != 1 || kids[0].ID() != docID {
			t.Fatalf("unexpected children: %v", kids)
		}
	})

	t.Run("root folder and descendants", func(t *testing.T) {
		root, err := sess.GetRootFolder(ctx)
		if err != nil {
			t.Fatalf("GetRootFolder: %v", err)
		}
		all, err := sess.GetDescendants(ctx, root.ID(), -1).ToSlice()
		if err != nil {
			t.Fatalf("GetDescendants: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("expected folder and document, got %d objects", len(all))
		}
	})

	t.Run("object parents", func(t *testing.T) {
		parents, err := sess.GetObjectParents(ctx, docID)
		if err != nil {
			t.Fatalf("GetObjectParents: %v", err)
		}
		if len(parents) != 1 || parents[0].ID() != folderID {
			t.Fatalf("unexpected parents: %v", parents)
		}
	})

	t.Run("folder parent of root is nil", func(t *testing.T) {
		root, _ := sess.GetRootFolder(ctx)
		parent, err := sess.GetFolderParent(ctx, root.ID())
		if err != nil || parent != nil {
			t.Fatalf("parent=%v err=%v", parent, err)
		}
	})
}

func TestSessionQueryIntegration(t *testing.T) {
	ctx := context.Background()
	sess, _, _, docID := newTestSession(t)

	t.Run("statement builder end to end", func(t *testing.T) {
		q := sess.NewQuery("SELECT * FROM ? WHERE ? = ?")
		if err := q.SetType(ctx, 1, "cmis:document"); err != nil {
			t.Fatalf("SetType: %v", err)
		}
		if err := q.SetProperty(ctx, 2, "cmis:document", "cmis:name"); err != nil {
			t.Fatalf("SetProperty: %v", err)
		}
		if err := q.SetString(3, "a.txt"); err != nil {
			t.Fatalf("SetString: %v", err)
		}

		it, err := q.Query(ctx, false)
		if err != nil {
			t.Fatalf("Query: %v", err)
		}
		rows, err := it.ToSlice()
		if err != nil {
			t.Fatalf("drain: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("expected 1 row, got %d", len(rows))
		}
		id, _ := rows[0].ByQueryName(cmis.PropertyObjectID)
		if id != docID {
			t.Fatalf("row id = %v, want %s", id, docID)
		}
	})

	t.Run("contains full-text search", func(t *testing.T) {
		folder, err := sess.GetObjectByPath(ctx, "/docs")
		if err != nil {
			t.Fatalf("resolve folder: %v", err)
		}
		if _, err := sess.CreateDocument(ctx, nameProps("notes.txt"), folder.ID(),
			contentStream("notes.txt", "quarterly planning notes"), cmis.VersioningStateMajor); err != nil {
			t.Fatalf("CreateDocument: %v", err)
		}

		q := sess.NewQuery("SELECT * FROM cmis:document WHERE CONTAINS(?)")
		if err := q.SetStringContains(1, "quarterly"); err != nil {
			t.Fatalf("SetStringContains: %v", err)
		}
		it, err := q.Query(ctx, false)
		if err != nil {
			t.Fatalf("Query: %v", err)
		}
		rows, err := it.ToSlice()
		if err != nil {
			t.Fatalf("drain: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("expected 1 row, got %d", len(rows))
		}
	})
}

func TestSessionContentAndVersioning(t *testing.T) {
	ctx := context.Background()
	sess, _, _, docID := newTestSession(t)

	t.Run("content round trip", func(t *testing.T) {
		stream, err := sess.GetContentStream(ctx, docID, "")
		if err != nil {
			t.Fatalf("GetContentStream: %v", err)
		}
		text, err := io.ReadAll(stream.Stream)
		if err != nil || string(text) != "hello world" {
			t.Fatalf("content = %q, err %v", text, err)
		}
	})

	t.Run("checkout and checkin produce a new version", func(t *testing.T) {
		pwcID, err := sess.CheckOut(ctx, docID)
		if err != nil {
			t.Fatalf("CheckOut: %v", err)
		}
		if pwcID == docID {
			t.Fatal("PWC must have its own identity")
		}

		newID, err := sess.CheckIn(ctx, pwcID, true, nil, contentStream("a.txt", "version two"), "second draft")
		if err != nil {
			t.Fatalf("CheckIn: %v", err)
		}
		obj, err := sess.GetObject(ctx, newID)
		if err != nil {
			t.Fatalf("GetObject: %v", err)
		}
		doc, ok := obj.(*Document)
		if !ok {
			t.Fatalf("expected a document, got %T", obj)
		}
		if doc.VersionLabel() != "2.0" || doc.CheckinComment() != "second draft" {
			t.Fatalf("version=%q comment=%q", doc.VersionLabel(), doc.CheckinComment())
		}
	})

	t.Run("change log reflects the session's history", func(t *testing.T) {
		events, err := sess.GetContentChanges(ctx, "", true).ToSlice()
		if err != nil {
			t.Fatalf("GetContentChanges: %v", err)
		}
		if len(events) == 0 {
			t.Fatal("expected change events")
		}
		token, err := sess.LatestChangeLogToken(ctx)
		if err != nil || token == "" {
			t.Fatalf("token=%q err=%v", token, err)
		}
		// Reading from the latest token yields nothing new.
		none, err := sess.GetContentChanges(ctx, token, false).ToSlice()
		if err != nil || len(none) != 0 {
			t.Fatalf("expected no events past the latest token, got %d", len(none))
		}
	})
}

func TestSessionClear(t *testing.T) {
	ctx := context.Background()
	sess, transport, _, docID := newTestSession(t)

	sess.GetObject(ctx, docID)
	if sess.CachedObjectCount() != 1 {
		t.Fatalf("expected 1 cached entry, got %d", sess.CachedObjectCount())
	}
	sess.Clear()
	if sess.CachedObjectCount() != 0 {
		t.Fatal("Clear left entries behind")
	}
	sess.GetObject(ctx, docID)
	if transport.fetchObject != 2 {
		t.Fatalf("expected a re-fetch after Clear, got %d", transport.fetchObject)
	}
}
