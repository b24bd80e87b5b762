package session

import (
	"context"
	"strings"
	"testing"
	"time"

	cmiserrors "github.com/docfabric/cmisgo/pkg/errors"
)

func mustRender(t *testing.T, q *QueryStatement) string {
	t.Helper()
	out, err := q.ToQueryString()
	if err != nil {
		t.Fatalf("ToQueryString failed: %v", err)
	}
	return out
}

func TestQueryStatementPlaceholders(t *testing.T) {
	t.Run("counts placeholders outside quotes", func(t *testing.T) {
		q := NewQueryStatement(nil, "SELECT * FROM ? WHERE ? = ?")
		if q.ParameterCount() != 3 {
			t.Fatalf("expected 3 placeholders, got %d", q.ParameterCount())
		}
	})

	t.Run("question mark inside a string literal is not a placeholder", func(t *testing.T) {
		q := NewQueryStatement(nil, "SELECT * FROM cmis:document WHERE cmis:name = 'what?'")
		if q.ParameterCount() != 0 {
			t.Fatalf("expected 0 placeholders, got %d", q.ParameterCount())
		}
		out := mustRender(t, q)
		if out != "SELECT * FROM cmis:document WHERE cmis:name = 'what?'" {
			t.Fatalf("template was altered: %q", out)
		}
	})

	t.Run("escaped quote does not terminate a literal", func(t *testing.T) {
		q := NewQueryStatement(nil, `SELECT * FROM t WHERE a = 'it\'s ?' AND b = ?`)
		if q.ParameterCount() != 1 {
			t.Fatalf("expected 1 placeholder, got %d", q.ParameterCount())
		}
	})
}

func TestQueryStatementBinding(t *testing.T) {
	ctx := context.Background()

	t.Run("full render with type, property and string", func(t *testing.T) {
		q := NewQueryStatement(nil, "SELECT * FROM ? WHERE ? = ?")
		if err := q.SetType(ctx, 1, "cmis:document"); err != nil {
			t.Fatalf("SetType: %v", err)
		}
		if err := q.SetProperty(ctx, 2, "cmis:document", "cmis:name"); err != nil {
			t.Fatalf("SetProperty: %v", err)
		}
		if err := q.SetString(3, "bob"); err != nil {
			t.Fatalf("SetString: %v", err)
		}
		out := mustRender(t, q)
		want := "SELECT * FROM cmis:document WHERE cmis:name = 'bob'"
		if out != want {
			t.Fatalf("got %q, want %q", out, want)
		}
	})

	t.Run("bindings may arrive in any order", func(t *testing.T) {
		q := NewQueryStatement(nil, "SELECT * FROM ? WHERE x = ?")
		if err := q.SetString(2, "v"); err != nil {
			t.Fatalf("SetString: %v", err)
		}
		if err := q.SetType(ctx, 1, "cmis:folder"); err != nil {
			t.Fatalf("SetType: %v", err)
		}
		out := mustRender(t, q)
		if out != "SELECT * FROM cmis:folder WHERE x = 'v'" {
			t.Fatalf("unexpected render: %q", out)
		}
	})

	t.Run("unbound placeholder fails rendering", func(t *testing.T) {
		q := NewQueryStatement(nil, "SELECT * FROM ? WHERE x = ?")
		if err := q.SetType(ctx, 1, "cmis:document"); err != nil {
			t.Fatalf("SetType: %v", err)
		}
		_, err := q.ToQueryString()
		if !cmiserrors.IsQueryTemplate(err) {
			t.Fatalf("expected a query template error, got %v", err)
		}
	})

	t.Run("out of range index", func(t *testing.T) {
		q := NewQueryStatement(nil, "SELECT * FROM t WHERE x = ?")
		if err := q.SetString(2, "v"); !cmiserrors.IsQueryTemplate(err) {
			t.Fatalf("expected a query template error, got %v", err)
		}
		if err := q.SetString(0, "v"); !cmiserrors.IsQueryTemplate(err) {
			t.Fatalf("expected a query template error, got %v", err)
		}
	})

	t.Run("double binding poisons the statement", func(t *testing.T) {
		q := NewQueryStatement(nil, "SELECT * FROM t WHERE x = ?")
		if err := q.SetString(1, "a"); err != nil {
			t.Fatalf("first bind: %v", err)
		}
		if err := q.SetString(1, "b"); !cmiserrors.IsQueryTemplate(err) {
			t.Fatalf("expected a query template error, got %v", err)
		}
		// Rendering must fail even though the second bind's error was
		// discarded above.
		if _, err := q.ToQueryString(); !cmiserrors.IsQueryTemplate(err) {
			t.Fatalf("expected rendering to fail, got %v", err)
		}
	})

	t.Run("rendering is repeatable", func(t *testing.T) {
		q := NewQueryStatement(nil, "SELECT * FROM t WHERE x = ?")
		if err := q.SetInteger(1, 7); err != nil {
			t.Fatalf("SetInteger: %v", err)
		}
		first := mustRender(t, q)
		second := mustRender(t, q)
		if first != second {
			t.Fatalf("renders differ: %q vs %q", first, second)
		}
	})

	t.Run("invalid identifier is rejected", func(t *testing.T) {
		q := NewQueryStatement(nil, "SELECT * FROM ?")
		err := q.SetType(ctx, 1, "bad name; DROP")
		if !cmiserrors.IsInvalidLiteral(err) {
			t.Fatalf("expected an invalid literal error, got %v", err)
		}
	})
}

func TestQueryStatementLiterals(t *testing.T) {
	t.Run("string quote escaping", func(t *testing.T) {
		q := NewQueryStatement(nil, "? ")
		if err := q.SetString(1, "bob's file"); err != nil {
			t.Fatalf("SetString: %v", err)
		}
		out := mustRender(t, q)
		if !strings.HasPrefix(out, `'bob\'s file'`) {
			t.Fatalf("unexpected literal: %q", out)
		}
	})

	t.Run("plain string doubles a backslash that like preserves", func(t *testing.T) {
		eq := NewQueryStatement(nil, "?")
		if err := eq.SetString(1, `100\%`); err != nil {
			t.Fatalf("SetString: %v", err)
		}
		if got := mustRender(t, eq); got != `'100\\%'` {
			t.Fatalf("SetString rendered %q, want %q", got, `'100\\%'`)
		}

		like := NewQueryStatement(nil, "?")
		if err := like.SetStringLike(1, `100\%`); err != nil {
			t.Fatalf("SetStringLike: %v", err)
		}
		if got := mustRender(t, like); got != `'100\%'` {
			t.Fatalf("SetStringLike rendered %q, want %q", got, `'100\%'`)
		}
	})

	t.Run("multi-value literals join with commas", func(t *testing.T) {
		q := NewQueryStatement(nil, "x IN (?)")
		if err := q.SetString(1, "a", "b"); err != nil {
			t.Fatalf("SetString: %v", err)
		}
		if got := mustRender(t, q); got != "x IN ('a','b')" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("booleans and integers", func(t *testing.T) {
		q := NewQueryStatement(nil, "a = ? AND b = ?")
		if err := q.SetBoolean(1, true); err != nil {
			t.Fatalf("SetBoolean: %v", err)
		}
		if err := q.SetInteger(2, -42); err != nil {
			t.Fatalf("SetInteger: %v", err)
		}
		if got := mustRender(t, q); got != "a = TRUE AND b = -42" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("datetime renders a TIMESTAMP literal in UTC", func(t *testing.T) {
		q := NewQueryStatement(nil, "d > ?")
		loc := time.FixedZone("X", 3600)
		when := time.Date(2024, 3, 5, 13, 30, 45, 120e6, loc)
		if err := q.SetDateTime(1, when); err != nil {
			t.Fatalf("SetDateTime: %v", err)
		}
		if got := mustRender(t, q); got != "d > TIMESTAMP '2024-03-05T12:30:45.120Z'" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("datetime as millisecond timestamp", func(t *testing.T) {
		q := NewQueryStatement(nil, "d > ?")
		when := time.UnixMilli(1700000000123).UTC()
		if err := q.SetDateTimeTimestamp(1, when); err != nil {
			t.Fatalf("SetDateTimeTimestamp: %v", err)
		}
		if got := mustRender(t, q); got != "d > 1700000000123" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("relative URI is rejected", func(t *testing.T) {
		q := NewQueryStatement(nil, "u = ?")
		if err := q.SetURI(1, "docs/readme"); !cmiserrors.IsInvalidLiteral(err) {
			t.Fatalf("expected an invalid literal error, got %v", err)
		}
		if err := q.SetURI(1, "https://example.com/docs"); err != nil {
			t.Fatalf("absolute URI rejected: %v", err)
		}
	})

	t.Run("empty id is rejected", func(t *testing.T) {
		q := NewQueryStatement(nil, "x = ?")
		if err := q.SetID(1, ""); !cmiserrors.IsInvalidLiteral(err) {
			t.Fatalf("expected an invalid literal error, got %v", err)
		}
	})

	t.Run("empty value lists are rejected", func(t *testing.T) {
		q := NewQueryStatement(nil, "x = ?")
		if err := q.SetString(1); !cmiserrors.IsInvalidLiteral(err) {
			t.Fatalf("expected an invalid literal error, got %v", err)
		}
	})
}

func TestContainsEscaping(t *testing.T) {
	t.Run("two discrete passes", func(t *testing.T) {
		input := `bob's \*file`

		level1 := escapeTextSearch(input)
		if level1 != `bob\'s \*file` {
			t.Fatalf("text-search pass produced %q", level1)
		}
		level2 := escapeOuterQuery(level1)
		if level2 != `bob\\'s \\*file` {
			t.Fatalf("outer-query pass produced %q", level2)
		}
	})

	t.Run("bound contains literal", func(t *testing.T) {
		q := NewQueryStatement(nil, "CONTAINS(?)")
		if err := q.SetStringContains(1, `bob's \*file`); err != nil {
			t.Fatalf("SetStringContains: %v", err)
		}
		if got := mustRender(t, q); got != `CONTAINS('bob\\'s \\*file')` {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("bare wildcard passes both levels untouched", func(t *testing.T) {
		if got := escapeOuterQuery(escapeTextSearch("rep*")); got != "rep*" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("bare backslash is escaped at both levels", func(t *testing.T) {
		// Text-search turns \ into \\; the outer pass treats that \\ as
		// one escape sequence and prefixes a single extra backslash.
		if got := escapeOuterQuery(escapeTextSearch(`a\b`)); got != `a\\\b` {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("hyphen is escaped at the outer level only", func(t *testing.T) {
		if got := escapeOuterQuery(escapeTextSearch("well-known")); got != `well\-known` {
			t.Fatalf("got %q", got)
		}
	})
}
