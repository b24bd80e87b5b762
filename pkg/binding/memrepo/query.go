package memrepo

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/docfabric/cmisgo/pkg/binding"
	"github.com/docfabric/cmisgo/pkg/cmis"
	cmiserrors "github.com/docfabric/cmisgo/pkg/errors"
)

// The evaluator answers the statement subset the session's query builder
// emits: SELECT over one type, conjunctive WHERE with =, <>, LIKE,
// CONTAINS(), IN_FOLDER() and IN_TREE(), and a single ORDER BY key.

type selectItem struct {
	name  string
	alias string
}

type condKind int

const (
	condEq condKind = iota
	condNeq
	condLike
	condContains
	condInFolder
	condInTree
)

type condition struct {
	kind  condKind
	prop  string
	value string
}

type parsedQuery struct {
	selects   []selectItem // nil means SELECT *
	typeQuery string
	conds     []condition
	orderBy   string
	orderDesc bool
}

func (r *Repository) FetchQueryPage(ctx context.Context, statement string, searchAllVersions bool, skip, max int64, p binding.FetchParams) (*binding.Page, error) {
	q, err := parseQuery(statement)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	typeIDs, err := r.queryableTypes(q.typeQuery)
	if err != nil {
		return nil, err
	}

	var hits []*storedObject
	for _, obj := range r.objects {
		if _, ok := typeIDs[obj.typeID]; !ok {
			continue
		}
		if obj.pwcOf != "" && !searchAllVersions {
			continue
		}
		match, err := r.matches(obj, q.conds)
		if err != nil {
			return nil, err
		}
		if match {
			hits = append(hits, obj)
		}
	}

	if q.orderBy != "" {
		sort.SliceStable(hits, func(i, j int) bool {
			a := r.propertyString(hits[i], q.orderBy)
			b := r.propertyString(hits[j], q.orderBy)
			if q.orderDesc {
				return a > b
			}
			return a < b
		})
	} else {
		sortByName(hits)
	}

	page, hasMore, total := paginate(hits, skip, max)
	out := make([]*cmis.ObjectData, 0, len(page))
	for _, obj := range page {
		out = append(out, r.projectRow(obj, q.selects, p))
	}
	return &binding.Page{Objects: out, HasMoreItems: &hasMore, NumItems: &total}, nil
}

// queryableTypes resolves a type query name to the set of type IDs it covers,
// including descendant types.
func (r *Repository) queryableTypes(queryName string) (map[string]struct{}, error) {
	var rootID string
	for id, def := range r.types {
		if def.QueryName == queryName || id == queryName {
			rootID = id
			break
		}
	}
	if rootID == "" {
		return nil, cmiserrors.NewInvalidArgument("unknown type in FROM clause: " + queryName)
	}

	covered := map[string]struct{}{rootID: {}}
	for changed := true; changed; {
		changed = false
		for id, def := range r.types {
			if _, ok := covered[id]; ok {
				continue
			}
			if _, ok := covered[def.ParentTypeID]; ok {
				covered[id] = struct{}{}
				changed = true
			}
		}
	}
	return covered, nil
}

// projectRow builds a result row limited to the select list.
func (r *Repository) projectRow(obj *storedObject, selects []selectItem, p binding.FetchParams) *cmis.ObjectData {
	data := r.project(obj, binding.FetchParams{
		IncludeAllowableActions: p.IncludeAllowableActions,
		IncludeACLs:             p.IncludeACLs,
		IncludeRelationships:    p.IncludeRelationships,
		IncludePolicyIDs:        p.IncludePolicyIDs,
	})
	if len(selects) == 0 {
		return data
	}

	row := make(cmis.Properties, len(selects))
	for _, sel := range selects {
		prop := data.Properties.Get(sel.name)
		if prop == nil {
			continue
		}
		cp := *prop
		if sel.alias != "" {
			cp.QueryName = sel.alias
		}
		row[sel.name] = &cp
	}
	data.Properties = row
	return data
}

func (r *Repository) matches(obj *storedObject, conds []condition) (bool, error) {
	for _, c := range conds {
		ok, err := r.matchCondition(obj, c)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (r *Repository) matchCondition(obj *storedObject, c condition) (bool, error) {
	switch c.kind {
	case condEq:
		return r.propertyString(obj, c.prop) == unescapeQL(c.value), nil
	case condNeq:
		return r.propertyString(obj, c.prop) != unescapeQL(c.value), nil
	case condLike:
		return likeMatch(c.value, r.propertyString(obj, c.prop)), nil
	case condContains:
		return r.containsMatch(obj, c.value), nil
	case condInFolder:
		return obj.parentID == unescapeQL(c.value), nil
	case condInTree:
		folderID := unescapeQL(c.value)
		for cur := obj; cur != nil && cur.parentID != ""; cur = r.objects[cur.parentID] {
			if cur.parentID == folderID {
				return true, nil
			}
		}
		return false, nil
	}
	return false, cmiserrors.New("unreachable condition kind")
}

// unescapeQL undoes query-level string escaping: a backslash makes the next
// character literal.
func unescapeQL(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// likeMatch evaluates a SQL LIKE pattern. '%' and '_' are wildcards unless
// preceded by a backslash; a backslash makes any next character literal.
func likeMatch(pattern, s string) bool {
	return likeMatchAt(pattern, s)
}

func likeMatchAt(pattern, s string) bool {
	if pattern == "" {
		return s == ""
	}
	switch pattern[0] {
	case '%':
		for i := 0; i <= len(s); i++ {
			if likeMatchAt(pattern[1:], s[i:]) {
				return true
			}
		}
		return false
	case '_':
		return s != "" && likeMatchAt(pattern[1:], s[1:])
	case '\\':
		if len(pattern) < 2 {
			return false
		}
		return s != "" && s[0] == pattern[1] && likeMatchAt(pattern[2:], s[1:])
	default:
		return s != "" && s[0] == pattern[0] && likeMatchAt(pattern[1:], s[1:])
	}
}

// containsMatch evaluates a full-text expression against an object's string
// properties and content. The expression arrives with both escaping levels
// applied; the query level is undone first, then text-search escapes are
// honored while splitting terms. Every term must match somewhere
// (conjunctive).
func (r *Repository) containsMatch(obj *storedObject, expr string) bool {
	text := r.fulltextOf(obj)
	for _, term := range splitTerms(unescapeQL(expr)) {
		if !termMatch(term, text) {
			return false
		}
	}
	return true
}

func (r *Repository) fulltextOf(obj *storedObject) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(obj.name))
	for _, p := range obj.props {
		for _, v := range p.Values {
			if s, ok := v.(string); ok {
				b.WriteByte(' ')
				b.WriteString(strings.ToLower(s))
			}
		}
	}
	if obj.content != nil {
		b.WriteByte(' ')
		b.WriteString(strings.ToLower(string(obj.content)))
	}
	return b.String()
}

// term is one text-search token with its backslash escapes still in place.
type term struct {
	text    string
	negated bool
}

func splitTerms(expr string) []term {
	var terms []term
	var cur strings.Builder
	negated := false
	flush := func() {
		if cur.Len() > 0 {
			terms = append(terms, term{text: cur.String(), negated: negated})
			cur.Reset()
		}
		negated = false
	}
	for i := 0; i < len(expr); i++ {
		switch c := expr[i]; c {
		case ' ', '\t', '\n':
			flush()
		case '-':
			if cur.Len() == 0 {
				negated = true
			} else {
				cur.WriteByte(c)
			}
		case '\\':
			if i+1 < len(expr) {
				cur.WriteByte('\\')
				i++
				cur.WriteByte(expr[i])
			}
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return terms
}

// termMatch treats unescaped '*' as any-run and '?' as any-char inside a
// term, matching anywhere in the text.
func termMatch(t term, text string) bool {
	pattern := strings.ToLower(t.text)
	hit := wildcardFind(pattern, text)
	if t.negated {
		return !hit
	}
	return hit
}

func wildcardFind(pattern, text string) bool {
	for i := 0; i <= len(text); i++ {
		if wildcardAt(pattern, text[i:]) {
			return true
		}
	}
	return false
}

func wildcardAt(pattern, s string) bool {
	if pattern == "" {
		return true
	}
	switch pattern[0] {
	case '*':
		for i := 0; i <= len(s); i++ {
			if wildcardAt(pattern[1:], s[i:]) {
				return true
			}
		}
		return false
	case '?':
		return s != "" && wildcardAt(pattern[1:], s[1:])
	case '\\':
		if len(pattern) < 2 {
			return false
		}
		return s != "" && s[0] == pattern[1] && wildcardAt(pattern[2:], s[1:])
	default:
		return s != "" && s[0] == pattern[0] && wildcardAt(pattern[1:], s[1:])
	}
}

// --- statement parsing ---

type tokenKind int

const (
	tokWord tokenKind = iota
	tokString
	tokNumber
	tokSymbol
)

type token struct {
	kind tokenKind
	text string
}

func tokenize(statement string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(statement) {
		c := statement[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '\'':
			i++
			var b strings.Builder
			closed := false
			for i < len(statement) {
				if statement[i] == '\\' && i+1 < len(statement) {
					b.WriteByte('\\')
					b.WriteByte(statement[i+1])
					i += 2
					continue
				}
				if statement[i] == '\'' {
					closed = true
					i++
					break
				}
				b.WriteByte(statement[i])
				i++
			}
			if !closed {
				return nil, cmiserrors.NewInvalidArgument("unterminated string literal")
			}
			toks = append(toks, token{kind: tokString, text: b.String()})
		case c == '=' || c == '(' || c == ')' || c == ',' || c == '*':
			toks = append(toks, token{kind: tokSymbol, text: string(c)})
			i++
		case c == '<':
			if i+1 < len(statement) && statement[i+1] == '>' {
				toks = append(toks, token{kind: tokSymbol, text: "<>"})
				i += 2
			} else {
				return nil, cmiserrors.NewInvalidArgument("unsupported operator '<'")
			}
		case c >= '0' && c <= '9' || c == '-' && i+1 < len(statement) && statement[i+1] >= '0' && statement[i+1] <= '9':
			start := i
			i++
			for i < len(statement) && (statement[i] >= '0' && statement[i] <= '9' || statement[i] == '.') {
				i++
			}
			toks = append(toks, token{kind: tokNumber, text: statement[start:i]})
		default:
			start := i
			for i < len(statement) && !strings.ContainsRune(" \t\n\r'=(),*<", rune(statement[i])) {
				i++
			}
			if i == start {
				return nil, cmiserrors.NewInvalidArgument(fmt.Sprintf("unexpected character %q in statement", c))
			}
			toks = append(toks, token{kind: tokWord, text: statement[start:i]})
		}
	}
	return toks, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) next() (token, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}
	return t, ok
}

func (p *parser) expectWord(word string) error {
	t, ok := p.next()
	if !ok || t.kind != tokWord || !strings.EqualFold(t.text, word) {
		return cmiserrors.NewInvalidArgument("expected " + word + " in statement")
	}
	return nil
}

func (p *parser) expectSymbol(sym string) error {
	t, ok := p.next()
	if !ok || t.kind != tokSymbol || t.text != sym {
		return cmiserrors.NewInvalidArgument("expected '" + sym + "' in statement")
	}
	return nil
}

func parseQuery(statement string) (*parsedQuery, error) {
	toks, err := tokenize(statement)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	q := &parsedQuery{}

	if err := p.expectWord("SELECT"); err != nil {
		return nil, err
	}
	if t, ok := p.peek(); ok && t.kind == tokSymbol && t.text == "*" {
		p.next()
	} else {
		for {
			t, ok := p.next()
			if !ok || t.kind != tokWord {
				return nil, cmiserrors.NewInvalidArgument("malformed select list")
			}
			item := selectItem{name: t.text}
			if nxt, ok := p.peek(); ok && nxt.kind == tokWord && strings.EqualFold(nxt.text, "AS") {
				p.next()
				alias, ok := p.next()
				if !ok || alias.kind != tokWord {
					return nil, cmiserrors.NewInvalidArgument("malformed select alias")
				}
				item.alias = alias.text
			}
			q.selects = append(q.selects, item)
			if nxt, ok := p.peek(); ok && nxt.kind == tokSymbol && nxt.text == "," {
				p.next()
				continue
			}
			break
		}
	}

	if err := p.expectWord("FROM"); err != nil {
		return nil, err
	}
	t, ok := p.next()
	if !ok || t.kind != tokWord {
		return nil, cmiserrors.NewInvalidArgument("malformed FROM clause")
	}
	q.typeQuery = t.text

	if t, ok := p.peek(); ok && t.kind == tokWord && strings.EqualFold(t.text, "WHERE") {
		p.next()
		for {
			cond, err := parseCondition(p)
			if err != nil {
				return nil, err
			}
			q.conds = append(q.conds, cond)
			if t, ok := p.peek(); ok && t.kind == tokWord && strings.EqualFold(t.text, "AND") {
				p.next()
				continue
			}
			break
		}
	}

	if t, ok := p.peek(); ok && t.kind == tokWord && strings.EqualFold(t.text, "ORDER") {
		p.next()
		if err := p.expectWord("BY"); err != nil {
			return nil, err
		}
		key, ok := p.next()
		if !ok || key.kind != tokWord {
			return nil, cmiserrors.NewInvalidArgument("malformed ORDER BY clause")
		}
		q.orderBy = key.text
		if t, ok := p.peek(); ok && t.kind == tokWord {
			switch {
			case strings.EqualFold(t.text, "DESC"):
				q.orderDesc = true
				p.next()
			case strings.EqualFold(t.text, "ASC"):
				p.next()
			}
		}
	}

	if t, ok := p.peek(); ok {
		return nil, cmiserrors.NewInvalidArgument("unexpected trailing token: " + t.text)
	}
	return q, nil
}

func parseCondition(p *parser) (condition, error) {
	t, ok := p.next()
	if !ok || t.kind != tokWord {
		return condition{}, cmiserrors.NewInvalidArgument("malformed WHERE condition")
	}

	switch {
	case strings.EqualFold(t.text, "CONTAINS"):
		value, err := parseCallArg(p)
		return condition{kind: condContains, value: value}, err
	case strings.EqualFold(t.text, "IN_FOLDER"):
		value, err := parseCallArg(p)
		return condition{kind: condInFolder, value: value}, err
	case strings.EqualFold(t.text, "IN_TREE"):
		value, err := parseCallArg(p)
		return condition{kind: condInTree, value: value}, err
	}

	prop := t.text
	op, ok := p.next()
	if !ok {
		return condition{}, cmiserrors.NewInvalidArgument("condition missing operator")
	}
	if op.kind == tokWord && strings.EqualFold(op.text, "LIKE") {
		val, ok := p.next()
		if !ok || val.kind != tokString {
			return condition{}, cmiserrors.NewInvalidArgument("LIKE needs a string pattern")
		}
		return condition{kind: condLike, prop: prop, value: val.text}, nil
	}
	if op.kind != tokSymbol || (op.text != "=" && op.text != "<>") {
		return condition{}, cmiserrors.NewInvalidArgument("unsupported operator: " + op.text)
	}

	val, ok := p.next()
	if !ok {
		return condition{}, cmiserrors.NewInvalidArgument("condition missing value")
	}
	var text string
	switch val.kind {
	case tokString:
		text = val.text
	case tokNumber:
		text = val.text
	case tokWord:
		switch {
		case strings.EqualFold(val.text, "TRUE"):
			text = "true"
		case strings.EqualFold(val.text, "FALSE"):
			text = "false"
		case strings.EqualFold(val.text, "TIMESTAMP"):
			ts, ok := p.next()
			if !ok || ts.kind != tokString {
				return condition{}, cmiserrors.NewInvalidArgument("TIMESTAMP needs a string literal")
			}
			text = ts.text
		default:
			return condition{}, cmiserrors.NewInvalidArgument("unsupported literal: " + val.text)
		}
	default:
		return condition{}, cmiserrors.NewInvalidArgument("unsupported literal")
	}

	kind := condEq
	if op.text == "<>" {
		kind = condNeq
	}
	return condition{kind: kind, prop: prop, value: text}, nil
}

func parseCallArg(p *parser) (string, error) {
	if err := p.expectSymbol("("); err != nil {
		return "", err
	}
	arg, ok := p.next()
	if !ok || arg.kind != tokString {
		return "", cmiserrors.NewInvalidArgument("function argument must be a string literal")
	}
	if err := p.expectSymbol(")"); err != nil {
		return "", err
	}
	return arg.text, nil
}

// propertyValue returns a comparable string form for non-string properties
// too, so numeric and boolean equality work through propertyString.
func formatScalar(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
