package session

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/docfabric/cmisgo/pkg/cmis"
	cmiserrors "github.com/docfabric/cmisgo/pkg/errors"
)

// timestampFormat renders datetime literals inside TIMESTAMP '...' tokens.
const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

// identifierPattern accepts type and property query names copied verbatim
// into a statement.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_:.-]*$`)

// QueryStatement renders a positional query template into a final query
// string with typed, escaped literal substitution. Placeholders are '?'
// characters outside quoted runs, 1-indexed left to right. Every placeholder
// must be bound exactly once before rendering; Set calls may arrive in any
// index order.
type QueryStatement struct {
	session  *Session
	template string
	count    int

	bindings  map[int]string
	duplicate bool
}

// NewQueryStatement parses the template and prepares it for binding. The
// session may be nil for standalone rendering; it is required for Query and
// for resolving type or property IDs into query names.
func NewQueryStatement(s *Session, template string) *QueryStatement {
	count := 0
	scanTemplate(template, func(int) string {
		count++
		return ""
	})
	return &QueryStatement{
		session:  s,
		template: template,
		count:    count,
		bindings: make(map[int]string),
	}
}

// ParameterCount returns the number of placeholders in the template.
func (q *QueryStatement) ParameterCount() int { return q.count }

// SetType binds a type's query name at the placeholder. When the statement
// has a session the type definition is resolved through it; otherwise the ID
// is taken as the query name directly.
func (q *QueryStatement) SetType(ctx context.Context, index int, typeID string) error {
	queryName := typeID
	if q.session != nil {
		def, err := q.session.GetTypeDefinition(ctx, typeID)
		if err != nil {
			return err
		}
		queryName = def.QueryName
	}
	return q.bindIdentifier(index, queryName)
}

// SetTypeDefinition binds a type's query name without any resolution.
func (q *QueryStatement) SetTypeDefinition(index int, def *cmis.TypeDefinition) error {
	if def == nil {
		return cmiserrors.NewQueryTemplateError(index, "nil type definition")
	}
	return q.bindIdentifier(index, def.QueryName)
}

// SetProperty binds a property's query name, resolved from its type
// definition when a session is present.
func (q *QueryStatement) SetProperty(ctx context.Context, index int, typeID, propertyID string) error {
	queryName := propertyID
	if q.session != nil {
		def, err := q.session.GetTypeDefinition(ctx, typeID)
		if err != nil {
			return err
		}
		propDef := def.PropertyDefinition(propertyID)
		if propDef == nil {
			return cmiserrors.NewNotFoundError("property definition", propertyID)
		}
		queryName = propDef.QueryName
	}
	return q.bindIdentifier(index, queryName)
}

// SetPropertyDefinition binds a property's query name without resolution.
func (q *QueryStatement) SetPropertyDefinition(index int, def *cmis.PropertyDefinition) error {
	if def == nil {
		return cmiserrors.NewQueryTemplateError(index, "nil property definition")
	}
	return q.bindIdentifier(index, def.QueryName)
}

// SetString binds one or more quoted, escaped string literals, comma-joined.
func (q *QueryStatement) SetString(index int, values ...string) error {
	if len(values) == 0 {
		return cmiserrors.NewInvalidLiteralError("string", values, errNoValues)
	}
	rendered := make([]string, len(values))
	for i, v := range values {
		rendered[i] = escapeLiteral(v)
	}
	return q.bind(index, strings.Join(rendered, ","))
}

// SetStringLike binds a quoted string literal for use with the LIKE
// operator. Escaping is single-level only: a backslash preceding the SQL
// wildcards '%' or '_' is preserved verbatim, since the caller controls
// those; everything else is escaped as in SetString.
func (q *QueryStatement) SetStringLike(index int, value string) error {
	return q.bind(index, escapeLike(value))
}

// SetStringContains binds a quoted full-text search expression. The value is
// nested inside a CONTAINS() predicate that is itself nested in the outer
// query grammar, so it is escaped in two discrete passes: first at the
// text-search level, then at the outer-query level. The passes must stay
// separate; fusing them changes output for inputs mixing quotes with
// pre-escaped wildcards.
func (q *QueryStatement) SetStringContains(index int, value string) error {
	return q.bind(index, "'"+escapeOuterQuery(escapeTextSearch(value))+"'")
}

// SetID binds one or more quoted object or type IDs.
func (q *QueryStatement) SetID(index int, values ...string) error {
	if len(values) == 0 {
		return cmiserrors.NewInvalidLiteralError("id", values, errNoValues)
	}
	rendered := make([]string, len(values))
	for i, v := range values {
		if v == "" {
			return cmiserrors.NewInvalidLiteralError("id", v, errEmptyValue)
		}
		rendered[i] = escapeLiteral(v)
	}
	return q.bind(index, strings.Join(rendered, ","))
}

// SetURI binds one or more quoted URI literals. Values must parse as
// absolute URIs.
func (q *QueryStatement) SetURI(index int, values ...string) error {
	if len(values) == 0 {
		return cmiserrors.NewInvalidLiteralError("uri", values, errNoValues)
	}
	rendered := make([]string, len(values))
	for i, v := range values {
		u, err := url.Parse(v)
		if err != nil {
			return cmiserrors.NewInvalidLiteralError("uri", v, err)
		}
		if !u.IsAbs() {
			return cmiserrors.NewInvalidLiteralError("uri", v, errRelativeURI)
		}
		rendered[i] = escapeLiteral(v)
	}
	return q.bind(index, strings.Join(rendered, ","))
}

// SetBoolean binds one or more TRUE/FALSE literals.
func (q *QueryStatement) SetBoolean(index int, values ...bool) error {
	if len(values) == 0 {
		return cmiserrors.NewInvalidLiteralError("boolean", values, errNoValues)
	}
	rendered := make([]string, len(values))
	for i, v := range values {
		if v {
			rendered[i] = "TRUE"
		} else {
			rendered[i] = "FALSE"
		}
	}
	return q.bind(index, strings.Join(rendered, ","))
}

// SetInteger binds one or more numeric literals.
func (q *QueryStatement) SetInteger(index int, values ...int64) error {
	if len(values) == 0 {
		return cmiserrors.NewInvalidLiteralError("integer", values, errNoValues)
	}
	rendered := make([]string, len(values))
	for i, v := range values {
		rendered[i] = strconv.FormatInt(v, 10)
	}
	return q.bind(index, strings.Join(rendered, ","))
}

// SetDecimal binds one or more decimal literals.
func (q *QueryStatement) SetDecimal(index int, values ...float64) error {
	if len(values) == 0 {
		return cmiserrors.NewInvalidLiteralError("decimal", values, errNoValues)
	}
	rendered := make([]string, len(values))
	for i, v := range values {
		rendered[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return q.bind(index, strings.Join(rendered, ","))
}

// SetDateTime binds one or more TIMESTAMP '<iso8601>' literals.
func (q *QueryStatement) SetDateTime(index int, values ...time.Time) error {
	if len(values) == 0 {
		return cmiserrors.NewInvalidLiteralError("datetime", values, errNoValues)
	}
	rendered := make([]string, len(values))
	for i, v := range values {
		rendered[i] = "TIMESTAMP '" + v.UTC().Format(timestampFormat) + "'"
	}
	return q.bind(index, strings.Join(rendered, ","))
}

// SetDateTimeTimestamp binds one or more millisecond timestamp literals.
func (q *QueryStatement) SetDateTimeTimestamp(index int, values ...time.Time) error {
	if len(values) == 0 {
		return cmiserrors.NewInvalidLiteralError("datetime", values, errNoValues)
	}
	rendered := make([]string, len(values))
	for i, v := range values {
		rendered[i] = strconv.FormatInt(v.UnixMilli(), 10)
	}
	return q.bind(index, strings.Join(rendered, ","))
}

var (
	errNoValues    = cmiserrors.New("at least one value is required")
	errEmptyValue  = cmiserrors.New("value must not be empty")
	errRelativeURI = cmiserrors.New("URI must be absolute")
)

func (q *QueryStatement) bindIdentifier(index int, name string) error {
	if !identifierPattern.MatchString(name) {
		return cmiserrors.NewInvalidLiteralError("identifier", name, errBadIdentifier)
	}
	return q.bind(index, name)
}

var errBadIdentifier = cmiserrors.New("not a valid query name")

func (q *QueryStatement) bind(index int, fragment string) error {
	if index < 1 || index > q.count {
		return cmiserrors.NewQueryTemplateError(index, "index outside template range")
	}
	if _, bound := q.bindings[index]; bound {
		// Poison the statement so rendering fails even when this error
		// is ignored by the caller.
		q.duplicate = true
		return cmiserrors.NewQueryTemplateError(index, "bound more than once")
	}
	q.bindings[index] = fragment
	return nil
}

// ToQueryString renders the template with every binding substituted. It is
// pure: it may be called repeatedly and never mutates the statement. Every
// placeholder must have been bound exactly once.
func (q *QueryStatement) ToQueryString() (string, error) {
	if q.duplicate {
		return "", cmiserrors.NewQueryTemplateError(0, "a parameter was bound more than once")
	}
	var unbound int
	rendered := scanTemplate(q.template, func(n int) string {
		frag, ok := q.bindings[n]
		if !ok {
			if unbound == 0 {
				unbound = n
			}
			return "?"
		}
		return frag
	})
	if unbound != 0 {
		return "", cmiserrors.NewQueryTemplateError(unbound, "parameter not bound")
	}
	return rendered, nil
}

// Query renders the statement and executes it through the session, returning
// a lazy enumerator over the results.
func (q *QueryStatement) Query(ctx context.Context, searchAllVersions bool, opctx ...*OperationContext) (*ItemIterable[*QueryResult], error) {
	if q.session == nil {
		return nil, cmiserrors.New("statement is not attached to a session")
	}
	stmt, err := q.ToQueryString()
	if err != nil {
		return nil, err
	}
	return q.session.Query(ctx, stmt, searchAllVersions, opctx...), nil
}

// scanTemplate walks the template, calling onPlaceholder with the 1-based
// index of every '?' outside a quoted run and splicing its return value into
// the output. A quote escaped with a backslash inside a quoted run does not
// terminate it.
func scanTemplate(template string, onPlaceholder func(n int) string) string {
	var b strings.Builder
	inStr := false
	n := 0
	for i := 0; i < len(template); i++ {
		c := template[i]
		switch {
		case c == '\'':
			if !inStr || i == 0 || template[i-1] != '\\' {
				inStr = !inStr
			}
			b.WriteByte(c)
		case c == '?' && !inStr:
			n++
			b.WriteString(onPlaceholder(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// escapeLiteral renders a quoted string literal: quotes and backslashes are
// escaped with a backslash.
func escapeLiteral(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\'' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte('\'')
	return b.String()
}

// escapeLike renders a quoted string literal for LIKE: a backslash directly
// before '%' or '_' stays single, because those are wildcards under the
// caller's control; any other backslash is doubled and quotes are escaped.
func escapeLike(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\'':
			b.WriteString("\\'")
		case '\\':
			if i+1 < len(s) && (s[i+1] == '%' || s[i+1] == '_') {
				b.WriteByte(c)
			} else {
				b.WriteString("\\\\")
			}
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// escapeTextSearch is the first CONTAINS pass, at the text-search level:
// quotes and bare backslashes are escaped, while the search operators '*',
// '?' and '-' pass through, and a caller's pre-escape of one of them
// (\*, \?, \-) is preserved as-is.
func escapeTextSearch(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			if i+1 < len(s) && (s[i+1] == '*' || s[i+1] == '?' || s[i+1] == '-') {
				b.WriteByte('\\')
				b.WriteByte(s[i+1])
				i++
			} else {
				b.WriteString("\\\\")
			}
		case '\'', '"':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// escapeOuterQuery is the second CONTAINS pass, at the outer query level:
// every escape sequence produced by the first pass gets one more backslash
// in front (\x -> \\x), and any remaining bare quote or '-' is escaped.
func escapeOuterQuery(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			b.WriteString("\\\\")
			if i+1 < len(s) {
				b.WriteByte(s[i+1])
				i++
			}
		case c == '\'' || c == '"' || c == '-':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
