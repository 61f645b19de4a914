// Package schema decides which physical schema a statement must target
// while the monolith's flat layout and the per-service layout coexist.
//
// During the staged migration every logical domain (users, orders) has two
// homes: the legacy tables on the default search path, which remain the
// source of truth, and the new per-service schemas (users_schema,
// orders_schema) that mutations are mirrored into. The Router owns that
// mapping. It is built once at startup from an immutable Mapping value and
// is never re-read from the environment inside call paths.
//
// Rewriting is a token-level operation on table references, not a free-form
// regex substitution: a reference that is already schema-qualified is left
// alone, which makes Rewrite idempotent.
package schema

import "strings"

// Domain is a logical data domain owned by one service.
type Domain string

// Known domains.
const (
	DomainUsers  Domain = "users"
	DomainOrders Domain = "orders"
)

// tableDomains maps bare table names to the domain that owns them.
var tableDomains = map[string]Domain{
	"users":       DomainUsers,
	"orders":      DomainOrders,
	"order_items": DomainOrders,
}

// schemaNames maps a domain to its new per-service schema.
var schemaNames = map[Domain]string{
	DomainUsers:  "users_schema",
	DomainOrders: "orders_schema",
}

// tableKeywords are the SQL keywords a bare table reference can follow.
var tableKeywords = map[string]struct{}{
	"FROM":   {},
	"JOIN":   {},
	"INTO":   {},
	"UPDATE": {},
}

// Mapping is the process-wide schema selection, read once from
// configuration at startup and immutable afterwards.
type Mapping struct {
	// UseNewSchema routes rewritten statements at the per-service
	// schemas instead of the default search path.
	UseNewSchema bool
}

// Router resolves logical domains to physical schemas and rewrites SQL
// accordingly. The zero value routes everything to the default schema.
type Router struct {
	mapping Mapping
}

// NewRouter returns a Router for the given mapping.
func NewRouter(m Mapping) *Router {
	return &Router{mapping: m}
}

// Enabled reports whether the new per-service schemas are active.
func (r *Router) Enabled() bool { return r.mapping.UseNewSchema }

// Resolve returns the physical schema for a domain. The empty string means
// the default schema: statements stay unqualified and follow the
// connection search path (public on Postgres).
func (r *Router) Resolve(d Domain) string {
	if !r.mapping.UseNewSchema {
		return ""
	}
	return schemaNames[d]
}

// Qualify returns the table reference for table under domain d:
// "schema.table" when the new schemas are active, the bare name otherwise.
func (r *Router) Qualify(d Domain, table string) string {
	if s := r.Resolve(d); s != "" {
		return s + "." + table
	}
	return table
}

// DetectDomain inspects a raw SQL statement for table references following
// FROM, JOIN, INTO, or UPDATE (case-insensitive) and maps the first known
// table to its domain. Unknown tables leave the domain undefined.
func (r *Router) DetectDomain(sqlText string) (Domain, bool) {
	prevKeyword := false
	for _, tok := range tokens(sqlText) {
		if prevKeyword {
			name := tok
			if i := strings.LastIndexByte(tok, '.'); i >= 0 {
				name = tok[i+1:]
			}
			if d, ok := tableDomains[strings.ToLower(name)]; ok {
				return d, true
			}
		}
		_, prevKeyword = tableKeywords[strings.ToUpper(tok)]
	}
	return "", false
}

// Rewrite qualifies every reference to d's tables in sqlText with the
// schema Resolve(d) selects. Two reference shapes are rewritten: a bare
// table name directly after FROM/JOIN/INTO/UPDATE, and a dotted
// table.column prefix. Already-qualified references are untouched, so
// Rewrite(Rewrite(s, d), d) == Rewrite(s, d). When the new schemas are
// inactive (or d is unknown) the statement passes through unmodified.
func (r *Router) Rewrite(sqlText string, d Domain) string {
	schemaName := r.Resolve(d)
	if schemaName == "" {
		return sqlText
	}

	var b strings.Builder
	b.Grow(len(sqlText) + 2*len(schemaName))

	prevKeyword := false
	inQuote := false
	i := 0
	for i < len(sqlText) {
		c := sqlText[i]

		// String literals are copied untouched.
		if c == '\'' {
			inQuote = !inQuote
		}
		if inQuote || !isWordByte(c) {
			b.WriteByte(c)
			i++
			continue
		}

		start := i
		for i < len(sqlText) && isWordByte(sqlText[i]) {
			i++
		}
		tok := sqlText[start:i]
		b.WriteString(r.rewriteToken(tok, d, schemaName, prevKeyword))
		_, prevKeyword = tableKeywords[strings.ToUpper(tok)]
	}
	return b.String()
}

// RewriteAuto detects the statement's domain and rewrites it. Statements
// referencing no known table pass through unmodified.
func (r *Router) RewriteAuto(sqlText string) string {
	d, ok := r.DetectDomain(sqlText)
	if !ok {
		return sqlText
	}
	return r.Rewrite(sqlText, d)
}

// rewriteToken qualifies a single identifier token where applicable.
func (r *Router) rewriteToken(tok string, d Domain, schemaName string, afterKeyword bool) string {
	if dot := strings.IndexByte(tok, '.'); dot > 0 {
		// table.column reference; a schema-qualified token has an
		// unknown first segment and stays as-is.
		head := tok[:dot]
		if tableDomains[strings.ToLower(head)] == d {
			return schemaName + "." + tok
		}
		return tok
	}
	if afterKeyword && tableDomains[strings.ToLower(tok)] == d {
		return schemaName + "." + tok
	}
	return tok
}

// isWordByte reports whether c can appear in an identifier token,
// including the '.' of qualified references.
func isWordByte(c byte) bool {
	return c == '_' || c == '.' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// tokens returns the identifier tokens of sqlText in order, skipping
// string literals.
func tokens(sqlText string) []string {
	var out []string
	inQuote := false
	i := 0
	for i < len(sqlText) {
		c := sqlText[i]
		if c == '\'' {
			inQuote = !inQuote
		}
		if inQuote || !isWordByte(c) {
			i++
			continue
		}
		start := i
		for i < len(sqlText) && isWordByte(sqlText[i]) {
			i++
		}
		out = append(out, sqlText[start:i])
	}
	return out
}
