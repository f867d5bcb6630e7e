/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package orm

import (
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/uptrace/bun"
)

// quoted marks bytes of string literals and quoted identifiers in a masked
// query; comment marks comment bytes. Neither occurs in real SQL text.
const (
	quoted  = '\x00'
	comment = '\x01'
)

var orderByPattern = regexp.MustCompile(`(?i)\border\s+by\b`)

// compiledQuery is a query ready for Bun: a predicate with "?" placeholders,
// its arguments in placeholder order, and any requested ordering.
type compiledQuery struct {
	where  string
	args   []any
	orders []string
}

// compile accepts, case-insensitively:
//
//	""                                  no predicate
//	"name = :name"                      predicate
//	"where name = :name"                predicate
//	"from Person [[as] p] [where ...]"  predicate on the named entity, "p." qualifiers dropped
//	"... order by name desc, id"        ordering, ignored by count and delete
//
// String literals, double-quoted identifiers and comments are opaque: a ':'
// inside them is not a parameter and a '?' is passed to Bun escaped.
// Comments are dropped. Every parameter must be referenced and every
// placeholder bound.
func compile(entity Entity, query string, params map[string]any) (*compiledQuery, error) {
	q := strings.TrimSpace(query)
	masked, ok := maskOpaque(q)
	if !ok {
		return nil, &SyntaxError{Query: query, Reason: "unterminated string, identifier or comment"}
	}
	q, masked = dropComments(q, masked)

	switch leadingKeyword(masked) {
	case "select", "update", "delete", "insert":
		return nil, &SyntaxError{Query: query, Reason: "only predicates and from-queries are supported"}
	case "from":
		offset, alias, err := skipFrom(entity, query, masked)
		if err != nil {
			return nil, err
		}
		q, masked = q[offset:], masked[offset:]
		if alias != "" {
			q, masked = stripAlias(q, masked, alias)
		}
	}

	cq := &compiledQuery{}
	if loc := topLevelOrderBy(masked); loc != nil {
		for _, expr := range splitTopLevel(q[loc[1]:], masked[loc[1]:]) {
			expr = strings.TrimSpace(expr)
			if expr == "" {
				return nil, &SyntaxError{Query: query, Reason: "empty order by expression"}
			}
			cq.orders = append(cq.orders, escapeQuoted(expr))
		}
		q, masked = q[:loc[0]], masked[:loc[0]]
	}

	q, masked = strings.TrimSpace(q), strings.TrimSpace(masked)
	if leadingKeyword(masked) == "where" {
		n := len(q) - len(strings.TrimSpace(q[len("where"):]))
		q, masked = q[n:], masked[n:]
		if q == "" {
			return nil, &SyntaxError{Query: query, Reason: "empty where clause"}
		}
	}

	where, args, err := bind(query, q, masked, params)
	if err != nil {
		return nil, err
	}
	cq.where, cq.args = where, args
	return cq, nil
}

// skipFrom validates "from <Entity> [[as] alias]" and returns the offset just
// past it together with the alias, if any.
func skipFrom(entity Entity, query, masked string) (int, string, error) {
	name, end := identAt(masked, skipSpace(masked, len("from")))
	if name == "" {
		return 0, "", &SyntaxError{Query: query, Reason: "missing entity name after from"}
	}
	if !strings.EqualFold(name, entity.Name()) {
		return 0, "", &SyntaxError{Query: query, Reason: "entity " + name + " does not match " + entity.Name()}
	}
	if endsFrom(masked, end) {
		return end, "", nil
	}

	alias, next := identAt(masked, skipSpace(masked, end))
	if strings.EqualFold(alias, "as") {
		alias, next = identAt(masked, skipSpace(masked, next))
		if alias == "" || isClauseKeyword(alias) {
			return 0, "", &SyntaxError{Query: query, Reason: "missing alias after as"}
		}
	}
	if alias == "" || !endsFrom(masked, next) {
		return 0, "", &SyntaxError{Query: query, Reason: "unexpected token after entity name"}
	}
	return next, alias, nil
}

// endsFrom reports whether the from clause may end at offset i.
func endsFrom(masked string, i int) bool {
	i = skipSpace(masked, i)
	word, _ := identAt(masked, i)
	return i == len(masked) || isClauseKeyword(word)
}

func isClauseKeyword(word string) bool {
	return strings.EqualFold(word, "where") || strings.EqualFold(word, "order")
}

// stripAlias drops "alias." qualifiers outside quoted text.
func stripAlias(q, masked, alias string) (string, string) {
	prefix := alias + "."
	var qb, mb strings.Builder
	for i := 0; i < len(q); i++ {
		if strings.HasPrefix(masked[i:], prefix) &&
			(i == 0 || (!isIdentPart(masked[i-1]) && masked[i-1] != '.' && masked[i-1] != ':')) {
			i += len(prefix) - 1
			continue
		}
		qb.WriteByte(q[i])
		mb.WriteByte(masked[i])
	}
	return qb.String(), mb.String()
}

// bind replaces each :name outside quoted text with "?" and collects the
// values. "::" is left alone so casts survive.
func bind(query, where, masked string, params map[string]any) (string, []any, error) {
	var (
		b    strings.Builder
		args []any
		used = make(map[string]struct{}, len(params))
	)
	b.Grow(len(where))
	for i := 0; i < len(where); i++ {
		c := where[i]
		switch {
		case masked[i] == quoted:
			if c == '?' {
				b.WriteString(`\?`)
			} else {
				b.WriteByte(c)
			}
		case c == '?':
			return "", nil, &SyntaxError{Query: query, Reason: "positional parameters are not supported, use :name"}
		case c == ':' && i+1 < len(where) && where[i+1] == ':':
			b.WriteString("::")
			i++
		case c == ':' && i+1 < len(where) && isIdentStart(where[i+1]):
			name, j := identAt(where, i+1)
			value, ok := params[name]
			if !ok {
				return "", nil, &BindingError{Name: name, Err: ErrMissingParameter}
			}
			used[name] = struct{}{}
			b.WriteByte('?')
			args = append(args, bindValue(value))
			i = j - 1
		default:
			b.WriteByte(c)
		}
	}

	if len(used) != len(params) {
		names := make([]string, 0, len(params))
		for name := range params {
			if _, ok := used[name]; !ok {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		return "", nil, &BindingError{Name: names[0], Err: ErrUnusedParameter}
	}
	return b.String(), args, nil
}

// bindValue expands slices for "in :names" predicates.
func bindValue(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		return bun.In(v)
	case reflect.Array:
		return bun.In(v)
	}
	return v
}

// escapeQuoted escapes '?' inside quoted text of an order by expression.
func escapeQuoted(expr string) string {
	if !strings.Contains(expr, "?") {
		return expr
	}
	masked, _ := maskOpaque(expr)
	var b strings.Builder
	for i := 0; i < len(expr); i++ {
		if expr[i] == '?' && masked[i] == quoted {
			b.WriteByte('\\')
		}
		b.WriteByte(expr[i])
	}
	return b.String()
}

// maskOpaque overwrites string literals and double-quoted identifiers with
// quoted, and "--" and "/* */" comments with comment, delimiters included.
// The result has the same length as s. It reports false when a literal,
// identifier or block comment is not terminated.
func maskOpaque(s string) (string, bool) {
	out := []byte(s)
	for i := 0; i < len(s); {
		var (
			end  int
			mark byte
		)
		switch {
		case s[i] == '\'' || s[i] == '"':
			end, mark = closeQuote(s, i), quoted
		case strings.HasPrefix(s[i:], "--"):
			end, mark = len(s), comment
			if n := strings.IndexByte(s[i:], '\n'); n >= 0 {
				end = i + n
			}
		case strings.HasPrefix(s[i:], "/*"):
			end, mark = -1, comment
			if n := strings.Index(s[i+2:], "*/"); n >= 0 {
				end = i + 2 + n + 2
			}
		default:
			i++
			continue
		}
		if end < 0 {
			return string(out), false
		}
		for k := i; k < end; k++ {
			out[k] = mark
		}
		i = end
	}
	return string(out), true
}

// closeQuote returns the offset just past the quote closing the one at start,
// or -1. A doubled quote character is an escaped one.
func closeQuote(s string, start int) int {
	q := s[start]
	for i := start + 1; i < len(s); i++ {
		if s[i] != q {
			continue
		}
		if i+1 < len(s) && s[i+1] == q {
			i++
			continue
		}
		return i + 1
	}
	return -1
}

// dropComments replaces every comment with a single space.
func dropComments(q, masked string) (string, string) {
	if strings.IndexByte(masked, comment) < 0 {
		return q, masked
	}
	var qb, mb strings.Builder
	for i := 0; i < len(q); i++ {
		if masked[i] != comment {
			qb.WriteByte(q[i])
			mb.WriteByte(masked[i])
			continue
		}
		if i == 0 || masked[i-1] != comment {
			qb.WriteByte(' ')
			mb.WriteByte(' ')
		}
	}
	return strings.TrimSpace(qb.String()), strings.TrimSpace(mb.String())
}

// topLevelOrderBy returns the span of the first "order by" outside
// parentheses, so subqueries keep their own ordering.
func topLevelOrderBy(masked string) []int {
	for _, loc := range orderByPattern.FindAllStringIndex(masked, -1) {
		if parenDepth(masked[:loc[0]]) == 0 {
			return loc
		}
	}
	return nil
}

// splitTopLevel splits s on commas outside parentheses and quoted text.
func splitTopLevel(s, masked string) []string {
	var (
		parts []string
		start int
		depth int
	)
	for i := 0; i < len(masked); i++ {
		switch masked[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func parenDepth(masked string) int {
	depth := 0
	for i := 0; i < len(masked); i++ {
		switch masked[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
	}
	return depth
}

func leadingKeyword(s string) string {
	word, _ := identAt(s, 0)
	return strings.ToLower(word)
}

// identAt returns the identifier starting at i and the offset past it.
func identAt(s string, i int) (string, int) {
	j := i
	for j < len(s) && isIdentPart(s[j]) {
		j++
	}
	return s[i:j], j
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
