// Package scan extracts package imports from Dart source text.
//
// Scanning is split in two stages so callers can audit the raw import list
// before deciding which entries to trust: ExtractImports returns every
// imported URI verbatim, FilterSafePackages reduces them to bare, traversal
// free package names.
package scan

import (
	"slices"
	"strings"
)

// packagePrefix marks an import URI that addresses a pub package.
const packagePrefix = "package:"

// ExtractImports lexes src and returns the URIs of its leading import
// declarations in source order, duplicates preserved. A `library` declaration
// at the front is skipped. Scanning stops at the first token that is neither
// `library` nor `import`, mirroring the grammar rule that directives precede
// all other top-level declarations. No filtering happens here: `dart:` URIs
// and relative paths come back too.
func ExtractImports(src string) []string {
	var uris []string
	s := &scanner{src: src}
	for {
		s.skipTrivia()
		switch {
		case s.keyword("library"):
			s.skipStatement()
		case s.keyword("import"):
			if uri, ok := s.stringLiteral(); ok {
				uris = append(uris, uri)
			}
			s.skipStatement()
		default:
			return uris
		}
	}
}

// FilterSafePackages reduces raw import URIs to a sorted, duplicate-free
// list of bare package names. Entries without the `package:` prefix are
// dropped, the prefix and everything from the first `/` are stripped, any
// `..` substring is removed from what remains, and entries left empty are
// discarded.
func FilterSafePackages(imports []string) []string {
	var names []string
	for _, imp := range imports {
		name, ok := strings.CutPrefix(imp, packagePrefix)
		if !ok {
			continue
		}
		if i := strings.IndexByte(name, '/'); i >= 0 {
			name = name[:i]
		}
		name = strings.ReplaceAll(name, "..", "")
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// scanner walks Dart source byte by byte. It understands just enough of the
// grammar to read the directive region: comments, string literals and
// statement terminators.
type scanner struct {
	src string
	pos int
}

// skipTrivia advances past whitespace and comments. Block comments nest, as
// they do in Dart.
func (s *scanner) skipTrivia() {
	for s.pos < len(s.src) {
		switch c := s.src[s.pos]; {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			s.pos++
		case c == '/' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '/':
			for s.pos < len(s.src) && s.src[s.pos] != '\n' {
				s.pos++
			}
		case c == '/' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '*':
			s.pos += 2
			depth := 1
			for s.pos < len(s.src) && depth > 0 {
				switch {
				case s.src[s.pos] == '/' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '*':
					depth++
					s.pos += 2
				case s.src[s.pos] == '*' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '/':
					depth--
					s.pos += 2
				default:
					s.pos++
				}
			}
		default:
			return
		}
	}
}

// keyword consumes kw if it appears at the current position as a complete
// identifier and reports whether it did.
func (s *scanner) keyword(kw string) bool {
	if !strings.HasPrefix(s.src[s.pos:], kw) {
		return false
	}
	if next := s.pos + len(kw); next < len(s.src) && isIdentByte(s.src[next]) {
		return false
	}
	s.pos += len(kw)
	return true
}

// stringLiteral consumes the next token if it is a single-line string
// literal (optionally raw, single or double quoted) and returns its content
// with quotes stripped. It consumes nothing when the next token is not a
// string.
func (s *scanner) stringLiteral() (string, bool) {
	s.skipTrivia()
	start := s.pos
	raw := false
	if s.pos < len(s.src) && s.src[s.pos] == 'r' {
		raw = true
		s.pos++
	}
	if s.pos >= len(s.src) || (s.src[s.pos] != '\'' && s.src[s.pos] != '"') {
		s.pos = start
		return "", false
	}
	quote := s.src[s.pos]
	s.pos++
	var b strings.Builder
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == quote:
			s.pos++
			return b.String(), true
		case c == '\\' && !raw && s.pos+1 < len(s.src):
			b.WriteByte(s.src[s.pos+1])
			s.pos += 2
		case c == '\n':
			// Unterminated single-line literal.
			s.pos = start
			return "", false
		default:
			b.WriteByte(c)
			s.pos++
		}
	}
	s.pos = start
	return "", false
}

// skipStatement advances past the current statement's terminating semicolon,
// stepping over comments and string literals so a `;` inside either does not
// end the statement early.
func (s *scanner) skipStatement() {
	for {
		s.skipTrivia()
		if s.pos >= len(s.src) {
			return
		}
		switch c := s.src[s.pos]; c {
		case ';':
			s.pos++
			return
		case '\'', '"':
			s.skipString(c)
		default:
			s.pos++
		}
	}
}

// skipString advances past a string literal opened by quote. Escapes are
// honored; an unterminated literal consumes the rest of the input.
func (s *scanner) skipString(quote byte) {
	s.pos++
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case quote:
			s.pos++
			return
		case '\\':
			s.pos += 2
		default:
			s.pos++
		}
	}
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
