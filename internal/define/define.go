// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package define substitutes compile-time constants into front-end sources
// so application code can reference them without a runtime lookup.
package define

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Replacer rewrites identifier tokens into JSON string literals.
type Replacer struct {
	literals map[string][]byte
}

// NewReplacer builds a Replacer from a name→value map. Values are emitted as
// JSON string literals, so "1.2.3" becomes "\"1.2.3\"" in the output.
func NewReplacer(defines map[string]string) *Replacer {
	r := &Replacer{literals: make(map[string][]byte, len(defines))}
	for name, value := range defines {
		if name == "" {
			continue
		}
		r.literals[name] = literal(value)
	}
	return r
}

// Empty reports whether the replacer has nothing to substitute.
func (r *Replacer) Empty() bool {
	return r == nil || len(r.literals) == 0
}

// Apply returns src, a JavaScript source, with every whole-identifier
// occurrence of a defined name replaced. String literals, the text of
// template literals, regular expression literals and comments are copied
// unchanged; template substitutions (${...}) are rewritten. Member accesses
// (a preceding '.') and partial identifiers such as __APP_VERSION__X are left
// untouched. src is never modified.
func (r *Replacer) Apply(src []byte) []byte {
	if r.Empty() {
		return src
	}
	s := rewriter{r: r, src: src}
	s.scanJS(0, len(src))
	return s.result()
}

// ApplyHTML rewrites an HTML document. Inline <script> bodies follow the
// rules of Apply; in markup every whole-identifier occurrence is replaced and
// <!-- comments --> are copied unchanged.
func (r *Replacer) ApplyHTML(src []byte) []byte {
	if r.Empty() {
		return src
	}
	s := rewriter{r: r, src: src}
	s.scanHTML()
	return s.result()
}

type rewriter struct {
	r       *Replacer
	src     []byte
	out     bytes.Buffer
	last    int
	changed bool
}

func (s *rewriter) result() []byte {
	if !s.changed {
		return s.src
	}
	s.out.Write(s.src[s.last:])
	return s.out.Bytes()
}

// ident replaces the identifier starting at i if it is defined and returns
// the offset just past it.
func (s *rewriter) ident(i, end int) int {
	j := i + 1
	for j < end && isIdentPart(s.src[j]) {
		j++
	}
	if lit, ok := s.r.literals[string(s.src[i:j])]; ok && (i == 0 || s.src[i-1] != '.') {
		if !s.changed {
			s.out.Grow(len(s.src))
			s.changed = true
		}
		s.out.Write(s.src[s.last:i])
		s.out.Write(lit)
		s.last = j
	}
	return j
}

func (s *rewriter) identStart(i int) bool {
	return isIdentStart(s.src[i]) && (i == 0 || !isIdentPart(s.src[i-1]))
}

func (s *rewriter) scanJS(start, end int) {
	src := s.src
	// closers holds, per open template substitution, the brace depth that
	// returns to the template text.
	var closers []int
	depth := 0
	inTemplate := false
	prev := byte(0) // last significant byte outside literals and comments

	for i := start; i < end; {
		c := src[i]
		if inTemplate {
			switch {
			case c == '\\':
				i += 2
			case c == '`':
				inTemplate = false
				prev = c
				i++
			case c == '$' && i+1 < end && src[i+1] == '{':
				closers = append(closers, depth)
				depth++
				inTemplate = false
				prev = '{'
				i += 2
			default:
				i++
			}
			continue
		}

		switch {
		case c == '"' || c == '\'':
			i = skipQuoted(src, i+1, end, c)
			prev = c
		case c == '`':
			inTemplate = true
			i++
		case c == '/' && i+1 < end && src[i+1] == '/':
			i = skipLine(src, i+2, end)
		case c == '/' && i+1 < end && src[i+1] == '*':
			i = skipBlockComment(src, i+2, end)
		case c == '/' && regexAllowedAfter(prev):
			i = skipRegexp(src, i+1, end)
			prev = ')'
		case c == '{':
			depth++
			prev = c
			i++
		case c == '}':
			depth--
			if n := len(closers); n > 0 && depth == closers[n-1] {
				closers = closers[:n-1]
				inTemplate = true
			}
			prev = c
			i++
		case s.identStart(i):
			i = s.ident(i, end)
			prev = 'a'
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		default:
			prev = c
			i++
		}
	}
}

func (s *rewriter) scanHTML() {
	src := s.src
	for i := 0; i < len(src); {
		switch {
		case bytes.HasPrefix(src[i:], []byte("<!--")):
			if k := bytes.Index(src[i+4:], []byte("-->")); k >= 0 {
				i += 4 + k + 3
			} else {
				i = len(src)
			}
		case src[i] == '<' && hasScriptTag(src[i+1:]):
			open := bytes.IndexByte(src[i:], '>')
			if open < 0 {
				return
			}
			body := i + open + 1
			closeTag := indexFold(src[body:], "</script")
			end := len(src)
			if closeTag >= 0 {
				end = body + closeTag
			}
			s.scanJS(body, end)
			i = end
			if closeTag >= 0 {
				i += len("</script")
			}
		case s.identStart(i):
			i = s.ident(i, len(src))
		default:
			i++
		}
	}
}

func skipQuoted(src []byte, i, end int, quote byte) int {
	for i < end {
		switch src[i] {
		case '\\':
			i += 2
		case quote, '\n':
			return i + 1
		default:
			i++
		}
	}
	return end
}

func skipLine(src []byte, i, end int) int {
	if k := bytes.IndexByte(src[i:end], '\n'); k >= 0 {
		return i + k
	}
	return end
}

func skipBlockComment(src []byte, i, end int) int {
	if k := bytes.Index(src[i:end], []byte("*/")); k >= 0 {
		return i + k + 2
	}
	return end
}

func skipRegexp(src []byte, i, end int) int {
	inClass := false
	for i < end {
		switch c := src[i]; {
		case c == '\\':
			i += 2
			continue
		case c == '\n':
			return i
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			return i + 1
		}
		i++
	}
	return end
}

// regexAllowedAfter reports whether a '/' following prev starts a regular
// expression literal rather than a division.
func regexAllowedAfter(prev byte) bool {
	switch prev {
	case 0, '(', ',', '=', ':', '[', '!', '&', '|', '?', '{', '}', ';', '+', '-', '*', '/', '%', '<', '>', '~', '^':
		return true
	}
	return false
}

func hasScriptTag(b []byte) bool {
	const tag = "script"
	if len(b) <= len(tag) || !bytes.EqualFold(b[:len(tag)], []byte(tag)) {
		return false
	}
	switch b[len(tag)] {
	case '>', ' ', '\t', '\n', '\r', '/':
		return true
	}
	return false
}

func indexFold(b []byte, sub string) int {
	return bytes.Index(bytes.ToLower(b), []byte(sub))
}

// Module renders the defines as an ES module with one exported constant per
// name, sorted by name.
func Module(defines map[string]string) []byte {
	var buf bytes.Buffer
	for _, name := range sortedNames(defines) {
		buf.WriteString("export const ")
		buf.WriteString(name)
		buf.WriteString(" = ")
		buf.Write(literal(defines[name]))
		buf.WriteString(";\n")
	}
	return buf.Bytes()
}

func sortedNames(defines map[string]string) []string {
	names := make([]string, 0, len(defines))
	for name := range defines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func literal(value string) []byte {
	// Marshalling a string cannot fail.
	b, _ := json.Marshal(value)
	return b
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
