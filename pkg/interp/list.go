package interp

import (
	"fmt"
	"strings"

	"github.com/go-tkbind/tkbind/pkg/errors"
)

// Quote renders one token as a single interpreter list element, bracing or
// escaping as needed so the interpreter parses it back to the same string.
func Quote(s string) string {
	if s == "" {
		return "{}"
	}
	if !strings.ContainsAny(s, " \t\n\\{}\"$[];") {
		return s
	}
	// Newlines always take the escape path so one element never spans
	// a wire frame line.
	if bracesBalanced(s) && !strings.ContainsAny(s, "\\\n") {
		return "{" + s + "}"
	}

	var sb strings.Builder
	for _, r := range s {
		switch r {
		case ' ', '\t', '\\', '{', '}', '"', '$', '[', ']', ';':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// QuoteList renders tokens as one interpreter list literal.
func QuoteList(tokens ...string) string {
	quoted := make([]string, len(tokens))
	for i, tok := range tokens {
		quoted[i] = Quote(tok)
	}
	return strings.Join(quoted, " ")
}

// bracesBalanced reports whether every { in s has a matching } and braces
// never close below depth zero.
func bracesBalanced(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// SplitList parses an interpreter list literal into its elements,
// honoring braces, double quotes, and backslash escapes.
func SplitList(s string) ([]string, error) {
	const op = "interp.SplitList"

	var elems []string
	i := 0
	n := len(s)
	for {
		for i < n && isListSpace(s[i]) {
			i++
		}
		if i >= n {
			return elems, nil
		}

		switch s[i] {
		case '{':
			elem, next, err := scanBraced(s, i)
			if err != nil {
				return nil, errors.E(op, errors.KindInterp, err)
			}
			elems = append(elems, elem)
			i = next
		case '"':
			elem, next, err := scanQuoted(s, i)
			if err != nil {
				return nil, errors.E(op, errors.KindInterp, err)
			}
			elems = append(elems, elem)
			i = next
		default:
			elem, next := scanBare(s, i)
			elems = append(elems, elem)
			i = next
		}

		if i < n && !isListSpace(s[i]) {
			return nil, errors.Errorf(op, errors.KindInterp,
				"list element in braces or quotes followed by %q instead of space", s[i])
		}
	}
}

func isListSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// scanBraced consumes a {...} element starting at s[start] == '{'.
// The content is taken literally; nested braces must balance.
func scanBraced(s string, start int) (string, int, error) {
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++ // escaped char inside braces stays literal
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start+1 : i], i + 1, nil
			}
		}
	}
	return "", 0, fmt.Errorf("unmatched open brace in list")
}

// scanQuoted consumes a "..." element starting at s[start] == '"',
// processing backslash escapes.
func scanQuoted(s string, start int) (string, int, error) {
	var sb strings.Builder
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 >= len(s) {
				return "", 0, fmt.Errorf("trailing backslash in quoted element")
			}
			i++
			sb.WriteByte(unescape(s[i]))
		case '"':
			return sb.String(), i + 1, nil
		default:
			sb.WriteByte(s[i])
		}
	}
	return "", 0, fmt.Errorf("unmatched open quote in list")
}

// scanBare consumes an unquoted element, processing backslash escapes.
func scanBare(s string, start int) (string, int) {
	var sb strings.Builder
	i := start
	for i < len(s) && !isListSpace(s[i]) {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			sb.WriteByte(unescape(s[i]))
		} else {
			sb.WriteByte(s[i])
		}
		i++
	}
	return sb.String(), i
}

func unescape(b byte) byte {
	switch b {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return b
	}
}
