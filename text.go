package objcodec

import (
	"strings"
)

// EscapeJSON escapes backslash, double quote, newline, carriage return
// and tab. Everything else is written as is.
func EscapeJSON(s string) string {
	if !strings.ContainsAny(s, "\\\"\n\r\t") {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// UnescapeJSON reverses EscapeJSON. s is the content between the quotes.
// The result never aliases s.
func UnescapeJSON(s string) (string, error) {
	if !strings.ContainsAny(s, "\\\"") {
		return strings.Clone(s), nil
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' {
			return "", malformedf("unescaped quote at offset %d", i)
		}
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i == len(s) {
			return "", malformedf("dangling escape at end of string")
		}
		switch s[i] {
		case '\\':
			sb.WriteByte('\\')
		case '"':
			sb.WriteByte('"')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		default:
			return "", malformedf("unknown escape \\%c", s[i])
		}
	}
	return sb.String(), nil
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

var xmlEntities = map[string]byte{
	"amp":  '&',
	"lt":   '<',
	"gt":   '>',
	"quot": '"',
	"apos": '\'',
}

// EscapeXML escapes &, <, >, " and '. Ampersands are handled in the same
// single pass, so existing entities are never escaped twice.
func EscapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// UnescapeXML reverses EscapeXML. Raw markup or unknown entities are
// MalformedSyntax. The result never aliases s.
func UnescapeXML(s string) (string, error) {
	if i := strings.IndexByte(s, '<'); i >= 0 {
		return "", malformedf("unexpected markup at offset %d", i)
	}
	if !strings.Contains(s, "&") {
		return strings.Clone(s), nil
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '&' {
			sb.WriteByte(c)
			continue
		}
		end := strings.IndexByte(s[i:], ';')
		if end < 0 {
			return "", malformedf("unterminated entity at offset %d", i)
		}
		r, ok := xmlEntities[s[i+1:i+end]]
		if !ok {
			return "", malformedf("unknown entity %q", s[i:i+end+1])
		}
		sb.WriteByte(r)
		i += end
	}
	return sb.String(), nil
}

// nestingScanner walks text byte by byte, tracking quoted strings and a
// stack of open brackets so separators can be classified as top level.
type nestingScanner struct {
	open, close string
	stack       []byte
	inString    bool
	escaped     bool
	offset      int
}

func newNestingScanner(open, close string) *nestingScanner {
	return &nestingScanner{open: open, close: close}
}

// step consumes c and reports whether it sits outside any string and at
// depth 0. Quotes and brackets themselves are never top level.
func (s *nestingScanner) step(c byte) (bool, error) {
	defer func() { s.offset++ }()
	if s.inString {
		switch {
		case s.escaped:
			s.escaped = false
		case c == '\\':
			s.escaped = true
		case c == '"':
			s.inString = false
		}
		return false, nil
	}
	if c == '"' {
		s.inString = true
		return false, nil
	}
	if i := strings.IndexByte(s.open, c); i >= 0 {
		s.stack = append(s.stack, s.close[i])
		return false, nil
	}
	if strings.IndexByte(s.close, c) >= 0 {
		if len(s.stack) == 0 || s.stack[len(s.stack)-1] != c {
			return false, malformedf("unbalanced %q at offset %d", c, s.offset)
		}
		s.stack = s.stack[:len(s.stack)-1]
		return false, nil
	}
	return len(s.stack) == 0, nil
}

func (s *nestingScanner) finish() error {
	if s.inString {
		return malformedf("unterminated string")
	}
	if len(s.stack) > 0 {
		return malformedf("missing %q", s.stack[len(s.stack)-1])
	}
	return nil
}

// SplitTopLevel splits body on sep, ignoring separators inside quoted
// strings or inside brackets from open/close (paired by position, e.g.
// "{[" and "}]"). A blank body yields no members.
func SplitTopLevel(body, open, close string, sep byte) ([]string, error) {
	if strings.TrimSpace(body) == "" {
		return nil, nil
	}
	var parts []string
	sc := newNestingScanner(open, close)
	start := 0
	for i := 0; i < len(body); i++ {
		top, err := sc.step(body[i])
		if err != nil {
			return nil, err
		}
		if top && body[i] == sep {
			parts = append(parts, body[start:i])
			start = i + 1
		}
	}
	if err := sc.finish(); err != nil {
		return nil, err
	}
	return append(parts, body[start:]), nil
}

// IndexTopLevel returns the offset of the first top-level sep in s, or -1.
func IndexTopLevel(s, open, close string, sep byte) (int, error) {
	sc := newNestingScanner(open, close)
	for i := 0; i < len(s); i++ {
		top, err := sc.step(s[i])
		if err != nil {
			return -1, err
		}
		if top && s[i] == sep {
			return i, nil
		}
	}
	return -1, sc.finish()
}
