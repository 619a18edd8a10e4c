package minify

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// HTML removes comments and collapses whitespace in an HTML document.
// Script and style element bodies get language-aware comment stripping;
// everything else only loses HTML comments and redundant whitespace.
func HTML(s string) string {
	s = stripComments(s)
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// stripComments walks the document once, dispatching script and style bodies
// to their dedicated strippers and dropping HTML comments everywhere else.
func stripComments(s string) string {
	lower := strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))

	i := 0
	for i < len(s) {
		switch {
		case strings.HasPrefix(s[i:], "<!--"):
			end := strings.Index(s[i+4:], "-->")
			if end < 0 {
				// Unterminated comment swallows the rest of the document,
				// matching how browsers treat it.
				return b.String()
			}
			i += 4 + end + 3

		case strings.HasPrefix(lower[i:], "<script"):
			i = copyElement(&b, s, lower, i, "</script", stripJS)

		case strings.HasPrefix(lower[i:], "<style"):
			i = copyElement(&b, s, lower, i, "</style", stripCSS)

		default:
			b.WriteByte(s[i])
			i++
		}
	}

	return b.String()
}

// copyElement copies the opening tag verbatim (attributes like src="//cdn"
// must not be touched), runs strip over the element body, and returns the
// index of the closing tag so the main loop re-processes it as plain markup.
func copyElement(b *strings.Builder, s, lower string, i int, closing string, strip func(string) string) int {
	gt := strings.IndexByte(s[i:], '>')
	if gt < 0 {
		b.WriteString(s[i:])
		return len(s)
	}
	b.WriteString(s[i : i+gt+1])
	i += gt + 1

	end := strings.Index(lower[i:], closing)
	if end < 0 {
		b.WriteString(strip(s[i:]))
		return len(s)
	}
	b.WriteString(strip(s[i : i+end]))
	return i + end
}

// stripJS removes // line comments and /* */ block comments from script
// source. String literals (single, double, backtick) are copied verbatim
// including escape sequences, which keeps URLs such as "http://x" and
// "//cdn.x" intact.
func stripJS(src string) string {
	var b strings.Builder
	b.Grow(len(src))

	var quote byte
	for i := 0; i < len(src); i++ {
		c := src[i]

		if quote != 0 {
			b.WriteByte(c)
			if c == '\\' && i+1 < len(src) {
				i++
				b.WriteByte(src[i])
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}

		switch {
		case c == '\'' || c == '"' || c == '`':
			quote = c
			b.WriteByte(c)

		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			nl := strings.IndexByte(src[i:], '\n')
			if nl < 0 {
				return b.String()
			}
			// Keep the newline itself so line-sensitive JS (ASI) survives.
			i += nl - 1

		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return b.String()
			}
			i += 2 + end + 1

		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

// stripCSS removes /* */ comments from style source, respecting quoted
// strings (url("...") values may contain comment-looking sequences).
func stripCSS(src string) string {
	var b strings.Builder
	b.Grow(len(src))

	var quote byte
	for i := 0; i < len(src); i++ {
		c := src[i]

		if quote != 0 {
			b.WriteByte(c)
			if c == '\\' && i+1 < len(src) {
				i++
				b.WriteByte(src[i])
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}

		switch {
		case c == '\'' || c == '"':
			quote = c
			b.WriteByte(c)

		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return b.String()
			}
			i += 2 + end + 1

		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}
