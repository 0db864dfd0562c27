// Package script implements C4: the line-oriented menu/command scripting
// language described in spec §4.4. The dispatch shape (a command-keyword
// table driving GOTO/RUN/DOOR-style actions) is grounded on vision3's
// internal/menu/dispatcher.go and command.go; here it is generalized into a
// full tokenizer, block-structured control flow, and a host-callback
// built-in table.
package script

import "strings"

// tokenize splits a source line into words, honoring back-tick quoted
// multi-word literals (spec §4.4 "Lexical form") and leaving escape
// sequences inside them unresolved (that happens in expandEscapes, applied
// only to literal tokens, not to bare words).
func tokenize(line string) []string {
	var words []string
	var cur strings.Builder
	inLiteral := false
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '`':
			if inLiteral {
				words = append(words, "`"+cur.String()+"`")
				cur.Reset()
				inLiteral = false
			} else {
				flush()
				inLiteral = true
			}
		case inLiteral:
			cur.WriteByte(c)
		case c == ' ' || c == '\t':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return words
}

// isLiteral reports whether a token is a back-tick quoted literal, and
// returns its unquoted contents.
func isLiteral(tok string) (string, bool) {
	if len(tok) >= 2 && tok[0] == '`' && tok[len(tok)-1] == '`' {
		return tok[1 : len(tok)-1], true
	}
	return tok, false
}

// expandEscapes resolves the literal's backslash escapes per spec §4.4:
// \r\n, \n, \r, \t, \\, \` are recognized; any other \X passes through
// unchanged (so ANSI art sequences using backslash-like bytes are safe).
func expandEscapes(s string) string {
	var out strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			out.WriteByte(s[i])
			continue
		}
		switch s[i+1] {
		case 'r':
			if i+3 < len(s) && s[i+2] == '\\' && s[i+3] == 'n' {
				out.WriteString("\r\n")
				i += 3
			} else {
				out.WriteByte('\r')
				i++
			}
		case 'n':
			out.WriteByte('\n')
			i++
		case 't':
			out.WriteByte('\t')
			i++
		case '\\':
			out.WriteByte('\\')
			i++
		case '`':
			out.WriteByte('`')
			i++
		default:
			out.WriteByte(s[i])
		}
	}
	return out.String()
}

// stripComments removes /* ... */ comments from source, which may span
// multiple lines, returning the source with comment spans blanked (so line
// numbers — and therefore labels/goto targets — are preserved).
func stripComments(src string) string {
	var out strings.Builder
	inComment := false
	for i := 0; i < len(src); i++ {
		if inComment {
			if src[i] == '*' && i+1 < len(src) && src[i+1] == '/' {
				inComment = false
				out.WriteByte(' ')
				out.WriteByte(' ')
				i++
				continue
			}
			if src[i] == '\n' {
				out.WriteByte('\n')
			} else {
				out.WriteByte(' ')
			}
			continue
		}
		if src[i] == '/' && i+1 < len(src) && src[i+1] == '*' {
			inComment = true
			out.WriteByte(' ')
			out.WriteByte(' ')
			i++
			continue
		}
		out.WriteByte(src[i])
	}
	return out.String()
}
