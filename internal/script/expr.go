package script

import (
	"strconv"
	"strings"
)

// maxExpansionRounds bounds the repeated %{...} substitution pass so a
// self-referential variable cannot infinite-loop the interpreter (spec
// §4.4: "repeatedly until no %{…} remains, with a small recursion bound").
const maxExpansionRounds = 8

// expand performs repeated %{name} substitution against vars (session
// variables) and macros (read-only system values), vars taking precedence.
func expand(s string, vars map[string]string, macros MacroSource) string {
	for round := 0; round < maxExpansionRounds; round++ {
		next, changed := expandOnce(s, vars, macros)
		if !changed {
			return next
		}
		s = next
	}
	return s
}

func expandOnce(s string, vars map[string]string, macros MacroSource) (string, bool) {
	var out strings.Builder
	changed := false
	i := 0
	for i < len(s) {
		if s[i] == '%' && i+1 < len(s) && s[i+1] == '{' {
			end := strings.IndexByte(s[i+2:], '}')
			if end >= 0 {
				name := s[i+2 : i+2+end]
				val, ok := resolveVar(name, vars, macros)
				if ok {
					out.WriteString(val)
					changed = true
					i += 2 + end + 1
					continue
				}
			}
		}
		out.WriteByte(s[i])
		i++
	}
	return out.String(), changed
}

func resolveVar(name string, vars map[string]string, macros MacroSource) (string, bool) {
	lower := strings.ToLower(name)
	if v, ok := vars[lower]; ok {
		return v, true
	}
	if macros != nil {
		if v, ok := lookupMacro(lower, macros); ok {
			return v, true
		}
	}
	return "", false
}

// evalLiteralOrWord expands and, if the token is a back-tick literal, also
// resolves its backslash escapes (escapes apply to literal text, not bare
// words — spec §4.4).
func evalLiteralOrWord(tok string, vars map[string]string, macros MacroSource) string {
	if content, ok := isLiteral(tok); ok {
		return expandEscapes(expand(content, vars, macros))
	}
	return expand(tok, vars, macros)
}

// evalCondition evaluates a condition expression made of one or more
// "A op B" clauses joined by && / || (left-to-right, same precedence, short
// circuit — spec §4.4).
func evalCondition(tokens []string, vars map[string]string, macros MacroSource) bool {
	if len(tokens) == 0 {
		return false
	}
	// Split on && / || preserving order.
	type piece struct {
		clause []string
		joiner string // "" for the first piece, else "&&" or "||"
	}
	var pieces []piece
	cur := piece{}
	for _, t := range tokens {
		if t == "&&" || t == "||" {
			pieces = append(pieces, cur)
			cur = piece{joiner: t}
			continue
		}
		cur.clause = append(cur.clause, t)
	}
	pieces = append(pieces, cur)

	result := evalClause(pieces[0].clause, vars, macros)
	for _, p := range pieces[1:] {
		switch p.joiner {
		case "&&":
			if !result {
				continue // already false; short-circuit (still must not evaluate, so skip)
			}
			result = result && evalClause(p.clause, vars, macros)
		case "||":
			if result {
				continue
			}
			result = result || evalClause(p.clause, vars, macros)
		}
	}
	return result
}

// evalClause evaluates a single "A op B" comparison. String operators ==
// and != compare the expanded text; numeric operators >, <, >=, <= parse
// both sides as integers (non-numeric parses as 0, matching the script
// language's "divide by zero is 0, not an error" tolerance for bad input).
// A side that is a single bare word naming a session variable stands for
// that variable's value, so "if r == 0" and "if %{r} == 0" agree.
func evalClause(clause []string, vars map[string]string, macros MacroSource) bool {
	opIdx := -1
	var op string
	for i, t := range clause {
		switch t {
		case "==", "!=", ">", "<", ">=", "<=":
			opIdx = i
			op = t
		}
		if opIdx >= 0 {
			break
		}
	}
	if opIdx < 0 {
		// A bare token is truthy if it expands to a non-empty, non-"0" value.
		joined := strings.Join(clause, " ")
		v := expand(joined, vars, macros)
		return v != "" && v != "0"
	}
	side := func(toks []string) string {
		if len(toks) == 1 {
			if v, ok := vars[strings.ToLower(toks[0])]; ok {
				return v
			}
		}
		return expand(strings.Join(toks, " "), vars, macros)
	}
	lhs := side(clause[:opIdx])
	rhs := side(clause[opIdx+1:])

	switch op {
	case "==":
		return lhs == rhs
	case "!=":
		return lhs != rhs
	default:
		l, _ := strconv.Atoi(strings.TrimSpace(lhs))
		r, _ := strconv.Atoi(strings.TrimSpace(rhs))
		switch op {
		case ">":
			return l > r
		case "<":
			return l < r
		case ">=":
			return l >= r
		case "<=":
			return l <= r
		}
	}
	return false
}
