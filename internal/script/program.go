package script

import (
	"fmt"
	"strings"
)

// maxIfNesting is the spec's §4.4 limit: "nestable to 16 levels".
const maxIfNesting = 16

// stmt is one parsed source line.
type stmt struct {
	raw     string
	words   []string // first word is the keyword, uppercased for comparison
	keyword string
}

// blockKind tags why a line participates in block matching.
type blockKind int

const (
	blockIf blockKind = iota
	blockElse
	blockEndIf
	blockFor
	blockEndFor
	blockWhile
	blockEndWhile
)

// Program is a parsed, ready-to-run script: flattened statements, label
// index, and precomputed block matches (if/else/endif, for/endfor,
// while/endwhile pairs) so execution is a simple program-counter walk.
type Program struct {
	Path  string
	stmts []stmt

	labels map[string]int // label name (upper) -> statement index

	// matches[i] gives the paired index for a block-opening or
	// block-closing statement at i (e.g. "if" -> its "end if", and back).
	matches map[int]int
	// elseOf maps an "if" statement index to its "else" index, if any.
	elseOf map[int]int
}

// Parse builds a Program from source text (spec §4.4).
func Parse(path, src string) (*Program, error) {
	src = stripComments(src)
	lines := strings.Split(src, "\n")

	p := &Program{Path: path, labels: map[string]int{}, matches: map[int]int{}, elseOf: map[int]int{}}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			p.stmts = append(p.stmts, stmt{})
			continue
		}
		words := tokenize(trimmed)
		if len(words) == 0 {
			p.stmts = append(p.stmts, stmt{})
			continue
		}
		kw := strings.ToUpper(words[0])

		// Label definition: a line of the form "name:" with nothing else.
		if strings.HasSuffix(kw, ":") && len(words) == 1 {
			name := strings.TrimSuffix(kw, ":")
			p.labels[name] = len(p.stmts)
			p.stmts = append(p.stmts, stmt{raw: trimmed, words: words, keyword: "LABEL"})
			continue
		}

		p.stmts = append(p.stmts, stmt{raw: trimmed, words: words, keyword: kw})
	}

	if err := p.matchBlocks(); err != nil {
		return nil, err
	}
	return p, nil
}

// matchBlocks resolves if/else/endif, for/endfor, while/endwhile pairs in a
// single pass, enforcing the 16-level if-nesting limit.
func (p *Program) matchBlocks() error {
	type openFrame struct {
		kind blockKind
		idx  int
	}
	var stack []openFrame
	ifDepth := 0

	isEndIf := func(words []string) bool {
		// "end if" is two tokens; also accept single-token "endif".
		if len(words) >= 1 && strings.EqualFold(words[0], "endif") {
			return true
		}
		if len(words) >= 2 && strings.EqualFold(words[0], "end") && strings.EqualFold(words[1], "if") {
			return true
		}
		return false
	}

	for i, s := range p.stmts {
		switch {
		case s.keyword == "IF":
			ifDepth++
			if ifDepth > maxIfNesting {
				return fmt.Errorf("script: if nesting exceeds %d levels", maxIfNesting)
			}
			stack = append(stack, openFrame{blockIf, i})
		case s.keyword == "ELSE":
			if len(stack) == 0 || stack[len(stack)-1].kind != blockIf {
				return fmt.Errorf("script: ELSE without matching IF at line %d", i)
			}
			top := stack[len(stack)-1].idx
			p.elseOf[top] = i
			stack[len(stack)-1] = openFrame{blockIf, top} // keep IF on stack; ENDIF still closes it
		case isEndIf(s.words):
			if len(stack) == 0 || stack[len(stack)-1].kind != blockIf {
				return fmt.Errorf("script: END IF without matching IF at line %d", i)
			}
			top := stack[len(stack)-1].idx
			p.matches[top] = i
			p.matches[i] = top
			stack = stack[:len(stack)-1]
			ifDepth--
		case s.keyword == "FOR":
			stack = append(stack, openFrame{blockFor, i})
		case s.keyword == "ENDFOR":
			if len(stack) == 0 || stack[len(stack)-1].kind != blockFor {
				return fmt.Errorf("script: ENDFOR without matching FOR at line %d", i)
			}
			top := stack[len(stack)-1].idx
			p.matches[top] = i
			p.matches[i] = top
			stack = stack[:len(stack)-1]
		case s.keyword == "WHILE":
			stack = append(stack, openFrame{blockWhile, i})
		case s.keyword == "ENDWHILE":
			if len(stack) == 0 || stack[len(stack)-1].kind != blockWhile {
				return fmt.Errorf("script: ENDWHILE without matching WHILE at line %d", i)
			}
			top := stack[len(stack)-1].idx
			p.matches[top] = i
			p.matches[i] = top
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) != 0 {
		return fmt.Errorf("script: unclosed block(s) at end of %s", p.Path)
	}
	return nil
}
