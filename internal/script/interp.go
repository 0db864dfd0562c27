package script

import (
	"fmt"
	"strconv"
	"strings"
)

// maxCallDepth is the subscript call stack limit (spec §4.4: "at least 8
// frames").
const maxCallDepth = 8

// loader resolves a script path to its parsed Program; internal/session
// wires this to the well-known script-source location (spec §4.4).
type Loader func(path string) (*Program, error)

// loopFrame tracks one active for/while loop for break/continue handling.
type loopFrame struct {
	kind     blockKind // blockFor or blockWhile
	startIdx int       // index of the FOR/WHILE statement
	endIdx   int       // index of the matching ENDFOR/ENDWHILE
	// for FOR loops:
	varName string
	limit   int
	step    int
}

// frame is one call-stack entry (spec §4.4: "saves the caller's path,
// program counter, file handle, and block stack").
type frame struct {
	prog  *Program
	pc    int
	loops []loopFrame
}

// Interpreter runs one Program (plus any subscripts it calls) against a
// Host and a shared variable map. It never blocks: Step runs until either
// the script finishes or a built-in raises a named Wait (spec §4.4
// "Suspension model"), at which point the caller must eventually call
// Resume (for input-producing waits) before calling Step again.
type Interpreter struct {
	vars   map[string]string
	macros MacroSource
	host   Host
	load   Loader

	stack []frame

	// paging state
	pagingEnabled  bool
	pagingOverride *bool // set by the `more` built-in for the rest of the session
	lineCount      int

	pendingWait *Wait
	stopped     bool
}

// New constructs an Interpreter ready to run prog as the outermost frame.
func New(prog *Program, host Host, macros MacroSource, load Loader) *Interpreter {
	return &Interpreter{
		vars:          map[string]string{},
		macros:        macros,
		host:          host,
		load:          load,
		stack:         []frame{{prog: prog}},
		pagingEnabled: true,
	}
}

// SetVar / GetVar expose the shared variable map (e.g. for newuser/logon to
// seed initial values, or tests to assert state).
func (in *Interpreter) SetVar(name, value string) { in.vars[strings.ToLower(name)] = value }
func (in *Interpreter) GetVar(name string) string  { return in.vars[strings.ToLower(name)] }

// Done reports whether the script has finished (returned from the
// outermost frame, or hit `stop`).
func (in *Interpreter) Done() bool { return in.stopped || len(in.stack) == 0 }

// Resume supplies the value produced by an external wait (typed line,
// single key, yes/no, transfer result) and clears the pending wait so Step
// can continue.
func (in *Interpreter) Resume(value string) {
	if in.pendingWait == nil {
		return
	}
	if in.pendingWait.TargetVar != "" {
		in.SetVar(in.pendingWait.TargetVar, value)
	}
	in.pendingWait = nil
}

// Step executes statements until the script ends or a built-in suspends it.
// Per spec §5: "A session that is not suspended and has no pending input
// yields after a single script statement executes" — callers wanting that
// granularity should call Step once per scheduler visit; Step itself loops
// internally only across non-suspending statements (labels, assignments,
// control-flow) so that a single scheduler visit makes visible progress.
func (in *Interpreter) Step() (*Wait, error) {
	if in.pendingWait != nil {
		return in.pendingWait, nil
	}
	for {
		if in.stopped || len(in.stack) == 0 {
			return &Wait{Kind: WaitDone}, nil
		}
		fr := &in.stack[len(in.stack)-1]
		if fr.pc >= len(fr.prog.stmts) {
			// Falling off the end of a subscript acts as return (spec §4.4).
			if !in.popFrame() {
				in.stopped = true
				return &Wait{Kind: WaitDone}, nil
			}
			continue
		}
		s := fr.prog.stmts[fr.pc]
		wait, err := in.exec(fr, s)
		if err != nil {
			return nil, err
		}
		if wait != nil {
			in.pendingWait = wait
			return wait, nil
		}
		if in.stopped {
			return &Wait{Kind: WaitDone}, nil
		}
	}
}

func (in *Interpreter) popFrame() bool {
	in.stack = in.stack[:len(in.stack)-1]
	return len(in.stack) > 0
}

func (in *Interpreter) currentLoops() *[]loopFrame {
	return &in.stack[len(in.stack)-1].loops
}

// exec runs one statement and advances fr.pc (unless control flow jumps
// elsewhere). A non-nil Wait means the statement needs external input; the
// statement is considered fully executed and pc has already been advanced
// so Resume+Step continues after it.
func (in *Interpreter) exec(fr *frame, s stmt) (*Wait, error) {
	switch s.keyword {
	case "", "LABEL":
		fr.pc++
		return nil, nil
	case "IF":
		return in.execIf(fr, s)
	case "ELSE":
		// Reached by falling through a taken IF branch: skip to ENDIF.
		fr.pc = fr.prog.matches[findEndIf(fr.prog, fr.pc)] + 1
		return nil, nil
	case "END", "ENDIF":
		fr.pc++
		return nil, nil
	case "FOR":
		return in.execFor(fr, s)
	case "ENDFOR":
		return in.execEndFor(fr)
	case "WHILE":
		return in.execWhile(fr, s)
	case "ENDWHILE":
		return in.execEndWhile(fr)
	case "BREAK":
		return in.execBreak(fr)
	case "CONTINUE":
		return in.execContinue(fr)
	case "GOTO":
		return in.execGoto(fr, s)
	case "SCRIPT":
		return in.execScriptCall(fr, s)
	case "RETURN":
		if !in.popFrame() {
			in.stopped = true
		}
		return nil, nil
	case "STOP":
		in.stopped = true
		return nil, nil
	default:
		return in.execBuiltin(fr, s)
	}
}

// findEndIf locates the ENDIF matching the IF that owns the ELSE at idx.
func findEndIf(p *Program, elseIdx int) int {
	for ifIdx, elseI := range p.elseOf {
		if elseI == elseIdx {
			return ifIdx
		}
	}
	return elseIdx
}

func (in *Interpreter) execIf(fr *frame, s stmt) (*Wait, error) {
	// "if <cond> then" — find "then" and take everything between as the
	// condition tokens.
	thenIdx := -1
	for i, w := range s.words {
		if strings.EqualFold(w, "then") {
			thenIdx = i
			break
		}
	}
	var condTokens []string
	if thenIdx >= 0 {
		condTokens = s.words[1:thenIdx]
	} else {
		condTokens = s.words[1:]
	}
	taken := evalCondition(condTokens, in.vars, in.macros)
	idx := fr.pc
	endIdx, ok := fr.prog.matches[idx]
	if !ok {
		return nil, fmt.Errorf("script: IF at line %d has no matching END IF", idx)
	}
	if taken {
		fr.pc = idx + 1
		return nil, nil
	}
	if elseIdx, hasElse := fr.prog.elseOf[idx]; hasElse {
		fr.pc = elseIdx + 1
		return nil, nil
	}
	fr.pc = endIdx + 1
	return nil, nil
}

func (in *Interpreter) execFor(fr *frame, s stmt) (*Wait, error) {
	// for v = a to b [step s]
	if len(s.words) < 4 {
		return nil, fmt.Errorf("script: malformed FOR at line %d", fr.pc)
	}
	varName := s.words[1]
	start := atoiExpand(s.words[3], in.vars, in.macros)
	limit := 0
	step := 1
	if len(s.words) >= 6 && strings.EqualFold(s.words[4], "to") {
		limit = atoiExpand(s.words[5], in.vars, in.macros)
	}
	for i := 6; i < len(s.words)-1; i++ {
		if strings.EqualFold(s.words[i], "step") {
			step = atoiExpand(s.words[i+1], in.vars, in.macros)
		}
	}
	in.SetVar(varName, strconv.Itoa(start))
	endIdx := fr.prog.matches[fr.pc]

	done := (step >= 0 && start > limit) || (step < 0 && start < limit)
	if done {
		fr.pc = endIdx + 1
		return nil, nil
	}
	*in.currentLoops() = append(*in.currentLoops(), loopFrame{
		kind: blockFor, startIdx: fr.pc, endIdx: endIdx, varName: varName, limit: limit, step: step,
	})
	fr.pc++
	return nil, nil
}

func atoiExpand(tok string, vars map[string]string, macros MacroSource) int {
	v, _ := strconv.Atoi(strings.TrimSpace(expand(tok, vars, macros)))
	return v
}

func (in *Interpreter) execEndFor(fr *frame) (*Wait, error) {
	loops := in.currentLoops()
	if len(*loops) == 0 {
		fr.pc++
		return nil, nil
	}
	top := (*loops)[len(*loops)-1]
	cur := atoiExpand("%{"+top.varName+"}", in.vars, in.macros)
	cur += top.step
	done := (top.step >= 0 && cur > top.limit) || (top.step < 0 && cur < top.limit)
	if done {
		*loops = (*loops)[:len(*loops)-1]
		fr.pc++
		return nil, nil
	}
	in.SetVar(top.varName, strconv.Itoa(cur))
	fr.pc = top.startIdx + 1
	return nil, nil
}

func (in *Interpreter) execWhile(fr *frame, s stmt) (*Wait, error) {
	endIdx := fr.prog.matches[fr.pc]
	cond := evalCondition(s.words[1:], in.vars, in.macros)
	if !cond {
		fr.pc = endIdx + 1
		return nil, nil
	}
	*in.currentLoops() = append(*in.currentLoops(), loopFrame{kind: blockWhile, startIdx: fr.pc, endIdx: endIdx})
	fr.pc++
	return nil, nil
}

func (in *Interpreter) execEndWhile(fr *frame) (*Wait, error) {
	whileIdx := fr.prog.matches[fr.pc]
	loops := in.currentLoops()
	if len(*loops) > 0 {
		*loops = (*loops)[:len(*loops)-1]
	}
	fr.pc = whileIdx // re-test the condition
	return nil, nil
}

func (in *Interpreter) execBreak(fr *frame) (*Wait, error) {
	loops := in.currentLoops()
	if len(*loops) == 0 {
		fr.pc++
		return nil, nil
	}
	top := (*loops)[len(*loops)-1]
	*loops = (*loops)[:len(*loops)-1]
	fr.pc = top.endIdx + 1
	return nil, nil
}

func (in *Interpreter) execContinue(fr *frame) (*Wait, error) {
	loops := in.currentLoops()
	if len(*loops) == 0 {
		fr.pc++
		return nil, nil
	}
	top := (*loops)[len(*loops)-1]
	switch top.kind {
	case blockFor:
		fr.pc = top.endIdx // land on ENDFOR, which performs the increment step
	case blockWhile:
		*loops = (*loops)[:len(*loops)-1]
		fr.pc = top.startIdx // re-test the condition
	}
	return nil, nil
}

func (in *Interpreter) execGoto(fr *frame, s stmt) (*Wait, error) {
	if len(s.words) < 2 {
		return nil, fmt.Errorf("script: GOTO missing label")
	}
	label := strings.ToUpper(s.words[1])
	idx, ok := fr.prog.labels[label]
	if !ok {
		return nil, fmt.Errorf("script: undefined label %q", label)
	}
	fr.loops = nil // leaving via GOTO abandons any enclosing loop tracking
	fr.pc = idx
	return nil, nil
}

func (in *Interpreter) execScriptCall(fr *frame, s stmt) (*Wait, error) {
	if len(s.words) < 2 {
		return nil, fmt.Errorf("script: SCRIPT missing path")
	}
	if len(in.stack) >= maxCallDepth {
		return nil, fmt.Errorf("script: script stack overflow")
	}
	path := evalLiteralOrWord(s.words[1], in.vars, in.macros)
	prog, err := in.load(path)
	if err != nil {
		return nil, fmt.Errorf("script: loading %q: %w", path, err)
	}
	fr.pc++ // resume here on return
	in.stack = append(in.stack, frame{prog: prog})
	return nil, nil
}
