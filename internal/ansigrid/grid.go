// Package ansigrid implements the session's ANSI terminal model (spec
// §4.3): an 80x25 cell grid where each cell holds a codepoint and a 16-bit
// attribute word (foreground 0-15, background 0-7, an independent flash
// bit), driven by control bytes and a subset of CSI escape sequences. The
// CSI dispatch shape is grounded on internal/terminal/parser.go's
// byte-by-byte state machine, generalized from "format output for the
// wire" to "maintain a model of what the remote screen shows".
package ansigrid

const (
	Width  = 80
	Height = 25
)

// Attr is the 16-bit attribute word: bits 0-3 foreground, bits 4-6
// background, bit 8 flash (spec §4.3).
type Attr uint16

const (
	attrFGMask  Attr = 0x000F
	attrBGShift      = 4
	attrBGMask  Attr = 0x0070
	attrFlash   Attr = 0x0100
)

func NewAttr(fg, bg int, flash bool) Attr {
	a := Attr(fg&0x0F) | (Attr(bg&0x07) << attrBGShift)
	if flash {
		a |= attrFlash
	}
	return a
}

func (a Attr) FG() int     { return int(a & attrFGMask) }
func (a Attr) BG() int     { return int((a & attrBGMask) >> attrBGShift) }
func (a Attr) Flash() bool { return a&attrFlash != 0 }

// DefaultAttr is white-on-black, no flash.
const DefaultAttr Attr = 7

// Cell is one position in the grid.
type Cell struct {
	Ch   rune
	Attr Attr
}

// parserState drives the escape/CSI scanner.
type parserState int

const (
	stNormal parserState = iota
	stEsc
	stCSI
)

// Grid is the 80x25 cell grid model plus cursor/attribute state.
type Grid struct {
	cells [Height][Width]Cell

	curRow, curCol int
	attr           Attr

	state      parserState
	csiParams  []int
	csiCurrent string // accumulates digits of the parameter currently being parsed
	csiPrivate bool   // '?' prefix seen

	// scrollTop/scrollBottom define the scrolling region, 0-based,
	// inclusive; defaults to the whole screen.
	scrollTop, scrollBottom int

	// dsrPending is set by a DSR request (ESC[6n) caller; DetectANSI uses
	// this along with a reply parser (see detect.go).
	dsrRequested bool
}

// New constructs a blank grid, cursor at (0,0), default attribute.
func New() *Grid {
	g := &Grid{attr: DefaultAttr}
	g.scrollBottom = Height - 1
	g.clearAll()
	return g
}

func (g *Grid) clearAll() {
	for r := 0; r < Height; r++ {
		for c := 0; c < Width; c++ {
			g.cells[r][c] = Cell{Ch: ' ', Attr: g.attr}
		}
	}
}

// Cursor returns the 0-based cursor row/col.
func (g *Grid) Cursor() (row, col int) { return g.curRow, g.curCol }

// Cell returns the cell at row,col (0-based); out-of-range returns a blank
// cell.
func (g *Grid) Cell(row, col int) Cell {
	if row < 0 || row >= Height || col < 0 || col >= Width {
		return Cell{Ch: ' '}
	}
	return g.cells[row][col]
}

// Write feeds raw output bytes (as the session would send to the remote
// terminal) through the model, updating cursor/grid/attribute state. This
// lets the core track "what the screen looks like" for row-scoped redraw
// without re-parsing what was already sent (spec §4.3: "redraw is
// row-scoped to avoid whole-screen flicker").
func (g *Grid) Write(p []byte) {
	for _, b := range p {
		g.step(b)
	}
}

func (g *Grid) step(b byte) {
	switch g.state {
	case stNormal:
		g.stepNormal(b)
	case stEsc:
		g.stepEsc(b)
	case stCSI:
		g.stepCSI(b)
	}
}

func (g *Grid) stepNormal(b byte) {
	switch b {
	case 0x1B: // ESC
		g.state = stEsc
	case '\b': // BS
		if g.curCol > 0 {
			g.curCol--
		}
	case '\t': // TAB, next multiple of 8
		g.curCol = ((g.curCol / 8) + 1) * 8
		if g.curCol >= Width {
			g.curCol = Width - 1
		}
	case '\n', '\v': // LF/VT
		g.lineFeed()
	case '\f': // FF
		g.clearAll()
		g.curRow, g.curCol = 0, 0
	case '\r': // CR
		g.curCol = 0
	default:
		g.putChar(rune(b))
	}
}

func (g *Grid) putChar(r rune) {
	if g.curCol >= Width {
		g.curCol = 0
		g.lineFeed()
	}
	g.cells[g.curRow][g.curCol] = Cell{Ch: r, Attr: g.attr}
	g.curCol++
}

func (g *Grid) lineFeed() {
	if g.curRow == g.scrollBottom {
		g.scrollUp(1)
	} else if g.curRow < Height-1 {
		g.curRow++
	}
}

func (g *Grid) scrollUp(n int) {
	for i := 0; i < n; i++ {
		for r := g.scrollTop; r < g.scrollBottom; r++ {
			g.cells[r] = g.cells[r+1]
		}
		for c := 0; c < Width; c++ {
			g.cells[g.scrollBottom][c] = Cell{Ch: ' ', Attr: g.attr}
		}
	}
}

func (g *Grid) scrollDown(n int) {
	for i := 0; i < n; i++ {
		for r := g.scrollBottom; r > g.scrollTop; r-- {
			g.cells[r] = g.cells[r-1]
		}
		for c := 0; c < Width; c++ {
			g.cells[g.scrollTop][c] = Cell{Ch: ' ', Attr: g.attr}
		}
	}
}

func (g *Grid) stepEsc(b byte) {
	switch b {
	case '[':
		g.state = stCSI
		g.csiParams = nil
		g.csiCurrent = ""
		g.csiPrivate = false
	default:
		// Unrecognized single-char escape; ignore and return to normal.
		g.state = stNormal
	}
}

func (g *Grid) stepCSI(b byte) {
	switch {
	case b == '?':
		g.csiPrivate = true
	case b >= '0' && b <= '9':
		g.csiCurrent += string(b)
	case b == ';':
		g.csiParams = append(g.csiParams, atoiDefault(g.csiCurrent, 0))
		g.csiCurrent = ""
	default:
		g.csiParams = append(g.csiParams, atoiDefault(g.csiCurrent, 0))
		g.dispatchCSI(b, g.csiParams)
		g.state = stNormal
	}
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

func param(p []int, i, def int) int {
	if i >= len(p) || p[i] == 0 {
		return def
	}
	return p[i]
}

func (g *Grid) dispatchCSI(final byte, p []int) {
	switch final {
	case 'A': // CUU
		g.curRow -= param(p, 0, 1)
		g.clampCursor()
	case 'B': // CUD
		g.curRow += param(p, 0, 1)
		g.clampCursor()
	case 'C': // CUF
		g.curCol += param(p, 0, 1)
		g.clampCursor()
	case 'D': // CUB
		g.curCol -= param(p, 0, 1)
		g.clampCursor()
	case 'H', 'f': // CUP
		g.curRow = param(p, 0, 1) - 1
		g.curCol = param(p, 1, 1) - 1
		g.clampCursor()
	case 'J': // ED
		g.eraseDisplay(param(p, 0, 0))
	case 'K': // EL
		g.eraseLine(param(p, 0, 0))
	case 'L': // IL - insert line(s): scroll down within region
		g.scrollDown(param(p, 0, 1))
	case 'M': // DL - delete line(s): scroll up within region
		g.scrollUp(param(p, 0, 1))
	case 'm': // SGR
		g.sgr(p)
	case 'n': // DSR
		if param(p, 0, 0) == 6 {
			g.dsrRequested = true
		}
	}
}

func (g *Grid) clampCursor() {
	if g.curRow < 0 {
		g.curRow = 0
	}
	if g.curRow >= Height {
		g.curRow = Height - 1
	}
	if g.curCol < 0 {
		g.curCol = 0
	}
	if g.curCol >= Width {
		g.curCol = Width - 1
	}
}

func (g *Grid) eraseDisplay(mode int) {
	switch mode {
	case 0: // cursor to end
		g.eraseLine(0)
		for r := g.curRow + 1; r < Height; r++ {
			g.clearRow(r)
		}
	case 1: // start to cursor
		for r := 0; r < g.curRow; r++ {
			g.clearRow(r)
		}
		g.eraseLine(1)
	case 2, 3: // whole screen
		g.clearAll()
	}
}

func (g *Grid) clearRow(r int) {
	for c := 0; c < Width; c++ {
		g.cells[r][c] = Cell{Ch: ' ', Attr: g.attr}
	}
}

func (g *Grid) eraseLine(mode int) {
	switch mode {
	case 0: // cursor to end of line
		for c := g.curCol; c < Width; c++ {
			g.cells[g.curRow][c] = Cell{Ch: ' ', Attr: g.attr}
		}
	case 1: // start of line to cursor
		for c := 0; c <= g.curCol && c < Width; c++ {
			g.cells[g.curRow][c] = Cell{Ch: ' ', Attr: g.attr}
		}
	case 2: // whole line
		g.clearRow(g.curRow)
	}
}

// sgr applies Select Graphic Rendition codes. Both "ESC[m" (no params) and
// "ESC[0m" mean full reset (spec §4.3).
func (g *Grid) sgr(p []int) {
	if len(p) == 0 {
		g.attr = DefaultAttr
		return
	}
	fg, bg, flash := g.attr.FG(), g.attr.BG(), g.attr.Flash()
	bold := fg >= 8
	for _, code := range p {
		switch {
		case code == 0:
			fg, bg, flash, bold = 7, 0, false, false
		case code == 1:
			bold = true
		case code == 5:
			flash = true
		case code == 25:
			flash = false
		case code >= 30 && code <= 37:
			fg = code - 30
		case code == 39:
			fg = 7
		case code >= 40 && code <= 47:
			bg = code - 40
		case code == 49:
			bg = 0
		}
	}
	if bold && fg < 8 {
		fg += 8
	}
	g.attr = NewAttr(fg, bg, flash)
}

// DSRRequested reports (and clears) whether a cursor-position request
// (ESC[6n) was seen since the last call; used by the script interpreter's
// detectansi built-in.
func (g *Grid) DSRRequested() bool {
	v := g.dsrRequested
	g.dsrRequested = false
	return v
}

// DSRReply formats the terminal's reply to ESC[6n: "ESC[<row>;<col>R",
// 1-based.
func (g *Grid) DSRReply() []byte {
	return []byte(formatCSI(g.curRow+1, g.curCol+1))
}

func formatCSI(row, col int) string {
	return "\x1b[" + itoa(row) + ";" + itoa(col) + "R"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
