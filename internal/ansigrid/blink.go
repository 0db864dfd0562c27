package ansigrid

import "time"

// BlinkHz is the flash toggle rate (spec §4.3: "A blink timer (2 Hz)").
const BlinkHz = 2

// BlinkInterval is the period between visibility toggles.
const BlinkInterval = time.Second / BlinkHz

// Blinker tracks the on/off phase of flashing cells, independent of the
// Grid itself so tests can drive it deterministically.
type Blinker struct {
	visible bool
}

// NewBlinker starts with flashing cells visible.
func NewBlinker() *Blinker { return &Blinker{visible: true} }

// Toggle flips the visibility phase; call this once per BlinkInterval.
func (b *Blinker) Toggle() { b.visible = !b.visible }

// Visible reports whether flashing cells should currently render.
func (b *Blinker) Visible() bool { return b.visible }

// DisplayChar returns the rune to actually render for a cell, substituting
// a space for flashing cells during the "off" phase of the blink cycle.
func (b *Blinker) DisplayChar(c Cell) rune {
	if c.Attr.Flash() && !b.visible {
		return ' '
	}
	return c.Ch
}
