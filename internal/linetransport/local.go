package linetransport

import "github.com/stlalpha/v3bbs/internal/uievents"

// LocalLink represents the console/local line (spec §4.2 Local): it never
// accepts external connections; connect/disconnect is driven entirely by
// shell commands (spec §6 "logon line").
type LocalLink struct {
	line   *Line
	events *uievents.Bus
}

// NewLocalLink wires a local line to the event bus.
func NewLocalLink(line *Line, events *uievents.Bus) *LocalLink {
	return &LocalLink{line: line, events: events}
}

// Logon is invoked when the shell issues "logon line" for this local line.
func (l *LocalLink) Logon() {
	l.line.Connect("LOCAL")
	if l.events != nil {
		l.events.Publish(uievents.Event{Kind: uievents.LineConnected, Line: l.line.ID, Text: "LOCAL"})
	}
}

// Logoff tears the local session down.
func (l *LocalLink) Logoff() {
	l.line.Disconnect()
	if l.events != nil {
		l.events.Publish(uievents.Event{Kind: uievents.LineDisconnected, Line: l.line.ID})
	}
}
