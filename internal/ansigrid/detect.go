package ansigrid

import "regexp"

// dsrReplyPattern matches a terminal's response to ESC[6n: ESC[<row>;<col>R.
var dsrReplyPattern = regexp.MustCompile(`\x1b\[\d+;\d+R`)

// FindDSRReply scans buf for a complete DSR reply and returns the number of
// bytes it spans (0 if none found yet). Used by the script interpreter's
// detectansi built-in, which feeds accumulated input bytes here until a
// match appears or its timeout (default 3000ms, spec §4.4) elapses.
func FindDSRReply(buf []byte) (end int, found bool) {
	loc := dsrReplyPattern.FindIndex(buf)
	if loc == nil {
		return 0, false
	}
	return loc[1], true
}

// ContainsDSRReply is a convenience boolean wrapper over FindDSRReply.
func ContainsDSRReply(buf []byte) bool {
	_, found := FindDSRReply(buf)
	return found
}

// DSRProbe is the literal bytes the detectansi built-in sends.
var DSRProbe = []byte("\x1b[6n")
