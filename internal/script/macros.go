package script

import (
	"strconv"
	"time"
)

// MacroSource supplies the read-only system-produced values listed in spec
// §4.4's macro table. Host implementations (internal/session) back this
// with live line/user/clock state.
type MacroSource interface {
	// AccessLevel, UserID, Registered, Sysop, Keys identify the bound user.
	AccessLevel() int
	UserID() int
	Registered() bool
	Sysop() bool
	Keys() string // 26-char A-Z key bitmap rendered as present/absent letters

	Line() int

	// Selection macros (message/file base and area).
	MessageBaseID() string
	MessageBaseName() string
	MessageBaseAreaID() string
	MessageBaseAreaName() string
	FileBaseID() string
	FileBaseName() string
	FileBaseAreaID() string
	FileBaseAreaName() string

	ANSI() bool
}

// clockNow is overridable in tests; production uses time.Now.
var clockNow = time.Now

// dayOfWeekZero resolves the spec's Open Question: 0=Sunday, matching Go's
// own time.Weekday zero value (see DESIGN.md).
func dayOfWeekZero(t time.Time) int { return int(t.Weekday()) }

// lookupMacro resolves one macro name (already lower-cased) against src and
// the wall clock. ok is false for an unrecognized name.
func lookupMacro(name string, src MacroSource) (string, bool) {
	now := clockNow()
	switch name {
	case "accesslevel":
		return strconv.Itoa(src.AccessLevel()), true
	case "userid":
		return strconv.Itoa(src.UserID()), true
	case "registered":
		return boolStr(src.Registered()), true
	case "sysop":
		return boolStr(src.Sysop()), true
	case "keys":
		return src.Keys(), true
	case "hour":
		return strconv.Itoa(now.Hour()), true
	case "minute":
		return strconv.Itoa(now.Minute()), true
	case "dayofweek":
		return strconv.Itoa(dayOfWeekZero(now)), true
	case "day":
		return strconv.Itoa(now.Day()), true
	case "month":
		return strconv.Itoa(int(now.Month())), true
	case "year":
		return strconv.Itoa(now.Year()), true
	case "line":
		return strconv.Itoa(src.Line()), true
	case "messagebaseid":
		return src.MessageBaseID(), true
	case "messagebasename":
		return src.MessageBaseName(), true
	case "messagebaseareaid":
		return src.MessageBaseAreaID(), true
	case "messagebaseareaname":
		return src.MessageBaseAreaName(), true
	case "filebaseid":
		return src.FileBaseID(), true
	case "filebasename":
		return src.FileBaseName(), true
	case "filebaseareaid":
		return src.FileBaseAreaID(), true
	case "filebaseareaname":
		return src.FileBaseAreaName(), true
	case "ansi":
		return boolStr(src.ANSI()), true
	default:
		return "", false
	}
}

func boolStr(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
