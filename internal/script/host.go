package script

// EchoMode controls whether input built-ins echo typed characters.
type EchoMode int

const (
	EchoOn EchoMode = iota
	EchoOff
)

// AuthResult mirrors the object store's authentication outcome (spec §3).
type AuthResult int

const (
	AuthSuccess AuthResult = iota
	AuthNoUser
	AuthBadPassword
	AuthLocked
)

// Host is the set of callbacks the interpreter uses to reach the rest of
// the core (spec §4.4: "host callbacks"). A session (internal/session)
// implements this by delegating to C1 (pipes), C5 (transfers), C6 (store),
// and the mail queues.
type Host interface {
	// Output writes expanded, paged print output toward the line's output
	// pipe.
	Output(s string)

	// ScreenHeight is the user's preferred paging threshold (default 24,
	// spec §4.3/§4.4).
	ScreenHeight() int

	// Terminal mutations.
	ClearScreen()
	SetColor(fg, bg int)
	SetBold(on bool)
	SetStandard()
	SetFlash(on bool)

	// RandomInt returns a uniform value in [lo, hi] (spec §4.4 "random").
	RandomInt(lo, hi int) int

	// HasKey reports whether the bound user holds access-key letter k.
	HasKey(k byte) bool

	// SendDSRProbe writes ESC[6n and arms the ANSI-detect wait.
	SendDSRProbe()

	// Doing emits a UI "activity" event (spec §6).
	Doing(text string)

	// Authenticate runs the object store lookup for the logon/newuser
	// built-ins.
	Authenticate(username, password string) AuthResult
	UsernameAvailable(username string) bool
	CreateUser(username, password string) error
	BindUser(username string)

	// OnlineUsers tabulates bound users on other lines (spec §4.4 "online").
	OnlineUsers() []string

	// SendMail creates a local private message; SendNetmail queues transit
	// netmail (spec §4.4).
	SendMail(toUser, subject, body string)
	SendNetmail(addr, toName, subject, body string)

	// LoginScan walks bases, returns a human-readable summary, and updates
	// the user's last-scan timestamp.
	LoginScan() string
}

// WaitKind names the named suspension states of spec §4.4/§5.
type WaitKind int

const (
	WaitNone WaitKind = iota
	WaitInput
	WaitAnyKey
	WaitPaging
	WaitDetectANSI
	WaitSendFile
	WaitReceiveFile
	WaitDoor
	WaitDone
)

// Wait describes why Step returned without finishing the script.
type Wait struct {
	Kind WaitKind

	// TargetVar receives the resolved value on Resume, for WaitInput.
	TargetVar string
	Echo      EchoMode

	// TimeoutMS is the deadline for WaitDetectANSI (default 3000, spec §4.4).
	TimeoutMS int

	// FileID / Protocol for WaitSendFile/WaitReceiveFile.
	FileID   string
	Protocol string
}
