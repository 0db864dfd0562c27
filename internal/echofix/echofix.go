// Package echofix implements AreaFix/FileFix subscription management and
// TIC file-echo distribution for inbound netmail directed at those
// pseudo-users.
package echofix

import "strings"

// requestRecipients are the netmail "To" usernames treated as subscription
// requests rather than ordinary netmail, matched case-insensitively.
var requestRecipients = map[string]Kind{
	"areafix": KindArea,
	"areamgr": KindArea,
	"filefix": KindFile,
	"filemgr": KindFile,
}

// Kind distinguishes an echomail-area request from a file-area request;
// the two are validated against different allow-lists but share the same
// command grammar.
type Kind int

const (
	KindArea Kind = iota
	KindFile
)

// RecipientKind reports whether to is a recognized AreaFix/FileFix
// pseudo-user and, if so, which kind of request it expects.
func RecipientKind(to string) (Kind, bool) {
	k, ok := requestRecipients[strings.ToLower(strings.TrimSpace(to))]
	return k, ok
}

// CommandKind identifies one parsed request-body directive.
type CommandKind int

const (
	CmdSubscribe CommandKind = iota
	CmdUnsubscribe
	CmdToggle
	CmdList
	CmdQuery
	CmdHelp
	CmdPause
	CmdResume
)

// Command is one parsed directive from a request body.
type Command struct {
	Kind CommandKind
	Tag  string // area/file tag; empty for %LIST/%QUERY/%HELP/%PAUSE/%RESUME
}

// ParseRequest splits a request body into its password (first non-blank
// line) and command lines. Leading/trailing blank lines are ignored.
func ParseRequest(body string) (password string, commandLines []string) {
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	if i >= len(lines) {
		return "", nil
	}
	password = strings.TrimSpace(lines[i])
	for _, l := range lines[i+1:] {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		commandLines = append(commandLines, l)
	}
	return password, commandLines
}

// ParseCommands interprets each request-body line as a Command. Unknown
// lines are returned as CmdToggle so callers can reject (or report
// "unknown area") an unrecognized tag the same way they would an area the
// requester isn't allowed to touch.
func ParseCommands(lines []string) []Command {
	cmds := make([]Command, 0, len(lines))
	for _, l := range lines {
		switch {
		case strings.EqualFold(l, "%LIST"):
			cmds = append(cmds, Command{Kind: CmdList})
		case strings.EqualFold(l, "%QUERY"):
			cmds = append(cmds, Command{Kind: CmdQuery})
		case strings.EqualFold(l, "%HELP"):
			cmds = append(cmds, Command{Kind: CmdHelp})
		case strings.EqualFold(l, "%PAUSE"):
			cmds = append(cmds, Command{Kind: CmdPause})
		case strings.EqualFold(l, "%RESUME"):
			cmds = append(cmds, Command{Kind: CmdResume})
		case strings.HasPrefix(l, "+"):
			cmds = append(cmds, Command{Kind: CmdSubscribe, Tag: strings.ToUpper(strings.TrimSpace(l[1:]))})
		case strings.HasPrefix(l, "-"):
			cmds = append(cmds, Command{Kind: CmdUnsubscribe, Tag: strings.ToUpper(strings.TrimSpace(l[1:]))})
		default:
			cmds = append(cmds, Command{Kind: CmdToggle, Tag: strings.ToUpper(strings.TrimSpace(l))})
		}
	}
	return cmds
}
