package echofix

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Link is the subset of an FTN link's AreaFix/FileFix state this package
// needs to mutate. *config.FTNLinkConfig satisfies it directly.
type Link struct {
	Password      string   // areafix_password this request must match
	Subscriptions *[]string
	Allowed       []string // wildcard patterns (*, ?); empty = allow anything known
	MaxCount      int      // 0 = unlimited
	Paused        *bool
}

// ErrBadPassword is returned when the request's password line doesn't
// match the configured AreaFix/FileFix password for the link.
var ErrBadPassword = fmt.Errorf("echofix: password does not match")

// Process runs cmds against link's subscription state, given the set of
// tags that actually exist (knownTags, any order). It returns the reply
// text to mail back to the requester. Subscription changes are applied
// to link's Subscriptions slice in place as each command is validated.
func Process(kind Kind, password string, cmds []Command, link *Link, knownTags []string) (reply string, err error) {
	if link.Password != "" && !strings.EqualFold(password, link.Password) {
		return "", ErrBadPassword
	}

	known := func(tag string) bool { return contains(knownTags, tag) }

	var b strings.Builder
	label := "Area"
	if kind == KindFile {
		label = "File"
	}

	for _, cmd := range cmds {
		switch cmd.Kind {
		case CmdList:
			writeList(&b, knownTags)
		case CmdQuery:
			writeSubscriptions(&b, *link.Subscriptions)
		case CmdHelp:
			writeHelp(&b, label)
		case CmdPause:
			*link.Paused = true
			fmt.Fprintf(&b, "Mail flow paused.\n")
		case CmdResume:
			*link.Paused = false
			fmt.Fprintf(&b, "Mail flow resumed.\n")
		case CmdSubscribe:
			processSubscribe(&b, link, known, cmd.Tag, label)
		case CmdUnsubscribe:
			processUnsubscribe(&b, link, cmd.Tag, label)
		case CmdToggle:
			if contains(*link.Subscriptions, cmd.Tag) {
				processUnsubscribe(&b, link, cmd.Tag, label)
			} else {
				processSubscribe(&b, link, known, cmd.Tag, label)
			}
		}
	}
	return b.String(), nil
}

func processSubscribe(b *strings.Builder, link *Link, known func(string) bool, tag, label string) {
	if !known(tag) {
		fmt.Fprintf(b, "%s %s: unknown, not subscribed.\n", label, tag)
		return
	}
	if !allowedTag(link.Allowed, tag) {
		fmt.Fprintf(b, "%s %s: not authorized.\n", label, tag)
		return
	}
	if contains(*link.Subscriptions, tag) {
		fmt.Fprintf(b, "%s %s: already subscribed.\n", label, tag)
		return
	}
	if link.MaxCount > 0 && len(*link.Subscriptions) >= link.MaxCount {
		fmt.Fprintf(b, "%s %s: subscription limit (%d) reached.\n", label, tag, link.MaxCount)
		return
	}
	*link.Subscriptions = append(*link.Subscriptions, tag)
	fmt.Fprintf(b, "%s %s: subscribed.\n", label, tag)
}

func processUnsubscribe(b *strings.Builder, link *Link, tag, label string) {
	if !contains(*link.Subscriptions, tag) {
		fmt.Fprintf(b, "%s %s: not subscribed.\n", label, tag)
		return
	}
	*link.Subscriptions = remove(*link.Subscriptions, tag)
	fmt.Fprintf(b, "%s %s: unsubscribed.\n", label, tag)
}

func writeSubscriptions(b *strings.Builder, subs []string) {
	sorted := append([]string(nil), subs...)
	sort.Strings(sorted)
	if len(sorted) == 0 {
		fmt.Fprintf(b, "No active subscriptions.\n")
		return
	}
	for _, s := range sorted {
		fmt.Fprintf(b, "%s\n", s)
	}
}

func writeList(b *strings.Builder, knownTags []string) {
	sorted := append([]string(nil), knownTags...)
	sort.Strings(sorted)
	fmt.Fprintf(b, "Use +TAG to subscribe, -TAG to unsubscribe.\n")
	for _, t := range sorted {
		fmt.Fprintf(b, "%s\n", t)
	}
}

func writeHelp(b *strings.Builder, label string) {
	fmt.Fprintf(b, "+TAG       subscribe to %s TAG\n", strings.ToLower(label))
	fmt.Fprintf(b, "-TAG       unsubscribe from %s TAG\n", strings.ToLower(label))
	fmt.Fprintf(b, "TAG        toggle subscription to TAG\n")
	fmt.Fprintf(b, "%%LIST      list available %ss\n", strings.ToLower(label))
	fmt.Fprintf(b, "%%QUERY     list your current subscriptions\n")
	fmt.Fprintf(b, "%%PAUSE     suspend mail flow\n")
	fmt.Fprintf(b, "%%RESUME    resume mail flow\n")
	fmt.Fprintf(b, "%%HELP      this message\n")
}

func allowedTag(patterns []string, tag string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if ok, _ := filepath.Match(strings.ToUpper(p), strings.ToUpper(tag)); ok {
			return true
		}
	}
	return false
}

func contains(list []string, tag string) bool {
	for _, t := range list {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func remove(list []string, tag string) []string {
	out := list[:0]
	for _, t := range list {
		if !strings.EqualFold(t, tag) {
			out = append(out, t)
		}
	}
	return out
}
