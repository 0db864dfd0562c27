package echofix

import (
	"fmt"
	"hash/crc32"
	"strings"
	"testing"
)

func TestRecipientKind(t *testing.T) {
	if k, ok := RecipientKind("AreaFix"); !ok || k != KindArea {
		t.Fatalf("got %v %v", k, ok)
	}
	if k, ok := RecipientKind("  filefix "); !ok || k != KindFile {
		t.Fatalf("got %v %v", k, ok)
	}
	if _, ok := RecipientKind("SomeUser"); ok {
		t.Fatal("expected not a request recipient")
	}
}

func TestParseRequest(t *testing.T) {
	body := "\nswordfish\n+FSX_GEN\n-FSX_CHAT\n%QUERY\n"
	pw, lines := ParseRequest(body)
	if pw != "swordfish" {
		t.Fatalf("password = %q", pw)
	}
	want := []string{"+FSX_GEN", "-FSX_CHAT", "%QUERY"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %v", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestParseCommands(t *testing.T) {
	cmds := ParseCommands([]string{"+fsx_gen", "-fsx_chat", "fsx_dev", "%LIST", "%pause"})
	if cmds[0].Kind != CmdSubscribe || cmds[0].Tag != "FSX_GEN" {
		t.Fatalf("cmd0 = %+v", cmds[0])
	}
	if cmds[1].Kind != CmdUnsubscribe || cmds[1].Tag != "FSX_CHAT" {
		t.Fatalf("cmd1 = %+v", cmds[1])
	}
	if cmds[2].Kind != CmdToggle || cmds[2].Tag != "FSX_DEV" {
		t.Fatalf("cmd2 = %+v", cmds[2])
	}
	if cmds[3].Kind != CmdList {
		t.Fatalf("cmd3 = %+v", cmds[3])
	}
	if cmds[4].Kind != CmdPause {
		t.Fatalf("cmd4 = %+v", cmds[4])
	}
}

func newLink(password string, maxCount int) *Link {
	subs := []string{}
	paused := false
	return &Link{Password: password, Subscriptions: &subs, MaxCount: maxCount, Paused: &paused}
}

func TestProcessSubscribeUnsubscribe(t *testing.T) {
	link := newLink("swordfish", 0)
	known := []string{"FSX_GEN", "FSX_CHAT"}

	cmds := ParseCommands([]string{"+fsx_gen"})
	reply, err := Process(KindArea, "swordfish", cmds, link, known)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !strings.Contains(reply, "FSX_GEN: subscribed") {
		t.Fatalf("reply = %q", reply)
	}
	if !contains(*link.Subscriptions, "FSX_GEN") {
		t.Fatalf("subscriptions = %v", *link.Subscriptions)
	}

	cmds = ParseCommands([]string{"+fsx_gen"})
	reply, _ = Process(KindArea, "swordfish", cmds, link, known)
	if !strings.Contains(reply, "already subscribed") {
		t.Fatalf("reply = %q", reply)
	}

	cmds = ParseCommands([]string{"-fsx_gen"})
	reply, _ = Process(KindArea, "swordfish", cmds, link, known)
	if !strings.Contains(reply, "unsubscribed") {
		t.Fatalf("reply = %q", reply)
	}
	if contains(*link.Subscriptions, "FSX_GEN") {
		t.Fatal("expected FSX_GEN removed")
	}
}

func TestProcessBadPassword(t *testing.T) {
	link := newLink("swordfish", 0)
	_, err := Process(KindArea, "wrong", ParseCommands([]string{"+FSX_GEN"}), link, []string{"FSX_GEN"})
	if err != ErrBadPassword {
		t.Fatalf("err = %v, want ErrBadPassword", err)
	}
}

func TestProcessUnknownAndUnauthorized(t *testing.T) {
	link := newLink("", 0)
	link.Allowed = []string{"FSX_*"}

	reply, _ := Process(KindArea, "", ParseCommands([]string{"+UNKNOWN_TAG"}), link, []string{"FSX_GEN"})
	if !strings.Contains(reply, "unknown") {
		t.Fatalf("reply = %q", reply)
	}

	reply, _ = Process(KindArea, "", ParseCommands([]string{"+OTHER_NET"}), link, []string{"FSX_GEN", "OTHER_NET"})
	if !strings.Contains(reply, "not authorized") {
		t.Fatalf("reply = %q", reply)
	}
}

func TestProcessMaxCount(t *testing.T) {
	link := newLink("", 1)
	known := []string{"FSX_GEN", "FSX_CHAT"}
	Process(KindArea, "", ParseCommands([]string{"+FSX_GEN"}), link, known)
	reply, _ := Process(KindArea, "", ParseCommands([]string{"+FSX_CHAT"}), link, known)
	if !strings.Contains(reply, "limit") {
		t.Fatalf("reply = %q", reply)
	}
}

func TestProcessPauseResume(t *testing.T) {
	link := newLink("", 0)
	Process(KindArea, "", ParseCommands([]string{"%PAUSE"}), link, nil)
	if !*link.Paused {
		t.Fatal("expected paused")
	}
	Process(KindArea, "", ParseCommands([]string{"%RESUME"}), link, nil)
	if *link.Paused {
		t.Fatal("expected resumed")
	}
}

func TestParseTICAndCRC(t *testing.T) {
	data := []byte("some file payload bytes")
	crc := crc32.ChecksumIEEE(data)

	raw := "File TESTFILE.ZIP\n" +
		"Area FSX_FILES\n" +
		"Desc A test file\n" +
		"Size 1234\n" +
		"CRC " + fmt.Sprintf("%08X", crc) + "\n" +
		"Origin 21:4/158\n" +
		"Seenby 21:4/158\n" +
		"Path 21:4/158\n"

	tic, err := ParseTIC(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("ParseTIC: %v", err)
	}
	if tic.File != "TESTFILE.ZIP" || tic.Area != "FSX_FILES" || tic.Size != 1234 {
		t.Fatalf("tic = %+v", tic)
	}
	if !tic.VerifyCRC(data) {
		t.Fatal("expected CRC to verify")
	}
	if tic.VerifyCRC([]byte("different data")) {
		t.Fatal("expected CRC mismatch on different data")
	}

	withAka := tic.WithLocalAKA("21:4/100")
	if withAka.Path[0] != "21:4/100" || withAka.Seenby[len(withAka.Seenby)-1] != "21:4/100" {
		t.Fatalf("withAka = %+v", withAka)
	}

	var b strings.Builder
	if err := WriteTIC(&b, tic); err != nil {
		t.Fatalf("WriteTIC: %v", err)
	}
	if !strings.Contains(b.String(), "File TESTFILE.ZIP") {
		t.Fatalf("written TIC = %q", b.String())
	}
}
