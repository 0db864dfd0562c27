package script

// logonDialogProgram and newuserDialogProgram implement the spec §4.4
// `logon`/`newuser` built-ins: each is a credential subdialog expressed in
// the same line-oriented language the rest of a script uses, pushed as an
// ordinary call frame so it benefits from the same suspend/resume
// machinery as any other subscript. They set a result variable
// (logon_result / newuser_result) rather than failing the calling script
// outright — "LOGON falls through to the script's failure path" per spec,
// meaning the caller inspects the result and decides what happens next.
var (
	logonDialogProgram   = mustParse("<logon>", logonDialogSrc)
	newuserDialogProgram = mustParse("<newuser>", newuserDialogSrc)
)

const logonDialogSrc = "readline __logon_user\n" +
	"readline __logon_pass noecho\n" +
	"logoncheck\n" +
	"return\n"

const newuserDialogSrc = "readline __newuser_user\n" +
	"newuseravailcheck\n" +
	"if %{__newuser_avail} == 0 then\n" +
	"  return\n" +
	"end if\n" +
	"readline __newuser_pass noecho\n" +
	"newusercreate\n" +
	"return\n"

func mustParse(path, src string) *Program {
	p, err := Parse(path, src)
	if err != nil {
		panic("script: built-in dialog " + path + " failed to parse: " + err.Error())
	}
	return p
}

func authResultToken(r AuthResult) string {
	switch r {
	case AuthSuccess:
		return "OK"
	case AuthBadPassword:
		return "BADPASS"
	case AuthLocked:
		return "LOCKED"
	default:
		return "NOUSER"
	}
}
