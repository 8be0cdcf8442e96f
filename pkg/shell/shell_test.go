package shell

import (
	"reflect"
	"strings"
	"testing"
)

// unquotePosix parses a single POSIX shell word produced by Quote,
// honoring single-quote regions and the '\'' escape sequence, so the
// round-trip property can be checked without a real shell.
func unquotePosix(t *testing.T, quoted string) string {
	t.Helper()
	var out strings.Builder
	inQuotes := false
	for i := 0; i < len(quoted); i++ {
		ch := quoted[i]
		switch {
		case ch == '\'':
			inQuotes = !inQuotes
		case ch == '\\' && !inQuotes && i+1 < len(quoted):
			i++
			out.WriteByte(quoted[i])
		case !inQuotes:
			t.Fatalf("unquoted byte %q outside quotes in %q", ch, quoted)
		default:
			out.WriteByte(ch)
		}
	}
	if inQuotes {
		t.Fatalf("unterminated quote in %q", quoted)
	}
	return out.String()
}

func TestPosixQuote_RoundTrip(t *testing.T) {
	d, err := Lookup("bash")
	if err != nil {
		t.Fatal(err)
	}

	inputs := []string{
		"plain",
		"",
		"two words",
		"it's",
		"''",
		"ends with '",
		"' starts with",
		"$HOME and `whoami` and $(date)",
		"semi;colons && pipes | redirects > files",
		"tab\tand\nnewline",
		`back\slash`,
		"*glob? [chars]",
	}

	for _, in := range inputs {
		quoted := d.Quote(in)
		if got := unquotePosix(t, quoted); got != in {
			t.Errorf("Quote(%q) = %q, round-trips to %q", in, quoted, got)
		}
	}
}

// Metacharacters must survive quoting literally; only the quote
// boundary itself is escaped.
func TestPosixQuote_MetacharactersStayLiteral(t *testing.T) {
	d, err := Lookup("sh")
	if err != nil {
		t.Fatal(err)
	}
	if got := d.Quote("$(rm -rf /)"); got != `'$(rm -rf /)'` {
		t.Errorf("Quote() = %q, want the metacharacters untouched inside quotes", got)
	}
	if got := d.Escape("a'b"); got != `a'\''b` {
		t.Errorf("Escape() = %q", got)
	}
}

func TestPosixJoinAndCommand(t *testing.T) {
	d, err := Lookup("zsh")
	if err != nil {
		t.Fatal(err)
	}

	joined := d.Join("git", "commit", "-m", "it's done")
	if want := `'git' 'commit' '-m' 'it'\''s done'`; joined != want {
		t.Errorf("Join() = %q, want %q", joined, want)
	}

	argv := d.Command(joined)
	if want := []string{"zsh", "-c", joined}; !reflect.DeepEqual(argv, want) {
		t.Errorf("Command() = %v, want %v", argv, want)
	}
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"bash", "zsh", "fish", "sh", "dash", "tcsh", "powershell", "cmd"} {
		if _, err := Lookup(name); err != nil {
			t.Errorf("Lookup(%q) error = %v", name, err)
		}
	}

	// Name matching is forgiving of case and surrounding space.
	if d, err := Lookup("  Bash "); err != nil || d.Name() != "bash" {
		t.Errorf("Lookup with case/space = %v, %v", d, err)
	}

	_, err := Lookup("ksh")
	var uerr *UnknownDialectError
	if !errorsAs(err, &uerr) {
		t.Fatalf("want *UnknownDialectError, got %T", err)
	}
	if uerr.Name != "ksh" || !strings.Contains(uerr.Error(), "bash") {
		t.Errorf("unexpected error detail: %v", uerr)
	}
}

func errorsAs(err error, target *(*UnknownDialectError)) bool {
	e, ok := err.(*UnknownDialectError)
	if ok {
		*target = e
	}
	return ok
}

func TestHeadlessEnvironment_IsACopy(t *testing.T) {
	d, err := Lookup("bash")
	if err != nil {
		t.Fatal(err)
	}
	env := d.HeadlessEnvironment()
	if env["DEBIAN_FRONTEND"] != "noninteractive" || env["GIT_TERMINAL_PROMPT"] != "0" {
		t.Errorf("unexpected headless environment: %v", env)
	}
	env["DEBIAN_FRONTEND"] = "mutated"
	if d.HeadlessEnvironment()["DEBIAN_FRONTEND"] != "noninteractive" {
		t.Error("mutating the returned map leaked into the dialect")
	}
}

func TestPowershellDialect(t *testing.T) {
	d, err := Lookup("powershell")
	if err != nil {
		t.Fatal(err)
	}

	if got := d.Quote("it's"); got != "'it''s'" {
		t.Errorf("Quote() = %q", got)
	}
	if got := d.Join(`C:\tools\run.exe`, "arg one"); got != `& 'C:\tools\run.exe' 'arg one'` {
		t.Errorf("Join() = %q", got)
	}
	argv := d.Command("& 'x'")
	if want := []string{"powershell", "-NoProfile", "-NonInteractive", "-Command", "& 'x'"}; !reflect.DeepEqual(argv, want) {
		t.Errorf("Command() = %v, want %v", argv, want)
	}
	if got := d.EnvVar("PATH"); got != "$env:PATH" {
		t.Errorf("EnvVar() = %q", got)
	}
	if got := d.FormatPath("a/b/c"); got != `a\b\c` {
		t.Errorf("FormatPath() = %q", got)
	}
}

func TestCmdDialect(t *testing.T) {
	d, err := Lookup("cmd")
	if err != nil {
		t.Fatal(err)
	}

	if got := d.Quote(`say "hi"`); got != `"say ""hi"""` {
		t.Errorf("Quote() = %q", got)
	}
	if got := d.Quote("100%"); got != `"100%%"` {
		t.Errorf("Quote() = %q, percent must be doubled", got)
	}
	argv := d.Command(`"x" "y"`)
	if want := []string{"cmd.exe", "/C", `"x" "y"`}; !reflect.DeepEqual(argv, want) {
		t.Errorf("Command() = %v, want %v", argv, want)
	}
	if got := d.EnvVar("TEMP"); got != "%TEMP%" {
		t.Errorf("EnvVar() = %q", got)
	}
}

func TestNames_SortedAndComplete(t *testing.T) {
	names := Names()
	if !sortedStrings(names) {
		t.Errorf("Names() not sorted: %v", names)
	}
	want := map[string]bool{
		"bash": true, "zsh": true, "fish": true, "sh": true,
		"dash": true, "tcsh": true, "powershell": true, "cmd": true,
	}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %d dialects", names, len(want))
	}
	for _, n := range names {
		if !want[n] {
			t.Errorf("unexpected dialect %q", n)
		}
	}
}

func sortedStrings(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}
