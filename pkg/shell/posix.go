package shell

import "strings"

// posixDialect covers the sh family. All members share one quoting
// algorithm: wrap the string in single quotes and replace every embedded
// single quote with the close-quote/backslash-quote/open-quote sequence.
// This is a quote-boundary escape only; metacharacters like $, backtick,
// |, ; and & stay literal inside the single quotes, which is the
// injection-safety invariant.
type posixDialect struct {
	name     string
	headless map[string]string
}

func init() {
	// Suppressing terminal prompts keeps git and apt-style tools from
	// blocking a headless execution.
	headless := map[string]string{
		"DEBIAN_FRONTEND":     "noninteractive",
		"GIT_TERMINAL_PROMPT": "0",
	}
	for _, name := range []string{"bash", "zsh", "fish", "sh", "dash", "tcsh"} {
		register(&posixDialect{name: name, headless: headless})
	}
}

func (d *posixDialect) Name() string { return d.name }

func (d *posixDialect) Escape(s string) string {
	return strings.ReplaceAll(s, "'", `'\''`)
}

func (d *posixDialect) Quote(s string) string {
	return "'" + d.Escape(s) + "'"
}

func (d *posixDialect) FormatPath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

func (d *posixDialect) EnvVar(name string) string {
	return "$" + name
}

func (d *posixDialect) Join(executable string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, d.Quote(executable))
	for _, arg := range args {
		parts = append(parts, d.Quote(arg))
	}
	return strings.Join(parts, " ")
}

func (d *posixDialect) Command(commandString string) []string {
	return []string{d.name, "-c", commandString}
}

func (d *posixDialect) HeadlessEnvironment() map[string]string {
	out := make(map[string]string, len(d.headless))
	for k, v := range d.headless {
		out[k] = v
	}
	return out
}
