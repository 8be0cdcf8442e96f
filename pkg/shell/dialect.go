// Package shell implements per-dialect quoting, escaping, and command
// joining for the shells ToolForge can execute through.
//
// Every token destined for a joined command string passes through the
// active dialect's Quote before joining, and execution always goes
// through the dialect's own interpreter with an explicit -c style
// invocation so the command is parsed by the declared shell, never an
// implicit system default.
package shell

import (
	"fmt"
	"sort"
	"strings"
)

// Dialect is a specific shell's quoting, escaping, and joining rules.
type Dialect interface {
	// Name is the registered dialect name ("bash", "powershell", ...).
	Name() string

	// Escape neutralizes quote-boundary characters in s without
	// wrapping it in quotes.
	Escape(s string) string

	// Quote returns s as a single literal token for this shell. The
	// result must round-trip: parsing the quoted form as one shell
	// word yields exactly s.
	Quote(s string) string

	// FormatPath renders a path with the dialect's separator.
	FormatPath(p string) string

	// EnvVar renders a variable reference for this shell.
	EnvVar(name string) string

	// Join quotes the executable and every argument and joins them
	// into one command string.
	Join(executable string, args ...string) string

	// Command returns the argv that runs commandString under this
	// dialect's interpreter.
	Command(commandString string) []string

	// HeadlessEnvironment supplies variables that suppress interactive
	// side effects for this dialect. Merged into the process
	// environment without overriding caller-supplied values.
	HeadlessEnvironment() map[string]string
}

// UnknownDialectError reports a reference to an unregistered dialect.
// It is a configuration error: there is no silent fallback shell.
type UnknownDialectError struct {
	Name string
}

func (e *UnknownDialectError) Error() string {
	return fmt.Sprintf("unknown shell dialect %q (known: %s)", e.Name, strings.Join(Names(), ", "))
}

var dialects = map[string]Dialect{}

func register(d Dialect) {
	dialects[d.Name()] = d
}

// Lookup resolves a dialect by name.
func Lookup(name string) (Dialect, error) {
	d, ok := dialects[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, &UnknownDialectError{Name: name}
	}
	return d, nil
}

// Names lists the registered dialect names, sorted.
func Names() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
