package shell

import "strings"

// powershellDialect quotes with single quotes, doubling embedded single
// quotes, which is PowerShell's literal-string escape.
type powershellDialect struct{}

// cmdDialect quotes with double quotes, doubling embedded double quotes
// and caret-escaping the cmd metacharacters that remain active inside
// them.
type cmdDialect struct{}

func init() {
	register(&powershellDialect{})
	register(&cmdDialect{})
}

func (d *powershellDialect) Name() string { return "powershell" }

func (d *powershellDialect) Escape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func (d *powershellDialect) Quote(s string) string {
	return "'" + d.Escape(s) + "'"
}

func (d *powershellDialect) FormatPath(p string) string {
	return strings.ReplaceAll(p, "/", `\`)
}

func (d *powershellDialect) EnvVar(name string) string {
	return "$env:" + name
}

func (d *powershellDialect) Join(executable string, args ...string) string {
	parts := make([]string, 0, len(args)+2)
	// The call operator is required to invoke a quoted executable path.
	parts = append(parts, "&", d.Quote(executable))
	for _, arg := range args {
		parts = append(parts, d.Quote(arg))
	}
	return strings.Join(parts, " ")
}

func (d *powershellDialect) Command(commandString string) []string {
	return []string{"powershell", "-NoProfile", "-NonInteractive", "-Command", commandString}
}

func (d *powershellDialect) HeadlessEnvironment() map[string]string {
	return map[string]string{
		"POWERSHELL_TELEMETRY_OPTOUT": "1",
	}
}

func (d *cmdDialect) Name() string { return "cmd" }

func (d *cmdDialect) Escape(s string) string {
	s = strings.ReplaceAll(s, `"`, `""`)
	// Percent expansion happens even inside double quotes.
	return strings.ReplaceAll(s, "%", "%%")
}

func (d *cmdDialect) Quote(s string) string {
	return `"` + d.Escape(s) + `"`
}

func (d *cmdDialect) FormatPath(p string) string {
	return strings.ReplaceAll(p, "/", `\`)
}

func (d *cmdDialect) EnvVar(name string) string {
	return "%" + name + "%"
}

func (d *cmdDialect) Join(executable string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, d.Quote(executable))
	for _, arg := range args {
		parts = append(parts, d.Quote(arg))
	}
	return strings.Join(parts, " ")
}

func (d *cmdDialect) Command(commandString string) []string {
	return []string{"cmd.exe", "/C", commandString}
}

func (d *cmdDialect) HeadlessEnvironment() map[string]string {
	return map[string]string{}
}
