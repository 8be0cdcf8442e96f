// Package tool defines the declarative command model for ToolForge.
//
// A CommandDefinition describes one invocable operation of an external
// executable: its positional arguments, options, flags, post-options,
// and environment variables. Definitions are produced by a loader (YAML
// files in the definition store) and are immutable once parsed; the
// compiler and executor only ever read them.
package tool

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ValueType enumerates the declarable parameter types.
type ValueType string

const (
	TypeFile     ValueType = "file"
	TypeString   ValueType = "string"
	TypeInteger  ValueType = "integer"
	TypeFloat    ValueType = "float"
	TypeSymbol   ValueType = "symbol"
	TypeBoolean  ValueType = "boolean"
	TypeURI      ValueType = "uri"
	TypeDatetime ValueType = "datetime"
	TypeHash     ValueType = "hash"
	TypeArray    ValueType = "array"
)

// TypeDescriptor declares a parameter type together with its constraints.
// Constraint fields that do not apply to the declared type are ignored.
type TypeDescriptor struct {
	Type ValueType `yaml:"type" json:"type"`

	// Pattern is a regular expression a string value must match.
	Pattern string `yaml:"pattern,omitempty" json:"pattern,omitempty"`

	// Min/Max are inclusive numeric bounds. Range is a two-element
	// [low, high] shorthand; when set it takes the place of Min/Max.
	Min   *float64  `yaml:"min,omitempty" json:"min,omitempty"`
	Max   *float64  `yaml:"max,omitempty" json:"max,omitempty"`
	Range []float64 `yaml:"range,omitempty" json:"range,omitempty"`

	// Enum restricts symbol values to an allowed set.
	Enum []string `yaml:"enum,omitempty" json:"enum,omitempty"`

	// AllowEmpty permits the empty string for string values.
	AllowEmpty bool `yaml:"allow_empty,omitempty" json:"allow_empty,omitempty"`

	// RequireExisting requires a file value to name an existing path.
	RequireExisting bool `yaml:"require_existing,omitempty" json:"require_existing,omitempty"`

	// AllowedKeys whitelists the permitted keys of a hash value.
	AllowedKeys []string `yaml:"allowed_keys,omitempty" json:"allowed_keys,omitempty"`

	// Array constraints: element type, min/max element count, or a set
	// of exact permitted sizes.
	ElementType *TypeDescriptor `yaml:"element_type,omitempty" json:"element_type,omitempty"`
	MinItems    *int            `yaml:"min_items,omitempty" json:"min_items,omitempty"`
	MaxItems    *int            `yaml:"max_items,omitempty" json:"max_items,omitempty"`
	Sizes       []int           `yaml:"sizes,omitempty" json:"sizes,omitempty"`
}

// Bounds resolves the effective inclusive numeric bounds, folding the
// Range shorthand into min/max.
func (d *TypeDescriptor) Bounds() (min, max *float64) {
	if len(d.Range) == 2 {
		return &d.Range[0], &d.Range[1]
	}
	return d.Min, d.Max
}

// Position locates a positional argument. Either a numeric index or the
// "last" sentinel, which places the argument after every other token.
type Position struct {
	Index int
	Last  bool
}

// UnmarshalYAML accepts an integer index or the literal string "last".
func (p *Position) UnmarshalYAML(node *yaml.Node) error {
	var idx int
	if err := node.Decode(&idx); err == nil {
		p.Index = idx
		p.Last = false
		return nil
	}
	var s string
	if err := node.Decode(&s); err == nil && strings.EqualFold(s, "last") {
		p.Last = true
		return nil
	}
	return fmt.Errorf("invalid position %q: want an integer or \"last\"", node.Value)
}

// MarshalYAML renders the "last" sentinel symmetrically with UnmarshalYAML.
func (p Position) MarshalYAML() (interface{}, error) {
	if p.Last {
		return "last", nil
	}
	return p.Index, nil
}

// ArgumentDefinition declares one positional argument.
type ArgumentDefinition struct {
	Name        string         `yaml:"name" json:"name"`
	Type        TypeDescriptor `yaml:"type" json:"type"`
	Position    *Position      `yaml:"position,omitempty" json:"position,omitempty"`
	Variadic    bool           `yaml:"variadic,omitempty" json:"variadic,omitempty"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
}

// Delimiter selects how an option's flag text and value are joined.
type Delimiter string

const (
	// DelimiterAuto infers the style from the flag prefix: double-dash
	// flags use equals, single-dash flags use a separate token, and
	// slash-prefixed (Windows-style) flags use a colon.
	DelimiterAuto   Delimiter = "auto"
	DelimiterEquals Delimiter = "equals"
	DelimiterSpace  Delimiter = "space"
	DelimiterColon  Delimiter = "colon"
	DelimiterNone   Delimiter = "none"
)

// OptionDefinition declares one value-carrying option.
type OptionDefinition struct {
	Name        string         `yaml:"name" json:"name"`
	Flag        string         `yaml:"flag" json:"flag"`
	Type        TypeDescriptor `yaml:"type" json:"type"`
	Delimiter   Delimiter      `yaml:"delimiter,omitempty" json:"delimiter,omitempty"`
	Separator   string         `yaml:"separator,omitempty" json:"separator,omitempty"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
}

// FlagPlacement constrains where a flag token appears in compiled output.
type FlagPlacement string

const (
	// PlacementPrefix flags precede all options.
	PlacementPrefix FlagPlacement = "prefix"
	PlacementNormal FlagPlacement = "normal"
)

// FlagDefinition declares one boolean flag.
type FlagDefinition struct {
	Name        string        `yaml:"name" json:"name"`
	Flag        string        `yaml:"flag" json:"flag"`
	Default     interface{}   `yaml:"default,omitempty" json:"default,omitempty"`
	Placement   FlagPlacement `yaml:"placement,omitempty" json:"placement,omitempty"`
	Description string        `yaml:"description,omitempty" json:"description,omitempty"`
}

// EnvVarDefinition declares an environment variable set for every
// execution of the command.
type EnvVarDefinition struct {
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value" json:"value"`
}

// ExecutionProfile restricts a command to specific platforms or shells.
// An empty profile is universally compatible.
type ExecutionProfile struct {
	Platforms []string `yaml:"platforms,omitempty" json:"platforms,omitempty"`
	Shells    []string `yaml:"shells,omitempty" json:"shells,omitempty"`
}

// Compatible reports whether the profile permits the given platform and
// shell. Either restriction list being empty means no restriction.
func (p *ExecutionProfile) Compatible(platform, shell string) bool {
	if p == nil {
		return true
	}
	if len(p.Platforms) > 0 && !containsFold(p.Platforms, platform) {
		return false
	}
	if len(p.Shells) > 0 && !containsFold(p.Shells, shell) {
		return false
	}
	return true
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}

// CommandDefinition is the declarative description of one invocable
// operation for an external executable.
type CommandDefinition struct {
	Name        string               `yaml:"name" json:"name"`
	Subcommand  string               `yaml:"subcommand,omitempty" json:"subcommand,omitempty"`
	Description string               `yaml:"description,omitempty" json:"description,omitempty"`
	Interfaces  []string             `yaml:"interfaces,omitempty" json:"interfaces,omitempty"`
	Aliases     []string             `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Profile     *ExecutionProfile    `yaml:"profile,omitempty" json:"profile,omitempty"`
	Arguments   []ArgumentDefinition `yaml:"arguments,omitempty" json:"arguments,omitempty"`
	Options     []OptionDefinition   `yaml:"options,omitempty" json:"options,omitempty"`
	Flags       []FlagDefinition     `yaml:"flags,omitempty" json:"flags,omitempty"`
	PostOptions []OptionDefinition   `yaml:"post_options,omitempty" json:"post_options,omitempty"`
	EnvVars     []EnvVarDefinition   `yaml:"env_vars,omitempty" json:"env_vars,omitempty"`

	// Timeout is a duration string ("30s", "5m"); empty means the
	// engine default applies.
	Timeout string `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// ExitCodes maps normalized exit statuses to human meanings.
	ExitCodes map[int]string `yaml:"exit_codes,omitempty" json:"exit_codes,omitempty"`
}

// TimeoutDuration parses the declared per-command timeout. A zero
// duration with nil error means no timeout was declared.
func (d *CommandDefinition) TimeoutDuration() (time.Duration, error) {
	if d.Timeout == "" {
		return 0, nil
	}
	dur, err := time.ParseDuration(d.Timeout)
	if err != nil {
		return 0, fmt.Errorf("command %s: invalid timeout %q: %w", d.Name, d.Timeout, err)
	}
	return dur, nil
}

// Argument returns the argument definition with the given name.
func (d *CommandDefinition) Argument(name string) (*ArgumentDefinition, bool) {
	for i := range d.Arguments {
		if d.Arguments[i].Name == name {
			return &d.Arguments[i], true
		}
	}
	return nil, false
}

// Option returns the option definition with the given name, searching
// post-options as well.
func (d *CommandDefinition) Option(name string) (*OptionDefinition, bool) {
	for i := range d.Options {
		if d.Options[i].Name == name {
			return &d.Options[i], true
		}
	}
	for i := range d.PostOptions {
		if d.PostOptions[i].Name == name {
			return &d.PostOptions[i], true
		}
	}
	return nil, false
}

// FlagDef returns the flag definition with the given name.
func (d *CommandDefinition) FlagDef(name string) (*FlagDefinition, bool) {
	for i := range d.Flags {
		if d.Flags[i].Name == name {
			return &d.Flags[i], true
		}
	}
	return nil, false
}

// LastArgument returns the argument declared at the "last" position.
func (d *CommandDefinition) LastArgument() (*ArgumentDefinition, bool) {
	for i := range d.Arguments {
		if d.Arguments[i].Position != nil && d.Arguments[i].Position.Last {
			return &d.Arguments[i], true
		}
	}
	return nil, false
}

// Validate checks structural invariants the loader must enforce before a
// definition is handed to the compiler.
func (d *CommandDefinition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("command definition has no name")
	}
	lastCount := 0
	for i := range d.Arguments {
		arg := &d.Arguments[i]
		if arg.Name == "" {
			return fmt.Errorf("command %s: argument %d has no name", d.Name, i)
		}
		if arg.Position != nil && arg.Position.Last {
			lastCount++
		}
	}
	if lastCount > 1 {
		return fmt.Errorf("command %s: at most one argument may have position \"last\"", d.Name)
	}
	for i := range d.Options {
		if d.Options[i].Name == "" || d.Options[i].Flag == "" {
			return fmt.Errorf("command %s: option %d needs both name and flag", d.Name, i)
		}
	}
	for i := range d.Flags {
		if d.Flags[i].Name == "" || d.Flags[i].Flag == "" {
			return fmt.Errorf("command %s: flag %d needs both name and flag", d.Name, i)
		}
	}
	return nil
}
