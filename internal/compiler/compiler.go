// Package compiler converts a command definition plus a parameter map
// into the ordered list of raw argument tokens for one invocation.
//
// Token order is canonical and independent of declaration order in the
// definition: subcommand literal, prefix flags, options, non-prefix
// flags, positional arguments ascending by numeric position, post
// options, then the "last" positional argument. Tokens leave this
// package unquoted; shell quoting is the executor's concern.
package compiler

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ToolForge/toolforge/pkg/tool"
	"github.com/ToolForge/toolforge/pkg/validate"
)

// Compile emits the argument tokens for def against params. Parameters
// absent from params are skipped silently; enforcing required
// parameters is the caller's policy, not the compiler's. Any validation
// failure propagates unmodified.
func Compile(def *tool.CommandDefinition, params map[string]interface{}) ([]string, error) {
	var tokens []string

	if def.Subcommand != "" {
		tokens = append(tokens, def.Subcommand)
	}

	for i := range def.Flags {
		if def.Flags[i].Placement != tool.PlacementPrefix {
			continue
		}
		out, err := flagTokens(&def.Flags[i], params)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, out...)
	}

	for i := range def.Options {
		out, err := optionTokens(&def.Options[i], params)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, out...)
	}

	for i := range def.Flags {
		if def.Flags[i].Placement == tool.PlacementPrefix {
			continue
		}
		out, err := flagTokens(&def.Flags[i], params)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, out...)
	}

	positional, err := positionalTokens(def, params)
	if err != nil {
		return nil, err
	}
	tokens = append(tokens, positional...)

	for i := range def.PostOptions {
		out, err := optionTokens(&def.PostOptions[i], params)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, out...)
	}

	if last, ok := def.LastArgument(); ok {
		out, err := argumentTokens(last, params)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, out...)
	}

	return tokens, nil
}

// flagTokens emits a flag's CLI text when its value (or declared
// default, when no value is supplied) is truthy. False or absent flags
// contribute nothing.
func flagTokens(flag *tool.FlagDefinition, params map[string]interface{}) ([]string, error) {
	value, ok := params[flag.Name]
	if !ok || value == nil {
		value = flag.Default
	}
	coerced, err := validate.Value(value, tool.TypeDescriptor{Type: tool.TypeBoolean})
	if err != nil {
		return nil, err
	}
	if coerced.(bool) {
		return []string{flag.Flag}, nil
	}
	return nil, nil
}

func optionTokens(opt *tool.OptionDefinition, params map[string]interface{}) ([]string, error) {
	value, ok := params[opt.Name]
	if !ok || value == nil {
		return nil, nil
	}

	coerced, err := validate.Value(value, opt.Type)
	if err != nil {
		return nil, err
	}

	// Boolean options behave like flags: one bare token when true.
	if b, isBool := coerced.(bool); isBool {
		if b {
			return []string{opt.Flag}, nil
		}
		return nil, nil
	}

	rendered := renderValue(coerced, separator(opt))

	switch effectiveDelimiter(opt) {
	case tool.DelimiterSpace:
		return []string{opt.Flag, rendered}, nil
	case tool.DelimiterColon:
		return []string{opt.Flag + ":" + rendered}, nil
	case tool.DelimiterNone:
		return []string{opt.Flag + rendered}, nil
	default:
		return []string{opt.Flag + "=" + rendered}, nil
	}
}

// effectiveDelimiter resolves the auto style from the flag prefix:
// double-dash flags take equals, single-dash flags take a separate
// token, slash-prefixed (Windows-style) flags take a colon.
func effectiveDelimiter(opt *tool.OptionDefinition) tool.Delimiter {
	if opt.Delimiter != "" && opt.Delimiter != tool.DelimiterAuto {
		return opt.Delimiter
	}
	switch {
	case strings.HasPrefix(opt.Flag, "--"):
		return tool.DelimiterEquals
	case strings.HasPrefix(opt.Flag, "/"):
		return tool.DelimiterColon
	case strings.HasPrefix(opt.Flag, "-"):
		return tool.DelimiterSpace
	default:
		return tool.DelimiterEquals
	}
}

func separator(opt *tool.OptionDefinition) string {
	if opt.Separator != "" {
		return opt.Separator
	}
	return ","
}

// positionalTokens emits the non-"last" arguments: positioned ones
// ascending by index, unpositioned ones after them in declaration
// order.
func positionalTokens(def *tool.CommandDefinition, params map[string]interface{}) ([]string, error) {
	type slot struct {
		arg   *tool.ArgumentDefinition
		index int
		fixed bool
	}
	var slots []slot
	for i := range def.Arguments {
		arg := &def.Arguments[i]
		if arg.Position != nil && arg.Position.Last {
			continue
		}
		s := slot{arg: arg}
		if arg.Position != nil {
			s.fixed = true
			s.index = arg.Position.Index
		}
		slots = append(slots, s)
	}
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].fixed != slots[j].fixed {
			return slots[i].fixed
		}
		if !slots[i].fixed {
			return false
		}
		return slots[i].index < slots[j].index
	})

	var tokens []string
	for _, s := range slots {
		out, err := argumentTokens(s.arg, params)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, out...)
	}
	return tokens, nil
}

// argumentTokens validates and renders one positional argument. A
// variadic argument is validated as an array of its declared type and
// expands to one token per element.
func argumentTokens(arg *tool.ArgumentDefinition, params map[string]interface{}) ([]string, error) {
	value, ok := params[arg.Name]
	if !ok || value == nil {
		return nil, nil
	}

	if arg.Variadic {
		elemType := arg.Type
		coerced, err := validate.Value(value, tool.TypeDescriptor{
			Type:        tool.TypeArray,
			ElementType: &elemType,
			MinItems:    arg.Type.MinItems,
			MaxItems:    arg.Type.MaxItems,
			Sizes:       arg.Type.Sizes,
		})
		if err != nil {
			return nil, err
		}
		elems := coerced.([]interface{})
		tokens := make([]string, len(elems))
		for i, e := range elems {
			tokens[i] = renderScalar(e)
		}
		return tokens, nil
	}

	coerced, err := validate.Value(value, arg.Type)
	if err != nil {
		return nil, err
	}
	return []string{renderValue(coerced, ",")}, nil
}

// renderValue renders a coerced value as token text, joining array
// elements with sep.
func renderValue(v interface{}, sep string) string {
	if elems, ok := v.([]interface{}); ok {
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = renderScalar(e)
		}
		return strings.Join(parts, sep)
	}
	return renderScalar(v)
}

func renderScalar(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case time.Time:
		return s.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}
