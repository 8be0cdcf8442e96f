package tool

import (
	"fmt"
	"strconv"
)

// Options is a typed view over a parameter map, scoped by a
// CommandDefinition. One generic value serves every command; accessor
// behavior is driven by the definition's declared descriptors instead of
// per-command generated types.
type Options struct {
	def    *CommandDefinition
	params map[string]interface{}
}

// NewOptions binds a parameter map to a definition.
func NewOptions(def *CommandDefinition, params map[string]interface{}) *Options {
	if params == nil {
		params = map[string]interface{}{}
	}
	return &Options{def: def, params: params}
}

// Definition returns the bound command definition.
func (o *Options) Definition() *CommandDefinition { return o.def }

// Has reports whether a non-nil value is present for name.
func (o *Options) Has(name string) bool {
	v, ok := o.params[name]
	return ok && v != nil
}

// Value returns the raw parameter value.
func (o *Options) Value(name string) (interface{}, bool) {
	v, ok := o.params[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// String returns the value rendered as a string, or "" when absent.
func (o *Options) String(name string) string {
	v, ok := o.Value(name)
	if !ok {
		return ""
	}
	if s, isStr := v.(string); isStr {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// StringOr returns the value as a string, or fallback when absent.
func (o *Options) StringOr(name, fallback string) string {
	if !o.Has(name) {
		return fallback
	}
	return o.String(name)
}

// Bool returns the value interpreted as a boolean. For declared flags an
// absent value falls back to the flag's default.
func (o *Options) Bool(name string) (bool, error) {
	v, ok := o.Value(name)
	if !ok {
		if f, declared := o.def.FlagDef(name); declared {
			return ParseBool(f.Default)
		}
		return false, nil
	}
	return ParseBool(v)
}

// Int returns the value interpreted as an integer.
func (o *Options) Int(name string) (int64, error) {
	v, ok := o.Value(name)
	if !ok {
		return 0, fmt.Errorf("no value for %q", name)
	}
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return 0, fmt.Errorf("cannot interpret %T as integer", v)
	}
}

// Float returns the value interpreted as a float.
func (o *Options) Float(name string) (float64, error) {
	v, ok := o.Value(name)
	if !ok {
		return 0, fmt.Errorf("no value for %q", name)
	}
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	case string:
		return strconv.ParseFloat(n, 64)
	default:
		return 0, fmt.Errorf("cannot interpret %T as float", v)
	}
}

// Strings returns the value as a slice: arrays element-wise, scalars as
// a single-element slice, absent values as nil.
func (o *Options) Strings(name string) []string {
	v, ok := o.Value(name)
	if !ok {
		return nil
	}
	switch vv := v.(type) {
	case []string:
		return vv
	case []interface{}:
		out := make([]string, len(vv))
		for i, e := range vv {
			out[i] = fmt.Sprintf("%v", e)
		}
		return out
	default:
		return []string{fmt.Sprintf("%v", v)}
	}
}
