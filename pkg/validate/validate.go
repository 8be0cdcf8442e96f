// Package validate implements type validation and coercion for tool
// parameters. Validation is pure and deterministic: the same value and
// descriptor always produce the same coerced result, and re-validating
// an already-coerced value is an identity operation.
package validate

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ToolForge/toolforge/pkg/tool"
)

// Error describes a single violated constraint. It is always local to
// one value; callers can fix the input and retry.
type Error struct {
	Type       tool.ValueType
	Constraint string
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s (%s): %s", e.Type, e.Constraint, e.Message)
}

func fail(t tool.ValueType, constraint, format string, args ...interface{}) error {
	return &Error{Type: t, Constraint: constraint, Message: fmt.Sprintf(format, args...)}
}

// Datetime layouts accepted for string timestamps, tried in order.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Value validates v against the descriptor and returns the coerced
// value. The returned value is stable under re-validation.
func Value(v interface{}, desc tool.TypeDescriptor) (interface{}, error) {
	switch desc.Type {
	case tool.TypeFile:
		return validateFile(v, desc)
	case tool.TypeString:
		return validateString(v, desc)
	case tool.TypeInteger:
		return validateInteger(v, desc)
	case tool.TypeFloat:
		return validateFloat(v, desc)
	case tool.TypeSymbol:
		return validateSymbol(v, desc)
	case tool.TypeBoolean:
		b, err := tool.ParseBool(v)
		if err != nil {
			return nil, fail(desc.Type, "boolean", "%v", err)
		}
		return b, nil
	case tool.TypeURI:
		return validateURI(v, desc)
	case tool.TypeDatetime:
		return validateDatetime(v, desc)
	case tool.TypeHash:
		return validateHash(v, desc)
	case tool.TypeArray:
		return validateArray(v, desc)
	default:
		return nil, fail(desc.Type, "type", "unknown value type %q", desc.Type)
	}
}

func asString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func validateFile(v interface{}, desc tool.TypeDescriptor) (interface{}, error) {
	s, ok := asString(v)
	if !ok {
		return nil, fail(desc.Type, "type", "want a path string, got %T", v)
	}
	if s == "" {
		return nil, fail(desc.Type, "non-empty", "path must not be empty")
	}
	if desc.RequireExisting {
		if _, err := os.Stat(s); err != nil {
			return nil, fail(desc.Type, "exists", "path %q does not exist", s)
		}
	}
	return s, nil
}

func validateString(v interface{}, desc tool.TypeDescriptor) (interface{}, error) {
	s, ok := asString(v)
	if !ok {
		s = fmt.Sprintf("%v", v)
	}
	if s == "" && !desc.AllowEmpty {
		return nil, fail(desc.Type, "non-empty", "value must not be empty")
	}
	if desc.Pattern != "" {
		re, err := regexp.Compile(desc.Pattern)
		if err != nil {
			return nil, fail(desc.Type, "pattern", "invalid pattern %q: %v", desc.Pattern, err)
		}
		if !re.MatchString(s) {
			return nil, fail(desc.Type, "pattern", "%q does not match %q", s, desc.Pattern)
		}
	}
	return s, nil
}

func validateInteger(v interface{}, desc tool.TypeDescriptor) (interface{}, error) {
	var n int64
	switch num := v.(type) {
	case int:
		n = int64(num)
	case int64:
		n = num
	case float64:
		if num != float64(int64(num)) {
			return nil, fail(desc.Type, "integral", "%v is not a whole number", num)
		}
		n = int64(num)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(num), 10, 64)
		if err != nil {
			return nil, fail(desc.Type, "parse", "%q is not an integer", num)
		}
		n = parsed
	default:
		return nil, fail(desc.Type, "type", "cannot interpret %T as integer", v)
	}
	if err := checkBounds(float64(n), desc); err != nil {
		return nil, err
	}
	return n, nil
}

func validateFloat(v interface{}, desc tool.TypeDescriptor) (interface{}, error) {
	var f float64
	switch num := v.(type) {
	case int:
		f = float64(num)
	case int64:
		f = float64(num)
	case float64:
		f = num
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return nil, fail(desc.Type, "parse", "%q is not a number", num)
		}
		f = parsed
	default:
		return nil, fail(desc.Type, "type", "cannot interpret %T as float", v)
	}
	if err := checkBounds(f, desc); err != nil {
		return nil, err
	}
	return f, nil
}

func checkBounds(f float64, desc tool.TypeDescriptor) error {
	min, max := desc.Bounds()
	if min != nil && f < *min {
		return fail(desc.Type, "min", "%v is below the minimum %v", f, *min)
	}
	if max != nil && f > *max {
		return fail(desc.Type, "max", "%v is above the maximum %v", f, *max)
	}
	return nil
}

// validateSymbol normalizes the value to a canonical token: trimmed,
// with any leading colon stripped. The enumerated-values check is
// case-insensitive on the input and tolerant of non-string members in
// the allowed set.
func validateSymbol(v interface{}, desc tool.TypeDescriptor) (interface{}, error) {
	s, ok := asString(v)
	if !ok {
		s = fmt.Sprintf("%v", v)
	}
	s = strings.TrimPrefix(strings.TrimSpace(s), ":")
	if s == "" {
		return nil, fail(desc.Type, "non-empty", "symbol must not be empty")
	}
	if len(desc.Enum) > 0 {
		for _, allowed := range desc.Enum {
			if strings.EqualFold(s, allowed) {
				return allowed, nil
			}
		}
		return nil, fail(desc.Type, "enum", "%q is not one of %s", s, strings.Join(desc.Enum, ", "))
	}
	return s, nil
}

func validateURI(v interface{}, desc tool.TypeDescriptor) (interface{}, error) {
	s, ok := asString(v)
	if !ok {
		return nil, fail(desc.Type, "type", "want a URI string, got %T", v)
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return nil, fail(desc.Type, "parse", "%q is not a well-formed URI", s)
	}
	return s, nil
}

func validateDatetime(v interface{}, desc tool.TypeDescriptor) (interface{}, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		for _, layout := range datetimeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, nil
			}
		}
		return nil, fail(desc.Type, "parse", "%q is not a recognized timestamp", t)
	default:
		return nil, fail(desc.Type, "type", "cannot interpret %T as datetime", v)
	}
}

func validateHash(v interface{}, desc tool.TypeDescriptor) (interface{}, error) {
	var m map[string]interface{}
	switch h := v.(type) {
	case map[string]interface{}:
		m = h
	case map[string]string:
		m = make(map[string]interface{}, len(h))
		for k, val := range h {
			m[k] = val
		}
	default:
		return nil, fail(desc.Type, "type", "want a key/value mapping, got %T", v)
	}
	if len(desc.AllowedKeys) > 0 {
		allowed := make(map[string]bool, len(desc.AllowedKeys))
		for _, k := range desc.AllowedKeys {
			allowed[k] = true
		}
		for k := range m {
			if !allowed[k] {
				return nil, fail(desc.Type, "allowed-keys", "key %q is not permitted", k)
			}
		}
	}
	return m, nil
}

// validateArray wraps a scalar as a single-element sequence, checks the
// element count, and recursively validates each element against the
// declared element type.
func validateArray(v interface{}, desc tool.TypeDescriptor) (interface{}, error) {
	var elems []interface{}
	switch a := v.(type) {
	case []interface{}:
		elems = a
	case []string:
		elems = make([]interface{}, len(a))
		for i, s := range a {
			elems[i] = s
		}
	default:
		elems = []interface{}{v}
	}

	n := len(elems)
	if desc.MinItems != nil && n < *desc.MinItems {
		return nil, fail(desc.Type, "min-items", "got %d elements, want at least %d", n, *desc.MinItems)
	}
	if desc.MaxItems != nil && n > *desc.MaxItems {
		return nil, fail(desc.Type, "max-items", "got %d elements, want at most %d", n, *desc.MaxItems)
	}
	if len(desc.Sizes) > 0 {
		ok := false
		for _, size := range desc.Sizes {
			if n == size {
				ok = true
				break
			}
		}
		if !ok {
			return nil, fail(desc.Type, "sizes", "got %d elements, want one of %v", n, desc.Sizes)
		}
	}

	if desc.ElementType == nil {
		return elems, nil
	}
	out := make([]interface{}, n)
	for i, e := range elems {
		coerced, err := Value(e, *desc.ElementType)
		if err != nil {
			return nil, err
		}
		out[i] = coerced
	}
	return out, nil
}
