package tool

import (
	"fmt"
	"strings"
)

// ParseBool coerces a parameter value to a boolean. Native booleans pass
// through; the string forms "true", "1", "yes", "on" are true and
// "false", "0", "no", "off" and the empty string are false, matched
// case-insensitively. Anything else is an error.
func ParseBool(v interface{}) (bool, error) {
	switch b := v.(type) {
	case nil:
		return false, nil
	case bool:
		return b, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "1", "yes", "on":
			return true, nil
		case "false", "0", "no", "off", "":
			return false, nil
		}
		return false, fmt.Errorf("cannot interpret %q as boolean", b)
	default:
		return false, fmt.Errorf("cannot interpret %T as boolean", v)
	}
}
