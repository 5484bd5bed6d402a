package xdebug

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidParameter is returned for a parameter entry without "=".
var ErrInvalidParameter = errors.New("invalid parameter")

// ParseParameters parses comma-separated key=value pairs such as
// "log=/tmp/x.log,log_level=10". Each entry is split on its first "=";
// keys and values are trimmed. Empty entries are skipped, so "" yields an
// empty map.
func ParseParameters(s string) (*Parameters, error) {
	params := NewParameters()
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		key, value, ok := strings.Cut(entry, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w %q: expected key=value", ErrInvalidParameter, entry)
		}
		params.Set(key, strings.TrimSpace(value))
	}
	return params, nil
}

// FormatParameters flattens params into "k=v, k2=v2", or "(none)".
func FormatParameters(params *Parameters) string {
	if params == nil || params.Len() == 0 {
		return "(none)"
	}
	entries := make([]string, 0, params.Len())
	for pair := params.Oldest(); pair != nil; pair = pair.Next() {
		entries = append(entries, pair.Key+"="+pair.Value)
	}
	return strings.Join(entries, ", ")
}
