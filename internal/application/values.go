package application

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseSettingValue turns a command-line value into the type a setting
// expects: "true" becomes a bool, "3" an int, anything else stays a
// string.
func ParseSettingValue(raw string) any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	switch v.(type) {
	case bool, int, float64:
		return v
	}
	return raw
}
