package config

import "strings"

// FormatRuleName formats a rule name based on the given format.
func FormatRuleName(format RuleFormat, name string) string {
	if name == "" {
		return name
	}

	switch format {
	case RuleFormatQualified:
		if strings.HasPrefix(name, RuleNamespace+"/") {
			return name
		}
		return RuleNamespace + "/" + name
	default:
		return name
	}
}
