package jsast

import "strings"

// StringValue returns the unquoted contents of a string literal, or of a
// template literal without substitutions. Escape sequences are left as written.
func StringValue(n *Node) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Kind {
	case KindStringLiteral:
		return unquote(string(n.Text()), "\"'"), true
	case KindTemplateLiteral:
		if len(n.ChildrenOfKind(KindTemplateSubstitution)) > 0 {
			return "", false
		}
		return unquote(string(n.Text()), "`"), true
	default:
		return "", false
	}
}

// TemplateHead returns the literal text of a template literal before its
// first substitution.
func TemplateHead(n *Node) string {
	if n == nil || n.Kind != KindTemplateLiteral {
		return ""
	}
	text := strings.TrimPrefix(string(n.Text()), "`")
	if idx := strings.Index(text, "${"); idx >= 0 {
		return text[:idx]
	}
	return strings.TrimSuffix(text, "`")
}

// PropertyKey returns the static key name of a property node. Computed keys
// return false.
func PropertyKey(n *Node) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Kind {
	case KindShorthandProperty:
		return string(n.Text()), true
	case KindProperty, KindMethod:
		key := n.ChildByField("key")
		if key == nil {
			key = n.ChildByField("name")
		}
		if key == nil {
			return "", false
		}
		switch key.Kind {
		case KindIdentifier:
			return string(key.Text()), true
		case KindStringLiteral:
			return StringValue(key)
		default:
			return "", false
		}
	default:
		return "", false
	}
}

// Callee returns the dotted name of a call or new expression's target
// ("fetch", "i18n.t", "api.client.get"). Non-static callees return "".
func Callee(n *Node) string {
	if n == nil || (n.Kind != KindCallExpression && n.Kind != KindNewExpression) {
		return ""
	}
	target := n.ChildByField("function")
	if target == nil {
		target = n.ChildByField("constructor")
	}
	return dottedName(target)
}

func dottedName(n *Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindIdentifier:
		return string(n.Text())
	case KindMemberExpression:
		obj := dottedName(n.ChildByField("object"))
		prop := n.ChildByField("property")
		if obj == "" || prop == nil {
			return ""
		}
		return obj + "." + string(prop.Text())
	default:
		return ""
	}
}

func unquote(s, quotes string) string {
	if len(s) >= 2 && strings.ContainsRune(quotes, rune(s[0])) && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
