// Package langdetect chooses the grammar for a source file or code fence.
// It uses go-enry for extension, shebang and classifier based detection,
// with cheap pattern checks for the JavaScript family first.
package langdetect

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"github.com/yaklabco/dslint/pkg/jsast"
)

// Fence tags returned by Detect.
const (
	langTypeScript = "typescript"
	langTSX        = "tsx"
	langJavaScript = "javascript"
	langJSON       = "json"
	langYAML       = "yaml"
	langHTML       = "html"
	langCSS        = "css"
	langBash       = "bash"
	langText       = "text"
)

//nolint:gochecknoglobals // Read-only lookup table.
var extLanguages = map[string]jsast.Language{
	".ts":  jsast.LangTypeScript,
	".mts": jsast.LangTypeScript,
	".cts": jsast.LangTypeScript,
	".tsx": jsast.LangTSX,
	".js":  jsast.LangJavaScript,
	".jsx": jsast.LangJavaScript,
	".mjs": jsast.LangJavaScript,
	".cjs": jsast.LangJavaScript,
}

//nolint:gochecknoglobals // Read-only lookup table.
var fenceLanguages = map[string]jsast.Language{
	"ts":         jsast.LangTypeScript,
	"typescript": jsast.LangTypeScript,
	"tsx":        jsast.LangTSX,
	"js":         jsast.LangJavaScript,
	"javascript": jsast.LangJavaScript,
	"jsx":        jsast.LangJavaScript,
	"mjs":        jsast.LangJavaScript,
	"cjs":        jsast.LangJavaScript,
}

// IsSourceFile reports whether path has a JavaScript-family extension.
func IsSourceFile(path string) bool {
	_, ok := extLanguages[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ForPath returns the grammar for a file. The extension decides when it is
// known; otherwise go-enry inspects the name and content. Unrecognised files
// use TSX.
func ForPath(path string, content []byte) jsast.Language {
	if lang, ok := extLanguages[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}

	if path != "" {
		if lang, ok := fromEnryName(enry.GetLanguage(filepath.Base(path), content)); ok {
			return lang
		}
	}

	if lang, ok := fenceLanguages[Detect(content)]; ok {
		return lang
	}
	return jsast.LangTSX
}

// ForFence returns the grammar for a fenced code block, or false when the
// block is not JavaScript-family code. Blocks without an info string are
// classified by content.
func ForFence(info string, content []byte) (jsast.Language, bool) {
	tag := strings.ToLower(strings.TrimSpace(info))
	if idx := strings.IndexAny(tag, " \t{"); idx >= 0 {
		tag = tag[:idx]
	}

	if tag == "" {
		tag = Detect(content)
	}

	lang, ok := fenceLanguages[tag]
	return lang, ok
}

// Detect returns a fence tag for code content.
// Returns "text" if detection fails or confidence is low.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return langText
	}

	// Strategy 1: Check shebang first (most reliable).
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	// Strategy 2: Patterns that are highly indicative.
	if lang := detectByPattern(content); lang != "" {
		return lang
	}

	// Strategy 3: Classifier restricted to plausible documentation languages.
	candidates := []string{
		"TypeScript", "JavaScript", "JSON", "Shell", "CSS", "HTML", "YAML", "Markdown",
	}
	if lang, safe := enry.GetLanguageByClassifier(content, candidates); safe && lang != "" {
		return normalize(lang)
	}

	return langText
}

// detectByPattern checks patterns in order of specificity.
func detectByPattern(content []byte) string {
	contentStr := string(content)
	trimmed := bytes.TrimSpace(content)

	if lang := detectJSON(trimmed); lang != "" {
		return lang
	}
	if lang := detectHTML(trimmed); lang != "" {
		return lang
	}

	jsx := detectJSX(contentStr)
	typed := detectTypeScript(contentStr)
	switch {
	case jsx && typed:
		return langTSX
	case typed:
		return langTypeScript
	case jsx:
		return langJavaScript
	}

	if detectJavaScript(contentStr) {
		return langJavaScript
	}
	return ""
}

// detectJSX checks for JSX markup.
func detectJSX(contentStr string) bool {
	return strings.Contains(contentStr, "className=") ||
		strings.Contains(contentStr, "/>") ||
		strings.Contains(contentStr, "</")
}

// detectTypeScript checks for type annotations and declarations.
func detectTypeScript(contentStr string) bool {
	for _, marker := range []string{
		"interface ", "import type ", ": string", ": number", ": boolean",
		"as const", "type Props", "React.FC<", "<T>",
	} {
		if strings.Contains(contentStr, marker) {
			return true
		}
	}
	return false
}

// detectJavaScript checks for JavaScript patterns.
func detectJavaScript(contentStr string) bool {
	return strings.Contains(contentStr, "=>") ||
		strings.Contains(contentStr, "const ") ||
		strings.Contains(contentStr, "let ") ||
		strings.Contains(contentStr, "export ") ||
		strings.Contains(contentStr, "console.log")
}

// detectHTML checks for HTML document patterns.
func detectHTML(trimmed []byte) string {
	lower := bytes.ToLower(trimmed)
	if bytes.Contains(lower, []byte("<!doctype html")) ||
		bytes.Contains(lower, []byte("<html")) ||
		bytes.Contains(lower, []byte("<head>")) ||
		bytes.Contains(lower, []byte("<body>")) {
		return langHTML
	}
	return ""
}

// detectJSON checks for JSON documents.
func detectJSON(trimmed []byte) string {
	if (bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("["))) &&
		bytes.Contains(trimmed, []byte(`"`)) &&
		!bytes.Contains(trimmed, []byte("=>")) &&
		!bytes.Contains(trimmed, []byte("const ")) {
		return langJSON
	}
	return ""
}

// fromEnryName maps go-enry language names onto grammars.
func fromEnryName(name string) (jsast.Language, bool) {
	switch name {
	case "TypeScript":
		return jsast.LangTypeScript, true
	case "TSX":
		return jsast.LangTSX, true
	case "JavaScript":
		return jsast.LangJavaScript, true
	default:
		return "", false
	}
}

// normalize converts go-enry language names to fence tags.
func normalize(lang string) string {
	switch lang {
	case "Shell":
		return langBash
	case "CSS":
		return langCSS
	case "YAML":
		return langYAML
	default:
		return strings.ToLower(lang)
	}
}
