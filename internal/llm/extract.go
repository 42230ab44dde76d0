package llm

import (
	"regexp"
	"strings"
)

// uciPattern matches a UCI move with an optional promotion letter.
var uciPattern = regexp.MustCompile(`\b([a-h][1-8][a-h][1-8][qrbn]?)\b`)

// ExtractUCIMove pulls a UCI move out of free-form model text. When the
// text contains several candidates the last one wins, since statements tend
// to end with the final proposal ("...my final proposed move is: e2e4").
// Returns "" when nothing move-shaped is present.
func ExtractUCIMove(text string) string {
	if text == "" {
		return ""
	}
	matches := uciPattern.FindAllString(strings.ToLower(text), -1)
	if len(matches) == 0 {
		return ""
	}
	return matches[len(matches)-1]
}

// quoteReplacements maps the smart-quote variants models commonly emit to
// their ASCII forms so JSON parses.
var quoteReplacements = map[string]string{
	"“": `"`, "”": `"`, "„": `"`, "‟": `"`,
	"‘": `'`, "’": `'`, "‚": `'`, "‛": `'`,
	"«": `"`, "»": `"`, "‹": `'`, "›": `'`,
	"＂": `"`,
}

var codeBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*\n?(.*?)\n?```")

// SanitizeJSON cleans up common model quirks in JSON output: smart quotes,
// markdown code fences, and prose before or after the object. The result
// is the best-effort extraction of a single JSON object; callers still
// validate it by unmarshalling.
func SanitizeJSON(text string) string {
	for old, repl := range quoteReplacements {
		text = strings.ReplaceAll(text, old, repl)
	}

	if matches := codeBlockPattern.FindStringSubmatch(text); len(matches) > 1 {
		text = matches[1]
	}

	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "{") {
		if idx := strings.Index(text, "{"); idx != -1 {
			text = text[idx:]
		}
	}
	if !strings.HasSuffix(text, "}") {
		if idx := strings.LastIndex(text, "}"); idx != -1 {
			text = text[:idx+1]
		}
	}
	return strings.TrimSpace(text)
}
