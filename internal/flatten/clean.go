package flatten

import "strings"

// RemoveLiteral deletes every exact occurrence of literal from doc. This is
// whole-string deletion, not pattern matching; an empty literal is a no-op.
func RemoveLiteral(doc, literal string) string {
	if literal == "" {
		return doc
	}
	return strings.ReplaceAll(doc, literal, "")
}

// NormalizeWhitespace strips leading and trailing whitespace from every line
// of doc and rejoins them.
func NormalizeWhitespace(doc string) string {
	lines := strings.Split(doc, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}
