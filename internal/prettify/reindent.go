package prettify

import (
	"regexp"
	"strings"
)

// IndentWidth is the number of spaces each leading space becomes.
const IndentWidth = 4

var leadingSpaces = regexp.MustCompile(`^ +`)

// Reindent replaces a leading run of N spaces on every line with
// IndentWidth*N spaces. Tabs are not indentation. Whitespace-only lines grow
// like any other. Every output line ends with "\n".
//
// Reindent is not idempotent: each call multiplies the indent again.
func Reindent(prettified string) string {
	var b strings.Builder
	b.Grow(len(prettified) * 2)

	for _, line := range splitLines(prettified) {
		if run := leadingSpaces.FindString(line); run != "" {
			b.WriteString(strings.Repeat(" ", IndentWidth*len(run)))
			b.WriteString(line[len(run):])
		} else {
			b.WriteString(line)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// splitLines breaks on "\n", "\r\n" and "\r". A trailing terminator does
// not produce an empty final line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
