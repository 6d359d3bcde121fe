package player

import (
	"regexp"
	"strings"
)

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// Segment splits narrative text into the token sequence used for word
// highlighting. Runs of sentence-ending punctuation collapse to a lone "."
// token so pauses between sentences get their own highlight beat. The split
// is deterministic: the renderer and the highlighter must agree on indices.
func Segment(content string) []string {
	marked := sentenceEnd.ReplaceAllString(content, " .")

	fields := strings.Fields(marked)
	if len(fields) == 0 {
		return nil
	}
	return fields
}
