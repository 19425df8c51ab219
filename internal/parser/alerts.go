package parser

import (
	"regexp"
	"strings"
)

var alertStampPattern = regexp.MustCompile(`\d{4}hrs :`)

// SplitAlertMessage breaks an LTA alert into its "HHMMhrs :" stamped updates.
// Text before the first stamp is kept as its own chunk.
func SplitAlertMessage(msg string) []string {
	idx := alertStampPattern.FindAllStringIndex(msg, -1)
	if len(idx) == 0 {
		if m := strings.TrimSpace(msg); m != "" {
			return []string{m}
		}
		return nil
	}

	var chunks []string
	if head := strings.TrimSpace(msg[:idx[0][0]]); head != "" {
		chunks = append(chunks, head)
	}
	for i, loc := range idx {
		end := len(msg)
		if i+1 < len(idx) {
			end = idx[i+1][0]
		}
		if chunk := strings.TrimSpace(msg[loc[0]:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}
