// Package highlight splits text into match/non-match segments so the UI can
// emphasise the exact substring a generated sentence shares with the query.
package highlight

import (
	"regexp"
	"strings"
)

// Segment is a contiguous run of text tagged as matching the needle or not.
type Segment struct {
	Text  string
	Match bool
}

// Align splits fullText on every case-insensitive occurrence of needle,
// leftmost first, non-overlapping. Concatenating the returned segments in
// order always reconstructs fullText; matched segments keep the casing of
// fullText. A blank needle yields the whole text as a single non-match.
func Align(fullText, needle string) []Segment {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return []Segment{{Text: fullText}}
	}
	// Needles come straight from model output and user selections, so
	// parentheses, pluses etc. must be treated literally.
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(needle))
	if err != nil {
		return []Segment{{Text: fullText}}
	}
	locs := re.FindAllStringIndex(fullText, -1)
	if len(locs) == 0 {
		return []Segment{{Text: fullText}}
	}
	segments := make([]Segment, 0, len(locs)*2+1)
	pos := 0
	for _, loc := range locs {
		if loc[0] > pos {
			segments = append(segments, Segment{Text: fullText[pos:loc[0]]})
		}
		segments = append(segments, Segment{Text: fullText[loc[0]:loc[1]], Match: true})
		pos = loc[1]
	}
	if pos < len(fullText) {
		segments = append(segments, Segment{Text: fullText[pos:]})
	}
	return segments
}
