package splitter

import (
	"unicode"
	"unicode/utf8"
)

// tokenFragments returns one fragment per whitespace delimited word. The
// whitespace before a word is carried as the fragment's separator so the
// fragments tile the text up to the last word.
func tokenFragments(text string, _ Config, _ Policy) []Fragment {
	var out []Fragment
	start, i := 0, 0
	for i < len(text) {
		wordStart := i
		for wordStart < len(text) {
			r, size := utf8.DecodeRuneInString(text[wordStart:])
			if !unicode.IsSpace(r) {
				break
			}
			wordStart += size
		}
		if wordStart == len(text) {
			break
		}
		end := wordStart
		for end < len(text) {
			r, size := utf8.DecodeRuneInString(text[end:])
			if unicode.IsSpace(r) {
				break
			}
			end += size
		}
		out = append(out, Fragment{Start: start, End: end, Sep: wordStart - start})
		start, i = end, end
	}
	return out
}

// CountTokens reports the number of whitespace delimited tokens in text,
// the unit the token splitter sizes chunks in.
func CountTokens(text string) int {
	return len(tokenFragments(text, Config{}, Policy{}))
}
