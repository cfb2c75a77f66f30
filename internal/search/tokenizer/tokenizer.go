// Package tokenizer splits a line of text into position-tagged stems,
// filtering stop words and short fragments and delegating the actual
// stemming to the stemmer package.
package tokenizer

import (
	"strings"

	"search100/internal/search/stemmer"
)

// minStemmableLength is the minimum lowercase word length eligible for
// stemming; anything shorter is dropped regardless of stop-word status.
const minStemmableLength = 3

// punctuation is the set of intra-word delimiter characters. Space is a
// delimiter too, handled separately in isDelimiter.
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

var punctSet = buildPunctSet()

func buildPunctSet() map[byte]struct{} {
	set := make(map[byte]struct{}, len(punctuation))
	for i := 0; i < len(punctuation); i++ {
		set[punctuation[i]] = struct{}{}
	}
	return set
}

func isDelimiter(c byte) bool {
	if c == ' ' {
		return true
	}
	_, ok := punctSet[c]
	return ok
}

// Stem is a single surface word located within a line, together with its
// stemmed form.
type Stem struct {
	Index    int    // 0-based column within the original line
	Original string // surface form, punctuation-trimmed
	Stemmed  string
}

// checkStemmable reports whether the lowercased word clears the minimum
// length and isn't a stop word.
func checkStemmable(lower string) bool {
	return len(lower) >= minStemmableLength && !isStopWord(lower)
}

// Tokenize splits line into Stems. Index tracks the 0-based column of
// each surface word in the original line. Delimiters (space and the
// punctuation set) each advance the column by exactly one; a run of
// delimiters simply produces no sub-word between them.
func Tokenize(line string) []Stem {
	var stems []Stem
	wordStart := -1

	for i := 0; i <= len(line); i++ {
		if i == len(line) || isDelimiter(line[i]) {
			if wordStart >= 0 {
				word := line[wordStart:i]
				lower := strings.ToLower(word)
				if checkStemmable(lower) {
					stems = append(stems, Stem{
						Index:    wordStart,
						Original: word,
						Stemmed:  stemmer.Stem(lower),
					})
				}
				wordStart = -1
			}
			continue
		}
		if wordStart < 0 {
			wordStart = i
		}
	}
	return stems
}
