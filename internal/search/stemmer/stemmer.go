// Package stemmer implements the Porter stemming algorithm (Porter, M.,
// "An Algorithm for Suffix Stripping", 1980): a fixed sequence of suffix
// rewrite steps, each gated by a measure of consonant-vowel groups in the
// candidate stem rather than by the stem's raw length.
package stemmer

import "strings"

// Stem reduces word to its Porter stem. The input is lowercased first;
// every step works from explicit, recomputed byte positions rather than
// mutating a shared buffer, so a step never observes a half-applied
// previous step.
func Stem(word string) string {
	w := strings.ToLower(word)
	w = step1a(w)
	w = step1b(w)
	w = step1c(w)
	w = step2(w)
	w = step3(w)
	w = step4(w)
	w = step5a(w)
	w = step5b(w)
	return w
}

// consonantMask classifies every byte of s as consonant (true) or vowel
// (false). A 'y' is a consonant at position 0, or wherever the preceding
// letter is a vowel; otherwise it behaves as a vowel. Anything outside
// a-z (already lowercased input aside) is treated as a consonant.
func consonantMask(s string) []bool {
	mask := make([]bool, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'a', 'e', 'i', 'o', 'u':
			mask[i] = false
		case 'y':
			if i == 0 {
				mask[i] = true
			} else {
				mask[i] = !mask[i-1]
			}
		default:
			mask[i] = true
		}
	}
	return mask
}

// measure counts the number of consonant-vowel-consonant... transitions
// in s, i.e. the classic Porter "m": [C](VC)^m[V].
func measure(s string) int {
	mask := consonantMask(s)
	n := len(mask)
	i := 0
	for i < n && mask[i] {
		i++
	}
	m := 0
	for i < n {
		for i < n && !mask[i] {
			i++
		}
		if i >= n {
			break
		}
		for i < n && mask[i] {
			i++
		}
		m++
	}
	return m
}

// containsVowel reports whether s has at least one vowel (the *v*
// predicate).
func containsVowel(s string) bool {
	for _, c := range consonantMask(s) {
		if !c {
			return true
		}
	}
	return false
}

// endsDoubleConsonant reports whether s ends in two identical consonants
// (the *d* predicate).
func endsDoubleConsonant(s string) bool {
	n := len(s)
	if n < 2 || s[n-1] != s[n-2] {
		return false
	}
	mask := consonantMask(s)
	return mask[n-1] && mask[n-2]
}

// endsCVC reports whether s ends consonant-vowel-consonant, with the
// final consonant not one of w, x, y (the *o* predicate).
func endsCVC(s string) bool {
	n := len(s)
	if n < 3 {
		return false
	}
	mask := consonantMask(s)
	if !mask[n-3] || mask[n-2] || !mask[n-1] {
		return false
	}
	switch s[n-1] {
	case 'w', 'x', 'y':
		return false
	default:
		return true
	}
}

func step1a(w string) string {
	switch {
	case strings.HasSuffix(w, "sses"):
		return w[:len(w)-2]
	case strings.HasSuffix(w, "ies"):
		return w[:len(w)-3] + "i"
	case strings.HasSuffix(w, "ss"):
		return w
	case strings.HasSuffix(w, "s") && len(w) > 1:
		return w[:len(w)-1]
	default:
		return w
	}
}

func step1b(w string) string {
	switch {
	case strings.HasSuffix(w, "eed"):
		stem := w[:len(w)-3]
		if measure(stem) > 0 {
			return stem + "ee"
		}
		return w
	case strings.HasSuffix(w, "ed") && containsVowel(w[:len(w)-2]):
		return step1bCleanup(w[:len(w)-2])
	case strings.HasSuffix(w, "ing") && containsVowel(w[:len(w)-3]):
		return step1bCleanup(w[:len(w)-3])
	default:
		return w
	}
}

// step1bCleanup runs only after an ed/ing strip in step1b.
func step1bCleanup(w string) string {
	switch {
	case strings.HasSuffix(w, "at"), strings.HasSuffix(w, "bl"), strings.HasSuffix(w, "iz"):
		return w + "e"
	case endsDoubleConsonant(w) && !strings.HasSuffix(w, "l") && !strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "z"):
		return w[:len(w)-1]
	case measure(w) == 1 && endsCVC(w):
		return w + "e"
	default:
		return w
	}
}

func step1c(w string) string {
	if strings.HasSuffix(w, "y") && len(w) > 1 && containsVowel(w[:len(w)-1]) {
		return w[:len(w)-1] + "i"
	}
	return w
}

type suffixRule struct {
	suffix, replacement string
}

// step2Rules must stay in this order: where one suffix is itself a
// suffix of another (e.g. "ation" of "ization"), the longer one is
// listed first so it is matched before the shorter one can steal it.
var step2Rules = []suffixRule{
	{"ational", "ate"},
	{"tional", "tion"},
	{"enci", "ence"},
	{"anci", "ance"},
	{"izer", "ize"},
	{"abli", "able"},
	{"alli", "al"},
	{"entli", "ent"},
	{"eli", "e"},
	{"ousli", "ous"},
	{"ization", "ize"},
	{"ation", "ate"},
	{"ator", "ate"},
	{"alism", "al"},
	{"iveness", "ive"},
	{"fulness", "ful"},
	{"ousness", "ous"},
	{"aliti", "al"},
	{"iviti", "ive"},
	{"biliti", "ble"},
}

var step3Rules = []suffixRule{
	{"icate", "ic"},
	{"ative", ""},
	{"alize", "al"},
	{"iciti", "ic"},
	{"ical", "ic"},
	{"ful", ""},
	{"ness", ""},
}

// step4Suffixes is the plain-strip list; "ion" is handled separately
// since stripping it also requires the preceding letter to be s or t.
var step4Suffixes = []string{
	"al", "ance", "ence", "er", "ic", "able", "ible", "ant",
	"ement", "ment", "ent", "ism", "ate", "iti", "ous", "ive", "ize", "ou",
}

// applySuffixRules finds the first rule in rules whose suffix matches w.
// Once found, that rule alone decides the outcome: if its stem clears the
// measure threshold the rewrite applies, otherwise w is returned
// unchanged — no other rule in the list is tried.
func applySuffixRules(w string, rules []suffixRule, minMeasure int) string {
	for _, r := range rules {
		if strings.HasSuffix(w, r.suffix) {
			stem := w[:len(w)-len(r.suffix)]
			if measure(stem) > minMeasure {
				return stem + r.replacement
			}
			return w
		}
	}
	return w
}

func step2(w string) string {
	return applySuffixRules(w, step2Rules, 0)
}

func step3(w string) string {
	return applySuffixRules(w, step3Rules, 0)
}

func step4(w string) string {
	for _, suf := range step4Suffixes {
		if strings.HasSuffix(w, suf) {
			stem := w[:len(w)-len(suf)]
			if measure(stem) > 1 {
				return stem
			}
			return w
		}
	}
	if strings.HasSuffix(w, "ion") {
		stem := w[:len(w)-3]
		if measure(stem) > 1 && len(stem) > 0 {
			last := stem[len(stem)-1]
			if last == 's' || last == 't' {
				return stem
			}
		}
	}
	return w
}

func step5a(w string) string {
	if !strings.HasSuffix(w, "e") {
		return w
	}
	stem := w[:len(w)-1]
	m := measure(stem)
	if m > 1 || (m == 1 && !endsCVC(stem)) {
		return stem
	}
	return w
}

func step5b(w string) string {
	if measure(w) > 1 && endsDoubleConsonant(w) && strings.HasSuffix(w, "l") {
		return w[:len(w)-1]
	}
	return w
}
