// Package textfilter softens narration for campaigns running a
// family-friendly tone. Harsher tones pass text through untouched.
package textfilter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// replacements maps strong language to tabletop-safe alternatives. Words
// with no acceptable stand-in get redacted outright.
var replacements = map[string]string{
	"fuck":         "fudge",
	"shit":         "shoot",
	"damn":         "dang",
	"hell":         "heck",
	"ass":          "butt",
	"bitch":        "jerk",
	"bastard":      "jerk",
	"crap":         "crud",
	"piss":         "ticked",
	"asshole":      "jerk",
	"dumbass":      "dummy",
	"jackass":      "jerk",
	"badass":       "tough",
	"bullshit":     "baloney",
	"goddamn":      "gosh-dang",
	"motherfucker": "mother-trucker",
	"prick":        "jerk",
	"whore":        "[removed]",
	"slut":         "[removed]",
}

// Filter replaces strong language in narration with softer alternatives,
// preserving the case of the original word.
type Filter struct {
	patterns map[string]*regexp.Regexp
	titler   cases.Caser
}

// New builds a filter with all patterns precompiled.
func New() *Filter {
	f := &Filter{
		patterns: make(map[string]*regexp.Regexp, len(replacements)),
		titler:   cases.Title(language.AmericanEnglish),
	}
	for word := range replacements {
		f.patterns[word] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	}
	return f
}

// Clean returns text with strong language replaced. Word boundaries are
// respected, so "classical" survives the "ass" rule.
func (f *Filter) Clean(text string) string {
	result := text
	for word, pattern := range f.patterns {
		replacement := replacements[word]
		result = pattern.ReplaceAllStringFunc(result, func(match string) string {
			return f.matchCase(match, replacement)
		})
	}
	return result
}

// Flagged reports whether text contains any language the filter would
// rewrite.
func (f *Filter) Flagged(text string) bool {
	for _, pattern := range f.patterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// matchCase applies the case shape of the matched word to the replacement.
func (f *Filter) matchCase(original, replacement string) string {
	if original == "" {
		return replacement
	}
	if strings.ToUpper(original) == original {
		return strings.ToUpper(replacement)
	}
	if r := []rune(original); unicode.IsUpper(r[0]) {
		return f.titler.String(replacement)
	}
	return replacement
}

// ShouldFilter reports whether a campaign tone calls for softened
// narration.
func ShouldFilter(tone string) bool {
	switch strings.ToLower(strings.TrimSpace(tone)) {
	case "family_friendly", "family-friendly", "lighthearted", "heroic":
		return true
	default:
		return false
	}
}
