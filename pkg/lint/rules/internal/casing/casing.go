// Package casing classifies and converts the letter case of SQL words.
package casing

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Style is a capitalisation style.
type Style string

// Styles accepted by the capitalisation rules.
const (
	Upper      Style = "upper"
	Lower      Style = "lower"
	Capitalise Style = "capitalise"
	Consistent Style = "consistent"
)

// Casers are stateful and must not be shared between goroutines.
type caser func() cases.Caser

var (
	upper caser = func() cases.Caser { return cases.Upper(language.Und) }
	lower caser = func() cases.Caser { return cases.Lower(language.Und) }
	title caser = func() cases.Caser { return cases.Title(language.Und) }
)

func (c caser) String(s string) string {
	return c().String(s)
}

// Apply converts word to style. Consistent leaves word unchanged.
func Apply(style Style, word string) string {
	switch style {
	case Upper:
		return upper.String(word)
	case Lower:
		return lower.String(word)
	case Capitalise:
		return title.String(word)
	}
	return word
}

// Of returns every concrete style word is already written in.
// Words without letters match all of them.
func Of(word string) []Style {
	var out []Style
	for _, s := range []Style{Upper, Lower, Capitalise} {
		if Apply(s, word) == word {
			out = append(out, s)
		}
	}
	return out
}

// Match returns word written in the case of template: upper, lower or
// capitalised.
func Match(template, word string) string {
	switch {
	case template == upper.String(template):
		return upper.String(word)
	case template == lower.String(template):
		return lower.String(word)
	default:
		return title.String(word)
	}
}

// Parse converts a configuration value to a Style.
func Parse(s string) (Style, bool) {
	switch st := Style(strings.ToLower(strings.TrimSpace(s))); st {
	case Upper, Lower, Capitalise, Consistent:
		return st, true
	case "capitalize":
		return Capitalise, true
	}
	return "", false
}

// Tracker enforces one style over a sequence of words. With a concrete
// style every word must be in it; with Consistent the words seen so far
// narrow down the acceptable styles.
type Tracker struct {
	policy  Style
	allowed []Style
}

// NewTracker creates a tracker for policy.
func NewTracker(policy Style) *Tracker {
	t := &Tracker{policy: policy}
	if policy == Consistent {
		t.allowed = []Style{Upper, Lower, Capitalise}
	} else {
		t.allowed = []Style{policy}
	}
	return t
}

// Check reports whether word conforms and, if not, the corrected word.
func (t *Tracker) Check(word string) (string, bool) {
	have := Of(word)
	var both []Style
	for _, a := range t.allowed {
		for _, h := range have {
			if a == h {
				both = append(both, a)
			}
		}
	}
	if len(both) > 0 {
		if t.policy == Consistent {
			t.allowed = both
		}
		return word, true
	}
	return Apply(t.allowed[0], word), false
}

// Describe returns the style as used in messages, e.g. "upper case".
func Describe(style Style) string {
	if style == Capitalise {
		return "capitalised"
	}
	return string(style) + " case"
}

// Expected describes the style words are checked against.
func (t *Tracker) Expected() Style {
	return t.allowed[0]
}
