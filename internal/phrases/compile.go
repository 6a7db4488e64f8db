// Package phrases holds the phrase tables shared by feature extraction,
// pattern matching and rule routing, and the notation they are written in.
//
// A phrase is a space separated list of tokens matched case-insensitively.
// Adjacent tokens must follow each other separated only by whitespace or
// punctuation. The token "..." allows up to three arbitrary words in between.
// The tokens <num>, <date> and <word> match a number, a numeric date and any
// single word.
//
// A loose phrase keeps the same tokens but lets any run of text on the same
// line separate them, so "do not owe" also finds "do not actually owe".
package phrases

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	gapToken = "..."
	maxGap   = 3
)

var placeholders = map[string]string{
	"<num>":  `\d+`,
	"<date>": `\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`,
	"<word>": `\w+`,
}

// Compile turns a phrase into a regular expression
func Compile(phrase string) (*regexp.Regexp, error) {
	return compile(phrase, false)
}

// CompileLoose compiles a phrase whose tokens may be any distance apart
// within one line
func CompileLoose(phrase string) (*regexp.Regexp, error) {
	return compile(phrase, true)
}

func compile(phrase string, loose bool) (*regexp.Regexp, error) {
	tokens := strings.Fields(strings.ToLower(phrase))
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty phrase")
	}
	if tokens[0] == gapToken || tokens[len(tokens)-1] == gapToken {
		return nil, fmt.Errorf("phrase %q cannot start or end with a gap", phrase)
	}

	var b strings.Builder
	b.WriteString("(?i)")
	gap := false
	for i, tok := range tokens {
		if tok == gapToken {
			if gap {
				return nil, fmt.Errorf("phrase %q has consecutive gaps", phrase)
			}
			gap = true
			continue
		}
		if i > 0 {
			switch {
			case loose:
				b.WriteString(`.*?`)
			case gap:
				fmt.Fprintf(&b, `(?:\W+\w+){0,%d}\W+`, maxGap)
			default:
				b.WriteString(`\W+`)
			}
		}
		gap = false
		b.WriteString(token(tok))
	}

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("failed to compile phrase %q: %w", phrase, err)
	}
	return re, nil
}

// MustCompile is like Compile but panics on error
func MustCompile(phrase string) *regexp.Regexp {
	re, err := Compile(phrase)
	if err != nil {
		panic(err)
	}
	return re
}

func mustCompile(phrase string, loose bool) *regexp.Regexp {
	re, err := compile(phrase, loose)
	if err != nil {
		panic(err)
	}
	return re
}

func token(tok string) string {
	if p, ok := placeholders[tok]; ok {
		return `\b` + p + `\b`
	}
	quoted := strings.ReplaceAll(regexp.QuoteMeta(tok), "'", "['’]?")
	first, _ := utf8.DecodeRuneInString(tok)
	last, _ := utf8.DecodeLastRuneInString(tok)
	if isWord(first) {
		quoted = `\b` + quoted
	}
	if isWord(last) {
		quoted += `\b`
	}
	return quoted
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Set is an ordered, compiled list of phrases
type Set struct {
	raw []string
	res []*regexp.Regexp
}

// NewSet compiles phrases into a set. Tables are static, so a bad phrase panics.
func NewSet(list ...string) *Set {
	return newSet(list, false)
}

// NewLooseSet compiles phrases with CompileLoose
func NewLooseSet(list ...string) *Set {
	return newSet(list, true)
}

func newSet(list []string, loose bool) *Set {
	s := &Set{raw: make([]string, 0, len(list)), res: make([]*regexp.Regexp, 0, len(list))}
	for _, p := range list {
		s.raw = append(s.raw, p)
		s.res = append(s.res, mustCompile(p, loose))
	}
	return s
}

// Any reports whether at least one phrase occurs in text
func (s *Set) Any(text string) bool {
	for _, re := range s.res {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Matches returns the phrases that occur in text, in table order
func (s *Set) Matches(text string) []string {
	var out []string
	for i, re := range s.res {
		if re.MatchString(text) {
			out = append(out, s.raw[i])
		}
	}
	return out
}

// Count returns how many phrases occur in text
func (s *Set) Count(text string) int {
	n := 0
	for _, re := range s.res {
		if re.MatchString(text) {
			n++
		}
	}
	return n
}

// Raw returns the phrases as written
func (s *Set) Raw() []string {
	out := make([]string, len(s.raw))
	copy(out, s.raw)
	return out
}

// Len returns the number of phrases
func (s *Set) Len() int {
	return len(s.raw)
}

// ContainsAny reports whether any literal term is a substring of the lowered text
func ContainsAny(lowered string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(lowered, t) {
			return true
		}
	}
	return false
}

// CountDistinct counts literal terms that are substrings of the lowered text
func CountDistinct(lowered string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(lowered, t) {
			n++
		}
	}
	return n
}
