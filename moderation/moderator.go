package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Moderator masks configured words in outgoing message content. Matching is
// case-insensitive and ignores punctuation and spacing inside a word, so
// "b a.d" still matches "bad" while the original spacing is preserved in
// the masked output.
type Moderator struct {
	matcher *goahocorasick.Machine
	mask    rune
}

type runeMapping struct {
	normalized []rune
	origIdx    []int
}

// New builds the Aho-Corasick automaton over the normalized word list.
// An empty list yields a pass-through moderator.
func New(words []string, mask rune) (*Moderator, error) {
	if len(words) == 0 {
		return &Moderator{mask: mask}, nil
	}
	patterns := make([][]rune, 0, len(words))
	for _, w := range words {
		if norm := normalize(w); len(norm) > 0 {
			patterns = append(patterns, norm)
		}
	}
	if len(patterns) == 0 {
		return &Moderator{mask: mask}, nil
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{matcher: m, mask: mask}, nil
}

// Censor replaces every matched span with the mask rune.
func (m *Moderator) Censor(content string) string {
	if m.matcher == nil {
		return content
	}
	mapping := mapRunes(content)
	if len(mapping.normalized) == 0 {
		return content
	}

	spans := m.matcher.MultiPatternSearch(mapping.normalized, false)
	if len(spans) == 0 {
		return content
	}

	out := []rune(content)
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(mapping.origIdx) {
			continue
		}
		from := mapping.origIdx[start]
		to := mapping.origIdx[end-1] + 1
		for i := from; i < to; i++ {
			out[i] = m.mask
		}
	}
	return string(out)
}

// mapRunes lowercases the input, drops noise runes, and remembers where
// each surviving rune sat in the original string.
func mapRunes(input string) runeMapping {
	orig := []rune(input)
	mapping := runeMapping{
		normalized: make([]rune, 0, len(orig)),
		origIdx:    make([]int, 0, len(orig)),
	}
	for i, r := range orig {
		if isNoise(r) {
			continue
		}
		mapping.normalized = append(mapping.normalized, unicode.ToLower(r))
		mapping.origIdx = append(mapping.origIdx, i)
	}
	return mapping
}

func normalize(word string) []rune {
	out := make([]rune, 0, len(word))
	for _, r := range word {
		if isNoise(r) {
			continue
		}
		out = append(out, unicode.ToLower(r))
	}
	return out
}

func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
