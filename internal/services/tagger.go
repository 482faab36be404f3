package services

import (
	"sort"
	"strings"
	"unicode"
)

const maxSystemTags = 5

// Common English words plus platform boilerplate that would otherwise
// dominate every tag set.
var tagStopwords = map[string]struct{}{
	"a": {}, "about": {}, "after": {}, "all": {}, "also": {}, "an": {},
	"and": {}, "any": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"because": {}, "been": {}, "before": {}, "being": {}, "but": {},
	"by": {}, "can": {}, "could": {}, "did": {}, "do": {}, "does": {},
	"doing": {}, "done": {}, "for": {}, "from": {}, "get": {}, "had": {},
	"has": {}, "have": {}, "how": {}, "i": {}, "if": {}, "in": {},
	"into": {}, "is": {}, "it": {}, "its": {}, "just": {}, "like": {},
	"make": {}, "many": {}, "more": {}, "most": {}, "my": {}, "no": {},
	"not": {}, "of": {}, "on": {}, "one": {}, "or": {}, "other": {},
	"our": {}, "out": {}, "over": {}, "so": {}, "some": {}, "than": {},
	"that": {}, "the": {}, "their": {}, "them": {}, "then": {},
	"there": {}, "these": {}, "they": {}, "this": {}, "to": {},
	"up": {}, "use": {}, "used": {}, "using": {}, "very": {}, "was": {},
	"we": {}, "were": {}, "what": {}, "when": {}, "where": {},
	"which": {}, "who": {}, "will": {}, "with": {}, "would": {},
	"you": {}, "your": {},
	"ai": {}, "really": {}, "things": {}, "way": {}, "work": {},
}

// GenerateSystemTags derives up to five tags from title and content by
// word frequency, stopwords removed. Ties break alphabetically so the
// result is stable.
func GenerateSystemTags(title, content string) []string {
	counts := map[string]int{}
	for _, word := range tokenizeTagWords(title + " " + content) {
		counts[word]++
	}

	words := make([]string, 0, len(counts))
	for word := range counts {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > maxSystemTags {
		words = words[:maxSystemTags]
	}
	return words
}

func tokenizeTagWords(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "-")
		if len(f) < 3 {
			continue
		}
		if _, stop := tagStopwords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}
