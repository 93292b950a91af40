package format

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	TagMarker   = "#"
	MaxTags     = 3
	minTagRunes = 3
)

var wordRegex = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Stopwords never become tags.
var Stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {}, "about": {},
	"this": {}, "that": {}, "new": {}, "latest": {}, "today": {},
	"are": {}, "but": {}, "not": {}, "you": {}, "your": {}, "its": {},
	"has": {}, "have": {}, "was": {}, "were": {}, "will": {}, "can": {},
	"into": {}, "over": {}, "after": {}, "more": {}, "than": {}, "how": {},
	"why": {}, "what": {}, "who": {}, "says": {}, "said": {}, "now": {},
	"out": {}, "all": {}, "get": {}, "just": {}, "they": {}, "their": {},
}

// Hashtags derives up to limit tags such as "#Breakthrough" from text in
// the order words first appear. Stopwords, words shorter than three
// letters and words without a letter are skipped.
func Hashtags(text string, limit int) []string {
	var tags []string

	seen := make(map[string]struct{})

	for _, word := range wordRegex.FindAllString(strings.ToLower(text), -1) {
		if len(tags) >= limit {
			break
		}

		if !qualifies(word) {
			continue
		}

		if _, ok := seen[word]; ok {
			continue
		}

		seen[word] = struct{}{}
		tags = append(tags, TagMarker+capitalize(word))
	}

	return tags
}

func qualifies(word string) bool {
	if utf8.RuneCountInString(word) < minTagRunes {
		return false
	}

	if _, ok := Stopwords[word]; ok {
		return false
	}

	return strings.IndexFunc(word, unicode.IsLetter) >= 0
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)

	return string(unicode.ToUpper(r)) + word[size:]
}
