// Package text turns article extracts into the words that are counted.
package text

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinWordLength is the length a token must exceed to be kept.
const MinWordLength = 2

// wordRun matches maximal runs of word characters.
var wordRun = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Normalizer tokenizes text and filters out stop words and short tokens.
type Normalizer struct {
	stopWords StopWords
}

// NewNormalizer creates a Normalizer using the given stop-word set.
// A nil set filters nothing but short and non-alphanumeric tokens.
func NewNormalizer(stopWords StopWords) *Normalizer {
	if stopWords == nil {
		stopWords = StopWords{}
	}
	return &Normalizer{stopWords: stopWords}
}

// Normalize lowercases text and returns its retained tokens in input order,
// duplicates included. A token is retained when it is purely alphanumeric,
// not a stop word, and longer than MinWordLength characters.
func (n *Normalizer) Normalize(text string) []string {
	if text == "" {
		return nil
	}
	tokens := wordRun.FindAllString(strings.ToLower(text), -1)

	words := tokens[:0]
	for _, tok := range tokens {
		if n.keep(tok) {
			words = append(words, tok)
		}
	}
	return words
}

// Count folds the retained tokens of text into counts.
func (n *Normalizer) Count(text string, counts map[string]int) {
	for _, w := range n.Normalize(text) {
		counts[w]++
	}
}

func (n *Normalizer) keep(tok string) bool {
	if utf8.RuneCountInString(tok) <= MinWordLength {
		return false
	}
	if !isAlnum(tok) {
		return false
	}
	return !n.stopWords.Contains(tok)
}

func isAlnum(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			return false
		}
	}
	return s != ""
}
