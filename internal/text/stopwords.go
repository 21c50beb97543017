package text

import (
	"bufio"
	_ "embed"
	"io"
	"os"
	"strings"

	"go.trai.ch/zerr"
)

//go:embed english.txt
var englishList string

// StopWords is a set of lowercase words excluded from frequency counts.
type StopWords map[string]struct{}

// Contains reports whether word is a stop word.
func (s StopWords) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// Len returns the number of stop words.
func (s StopWords) Len() int {
	return len(s)
}

// NewStopWords builds a set from words, lowercasing each.
func NewStopWords(words ...string) StopWords {
	set := make(StopWords, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

// LoadStopWords reads one word per line. Blank lines and lines starting
// with '#' are ignored.
func LoadStopWords(r io.Reader) (StopWords, error) {
	set := make(StopWords)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set[strings.ToLower(line)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, zerr.Wrap(err, "failed to read stop words")
	}
	return set, nil
}

// LoadStopWordsFile reads a stop-word list from path.
func LoadStopWordsFile(path string) (StopWords, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open stop words"), "path", path)
	}
	defer f.Close()
	return LoadStopWords(f)
}

// EnglishStopWords returns the built-in English list.
// Callers load it once at startup and pass it to NewNormalizer.
func EnglishStopWords() StopWords {
	set, err := LoadStopWords(strings.NewReader(englishList))
	if err != nil {
		// The embedded list is read from memory; scanning cannot fail.
		panic(err)
	}
	return set
}
