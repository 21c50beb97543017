package analysis

import (
	"cmp"
	"slices"
)

// WordCount is one ranked word. The JSON shape is what word-cloud
// front ends consume.
type WordCount struct {
	Text string `json:"text"`
	Size int    `json:"size"`
}

// TopN returns at most n words ordered by count descending, ties broken
// by word ascending. n <= 0 returns every word.
func TopN(freqs Frequencies, n int) []WordCount {
	ranked := make([]WordCount, 0, len(freqs))
	for word, count := range freqs {
		ranked = append(ranked, WordCount{Text: word, Size: count})
	}

	slices.SortFunc(ranked, func(a, b WordCount) int {
		if c := cmp.Compare(b.Size, a.Size); c != 0 {
			return c
		}
		return cmp.Compare(a.Text, b.Text)
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Total returns the sum of all counts.
func Total(freqs Frequencies) int {
	total := 0
	for _, c := range freqs {
		total += c
	}
	return total
}
