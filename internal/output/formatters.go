// Package output renders analysis results for the terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/colthorp/wikifreq/internal/analysis"
	"github.com/colthorp/wikifreq/internal/cache"
	"github.com/colthorp/wikifreq/internal/palette"
)

const barWidth = 30

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	rankStyle   = lipgloss.NewStyle().Width(5).Align(lipgloss.Right)
	countStyle  = lipgloss.NewStyle().Width(8).Align(lipgloss.Right)
)

// StreamJSON writes ranked words as a compact JSON array.
func StreamJSON(w io.Writer, counts []analysis.WordCount) error {
	if _, err := fmt.Fprint(w, "["); err != nil {
		return err
	}
	for i, item := range counts {
		if i > 0 {
			fmt.Fprint(w, ",")
		}
		data, err := json.Marshal(item)
		if err != nil {
			return err
		}
		w.Write(data)
	}
	_, err := fmt.Fprintln(w, "]")
	return err
}

// PrintJSON prints a single item as formatted JSON.
func PrintJSON(w io.Writer, item interface{}) error {
	data, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// PrintTable prints ranked words with a bar scaled to the top count, each
// row colored from p.
func PrintTable(w io.Writer, category string, counts []analysis.WordCount, total int, p palette.Palette) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Top %d words in %q", len(counts), category)))
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%d words counted", total)))
	if len(counts) == 0 {
		fmt.Fprintln(w, dimStyle.Render("(no words)"))
		return
	}

	wordWidth := 4
	for _, c := range counts {
		wordWidth = max(wordWidth, lipgloss.Width(c.Text))
	}
	wordStyle := lipgloss.NewStyle().Width(wordWidth + 2)
	top := counts[0].Size

	for i, c := range counts {
		color := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color(i)))
		bar := strings.Repeat("█", scaleBar(c.Size, top))
		fmt.Fprintln(w,
			rankStyle.Render(fmt.Sprintf("%d.", i+1)),
			wordStyle.Render(color.Render(c.Text)),
			countStyle.Render(fmt.Sprintf("%d", c.Size)),
			color.Render(bar),
		)
	}
}

func scaleBar(count, top int) int {
	if top <= 0 || count <= 0 {
		return 0
	}
	return max(1, count*barWidth/top)
}

// PrintCacheList prints one line per stored record.
func PrintCacheList(w io.Writer, root string, results []cache.ScanResult) {
	fmt.Fprintln(w, headerStyle.Render("Cache: "+root))
	if len(results) == 0 {
		fmt.Fprintln(w, dimStyle.Render("(empty)"))
		return
	}
	for _, r := range results {
		status := "fresh"
		if r.Expired {
			status = "expired"
		}
		line := fmt.Sprintf("%-40s %s  %6d words  %s", r.Key, r.Timestamp.Local().Format(time.DateTime), r.Words, status)
		if r.Expired {
			line = dimStyle.Render(line)
		}
		fmt.Fprintln(w, line)
	}
}

// PrintPalettes prints each palette with a swatch per color.
func PrintPalettes(w io.Writer, palettes []palette.Palette) {
	for _, p := range palettes {
		swatches := make([]string, 0, len(p.Colors))
		for _, c := range p.Colors {
			swatches = append(swatches, lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("██ "+c))
		}
		fmt.Fprintf(w, "%-10s %s\n", p.Name, strings.Join(swatches, " "))
	}
}
