// Package palette holds the named color palettes offered to word-cloud
// renderers.
package palette

import (
	"strings"

	"go.trai.ch/zerr"
)

// Palette is a named, ordered list of hex colors.
type Palette struct {
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
}

var (
	Material = Palette{Name: "Material", Colors: []string{"#E57373", "#F06292", "#FFCDD2", "#F8BBD0", "#FF99CC", "#E91E63"}}
	Bright   = Palette{Name: "Bright", Colors: []string{"#FFD700", "#FFC107", "#FF8F00", "#FF5722", "#F4511E", "#E64A19"}}
	Pastel   = Palette{Name: "Pastel", Colors: []string{"#C5CAE9", "#B3E5FC", "#66D9EF", "#4DB6AC", "#81C784", "#8BC34A"}}
	Dark     = Palette{Name: "Dark", Colors: []string{"#455A64", "#37474F", "#455A64", "#78909C", "#546E7A", "#455A64"}}
	RGB      = Palette{Name: "RGB", Colors: []string{"#FF0000", "#00FF00", "#0000FF", "#FFFF00", "#00FFFF", "#FF00FF"}}
)

// ErrUnknownPalette is returned by Lookup for names that match no palette.
var ErrUnknownPalette = zerr.New("unknown palette")

// All returns every palette in display order.
func All() []Palette {
	return []Palette{Material, Bright, Pastel, Dark, RGB}
}

// Default is the palette used when none is requested.
func Default() Palette {
	return Material
}

// Lookup finds a palette by case-insensitive name.
func Lookup(name string) (Palette, error) {
	for _, p := range All() {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Palette{}, zerr.With(zerr.Wrap(ErrUnknownPalette, name), "valid", strings.Join(Names(), ", "))
}

// Names returns the palette names in display order.
func Names() []string {
	names := make([]string, 0, 5)
	for _, p := range All() {
		names = append(names, p.Name)
	}
	return names
}

// Color returns the i-th color, cycling through the palette.
func (p Palette) Color(i int) string {
	if len(p.Colors) == 0 {
		return ""
	}
	if i < 0 {
		i = -i
	}
	return p.Colors[i%len(p.Colors)]
}
