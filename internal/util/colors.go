package util

import "github.com/fatih/color"

// Style names accepted by ColorOutput.
const (
	StyleTitle  = "title"
	StyleAuthor = "author"
	StylePrice  = "price"
	StyleRating = "rating"
	StyleMuted  = "muted"
	StyleError  = "error"
)

var styles = map[string][]color.Attribute{
	StyleTitle:  {color.Bold},
	StyleAuthor: {color.FgCyan},
	StylePrice:  {color.FgGreen},
	StyleRating: {color.FgYellow},
	StyleMuted:  {color.Faint},
	StyleError:  {color.FgHiRed, color.Bold},
}

// ColorOutput renders text with the attributes of every known style.
// Unknown styles are ignored.
func ColorOutput(text string, styleNames ...string) string {
	attributes := []color.Attribute{}
	for _, name := range styleNames {
		attributes = append(attributes, styles[name]...)
	}
	return color.New(attributes...).Sprint(text)
}
