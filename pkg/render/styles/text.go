package styles

import (
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/mindmap/pkg/layout"
)

// charWidthRatio approximates the advance of one terminal column at a given
// font size.
const charWidthRatio = 0.6

// LabelColumns returns how many display columns fit inside the padded box.
func LabelColumns(b layout.Box) int {
	avail := b.W - 2*b.Style.Padding
	cols := int(avail / (b.Style.FontSize * charWidthRatio))
	return max(3, cols)
}

// Truncate shortens s to at most cols display columns, ending with "..".
// Wide runes count as two columns.
func Truncate(s string, cols int) string {
	if runewidth.StringWidth(s) <= cols {
		return s
	}
	return runewidth.Truncate(s, cols, "..")
}
