package theme

import "strings"

// glyphRows is the height of the block digit font.
const glyphRows = 5

// glyphs is a 5-row block font covering the characters a countdown clock
// needs. Unknown characters render as blanks of the same width.
var glyphs = map[rune][glyphRows]string{
	'0': {"█▀▀█", "█  █", "█  █", "█  █", "█▄▄█"},
	'1': {" ▀█ ", "  █ ", "  █ ", "  █ ", " ▄█▄"},
	'2': {"▀▀▀█", "   █", "█▀▀▀", "█   ", "█▄▄▄"},
	'3': {"▀▀▀█", "   █", " ▀▀█", "   █", "▄▄▄█"},
	'4': {"█  █", "█  █", "▀▀▀█", "   █", "   █"},
	'5': {"█▀▀▀", "█   ", "▀▀▀█", "   █", "▄▄▄█"},
	'6': {"█▀▀▀", "█   ", "█▀▀█", "█  █", "█▄▄█"},
	'7': {"▀▀▀█", "   █", "   █", "   █", "   █"},
	'8': {"█▀▀█", "█  █", "█▀▀█", "█  █", "█▄▄█"},
	'9': {"█▀▀█", "█  █", "▀▀▀█", "   █", "▄▄▄█"},
	':': {"    ", " ▀▀ ", "    ", " ▀▀ ", "    "},
	' ': {"    ", "    ", "    ", "    ", "    "},
}

// renderBlockText renders s in the block font, one glyph per character.
func renderBlockText(s string) string {
	rows := make([]strings.Builder, glyphRows)
	for _, ch := range s {
		glyph, ok := glyphs[ch]
		if !ok {
			glyph = glyphs[' ']
		}
		for i := 0; i < glyphRows; i++ {
			rows[i].WriteString(glyph[i])
			rows[i].WriteString(" ")
		}
	}
	lines := make([]string, glyphRows)
	for i := range rows {
		lines[i] = strings.TrimRight(rows[i].String(), " ")
	}
	return strings.Join(lines, "\n")
}
