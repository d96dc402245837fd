package core

// Color is the role a screen cell plays on the road. Renderers map each
// role to a terminal color with ANSI.
type Color uint8

const (
	ColorPlain    Color = iota // HUD text and blank cells
	ColorEdge                  // road edges
	ColorMarking               // dashed lane markings and faded signs
	ColorObstacle              // obstacles and the chosen wrong answer
	ColorCoin
	ColorFuel // fuel pickups and the correct answer
	ColorMagnet
	ColorSign // answer signs before the reveal
)

// ansi holds 256-color codes indexed by Color.
var ansi = [...]string{
	ColorPlain:    "",
	ColorEdge:     "15",
	ColorMarking:  "245",
	ColorObstacle: "9",
	ColorCoin:     "11",
	ColorFuel:     "10",
	ColorMagnet:   "13",
	ColorSign:     "14",
}

// ANSI returns the 256-color code for c, or "" for the terminal default.
func (c Color) ANSI() string {
	if int(c) >= len(ansi) {
		return ""
	}
	return ansi[c]
}

// Bold reports whether cells of this color are drawn bold.
func (c Color) Bold() bool {
	return c == ColorObstacle || c == ColorFuel
}
