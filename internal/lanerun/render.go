package lanerun

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/sign-runner/internal/core"
)

// Visual characters for rendering
const (
	CarChar      = '▲'
	ObstacleChar = '▓'
	CoinChar     = 'o'
	FuelChar     = 'F'
	MagnetChar   = 'M'
	LaneEdgeChar = '│'
	LaneMarkChar = '┆'
	LifeChar     = '♥'
)

const (
	laneWidth    = 11
	viewDistance = 60.0 // Travel units visible ahead of the car
)

// layout maps road coordinates to screen cells.
type layout struct {
	roadX, top, bottom, carRow int
}

func newLayout(dst *core.Screen) layout {
	roadW := NumLanes*laneWidth + NumLanes + 1
	l := layout{
		roadX:  (dst.Width() - roadW) / 2,
		top:    3,
		bottom: dst.Height() - 3,
	}
	l.carRow = l.bottom - 2
	return l
}

func (l layout) laneCenter(lane int) int {
	return l.roadX + 1 + lane*(laneWidth+1) + laneWidth/2
}

// row returns the screen row of a travel position.
func (l layout) row(pos float64) (int, bool) {
	y := l.carRow + int(math.Round(pos/viewDistance*float64(l.carRow-l.top)))
	return y, y >= l.top && y <= l.bottom
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.store == nil {
		return
	}
	s := g.store.Snapshot()
	l := newLayout(dst)

	g.drawRoad(dst, l, s.Ticks)
	g.drawAnswers(dst, l, &s)
	for _, e := range g.obstacles.Entities() {
		drawEntity(dst, l, e)
	}
	for _, e := range g.Pickups() {
		if !e.Resolved {
			drawEntity(dst, l, e)
		}
	}
	g.drawCar(dst, l, &s)
	g.drawHUD(dst, &s)

	if s.Paused {
		drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}
	if s.GameOver {
		drawCenteredMessage(dst, "GAME OVER", fmt.Sprintf("Score: %d  |  Press R to restart", s.Score))
	}
}

func (g *Game) drawRoad(dst *core.Screen, l layout, ticks int) {
	height := l.bottom - l.top + 1
	for lane := 0; lane <= NumLanes; lane++ {
		x := l.roadX + lane*(laneWidth+1)
		if lane == 0 || lane == NumLanes {
			dst.DrawVLine(x, l.top, height, LaneEdgeChar, core.ColorEdge)
			continue
		}
		// Dashed markings scroll with the road.
		for y := l.top; y <= l.bottom; y++ {
			if (y+ticks/4)%3 != 0 {
				dst.SetColored(x, y, LaneMarkChar, core.ColorMarking)
			}
		}
	}
}

func drawEntity(dst *core.Screen, l layout, e Entity) {
	y, ok := l.row(e.Pos)
	if !ok {
		return
	}
	x := l.laneCenter(e.Lane)
	switch e.Kind {
	case KindObstacle:
		dst.DrawTextColored(x-2, y, strings.Repeat(string(ObstacleChar), 5), core.ColorObstacle)
	case KindCoin:
		dst.SetColored(x, y, CoinChar, core.ColorCoin)
	case KindFuel:
		dst.SetColored(x, y, FuelChar, core.ColorFuel)
	case KindMagnet:
		dst.SetColored(x, y, MagnetChar, core.ColorMagnet)
	}
}

func (g *Game) drawAnswers(dst *core.Screen, l layout, s *GameState) {
	if !g.answers.Active || s.Question == nil || g.answers.QuestionID != s.Question.ID {
		return
	}
	y, ok := l.row(g.answers.Pos)
	if !ok {
		return
	}
	for i, opt := range s.Question.Options {
		lane := g.answers.Lanes[i]
		color := core.ColorSign
		if s.Reveal != nil {
			switch lane {
			case s.Reveal.CorrectLane:
				color = core.ColorFuel
			case s.Reveal.ChosenLane:
				color = core.ColorObstacle
			default:
				color = core.ColorMarking
			}
		}
		label := signLabel(opt.Name, laneWidth-2)
		dst.DrawTextColored(l.laneCenter(lane)-len([]rune(label))/2, y, label, color)
	}
}

// signLabel shortens a sign name to fit a lane.
func signLabel(name string, width int) string {
	r := []rune(name)
	if len(r) <= width {
		return name
	}
	return string(r[:width-1]) + "."
}

func (g *Game) drawCar(dst *core.Screen, l layout, s *GameState) {
	x := l.laneCenter(s.CurrentLane)
	if s.Transitioning() {
		// Halfway between the two lanes.
		x = (x + l.laneCenter(s.TargetLane)) / 2
	}
	color := core.ColorEdge
	if s.Boosted(s.Clock) {
		color = core.ColorMagnet
	}
	dst.SetColored(x, l.carRow, CarChar, color)
	dst.DrawTextColored(x-1, l.carRow+1, "███", color)
}

func (g *Game) drawHUD(dst *core.Screen, s *GameState) {
	lives := strings.Repeat(string(LifeChar), s.Lives) + strings.Repeat("·", core.Max(0, s.MaxLives-s.Lives))
	hud := fmt.Sprintf(" Score: %d  Lives: %s  Coins: %d  Streak: %d  Speed: %.1fx ",
		s.Score, lives, s.CoinsCollected, s.ConsecutiveCorrect, s.Speed*s.Multiplier)
	dst.DrawText(1, 0, hud)

	mode := "CLASSIC"
	if s.OracleMode {
		mode = "ORACLE"
	}
	dst.DrawTextColored(dst.Width()-len(mode)-2, 0, mode, core.ColorSign)

	if s.Question != nil {
		dst.DrawTextCentered(1, s.Question.Text)
	}

	status := ""
	statusColor := core.ColorPlain
	if r := s.Reveal; r != nil {
		if r.Correct {
			status, statusColor = "Correct!", core.ColorFuel
		} else {
			status, statusColor = "Wrong sign.", core.ColorObstacle
			if r.ChosenLane == NoLane {
				status = "Missed it."
			}
			if r.Hint != "" {
				status += " " + r.Hint
			}
		}
	} else if s.Boosted(s.Clock) {
		status, statusColor = fmt.Sprintf("Magnet x2: %.0fs", s.BoostUntil-s.Clock), core.ColorMagnet
	}
	if status != "" {
		x := (dst.Width() - len([]rune(status))) / 2
		dst.DrawTextColored(x, dst.Height()-2, status, statusColor)
	}

	dst.DrawTextColored(1, dst.Height()-1, "←/→ steer  P pause  O oracle  R restart  Q quit", core.ColorMarking)
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := core.Max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	dst.DrawText(boxX+(boxW-len(title))/2, boxY+1, title)
	dst.DrawText(boxX+(boxW-len(subtitle))/2, boxY+3, subtitle)
}
