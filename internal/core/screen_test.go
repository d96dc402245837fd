package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 || s.Height() != 24 {
		t.Errorf("Dimensions = %dx%d, expected 80x24", s.Width(), s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ' ' {
				t.Fatalf("New screen should be filled with spaces, got %q at (%d, %d)", s.Get(x, y), x, y)
			}
		}
	}
}

func TestScreenSetColored(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetColored(3, 4, '▓', ColorObstacle)
	cell := s.GetCell(3, 4)
	if cell.Rune != '▓' || cell.Color != ColorObstacle {
		t.Errorf("GetCell(3, 4) = %+v, expected red '▓'", cell)
	}

	// Out of bounds should be silent
	s.SetColored(-1, 0, 'A', ColorObstacle)
	s.SetColored(0, 100, 'A', ColorObstacle)

	if s.GetCell(100, 0) != blankCell {
		t.Error("Out of bounds GetCell should return a blank cell")
	}
}

func TestScreenClearResetsColor(t *testing.T) {
	s := NewScreen(4, 4)
	s.SetColored(1, 1, 'x', ColorFuel)
	s.Clear()

	if s.GetCell(1, 1) != blankCell {
		t.Errorf("After Clear, expected blank cell, got %+v", s.GetCell(1, 1))
	}
}

func TestScreenDrawTextColored(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawTextColored(18, 0, "Hello", ColorCoin) // Only "He" should fit

	if s.Get(18, 0) != 'H' || s.Get(19, 0) != 'e' {
		t.Error("Text should be clipped at right boundary")
	}
	if s.GetCell(18, 0).Color != ColorCoin {
		t.Error("Text should carry its color")
	}
}

func TestScreenDrawTextMultibyte(t *testing.T) {
	s := NewScreen(10, 1)
	s.DrawText(0, 0, "♥♥♥ 3")

	if got := s.Row(0); !strings.HasPrefix(got, "♥♥♥ 3") {
		t.Errorf("Row(0) = %q, expected hearts to occupy one cell each", got)
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawBox(NewRect(1, 1, 5, 4))

	corners := map[[2]int]rune{
		{1, 1}: '┌',
		{5, 1}: '┐',
		{1, 4}: '└',
		{5, 4}: '┘',
	}
	for pos, want := range corners {
		if got := s.Get(pos[0], pos[1]); got != want {
			t.Errorf("Corner at %v = %q, expected %q", pos, got, want)
		}
	}
	if s.Get(3, 1) != '─' || s.Get(1, 2) != '│' {
		t.Error("Box edges not drawn")
	}
}

func TestScreenDrawVLine(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawVLine(3, 2, 4, '│', ColorMarking)

	for y := 2; y < 6; y++ {
		if c := s.GetCell(3, y); c.Rune != '│' || c.Color != ColorMarking {
			t.Errorf("DrawVLine: unexpected cell %+v at (3, %d)", c, y)
		}
	}
}

func TestScreenStringAndResize(t *testing.T) {
	s := NewScreen(5, 3)
	s.DrawText(0, 0, "AAAAA")
	s.DrawText(0, 1, "BBBBB")
	s.DrawText(0, 2, "CCCCC")

	if got := s.String(); got != "AAAAA\nBBBBB\nCCCCC" {
		t.Errorf("String() = %q", got)
	}

	s.Resize(3, 2)
	if got := s.String(); got != "AAA\nBBB" {
		t.Errorf("After shrink String() = %q", got)
	}

	s.Resize(6, 3)
	if !strings.HasPrefix(s.Row(0), "AAA") {
		t.Errorf("Content should be preserved after enlarging, row 0 = %q", s.Row(0))
	}
	if s.Row(-1) != "      " {
		t.Errorf("Out of bounds row should be spaces, got %q", s.Row(-1))
	}
}
