package core

import "testing"

func TestColorANSI(t *testing.T) {
	tests := []struct {
		color Color
		code  string
		bold  bool
	}{
		{ColorPlain, "", false},
		{ColorEdge, "15", false},
		{ColorMarking, "245", false},
		{ColorObstacle, "9", true},
		{ColorCoin, "11", false},
		{ColorFuel, "10", true},
		{ColorMagnet, "13", false},
		{ColorSign, "14", false},
		{Color(200), "", false},
	}

	for _, tc := range tests {
		if got := tc.color.ANSI(); got != tc.code {
			t.Errorf("Color(%d).ANSI() = %q, expected %q", tc.color, got, tc.code)
		}
		if got := tc.color.Bold(); got != tc.bold {
			t.Errorf("Color(%d).Bold() = %v, expected %v", tc.color, got, tc.bold)
		}
	}
}
