package core

import "testing"

func TestInputFrameSetHasClear(t *testing.T) {
	var f InputFrame // zero value must be usable

	if f.Has(ActionLaneLeft) {
		t.Error("Zero frame should have no actions")
	}

	f.Set(ActionLaneLeft)
	f.Set(ActionPause)
	if !f.Has(ActionLaneLeft) || !f.Has(ActionPause) {
		t.Error("Set actions should be reported by Has")
	}
	if f.Has(ActionLaneRight) {
		t.Error("Unset action should not be reported")
	}

	clone := f.Clone()
	f.Clear()
	if f.Has(ActionLaneLeft) {
		t.Error("Clear should remove all actions")
	}
	if !clone.Has(ActionLaneLeft) {
		t.Error("Clone should not be affected by Clear on the original")
	}
}

func TestActionString(t *testing.T) {
	tests := map[Action]string{
		ActionLaneLeft:  "LaneLeft",
		ActionLaneRight: "LaneRight",
		ActionOracle:    "Oracle",
		Action(99):      "Unknown",
	}
	for a, want := range tests {
		if got := a.String(); got != want {
			t.Errorf("Action(%d).String() = %q, expected %q", a, got, want)
		}
	}
}
