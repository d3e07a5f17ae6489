package keymap

import "testing"

const (
	keyW Key = iota + 1
	keyS
	keyA
	keyD
	keyShift
	keyUp
	keyLeft
	keyE
	keyF12
)

func testBindings() Bindings {
	return Bindings{
		MoveForward:  {keyW, keyUp},
		MoveBackward: {keyS},
		StrafeLeft:   {keyA},
		StrafeRight:  {keyD},
		Run:          {keyShift},
		RotateLeft:   {keyLeft},
		Interact:     {keyE},
	}
}

func TestTracker_ConsumesBoundKeys(t *testing.T) {
	tr := NewTracker(testBindings())

	if !tr.KeyDown(keyW) {
		t.Error("KeyDown(W) should be consumed")
	}
	if tr.KeyDown(keyF12) {
		t.Error("KeyDown(F12) should pass through")
	}
	if tr.KeyUp(keyF12) {
		t.Error("KeyUp(F12) should pass through")
	}

	in := tr.State()
	if !in.Forward || in.Backward {
		t.Errorf("State() = %+v, want forward only", in)
	}

	tr.KeyUp(keyW)
	if tr.State().Forward {
		t.Error("forward should be released after KeyUp")
	}
}

func TestTracker_AlternateKeysShareAction(t *testing.T) {
	tr := NewTracker(testBindings())
	tr.KeyDown(keyW)
	tr.KeyDown(keyUp)
	tr.KeyUp(keyW)

	if !tr.State().Forward {
		t.Error("forward should stay active while the arrow key is held")
	}
}

func TestTracker_MouseAccumulatesAndClears(t *testing.T) {
	tr := NewTracker(testBindings())
	tr.MouseMotion(3, -1)
	tr.MouseMotion(2, 4)
	tr.Wheel(1)

	in := tr.State()
	if in.MouseDX != 5 || in.MouseDY != 3 || in.Wheel != 1 {
		t.Errorf("State() mouse = (%g, %g, %g), want (5, 3, 1)", in.MouseDX, in.MouseDY, in.Wheel)
	}

	in = tr.State()
	if in.MouseDX != 0 || in.MouseDY != 0 || in.Wheel != 0 {
		t.Errorf("deltas should clear after State(), got %+v", in)
	}
}

func TestTracker_Reset(t *testing.T) {
	tr := NewTracker(testBindings())
	tr.KeyDown(keyShift)
	tr.KeyDown(keyE)
	tr.MouseMotion(10, 10)
	tr.Reset()

	in := tr.State()
	if in.Run || in.Interact || in.MouseDX != 0 {
		t.Errorf("State() after Reset = %+v, want idle", in)
	}
}

func TestTracker_FirstBindingWins(t *testing.T) {
	b := testBindings()
	b[RotateRight] = []Key{keyS} // also bound to backward
	tr := NewTracker(b)
	tr.KeyDown(keyS)

	in := tr.State()
	if !in.Backward || in.RotateRight {
		t.Errorf("State() = %+v, want backward only", in)
	}
}

func TestAction_String(t *testing.T) {
	if Interact.String() != "interact" {
		t.Errorf("Interact.String() = %q", Interact.String())
	}
	if Action(99).String() != "unknown" {
		t.Errorf("Action(99).String() = %q", Action(99).String())
	}
}
