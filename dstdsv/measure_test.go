package dstdsv

import "testing"

func TestUnitCodeRoundTrip(t *testing.T) {
	for _, u := range []Unit{UnitNewton, UnitKilograms} {
		got, err := ParseUnit(u.Code())
		if err != nil {
			t.Errorf("ParseUnit(%q): %s", u.Code(), err)
			continue
		}
		if got != u {
			t.Errorf("ParseUnit(%q) = %s, want %s", u.Code(), got, u)
		}
	}
}

func TestModeCodeRoundTrip(t *testing.T) {
	for _, m := range []Mode{ModeRealtime, ModePeak} {
		got, err := ParseMode(m.Code())
		if err != nil {
			t.Errorf("ParseMode(%q): %s", m.Code(), err)
			continue
		}
		if got != m {
			t.Errorf("ParseMode(%q) = %s, want %s", m.Code(), got, m)
		}
	}
}

func TestStateCodeRoundTrip(t *testing.T) {
	for _, s := range []State{StateBelowLimit, StateGood, StateAboveLimit, StateOverload} {
		got, err := ParseState(s.Code())
		if err != nil {
			t.Errorf("ParseState(%q): %s", s.Code(), err)
			continue
		}
		if got != s {
			t.Errorf("ParseState(%q) = %s, want %s", s.Code(), got, s)
		}
	}
}

func TestUnknownCodesFail(t *testing.T) {
	// "A" is outside every table; lowercase codes are never valid
	for _, code := range []string{"A", "n", "t", "l", "", "NK"} {
		if _, err := ParseUnit(code); err == nil {
			t.Errorf("ParseUnit(%q) unexpectedly succeeded", code)
		}
		if _, err := ParseMode(code); err == nil {
			t.Errorf("ParseMode(%q) unexpectedly succeeded", code)
		}
		if _, err := ParseState(code); err == nil {
			t.Errorf("ParseState(%q) unexpectedly succeeded", code)
		}
	}
}

func TestCrossTableCodesFail(t *testing.T) {
	// Codes valid in one table must not resolve in another
	if _, err := ParseUnit(ModeRealtime.Code()); err == nil {
		t.Error("mode code resolved as unit")
	}
	if _, err := ParseMode(UnitNewton.Code()); err == nil {
		t.Error("unit code resolved as mode")
	}
	if _, err := ParseState(UnitKilograms.Code()); err == nil {
		t.Error("unit code resolved as state")
	}
}
