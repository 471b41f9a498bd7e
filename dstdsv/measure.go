package dstdsv

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Unit denotes the measurement unit reported by the gauge. The value of each
// constant is the single-character code used on the wire.
type Unit string

const (
	// UnitNewton denotes force in Newton
	UnitNewton Unit = "N"

	// UnitKilograms denotes force in kilograms
	UnitKilograms Unit = "K"
)

// Mode denotes the measurement mode of the gauge
type Mode string

const (
	// ModeRealtime reports the instantaneous force value
	ModeRealtime Mode = "T"

	// ModePeak reports the peak force value since the last reset
	ModePeak Mode = "P"
)

// State denotes the measurement state reported alongside a value
type State string

const (
	// StateBelowLimit is reported while the value is below the low limit point
	StateBelowLimit State = "L"

	// StateGood is reported while the value is between the limit points
	StateGood State = "O"

	// StateAboveLimit is reported while the value is above the high limit point
	StateAboveLimit State = "H"

	// StateOverload is reported when the sensor is overloaded
	StateOverload State = "E"
)

// Code returns the wire code for the unit
func (u Unit) Code() string { return string(u) }

// Code returns the wire code for the mode
func (m Mode) Code() string { return string(m) }

// Code returns the wire code for the state
func (s State) Code() string { return string(s) }

func (u Unit) String() string {
	switch u {
	case UnitNewton:
		return "Newton"
	case UnitKilograms:
		return "Kilograms"
	}
	return fmt.Sprintf("Unit(%q)", string(u))
}

func (m Mode) String() string {
	switch m {
	case ModeRealtime:
		return "Realtime"
	case ModePeak:
		return "Peak"
	}
	return fmt.Sprintf("Mode(%q)", string(m))
}

func (s State) String() string {
	switch s {
	case StateBelowLimit:
		return "BelowLimit"
	case StateGood:
		return "Good"
	case StateAboveLimit:
		return "AboveLimit"
	case StateOverload:
		return "Overload"
	}
	return fmt.Sprintf("State(%q)", string(s))
}

// ParseUnit resolves a wire code to a Unit. Codes outside the table are an
// error, never a fallback value.
func ParseUnit(code string) (Unit, error) {
	switch u := Unit(code); u {
	case UnitNewton, UnitKilograms:
		return u, nil
	}
	return "", fmt.Errorf("unknown unit code %q", code)
}

// ParseMode resolves a wire code to a Mode
func ParseMode(code string) (Mode, error) {
	switch m := Mode(code); m {
	case ModeRealtime, ModePeak:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode code %q", code)
}

// ParseState resolves a wire code to a State
func ParseState(code string) (State, error) {
	switch s := State(code); s {
	case StateBelowLimit, StateGood, StateAboveLimit, StateOverload:
		return s, nil
	}
	return "", fmt.Errorf("unknown state code %q", code)
}

// Measure is a single measurement returned by the gauge. Instances are only
// ever built from a successfully parsed device response.
type Measure struct {
	Value decimal.Decimal `json:"value"`
	Unit  Unit            `json:"unit"`
	Mode  Mode            `json:"mode"`
	State State           `json:"state"`
}

func (m Measure) String() string {
	return fmt.Sprintf("%s %s (%s, %s)", m.Value, m.Unit, m.Mode, m.State)
}
