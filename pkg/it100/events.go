package it100

import "fmt"

// Event codes reported by the panel.
const (
	CodeZoneOpen     string = "609"
	CodeZoneRestored string = "610"
	CodeLCDUpdate    string = "901"
	CodeLCDCursor    string = "902"
	CodeLEDStatus    string = "903"
)

// Event is a decoded message received from the panel.
type Event interface {
	Code() string
}

type CursorType int

const (
	CursorOff    CursorType = 0
	CursorNormal CursorType = 1
	CursorBlock  CursorType = 2
)

func (c CursorType) String() string {
	switch c {
	case CursorOff:
		return "OFF"
	case CursorNormal:
		return "NORMAL"
	case CursorBlock:
		return "BLOCK"
	}
	return fmt.Sprintf("CursorType(%d)", int(c))
}

// LED is one of the keypad indicator lights.
type LED int

const (
	LEDReady     LED = 1
	LEDArmed     LED = 2
	LEDMemory    LED = 3
	LEDBypass    LED = 4
	LEDTrouble   LED = 5
	LEDProgram   LED = 6
	LEDFire      LED = 7
	LEDBacklight LED = 8
	LEDAC        LED = 9
)

func (l LED) Number() int { return int(l) }

type LEDState int

const (
	LEDOff      LEDState = 0
	LEDOn       LEDState = 1
	LEDFlashing LEDState = 2
)

func (s LEDState) Code() int { return int(s) }

// LCDUpdate carries text written to the keypad display starting at the given
// position.
type LCDUpdate struct {
	LineNumber   int
	ColumnNumber int
	ASCIIData    []byte
}

type LCDCursor struct {
	LineNumber   int
	ColumnNumber int
	CursorType   CursorType
}

type LEDStatus struct {
	LED    LED
	Status LEDState
}

type ZoneOpen struct {
	Zone int
}

type ZoneRestored struct {
	Zone int
}

// UnknownEvent is any panel report the bridge does not understand.
type UnknownEvent struct {
	Kind    string
	Payload string
}

func (e LCDUpdate) Code() string    { return CodeLCDUpdate }
func (e LCDCursor) Code() string    { return CodeLCDCursor }
func (e LEDStatus) Code() string    { return CodeLEDStatus }
func (e ZoneOpen) Code() string     { return CodeZoneOpen }
func (e ZoneRestored) Code() string { return CodeZoneRestored }
func (e UnknownEvent) Code() string { return e.Kind }
