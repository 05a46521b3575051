package it100

// Command codes understood by the panel.
const (
	CodeStatusRequest string = "001"
	CodeKeyPress      string = "070"
)

// Command is an instruction sent to the panel. The collaborator owning the
// serial link adds framing and checksum.
type Command interface {
	Code() string
	Data() string
}

// KeyPress simulates a single keypad key. A full button activation is a key
// press followed by a KeyPress of KeyBreak.
type KeyPress struct {
	Key Key
}

func (c KeyPress) Code() string { return CodeKeyPress }
func (c KeyPress) Data() string { return c.Key.String() }

// StatusRequest asks the panel to report the state of every zone, partition,
// LED and the LCD.
type StatusRequest struct{}

func (c StatusRequest) Code() string { return CodeStatusRequest }
func (c StatusRequest) Data() string { return "" }
