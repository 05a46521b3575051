package messages

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/kaara/it100-websocket/pkg/utils"
	"github.com/mitchellh/mapstructure"
)

// Longest part of a rejected payload quoted in a DecodeError.
const maxErrorPayload = 64

// Kinds of messages exchanged with the WebSocket clients.
const (
	KindButton    string = "button"
	KindLCDUpdate string = "lcd_update"
	KindLCDCursor string = "lcd_cursor"
	KindLEDStatus string = "led_status"
)

// Message is a payload exchanged with the clients. The wire format has no
// envelope, the kind is implied by the fields.
type Message interface {
	Kind() string
}

// Button is the only message received from the clients.
type Button struct {
	Button rune
}

type LCDUpdate struct {
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Text   string `json:"text"`
}

type LCDCursor struct {
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Cursor string `json:"cursor"`
}

// LEDStatus reports a keypad LED. Zones are reported with this message as
// well, see bridge.Translate.
type LEDStatus struct {
	Led    int `json:"led"`
	Status int `json:"status"`
}

func (m Button) Kind() string    { return KindButton }
func (m LCDUpdate) Kind() string { return KindLCDUpdate }
func (m LCDCursor) Kind() string { return KindLCDCursor }
func (m LEDStatus) Kind() string { return KindLEDStatus }

func (m Button) MarshalJSON() ([]byte, error) {
	return json.Marshal(buttonPayload{Button: string(m.Button)})
}

type buttonPayload struct {
	Button string `json:"button" mapstructure:"button"`
}

// DecodeError is returned when an inbound payload is not a Button.
type DecodeError struct {
	Payload string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid button message %q: %v", utils.Truncate(e.Payload, maxErrorPayload), e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Encode serializes the message into the JSON text sent to the clients.
func Encode(message Message) ([]byte, error) {
	data, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("error encoding %s message: %w", message.Kind(), err)
	}
	return data, nil
}

// DecodeButton parses a text frame received from a client. The payload must be
// a JSON object with a "button" field holding exactly one character.
func DecodeButton(payload []byte) (Button, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Button{}, &DecodeError{Payload: string(payload), Err: err}
	}

	var decoded buttonPayload
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &decoded,
		ErrorUnset: true,
	})
	if err != nil {
		return Button{}, fmt.Errorf("error building decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return Button{}, &DecodeError{Payload: string(payload), Err: err}
	}

	if utf8.RuneCountInString(decoded.Button) != 1 {
		return Button{}, &DecodeError{
			Payload: string(payload),
			Err:     fmt.Errorf("button must be a single character, got %d", utf8.RuneCountInString(decoded.Button)),
		}
	}
	c, _ := utf8.DecodeRuneInString(decoded.Button)
	return Button{Button: c}, nil
}
