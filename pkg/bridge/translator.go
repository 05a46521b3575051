package bridge

import (
	"github.com/kaara/it100-websocket/pkg/it100"
	"github.com/kaara/it100-websocket/pkg/messages"
	"golang.org/x/text/encoding/charmap"
)

// Zones are reported to the clients as LEDs numbered from zoneLEDOffset + 1,
// above the nine keypad LEDs.
const zoneLEDOffset = 10

const (
	zoneRestored = 0
	zoneOpen     = 1
)

// Translate returns the message sent to the clients for a panel event. ok is
// false for events the clients are not interested in.
func Translate(event it100.Event) (message messages.Message, ok bool) {
	switch e := event.(type) {
	case it100.LCDUpdate:
		return messages.LCDUpdate{Line: e.LineNumber, Column: e.ColumnNumber, Text: lcdText(e.ASCIIData)}, true
	case it100.LCDCursor:
		return messages.LCDCursor{Line: e.LineNumber, Column: e.ColumnNumber, Cursor: e.CursorType.String()}, true
	case it100.LEDStatus:
		return messages.LEDStatus{Led: e.LED.Number(), Status: e.Status.Code()}, true
	case it100.ZoneOpen:
		return messages.LEDStatus{Led: zoneLEDOffset + e.Zone, Status: zoneOpen}, true
	case it100.ZoneRestored:
		return messages.LEDStatus{Led: zoneLEDOffset + e.Zone, Status: zoneRestored}, true
	}
	return nil, false
}

// lcdText decodes the characters sent by the panel. Bytes above 0x7F are kept
// as their Latin-1 rune so the JSON stays valid UTF-8.
func lcdText(data []byte) string {
	text, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(text)
}
