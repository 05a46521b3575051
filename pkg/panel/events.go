package panel

import (
	"encoding/json"
	"fmt"

	"github.com/kaara/it100-websocket/pkg/it100"
	"github.com/mitchellh/mapstructure"
	"golang.org/x/text/encoding/charmap"
)

// Event kinds published by the panel collaborator, one topic per kind.
const (
	KindLCDUpdate    string = "lcd_update"
	KindLCDCursor    string = "lcd_cursor"
	KindLEDStatus    string = "led_status"
	KindZoneOpen     string = "zone_open"
	KindZoneRestored string = "zone_restored"
)

type lcdUpdatePayload struct {
	Line   int    `mapstructure:"line"`
	Column int    `mapstructure:"column"`
	Data   string `mapstructure:"data"`
}

type lcdCursorPayload struct {
	Line   int `mapstructure:"line"`
	Column int `mapstructure:"column"`
	Type   int `mapstructure:"type"`
}

type ledStatusPayload struct {
	Led    int `mapstructure:"led"`
	Status int `mapstructure:"status"`
}

type zonePayload struct {
	Zone int `mapstructure:"zone"`
}

// decodeEvent builds the panel event published under the given kind.
func decodeEvent(kind string, payload []byte) (it100.Event, error) {
	switch kind {
	case KindLCDUpdate:
		p, err := decodePayload[lcdUpdatePayload](payload)
		if err != nil {
			return nil, err
		}
		data, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(p.Data))
		if err != nil {
			return nil, fmt.Errorf("LCD text is not Latin-1: %w", err)
		}
		return it100.LCDUpdate{LineNumber: p.Line, ColumnNumber: p.Column, ASCIIData: data}, nil
	case KindLCDCursor:
		p, err := decodePayload[lcdCursorPayload](payload)
		if err != nil {
			return nil, err
		}
		return it100.LCDCursor{LineNumber: p.Line, ColumnNumber: p.Column, CursorType: it100.CursorType(p.Type)}, nil
	case KindLEDStatus:
		p, err := decodePayload[ledStatusPayload](payload)
		if err != nil {
			return nil, err
		}
		return it100.LEDStatus{LED: it100.LED(p.Led), Status: it100.LEDState(p.Status)}, nil
	case KindZoneOpen:
		p, err := decodePayload[zonePayload](payload)
		if err != nil {
			return nil, err
		}
		return it100.ZoneOpen{Zone: p.Zone}, nil
	case KindZoneRestored:
		p, err := decodePayload[zonePayload](payload)
		if err != nil {
			return nil, err
		}
		return it100.ZoneRestored{Zone: p.Zone}, nil
	}
	return it100.UnknownEvent{Kind: kind, Payload: string(payload)}, nil
}

// decodePayload maps the JSON payload into the given structure. Every field
// is required; numbers sent as strings are accepted.
func decodePayload[T any](payload []byte) (*T, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("error parsing event payload: %w", err)
	}

	res := new(T)
	config := &mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           res,
		WeaklyTypedInput: true,
		ErrorUnset:       true,
	}
	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return nil, fmt.Errorf("error building decoder: %w", err)
	}
	if err = decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("error decoding event payload: %w", err)
	}
	return res, nil
}
