package messages

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		message  Message
		expected string
	}{
		{LCDUpdate{Line: 1, Column: 2, Text: "HELLO"}, `{"line":1,"column":2,"text":"HELLO"}`},
		{LCDCursor{Line: 0, Column: 5, Cursor: "BLOCK"}, `{"line":0,"column":5,"cursor":"BLOCK"}`},
		{LEDStatus{Led: 13, Status: 1}, `{"led":13,"status":1}`},
		{Button{Button: '5'}, `{"button":"5"}`},
	}

	for _, test := range tests {
		data, err := Encode(test.message)
		require.NoError(t, err)
		assert.JSONEq(t, test.expected, string(data), "kind %s", test.message.Kind())
	}
}

func TestEncodeLCDUpdateRoundTrip(t *testing.T) {
	data, err := Encode(LCDUpdate{Line: 1, Column: 2, Text: "HELLO"})
	require.NoError(t, err)

	var parsed LCDUpdate
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, LCDUpdate{Line: 1, Column: 2, Text: "HELLO"}, parsed)
}

func TestDecodeButton(t *testing.T) {
	button, err := DecodeButton([]byte(`{"button":"7"}`))
	require.NoError(t, err)
	assert.Equal(t, '7', button.Button)

	button, err = DecodeButton([]byte(`{"button":"#","extra":true}`))
	require.NoError(t, err)
	assert.Equal(t, '#', button.Button)
}

func TestDecodeButtonInvalid(t *testing.T) {
	payloads := []string{
		``,
		`not json`,
		`[]`,
		`"1"`,
		`{}`,
		`{"key":"1"}`,
		`{"button":1}`,
		`{"button":null}`,
		`{"button":""}`,
		`{"button":"12"}`,
		`{"button":["1"]}`,
	}

	for _, payload := range payloads {
		_, err := DecodeButton([]byte(payload))
		var decodeErr *DecodeError
		assert.True(t, errors.As(err, &decodeErr), "payload %q should fail with DecodeError, got %v", payload, err)
	}
}

func TestDecodeErrorQuotesPayloadPrefix(t *testing.T) {
	prefix := `{"button":"`
	payload := prefix + strings.Repeat("1", 200) + `"}`

	_, err := DecodeButton([]byte(payload))
	require.Error(t, err)
	kept := maxErrorPayload - len(prefix)
	assert.Contains(t, err.Error(), strings.Repeat("1", kept)+"...")
	assert.NotContains(t, err.Error(), strings.Repeat("1", kept+1))
	assert.Contains(t, err.Error(), "button must be a single character, got 200")
}
