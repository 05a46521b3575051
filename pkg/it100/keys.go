package it100

import "fmt"

// Key is a keypad key of the panel, identified by the ASCII character the
// IT-100 uses for it in a key press command.
type Key byte

const (
	Key0      Key = '0'
	Key1      Key = '1'
	Key2      Key = '2'
	Key3      Key = '3'
	Key4      Key = '4'
	Key5      Key = '5'
	Key6      Key = '6'
	Key7      Key = '7'
	Key8      Key = '8'
	Key9      Key = '9'
	KeyStar   Key = '*'
	KeyPound  Key = '#'
	KeyFire   Key = 'F'
	KeyAux    Key = 'A'
	KeyPanic  Key = 'P'
	KeyF1     Key = 'a'
	KeyF2     Key = 'b'
	KeyF3     Key = 'c'
	KeyF4     Key = 'd'
	KeyF5     Key = 'e'
	KeyLeft   Key = '<'
	KeyRight  Key = '>'
	KeyBoth   Key = '='
	KeyMemory Key = 'L'
	KeyBreak  Key = '^'
)

var keys = map[rune]Key{}

func init() {
	for _, k := range []Key{
		Key0, Key1, Key2, Key3, Key4, Key5, Key6, Key7, Key8, Key9,
		KeyStar, KeyPound, KeyFire, KeyAux, KeyPanic,
		KeyF1, KeyF2, KeyF3, KeyF4, KeyF5,
		KeyLeft, KeyRight, KeyBoth, KeyMemory, KeyBreak,
	} {
		keys[rune(k)] = k
	}
}

// UnknownKeyError is returned when a character has no keypad key.
type UnknownKeyError struct {
	Char rune
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("no keypad key for character %q", e.Char)
}

// KeyFromASCII returns the key sent by the panel for the given character.
func KeyFromASCII(c rune) (Key, error) {
	key, ok := keys[c]
	if !ok {
		return 0, &UnknownKeyError{Char: c}
	}
	return key, nil
}

func (k Key) String() string {
	return string(rune(k))
}
