package utils

import (
	"testing"
)

func TestTruncate(t *testing.T) {
	expect(t, Truncate(`{"button":"1"}`, 64), `{"button":"1"}`)
	expect(t, Truncate(`{"button":"1"}`, 14), `{"button":"1"}`)
	expect(t, Truncate(`{"button":"1"}`, 9), `{"button"...`)
	expect(t, Truncate("ÄÖÜ", 2), "ÄÖ...")
	expect(t, Truncate("anything", 0), "")
}

func TestPrettyPrint(t *testing.T) {
	expect(t, PrettyPrint(map[string]int{"zone": 5}), `{"zone":5}`)
	expect(t, PrettyPrint(func() {}), "")
}

func expect(t *testing.T, result string, expect string) {
	if expect != result {
		t.Errorf("Expected='%s' but got '%s'", expect, result)
	}
}
