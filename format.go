package main

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/blackwell-systems/enigma/enigma"
)

// cleanMessage prepares one input line for conversion: whitespace is
// dropped, and symbols are folded to upper case when the alphabet knows
// only the upper-case form. Symbols outside the alphabet are dropped,
// or rejected when strict is set.
func cleanMessage(alpha *enigma.Alphabet, msg string, strict bool) (string, error) {
	var b strings.Builder
	for _, c := range msg {
		if unicode.IsSpace(c) {
			continue
		}
		switch {
		case alpha.Contains(c):
			b.WriteRune(c)
		case alpha.Contains(unicode.ToUpper(c)):
			b.WriteRune(unicode.ToUpper(c))
		case strict:
			return "", fmt.Errorf("symbol %q not in alphabet", c)
		}
	}
	return b.String(), nil
}

// groupSymbols splits s into space-separated blocks of n symbols, the
// traditional transmission format.
func groupSymbols(s string, n int) string {
	if n <= 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + len(s)/n)
	for i, r := range []rune(s) {
		if i > 0 && i%n == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
