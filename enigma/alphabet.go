// Package enigma implements a configurable rotor cipher machine: an
// ordered bank of interchangeable rotors behind a reflector, plus a
// plugboard, together forming a reciprocal substitution cipher.
//
// The layers, bottom → top:
//
//	Alphabet  →  Permutation  →  Rotor  →  Machine
//
// Catalog parsing and message I/O live outside this package; the core
// only consumes already-constructed alphabets, permutations, and rotors.
package enigma

import "fmt"

// Alphabet is a bijection between a symbol set and the dense indices
// [0, size). Immutable once constructed.
type Alphabet struct {
	symbols []rune
	index   map[rune]int
}

// NewAlphabet builds an alphabet from the symbols of s, in order.
func NewAlphabet(s string) (*Alphabet, error) {
	a := &Alphabet{index: make(map[rune]int)}
	for _, r := range s {
		if _, dup := a.index[r]; dup {
			return nil, fmt.Errorf("%w: duplicate symbol %q in alphabet", ErrInvalidSymbol, r)
		}
		a.index[r] = len(a.symbols)
		a.symbols = append(a.symbols, r)
	}
	if len(a.symbols) == 0 {
		return nil, fmt.Errorf("%w: empty alphabet", ErrInvalidSymbol)
	}
	return a, nil
}

// Size returns the number of symbols.
func (a *Alphabet) Size() int { return len(a.symbols) }

// Contains reports whether r is a member of the alphabet.
func (a *Alphabet) Contains(r rune) bool {
	_, ok := a.index[r]
	return ok
}

// ToIndex maps a symbol to its index.
func (a *Alphabet) ToIndex(r rune) (int, error) {
	i, ok := a.index[r]
	if !ok {
		return 0, fmt.Errorf("%w: %q not in alphabet", ErrInvalidSymbol, r)
	}
	return i, nil
}

// ToSymbol maps an index to its symbol. The index is not wrapped; out of
// range indicates a defect upstream of the core.
func (a *Alphabet) ToSymbol(i int) (rune, error) {
	if i < 0 || i >= len(a.symbols) {
		return 0, fmt.Errorf("%w: %d outside [0, %d)", ErrIndexOutOfRange, i, len(a.symbols))
	}
	return a.symbols[i], nil
}

// Symbols returns the alphabet as a string, in index order.
func (a *Alphabet) Symbols() string { return string(a.symbols) }
