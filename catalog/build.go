package catalog

import (
	"fmt"

	"github.com/blackwell-systems/enigma/enigma"
)

// Build constructs a machine from a parsed catalog: the shared alphabet,
// one rotor per definition, and the declared slot geometry. The rotors
// go into the machine's catalog; slots stay empty until InsertRotors.
//
// Reflector wirings must be derangements; a wheel that can map a signal
// back onto its own contact would let a symbol encrypt to itself.
func Build(cat *Catalog) (*enigma.Machine, error) {
	alpha, err := enigma.NewAlphabet(cat.Alphabet)
	if err != nil {
		return nil, fmt.Errorf("machine %q alphabet: %w", cat.Name, err)
	}
	rotors := make([]*enigma.Rotor, 0, len(cat.Rotors))
	for _, def := range cat.Rotors {
		kind, err := kindOf(def.Kind)
		if err != nil {
			return nil, fmt.Errorf("rotor %q: %w", def.Name, err)
		}
		perm, err := enigma.NewPermutation(alpha, def.Cycles)
		if err != nil {
			return nil, fmt.Errorf("rotor %q cycles: %w", def.Name, err)
		}
		if kind == enigma.KindReflector && !perm.Derangement() {
			return nil, fmt.Errorf("reflector %q wiring has a fixed point", def.Name)
		}
		r, err := enigma.NewRotor(def.Name, kind, perm, def.Notches)
		if err != nil {
			return nil, err
		}
		rotors = append(rotors, r)
	}
	return enigma.NewMachine(alpha, cat.Slots, cat.Pawls, rotors)
}

func kindOf(s string) (enigma.RotorKind, error) {
	switch s {
	case "moving":
		return enigma.KindMoving, nil
	case "fixed":
		return enigma.KindFixed, nil
	case "reflector":
		return enigma.KindReflector, nil
	}
	return 0, fmt.Errorf("unknown rotor type %q", s)
}
