package enigma

import "fmt"

// RotorKind tags the rotor variants. The kind decides the capability
// set: fixed rotors and reflectors never advance, and a reflector has a
// single valid position.
type RotorKind int

const (
	KindFixed RotorKind = iota
	KindMoving
	KindReflector
)

func (k RotorKind) String() string {
	switch k {
	case KindFixed:
		return "fixed"
	case KindMoving:
		return "moving"
	case KindReflector:
		return "reflector"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Rotor is one substitution wheel: a wiring permutation plus a
// rotational setting. Moving rotors additionally carry a notch set,
// fixed after construction.
type Rotor struct {
	name    string
	kind    RotorKind
	perm    *Permutation
	setting int
	notches []bool // indexed by alphabet index; nil unless moving
}

// NewRotor builds a rotor of the given kind. The notch string names the
// settings at which the rotor trips its left neighbor; only moving
// rotors may carry notches.
func NewRotor(name string, kind RotorKind, perm *Permutation, notches string) (*Rotor, error) {
	switch kind {
	case KindFixed, KindMoving, KindReflector:
	default:
		return nil, fmt.Errorf("%w: rotor %q has unknown kind %d", ErrInvalidOperation, name, int(kind))
	}
	if kind != KindMoving && notches != "" {
		return nil, fmt.Errorf("%w: %s rotor %q cannot carry notches", ErrInvalidOperation, kind, name)
	}
	r := &Rotor{name: name, kind: kind, perm: perm}
	if kind == KindMoving {
		r.notches = make([]bool, perm.Size())
		for _, c := range notches {
			i, err := perm.Alphabet().ToIndex(c)
			if err != nil {
				return nil, fmt.Errorf("rotor %q notch: %w", name, err)
			}
			r.notches[i] = true
		}
	}
	return r, nil
}

// Name returns the rotor's catalog identifier.
func (r *Rotor) Name() string { return r.name }

// Kind returns the variant tag.
func (r *Rotor) Kind() RotorKind { return r.kind }

// Setting returns the current rotational setting.
func (r *Rotor) Setting() int { return r.setting }

// Set rotates the rotor to posn. A reflector accepts only position 0.
func (r *Rotor) Set(posn int) error {
	if posn < 0 || posn >= r.perm.Size() {
		return fmt.Errorf("%w: setting %d for rotor %q", ErrIndexOutOfRange, posn, r.name)
	}
	if r.kind == KindReflector && posn != 0 {
		return fmt.Errorf("%w: reflector %q has only one position", ErrInvalidOperation, r.name)
	}
	r.setting = posn
	return nil
}

// SetSymbol translates c through the alphabet and calls Set.
func (r *Rotor) SetSymbol(c rune) error {
	i, err := r.perm.Alphabet().ToIndex(c)
	if err != nil {
		return err
	}
	return r.Set(i)
}

// ConvertForward passes an index left-to-right through the wiring at the
// current rotational offset.
func (r *Rotor) ConvertForward(in int) int {
	n := r.perm.Size()
	return mod(r.perm.Permute(in+r.setting)-r.setting, n)
}

// ConvertBackward passes an index back through the wiring at the current
// offset, using the inverse mapping.
func (r *Rotor) ConvertBackward(in int) int {
	n := r.perm.Size()
	return mod(r.perm.Invert(in+r.setting)-r.setting, n)
}

// AtNotch reports whether a moving rotor sits at one of its notches.
// Fixed rotors and reflectors are never at a notch.
func (r *Rotor) AtNotch() bool {
	return r.kind == KindMoving && r.notches[r.setting]
}

// Advance rotates a moving rotor one position, wrapping at the alphabet
// size. A no-op on fixed rotors and reflectors.
func (r *Rotor) Advance() {
	if r.kind == KindMoving {
		r.setting = (r.setting + 1) % r.perm.Size()
	}
}

// Rotates reports whether the rotor can ever advance.
func (r *Rotor) Rotates() bool { return r.kind == KindMoving }

// Clone returns a rotor sharing the wiring but with its own setting,
// reset to 0. The notch set is immutable and safe to share.
func (r *Rotor) Clone() *Rotor {
	c := *r
	c.setting = 0
	return &c
}
