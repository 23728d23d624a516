package enigma

import (
	"fmt"
	"unicode"
)

// Permutation maps alphabet indices through a set of disjoint cycles.
// Indices not named in any cycle map to themselves. The forward and
// backward tables are built once at construction; lookups never fail.
type Permutation struct {
	alpha    *Alphabet
	forward  []int
	backward []int
}

// Identity returns the permutation mapping every index to itself.
func Identity(alpha *Alphabet) *Permutation {
	p := &Permutation{
		alpha:    alpha,
		forward:  make([]int, alpha.Size()),
		backward: make([]int, alpha.Size()),
	}
	for i := range p.forward {
		p.forward[i] = i
		p.backward[i] = i
	}
	return p
}

// NewPermutation parses a cycle specification such as "(ABC) (DE)" over
// alpha. Each parenthesized run maps every symbol to its successor, the
// last wrapping to the first. Symbols absent from the spec are fixed
// points.
func NewPermutation(alpha *Alphabet, spec string) (*Permutation, error) {
	p := Identity(alpha)
	seen := make([]bool, alpha.Size())
	runes := []rune(spec)

	i := 0
	for i < len(runes) {
		if unicode.IsSpace(runes[i]) {
			i++
			continue
		}
		if runes[i] != '(' {
			return nil, fmt.Errorf("%w: unexpected %q at position %d", ErrMalformedCycle, runes[i], i)
		}
		i++
		var cycle []int
		for i < len(runes) && runes[i] != ')' {
			r := runes[i]
			if r == '(' || unicode.IsSpace(r) {
				return nil, fmt.Errorf("%w: unexpected %q inside cycle at position %d", ErrMalformedCycle, r, i)
			}
			idx, ok := alpha.index[r]
			if !ok {
				return nil, fmt.Errorf("%w: %q at position %d not in alphabet", ErrMalformedCycle, r, i)
			}
			if seen[idx] {
				return nil, fmt.Errorf("%w: %q appears in more than one place", ErrMalformedCycle, r)
			}
			seen[idx] = true
			cycle = append(cycle, idx)
			i++
		}
		if i == len(runes) {
			return nil, fmt.Errorf("%w: unclosed cycle in %q", ErrMalformedCycle, spec)
		}
		if len(cycle) == 0 {
			return nil, fmt.Errorf("%w: empty cycle at position %d", ErrMalformedCycle, i)
		}
		i++ // consume ')'
		for j, from := range cycle {
			to := cycle[(j+1)%len(cycle)]
			p.forward[from] = to
			p.backward[to] = from
		}
	}
	return p, nil
}

// Size returns the alphabet size.
func (p *Permutation) Size() int { return p.alpha.Size() }

// Alphabet returns the alphabet the permutation is defined over.
func (p *Permutation) Alphabet() *Alphabet { return p.alpha }

// Permute applies the forward mapping. The input is wrapped into
// [0, size), so modular rotor arithmetic can pass raw sums.
func (p *Permutation) Permute(i int) int { return p.forward[mod(i, len(p.forward))] }

// Invert applies the backward mapping, wrapping like Permute. For all i,
// Invert(Permute(i)) == i.
func (p *Permutation) Invert(i int) int { return p.backward[mod(i, len(p.backward))] }

// PermuteSymbol is the symbol form of Permute.
func (p *Permutation) PermuteSymbol(r rune) (rune, error) {
	i, err := p.alpha.ToIndex(r)
	if err != nil {
		return 0, err
	}
	return p.alpha.symbols[p.forward[i]], nil
}

// InvertSymbol is the symbol form of Invert.
func (p *Permutation) InvertSymbol(r rune) (rune, error) {
	i, err := p.alpha.ToIndex(r)
	if err != nil {
		return 0, err
	}
	return p.alpha.symbols[p.backward[i]], nil
}

// Derangement reports whether no index maps to itself. Whether fixed
// points are allowed is policy: reflectors must be derangements, a
// plugboard need not be. The caller enforces it.
func (p *Permutation) Derangement() bool {
	for i, to := range p.forward {
		if i == to {
			return false
		}
	}
	return true
}

// mod wraps i into [0, n) for any sign of i.
func mod(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
