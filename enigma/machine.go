package enigma

import (
	"fmt"
	"strings"
)

// TraceEvent captures one conversion for an attached trace hook. The
// settings are sampled after the machine has stepped, matching the rotor
// positions that produced the substitution.
type TraceEvent struct {
	Settings string // one symbol per non-reflector slot, leftmost first
	Input    rune
	Plugged  rune // after the first plugboard pass
	Routed   rune // after the rotor stack
	Output   rune // after the second plugboard pass
}

// TraceFunc observes conversions. It must not mutate the machine.
type TraceFunc func(TraceEvent)

// Machine is a complete rotor machine: an ordered bank of rotor slots
// (slot 0 leftmost, holding the reflector; the last slot is the fastest
// rotor), a pawl count bounding how many rightmost rotors may ever step,
// a catalog of insertable rotors, and a plugboard.
//
// A Machine is not safe for concurrent use: every conversion reads and
// writes rotor settings. Build one machine per message stream; machines
// built from the same rotor set never share settings, because
// InsertRotors clones each rotor out of the catalog.
type Machine struct {
	alpha     *Alphabet
	numRotors int
	pawls     int
	catalog   map[string]*Rotor
	slots     []*Rotor
	plugboard *Permutation
	trace     TraceFunc
}

// NewMachine builds a machine with numRotors slots and the given rotors
// available for insertion. All rotors must share alpha, and names must
// be unique. The plugboard starts as the identity.
func NewMachine(alpha *Alphabet, numRotors, pawls int, rotors []*Rotor) (*Machine, error) {
	if numRotors < 2 {
		return nil, fmt.Errorf("%w: need at least 2 rotor slots, got %d", ErrInvalidOperation, numRotors)
	}
	if pawls < 0 || pawls >= numRotors {
		return nil, fmt.Errorf("%w: pawls %d outside [0, %d)", ErrInvalidOperation, pawls, numRotors)
	}
	m := &Machine{
		alpha:     alpha,
		numRotors: numRotors,
		pawls:     pawls,
		catalog:   make(map[string]*Rotor, len(rotors)),
		slots:     make([]*Rotor, numRotors),
		plugboard: Identity(alpha),
	}
	for _, r := range rotors {
		if r.perm.Alphabet() != alpha {
			return nil, fmt.Errorf("%w: rotor %q uses a different alphabet", ErrInvalidOperation, r.name)
		}
		if _, dup := m.catalog[r.name]; dup {
			return nil, fmt.Errorf("%w: rotor %q declared twice", ErrInvalidOperation, r.name)
		}
		m.catalog[r.name] = r
	}
	return m, nil
}

// Alphabet returns the machine's alphabet.
func (m *Machine) Alphabet() *Alphabet { return m.alpha }

// NumRotors returns the number of rotor slots.
func (m *Machine) NumRotors() int { return m.numRotors }

// Pawls returns the number of pawls, the count of rightmost rotors
// eligible to step.
func (m *Machine) Pawls() int { return m.pawls }

// SetTrace attaches a trace hook observing each conversion. A nil hook
// disables tracing. The hook never alters conversion results.
func (m *Machine) SetTrace(fn TraceFunc) { m.trace = fn }

// InsertRotors binds the named rotors into the slots in order, leftmost
// (reflector) first. Each slot receives a fresh clone at setting 0, so
// the catalog rotors stay untouched. On failure no slot is rebound.
//
// Slot-position policy (reflector leftmost, movers under pawls) is not
// checked here; see CheckSlots.
func (m *Machine) InsertRotors(names []string) error {
	if len(names) != m.numRotors {
		return fmt.Errorf("%w: %d rotor names for %d slots", ErrInvalidLength, len(names), m.numRotors)
	}
	next := make([]*Rotor, m.numRotors)
	seen := make(map[string]bool, len(names))
	for i, name := range names {
		tmpl, ok := m.catalog[name]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownRotorName, name)
		}
		if seen[name] {
			return fmt.Errorf("%w: rotor %q inserted twice", ErrInvalidOperation, name)
		}
		seen[name] = true
		next[i] = tmpl.Clone()
	}
	m.slots = next
	return nil
}

// CheckSlots verifies the slot arrangement: every slot bound, a
// reflector leftmost, and moving rotors confined to the rightmost pawls
// slots.
func (m *Machine) CheckSlots() error {
	if err := m.checkBound(); err != nil {
		return err
	}
	if m.slots[0].kind != KindReflector {
		return fmt.Errorf("%w: slot 0 holds %s rotor %q, want a reflector",
			ErrInvalidOperation, m.slots[0].kind, m.slots[0].name)
	}
	for i, r := range m.slots {
		if r.Rotates() && i < m.numRotors-m.pawls {
			return fmt.Errorf("%w: moving rotor %q in slot %d has no pawl", ErrInvalidOperation, r.name, i)
		}
	}
	return nil
}

// SetRotors sets the non-reflector slots from a string of numRotors-1
// symbols, leftmost first. All symbols are validated before any slot
// moves, so a failed call leaves every setting unchanged.
func (m *Machine) SetRotors(setting string) error {
	if err := m.checkBound(); err != nil {
		return err
	}
	runes := []rune(setting)
	if len(runes) != m.numRotors-1 {
		return fmt.Errorf("%w: setting %q has %d symbols, want %d",
			ErrInvalidLength, setting, len(runes), m.numRotors-1)
	}
	posns := make([]int, len(runes))
	for i, c := range runes {
		p, err := m.alpha.ToIndex(c)
		if err != nil {
			return err
		}
		if r := m.slots[i+1]; r.kind == KindReflector && p != 0 {
			return fmt.Errorf("%w: reflector %q has only one position", ErrInvalidOperation, r.name)
		}
		posns[i] = p
	}
	for i, p := range posns {
		m.slots[i+1].setting = p // validated above
	}
	return nil
}

// SetPlugboard replaces the plugboard permutation. The plugboard is
// applied on both sides of the rotor stack; a swap-only permutation is
// its own inverse, so one direction suffices.
func (m *Machine) SetPlugboard(p *Permutation) error {
	if p.Alphabet() != m.alpha {
		return fmt.Errorf("%w: plugboard uses a different alphabet", ErrInvalidOperation)
	}
	m.plugboard = p
	return nil
}

// Settings returns the current rotational settings of the non-reflector
// slots, one symbol each, leftmost first. Valid only after InsertRotors.
func (m *Machine) Settings() string {
	var b strings.Builder
	for i := 1; i < m.numRotors; i++ {
		b.WriteRune(m.alpha.symbols[m.slots[i].setting])
	}
	return b.String()
}

// Convert enciphers a single index: the machine steps once, then the
// index passes plugboard → rotor stack → plugboard. Inputs are validated
// before the machine steps, so a failed call commits nothing.
func (m *Machine) Convert(c int) (int, error) {
	if c < 0 || c >= m.alpha.Size() {
		return 0, fmt.Errorf("%w: %d outside [0, %d)", ErrIndexOutOfRange, c, m.alpha.Size())
	}
	if err := m.checkBound(); err != nil {
		return 0, err
	}
	m.advanceRotors()
	plugged := m.plugboard.Permute(c)
	routed := m.applyRotors(plugged)
	out := m.plugboard.Permute(routed)
	if m.trace != nil {
		m.trace(TraceEvent{
			Settings: m.Settings(),
			Input:    m.alpha.symbols[c],
			Plugged:  m.alpha.symbols[plugged],
			Routed:   m.alpha.symbols[routed],
			Output:   m.alpha.symbols[out],
		})
	}
	return out, nil
}

// ConvertText maps Convert over every symbol of msg. The machine steps
// once per symbol, so successive calls continue from the positions the
// previous call left behind. Output length always equals input length.
func (m *Machine) ConvertText(msg string) (string, error) {
	var b strings.Builder
	b.Grow(len(msg))
	for _, c := range msg {
		in, err := m.alpha.ToIndex(c)
		if err != nil {
			return "", err
		}
		out, err := m.Convert(in)
		if err != nil {
			return "", err
		}
		b.WriteRune(m.alpha.symbols[out])
	}
	return b.String(), nil
}

// advanceRotors runs the pawl pass. A rotor steps when its right
// neighbor sits at a notch; that condition also flags the next slot for
// one iteration, which reproduces the double-step of the mechanical
// machine. The fastest rotor always steps. Notch states are read as the
// pass goes, exactly as the pawls fall in the physical mechanism.
func (m *Machine) advanceRotors() {
	nextAtNotch := false
	for i := m.numRotors - m.pawls; i < m.numRotors-1; i++ {
		if m.slots[i+1].AtNotch() {
			m.slots[i].Advance()
			nextAtNotch = true
		} else if nextAtNotch {
			m.slots[i].Advance()
			nextAtNotch = false
		}
	}
	m.slots[m.numRotors-1].Advance()
}

// applyRotors passes an index through every slot right-to-left, the
// reflector included, then back left-to-right skipping the reflector.
// The asymmetry makes slot 0 the wiring midpoint.
func (m *Machine) applyRotors(c int) int {
	for i := m.numRotors - 1; i >= 0; i-- {
		c = m.slots[i].ConvertForward(c)
	}
	for i := 1; i < m.numRotors; i++ {
		c = m.slots[i].ConvertBackward(c)
	}
	return c
}

func (m *Machine) checkBound() error {
	for i, r := range m.slots {
		if r == nil {
			return fmt.Errorf("%w: slot %d is empty", ErrInvalidOperation, i)
		}
	}
	return nil
}
