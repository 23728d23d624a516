package enigma

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Historical wheel set used throughout: wheels I, II, III and the thin
// B reflector.
const (
	wiringII  = "(FIXVYOMW) (CDKLHUP) (ESZ) (BJ) (GR) (NT) (A) (Q)"
	wiringIII = "(ABDHPEJT) (CFLVMZOYQIRWUKXSG) (N)"
	wiringB   = "(AE) (BN) (CK) (DQ) (FU) (GY) (HW) (IJ) (LO) (MP) (RX) (SZ) (TV)"
)

// newTestMachine builds a 4-slot, 3-pawl machine with wheels B, I, II,
// III in the catalog. Slots stay empty until InsertRotors.
func newTestMachine(t *testing.T) *Machine {
	t.Helper()
	a := mustAlphabet(t, upper)
	defs := []struct {
		name    string
		kind    RotorKind
		cycles  string
		notches string
	}{
		{"B", KindReflector, wiringB, ""},
		{"I", KindMoving, wiringI, "Q"},
		{"II", KindMoving, wiringII, "E"},
		{"III", KindMoving, wiringIII, "V"},
	}
	rotors := make([]*Rotor, 0, len(defs))
	for _, d := range defs {
		r, err := NewRotor(d.name, d.kind, mustPermutation(t, a, d.cycles), d.notches)
		if err != nil {
			t.Fatalf("NewRotor(%s): %v", d.name, err)
		}
		rotors = append(rotors, r)
	}
	m, err := NewMachine(a, 4, 3, rotors)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	return m
}

func configureTestMachine(t *testing.T, setting string) *Machine {
	t.Helper()
	m := newTestMachine(t)
	if err := m.InsertRotors([]string{"B", "I", "II", "III"}); err != nil {
		t.Fatalf("InsertRotors: %v", err)
	}
	if err := m.CheckSlots(); err != nil {
		t.Fatalf("CheckSlots: %v", err)
	}
	if err := m.SetRotors(setting); err != nil {
		t.Fatalf("SetRotors(%q): %v", setting, err)
	}
	return m
}

func TestMachineReciprocity(t *testing.T) {
	m := configureTestMachine(t, "AAA")
	const msg = "HELLOWORLD"

	cipher, err := m.ConvertText(msg)
	if err != nil {
		t.Fatalf("ConvertText: %v", err)
	}
	if len(cipher) != len(msg) {
		t.Fatalf("cipher length %d, want %d", len(cipher), len(msg))
	}
	for i := range msg {
		if cipher[i] == msg[i] {
			t.Errorf("symbol %d encrypted to itself (%c)", i, msg[i])
		}
	}

	if err := m.SetRotors("AAA"); err != nil {
		t.Fatalf("SetRotors: %v", err)
	}
	plain, err := m.ConvertText(cipher)
	if err != nil {
		t.Fatalf("ConvertText: %v", err)
	}
	if plain != msg {
		t.Errorf("decrypt = %q, want %q", plain, msg)
	}
}

func TestMachineReciprocityWithPlugboard(t *testing.T) {
	m := configureTestMachine(t, "AAA")
	plug := mustPermutation(t, m.Alphabet(), "(HQ) (EX) (IP) (TR) (BY)")
	if err := m.SetPlugboard(plug); err != nil {
		t.Fatalf("SetPlugboard: %v", err)
	}

	const msg = "ATTACKATDAWN"
	cipher, err := m.ConvertText(msg)
	if err != nil {
		t.Fatalf("ConvertText: %v", err)
	}
	if err := m.SetRotors("AAA"); err != nil {
		t.Fatalf("SetRotors: %v", err)
	}
	plain, err := m.ConvertText(cipher)
	if err != nil {
		t.Fatalf("ConvertText: %v", err)
	}
	if plain != msg {
		t.Errorf("decrypt = %q, want %q", plain, msg)
	}
}

// The plugboard wraps the rotor stack: with plugboard P and the bare
// machine E, conversion is P(E(P(x))).
func TestMachinePlugboardWrapsStack(t *testing.T) {
	bare := configureTestMachine(t, "AAA")
	plugged := configureTestMachine(t, "AAA")
	plug := mustPermutation(t, plugged.Alphabet(), "(AB) (CD)")
	if err := plugged.SetPlugboard(plug); err != nil {
		t.Fatalf("SetPlugboard: %v", err)
	}

	in := 0 // A
	got, err := plugged.Convert(in)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	mid, err := bare.Convert(plug.Permute(in))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if want := plug.Permute(mid); got != want {
		t.Errorf("Convert with plugboard = %d, want %d", got, want)
	}
}

// With only the fastest rotor at its notch, one conversion advances the
// fastest rotor and its immediate left neighbor; the leftmost moving
// rotor holds.
func TestMachineNormalStep(t *testing.T) {
	m := configureTestMachine(t, "ADV") // III sits at its notch V
	if _, err := m.Convert(0); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if got := m.Settings(); got != "AEW" {
		t.Errorf("Settings = %q, want AEW", got)
	}
}

// The middle rotor steps at the turnover and again on the very next
// keypress, dragging the slow rotor with it. Reference sequence computed
// from wheels I, II, III (notches Q, E, V) starting at ADT.
func TestMachineDoubleStepSequence(t *testing.T) {
	m := configureTestMachine(t, "ADT")
	want := []string{"ADU", "ADV", "AEW", "BFX", "BFY", "BFZ"}
	var got []string
	for range want {
		if _, err := m.Convert(0); err != nil {
			t.Fatalf("Convert: %v", err)
		}
		got = append(got, m.Settings())
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stepping sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestMachineFastestRotorAlwaysSteps(t *testing.T) {
	m := configureTestMachine(t, "AAA")
	for i := 1; i <= 26; i++ {
		if _, err := m.Convert(0); err != nil {
			t.Fatalf("Convert: %v", err)
		}
		want := string(rune('A' + i%26))
		if got := m.Settings()[2:]; got != want {
			t.Fatalf("after %d steps fastest rotor at %q, want %q", i, got, want)
		}
	}
}

func TestInsertRotorsUnknownName(t *testing.T) {
	m := configureTestMachine(t, "CAT")
	err := m.InsertRotors([]string{"B", "I", "II", "IV"})
	if !errors.Is(err, ErrUnknownRotorName) {
		t.Fatalf("error = %v, want ErrUnknownRotorName", err)
	}
	if got := m.Settings(); got != "CAT" {
		t.Errorf("slots changed after failed insert: settings %q", got)
	}
}

func TestInsertRotorsWrongCount(t *testing.T) {
	m := newTestMachine(t)
	if err := m.InsertRotors([]string{"B", "I"}); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("error = %v, want ErrInvalidLength", err)
	}
}

func TestInsertRotorsRejectsDuplicates(t *testing.T) {
	m := newTestMachine(t)
	err := m.InsertRotors([]string{"B", "I", "I", "III"})
	if !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("error = %v, want ErrInvalidOperation", err)
	}
}

func TestInsertRotorsClonesCatalog(t *testing.T) {
	m1 := configureTestMachine(t, "AAA")
	m2 := newTestMachine(t)

	// Stepping one machine must not disturb another built from the same
	// wheel definitions.
	if _, err := m1.Convert(0); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if err := m2.InsertRotors([]string{"B", "I", "II", "III"}); err != nil {
		t.Fatalf("InsertRotors: %v", err)
	}
	if got := m2.Settings(); got != "AAA" {
		t.Errorf("fresh machine settings = %q, want AAA", got)
	}
}

func TestSetRotorsWrongLength(t *testing.T) {
	m := configureTestMachine(t, "DOG")
	for _, s := range []string{"", "AB", "ABCD"} {
		if err := m.SetRotors(s); !errors.Is(err, ErrInvalidLength) {
			t.Errorf("SetRotors(%q) error = %v, want ErrInvalidLength", s, err)
		}
	}
	if got := m.Settings(); got != "DOG" {
		t.Errorf("settings changed after failed SetRotors: %q", got)
	}
}

func TestSetRotorsInvalidSymbol(t *testing.T) {
	m := configureTestMachine(t, "DOG")
	if err := m.SetRotors("A?C"); !errors.Is(err, ErrInvalidSymbol) {
		t.Errorf("error = %v, want ErrInvalidSymbol", err)
	}
	if got := m.Settings(); got != "DOG" {
		t.Errorf("settings changed after failed SetRotors: %q", got)
	}
}

func TestCheckSlots(t *testing.T) {
	m := newTestMachine(t)
	if err := m.CheckSlots(); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("empty slots: error = %v, want ErrInvalidOperation", err)
	}
	if err := m.InsertRotors([]string{"I", "B", "II", "III"}); err != nil {
		t.Fatalf("InsertRotors: %v", err)
	}
	if err := m.CheckSlots(); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("mover in slot 0: error = %v, want ErrInvalidOperation", err)
	}
}

func TestConvertBeforeInsert(t *testing.T) {
	m := newTestMachine(t)
	if _, err := m.Convert(0); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("error = %v, want ErrInvalidOperation", err)
	}
}

func TestConvertIndexOutOfRange(t *testing.T) {
	m := configureTestMachine(t, "AAA")
	before := m.Settings()
	if _, err := m.Convert(26); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("error = %v, want ErrIndexOutOfRange", err)
	}
	if got := m.Settings(); got != before {
		t.Errorf("machine stepped on rejected input: %q", got)
	}
}

func TestConvertTextInvalidSymbol(t *testing.T) {
	m := configureTestMachine(t, "AAA")
	if _, err := m.ConvertText("HEL LO"); !errors.Is(err, ErrInvalidSymbol) {
		t.Errorf("error = %v, want ErrInvalidSymbol", err)
	}
}

func TestConvertTextIsStateful(t *testing.T) {
	whole := configureTestMachine(t, "AAA")
	split := configureTestMachine(t, "AAA")

	full, err := whole.ConvertText("HELLOWORLD")
	if err != nil {
		t.Fatalf("ConvertText: %v", err)
	}
	head, err := split.ConvertText("HELLO")
	if err != nil {
		t.Fatalf("ConvertText: %v", err)
	}
	tail, err := split.ConvertText("WORLD")
	if err != nil {
		t.Fatalf("ConvertText: %v", err)
	}
	if head+tail != full {
		t.Errorf("split conversion %q+%q != %q", head, tail, full)
	}
}

func TestTraceHook(t *testing.T) {
	m := configureTestMachine(t, "AAA")
	var events []TraceEvent
	m.SetTrace(func(ev TraceEvent) { events = append(events, ev) })

	out, err := m.Convert(0)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d trace events, want 1", len(events))
	}
	ev := events[0]
	if ev.Settings != "AAB" {
		t.Errorf("trace settings = %q, want AAB", ev.Settings)
	}
	if ev.Input != 'A' {
		t.Errorf("trace input = %q, want 'A'", ev.Input)
	}
	if got, _ := m.Alphabet().ToIndex(ev.Output); got != out {
		t.Errorf("trace output %q does not match Convert result %d", ev.Output, out)
	}
	// Identity plugboard: the traced intermediate equals the input.
	if ev.Plugged != ev.Input {
		t.Errorf("trace plugged = %q, want %q", ev.Plugged, ev.Input)
	}

	// The hook must not change results: replay without it.
	quiet := configureTestMachine(t, "AAA")
	qOut, err := quiet.Convert(0)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if qOut != out {
		t.Errorf("traced Convert = %d, untraced = %d", out, qOut)
	}
}

func TestNewMachineValidation(t *testing.T) {
	a := mustAlphabet(t, upper)
	refl, err := NewRotor("B", KindReflector, mustPermutation(t, a, wiringB), "")
	if err != nil {
		t.Fatalf("NewRotor: %v", err)
	}
	if _, err := NewMachine(a, 1, 0, []*Rotor{refl}); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("numRotors=1: error = %v, want ErrInvalidOperation", err)
	}
	if _, err := NewMachine(a, 4, 4, []*Rotor{refl}); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("pawls=numRotors: error = %v, want ErrInvalidOperation", err)
	}
	if _, err := NewMachine(a, 4, 3, []*Rotor{refl, refl}); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("duplicate name: error = %v, want ErrInvalidOperation", err)
	}
}
