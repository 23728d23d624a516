// Package catalog loads rotor-machine descriptions from YAML and builds
// live enigma machines from them. The core never sees a file format;
// this package is the boundary between configuration and the cipher
// engine.
package catalog

// RotorDef describes one rotor wiring in a catalog file.
type RotorDef struct {
	Name    string
	Kind    string // "moving", "fixed", or "reflector"
	Cycles  string // wiring in cycle notation
	Notches string // turnover settings; moving rotors only
}

// Catalog is a parsed machine description: the shared alphabet, the slot
// geometry, and every rotor available for insertion. Rotor order follows
// the document.
type Catalog struct {
	Name     string
	Alphabet string
	Slots    int
	Pawls    int
	Rotors   []RotorDef
}

// Rotor returns the definition with the given name, or false.
func (c *Catalog) Rotor(name string) (RotorDef, bool) {
	for _, d := range c.Rotors {
		if d.Name == name {
			return d, true
		}
	}
	return RotorDef{}, false
}
