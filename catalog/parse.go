package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Raw YAML structures for unmarshaling.

type rawFile struct {
	Machine rawMachine `yaml:"machine"`
}

type rawMachine struct {
	Name     string              `yaml:"name"`
	Alphabet string              `yaml:"alphabet"`
	Slots    int                 `yaml:"slots"`
	Pawls    int                 `yaml:"pawls"`
	Rotors   map[string]rawRotor `yaml:"rotors"`
}

type rawRotor struct {
	Type    string `yaml:"type"`
	Cycles  string `yaml:"cycles"`
	Notches string `yaml:"notches"`
}

// LoadFile parses a catalog YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses catalog YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	var raw rawFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("yaml parse: %w", err)
	}
	m := &raw.Machine
	if m.Name == "" {
		return nil, fmt.Errorf("machine must have a name")
	}
	if m.Alphabet == "" {
		return nil, fmt.Errorf("machine %q must declare an alphabet", m.Name)
	}
	if m.Slots < 2 {
		return nil, fmt.Errorf("machine %q needs at least 2 slots, has %d", m.Name, m.Slots)
	}
	if m.Pawls < 0 || m.Pawls >= m.Slots {
		return nil, fmt.Errorf("machine %q: pawls %d outside [0, %d)", m.Name, m.Pawls, m.Slots)
	}

	cat := &Catalog{
		Name:     m.Name,
		Alphabet: m.Alphabet,
		Slots:    m.Slots,
		Pawls:    m.Pawls,
	}

	// Rotors are declared as a mapping; re-unmarshal the node to recover
	// the document's key order, which Go maps discard.
	var ordered struct {
		Machine struct {
			Rotors yaml.Node `yaml:"rotors"`
		} `yaml:"machine"`
	}
	if err := yaml.Unmarshal(data, &ordered); err != nil {
		return nil, err
	}
	node := &ordered.Machine.Rotors
	if node.Kind == yaml.MappingNode {
		for i := 0; i < len(node.Content)-1; i += 2 {
			name := node.Content[i].Value
			rr, ok := m.Rotors[name]
			if !ok {
				return nil, fmt.Errorf("rotor %q not found", name)
			}
			def, err := parseRotorDef(name, rr)
			if err != nil {
				return nil, err
			}
			cat.Rotors = append(cat.Rotors, def)
		}
	}
	if len(cat.Rotors) == 0 {
		return nil, fmt.Errorf("machine %q declares no rotors", m.Name)
	}
	return cat, nil
}

func parseRotorDef(name string, rr rawRotor) (RotorDef, error) {
	def := RotorDef{Name: name, Cycles: rr.Cycles, Notches: rr.Notches}
	switch rr.Type {
	case "moving":
		def.Kind = rr.Type
	case "fixed", "reflector":
		def.Kind = rr.Type
		if rr.Notches != "" {
			return def, fmt.Errorf("%s rotor %q cannot have notches", rr.Type, name)
		}
	default:
		return def, fmt.Errorf("unknown type %q for rotor %q", rr.Type, name)
	}
	if def.Cycles == "" {
		return def, fmt.Errorf("rotor %q has no cycles", name)
	}
	return def, nil
}
