package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/enigma/catalog"
	"github.com/blackwell-systems/enigma/enigma"
)

var convertFlags struct {
	config    string
	rotors    []string
	setting   string
	plugboard string
	strict    bool
	verbose   bool
}

var convertCmd = &cobra.Command{
	Use:   "convert [file...]",
	Short: "Encipher or decipher messages",
	Long: "Convert reads messages from the given files, or stdin when none are\n" +
		"given, and writes the converted text in five-symbol groups, one line\n" +
		"of output per line of input. The machine is reciprocal: running the\n" +
		"output through the same configuration restores the message.\n\n" +
		"Each file is an independent message and gets a freshly configured\n" +
		"machine.",
	RunE: runConvert,
}

func init() {
	f := convertCmd.Flags()
	f.StringVarP(&convertFlags.config, "config", "c", "", "catalog YAML file (built-in wheel set when empty)")
	f.StringSliceVarP(&convertFlags.rotors, "rotors", "r", nil, "rotor names, leftmost (reflector) first")
	f.StringVarP(&convertFlags.setting, "setting", "s", "", "initial settings, one symbol per non-reflector slot")
	f.StringVarP(&convertFlags.plugboard, "plugboard", "p", "", `plugboard cycles, e.g. "(HQ) (EX)"`)
	f.BoolVar(&convertFlags.strict, "strict", false, "reject symbols outside the alphabet instead of dropping them")
	f.BoolVarP(&convertFlags.verbose, "verbose", "v", false, "trace rotor positions per symbol on stderr")
	_ = convertCmd.MarkFlagRequired("rotors")
	_ = convertCmd.MarkFlagRequired("setting")
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path != "" {
		return catalog.LoadFile(path)
	}
	return catalog.Default()
}

// newMachine builds and configures one machine from the catalog and the
// convert flags.
func newMachine(cat *catalog.Catalog) (*enigma.Machine, error) {
	m, err := catalog.Build(cat)
	if err != nil {
		return nil, err
	}
	if err := m.InsertRotors(convertFlags.rotors); err != nil {
		return nil, err
	}
	if err := m.CheckSlots(); err != nil {
		return nil, err
	}
	if err := m.SetRotors(convertFlags.setting); err != nil {
		return nil, err
	}
	if convertFlags.plugboard != "" {
		p, err := enigma.NewPermutation(m.Alphabet(), convertFlags.plugboard)
		if err != nil {
			return nil, fmt.Errorf("plugboard: %w", err)
		}
		if err := m.SetPlugboard(p); err != nil {
			return nil, err
		}
	}
	if convertFlags.verbose {
		m.SetTrace(traceTo(os.Stderr))
	}
	return m, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog(convertFlags.config)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		m, err := newMachine(cat)
		if err != nil {
			return err
		}
		return convertStream(m, os.Stdin, cmd.OutOrStdout())
	}

	// One machine per file: messages are independent and the catalog is
	// immutable, so the files can run in parallel. Output stays in
	// argument order.
	outputs := make([]string, len(args))
	g := new(errgroup.Group)
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			m, err := newMachine(cat)
			if err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			var b strings.Builder
			if err := convertStream(m, f, &b); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			outputs[i] = b.String()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, out := range outputs {
		fmt.Fprint(cmd.OutOrStdout(), out)
	}
	return nil
}

// convertStream converts r line by line, writing one grouped output line
// per input line. Blank input lines stay blank, preserving message
// paragraph breaks.
func convertStream(m *enigma.Machine, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		msg, err := cleanMessage(m.Alphabet(), sc.Text(), convertFlags.strict)
		if err != nil {
			return err
		}
		out, err := m.ConvertText(msg)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, groupSymbols(out, 5)); err != nil {
			return err
		}
	}
	return sc.Err()
}

// traceTo renders trace events in the operator's shorthand:
// "[SETTINGS] input -> plugged -> routed -> output".
func traceTo(w io.Writer) enigma.TraceFunc {
	return func(ev enigma.TraceEvent) {
		fmt.Fprintf(w, "[%s] %c -> %c -> %c -> %c\n",
			ev.Settings, ev.Input, ev.Plugged, ev.Routed, ev.Output)
	}
}
