package catalog

import _ "embed"

//go:embed default.yaml
var defaultYAML []byte

// Default returns the built-in catalog, the historical naval wheel set.
func Default() (*Catalog, error) {
	return Parse(defaultYAML)
}
