package knowledge

import _ "embed"

// defaultClusters ships a baseline knowledge base so the engine works
// without any external file.
//
//go:embed clusters.yaml
var defaultClusters []byte

// ParseDefault loads the embedded baseline knowledge base.
func (l *Loader) ParseDefault() (*Table, error) {
	return l.Parse(defaultClusters)
}
