package export

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLExporter exports documents in YAML format.
type YAMLExporter struct{}

// Export implements Exporter.
func (e *YAMLExporter) Export(doc *Document, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(doc); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// Extension returns the file extension for this format.
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
