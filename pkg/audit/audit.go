// Package audit loads facility audit documents and evaluates every section
// with the utility calculators.
package audit

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the document looked up in a project directory.
const FileName = "audit.yaml"

// Load reads an audit document from a YAML or JSON file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading audit file: %w", err)
	}
	return Parse(data)
}

// Parse decodes an audit document. Unknown fields are rejected so that a
// misspelled payload name does not silently drop a measurement.
func Parse(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("parsing audit YAML: empty document")
		}
		return nil, fmt.Errorf("parsing audit YAML: %w", err)
	}
	return &doc, nil
}

// LoadProject loads the audit document of a project directory.
func LoadProject(projectDir string) (*Document, error) {
	return Load(filepath.Join(projectDir, FileName))
}
