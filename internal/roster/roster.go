// Package roster reads, writes and generates batches of questionnaire
// submissions and submits them to a running pairing service.
package roster

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/okian/duet/internal/domain/model"
	"go.yaml.in/yaml/v3"
)

// File is the on-disk shape of a roster. A bare list of records is
// accepted as well.
type File struct {
	// Now optionally pins the evaluation time in epoch milliseconds.
	Now     *int64            `yaml:"now,omitempty" json:"now,omitempty"`
	Records []model.RawRecord `yaml:"records" json:"records"`
}

// Load reads a roster from a YAML or JSON file.
func Load(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a roster document. JSON parses as YAML.
func Decode(r io.Reader) (File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return File{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return File{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if len(node.Content) == 0 {
		return File{}, nil
	}
	var out File
	switch node.Content[0].Kind {
	case yaml.SequenceNode:
		err = node.Content[0].Decode(&out.Records)
	case yaml.MappingNode:
		err = node.Content[0].Decode(&out)
	default:
		err = fmt.Errorf("expected a list of records or a mapping with records")
	}
	if err != nil {
		return File{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return out, nil
}

// Encode writes f as YAML.
func Encode(w io.Writer, f File) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
