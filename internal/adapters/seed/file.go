// Package seed provides quote sources for the seed importer.
package seed

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/domain"
)

// entry is one quote in a seed document. JSON documents parse as YAML.
type entry struct {
	Text   string `yaml:"text"`
	Author string `yaml:"author"`
}

// document is the wrapped form: {quotes: [...]}.
type document struct {
	Quotes []entry `yaml:"quotes"`
}

// FileSource reads quotes from a YAML or JSON file.
type FileSource struct {
	path string
}

// NewFileSource returns a source for the file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name returns the file path.
func (s *FileSource) Name() string {
	return s.path
}

// Fetch reads and parses the file.
func (s *FileSource) Fetch(ctx context.Context) ([]domain.QuoteDraft, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	drafts, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing seed file %s: %w", s.path, err)
	}

	return drafts, nil
}

// Parse decodes a seed document: either a mapping with a quotes list or a
// bare list of {text, author} entries.
func Parse(data []byte) ([]domain.QuoteDraft, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	if len(root.Content) == 0 {
		return nil, nil
	}

	var entries []entry

	switch node := root.Content[0]; node.Kind {
	case yaml.SequenceNode:
		if err := node.Decode(&entries); err != nil {
			return nil, err
		}
	case yaml.MappingNode:
		var doc document
		if err := node.Decode(&doc); err != nil {
			return nil, err
		}

		entries = doc.Quotes
	default:
		return nil, fmt.Errorf("line %d: expected a list of quotes or a quotes: mapping", node.Line)
	}

	return toDrafts(entries), nil
}

func toDrafts(entries []entry) []domain.QuoteDraft {
	drafts := make([]domain.QuoteDraft, 0, len(entries))
	for _, e := range entries {
		drafts = append(drafts, domain.QuoteDraft{Text: e.Text, Author: e.Author})
	}

	return drafts
}
