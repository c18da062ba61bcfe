package svgtree

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/beevik/etree"
)

func newDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		PreserveCData: true,
	}
	doc.WriteSettings = etree.WriteSettings{
		CanonicalText:    true,
		CanonicalAttrVal: true,
	}
	return doc
}

// ReadFile loads SVG document from file.
func ReadFile(path string) (*etree.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read '%s': %w", path, err)
	}
	doc, err := ReadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse '%s': %w", path, err)
	}
	return doc, nil
}

// ReadBytes parses SVG document from memory. Document must have root element.
func ReadBytes(data []byte) (*etree.Document, error) {
	doc := newDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	return doc, nil
}

// WriteFile saves document to file.
func WriteFile(doc *etree.Document, path string) error {
	if err := doc.WriteToFile(path); err != nil {
		return fmt.Errorf("unable to write '%s': %w", path, err)
	}
	return nil
}

// DirLoader loads documents relative to a directory.
type DirLoader string

func (d DirLoader) Load(name string) (*etree.Document, error) {
	return ReadFile(filepath.Join(string(d), filepath.FromSlash(name)))
}
