package filter

import (
	"fmt"
	"os"
	"testing"

	"github.com/beevik/etree"

	"lbm/svgtree"
)

func parseElement(t *testing.T, src string) *etree.Element {
	t.Helper()
	doc, err := svgtree.ReadBytes([]byte(src))
	if err != nil {
		t.Fatalf("unable to parse test document: %v", err)
	}
	return doc.Root()
}

func serialize(t *testing.T, el *etree.Element) string {
	t.Helper()
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	s, err := doc.WriteToString()
	if err != nil {
		t.Fatalf("unable to serialize: %v", err)
	}
	return s
}

// memLoader serves documents from memory.
type memLoader map[string]string

func (m memLoader) Load(name string) (*etree.Document, error) {
	src, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, os.ErrNotExist)
	}
	return svgtree.ReadBytes([]byte(src))
}

func fmtNum(f float64) string { return svgtree.FormatNumber(f) }

func parseNum(s string) (float64, error) { return svgtree.ParseLength(s) }
