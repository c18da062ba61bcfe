package rows

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	"github.com/speedata/goxlsx"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Source produces rows, it may be called repeatedly (watch mode re-reads data
// on every change).
type Source interface {
	Rows() ([]Row, error)
}

// Static is an in-memory source.
type Static []Row

func (s Static) Rows() ([]Row, error) { return s, nil }

// File is a data file source, CSV or XLSX detected by content.
type File string

func (f File) Rows() ([]Row, error) {
	return ReadFile(string(f))
}

// ReadFile reads all rows from CSV or XLSX file. First line (row) is header.
func ReadFile(path string) ([]Row, error) {
	kind, err := filetype.MatchFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read data file '%s': %w", path, err)
	}
	if kind == matchers.TypeXlsx || strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open data file '%s': %w", path, err)
	}
	defer file.Close()

	rows, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("unable to read data file '%s': %w", path, err)
	}
	return rows, nil
}

// ReadCSV reads UTF-8 CSV, byte order mark (UTF-8 or UTF-16) is honored.
// Short records get empty values for missing columns.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read header: %w", err)
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, makeRow(header, func(i int) string {
			if i < len(rec) {
				return rec[i]
			}
			return ""
		}))
	}
}

// ReadXLSX reads rows from the first worksheet.
func ReadXLSX(path string) ([]Row, error) {
	sheet, err := goxlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open workbook '%s': %w", path, err)
	}
	ws, err := sheet.GetWorksheet(0)
	if err != nil {
		return nil, fmt.Errorf("unable to open first worksheet of '%s': %w", path, err)
	}
	if ws.MaxRow < ws.MinRow {
		return nil, nil
	}

	header := make([]string, 0, ws.MaxColumn-ws.MinColumn+1)
	for col := ws.MinColumn; col <= ws.MaxColumn; col++ {
		header = append(header, ws.Cell(col, ws.MinRow))
	}

	var rows []Row
	for row := ws.MinRow + 1; row <= ws.MaxRow; row++ {
		rows = append(rows, makeRow(header, func(i int) string {
			return ws.Cell(ws.MinColumn+i, row)
		}))
	}
	return rows, nil
}

func makeRow(header []string, value func(int) string) Row {
	row := make(Row, len(header))
	for i, name := range header {
		if name == "" {
			continue
		}
		row[name] = value(i)
	}
	return row
}
