// Package layout places generated label instances on a grid and splits them
// into pages.
package layout

import (
	"context"
	"fmt"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"lbm/config"
	"lbm/rows"
	"lbm/svgtree"
)

// PageSource produces empty page backgrounds.
type PageSource interface {
	CloneBase() *etree.Document
}

// PageSink receives finished pages in order, page numbers start at 0.
type PageSink interface {
	WritePage(page int, doc *etree.Document) error
}

// PageSinkFunc adapts function to PageSink.
type PageSinkFunc func(page int, doc *etree.Document) error

func (f PageSinkFunc) WritePage(page int, doc *etree.Document) error { return f(page, doc) }

// Generator instantiates label for a row.
type Generator interface {
	Generate(row rows.Row) ([]*etree.Element, error)
}

// State is position of the next label. Minor index moves first, for row
// direction it is column and for col direction it is row.
type State struct {
	Minor, Major int
	Page         int
	Dir          config.Direction
}

// Engine is not safe for concurrent use.
type Engine struct {
	sheet  Sheet
	source PageSource
	sink   PageSink
	log    *zap.Logger

	minorBound, majorBound int

	state  State
	page   *etree.Document
	placed int
	pages  int
}

func New(sheet Sheet, source PageSource, sink PageSink, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if sheet.Rows <= 0 {
		return nil, &BoundsError{Axis: "row", Bound: sheet.Rows}
	}
	if sheet.Cols <= 0 {
		return nil, &BoundsError{Axis: "column", Bound: sheet.Cols}
	}
	if sheet.StartRow < 0 || sheet.StartRow >= sheet.Rows {
		return nil, &BoundsError{Axis: "row", Start: sheet.StartRow, Bound: sheet.Rows}
	}
	if sheet.StartCol < 0 || sheet.StartCol >= sheet.Cols {
		return nil, &BoundsError{Axis: "column", Start: sheet.StartCol, Bound: sheet.Cols}
	}

	e := &Engine{
		sheet:  sheet,
		source: source,
		sink:   sink,
		log:    log,
		state:  State{Dir: sheet.Dir},
	}
	switch sheet.Dir {
	case config.DirectionRow:
		e.minorBound, e.majorBound = sheet.Cols, sheet.Rows
		e.state.Minor, e.state.Major = sheet.StartCol, sheet.StartRow
	case config.DirectionCol:
		e.minorBound, e.majorBound = sheet.Rows, sheet.Cols
		e.state.Minor, e.state.Major = sheet.StartRow, sheet.StartCol
	default:
		return nil, fmt.Errorf("unsupported direction %s", sheet.Dir)
	}
	return e, nil
}

func (e *Engine) State() State { return e.state }

// Pages returns number of pages handed to the sink so far.
func (e *Engine) Pages() int { return e.pages }

// Placed returns number of labels placed so far.
func (e *Engine) Placed() int { return e.placed }

func (e *Engine) openPage() {
	e.page = e.source.CloneBase()
	root := e.page.Root()
	if e.sheet.SizeX > 0 {
		root.CreateAttr("width", svgtree.FormatNumber(e.sheet.SizeX))
	}
	if e.sheet.SizeY > 0 {
		root.CreateAttr("height", svgtree.FormatNumber(e.sheet.SizeY))
	}
	if e.sheet.SizeX > 0 && e.sheet.SizeY > 0 {
		root.CreateAttr("viewBox", "0 0 "+svgtree.FormatNumber(e.sheet.SizeX)+" "+svgtree.FormatNumber(e.sheet.SizeY))
	}
}

func (e *Engine) position() (float64, float64) {
	minor, major := float64(e.state.Minor), float64(e.state.Major)
	if e.state.Dir == config.DirectionRow {
		return e.sheet.OffX + minor*e.sheet.IncX, e.sheet.OffY + major*e.sheet.IncY
	}
	return e.sheet.OffX + major*e.sheet.IncX, e.sheet.OffY + minor*e.sheet.IncY
}

// Place puts single label instance at the current position and advances it,
// completed page is sent to the sink.
func (e *Engine) Place(fragments []*etree.Element) error {
	if e.page == nil {
		e.openPage()
	}
	root := e.page.Root()

	x, y := e.position()
	g := etree.NewElement("g")
	g.Space = root.Space
	g.CreateAttr("transform", svgtree.Translate(x, y))
	for _, f := range fragments {
		g.AddChild(f)
	}
	root.AddChild(g)
	e.placed++

	e.state.Minor++
	if e.state.Minor == e.minorBound {
		e.state.Minor = 0
		e.state.Major++
	}
	if e.state.Major == e.majorBound {
		if err := e.flush(); err != nil {
			return err
		}
		e.state.Major = 0
		e.state.Page++
	}
	return nil
}

func (e *Engine) flush() error {
	doc := e.page
	e.page = nil
	if err := e.sink.WritePage(e.state.Page, doc); err != nil {
		return fmt.Errorf("unable to write page %d: %w", e.state.Page, err)
	}
	e.pages++
	e.log.Debug("Page finished", zap.Int("page", e.state.Page))
	return nil
}

// Close sends partially filled page to the sink.
func (e *Engine) Close() error {
	if e.page == nil {
		return nil
	}
	return e.flush()
}

// Run places a label for every row accepted by the selector and closes the
// engine. First error stops processing.
func (e *Engine) Run(ctx context.Context, gen Generator, src rows.Source, sel rows.Selector) error {
	data, err := src.Rows()
	if err != nil {
		return err
	}

	var skipped int
	for i, row := range data {
		if err := ctx.Err(); err != nil {
			return err
		}
		ok, err := sel.Match(row)
		if err != nil {
			return fmt.Errorf("data row %d: %w", i+1, err)
		}
		if !ok {
			skipped++
			continue
		}
		fragments, err := gen.Generate(row)
		if err != nil {
			return fmt.Errorf("data row %d: %w", i+1, err)
		}
		if err := e.Place(fragments); err != nil {
			return fmt.Errorf("data row %d: %w", i+1, err)
		}
	}
	if err := e.Close(); err != nil {
		return err
	}
	e.log.Info("Labels placed",
		zap.Int("rows", len(data)),
		zap.Int("labels", e.placed),
		zap.Int("skipped", skipped),
		zap.Int("pages", e.pages))
	return nil
}
