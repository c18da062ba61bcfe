// Package filter implements template transformations applied to every
// element of a label template.
//
// Filters run in a fixed order and each filter completes a full pre-order
// pass over the tree before the next one starts. A filter may mutate the
// subtree rooted at the element it is given, children are collected only
// after the parent visit so replaced children are visited and removed ones
// are not.
package filter

import (
	"github.com/beevik/etree"

	"lbm/rows"
)

// Filter mutates element (and its subtree) in place.
type Filter interface {
	Apply(el *etree.Element, row rows.Row) error
}

// Pipeline is an ordered list of filters.
type Pipeline []Filter

// Default returns the standard pipeline. Order matters: Show has to see
// substituted text and area commands may contain substituted values.
func Default(loader Loader) Pipeline {
	return Pipeline{
		&Text{},
		&Show{},
		&Area{Replacer: &Barcode{}},
		&Area{Replacer: &Style{}},
		&Area{Replacer: &SubDocument{Loader: loader}},
	}
}

// Run applies all filters to the fragments.
func (p Pipeline) Run(fragments []*etree.Element, row rows.Row) error {
	for _, f := range p {
		for _, el := range fragments {
			if err := walk(f, el, row); err != nil {
				return err
			}
		}
	}
	return nil
}

func walk(f Filter, el *etree.Element, row rows.Row) error {
	if err := f.Apply(el, row); err != nil {
		return err
	}
	for _, child := range el.ChildElements() {
		if err := walk(f, child, row); err != nil {
			return err
		}
	}
	return nil
}
