package layout

import (
	"fmt"
	"strconv"

	"lbm/config"
	"lbm/svgtree"
)

// Sheet describes grid of labels on a page. Lengths are in user units.
type Sheet struct {
	Rows, Cols   int
	IncX, IncY   float64
	OffX, OffY   float64
	SizeX, SizeY float64
	Dir          config.Direction

	StartRow, StartCol int
}

// ConfigSource provides inline template configuration.
type ConfigSource interface {
	ConfigDefault(key, desc, def string) string
	FinalizeConfig() error
}

// SheetFromTemplate reads sheet geometry from template inline configuration
// falling back to defaults for missing keys. Unknown inline keys are errors.
func SheetFromTemplate(src ConfigSource, defaults config.SheetConfig) (Sheet, error) {
	var (
		s   Sheet
		err error
	)

	ints := []struct {
		key, desc string
		def       int
		dst       *int
	}{
		{"nrows", "number of rows (vertical elements)", defaults.Rows, &s.Rows},
		{"ncols", "number of columns (horizontal elements)", defaults.Cols, &s.Cols},
	}
	for _, v := range ints {
		raw := src.ConfigDefault(v.key, v.desc, strconv.Itoa(v.def))
		if *v.dst, err = strconv.Atoi(raw); err != nil {
			return Sheet{}, fmt.Errorf("sheet %s (%s): %w", v.key, v.desc, err)
		}
	}

	lengths := []struct {
		key, desc string
		def       string
		dst       *float64
	}{
		{"incx", "horizontal spacing", defaults.IncX, &s.IncX},
		{"incy", "vertical spacing", defaults.IncY, &s.IncY},
		{"offx", "initial horizontal offset", defaults.OffX, &s.OffX},
		{"offy", "initial vertical offset", defaults.OffY, &s.OffY},
		{"sizex", "sheet width", defaults.SizeX, &s.SizeX},
		{"sizey", "sheet height", defaults.SizeY, &s.SizeY},
	}
	for _, v := range lengths {
		raw := src.ConfigDefault(v.key, v.desc, v.def)
		if raw == "" {
			continue
		}
		if *v.dst, err = svgtree.ParseLength(raw); err != nil {
			return Sheet{}, fmt.Errorf("sheet %s (%s): %w", v.key, v.desc, err)
		}
	}

	if s.Dir, err = config.ParseDirection(src.ConfigDefault("dir", "direction labels are placed in", defaults.Dir.String())); err != nil {
		return Sheet{}, fmt.Errorf("sheet dir: %w", err)
	}

	if err := src.FinalizeConfig(); err != nil {
		return Sheet{}, err
	}
	return s, nil
}
