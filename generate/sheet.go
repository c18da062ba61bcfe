package generate

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"lbm/config"
	"lbm/layout"
	"lbm/render"
	"lbm/rows"
	"lbm/state"
)

// sheetParams are command line arguments of sheet subcommand.
type sheetParams struct {
	template, data, output string

	sel rows.Selector

	startRow, startCol *int
	dir                *config.Direction
	preview            bool
}

// Sheet is the action of sheet subcommand.
func Sheet(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("sheet")

	p, err := sheetArgs(cmd, log)
	if err != nil {
		return err
	}

	log.Info("Processing starting",
		zap.String("template", p.template),
		zap.String("data", p.data),
		zap.String("output", p.output),
		zap.Stringer("only", p.sel))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	_, err = produceSheet(ctx, env, p, log)
	return err
}

func sheetArgs(cmd *cli.Command, log *zap.Logger) (sheetParams, error) {
	var (
		p   sheetParams
		err error
	)

	names := []string{"template", "data", "output"}
	dst := []*string{&p.template, &p.data, &p.output}
	for i, name := range names {
		v := cmd.Args().Get(i)
		if len(v) == 0 {
			return sheetParams{}, fmt.Errorf("no %s has been specified", name)
		}
		if *dst[i], err = filepath.Abs(v); err != nil {
			return sheetParams{}, err
		}
	}
	if cmd.Args().Len() > len(names) {
		log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[len(names):]))
	}

	if p.sel, err = rows.ParseSelector(cmd.String("only")); err != nil {
		return sheetParams{}, err
	}
	if cmd.IsSet("start-row") {
		v := cmd.Int("start-row")
		p.startRow = &v
	}
	if cmd.IsSet("start-col") {
		v := cmd.Int("start-col")
		p.startCol = &v
	}
	if cmd.IsSet("dir") {
		d, err := config.ParseDirection(cmd.String("dir"))
		if err != nil {
			return sheetParams{}, err
		}
		p.dir = &d
	}
	p.preview = cmd.Bool("preview")
	return p, nil
}

// produceSheet lays out labels for all selected rows, writes pages and
// renders them with configured converter. It returns names of written files.
func produceSheet(ctx context.Context, env *state.LocalEnv, p sheetParams, log *zap.Logger) ([]string, error) {
	tp, err := loadTemplate(env, p.template, log)
	if err != nil {
		return nil, err
	}
	archiveData(env, p.data, log)

	sheet, err := layout.SheetFromTemplate(tp, env.Cfg.Sheet)
	if err != nil {
		return nil, fmt.Errorf("template '%s': %w", p.template, err)
	}
	if p.startRow != nil {
		sheet.StartRow = *p.startRow
	}
	if p.startCol != nil {
		sheet.StartCol = *p.startCol
	}
	if p.dir != nil {
		sheet.Dir = *p.dir
	}
	log.Debug("Sheet",
		zap.Int("rows", sheet.Rows), zap.Int("cols", sheet.Cols),
		zap.Float64("incx", sheet.IncX), zap.Float64("incy", sheet.IncY),
		zap.Float64("offx", sheet.OffX), zap.Float64("offy", sheet.OffY),
		zap.Stringer("dir", sheet.Dir),
		zap.Int("start row", sheet.StartRow), zap.Int("start col", sheet.StartCol))

	namer, err := render.NewNamer(p.output, env.Cfg.Output.NameTemplate, env.Cfg.Output.Transliterate)
	if err != nil {
		return nil, err
	}
	opts := []render.SinkOption{render.WithReport(env.Rpt)}
	if p.preview || env.Cfg.Output.Preview.Enable {
		opts = append(opts, render.WithPreview(env.Cfg.Output.Preview.Width))
	}
	sink := render.NewFileSink(namer, log, opts...)

	engine, err := layout.New(sheet, tp, sink, log.Named("layout"))
	if err != nil {
		return nil, err
	}
	if err := engine.Run(ctx, tp, rows.File(p.data), p.sel); err != nil {
		return sink.Files(), err
	}
	if engine.Placed() == 0 {
		log.Warn("No labels were produced")
	}

	disp := render.NewDispatcher(env.Cfg.Render, env.Cfg.Print, log.Named("dispatch"))
	if !disp.CanRender() {
		return sink.Files(), nil
	}
	files := sink.Files()
	var errs error
	for _, f := range files {
		out, err := disp.Render(ctx, f)
		if err != nil {
			if ctx.Err() != nil {
				return files, ctx.Err()
			}
			errs = multierr.Append(errs, err)
			continue
		}
		log.Info("Page rendered", zap.String("file", out))
	}
	return files, errs
}
