package generate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"lbm/render"
	"lbm/rows"
	"lbm/state"
	"lbm/tmpl"
	"lbm/watch"
)

type watchParams struct {
	template, data, output string

	sel     rows.Selector
	printer string
	fresh   bool
	state   string
	scratch bool
}

// Watch is the action of watch subcommand.
func Watch(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("watch")

	p, err := watchArgs(cmd, env, log)
	if err != nil {
		return err
	}

	job, err := newLabelJob(env, p, log)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, job.close())
	}()

	w, err := openWatcher(env, p, job.handle, log)
	if err != nil {
		return err
	}
	defer func() {
		if er := w.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close watch state: %w", er))
		}
	}()

	if err := w.Init(p.fresh); err != nil {
		return err
	}
	log.Info("Watching",
		zap.String("data", p.data),
		zap.String("output", p.output),
		zap.String("printer", p.printer),
		zap.Stringer("only", p.sel),
		zap.Duration("interval", env.Cfg.Watch.Interval))
	return w.Run(ctx)
}

func watchArgs(cmd *cli.Command, env *state.LocalEnv, log *zap.Logger) (watchParams, error) {
	var (
		p   watchParams
		err error
	)

	if p.template = cmd.Args().Get(0); len(p.template) == 0 {
		return watchParams{}, errors.New("no template has been specified")
	}
	if p.data = cmd.Args().Get(1); len(p.data) == 0 {
		return watchParams{}, errors.New("no data has been specified")
	}
	p.output = cmd.Args().Get(2)
	if len(p.output) == 0 {
		// scratch output is removed on exit
		p.output = env.ScratchPath(render.SVGExt)
		p.scratch = true
	}
	for _, v := range []*string{&p.template, &p.data, &p.output} {
		if *v, err = filepath.Abs(*v); err != nil {
			return watchParams{}, err
		}
	}
	if cmd.Args().Len() > 3 {
		log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[3:]))
	}

	if p.sel, err = rows.ParseSelector(cmd.String("only")); err != nil {
		return watchParams{}, err
	}
	p.printer = cmd.String("printer")
	p.fresh = cmd.Bool("fresh")
	p.state = cmd.String("state")
	if len(p.state) == 0 {
		p.state = env.Cfg.Watch.StateDB
	}
	return p, nil
}

func openWatcher(env *state.LocalEnv, p watchParams, handle watch.Handler, log *zap.Logger) (*watch.Watcher, error) {
	opts := []watch.Option{watch.WithSelector(p.sel)}
	if len(p.state) > 0 {
		seen, err := watch.OpenSQLiteSeen(p.state)
		if err != nil {
			return nil, err
		}
		log.Debug("Using persistent watch state", zap.String("file", p.state))
		opts = append(opts, watch.WithSeen(seen))
	}
	return watch.New(p.data, env.Cfg.Watch.Interval, handle, log, opts...), nil
}

// labelJob produces, renders and prints single label document per row.
type labelJob struct {
	tp      *tmpl.Template
	sink    *render.FileSink
	disp    *render.Dispatcher
	path    string
	printer string
	scratch bool
	log     *zap.Logger
}

func newLabelJob(env *state.LocalEnv, p watchParams, log *zap.Logger) (*labelJob, error) {
	tp, err := loadTemplate(env, p.template, log)
	if err != nil {
		return nil, err
	}
	namer, err := render.NewNamer(p.output, "", env.Cfg.Output.Transliterate)
	if err != nil {
		return nil, err
	}
	var opts []render.SinkOption
	if env.Cfg.Output.Preview.Enable {
		opts = append(opts, render.WithPreview(env.Cfg.Output.Preview.Width))
	}
	j := &labelJob{
		tp:      tp,
		sink:    render.NewFileSink(namer, log, opts...),
		disp:    render.NewDispatcher(env.Cfg.Render, env.Cfg.Print, log.Named("dispatch")),
		path:    namer.Single(),
		printer: p.printer,
		scratch: p.scratch,
		log:     log,
	}
	if len(j.printer) > 0 && !j.disp.CanRender() {
		log.Warn("Render command is not configured, SVG will be sent to the printer")
	}
	return j, nil
}

// handle generates document with a single label for row.
func (j *labelJob) handle(ctx context.Context, row rows.Row) error {
	fragments, err := j.tp.Generate(row)
	if err != nil {
		return err
	}
	doc := j.tp.CloneBase()
	root := doc.Root()
	for _, f := range fragments {
		root.AddChild(f)
	}
	if err := j.sink.Write(j.path, doc); err != nil {
		return err
	}
	out, err := j.disp.Render(ctx, j.path)
	if err != nil {
		return err
	}
	if len(j.printer) == 0 {
		return nil
	}
	if err := j.disp.Print(ctx, out, j.printer); err != nil {
		return err
	}
	j.log.Info("Label printed", zap.String("file", out), zap.String("printer", j.printer))
	return nil
}

// close removes scratch outputs.
func (j *labelJob) close() (err error) {
	if !j.scratch {
		return nil
	}
	stem := strings.TrimSuffix(j.path, filepath.Ext(j.path))
	remove := []string{j.path, stem + ".png"}
	if j.disp.CanRender() {
		remove = append(remove, stem+j.disp.Extension())
	}
	for _, f := range remove {
		if er := os.Remove(f); er != nil && !errors.Is(er, os.ErrNotExist) {
			err = multierr.Append(err, fmt.Errorf("unable to remove '%s': %w", f, er))
		}
	}
	return err
}
