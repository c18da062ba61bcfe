package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"go.uber.org/zap"

	"lbm/config"
)

// ErrNoPrintCommand is returned when printing is requested without command.
var ErrNoPrintCommand = errors.New("print command is not configured")

// CommandValues are available in render and print command arguments.
type CommandValues struct {
	Input   string
	Output  string
	Printer string
}

// Runner executes external program and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Dispatcher runs configured external converter and print commands.
type Dispatcher struct {
	render    []string
	extension string
	print     []string
	run       Runner
	log       *zap.Logger
}

func NewDispatcher(rc config.RenderConfig, pc config.PrintConfig, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		render:    rc.Command,
		extension: rc.Extension,
		print:     pc.Command,
		run:       execRunner,
		log:       log,
	}
}

// WithRunner replaces process execution, used in tests.
func (d *Dispatcher) WithRunner(r Runner) *Dispatcher {
	d.run = r
	return d
}

// CanRender reports whether converter is configured.
func (d *Dispatcher) CanRender() bool { return len(d.render) > 0 }

// Extension of rendered files.
func (d *Dispatcher) Extension() string { return d.extension }

// Render converts input file and returns path of the result. Without
// converter input is returned as is.
func (d *Dispatcher) Render(ctx context.Context, input string) (string, error) {
	if !d.CanRender() {
		return input, nil
	}
	output := strings.TrimSuffix(input, filepath.Ext(input)) + d.extension
	if err := d.exec(ctx, "render", d.render, CommandValues{Input: input, Output: output}); err != nil {
		return "", err
	}
	return output, nil
}

// Print sends file to printer.
func (d *Dispatcher) Print(ctx context.Context, input, printer string) error {
	if len(d.print) == 0 {
		return ErrNoPrintCommand
	}
	return d.exec(ctx, "print", d.print, CommandValues{Input: input, Printer: printer})
}

func (d *Dispatcher) exec(ctx context.Context, kind string, command []string, values CommandValues) error {
	args, err := expandArgs(kind, command, values)
	if err != nil {
		return err
	}
	d.log.Debug("Running external command", zap.String("kind", kind), zap.Strings("args", args))
	out, err := d.run(ctx, args[0], args[1:]...)
	if err != nil {
		return fmt.Errorf("%s command '%s' failed: %w (output: %s)", kind, args[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

func expandArgs(kind string, command []string, values CommandValues) ([]string, error) {
	funcMap := sprig.FuncMap()
	out := make([]string, 0, len(command))
	for i, arg := range command {
		t, err := template.New(kind).Funcs(funcMap).Option("missingkey=error").Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("unable to parse %s command argument %d: %w", kind, i, err)
		}
		buf := new(bytes.Buffer)
		if err := t.Execute(buf, values); err != nil {
			return nil, fmt.Errorf("unable to expand %s command argument %d: %w", kind, i, err)
		}
		out = append(out, buf.String())
	}
	if len(out) == 0 || out[0] == "" {
		return nil, fmt.Errorf("%s command has no program name", kind)
	}
	return out, nil
}
