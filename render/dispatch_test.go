package render

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"lbm/config"
)

type call struct {
	Name string
	Args []string
}

type fakeRunner struct {
	calls []call
	err   error
}

func (f *fakeRunner) run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, call{Name: name, Args: args})
	if f.err != nil {
		return []byte("some diagnostics\n"), f.err
	}
	return nil, nil
}

func TestDispatcher_Render(t *testing.T) {
	fr := &fakeRunner{}
	d := NewDispatcher(
		config.RenderConfig{Command: []string{"inkscape", "--export-filename={{.Output}}", "{{.Input}}"}, Extension: ".pdf"},
		config.PrintConfig{},
		newLogger(t),
	).WithRunner(fr.run)

	out, err := d.Render(context.Background(), "/tmp/label.svg")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out != "/tmp/label.pdf" {
		t.Errorf("Render() = %q", out)
	}
	want := []call{{Name: "inkscape", Args: []string{"--export-filename=/tmp/label.pdf", "/tmp/label.svg"}}}
	if diff := cmp.Diff(want, fr.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatcher_NoRender(t *testing.T) {
	fr := &fakeRunner{}
	d := NewDispatcher(config.RenderConfig{}, config.PrintConfig{}, nil).WithRunner(fr.run)
	if d.CanRender() {
		t.Error("CanRender() = true without command")
	}
	out, err := d.Render(context.Background(), "a.svg")
	if err != nil || out != "a.svg" {
		t.Errorf("Render() = %q, %v", out, err)
	}
	if len(fr.calls) != 0 {
		t.Error("nothing must be executed")
	}
}

func TestDispatcher_Print(t *testing.T) {
	fr := &fakeRunner{}
	d := NewDispatcher(config.RenderConfig{}, config.PrintConfig{Command: []string{"lp", "-d", "{{.Printer}}", "{{.Input}}"}}, nil).WithRunner(fr.run)
	if err := d.Print(context.Background(), "a.pdf", "zebra"); err != nil {
		t.Fatal(err)
	}
	want := []call{{Name: "lp", Args: []string{"-d", "zebra", "a.pdf"}}}
	if diff := cmp.Diff(want, fr.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}

	d = NewDispatcher(config.RenderConfig{}, config.PrintConfig{}, nil).WithRunner(fr.run)
	if err := d.Print(context.Background(), "a.pdf", "zebra"); !errors.Is(err, ErrNoPrintCommand) {
		t.Errorf("Print() error = %v, want ErrNoPrintCommand", err)
	}
}

func TestDispatcher_Errors(t *testing.T) {
	boom := errors.New("exit status 1")
	fr := &fakeRunner{err: boom}
	d := NewDispatcher(config.RenderConfig{Command: []string{"convert", "{{.Input}}"}, Extension: ".png"}, config.PrintConfig{}, nil).WithRunner(fr.run)
	if _, err := d.Render(context.Background(), "a.svg"); !errors.Is(err, boom) {
		t.Errorf("Render() error = %v, want runner error", err)
	}

	for name, cmd := range map[string][]string{
		"bad template":  {"convert", "{{.Input"},
		"unknown field": {"convert", "{{.Unknown}}"},
		"empty program": {"{{.Printer}}", "x"},
	} {
		d := NewDispatcher(config.RenderConfig{Command: cmd, Extension: ".png"}, config.PrintConfig{}, nil).WithRunner((&fakeRunner{}).run)
		if _, err := d.Render(context.Background(), "a.svg"); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
