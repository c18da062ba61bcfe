// Package watch prints labels for rows appearing in a data file while it is
// being edited.
//
// Watcher polls modification time of the data file. When it changes the file
// is re-read, every selected row whose canonical form was not seen before is
// handed to the handler in file order, and the seen set is replaced with the
// rows currently in the file.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"go.uber.org/zap"

	"lbm/rows"
)

// Handler processes single new row.
type Handler func(ctx context.Context, row rows.Row) error

// Clock abstracts waiting between polls.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

func statModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

type Watcher struct {
	path     string
	interval time.Duration
	handle   Handler
	log      *zap.Logger

	clock Clock
	stat  func(path string) (time.Time, error)
	read  func(path string) ([]rows.Row, error)
	sel   rows.Selector
	seen  Seen

	lastMod time.Time
	haveMod bool
}

type Option func(*Watcher)

func WithClock(c Clock) Option { return func(w *Watcher) { w.clock = c } }

func WithStat(f func(path string) (time.Time, error)) Option {
	return func(w *Watcher) { w.stat = f }
}

func WithReader(f func(path string) ([]rows.Row, error)) Option {
	return func(w *Watcher) { w.read = f }
}

func WithSelector(sel rows.Selector) Option { return func(w *Watcher) { w.sel = sel } }

// WithSeen replaces in-memory seen set, watcher takes ownership.
func WithSeen(s Seen) Option { return func(w *Watcher) { w.seen = s } }

func New(path string, interval time.Duration, handle Handler, log *zap.Logger, opts ...Option) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	w := &Watcher{
		path:     path,
		interval: interval,
		handle:   handle,
		log:      log,
		clock:    realClock{},
		stat:     statModTime,
		read:     rows.ReadFile,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.seen == nil {
		w.seen = NewMemorySeen()
	}
	return w
}

// Init establishes initial state. Unless fresh is requested rows present in
// the file now are not printed. Non empty persistent state is resumed
// instead, so rows added while watcher was down are printed.
func (w *Watcher) Init(fresh bool) error {
	w.haveMod = false
	if fresh {
		if err := w.seen.Replace(nil); err != nil {
			return err
		}
		w.log.Info("Ready, all rows will be printed")
		return nil
	}

	n, err := w.seen.Len()
	if err != nil {
		return err
	}
	if n > 0 {
		w.log.Info("Ready, resuming from saved state", zap.Int("seen", n))
		return nil
	}

	mod, err := w.stat(w.path)
	if err != nil {
		return fmt.Errorf("unable to access data file: %w", err)
	}
	data, err := w.read(w.path)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(data))
	for _, r := range data {
		keys = append(keys, rows.Canonical(r))
	}
	if err := w.seen.Replace(keys); err != nil {
		return err
	}
	w.lastMod, w.haveMod = mod, true
	w.log.Info("Ready, ignored initial rows", zap.Int("rows", len(data)))
	return nil
}

// Poll runs single watch cycle and returns number of handled rows. Handler
// failures are logged and the row stays unseen, so it is retried after next
// file change.
func (w *Watcher) Poll(ctx context.Context) (int, error) {
	mod, err := w.stat(w.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			w.log.Warn("Data file not found", zap.String("file", w.path))
			return 0, nil
		}
		return 0, fmt.Errorf("unable to access data file: %w", err)
	}
	if w.haveMod && mod.Equal(w.lastMod) {
		return 0, nil
	}

	w.log.Info("Data file modification detected", zap.String("file", w.path))
	data, err := w.read(w.path)
	if err != nil {
		// file may be in the middle of being saved, try again next time
		w.log.Warn("Unable to read data file", zap.Error(err))
		return 0, nil
	}

	var (
		handled int
		keys    = make([]string, 0, len(data))
	)
	for i, r := range data {
		if err := ctx.Err(); err != nil {
			return handled, err
		}
		key := rows.Canonical(r)
		ok, err := w.sel.Match(r)
		if err != nil {
			return handled, fmt.Errorf("data row %d: %w", i+1, err)
		}
		seen, err := w.seen.Contains(key)
		if err != nil {
			return handled, err
		}
		if ok && !seen {
			w.log.Info("New row", zap.String("row", key))
			if err := w.handle(ctx, r); err != nil {
				w.log.Error("Unable to print label", zap.Int("data row", i+1), zap.Error(err))
				continue
			}
			handled++
			// row is printed, it must not be printed again even if this
			// cycle is interrupted
			if err := w.seen.Add(key); err != nil {
				return handled, err
			}
		}
		keys = append(keys, key)
	}
	if err := w.seen.Replace(keys); err != nil {
		return handled, err
	}
	w.lastMod, w.haveMod = mod, true
	w.log.Info("Done", zap.Int("printed", handled))
	return handled, nil
}

// Run polls until context is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		if _, err := w.Poll(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.log.Error("Watch cycle failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-w.clock.After(w.interval):
		}
	}
}

// Close releases seen set.
func (w *Watcher) Close() error {
	return w.seen.Close()
}
