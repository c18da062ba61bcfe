package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"lbm/config"
)

// FileSink writes pages to files named by Namer and optionally stores PNG
// preview next to every page.
type FileSink struct {
	namer        *Namer
	previewWidth int
	rpt          *config.Report
	log          *zap.Logger

	files []string
}

type SinkOption func(*FileSink)

// WithPreview enables PNG previews of requested width.
func WithPreview(width int) SinkOption {
	return func(s *FileSink) { s.previewWidth = width }
}

// WithReport adds written pages to debug report.
func WithReport(rpt *config.Report) SinkOption {
	return func(s *FileSink) { s.rpt = rpt }
}

func NewFileSink(namer *Namer, log *zap.Logger, opts ...SinkOption) *FileSink {
	if log == nil {
		log = zap.NewNop()
	}
	s := &FileSink{namer: namer, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FileSink) WritePage(page int, doc *etree.Document) error {
	path, err := s.namer.Name(page)
	if err != nil {
		return err
	}
	if err := s.Write(path, doc); err != nil {
		return err
	}
	s.files = append(s.files, path)
	return nil
}

// Write saves document to path. Unlike WritePage it does not add path to
// Files.
func (s *FileSink) Write(path string, doc *etree.Document) error {
	data, err := doc.WriteToBytes()
	if err != nil {
		return fmt.Errorf("unable to serialize '%s': %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("unable to write '%s': %w", path, err)
	}
	s.rpt.Store(filepath.Base(path), path)
	s.log.Info("Page written", zap.String("file", path))

	if s.previewWidth <= 0 {
		return nil
	}
	img, err := EncodePreview(data, s.previewWidth)
	if err != nil {
		return fmt.Errorf("page '%s': %w", path, err)
	}
	previewPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
	if err := os.WriteFile(previewPath, img, 0644); err != nil {
		return fmt.Errorf("unable to write preview '%s': %w", previewPath, err)
	}
	s.log.Debug("Preview written", zap.String("file", previewPath))
	return nil
}

// Files lists pages written by WritePage in order.
func (s *FileSink) Files() []string {
	return s.files
}
