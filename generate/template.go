// Package generate implements program subcommands: it connects template,
// data source, layout engine and page sinks.
package generate

import (
	"path/filepath"

	"go.uber.org/zap"

	"lbm/state"
	"lbm/tmpl"
)

// loadTemplate reads template using configured structural settings and
// archives the template together with its dump into debug report.
func loadTemplate(env *state.LocalEnv, path string, log *zap.Logger) (*tmpl.Template, error) {
	tp, err := tmpl.Load(path,
		tmpl.WithFragmentTags(env.Cfg.Template.FragmentTags...),
		tmpl.WithConfigMarker(env.Cfg.Template.ConfigMarker),
		tmpl.WithLogger(log.Named("template")),
	)
	if err != nil {
		return nil, err
	}
	if env.Rpt != nil {
		if err := env.Rpt.StoreCopy("template/"+filepath.Base(path), path); err != nil {
			log.Warn("Unable to archive template", zap.Error(err))
		}
		env.Rpt.StoreData("template/structure.txt", []byte(tp.Dump()))
	}
	return tp, nil
}

// archiveData copies current data file into debug report.
func archiveData(env *state.LocalEnv, path string, log *zap.Logger) {
	if env.Rpt == nil {
		return
	}
	if err := env.Rpt.StoreCopy("data/"+filepath.Base(path), path); err != nil {
		log.Warn("Unable to archive data file", zap.Error(err))
	}
}
