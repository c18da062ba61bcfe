package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	// SheetConfig holds sheet geometry used when template does not define it
	// inline. Lengths accept svg units (mm, cm, in, pt, pc, px).
	SheetConfig struct {
		Rows  int       `yaml:"nrows" validate:"gte=0"`
		Cols  int       `yaml:"ncols" validate:"gte=0"`
		IncX  string    `yaml:"incx,omitempty"`
		IncY  string    `yaml:"incy,omitempty"`
		OffX  string    `yaml:"offx,omitempty"`
		OffY  string    `yaml:"offy,omitempty"`
		SizeX string    `yaml:"sizex,omitempty"`
		SizeY string    `yaml:"sizey,omitempty"`
		Dir   Direction `yaml:"dir"`
	}

	TemplateConfig struct {
		FragmentTags []string `yaml:"fragment_tags" validate:"min=1,dive,required"`
		ConfigMarker string   `yaml:"config_marker"`
	}

	PreviewConfig struct {
		Enable bool `yaml:"enable"`
		Width  int  `yaml:"width" validate:"min=16"`
	}

	OutputConfig struct {
		NameTemplate  string        `yaml:"name_template"`
		Transliterate bool          `yaml:"transliterate"`
		Preview       PreviewConfig `yaml:"preview"`
	}

	// RenderConfig describes external converter of generated svg files, for
	// example inkscape producing pdf. Empty command disables rendering.
	RenderConfig struct {
		Command   []string `yaml:"command"`
		Extension string   `yaml:"extension" validate:"required_with=Command"`
	}

	PrintConfig struct {
		Command []string `yaml:"command"`
	}

	WatchConfig struct {
		Interval time.Duration `yaml:"interval" validate:"gt=0"`
		StateDB  string        `yaml:"state_db,omitempty" sanitize:"path_clean,assure_dir_exists_for_file" validate:"omitempty,filepath"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Sheet     SheetConfig    `yaml:"sheet"`
		Template  TemplateConfig `yaml:"template"`
		Output    OutputConfig   `yaml:"output"`
		Render    RenderConfig   `yaml:"render"`
		Print     PrintConfig    `yaml:"print"`
		Watch     WatchConfig    `yaml:"watch"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above
	OutputNameTemplateFieldName TemplateFieldName = "name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// only fields we defined are allowed, so no yaml.Unmarshal here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("failed to sanitize configuration: %w", err)
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("failed to validate configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to
// provide sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
