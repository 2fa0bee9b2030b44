package config

import (
	_ "embed"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
)

type Configuration struct {
	configFs afero.Fs

	// Target is the file linted when no target is given on the command line.
	Target string `json:"target" validate:"required"`

	Lint Lint `json:"lint"`

	Interpreter Interpreter `json:"interpreter"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

type Lint struct {
	Steps []Step `json:"steps" validate:"required,min=1,unique=Name,dive"`
}

// Step is a single external tool invocation in the lint pipeline.
type Step struct {
	Name string `json:"name" validate:"required"`
	// Run is the command line, e.g. "pylint {target}".
	Run string `json:"run" validate:"required"`
	// Disable lists diagnostic categories to suppress.
	Disable []string `json:"disable" validate:"unique,dive,required"`
}

type Interpreter struct {
	WindowSize int `json:"window_size" validate:"gte=1"` // Cells shown when printing memory.
	HeadMargin int `json:"head_margin" validate:"gte=0"` // Cells kept between the head and the window edge.
	ChunkSize  int `json:"chunk_size" validate:"gte=1"`  // Cells added when the head leaves the tape.
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		return afero.NewOsFs()
	}
	return c.configFs
}

// ReadFile reads a file relative to the working directory using the
// configuration's filesystem.
func (c *Configuration) ReadFile(name string) ([]byte, error) {
	return afero.ReadFile(c.fs(), name)
}

// Default returns the builtin configuration backed by the given filesystem.
func Default(fs afero.Fs) *Configuration {
	out := defaultConfig()
	out.configFs = fs
	return out
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
