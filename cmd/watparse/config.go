package main

import (
	"fmt"
	"os"
	"runtime"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/wat-syntax/errors"
	"github.com/wippyai/wat-syntax/wat"
)

// Output formats.
const (
	formatText  = "text"  // location, message and source excerpt
	formatShort = "short" // location and message only
)

// Color modes.
const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

// options is the resolved CLI configuration.
type options struct {
	entry       wat.Entry
	maxDepth    int
	jobs        int
	context     int
	format      string
	color       string
	include     []string
	exclude     []string
	tree        bool
	verbose     bool
	interactive bool
}

func defaultOptions() options {
	return options{
		entry:   wat.EntryFile,
		jobs:    runtime.GOMAXPROCS(0),
		context: 0,
		format:  formatText,
		color:   colorAuto,
	}
}

// fileConfig is the YAML config file layout. Pointer fields distinguish
// "absent" from the zero value.
type fileConfig struct {
	Entry    *wat.Entry `yaml:"entry"`
	MaxDepth *int       `yaml:"max_depth"`
	Jobs     *int       `yaml:"jobs"`
	Context  *int       `yaml:"context"`
	Format   string     `yaml:"format"`
	Color    string     `yaml:"color"`
	Verbose  *bool      `yaml:"verbose"`
	Include  []string   `yaml:"include"`
	Exclude  []string   `yaml:"exclude"`
}

func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ReadFailed(path, err)
	}
	return parseConfig(path, data)
}

func parseConfig(path string, data []byte) (*fileConfig, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidConfig).
			File(path).
			Cause(err).
			Detail("decode config").
			Build()
	}
	return &fc, nil
}

// apply copies values from the file into o, skipping the ones whose flag
// was set on the command line.
func (fc *fileConfig) apply(o *options, set map[string]bool) {
	if fc.Entry != nil && !set["entry"] {
		o.entry = *fc.Entry
	}
	if fc.MaxDepth != nil && !set["max-depth"] {
		o.maxDepth = *fc.MaxDepth
	}
	if fc.Jobs != nil && !set["j"] {
		o.jobs = *fc.Jobs
	}
	if fc.Context != nil && !set["context"] {
		o.context = *fc.Context
	}
	if fc.Format != "" && !set["format"] {
		o.format = fc.Format
	}
	if fc.Color != "" && !set["color"] {
		o.color = fc.Color
	}
	if fc.Verbose != nil && !set["v"] {
		o.verbose = *fc.Verbose
	}
	o.include = append(o.include, fc.Include...)
	o.exclude = append(o.exclude, fc.Exclude...)
}

func (o *options) validate() error {
	var errs error
	if o.jobs < 1 {
		errs = errors.Append(errs, errors.InvalidConfig([]string{"jobs"},
			fmt.Sprintf("must be at least 1, got %d", o.jobs), nil))
	}
	if o.context < 0 {
		errs = errors.Append(errs, errors.InvalidConfig([]string{"context"},
			fmt.Sprintf("must not be negative, got %d", o.context), nil))
	}
	if !slices.Contains([]string{formatText, formatShort}, o.format) {
		errs = errors.Append(errs, errors.InvalidConfig([]string{"format"},
			fmt.Sprintf("unknown format %q", o.format), nil))
	}
	if !slices.Contains([]string{colorAuto, colorAlways, colorNever}, o.color) {
		errs = errors.Append(errs, errors.InvalidConfig([]string{"color"},
			fmt.Sprintf("unknown color mode %q", o.color), nil))
	}
	for _, p := range append(slices.Clone(o.include), o.exclude...) {
		if !doublestar.ValidatePattern(p) {
			errs = errors.Append(errs, errors.InvalidConfig([]string{"pattern"},
				fmt.Sprintf("bad glob %q", p), nil))
		}
	}
	return errs
}
