package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	werrors "github.com/wippyai/wat-syntax/errors"
	"github.com/wippyai/wat-syntax/wat"
)

func TestParseConfig(t *testing.T) {
	fc, err := parseConfig("w.yaml", []byte(`
entry: foldeinstr
max_depth: 50
jobs: 2
context: 1
format: short
color: never
verbose: true
include: ["a/**/*.wat"]
exclude: ["a/gen/**"]
`))
	require.NoError(t, err)
	require.NotNil(t, fc.Entry)
	assert.Equal(t, wat.EntryFoldedInstr, *fc.Entry)

	o := defaultOptions()
	o.include = []string{"x.wat"}
	fc.apply(&o, map[string]bool{"j": true})
	require.NoError(t, o.validate())

	assert.Equal(t, wat.EntryFoldedInstr, o.entry)
	assert.Equal(t, 50, o.maxDepth)
	assert.Equal(t, defaultOptions().jobs, o.jobs)
	assert.Equal(t, 1, o.context)
	assert.Equal(t, formatShort, o.format)
	assert.Equal(t, colorNever, o.color)
	assert.True(t, o.verbose)
	assert.Equal(t, []string{"x.wat", "a/**/*.wat"}, o.include)
	assert.Equal(t, []string{"a/gen/**"}, o.exclude)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad_entry", "entry: modul\n"},
		{"bad_yaml", "jobs: [1\n"},
		{"wrong_type", "jobs: many\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseConfig("w.yaml", []byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, &werrors.Error{Phase: werrors.PhaseConfig, Kind: werrors.KindInvalidConfig}))
			assert.Contains(t, err.Error(), "w.yaml")
		})
	}
}

func TestValidate(t *testing.T) {
	o := defaultOptions()
	require.NoError(t, o.validate())

	o.jobs = 0
	o.context = -1
	o.format = "xml"
	o.color = "rainbow"
	o.exclude = []string{"[a"}
	err := o.validate()
	require.Error(t, err)
	assert.Len(t, werrors.Flatten(err), 5)
	for _, e := range werrors.Flatten(err) {
		assert.True(t, errors.Is(e, &werrors.Error{Phase: werrors.PhaseConfig, Kind: werrors.KindInvalidConfig}))
	}
}
