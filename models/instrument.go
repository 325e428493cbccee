package models

import (
	_ "embed"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed instrument.yaml
var instrumentYAML []byte

// FieldType tells the UI which widget renders a field.
type FieldType string

const (
	FieldCheckbox    FieldType = "checkbox"
	FieldNumber      FieldType = "number"
	FieldSelect      FieldType = "select"
	FieldRadio       FieldType = "radio"
	FieldText        FieldType = "text"
	FieldTextarea    FieldType = "textarea"
	FieldLikert      FieldType = "likert"
	FieldLikertGroup FieldType = "likert_group"
	FieldVoice       FieldType = "voice"
)

// Field is one question (or question group) of a form.
type Field struct {
	Key         string    `yaml:"key" json:"key"`
	Type        FieldType `yaml:"type" json:"type"`
	Heading     string    `yaml:"heading,omitempty" json:"heading,omitempty"`
	Label       string    `yaml:"label" json:"label"`
	Options     []string  `yaml:"options,omitempty" json:"options,omitempty"`
	Items       []string  `yaml:"items,omitempty" json:"items,omitempty"`
	ScaleLabels []string  `yaml:"scale_labels,omitempty" json:"scale_labels,omitempty"`
	Min         int       `yaml:"min,omitempty" json:"min,omitempty"`
	Max         int       `yaml:"max,omitempty" json:"max,omitempty"`
	ShowIf      string    `yaml:"show_if,omitempty" json:"show_if,omitempty"`
}

// Form is the content of one step.
type Form struct {
	Step      Step     `yaml:"step" json:"step"`
	Title     string   `yaml:"title" json:"title"`
	Intro     []string `yaml:"intro,omitempty" json:"intro,omitempty"`
	NextLabel string   `yaml:"next_label" json:"next_label"`
	Fields    []Field  `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// Instrument is the full questionnaire.
type Instrument struct {
	Title string `yaml:"title" json:"title"`
	Forms []Form `yaml:"forms" json:"forms"`
}

// LoadInstrument parses the embedded questionnaire and checks it covers every step once.
func LoadInstrument() (*Instrument, error) {
	return ParseInstrument(instrumentYAML)
}

// ParseInstrument decodes an instrument document.
func ParseInstrument(data []byte) (*Instrument, error) {
	var inst Instrument
	if err := yaml.Unmarshal(data, &inst); err != nil {
		return nil, fmt.Errorf("parse instrument: %w", err)
	}
	if len(inst.Forms) != len(Steps) {
		return nil, fmt.Errorf("instrument has %d forms, want %d", len(inst.Forms), len(Steps))
	}
	for i, f := range inst.Forms {
		if f.Step != Steps[i] {
			return nil, fmt.Errorf("instrument form %d is %q, want %q", i, f.Step, Steps[i])
		}
	}
	return &inst, nil
}

// Form returns the form of a step.
func (in *Instrument) Form(step Step) (*Form, bool) {
	for i := range in.Forms {
		if in.Forms[i].Step == step {
			return &in.Forms[i], true
		}
	}
	return nil, false
}

// Field returns a field of a step's form by key.
func (in *Instrument) Field(step Step, key string) (*Field, bool) {
	form, ok := in.Form(step)
	if !ok {
		return nil, false
	}
	for i := range form.Fields {
		if form.Fields[i].Key == key {
			return &form.Fields[i], true
		}
	}
	return nil, false
}

// AllowsOption reports whether value is one of the listed options of a choice field.
// Fields without options accept anything.
func (in *Instrument) AllowsOption(step Step, key, value string) bool {
	f, ok := in.Field(step, key)
	if !ok || len(f.Options) == 0 {
		return true
	}
	return slices.Contains(f.Options, value)
}
