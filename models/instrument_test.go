package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentCoversEveryStep(t *testing.T) {
	inst, err := LoadInstrument()
	require.NoError(t, err)
	for _, step := range Steps {
		form, ok := inst.Form(step)
		require.True(t, ok, step)
		assert.NotEmpty(t, form.Title, step)
	}
	review, _ := inst.Form(StepReview)
	assert.Empty(t, review.Fields)
}

func TestInstrumentScalesMatchRecord(t *testing.T) {
	inst, err := LoadInstrument()
	require.NoError(t, err)

	tests := []struct {
		step Step
		key  string
		spec ScaleSpec
	}{
		{StepBaseline, "gad", GADScale},
		{StepBaseline, "panas", PANASScale},
		{StepBaseline, "single_mood", MoodScale},
		{StepSessionEmp, "items", VoiceScale},
		{StepSessionNeu, "items", VoiceScale},
		{StepSessionEmp, "state_anxiety", AnxietyScale},
	}
	for _, tt := range tests {
		t.Run(string(tt.step)+"/"+tt.key, func(t *testing.T) {
			f, ok := inst.Field(tt.step, tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.spec.Min, f.Min)
			assert.Equal(t, tt.spec.Max, f.Max)
			if f.Type == FieldLikertGroup {
				assert.Len(t, f.Items, tt.spec.Items)
			}
		})
	}
}

func TestOpenFieldsMatchRecordColumns(t *testing.T) {
	inst, err := LoadInstrument()
	require.NoError(t, err)
	form, _ := inst.Form(StepOpen)
	var keys []string
	for _, f := range form.Fields {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, OpenColumns, keys)
}

func TestAllowsOption(t *testing.T) {
	inst, err := LoadInstrument()
	require.NoError(t, err)
	assert.True(t, inst.AllowsOption(StepDemographics, "gender", "Female"))
	assert.False(t, inst.AllowsOption(StepDemographics, "gender", "female"))
	assert.True(t, inst.AllowsOption(StepDemographics, "gender_other", "anything"))
}

func TestParseInstrumentRejectsWrongOrder(t *testing.T) {
	_, err := ParseInstrument([]byte("title: x\nforms:\n  - step: demographics\n"))
	assert.Error(t, err)
	_, err = ParseInstrument([]byte("forms: ["))
	assert.Error(t, err)
}
