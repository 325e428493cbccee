package services

import (
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hasandi22/Final-year-research---Data-Collection/models"
)

func newTestSequencer(t *testing.T) *Sequencer {
	t.Helper()
	inst, err := models.LoadInstrument()
	require.NoError(t, err)
	return NewSequencer(inst)
}

func stateAt(step models.Step) models.SurveyState {
	s := models.NewSurveyState("p-1", time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
	s.Step = step
	return s
}

func answers(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func TestAdvanceRetreatAreTotal(t *testing.T) {
	last := models.Steps[len(models.Steps)-1]
	assert.Equal(t, last, Advance(stateAt(last)).Step)
	assert.Equal(t, models.StepConsent, Retreat(stateAt(models.StepConsent)).Step)

	for i, step := range models.Steps[:len(models.Steps)-1] {
		assert.Equal(t, models.Steps[i+1], Advance(stateAt(step)).Step)
		assert.Equal(t, step, Retreat(stateAt(models.Steps[i+1])).Step)
	}
}

func TestConsentRequiredToAdvance(t *testing.T) {
	seq := newTestSequencer(t)
	start := stateAt(models.StepConsent)

	tr, err := seq.Apply(start, Action{Type: ActionNext, Consent: false})
	require.NoError(t, err)
	assert.Equal(t, ConsentWarning, tr.Warning)
	if diff := cmp.Diff(start, tr.State); diff != "" {
		t.Errorf("state changed on refused consent (-want +got):\n%s", diff)
	}

	tr, err = seq.Apply(start, Action{Type: ActionNext, Consent: true})
	require.NoError(t, err)
	assert.Empty(t, tr.Warning)
	assert.Equal(t, models.StepDemographics, tr.State.Step)
	assert.True(t, tr.State.Consented)
}

func TestConsentBackStaysOnConsent(t *testing.T) {
	seq := newTestSequencer(t)
	start := stateAt(models.StepConsent)
	tr, err := seq.Apply(start, Action{Type: ActionBack, Consent: true})
	require.NoError(t, err)
	assert.Empty(t, tr.Warning)
	if diff := cmp.Diff(start, tr.State); diff != "" {
		t.Errorf("back on consent changed state (-want +got):\n%s", diff)
	}
}

func TestBackDropsInvalidAnswers(t *testing.T) {
	seq := newTestSequencer(t)
	state := stateAt(models.StepDemographics)

	tr, err := seq.Apply(state, Action{Type: ActionBack, Answers: answers(t, map[string]any{
		"age":    29,
		"gender": "not an option",
	})})
	require.NoError(t, err)
	assert.Equal(t, DiscardedWarning, tr.Warning)
	assert.Equal(t, models.StepConsent, tr.State.Step)
	assert.Nil(t, tr.State.Demographics.Age)

	tr, err = seq.Apply(state, Action{Type: ActionBack, Answers: json.RawMessage(`{"age":`)})
	require.NoError(t, err)
	assert.Equal(t, DiscardedWarning, tr.Warning)
	assert.Equal(t, models.StepConsent, tr.State.Step)
}

func TestReviewHasNoNext(t *testing.T) {
	seq := newTestSequencer(t)
	_, err := seq.Apply(stateAt(models.StepReview), Action{Type: ActionNext})
	assert.ErrorIs(t, err, ErrUnknownAction)

	tr, err := seq.Apply(stateAt(models.StepReview), Action{Type: ActionBack})
	require.NoError(t, err)
	assert.Equal(t, models.StepOpen, tr.State.Step)
}

func TestRandomNavigationStaysInSteps(t *testing.T) {
	seq := newTestSequencer(t)
	rng := rand.New(rand.NewSource(7))
	types := []ActionType{ActionSave, ActionNext, ActionBack}

	state := stateAt(models.StepConsent)
	for i := 0; i < 500; i++ {
		action := Action{Type: types[rng.Intn(len(types))], Consent: rng.Intn(2) == 0}
		tr, err := seq.Apply(state, action)
		if err != nil {
			assert.ErrorIs(t, err, ErrUnknownAction)
			continue
		}
		state = tr.State
		require.True(t, state.Step.Valid(), "step %q", state.Step)
		assert.InDelta(t, float64(models.StepIndex(state.Step)+1)/float64(len(models.Steps)), models.Progress(state.Step), 1e-9)
	}
}

func TestSkippingQuestionsIsAllowed(t *testing.T) {
	seq := newTestSequencer(t)
	state := stateAt(models.StepDemographics)
	for _, want := range []models.Step{models.StepBaseline, models.StepSessionEmp, models.StepSessionNeu, models.StepOpen, models.StepReview} {
		tr, err := seq.Apply(state, Action{Type: ActionNext})
		require.NoError(t, err)
		assert.Equal(t, want, tr.State.Step)
		state = tr.State
	}
	assert.Nil(t, state.Demographics.Age)
	assert.Nil(t, state.Baseline.GAD.Get(1))
}

func TestDemographicsAnswers(t *testing.T) {
	seq := newTestSequencer(t)
	state := stateAt(models.StepDemographics)

	tr, err := seq.Apply(state, Action{Type: ActionSave, Answers: answers(t, map[string]any{
		"age":    29,
		"gender": "Female",
	})})
	require.NoError(t, err)
	require.NotNil(t, tr.State.Demographics.Age)
	assert.Equal(t, 29, *tr.State.Demographics.Age)
	assert.Equal(t, "Female", *tr.State.Demographics.Gender)
	assert.Equal(t, models.StepDemographics, tr.State.Step)
	assert.Nil(t, state.Demographics.Age, "input state must not change")

	tr, err = seq.Apply(tr.State, Action{Type: ActionNext, Answers: answers(t, map[string]any{"education": "Bachelor’s degree"})})
	require.NoError(t, err)
	assert.Equal(t, 29, *tr.State.Demographics.Age)
	assert.Equal(t, "Bachelor’s degree", *tr.State.Demographics.Education)
	assert.Equal(t, models.StepBaseline, tr.State.Step)
}

func TestInvalidAnswersLeaveStateUnchanged(t *testing.T) {
	seq := newTestSequencer(t)
	tests := []struct {
		name    string
		step    models.Step
		answers any
	}{
		{"age below range", models.StepDemographics, map[string]any{"age": 12}},
		{"unknown gender", models.StepDemographics, map[string]any{"gender": "Robot"}},
		{"unknown field", models.StepDemographics, map[string]any{"height": 180}},
		{"gad value too high", models.StepBaseline, map[string]any{"gad": map[string]int{"1": 5}}},
		{"panas item out of range", models.StepBaseline, map[string]any{"panas": map[string]int{"11": 3}}},
		{"single mood zero", models.StepBaseline, map[string]any{"single_mood": 0}},
		{"voice item zero", models.StepSessionEmp, map[string]any{"items": map[string]int{"1": 0}}},
		{"post item out of range", models.StepSessionNeu, map[string]any{"post": map[string]int{"8": 3}}},
		{"state anxiety too high", models.StepSessionNeu, map[string]any{"state_anxiety": 6}},
		{"open text wrong type", models.StepOpen, map[string]any{"open_emp": 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := stateAt(tt.step)
			tr, err := seq.Apply(state, Action{Type: ActionNext, Answers: answers(t, tt.answers)})
			assert.ErrorIs(t, err, ErrInvalidAnswer)
			if diff := cmp.Diff(state, tr.State); diff != "" {
				t.Errorf("state changed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBaselineScaleAnswers(t *testing.T) {
	seq := newTestSequencer(t)
	state := stateAt(models.StepBaseline)

	tr, err := seq.Apply(state, Action{Type: ActionSave, Answers: answers(t, map[string]any{
		"gad":         map[string]int{"1": 2, "7": 4},
		"panas":       map[string]int{"10": 5},
		"single_mood": 3,
		"gad_impact":  "Somewhat",
	})})
	require.NoError(t, err)
	b := tr.State.Baseline
	assert.Equal(t, 2, *b.GAD.Get(1))
	assert.Equal(t, 4, *b.GAD.Get(7))
	assert.Nil(t, b.GAD.Get(2))
	assert.Equal(t, 5, *b.PANAS.Get(10))
	assert.Equal(t, 3, *b.SingleMood)
	assert.Equal(t, "Somewhat", *b.GADImpact)
	assert.Nil(t, state.Baseline.GAD.Get(1))
}

func TestSessionAnswersTargetCurrentSession(t *testing.T) {
	seq := newTestSequencer(t)
	state := stateAt(models.StepSessionNeu)

	tr, err := seq.Apply(state, Action{Type: ActionBack, Answers: answers(t, map[string]any{
		"voice_name":    "Bill",
		"items":         map[string]int{"3": 3},
		"state_anxiety": 2,
		"post":          map[string]int{"1": 4},
	})})
	require.NoError(t, err)
	assert.Equal(t, models.StepSessionEmp, tr.State.Step)
	assert.Equal(t, "Bill", tr.State.Neutral.VoiceName)
	assert.Equal(t, 3, *tr.State.Neutral.Items.Get(3))
	assert.Equal(t, 2, *tr.State.Neutral.StateAnxiety)
	assert.Equal(t, 4, *tr.State.Neutral.Post.Get(1))
	assert.Equal(t, models.DefaultEmpatheticVoice, tr.State.Empathetic.VoiceName)
	assert.Nil(t, tr.State.Empathetic.Items.Get(3))
}

func TestOpenAnswers(t *testing.T) {
	seq := newTestSequencer(t)
	tr, err := seq.Apply(stateAt(models.StepOpen), Action{Type: ActionNext, Answers: answers(t, map[string]string{
		"open_emp":    "felt heard",
		"open_more_2": "nothing else",
	})})
	require.NoError(t, err)
	assert.Equal(t, models.StepReview, tr.State.Step)
	assert.Equal(t, "felt heard", tr.State.Open.Emp)
	assert.Equal(t, "nothing else", tr.State.Open.More2)
	assert.Equal(t, "", tr.State.Open.Neu)
}
