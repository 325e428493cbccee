package models

// SessionView is what the UI needs to render the current step.
type SessionView struct {
	ParticipantID string      `json:"participant_id"`
	Step          Step        `json:"step"`
	StepNumber    int         `json:"step_number"`
	TotalSteps    int         `json:"total_steps"`
	Progress      float64     `json:"progress"`
	Form          *Form       `json:"form,omitempty"`
	State         SurveyState `json:"state"`
	Warning       string      `json:"warning,omitempty"`  // outcome of the last action, e.g. missing consent
	Warnings      []string    `json:"warnings,omitempty"` // configuration problems detected at startup
}

// NewSessionView builds the view for a state.
func NewSessionView(state SurveyState, form *Form, configWarnings []string) SessionView {
	return SessionView{
		ParticipantID: state.ParticipantID,
		Step:          state.Step,
		StepNumber:    StepIndex(state.Step) + 1,
		TotalSteps:    len(Steps),
		Progress:      Progress(state.Step),
		Form:          form,
		State:         state,
		Warnings:      configWarnings,
	}
}
