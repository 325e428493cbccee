package models

import "fmt"

// TimestampLayout is how start/submit timestamps are written to the dataset (UTC, no zone suffix).
const TimestampLayout = "2006-01-02T15:04:05.000000"

// OpenColumns lists the free-text columns in record order.
var OpenColumns = []string{
	"open_emp", "open_neu", "open_compare", "open_pref", "open_empathy",
	"open_trust", "open_triggers", "open_improve", "open_more_1", "open_more_2",
}

// RecordField is one column of a submission. Value is nil, int or string.
type RecordField struct {
	Column string
	Value  any
}

// SubmissionRecord is the flat row appended to the dataset for one participant.
type SubmissionRecord struct {
	Fields []RecordField
}

// Columns returns the column names in order.
func (r SubmissionRecord) Columns() []string {
	cols := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		cols[i] = f.Column
	}
	return cols
}

// Value looks up a column.
func (r SubmissionRecord) Value(column string) (any, bool) {
	for _, f := range r.Fields {
		if f.Column == column {
			return f.Value, true
		}
	}
	return nil, false
}

// Map returns the record keyed by column, suitable for JSON responses.
func (r SubmissionRecord) Map() map[string]any {
	m := make(map[string]any, len(r.Fields))
	for _, f := range r.Fields {
		m[f.Column] = f.Value
	}
	return m
}

// Cells renders every column as text; nil marks a null cell.
func (r SubmissionRecord) Cells() map[string]*string {
	cells := make(map[string]*string, len(r.Fields))
	for _, f := range r.Fields {
		switch v := f.Value.(type) {
		case nil:
			cells[f.Column] = nil
		case string:
			s := v
			cells[f.Column] = &s
		default:
			s := fmt.Sprint(v)
			cells[f.Column] = &s
		}
	}
	return cells
}

// RecordColumns is the documented column set of a submission, in order.
func RecordColumns() []string {
	cols := []string{
		"participant_id", "start_ts_utc", "submit_ts_utc",
		"age", "gender", "gender_other", "education", "voice_exp",
		"used_assistants", "tech_comfort", "single_mood",
	}
	cols = append(cols, itemColumns("gad", GADScale.Items)...)
	cols = append(cols, "gad_impact")
	cols = append(cols, itemColumns("panas", PANASScale.Items)...)
	for _, prefix := range []string{"emp", "neu"} {
		cols = append(cols, itemColumns(prefix, VoiceScale.Items)...)
		cols = append(cols, prefix+"_state_anxiety")
		cols = append(cols, itemColumns(prefix+"_post", PostScale.Items)...)
	}
	return append(cols, OpenColumns...)
}

// ItemColumn names the flat column of a scale item, e.g. ("gad", 3) -> "gad_q3".
func ItemColumn(prefix string, item int) string {
	return fmt.Sprintf("%s_q%d", prefix, item)
}

func itemColumns(prefix string, n int) []string {
	cols := make([]string, n)
	for i := range cols {
		cols[i] = ItemColumn(prefix, i+1)
	}
	return cols
}
