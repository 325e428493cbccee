package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/hasandi22/Final-year-research---Data-Collection/models"
)

// RenderReviewPDF lays out every record column and its current value, so a
// participant can keep a copy of what they are about to submit.
func RenderReviewPDF(state models.SurveyState, now time.Time) ([]byte, error) {
	record := Flatten(state, now)

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Survey responses", true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Your responses")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Participant %s", state.ParticipantID)))
	pdf.Ln(10)

	for _, f := range record.Fields {
		value := "(no answer)"
		if f.Value != nil {
			value = fmt.Sprint(f.Value)
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(55, 6, f.Column, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, tr(value), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render review pdf: %w", err)
	}
	return buf.Bytes(), nil
}
