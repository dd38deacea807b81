package prescription

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/apper-apps/mediconnect-code/internal/model"
)

// RenderPDF loads a prescription and renders it as a printable PDF.
func (s *Service) RenderPDF(ctx context.Context, id int) (model.Prescription, []byte, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.Prescription{}, nil, err
	}
	data, err := RenderPDF(p)
	if err != nil {
		return model.Prescription{}, nil, err
	}
	return p, data, nil
}

// FileName is the download name of a prescription PDF.
func FileName(p model.Prescription) string {
	return fmt.Sprintf("prescription-%d.pdf", p.ID)
}

func RenderPDF(p model.Prescription) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Prescription #%d", p.ID), true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, "MediConnect Prescription", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, "Patient: "+p.PatientName, "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, "Doctor: "+p.DoctorName, "", 1, "R", false, 0, "")
	pdf.CellFormat(95, 7, "Date: "+p.CreatedAt.Format("January 2, 2006"), "", 0, "L", false, 0, "")
	if p.TemplateUsed != "" {
		pdf.CellFormat(95, 7, "Template: "+p.TemplateUsed, "", 1, "R", false, 0, "")
	} else {
		pdf.Ln(7)
	}
	pdf.Ln(6)

	widths := []float64{60, 35, 50, 45}
	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(230, 240, 250)
	for i, h := range []string{"Medication", "Dosage", "Frequency", "Duration"} {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 11)
	for _, m := range p.Medications {
		for i, v := range []string{m.Name, m.Dosage, m.Frequency, m.Duration} {
			pdf.CellFormat(widths[i], 8, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if p.Instructions != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 7, "Instructions", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 6, p.Instructions, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render prescription pdf: %w", err)
	}
	return buf.Bytes(), nil
}
