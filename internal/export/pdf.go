package export

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/bhardwajvivekkumar/JobSync/internal/applications"
)

// RenderPDF builds the "Job Applications Report" document: a title and a
// numbered table of company / title / status / applied date.
func RenderPDF(apps []applications.Application) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(0, 10, "Job Applications Report", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	colW := []float64{12, 52, 62, 28, 28}
	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(245, 245, 245)
		pdf.CellFormat(colW[0], 8, "NO.", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[1], 8, "COMPANY", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colW[2], 8, "JOB TITLE", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colW[3], 8, "STATUS", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[4], 8, "APPLIED", "1", 1, "C", true, 0, "")
		pdf.SetFont("Helvetica", "", 9)
	}
	writeHeader()

	pdf.SetTextColor(30, 30, 30)
	for i, app := range apps {
		if pdf.GetY() > 270 {
			pdf.AddPage()
			writeHeader()
		}
		pdf.CellFormat(colW[0], 8, strconv.Itoa(i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[1], 8, trimTo(app.Company, 34), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[2], 8, trimTo(app.JobTitle, 42), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[3], 8, app.Status, "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[4], 8, app.AppliedAt.Format("2006-01-02"), "1", 1, "C", false, 0, "")
	}

	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 10, "Generated by JobSync "+time.Now().Format(time.RFC3339), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func trimTo(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
