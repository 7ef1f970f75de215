package export

import (
	"bytes"
	"encoding/csv"

	"github.com/bhardwajvivekkumar/JobSync/internal/applications"
)

// RenderCSV writes one row per application with the columns the dashboard
// export promises: company, jobTitle, status, appliedAt.
func RenderCSV(apps []applications.Application) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"company", "jobTitle", "status", "appliedAt"}); err != nil {
		return nil, err
	}
	for _, app := range apps {
		row := []string{
			app.Company,
			app.JobTitle,
			app.Status,
			app.AppliedAt.Format("2006-01-02"),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
