// Package export builds the admin xlsx report of all applications.
package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	domainApp "ilmfund-backend/internal/domain/application"
	"ilmfund-backend/internal/domain/student"
	"ilmfund-backend/internal/usecase/completeness"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Applications"

var headers = []string{
	"Application ID",
	"Student ID",
	"Student Name",
	"Email",
	"Term",
	"Amount",
	"Currency",
	"Status",
	"Phase",
	"Profile %",
	"Documents %",
	"Overall %",
	"Submitted At",
	"Created At",
}

type Usecase struct {
	apps     domainApp.Repository
	students student.Repository
}

func NewUsecase(apps domainApp.Repository, students student.Repository) *Usecase {
	return &Usecase{apps: apps, students: students}
}

// Applications renders every application as one xlsx row, with the
// student's current completeness alongside. Returns the file bytes.
func (u *Usecase) Applications(ctx context.Context) ([]byte, error) {
	apps, err := u.apps.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}

	// One completeness computation per student, not per application.
	reports := make(map[uint64]completeness.Report)

	for i, a := range apps {
		row := []any{
			a.ApplicationID,
			"",
			"",
			"",
			a.Term,
			a.Amount,
			a.Currency,
			string(a.Status),
			"",
			"",
			"",
			"",
			formatTime(a.SubmittedAt),
			a.CreatedAt.Format(time.RFC3339),
		}
		if a.Student != nil {
			row[1] = a.Student.StudentID
			row[2] = a.Student.Name
			row[3] = a.Student.Email
			row[8] = string(a.Student.Phase)

			rep, ok := reports[a.Student.ID]
			if !ok {
				docs, err := u.students.ListDocumentTypes(ctx, a.Student.ID)
				if err != nil {
					return nil, err
				}
				rep = completeness.Score(a.Student.Snapshot(), docs)
				reports[a.Student.ID] = rep
			}
			row[9] = rep.FieldPercent
			row[10] = rep.DocumentPercent
			row[11] = rep.Percent
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileName returns a timestamped name for the download.
func FileName(now time.Time) string {
	return fmt.Sprintf("applications_%s.xlsx", now.Format("20060102_150405"))
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
