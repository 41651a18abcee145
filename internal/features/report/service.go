package report

import (
	"context"
	"fmt"
	"time"

	common_models "go-court/internal/common/models"
	"go-court/internal/features/audit"
	"go-court/internal/features/cases"

	"github.com/xuri/excelize/v2"
)

type ReportService interface {
	// CaseRegisterXLSX renders the case register as a spreadsheet,
	// optionally filtered by case status.
	CaseRegisterXLSX(ctx context.Context, status string) ([]byte, string, error)
}

type ReportServiceImpl struct {
	CaseRepo     cases.CaseRepository
	AuditService audit.AuditService
}

func NewReportService(caseRepo cases.CaseRepository, auditService audit.AuditService) ReportService {
	return &ReportServiceImpl{
		CaseRepo:     caseRepo,
		AuditService: auditService,
	}
}

var registerColumns = []string{
	"Case Number", "First Name", "Last Name", "Incident Type", "Incident Date",
	"Contact Email", "Reviewer", "Signer", "Status", "Created At",
}

func (s *ReportServiceImpl) CaseRegisterXLSX(ctx context.Context, status string) ([]byte, string, error) {
	filter := map[string]interface{}{}
	if status != "" {
		filter["status"] = status
	}

	rows, _, err := s.CaseRepo.List(ctx, filter, 10000, 0)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Case Register"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range registerColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, c := range rows {
		values := []interface{}{
			c.CaseNumber, c.FirstName, c.LastName, c.TypeOfIncident, c.DateOfIncident,
			c.ContactEmail, c.ReviewerEmail, c.SignerEmail, c.Status,
			c.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for colIdx, val := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, val)
		}
	}

	for i := range registerColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 18)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("case-register-%s.xlsx", time.Now().Format("20060102-150405"))

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionExport, "cases", "register", map[string]common_models.Change{
		"rows":   {New: len(rows)},
		"status": {New: status},
	})

	return buffer.Bytes(), filename, nil
}
