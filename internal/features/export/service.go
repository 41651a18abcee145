package export

import (
	"context"
	"errors"
	"time"

	common_models "go-court/internal/common/models"
	"go-court/internal/features/audit"
	"go-court/internal/features/cases"
	"go-court/internal/features/workflow"

	"go.uber.org/zap"
)

var ErrRegistryUnavailable = errors.New("county registry not configured")

// ExportResult summarizes one registry export run.
type ExportResult struct {
	Exported int      `json:"exported"`
	Failed   int      `json:"failed"`
	Cases    []string `json:"cases"`
}

type ExportService interface {
	// ExportCompleted pushes every Completed case into the county
	// registry. Already-exported cases are upserted, not duplicated.
	ExportCompleted(ctx context.Context) (*ExportResult, error)
}

type ExportServiceImpl struct {
	CaseRepo     cases.CaseRepository
	Registry     RegistryClient
	AuditService audit.AuditService
	Logger       *zap.Logger
}

func NewExportService(
	caseRepo cases.CaseRepository,
	registry RegistryClient,
	auditService audit.AuditService,
	logger *zap.Logger,
) ExportService {
	return &ExportServiceImpl{
		CaseRepo:     caseRepo,
		Registry:     registry,
		AuditService: auditService,
		Logger:       logger,
	}
}

func (s *ExportServiceImpl) ExportCompleted(ctx context.Context) (*ExportResult, error) {
	if s.Registry == nil {
		return nil, ErrRegistryUnavailable
	}

	completed, _, err := s.CaseRepo.List(ctx, map[string]interface{}{
		"status": workflow.CaseStatusCompleted,
	}, 10000, 0)
	if err != nil {
		return nil, err
	}

	result := &ExportResult{Cases: []string{}}
	for _, c := range completed {
		rec := FilingRecord{
			CaseNumber:     c.CaseNumber,
			FirstName:      c.FirstName,
			LastName:       c.LastName,
			TypeOfIncident: c.TypeOfIncident,
			DateOfIncident: c.DateOfIncident,
			ReviewerEmail:  c.ReviewerEmail,
			SignerEmail:    c.SignerEmail,
			DocumentID:     c.SignCareDocID,
			FiledAt:        c.UpdatedAt,
		}
		if rec.FiledAt.IsZero() {
			rec.FiledAt = time.Now()
		}

		if err := s.Registry.UpsertFiling(ctx, rec); err != nil {
			result.Failed++
			s.Logger.Warn("registry export failed",
				zap.String("case_number", c.CaseNumber),
				zap.Error(err))
			continue
		}
		result.Exported++
		result.Cases = append(result.Cases, c.CaseNumber)
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionExport, "filings", "registry", map[string]common_models.Change{
		"exported": {New: result.Exported},
		"failed":   {New: result.Failed},
	})

	return result, nil
}
