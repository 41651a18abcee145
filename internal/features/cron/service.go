package cron_feature

import (
	"context"
	"fmt"
	"time"

	common_models "go-court/internal/common/models"
	"go-court/internal/config"
	"go-court/internal/features/audit"
	"go-court/internal/features/cases"
	"go-court/internal/features/workflow"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type CronService interface {
	// RunSweep reconciles every in-flight case once. Per-case failures
	// are logged and counted, never fatal to the sweep.
	RunSweep(ctx context.Context, triggeredBy string) (*SweepLog, error)

	ListSweeps(ctx context.Context, limit int64) ([]SweepLog, error)

	StartScheduler() error
	StopScheduler() error
}

type CronServiceImpl struct {
	Repo         SweepRepository
	CaseRepo     cases.CaseRepository
	Workflow     workflow.WorkflowService
	AuditService audit.AuditService
	Config       *config.Config
	Logger       *zap.Logger

	scheduler *cron.Cron
}

func NewCronService(
	repo SweepRepository,
	caseRepo cases.CaseRepository,
	wf workflow.WorkflowService,
	auditService audit.AuditService,
	cfg *config.Config,
	logger *zap.Logger,
) CronService {
	return &CronServiceImpl{
		Repo:         repo,
		CaseRepo:     caseRepo,
		Workflow:     wf,
		AuditService: auditService,
		Config:       cfg,
		Logger:       logger,
	}
}

func (s *CronServiceImpl) RunSweep(ctx context.Context, triggeredBy string) (*SweepLog, error) {
	sweep := &SweepLog{
		StartTime:   time.Now(),
		Status:      "running",
		TriggeredBy: triggeredBy,
	}
	if err := s.Repo.Create(ctx, sweep); err != nil {
		return nil, err
	}

	inFlight, err := s.CaseRepo.ListInFlight(ctx)
	if err != nil {
		s.finish(ctx, sweep, 0, 0, err)
		return sweep, err
	}

	failed := 0
	for _, c := range inFlight {
		if err := s.Workflow.Reconcile(ctx, c.ID, c.CaseNumber); err != nil {
			failed++
			s.Logger.Warn("sweep: case reconciliation failed",
				zap.String("case_number", c.CaseNumber),
				zap.Error(err))
		}
	}

	s.finish(ctx, sweep, len(inFlight), failed, nil)

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCron, "reconcile_sweeps", sweep.ID.Hex(), map[string]common_models.Change{
		"scanned": {New: len(inFlight)},
		"failed":  {New: failed},
	})

	return sweep, nil
}

func (s *CronServiceImpl) finish(ctx context.Context, sweep *SweepLog, scanned, failed int, fatal error) {
	now := time.Now()
	sweep.EndTime = &now
	sweep.CasesScanned = scanned
	sweep.CasesFailed = failed

	switch {
	case fatal != nil:
		sweep.Status = "failed"
		sweep.Error = fatal.Error()
	case failed > 0:
		sweep.Status = "partial"
	default:
		sweep.Status = "success"
	}

	if err := s.Repo.Update(ctx, sweep); err != nil {
		s.Logger.Warn("sweep: log update failed", zap.Error(err))
	}
}

func (s *CronServiceImpl) ListSweeps(ctx context.Context, limit int64) ([]SweepLog, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.Repo.ListRecent(ctx, limit)
}

func (s *CronServiceImpl) StartScheduler() error {
	if s.scheduler != nil {
		return nil
	}
	if _, err := cron.ParseStandard(s.Config.ReconcileSchedule); err != nil {
		return fmt.Errorf("invalid reconcile schedule %q: %w", s.Config.ReconcileSchedule, err)
	}

	s.scheduler = cron.New()
	_, err := s.scheduler.AddFunc(s.Config.ReconcileSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := s.RunSweep(ctx, "schedule"); err != nil {
			s.Logger.Error("scheduled sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.Start()
	s.Logger.Info("reconcile sweep scheduled",
		zap.String("schedule", s.Config.ReconcileSchedule))
	return nil
}

func (s *CronServiceImpl) StopScheduler() error {
	if s.scheduler == nil {
		return nil
	}
	stopCtx := s.scheduler.Stop()
	<-stopCtx.Done()
	s.scheduler = nil
	return nil
}
