package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-rateb/internal/events"
	exporterrors "go-rateb/internal/export/errors"
	"go-rateb/internal/messaging/kafka"
	"go-rateb/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// stuckProcessingTimeout bounds how long a PROCESSING artifact may sit
// before the reaper fails it (worker crash, partition stall).
const stuckProcessingTimeout = 10 * time.Minute

// Generator is the worker-side contract: turn a claimed artifact into file
// bytes. The api-side Service implements it too.
type Generator interface {
	Generate(ctx context.Context, companyID, artifactID string) error
}

//go:generate mockgen -source=export_service.go -destination=mock/export_service_mock.go -package=mock
type Service interface {
	Generator

	Enqueue(ctx context.Context, companyID, actorID string, req EnqueueExportRequest) (ArtifactResponse, error)
	Get(ctx context.Context, companyID, id string) (ArtifactResponse, error)
	ListForRun(ctx context.Context, companyID, runID string) ([]ArtifactResponse, error)
	Retry(ctx context.Context, companyID, actorID, id string) (ArtifactResponse, error)
	Download(ctx context.Context, companyID, id string) (fileName, contentType string, data []byte, err error)

	ReapStuck(ctx context.Context) (int64, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, outboxRepo kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("export.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("export.service")
	}
	return &service{db: db, repo: repo, outbox: outboxRepo, logger: l}
}

// Enqueue validates the run against the requested kind, then queues a
// PENDING artifact and its outbox event in one transaction. The caller polls
// the returned artifact for completion.
func (s *service) Enqueue(ctx context.Context, companyID, actorID string, req EnqueueExportRequest) (ArtifactResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if !ValidKind(req.Kind) {
		return ArtifactResponse{}, exporterrors.ErrInvalidKind
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return ArtifactResponse{}, exporterrors.ErrInvalidActorID
	}

	run, err := s.findRun(ctx, companyID, req.RunID)
	if err != nil {
		return ArtifactResponse{}, err
	}
	if err := checkRunStatus(run.Status, req.Kind); err != nil {
		return ArtifactResponse{}, err
	}

	lines, err := s.repo.FindLines(ctx, companyID, req.RunID)
	if err != nil {
		return ArtifactResponse{}, err
	}
	if len(lines) == 0 {
		return ArtifactResponse{}, exporterrors.ErrRunHasNoLines
	}

	if err := s.validateConsistency(ctx, companyID, req.Kind, lines); err != nil {
		return ArtifactResponse{}, err
	}

	artifact := &Artifact{
		ID:          uuid.New(),
		CompanyID:   run.CompanyID,
		RunID:       run.ID,
		Kind:        req.Kind,
		Status:      StatusPending,
		RequestedBy: actorUUID,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ArtifactResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.CreateArtifact(ctx, artifact); err != nil {
		return ArtifactResponse{}, err
	}

	event := events.ExportRequestedEvent{
		EventType:   "export_requested",
		ArtifactID:  artifact.ID.String(),
		RunID:       req.RunID,
		CompanyID:   companyID,
		Kind:        req.Kind,
		RequestedBy: actorID,
		OccurredAt:  time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return ArtifactResponse{}, err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "export_artifact",
		AggregateID:   artifact.ID.String(),
		EventType:     event.EventType,
		Topic:         events.ExportRequestedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		return ArtifactResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return ArtifactResponse{}, err
	}

	s.logger.Info("export artifact enqueued",
		zap.String("request_id", rid),
		zap.String("artifact_id", artifact.ID.String()),
		zap.String("run_id", req.RunID),
		zap.String("kind", req.Kind),
	)
	return mapArtifact(*artifact), nil
}

func (s *service) Get(ctx context.Context, companyID, id string) (ArtifactResponse, error) {
	artifact, err := s.findArtifact(ctx, companyID, id)
	if err != nil {
		return ArtifactResponse{}, err
	}
	return mapArtifact(*artifact), nil
}

func (s *service) ListForRun(ctx context.Context, companyID, runID string) ([]ArtifactResponse, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return nil, exporterrors.ErrInvalidRunID
	}
	artifacts, err := s.repo.FindArtifactsByRun(ctx, companyID, runID)
	if err != nil {
		return nil, err
	}

	resp := make([]ArtifactResponse, 0, len(artifacts))
	for _, a := range artifacts {
		resp = append(resp, mapArtifact(a))
	}
	return resp, nil
}

// Retry re-enqueues a failed export as a brand new artifact; the failed one
// keeps its error message for the audit trail.
func (s *service) Retry(ctx context.Context, companyID, actorID, id string) (ArtifactResponse, error) {
	artifact, err := s.findArtifact(ctx, companyID, id)
	if err != nil {
		return ArtifactResponse{}, err
	}
	if artifact.Status != StatusFailed {
		return ArtifactResponse{}, exporterrors.ErrArtifactNotRetryable
	}

	return s.Enqueue(ctx, companyID, actorID, EnqueueExportRequest{
		RunID: artifact.RunID.String(),
		Kind:  artifact.Kind,
	})
}

func (s *service) Download(ctx context.Context, companyID, id string) (string, string, []byte, error) {
	artifact, err := s.findArtifact(ctx, companyID, id)
	if err != nil {
		return "", "", nil, err
	}
	if artifact.Status != StatusCompleted || len(artifact.FileBytes) == 0 {
		return "", "", nil, exporterrors.ErrArtifactNotReady
	}
	return artifact.FileName, artifact.ContentType, artifact.FileBytes, nil
}

// Generate claims the artifact and produces its file. A lost claim is not an
// error: another worker (or an earlier delivery) owns the artifact.
func (s *service) Generate(ctx context.Context, companyID, artifactID string) error {
	claimed, err := s.repo.ClaimArtifact(ctx, companyID, artifactID)
	if err != nil {
		return err
	}
	if !claimed {
		s.logger.Debug("export artifact already claimed",
			zap.String("artifact_id", artifactID),
		)
		return nil
	}

	artifact, err := s.findArtifact(ctx, companyID, artifactID)
	if err != nil {
		return err
	}

	fileName, contentType, data, buildErr := s.buildFile(ctx, companyID, artifact)
	if buildErr != nil {
		if failErr := s.repo.FailArtifact(ctx, companyID, artifactID, buildErr.Error()); failErr != nil {
			s.logger.Error("mark export artifact failed errored", zap.Error(failErr))
		}
		return buildErr
	}

	if err := s.repo.CompleteArtifact(ctx, companyID, artifactID, fileName, contentType, data); err != nil {
		return err
	}

	s.logger.Info("export artifact completed",
		zap.String("artifact_id", artifactID),
		zap.String("file_name", fileName),
		zap.Int("size_bytes", len(data)),
	)
	return nil
}

func (s *service) ReapStuck(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-stuckProcessingTimeout)
	reaped, err := s.repo.ReapStuckProcessing(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if reaped > 0 {
		s.logger.Warn("reaped stuck export artifacts", zap.Int64("count", reaped))
	}
	return reaped, nil
}

func (s *service) buildFile(ctx context.Context, companyID string, artifact *Artifact) (string, string, []byte, error) {
	run, err := s.findRun(ctx, companyID, artifact.RunID.String())
	if err != nil {
		return "", "", nil, err
	}
	period, err := s.repo.FindPeriod(ctx, run.PeriodID.String())
	if err != nil {
		return "", "", nil, err
	}
	lines, err := s.repo.FindLines(ctx, companyID, artifact.RunID.String())
	if err != nil {
		return "", "", nil, err
	}
	if len(lines) == 0 {
		return "", "", nil, fmt.Errorf("payroll run %s has no lines", artifact.RunID)
	}
	company, err := s.repo.FindCompany(ctx, companyID)
	if err != nil {
		return "", "", nil, err
	}

	var (
		data        []byte
		contentType string
		ext         string
	)
	switch artifact.Kind {
	case KindWpsCSV:
		data, err = buildWpsCSV(company, period, lines)
		contentType, ext = contentTypeCSV, "csv"
	case KindGosiCSV:
		data, err = buildGosiCSV(period, lines)
		contentType, ext = contentTypeCSV, "csv"
	case KindRegisterCSV:
		data, err = buildRegisterCSV(period, lines)
		contentType, ext = contentTypeCSV, "csv"
	case KindPayslipPDF:
		data, err = buildPayslipPDF(company, period, lines)
		contentType, ext = contentTypePDF, "pdf"
	default:
		err = fmt.Errorf("unknown export kind %q", artifact.Kind)
	}
	if err != nil {
		return "", "", nil, err
	}

	fileName := fmt.Sprintf("%s_%d_%02d.%s",
		strings.ToLower(strings.TrimSuffix(strings.TrimSuffix(artifact.Kind, "_CSV"), "_PDF")),
		period.Year, period.Month, ext)
	return fileName, contentType, data, nil
}

// validateConsistency runs the kind-specific pre-flight checks and reports
// every issue at once, so one fix pass suffices.
func (s *service) validateConsistency(ctx context.Context, companyID, kind string, lines []LineRead) error {
	switch kind {
	case KindWpsCSV:
		company, err := s.repo.FindCompany(ctx, companyID)
		if err != nil {
			return err
		}
		if gaps := validateWps(company, lines); len(gaps) > 0 {
			return exporterrors.ErrWpsValidationFailed.WithDetails(gaps)
		}
	case KindGosiCSV:
		ids := make([]string, 0, len(lines))
		for _, line := range lines {
			ids = append(ids, line.EmployeeID.String())
		}
		employees, err := s.repo.FindEmployeeGosi(ctx, companyID, ids)
		if err != nil {
			return err
		}
		if mismatches := validateGosi(lines, employees); len(mismatches) > 0 {
			return exporterrors.ErrGosiValidationFailed.WithDetails(mismatches)
		}
	}
	return nil
}

func checkRunStatus(status, kind string) error {
	switch kind {
	case KindWpsCSV, KindGosiCSV:
		if status != "APPROVED" && status != "LOCKED" {
			return exporterrors.ErrRunNotExportable
		}
	default:
		if status == "DRAFT" {
			return exporterrors.ErrRunNotCalculated
		}
	}
	return nil
}

func (s *service) findRun(ctx context.Context, companyID, runID string) (*RunRead, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return nil, exporterrors.ErrInvalidRunID
	}
	run, err := s.repo.FindRun(ctx, companyID, runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, exporterrors.ErrRunNotFound
		}
		return nil, err
	}
	return run, nil
}

func (s *service) findArtifact(ctx context.Context, companyID, id string) (*Artifact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, exporterrors.ErrInvalidArtifactID
	}
	artifact, err := s.repo.FindArtifactByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, exporterrors.ErrArtifactNotFound
		}
		return nil, err
	}
	return artifact, nil
}

func mapArtifact(a Artifact) ArtifactResponse {
	resp := ArtifactResponse{
		ID:           a.ID.String(),
		RunID:        a.RunID.String(),
		Kind:         a.Kind,
		Status:       a.Status,
		FileName:     a.FileName,
		ContentType:  a.ContentType,
		ErrorMessage: a.ErrorMessage,
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
	}
	if a.StartedAt != nil {
		v := a.StartedAt.Format(time.RFC3339)
		resp.StartedAt = &v
	}
	if a.CompletedAt != nil {
		v := a.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &v
	}
	return resp
}
