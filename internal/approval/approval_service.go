package approval

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	approvalerrors "go-rateb/internal/approval/errors"
	"go-rateb/internal/compliance"
	"go-rateb/internal/shared/contextutil"
	"go-rateb/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	reportCacheTTL        = 15 * time.Minute
	defaultReportWindow   = 90
	overrideReferenceType = "override_reference"
)

func reportCacheKey(companyID string, windowDays int) string {
	return fmt.Sprintf("approval:report:%s:%d", companyID, windowDays)
}

//go:generate mockgen -source=approval_service.go -destination=mock/approval_service_mock.go -package=mock
type Service interface {
	ConfigureMatrix(ctx context.Context, companyID string, req ConfigureMatrixRequest) ([]StageResponse, error)
	GetMatrix(ctx context.Context, companyID string) ([]StageResponse, error)

	RecordApprove(ctx context.Context, companyID, runID, actorID, actorRole string, req ApproveStageRequest) (ActionResponse, error)
	RecordOverride(ctx context.Context, companyID, runID, actorID, actorRole string, req OverrideStageRequest) (ActionResponse, error)
	RecordRollback(ctx context.Context, companyID, runID, actorID, actorRole string, req RollbackRequest) (ActionResponse, error)

	RunStatus(ctx context.Context, companyID, runID string) (RunApprovalStatusResponse, error)
	IsRunApprovable(ctx context.Context, tx *sql.Tx, companyID, runID string) (bool, error)

	GovernanceReport(ctx context.Context, companyID string, windowDays int) (GovernanceReportResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	counter    counter.Repository
	compliance compliance.Service
	rdb        *redis.Client
	sf         *singleflight.Group
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	complianceSvc compliance.Service,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("approval.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approval.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		counter:    counterRepo,
		compliance: complianceSvc,
		rdb:        rdb,
		sf:         &singleflight.Group{},
		logger:     l,
	}
}

func (s *service) ConfigureMatrix(ctx context.Context, companyID string, req ConfigureMatrixRequest) ([]StageResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, approvalerrors.ErrInvalidActorID
	}

	seen := make(map[int]struct{}, len(req.Stages))
	stages := make([]MatrixStage, 0, len(req.Stages))
	for _, in := range req.Stages {
		if _, dup := seen[in.StageOrder]; dup {
			return nil, approvalerrors.ErrDuplicateStageOrder
		}
		seen[in.StageOrder] = struct{}{}

		slaHours := in.SlaHours
		if slaHours == 0 {
			slaHours = 24
		}
		stages = append(stages, MatrixStage{
			ID:             uuid.New(),
			CompanyID:      companyUUID,
			StageOrder:     in.StageOrder,
			StageCode:      in.StageCode,
			ApproverRole:   in.ApproverRole,
			Mandatory:      in.Mandatory,
			AllowRollback:  in.AllowRollback,
			SlaHours:       slaHours,
			EscalationRole: in.EscalationRole,
		})
	}

	if err := s.repo.ReplaceStages(ctx, companyID, stages); err != nil {
		s.logger.Error("replace approval matrix failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("approval matrix configured",
		zap.String("company_id", companyID),
		zap.Int("stage_count", len(stages)),
	)
	return mapStages(stages), nil
}

func (s *service) GetMatrix(ctx context.Context, companyID string) ([]StageResponse, error) {
	stages, err := s.repo.FindStages(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return mapStages(stages), nil
}

// RecordApprove appends a standard APPROVE. The actor's role must match the
// stage approver role; overrides exist for everything else.
func (s *service) RecordApprove(ctx context.Context, companyID, runID, actorID, actorRole string, req ApproveStageRequest) (ActionResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ActionResponse{}, err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	stage, run, actorUUID, err := s.prepareAction(ctx, qtx, companyID, runID, actorID, req.StageID)
	if err != nil {
		return ActionResponse{}, err
	}
	if stage.ApproverRole != actorRole {
		return ActionResponse{}, approvalerrors.ErrRoleMismatch
	}

	action := &Action{
		ID:         uuid.New(),
		CompanyID:  stage.CompanyID,
		RunID:      run.ID,
		StageID:    stage.ID,
		ActionType: ActionApprove,
		ActorID:    actorUUID,
		ActorRole:  actorRole,
	}
	if err := qtx.CreateAction(ctx, action); err != nil {
		return ActionResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return ActionResponse{}, err
	}

	s.invalidateReportCache(ctx, companyID)
	s.logger.Info("approval recorded",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("run_id", runID),
		zap.String("stage_code", stage.StageCode),
		zap.String("actor_id", actorID),
	)
	return mapAction(*action), nil
}

// RecordOverride appends an OVERRIDE. Any role may override, but the entry
// must carry a category, a substantive reason and a traceable reference; a
// missing reference is minted from the tenant counter.
func (s *service) RecordOverride(ctx context.Context, companyID, runID, actorID, actorRole string, req OverrideStageRequest) (ActionResponse, error) {
	if !ValidOverrideCategory(req.Category) {
		return ActionResponse{}, approvalerrors.ErrInvalidOverrideCategory
	}

	reference := req.ReferenceID
	if reference != "" && !ValidOverrideReference(reference) {
		return ActionResponse{}, approvalerrors.ErrInvalidOverrideReference
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ActionResponse{}, err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	stage, run, actorUUID, err := s.prepareAction(ctx, qtx, companyID, runID, actorID, req.StageID)
	if err != nil {
		return ActionResponse{}, err
	}

	if reference == "" {
		seq, err := s.counter.GetNextValue(ctx, companyID, overrideReferenceType)
		if err != nil {
			return ActionResponse{}, err
		}
		reference = formatOverrideReference(time.Now().UTC(), seq)
	}

	action := &Action{
		ID:                uuid.New(),
		CompanyID:         stage.CompanyID,
		RunID:             run.ID,
		StageID:           stage.ID,
		ActionType:        ActionOverride,
		ActorID:           actorUUID,
		ActorRole:         actorRole,
		OverrideCategory:  &req.Category,
		OverrideReason:    &req.Reason,
		OverrideReference: &reference,
	}
	if err := qtx.CreateAction(ctx, action); err != nil {
		return ActionResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return ActionResponse{}, err
	}

	s.invalidateReportCache(ctx, companyID)
	s.logger.Warn("approval override recorded",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("run_id", runID),
		zap.String("stage_code", stage.StageCode),
		zap.String("category", req.Category),
		zap.String("reference", reference),
	)
	return mapAction(*action), nil
}

// RecordRollback voids an earlier APPROVE or OVERRIDE by appending a
// ROLLBACK that points at it. Nothing is deleted.
func (s *service) RecordRollback(ctx context.Context, companyID, runID, actorID, actorRole string, req RollbackRequest) (ActionResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return ActionResponse{}, approvalerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ActionResponse{}, err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	target, err := qtx.FindActionByID(ctx, companyID, req.ActionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ActionResponse{}, approvalerrors.ErrActionNotFound
		}
		return ActionResponse{}, err
	}
	if target.RunID.String() != runID {
		return ActionResponse{}, approvalerrors.ErrActionNotFound
	}
	if target.ActionType == ActionRollback {
		return ActionResponse{}, approvalerrors.ErrRollbackTargetType
	}

	stage, err := qtx.FindStageByID(ctx, companyID, target.StageID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ActionResponse{}, approvalerrors.ErrStageNotFound
		}
		return ActionResponse{}, err
	}
	if !stage.AllowRollback {
		return ActionResponse{}, approvalerrors.ErrRollbackNotAllowed
	}

	run, err := s.findActionableRun(ctx, qtx, companyID, runID)
	if err != nil {
		return ActionResponse{}, err
	}

	actions, err := qtx.FindActionsForRun(ctx, companyID, runID)
	if err != nil {
		return ActionResponse{}, err
	}
	if rolledBackIDs(actions)[target.ID] {
		return ActionResponse{}, approvalerrors.ErrActionAlreadyRolledBack
	}

	targetID := target.ID
	action := &Action{
		ID:                 uuid.New(),
		CompanyID:          stage.CompanyID,
		RunID:              run.ID,
		StageID:            stage.ID,
		ActionType:         ActionRollback,
		ActorID:            actorUUID,
		ActorRole:          actorRole,
		RolledBackActionID: &targetID,
	}
	if req.Reason != "" {
		action.OverrideReason = &req.Reason
	}
	if err := qtx.CreateAction(ctx, action); err != nil {
		return ActionResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return ActionResponse{}, err
	}

	s.invalidateReportCache(ctx, companyID)
	s.logger.Warn("approval rollback recorded",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("run_id", runID),
		zap.String("rolled_back_action_id", req.ActionID),
	)
	return mapAction(*action), nil
}

func (s *service) RunStatus(ctx context.Context, companyID, runID string) (RunApprovalStatusResponse, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return RunApprovalStatusResponse{}, approvalerrors.ErrInvalidRunID
	}
	if _, err := s.repo.FindRunRef(ctx, companyID, runID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RunApprovalStatusResponse{}, approvalerrors.ErrRunNotFound
		}
		return RunApprovalStatusResponse{}, err
	}

	stages, err := s.repo.FindStages(ctx, companyID)
	if err != nil {
		return RunApprovalStatusResponse{}, err
	}
	actions, err := s.repo.FindActionsForRun(ctx, companyID, runID)
	if err != nil {
		return RunApprovalStatusResponse{}, err
	}

	statuses := foldStages(stages, actions)
	approvable := true
	for i, stage := range stages {
		if stage.Mandatory && !statuses[i].Satisfied {
			approvable = false
		}
	}

	resp := RunApprovalStatusResponse{
		RunID:      runID,
		Approvable: approvable,
		Stages:     statuses,
		Actions:    make([]ActionResponse, 0, len(actions)),
	}
	for _, a := range actions {
		resp.Actions = append(resp.Actions, mapAction(a))
	}
	return resp, nil
}

// IsRunApprovable folds the ledger: every mandatory stage needs at least one
// surviving APPROVE or OVERRIDE on that same stage. A tenant with no
// mandatory stages has opted out of gating and is always approvable. When a
// transaction is given the fold reads on it, so the caller decides against
// the same snapshot it stamps.
func (s *service) IsRunApprovable(ctx context.Context, tx *sql.Tx, companyID, runID string) (bool, error) {
	repo := s.repo
	if tx != nil {
		repo = s.repo.WithTx(tx)
	}

	stages, err := repo.FindStages(ctx, companyID)
	if err != nil {
		return false, err
	}
	actions, err := repo.FindActionsForRun(ctx, companyID, runID)
	if err != nil {
		return false, err
	}

	statuses := foldStages(stages, actions)
	for i, stage := range stages {
		if stage.Mandatory && !statuses[i].Satisfied {
			return false, nil
		}
	}
	return true, nil
}

func (s *service) GovernanceReport(ctx context.Context, companyID string, windowDays int) (GovernanceReportResponse, error) {
	if windowDays <= 0 {
		windowDays = defaultReportWindow
	}
	cacheKey := reportCacheKey(companyID, windowDays)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp GovernanceReportResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		resp, err := s.buildReport(ctx, companyID, windowDays)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, reportCacheTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		return GovernanceReportResponse{}, err
	}
	return v.(GovernanceReportResponse), nil
}

func (s *service) buildReport(ctx context.Context, companyID string, windowDays int) (GovernanceReportResponse, error) {
	since := time.Now().UTC().AddDate(0, 0, -windowDays)
	actions, err := s.repo.FindActionsSince(ctx, companyID, since)
	if err != nil {
		return GovernanceReportResponse{}, err
	}

	resp := GovernanceReportResponse{WindowDays: windowDays}
	categoryCounts := map[string]int{}
	referenced := 0
	for _, a := range actions {
		switch a.ActionType {
		case ActionApprove:
			resp.ApproveCount++
		case ActionOverride:
			resp.OverrideCount++
			if a.OverrideCategory != nil {
				categoryCounts[*a.OverrideCategory]++
			}
			if a.OverrideReference != nil && *a.OverrideReference != "" {
				referenced++
			}
		case ActionRollback:
			resp.RollbackCount++
		}
	}

	if decisions := resp.ApproveCount + resp.OverrideCount; decisions > 0 {
		resp.OverrideRatio = float64(resp.OverrideCount) / float64(decisions)
	}
	if resp.OverrideCount > 0 {
		resp.ReferenceCoverage = float64(referenced) / float64(resp.OverrideCount)
	}

	for category, count := range categoryCounts {
		resp.TopCategories = append(resp.TopCategories, CategoryCount{Category: category, Count: count})
	}
	sort.Slice(resp.TopCategories, func(i, j int) bool {
		if resp.TopCategories[i].Count != resp.TopCategories[j].Count {
			return resp.TopCategories[i].Count > resp.TopCategories[j].Count
		}
		return resp.TopCategories[i].Category < resp.TopCategories[j].Category
	})
	if len(resp.TopCategories) > 5 {
		resp.TopCategories = resp.TopCategories[:5]
	}

	if s.compliance != nil {
		topNames := make([]string, 0, len(resp.TopCategories))
		for _, c := range resp.TopCategories {
			topNames = append(topNames, c.Category)
		}
		brief := s.compliance.GenerateBrief(ctx, compliance.BriefRequest{
			CompanyID:     companyID,
			Language:      compliance.LanguageEnglish,
			WindowDays:    windowDays,
			ApproveCount:  resp.ApproveCount,
			OverrideCount: resp.OverrideCount,
			RollbackCount: resp.RollbackCount,
			OverrideRatio: resp.OverrideRatio,
			TopCategories: topNames,
		})
		resp.BriefProvider = brief.Provider
		resp.BriefUsedFallback = brief.UsedFallback
		resp.Brief = brief.Text
	}

	return resp, nil
}

// prepareAction runs the shared validation of APPROVE and OVERRIDE: actor
// and stage exist, run exists and is still CALCULATED.
func (s *service) prepareAction(ctx context.Context, repo Repository, companyID, runID, actorID, stageID string) (*MatrixStage, *RunRef, uuid.UUID, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return nil, nil, uuid.Nil, approvalerrors.ErrInvalidActorID
	}

	stage, err := repo.FindStageByID(ctx, companyID, stageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, uuid.Nil, approvalerrors.ErrStageNotFound
		}
		return nil, nil, uuid.Nil, err
	}

	run, err := s.findActionableRun(ctx, repo, companyID, runID)
	if err != nil {
		return nil, nil, uuid.Nil, err
	}
	return stage, run, actorUUID, nil
}

// findActionableRun reads the run under a row lock, so the ledger write that
// follows cannot interleave with a concurrent approval of the same run.
func (s *service) findActionableRun(ctx context.Context, repo Repository, companyID, runID string) (*RunRef, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return nil, approvalerrors.ErrInvalidRunID
	}
	run, err := repo.FindRunRefForUpdate(ctx, companyID, runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, approvalerrors.ErrRunNotFound
		}
		return nil, err
	}
	if run.Status != "CALCULATED" {
		return nil, approvalerrors.ErrRunNotActionable
	}
	return run, nil
}

func (s *service) invalidateReportCache(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	iter := s.rdb.Scan(ctx, 0, "approval:report:"+companyID+":*", 0).Iterator()
	for iter.Next(ctx) {
		s.rdb.Del(ctx, iter.Val())
	}
}

func rolledBackIDs(actions []Action) map[uuid.UUID]bool {
	voided := make(map[uuid.UUID]bool)
	for _, a := range actions {
		if a.ActionType == ActionRollback && a.RolledBackActionID != nil {
			voided[*a.RolledBackActionID] = true
		}
	}
	return voided
}

// foldStages replays the ledger against the matrix. An APPROVE or OVERRIDE
// only counts for its own stage; an override on a later stage never
// satisfies an earlier one.
func foldStages(stages []MatrixStage, actions []Action) []StageStatus {
	voided := rolledBackIDs(actions)

	statuses := make([]StageStatus, 0, len(stages))
	for _, stage := range stages {
		status := StageStatus{Stage: mapStage(stage)}
		for _, a := range actions {
			if a.StageID != stage.ID || voided[a.ID] {
				continue
			}
			if a.ActionType == ActionApprove || a.ActionType == ActionOverride {
				mapped := mapAction(a)
				status.Satisfied = true
				status.SatisfiedBy = &mapped
				break
			}
		}
		statuses = append(statuses, status)
	}
	return statuses
}

func mapStage(s MatrixStage) StageResponse {
	return StageResponse{
		ID:             s.ID.String(),
		StageOrder:     s.StageOrder,
		StageCode:      s.StageCode,
		ApproverRole:   s.ApproverRole,
		Mandatory:      s.Mandatory,
		AllowRollback:  s.AllowRollback,
		SlaHours:       s.SlaHours,
		EscalationRole: s.EscalationRole,
	}
}

func mapStages(stages []MatrixStage) []StageResponse {
	resp := make([]StageResponse, 0, len(stages))
	for _, s := range stages {
		resp = append(resp, mapStage(s))
	}
	return resp
}

func mapAction(a Action) ActionResponse {
	resp := ActionResponse{
		ID:                a.ID.String(),
		RunID:             a.RunID.String(),
		StageID:           a.StageID.String(),
		ActionType:        a.ActionType,
		ActorID:           a.ActorID.String(),
		ActorRole:         a.ActorRole,
		OverrideCategory:  a.OverrideCategory,
		OverrideReason:    a.OverrideReason,
		OverrideReference: a.OverrideReference,
		CreatedAt:         a.CreatedAt.Format(time.RFC3339),
	}
	if a.RolledBackActionID != nil {
		v := a.RolledBackActionID.String()
		resp.RolledBackActionID = &v
	}
	return resp
}
