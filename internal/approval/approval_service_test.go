package approval_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-rateb/internal/approval"
	approvalerrors "go-rateb/internal/approval/errors"
	"go-rateb/internal/compliance"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeApprovalRepository struct {
	withTxFn              func(tx *sql.Tx) approval.Repository
	replaceStagesFn       func(ctx context.Context, companyID string, stages []approval.MatrixStage) error
	findStagesFn          func(ctx context.Context, companyID string) ([]approval.MatrixStage, error)
	findStageByIDFn       func(ctx context.Context, companyID, id string) (*approval.MatrixStage, error)
	createActionFn        func(ctx context.Context, a *approval.Action) error
	findActionByIDFn      func(ctx context.Context, companyID, id string) (*approval.Action, error)
	findActionsForRunFn   func(ctx context.Context, companyID, runID string) ([]approval.Action, error)
	findActionsSinceFn    func(ctx context.Context, companyID string, since time.Time) ([]approval.Action, error)
	findRunRefFn          func(ctx context.Context, companyID, runID string) (*approval.RunRef, error)
	findRunRefForUpdateFn func(ctx context.Context, companyID, runID string) (*approval.RunRef, error)
}

func (f *fakeApprovalRepository) WithTx(tx *sql.Tx) approval.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeApprovalRepository) ReplaceStages(ctx context.Context, companyID string, stages []approval.MatrixStage) error {
	if f.replaceStagesFn != nil {
		return f.replaceStagesFn(ctx, companyID, stages)
	}
	return nil
}

func (f *fakeApprovalRepository) FindStages(ctx context.Context, companyID string) ([]approval.MatrixStage, error) {
	if f.findStagesFn != nil {
		return f.findStagesFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeApprovalRepository) FindStageByID(ctx context.Context, companyID, id string) (*approval.MatrixStage, error) {
	if f.findStageByIDFn != nil {
		return f.findStageByIDFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeApprovalRepository) CreateAction(ctx context.Context, a *approval.Action) error {
	if f.createActionFn != nil {
		return f.createActionFn(ctx, a)
	}
	return nil
}

func (f *fakeApprovalRepository) FindActionByID(ctx context.Context, companyID, id string) (*approval.Action, error) {
	if f.findActionByIDFn != nil {
		return f.findActionByIDFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeApprovalRepository) FindActionsForRun(ctx context.Context, companyID, runID string) ([]approval.Action, error) {
	if f.findActionsForRunFn != nil {
		return f.findActionsForRunFn(ctx, companyID, runID)
	}
	return nil, nil
}

func (f *fakeApprovalRepository) FindActionsSince(ctx context.Context, companyID string, since time.Time) ([]approval.Action, error) {
	if f.findActionsSinceFn != nil {
		return f.findActionsSinceFn(ctx, companyID, since)
	}
	return nil, nil
}

func (f *fakeApprovalRepository) FindRunRef(ctx context.Context, companyID, runID string) (*approval.RunRef, error) {
	if f.findRunRefFn != nil {
		return f.findRunRefFn(ctx, companyID, runID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeApprovalRepository) FindRunRefForUpdate(ctx context.Context, companyID, runID string) (*approval.RunRef, error) {
	if f.findRunRefForUpdateFn != nil {
		return f.findRunRefForUpdateFn(ctx, companyID, runID)
	}
	return f.FindRunRef(ctx, companyID, runID)
}

type fakeCounterRepository struct {
	getNextValueFn func(ctx context.Context, companyID string, counterType string) (int64, error)
}

func (f *fakeCounterRepository) GetNextValue(ctx context.Context, companyID string, counterType string) (int64, error) {
	if f.getNextValueFn != nil {
		return f.getNextValueFn(ctx, companyID, counterType)
	}
	return 1, nil
}

type approvalServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service approval.Service
	repo    *fakeApprovalRepository
	counter *fakeCounterRepository
}

func setupApprovalServiceTest(t *testing.T) *approvalServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := &fakeApprovalRepository{}
	counterRepo := &fakeCounterRepository{}
	svc := approval.NewService(db, repo, counterRepo, compliance.NewService(nil), nil)

	return &approvalServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		counter: counterRepo,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func calculatedRunRef(companyID string) *approval.RunRef {
	return &approval.RunRef{
		ID:        uuid.New(),
		CompanyID: uuid.MustParse(companyID),
		Status:    "CALCULATED",
	}
}

func stageFor(companyID string, order int, role string, mandatory bool) approval.MatrixStage {
	return approval.MatrixStage{
		ID:           uuid.New(),
		CompanyID:    uuid.MustParse(companyID),
		StageOrder:   order,
		StageCode:    "STAGE_" + role,
		ApproverRole: role,
		Mandatory:    mandatory,
		SlaHours:     24,
	}
}

func TestApprovalService_ConfigureMatrix(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("defaults sla and persists", func(t *testing.T) {
		deps := setupApprovalServiceTest(t)

		var saved []approval.MatrixStage
		deps.repo.replaceStagesFn = func(ctx context.Context, cid string, stages []approval.MatrixStage) error {
			saved = stages
			return nil
		}

		resp, err := deps.service.ConfigureMatrix(ctx, companyID, approval.ConfigureMatrixRequest{
			Stages: []approval.MatrixStageInput{
				{StageOrder: 1, StageCode: "HR_REVIEW", ApproverRole: "HR_MANAGER", Mandatory: true},
				{StageOrder: 2, StageCode: "FINANCE_SIGNOFF", ApproverRole: "FINANCE_MANAGER", Mandatory: true, SlaHours: 48},
			},
		})

		assert.NoError(t, err)
		assert.Len(t, saved, 2)
		assert.Equal(t, 24, saved[0].SlaHours)
		assert.Equal(t, 48, saved[1].SlaHours)
		assert.Len(t, resp, 2)
	})

	t.Run("duplicate stage order rejected", func(t *testing.T) {
		deps := setupApprovalServiceTest(t)

		_, err := deps.service.ConfigureMatrix(ctx, companyID, approval.ConfigureMatrixRequest{
			Stages: []approval.MatrixStageInput{
				{StageOrder: 1, StageCode: "HR_REVIEW", ApproverRole: "HR_MANAGER"},
				{StageOrder: 1, StageCode: "FINANCE_SIGNOFF", ApproverRole: "FINANCE_MANAGER"},
			},
		})

		assert.ErrorIs(t, err, approvalerrors.ErrDuplicateStageOrder)
	})
}

func TestApprovalService_RecordApprove(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	stage := stageFor(companyID, 1, "HR_MANAGER", true)
	run := calculatedRunRef(companyID)

	t.Run("appends approve inside a transaction", func(t *testing.T) {
		deps := setupApprovalServiceTest(t)

		expectTx(t, deps.sqlMock, true)

		deps.repo.withTxFn = func(tx *sql.Tx) approval.Repository {
			assert.NotNil(t, tx)
			return deps.repo
		}
		deps.repo.findStageByIDFn = func(ctx context.Context, cid, id string) (*approval.MatrixStage, error) {
			return &stage, nil
		}
		deps.repo.findRunRefFn = func(ctx context.Context, cid, runID string) (*approval.RunRef, error) {
			return run, nil
		}

		var created *approval.Action
		deps.repo.createActionFn = func(ctx context.Context, a *approval.Action) error {
			created = a
			return nil
		}

		resp, err := deps.service.RecordApprove(ctx, companyID, run.ID.String(), actorID, "HR_MANAGER",
			approval.ApproveStageRequest{StageID: stage.ID.String()})

		assert.NoError(t, err)
		assert.Equal(t, approval.ActionApprove, resp.ActionType)
		assert.Equal(t, stage.ID, created.StageID)
		assert.Equal(t, run.ID, created.RunID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("role mismatch", func(t *testing.T) {
		deps := setupApprovalServiceTest(t)

		expectTx(t, deps.sqlMock, false)

		deps.repo.findStageByIDFn = func(ctx context.Context, cid, id string) (*approval.MatrixStage, error) {
			return &stage, nil
		}
		deps.repo.findRunRefFn = func(ctx context.Context, cid, runID string) (*approval.RunRef, error) {
			return run, nil
		}

		_, err := deps.service.RecordApprove(ctx, companyID, run.ID.String(), actorID, "EMPLOYEE",
			approval.ApproveStageRequest{StageID: stage.ID.String()})

		assert.ErrorIs(t, err, approvalerrors.ErrRoleMismatch)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("run no longer actionable", func(t *testing.T) {
		deps := setupApprovalServiceTest(t)

		expectTx(t, deps.sqlMock, false)

		deps.repo.findStageByIDFn = func(ctx context.Context, cid, id string) (*approval.MatrixStage, error) {
			return &stage, nil
		}
		deps.repo.findRunRefFn = func(ctx context.Context, cid, runID string) (*approval.RunRef, error) {
			return &approval.RunRef{ID: run.ID, CompanyID: run.CompanyID, Status: "APPROVED"}, nil
		}

		_, err := deps.service.RecordApprove(ctx, companyID, run.ID.String(), actorID, "HR_MANAGER",
			approval.ApproveStageRequest{StageID: stage.ID.String()})

		assert.ErrorIs(t, err, approvalerrors.ErrRunNotActionable)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestApprovalService_RecordOverride(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	stage := stageFor(companyID, 1, "HR_MANAGER", true)
	run := calculatedRunRef(companyID)

	setup := func(t *testing.T) *approvalServiceDeps {
		deps := setupApprovalServiceTest(t)
		deps.repo.findStageByIDFn = func(ctx context.Context, cid, id string) (*approval.MatrixStage, error) {
			return &stage, nil
		}
		deps.repo.findRunRefFn = func(ctx context.Context, cid, runID string) (*approval.RunRef, error) {
			return run, nil
		}
		return deps
	}

	t.Run("mints reference when absent", func(t *testing.T) {
		deps := setup(t)

		expectTx(t, deps.sqlMock, true)

		deps.counter.getNextValueFn = func(ctx context.Context, cid, counterType string) (int64, error) {
			assert.Equal(t, "override_reference", counterType)
			return 42, nil
		}

		before := time.Now().UTC().Format("200601")
		resp, err := deps.service.RecordOverride(ctx, companyID, run.ID.String(), actorID, "CFO",
			approval.OverrideStageRequest{
				StageID:  stage.ID.String(),
				Category: "DATA_CORRECTION",
				Reason:   "employee bank details corrected after statement review",
			})
		after := time.Now().UTC().Format("200601")

		assert.NoError(t, err)
		assert.NotNil(t, resp.OverrideReference)
		assert.True(t, approval.ValidOverrideReference(*resp.OverrideReference))
		// OVR-YYYYMM-0042; allow the clock crossing a month boundary mid-test.
		assert.Regexp(t, `-0042$`, *resp.OverrideReference)
		yearMonth := (*resp.OverrideReference)[4:10]
		assert.Contains(t, []string{before, after}, yearMonth)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("keeps supplied reference", func(t *testing.T) {
		deps := setup(t)

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.RecordOverride(ctx, companyID, run.ID.String(), actorID, "CFO",
			approval.OverrideStageRequest{
				StageID:     stage.ID.String(),
				Category:    "POLICY_EXCEPTION",
				Reason:      "board approved exception for the closing period",
				ReferenceID: "OVR-202508-0007",
			})

		assert.NoError(t, err)
		assert.Equal(t, "OVR-202508-0007", *resp.OverrideReference)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid category", func(t *testing.T) {
		deps := setup(t)

		_, err := deps.service.RecordOverride(ctx, companyID, run.ID.String(), actorID, "CFO",
			approval.OverrideStageRequest{
				StageID:  stage.ID.String(),
				Category: "NOT_A_CATEGORY",
				Reason:   "some long enough reason text",
			})

		assert.ErrorIs(t, err, approvalerrors.ErrInvalidOverrideCategory)
	})

	t.Run("invalid reference", func(t *testing.T) {
		deps := setup(t)

		_, err := deps.service.RecordOverride(ctx, companyID, run.ID.String(), actorID, "CFO",
			approval.OverrideStageRequest{
				StageID:     stage.ID.String(),
				Category:    "OTHER",
				Reason:      "some long enough reason text",
				ReferenceID: "TICKET-1234",
			})

		assert.ErrorIs(t, err, approvalerrors.ErrInvalidOverrideReference)
	})
}

func TestApprovalService_RecordRollback(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	run := calculatedRunRef(companyID)

	stage := stageFor(companyID, 1, "HR_MANAGER", true)
	stage.AllowRollback = true

	target := approval.Action{
		ID:         uuid.New(),
		CompanyID:  uuid.MustParse(companyID),
		RunID:      run.ID,
		StageID:    stage.ID,
		ActionType: approval.ActionApprove,
		ActorID:    uuid.New(),
		ActorRole:  "HR_MANAGER",
	}

	setup := func(t *testing.T) *approvalServiceDeps {
		deps := setupApprovalServiceTest(t)
		deps.repo.findActionByIDFn = func(ctx context.Context, cid, id string) (*approval.Action, error) {
			return &target, nil
		}
		deps.repo.findStageByIDFn = func(ctx context.Context, cid, id string) (*approval.MatrixStage, error) {
			return &stage, nil
		}
		deps.repo.findRunRefFn = func(ctx context.Context, cid, runID string) (*approval.RunRef, error) {
			return run, nil
		}
		deps.repo.findActionsForRunFn = func(ctx context.Context, cid, runID string) ([]approval.Action, error) {
			return []approval.Action{target}, nil
		}
		return deps
	}

	t.Run("voids the target", func(t *testing.T) {
		deps := setup(t)

		expectTx(t, deps.sqlMock, true)

		var created *approval.Action
		deps.repo.createActionFn = func(ctx context.Context, a *approval.Action) error {
			created = a
			return nil
		}

		resp, err := deps.service.RecordRollback(ctx, companyID, run.ID.String(), actorID, "HR_MANAGER",
			approval.RollbackRequest{ActionID: target.ID.String(), Reason: "entered against the wrong employee"})

		assert.NoError(t, err)
		assert.Equal(t, approval.ActionRollback, resp.ActionType)
		assert.Equal(t, target.ID, *created.RolledBackActionID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("stage forbids rollback", func(t *testing.T) {
		deps := setup(t)
		expectTx(t, deps.sqlMock, false)
		locked := stage
		locked.AllowRollback = false
		deps.repo.findStageByIDFn = func(ctx context.Context, cid, id string) (*approval.MatrixStage, error) {
			return &locked, nil
		}

		_, err := deps.service.RecordRollback(ctx, companyID, run.ID.String(), actorID, "HR_MANAGER",
			approval.RollbackRequest{ActionID: target.ID.String()})

		assert.ErrorIs(t, err, approvalerrors.ErrRollbackNotAllowed)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("already rolled back", func(t *testing.T) {
		deps := setup(t)
		expectTx(t, deps.sqlMock, false)
		targetID := target.ID
		deps.repo.findActionsForRunFn = func(ctx context.Context, cid, runID string) ([]approval.Action, error) {
			return []approval.Action{
				target,
				{ID: uuid.New(), RunID: run.ID, StageID: stage.ID, ActionType: approval.ActionRollback, RolledBackActionID: &targetID},
			}, nil
		}

		_, err := deps.service.RecordRollback(ctx, companyID, run.ID.String(), actorID, "HR_MANAGER",
			approval.RollbackRequest{ActionID: target.ID.String()})

		assert.ErrorIs(t, err, approvalerrors.ErrActionAlreadyRolledBack)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("cannot rollback a rollback", func(t *testing.T) {
		deps := setup(t)
		expectTx(t, deps.sqlMock, false)
		rollback := target
		rollback.ActionType = approval.ActionRollback
		deps.repo.findActionByIDFn = func(ctx context.Context, cid, id string) (*approval.Action, error) {
			return &rollback, nil
		}

		_, err := deps.service.RecordRollback(ctx, companyID, run.ID.String(), actorID, "HR_MANAGER",
			approval.RollbackRequest{ActionID: rollback.ID.String()})

		assert.ErrorIs(t, err, approvalerrors.ErrRollbackTargetType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("target from another run", func(t *testing.T) {
		deps := setup(t)
		expectTx(t, deps.sqlMock, false)
		foreign := target
		foreign.RunID = uuid.New()
		deps.repo.findActionByIDFn = func(ctx context.Context, cid, id string) (*approval.Action, error) {
			return &foreign, nil
		}

		_, err := deps.service.RecordRollback(ctx, companyID, run.ID.String(), actorID, "HR_MANAGER",
			approval.RollbackRequest{ActionID: foreign.ID.String()})

		assert.ErrorIs(t, err, approvalerrors.ErrActionNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestApprovalService_IsRunApprovable(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	runID := uuid.New().String()

	hrStage := stageFor(companyID, 1, "HR_MANAGER", true)
	finStage := stageFor(companyID, 2, "FINANCE_MANAGER", true)
	optional := stageFor(companyID, 3, "CEO", false)

	approveOn := func(stage approval.MatrixStage) approval.Action {
		return approval.Action{
			ID:         uuid.New(),
			RunID:      uuid.MustParse(runID),
			StageID:    stage.ID,
			ActionType: approval.ActionApprove,
			ActorID:    uuid.New(),
			ActorRole:  stage.ApproverRole,
		}
	}

	t.Run("all mandatory stages satisfied", func(t *testing.T) {
		deps := setupApprovalServiceTest(t)
		deps.repo.findStagesFn = func(ctx context.Context, cid string) ([]approval.MatrixStage, error) {
			return []approval.MatrixStage{hrStage, finStage, optional}, nil
		}
		deps.repo.findActionsForRunFn = func(ctx context.Context, cid, rid string) ([]approval.Action, error) {
			return []approval.Action{approveOn(hrStage), approveOn(finStage)}, nil
		}

		ok, err := deps.service.IsRunApprovable(ctx, nil, companyID, runID)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("missing mandatory stage blocks", func(t *testing.T) {
		deps := setupApprovalServiceTest(t)
		deps.repo.findStagesFn = func(ctx context.Context, cid string) ([]approval.MatrixStage, error) {
			return []approval.MatrixStage{hrStage, finStage}, nil
		}
		deps.repo.findActionsForRunFn = func(ctx context.Context, cid, rid string) ([]approval.Action, error) {
			return []approval.Action{approveOn(hrStage)}, nil
		}

		ok, err := deps.service.IsRunApprovable(ctx, nil, companyID, runID)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("override only satisfies its own stage", func(t *testing.T) {
		deps := setupApprovalServiceTest(t)
		deps.repo.findStagesFn = func(ctx context.Context, cid string) ([]approval.MatrixStage, error) {
			return []approval.MatrixStage{hrStage, finStage}, nil
		}
		override := approveOn(finStage)
		override.ActionType = approval.ActionOverride
		deps.repo.findActionsForRunFn = func(ctx context.Context, cid, rid string) ([]approval.Action, error) {
			return []approval.Action{override}, nil
		}

		ok, err := deps.service.IsRunApprovable(ctx, nil, companyID, runID)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("rollback voids the approval", func(t *testing.T) {
		deps := setupApprovalServiceTest(t)
		deps.repo.findStagesFn = func(ctx context.Context, cid string) ([]approval.MatrixStage, error) {
			return []approval.MatrixStage{hrStage}, nil
		}
		approve := approveOn(hrStage)
		approveID := approve.ID
		deps.repo.findActionsForRunFn = func(ctx context.Context, cid, rid string) ([]approval.Action, error) {
			return []approval.Action{
				approve,
				{ID: uuid.New(), RunID: approve.RunID, StageID: hrStage.ID, ActionType: approval.ActionRollback, RolledBackActionID: &approveID},
			}, nil
		}

		ok, err := deps.service.IsRunApprovable(ctx, nil, companyID, runID)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("no mandatory stages means no gate", func(t *testing.T) {
		deps := setupApprovalServiceTest(t)
		deps.repo.findStagesFn = func(ctx context.Context, cid string) ([]approval.MatrixStage, error) {
			return []approval.MatrixStage{optional}, nil
		}

		ok, err := deps.service.IsRunApprovable(ctx, nil, companyID, runID)
		assert.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestApprovalService_GovernanceReport(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	deps := setupApprovalServiceTest(t)

	dataCorrection := "DATA_CORRECTION"
	timing := "TIMING_ADJUSTMENT"
	ref := "OVR-202508-0001"
	deps.repo.findActionsSinceFn = func(ctx context.Context, cid string, since time.Time) ([]approval.Action, error) {
		return []approval.Action{
			{ID: uuid.New(), ActionType: approval.ActionApprove},
			{ID: uuid.New(), ActionType: approval.ActionApprove},
			{ID: uuid.New(), ActionType: approval.ActionApprove},
			{ID: uuid.New(), ActionType: approval.ActionOverride, OverrideCategory: &dataCorrection, OverrideReference: &ref},
			{ID: uuid.New(), ActionType: approval.ActionOverride, OverrideCategory: &dataCorrection},
			{ID: uuid.New(), ActionType: approval.ActionOverride, OverrideCategory: &timing},
			{ID: uuid.New(), ActionType: approval.ActionRollback},
		}, nil
	}

	resp, err := deps.service.GovernanceReport(ctx, companyID, 30)

	assert.NoError(t, err)
	assert.Equal(t, 30, resp.WindowDays)
	assert.Equal(t, 3, resp.ApproveCount)
	assert.Equal(t, 3, resp.OverrideCount)
	assert.Equal(t, 1, resp.RollbackCount)
	assert.InDelta(t, 0.5, resp.OverrideRatio, 1e-9)
	assert.InDelta(t, 1.0/3.0, resp.ReferenceCoverage, 1e-9)

	assert.Len(t, resp.TopCategories, 2)
	assert.Equal(t, "DATA_CORRECTION", resp.TopCategories[0].Category)
	assert.Equal(t, 2, resp.TopCategories[0].Count)

	assert.True(t, resp.BriefUsedFallback)
	assert.Equal(t, "fallback", resp.BriefProvider)
	assert.Contains(t, resp.Brief, "DATA_CORRECTION")
}
