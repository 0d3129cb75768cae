package export_test

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"go-rateb/internal/events"
	"go-rateb/internal/export"
	exporterrors "go-rateb/internal/export/errors"
	"go-rateb/internal/messaging/kafka"
	"go-rateb/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeExportRepository struct {
	withTxFn              func(tx *sql.Tx) export.Repository
	createArtifactFn      func(ctx context.Context, a *export.Artifact) error
	findArtifactByIDFn    func(ctx context.Context, companyID, id string) (*export.Artifact, error)
	findArtifactsByRunFn  func(ctx context.Context, companyID, runID string) ([]export.Artifact, error)
	claimArtifactFn       func(ctx context.Context, companyID, id string) (bool, error)
	completeArtifactFn    func(ctx context.Context, companyID, id, fileName, contentType string, fileBytes []byte) error
	failArtifactFn        func(ctx context.Context, companyID, id, errorMessage string) error
	reapStuckProcessingFn func(ctx context.Context, olderThan time.Time) (int64, error)
	findRunFn             func(ctx context.Context, companyID, runID string) (*export.RunRead, error)
	findPeriodFn          func(ctx context.Context, periodID string) (*export.PeriodRead, error)
	findLinesFn           func(ctx context.Context, companyID, runID string) ([]export.LineRead, error)
	findEmployeeGosiFn    func(ctx context.Context, companyID string, employeeIDs []string) ([]export.EmployeeGosiRead, error)
	findCompanyFn         func(ctx context.Context, companyID string) (*export.CompanyRead, error)
}

func (f *fakeExportRepository) WithTx(tx *sql.Tx) export.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeExportRepository) CreateArtifact(ctx context.Context, a *export.Artifact) error {
	if f.createArtifactFn != nil {
		return f.createArtifactFn(ctx, a)
	}
	return nil
}

func (f *fakeExportRepository) FindArtifactByID(ctx context.Context, companyID, id string) (*export.Artifact, error) {
	if f.findArtifactByIDFn != nil {
		return f.findArtifactByIDFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeExportRepository) FindArtifactsByRun(ctx context.Context, companyID, runID string) ([]export.Artifact, error) {
	if f.findArtifactsByRunFn != nil {
		return f.findArtifactsByRunFn(ctx, companyID, runID)
	}
	return nil, nil
}

func (f *fakeExportRepository) ClaimArtifact(ctx context.Context, companyID, id string) (bool, error) {
	if f.claimArtifactFn != nil {
		return f.claimArtifactFn(ctx, companyID, id)
	}
	return true, nil
}

func (f *fakeExportRepository) CompleteArtifact(ctx context.Context, companyID, id, fileName, contentType string, fileBytes []byte) error {
	if f.completeArtifactFn != nil {
		return f.completeArtifactFn(ctx, companyID, id, fileName, contentType, fileBytes)
	}
	return nil
}

func (f *fakeExportRepository) FailArtifact(ctx context.Context, companyID, id, errorMessage string) error {
	if f.failArtifactFn != nil {
		return f.failArtifactFn(ctx, companyID, id, errorMessage)
	}
	return nil
}

func (f *fakeExportRepository) ReapStuckProcessing(ctx context.Context, olderThan time.Time) (int64, error) {
	if f.reapStuckProcessingFn != nil {
		return f.reapStuckProcessingFn(ctx, olderThan)
	}
	return 0, nil
}

func (f *fakeExportRepository) FindRun(ctx context.Context, companyID, runID string) (*export.RunRead, error) {
	if f.findRunFn != nil {
		return f.findRunFn(ctx, companyID, runID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeExportRepository) FindPeriod(ctx context.Context, periodID string) (*export.PeriodRead, error) {
	if f.findPeriodFn != nil {
		return f.findPeriodFn(ctx, periodID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeExportRepository) FindLines(ctx context.Context, companyID, runID string) ([]export.LineRead, error) {
	if f.findLinesFn != nil {
		return f.findLinesFn(ctx, companyID, runID)
	}
	return nil, nil
}

func (f *fakeExportRepository) FindEmployeeGosi(ctx context.Context, companyID string, employeeIDs []string) ([]export.EmployeeGosiRead, error) {
	if f.findEmployeeGosiFn != nil {
		return f.findEmployeeGosiFn(ctx, companyID, employeeIDs)
	}
	return nil, nil
}

func (f *fakeExportRepository) FindCompany(ctx context.Context, companyID string) (*export.CompanyRead, error) {
	if f.findCompanyFn != nil {
		return f.findCompanyFn(ctx, companyID)
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeOutboxRepository struct {
	withTxFn func(tx *sql.Tx) kafka.OutboxRepository
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error {
	return nil
}

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type exportServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service export.Service
	repo    *fakeExportRepository
	outbox  *fakeOutboxRepository
}

func setupExportServiceTest(t *testing.T) *exportServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeExportRepository{}
	outbox := &fakeOutboxRepository{}
	svc := export.NewService(db, repo, outbox)

	return &exportServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo, outbox: outbox}
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

func fullCompany(companyID string) *export.CompanyRead {
	return &export.CompanyRead{
		ID:                 uuid.MustParse(companyID),
		Name:               "Najd Trading Co",
		BankName:           "Saudi National Bank",
		BankIban:           "SA0310000001234567891234",
		MolEstablishmentID: "MOL-1234567",
	}
}

func completeLine() export.LineRead {
	return export.LineRead{
		ID:                   uuid.New(),
		EmployeeID:           uuid.New(),
		EmployeeNumber:       "EMP-0001",
		EmployeeName:         "Ahmed Al-Qahtani",
		Nationality:          "SAUDI",
		BankName:             "Al Rajhi Bank",
		BankIban:             "SA4420000001234567891234",
		BasePay:              1200000,
		AllowanceTotal:       110000,
		OvertimePay:          50000,
		ManualDeduction:      5000,
		UnpaidLeaveDeduction: 80000,
		LoanDeduction:        50000,
		GosiEligible:         true,
		GosiBasicWage:        1000000,
		GosiHousingAllowance: 200000,
		GosiWageBase:         1200000,
		GosiEmployee:         117000,
		GosiEmployer:         141000,
		NetPay:               1108000,
	}
}

func TestExportService_Enqueue(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	runID := uuid.New().String()

	approvedRun := &export.RunRead{
		ID:        uuid.MustParse(runID),
		CompanyID: uuid.MustParse(companyID),
		PeriodID:  uuid.New(),
		Status:    "APPROVED",
	}

	t.Run("queues artifact and outbox event", func(t *testing.T) {
		deps := setupExportServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.findRunFn = func(ctx context.Context, cid, rid string) (*export.RunRead, error) {
			return approvedRun, nil
		}
		deps.repo.findLinesFn = func(ctx context.Context, cid, rid string) ([]export.LineRead, error) {
			return []export.LineRead{completeLine()}, nil
		}
		deps.repo.findCompanyFn = func(ctx context.Context, cid string) (*export.CompanyRead, error) {
			return fullCompany(companyID), nil
		}

		var published kafka.OutboxEvent
		deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
			published = event
			return nil
		}

		resp, err := deps.service.Enqueue(ctx, companyID, actorID, export.EnqueueExportRequest{
			RunID: runID,
			Kind:  export.KindWpsCSV,
		})

		assert.NoError(t, err)
		assert.Equal(t, export.StatusPending, resp.Status)
		assert.Equal(t, export.KindWpsCSV, resp.Kind)
		assert.Equal(t, events.ExportRequestedTopic, published.Topic)
		assert.Equal(t, resp.ID, published.AggregateID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("wps rejected on draft run", func(t *testing.T) {
		deps := setupExportServiceTest(t)
		defer deps.db.Close()

		deps.repo.findRunFn = func(ctx context.Context, cid, rid string) (*export.RunRead, error) {
			return &export.RunRead{ID: approvedRun.ID, CompanyID: approvedRun.CompanyID, Status: "CALCULATED"}, nil
		}

		_, err := deps.service.Enqueue(ctx, companyID, actorID, export.EnqueueExportRequest{
			RunID: runID,
			Kind:  export.KindWpsCSV,
		})

		assert.ErrorIs(t, err, exporterrors.ErrRunNotExportable)
	})

	t.Run("register allowed on calculated run", func(t *testing.T) {
		deps := setupExportServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.findRunFn = func(ctx context.Context, cid, rid string) (*export.RunRead, error) {
			return &export.RunRead{ID: approvedRun.ID, CompanyID: approvedRun.CompanyID, Status: "CALCULATED"}, nil
		}
		deps.repo.findLinesFn = func(ctx context.Context, cid, rid string) ([]export.LineRead, error) {
			return []export.LineRead{completeLine()}, nil
		}

		_, err := deps.service.Enqueue(ctx, companyID, actorID, export.EnqueueExportRequest{
			RunID: runID,
			Kind:  export.KindRegisterCSV,
		})

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("register rejected on draft run", func(t *testing.T) {
		deps := setupExportServiceTest(t)
		defer deps.db.Close()

		deps.repo.findRunFn = func(ctx context.Context, cid, rid string) (*export.RunRead, error) {
			return &export.RunRead{ID: approvedRun.ID, CompanyID: approvedRun.CompanyID, Status: "DRAFT"}, nil
		}

		_, err := deps.service.Enqueue(ctx, companyID, actorID, export.EnqueueExportRequest{
			RunID: runID,
			Kind:  export.KindRegisterCSV,
		})

		assert.ErrorIs(t, err, exporterrors.ErrRunNotCalculated)
	})

	t.Run("unknown kind", func(t *testing.T) {
		deps := setupExportServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Enqueue(ctx, companyID, actorID, export.EnqueueExportRequest{
			RunID: runID,
			Kind:  "XLSX",
		})

		assert.ErrorIs(t, err, exporterrors.ErrInvalidKind)
	})

	t.Run("run without lines", func(t *testing.T) {
		deps := setupExportServiceTest(t)
		defer deps.db.Close()

		deps.repo.findRunFn = func(ctx context.Context, cid, rid string) (*export.RunRead, error) {
			return approvedRun, nil
		}

		_, err := deps.service.Enqueue(ctx, companyID, actorID, export.EnqueueExportRequest{
			RunID: runID,
			Kind:  export.KindWpsCSV,
		})

		assert.ErrorIs(t, err, exporterrors.ErrRunHasNoLines)
	})
}

func TestExportService_Enqueue_WpsValidation(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	runID := uuid.New().String()

	deps := setupExportServiceTest(t)
	defer deps.db.Close()

	deps.repo.findRunFn = func(ctx context.Context, cid, rid string) (*export.RunRead, error) {
		return &export.RunRead{ID: uuid.MustParse(runID), CompanyID: uuid.MustParse(companyID), Status: "APPROVED"}, nil
	}

	line := completeLine()
	line.BankIban = ""
	deps.repo.findLinesFn = func(ctx context.Context, cid, rid string) ([]export.LineRead, error) {
		return []export.LineRead{line}, nil
	}
	deps.repo.findCompanyFn = func(ctx context.Context, cid string) (*export.CompanyRead, error) {
		c := fullCompany(companyID)
		c.MolEstablishmentID = ""
		return c, nil
	}

	_, err := deps.service.Enqueue(ctx, companyID, actorID, export.EnqueueExportRequest{
		RunID: runID,
		Kind:  export.KindWpsCSV,
	})

	assert.ErrorIs(t, err, exporterrors.ErrWpsValidationFailed)

	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	gaps, ok := appErr.Details.([]string)
	assert.True(t, ok)
	assert.Len(t, gaps, 2)
	assert.Contains(t, gaps[0], "MOL establishment id")
	assert.Contains(t, gaps[1], "EMP-0001")
}

func TestExportService_Enqueue_GosiValidation(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	runID := uuid.New().String()

	deps := setupExportServiceTest(t)
	defer deps.db.Close()

	deps.repo.findRunFn = func(ctx context.Context, cid, rid string) (*export.RunRead, error) {
		return &export.RunRead{ID: uuid.MustParse(runID), CompanyID: uuid.MustParse(companyID), Status: "LOCKED"}, nil
	}

	line := completeLine()
	deps.repo.findLinesFn = func(ctx context.Context, cid, rid string) ([]export.LineRead, error) {
		return []export.LineRead{line}, nil
	}
	deps.repo.findEmployeeGosiFn = func(ctx context.Context, cid string, ids []string) ([]export.EmployeeGosiRead, error) {
		return []export.EmployeeGosiRead{{
			ID:                   line.EmployeeID,
			EmployeeNumber:       line.EmployeeNumber,
			GosiBasicWage:        line.GosiBasicWage + 100000, // raised since calculation
			GosiHousingAllowance: line.GosiHousingAllowance,
		}}, nil
	}

	_, err := deps.service.Enqueue(ctx, companyID, actorID, export.EnqueueExportRequest{
		RunID: runID,
		Kind:  export.KindGosiCSV,
	})

	assert.ErrorIs(t, err, exporterrors.ErrGosiValidationFailed)
}

func TestExportService_Generate(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	artifact := &export.Artifact{
		ID:        uuid.New(),
		CompanyID: uuid.MustParse(companyID),
		RunID:     uuid.New(),
		Kind:      export.KindWpsCSV,
		Status:    export.StatusPending,
	}

	t.Run("builds and completes wps csv", func(t *testing.T) {
		deps := setupExportServiceTest(t)
		defer deps.db.Close()

		deps.repo.findArtifactByIDFn = func(ctx context.Context, cid, id string) (*export.Artifact, error) {
			return artifact, nil
		}
		deps.repo.findRunFn = func(ctx context.Context, cid, rid string) (*export.RunRead, error) {
			return &export.RunRead{ID: artifact.RunID, CompanyID: artifact.CompanyID, PeriodID: uuid.New(), Status: "APPROVED"}, nil
		}
		deps.repo.findPeriodFn = func(ctx context.Context, pid string) (*export.PeriodRead, error) {
			return &export.PeriodRead{ID: uuid.MustParse(pid), Year: 2025, Month: 8}, nil
		}
		line := completeLine()
		deps.repo.findLinesFn = func(ctx context.Context, cid, rid string) ([]export.LineRead, error) {
			return []export.LineRead{line}, nil
		}
		deps.repo.findCompanyFn = func(ctx context.Context, cid string) (*export.CompanyRead, error) {
			return fullCompany(companyID), nil
		}

		var gotName, gotType string
		var gotBytes []byte
		deps.repo.completeArtifactFn = func(ctx context.Context, cid, id, fileName, contentType string, fileBytes []byte) error {
			gotName, gotType, gotBytes = fileName, contentType, fileBytes
			return nil
		}

		err := deps.service.Generate(ctx, companyID, artifact.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, "wps_2025_08.csv", gotName)
		assert.Equal(t, "text/csv", gotType)

		records, err := csv.NewReader(strings.NewReader(string(gotBytes))).ReadAll()
		assert.NoError(t, err)
		assert.Len(t, records, 2)
		assert.Equal(t, "mol_establishment_id", records[0][0])
		assert.Equal(t, "MOL-1234567", records[1][0])
		assert.Equal(t, "EMP-0001", records[1][3])
		// net pay in riyals with two decimals
		assert.Equal(t, "11080.00", records[1][10])
	})

	t.Run("lost claim is a no-op", func(t *testing.T) {
		deps := setupExportServiceTest(t)
		defer deps.db.Close()

		deps.repo.claimArtifactFn = func(ctx context.Context, cid, id string) (bool, error) {
			return false, nil
		}
		deps.repo.findArtifactByIDFn = func(ctx context.Context, cid, id string) (*export.Artifact, error) {
			t.Fatal("artifact should not be loaded after a lost claim")
			return nil, nil
		}

		err := deps.service.Generate(ctx, companyID, artifact.ID.String())
		assert.NoError(t, err)
	})

	t.Run("build failure marks artifact failed", func(t *testing.T) {
		deps := setupExportServiceTest(t)
		defer deps.db.Close()

		deps.repo.findArtifactByIDFn = func(ctx context.Context, cid, id string) (*export.Artifact, error) {
			return artifact, nil
		}
		deps.repo.findRunFn = func(ctx context.Context, cid, rid string) (*export.RunRead, error) {
			return &export.RunRead{ID: artifact.RunID, CompanyID: artifact.CompanyID, PeriodID: uuid.New(), Status: "APPROVED"}, nil
		}
		deps.repo.findPeriodFn = func(ctx context.Context, pid string) (*export.PeriodRead, error) {
			return nil, errors.New("period table unavailable")
		}

		failed := false
		deps.repo.failArtifactFn = func(ctx context.Context, cid, id, msg string) error {
			failed = true
			assert.Contains(t, msg, "period table unavailable")
			return nil
		}

		err := deps.service.Generate(ctx, companyID, artifact.ID.String())

		assert.Error(t, err)
		assert.True(t, failed)
	})
}

func TestExportService_Retry(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	failedMsg := "export generation timed out"
	failed := &export.Artifact{
		ID:           uuid.New(),
		CompanyID:    uuid.MustParse(companyID),
		RunID:        uuid.New(),
		Kind:         export.KindRegisterCSV,
		Status:       export.StatusFailed,
		ErrorMessage: &failedMsg,
	}

	t.Run("failed artifact re-enqueues", func(t *testing.T) {
		deps := setupExportServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.findArtifactByIDFn = func(ctx context.Context, cid, id string) (*export.Artifact, error) {
			return failed, nil
		}
		deps.repo.findRunFn = func(ctx context.Context, cid, rid string) (*export.RunRead, error) {
			return &export.RunRead{ID: failed.RunID, CompanyID: failed.CompanyID, Status: "CALCULATED"}, nil
		}
		deps.repo.findLinesFn = func(ctx context.Context, cid, rid string) ([]export.LineRead, error) {
			return []export.LineRead{completeLine()}, nil
		}

		resp, err := deps.service.Retry(ctx, companyID, actorID, failed.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, export.StatusPending, resp.Status)
		assert.NotEqual(t, failed.ID.String(), resp.ID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("pending artifact not retryable", func(t *testing.T) {
		deps := setupExportServiceTest(t)
		defer deps.db.Close()

		deps.repo.findArtifactByIDFn = func(ctx context.Context, cid, id string) (*export.Artifact, error) {
			return &export.Artifact{ID: failed.ID, RunID: failed.RunID, Status: export.StatusPending}, nil
		}

		_, err := deps.service.Retry(ctx, companyID, actorID, failed.ID.String())

		assert.ErrorIs(t, err, exporterrors.ErrArtifactNotRetryable)
	})
}

func TestExportService_Download(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("completed artifact downloads", func(t *testing.T) {
		deps := setupExportServiceTest(t)
		defer deps.db.Close()

		deps.repo.findArtifactByIDFn = func(ctx context.Context, cid, id string) (*export.Artifact, error) {
			return &export.Artifact{
				ID:          uuid.MustParse(id),
				Status:      export.StatusCompleted,
				FileName:    "register_2025_08.csv",
				ContentType: "text/csv",
				FileBytes:   []byte("year,month\n"),
			}, nil
		}

		name, contentType, data, err := deps.service.Download(ctx, companyID, uuid.New().String())

		assert.NoError(t, err)
		assert.Equal(t, "register_2025_08.csv", name)
		assert.Equal(t, "text/csv", contentType)
		assert.NotEmpty(t, data)
	})

	t.Run("processing artifact not ready", func(t *testing.T) {
		deps := setupExportServiceTest(t)
		defer deps.db.Close()

		deps.repo.findArtifactByIDFn = func(ctx context.Context, cid, id string) (*export.Artifact, error) {
			return &export.Artifact{ID: uuid.MustParse(id), Status: export.StatusProcessing}, nil
		}

		_, _, _, err := deps.service.Download(ctx, companyID, uuid.New().String())

		assert.ErrorIs(t, err, exporterrors.ErrArtifactNotReady)
	})
}

func TestExportService_ReapStuck(t *testing.T) {
	ctx := context.Background()

	deps := setupExportServiceTest(t)
	defer deps.db.Close()

	deps.repo.reapStuckProcessingFn = func(ctx context.Context, olderThan time.Time) (int64, error) {
		assert.True(t, olderThan.Before(time.Now().UTC()))
		return 2, nil
	}

	reaped, err := deps.service.ReapStuck(ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), reaped)
}
