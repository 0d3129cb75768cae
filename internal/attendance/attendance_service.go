package attendance

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"go-rateb/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Overtime above this per-day ceiling is almost always a data-entry mistake.
var maxDailyOvertimeHours = decimal.NewFromInt(12)

var (
	errInvalidWorkDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid work_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	errInvalidOvertimeHours = apperror.New(
		apperror.CodeInvalidInput,
		"overtime_hours must be a non-negative decimal, at most 12",
		http.StatusBadRequest,
	)
	errRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"work record not found",
		http.StatusNotFound,
	)
	errAlreadyApproved = apperror.New(
		apperror.CodeInvalidState,
		"work record is already approved",
		http.StatusConflict,
	)
	errApprovedImmutable = apperror.New(
		apperror.CodeInvalidState,
		"approved work record cannot be modified",
		http.StatusConflict,
	)
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	Record(ctx context.Context, companyID string, req RecordWorkDayRequest) (WorkRecordResponse, error)
	Approve(ctx context.Context, companyID, id string) (WorkRecordResponse, error)
	GetForEmployee(ctx context.Context, companyID, employeeID, from, to string) ([]WorkRecordResponse, error)
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

// Record upserts the work day: a second submission for the same employee and
// date replaces the pending record instead of failing.
func (s *service) Record(ctx context.Context, companyID string, req RecordWorkDayRequest) (WorkRecordResponse, error) {
	workDate, err := time.Parse("2006-01-02", req.WorkDate)
	if err != nil {
		return WorkRecordResponse{}, errInvalidWorkDate
	}

	overtime := decimal.Zero
	if req.OvertimeHours != "" {
		overtime, err = decimal.NewFromString(req.OvertimeHours)
		if err != nil || overtime.IsNegative() || overtime.GreaterThan(maxDailyOvertimeHours) {
			return WorkRecordResponse{}, errInvalidOvertimeHours
		}
	}

	source := req.Source
	if source == "" {
		source = "MANUAL"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return WorkRecordResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindByEmployeeAndDate(ctx, companyID, req.EmployeeID, workDate)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return WorkRecordResponse{}, err
	}

	var row *WorkRecord
	if err == nil && existing != nil {
		if existing.IsApproved {
			return WorkRecordResponse{}, errApprovedImmutable
		}
		existing.DayType = req.DayType
		existing.OvertimeHours = overtime
		existing.Source = source
		existing.Notes = req.Notes
		if err := qtx.Update(ctx, existing); err != nil {
			return WorkRecordResponse{}, err
		}
		row = existing
	} else {
		row = &WorkRecord{
			ID:            uuid.New(),
			CompanyID:     uuid.MustParse(companyID),
			EmployeeID:    uuid.MustParse(req.EmployeeID),
			WorkDate:      workDate,
			DayType:       req.DayType,
			OvertimeHours: overtime,
			Source:        source,
			Notes:         req.Notes,
		}
		if err := qtx.Create(ctx, row); err != nil {
			return WorkRecordResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return WorkRecordResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) Approve(ctx context.Context, companyID, id string) (WorkRecordResponse, error) {
	row, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return WorkRecordResponse{}, errRecordNotFound
		}
		return WorkRecordResponse{}, err
	}
	if row.IsApproved {
		return WorkRecordResponse{}, errAlreadyApproved
	}

	row.IsApproved = true
	if err := s.repo.Update(ctx, row); err != nil {
		return WorkRecordResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) GetForEmployee(ctx context.Context, companyID, employeeID, from, to string) ([]WorkRecordResponse, error) {
	fromDate, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, errInvalidWorkDate
	}
	toDate, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, errInvalidWorkDate
	}

	rows, err := s.repo.FindByEmployeeAndRange(ctx, companyID, employeeID, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	resp := make([]WorkRecordResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, mapToResponse(row))
	}
	return resp, nil
}

func mapToResponse(r WorkRecord) WorkRecordResponse {
	resp := WorkRecordResponse{
		ID:            r.ID.String(),
		EmployeeID:    r.EmployeeID.String(),
		WorkDate:      r.WorkDate.Format("2006-01-02"),
		DayType:       r.DayType,
		OvertimeHours: r.OvertimeHours.String(),
		IsApproved:    r.IsApproved,
		Source:        r.Source,
		Notes:         r.Notes,
	}
	if r.Employee != nil {
		resp.EmployeeName = r.Employee.FullName
	}
	return resp
}
