package company

import (
	"context"
	"errors"

	companyerrors "go-rateb/internal/company/errors"
	"go-rateb/internal/eos"
	"go-rateb/internal/gosi"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OvertimeMultipliers picks the pay multiplier by the work record's day
// classification.
type OvertimeMultipliers struct {
	Weekday decimal.Decimal
	Weekend decimal.Decimal
	Holiday decimal.Decimal
}

// BankProfile is the company side of WPS payment data.
type BankProfile struct {
	BankName           string
	BankIban           string
	MolEstablishmentID string
}

// PayrollPolicy is the parsed, calculation-ready view of a tenant's payroll
// settings and bank profile.
type PayrollPolicy struct {
	Gosi        gosi.RateTable
	Overtime    OvertimeMultipliers
	EosFactors  eos.Factors
	BankProfile BankProfile
}

//go:generate mockgen -source=company_service.go -destination=mock/company_service_mock.go -package=mock
type Service interface {
	GetProfile(ctx context.Context, companyID string) (ProfileResponse, error)
	UpdateProfile(ctx context.Context, companyID string, req UpdateProfileRequest) (ProfileResponse, error)
	GetSettings(ctx context.Context, companyID string) (SettingsResponse, error)
	UpsertSettings(ctx context.Context, companyID string, req UpsertSettingsRequest) (SettingsResponse, error)
	ResolvePayrollPolicy(ctx context.Context, companyID string) (PayrollPolicy, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("company.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("company.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetProfile(ctx context.Context, companyID string) (ProfileResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return ProfileResponse{}, companyerrors.ErrInvalidCompanyID
	}

	c, err := s.repo.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileResponse{}, companyerrors.ErrCompanyNotFound
		}
		return ProfileResponse{}, err
	}

	return mapProfile(*c), nil
}

func (s *service) UpdateProfile(ctx context.Context, companyID string, req UpdateProfileRequest) (ProfileResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return ProfileResponse{}, companyerrors.ErrInvalidCompanyID
	}

	c, err := s.repo.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileResponse{}, companyerrors.ErrCompanyNotFound
		}
		return ProfileResponse{}, err
	}

	c.Name = req.Name
	c.Email = req.Email
	c.BankName = req.BankName
	c.BankIban = req.BankIban
	c.MolEstablishmentID = req.MolEstablishmentID

	if err := s.repo.Update(ctx, c); err != nil {
		s.logger.Error("update company profile failed", zap.Error(err))
		return ProfileResponse{}, err
	}

	s.logger.Info("company profile updated", zap.String("company_id", companyID))
	return mapProfile(*c), nil
}

func (s *service) GetSettings(ctx context.Context, companyID string) (SettingsResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return SettingsResponse{}, companyerrors.ErrInvalidCompanyID
	}

	settings, err := s.repo.FindSettings(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SettingsResponse{}, companyerrors.ErrSettingsNotConfigured
		}
		return SettingsResponse{}, err
	}

	return mapSettings(*settings), nil
}

func (s *service) UpsertSettings(ctx context.Context, companyID string, req UpsertSettingsRequest) (SettingsResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return SettingsResponse{}, companyerrors.ErrInvalidCompanyID
	}

	parsed, err := parseSettingsRequest(req)
	if err != nil {
		return SettingsResponse{}, err
	}
	parsed.CompanyID = companyUUID

	if err := s.repo.UpsertSettings(ctx, parsed); err != nil {
		s.logger.Error("upsert payroll settings failed", zap.Error(err))
		return SettingsResponse{}, err
	}

	s.logger.Info("payroll settings updated", zap.String("company_id", companyID))
	return mapSettings(*parsed), nil
}

// ResolvePayrollPolicy is the single read path calculation goes through; a
// tenant with no settings row cannot calculate payroll.
func (s *service) ResolvePayrollPolicy(ctx context.Context, companyID string) (PayrollPolicy, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return PayrollPolicy{}, companyerrors.ErrInvalidCompanyID
	}

	c, err := s.repo.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollPolicy{}, companyerrors.ErrCompanyNotFound
		}
		return PayrollPolicy{}, err
	}

	settings, err := s.repo.FindSettings(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollPolicy{}, companyerrors.ErrSettingsNotConfigured
		}
		return PayrollPolicy{}, err
	}

	return PayrollPolicy{
		Gosi: gosi.RateTable{
			Saudi: gosi.Rates{
				EmployeePct: settings.GosiSaudiEmployeePct,
				EmployerPct: settings.GosiSaudiEmployerPct,
			},
			NonSaudi: gosi.Rates{
				EmployeePct: settings.GosiNonSaudiEmployeePct,
				EmployerPct: settings.GosiNonSaudiEmployerPct,
			},
		},
		Overtime: OvertimeMultipliers{
			Weekday: settings.OvertimeWeekdayMultiplier,
			Weekend: settings.OvertimeWeekendMultiplier,
			Holiday: settings.OvertimeHolidayMultiplier,
		},
		EosFactors: eos.Factors{
			FirstFiveYearsMonthFactor: settings.EosFirstFiveYearsMonthFactor,
			AfterFiveYearsMonthFactor: settings.EosAfterFiveYearsMonthFactor,
		},
		BankProfile: BankProfile{
			BankName:           c.BankName,
			BankIban:           c.BankIban,
			MolEstablishmentID: c.MolEstablishmentID,
		},
	}, nil
}

func parseSettingsRequest(req UpsertSettingsRequest) (*PayrollSettings, error) {
	fields := []struct {
		name  string
		value string
	}{
		{"gosi_saudi_employee_pct", req.GosiSaudiEmployeePct},
		{"gosi_saudi_employer_pct", req.GosiSaudiEmployerPct},
		{"gosi_non_saudi_employee_pct", req.GosiNonSaudiEmployeePct},
		{"gosi_non_saudi_employer_pct", req.GosiNonSaudiEmployerPct},
		{"overtime_weekday_multiplier", req.OvertimeWeekdayMultiplier},
		{"overtime_weekend_multiplier", req.OvertimeWeekendMultiplier},
		{"overtime_holiday_multiplier", req.OvertimeHolidayMultiplier},
		{"eos_first_five_years_month_factor", req.EosFirstFiveYearsMonthFactor},
		{"eos_after_five_years_month_factor", req.EosAfterFiveYearsMonthFactor},
	}

	values := make([]decimal.Decimal, len(fields))
	for i, f := range fields {
		v, err := decimal.NewFromString(f.value)
		if err != nil {
			return nil, companyerrors.ErrInvalidDecimalValue.WithDetails(map[string]string{"field": f.name})
		}
		if v.IsNegative() {
			return nil, companyerrors.ErrNegativeSettingValue.WithDetails(map[string]string{"field": f.name})
		}
		values[i] = v
	}

	return &PayrollSettings{
		GosiSaudiEmployeePct:         values[0],
		GosiSaudiEmployerPct:         values[1],
		GosiNonSaudiEmployeePct:      values[2],
		GosiNonSaudiEmployerPct:      values[3],
		OvertimeWeekdayMultiplier:    values[4],
		OvertimeWeekendMultiplier:    values[5],
		OvertimeHolidayMultiplier:    values[6],
		EosFirstFiveYearsMonthFactor: values[7],
		EosAfterFiveYearsMonthFactor: values[8],
	}, nil
}

func mapProfile(c Company) ProfileResponse {
	return ProfileResponse{
		ID:                 c.ID.String(),
		Name:               c.Name,
		Email:              c.Email,
		IsActive:           c.IsActive,
		BankName:           c.BankName,
		BankIban:           c.BankIban,
		MolEstablishmentID: c.MolEstablishmentID,
	}
}

func mapSettings(s PayrollSettings) SettingsResponse {
	return SettingsResponse{
		GosiSaudiEmployeePct:         s.GosiSaudiEmployeePct.String(),
		GosiSaudiEmployerPct:         s.GosiSaudiEmployerPct.String(),
		GosiNonSaudiEmployeePct:      s.GosiNonSaudiEmployeePct.String(),
		GosiNonSaudiEmployerPct:      s.GosiNonSaudiEmployerPct.String(),
		OvertimeWeekdayMultiplier:    s.OvertimeWeekdayMultiplier.String(),
		OvertimeWeekendMultiplier:    s.OvertimeWeekendMultiplier.String(),
		OvertimeHolidayMultiplier:    s.OvertimeHolidayMultiplier.String(),
		EosFirstFiveYearsMonthFactor: s.EosFirstFiveYearsMonthFactor.String(),
		EosAfterFiveYearsMonthFactor: s.EosAfterFiveYearsMonthFactor.String(),
	}
}
