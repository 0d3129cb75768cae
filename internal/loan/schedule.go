package loan

import (
	"time"

	"github.com/google/uuid"
	loanerrors "go-rateb/internal/loan/errors"
)

// ValidateTerms checks that the schedule covers the principal without
// overshooting by a full installment:
//
//	installment × total ≥ principal
//	installment × (total−1) < principal
//
// The final installment absorbs the rounding remainder.
func ValidateTerms(principal, installment int64, total int) error {
	if principal <= 0 {
		return loanerrors.ErrInvalidPrincipal
	}
	if installment <= 0 || total <= 0 {
		return loanerrors.ErrInvalidSchedule
	}
	if installment*int64(total) < principal {
		return loanerrors.ErrScheduleTooShort
	}
	if installment*int64(total-1) >= principal {
		return loanerrors.ErrScheduleTooLong
	}
	return nil
}

// FinalInstallmentAmount is the remainder the last installment carries.
func FinalInstallmentAmount(principal, installment int64, total int) int64 {
	return principal - installment*int64(total-1)
}

// BuildSchedule lays out one installment per month starting at
// startYear/startMonth.
func BuildSchedule(l *Loan) []Installment {
	installments := make([]Installment, 0, l.TotalInstallments)
	cursor := time.Date(l.StartYear, time.Month(l.StartMonth), 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < l.TotalInstallments; i++ {
		amount := l.InstallmentAmount
		if i == l.TotalInstallments-1 {
			amount = FinalInstallmentAmount(l.Principal, l.InstallmentAmount, l.TotalInstallments)
		}

		installments = append(installments, Installment{
			ID:         uuid.New(),
			CompanyID:  l.CompanyID,
			LoanID:     l.ID,
			EmployeeID: l.EmployeeID,
			Sequence:   i + 1,
			Year:       cursor.Year(),
			Month:      int(cursor.Month()),
			Amount:     amount,
			Status:     InstallmentPending,
		})
		cursor = cursor.AddDate(0, 1, 0)
	}

	return installments
}
