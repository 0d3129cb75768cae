package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	contentTypeCSV = "text/csv"
	contentTypePDF = "application/pdf"
)

// sar renders halalas as a riyal amount with two decimals.
func sar(halalas int64) string {
	return decimal.NewFromInt(halalas).Div(decimal.NewFromInt(100)).StringFixed(2)
}

func buildWpsCSV(company *CompanyRead, period *PeriodRead, lines []LineRead) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"mol_establishment_id", "payment_year", "payment_month",
		"employee_number", "employee_name", "bank_name", "iban",
		"basic_salary", "allowances", "deductions", "net_salary",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, line := range lines {
		deductions := line.ManualDeduction + line.UnpaidLeaveDeduction + line.LoanDeduction + line.GosiEmployee
		record := []string{
			company.MolEstablishmentID,
			fmt.Sprintf("%d", period.Year),
			fmt.Sprintf("%02d", period.Month),
			line.EmployeeNumber,
			line.EmployeeName,
			line.BankName,
			line.BankIban,
			sar(line.BasePay),
			sar(line.AllowanceTotal + line.OvertimePay),
			sar(deductions),
			sar(line.NetPay),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func buildGosiCSV(period *PeriodRead, lines []LineRead) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"contribution_year", "contribution_month",
		"employee_number", "employee_name", "nationality",
		"basic_wage", "housing_allowance", "wage_base",
		"employee_contribution", "employer_contribution",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, line := range lines {
		if !line.GosiEligible {
			continue
		}
		record := []string{
			fmt.Sprintf("%d", period.Year),
			fmt.Sprintf("%02d", period.Month),
			line.EmployeeNumber,
			line.EmployeeName,
			line.Nationality,
			sar(line.GosiBasicWage),
			sar(line.GosiHousingAllowance),
			sar(line.GosiWageBase),
			sar(line.GosiEmployee),
			sar(line.GosiEmployer),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func buildRegisterCSV(period *PeriodRead, lines []LineRead) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"year", "month", "employee_number", "employee_name", "nationality",
		"base_pay", "allowance_total", "overtime_pay", "overtime_hours",
		"manual_deduction", "unpaid_leave_days", "unpaid_leave_deduction",
		"loan_deduction", "gosi_employee", "gosi_employer", "net_pay",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, line := range lines {
		record := []string{
			fmt.Sprintf("%d", period.Year),
			fmt.Sprintf("%02d", period.Month),
			line.EmployeeNumber,
			line.EmployeeName,
			line.Nationality,
			sar(line.BasePay),
			sar(line.AllowanceTotal),
			sar(line.OvertimePay),
			line.OvertimeHours.StringFixed(2),
			sar(line.ManualDeduction),
			fmt.Sprintf("%d", line.UnpaidLeaveDays),
			sar(line.UnpaidLeaveDeduction),
			sar(line.LoanDeduction),
			sar(line.GosiEmployee),
			sar(line.GosiEmployer),
			sar(line.NetPay),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func buildPayslipPDF(company *CompanyRead, period *PeriodRead, lines []LineRead) ([]byte, error) {
	text := []string{
		fmt.Sprintf("%s - Payslips %d-%02d", company.Name, period.Year, period.Month),
		"",
	}

	for _, line := range lines {
		text = append(text,
			fmt.Sprintf("%s  %s", line.EmployeeNumber, line.EmployeeName),
			fmt.Sprintf("  Base %s  Allowances %s  Overtime %s",
				sar(line.BasePay), sar(line.AllowanceTotal), sar(line.OvertimePay)),
			fmt.Sprintf("  Deductions %s  GOSI %s  Net %s",
				sar(line.ManualDeduction+line.UnpaidLeaveDeduction+line.LoanDeduction),
				sar(line.GosiEmployee), sar(line.NetPay)),
			"",
		)
	}

	return buildSimplePDF(text)
}
