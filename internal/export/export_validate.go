package export

import "fmt"

// validateWps collects every gap that would make a WPS file unprocessable by
// the bank: missing per-line bank identifiers and an incomplete company bank
// profile. All gaps are reported at once.
func validateWps(company *CompanyRead, lines []LineRead) []string {
	var gaps []string

	if company.BankName == "" {
		gaps = append(gaps, "company bank name is missing")
	}
	if company.BankIban == "" {
		gaps = append(gaps, "company bank iban is missing")
	}
	if company.MolEstablishmentID == "" {
		gaps = append(gaps, "company MOL establishment id is missing")
	}

	for _, line := range lines {
		label := line.EmployeeNumber
		if label == "" {
			label = line.EmployeeID.String()
			gaps = append(gaps, fmt.Sprintf("employee %s has no employee number", label))
		}
		if line.BankName == "" {
			gaps = append(gaps, fmt.Sprintf("employee %s has no bank name", label))
		}
		if line.BankIban == "" {
			gaps = append(gaps, fmt.Sprintf("employee %s has no bank iban", label))
		}
	}

	return gaps
}

// validateGosi compares the GOSI wage snapshot on each line against the live
// employee record. A drift means the run was calculated against stale wages
// and must be recalculated before filing.
func validateGosi(lines []LineRead, employees []EmployeeGosiRead) []string {
	byID := make(map[string]EmployeeGosiRead, len(employees))
	for _, e := range employees {
		byID[e.ID.String()] = e
	}

	var mismatches []string
	for _, line := range lines {
		if !line.GosiEligible {
			continue
		}

		live, ok := byID[line.EmployeeID.String()]
		if !ok {
			mismatches = append(mismatches, fmt.Sprintf(
				"employee %s no longer exists", line.EmployeeNumber))
			continue
		}
		if live.GosiBasicWage != line.GosiBasicWage {
			mismatches = append(mismatches, fmt.Sprintf(
				"employee %s gosi basic wage changed since calculation (line %d, current %d)",
				line.EmployeeNumber, line.GosiBasicWage, live.GosiBasicWage))
		}
		if live.GosiHousingAllowance != line.GosiHousingAllowance {
			mismatches = append(mismatches, fmt.Sprintf(
				"employee %s gosi housing allowance changed since calculation (line %d, current %d)",
				line.EmployeeNumber, line.GosiHousingAllowance, live.GosiHousingAllowance))
		}
	}

	return mismatches
}
