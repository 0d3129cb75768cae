package tenant

import "gorm.io/gorm"

// Scope filters every query by the owning company. Repositories must apply it
// (or an equivalent explicit company_id predicate) on each data access; tenancy
// is never inferred from ambient state.
func Scope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}
