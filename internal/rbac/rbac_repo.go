package rbac

import (
	"context"

	"gorm.io/gorm"
)

type RoleRow struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CompanyID   string `gorm:"type:uuid"`
	Name        string
	Description string
}

func (RoleRow) TableName() string {
	return "roles"
}

type EmployeeRoleRow struct {
	EmployeeID string
	RoleID     string
}

type RolePermissionRow struct {
	RoleID   string
	Resource string
	Action   string
}

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	GetEmployeeRoles(companyID string) ([]EmployeeRoleRow, error)
	GetRolePermissions(companyID string) ([]RolePermissionRow, error)

	ListRoles(ctx context.Context, companyID string) ([]RoleRow, error)
	AssignRole(ctx context.Context, companyID, employeeID, roleID string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetEmployeeRoles(companyID string) ([]EmployeeRoleRow, error) {
	var result []EmployeeRoleRow
	err := r.db.
		Table("employee_roles").
		Select("employee_roles.employee_id, employee_roles.role_id").
		Joins("JOIN roles ON roles.id = employee_roles.role_id").
		Where("roles.company_id = ?", companyID).
		Scan(&result).Error
	return result, err
}

func (r *repository) GetRolePermissions(companyID string) ([]RolePermissionRow, error) {
	var result []RolePermissionRow
	err := r.db.
		Table("role_permissions").
		Select("role_permissions.role_id, permissions.resource, permissions.action").
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("roles.company_id = ?", companyID).
		Scan(&result).Error
	return result, err
}

func (r *repository) ListRoles(ctx context.Context, companyID string) ([]RoleRow, error) {
	var result []RoleRow
	err := r.db.WithContext(ctx).Where("company_id = ?", companyID).Find(&result).Error
	return result, err
}

func (r *repository) AssignRole(ctx context.Context, companyID, employeeID, roleID string) error {
	// The role must belong to the caller's company before the link is made.
	var count int64
	if err := r.db.WithContext(ctx).
		Table("roles").
		Where("id = ?", roleID).
		Where("company_id = ?", companyID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}

	return r.db.WithContext(ctx).Exec(`
		INSERT INTO employee_roles (employee_id, role_id)
		VALUES (?, ?)
		ON CONFLICT (employee_id, role_id) DO NOTHING
	`, employeeID, roleID).Error
}
