package infra

import "github.com/casbin/casbin/v2"

// NewEnforcer builds an enforcer from the model file only. Policy rows live
// in the database and are loaded into memory by the rbac service, so no
// casbin adapter is attached here.
func NewEnforcer(modelPath string) (*casbin.Enforcer, error) {
	return casbin.NewEnforcer(modelPath)
}
