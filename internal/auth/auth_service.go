package auth

import (
	"context"
	"os"
	"strings"
	"time"

	autherrors "go-rateb/internal/auth/errors"
	"go-rateb/internal/employee"
	employeeerrors "go-rateb/internal/employee/errors"
	"go-rateb/internal/rbac"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, resp AuthResponse, err error)
	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)
	GetMe(ctx context.Context, userID string) (*AuthResponse, error)
	Register(ctx context.Context, companyID string, req RegisterRequest) (AuthResponse, error)
}

type service struct {
	repo         Repository
	rbac         rbac.Service
	employeeRepo employee.Repository
	logger       *zap.Logger
}

func NewService(repo Repository, rbacSvc rbac.Service, employeeRepo employee.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, rbac: rbacSvc, employeeRepo: employeeRepo, logger: l}
}

func (s *service) Login(ctx context.Context, email, password string) (string, string, AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrUserInactive
	}

	// Warm the enforcer so the first authorized request after login does not
	// pay the policy load.
	if err := s.rbac.LoadCompanyPolicy(user.CompanyID.String()); err != nil {
		s.logger.Warn("rbac policy warmup failed",
			zap.String("company_id", user.CompanyID.String()),
			zap.Error(err),
		)
	}

	accessToken, err := s.generateToken(user, accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	refreshToken, err := s.generateToken(user, refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("company_id", user.CompanyID.String()),
	)
	return accessToken, refreshToken, mapUser(user), nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidUserID
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrUserNotFound
	}
	if !user.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrUserInactive
	}

	newAccess, err := s.generateToken(user, accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	newRefresh, err := s.generateToken(user, refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return newAccess, newRefresh, mapUser(user), nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, autherrors.ErrUserNotFound
	}

	resp := mapUser(user)
	return &resp, nil
}

// Register creates a login for an existing employee of the caller's company.
func (s *service) Register(ctx context.Context, companyID string, req RegisterRequest) (AuthResponse, error) {
	empl, err := s.employeeRepo.FindByIDAndCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		return AuthResponse{}, employeeerrors.ErrEmployeeNotFound
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role == "" {
		role = "EMPLOYEE"
	}

	employeeID := empl.ID
	user := &User{
		ID:         uuid.New(),
		CompanyID:  empl.CompanyID,
		EmployeeID: &employeeID,
		Email:      req.Email,
		Name:       req.Name,
		Password:   string(hashed),
		Role:       role,
		IsActive:   true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return AuthResponse{}, autherrors.ErrEmailAlreadyRegistered
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("employee_id", req.EmployeeID),
	)
	return mapUser(user), nil
}

func (s *service) generateToken(user *User, expiry time.Duration) (string, error) {
	employeeID := user.ID.String()
	if user.EmployeeID != nil {
		employeeID = user.EmployeeID.String()
	}

	claims := jwt.MapClaims{
		"user_id":     user.ID.String(),
		"company_id":  user.CompanyID.String(),
		"employee_id": employeeID,
		"role":        user.Role,
		"exp":         time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func mapUser(user *User) AuthResponse {
	resp := AuthResponse{
		ID:        user.ID.String(),
		CompanyID: user.CompanyID.String(),
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
	}
	if user.EmployeeID != nil {
		resp.EmployeeID = user.EmployeeID.String()
	}
	return resp
}
