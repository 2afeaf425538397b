package service

import (
	"errors"

	"pdv-backend/internal/model"
	"pdv-backend/internal/repository"
	"pdv-backend/pkg/jwt"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

type AuthService interface {
	Login(email, password, ip, userAgent string) (*LoginResponse, error)
	Logout(actor Actor) error
	ResetPassword(email, oldPassword, newPassword string) error
	Profile(userID uuid.UUID) (*model.UserResponse, error)
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
	Role  string             `json:"role"`
}

type authService struct {
	userRepo  repository.UserRepository
	auditRepo repository.AuditRepository
}

func NewAuthService(userRepo repository.UserRepository, auditRepo repository.AuditRepository) AuthService {
	return &authService{
		userRepo:  userRepo,
		auditRepo: auditRepo,
	}
}

func (s *authService) Login(email, password, ip, userAgent string) (*LoginResponse, error) {
	// 1. Find user by email
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// 2. Check if user is active
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 3. Verify password
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// 4. Single session: rotate token version
	newTokenVersion := uuid.New().String()
	user.TokenVersion = newTokenVersion
	if err := s.userRepo.Update(user); err != nil {
		return nil, errors.New("failed to update session")
	}

	// 5. Generate JWT token
	token, err := jwt.GenerateToken(user.ID, user.Email, user.FullName, user.Role, newTokenVersion)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	id := user.ID
	recordAudit(s.auditRepo, Actor{ID: id, IPAddress: ip, UserAgent: userAgent},
		model.AuditLogin, "User", &id, "User logged in", nil)

	return &LoginResponse{
		Token: token,
		User:  user.ToResponse(),
		Role:  user.Role,
	}, nil
}

// Logout invalidates the current session by rotating the token version.
func (s *authService) Logout(actor Actor) error {
	if err := s.userRepo.UpdateTokenVersion(actor.ID, uuid.New().String()); err != nil {
		return err
	}

	id := actor.ID
	recordAudit(s.auditRepo, actor, model.AuditLogout, "User", &id, "User logged out", nil)
	return nil
}

func (s *authService) ResetPassword(email, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return ErrUserNotFound
	}

	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}

	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}

	return s.userRepo.Update(user)
}

func (s *authService) Profile(userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	response := user.ToResponse()
	return &response, nil
}
