package service

import (
	"errors"
	"fmt"

	"pdv-backend/internal/model"
	"pdv-backend/internal/repository"
	"pdv-backend/pkg/cpf"
	"pdv-backend/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken     = errors.New("email already registered")
	ErrInvalidRole    = errors.New("invalid role")
	ErrSelfDeletion   = errors.New("users cannot remove their own account")
	ErrUserCPFTaken   = errors.New("CPF already registered to another user")
	ErrUserCPFInvalid = errors.New("invalid CPF")
)

// CreateUserRequest carries a new account. Role defaults to CUSTOMER
// when omitted, which grants no access until an admin promotes it.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required,min=3"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	CPF      string `json:"cpf"`
	Role     string `json:"role" validate:"omitempty,oneof=ADMIN MANAGER SELLER CUSTOMER"`
}

// UpdateUserRequest carries account edits. Password is optional; empty
// keeps the current one.
type UpdateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
	FullName string `json:"full_name" validate:"required,min=3"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	CPF      string `json:"cpf"`
	Role     string `json:"role" validate:"required,oneof=ADMIN MANAGER SELLER CUSTOMER"`
	IsActive *bool  `json:"is_active"`
}

type UserService interface {
	CreateUser(req *CreateUserRequest, actor Actor) (*model.User, error)
	GetUsers() ([]model.User, error)
	GetUser(id uuid.UUID) (*model.User, error)
	UpdateUser(id uuid.UUID, req *UpdateUserRequest, actor Actor) (*model.User, error)
	DeleteUser(id uuid.UUID, actor Actor) error
	SetAvatar(id uuid.UUID, path string) (*model.User, error)
}

type userService struct {
	userRepo  repository.UserRepository
	auditRepo repository.AuditRepository
}

func NewUserService(userRepo repository.UserRepository, auditRepo repository.AuditRepository) UserService {
	return &userService{userRepo: userRepo, auditRepo: auditRepo}
}

func (s *userService) checkCPF(raw string, selfID *uuid.UUID) (*string, error) {
	if raw == "" {
		return nil, nil
	}
	if !cpf.IsValid(raw) {
		return nil, ErrUserCPFInvalid
	}
	normalized := cpf.Normalize(raw)

	existing, err := s.userRepo.FindByCPF(normalized)
	if err == nil && existing != nil && (selfID == nil || existing.ID != *selfID) {
		return nil, ErrUserCPFTaken
	}
	return &normalized, nil
}

func (s *userService) CreateUser(req *CreateUserRequest, actor Actor) (*model.User, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if existing, err := s.userRepo.FindByEmail(req.Email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	normalized, err := s.checkCPF(req.CPF, nil)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.RoleCustomer
	}

	user := &model.User{
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
		CPF:      normalized,
		Role:     role,
		IsActive: true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}
	user.CreatedBy = actor.ID.String()
	user.UpdatedBy = actor.ID.String()

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	id := user.ID
	recordAudit(s.auditRepo, actor, model.AuditCreate, "User", &id,
		fmt.Sprintf("User %s created with role %s", user.Email, user.Role),
		map[string]interface{}{"email": user.Email, "role": user.Role})

	return user, nil
}

func (s *userService) GetUsers() ([]model.User, error) {
	return s.userRepo.FindAll()
}

func (s *userService) GetUser(id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) UpdateUser(id uuid.UUID, req *UpdateUserRequest, actor Actor) (*model.User, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if req.Email != user.Email {
		if existing, err := s.userRepo.FindByEmail(req.Email); err == nil && existing != nil {
			return nil, ErrEmailTaken
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	normalized, err := s.checkCPF(req.CPF, &user.ID)
	if err != nil {
		return nil, err
	}

	roleChanged := user.Role != req.Role
	deactivated := req.IsActive != nil && user.IsActive && !*req.IsActive

	user.Email = req.Email
	user.FullName = req.FullName
	user.Phone = req.Phone
	user.Address = req.Address
	user.CPF = normalized
	user.Role = req.Role
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != "" {
		if err := user.SetPassword(req.Password); err != nil {
			return nil, err
		}
	}
	user.UpdatedBy = actor.ID.String()

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	// Role change or deactivation kills the active session
	if roleChanged || deactivated || req.Password != "" {
		if err := s.userRepo.UpdateTokenVersion(user.ID, uuid.New().String()); err != nil {
			return nil, err
		}
	}

	recordAudit(s.auditRepo, actor, model.AuditUpdate, "User", &id,
		fmt.Sprintf("User %s updated", user.Email),
		map[string]interface{}{"role": user.Role, "is_active": user.IsActive})

	return user, nil
}

// SetAvatar stores the media path of a user's profile picture.
func (s *userService) SetAvatar(id uuid.UUID, path string) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user.Avatar = path
	user.UpdatedBy = id.String()
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) DeleteUser(id uuid.UUID, actor Actor) error {
	if id == actor.ID {
		return ErrSelfDeletion
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return ErrUserNotFound
	}

	if err := s.userRepo.Delete(id); err != nil {
		return err
	}

	recordAudit(s.auditRepo, actor, model.AuditDelete, "User", &id,
		fmt.Sprintf("User %s removed", user.Email), nil)

	return nil
}
