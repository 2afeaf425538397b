package service

import (
	"fmt"

	"pdv-backend/internal/model"
	"pdv-backend/internal/repository"
	"pdv-backend/pkg/validator"

	"github.com/google/uuid"
)

// ContactRequest is the payload of the public contact form.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=200"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Message string `json:"message" validate:"required,min=5"`
}

type ContactService interface {
	SubmitMessage(req *ContactRequest) (*model.ContactMessage, error)
	GetMessages() ([]model.ContactMessage, error)
	MarkRead(id uuid.UUID) error
}

type contactService struct {
	contactRepo repository.ContactRepository
}

func NewContactService(contactRepo repository.ContactRepository) ContactService {
	return &contactService{contactRepo: contactRepo}
}

func (s *contactService) SubmitMessage(req *ContactRequest) (*model.ContactMessage, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	message := &model.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	}
	if err := s.contactRepo.Create(message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *contactService) GetMessages() ([]model.ContactMessage, error) {
	return s.contactRepo.FindAll()
}

func (s *contactService) MarkRead(id uuid.UUID) error {
	return s.contactRepo.MarkRead(id)
}
