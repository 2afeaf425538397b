package service

import (
	"encoding/json"
	"log"

	"pdv-backend/internal/model"
	"pdv-backend/internal/repository"

	"github.com/google/uuid"
)

// Actor identifies who is performing an operation, extracted from the
// JWT context by the handlers.
type Actor struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Role      string
	IPAddress string
	UserAgent string
}

// IsAdmin reports whether the actor holds the ADMIN role.
func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// AuditService exposes the trail to admin listings.
type AuditService interface {
	ListEntries(filter repository.AuditFilter) ([]model.AuditLog, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) ListEntries(filter repository.AuditFilter) ([]model.AuditLog, error) {
	return s.auditRepo.FindAll(filter)
}

// recordAudit appends an entry to the audit trail. Audit failures are
// logged but never fail the operation they describe.
func recordAudit(repo repository.AuditRepository, actor Actor, action, entity string, entityID *uuid.UUID, description string, changes map[string]interface{}) {
	entry := &model.AuditLog{
		Action:      action,
		EntityName:  entity,
		EntityID:    entityID,
		Description: description,
		IPAddress:   actor.IPAddress,
		UserAgent:   actor.UserAgent,
	}
	if actor.ID != uuid.Nil {
		id := actor.ID
		entry.UserID = &id
	}
	if changes != nil {
		payload, err := json.Marshal(changes)
		if err == nil {
			entry.Changes = string(payload)
		}
	}

	if err := repo.Create(entry); err != nil {
		log.Printf("Warning: failed to write audit entry (%s %s): %v", action, entity, err)
	}
}
