package service

import (
	"errors"
	"fmt"
	"log"

	"pdv-backend/internal/model"
	"pdv-backend/internal/repository"
	"pdv-backend/internal/ws"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationService interface {
	ListUnread(userID uuid.UUID) ([]model.Notification, int64, error)
	MarkRead(id, userID uuid.UUID) (int64, error)
	MarkAllRead(userID uuid.UUID) error

	NotifyProductAdded(product *model.Product)
	NotifyStockAlert(product *model.Product)
	NotifyOrderReceived(order *model.Order)
	NotifyPaymentUploaded(order *model.Order)
	NotifySaleMilestone(sellerID uuid.UUID, count int64)
}

type notificationService struct {
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	hub       *ws.Hub
}

func NewNotificationService(notifRepo repository.NotificationRepository, userRepo repository.UserRepository, hub *ws.Hub) NotificationService {
	return &notificationService{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		hub:       hub,
	}
}

func (s *notificationService) ListUnread(userID uuid.UUID) ([]model.Notification, int64, error) {
	notifications, err := s.notifRepo.FindUnread(userID, 20)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.notifRepo.CountUnread(userID)
	if err != nil {
		return nil, 0, err
	}
	return notifications, count, nil
}

func (s *notificationService) MarkRead(id, userID uuid.UUID) (int64, error) {
	notification, err := s.notifRepo.FindByID(id)
	if err != nil {
		return 0, ErrNotificationNotFound
	}
	if notification.UserID != userID {
		return 0, ErrNotificationNotFound
	}

	notification.MarkAsRead()
	if err := s.notifRepo.Update(notification); err != nil {
		return 0, err
	}

	return s.notifRepo.CountUnread(userID)
}

func (s *notificationService) MarkAllRead(userID uuid.UUID) error {
	return s.notifRepo.MarkAllRead(userID)
}

// fanOut stores a notification for every active user in the given
// roles, optionally skipping users who already have an unread copy for
// the same object.
func (s *notificationService) fanOut(roles []string, notifType, title, message, link, relatedType string, relatedID uuid.UUID, dedupe bool) {
	users, err := s.userRepo.FindByRoles(roles)
	if err != nil {
		log.Printf("Warning: notification fan-out failed: %v", err)
		return
	}

	for _, user := range users {
		if dedupe {
			exists, err := s.notifRepo.UnreadExists(user.ID, notifType, relatedID)
			if err != nil || exists {
				continue
			}
		}

		id := relatedID
		notification := &model.Notification{
			UserID:            user.ID,
			Type:              notifType,
			Title:             title,
			Message:           message,
			Link:              link,
			RelatedObjectType: relatedType,
			RelatedObjectID:   &id,
		}
		if err := s.notifRepo.Create(notification); err != nil {
			log.Printf("Warning: failed to store notification: %v", err)
		}
	}

	if s.hub != nil {
		go s.hub.Publish(ws.Event{
			Type:    notifType,
			Title:   title,
			Message: message,
			Data:    map[string]interface{}{"related_object_type": relatedType, "related_object_id": relatedID},
		})
	}
}

func (s *notificationService) NotifyProductAdded(product *model.Product) {
	s.fanOut(model.ManagerRoles, model.NotifProductAdded,
		"Novo Produto Adicionado",
		fmt.Sprintf("O produto \"%s\" foi adicionado ao sistema.", product.Name),
		"/produtos/?search="+product.Code,
		"Product", product.ID, false)
}

// NotifyStockAlert fires the low or out-of-stock warning matching the
// product's current status. Duplicate unread alerts are suppressed.
func (s *notificationService) NotifyStockAlert(product *model.Product) {
	switch product.StockStatus {
	case model.StockOut:
		s.fanOut(model.ManagerRoles, model.NotifOutOfStock,
			"Produto Esgotado",
			fmt.Sprintf("O produto \"%s\" está sem estoque. Reposição urgente!", product.Name),
			"/produtos/?search="+product.Code,
			"Product", product.ID, true)
	case model.StockLow:
		s.fanOut(model.ManagerRoles, model.NotifLowStock,
			"Estoque Baixo",
			fmt.Sprintf("O produto \"%s\" está com estoque baixo (%s). Reposição necessária!",
				product.Name, product.StockQuantity.String()),
			"/produtos/?search="+product.Code,
			"Product", product.ID, true)
	}
}

func (s *notificationService) NotifyOrderReceived(order *model.Order) {
	customerName := ""
	if order.Customer != nil {
		customerName = order.Customer.FullName
	}
	s.fanOut(model.StaffRoles, model.NotifOrderReceived,
		"Novo Pedido Recebido",
		fmt.Sprintf("Pedido #%s de %s (Total: %s)", order.OrderCode, customerName, order.TotalAmount.StringFixed(2)),
		"/pedidos/?search="+order.OrderCode,
		"Order", order.ID, false)
}

func (s *notificationService) NotifyPaymentUploaded(order *model.Order) {
	s.fanOut(model.ManagerRoles, model.NotifPaymentUploaded,
		"Comprovante Enviado",
		fmt.Sprintf("Pedido #%s recebeu comprovante de pagamento.", order.OrderCode),
		"/pedidos/?search="+order.OrderCode,
		"Order", order.ID, false)
}

// NotifySaleMilestone congratulates a seller every 50 completed sales.
func (s *notificationService) NotifySaleMilestone(sellerID uuid.UUID, count int64) {
	if count == 0 || count%50 != 0 {
		return
	}
	seller, err := s.userRepo.FindByID(sellerID)
	if err != nil {
		return
	}

	id := sellerID
	notification := &model.Notification{
		UserID:            seller.ID,
		Type:              model.NotifSaleMilestone,
		Title:             fmt.Sprintf("Marco de %d Vendas Atingido!", count),
		Message:           fmt.Sprintf("Parabéns! Você atingiu %d vendas. Continue o ótimo trabalho!", count),
		Link:              "/relatorios/",
		RelatedObjectType: "User",
		RelatedObjectID:   &id,
	}
	if err := s.notifRepo.Create(notification); err != nil {
		log.Printf("Warning: failed to store milestone notification: %v", err)
	}

	if s.hub != nil {
		go s.hub.Publish(ws.Event{
			Type:    model.NotifSaleMilestone,
			Title:   notification.Title,
			Message: notification.Message,
		})
	}
}
