package service

import (
	"testing"

	"pdv-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockAlertFanOutAndDedupe(t *testing.T) {
	db := setupTestDB(t)
	svc := testNotifier(db)
	manager := seedUser(t, db, "manager@pdv.local", model.RoleManager)
	admin := seedUser(t, db, "admin@pdv.local", model.RoleAdmin)
	seller := seedUser(t, db, "seller@pdv.local", model.RoleSeller)
	product := seedProduct(t, db, "P001", "1", "3", true)

	svc.NotifyStockAlert(product)

	// Managers and admins get the alert, sellers do not
	for _, user := range []*model.User{manager, admin} {
		_, unread, err := svc.ListUnread(user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), unread, "user %s", user.Email)
	}
	_, unread, err := svc.ListUnread(seller.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)

	// Repeating the alert while unread does not stack
	svc.NotifyStockAlert(product)
	_, unread, err = svc.ListUnread(manager.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	// After reading, a fresh alert comes through
	require.NoError(t, svc.MarkAllRead(manager.ID))
	svc.NotifyStockAlert(product)
	_, unread, err = svc.ListUnread(manager.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestNoAlertWhenStockHealthy(t *testing.T) {
	db := setupTestDB(t)
	svc := testNotifier(db)
	manager := seedUser(t, db, "manager@pdv.local", model.RoleManager)
	product := seedProduct(t, db, "P001", "50", "3", true)

	svc.NotifyStockAlert(product)

	_, unread, err := svc.ListUnread(manager.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestSaleMilestoneOnlyAtMultiples(t *testing.T) {
	db := setupTestDB(t)
	svc := testNotifier(db)
	seller := seedUser(t, db, "seller@pdv.local", model.RoleSeller)

	svc.NotifySaleMilestone(seller.ID, 49)
	_, unread, err := svc.ListUnread(seller.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)

	svc.NotifySaleMilestone(seller.ID, 50)
	notifications, unread, err := svc.ListUnread(seller.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), unread)
	assert.Equal(t, model.NotifSaleMilestone, notifications[0].Type)
}

func TestMarkReadScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := testNotifier(db)
	manager := seedUser(t, db, "manager@pdv.local", model.RoleManager)
	other := seedUser(t, db, "other@pdv.local", model.RoleManager)
	product := seedProduct(t, db, "P001", "0", "3", true)

	svc.NotifyStockAlert(product)

	notifications, _, err := svc.ListUnread(manager.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)

	// Another user cannot mark someone else's notification
	_, err = svc.MarkRead(notifications[0].ID, other.ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	remaining, err := svc.MarkRead(notifications[0].ID, manager.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), remaining)
}
