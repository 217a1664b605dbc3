package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	notificationapp "github.com/vivenda/backend/internal/application/notification"
	"github.com/vivenda/backend/internal/domain/notification"
	"github.com/vivenda/backend/internal/domain/shared"
)

// In-memory mock for notification handler tests

type mockNotificationRepository struct {
	notifications map[uuid.UUID]*notification.Notification
}

func newMockNotificationRepository() *mockNotificationRepository {
	return &mockNotificationRepository{notifications: make(map[uuid.UUID]*notification.Notification)}
}

func (m *mockNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	if n, ok := m.notifications[id]; ok {
		return n, nil
	}
	return nil, shared.ErrNotFound
}

func (m *mockNotificationRepository) FindByRecipient(ctx context.Context, recipientID uuid.UUID, filter shared.Filter) (*shared.Paginated[*notification.Notification], error) {
	var items []*notification.Notification
	for _, n := range m.notifications {
		if n.RecipientID != recipientID {
			continue
		}
		if unread, ok := filter.Filters["unread_only"].(bool); ok && unread && n.IsRead {
			continue
		}
		items = append(items, n)
	}
	page := shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize)
	return &page, nil
}

func (m *mockNotificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	for _, n := range m.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	m.notifications[n.ID] = n
	return nil
}

func (m *mockNotificationRepository) SaveBatch(ctx context.Context, batch []*notification.Notification) error {
	for _, n := range batch {
		m.notifications[n.ID] = n
	}
	return nil
}

func (m *mockNotificationRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	for _, n := range m.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			_ = n.MarkRead()
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.notifications[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.notifications, id)
	return nil
}

func newNotificationTestRouter(repo *mockNotificationRepository) *gin.Engine {
	service := notificationapp.NewNotificationService(repo)
	h := NewNotificationHandler(service)

	router := gin.New()
	router.GET("/notifications", h.List)
	router.GET("/notifications/unread-count", h.UnreadCount)
	router.POST("/notifications/:id/read", h.MarkRead)
	router.POST("/notifications/read-all", h.MarkAllRead)
	router.DELETE("/notifications/:id", h.Delete)
	return router
}

func mustNewNotification(t *testing.T, recipientID uuid.UUID) *notification.Notification {
	t.Helper()
	n, err := notification.New(recipientID, nil, notification.TypeVaultUpload,
		"Novo documento", "Um novo documento foi adicionado ao cofre", nil)
	require.NoError(t, err)
	return n
}

func TestNotificationHandlerList(t *testing.T) {
	recipientID := uuid.New()
	repo := newMockNotificationRepository()
	own := mustNewNotification(t, recipientID)
	repo.notifications[own.ID] = own
	other := mustNewNotification(t, uuid.New())
	repo.notifications[other.ID] = other

	router := newNotificationTestRouter(repo)

	req := httptest.NewRequest("GET", "/notifications?page=1&page_size=20", nil)
	req.Header.Set("X-User-ID", recipientID.String())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success bool                                   `json:"success"`
		Data    []notificationapp.NotificationResponse `json:"data"`
		Meta    struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, own.ID, resp.Data[0].ID)
	assert.Equal(t, int64(1), resp.Meta.Total)
}

func TestNotificationHandlerUnreadCount(t *testing.T) {
	recipientID := uuid.New()
	repo := newMockNotificationRepository()
	first := mustNewNotification(t, recipientID)
	repo.notifications[first.ID] = first
	second := mustNewNotification(t, recipientID)
	require.NoError(t, second.MarkRead())
	repo.notifications[second.ID] = second

	router := newNotificationTestRouter(repo)

	req := httptest.NewRequest("GET", "/notifications/unread-count", nil)
	req.Header.Set("X-User-ID", recipientID.String())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
}

func TestNotificationHandlerMarkRead(t *testing.T) {
	recipientID := uuid.New()
	repo := newMockNotificationRepository()
	n := mustNewNotification(t, recipientID)
	repo.notifications[n.ID] = n

	router := newNotificationTestRouter(repo)

	t.Run("marks own notification read", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/notifications/"+n.ID.String()+"/read", nil)
		req.Header.Set("X-User-ID", recipientID.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.True(t, repo.notifications[n.ID].IsRead)
	})

	t.Run("someone else's notification is forbidden", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/notifications/"+n.ID.String()+"/read", nil)
		req.Header.Set("X-User-ID", uuid.New().String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestNotificationHandlerMarkAllRead(t *testing.T) {
	recipientID := uuid.New()
	repo := newMockNotificationRepository()
	for i := 0; i < 3; i++ {
		n := mustNewNotification(t, recipientID)
		repo.notifications[n.ID] = n
	}

	router := newNotificationTestRouter(repo)

	req := httptest.NewRequest("POST", "/notifications/read-all", nil)
	req.Header.Set("X-User-ID", recipientID.String())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":3`)
}

func TestNotificationHandlerDelete(t *testing.T) {
	recipientID := uuid.New()
	repo := newMockNotificationRepository()
	n := mustNewNotification(t, recipientID)
	repo.notifications[n.ID] = n

	router := newNotificationTestRouter(repo)

	req := httptest.NewRequest("DELETE", "/notifications/"+n.ID.String(), nil)
	req.Header.Set("X-User-ID", recipientID.String())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, repo.notifications)
}
