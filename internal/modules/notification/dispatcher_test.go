package notification

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"craftmarket/internal/domain"
)

// fakeStore is a thread-safe in-memory Store. failures controls how many
// Create calls fail before succeeding.
type fakeStore struct {
	mu       sync.Mutex
	rows     []domain.Notification
	failures int
	attempts int
}

func (f *fakeStore) Create(ctx context.Context, n *domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if f.failures > 0 {
		f.failures--
		return errors.New("insert failed")
	}
	n.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, *n)
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.rows {
		if n.ID == id {
			row := n
			return &row, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeStore) ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]domain.Notification, int64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Notification
	for _, n := range f.rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), int64(len(out)), nil
}

func (f *fakeStore) MarkAsRead(ctx context.Context, id int64) error { return nil }

func (f *fakeStore) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) { return 0, nil }

func (f *fakeStore) Delete(ctx context.Context, id int64) error { return nil }

func (f *fakeStore) stored() []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Notification(nil), f.rows...)
}

func TestDispatcher_DeliversEnqueued(t *testing.T) {
	store := &fakeStore{}
	d := NewDispatcher(store)
	d.Start()
	defer d.Stop()

	d.Enqueue(domain.Notification{UserID: 1, Type: domain.NotifNewOrder, Title: "Новый заказ"})
	d.Enqueue(domain.Notification{UserID: 2, Type: domain.NotifNewMessage, Title: "Новое сообщение"})
	d.Wait()

	rows := store.stored()
	assert.Len(t, rows, 2)
	assert.False(t, rows[0].CreatedAt.IsZero())
}

func TestDispatcher_RetriesTransientFailure(t *testing.T) {
	store := &fakeStore{failures: 2}
	d := NewDispatcher(store)
	d.Start()
	defer d.Stop()

	d.Enqueue(domain.Notification{UserID: 1, Type: domain.NotifNewReview})
	d.Wait()

	assert.Len(t, store.stored(), 1)
	assert.Equal(t, 3, store.attempts)
}

func TestDispatcher_DropsAfterTerminalFailure(t *testing.T) {
	store := &fakeStore{failures: 100}
	d := NewDispatcher(store)
	d.Start()
	defer d.Stop()

	d.Enqueue(domain.Notification{UserID: 1, Type: domain.NotifNewOrder})
	d.Wait()

	assert.Empty(t, store.stored())
	assert.Equal(t, deliveryRetries, store.attempts)
}

func TestDispatcher_EnqueueAfterStopIsDropped(t *testing.T) {
	store := &fakeStore{}
	d := NewDispatcher(store)
	d.Start()
	d.Stop()

	assert.NotPanics(t, func() {
		d.Enqueue(domain.Notification{UserID: 1, Type: domain.NotifNewOrder})
	})
	assert.Empty(t, store.stored())
}

func TestService_StatusFanout(t *testing.T) {
	store := &fakeStore{}
	d := NewDispatcher(store)
	d.Start()
	defer d.Stop()
	svc := NewService(store, d)

	ctx := context.Background()
	assert.NoError(t, svc.NotifyOrderStatus(ctx, 1, 7, "Свитер", domain.OrderAccepted))
	assert.NoError(t, svc.NotifyOrderStatus(ctx, 1, 7, "Свитер", domain.OrderRejected))
	assert.NoError(t, svc.NotifyOrderStatus(ctx, 1, 7, "Свитер", domain.OrderCompleted))
	// in_progress and cancelled are silent no-ops.
	assert.NoError(t, svc.NotifyOrderStatus(ctx, 1, 7, "Свитер", domain.OrderInProgress))
	assert.NoError(t, svc.NotifyOrderStatus(ctx, 1, 7, "Свитер", domain.OrderCancelled))
	d.Wait()

	rows := store.stored()
	assert.Len(t, rows, 3)

	types := make([]domain.NotificationType, 0, len(rows))
	for _, n := range rows {
		types = append(types, n.Type)
		assert.Equal(t, "/orders/7", n.Link)
	}
	assert.ElementsMatch(t, types, []domain.NotificationType{
		domain.NotifOrderAccepted,
		domain.NotifOrderRejected,
		domain.NotifOrderCompleted,
	})
}

func TestService_MarkAsRead_OwnershipEnforced(t *testing.T) {
	store := &fakeStore{}
	d := NewDispatcher(store)
	d.Start()
	defer d.Stop()
	svc := NewService(store, d)

	ctx := context.Background()
	assert.NoError(t, svc.NotifyNewMessage(ctx, 5, 7))
	d.Wait()

	rows := store.stored()
	assert.Len(t, rows, 1)

	err := svc.MarkAsRead(ctx, 6, rows[0].ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	assert.NoError(t, svc.MarkAsRead(ctx, 5, rows[0].ID))
}
