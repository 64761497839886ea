package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"craftmarket/internal/database"
	"craftmarket/internal/middleware"
	"craftmarket/internal/modules/auth"
	"craftmarket/internal/modules/catalog"
	"craftmarket/internal/modules/chat"
	"craftmarket/internal/modules/notification"
	"craftmarket/internal/modules/order"
	"craftmarket/internal/modules/review"
	"craftmarket/internal/modules/user"
	jwtsvc "craftmarket/internal/pkg/jwt"
	"craftmarket/internal/repository"
)

type testSuite struct {
	router     *gin.Engine
	dispatcher *notification.Dispatcher
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *errorDetail    `json:"error,omitempty"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func setupSuite(t *testing.T) *testSuite {
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err, "failed to open test database")
	require.NoError(t, repository.AutoMigrate(db))

	userRepo := repository.NewUserRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	j := jwtsvc.New("e2e-secret", time.Hour)

	dispatcher := notification.NewDispatcher(notificationRepo)
	dispatcher.Start()
	t.Cleanup(dispatcher.Stop)

	notificationService := notification.NewService(notificationRepo, dispatcher)
	notificationHandler := notification.NewHandler(notificationService)

	authHandler := auth.NewHandler(auth.NewService(userRepo, j))
	userHandler := user.NewHandler(user.NewService(userRepo))
	catalogHandler := catalog.NewHandler(catalog.NewService(serviceRepo, userRepo))
	orderHandler := order.NewHandler(order.NewService(orderRepo, serviceRepo, userRepo, notificationService))
	reviewHandler := review.NewHandler(review.NewService(reviewRepo, orderRepo, userRepo, notificationService))

	hub := chat.NewHub()
	t.Cleanup(hub.Close)
	chatService := chat.NewService(messageRepo, orderRepo, serviceRepo, userRepo, notificationService, hub)
	chatHandler := chat.NewHandler(chatService, hub, j)

	r := gin.New()
	api := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(api)
		userHandler.RegisterPublicRoutes(api)
		catalogHandler.RegisterPublicRoutes(api)
		reviewHandler.RegisterPublicRoutes(api)

		protected := api.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			userHandler.RegisterProtectedRoutes(protected)
			orderHandler.RegisterProtectedRoutes(protected)
			reviewHandler.RegisterProtectedRoutes(protected)
			chatHandler.RegisterProtectedRoutes(protected)
			notificationHandler.RegisterRoutes(protected)

			master := protected.Group("/")
			master.Use(middleware.MasterOnly())
			{
				catalogHandler.RegisterMasterRoutes(master)
				reviewHandler.RegisterMasterRoutes(master)
			}
		}
	}

	return &testSuite{router: r, dispatcher: dispatcher}
}

func (s *testSuite) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	}
	return w, resp
}

func (s *testSuite) register(t *testing.T, email, role string) string {
	t.Helper()

	w, resp := s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"name":     "Test User",
		"email":    email,
		"password": "secret123",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, "register failed: %s", w.Body.String())

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func (s *testSuite) createService(t *testing.T, masterToken string) int64 {
	t.Helper()

	w, resp := s.do(t, http.MethodPost, "/api/v1/services", masterToken, map[string]interface{}{
		"title":       "Свитер ручной вязки",
		"description": "Теплый свитер из мериносовой шерсти по вашим меркам",
		"category":    "knitting",
		"price":       1000,
	})
	require.Equal(t, http.StatusCreated, w.Code, "create service failed: %s", w.Body.String())

	var data struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return data.ID
}

func (s *testSuite) createOrder(t *testing.T, customerToken string, serviceID int64) int64 {
	t.Helper()

	w, resp := s.do(t, http.MethodPost, "/api/v1/orders", customerToken, map[string]interface{}{
		"service_id":  serviceID,
		"description": "Нужен синий свитер 52 размера",
	})
	require.Equal(t, http.StatusCreated, w.Code, "create order failed: %s", w.Body.String())

	var data struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.Equal(t, "pending", data.Status)
	return data.ID
}

func (s *testSuite) setStatus(t *testing.T, masterToken string, orderID int64, status string) *httptest.ResponseRecorder {
	t.Helper()
	w, _ := s.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/orders/%d/status", orderID), masterToken, map[string]interface{}{
		"status": status,
	})
	return w
}

// Full lifecycle: order -> complete -> review -> dispute.
func TestOrderReviewLifecycle(t *testing.T) {
	s := setupSuite(t)

	masterToken := s.register(t, "master@example.com", "master")
	customerToken := s.register(t, "customer@example.com", "customer")
	serviceID := s.createService(t, masterToken)
	orderID := s.createOrder(t, customerToken, serviceID)

	// pending -> accepted -> in_progress -> completed
	assert.Equal(t, http.StatusOK, s.setStatus(t, masterToken, orderID, "accepted").Code)
	assert.Equal(t, http.StatusOK, s.setStatus(t, masterToken, orderID, "in_progress").Code)

	w := s.setStatus(t, masterToken, orderID, "completed")
	require.Equal(t, http.StatusOK, w.Code)

	var completed struct {
		Status      string     `json:"status"`
		CompletedAt *time.Time `json:"completed_at"`
	}
	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NoError(t, json.Unmarshal(resp.Data, &completed))
	assert.Equal(t, "completed", completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	// Customer reviews with rating 5.
	w, resp = s.do(t, http.MethodPost, "/api/v1/reviews", customerToken, map[string]interface{}{
		"order_id": orderID,
		"rating":   5,
		"comment":  "Отличная работа",
	})
	require.Equal(t, http.StatusCreated, w.Code, "review failed: %s", w.Body.String())

	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &created))

	// Master aggregate: rating 5.0, total_reviews 1, completed_orders 1.
	w, resp = s.do(t, http.MethodGet, "/api/v1/auth/me", masterToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var master struct {
		Rating          float64 `json:"rating"`
		TotalReviews    int     `json:"total_reviews"`
		CompletedOrders int     `json:"completed_orders"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &master))
	assert.Equal(t, 5.0, master.Rating)
	assert.Equal(t, 1, master.TotalReviews)
	assert.Equal(t, 1, master.CompletedOrders)

	// Second review for the same order must conflict.
	w, _ = s.do(t, http.MethodPost, "/api/v1/reviews", customerToken, map[string]interface{}{
		"order_id": orderID,
		"rating":   1,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Master disputes the review once, a second dispute conflicts.
	w, _ = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/reviews/%d/dispute", created.ID), masterToken, map[string]interface{}{
		"reason": "Отзыв не соответствует действительности",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/reviews/%d/dispute", created.ID), masterToken, map[string]interface{}{
		"reason": "Повторное обращение по отзыву",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Disputed review still counts toward the aggregate.
	w, resp = s.do(t, http.MethodGet, "/api/v1/auth/me", masterToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(resp.Data, &master))
	assert.Equal(t, 5.0, master.Rating)
	assert.Equal(t, 1, master.TotalReviews)

	// Both sides got their notifications.
	s.dispatcher.Wait()

	w, resp = s.do(t, http.MethodGet, "/api/v1/notifications", masterToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var inbox struct {
		Notifications []struct {
			Type string `json:"type"`
		} `json:"notifications"`
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &inbox))
	types := make([]string, 0, len(inbox.Notifications))
	for _, n := range inbox.Notifications {
		types = append(types, n.Type)
	}
	assert.Contains(t, types, "new_order")
	assert.Contains(t, types, "new_review")

	w, resp = s.do(t, http.MethodGet, "/api/v1/notifications", customerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(resp.Data, &inbox))
	types = types[:0]
	for _, n := range inbox.Notifications {
		types = append(types, n.Type)
	}
	assert.Contains(t, types, "order_accepted")
	assert.Contains(t, types, "order_completed")
	assert.Contains(t, types, "review_disputed")
	// in_progress is a silent transition.
	assert.NotContains(t, types, "order_in_progress")
}

func TestStatusTransitionGuard(t *testing.T) {
	s := setupSuite(t)

	masterToken := s.register(t, "master@example.com", "master")
	customerToken := s.register(t, "customer@example.com", "customer")
	serviceID := s.createService(t, masterToken)
	orderID := s.createOrder(t, customerToken, serviceID)

	// pending -> completed is an illegal jump.
	assert.Equal(t, http.StatusConflict, s.setStatus(t, masterToken, orderID, "completed").Code)

	// The customer cannot drive the lifecycle.
	assert.Equal(t, http.StatusForbidden, s.setStatus(t, customerToken, orderID, "accepted").Code)

	// Terminal states are frozen.
	require.Equal(t, http.StatusOK, s.setStatus(t, masterToken, orderID, "rejected").Code)
	assert.Equal(t, http.StatusConflict, s.setStatus(t, masterToken, orderID, "accepted").Code)
}

func TestReviewRequiresCompletedOrder(t *testing.T) {
	s := setupSuite(t)

	masterToken := s.register(t, "master@example.com", "master")
	customerToken := s.register(t, "customer@example.com", "customer")
	serviceID := s.createService(t, masterToken)
	orderID := s.createOrder(t, customerToken, serviceID)

	w, resp := s.do(t, http.MethodPost, "/api/v1/reviews", customerToken, map[string]interface{}{
		"order_id": orderID,
		"rating":   5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestOrderAccessControl(t *testing.T) {
	s := setupSuite(t)

	masterToken := s.register(t, "master@example.com", "master")
	customerToken := s.register(t, "customer@example.com", "customer")
	strangerToken := s.register(t, "stranger@example.com", "customer")
	serviceID := s.createService(t, masterToken)
	orderID := s.createOrder(t, customerToken, serviceID)

	// Participants can read.
	w, _ := s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", orderID), masterToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Strangers cannot.
	w, _ = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", orderID), strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Unauthenticated requests bounce at the middleware.
	w, _ = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", orderID), "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMessagingFlow(t *testing.T) {
	s := setupSuite(t)

	masterToken := s.register(t, "master@example.com", "master")
	customerToken := s.register(t, "customer@example.com", "customer")
	serviceID := s.createService(t, masterToken)
	orderID := s.createOrder(t, customerToken, serviceID)

	// Customer writes, master reads.
	w, _ := s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/messages", orderID), customerToken, map[string]interface{}{
		"content": "Здравствуйте! Когда будет готово?",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp := s.do(t, http.MethodGet, "/api/v1/chats", masterToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var chats struct {
		Chats []struct {
			OrderID     int64 `json:"order_id"`
			UnreadCount int64 `json:"unread_count"`
		} `json:"chats"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &chats))
	require.Len(t, chats.Chats, 1)
	assert.Equal(t, orderID, chats.Chats[0].OrderID)
	assert.Equal(t, int64(1), chats.Chats[0].UnreadCount)

	// Mark read flips the counter.
	w, resp = s.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/orders/%d/messages/read", orderID), masterToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var marked struct {
		MarkedRead int64 `json:"marked_read"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &marked))
	assert.Equal(t, int64(1), marked.MarkedRead)

	// A third party cannot post into the chat.
	strangerToken := s.register(t, "stranger@example.com", "customer")
	w, _ = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/messages", orderID), strangerToken, map[string]interface{}{
		"content": "Привет",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The message fan-out reached the master.
	s.dispatcher.Wait()
	w, resp = s.do(t, http.MethodGet, "/api/v1/notifications?unread_only=true", masterToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var inbox struct {
		UnreadCount int64 `json:"unread_count"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &inbox))
	assert.GreaterOrEqual(t, inbox.UnreadCount, int64(1))
}

func TestInactiveServiceRejectsOrders(t *testing.T) {
	s := setupSuite(t)

	masterToken := s.register(t, "master@example.com", "master")
	customerToken := s.register(t, "customer@example.com", "customer")
	serviceID := s.createService(t, masterToken)

	w, _ := s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/services/%d", serviceID), masterToken, map[string]interface{}{
		"is_active": false,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, resp := s.do(t, http.MethodPost, "/api/v1/orders", customerToken, map[string]interface{}{
		"service_id":  serviceID,
		"description": "Нужен синий свитер 52 размера",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestDuplicateRegistrationConflicts(t *testing.T) {
	s := setupSuite(t)

	s.register(t, "dup@example.com", "customer")

	w, resp := s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"name":     "Test User",
		"email":    "dup@example.com",
		"password": "secret123",
		"role":     "customer",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CONFLICT", resp.Error.Code)
}

// Clearing a profile field with an empty string must reach the database,
// not just the response body.
func TestProfileFieldClearing(t *testing.T) {
	s := setupSuite(t)

	token := s.register(t, "profile@example.com", "master")

	w, _ := s.do(t, http.MethodPut, "/api/v1/users/me", token, map[string]interface{}{
		"phone": "+79110000000",
		"bio":   "Вяжу на заказ",
	})
	require.Equal(t, http.StatusOK, w.Code, "update failed: %s", w.Body.String())

	w, _ = s.do(t, http.MethodPut, "/api/v1/users/me", token, map[string]interface{}{
		"phone": "",
	})
	require.Equal(t, http.StatusOK, w.Code, "clear failed: %s", w.Body.String())

	w, resp := s.do(t, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var me struct {
		Phone string `json:"phone"`
		Bio   string `json:"bio"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &me))
	assert.Empty(t, me.Phone, "cleared phone must not survive a re-read")
	assert.Equal(t, "Вяжу на заказ", me.Bio)
}
