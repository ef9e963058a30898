package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bedrijfslens/kvk-intel-api/internal/gate"
	"github.com/bedrijfslens/kvk-intel-api/internal/logger"
	"github.com/bedrijfslens/kvk-intel-api/internal/repository"
)

// memConsumers is an in-memory ConsumerRepository
type memConsumers struct {
	mu    sync.Mutex
	items map[uuid.UUID]*repository.Consumer
}

func newMemConsumers() *memConsumers {
	return &memConsumers{items: make(map[uuid.UUID]*repository.Consumer)}
}

func (m *memConsumers) GetByID(ctx context.Context, id uuid.UUID) (*repository.Consumer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if consumer, ok := m.items[id]; ok {
		copied := *consumer
		return &copied, nil
	}
	return nil, fmt.Errorf("consumer not found")
}

func (m *memConsumers) GetByEmail(ctx context.Context, email string) (*repository.Consumer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, consumer := range m.items {
		if consumer.Email == email {
			copied := *consumer
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("consumer with email %s not found", email)
}

func (m *memConsumers) Create(ctx context.Context, consumer *repository.Consumer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *consumer
	m.items[consumer.ID] = &copied
	return nil
}

func (m *memConsumers) Update(ctx context.Context, consumer *repository.Consumer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[consumer.ID]; !ok {
		return fmt.Errorf("consumer not found")
	}
	copied := *consumer
	m.items[consumer.ID] = &copied
	return nil
}

func (m *memConsumers) Deactivate(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	consumer, ok := m.items[id]
	if !ok {
		return fmt.Errorf("consumer not found")
	}
	consumer.Active = false
	return nil
}

func newAuthRouter(consumers repository.ConsumerRepository, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if role != "" {
			c.Set(gate.ConsumerRoleKey, role)
		}
	})
	handler := NewAuthHandler(gate.NewJWTService("test-secret"), consumers, logger.Nop())
	r.POST("/api/v1/auth/token", handler.Token)
	r.POST("/api/v1/auth/consumers", handler.CreateConsumer)
	r.POST("/api/v1/auth/consumers/:id/key", handler.RotateKey)
	r.DELETE("/api/v1/auth/consumers/:id", handler.DeactivateConsumer)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createConsumer(t *testing.T, r *gin.Engine, email string) (uuid.UUID, string) {
	t.Helper()
	w := postJSON(t, r, "/api/v1/auth/consumers", fmt.Sprintf(`{"naam": "Testbedrijf", "email": %q}`, email))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Consumer repository.Consumer `json:"consumer"`
		APIKey   string              `json:"apiKey"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	return resp.Consumer.ID, resp.APIKey
}

func exchangeToken(t *testing.T, r *gin.Engine, apiKey string) int {
	t.Helper()
	w := postJSON(t, r, "/api/v1/auth/token", fmt.Sprintf(`{"apiKey": %q}`, apiKey))
	return w.Code
}

func TestCreateConsumerIssuesWorkingKey(t *testing.T) {
	r := newAuthRouter(newMemConsumers(), "admin")

	consumerID, apiKey := createConsumer(t, r, "intel@acme.nl")

	parsedID, _, err := gate.ParseAPIKey(apiKey)
	if err != nil {
		t.Fatalf("Issued key must parse: %v", err)
	}
	if parsedID != consumerID {
		t.Errorf("Key embeds %s, consumer is %s", parsedID, consumerID)
	}

	if code := exchangeToken(t, r, apiKey); code != http.StatusOK {
		t.Errorf("Expected 200 exchanging a fresh key, got %d", code)
	}
}

func TestCreateConsumerDuplicateEmail(t *testing.T) {
	r := newAuthRouter(newMemConsumers(), "admin")
	createConsumer(t, r, "intel@acme.nl")

	w := postJSON(t, r, "/api/v1/auth/consumers", `{"naam": "Ander", "email": "intel@acme.nl"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 for duplicate email, got %d", w.Code)
	}
}

func TestCreateConsumerRequiresAdmin(t *testing.T) {
	r := newAuthRouter(newMemConsumers(), "consumer")

	w := postJSON(t, r, "/api/v1/auth/consumers", `{"naam": "Testbedrijf", "email": "intel@acme.nl"}`)
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for non-admin, got %d", w.Code)
	}
}

func TestRotateKeyInvalidatesOldKey(t *testing.T) {
	r := newAuthRouter(newMemConsumers(), "admin")
	consumerID, oldKey := createConsumer(t, r, "intel@acme.nl")

	w := postJSON(t, r, "/api/v1/auth/consumers/"+consumerID.String()+"/key", "{}")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		APIKey string `json:"apiKey"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if code := exchangeToken(t, r, oldKey); code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for the rotated-out key, got %d", code)
	}
	if code := exchangeToken(t, r, resp.APIKey); code != http.StatusOK {
		t.Errorf("Expected 200 for the new key, got %d", code)
	}
}

func TestRotateKeyUnknownConsumer(t *testing.T) {
	r := newAuthRouter(newMemConsumers(), "admin")

	w := postJSON(t, r, "/api/v1/auth/consumers/"+uuid.New().String()+"/key", "{}")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown consumer, got %d", w.Code)
	}
}

func TestDeactivateConsumer(t *testing.T) {
	r := newAuthRouter(newMemConsumers(), "admin")
	consumerID, apiKey := createConsumer(t, r, "intel@acme.nl")

	req := httptest.NewRequest("DELETE", "/api/v1/auth/consumers/"+consumerID.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", w.Code)
	}

	if code := exchangeToken(t, r, apiKey); code != http.StatusUnauthorized {
		t.Errorf("Deactivated consumer must not exchange tokens, got %d", code)
	}

	req = httptest.NewRequest("DELETE", "/api/v1/auth/consumers/"+uuid.New().String(), nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown consumer, got %d", w.Code)
	}
}
