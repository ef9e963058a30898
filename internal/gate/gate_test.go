package gate

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bedrijfslens/kvk-intel-api/internal/repository"
)

func TestAPIKeyRoundTrip(t *testing.T) {
	consumerID := uuid.New()

	key, hash, err := NewAPIKey(consumerID)
	if err != nil {
		t.Fatalf("NewAPIKey failed: %v", err)
	}

	parsedID, secret, err := ParseAPIKey(key)
	if err != nil {
		t.Fatalf("ParseAPIKey failed: %v", err)
	}
	if parsedID != consumerID {
		t.Errorf("Expected consumer %s, got %s", consumerID, parsedID)
	}
	if !CheckSecret(secret, hash) {
		t.Error("Secret should match its own hash")
	}
	if CheckSecret("verkeerd", hash) {
		t.Error("Wrong secret should not match")
	}
}

func TestParseAPIKeyMalformed(t *testing.T) {
	cases := []string{"", "zonderpunt", "geen-uuid.secret", uuid.New().String() + "."}
	for _, key := range cases {
		if _, _, err := ParseAPIKey(key); err == nil {
			t.Errorf("Expected error for %q", key)
		}
	}
}

func TestJWTRoundTrip(t *testing.T) {
	service := NewJWTService("test-secret")
	consumerID := uuid.New()

	token, _, err := service.GenerateToken(Claims{ConsumerID: consumerID, Email: "a@b.nl", Role: "admin"})
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := service.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.ConsumerID != consumerID || claims.Role != "admin" {
		t.Errorf("Unexpected claims %+v", claims)
	}

	if _, err := NewJWTService("ander-secret").ValidateToken(token); err == nil {
		t.Error("Token signed with another secret should be rejected")
	}
}

// stubConsumers serves a single consumer by ID
type stubConsumers struct {
	consumer *repository.Consumer
}

func (s *stubConsumers) GetByID(ctx context.Context, id uuid.UUID) (*repository.Consumer, error) {
	if s.consumer != nil && s.consumer.ID == id {
		return s.consumer, nil
	}
	return nil, fmt.Errorf("consumer not found")
}

func (s *stubConsumers) GetByEmail(ctx context.Context, email string) (*repository.Consumer, error) {
	return nil, fmt.Errorf("consumer not found")
}

func (s *stubConsumers) Create(ctx context.Context, consumer *repository.Consumer) error { return nil }

func (s *stubConsumers) Update(ctx context.Context, consumer *repository.Consumer) error { return nil }

func (s *stubConsumers) Deactivate(ctx context.Context, id uuid.UUID) error { return nil }

func newGateRouter(service *JWTService, consumers repository.ConsumerRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(service, consumers))
	r.GET("/beschermd", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestMiddlewareRequiresAuth(t *testing.T) {
	r := newGateRouter(NewJWTService("test-secret"), nil)

	req := httptest.NewRequest("GET", "/beschermd", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without credentials, got %d", w.Code)
	}
}

func TestMiddlewareAcceptsBearerToken(t *testing.T) {
	service := NewJWTService("test-secret")
	r := newGateRouter(service, nil)

	token, _, err := service.GenerateToken(Claims{ConsumerID: uuid.New(), Role: "consumer"})
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/beschermd", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 with valid token, got %d", w.Code)
	}
}

func TestMiddlewareAcceptsAPIKey(t *testing.T) {
	consumerID := uuid.New()
	key, hash, err := NewAPIKey(consumerID)
	if err != nil {
		t.Fatalf("NewAPIKey failed: %v", err)
	}

	consumers := &stubConsumers{consumer: &repository.Consumer{
		ID:      consumerID,
		KeyHash: hash,
		Role:    "consumer",
		Active:  true,
	}}
	r := newGateRouter(NewJWTService("test-secret"), consumers)

	req := httptest.NewRequest("GET", "/beschermd", nil)
	req.Header.Set("X-Api-Key", key)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 with valid API key, got %d", w.Code)
	}
}

func TestMiddlewareRejectsInactiveConsumer(t *testing.T) {
	consumerID := uuid.New()
	key, hash, _ := NewAPIKey(consumerID)

	consumers := &stubConsumers{consumer: &repository.Consumer{
		ID:      consumerID,
		KeyHash: hash,
		Active:  false,
	}}
	r := newGateRouter(NewJWTService("test-secret"), consumers)

	req := httptest.NewRequest("GET", "/beschermd", nil)
	req.Header.Set("X-Api-Key", key)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for inactive consumer, got %d", w.Code)
	}
}
