package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vaultapp "github.com/vivenda/backend/internal/application/vault"
	"github.com/vivenda/backend/internal/domain/shared"
	"github.com/vivenda/backend/internal/domain/vault"
	"github.com/vivenda/backend/internal/interfaces/http/dto"
)

// In-memory mocks for consent handler tests

type mockConsentRepository struct {
	records map[string]*vault.ConsentAcceptance
}

func newMockConsentRepository() *mockConsentRepository {
	return &mockConsentRepository{records: make(map[string]*vault.ConsentAcceptance)}
}

func consentKey(userID, propertyID uuid.UUID) string {
	return userID.String() + "/" + propertyID.String()
}

func (m *mockConsentRepository) FindByUserAndProperty(ctx context.Context, userID, propertyID uuid.UUID) (*vault.ConsentAcceptance, error) {
	if c, ok := m.records[consentKey(userID, propertyID)]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (m *mockConsentRepository) ExistsForUserAndProperty(ctx context.Context, userID, propertyID uuid.UUID) (bool, error) {
	_, ok := m.records[consentKey(userID, propertyID)]
	return ok, nil
}

func (m *mockConsentRepository) Create(ctx context.Context, consent *vault.ConsentAcceptance) error {
	key := consentKey(consent.UserID, consent.PropertyID)
	if _, ok := m.records[key]; ok {
		return shared.ErrAlreadyExists
	}
	m.records[key] = consent
	return nil
}

type mockPropertyRepository struct {
	properties map[uuid.UUID]*vault.Property
}

func newMockPropertyRepository() *mockPropertyRepository {
	return &mockPropertyRepository{properties: make(map[uuid.UUID]*vault.Property)}
}

func (m *mockPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*vault.Property, error) {
	if p, ok := m.properties[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func newConsentTestRouter(consentRepo *mockConsentRepository, propertyRepo *mockPropertyRepository) *gin.Engine {
	service := vaultapp.NewConsentService(consentRepo, propertyRepo)
	h := NewConsentHandler(service)

	router := gin.New()
	router.POST("/vault/consent", h.Accept)
	router.GET("/vault/consent/:propertyId/status", h.Status)
	return router
}

func acceptConsentBody(propertyID uuid.UUID) []byte {
	body, _ := json.Marshal(map[string]any{
		"property_id":            propertyID,
		"is_owner_or_authorized": true,
		"documents_are_genuine":  true,
		"accepts_sharing":        true,
		"accepts_data_retention": true,
		"accepts_terms":          true,
		"terms_version":          "2026-01",
	})
	return body
}

func TestConsentHandlerAccept(t *testing.T) {
	ownerID := uuid.New()
	propertyID := uuid.New()

	newProperty := func() *vault.Property {
		return &vault.Property{
			BaseEntity: shared.NewBaseEntity(),
			OwnerID:    ownerID,
			Title:      "T2 em Alvalade",
			City:       "Lisboa",
		}
	}

	t.Run("first acceptance returns 201", func(t *testing.T) {
		consentRepo := newMockConsentRepository()
		propertyRepo := newMockPropertyRepository()
		property := newProperty()
		property.ID = propertyID
		propertyRepo.properties[propertyID] = property
		router := newConsentTestRouter(consentRepo, propertyRepo)

		req := httptest.NewRequest("POST", "/vault/consent", bytes.NewReader(acceptConsentBody(propertyID)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", ownerID.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp struct {
			Success bool                     `json:"success"`
			Data    vaultapp.ConsentResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, propertyID, resp.Data.PropertyID)
		assert.False(t, resp.Data.PreExisting)
	})

	t.Run("repeat acceptance returns 200 with pre-existing record", func(t *testing.T) {
		consentRepo := newMockConsentRepository()
		propertyRepo := newMockPropertyRepository()
		property := newProperty()
		property.ID = propertyID
		propertyRepo.properties[propertyID] = property
		router := newConsentTestRouter(consentRepo, propertyRepo)

		for i, wantStatus := range []int{http.StatusCreated, http.StatusOK} {
			req := httptest.NewRequest("POST", "/vault/consent", bytes.NewReader(acceptConsentBody(propertyID)))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-User-ID", ownerID.String())
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			require.Equal(t, wantStatus, w.Code, fmt.Sprintf("attempt %d: %s", i, w.Body.String()))
		}
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		consentRepo := newMockConsentRepository()
		propertyRepo := newMockPropertyRepository()
		property := newProperty()
		property.ID = propertyID
		propertyRepo.properties[propertyID] = property
		router := newConsentTestRouter(consentRepo, propertyRepo)

		req := httptest.NewRequest("POST", "/vault/consent", bytes.NewReader(acceptConsentBody(propertyID)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", uuid.New().String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeForbidden)
	})

	t.Run("unknown property returns 404", func(t *testing.T) {
		router := newConsentTestRouter(newMockConsentRepository(), newMockPropertyRepository())

		req := httptest.NewRequest("POST", "/vault/consent", bytes.NewReader(acceptConsentBody(uuid.New())))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", ownerID.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unauthenticated returns 401", func(t *testing.T) {
		router := newConsentTestRouter(newMockConsentRepository(), newMockPropertyRepository())

		req := httptest.NewRequest("POST", "/vault/consent", bytes.NewReader(acceptConsentBody(propertyID)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestConsentHandlerStatus(t *testing.T) {
	ownerID := uuid.New()
	propertyID := uuid.New()

	consentRepo := newMockConsentRepository()
	consent, err := vault.NewConsentAcceptance(ownerID, propertyID, vault.ConsentDeclarations{
		IsOwnerOrAuthorized:  true,
		DocumentsAreGenuine:  true,
		AcceptsSharing:       true,
		AcceptsDataRetention: true,
		AcceptsTerms:         true,
	}, "192.0.2.1", "test-agent", "2026-01")
	require.NoError(t, err)
	consentRepo.records[consentKey(ownerID, propertyID)] = consent

	router := newConsentTestRouter(consentRepo, newMockPropertyRepository())

	t.Run("accepted property", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/vault/consent/"+propertyID.String()+"/status", nil)
		req.Header.Set("X-User-ID", ownerID.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"accepted":true`)
	})

	t.Run("property without consent", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/vault/consent/"+uuid.New().String()+"/status", nil)
		req.Header.Set("X-User-ID", ownerID.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"accepted":false`)
	})

	t.Run("invalid property ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/vault/consent/not-a-uuid/status", nil)
		req.Header.Set("X-User-ID", ownerID.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
