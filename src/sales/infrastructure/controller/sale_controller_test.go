package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	catalogEntity "sales/src/catalog/domain/entity"
	"sales/src/catalog/infrastructure/cache"
	catalogPersistence "sales/src/catalog/infrastructure/persistence"
	commissionApp "sales/src/commission/application"
	commissionPersistence "sales/src/commission/infrastructure/persistence"
	packagesApp "sales/src/packages/application"
	packagesPersistence "sales/src/packages/infrastructure/persistence"
	pricingApp "sales/src/pricing/application"
	pricingEntity "sales/src/pricing/domain/entity"
	pricingPersistence "sales/src/pricing/infrastructure/persistence"
	"sales/src/sales/application/usecase"
	salesPersistence "sales/src/sales/infrastructure/persistence"
	"sales/src/shared/domain/saletype"
	"sales/src/shared/infrastructure/middleware"
	sharedPersistence "sales/src/shared/infrastructure/persistence"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const testSecret = "test-secret"

type testServer struct {
	router   *gin.Engine
	clients  *catalogPersistence.MemoryClientRepository
	services *pricingPersistence.MemoryServiceRepository
}

func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)

	clients := catalogPersistence.NewMemoryClientRepository()
	services := pricingPersistence.NewMemoryServiceRepository()
	policies := commissionPersistence.NewMemoryPolicyRepository()
	commissions := commissionPersistence.NewMemoryCommissionRepository()
	packages := packagesPersistence.NewMemoryPackageRepository()
	sales := salesPersistence.NewMemorySaleRepository()
	refunds := salesPersistence.NewMemoryRefundRepository()

	paymentMethods := cache.NewPaymentMethodCache()
	paymentMethods.Seed(cache.PaymentMethod{Code: "cash", Name: "Efectivo"})

	ledger := packagesApp.NewLedger(packages)
	pricingResolver := pricingApp.NewResolver(services)
	commissionResolver := commissionApp.NewResolver(policies)
	calculator := commissionApp.NewCalculator()
	tx := sharedPersistence.NewMemoryTxManager()

	createUC := usecase.NewCreateSaleUseCase(sales, clients, pricingResolver, commissionResolver, calculator, commissions, ledger, paymentMethods, tx, nil)
	updateUC := usecase.NewUpdateSaleUseCase(sales, pricingResolver, commissionResolver, calculator, commissions, ledger, paymentMethods, tx)
	confirmUC := usecase.NewConfirmSaleUseCase(sales, paymentMethods)
	cancelUC := usecase.NewCancelSaleUseCase(sales, commissions, ledger, tx, nil)
	refundUC := usecase.NewRefundSaleUseCase(sales, refunds, tx, nil)
	getUC := usecase.NewGetSaleUseCase(sales, paymentMethods)
	listUC := usecase.NewListSalesUseCase(sales, paymentMethods)

	ctrl := NewSaleController(createUC, updateUC, confirmUC, cancelUC, refundUC, getUC, listUC, refunds)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.Use(middleware.JWTAuth(testSecret))
	ctrl.RegisterRoutes(v1)

	return &testServer{router: router, clients: clients, services: services}
}

func (s *testServer) seedPerson() uuid.UUID {
	id := uuid.New()
	s.clients.Seed(catalogEntity.Client{ID: id, Name: "Juan Pérez", Type: catalogEntity.ClientTypePerson, Active: true, CreatedAt: time.Now()})
	return id
}

func (s *testServer) seedService(unitPrice int64) uuid.UUID {
	id := uuid.New()
	s.services.SeedService(pricingEntity.Service{
		ID:           id,
		Name:         "hemograma",
		BasePrice:    decimal.NewFromInt(unitPrice),
		PricingModel: pricingEntity.PricingFlat,
		Active:       true,
		CreatedAt:    time.Now(),
	})
	s.services.SeedRange(pricingEntity.PriceRange{
		ID:            uuid.New(),
		ServiceID:     id,
		SaleType:      saletype.Common,
		MinQty:        1,
		UnitPrice:     decimal.NewFromInt(unitPrice),
		EffectiveFrom: time.Now().Add(-time.Hour),
		Active:        true,
	})
	return id
}

func signToken(t *testing.T, attendantID uuid.UUID, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  attendantID.String(),
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateSaleRequiresAuth(t *testing.T) {
	s := newTestServer()

	rec := doRequest(t, s.router, http.MethodPost, "/api/v1/sales", "", gin.H{})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestCreateAndGetSaleOverHTTP(t *testing.T) {
	s := newTestServer()
	clientID := s.seedPerson()
	serviceID := s.seedService(120)
	token := signToken(t, uuid.New(), "attendant")

	rec := doRequest(t, s.router, http.MethodPost, "/api/v1/sales", token, gin.H{
		"sale_type":      "common",
		"client_id":      clientID,
		"payment_method": "cash",
		"items":          []gin.H{{"service_id": serviceID, "quantity": 2}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var created struct {
		SaleID   uuid.UUID       `json:"sale_id"`
		Total    decimal.Decimal `json:"total"`
		Status   string          `json:"status"`
		SaleType string          `json:"sale_type"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !created.Total.Equal(decimal.NewFromInt(240)) {
		t.Fatalf("total = %s, want 240", created.Total)
	}
	if created.Status != "open" {
		t.Fatalf("status = %s, want open", created.Status)
	}

	rec = doRequest(t, s.router, http.MethodGet, fmt.Sprintf("/api/v1/sales/%s", created.SaleID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
}

func TestRefundConflictOverHTTP(t *testing.T) {
	s := newTestServer()
	clientID := s.seedPerson()
	serviceID := s.seedService(100)
	token := signToken(t, uuid.New(), "attendant")

	rec := doRequest(t, s.router, http.MethodPost, "/api/v1/sales", token, gin.H{
		"sale_type":      "common",
		"client_id":      clientID,
		"payment_method": "cash",
		"status":         "confirmed",
		"items":          []gin.H{{"service_id": serviceID, "quantity": 1}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var created struct {
		SaleID uuid.UUID `json:"sale_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	// devolución mayor al total: 409
	rec = doRequest(t, s.router, http.MethodPost, fmt.Sprintf("/api/v1/sales/%s/refund", created.SaleID), token, gin.H{
		"amount": "150",
		"reason": "reclamo",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("refund status = %d, want 409, body = %s", rec.Code, rec.Body.String())
	}
}

func TestMalformedSaleDateReturns400(t *testing.T) {
	s := newTestServer()
	clientID := s.seedPerson()
	serviceID := s.seedService(100)
	token := signToken(t, uuid.New(), "attendant")

	rec := doRequest(t, s.router, http.MethodPost, "/api/v1/sales", token, gin.H{
		"sale_type":      "common",
		"client_id":      clientID,
		"sale_date":      "not-a-date",
		"payment_method": "cash",
		"items":          []gin.H{{"service_id": serviceID, "quantity": 1}},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error == "" {
		t.Fatal("error message should not be empty")
	}
}

func TestUnknownSaleReturns404(t *testing.T) {
	s := newTestServer()
	token := signToken(t, uuid.New(), "attendant")

	rec := doRequest(t, s.router, http.MethodGet, fmt.Sprintf("/api/v1/sales/%s", uuid.New()), token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
