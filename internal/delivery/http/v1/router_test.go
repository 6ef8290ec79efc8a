package v1

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"truckzone-contact-api/config"
	"truckzone-contact-api/internal/domain"
	"truckzone-contact-api/pkg/apperror"
	"truckzone-contact-api/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const examplePayload = `{"firstName":"Jane","lastName":"Doe","email":"jane@example.com","phone":"+1 555 0100","subject":"Quote","message":"Need a quote for two trailers"}`

func init() {
	gin.SetMode(gin.TestMode)
}

type MockContactUsecase struct {
	mock.Mock
}

func (m *MockContactUsecase) SendContactMessage(ctx context.Context, req *domain.ContactRequest) error {
	return m.Called(ctx, req).Error(0)
}

type MockHealthUsecase struct {
	mock.Mock
}

func (m *MockHealthUsecase) Check(ctx context.Context) domain.HealthStatus {
	return m.Called(ctx).Get(0).(domain.HealthStatus)
}

func testRouterConfig(threshold int) *config.Config {
	return &config.Config{
		CORSOrigins:               []string{"https://truck-zone.ca"},
		RateLimitWindowSeconds:    60,
		RateLimitContactThreshold: threshold,
	}
}

func buildRouter(t *testing.T, contactUC domain.ContactUsecase, cfg *config.Config) *gin.Engine {
	t.Helper()
	healthUC := new(MockHealthUsecase)
	healthUC.On("Check", mock.Anything).Return(domain.HealthStatus{Status: "ok", SMTP: "configured", RateLimitStore: "memory"})

	r, err := NewRouter(RouterDeps{
		ContactUC: contactUC,
		HealthUC:  healthUC,
		Config:    cfg,
		Validate:  validation.New(),
	})
	require.NoError(t, err)
	return r
}

func newTestRouter(t *testing.T, contactUC domain.ContactUsecase, threshold int) *gin.Engine {
	t.Helper()
	return buildRouter(t, contactUC, testRouterConfig(threshold))
}

func do(r http.Handler, method, path, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Origin", "https://truck-zone.ca")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestContactPreflight(t *testing.T) {
	uc := new(MockContactUsecase)
	r := newTestRouter(t, uc, 10)

	w := do(r, http.MethodOptions, "/contact", "", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, "https://truck-zone.ca", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", w.Header().Get("Vary"))
	uc.AssertNotCalled(t, "SendContactMessage", mock.Anything, mock.Anything)
}

func TestContactPreflightUnlistedOrigin(t *testing.T) {
	r := newTestRouter(t, new(MockContactUsecase), 10)

	req := httptest.NewRequest(http.MethodOptions, "/contact", nil)
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", w.Header().Get("Vary"))
}

func TestContactMethodNotAllowed(t *testing.T) {
	uc := new(MockContactUsecase)
	r := newTestRouter(t, uc, 10)

	w := do(r, http.MethodGet, "/contact", "", "")

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"Method Not Allowed"}`, w.Body.String())
	uc.AssertNotCalled(t, "SendContactMessage", mock.Anything, mock.Anything)
}

func TestContactSuccess(t *testing.T) {
	for _, contentType := range []string{"application/json", "text/plain", ""} {
		t.Run("content type "+contentType, func(t *testing.T) {
			uc := new(MockContactUsecase)
			uc.On("SendContactMessage", mock.Anything, mock.MatchedBy(func(req *domain.ContactRequest) bool {
				return req.FirstName == "Jane" && req.Email == "jane@example.com" && req.PhoneNumber() == "+1 555 0100"
			})).Return(nil).Once()
			r := newTestRouter(t, uc, 10)

			w := do(r, http.MethodPost, "/contact", contentType, examplePayload)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"ok":true}`, w.Body.String())
			assert.Equal(t, "https://truck-zone.ca", w.Header().Get("Access-Control-Allow-Origin"))
			uc.AssertExpectations(t)
		})
	}
}

func TestContactVersionedMount(t *testing.T) {
	uc := new(MockContactUsecase)
	uc.On("SendContactMessage", mock.Anything, mock.Anything).Return(nil).Once()
	r := newTestRouter(t, uc, 10)

	w := do(r, http.MethodPost, "/v1/contact", "application/json", examplePayload)

	assert.Equal(t, http.StatusOK, w.Code)
	uc.AssertExpectations(t)
}

func TestContactInvalidJSON(t *testing.T) {
	uc := new(MockContactUsecase)
	r := newTestRouter(t, uc, 10)

	w := do(r, http.MethodPost, "/contact", "application/json", `{"firstName":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"Invalid JSON"}`, w.Body.String())
	uc.AssertNotCalled(t, "SendContactMessage", mock.Anything, mock.Anything)
}

func TestContactWrongFieldType(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"numeric first name", `{"firstName":42}`, "First name is required"},
		{"numeric phone on a valid submission", `{"firstName":"Jane","lastName":"Doe","email":"jane@example.com","phone":5550100,"subject":"Q","message":"x"}`, "Phone must be text"},
		{"earlier empty field wins over type mismatch", `{"firstName":"","lastName":5,"email":"jane@example.com","subject":"Q","message":"x"}`, "First name is required"},
		{"earlier type mismatch wins over later empty field", `{"firstName":"Jane","lastName":"Doe","email":"jane@example.com","phone":true,"subject":"","message":"x"}`, "Phone must be text"},
		{"earliest of several mismatches", `{"message":1,"subject":2,"firstName":"Jane","lastName":["Doe"],"email":"jane@example.com"}`, "Last name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(MockContactUsecase)
			r := newTestRouter(t, uc, 10)

			w := do(r, http.MethodPost, "/contact", "application/json", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"ok":false,"error":"`+tt.message+`"}`, w.Body.String())
			uc.AssertNotCalled(t, "SendContactMessage", mock.Anything, mock.Anything)
		})
	}
}

func TestContactEmptyBodyIsEmptySubmission(t *testing.T) {
	for _, body := range []string{"", "   ", "null", "{}"} {
		uc := new(MockContactUsecase)
		r := newTestRouter(t, uc, 10)

		w := do(r, http.MethodPost, "/contact", "application/json", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"ok":false,"error":"First name is required"}`, w.Body.String())
		uc.AssertNotCalled(t, "SendContactMessage", mock.Anything, mock.Anything)
	}
}

func TestContactPayloadTooLarge(t *testing.T) {
	uc := new(MockContactUsecase)
	r := newTestRouter(t, uc, 10)

	body := `{"message":"` + strings.Repeat("a", maxContactBodyBytes) + `"}`
	w := do(r, http.MethodPost, "/contact", "application/json", body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	uc.AssertNotCalled(t, "SendContactMessage", mock.Anything, mock.Anything)
}

func TestContactUsecaseErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"validation", apperror.BadRequest("Valid email required"), http.StatusBadRequest, `{"ok":false,"error":"Valid email required"}`},
		{"not configured", apperror.New(http.StatusInternalServerError, "SMTP not configured", nil), http.StatusInternalServerError, `{"ok":false,"error":"SMTP not configured"}`},
		{"transport failure", errors.New("failed to send internal lead: 550 relay denied"), http.StatusInternalServerError, `{"ok":false,"error":"Internal Server Error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(MockContactUsecase)
			uc.On("SendContactMessage", mock.Anything, mock.Anything).Return(tt.err)
			r := newTestRouter(t, uc, 10)

			w := do(r, http.MethodPost, "/contact", "application/json", examplePayload)

			assert.Equal(t, tt.code, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestContactRateLimitSharedAcrossMounts(t *testing.T) {
	uc := new(MockContactUsecase)
	uc.On("SendContactMessage", mock.Anything, mock.Anything).Return(nil)
	r := newTestRouter(t, uc, 2)

	// Pre-flights are not counted
	require.Equal(t, http.StatusNoContent, do(r, http.MethodOptions, "/contact", "", "").Code)

	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/contact", "application/json", examplePayload).Code)
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/v1/contact", "application/json", examplePayload).Code)

	w := do(r, http.MethodPost, "/contact", "application/json", examplePayload)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"Too Many Requests"}`, w.Body.String())
	uc.AssertNumberOfCalls(t, "SendContactMessage", 2)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, new(MockContactUsecase), 10)

	w := do(r, http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"data":{"status":"ok","smtp":"configured","rateLimitStore":"memory"}}`, w.Body.String())
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestContactRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	uc := new(MockContactUsecase)
	uc.On("SendContactMessage", mock.Anything, mock.Anything).Return(nil)
	r := newTestRouter(t, uc, 1)

	codes := make([]int, 0, 5)
	for i := 1; i <= 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(examplePayload))
		req.RemoteAddr = "203.0.113.9:40000"
		req.Header.Set("X-Forwarded-For", "10.0.0."+strconv.Itoa(i))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{200, 429, 429, 429, 429}, codes)
	uc.AssertNumberOfCalls(t, "SendContactMessage", 1)
}

func TestContactRateLimitHonoursTrustedProxy(t *testing.T) {
	uc := new(MockContactUsecase)
	uc.On("SendContactMessage", mock.Anything, mock.Anything).Return(nil)
	cfg := testRouterConfig(1)
	cfg.TrustedProxies = []string{"203.0.113.0/24"}
	r := buildRouter(t, uc, cfg)

	for i := 1; i <= 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(examplePayload))
		req.RemoteAddr = "203.0.113.9:40000"
		req.Header.Set("X-Forwarded-For", "198.51.100."+strconv.Itoa(i))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestNewRouterRejectsInvalidTrustedProxies(t *testing.T) {
	cfg := testRouterConfig(10)
	cfg.TrustedProxies = []string{"not-a-cidr"}

	_, err := NewRouter(RouterDeps{ContactUC: new(MockContactUsecase), HealthUC: new(MockHealthUsecase), Config: cfg})
	assert.Error(t, err)
}
