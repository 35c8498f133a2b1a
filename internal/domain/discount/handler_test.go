package discount

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holidaysri/promo-api/internal/middleware"
)

func fakeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), middleware.UserIDKey, uuid.New())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func postQuote(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewHandler(newTestService())
	srv := h.Routes(fakeAuth)

	req := httptest.NewRequest(http.MethodPost, "/quote", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestQuoteEndpointSuccess(t *testing.T) {
	rec := postQuote(t, `{
		"purchase_type": "booking",
		"original_amount": 1000,
		"currency": "HSC",
		"candidate_promo_code": "GOLD8888"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool  `json:"success"`
		Data    Quote `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, int64(100), body.Data.DiscountAmount)
	assert.Equal(t, int64(900), body.Data.FinalAmount)
}

func TestQuoteEndpointInvalidCode(t *testing.T) {
	rec := postQuote(t, `{
		"purchase_type": "booking",
		"original_amount": 1000,
		"currency": "HSC",
		"candidate_promo_code": "NOSUCH00"
	}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_CODE")
}

func TestQuoteEndpointIneligibleCurrency(t *testing.T) {
	rec := postQuote(t, `{
		"purchase_type": "advertisement",
		"original_amount": 1000,
		"currency": "HSD",
		"candidate_promo_code": "GOLD8888"
	}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "INELIGIBLE_CURRENCY")
}

func TestQuoteEndpointValidation(t *testing.T) {
	rec := postQuote(t, `{"original_amount": 1000}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")

	rec = postQuote(t, `not-json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
