package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cocopets/boarding/internal/pricing"
	"github.com/cocopets/boarding/internal/server/handlers"
)

func pricingRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handlers.NewPricingHandler(pricing.DefaultConfig(), nil)
	r := gin.New()
	r.POST("/api/pricing/quote", h.Quote)
	r.GET("/api/pricing/catalog", h.Catalog)
	return r
}

func postQuote(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/pricing/quote", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestQuote_CatTenDays(t *testing.T) {
	rec := postQuote(t, pricingRouter(), `{
		"petType": "cat",
		"startDate": "2026-06-01",
		"endDate": "2026-06-11"
	}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		DailyRate      int64  `json:"dailyRate"`
		Days           int    `json:"days"`
		Subtotal       int64  `json:"subtotal"`
		Discount       int64  `json:"discount"`
		DiscountReason string `json:"discountReason"`
		Tax            int64  `json:"tax"`
		Total          int64  `json:"total"`
		Formatted      struct {
			Total string `json:"total"`
		} `json:"formatted"`
		DepositOptions struct {
			Deposit30 int64 `json:"deposit30"`
			Deposit50 int64 `json:"deposit50"`
		} `json:"depositOptions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, int64(2500), body.DailyRate)
	assert.Equal(t, 10, body.Days)
	assert.Equal(t, int64(25000), body.Subtotal)
	assert.Equal(t, int64(2500), body.Discount)
	assert.Equal(t, "Weekly discount (10%)", body.DiscountReason)
	assert.Equal(t, int64(1406), body.Tax)
	assert.Equal(t, int64(23906), body.Total)
	assert.Equal(t, "$239.06", body.Formatted.Total)
	assert.Equal(t, int64(7172), body.DepositOptions.Deposit30)
	assert.Equal(t, int64(11953), body.DepositOptions.Deposit50)
}

func TestQuote_EndNotAfterStart(t *testing.T) {
	rec := postQuote(t, pricingRouter(), `{
		"petType": "dog",
		"startDate": "2026-06-05",
		"endDate": "2026-06-05"
	}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Contains(t, body.Error.Message, "endDate")
}

func TestQuote_MissingFields(t *testing.T) {
	rec := postQuote(t, pricingRouter(), `{"petType": "dog"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuote_BadDateFormat(t *testing.T) {
	rec := postQuote(t, pricingRouter(), `{
		"petType": "dog",
		"startDate": "June 5th",
		"endDate": "2026-06-10"
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuote_AcceptsRFC3339Timestamps(t *testing.T) {
	rec := postQuote(t, pricingRouter(), `{
		"petType": "cat",
		"startDate": "2026-06-01T00:00:00Z",
		"endDate": "2026-06-04T00:00:00Z"
	}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Days int `json:"days"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Days)
}

func TestCatalog_OmitsPromoDetails(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/pricing/catalog", nil)
	rec := httptest.NewRecorder()
	pricingRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Rates struct {
			Cat int64            `json:"cat"`
			Dog map[string]int64 `json:"dog"`
		} `json:"rates"`
		AddOns     map[string]int64 `json:"addOns"`
		PromoCodes []string         `json:"promoCodes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, int64(2500), body.Rates.Cat)
	assert.Equal(t, int64(5000), body.Rates.Dog["medium"])
	assert.Equal(t, int64(3500), body.AddOns["grooming"])
	assert.ElementsMatch(t, []string{"WELCOME10", "SUMMER15", "TREAT500"}, body.PromoCodes)
	// Promo values and eligibility rules stay out of the public payload.
	assert.NotContains(t, rec.Body.String(), "10% off your first stay")
}
