package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cocopets/boarding/internal/domain/models"
	"github.com/cocopets/boarding/internal/pricing"
)

// PricingHandler exposes the quote calculator and the public rate catalog.
type PricingHandler struct {
	cfg    pricing.Config
	logger *zap.Logger
}

// NewPricingHandler constructs the pricing HTTP adapter.
func NewPricingHandler(cfg pricing.Config, logger *zap.Logger) *PricingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PricingHandler{cfg: cfg, logger: logger}
}

type quoteRequest struct {
	PetType             string   `json:"petType" binding:"required"`
	PetSize             string   `json:"petSize"`
	StartDate           string   `json:"startDate" binding:"required"`
	EndDate             string   `json:"endDate" binding:"required"`
	AddOns              []string `json:"addOns"`
	PromoCode           string   `json:"promoCode"`
	IsReturningCustomer bool     `json:"isReturningCustomer"`
}

// Quote prices a prospective stay. Date validation happens here; the engine
// itself accepts whatever it is given.
func (h *PricingHandler) Quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "petType, startDate and endDate are required")
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		badRequest(c, "startDate must be an ISO-8601 date")
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		badRequest(c, "endDate must be an ISO-8601 date")
		return
	}
	if !start.Before(end) {
		badRequest(c, "endDate must be after startDate")
		return
	}

	quote := pricing.Calculate(h.cfg, pricing.Input{
		PetType:           models.PetType(req.PetType),
		PetSize:           models.PetSize(req.PetSize),
		StartDate:         start,
		EndDate:           end,
		AddOns:            req.AddOns,
		PromoCode:         req.PromoCode,
		ReturningCustomer: req.IsReturningCustomer,
	})

	c.JSON(http.StatusOK, quoteResponse(quote))
}

// Catalog returns the static rate tables for client-side display. Promo codes
// are listed by identifier only; amounts and eligibility stay server-side.
func (h *PricingHandler) Catalog(c *gin.Context) {
	promoCodes := make([]string, 0, len(h.cfg.Promos))
	for code := range h.cfg.Promos {
		promoCodes = append(promoCodes, code)
	}

	c.JSON(http.StatusOK, gin.H{
		"rates": gin.H{
			"cat": h.cfg.CatDailyRate,
			"dog": h.cfg.DogDailyRates,
		},
		"addOns":        h.cfg.AddOnRates,
		"promoCodes":    promoCodes,
		"discountTiers": h.cfg.Tiers,
	})
}

func quoteResponse(q models.PriceQuote) gin.H {
	return gin.H{
		"dailyRate":          q.DailyRate,
		"days":               q.Days,
		"subtotal":           q.Subtotal,
		"addOnsTotal":        q.AddOnsTotal,
		"discount":           q.DiscountAmount,
		"discountReason":     q.DiscountReason,
		"discountPercentage": q.DiscountPercentage,
		"tax":                q.TaxAmount,
		"total":              q.Total,
		"formatted": gin.H{
			"dailyRate":   pricing.FormatCents(q.DailyRate),
			"subtotal":    pricing.FormatCents(q.Subtotal),
			"addOnsTotal": pricing.FormatCents(q.AddOnsTotal),
			"discount":    pricing.FormatCents(q.DiscountAmount),
			"tax":         pricing.FormatCents(q.TaxAmount),
			"total":       pricing.FormatCents(q.Total),
			"deposit30":   pricing.FormatCents(q.Deposit30),
			"deposit50":   pricing.FormatCents(q.Deposit50),
		},
		"depositOptions": gin.H{
			"deposit30": q.Deposit30,
			"deposit50": q.Deposit50,
		},
	}
}

// parseDate accepts both date-only and full RFC 3339 timestamps.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
