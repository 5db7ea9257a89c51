package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cocopets/boarding/internal/availability"
	"github.com/cocopets/boarding/internal/domain"
	"github.com/cocopets/boarding/internal/domain/models"
)

// AvailabilityHandler exposes the boarding calendar and its admin edits.
type AvailabilityHandler struct {
	svc    *availability.Service
	logger *zap.Logger
}

// NewAvailabilityHandler constructs the availability HTTP adapter.
func NewAvailabilityHandler(svc *availability.Service, logger *zap.Logger) *AvailabilityHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityHandler{svc: svc, logger: logger}
}

// Get returns the day-by-day calendar. Accepts either start_date/end_date,
// a month=YYYY-MM token, or nothing (today through +60 days).
func (h *AvailabilityHandler) Get(c *gin.Context) {
	start, end, err := h.resolveRange(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var petType *models.PetType
	if raw := c.Query("pet_type"); raw != "" {
		pt := models.PetType(raw)
		if pt != models.PetTypeCat && pt != models.PetTypeDog {
			badRequest(c, "pet_type must be cat or dog")
			return
		}
		petType = &pt
	}

	days, err := h.svc.Range(c.Request.Context(), start, end, petType)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	type dayResponse struct {
		models.AvailabilityDay
		Available int `json:"available"`
	}
	out := make([]dayResponse, 0, len(days))
	for _, d := range days {
		out = append(out, dayResponse{AvailabilityDay: d, Available: d.Available()})
	}

	c.JSON(http.StatusOK, gin.H{
		"availability": out,
		"range": gin.H{
			"start": availability.Midnight(start).Format("2006-01-02"),
			"end":   availability.Midnight(end).Format("2006-01-02"),
		},
	})
}

func (h *AvailabilityHandler) resolveRange(c *gin.Context) (time.Time, time.Time, error) {
	if month := c.Query("month"); month != "" {
		return availability.MonthRange(month)
	}

	startRaw := c.Query("start_date")
	endRaw := c.Query("end_date")
	if startRaw == "" && endRaw == "" {
		start, end := availability.DefaultRange(time.Now())
		return start, end, nil
	}

	start, err := parseDate(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date must be an ISO-8601 date", domain.ErrValidation)
	}
	end, err := parseDate(endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date must be an ISO-8601 date", domain.ErrValidation)
	}
	return start, end, nil
}

type setAvailabilityRequest struct {
	Date        string             `json:"date" binding:"required"`
	PetType     models.PetType     `json:"petType" binding:"required"`
	Capacity    *models.Capacity   `json:"capacity"`
	IsBlocked   *bool              `json:"isBlocked"`
	BlockReason *string            `json:"blockReason"`
	Pricing     *models.DayPricing `json:"pricing"`
	Notes       *string            `json:"notes"`
}

// Set upserts one calendar day. Admin only; the router guards the route.
func (h *AvailabilityHandler) Set(c *gin.Context) {
	var req setAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "date and petType are required")
		return
	}

	if req.PetType != models.PetTypeCat && req.PetType != models.PetTypeDog {
		badRequest(c, "petType must be cat or dog")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		badRequest(c, "date must be an ISO-8601 date")
		return
	}

	day, err := h.svc.Set(c.Request.Context(), date, req.PetType, models.AvailabilityPatch{
		Capacity:    req.Capacity,
		IsBlocked:   req.IsBlocked,
		BlockReason: req.BlockReason,
		Pricing:     req.Pricing,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"availability": day, "available": day.Available()})
}
