package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/cocopets/boarding/internal/auth"
	"github.com/cocopets/boarding/internal/domain"
	"github.com/cocopets/boarding/internal/domain/models"
	bookingsvc "github.com/cocopets/boarding/internal/service/booking"
)

// BookingsHandler handles the customer booking lifecycle.
type BookingsHandler struct {
	svc    *bookingsvc.Service
	logger *zap.Logger
}

// NewBookingsHandler constructs the bookings HTTP adapter.
func NewBookingsHandler(svc *bookingsvc.Service, logger *zap.Logger) *BookingsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingsHandler{svc: svc, logger: logger}
}

type createBookingRequest struct {
	PetID          string   `json:"petId" binding:"required"`
	StartDate      string   `json:"startDate" binding:"required"`
	EndDate        string   `json:"endDate" binding:"required"`
	AddOns         []string `json:"addOns"`
	PromoCode      string   `json:"promoCode"`
	DepositPercent int      `json:"depositPercent"`
}

// Create books a stay and returns the booking with its checkout URL.
func (h *BookingsHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "petId, startDate and endDate are required")
		return
	}

	petID, err := primitive.ObjectIDFromHex(req.PetID)
	if err != nil {
		badRequest(c, "petId is not a valid id")
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

	result, err := h.svc.Create(c.Request.Context(), auth.UserID(c), bookingsvc.CreateInput{
		PetID:          petID,
		StartDate:      start,
		EndDate:        end,
		AddOns:         req.AddOns,
		PromoCode:      req.PromoCode,
		DepositPercent: models.DepositPercent(req.DepositPercent),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"booking":     result.Booking,
		"checkoutUrl": result.CheckoutURL,
	})
}

// List returns the caller's bookings.
func (h *BookingsHandler) List(c *gin.Context) {
	bookings, err := h.svc.ListMine(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// Get returns one booking, owner or admin.
func (h *BookingsHandler) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, domain.ErrNotFound)
		return
	}

	booking, err := h.svc.Get(c.Request.Context(), auth.UserID(c), auth.RoleOf(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// Cancel cancels a booking and releases its capacity.
func (h *BookingsHandler) Cancel(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, domain.ErrNotFound)
		return
	}

	if err := h.svc.Cancel(c.Request.Context(), auth.UserID(c), auth.RoleOf(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AdminList returns every booking, optionally filtered by ?status=. Admin
// only; the router guards the route.
func (h *BookingsHandler) AdminList(c *gin.Context) {
	bookings, err := h.svc.ListAll(c.Request.Context(), models.BookingStatus(c.Query("status")))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}
