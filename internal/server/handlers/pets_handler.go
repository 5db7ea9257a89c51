package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/cocopets/boarding/internal/auth"
	"github.com/cocopets/boarding/internal/domain"
	"github.com/cocopets/boarding/internal/domain/models"
	"github.com/cocopets/boarding/internal/repository/mongodb"
)

// PetsHandler handles pet profile CRUD for the authenticated owner.
type PetsHandler struct {
	pets   *mongodb.PetRepo
	logger *zap.Logger
}

// NewPetsHandler constructs the pets HTTP adapter.
func NewPetsHandler(pets *mongodb.PetRepo, logger *zap.Logger) *PetsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PetsHandler{pets: pets, logger: logger}
}

type petRequest struct {
	Name             string         `json:"name" binding:"required"`
	PetType          models.PetType `json:"petType" binding:"required"`
	PetSize          models.PetSize `json:"petSize"`
	Breed            string         `json:"breed"`
	VaccinationNotes string         `json:"vaccinationNotes"`
	Notes            string         `json:"notes"`
}

func (r petRequest) validate() string {
	if r.PetType != models.PetTypeCat && r.PetType != models.PetTypeDog {
		return "petType must be cat or dog"
	}
	switch r.PetSize {
	case "", models.PetSizeSmall, models.PetSizeMedium, models.PetSizeLarge:
		return ""
	}
	return "petSize must be small, medium or large"
}

// Create registers a pet profile under the caller's account.
func (h *PetsHandler) Create(c *gin.Context) {
	var req petRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name and petType are required")
		return
	}
	if msg := req.validate(); msg != "" {
		badRequest(c, msg)
		return
	}

	pet, err := h.pets.Create(c.Request.Context(), models.Pet{
		OwnerID:          auth.UserID(c),
		Name:             req.Name,
		Type:             req.PetType,
		Size:             req.PetSize,
		Breed:            req.Breed,
		VaccinationNotes: req.VaccinationNotes,
		Notes:            req.Notes,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"pet": pet})
}

// List returns the caller's pets.
func (h *PetsHandler) List(c *gin.Context) {
	pets, err := h.pets.ListByOwner(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pets": pets})
}

// Get returns one pet, owner only.
func (h *PetsHandler) Get(c *gin.Context) {
	pet, err := h.ownedPet(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pet": pet})
}

// Update replaces a pet profile's mutable fields, owner only.
func (h *PetsHandler) Update(c *gin.Context) {
	pet, err := h.ownedPet(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req petRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name and petType are required")
		return
	}
	if msg := req.validate(); msg != "" {
		badRequest(c, msg)
		return
	}

	pet.Name = req.Name
	pet.Type = req.PetType
	pet.Size = req.PetSize
	pet.Breed = req.Breed
	pet.VaccinationNotes = req.VaccinationNotes
	pet.Notes = req.Notes

	updated, err := h.pets.Update(c.Request.Context(), pet)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pet": updated})
}

// Delete removes a pet profile, owner only.
func (h *PetsHandler) Delete(c *gin.Context) {
	pet, err := h.ownedPet(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.pets.Delete(c.Request.Context(), pet.ID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PetsHandler) ownedPet(c *gin.Context) (models.Pet, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return models.Pet{}, domain.ErrNotFound
	}

	pet, err := h.pets.FindByID(c.Request.Context(), id)
	if err != nil {
		return models.Pet{}, err
	}
	if pet.OwnerID != auth.UserID(c) && auth.RoleOf(c) != models.RoleAdmin {
		return models.Pet{}, domain.ErrForbidden
	}
	return pet, nil
}
