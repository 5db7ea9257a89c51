package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PetType enumerates the species the facility boards.
type PetType string

const (
	PetTypeCat PetType = "cat"
	PetTypeDog PetType = "dog"
)

// PetSize enumerates dog size classes used for rate lookup. Ignored for cats.
type PetSize string

const (
	PetSizeSmall  PetSize = "small"
	PetSizeMedium PetSize = "medium"
	PetSizeLarge  PetSize = "large"
)

// Pet is a guest profile owned by a customer account.
type Pet struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID          primitive.ObjectID `bson:"owner_id" json:"ownerId"`
	Name             string             `bson:"name" json:"name"`
	Type             PetType            `bson:"pet_type" json:"petType"`
	Size             PetSize            `bson:"size,omitempty" json:"petSize,omitempty"`
	Breed            string             `bson:"breed,omitempty" json:"breed,omitempty"`
	VaccinationNotes string             `bson:"vaccination_notes,omitempty" json:"vaccinationNotes,omitempty"`
	Notes            string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt        time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updatedAt"`
}
