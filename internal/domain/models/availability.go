package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Capacity tracks slot counters for one calendar day and one species.
type Capacity struct {
	Total   int `bson:"total" json:"total"`
	Booked  int `bson:"booked" json:"booked"`
	Blocked int `bson:"blocked" json:"blocked"`
}

// DayPricing is an optional per-day rate override. The pricing engine does not
// consult it yet; it is persisted so the admin calendar can round-trip it.
type DayPricing struct {
	Override   *int64   `bson:"override,omitempty" json:"override,omitempty"`
	Multiplier *float64 `bson:"multiplier,omitempty" json:"multiplier,omitempty"`
}

// AvailabilityDay is the capacity ledger for one (date, species) pair. Dates are
// stored truncated to UTC midnight.
type AvailabilityDay struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Date        time.Time          `bson:"date" json:"date"`
	PetType     PetType            `bson:"pet_type" json:"petType"`
	Capacity    Capacity           `bson:"capacity" json:"capacity"`
	IsBlocked   bool               `bson:"is_blocked" json:"isBlocked"`
	BlockReason string             `bson:"block_reason,omitempty" json:"blockReason,omitempty"`
	Pricing     *DayPricing        `bson:"pricing,omitempty" json:"pricing,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Available returns the number of open slots. A blocked day reports zero.
// Counters are not reconciled at write time, so the difference can go negative
// when booked+blocked exceeds total.
func (d AvailabilityDay) Available() int {
	if d.IsBlocked {
		return 0
	}
	return d.Capacity.Total - d.Capacity.Booked - d.Capacity.Blocked
}

// AvailabilityPatch is a partial update for one ledger day. Nil fields are left
// untouched by the upsert.
type AvailabilityPatch struct {
	Capacity    *Capacity   `json:"capacity,omitempty"`
	IsBlocked   *bool       `json:"isBlocked,omitempty"`
	BlockReason *string     `json:"blockReason,omitempty"`
	Pricing     *DayPricing `json:"pricing,omitempty"`
	Notes       *string     `json:"notes,omitempty"`
}
