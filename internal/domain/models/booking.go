package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingStatus enumerates the booking lifecycle.
type BookingStatus string

const (
	BookingPendingPayment BookingStatus = "pending_payment"
	BookingConfirmed      BookingStatus = "confirmed"
	BookingCompleted      BookingStatus = "completed"
	BookingCancelled      BookingStatus = "cancelled"
)

// DepositPercent is the portion of the total charged at checkout. 100 means
// full payment upfront; 30 and 50 are the advisory deposit options.
type DepositPercent int

const (
	DepositThirty DepositPercent = 30
	DepositFifty  DepositPercent = 50
	DepositFull   DepositPercent = 100
)

// Booking is a stay reservation for one pet.
type Booking struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Reference       string             `bson:"reference" json:"reference"`
	UserID          primitive.ObjectID `bson:"user_id" json:"userId"`
	PetID           primitive.ObjectID `bson:"pet_id" json:"petId"`
	PetType         PetType            `bson:"pet_type" json:"petType"`
	PetSize         PetSize            `bson:"pet_size,omitempty" json:"petSize,omitempty"`
	StartDate       time.Time          `bson:"start_date" json:"startDate"`
	EndDate         time.Time          `bson:"end_date" json:"endDate"`
	AddOns          []string           `bson:"addons,omitempty" json:"addOns,omitempty"`
	PromoCode       string             `bson:"promo_code,omitempty" json:"promoCode,omitempty"`
	Quote           PriceQuote         `bson:"quote" json:"quote"`
	DepositPercent  DepositPercent     `bson:"deposit_percent" json:"depositPercent"`
	AmountDue       int64              `bson:"amount_due" json:"amountDue"`
	Status          BookingStatus      `bson:"status" json:"status"`
	StripeSessionID string             `bson:"stripe_session_id,omitempty" json:"-"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}
