package pricing

import "github.com/cocopets/boarding/internal/domain/models"

// PromoType distinguishes percentage promos from flat dollar-off promos.
type PromoType string

const (
	PromoPercentage PromoType = "percentage"
	PromoFixed      PromoType = "fixed"
)

// Promo is one entry of the promo-code catalog. Value is a percentage for
// percentage promos and an amount in cents for fixed promos.
type Promo struct {
	Code        string    `json:"code"`
	Type        PromoType `json:"type"`
	Value       int64     `json:"value"`
	MinDays     int       `json:"minDays"`
	Description string    `json:"description"`
}

// Tier is one duration-based discount bracket. Label is the audit fragment
// appended to the quote's discount reason.
type Tier struct {
	MinDays int    `json:"minDays"`
	Percent int64  `json:"percent"`
	Label   string `json:"label"`
}

// Config carries every rate table the engine consults. It is built once at
// startup and passed in by value so Calculate stays a pure function.
type Config struct {
	CatDailyRate     int64                    `json:"catDailyRate"`
	DogDailyRates    map[models.PetSize]int64 `json:"dogDailyRates"`
	AddOnRates       map[string]int64         `json:"addOnRates"`
	Promos           map[string]Promo         `json:"promos"`
	Tiers            []Tier                   `json:"tiers"`
	ReturningPercent int64                    `json:"returningPercent"`
	TaxRateBps       int64                    `json:"taxRateBps"`
}

// DefaultConfig returns the facility's standard rate card. Tiers must stay
// ordered longest stay first; Calculate applies the first one that matches.
func DefaultConfig() Config {
	return Config{
		CatDailyRate: 2500,
		DogDailyRates: map[models.PetSize]int64{
			models.PetSizeSmall:  4000,
			models.PetSizeMedium: 5000,
			models.PetSizeLarge:  6000,
		},
		AddOnRates: map[string]int64{
			"grooming":     3500,
			"playtime":     1500,
			"training":     4000,
			"photoUpdates": 1000,
			"specialDiet":  800,
		},
		Promos: map[string]Promo{
			"WELCOME10": {Code: "WELCOME10", Type: PromoPercentage, Value: 10, MinDays: 1, Description: "10% off your first stay"},
			"SUMMER15":  {Code: "SUMMER15", Type: PromoPercentage, Value: 15, MinDays: 7, Description: "15% off weekly summer stays"},
			"TREAT500":  {Code: "TREAT500", Type: PromoFixed, Value: 500, MinDays: 3, Description: "$5 off stays of 3+ days"},
		},
		Tiers: []Tier{
			{MinDays: 30, Percent: 15, Label: "Monthly discount (15%)"},
			{MinDays: 14, Percent: 12, Label: "Bi-weekly discount (12%)"},
			{MinDays: 7, Percent: 10, Label: "Weekly discount (10%)"},
		},
		ReturningPercent: 5,
		TaxRateBps:       625,
	}
}
