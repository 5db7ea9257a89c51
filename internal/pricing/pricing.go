package pricing

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cocopets/boarding/internal/domain/models"
)

// Input is one quote request. Dates are expected to satisfy StartDate < EndDate;
// the engine does not validate them and callers that skip validation get a
// zero-or-negative duration quote back.
type Input struct {
	PetType           models.PetType
	PetSize           models.PetSize
	StartDate         time.Time
	EndDate           time.Time
	AddOns            []string
	PromoCode         string
	ReturningCustomer bool
}

// Days returns the stay length as the ceiling of the date difference in
// calendar days.
func (in Input) Days() int {
	return int(math.Ceil(in.EndDate.Sub(in.StartDate).Hours() / 24))
}

// Calculate produces a full price breakdown for the request. It is a pure
// function over cfg and in: no defaults are read from globals and nothing is
// persisted. Unknown add-on identifiers contribute zero; an unknown pet size
// falls back to the medium dog rate, and an unknown pet type is priced off the
// dog table.
//
// Each money stage is rounded half-up independently: the discount is rounded
// from the add-on-inclusive subtotal, the tax from the discounted subtotal,
// and each deposit option from the total. The invariant
// total = subtotal - discount + tax holds for every input.
func Calculate(cfg Config, in Input) models.PriceQuote {
	days := in.Days()

	quote := models.PriceQuote{
		PetType: in.PetType,
		PetSize: in.PetSize,
		Days:    days,
	}

	quote.DailyRate = dailyRate(cfg, in.PetType, in.PetSize)
	quote.Subtotal = quote.DailyRate * int64(days)

	for _, id := range in.AddOns {
		rate, ok := cfg.AddOnRates[id]
		if !ok {
			continue
		}
		quote.AddOnsTotal += rate * int64(days)
	}
	quote.Subtotal += quote.AddOnsTotal

	var (
		percent int64
		fixed   int64
		reasons []string
	)

	for _, tier := range cfg.Tiers {
		if days >= tier.MinDays {
			percent += tier.Percent
			reasons = append(reasons, tier.Label)
			break
		}
	}

	if in.ReturningCustomer {
		percent += cfg.ReturningPercent
		reasons = append(reasons, fmt.Sprintf("Returning customer (%d%%)", cfg.ReturningPercent))
	}

	if in.PromoCode != "" {
		if promo, ok := cfg.Promos[in.PromoCode]; ok && days >= promo.MinDays {
			switch promo.Type {
			case PromoPercentage:
				percent += promo.Value
				reasons = append(reasons, fmt.Sprintf("Promo code %s (%d%%)", promo.Code, promo.Value))
			case PromoFixed:
				fixed += promo.Value
				reasons = append(reasons, fmt.Sprintf("Promo code %s (%s off)", promo.Code, FormatCents(promo.Value)))
			}
		}
	}

	quote.DiscountPercentage = percent
	quote.DiscountAmount = roundPercent(quote.Subtotal, percent) + fixed
	if quote.DiscountAmount > quote.Subtotal {
		quote.DiscountAmount = quote.Subtotal
	}

	if len(reasons) == 0 {
		quote.DiscountReason = "No discount"
	} else {
		quote.DiscountReason = strings.Join(reasons, " + ")
	}

	afterDiscount := quote.Subtotal - quote.DiscountAmount
	quote.TaxAmount = roundBps(afterDiscount, cfg.TaxRateBps)
	quote.Total = afterDiscount + quote.TaxAmount

	quote.Deposit30 = roundPercent(quote.Total, 30)
	quote.Deposit50 = roundPercent(quote.Total, 50)

	return quote
}

func dailyRate(cfg Config, petType models.PetType, petSize models.PetSize) int64 {
	if petType == models.PetTypeCat {
		return cfg.CatDailyRate
	}
	if rate, ok := cfg.DogDailyRates[petSize]; ok {
		return rate
	}
	return cfg.DogDailyRates[models.PetSizeMedium]
}

// roundPercent computes amount*percent/100 in cents, rounded half-up.
func roundPercent(amount, percent int64) int64 {
	return (amount*percent + 50) / 100
}

// roundBps computes amount*bps/10000 in cents, rounded half-up.
func roundBps(amount, bps int64) int64 {
	return (amount*bps + 5000) / 10000
}

// FormatCents renders an amount in cents as a dollar string, e.g. 23906 ->
// "$239.06".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
