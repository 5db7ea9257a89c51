package models

// PriceQuote is the breakdown produced by the pricing engine. All money fields
// are integer cents; each stage is rounded independently before the next one
// is computed, so re-running the formula in order reproduces the stored total.
type PriceQuote struct {
	PetType            PetType `bson:"pet_type" json:"petType"`
	PetSize            PetSize `bson:"pet_size,omitempty" json:"petSize,omitempty"`
	DailyRate          int64   `bson:"daily_rate" json:"dailyRate"`
	Days               int     `bson:"days" json:"days"`
	AddOnsTotal        int64   `bson:"addons_total" json:"addOnsTotal"`
	Subtotal           int64   `bson:"subtotal" json:"subtotal"`
	DiscountPercentage int64   `bson:"discount_percentage" json:"discountPercentage"`
	DiscountAmount     int64   `bson:"discount_amount" json:"discount"`
	DiscountReason     string  `bson:"discount_reason" json:"discountReason"`
	TaxAmount          int64   `bson:"tax_amount" json:"tax"`
	Total              int64   `bson:"total" json:"total"`
	Deposit30          int64   `bson:"deposit_30" json:"deposit30"`
	Deposit50          int64   `bson:"deposit_50" json:"deposit50"`
}
