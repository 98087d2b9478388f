package model

// Money is an amount in whole units of the event currency.
type Money int64

type ChargeKind string

const (
	ChargeFixed         ChargeKind = "fixed"
	ChargeQuoteRequired ChargeKind = "quote_required"
)

// Charge is either a fixed amount or a price left open for manual quoting.
// A quote-required charge never carries an amount.
type Charge struct {
	Kind   ChargeKind `json:"kind" bson:"kind"`
	Amount Money      `json:"amount,omitempty" bson:"amount,omitempty"`
}

func FixedCharge(amount Money) Charge {
	return Charge{Kind: ChargeFixed, Amount: amount}
}

func QuoteRequiredCharge() Charge {
	return Charge{Kind: ChargeQuoteRequired}
}

func (c Charge) IsQuoteRequired() bool {
	return c.Kind == ChargeQuoteRequired
}

// Quote is the price breakdown of a stay. Driver is nil when no driver
// service was requested. When QuotePending is set, Total covers only the
// fixed components.
type Quote struct {
	Nights        int     `json:"nights" bson:"nights"`
	Accommodation Money   `json:"accommodation" bson:"accommodation"`
	Driver        *Charge `json:"driver,omitempty" bson:"driver,omitempty"`
	Total         Money   `json:"total" bson:"total"`
	QuotePending  bool    `json:"quote_pending" bson:"quote_pending"`
}
