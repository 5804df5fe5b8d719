// Package pricing computes the tiered registration fee. The fee is
// piecewise-constant over calendar cutoffs, inclusive through the end
// of each boundary day, and never rejects late registrations.
package pricing

import "time"

// ShirtPrice is the flat add-on charged when the registrant opts into
// the camp shirt.
const ShirtPrice = 40

type tier struct {
	year, month, day int
	price            int
}

// Cutoffs are evaluated at 23:59:59.999 local time so a submission made
// anywhere during the last eligible day still gets that tier's price.
var tiers = []tier{
	{2025, 12, 31, 150},
	{2026, 1, 15, 170},
	{2026, 1, 30, 180},
	{2026, 2, 10, 200},
}

// PriceFor returns the registration fee for a submission made at now.
// Dates past the last cutoff keep the final tier's price.
func PriceFor(now time.Time) int {
	for _, t := range tiers {
		cutoff := time.Date(t.year, time.Month(t.month), t.day, 23, 59, 59, 999_000_000, now.Location())
		if !now.After(cutoff) {
			return t.price
		}
	}
	return tiers[len(tiers)-1].price
}

// Quote breaks a submission's price into fee, shirt add-on, and total.
func Quote(now time.Time, wantsShirt bool) (fee, shirtFee, total int) {
	fee = PriceFor(now)
	if wantsShirt {
		shirtFee = ShirtPrice
	}
	return fee, shirtFee, fee + shirtFee
}
