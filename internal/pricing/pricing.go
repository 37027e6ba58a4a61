// Package pricing computes the monetary split of a package price. All
// amounts are currency minor units; the single rounding rule here
// (round-half-up) is the only one the service uses.
package pricing

import (
	"errors"
	"fmt"
)

var ErrInvalidPrice = errors.New("price must be a positive amount")

const (
	commissionPercent = 10
	depositPercent    = 50
)

// Breakdown reconciles to the original price: Deposit+Remaining == Price,
// and ProviderShare is the deposit-time payout after commission.
type Breakdown struct {
	Price         int64 `json:"price"`
	Commission    int64 `json:"commission"`
	Deposit       int64 `json:"deposit"`
	Remaining     int64 `json:"remaining"`
	ProviderShare int64 `json:"provider_share"`
}

func Calculate(price int64) (Breakdown, error) {
	if price <= 0 {
		return Breakdown{}, fmt.Errorf("%w: got %d", ErrInvalidPrice, price)
	}

	commission := percentOf(price, commissionPercent)
	deposit := percentOf(price, depositPercent)

	return Breakdown{
		Price:         price,
		Commission:    commission,
		Deposit:       deposit,
		Remaining:     price - deposit,
		ProviderShare: deposit - commission,
	}, nil
}

// percentOf rounds half-up on minor units.
func percentOf(amount int64, percent int64) int64 {
	return (amount*percent + 50) / 100
}
