package utils

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

var maxTokenAmount = decimal.NewFromBigInt(new(big.Int).SetUint64(^uint64(0)), 0)

// ValidateAmount parses a string-borne token amount. Ledger clients send
// amounts both as JSON numbers and as decimal strings; either way the value
// must be a non-negative integer that fits in 64 bits.
func ValidateAmount(amount string) (uint64, error) {
	if amount == "" {
		return 0, fmt.Errorf("amount cannot be empty")
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("invalid amount format: %w", err)
	}

	if dec.IsNegative() {
		return 0, fmt.Errorf("amount cannot be negative")
	}

	if !dec.Equal(dec.Truncate(0)) {
		return 0, fmt.Errorf("amount must be a whole number of tokens")
	}

	if dec.GreaterThan(maxTokenAmount) {
		return 0, fmt.Errorf("amount exceeds 64 bits")
	}

	return dec.BigInt().Uint64(), nil
}

// SumAmounts adds token amounts with an explicit 64-bit overflow check.
func SumAmounts(amounts []uint64) (uint64, error) {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromBigInt(new(big.Int).SetUint64(a), 0))
	}
	if total.GreaterThan(maxTokenAmount) {
		return 0, fmt.Errorf("total amount exceeds 64 bits")
	}
	return total.BigInt().Uint64(), nil
}
