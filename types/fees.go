package types

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/sovrin-foundation/sovtoken/utils"
)

// Fees maps a transaction-type tag (the ledger's string identifier, e.g.
// "10001") to the token amount charged for that type. An absent key means
// no fee for that type.
type Fees map[string]uint64

// UnmarshalJSON decodes the fee schedule token by token so that duplicate
// keys can be rejected; map decoding would silently keep the last one.
func (f *Fees) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return InvalidStructure("fees must be an object: %v", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return InvalidStructure("fees must be an object")
	}

	fees := make(Fees)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return InvalidStructure("malformed fees object: %v", err)
		}
		key := keyTok.(string)

		if _, dup := fees[key]; dup {
			return InvalidStructure("duplicate fee key `%s`", key)
		}

		valTok, err := dec.Token()
		if err != nil {
			return InvalidStructure("malformed fees object: %v", err)
		}
		num, ok := valTok.(json.Number)
		if !ok {
			return InvalidStructure("fee for `%s` must be a non-negative integer", key)
		}
		amount, err := strconv.ParseUint(num.String(), 10, 64)
		if err != nil {
			return InvalidStructure("fee for `%s` must be a non-negative integer", key)
		}

		fees[key] = amount
	}

	if _, err := dec.Token(); err != nil {
		return InvalidStructure("malformed fees object: %v", err)
	}

	*f = fees
	return nil
}

// Amount returns the fee for a transaction-type tag, zero when no fee is
// set.
func (f Fees) Amount(txnType string) uint64 {
	return f[txnType]
}

// Total sums the schedule with an explicit 64-bit overflow check.
func (f Fees) Total() (uint64, error) {
	amounts := make([]uint64, 0, len(f))
	for _, a := range f {
		amounts = append(amounts, a)
	}
	total, err := utils.SumAmounts(amounts)
	if err != nil {
		return 0, InvalidStructure("fee schedule overflows: %v", err)
	}
	return total, nil
}
