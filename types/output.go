package types

import (
	"bytes"
	"encoding/json"

	"github.com/sovrin-foundation/sovtoken/utils"
)

// Output directs a token amount to a payment address. The optional extra
// field is carried through untouched.
//
// An Output deserializes from an object {"address", "amount", "extra"?} or
// from the positional array form [address, amount, extra?] some ledger
// tooling emits. The amount may arrive as a JSON number or as a decimal
// string; it must be a non-negative 64-bit integer either way.
// Serialization always emits the object form.
type Output struct {
	Address string `json:"address"`
	Amount  uint64 `json:"amount"`
	Extra   string `json:"extra,omitempty"`
}

// NewOutput constructs an Output.
func NewOutput(address string, amount uint64) Output {
	return Output{Address: address, Amount: amount}
}

// MarshalJSON always emits the canonical object form.
func (o Output) MarshalJSON() ([]byte, error) {
	type plain Output
	return utils.JSONMarshal(plain(o))
}

// UnmarshalJSON accepts the object and positional array shapes.
func (o *Output) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return InvalidStructure("expected an output with address and amount")
	}

	switch trimmed[0] {
	case '{':
		return o.unmarshalObject(data)
	case '[':
		return o.unmarshalArray(data)
	default:
		return InvalidStructure("expected an output with address and amount")
	}
}

func (o *Output) unmarshalObject(data []byte) error {
	var aux struct {
		Address *string          `json:"address"`
		Amount  *json.RawMessage `json:"amount"`
		Extra   string           `json:"extra"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return InvalidStructure("expected an output with address and amount: %v", err)
	}
	if aux.Address == nil {
		return InvalidStructure("missing field `address`")
	}
	if aux.Amount == nil {
		return InvalidStructure("missing field `amount`")
	}

	amount, err := decodeAmount(*aux.Amount)
	if err != nil {
		return err
	}

	*o = Output{Address: *aux.Address, Amount: amount, Extra: aux.Extra}
	return nil
}

func (o *Output) unmarshalArray(data []byte) error {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return InvalidStructure("expected an output array [address, amount, extra?]: %v", err)
	}
	if len(elems) < 2 || len(elems) > 3 {
		return InvalidStructure("output array must be [address, amount, extra?]")
	}

	var address string
	if err := json.Unmarshal(elems[0], &address); err != nil {
		return InvalidStructure("field `address` must be a string")
	}

	amount, err := decodeAmount(elems[1])
	if err != nil {
		return err
	}

	var extra string
	if len(elems) == 3 {
		if err := json.Unmarshal(elems[2], &extra); err != nil {
			return InvalidStructure("field `extra` must be a string")
		}
	}

	*o = Output{Address: address, Amount: amount, Extra: extra}
	return nil
}

func decodeAmount(raw json.RawMessage) (uint64, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, InvalidStructure("field `amount` must be a non-negative integer")
		}
		amount, err := utils.ValidateAmount(s)
		if err != nil {
			return 0, InvalidStructure("field `amount`: %v", err)
		}
		return amount, nil
	}

	var amount uint64
	if err := json.Unmarshal(raw, &amount); err != nil {
		return 0, InvalidStructure("field `amount` must be a non-negative integer")
	}
	return amount, nil
}
