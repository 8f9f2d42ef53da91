package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/sovrin-foundation/sovtoken/utils"
)

// Input identifies a spendable UTXO to be consumed by a payment. It is
// immutable once constructed.
//
// An Input deserializes from either of two wire shapes:
//
//   - a string holding the compact TXO form, "txo:sov:<base58check(...)>";
//   - an object with required "address" and "seqNo" fields. "signature" and
//     "extra" are tolerated and dropped; they belong to the signed envelope,
//     not to the input itself.
//
// Serialization always emits the object form, so round-tripping ledger data
// is well defined.
type Input struct {
	Address string `json:"address"`
	SeqNo   uint64 `json:"seqNo"`
}

// NewInput constructs an Input.
func NewInput(address string, seqNo uint64) Input {
	return Input{Address: address, SeqNo: seqNo}
}

// String is the signing-surface rendering of an input: the sequence number
// concatenated with the address.
func (i Input) String() string {
	return fmt.Sprintf("%d%s", i.SeqNo, i.Address)
}

// MarshalJSON always emits the canonical object form.
func (i Input) MarshalJSON() ([]byte, error) {
	type plain Input
	return utils.JSONMarshal(plain(i))
}

// UnmarshalJSON dispatches on the JSON token kind: strings are treated as
// compact TXO references, objects as the explicit shape. Anything else is a
// structural error.
func (i *Input) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return InvalidStructure("expected an input with address and seqNo")
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return InvalidStructure("invalid input string: %v", err)
		}
		txo, err := TXOFromLibindyString(s)
		if err != nil {
			return err
		}
		*i = Input{Address: txo.Address, SeqNo: txo.SeqNo}
		return nil

	case '{':
		address, seqNo, err := decodeAddressSeqNoObject(data)
		if err != nil {
			return err
		}
		*i = Input{Address: address, SeqNo: seqNo}
		return nil

	default:
		return InvalidStructure("expected an input with address and seqNo")
	}
}

// decodeAddressSeqNoObject decodes a JSON object that must carry "address"
// and "seqNo". Shared by Input and TXO decoding so the two wire shapes
// cannot drift apart.
func decodeAddressSeqNoObject(data []byte) (string, uint64, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return "", 0, InvalidStructure("expected an input with address and seqNo: %v", err)
	}

	var address *string
	var seqNo *uint64

	for key, raw := range fields {
		switch key {
		case "address":
			var a string
			if err := json.Unmarshal(raw, &a); err != nil {
				return "", 0, InvalidStructure("field `address` must be a string")
			}
			address = &a
		case "seqNo":
			var n uint64
			if err := json.Unmarshal(raw, &n); err != nil {
				return "", 0, InvalidStructure("field `seqNo` must be a non-negative integer")
			}
			seqNo = &n
		case "signature", "extra":
			// Host-supplied envelope fields, dropped here.
		default:
			return "", 0, InvalidStructure("unknown field `%s`", key)
		}
	}

	if address == nil {
		return "", 0, InvalidStructure("missing field `address`")
	}
	if seqNo == nil {
		return "", 0, InvalidStructure("missing field `seqNo`")
	}

	return *address, *seqNo, nil
}
