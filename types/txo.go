package types

import (
	"strings"

	"github.com/sovrin-foundation/sovtoken/utils"
)

// TXOPrefix qualifies the compact wire form of a transaction-output
// reference.
const TXOPrefix = "txo:sov:"

// TXO is a reference to a transaction output on the ledger: the payment
// address that owns it and the ledger sequence number that created it.
type TXO struct {
	Address string `json:"address"`
	SeqNo   uint64 `json:"seqNo"`
}

// ToLibindyString encodes the TXO the way libindy passes it around:
// "txo:sov:" followed by the base58check of the canonical JSON object.
func (t TXO) ToLibindyString() (string, error) {
	payload, err := utils.JSONMarshal(t)
	if err != nil {
		return "", InvalidStructure("cannot serialize txo: %v", err)
	}
	return TXOPrefix + utils.Base58CheckEncode(payload), nil
}

// TXOFromLibindyString decodes the compact wire form back into a TXO,
// verifying the prefix, the checksum and the embedded JSON shape.
func TXOFromLibindyString(s string) (TXO, error) {
	body, ok := strings.CutPrefix(s, TXOPrefix)
	if !ok {
		return TXO{}, InvalidStructure("txo string must start with %q", TXOPrefix)
	}

	payload, err := utils.Base58CheckDecode(body)
	if err != nil {
		return TXO{}, InvalidStructure("malformed txo string: %v", err)
	}

	address, seqNo, err := decodeAddressSeqNoObject(payload)
	if err != nil {
		return TXO{}, err
	}

	return TXO{Address: address, SeqNo: seqNo}, nil
}

// UTXO is a spendable output as reported by the ledger: a TXO plus the
// token amount it holds.
type UTXO struct {
	Address string `json:"address"`
	SeqNo   uint64 `json:"seqNo"`
	Amount  uint64 `json:"amount"`
}

// TXO returns the output reference part of the UTXO.
func (u UTXO) TXO() TXO {
	return TXO{Address: u.Address, SeqNo: u.SeqNo}
}
