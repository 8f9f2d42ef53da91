// Package parser turns ledger response strings back into validated
// user-facing structures. It is the inbound counterpart of package ledger.
package parser

import (
	"bytes"

	"github.com/sovrin-foundation/sovtoken/types"
	"github.com/sovrin-foundation/sovtoken/utils"
)

// Ledger error envelope ops. Their reason is surfaced verbatim.
const (
	opReqNack = "REQNACK"
	opReject  = "REJECT"
)

type errorEnvelope struct {
	Op     string `json:"op"`
	Reason string `json:"reason"`
}

// ledgerError returns a HOST_ERROR when data is a REQNACK/REJECT envelope,
// nil otherwise.
func ledgerError(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var env errorEnvelope
	if err := utils.JSONUnmarshal(data, &env); err != nil {
		return nil
	}
	if env.Op == opReqNack || env.Op == opReject {
		return types.HostError(env.Reason)
	}
	return nil
}

// ParseGetUtxoResponse parses the ledger's answer to a get-utxo request: a
// list of {address, seqNo, amount} objects. The result keeps ledger order.
func ParseGetUtxoResponse(data []byte) ([]types.UTXO, error) {
	return parseUTXOList(data)
}

// ParsePaymentResponse parses the ledger's answer to a payment request. The
// shape is identical to the get-utxo response: the outputs created by the
// transfer.
func ParsePaymentResponse(data []byte) ([]types.UTXO, error) {
	return parseUTXOList(data)
}

func parseUTXOList(data []byte) ([]types.UTXO, error) {
	if err := ledgerError(data); err != nil {
		return nil, err
	}

	var entries []struct {
		Address *string `json:"address"`
		SeqNo   *uint64 `json:"seqNo"`
		Amount  *uint64 `json:"amount"`
	}
	if err := utils.JSONUnmarshal(data, &entries); err != nil {
		return nil, types.InvalidStructure("expected a list of {address, seqNo, amount}: %v", err)
	}

	utxos := make([]types.UTXO, 0, len(entries))
	for _, e := range entries {
		switch {
		case e.Address == nil:
			return nil, types.InvalidStructure("utxo entry missing field `address`")
		case e.SeqNo == nil:
			return nil, types.InvalidStructure("utxo entry missing field `seqNo`")
		case e.Amount == nil:
			return nil, types.InvalidStructure("utxo entry missing field `amount`")
		}
		utxos = append(utxos, types.UTXO{Address: *e.Address, SeqNo: *e.SeqNo, Amount: *e.Amount})
	}
	return utxos, nil
}

type feesEnvelope struct {
	Fees *types.Fees `json:"fees"`
}

// ParseGetTxnFeesResponse parses the ledger's answer to a get-fees request:
// a {"fees": {...}} object wrapping the schedule.
func ParseGetTxnFeesResponse(data []byte) (types.Fees, error) {
	if err := ledgerError(data); err != nil {
		return nil, err
	}

	var env feesEnvelope
	if err := utils.JSONUnmarshal(data, &env); err != nil {
		return nil, types.InvalidStructure("expected a fees object: %v", err)
	}
	if env.Fees == nil {
		return nil, types.InvalidStructure("missing field `fees`")
	}
	if _, err := env.Fees.Total(); err != nil {
		return nil, err
	}
	return *env.Fees, nil
}
