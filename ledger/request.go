// Package ledger assembles the request envelopes the Sovrin ledger expects.
// Builders are pure: typed config in, canonical JSON envelope out. The host
// signs and submits; nothing here touches the network.
package ledger

import (
	"sync/atomic"
	"time"

	"github.com/sovrin-foundation/sovtoken/types"
	"github.com/sovrin-foundation/sovtoken/utils"
)

// ProtocolVersion is the envelope protocol version agreed with the ledger.
const ProtocolVersion = 1

// Operation type tags. These strings are part of the external contract and
// must be bit-exact on the wire.
const (
	TypeMint    = "10000"
	TypeXfer    = "10001"
	TypeGetUtxo = "10002"
	TypeSetFees = "20000"
	TypeGetFees = "20001"
)

// Request is the uniform envelope wrapping every operation. The canonical
// JSON of the whole envelope, keys in declared order, is the signing
// surface; the envelope itself never carries a signature.
type Request struct {
	Identifier      string      `json:"identifier"`
	ReqID           uint64      `json:"reqId"`
	ProtocolVersion int         `json:"protocolVersion"`
	Operation       interface{} `json:"operation"`
}

// NewRequest wraps an operation body in a fresh envelope for the given
// signer identifier.
func NewRequest(identifier string, operation interface{}) (*Request, error) {
	if identifier == "" {
		return nil, types.InvalidStructure("identifier must not be empty")
	}
	return &Request{
		Identifier:      identifier,
		ReqID:           NewReqID(),
		ProtocolVersion: ProtocolVersion,
		Operation:       operation,
	}, nil
}

// Serialize renders the envelope as canonical JSON.
func (r *Request) Serialize() ([]byte, error) {
	data, err := utils.JSONMarshal(r)
	if err != nil {
		return nil, types.InvalidStructure("cannot serialize request: %v", err)
	}
	return data, nil
}

// SignableBytes are the bytes the host signs: identical to Serialize, kept
// as a separate entry point so the signing surface is named.
func (r *Request) SignableBytes() ([]byte, error) {
	return r.Serialize()
}

var lastReqID atomic.Uint64

// NewReqID returns a request id that is strictly unique within the process:
// wall-clock nanoseconds, bumped past the previous id when the clock has
// not advanced.
func NewReqID() uint64 {
	for {
		id := uint64(time.Now().UnixNano())
		last := lastReqID.Load()
		if id <= last {
			id = last + 1
		}
		if lastReqID.CompareAndSwap(last, id) {
			return id
		}
	}
}
