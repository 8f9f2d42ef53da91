package ledger

import "github.com/sovrin-foundation/sovtoken/address"

// GetUtxoOperation is the operation body querying the unspent outputs of a
// single payment address.
type GetUtxoOperation struct {
	Address string `json:"address"`
	Type    string `json:"type"`
}

// NewGetUtxoRequest builds a get-utxo envelope for a validated address.
func NewGetUtxoRequest(identifier, paymentAddress string) (*Request, error) {
	if err := address.Validate(paymentAddress); err != nil {
		return nil, err
	}

	return NewRequest(identifier, &GetUtxoOperation{
		Address: paymentAddress,
		Type:    TypeGetUtxo,
	})
}
