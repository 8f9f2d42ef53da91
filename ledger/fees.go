package ledger

import "github.com/sovrin-foundation/sovtoken/types"

// SetFeesOperation is the operation body installing a fee schedule.
type SetFeesOperation struct {
	Type string     `json:"type"`
	Fees types.Fees `json:"fees"`
}

// GetFeesOperation is the operation body querying the fee schedule. It
// carries nothing but the type tag.
type GetFeesOperation struct {
	Type string `json:"type"`
}

// NewSetFeesRequest builds a set-fees envelope from a validated schedule.
func NewSetFeesRequest(identifier string, fees types.Fees) (*Request, error) {
	if len(fees) == 0 {
		return nil, types.InvalidStructure("fee schedule must not be empty")
	}
	if _, err := fees.Total(); err != nil {
		return nil, err
	}

	return NewRequest(identifier, &SetFeesOperation{
		Type: TypeSetFees,
		Fees: fees,
	})
}

// NewGetFeesRequest builds a get-fees envelope.
func NewGetFeesRequest(identifier string) (*Request, error) {
	return NewRequest(identifier, &GetFeesOperation{Type: TypeGetFees})
}
