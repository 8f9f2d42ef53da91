package ledger

import (
	"github.com/sovrin-foundation/sovtoken/address"
	"github.com/sovrin-foundation/sovtoken/types"
)

// MintOperation is the operation body of a mint request: newly created
// tokens directed at the given outputs. No inputs, no fees.
type MintOperation struct {
	Type    string         `json:"type"`
	Outputs []types.Output `json:"outputs"`
}

// NewMintRequest builds a mint envelope from a validated output config.
// Outputs keep caller order.
func NewMintRequest(identifier string, cfg *types.OutputMintConfig) (*Request, error) {
	if err := validateOutputs(cfg.Outputs); err != nil {
		return nil, err
	}

	return NewRequest(identifier, &MintOperation{
		Type:    TypeMint,
		Outputs: cfg.Outputs,
	})
}

func validateOutputs(outputs []types.Output) error {
	for _, out := range outputs {
		if err := address.Validate(out.Address); err != nil {
			return err
		}
	}
	return nil
}

func validateInputs(inputs []types.Input) error {
	for _, in := range inputs {
		if err := address.Validate(in.Address); err != nil {
			return err
		}
	}
	return nil
}
